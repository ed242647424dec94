package view

// Block Kit wire types. Only the subset the modal uses is modelled.

// Text is a plain_text or mrkdwn text object
type Text struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji *bool  `json:"emoji,omitempty"`
}

// Option is a single option of a checkboxes element
type Option struct {
	Value string `json:"value"`
	Text  Text   `json:"text"`
}

// Element is an interactive element inside an actions block
type Element struct {
	Type           string   `json:"type"`
	ActionID       string   `json:"action_id"`
	Text           *Text    `json:"text,omitempty"`
	Options        []Option `json:"options,omitempty"`
	InitialOptions []Option `json:"initial_options,omitempty"`
}

// Block is a top-level layout block
type Block struct {
	Type     string    `json:"type"`
	BlockID  string    `json:"block_id,omitempty"`
	Text     *Text     `json:"text,omitempty"`
	Elements []Element `json:"elements,omitempty"`
}

// Modal is the view payload accepted by views.open and views.update
type Modal struct {
	Type       string  `json:"type"`
	CallbackID string  `json:"callback_id"`
	Title      Text    `json:"title"`
	Submit     Text    `json:"submit"`
	Blocks     []Block `json:"blocks"`
}

// Block and element types
const (
	TypeModal      = "modal"
	TypeSection    = "section"
	TypeDivider    = "divider"
	TypeActions    = "actions"
	TypeButton     = "button"
	TypeCheckboxes = "checkboxes"
	TypePlainText  = "plain_text"
	TypeMrkdwn     = "mrkdwn"
)

func plainText(s string) Text {
	return Text{Type: TypePlainText, Text: s}
}

func mrkdwn(s string) *Text {
	return &Text{Type: TypeMrkdwn, Text: s}
}

func section(s string) Block {
	return Block{Type: TypeSection, Text: mrkdwn(s)}
}

func divider() Block {
	return Block{Type: TypeDivider}
}

func button(actionID, label string) Element {
	emoji := false
	return Element{
		Type:     TypeButton,
		ActionID: actionID,
		Text:     &Text{Type: TypePlainText, Text: label, Emoji: &emoji},
	}
}
