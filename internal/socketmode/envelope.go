package socketmode

import (
	"encoding/json"
	"fmt"

	"github.com/muurk/modalstate/internal/controller"
	"github.com/muurk/modalstate/internal/modalerr"
	"github.com/muurk/modalstate/internal/selection"
	"github.com/muurk/modalstate/internal/view"
)

// Envelope types
const (
	TypeHello         = "hello"
	TypeDisconnect    = "disconnect"
	TypeSlashCommands = "slash_commands"
	TypeInteractive   = "interactive"
	TypeEventsAPI     = "events_api"
)

// Interactive payload types
const (
	InteractionBlockActions   = "block_actions"
	InteractionViewSubmission = "view_submission"
	InteractionViewClosed     = "view_closed"
)

// DefaultCommand is the slash command that opens the view
const DefaultCommand = "/modal-test"

// Envelope is a single Socket Mode message
type Envelope struct {
	EnvelopeID             string          `json:"envelope_id,omitempty"`
	Type                   string          `json:"type"`
	Payload                json.RawMessage `json:"payload,omitempty"`
	AcceptsResponsePayload bool            `json:"accepts_response_payload,omitempty"`
	RetryAttempt           int             `json:"retry_attempt,omitempty"`
	RetryReason            string          `json:"retry_reason,omitempty"`

	// hello
	NumConnections int `json:"num_connections,omitempty"`

	// disconnect
	Reason string `json:"reason,omitempty"`
}

// ackMessage is the acknowledgement written back for an envelope
type ackMessage struct {
	EnvelopeID string `json:"envelope_id"`
}

type slashCommand struct {
	Command   string `json:"command"`
	Text      string `json:"text"`
	TriggerID string `json:"trigger_id"`
	UserID    string `json:"user_id"`
	ChannelID string `json:"channel_id"`
}

type interaction struct {
	Type      string `json:"type"`
	TriggerID string `json:"trigger_id"`
	User      struct {
		ID string `json:"id"`
	} `json:"user"`
	View *struct {
		ID         string               `json:"id"`
		Hash       string               `json:"hash"`
		CallbackID string               `json:"callback_id"`
		State      *selection.ViewState `json:"state"`
	} `json:"view"`
	Actions []struct {
		ActionID string `json:"action_id"`
		BlockID  string `json:"block_id"`
		Type     string `json:"type"`
	} `json:"actions"`
}

// Decoder turns envelopes into controller events
type Decoder struct {
	// Command is the slash command that opens the view
	Command string
}

// Decode returns the event carried by env. It returns a nil event for
// envelopes that are well formed but not meant for the controller.
func (d Decoder) Decode(env Envelope) (controller.Event, error) {
	switch env.Type {
	case TypeSlashCommands:
		return d.decodeSlashCommand(env.Payload)
	case TypeInteractive:
		return d.decodeInteraction(env.Payload)
	default:
		return nil, nil
	}
}

func (d Decoder) decodeSlashCommand(payload json.RawMessage) (controller.Event, error) {
	var cmd slashCommand
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return nil, modalerr.NewMalformedEvent("cannot decode slash command payload", err)
	}

	command := d.Command
	if command == "" {
		command = DefaultCommand
	}
	if cmd.Command != command {
		return nil, nil
	}
	if cmd.TriggerID == "" {
		return nil, modalerr.NewMalformedEvent("slash command has no trigger_id", nil)
	}

	return controller.OpenRequested{TriggerID: cmd.TriggerID}, nil
}

func (d Decoder) decodeInteraction(payload json.RawMessage) (controller.Event, error) {
	var in interaction
	if err := json.Unmarshal(payload, &in); err != nil {
		return nil, modalerr.NewMalformedEvent("cannot decode interactive payload", err)
	}

	switch in.Type {
	case InteractionBlockActions:
		if in.View == nil || in.View.CallbackID != view.CallbackID {
			return nil, nil
		}
		if len(in.Actions) == 0 {
			return nil, modalerr.NewMalformedEvent("block_actions payload has no actions", nil)
		}

		ref := view.Ref{ID: in.View.ID, Hash: in.View.Hash}
		switch in.Actions[0].ActionID {
		case view.ActionSelectAll:
			return controller.SelectAllTriggered{View: ref, State: in.View.State}, nil
		case view.ActionSelectNone:
			return controller.SelectNoneTriggered{View: ref, State: in.View.State}, nil
		case view.ActionIDCheckboxes:
			return controller.OptionToggled{View: ref, State: in.View.State}, nil
		default:
			return nil, nil
		}

	case InteractionViewSubmission:
		if in.View == nil {
			return nil, modalerr.NewMalformedEvent("view_submission payload has no view", nil)
		}
		if in.View.CallbackID != view.CallbackID {
			return nil, nil
		}
		return controller.ViewSubmitted{ViewID: in.View.ID}, nil

	case "":
		return nil, modalerr.NewMalformedEvent("interactive payload has no type", nil)

	default:
		return nil, nil
	}
}

// describe returns a short label for logging an envelope
func describe(env Envelope) string {
	if env.EnvelopeID == "" {
		return env.Type
	}
	return fmt.Sprintf("%s/%s", env.Type, env.EnvelopeID)
}
