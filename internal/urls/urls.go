package urls

// SlackAPI is the base URL of the Slack Web API. Method names are appended to it.
const SlackAPI = "https://slack.com/api/"

// Documentation URLs for guides and troubleshooting

// SocketMode explains app-level tokens and the Socket Mode envelope protocol.
const SocketMode = "https://api.slack.com/apis/socket-mode"

// ViewsUpdate documents views.update, including the hash field used to
// detect races between concurrent updates.
const ViewsUpdate = "https://api.slack.com/methods/views.update"

// ViewsOpen documents views.open and the trigger_id expiry.
const ViewsOpen = "https://api.slack.com/methods/views.open"

// TokenTypes describes bot (xoxb-) and app-level (xapp-) tokens.
const TokenTypes = "https://api.slack.com/authentication/token-types"

// CheckboxesElement documents initial_options and how user input supersedes it.
const CheckboxesElement = "https://api.slack.com/reference/block-kit/block-elements#checkboxes"
