package core

const (
	AppName      = "Veritas"
	AppUserAgent = "Veritas-Relay/0.1"
	AppVersion   = "0.1.0"
)

// Stored turn roles. The browser client speaks the Gemini-style convention,
// where the assistant side is called "model". The provider-facing "assistant"
// role exists only past the translation boundary.
const (
	RoleUser      = "user"
	RoleModel     = "model"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Part is the structured content variant of a turn.
type Part struct {
	Text string `json:"text"`
}

// Turn is one message in a conversation, in the shape the client sends and
// the store persists. Content arrives in one of two places: Parts (takes
// precedence) or the flat Text field.
type Turn struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts,omitempty"`
	Text  string `json:"text,omitempty"`
}

// Content resolves the two-variant content shape. Returns "" when neither
// variant carries text.
func (t Turn) Content() string {
	if len(t.Parts) > 0 && t.Parts[0].Text != "" {
		return t.Parts[0].Text
	}
	return t.Text
}

// NewUserTurn builds a user turn in the structured-parts shape.
func NewUserTurn(text string) Turn {
	return Turn{Role: RoleUser, Parts: []Part{{Text: text}}}
}

// NewModelTurn builds an assistant turn in the structured-parts shape.
func NewModelTurn(text string) Turn {
	return Turn{Role: RoleModel, Parts: []Part{{Text: text}}}
}

// Conversation is the ordered turn sequence for one user identity. It is
// append-only: turns are never mutated or removed once committed.
type Conversation []Turn

// ProviderMessage is the upstream chat-completions message shape.
type ProviderMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
