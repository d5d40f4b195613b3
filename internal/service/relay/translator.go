package relay

import "github.com/sandevgo/veritas/internal/core"

// Translate converts a stored conversation into the provider message schema,
// with the system directive always first. The stored "model" role maps to the
// provider's "assistant"; turns missing a role or any extractable content are
// skipped rather than failing the whole translation.
func Translate(conv core.Conversation, directive string) []core.ProviderMessage {
	messages := make([]core.ProviderMessage, 0, len(conv)+1)
	messages = append(messages, core.ProviderMessage{
		Role:    core.RoleSystem,
		Content: directive,
	})

	for _, turn := range conv {
		role := turn.Role
		if role == core.RoleModel {
			role = core.RoleAssistant
		}

		content := turn.Content()
		if role == "" || content == "" {
			continue
		}

		messages = append(messages, core.ProviderMessage{
			Role:    role,
			Content: content,
		})
	}

	return messages
}
