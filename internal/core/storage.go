package core

import "context"

// ConversationRepository persists one conversation per user identity.
//
// Load returns (nil, nil) when no record exists; any other failure is
// returned as an error and the caller decides how to degrade.
// Save replaces the whole stored conversation (upsert keyed on userID).
type ConversationRepository interface {
	Load(ctx context.Context, userID string) (Conversation, error)
	Save(ctx context.Context, userID string, conv Conversation) error
}
