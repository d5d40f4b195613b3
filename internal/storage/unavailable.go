package storage

import (
	"context"

	"github.com/sandevgo/veritas/internal/core"
	"github.com/sandevgo/veritas/pkg/log"
)

// Unavailable is the repository used when the backing store could not be
// initialized. The process keeps serving chat without persistence: loads
// come back empty and saves are dropped, both logged. Callers get a working
// repository either way instead of a nil handle.
type Unavailable struct{}

func NewUnavailable() Unavailable {
	return Unavailable{}
}

func (Unavailable) Load(ctx context.Context, userID string) (core.Conversation, error) {
	log.FromCtx(ctx).Warn().Str("user_id", userID).Msg("store unavailable, starting with empty history")
	return nil, nil
}

func (Unavailable) Save(ctx context.Context, userID string, conv core.Conversation) error {
	log.FromCtx(ctx).Warn().Str("user_id", userID).Int("turns", len(conv)).Msg("store unavailable, conversation not persisted")
	return nil
}
