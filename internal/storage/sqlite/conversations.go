package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sandevgo/veritas/internal/core"
	"github.com/sandevgo/veritas/pkg/log"
)

// ConversationsRepo stores one conversation per user identity as a single
// JSON blob, rewritten in full on every save.
type ConversationsRepo struct {
	db *sql.DB
}

func NewConversationsRepo(db *sql.DB) *ConversationsRepo {
	return &ConversationsRepo{db: db}
}

// Load returns the stored conversation, or (nil, nil) when the user has no
// record yet. "Zero rows" is not an error here: a new user and a backend
// failure must stay distinguishable.
func (r *ConversationsRepo) Load(ctx context.Context, userID string) (core.Conversation, error) {
	query := `SELECT history FROM chat_sessions WHERE user_id = ?`

	var raw string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation: %w", err)
	}

	var conv core.Conversation
	if err := json.Unmarshal([]byte(raw), &conv); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}

	log.FromCtx(ctx).Debug().Str("user_id", userID).Int("turns", len(conv)).Msg("loaded conversation")
	return conv, nil
}

// Save upserts the whole conversation keyed on user_id: insert-if-absent,
// overwrite-if-present.
func (r *ConversationsRepo) Save(ctx context.Context, userID string, conv core.Conversation) error {
	raw, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}

	query := `INSERT INTO chat_sessions (user_id, history, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO UPDATE SET history = excluded.history, updated_at = CURRENT_TIMESTAMP`
	if _, err := r.db.ExecContext(ctx, query, userID, string(raw)); err != nil {
		return fmt.Errorf("failed to upsert conversation: %w", err)
	}

	log.FromCtx(ctx).Debug().Str("user_id", userID).Int("turns", len(conv)).Msg("saved conversation")
	return nil
}
