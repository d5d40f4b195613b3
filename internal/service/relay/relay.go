package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/veritas/internal/core"
	"github.com/sandevgo/veritas/pkg/log"
)

var (
	ErrMissingUserID  = errors.New("user id is required")
	ErrMissingMessage = errors.New("message is required")
)

// Relay orchestrates one chat turn: load history, append the user turn,
// translate, stream the completion to the caller while accumulating it, and
// commit the full turn only after the stream ends. It holds no state across
// requests; everything round-trips through the repository.
type Relay struct {
	repo      core.ConversationRepository
	provider  core.StreamProvider
	directive string
}

func New(repo core.ConversationRepository, provider core.StreamProvider) *Relay {
	return &Relay{
		repo:      repo,
		provider:  provider,
		directive: SystemDirective,
	}
}

// StartSession seeds a fresh conversation with the welcome turn and returns
// the welcome text. A save failure is logged, not surfaced: the caller still
// gets the welcome message.
func (r *Relay) StartSession(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrMissingUserID
	}

	conv := core.Conversation{core.NewModelTurn(WelcomeMessage)}
	if err := r.repo.Save(ctx, userID, conv); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("user_id", userID).Msg("failed to save initial session")
	}
	return WelcomeMessage, nil
}

// History returns the stored conversation, degrading to empty on any backend
// failure. Starting fresh beats failing the request.
func (r *Relay) History(ctx context.Context, userID string) (core.Conversation, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	return r.loadOrEmpty(ctx, userID), nil
}

// Chat runs the streaming turn. Every content fragment is forwarded through
// onFragment in arrival order and simultaneously accumulated; the updated
// conversation is persisted only after the stream ends with a non-empty
// reply. A failure to open the upstream stream is returned as-is with
// nothing appended or saved.
func (r *Relay) Chat(ctx context.Context, userID, message string, onFragment func(fragment string) error) error {
	if userID == "" {
		return ErrMissingUserID
	}
	if message == "" {
		return ErrMissingMessage
	}

	logger := log.FromCtx(ctx)

	conv := r.loadOrEmpty(ctx, userID)
	conv = append(conv, core.NewUserTurn(message))

	messages := Translate(conv, r.directive)
	r.debugTokens(ctx, messages)

	events, err := r.provider.ChatStream(ctx, messages)
	if err != nil {
		return fmt.Errorf("open upstream stream: %w", err)
	}

	var reply strings.Builder
	aborted := false

	for event := range events {
		if event.Err != nil {
			// Fatal to the stream; whatever accumulated so far is still the
			// candidate reply.
			if err := onFragment(fmt.Sprintf("\n[STREAM ERROR] %v", event.Err)); err != nil {
				aborted = true
			}
			break
		}

		reply.WriteString(event.Content)
		if err := onFragment(event.Content); err != nil {
			logger.Warn().Err(err).Str("user_id", userID).Msg("caller went away mid-stream")
			aborted = true
			break
		}
	}

	if ctx.Err() != nil {
		aborted = true
	}

	if aborted {
		// A partial reply must not be committed as if it were complete.
		logger.Info().Str("user_id", userID).Msg("stream aborted, skipping commit")
		return nil
	}

	if reply.Len() == 0 {
		// An empty reply means total upstream failure; persisting it would
		// create a phantom assistant turn.
		logger.Warn().Str("user_id", userID).Msg("empty reply, skipping save")
		return nil
	}

	conv = append(conv, core.NewModelTurn(reply.String()))
	if err := r.repo.Save(ctx, userID, conv); err != nil {
		// The caller already has the full response; durability loses to
		// availability here.
		logger.Error().Err(err).Str("user_id", userID).Msg("failed to save conversation")
	}

	return nil
}

func (r *Relay) loadOrEmpty(ctx context.Context, userID string) core.Conversation {
	conv, err := r.repo.Load(ctx, userID)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("user_id", userID).Msg("failed to load history, starting fresh")
		return nil
	}
	return conv
}
