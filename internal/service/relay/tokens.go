package relay

import (
	"context"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog"
	"github.com/sandevgo/veritas/internal/core"
	"github.com/sandevgo/veritas/pkg/log"
)

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// debugTokens logs a rough prompt size estimate. cl100k_base is not the
// upstream model's tokenizer, so this is an estimate, good enough to spot
// runaway histories in debug logs.
func (r *Relay) debugTokens(ctx context.Context, messages []core.ProviderMessage) {
	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		return
	}
	logger := log.FromCtx(ctx)

	encodingOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			logger.Warn().Err(err).Msg("failed to load token encoding")
			return
		}
		encoding = enc
	})
	if encoding == nil {
		return
	}

	total := 0
	for _, msg := range messages {
		total += len(encoding.Encode(msg.Content, nil, nil))
	}
	logger.Debug().Int("messages", len(messages)).Int("prompt_tokens", total).Msg("prompt size estimate")
}
