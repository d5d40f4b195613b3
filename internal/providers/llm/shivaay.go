package llm

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/sandevgo/veritas/internal/config"
	"github.com/sandevgo/veritas/internal/core"
	"github.com/sandevgo/veritas/pkg/log"
)

// Sampling parameters are constants of the deployment, not tunable per
// request.
const (
	temperature       = 0.7
	topP              = 0.8
	repetitionPenalty = 1.05
	maxTokens         = 512
)

const (
	ssePrefix    = "data: "
	doneSentinel = "[DONE]"
)

// Shivaay streams completions from the Shivaay (OpenAI-compatible) chat
// endpoint.
type Shivaay struct {
	baseProvider
}

func NewShivaay(cfg *config.ShivaayConfig) *Shivaay {
	return &Shivaay{
		baseProvider: newBaseProvider(cfg.APIURL, cfg.AuthToken, cfg.Model, cfg.StreamTimeout),
	}
}

// ChatStream opens a streaming completion. A non-nil error means no stream
// was established; otherwise the returned channel yields content fragments in
// arrival order and closes on end-of-stream.
func (s *Shivaay) ChatStream(ctx context.Context, messages []core.ProviderMessage) (<-chan core.StreamEvent, error) {
	payload := map[string]any{
		"model":              s.model,
		"messages":           messages,
		"temperature":        temperature,
		"top_p":              topP,
		"repetition_penalty": repetitionPenalty,
		"max_tokens":         maxTokens,
		"stream":             true,
	}

	headers := map[string]string{
		"Authorization": "Bearer " + s.apiKey,
		"User-Agent":    core.AppUserAgent,
	}

	resp, err := s.doRequest(ctx, http.MethodPost, payload, headers)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	events := make(chan core.StreamEvent)
	go s.consume(ctx, resp.Body, events)
	return events, nil
}

func (s *Shivaay) consume(ctx context.Context, body io.ReadCloser, events chan<- core.StreamEvent) {
	defer close(events)
	defer body.Close()

	logger := log.FromCtx(ctx)
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		line = strings.TrimPrefix(line, ssePrefix)
		line = strings.TrimSpace(line)
		if line == "" || line == doneSentinel {
			continue
		}

		content, err := parseDelta([]byte(line))
		if err != nil {
			// One malformed event must not abort the stream.
			logger.Warn().Err(err).Str("event", line).Msg("failed to decode stream event")
			continue
		}
		if content == "" {
			continue
		}

		select {
		case events <- core.StreamEvent{Content: content}:
		case <-ctx.Done():
			return
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		logger.Error().Err(err).Msg("stream read failed")
		select {
		case events <- core.StreamEvent{Err: err}:
		case <-ctx.Done():
		}
	}
}

func parseDelta(data []byte) (string, error) {
	var chunk struct {
		Choices []struct {
			Delta struct {
				Content string `json:"content"`
			} `json:"delta"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &chunk); err != nil {
		return "", err
	}
	if len(chunk.Choices) == 0 {
		return "", nil
	}
	return chunk.Choices[0].Delta.Content, nil
}
