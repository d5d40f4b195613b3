package core

import "context"

// StreamEvent is one item read off the upstream completion stream: either a
// content fragment or a fatal mid-stream error. The channel closes on
// end-of-stream.
type StreamEvent struct {
	Content string
	Err     error
}

// StreamProvider opens an incremental completion stream. A non-nil error
// means the stream never opened (connect failure or non-success status) and
// no events will follow.
type StreamProvider interface {
	ChatStream(ctx context.Context, messages []ProviderMessage) (<-chan StreamEvent, error)
}
