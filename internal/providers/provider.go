// internal/providers/provider.go

// Package providers defines the interface for invoking language-model
// completion services. It gives the responder and grader a common abstraction
// over the underlying HTTP API so the pipeline never depends on a concrete
// vendor client.
package providers

import "context"

// CompletionRequest encapsulates one completion call. Temperature is always
// pinned by the caller (0 for benchmark runs) so repeated runs stay comparable.
type CompletionRequest struct {
	Model       string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Completion is the provider's answer plus the reason generation stopped.
// FinishReason is passed through verbatim from the provider ("stop",
// "length", "content_filter", ...); the pipeline itself only introduces the
// synthetic "error" reason for terminal call failures.
type Completion struct {
	Text         string
	FinishReason string
}

// CompletionProvider is the interface all model backends must implement.
type CompletionProvider interface {
	// Complete sends a single-prompt completion request and blocks until
	// the model answers or the context expires.
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
	// Close cleans up any resources used by the provider.
	Close() error
}
