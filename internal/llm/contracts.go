package llm

import "context"

// Normalizer is the interface the pipeline depends on: one prompt in,
// the raw agent text out. Implementations issue a single request with
// deterministic sampling; no refinement, no retry.
type Normalizer interface {
	Normalize(ctx context.Context, prompt string) (string, error)
}
