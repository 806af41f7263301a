package llm

import "context"

// Generator completes a prompt. Implementations are asked to answer with a
// JSON document; callers still validate whatever comes back.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
