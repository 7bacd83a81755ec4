package ai

import "context"

// AI is the generative backend. It knows nothing about sessions or
// classification: it takes one request text and produces reply fragments.
//
// The returned Fragments is single-use and must be ranged to completion
// (or until the consumer stops) so that adapters can release resources.
type AI interface {
	Generate(ctx context.Context, input string) (Fragments, error)
}

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNoop   = "noop"
)
