package ai

import (
	"context"
	"time"

	"github.com/Vovarama1992/support-hub/internal/metrics"
)

// TokenCounter estimates the prompt size of a request.
type TokenCounter interface {
	Count(text string) int
}

var _ AI = (*observedAI)(nil)

type observedAI struct {
	inner    AI
	provider string
	tokens   TokenCounter
}

// NewObservedAI records latency, fragment counts and (when tokens is set)
// prompt sizes for every generation.
func NewObservedAI(inner AI, provider string, tokens TokenCounter) AI {
	return &observedAI{inner: inner, provider: provider, tokens: tokens}
}

func (o *observedAI) Generate(ctx context.Context, input string) (Fragments, error) {
	if o.tokens != nil {
		metrics.ObservePromptTokens(o.provider, o.tokens.Count(input))
	}

	start := time.Now()
	seq, err := o.inner.Generate(ctx, input)
	if err != nil {
		metrics.ObserveCall(o.provider, 0, time.Since(start).Milliseconds(), false)
		return nil, err
	}

	return func(yield func(string, error) bool) {
		n, ok := 0, true
		defer func() {
			metrics.ObserveCall(o.provider, n, time.Since(start).Milliseconds(), ok)
		}()
		for frag, err := range seq {
			if err != nil {
				ok = false
			} else {
				n++
			}
			if !yield(frag, err) {
				return
			}
		}
	}, nil
}
