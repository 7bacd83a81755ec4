package ai

import (
	"context"
	"sync"
)

var _ AI = (*limitedAI)(nil)

type limitedAI struct {
	inner AI
	sem   chan struct{}
}

// NewLimitedAI caps the number of in-flight generations. A slot is held from
// Generate until the returned fragments are fully ranged.
func NewLimitedAI(inner AI, maxConcurrent int) AI {
	if maxConcurrent <= 0 {
		return inner
	}
	return &limitedAI{
		inner: inner,
		sem:   make(chan struct{}, maxConcurrent),
	}
}

func (l *limitedAI) Generate(ctx context.Context, input string) (Fragments, error) {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, wrap("", ctx.Err())
	}

	seq, err := l.inner.Generate(ctx, input)
	if err != nil {
		<-l.sem
		return nil, err
	}

	var release sync.Once
	return func(yield func(string, error) bool) {
		defer release.Do(func() { <-l.sem })
		for frag, err := range seq {
			if !yield(frag, err) {
				return
			}
		}
	}, nil
}
