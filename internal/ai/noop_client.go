package ai

import (
	"context"
	"strings"
	"time"
)

var _ AI = (*NoopClient)(nil)

// NoopClient streams a canned reply word by word. Used for local runs
// without a provider key.
type NoopClient struct {
	Reply string
	Delay time.Duration
}

func NewNoopClient() *NoopClient {
	return &NoopClient{
		Reply: "Thanks for reaching out. This is a noop AI response.",
		Delay: 20 * time.Millisecond,
	}
}

func (n *NoopClient) Generate(ctx context.Context, _ string) (Fragments, error) {
	words := strings.SplitAfter(n.Reply, " ")

	return Once(func(yield func(string, error) bool) {
		for _, w := range words {
			if n.Delay > 0 {
				select {
				case <-time.After(n.Delay):
				case <-ctx.Done():
					yield("", wrap(ProviderNoop, ctx.Err()))
					return
				}
			}
			if !yield(w, nil) {
				return
			}
		}
	}), nil
}
