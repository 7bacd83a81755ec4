package ai

import (
	"context"
	"strings"
	"sync"
)

// Factory builds a backend for a credential.
type Factory func(ctx context.Context, apiKey string) (AI, error)

var _ AI = (*Keyed)(nil)

// Keyed holds the backend built from the current credential. Until a key is
// set, Generate fails with ErrMissingCredential.
type Keyed struct {
	mu       sync.RWMutex
	factory  Factory
	validate func(string) error
	current  AI
}

func NewKeyed(factory Factory, validate func(string) error) *Keyed {
	return &Keyed{factory: factory, validate: validate}
}

// SetKey validates key and swaps in a freshly built backend.
func (k *Keyed) SetKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrMissingCredential
	}
	if k.validate != nil {
		if err := k.validate(key); err != nil {
			return err
		}
	}

	backend, err := k.factory(ctx, key)
	if err != nil {
		return err
	}

	k.mu.Lock()
	k.current = backend
	k.mu.Unlock()
	return nil
}

func (k *Keyed) Ready() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.current != nil
}

func (k *Keyed) Generate(ctx context.Context, input string) (Fragments, error) {
	k.mu.RLock()
	backend := k.current
	k.mu.RUnlock()

	if backend == nil {
		return nil, ErrMissingCredential
	}
	return backend.Generate(ctx, input)
}

// ValidateGeminiKey checks the Google API key shape.
func ValidateGeminiKey(key string) error {
	if !strings.HasPrefix(key, "AIza") {
		return ErrInvalidCredential
	}
	return nil
}
