package ai

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLimitedAIReleasesSlotAfterDrain(t *testing.T) {
	l := NewLimitedAI(&NoopClient{Reply: "a b"}, 1)
	ctx := context.Background()

	seq, err := l.Generate(ctx, "first")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	blocked, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if _, err := l.Generate(blocked, "second"); err == nil {
		t.Fatal("second generation should wait for the slot")
	} else {
		var se *ServiceError
		if !errors.As(err, &se) {
			t.Fatalf("expected ServiceError, got %T", err)
		}
	}

	if got, err := Collect(seq, nil); err != nil || got != "a b" {
		t.Fatalf("Collect = %q, %v", got, err)
	}

	seq, err = l.Generate(ctx, "third")
	if err != nil {
		t.Fatalf("slot not released: %v", err)
	}
	_, _ = Collect(seq, nil)
}

func TestLimitedAIDisabled(t *testing.T) {
	inner := NewNoopClient()
	if NewLimitedAI(inner, 0) != AI(inner) {
		t.Fatal("non-positive limit returns the inner backend")
	}
}

func TestNoopClientHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n := &NoopClient{Reply: "one two", Delay: time.Second}
	seq, err := n.Generate(ctx, "x")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := Collect(seq, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}
