package ai

import (
	"iter"
	"strings"
	"sync/atomic"
)

// Fragments is a lazy, finite sequence of reply pieces. A non-nil error ends
// the sequence.
type Fragments = iter.Seq2[string, error]

// Text adapts a completed reply to a one-fragment sequence.
func Text(s string) Fragments {
	return Once(func(yield func(string, error) bool) {
		yield(s, nil)
	})
}

// Fail is a sequence that fails before producing any fragment.
func Fail(err error) Fragments {
	return func(yield func(string, error) bool) {
		yield("", err)
	}
}

// Once makes seq non-restartable: ranging it a second time yields
// ErrStreamConsumed.
func Once(seq Fragments) Fragments {
	var used atomic.Bool
	return func(yield func(string, error) bool) {
		if used.Swap(true) {
			yield("", ErrStreamConsumed)
			return
		}
		seq(yield)
	}
}

// Collect concatenates fragments in arrival order. onPartial, when set, sees
// the running concatenation after every non-empty fragment. On error the
// partial text is returned alongside it; callers must not store it as a reply.
func Collect(seq Fragments, onPartial func(string)) (string, error) {
	var b strings.Builder
	for frag, err := range seq {
		if err != nil {
			return b.String(), err
		}
		if frag == "" {
			continue
		}
		b.WriteString(frag)
		if onPartial != nil {
			onPartial(b.String())
		}
	}
	return b.String(), nil
}
