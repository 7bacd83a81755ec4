package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMessageClassifiedNormalizesLabel(t *testing.T) {
	before := testutil.ToFloat64(messagesClassified.WithLabelValues("delivery"))
	MessageClassified(" Delivery ")
	after := testutil.ToFloat64(messagesClassified.WithLabelValues("delivery"))
	if after-before != 1 {
		t.Fatalf("expected +1, got %v", after-before)
	}
}

func TestMustRegisterIsIdempotent(t *testing.T) {
	MustRegister()
	MustRegister()
}
