package support

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildRequestReactiveUsesLatestMessageOnly(t *testing.T) {
	transcript := []Message{
		{RoleUser, "where is my order"},
		{RoleAssistant, "it shipped yesterday"},
		{RoleUser, "tracking number?"},
		{RoleAssistant, "TRK-123"},
		{RoleUser, "it says error"},
		{RoleAssistant, "try again later"},
		{RoleUser, "refund please"},
	}

	got := BuildRequest(ModeReactive, transcript)

	want := ReactivePreamble + "\n\nCustomer: refund please"
	if got != want {
		t.Fatalf("request = %q, want %q", got, want)
	}
	for _, m := range transcript[:len(transcript)-1] {
		if strings.Contains(got, m.Content) {
			t.Fatalf("reactive request leaked prior message %q", m.Content)
		}
	}
}

func TestBuildRequestContextAwareRendersHistory(t *testing.T) {
	transcript := []Message{
		{RoleUser, "hi"},
		{RoleAssistant, "hello"},
		{RoleUser, "order late"},
	}

	got := BuildRequest(ModeContextAware, transcript)

	want := ContextAwarePreamble + "\n\nFull Conversation:\nUser: hi\nAssistant: hello\nUser: order late"
	if got != want {
		t.Fatalf("request = %q, want %q", got, want)
	}
}

func TestBuildRequestStrategicDiffersOnlyByPreamble(t *testing.T) {
	transcript := []Message{{RoleUser, "refund for order"}}

	ctxAware := BuildRequest(ModeContextAware, transcript)
	strategic := BuildRequest(ModeStrategic, transcript)

	if !strings.HasPrefix(strategic, StrategicPreamble) {
		t.Fatalf("strategic request = %q", strategic)
	}
	if strings.TrimPrefix(ctxAware, ContextAwarePreamble) != strings.TrimPrefix(strategic, StrategicPreamble) {
		t.Fatal("context-aware and strategic bodies should match")
	}
}

func TestCleanTitle(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`  "late package inquiry"  `, "Late Package Inquiry"},
		{"'REFUND request'", "Refund Request"},
		{"   ", ""},
		{strings.Repeat("word ", 20), strings.TrimSpace(strings.Repeat("Word ", 12))},
	}

	for _, tc := range cases {
		got := CleanTitle(tc.raw)
		if got != tc.want {
			t.Errorf("CleanTitle(%q) = %q, want %q", tc.raw, got, tc.want)
		}
		if len([]rune(got)) > MaxTitleLength {
			t.Errorf("CleanTitle(%q) longer than %d", tc.raw, MaxTitleLength)
		}
	}
}

func TestFailureMessage(t *testing.T) {
	got := FailureMessage(errors.New("quota exceeded"))
	if !strings.HasPrefix(got, FailureMarker) {
		t.Fatalf("missing marker: %q", got)
	}
	if !strings.HasSuffix(got, "quota exceeded") {
		t.Fatalf("missing cause: %q", got)
	}
}
