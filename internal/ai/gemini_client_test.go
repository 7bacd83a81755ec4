package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/genai"
)

func TestResponseTextSkipsThoughts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "the customer wants a refund", Thought: true},
				{Text: "Your refund "},
				nil,
				{Text: "is on its way."},
			}},
		}},
	}
	if got := responseText(resp); got != "Your refund is on its way." {
		t.Fatalf("got %q", got)
	}

	for _, empty := range []*genai.GenerateContentResponse{
		nil,
		{},
		{Candidates: []*genai.Candidate{{}}},
	} {
		if got := responseText(empty); got != "" {
			t.Fatalf("got %q", got)
		}
	}
}

func TestGeminiClientStreams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-2.5-flash:streamGenerateContent") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, text := range []string{"Checking ", "now."} {
			fmt.Fprintf(w, "data: {\"candidates\":[{\"content\":{\"role\":\"model\",\"parts\":[{\"text\":%q}]}}]}\n\n", text)
			w.(http.Flusher).Flush()
		}
	}))
	t.Cleanup(srv.Close)

	ctx := context.Background()
	c, err := NewGeminiClient(ctx, "AIzaTest", srv.URL+"/", "")
	if err != nil {
		t.Fatal(err)
	}
	seq, err := c.Generate(ctx, "tracking number")
	if err != nil {
		t.Fatal(err)
	}
	got, err := Collect(seq, nil)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if got != "Checking now." {
		t.Fatalf("got %q", got)
	}
}

func TestGeminiClientNeedsKey(t *testing.T) {
	if _, err := NewGeminiClient(context.Background(), "", "", ""); !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("err = %v", err)
	}
}
