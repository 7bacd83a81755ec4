package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func chunk(content string) string {
	return fmt.Sprintf(`{"id":"c1","object":"chat.completion.chunk","created":1,"model":"gpt-4o-mini","choices":[{"index":0,"delta":{"content":%q}}]}`, content)
}

// sseServer answers chat completion requests with the given data lines.
func sseServer(t *testing.T, lines []string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, l := range lines {
			fmt.Fprintf(w, "data: %s\n\n", l)
			w.(http.Flusher).Flush()
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIClientStreamsUntilDone(t *testing.T) {
	var req map[string]any
	srv := sseServer(t, []string{chunk("Your "), chunk("order "), chunk("shipped."), "[DONE]"}, &req)

	c, err := NewOpenAIClient("sk-test", srv.URL, "")
	if err != nil {
		t.Fatal(err)
	}
	seq, err := c.Generate(context.Background(), "where is my order")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	got, err := Collect(seq, nil)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if got != "Your order shipped." {
		t.Fatalf("got %q", got)
	}

	if req["model"] != "gpt-4o-mini" || req["stream"] != true {
		t.Fatalf("request = %v", req)
	}
	msgs, _ := req["messages"].([]any)
	if len(msgs) != 1 || msgs[0].(map[string]any)["content"] != "where is my order" {
		t.Fatalf("messages = %v", req["messages"])
	}
}

func TestOpenAIClientMidStreamError(t *testing.T) {
	srv := sseServer(t, []string{
		chunk("Hello "),
		`{"error":{"message":"quota exceeded","type":"insufficient_quota"}}`,
	}, nil)

	c, err := NewOpenAIClient("sk-test", srv.URL, "gpt-4o-mini")
	if err != nil {
		t.Fatal(err)
	}
	seq, err := c.Generate(context.Background(), "refund")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	partial, err := Collect(seq, nil)
	var se *ServiceError
	if !errors.As(err, &se) || se.Provider != ProviderOpenAI {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("message = %q", err.Error())
	}
	if partial != "Hello " {
		t.Fatalf("partial = %q", partial)
	}
}

func TestOpenAIClientRequestRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"invalid api key","type":"invalid_request_error"}}`)
	}))
	t.Cleanup(srv.Close)

	c, err := NewOpenAIClient("sk-bad", srv.URL, "")
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Generate(context.Background(), "order")
	var se *ServiceError
	if !errors.As(err, &se) || se.Provider != ProviderOpenAI {
		t.Fatalf("err = %v", err)
	}
}

func TestOpenAIClientNeedsKey(t *testing.T) {
	if _, err := NewOpenAIClient("", "", ""); !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("err = %v", err)
	}
}
