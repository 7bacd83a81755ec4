package ai

import (
	"context"
	"strings"

	"google.golang.org/genai"
)

var _ AI = (*GeminiClient)(nil)

type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini client using the official SDK.
func NewGeminiClient(ctx context.Context, apiKey, baseURL, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrMissingCredential
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, wrap(ProviderGemini, err)
	}
	return &GeminiClient{client: c, model: model}, nil
}

func (g *GeminiClient) Generate(ctx context.Context, input string) (Fragments, error) {
	stream := g.client.Models.GenerateContentStream(ctx, g.model, genai.Text(input), nil)

	return Once(func(yield func(string, error) bool) {
		for resp, err := range stream {
			if err != nil {
				yield("", wrap(ProviderGemini, err))
				return
			}
			if !yield(responseText(resp), nil) {
				return
			}
		}
	}), nil
}

// responseText joins the non-thought text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}
