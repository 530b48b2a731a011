package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/aiops/fraud-wizard/internal/domain/fraud"
	"github.com/aiops/fraud-wizard/internal/infra/ai/prompt"
)

const (
	defaultModel   = "gpt-4o-mini"
	requestTimeout = 20 * time.Second
)

// Client generates wizard explanations through the OpenAI chat API.
// One call per analysis, hard 20s timeout, no retry: on any failure the
// pipeline falls back to the deterministic explanation.
type Client struct {
	*openai.Client
	model string
}

// NewClient builds a client. baseURL is optional and exists so the provider
// can be pointed at a compatible gateway (or a test server).
func NewClient(apiKey, baseURL, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{Client: openai.NewClientWithConfig(cfg), model: model}
}

// Model implements fraud.Explainer.
func (c *Client) Model() string {
	if c.model == "" {
		return defaultModel
	}
	return c.model
}

// Explain implements fraud.Explainer.
func (c *Client) Explain(ctx context.Context, tx fraud.Transaction, scoring fraud.ScoringResult) (fraud.Explanation, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	payload, err := json.Marshal(map[string]any{
		"transaction": tx,
		"scoring":     scoring,
	})
	if err != nil {
		return fraud.Explanation{}, fmt.Errorf("marshal prompt payload: %w", err)
	}

	req := openai.ChatCompletionRequest{
		Model:       c.Model(),
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetUserPrompt(string(payload))},
		},
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return fraud.Explanation{}, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return fraud.Explanation{}, fraud.ErrMalformedResponse
	}

	return prompt.ParseWizardReply(resp.Choices[0].Message.Content)
}
