package application

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/agent-go/infrastructure/planner"
)

// ModelClient is the LLM port the runner routes through, modeled on
// infrastructure/planner.Provider but shaped for the runner's two call
// patterns: free-text generation and schema-constrained JSON generation.
type ModelClient interface {
	GenerateText(ctx context.Context, model, systemPrompt, userPrompt string) (text string, tokensIn, tokensOut int, err error)
	GenerateJSON(ctx context.Context, model, systemPrompt, userPrompt string, out any) (tokensIn, tokensOut int, err error)
}

// providerModelClient adapts an infrastructure/planner.Provider to
// ModelClient, following LLMPlanner's message-building and completion
// pattern.
type providerModelClient struct {
	provider planner.Provider
}

// NewProviderModelClient wraps a planner.Provider as a ModelClient.
func NewProviderModelClient(provider planner.Provider) ModelClient {
	return &providerModelClient{provider: provider}
}

func (c *providerModelClient) GenerateText(ctx context.Context, model, systemPrompt, userPrompt string) (string, int, int, error) {
	resp, err := c.provider.Complete(ctx, planner.CompletionRequest{
		Model: model,
		Messages: []planner.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return "", 0, 0, fmt.Errorf("model completion failed: %w", err)
	}
	if resp.Error != nil {
		return "", 0, 0, fmt.Errorf("model completion error: %s", resp.Error.Message)
	}
	tokensIn, tokensOut := resp.Usage.PromptTokens, resp.Usage.CompletionTokens
	if resp.Usage.TotalTokens == 0 {
		tokensIn, tokensOut = estimateTokens(systemPrompt+userPrompt), estimateTokens(resp.Message.Content)
	}
	return resp.Message.Content, tokensIn, tokensOut, nil
}

func (c *providerModelClient) GenerateJSON(ctx context.Context, model, systemPrompt, userPrompt string, out any) (int, int, error) {
	text, tokensIn, tokensOut, err := c.GenerateText(ctx, model, systemPrompt, userPrompt+"\n\nRespond with JSON only, no other text.")
	if err != nil {
		return tokensIn, tokensOut, err
	}
	if err := json.Unmarshal(extractJSON(text), out); err != nil {
		return tokensIn, tokensOut, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return tokensIn, tokensOut, nil
}

// extractJSON trims leading/trailing prose around a JSON object or array,
// tolerating the common case of a model wrapping its answer in prose or a
// markdown fence despite being asked for JSON only.
func extractJSON(text string) []byte {
	start := -1
	for i, r := range text {
		if r == '{' || r == '[' {
			start = i
			break
		}
	}
	if start == -1 {
		return []byte(text)
	}
	end := -1
	for i := len(text) - 1; i >= start; i-- {
		if text[i] == '}' || text[i] == ']' {
			end = i
			break
		}
	}
	if end == -1 || end < start {
		return []byte(text[start:])
	}
	return []byte(text[start : end+1])
}

// estimateTokens applies the runner's coarse chars/4 heuristic for usage
// accounting when a provider doesn't report exact token counts.
func estimateTokens(s string) int {
	if len(s) == 0 {
		return 0
	}
	return (len(s) + 3) / 4
}
