package generativeAI

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

// AIClient wraps the Gemini client behind the two narrow capabilities the
// pipeline needs: plain generation and search-grounded summarization.
type AIClient struct {
	client *genai.Client
	model  string
}

func NewAIClient(ctx context.Context, model string) (*AIClient, error) {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &AIClient{
		client: client,
		model:  model,
	}, nil
}

// Generate performs a single content generation call and reports the total
// token count of the interaction alongside the raw text.
func (ai *AIClient) Generate(ctx context.Context, prompt string) (string, int32, error) {
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), nil)
	if err != nil {
		return "", 0, fmt.Errorf("failed to generate content: %w", err)
	}

	var totalTokens int32
	if result.UsageMetadata != nil {
		totalTokens = result.UsageMetadata.TotalTokenCount
	}
	return result.Text(), totalTokens, nil
}

// SearchAndSummarize answers the prompt grounded on live web search results.
// Used by verification tasks to re-check volatile catalog entries.
func (ai *AIClient) SearchAndSummarize(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to search and summarize: %w", err)
	}
	return result.Text(), nil
}
