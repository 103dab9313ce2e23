// Package classifier suggests a spending category for a transaction
// description via a single stateless model round trip. No retries and no
// caching: a failed call surfaces to the caller.
package classifier

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Classifier maps a free-text transaction description to one category label.
type Classifier interface {
	Classify(ctx context.Context, description string) (string, error)
}

// Categories is the fixed label set the model must choose from.
var Categories = []string{
	"Food", "Shopping", "Transport", "Entertainment", "Bills", "Health", "Travel", "Other",
}

const fallbackCategory = "Other"

const prompt = "You are a financial transaction categorizer. " +
	"Given a transaction description, respond with a single word category that best describes the transaction. " +
	"Categories should be one of: Food, Shopping, Transport, Entertainment, Bills, Health, Travel, Other.\n\n" +
	"Transaction description: "

// GeminiClassifier calls the Gemini API. Credentials come from the
// environment (GEMINI_API_KEY), the same way the genai client resolves
// them everywhere else.
type GeminiClassifier struct {
	client *genai.Client
	model  string
}

func NewGeminiClassifier(ctx context.Context, model string) (*GeminiClassifier, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiClassifier{client: client, model: model}, nil
}

func (g *GeminiClassifier) Classify(ctx context.Context, description string) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt + description}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return "", fmt.Errorf("empty response from model")
	}

	return normalizeCategory(raw), nil
}

// normalizeCategory maps model output onto the fixed label set. Off-list
// answers fall back to Other rather than leaking free text into the data.
func normalizeCategory(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.Trim(cleaned, ".\"'`")
	for _, c := range Categories {
		if strings.EqualFold(cleaned, c) {
			return c
		}
	}
	// Some models answer in a short sentence; accept a unique label mention.
	var found string
	for _, c := range Categories {
		if containsFold(cleaned, c) {
			if found != "" {
				return fallbackCategory
			}
			found = c
		}
	}
	if found != "" {
		return found
	}
	return fallbackCategory
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
