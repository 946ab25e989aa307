// Package llmcheck validates business data transfers with a Gemini model,
// letting the LLM judge equivalencies a character comparison cannot.
package llmcheck

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-1.5-flash"

// Validator runs LLM-backed transfer validation
type Validator struct {
	client *genai.Client
	model  string
}

// ValidatorOption configures the Validator
type ValidatorOption func(*Validator)

// WithModel sets the generative model
func WithModel(model string) ValidatorOption {
	return func(v *Validator) {
		v.model = model
	}
}

// NewValidator creates a new Validator
func NewValidator(ctx context.Context, apiKey string, opts ...ValidatorOption) (*Validator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	v := &Validator{
		client: client,
		model:  defaultModel,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v, nil
}

// Validate asks the model whether the destination text is a faithful
// transfer of the source text.
func (v *Validator) Validate(ctx context.Context, sourceText, destinationText string) (*Result, error) {
	model := v.client.GenerativeModel(v.model)
	model.SetTemperature(0.1)
	model.SetTopK(1)
	model.SetTopP(1)
	model.SetMaxOutputTokens(2048)

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(sourceText, destinationText)))
	if err != nil {
		return nil, fmt.Errorf("validation request failed: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	return parseResponse(text), nil
}

// Close releases resources held by the validator
func (v *Validator) Close() error {
	if v.client != nil {
		return v.client.Close()
	}
	return nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
