// Package extraction turns screenshot images into text via the Gemini API.
package extraction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	defaultModel      = "gemini-1.5-flash"
	defaultMaxRetries = 3
	defaultRetryDelay = time.Second
	defaultTimeout    = 30 * time.Second
)

const extractionPrompt = `Extract all text content from this image. Please provide:
1. All visible text in the image
2. Any UI labels, buttons, form fields, or interface elements
3. Headers, titles, and navigation items
4. Any error messages or notifications
5. Organize the text logically (top to bottom, left to right)

Please format the response as structured text that preserves the layout and hierarchy.`

// Result carries the outcome of a single extraction call.
type Result struct {
	Text        string    `json:"extracted_text"`
	ImageKind   string    `json:"image_type"`
	ProcessedAt time.Time `json:"processed_at"`
	Attempt     int       `json:"attempt"`
}

// Client extracts text from images using Gemini
type Client struct {
	client     *genai.Client
	model      string
	maxRetries int
	retryDelay time.Duration
	timeout    time.Duration
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithModel sets the generative model
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithMaxRetries sets the number of attempts per extraction
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets the base delay between retries
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithTimeout caps the duration of each extraction attempt
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates a new extraction client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	inner, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client:     inner,
		model:      defaultModel,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
		timeout:    defaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// ExtractText runs the extraction prompt against the image, retrying with
// exponential backoff on transient failures.
func (c *Client) ExtractText(ctx context.Context, imageData []byte, kind string) (*Result, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.1)
	model.SetTopK(1)
	model.SetTopP(1)
	model.SetMaxOutputTokens(2048)

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := model.GenerateContent(attemptCtx,
			genai.Text(extractionPrompt),
			genai.ImageData("jpeg", imageData),
		)
		cancel()
		if err == nil {
			text, err := textFromResponse(resp)
			if err != nil {
				return nil, err
			}
			return &Result{
				Text:        text,
				ImageKind:   kind,
				ProcessedAt: time.Now().UTC(),
				Attempt:     attempt,
			}, nil
		}

		lastErr = err
		if attempt == c.maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retryDelay << (attempt - 1)):
		}
	}

	return nil, fmt.Errorf("extraction failed after %d attempts: %w", c.maxRetries, lastErr)
}

// Close releases resources held by the client
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// textFromResponse extracts text from a Gemini API response
func textFromResponse(resp *genai.GenerateContentResponse) (string, error) {
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
