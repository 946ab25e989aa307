package extraction

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextFromResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []genai.Part{
						genai.Text("Invoice #1042\n"),
						genai.Text("Total: $250.00"),
					},
				},
			},
		},
	}

	text, err := textFromResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, "Invoice #1042\nTotal: $250.00", text)
}

func TestTextFromResponse_NoCandidates(t *testing.T) {
	_, err := textFromResponse(&genai.GenerateContentResponse{})
	assert.Error(t, err)
}

func TestTextFromResponse_EmptyContent(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{}}},
	}

	_, err := textFromResponse(resp)
	assert.Error(t, err)
}

func TestTextFromResponse_NoTextParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}},
				},
			},
		},
	}

	_, err := textFromResponse(resp)
	assert.Error(t, err)
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), "")
	assert.Error(t, err)
}
