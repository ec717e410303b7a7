// Package gemini wraps the Google GenAI client behind a single Generate
// call used by the extraction and transcription services.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Client is a thin adapter over the GenAI SDK. Credentials and project
// selection come from the environment (GEMINI_API_KEY or application
// default credentials), the same way the SDK's own tooling resolves them.
type Client struct {
	c *genai.Client
}

func NewClient(ctx context.Context) (*Client, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{c: c}, nil
}

// Generate submits a prompt, optionally with an inline binary attachment
// (receipt image, audio clip), and returns the model's text response.
// An empty mimeType means text-only.
func (c *Client) Generate(ctx context.Context, model, prompt, mimeType string, data []byte) (string, error) {
	parts := []*genai.Part{{Text: prompt}}
	if mimeType != "" {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: mimeType,
				Data:     data,
			},
		})
	}

	contents := []*genai.Content{{Role: "user", Parts: parts}}

	resp, err := c.c.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model %s", model)
	}
	return text, nil
}
