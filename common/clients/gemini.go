package clients

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Logger interface for client logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
}

// GeminiClient wraps the Google GenAI SDK as an opaque text-generation oracle.
// It carries no parsing logic: callers get the raw response text back.
type GeminiClient struct {
	client        *genai.Client
	identifyModel string
	chatModel     string
	logger        Logger
}

// NewGeminiClient creates a Gemini oracle client
func NewGeminiClient(ctx context.Context, apiKey, identifyModel, chatModel string, logger Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiClient{
		client:        client,
		identifyModel: identifyModel,
		chatModel:     chatModel,
		logger:        logger,
	}, nil
}

// GenerateFromImage sends a prompt plus inline JPEG bytes to the vision model
// and returns the raw response text. The SDK handles the base64 wire encoding.
func (c *GeminiClient) GenerateFromImage(ctx context.Context, prompt string, imageJPEG []byte) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(imageJPEG, "image/jpeg"),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.identifyModel, contents, nil)
	if err != nil {
		c.logger.Error("gemini vision call failed", "model", c.identifyModel, "error", err)
		return "", fmt.Errorf("gemini generate from image failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from gemini")
	}

	c.logger.Debug("gemini vision response", "model", c.identifyModel, "chars", len(text))
	return text, nil
}

// GenerateText sends a text-only prompt to the chat model and returns the
// raw response text verbatim.
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.chatModel, contents, nil)
	if err != nil {
		c.logger.Error("gemini chat call failed", "model", c.chatModel, "error", err)
		return "", fmt.Errorf("gemini generate text failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from gemini")
	}

	c.logger.Debug("gemini chat response", "model", c.chatModel, "chars", len(text))
	return text, nil
}
