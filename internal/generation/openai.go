package generation

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig configures the client. BaseURL may point at any
// OpenAI-compatible provider.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	TextModel   string
	ImageModel  string
	SpeechModel string
}

// OpenAIClient implements all three capability interfaces against the
// OpenAI API (or a compatible endpoint).
type OpenAIClient struct {
	client *openai.Client
	cfg    OpenAIConfig
}

// NewOpenAIClient builds the client from resolved configuration.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}
}

// GenerateNarrative requests the full story as strict JSON and parses
// it into a Narrative.
func (c *OpenAIClient) GenerateNarrative(ctx context.Context, prompt StoryPrompt) (*Narrative, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.TextModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: narrativeSystemPrompt(prompt)},
			{Role: openai.ChatMessageRoleUser, Content: narrativeUserPrompt(prompt)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("narrative request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("narrative request: empty response")
	}
	return ParseNarrative(resp.Choices[0].Message.Content)
}

// ParseNarrative decodes the model's JSON story, tolerating markdown
// code fences some providers wrap around JSON output.
func ParseNarrative(raw string) (*Narrative, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var narrative Narrative
	if err := json.Unmarshal([]byte(raw), &narrative); err != nil {
		return nil, fmt.Errorf("parse narrative: %w", err)
	}
	if narrative.Title == "" || len(narrative.Pages) == 0 {
		return nil, fmt.Errorf("%w: narrative came back empty", ErrValidation)
	}
	for i, page := range narrative.Pages {
		if strings.TrimSpace(page.Text) == "" {
			return nil, fmt.Errorf("%w: page %d has no text", ErrValidation, i+1)
		}
	}
	return &narrative, nil
}

// GenerateIllustration renders one image and returns it as a PNG data
// URL.
func (c *OpenAIClient) GenerateIllustration(ctx context.Context, description, style string) (string, error) {
	prompt := description
	if style != "" {
		prompt = fmt.Sprintf("%s, in the style of: %s. Child-friendly, no text in the image.", description, style)
	}
	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          c.cfg.ImageModel,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return "", fmt.Errorf("illustration request: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", fmt.Errorf("illustration request: empty response")
	}
	return "data:image/png;base64," + resp.Data[0].B64JSON, nil
}

// Synthesize narrates the text and returns an MP3 data URL.
func (c *OpenAIClient) Synthesize(ctx context.Context, text, voice string) (string, error) {
	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(c.cfg.SpeechModel),
		Input:          text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return "", fmt.Errorf("speech request: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return "", fmt.Errorf("speech response: %w", err)
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("speech request: empty response")
	}
	return "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString(audio), nil
}
