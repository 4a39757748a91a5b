package providers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Juicern/kotoba/internal/domain"
)

type OpenAIClient struct {
	client *openai.Client
	apiKey string
	model  string
}

func NewOpenAIClient(apiKey, baseURL, model string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		apiKey: apiKey,
		model:  model,
	}
}

func (c *OpenAIClient) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("missing OpenAI API key")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: composeSystemPrompt(req),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Text,
			},
		},
		// go-openai drops a zero temperature under omitempty.
		Temperature: math.SmallestNonzeroFloat32,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func composeSystemPrompt(req TranslateRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Translate the user's message into %s.", languageName(req.TargetLang))
	switch strings.ToLower(req.Formality) {
	case domain.FormalityMore, "prefer_more":
		b.WriteString(" Use a more formal, polite register (keigo).")
	case "less", "prefer_less":
		b.WriteString(" Use a casual, informal register.")
	}
	b.WriteString(" Reply with the translation only, without notes or quotation marks.")
	return b.String()
}

func languageName(code string) string {
	switch strings.ToUpper(code) {
	case domain.TargetLangJapanese:
		return "Japanese"
	case "EN", "EN-US", "EN-GB":
		return "English"
	default:
		return code
	}
}
