package ai

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

var (
	ErrMissingCredentials = errors.New("openai api key not configured")
	ErrEmptyResponse      = errors.New("openai returned no choices")
)

type OpenAIConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

type OpenAIClient struct {
	client    *openai.Client
	model     string
	maxTokens int
	hasKey    bool
	log       *zap.Logger
}

// NewOpenAIClient never fails on a missing key: every call then returns
// ErrMissingCredentials before touching the network.
func NewOpenAIClient(cfg OpenAIConfig, log *zap.Logger) *OpenAIClient {
	log = log.Named("ai")
	if cfg.APIKey == "" {
		log.Warn("OPENAI_API_KEY not set; generation requests will fail")
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4o
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIClient{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     model,
		maxTokens: cfg.MaxTokens,
		hasKey:    cfg.APIKey != "",
		log:       log,
	}
}

func (c *OpenAIClient) HasCredentials() bool { return c.hasKey }

func (c *OpenAIClient) Model() string { return c.model }

func (c *OpenAIClient) Complete(ctx context.Context, system string, user string) (string, error) {
	return c.create(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{Role: openai.ChatMessageRoleUser, Content: user},
	})
}

func (c *OpenAIClient) CompleteWithImage(ctx context.Context, system string, user string, imageRef string) (string, error) {
	return c.create(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: user},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    imageRef,
						Detail: openai.ImageURLDetailAuto,
					},
				},
			},
		},
	})
}

func (c *OpenAIClient) create(ctx context.Context, msgs []openai.ChatCompletionMessage) (string, error) {
	if !c.hasKey {
		return "", ErrMissingCredentials
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		Messages:  msgs,
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		c.log.Warn("empty choices", zap.String("model", c.model))
		return "", ErrEmptyResponse
	}

	raw := resp.Choices[0].Message.Content
	c.log.Debug("completion received",
		zap.String("model", resp.Model),
		zap.Int("response_len", len(raw)),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
	)

	return raw, nil
}
