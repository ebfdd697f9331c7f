package repository

import (
	"context"
	"fmt"
	"time"

	"quantreport/internal/domain"
	"quantreport/internal/util"

	"github.com/ayush6624/go-chatgpt"
)

// GptRepository produces the narrative sections of a report from an
// already-computed numeric summary. Raw user input never goes into the
// prompt. Callers must treat every error as recoverable - the composer
// has a deterministic fallback.
type GptRepository interface {
	GenerateNarrative(ctx context.Context, systemPrompt, userPrompt string, settings domain.LLMSettings) (string, error)
}

type gptRepositoryHandler struct {
	defaults util.LLMSecrets
	timeout  time.Duration
}

func NewGptRepository(defaults util.LLMSecrets) GptRepository {
	return &gptRepositoryHandler{
		defaults: defaults,
		timeout:  30 * time.Second,
	}
}

type resolvedLLMConfig struct {
	apiKey      string
	model       string
	baseUrl     string
	temperature float64
}

func (h *gptRepositoryHandler) resolve(settings domain.LLMSettings) resolvedLLMConfig {
	provider := settings.Provider
	if provider == "" {
		provider = h.defaults.Provider
	}
	if provider == "" {
		provider = "openai"
	}

	cfg := resolvedLLMConfig{
		apiKey:      settings.ApiKey,
		model:       settings.Model,
		baseUrl:     settings.BaseUrl,
		temperature: 0.7,
	}
	if cfg.apiKey == "" {
		cfg.apiKey = h.defaults.ApiKey
	}
	if cfg.model == "" {
		cfg.model = h.defaults.Model
	}
	if cfg.baseUrl == "" {
		cfg.baseUrl = h.defaults.BaseUrl
	}
	if cfg.model == "" {
		if provider == "deepseek" {
			cfg.model = "deepseek-chat"
		} else {
			cfg.model = "gpt-4o-mini"
		}
	}
	if cfg.baseUrl == "" && provider == "deepseek" {
		cfg.baseUrl = "https://api.deepseek.com/v1"
	}
	if settings.Temperature != nil {
		cfg.temperature = *settings.Temperature
	} else if h.defaults.Temperature != 0 {
		cfg.temperature = h.defaults.Temperature
	}
	return cfg
}

func (h *gptRepositoryHandler) GenerateNarrative(ctx context.Context, systemPrompt, userPrompt string, settings domain.LLMSettings) (string, error) {
	cfg := h.resolve(settings)
	if cfg.apiKey == "" {
		return "", fmt.Errorf("%w: no llm credentials configured", domain.ErrCollaboratorUnavailable)
	}

	var (
		client *chatgpt.Client
		err    error
	)
	if cfg.baseUrl != "" {
		client, err = chatgpt.NewClientWithConfig(&chatgpt.Config{
			APIKey:  cfg.apiKey,
			BaseURL: cfg.baseUrl,
		})
	} else {
		client, err = chatgpt.NewClient(cfg.apiKey)
	}
	if err != nil {
		return "", fmt.Errorf("%w: failed to construct gpt client: %s", domain.ErrCollaboratorUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	res, err := client.Send(ctx, &chatgpt.ChatCompletionRequest{
		Model: chatgpt.ChatGPTModel(cfg.model),
		Messages: []chatgpt.ChatMessage{
			{
				Role:    chatgpt.ChatGPTModelRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    chatgpt.ChatGPTModelRoleUser,
				Content: userPrompt,
			},
		},
		Temperature: cfg.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: chat completion failed: %s", domain.ErrCollaboratorUnavailable, err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("%w: chat completion returned no choices", domain.ErrCollaboratorUnavailable)
	}

	return res.Choices[0].Message.Content, nil
}
