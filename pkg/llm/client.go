package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

var (
	ErrNoAPIKey        = errors.New("llm: missing api key")
	ErrUnknownProvider = errors.New("llm: unknown provider")
	ErrEmptyCompletion = errors.New("llm: empty completion")
)

// Generator sends one prompt to a hosted model and returns its text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// NewGenerator builds the backend named by provider. An empty model selects
// the backend default.
func NewGenerator(ctx context.Context, provider Provider, apiKey, model string) (Generator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w for %s", ErrNoAPIKey, provider)
	}

	switch provider {
	case ProviderGemini, "":
		return NewGeminiClient(ctx, apiKey, model, "")
	case ProviderOpenAI:
		return NewOpenAIClient(apiKey, model), nil
	case ProviderAnthropic:
		return NewAnthropicClient(apiKey, model), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
}

func completionText(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}
