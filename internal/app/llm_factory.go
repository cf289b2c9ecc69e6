package app

import (
	"context"
	"fmt"

	"github.com/xpanvictor/portfolio/internal/config"
	"github.com/xpanvictor/portfolio/pkg/Logger"
	"github.com/xpanvictor/portfolio/pkg/assistant"
	"github.com/xpanvictor/portfolio/pkg/assistant/providers/gemini"
	"github.com/xpanvictor/portfolio/pkg/assistant/providers/ollama"
)

// ProviderFactory builds the completion provider named by llm.provider.
type ProviderFactory struct {
	config config.LLMConfig
	logger *Logger.Logger
}

func NewProviderFactory(cfg config.LLMConfig, logger *Logger.Logger) *ProviderFactory {
	return &ProviderFactory{
		config: cfg,
		logger: logger,
	}
}

// CreateProvider returns the provider and a release func for any client it
// holds open.
func (f *ProviderFactory) CreateProvider(ctx context.Context) (assistant.Completer, func() error, error) {
	noop := func() error { return nil }

	switch f.config.Provider {
	case "", "openai":
		if f.config.OpenAI.APIKey == "" {
			// requests fail with the not-configured message until a key is set
			f.logger.Warn("OpenAI API key not configured; chat will answer with a configuration error")
		}
		f.logger.Infof("chat provider: openai (%s)", f.config.OpenAI.Model)
		return assistant.NewOpenAI(assistant.OpenAIConfig{
			APIKey:  f.config.OpenAI.APIKey,
			BaseURL: f.config.OpenAI.BaseURL,
			Model:   f.config.OpenAI.Model,
		}), noop, nil

	case "gemini":
		if f.config.Gemini.APIKey == "" {
			f.logger.Warn("Gemini API key not configured; chat will answer with a configuration error")
		}
		provider, err := gemini.New(ctx, gemini.Config{
			APIKey: f.config.Gemini.APIKey,
			Model:  f.config.Gemini.Model,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Gemini provider: %w", err)
		}
		f.logger.Infof("chat provider: gemini (%s)", f.config.Gemini.Model)
		return provider, provider.Close, nil

	case "ollama":
		provider, err := ollama.New(ollama.Config{
			URLs:  f.config.Ollama.URLs,
			Model: f.config.Ollama.Model,
		}, f.logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Ollama provider: %w", err)
		}
		f.logger.Infof("chat provider: ollama (%s) across %d server(s)", f.config.Ollama.Model, len(f.config.Ollama.URLs))
		return provider, noop, nil
	}

	return nil, nil, fmt.Errorf("unknown llm provider %q", f.config.Provider)
}
