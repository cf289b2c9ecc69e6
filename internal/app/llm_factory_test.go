package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/portfolio/internal/config"
	"github.com/xpanvictor/portfolio/pkg/Logger"
	"github.com/xpanvictor/portfolio/pkg/assistant"
)

func TestGeminiWithoutKeyStartsAndFailsPerRequest(t *testing.T) {
	factory := NewProviderFactory(config.LLMConfig{Provider: "gemini"}, Logger.Nop())

	provider, release, err := factory.CreateProvider(context.Background())
	require.NoError(t, err)
	defer release()

	_, err = provider.Stream(context.Background(), assistant.CompletionRequest{
		Msgs: []assistant.AssistantMessage{{Content: "hi", MsgRole: assistant.USER}},
	})
	assert.True(t, assistant.IsUnauthorized(err))
}

func TestUnknownProviderIsRejected(t *testing.T) {
	_, _, err := NewProviderFactory(config.LLMConfig{Provider: "bard"}, Logger.Nop()).
		CreateProvider(context.Background())
	assert.Error(t, err)
}
