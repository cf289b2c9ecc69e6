package ollama

import (
	"errors"
	"net/http"
	"testing"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/portfolio/pkg/Logger"
	"github.com/xpanvictor/portfolio/pkg/assistant"
)

func TestBuildRequest(t *testing.T) {
	req := BuildRequest("llama3", assistant.CompletionRequest{
		System:      "sys",
		Msgs:        []assistant.AssistantMessage{{Content: "hi", MsgRole: assistant.USER}},
		MaxTokens:   500,
		Temperature: 0.7,
	})

	assert.Equal(t, "llama3", req.Model)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Equal(t, "hi", req.Messages[1].Content)
	require.NotNil(t, req.Stream)
	assert.True(t, *req.Stream)
	assert.Equal(t, 500, req.Options["num_predict"])
	assert.Equal(t, 0.7, req.Options["temperature"])
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))
	assert.True(t, assistant.IsUnauthorized(classify(api.StatusError{StatusCode: http.StatusUnauthorized})))
	assert.False(t, assistant.IsUnauthorized(classify(errors.New("connection refused"))))
}

func TestNewRequiresURLs(t *testing.T) {
	_, err := New(Config{}, Logger.Nop())
	assert.Error(t, err)
}
