package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"
)

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type openAIAssistant struct {
	client openai.Client
	model  openai.ChatModel
}

// Stream implements Completer.
func (o openAIAssistant) Stream(ctx context.Context, req CompletionRequest) (Stream, error) {
	convertedMsgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Msgs)+1)
	if req.System != "" {
		convertedMsgs = append(convertedMsgs, openai.SystemMessage(req.System))
	}
	for _, msg := range req.Msgs {
		convertedMsgs = append(convertedMsgs, convertToOpenaiMsg(msg))
	}

	params := openai.ChatCompletionNewParams{
		Messages: convertedMsgs,
		Model:    o.model,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	params.Temperature = openai.Float(req.Temperature)

	return &openAIStream{raw: o.client.Chat.Completions.NewStreaming(ctx, params)}, nil
}

type openAIStream struct {
	raw     *ssestream.Stream[openai.ChatCompletionChunk]
	current string
}

func (s *openAIStream) Next() bool {
	for s.raw.Next() {
		chunk := s.raw.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		if content := chunk.Choices[0].Delta.Content; content != "" {
			s.current = content
			return true
		}
	}
	return false
}

func (s *openAIStream) Current() string { return s.current }

func (s *openAIStream) Err() error { return classifyOpenAIError(s.raw.Err()) }

func (s *openAIStream) Close() error { return s.raw.Close() }

func classifyOpenAIError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == "invalid_api_key" || apiErr.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
	}
	return err
}

func convertToOpenaiMsg(msg AssistantMessage) openai.ChatCompletionMessageParamUnion {
	switch msg.MsgRole {
	case ASSISTANT:
		return openai.AssistantMessage(msg.Content)
	case SYSTEM:
		return openai.SystemMessage(msg.Content)
	}
	return openai.UserMessage(msg.Content)
}

func NewOpenAI(cfg OpenAIConfig) Completer {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := cfg.Model
	if model == "" {
		model = string(openai.ChatModelGPT4oMini)
	}
	return openAIAssistant{
		client: openai.NewClient(opts...),
		model:  openai.ChatModel(model),
	}
}
