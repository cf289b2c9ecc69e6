package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/xpanvictor/portfolio/pkg/assistant"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type Config struct {
	APIKey string
	Model  string
}

// GeminiProvider streams completions from the Gemini API.
type GeminiProvider struct {
	client    *genai.Client
	modelName string
}

// New builds the provider. Without an API key no client is created and every
// Stream call fails with assistant.ErrUnauthorized.
func New(ctx context.Context, cfg Config) (*GeminiProvider, error) {
	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}
	if cfg.APIKey == "" {
		return &GeminiProvider{modelName: model}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini API client: %w", err)
	}
	return &GeminiProvider{client: client, modelName: model}, nil
}

// Stream implements assistant.Completer.
func (gp *GeminiProvider) Stream(ctx context.Context, req assistant.CompletionRequest) (assistant.Stream, error) {
	if gp.client == nil {
		return nil, fmt.Errorf("%w: gemini API key is not configured", assistant.ErrUnauthorized)
	}
	history, last, err := ConvertMsgs(req.Msgs)
	if err != nil {
		return nil, err
	}

	model := gp.client.GenerativeModel(gp.modelName)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	model.SetTemperature(float32(req.Temperature))

	cs := model.StartChat()
	cs.History = history

	return &geminiStream{iter: cs.SendMessageStream(ctx, last...)}, nil
}

// ConvertMsgs splits the conversation into prior history and the parts of the
// new turn. Gemini wants history to open with a user turn and the new turn to
// come from the user, so leading assistant entries are dropped and the last
// user message becomes the turn; anything after it is discarded.
func ConvertMsgs(msgs []assistant.AssistantMessage) ([]*genai.Content, []genai.Part, error) {
	lastUser := -1
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].MsgRole != assistant.ASSISTANT {
			lastUser = i
			break
		}
	}
	if lastUser < 0 {
		return nil, nil, errors.New("gemini: conversation has no user message")
	}

	start := 0
	for start < lastUser && msgs[start].MsgRole == assistant.ASSISTANT {
		start++
	}

	history := make([]*genai.Content, 0, lastUser-start)
	for _, msg := range msgs[start:lastUser] {
		role := "user"
		if msg.MsgRole == assistant.ASSISTANT {
			role = "model"
		}
		history = append(history, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(msg.Content)}})
	}
	return history, []genai.Part{genai.Text(msgs[lastUser].Content)}, nil
}

type geminiStream struct {
	iter    *genai.GenerateContentResponseIterator
	current string
	err     error
}

func (s *geminiStream) Next() bool {
	if s.err != nil {
		return false
	}
	for {
		resp, err := s.iter.Next()
		if errors.Is(err, iterator.Done) {
			return false
		}
		if err != nil {
			s.err = classify(err)
			return false
		}
		if text := responseText(resp); text != "" {
			s.current = text
			return true
		}
	}
}

func (s *geminiStream) Current() string { return s.current }
func (s *geminiStream) Err() error      { return s.err }

// The iterator has no explicit close; cancelling the request context ends it.
func (s *geminiStream) Close() error { return nil }

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
		// first candidate only
		break
	}
	return sb.String()
}

func classify(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && (gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden) {
		return fmt.Errorf("%w: %v", assistant.ErrUnauthorized, err)
	}
	if strings.Contains(err.Error(), "API_KEY_INVALID") || strings.Contains(err.Error(), "API key not valid") {
		return fmt.Errorf("%w: %v", assistant.ErrUnauthorized, err)
	}
	return fmt.Errorf("failed to receive from Gemini stream: %w", err)
}

func (gp *GeminiProvider) Close() error {
	if gp.client == nil {
		return nil
	}
	return gp.client.Close()
}
