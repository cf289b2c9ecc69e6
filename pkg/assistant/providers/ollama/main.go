package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ollama/ollama/api"
	"github.com/presbrey/ollamafarm"
	"github.com/xpanvictor/portfolio/pkg/Logger"
	"github.com/xpanvictor/portfolio/pkg/assistant"
)

type Config struct {
	URLs  []string
	Model string
}

// OllamaProvider fans completions out over a farm of self-hosted servers,
// always picking the first one that is online.
type OllamaProvider struct {
	farm  *ollamafarm.Farm
	model string
}

func New(cfg Config, logger *Logger.Logger) (*OllamaProvider, error) {
	if len(cfg.URLs) == 0 {
		return nil, fmt.Errorf("ollama: no server URLs configured")
	}
	farm := ollamafarm.New()

	registered := 0
	for _, u := range cfg.URLs {
		if err := farm.RegisterURL(u, nil); err != nil {
			logger.Warnf("ollama: skipping %s: %v", u, err)
			continue
		}
		registered++
	}
	if registered == 0 {
		return nil, fmt.Errorf("ollama: none of %d servers could be registered", len(cfg.URLs))
	}

	return &OllamaProvider{farm: farm, model: cfg.Model}, nil
}

// Stream implements assistant.Completer.
func (o *OllamaProvider) Stream(ctx context.Context, req assistant.CompletionRequest) (assistant.Stream, error) {
	node := o.farm.First(&ollamafarm.Where{Offline: false})
	if node == nil {
		return nil, fmt.Errorf("%w: no online ollama server for %s", assistant.ErrNoProvider, o.model)
	}
	client := node.Client()
	chatReq := BuildRequest(o.model, req)

	return assistant.NewChanStream(ctx, func(ctx context.Context, emit func(string) error) error {
		err := client.Chat(ctx, &chatReq, func(resp api.ChatResponse) error {
			return emit(resp.Message.Content)
		})
		return classify(err)
	}), nil
}

func BuildRequest(model string, req assistant.CompletionRequest) api.ChatRequest {
	msgs := make([]api.Message, 0, len(req.Msgs)+1)
	if req.System != "" {
		msgs = append(msgs, api.Message{Role: string(assistant.SYSTEM), Content: req.System})
	}
	for _, m := range req.Msgs {
		msgs = append(msgs, api.Message{Role: string(m.MsgRole), Content: m.Content})
	}
	stream := true
	options := map[string]interface{}{
		"temperature": req.Temperature,
	}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}
	return api.ChatRequest{
		Model:    model,
		Messages: msgs,
		Stream:   &stream,
		Options:  options,
	}
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	var se api.StatusError
	if errors.As(err, &se) && (se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden) {
		return fmt.Errorf("%w: %v", assistant.ErrUnauthorized, err)
	}
	return err
}
