package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sseChunk(content string) string {
	return fmt.Sprintf(`data: {"id":"c1","object":"chat.completion.chunk","created":1,"model":"gpt-4o-mini","choices":[{"index":0,"delta":{"content":%q},"finish_reason":null}]}`+"\n\n", content)
}

func TestOpenAIStreamForwardsDeltasInOrder(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, sseChunk("Hel"))
		io.WriteString(w, sseChunk(""))
		io.WriteString(w, sseChunk("lo"))
		io.WriteString(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	c := NewOpenAI(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/", Model: "gpt-4o-mini"})
	stream, err := c.Stream(context.Background(), CompletionRequest{
		System:      "be brief",
		Msgs:        []AssistantMessage{{Content: "hi", MsgRole: USER}},
		MaxTokens:   500,
		Temperature: 0.7,
	})
	require.NoError(t, err)
	defer stream.Close()

	var parts []string
	for stream.Next() {
		parts = append(parts, stream.Current())
	}
	require.NoError(t, stream.Err())
	assert.Equal(t, []string{"Hel", "lo"}, parts)

	assert.Equal(t, "gpt-4o-mini", gotBody["model"])
	assert.EqualValues(t, 500, gotBody["max_tokens"])
	assert.Equal(t, true, gotBody["stream"])
	msgs, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["role"])
}

func TestOpenAIStreamClassifiesInvalidKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`)
	}))
	defer srv.Close()

	c := NewOpenAI(OpenAIConfig{APIKey: "sk-bad", BaseURL: srv.URL + "/"})
	stream, err := c.Stream(context.Background(), CompletionRequest{Msgs: []AssistantMessage{{Content: "hi", MsgRole: USER}}})
	require.NoError(t, err)
	defer stream.Close()

	assert.False(t, stream.Next())
	assert.True(t, IsUnauthorized(stream.Err()))
}

func TestOpenAIStreamOtherFailuresAreNotAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":{"message":"bad","type":"invalid_request_error","code":"context_length_exceeded"}}`)
	}))
	defer srv.Close()

	c := NewOpenAI(OpenAIConfig{APIKey: "sk", BaseURL: srv.URL + "/"})
	stream, err := c.Stream(context.Background(), CompletionRequest{Msgs: []AssistantMessage{{Content: "hi", MsgRole: USER}}})
	require.NoError(t, err)
	defer stream.Close()

	assert.False(t, stream.Next())
	require.Error(t, stream.Err())
	assert.False(t, IsUnauthorized(stream.Err()))
	assert.False(t, strings.Contains(stream.Err().Error(), ErrUnauthorized.Error()))
}

func TestChanStreamCloseStopsProducer(t *testing.T) {
	stopped := make(chan struct{})
	s := NewChanStream(context.Background(), func(ctx context.Context, emit func(string) error) error {
		defer close(stopped)
		for i := 0; ; i++ {
			if err := emit(fmt.Sprint(i)); err != nil {
				return err
			}
		}
	})

	require.True(t, s.Next())
	assert.Equal(t, "0", s.Current())
	require.NoError(t, s.Close())
	<-stopped
	assert.False(t, s.Next())
}

func TestChanStreamReportsProducerError(t *testing.T) {
	boom := fmt.Errorf("upstream broke")
	s := NewChanStream(context.Background(), func(ctx context.Context, emit func(string) error) error {
		_ = emit("a")
		_ = emit("")
		return boom
	})
	defer s.Close()

	require.True(t, s.Next())
	assert.Equal(t, "a", s.Current())
	assert.False(t, s.Next())
	assert.ErrorIs(t, s.Err(), boom)
}
