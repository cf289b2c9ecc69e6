package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/portfolio/pkg/assistant"
	"google.golang.org/api/googleapi"
)

func TestConvertMsgsSplitsHistoryAndTurn(t *testing.T) {
	history, last, err := ConvertMsgs([]assistant.AssistantMessage{
		{Content: "hi", MsgRole: assistant.USER},
		{Content: "hello!", MsgRole: assistant.ASSISTANT},
		{Content: "what do you do?", MsgRole: assistant.USER},
	})
	require.NoError(t, err)

	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "model", history[1].Role)
	assert.Equal(t, genai.Text("hello!"), history[1].Parts[0])
	assert.Equal(t, []genai.Part{genai.Text("what do you do?")}, last)
}

func TestClassify(t *testing.T) {
	assert.True(t, assistant.IsUnauthorized(classify(&googleapi.Error{Code: http.StatusForbidden})))
	assert.True(t, assistant.IsUnauthorized(classify(errors.New("googleapi: Error 400: API key not valid. Please pass a valid API key."))))
	assert.False(t, assistant.IsUnauthorized(classify(errors.New("deadline exceeded"))))
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
		{Content: &genai.Content{Parts: []genai.Part{genai.Text("a"), genai.Text("b")}}},
		{Content: &genai.Content{Parts: []genai.Part{genai.Text("ignored")}}},
	}}
	assert.Equal(t, "ab", responseText(resp))
	assert.Equal(t, "", responseText(nil))
}

func TestConvertMsgsTrimmedWindowStartsWithUser(t *testing.T) {
	// eleven alternating turns cut to the last ten open on an assistant reply
	msgs := make([]assistant.AssistantMessage, 0, 11)
	for i := 0; i < 11; i++ {
		role := assistant.USER
		if i%2 == 1 {
			role = assistant.ASSISTANT
		}
		msgs = append(msgs, assistant.AssistantMessage{Content: fmt.Sprintf("m%d", i), MsgRole: role})
	}

	history, last, err := ConvertMsgs(msgs[1:])
	require.NoError(t, err)

	require.Len(t, history, 8)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, genai.Text("m2"), history[0].Parts[0])
	for i, c := range history {
		want := "user"
		if i%2 == 1 {
			want = "model"
		}
		assert.Equal(t, want, c.Role, "history[%d]", i)
	}
	assert.Equal(t, []genai.Part{genai.Text("m10")}, last)
}

func TestConvertMsgsTrailingAssistantIsNotTheTurn(t *testing.T) {
	history, last, err := ConvertMsgs([]assistant.AssistantMessage{
		{Content: "q1", MsgRole: assistant.USER},
		{Content: "a1", MsgRole: assistant.ASSISTANT},
		{Content: "q2", MsgRole: assistant.USER},
		{Content: "a2", MsgRole: assistant.ASSISTANT},
	})
	require.NoError(t, err)

	require.Len(t, history, 2)
	assert.Equal(t, "model", history[1].Role)
	assert.Equal(t, []genai.Part{genai.Text("q2")}, last)

	_, _, err = ConvertMsgs([]assistant.AssistantMessage{{Content: "a", MsgRole: assistant.ASSISTANT}})
	assert.Error(t, err)
}

func TestMissingKeyFailsPerRequest(t *testing.T) {
	provider, err := New(context.Background(), Config{})
	require.NoError(t, err)
	defer provider.Close()

	_, err = provider.Stream(context.Background(), assistant.CompletionRequest{
		Msgs: []assistant.AssistantMessage{{Content: "hi", MsgRole: assistant.USER}},
	})
	assert.True(t, assistant.IsUnauthorized(err))
}
