package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailJSSend(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte("OK"))
	}))
	defer srv.Close()

	m := NewEmailJS(Config{Endpoint: srv.URL, ServiceID: "svc", TemplateID: "tpl", PublicKey: "pub", PrivateKey: "priv"})
	err := m.Send(context.Background(), Message{FromName: "Ada", FromEmail: "ada@acme.io", Subject: "Hi", Body: "Hello"})
	require.NoError(t, err)

	assert.Equal(t, "svc", got.ServiceID)
	assert.Equal(t, "tpl", got.TemplateID)
	assert.Equal(t, "pub", got.UserID)
	assert.Equal(t, "priv", got.AccessToken)
	assert.Equal(t, "Ada", got.TemplateParams["from_name"])
	assert.Equal(t, "Hello", got.TemplateParams["message"])
}

func TestEmailJSSendProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("The template ID is invalid"))
	}))
	defer srv.Close()

	m := NewEmailJS(Config{Endpoint: srv.URL, ServiceID: "svc", TemplateID: "bad", PublicKey: "pub"})
	err := m.Send(context.Background(), Message{Body: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "template ID is invalid")
}

func TestEmailJSNotConfigured(t *testing.T) {
	m := NewEmailJS(Config{Endpoint: "http://127.0.0.1:1"})
	assert.ErrorIs(t, m.Send(context.Background(), Message{}), ErrNotConfigured)
}

func TestEmailJSRateWaitHonoursContext(t *testing.T) {
	m := NewEmailJS(Config{Endpoint: "http://127.0.0.1:1", ServiceID: "s", TemplateID: "t", PublicKey: "p", RatePerSec: 0.001, Burst: 1})
	// consume the only token
	require.True(t, m.limiter.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := m.Send(ctx, Message{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate wait")
}
