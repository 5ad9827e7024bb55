package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/captcha-relay/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotifier(baseURL string) Notifier {
	return NewNotifier(&config.Config{
		BotToken:   "test-token",
		BotBaseURL: baseURL,
		BotTimeout: 2 * time.Second,
	})
}

func TestNotify_SendsChatIDAndText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/sendMessage", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "42", body["chat_id"])
		assert.Equal(t, "hello", body["text"])
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	assert.NoError(t, newTestNotifier(srv.URL).Notify(context.Background(), "42", "hello"))
}

func TestNotify_NonSuccessStatus_IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	assert.Error(t, newTestNotifier(srv.URL).Notify(context.Background(), "42", "hello"))
}

func TestNotify_ConnectionFailure_IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	assert.Error(t, newTestNotifier(srv.URL).Notify(context.Background(), "42", "hello"))
}
