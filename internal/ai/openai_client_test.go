package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Vovarama1992/agro-ai-gateway/internal/apperr"
)

const completionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4o",
  "choices": [{"index": 0, "message": {"role": "assistant", "content": "Plant maize."}, "finish_reason": "stop"}],
  "usage": {"prompt_tokens": 10, "completion_tokens": 3, "total_tokens": 13}
}`

type fakeOpenAI struct {
	hits     atomic.Int32
	status   int
	body     string
	lastBody atomic.Value
}

func (f *fakeOpenAI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.hits.Add(1)
	b, _ := io.ReadAll(r.Body)
	f.lastBody.Store(string(b))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	_, _ = io.WriteString(w, f.body)
}

func newClient(t *testing.T, key string, fake *fakeOpenAI) *OpenAIClient {
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return NewOpenAIClient(OpenAIConfig{
		APIKey:    key,
		BaseURL:   srv.URL + "/v1",
		Model:     "gpt-4o",
		MaxTokens: 2000,
	}, zaptest.NewLogger(t))
}

func TestOpenAIClientComplete(t *testing.T) {
	fake := &fakeOpenAI{status: http.StatusOK, body: completionBody}
	c := newClient(t, "sk-test", fake)

	text, err := c.Complete(context.Background(), "system text", "best crops?")
	require.NoError(t, err)
	assert.Equal(t, "Plant maize.", text)

	var sent struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		Messages  []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal([]byte(fake.lastBody.Load().(string)), &sent))
	assert.Equal(t, "gpt-4o", sent.Model)
	assert.Equal(t, 2000, sent.MaxTokens)
	require.Len(t, sent.Messages, 2)
	assert.Equal(t, "system", sent.Messages[0].Role)
	assert.Equal(t, "best crops?", sent.Messages[1].Content)
}

func TestOpenAIClientCompleteWithImage(t *testing.T) {
	fake := &fakeOpenAI{status: http.StatusOK, body: completionBody}
	c := newClient(t, "sk-test", fake)

	_, err := c.CompleteWithImage(context.Background(), "sys", "analyze", "data:image/png;base64,AAAA")
	require.NoError(t, err)

	body := fake.lastBody.Load().(string)
	assert.True(t, strings.Contains(body, `"image_url"`), body)
	assert.True(t, strings.Contains(body, "data:image/png;base64,AAAA"), body)
}

func TestOpenAIClientMissingKeyNeverCallsProvider(t *testing.T) {
	fake := &fakeOpenAI{status: http.StatusOK, body: completionBody}
	c := newClient(t, "", fake)
	assert.False(t, c.HasCredentials())

	_, err := c.Complete(context.Background(), "sys", "q")
	assert.ErrorIs(t, err, ErrMissingCredentials)
	assert.Equal(t, int32(0), fake.hits.Load())
}

func TestOpenAIClientErrorStatusesThroughInvoker(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   apperr.Kind
	}{
		{http.StatusTooManyRequests, `{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`, apperr.RateLimited},
		{http.StatusUnauthorized, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`, apperr.Unauthorized},
		{http.StatusInternalServerError, `{"error":{"message":"The server had an error","type":"server_error"}}`, apperr.ProviderUnavailable},
		{http.StatusBadGateway, `<html>bad gateway</html>`, apperr.ProviderUnavailable},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			fake := &fakeOpenAI{status: tc.status, body: tc.body}
			inv := NewInvoker(newClient(t, "sk-test", fake), 5*time.Second, zaptest.NewLogger(t))

			_, err := inv.Invoke(context.Background(), Request{System: "sys", User: "q"})
			require.Error(t, err)
			assert.Equal(t, tc.want, apperr.KindOf(err))
			assert.Equal(t, int32(1), fake.hits.Load(), "no retries")
		})
	}
}

func TestOpenAIClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c := NewOpenAIClient(OpenAIConfig{APIKey: "sk-test", BaseURL: addr + "/v1"}, zaptest.NewLogger(t))
	inv := NewInvoker(c, 5*time.Second, zaptest.NewLogger(t))

	_, err := inv.Invoke(context.Background(), Request{User: "q"})
	assert.Equal(t, apperr.NetworkUnreachable, apperr.KindOf(err))
}
