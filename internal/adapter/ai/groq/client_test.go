package groq_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexfound/apply-engine/internal/adapter/ai/groq"
	"github.com/nexfound/apply-engine/internal/config"
	"github.com/nexfound/apply-engine/internal/domain"
)

func testConfig(baseURL string) config.Config {
	return config.Config{
		AppEnv:      "test",
		GroqAPIKey:  "gsk_test",
		GroqBaseURL: baseURL,
		GroqModel:   "llama-3.3-70b-versatile",
	}
}

func chatResponse(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
}

func TestComplete_Success(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(chatResponse(`{"match_score": 80}`))
	}))
	defer srv.Close()

	c := groq.New(testConfig(srv.URL))
	out, err := c.Complete(context.Background(), "sys", "user", 0.4, 800)
	require.NoError(t, err)
	assert.Equal(t, `{"match_score": 80}`, out)
	assert.Equal(t, 0.4, gotBody["temperature"])
	assert.Equal(t, float64(800), gotBody["max_tokens"])
}

func TestComplete_MissingKey(t *testing.T) {
	c := groq.New(config.Config{AppEnv: "test"})
	_, err := c.Complete(context.Background(), "s", "u", 0.4, 800)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAIUnavailable)
}

func TestComplete_RetriesOn429(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(chatResponse("ok"))
	}))
	defer srv.Close()

	c := groq.New(testConfig(srv.URL))
	out, err := c.Complete(context.Background(), "s", "u", 0.6, 1024)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}

func TestComplete_PermanentOn4xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := groq.New(testConfig(srv.URL))
	_, err := c.Complete(context.Background(), "s", "u", 0.4, 800)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAIUnavailable)
	assert.Equal(t, int32(1), calls.Load())
}

func TestComplete_EmptyChoicesIsNotAFailure(t *testing.T) {
	// A 2xx with no choices is a content anomaly; the caller's parser
	// resolves the empty text deterministically, so no error here.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c := groq.New(testConfig(srv.URL))
	out, err := c.Complete(context.Background(), "s", "u", 0.4, 800)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestComplete_UndecodableBodyIsNotAFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte("<html>upstream proxy burp</html>"))
	}))
	defer srv.Close()

	c := groq.New(testConfig(srv.URL))
	out, err := c.Complete(context.Background(), "s", "u", 0.4, 800)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/models", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := groq.New(testConfig(srv.URL))
	require.NoError(t, c.Ping(context.Background()))

	unconfigured := groq.New(config.Config{})
	require.Error(t, unconfigured.Ping(context.Background()))
}
