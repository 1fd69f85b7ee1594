package app_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpserver "github.com/nexfound/apply-engine/internal/adapter/httpserver"
	"github.com/nexfound/apply-engine/internal/app"
	"github.com/nexfound/apply-engine/internal/config"
	"github.com/nexfound/apply-engine/internal/domain"
	"github.com/nexfound/apply-engine/internal/domain/mocks"
)

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{"*"}},
		{"wildcard", "*", []string{"*"}},
		{"single", "https://app.example.com", []string{"https://app.example.com"}},
		{"multiple with spaces", "https://a.example.com, https://b.example.com", []string{"https://a.example.com", "https://b.example.com"}},
		{"only commas", ",,", []string{"*"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, app.ParseOrigins(tt.in))
		})
	}
}

func testRouter(t *testing.T, cfg config.Config) (http.Handler, *mocks.MockSessionStore) {
	t.Helper()
	sessions := mocks.NewMockSessionStore(t)
	srv := &httpserver.Server{Cfg: cfg, Sessions: sessions}
	return app.BuildRouter(cfg, srv), sessions
}

func TestBuildRouter_Healthz(t *testing.T) {
	r, _ := testRouter(t, config.Config{RateLimitPerMin: 30, RequestTimeout: 5 * time.Second})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestBuildRouter_Metrics(t *testing.T) {
	r, _ := testRouter(t, config.Config{RateLimitPerMin: 30, RequestTimeout: 5 * time.Second})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestBuildRouter_SecurityHeaders(t *testing.T) {
	r, _ := testRouter(t, config.Config{RateLimitPerMin: 30, RequestTimeout: 5 * time.Second})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get("X-Frame-Options"))
}

func TestBuildRouter_AdminHiddenWhenUnconfigured(t *testing.T) {
	r, _ := testRouter(t, config.Config{RateLimitPerMin: 30, RequestTimeout: 5 * time.Second})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/admin/applications", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestBuildRouter_StartRequiresSession(t *testing.T) {
	r, sessions := testRouter(t, config.Config{RateLimitPerMin: 30, RequestTimeout: 5 * time.Second})
	sessions.On("Resolve", mock.Anything, "").Return(domain.Identity{}, domain.ErrUnauthenticated).Once()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/applications/start", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
