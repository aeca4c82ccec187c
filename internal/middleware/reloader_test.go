package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/benvon/simple-todo/internal/models"
	"go.uber.org/zap"
)

type fakeCorsStore struct {
	mu  sync.Mutex
	cfg *models.CorsConfig
	err error
}

func (f *fakeCorsStore) Get(context.Context) (*models.CorsConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg, f.err
}

func (f *fakeCorsStore) Set(_ context.Context, c *models.CorsConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cfg = c
	return nil
}

type fakeRatelimitStore struct {
	mu  sync.Mutex
	cfg *models.RatelimitConfig
	err error
}

func (f *fakeRatelimitStore) Get(context.Context) (*models.RatelimitConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg, f.err
}

func (f *fakeRatelimitStore) Set(_ context.Context, c *models.RatelimitConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cfg = c
	return nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func preflight(h http.Handler, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/todos", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCORSReloader_UsesDatabaseOrigins(t *testing.T) {
	t.Parallel()

	store := &fakeCorsStore{cfg: &models.CorsConfig{AllowedOrigins: "https://app.example", MaxAge: 60}}
	reloader := NewCORSReloader(store, "http://fallback.example", zap.NewNop(), time.Minute)
	h := reloader.Middleware()(okHandler())

	w := preflight(h, "https://app.example")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Errorf("Expected allowed origin header, got %q", got)
	}

	w = preflight(h, "http://fallback.example")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected fallback origin to be rejected when DB config exists, got %q", got)
	}
}

func TestCORSReloader_FallbackAndReload(t *testing.T) {
	t.Parallel()

	store := &fakeCorsStore{err: errors.New("db down")}
	reloader := NewCORSReloader(store, "http://localhost:5173", zap.NewNop(), time.Minute)
	h := reloader.Middleware()(okHandler())

	if got := reloader.AllowedOrigins(); len(got) != 1 || got[0] != "http://localhost:5173" {
		t.Fatalf("Expected fallback origin, got %v", got)
	}

	store.mu.Lock()
	store.err = nil
	store.cfg = &models.CorsConfig{AllowedOrigins: "https://a.example, https://b.example", MaxAge: 10}
	store.mu.Unlock()
	reloader.load(context.Background())

	if got := reloader.AllowedOrigins(); len(got) != 2 {
		t.Fatalf("Expected reloaded origins, got %v", got)
	}
	w := preflight(h, "https://b.example")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://b.example" {
		t.Errorf("Expected reloaded origin to be allowed, got %q", got)
	}
}

func TestRateLimitReloader_SeedsDefaultAndLimits(t *testing.T) {
	t.Parallel()

	limiterStore, err := NewLimiterStore(nil)
	if err != nil {
		t.Fatalf("NewLimiterStore() error = %v", err)
	}
	repo := &fakeRatelimitStore{}
	reloader := NewRateLimitReloader(limiterStore, repo, "2-M", zap.NewNop(), time.Minute)
	h := reloader.Middleware()(okHandler())

	if repo.cfg == nil || repo.cfg.Rate != "2-M" {
		t.Fatalf("Expected default rate to be saved, got %+v", repo.cfg)
	}
	if got := reloader.Rate().Limit; got != 2 {
		t.Errorf("Expected limit 2, got %d", got)
	}

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/todos", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i := range want {
		if statuses[i] != want[i] {
			t.Errorf("request %d: expected status %d, got %d", i+1, want[i], statuses[i])
		}
	}
}

func TestRateLimitReloader_InvalidRateFallsBack(t *testing.T) {
	t.Parallel()

	limiterStore, err := NewLimiterStore(nil)
	if err != nil {
		t.Fatalf("NewLimiterStore() error = %v", err)
	}
	repo := &fakeRatelimitStore{cfg: &models.RatelimitConfig{Rate: "lots"}}
	reloader := NewRateLimitReloader(limiterStore, repo, "", zap.NewNop(), time.Minute)
	_ = reloader.Middleware()(okHandler())

	if got := reloader.Rate().Formatted; got != DefaultRateLimit {
		t.Errorf("Expected fallback rate %s, got %s", DefaultRateLimit, got)
	}
}

func TestReloaders_StartStopsOnCancel(t *testing.T) {
	t.Parallel()

	limiterStore, _ := NewLimiterStore(nil)
	rl := NewRateLimitReloader(limiterStore, &fakeRatelimitStore{}, "", zap.NewNop(), time.Millisecond)
	cors := NewCORSReloader(&fakeCorsStore{}, "", zap.NewNop(), time.Millisecond)
	_ = rl.Middleware()(okHandler())
	_ = cors.Middleware()(okHandler())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{}, 2)
	go func() { rl.Start(ctx); done <- struct{}{} }()
	go func() { cors.Start(ctx); done <- struct{}{} }()

	time.Sleep(10 * time.Millisecond)
	cancel()
	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("reloader did not stop after cancel")
		}
	}
}
