package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/benvon/simple-todo/internal/database"
	"github.com/benvon/simple-todo/internal/request"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const (
	defaultCORSOrigin = "http://localhost:3000"
	defaultCORSMaxAge = 86400
)

// CORSReloader wraps rs/cors and periodically reloads CORS config from the database.
type CORSReloader struct {
	repo     database.CorsConfigStore
	fallback string // e.g. FRONTEND_URL
	log      *zap.Logger
	interval time.Duration
	once     sync.Once
	mu       sync.RWMutex
	current  *cors.Cors
	origins  []string
}

// NewCORSReloader creates a CORS middleware that loads config from the DB and hot-reloads it.
func NewCORSReloader(repo database.CorsConfigStore, frontendURLFallback string, log *zap.Logger, reloadInterval time.Duration) *CORSReloader {
	return &CORSReloader{
		repo:     repo,
		fallback: strings.TrimSpace(frontendURLFallback),
		log:      log,
		interval: reloadInterval,
	}
}

// Middleware returns a middleware that wraps next with CORS and hot-reload.
// mux builds the chain per request, so the config is loaded once up front.
func (r *CORSReloader) Middleware() func(http.Handler) http.Handler {
	r.once.Do(func() { r.load(context.Background()) })
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			r.mu.RLock()
			c := r.current
			r.mu.RUnlock()
			c.ServeHTTP(w, req, next.ServeHTTP)
		})
	}
}

// Start runs the reload loop until ctx is cancelled. Call after Middleware() is applied.
func (r *CORSReloader) Start(ctx context.Context) {
	if r.interval <= 0 {
		return
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.load(ctx)
		}
	}
}

// AllowedOrigins returns the origins currently in effect
func (r *CORSReloader) AllowedOrigins() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.origins))
	copy(out, r.origins)
	return out
}

func (r *CORSReloader) load(ctx context.Context) {
	cfg, err := r.repo.Get(ctx)
	if err != nil {
		r.log.Warn("failed_to_load_cors_config_from_db_using_fallback", zap.Error(err))
	}

	origins := database.AllowedOriginsSlice(r.fallback)
	allowCreds := true
	maxAge := defaultCORSMaxAge
	if err == nil && cfg != nil {
		origins = database.AllowedOriginsSlice(cfg.AllowedOrigins)
		allowCreds = cfg.AllowCredentials
		maxAge = cfg.MaxAge
	}
	if len(origins) == 0 {
		origins = []string{defaultCORSOrigin}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: allowCreds,
		MaxAge:           maxAge,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", request.HeaderRequestID},
		ExposedHeaders:   []string{request.HeaderRequestID},
	})

	r.mu.Lock()
	r.current = c
	r.origins = origins
	r.mu.Unlock()
}
