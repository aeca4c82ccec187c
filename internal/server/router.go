// Package server assembles the HTTP router and server for the todo API.
package server

import (
	"net/http"
	"time"

	"github.com/benvon/simple-todo/api"
	"github.com/benvon/simple-todo/internal/handlers"
	"github.com/benvon/simple-todo/internal/middleware"
	"github.com/benvon/simple-todo/internal/services/todo"
	"github.com/benvon/simple-todo/internal/telemetry"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Version is reported by GET /version
const Version = "1.0.0"

// Options collects everything the router needs
type Options struct {
	Logger *zap.Logger
	DB     handlers.Pinger
	Todos  *todo.Service
	CORS   *middleware.CORSReloader

	// RateLimit is applied to the todo routes only; nil disables it
	RateLimit    *middleware.RateLimitReloader
	HealthChecks []handlers.HealthOption

	EnableHSTS      bool
	EnableTracing   bool
	MaxRequestBytes int64
	RequestTimeout  time.Duration
}

// NewRouter builds the router with the full middleware chain.
// gorilla/mux runs middleware in registration order, the first registered being outermost.
func NewRouter(opts Options) *mux.Router {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := mux.NewRouter()

	if opts.EnableTracing {
		r.Use(telemetry.Middleware(telemetry.DefaultServiceName))
	}
	r.Use(middleware.SecurityHeaders(opts.EnableHSTS))
	if opts.CORS != nil {
		r.Use(opts.CORS.Middleware())
	}
	r.Use(middleware.Audit(log))
	r.Use(middleware.MaxRequestSize(opts.MaxRequestBytes))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(opts.RequestTimeout))
	r.Use(middleware.ErrorHandler(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))

	// Operational routes are never rate limited
	handlers.NewHealthChecker(opts.DB, opts.HealthChecks...).RegisterRoutes(r)
	r.HandleFunc("/version", handlers.Version(Version)).Methods(http.MethodGet)
	handlers.NewOpenAPIHandler(api.OpenAPIYAML).RegisterRoutes(r)

	todoHandler := handlers.NewTodoHandler(opts.Todos, log)
	for _, prefix := range []string{"/todos", "/api/todos"} {
		sub := r.PathPrefix(prefix).Subrouter()
		if opts.RateLimit != nil {
			sub.Use(opts.RateLimit.Middleware())
		}
		todoHandler.RegisterRoutes(sub)
	}

	// Preflight requests are answered by the CORS middleware before reaching this
	r.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}

// NewHTTPServer wraps handler with the server timeouts
func NewHTTPServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}
