package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mesh-intelligence/relations/pkg/relationship"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = ":8080"

// Config holds server configuration.
type Config struct {
	Addr      string
	Registry  *relationship.Registry
	Endpoints relationship.Endpoints
	Logger    *slog.Logger
}

// NewRouter registers every route on a fresh chi router. The listing and
// item data handlers are mounted on the path of the configured endpoint
// URLs, so the URLs advertised in preload payloads are the ones served.
// Empty endpoints fall back to the relationship package defaults.
func NewRouter(registry *relationship.Registry, endpoints relationship.Endpoints, logger *slog.Logger) chi.Router {
	h := NewHandler(registry, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get(routePath(endpoints.BaseSelections, relationship.DefaultBaseSelectionsURL), h.HandleIndex)
	r.Post(routePath(endpoints.ItemData, relationship.DefaultItemDataURL), h.HandleItemData)

	r.Route("/fields/{handle}", func(r chi.Router) {
		r.Get("/preload", h.HandlePreload)
		r.Get("/rules", h.HandleRules)
		r.Post("/process", h.HandleProcess)
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	addr := cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(cfg.Registry, cfg.Endpoints, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	logger.Info("starting server", "addr", addr, "fields", len(cfg.Registry.Fields()))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// routePath returns the path component of an endpoint URL. Absolute URLs
// are reduced to their path; an empty or unparsable value yields def.
func routePath(endpoint, def string) string {
	if endpoint == "" {
		return def
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Path == "" {
		return def
	}
	if u.Path[0] != '/' {
		return "/" + u.Path
	}
	return u.Path
}

// requestLogger logs one line per request at debug level.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.DebugContext(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
