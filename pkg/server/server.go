package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fernweh-dev/fern/internal/dev"
	"github.com/fernweh-dev/fern/pkg/app"
	"github.com/fernweh-dev/fern/pkg/content"
	"github.com/fernweh-dev/fern/pkg/middleware"
)

// Server exposes a fern app over HTTP: the rendered shell, raw fragments
// and data for clients that render themselves, and an event endpoint that
// dispatches clicks and edits into the engine.
//
// The engine is single-threaded; the server serializes every dispatch and
// navigation behind one mutex.
type Server struct {
	app     *app.App
	loader  content.Loader
	logger  *slog.Logger
	metrics *middleware.Metrics
	reload  *dev.ReloadServer
	tracing bool
	addr    string

	mu     sync.Mutex
	router chi.Router
	http   *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithMetrics attaches request metrics and mounts /metrics.
func WithMetrics(m *middleware.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithReload attaches the dev reload server and mounts /ws. The shell
// gets the reload client script injected.
func WithReload(r *dev.ReloadServer) Option {
	return func(s *Server) {
		s.reload = r
	}
}

// WithTracing enables OpenTelemetry tracing of requests.
func WithTracing() Option {
	return func(s *Server) {
		s.tracing = true
	}
}

// New creates a server over an app and its content loader.
func New(a *app.App, loader content.Loader, opts ...Option) *Server {
	s := &Server{
		app:    a,
		loader: loader,
		addr:   "localhost:3000",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default().With("component", "server")
	}
	s.router = s.routes()
	return s
}

// routes builds the chi router.
func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(s.logger))
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}
	if s.tracing {
		r.Use(middleware.OpenTelemetry())
	}

	r.Get("/", s.handleShell)
	r.Get("/fragment/{name}", s.handleFragment)
	r.Get("/data", s.handleData)
	r.Post("/event", s.handleEvent)
	r.Post("/navigate", s.handleNavigate)
	r.Get("/healthz", s.handleHealth)

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}
	if s.reload != nil {
		r.Get("/ws", s.reload.HandleWebSocket)
	}
	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the server and blocks until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()
	s.logger.Info("listening", "addr", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if s.reload != nil {
		s.reload.Close()
	}
	return s.http.Shutdown(shutdownCtx)
}

// handleShell serves the HTML shell with the current container contents.
func (s *Server) handleShell(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	body := s.app.HTML()
	theme := s.app.Store().Theme()
	s.mu.Unlock()

	script := ""
	if s.reload != nil {
		script = dev.ClientScript
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(`<!doctype html><html data-theme="` + theme + `"><head><meta charset="utf-8"><title>fern</title></head><body><div id="app">` + body + `</div>` + script + `</body></html>`))
}

// handleFragment serves raw fragment markup.
func (s *Server) handleFragment(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	raw, err := s.loader.Fragment(r.Context(), name)
	if errors.Is(err, content.ErrNotFound) {
		http.Error(w, "fragment not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("fragment load failed", "fragment", name, "error", err)
		http.Error(w, "fragment unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(raw)
}

// handleData serves the raw JSON payload.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	raw, err := s.loader.Data(r.Context())
	if err != nil {
		http.Error(w, "data unavailable", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(raw)
}

// eventRequest is the POST /event body.
type eventRequest struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// eventResponse carries the re-rendered container markup.
type eventResponse struct {
	HTML string `json:"html"`
}

// handleEvent dispatches a click or input event by dispatch id and
// returns the re-rendered markup.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid event payload", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	var ok bool
	switch req.Type {
	case "click":
		ok = s.app.Engine().FireClickID(req.ID)
	case "input":
		ok = s.app.Engine().SetInputID(req.ID, req.Value)
	default:
		s.mu.Unlock()
		http.Error(w, "unknown event type", http.StatusBadRequest)
		return
	}
	body := s.app.HTML()
	s.mu.Unlock()

	if !ok {
		http.Error(w, "no binding for id", http.StatusNotFound)
		return
	}
	if s.metrics != nil {
		s.metrics.ObserveEvent(req.Type)
	}
	writeJSON(w, eventResponse{HTML: body})
}

// navigateRequest is the POST /navigate body.
type navigateRequest struct {
	Hash string `json:"hash"`
}

// handleNavigate resolves a hash, mounts the route's fragment, and
// returns the re-rendered markup.
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid navigate payload", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	err := s.app.Navigate(r.Context(), req.Hash)
	body := s.app.HTML()
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("navigation failed", "hash", req.Hash, "error", err)
		http.Error(w, "navigation failed", http.StatusInternalServerError)
		return
	}
	if s.metrics != nil {
		s.metrics.ObserveMount()
	}
	writeJSON(w, eventResponse{HTML: body})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// requestLogger logs each request with method, path, status, and
// duration.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}
