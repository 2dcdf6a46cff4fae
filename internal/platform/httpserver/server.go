package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	adminauthservice "agentlists/contexts/identity-access/admin-auth-service"
	agentservice "agentlists/contexts/list-distribution/agent-service"
	listservice "agentlists/contexts/list-distribution/list-service"
	_ "agentlists/internal/platform/httpserver/docs"
	"agentlists/internal/platform/metrics"

	"github.com/gorilla/handlers"
	httpSwagger "github.com/swaggo/http-swagger"
)

const defaultMaxUploadBytes = 10 << 20

// Options carries process-level HTTP settings.
type Options struct {
	Addr               string
	MaxUploadBytes     int64
	CORSAllowedOrigins []string
	Metrics            *metrics.Recorder
	// Ready is probed by /health when set.
	Ready  func(ctx context.Context) error
	Logger *slog.Logger
}

type Server struct {
	mux            *http.ServeMux
	logger         *slog.Logger
	addr           string
	maxUploadBytes int64
	corsOrigins    []string
	metrics        *metrics.Recorder
	ready          func(ctx context.Context) error
	lists          listservice.Module
	agents         agentservice.Module
	auth           adminauthservice.Module
	httpServer     *http.Server
}

func New(
	lists listservice.Module,
	agents agentservice.Module,
	auth adminauthservice.Module,
	opts Options,
) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	addr := opts.Addr
	if addr == "" {
		addr = ":8080"
	}
	maxUploadBytes := opts.MaxUploadBytes
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	origins := opts.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{
		mux:            http.NewServeMux(),
		logger:         logger,
		addr:           addr,
		maxUploadBytes: maxUploadBytes,
		corsOrigins:    origins,
		metrics:        opts.Metrics,
		ready:          opts.Ready,
		lists:          lists,
		agents:         agents,
		auth:           auth,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the mux wrapped in recovery, CORS, request logging and
// request metrics.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = s.observe(h)
	h = handlers.CORS(
		handlers.AllowedOrigins(s.corsOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)(h)
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{logger: s.logger}),
		handlers.PrintRecoveryStack(false),
	)(h)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /health", s.handleHealth)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}

	s.mux.HandleFunc("POST /auth/login", s.handleLogin)
	s.mux.HandleFunc("GET /auth/me", s.handleMe)

	s.mux.HandleFunc("POST /lists/upload", s.requireAdmin(s.handleUploadList))
	s.mux.HandleFunc("GET /lists", s.requireAdmin(s.handleListRecords))
	s.mux.HandleFunc("GET /lists/agent/{agentId}", s.requireAdmin(s.handleListByAgent))
	s.mux.HandleFunc("GET /lists/summary", s.requireAdmin(s.handleListSummary))
	s.mux.HandleFunc("DELETE /lists/batch/{uploadBatch}", s.requireAdmin(s.handleDeleteBatch))
	s.mux.HandleFunc("PATCH /lists/{recordId}/status", s.requireAdmin(s.handleUpdateRecordStatus))

	s.mux.HandleFunc("POST /agents", s.requireAdmin(s.handleCreateAgent))
	s.mux.HandleFunc("GET /agents", s.requireAdmin(s.handleListAgents))
	s.mux.HandleFunc("GET /agents/count/active", s.requireAdmin(s.handleCountActiveAgents))
	s.mux.HandleFunc("GET /agents/{id}", s.requireAdmin(s.handleGetAgent))
	s.mux.HandleFunc("PUT /agents/{id}", s.requireAdmin(s.handleUpdateAgent))
	s.mux.HandleFunc("DELETE /agents/{id}", s.requireAdmin(s.handleDeleteAgent))
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Timestamp: time.Now().UTC().Format(time.RFC3339)}
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			resp.Status = "unavailable"
			resp.Error = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		duration := time.Since(start)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveHTTP(r.Method, route, recorder.status, duration)

		level := slog.LevelInfo
		if recorder.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.logger.Log(r.Context(), level, "http request",
			"event", "http_request_completed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", recorder.status,
			"duration_ms", duration.Milliseconds(),
		)
	})
}

type recoveryLogger struct {
	logger *slog.Logger
}

func (l recoveryLogger) Println(v ...any) {
	l.logger.Error("http handler panic",
		"event", "http_handler_panic",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"panic", fmt.Sprint(v...),
	)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func bearerToken(r *http.Request) string {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
