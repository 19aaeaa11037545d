package analytics

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Server exposes the recorder over HTTP for the admin dashboard.
type Server struct {
	recorder *Recorder
	logger   *zap.Logger
	router   *mux.Router
}

// NewServer creates the admin analytics server. A nil logger is replaced
// with a no-op logger.
func NewServer(recorder *Recorder, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		recorder: recorder,
		logger:   logger,
	}

	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/api/analytics/summary", s.handleSummary).Methods("GET")
	r.HandleFunc("/api/analytics/top-queries", s.handleTopQueries).Methods("GET")
	r.HandleFunc("/api/analytics/zero-results", s.handleZeroResults).Methods("GET")
	r.HandleFunc("/api/events/search", s.handleRecordSearch).Methods("POST")
	s.router = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	window, err := windowParam(r, 24*time.Hour)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid window")
		return
	}
	writeJSON(w, http.StatusOK, s.recorder.Summarize(window))
}

func (s *Server) handleTopQueries(w http.ResponseWriter, r *http.Request) {
	window, err := windowParam(r, 24*time.Hour)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid window")
		return
	}
	limit := limitParam(r, 20)
	writeJSON(w, http.StatusOK, map[string]any{
		"window":  window.String(),
		"queries": s.recorder.TopQueries(window, limit),
	})
}

func (s *Server) handleZeroResults(w http.ResponseWriter, r *http.Request) {
	window, err := windowParam(r, 24*time.Hour)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid window")
		return
	}
	limit := limitParam(r, 20)
	writeJSON(w, http.StatusOK, map[string]any{
		"window":  window.String(),
		"queries": s.recorder.ZeroResultQueries(window, limit),
	})
}

func (s *Server) handleRecordSearch(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Query       string `json:"query"`
		Category    string `json:"category"`
		ResultCount int    `json:"result_count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if payload.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	s.recorder.RecordSearch(payload.Query, payload.Category, payload.ResultCount)
	w.WriteHeader(http.StatusAccepted)
}

// logRequests logs every request with its status and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.Duration("duration", time.Since(start)))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func windowParam(r *http.Request, fallback time.Duration) (time.Duration, error) {
	raw := r.URL.Query().Get("window")
	if raw == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}

func limitParam(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
