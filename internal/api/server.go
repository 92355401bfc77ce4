// Package api is the thin HTTP layer over the scoring pipeline.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"WalletScore/internal/model"
	"WalletScore/internal/observability"
	"WalletScore/internal/pipeline"
	"WalletScore/internal/recorder"

	goerrors "github.com/go-errors/errors"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

// Scorer runs the scoring pipeline for one wallet.
type Scorer interface {
	Run(ctx context.Context, wallet string) (*model.Report, error)
}

// HistorySource returns recorded snapshots, newest first.
type HistorySource interface {
	History(wallet string, limit int) ([]recorder.ScoreSnapshot, error)
}

// Server serves score, assessment, profile and history lookups.
type Server struct {
	scorer  Scorer
	history HistorySource
	metrics *observability.Metrics
}

// NewServer creates a Server. history and m may be nil.
func NewServer(scorer Scorer, history HistorySource, m *observability.Metrics) *Server {
	return &Server{scorer: scorer, history: history, metrics: m}
}

// Handler returns the routed handler wrapped in recovery and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /v1/score/{address}", s.handleScore)
	mux.HandleFunc("GET /v1/assessment/{address}", s.handleAssessment)
	mux.HandleFunc("GET /v1/profile/{address}", s.handleProfile)
	mux.HandleFunc("GET /v1/history/{address}", s.handleHistory)
	mux.Handle("GET /metrics", s.metrics.Handler())
	return recovery(logging(mux))
}

type scoreResponse struct {
	Wallet    string `json:"wallet"`
	RequestID string `json:"request_id"`
	*model.ScoreResult
}

type historyResponse struct {
	Wallet    string                   `json:"wallet"`
	Snapshots []recorder.ScoreSnapshot `json:"snapshots"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	report, ok := s.run(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{
		Wallet:      report.Wallet,
		RequestID:   report.RequestID,
		ScoreResult: report.Score,
	})
}

func (s *Server) handleAssessment(w http.ResponseWriter, r *http.Request) {
	report, ok := s.run(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report.Assessment)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	report, ok := s.run(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	addr := r.PathValue("address")
	if err := pipeline.ValidateAddress(addr); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	resp := historyResponse{Wallet: strings.ToLower(addr), Snapshots: []recorder.ScoreSnapshot{}}
	if s.history != nil {
		snaps, err := s.history.History(addr, limit)
		if err != nil {
			log.Printf("[ERROR] history for %s: %v", addr, err)
			writeError(w, http.StatusInternalServerError, "history lookup failed")
			return
		}
		if snaps != nil {
			resp.Snapshots = snaps
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// run executes the pipeline for the path address and writes any error response.
func (s *Server) run(w http.ResponseWriter, r *http.Request) (*model.Report, bool) {
	report, err := s.scorer.Run(r.Context(), r.PathValue("address"))
	switch {
	case errors.Is(err, pipeline.ErrInvalidAddress):
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	case err != nil:
		log.Printf("[ERROR] score %s: %v", r.PathValue("address"), err)
		writeError(w, http.StatusInternalServerError, "scoring failed")
		return nil, false
	}
	return report, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[WARN] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		log.Printf("[INFO] %s %s %d took %v", r.Method, r.URL.Path, sw.status, time.Since(start))
	})
}

func recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[ERROR] panic serving %s %s:\n%s", r.Method, r.URL.Path, goerrors.Wrap(rec, 2).ErrorStack())
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
