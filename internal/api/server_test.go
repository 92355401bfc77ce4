package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"WalletScore/internal/model"
	"WalletScore/internal/observability"
	"WalletScore/internal/pipeline"
	"WalletScore/internal/recorder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wallet = "0x1111111111111111111111111111111111111111"

type stubScorer struct {
	err   error
	panic bool
}

func (s *stubScorer) Run(_ context.Context, w string) (*model.Report, error) {
	if s.panic {
		panic("boom")
	}
	if err := pipeline.ValidateAddress(w); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return &model.Report{
		Wallet:     strings.ToLower(w),
		RequestID:  "req-42",
		Profile:    &model.WalletProfile{Address: w},
		Assessment: &model.CreditAssessment{Wallet: w, Score: &model.ComprehensiveScore{Score: 640, Grade: "BBB"}},
		Score:      &model.ScoreResult{Score: 712, Grade: "B+", Rating: "Good"},
	}, nil
}

type stubHistory struct {
	snaps     []recorder.ScoreSnapshot
	err       error
	lastLimit int
}

func (h *stubHistory) History(_ string, limit int) ([]recorder.ScoreSnapshot, error) {
	h.lastLimit = limit
	return h.snaps, h.err
}

func do(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealth(t *testing.T) {
	h := NewServer(&stubScorer{}, nil, nil).Handler()
	rec, body := do(t, h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestScore(t *testing.T) {
	h := NewServer(&stubScorer{}, nil, nil).Handler()
	rec, body := do(t, h, "/v1/score/"+wallet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, wallet, body["wallet"])
	assert.Equal(t, "req-42", body["request_id"])
	assert.Equal(t, 712.0, body["score"])
	assert.Equal(t, "B+", body["grade"])
}

func TestAssessment(t *testing.T) {
	h := NewServer(&stubScorer{}, nil, nil).Handler()
	rec, body := do(t, h, "/v1/assessment/"+wallet)
	require.Equal(t, http.StatusOK, rec.Code)
	credit, ok := body["credit_score"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "BBB", credit["grade"])
}

func TestProfile(t *testing.T) {
	h := NewServer(&stubScorer{}, nil, nil).Handler()
	rec, body := do(t, h, "/v1/profile/"+wallet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "profile")
	assert.Contains(t, body, "assessment")
	assert.Contains(t, body, "score")
}

func TestInvalidAddress(t *testing.T) {
	h := NewServer(&stubScorer{}, &stubHistory{}, nil).Handler()
	for _, path := range []string{"/v1/score/0x123", "/v1/assessment/nope", "/v1/profile/0xZZ", "/v1/history/0x1"} {
		t.Run(path, func(t *testing.T) {
			rec, body := do(t, h, path)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, body["error"], "invalid wallet address")
		})
	}
}

func TestPipelineFailure(t *testing.T) {
	h := NewServer(&stubScorer{err: errors.New("collect: context deadline exceeded")}, nil, nil).Handler()
	rec, body := do(t, h, "/v1/score/"+wallet)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "scoring failed", body["error"])
}

func TestPanicRecovered(t *testing.T) {
	h := NewServer(&stubScorer{panic: true}, nil, nil).Handler()
	rec, body := do(t, h, "/v1/score/"+wallet)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", body["error"])
}

func TestHistory(t *testing.T) {
	hist := &stubHistory{snaps: []recorder.ScoreSnapshot{
		{ID: "a", Wallet: wallet, Score: 700, Grade: "B", RecordedAt: time.Unix(1700000000, 0).UTC()},
	}}
	h := NewServer(&stubScorer{}, hist, nil).Handler()

	rec, body := do(t, h, "/v1/history/"+wallet+"?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, hist.lastLimit)
	snaps, ok := body["snapshots"].([]any)
	require.True(t, ok)
	require.Len(t, snaps, 1)
	assert.Equal(t, 700.0, snaps[0].(map[string]any)["score"])

	do(t, h, "/v1/history/"+wallet+"?limit=100000")
	assert.Equal(t, maxHistoryLimit, hist.lastLimit)

	do(t, h, "/v1/history/"+wallet)
	assert.Equal(t, defaultHistoryLimit, hist.lastLimit)
}

func TestHistoryBadLimit(t *testing.T) {
	h := NewServer(&stubScorer{}, &stubHistory{}, nil).Handler()
	rec, _ := do(t, h, "/v1/history/"+wallet+"?limit=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryDisabled(t *testing.T) {
	h := NewServer(&stubScorer{}, nil, nil).Handler()
	rec, body := do(t, h, "/v1/history/"+wallet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, body["snapshots"])
}

func TestHistoryError(t *testing.T) {
	h := NewServer(&stubScorer{}, &stubHistory{err: errors.New("db locked")}, nil).Handler()
	rec, _ := do(t, h, "/v1/history/"+wallet)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	m := observability.NewMetrics("walletscore")
	m.RecordScore(700)
	h := NewServer(&stubScorer{}, nil, m).Handler()

	rec, _ := do(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "walletscore_pipeline_score")
}

func TestMethodNotAllowed(t *testing.T) {
	h := NewServer(&stubScorer{}, nil, nil).Handler()
	req := httptest.NewRequest(http.MethodPost, "/v1/score/"+wallet, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
