// Package recorder keeps an audit trail of scores and watchlist changes.
// Nothing here feeds back into scoring.
package recorder

import (
	"time"

	"WalletScore/internal/model"

	"github.com/google/uuid"
)

// ScoreSnapshot is one scoring run.
type ScoreSnapshot struct {
	ID              string               `json:"id"`
	RequestID       string               `json:"request_id"`
	Wallet          string               `json:"wallet"`
	Score           int                  `json:"score"`
	Grade           string               `json:"grade"`
	AssessmentScore int                  `json:"assessment_score"`
	AssessmentGrade string               `json:"assessment_grade"`
	Breakdown       model.ScoreBreakdown `json:"breakdown"`
	RiskFlags       model.RiskFlags      `json:"risk_flags"`
	TotalAssetsUSD  float64              `json:"total_assets_usd"`
	RecordedAt      time.Time            `json:"recorded_at"`
}

// NewScoreSnapshot extracts the audit record from a report.
func NewScoreSnapshot(r *model.Report) *ScoreSnapshot {
	s := &ScoreSnapshot{
		ID:         uuid.NewString(),
		RequestID:  r.RequestID,
		Wallet:     r.Wallet,
		RecordedAt: r.GeneratedAt,
	}
	if r.Score != nil {
		s.Score = r.Score.Score
		s.Grade = r.Score.Grade
		s.Breakdown = r.Score.Breakdown
		s.RiskFlags = r.Score.RiskFlags
		s.TotalAssetsUSD = r.Score.Details.TotalAssetsUSD
	}
	if r.Assessment != nil && r.Assessment.Score != nil {
		s.AssessmentScore = r.Assessment.Score.Score
		s.AssessmentGrade = r.Assessment.Score.Grade
	}
	return s
}

// Watch event types.
const (
	EventWatch       = "WATCH"
	EventUnwatch     = "UNWATCH"
	EventGradeChange = "GRADE_CHANGE"
	EventMixerAlert  = "MIXER_ALERT"
)

// WatchEvent records a watchlist change or alert.
type WatchEvent struct {
	Wallet    string
	EventType string
	OldGrade  string
	NewGrade  string
	Score     int
	Note      string
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordScore(snap *ScoreSnapshot) error
	RecordWatchEvent(evt *WatchEvent) error
	History(wallet string, limit int) ([]ScoreSnapshot, error)
	Close() error
}
