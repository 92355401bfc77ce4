// Package pipeline runs one scoring request end to end:
// collect, assess, score, record.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"WalletScore/internal/assessment"
	"WalletScore/internal/model"
	"WalletScore/internal/observability"
	"WalletScore/internal/recorder"
	"WalletScore/internal/scoring"

	"github.com/google/uuid"
)

// ErrInvalidAddress is returned for anything that is not a 20-byte hex address.
var ErrInvalidAddress = errors.New("invalid wallet address")

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ValidateAddress checks the 0x-prefixed 40 hex character form.
func ValidateAddress(addr string) error {
	if !addressPattern.MatchString(addr) {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	return nil
}

// ProfileCollector builds a wallet profile from upstream data.
type ProfileCollector interface {
	Collect(ctx context.Context, wallet string) (*model.WalletProfile, error)
}

// Pipeline wires the collector, assessor, scorer and audit sink.
type Pipeline struct {
	collector ProfileCollector
	assessor  *assessment.Assessor
	scorer    *scoring.Engine
	recorder  recorder.Recorder
	metrics   *observability.Metrics
	now       func() time.Time
}

// New creates a Pipeline. rec and m may be nil.
func New(col ProfileCollector, assessor *assessment.Assessor, scorer *scoring.Engine, rec recorder.Recorder, m *observability.Metrics) *Pipeline {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Pipeline{
		collector: col,
		assessor:  assessor,
		scorer:    scorer,
		recorder:  rec,
		metrics:   m,
		now:       time.Now,
	}
}

// Recorder exposes the audit sink for history lookups.
func (p *Pipeline) Recorder() recorder.Recorder { return p.recorder }

// Run scores wallet. Only an invalid address or a cancelled context fail;
// upstream outages degrade to empty data inside the collector.
func (p *Pipeline) Run(ctx context.Context, wallet string) (*model.Report, error) {
	start := p.now()
	if err := ValidateAddress(wallet); err != nil {
		p.metrics.RecordRequest("invalid", 0)
		return nil, err
	}
	wallet = strings.ToLower(wallet)
	reqID := uuid.NewString()

	profile, err := p.collector.Collect(ctx, wallet)
	if err != nil {
		p.metrics.RecordRequest("error", p.now().Sub(start))
		return nil, fmt.Errorf("collect %s: %w", wallet, err)
	}

	credit := p.assessor.Assess(profile)
	credit.Score = scoring.Comprehensive(profile, credit)
	result := p.scorer.Score(profile, credit)

	report := &model.Report{
		Wallet:      wallet,
		RequestID:   reqID,
		GeneratedAt: p.now().UTC(),
		Profile:     profile,
		Assessment:  credit,
		Score:       result,
	}

	if err := p.recorder.RecordScore(recorder.NewScoreSnapshot(report)); err != nil {
		log.Printf("[WARN] record score for %s failed: %v", wallet, err)
	}

	p.metrics.RecordScore(result.Score)
	p.metrics.RecordRequest("ok", p.now().Sub(start))
	log.Printf("[INFO] scored %s: %d (%s) request=%s", wallet, result.Score, result.Grade, reqID)
	return report, nil
}
