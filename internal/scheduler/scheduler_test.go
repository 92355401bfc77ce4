package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"WalletScore/internal/model"
	"WalletScore/internal/observability"
	"WalletScore/internal/pipeline"
	"WalletScore/internal/recorder"
	"WalletScore/internal/watchlist"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	walletA = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	walletB = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

type result struct {
	score int
	grade string
	mixer bool
}

// fakeScorer returns queued results per wallet; the last one repeats.
type fakeScorer struct {
	mu      sync.Mutex
	results map[string][]result
	fail    map[string]error
}

func (f *fakeScorer) Run(_ context.Context, w string) (*model.Report, error) {
	if err := pipeline.ValidateAddress(w); err != nil {
		return nil, err
	}
	w = strings.ToLower(w)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail[w]; err != nil {
		return nil, err
	}
	q := f.results[w]
	if len(q) == 0 {
		return nil, errors.New("no result queued")
	}
	r := q[0]
	if len(q) > 1 {
		f.results[w] = q[1:]
	}
	return &model.Report{
		Wallet: w,
		Score: &model.ScoreResult{
			Score:     r.score,
			Grade:     r.grade,
			RiskFlags: model.RiskFlags{MixerTransactions: r.mixer},
		},
	}, nil
}

type fakeSender struct {
	mu   sync.Mutex
	msgs []string
}

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, text)
	return nil
}

type eventRecorder struct {
	*recorder.NoopRecorder
	events []recorder.WatchEvent
}

func (r *eventRecorder) RecordWatchEvent(evt *recorder.WatchEvent) error {
	r.events = append(r.events, *evt)
	return nil
}

type fixture struct {
	sched  *Scheduler
	scorer *fakeScorer
	sender *fakeSender
	rec    *eventRecorder
	wl     *watchlist.Manager
	m      *observability.Metrics
}

func newFixture(t *testing.T, seed ...string) *fixture {
	t.Helper()
	wl, err := watchlist.NewManager(filepath.Join(t.TempDir(), "watchlist.json"), seed)
	require.NoError(t, err)

	f := &fixture{
		scorer: &fakeScorer{results: map[string][]result{}, fail: map[string]error{}},
		sender: &fakeSender{},
		rec:    &eventRecorder{NoopRecorder: recorder.NewNoopRecorder()},
		wl:     wl,
		m:      observability.NewMetrics("test"),
	}
	f.sched = NewScheduler(context.Background(), f.scorer, wl, f.sender, f.rec, f.m)
	return f
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.sched.Register("0 0 */6 * * *"))
	assert.Len(t, f.sched.Cron.Entries(), 1)
	assert.Error(t, f.sched.Register("not a cron"))
}

func TestWatchTask_GradeChangeAlert(t *testing.T) {
	f := newFixture(t, walletA, walletB)
	f.scorer.results[walletA] = []result{{720, "B+", false}, {610, "C+", false}}
	f.scorer.results[walletB] = []result{{500, "C", false}}

	f.sched.RunWatchNow()
	assert.Empty(t, f.sender.msgs)

	f.sched.RunWatchNow()
	require.Len(t, f.sender.msgs, 1)
	assert.Contains(t, f.sender.msgs[0], "B+ → C+")

	require.Len(t, f.rec.events, 1)
	assert.Equal(t, recorder.EventGradeChange, f.rec.events[0].EventType)
	assert.Equal(t, walletA, f.rec.events[0].Wallet)

	entries := f.wl.List()
	assert.Equal(t, 610, entries[0].LastScore)
	assert.Equal(t, []int{500, 500}, entries[1].RecentScores)
}

func TestWatchTask_MixerAlert(t *testing.T) {
	f := newFixture(t, walletA)
	f.scorer.results[walletA] = []result{{300, "F", true}}

	f.sched.RunWatchNow()
	require.Len(t, f.sender.msgs, 1)
	assert.Contains(t, f.sender.msgs[0], "Mixer")
	assert.Equal(t, recorder.EventMixerAlert, f.rec.events[0].EventType)
}

func TestWatchTask_FailureSkipsWallet(t *testing.T) {
	f := newFixture(t, walletA, walletB)
	f.scorer.fail[walletA] = errors.New("upstream")
	f.scorer.results[walletB] = []result{{650, "B", false}}

	f.sched.RunWatchNow()
	entries := f.wl.List()
	assert.Empty(t, entries[0].LastGrade)
	assert.Equal(t, "B", entries[1].LastGrade)
}

func TestWatchTask_Cancelled(t *testing.T) {
	f := newFixture(t, walletA)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.sched.Ctx = ctx
	f.scorer.results[walletA] = []result{{650, "B", false}}

	f.sched.RunWatchNow()
	assert.Empty(t, f.wl.List()[0].LastGrade)
}

func TestHandleCommand_WatchUnwatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Contains(t, f.sched.HandleCommand(ctx, "/watch "+walletA), "Now watching")
	assert.Contains(t, f.sched.HandleCommand(ctx, "/watch "+strings.ToUpper(walletA[2:])), "Invalid")
	assert.Contains(t, f.sched.HandleCommand(ctx, "/watch@WalletScoreBot "+walletA), "Already watching")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.m.WatchlistSize))

	assert.Contains(t, f.sched.HandleCommand(ctx, "/watchlist"), walletA)

	assert.Contains(t, f.sched.HandleCommand(ctx, "/unwatch "+walletA), "Stopped watching")
	assert.Contains(t, f.sched.HandleCommand(ctx, "/unwatch "+walletA), "Not watching")
	assert.Contains(t, f.sched.HandleCommand(ctx, "/unwatch"), "Usage")
	assert.Equal(t, 0.0, testutil.ToFloat64(f.m.WatchlistSize))

	require.Len(t, f.rec.events, 2)
	assert.Equal(t, recorder.EventWatch, f.rec.events[0].EventType)
	assert.Equal(t, recorder.EventUnwatch, f.rec.events[1].EventType)
}

func TestHandleCommand_Score(t *testing.T) {
	f := newFixture(t, walletA)
	f.scorer.results[walletA] = []result{{705, "B+", false}}
	ctx := context.Background()

	reply := f.sched.HandleCommand(ctx, "/score "+walletA)
	assert.Contains(t, reply, "<b>705</b>")
	assert.Equal(t, 705, f.wl.List()[0].LastScore)

	assert.Contains(t, f.sched.HandleCommand(ctx, "/score 0x12"), "Invalid address")
	assert.Contains(t, f.sched.HandleCommand(ctx, "/score"), "Usage")

	f.scorer.fail[walletB] = errors.New("boom")
	assert.Contains(t, f.sched.HandleCommand(ctx, "/score "+walletB), "Scoring failed")
}

func TestHandleCommand_Help(t *testing.T) {
	f := newFixture(t)
	for _, text := range []string{"", "hello", "/start", "/SCOREX"} {
		assert.Contains(t, f.sched.HandleCommand(context.Background(), text), "Available commands")
	}
}

func TestTrySendWithoutNotifier(t *testing.T) {
	f := newFixture(t, walletA)
	f.sched.Notifier = nil
	f.scorer.results[walletA] = []result{{300, "F", true}}
	assert.NotPanics(t, f.sched.RunWatchNow)
}
