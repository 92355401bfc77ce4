// Package watchlist keeps the set of wallets rescored on a schedule,
// persisted as a JSON file.
package watchlist

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"WalletScore/internal/model"
	"WalletScore/internal/pipeline"
)

const maxRecentScores = 12

// Alert kinds.
const (
	AlertGradeChange = "grade_change"
	AlertMixer       = "mixer"
)

// Alert is raised by Update when a watched wallet changes materially.
type Alert struct {
	Kind      string
	Wallet    string
	OldGrade  string
	NewGrade  string
	PrevScore int
	Score     int
}

// Manager handles watchlist mutations with concurrency safety.
type Manager struct {
	mu       sync.Mutex
	state    *model.WatchState
	filePath string
	now      func() time.Time
}

// NewManager creates a Manager, loading state from disk and adding any
// seed wallets not already watched.
func NewManager(filePath string, seed []string) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}

	m := &Manager{state: state, filePath: filePath, now: time.Now}
	for _, w := range seed {
		if err := pipeline.ValidateAddress(w); err != nil {
			log.Printf("[WARN] skipping seed wallet: %v", err)
			continue
		}
		key := strings.ToLower(w)
		if _, ok := m.state.Wallets[key]; !ok {
			m.state.Wallets[key] = &model.WatchEntry{Address: key, AddedAt: m.now()}
		}
	}

	if err := m.save(); err != nil {
		return nil, fmt.Errorf("save watchlist: %w", err)
	}
	return m, nil
}

// Add starts watching wallet. It reports false if already watched.
func (m *Manager) Add(wallet string) (bool, error) {
	if err := pipeline.ValidateAddress(wallet); err != nil {
		return false, err
	}
	key := strings.ToLower(wallet)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.state.Wallets[key]; ok {
		return false, nil
	}
	m.state.Wallets[key] = &model.WatchEntry{Address: key, AddedAt: m.now()}
	if err := m.save(); err != nil {
		return true, fmt.Errorf("save watchlist: %w", err)
	}
	return true, nil
}

// Remove stops watching wallet. It reports false if it was not watched.
func (m *Manager) Remove(wallet string) (bool, error) {
	key := strings.ToLower(wallet)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.state.Wallets[key]; !ok {
		return false, nil
	}
	delete(m.state.Wallets, key)
	if err := m.save(); err != nil {
		return true, fmt.Errorf("save watchlist: %w", err)
	}
	return true, nil
}

// List returns copies of all entries sorted by address.
func (m *Manager) List() []model.WatchEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.WatchEntry, 0, len(m.state.Wallets))
	for _, e := range m.state.Wallets {
		cp := *e
		cp.RecentScores = append([]int(nil), e.RecentScores...)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}

// Wallets returns the watched addresses, sorted.
func (m *Manager) Wallets() []string {
	entries := m.List()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Address
	}
	return out
}

// Len returns the number of watched wallets.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.Wallets)
}

// Update stores the latest result for a watched wallet and returns any
// alerts. Reports for unwatched wallets are ignored.
func (m *Manager) Update(r *model.Report) []Alert {
	if r == nil || r.Score == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.state.Wallets[strings.ToLower(r.Wallet)]
	if !ok {
		return nil
	}

	var alerts []Alert
	mixer := r.Score.RiskFlags.MixerTransactions
	if e.LastGrade != "" && e.LastGrade != r.Score.Grade {
		alerts = append(alerts, Alert{
			Kind:      AlertGradeChange,
			Wallet:    e.Address,
			OldGrade:  e.LastGrade,
			NewGrade:  r.Score.Grade,
			PrevScore: e.LastScore,
			Score:     r.Score.Score,
		})
	}
	if mixer && !e.MixerFlagged {
		alerts = append(alerts, Alert{
			Kind:      AlertMixer,
			Wallet:    e.Address,
			OldGrade:  e.LastGrade,
			NewGrade:  r.Score.Grade,
			PrevScore: e.LastScore,
			Score:     r.Score.Score,
		})
	}

	e.LastScore = r.Score.Score
	e.LastGrade = r.Score.Grade
	e.MixerFlagged = mixer
	e.LastCheckedAt = m.now()
	e.RecentScores = append(e.RecentScores, r.Score.Score)
	if len(e.RecentScores) > maxRecentScores {
		e.RecentScores = e.RecentScores[len(e.RecentScores)-maxRecentScores:]
	}

	if err := m.save(); err != nil {
		log.Printf("[ERROR] failed to save watchlist state: %v", err)
	}
	return alerts
}

func (m *Manager) save() error {
	return SaveState(m.filePath, m.state)
}
