package model

import "time"

// WatchEntry tracks the last known score of a watched wallet.
type WatchEntry struct {
	Address       string    `json:"address"`
	LastScore     int       `json:"last_score"`
	LastGrade     string    `json:"last_grade"`
	MixerFlagged  bool      `json:"mixer_flagged"`
	RecentScores  []int     `json:"recent_scores"`
	AddedAt       time.Time `json:"added_at"`
	LastCheckedAt time.Time `json:"last_checked_at"`
}

// WatchState is the persisted watchlist.
type WatchState struct {
	Wallets   map[string]*WatchEntry `json:"wallets"`
	UpdatedAt time.Time              `json:"updated_at"`
}
