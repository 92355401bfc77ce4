package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists score history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so dashboards can read while the server writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS score_snapshots (
			id               TEXT PRIMARY KEY,
			timestamp        INTEGER NOT NULL,
			request_id       TEXT,
			wallet           TEXT NOT NULL,
			score            INTEGER,
			grade            TEXT,
			assessment_score INTEGER,
			assessment_grade TEXT,
			total_assets_usd REAL,
			breakdown        TEXT,
			risk_flags       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_score_wallet_ts ON score_snapshots(wallet, timestamp)`,

		`CREATE TABLE IF NOT EXISTS watch_events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			wallet     TEXT NOT NULL,
			event_type TEXT,
			old_grade  TEXT,
			new_grade  TEXT,
			score      INTEGER,
			note       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_watch_ts ON watch_events(timestamp)`,
	}

	for _, stmt := range stmts {
		if _, err := r.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordScore(snap *ScoreSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	breakdown, err := json.Marshal(snap.Breakdown)
	if err != nil {
		return fmt.Errorf("marshal breakdown: %w", err)
	}
	flags, err := json.Marshal(snap.RiskFlags)
	if err != nil {
		return fmt.Errorf("marshal risk flags: %w", err)
	}
	ts := snap.RecordedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err = r.db.Exec(`INSERT INTO score_snapshots
		(id, timestamp, request_id, wallet, score, grade,
		 assessment_score, assessment_grade, total_assets_usd,
		 breakdown, risk_flags)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		snap.ID, ts.Unix(), snap.RequestID, strings.ToLower(snap.Wallet),
		snap.Score, snap.Grade, snap.AssessmentScore, snap.AssessmentGrade,
		snap.TotalAssetsUSD, string(breakdown), string(flags),
	)
	return err
}

func (r *SQLiteRecorder) RecordWatchEvent(evt *WatchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO watch_events
		(timestamp, wallet, event_type, old_grade, new_grade, score, note)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), strings.ToLower(evt.Wallet), evt.EventType,
		evt.OldGrade, evt.NewGrade, evt.Score, evt.Note,
	)
	return err
}

// History returns up to limit snapshots for wallet, newest first.
func (r *SQLiteRecorder) History(wallet string, limit int) ([]ScoreSnapshot, error) {
	if limit <= 0 {
		limit = 20
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, timestamp, request_id, wallet, score, grade,
		assessment_score, assessment_grade, total_assets_usd, breakdown, risk_flags
		FROM score_snapshots WHERE wallet = ?
		ORDER BY timestamp DESC, rowid DESC LIMIT ?`,
		strings.ToLower(wallet), limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []ScoreSnapshot
	for rows.Next() {
		var (
			s                ScoreSnapshot
			ts               int64
			breakdown, flags string
		)
		if err := rows.Scan(&s.ID, &ts, &s.RequestID, &s.Wallet, &s.Score, &s.Grade,
			&s.AssessmentScore, &s.AssessmentGrade, &s.TotalAssetsUSD, &breakdown, &flags); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		s.RecordedAt = time.Unix(ts, 0).UTC()
		if err := json.Unmarshal([]byte(breakdown), &s.Breakdown); err != nil {
			return nil, fmt.Errorf("decode breakdown: %w", err)
		}
		if err := json.Unmarshal([]byte(flags), &s.RiskFlags); err != nil {
			return nil, fmt.Errorf("decode risk flags: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
