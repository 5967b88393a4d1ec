// Package analytics is the privacy-conscious visitor tracker: hashed IPs,
// Do Not Track respected, and records purged after the retention window.
package analytics

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Visit is one tracked page view.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"` // Hashed instead of raw IP for privacy
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

type PathStat struct {
	Path  string `json:"path"`
	Views int64  `json:"views"`
}

type Stats struct {
	TotalVisitors    int64      `json:"total_visitors"`
	UniqueVisitors   int64      `json:"unique_visitors"`
	VisitorsToday    int64      `json:"visitors_today"`
	VisitorsThisWeek int64      `json:"visitors_this_week"`
	TopPaths         []PathStat `json:"top_paths"`
	RecentVisitors   []Visit    `json:"recent_visitors"`
}

// Hasher turns client IPs into short salted digests. The salt lives only in
// memory, so hashes cannot be linked across restarts.
type Hasher struct {
	salt string
}

func NewHasher(salt string) *Hasher {
	return &Hasher{salt: salt}
}

// HashIP hashes an IP address (consistent per IP for the process lifetime).
func (h *Hasher) HashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + h.salt))
	return hex.EncodeToString(hash.Sum(nil))[:16] // Truncate for storage efficiency
}

// Tracker records visits into a SQLite file.
type Tracker struct {
	db        *sql.DB
	hasher    *Hasher
	retention time.Duration
	now       func() time.Time
	wg        sync.WaitGroup
}

const schema = `
CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,  -- Store hashed IP instead of raw IP
	user_agent TEXT,
	path TEXT,
	timestamp INTEGER NOT NULL -- unix seconds, UTC
);
CREATE INDEX IF NOT EXISTS visitors_timestamp_idx ON visitors (timestamp);
`

// Open opens (creating if needed) the analytics database at path.
func Open(path string, hasher *Hasher, retention time.Duration) (*Tracker, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("analytics path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create analytics dir: %w", err)
		}
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one writer at a time; tracking inserts run in the background
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create visitors table: %w", err)
	}

	log.Println("Privacy: Visitor tracking enabled with hashed IP addresses")
	return &Tracker{db: db, hasher: hasher, retention: retention, now: time.Now}, nil
}

// Close waits for pending inserts and closes the database.
func (t *Tracker) Close() error {
	t.wg.Wait()
	return t.db.Close()
}

// Wait blocks until background inserts have finished.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

func (t *Tracker) Hasher() *Hasher {
	return t.hasher
}

// Record stores a visit with the IP hashed.
func (t *Tracker) Record(ctx context.Context, ip, userAgent, path string) error {
	_, err := t.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, t.hasher.HashIP(ip), userAgent, path, t.now().UTC().Unix())
	return err
}

// recordAsync records in the background so a page view never waits on
// the analytics database.
func (t *Tracker) recordAsync(ip, userAgent, path string) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		if err := t.Record(context.Background(), ip, userAgent, path); err != nil {
			log.Printf("Error recording visitor: %v", err)
		}
	}()
}

// Cleanup deletes visits older than the retention window.
func (t *Tracker) Cleanup(ctx context.Context) (int64, error) {
	cutoff := t.now().UTC().Add(-t.retention).Unix()
	result, err := t.db.ExecContext(ctx, `DELETE FROM visitors WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleaning up old visitor data: %w", err)
	}
	rowsDeleted, _ := result.RowsAffected()
	if rowsDeleted > 0 {
		log.Printf("Privacy cleanup: Removed %d visitor records older than %s", rowsDeleted, t.retention)
	}
	return rowsDeleted, nil
}

// Stats gathers the dashboard numbers.
func (t *Tracker) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{TopPaths: []PathStat{}, RecentVisitors: []Visit{}}
	now := t.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{startOfDay.Unix()}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{now.Add(-7 * 24 * time.Hour).Unix()}},
	}
	for _, c := range counts {
		if err := t.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, err
		}
	}

	rows, err := t.db.QueryContext(ctx, `
		SELECT path, COUNT(*) AS views
		FROM visitors
		GROUP BY path
		ORDER BY views DESC, path ASC
		LIMIT 10
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p PathStat
		if err := rows.Scan(&p.Path, &p.Views); err != nil {
			continue
		}
		stats.TopPaths = append(stats.TopPaths, p)
	}

	recent, err := t.Visitors(ctx, 50)
	if err != nil {
		return nil, err
	}
	stats.RecentVisitors = recent
	return stats, nil
}

// Visitors returns the most recent visits, newest first.
func (t *Tracker) Visitors(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := t.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	visits := []Visit{}
	for rows.Next() {
		var v Visit
		var ts int64
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			continue
		}
		v.Timestamp = time.Unix(ts, 0).UTC()
		visits = append(visits, v)
	}
	return visits, rows.Err()
}
