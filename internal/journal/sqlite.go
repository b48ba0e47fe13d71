package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is a Journal backed by a local SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if necessary) the journal database at dbPath.
func NewSQLite(dbPath string) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	j := &SQLite{db: db}
	if err := j.migrate(); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return j, nil
}

func (j *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			timestamp TEXT NOT NULL,
			trig TEXT NOT NULL,
			temperature REAL NOT NULL,
			humidity REAL NOT NULL,
			powered INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
	`
	_, err := j.db.Exec(query)
	return err
}

// Store inserts one event.
func (j *SQLite) Store(ctx context.Context, event Event) error {
	powered := 0
	if event.Powered {
		powered = 1
	}

	query := `
		INSERT INTO events (id, timestamp, trig, temperature, humidity, powered, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := j.db.ExecContext(ctx, query,
		event.ID,
		event.Timestamp.UTC().Format(time.RFC3339),
		event.Trigger,
		event.Temperature,
		event.Humidity,
		powered,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("store event: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (j *SQLite) Recent(ctx context.Context, limit int) ([]Event, error) {
	query := `
		SELECT id, timestamp, trig, temperature, humidity, powered
		FROM events
		ORDER BY timestamp DESC
		LIMIT ?
	`
	rows, err := j.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e            Event
			timestampStr string
			powered      int
		)
		if err := rows.Scan(&e.ID, &timestampStr, &e.Trigger, &e.Temperature, &e.Humidity, &powered); err != nil {
			log.Printf("journal: scan row: %v", err)
			continue
		}

		ts, err := time.Parse(time.RFC3339, timestampStr)
		if err != nil {
			log.Printf("journal: parse timestamp: %v", err)
			continue
		}
		e.Timestamp = ts
		e.Powered = powered != 0
		events = append(events, e)
	}

	return events, rows.Err()
}

// Count returns the number of journaled events.
func (j *SQLite) Count(ctx context.Context) (int64, error) {
	var count int64
	err := j.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&count)
	return count, err
}

// Cleanup deletes events older than maxAge.
func (j *SQLite) Cleanup(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().UTC().Add(-maxAge).Format(time.RFC3339)

	result, err := j.db.ExecContext(ctx, "DELETE FROM events WHERE created_at < ?", cutoff)
	if err != nil {
		return fmt.Errorf("cleanup old events: %w", err)
	}

	deleted, _ := result.RowsAffected()
	if deleted > 0 {
		log.Printf("journal: cleaned up %d old events", deleted)
	}
	return nil
}

// Close closes the database.
func (j *SQLite) Close() error {
	return j.db.Close()
}
