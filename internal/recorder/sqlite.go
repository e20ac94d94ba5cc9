package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists dispatch history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so external readers don't block the writer.
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
		`CREATE TABLE IF NOT EXISTS alerts (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			account_key TEXT,
			account_id  TEXT,
			qq          TEXT,
			status      TEXT,
			reason      TEXT,
			title       TEXT,
			groups      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_ts ON alerts(timestamp)`,

		`CREATE TABLE IF NOT EXISTS pushes (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			kind      TEXT,
			groups    INTEGER,
			chars     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pushes_ts ON pushes(timestamp)`,

		`CREATE TABLE IF NOT EXISTS announcements (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			level      TEXT,
			updated_at REAL,
			content    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_announcements_ts ON announcements(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordAlert(evt *AlertEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO alerts
		(timestamp, account_key, account_id, qq, status, reason, title, groups)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.AccountKey, evt.AccountID, evt.QQ,
		evt.Status, evt.Reason, evt.Title, evt.Groups,
	)
	return err
}

func (r *SQLiteRecorder) RecordPush(evt *PushEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO pushes (timestamp, kind, groups, chars) VALUES (?,?,?,?)`,
		time.Now().Unix(), evt.Kind, evt.Groups, evt.Chars,
	)
	return err
}

func (r *SQLiteRecorder) RecordAnnouncement(evt *AnnouncementEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO announcements (timestamp, level, updated_at, content) VALUES (?,?,?,?)`,
		time.Now().Unix(), evt.Level, evt.UpdatedAt, evt.Content,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
