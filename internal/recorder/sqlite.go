package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists evaluation history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *zap.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS evaluations (
			id             TEXT PRIMARY KEY,
			timestamp      INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			company        TEXT,
			action         TEXT,
			latest_close   TEXT,
			previous_close TEXT,
			percent_change INTEGER,
			direction      TEXT,
			should_notify  INTEGER,
			news_count     INTEGER,
			error          TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_evaluations_symbol_ts ON evaluations(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS notifications (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			evaluation_id TEXT NOT NULL,
			channel       TEXT,
			recipient     TEXT,
			body          TEXT,
			error         TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_eval ON notifications(evaluation_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordEvaluation(evt *EvaluationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO evaluations
		(id, timestamp, symbol, company, action, latest_close, previous_close,
		 percent_change, direction, should_notify, news_count, error)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		evt.ID, time.Now().Unix(), evt.Symbol, evt.Company, evt.Action,
		evt.LatestClose, evt.PreviousClose, evt.PercentChange, evt.Direction,
		evt.ShouldNotify, evt.NewsCount, evt.Error,
	)
	return err
}

func (r *SQLiteRecorder) RecordNotification(evt *NotificationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO notifications
		(timestamp, evaluation_id, channel, recipient, body, error)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), evt.EvaluationID, evt.Channel, evt.To, evt.Body, evt.Error,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
