package recorder

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// EvaluationEvent holds the outcome of one evaluation, successful or not.
type EvaluationEvent struct {
	ID            string
	Symbol        string
	Company       string
	Action        string
	LatestClose   string
	PreviousClose string
	PercentChange int64
	Direction     string
	ShouldNotify  bool
	NewsCount     int
	Error         string // empty on success
}

// NotificationEvent records one delivery attempt.
type NotificationEvent struct {
	EvaluationID string
	Channel      string
	To           string
	Body         string
	Error        string
}

// Recorder persists evaluation history for later analysis.
type Recorder interface {
	RecordEvaluation(evt *EvaluationEvent) error
	RecordNotification(evt *NotificationEvent) error
	Close() error
}

// Open picks a recorder by driver (sqlite, postgres, none).
func Open(driver, sqlitePath, postgresDSN string, log *zap.Logger) (Recorder, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "none", "noop":
		return NewNoopRecorder(), nil
	case "sqlite":
		return NewSQLiteRecorder(sqlitePath, log)
	case "postgres":
		return NewPostgresRecorder(postgresDSN, log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q (use: sqlite, postgres, none)", driver)
	}
}
