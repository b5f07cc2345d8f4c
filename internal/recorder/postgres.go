package recorder

import (
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EvaluationRecord is the gorm model behind EvaluationEvent.
type EvaluationRecord struct {
	ID            string  `gorm:"type:varchar(36);primaryKey"`
	Symbol        string  `gorm:"type:varchar(16);not null;index:idx_evaluation_symbol_created"`
	Company       string  `gorm:"type:text"`
	Action        string  `gorm:"type:varchar(16)"`
	LatestClose   *string `gorm:"type:numeric"`
	PreviousClose *string `gorm:"type:numeric"`
	PercentChange int64
	Direction     string `gorm:"type:varchar(8)"`
	ShouldNotify  bool
	NewsCount     int
	Error         string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index:idx_evaluation_symbol_created"`
}

func (EvaluationRecord) TableName() string {
	return "evaluation_record"
}

// NotificationRecord is the gorm model behind NotificationEvent.
type NotificationRecord struct {
	ID           uint      `gorm:"primaryKey"`
	EvaluationID string    `gorm:"type:varchar(36);not null;index"`
	Channel      string    `gorm:"type:varchar(32)"`
	Recipient    string    `gorm:"type:varchar(64)"`
	Body         string    `gorm:"type:text"`
	Error        string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (NotificationRecord) TableName() string {
	return "notification_record"
}

// PostgresRecorder persists evaluation history to PostgreSQL through gorm.
type PostgresRecorder struct {
	DB  *gorm.DB
	log *zap.Logger
}

// NewPostgresRecorder connects through the lib/pq driver and runs AutoMigrate.
func NewPostgresRecorder(dsn string, log *zap.Logger) (*PostgresRecorder, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is empty")
	}
	db, err := gorm.Open(postgres.New(postgres.Config{
		DriverName: "postgres",
		DSN:        dsn,
	}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := db.AutoMigrate(&EvaluationRecord{}, &NotificationRecord{}); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	log.Info("postgres recorder opened")
	return &PostgresRecorder{DB: db, log: log}, nil
}

func (p *PostgresRecorder) RecordEvaluation(evt *EvaluationEvent) error {
	return p.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(toEvaluationRecord(evt)).Error
}

func (p *PostgresRecorder) RecordNotification(evt *NotificationEvent) error {
	return p.DB.Create(toNotificationRecord(evt)).Error
}

func toEvaluationRecord(evt *EvaluationEvent) *EvaluationRecord {
	return &EvaluationRecord{
		ID:            evt.ID,
		Symbol:        evt.Symbol,
		Company:       evt.Company,
		Action:        evt.Action,
		LatestClose:   numericOrNull(evt.LatestClose),
		PreviousClose: numericOrNull(evt.PreviousClose),
		PercentChange: evt.PercentChange,
		Direction:     evt.Direction,
		ShouldNotify:  evt.ShouldNotify,
		NewsCount:     evt.NewsCount,
		Error:         evt.Error,
	}
}

func toNotificationRecord(evt *NotificationEvent) *NotificationRecord {
	return &NotificationRecord{
		EvaluationID: evt.EvaluationID,
		Channel:      evt.Channel,
		Recipient:    evt.To,
		Body:         evt.Body,
		Error:        evt.Error,
	}
}

func (p *PostgresRecorder) Close() error {
	p.log.Info("closing postgres recorder")
	db, err := p.DB.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

// numericOrNull maps an empty price (evaluation failed before a decision) to NULL.
func numericOrNull(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
