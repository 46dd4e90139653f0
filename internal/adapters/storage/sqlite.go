package storage

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/ports"
)

var _ ports.EventJournal = (*Journal)(nil)

// Journal is an append-only event log backed by SQLite. Nothing in it is
// read back into the engine.
type Journal struct {
	db *gorm.DB
}

// RebuildModel is the GORM model for engine rebuilds.
type RebuildModel struct {
	ID         uint   `gorm:"primaryKey"`
	Generation string `gorm:"index"`
	Reason     string
	Adapters   string // JSON encoded []string
	At         time.Time
}

func (RebuildModel) TableName() string { return "rebuild_events" }

// AnomalyModel is the GORM model for jump and divergence detections.
type AnomalyModel struct {
	ID         uint   `gorm:"primaryKey"`
	Network    string `gorm:"index"`
	Kind       string
	Value      float64
	Generation string
	Round      uint64
	At         time.Time
}

func (AnomalyModel) TableName() string { return "anomaly_events" }

// NewJournal opens the database at path and migrates the schema.
func NewJournal(path string) (*Journal, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, fmt.Errorf("journal tracing: %w", err)
	}

	// Auto Migrate
	if err := db.AutoMigrate(&RebuildModel{}, &AnomalyModel{}); err != nil {
		return nil, fmt.Errorf("migrate journal: %w", err)
	}

	// Create Indices for Performance
	db.Exec("CREATE INDEX IF NOT EXISTS idx_rebuild_events_at ON rebuild_events(at)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_anomaly_events_at ON anomaly_events(at)")

	return &Journal{db: db}, nil
}

// RecordRebuild appends one rebuild event.
func (j *Journal) RecordRebuild(ctx context.Context, ev domain.RebuildEvent) error {
	model := toRebuildModel(ev)
	return j.db.WithContext(ctx).Create(&model).Error
}

// RecordAnomalies appends all events in a single transaction.
func (j *Journal) RecordAnomalies(ctx context.Context, events []domain.AnomalyEvent) error {
	if len(events) == 0 {
		return nil
	}

	models := make([]AnomalyModel, len(events))
	for i, ev := range events {
		models[i] = toAnomalyModel(ev)
	}

	return j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(models, 100).Error
	})
}

// RecentRebuilds returns up to limit rebuilds, newest first.
func (j *Journal) RecentRebuilds(ctx context.Context, limit int) ([]domain.RebuildEvent, error) {
	var models []RebuildModel
	if err := j.db.WithContext(ctx).Order("id desc").Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}

	events := make([]domain.RebuildEvent, len(models))
	for i, m := range models {
		events[i] = toRebuildEvent(m)
	}
	return events, nil
}

// RecentAnomalies returns up to limit anomalies, newest first.
func (j *Journal) RecentAnomalies(ctx context.Context, limit int) ([]domain.AnomalyEvent, error) {
	var models []AnomalyModel
	if err := j.db.WithContext(ctx).Order("id desc").Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}

	events := make([]domain.AnomalyEvent, len(models))
	for i, m := range models {
		events[i] = toAnomalyEvent(m)
	}
	return events, nil
}

// Close closes the underlying connection.
func (j *Journal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
