package repository

import (
	"context"
	"time"

	"AgriPull/internal/domain/models"
)

// SeriesSource yields raw price rows with canonical column names. The
// spreadsheet, CSV and ClickHouse loaders implement it.
type SeriesSource interface {
	LoadRows(ctx context.Context) ([]models.RawRow, error)
	Name() string
}

// PriceArchive stores normalized records for later reads.
type PriceArchive interface {
	StoreBatch(ctx context.Context, records []models.PriceRecord) error
	Health(ctx context.Context) error
	Close() error
}

// ArtifactStore persists a trained model bundle as one atomic unit.
type ArtifactStore interface {
	// Load returns (nil, nil) when no artifact exists yet.
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Path() string
}

// EventPublisher announces training runs and forecasts to downstream consumers.
type EventPublisher interface {
	PublishTraining(ctx context.Context, r *models.TrainingReport) error
	PublishForecast(ctx context.Context, f *models.BatchForecast) error
	Close() error
}

type Metrics interface {
	RecordTrainingRun(result string, d time.Duration)
	RecordPrediction(category string)
	RecordError(kind string)
	RecordLastPrice(category string, price float64)
	RecordLatency(op string, seconds float64)
}
