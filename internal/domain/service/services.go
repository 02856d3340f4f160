package service

import (
	"context"
	"time"

	"AgriPull/internal/domain/models"
)

// Forecaster predicts the four price columns for a vegetable on a date.
type Forecaster interface {
	Predict(ctx context.Context, date time.Time, category string) (models.Forecast, error)
	Status() models.ModelStatus
}

// CropRecommender suggests a crop for soil and weather measurements.
// Inputs are range-validated by the caller.
type CropRecommender interface {
	Recommend(ctx context.Context, f models.CropFeatures) (models.CropRecommendation, error)
}
