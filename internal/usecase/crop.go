package usecase

import (
	"context"
	"time"

	"AgriPull/internal/domain/models"
	domrepo "AgriPull/internal/domain/repository"
	domsvc "AgriPull/internal/domain/service"
)

// CropUseCase forwards validated measurements to the recommender.
type CropUseCase struct {
	recommender domsvc.CropRecommender
	metrics     domrepo.Metrics
}

func NewCropUseCase(r domsvc.CropRecommender, metrics domrepo.Metrics) *CropUseCase {
	return &CropUseCase{recommender: r, metrics: metrics}
}

func (uc *CropUseCase) Recommend(ctx context.Context, f models.CropFeatures) (models.CropRecommendation, error) {
	start := time.Now()
	rec, err := uc.recommender.Recommend(ctx, f)
	if uc.metrics != nil {
		uc.metrics.RecordLatency("crop_recommend", time.Since(start).Seconds())
		if err != nil {
			uc.metrics.RecordError("crop_recommend")
		}
	}
	return rec, err
}
