package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"AgriPull/internal/domain/models"
	domsvc "AgriPull/internal/domain/service"
	"AgriPull/pkg/config"
)

// TopN is how many ranked alternatives are returned.
const TopN = 3

var ErrNotConfigured = errors.New("crop recommender is not configured")

type HTTPCropRecommender struct {
	base     *HTTPServiceBase
	attempts int
}

func NewHTTPCropRecommender(cfg *config.Config) *HTTPCropRecommender {
	return &HTTPCropRecommender{base: NewHTTPServiceBase(cfg), attempts: cfg.Recommender.Attempts}
}

type cropRequest struct {
	N           float64 `json:"N"`
	P           float64 `json:"P"`
	K           float64 `json:"K"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	PH          float64 `json:"ph"`
	Rainfall    float64 `json:"rainfall"`
}

// cropResponse accepts either ranked labels with confidences or a class
// probability map.
type cropResponse struct {
	Crop            string                   `json:"recommended_crop"`
	Recommendations []models.CropAlternative `json:"recommendations"`
	Probabilities   map[string]float64       `json:"probabilities"`
}

func (r *HTTPCropRecommender) Recommend(ctx context.Context, f models.CropFeatures) (models.CropRecommendation, error) {
	var out models.CropRecommendation
	if !r.base.Configured() {
		return out, ErrNotConfigured
	}
	var resp cropResponse
	req := cropRequest(f)
	if err := r.base.PostJSON(ctx, "/crop/recommend", req, &resp, r.attempts); err != nil {
		return out, fmt.Errorf("post crop: %w", err)
	}
	return rank(resp), nil
}

// rank orders alternatives by confidence and keeps the top three. Class
// probabilities in [0, 1] are converted to percent with 2 decimals.
func rank(resp cropResponse) models.CropRecommendation {
	alts := append([]models.CropAlternative(nil), resp.Recommendations...)
	if len(alts) == 0 {
		for label, p := range resp.Probabilities {
			alts = append(alts, models.CropAlternative{Label: label, Confidence: math.Round(p*10000) / 100})
		}
	}
	sort.SliceStable(alts, func(i, j int) bool {
		if alts[i].Confidence != alts[j].Confidence {
			return alts[i].Confidence > alts[j].Confidence
		}
		return alts[i].Label < alts[j].Label
	})
	if len(alts) > TopN {
		alts = alts[:TopN]
	}
	crop := resp.Crop
	if crop == "" && len(alts) > 0 {
		crop = alts[0].Label
	}
	return models.CropRecommendation{Crop: crop, Recommendations: alts}
}

var _ domsvc.CropRecommender = (*HTTPCropRecommender)(nil)
