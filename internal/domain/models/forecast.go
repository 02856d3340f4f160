package models

import "time"

// FeatureVector is the regression input derived from a (date, category) pair.
type FeatureVector struct {
	Year         int `json:"year"`
	Month        int `json:"month"`
	Day          int `json:"day"`
	DayOfWeek    int `json:"day_of_week"` // Monday=0
	DayOfYear    int `json:"day_of_year"`
	CategoryCode int `json:"category_code"`
}

// Values returns the vector in training column order.
func (f FeatureVector) Values() []float64 {
	return []float64{
		float64(f.Year),
		float64(f.Month),
		float64(f.Day),
		float64(f.DayOfWeek),
		float64(f.DayOfYear),
		float64(f.CategoryCode),
	}
}

// FeatureNames matches FeatureVector.Values.
var FeatureNames = []string{"year", "month", "day", "day_of_week", "day_of_year", "vegetable_encoded"}

// Forecast holds the predicted prices of one vegetable for one date.
type Forecast struct {
	Date     time.Time               `json:"date"`
	Category string                  `json:"vegetable"`
	Known    bool                    `json:"known"`
	Prices   map[PriceColumn]float64 `json:"prices"`
}

// ColumnScore holds hold-out accuracy for one price column.
type ColumnScore struct {
	Column   PriceColumn `json:"column"`
	Samples  int         `json:"samples"`
	Holdout  int         `json:"holdout"`
	MAE      float64     `json:"mae"`
	RMSE     float64     `json:"rmse"`
	R2       float64     `json:"r2"`
	Skipped  bool        `json:"skipped,omitempty"`
	SkipNote string      `json:"skip_note,omitempty"`
}

// TrainingReport describes one training run.
type TrainingReport struct {
	TrainedAt    time.Time     `json:"trained_at"`
	Rows         int           `json:"rows"`
	Vocabulary   []string      `json:"vocabulary"`
	Scores       []ColumnScore `json:"scores"`
	DurationMS   int64         `json:"duration_ms"`
	ArtifactPath string        `json:"artifact_path"`
}

// ModelStatus is what the model endpoint reports.
type ModelStatus struct {
	Loaded       bool            `json:"loaded"`
	TrainingRuns int64           `json:"training_runs"`
	Report       *TrainingReport `json:"report,omitempty"`
}

// BatchForecast is the result of predicting several vegetables at once.
// Failures for one vegetable are reported in Errors and do not affect the others.
type BatchForecast struct {
	Date       time.Time                          `json:"date"`
	Vegetables []string                           `json:"vegetables"`
	Prices     map[string]map[PriceColumn]float64 `json:"prices"`
	Totals     map[PriceColumn]float64            `json:"totals"`
	Errors     map[string]string                  `json:"errors,omitempty"`
	// Fallback lists vegetables absent from the trained vocabulary.
	Fallback   []string                           `json:"fallback,omitempty"`
}

// CropFeatures are soil and weather measurements for crop recommendation.
type CropFeatures struct {
	N           float64 `json:"N"`
	P           float64 `json:"P"`
	K           float64 `json:"K"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	PH          float64 `json:"ph"`
	Rainfall    float64 `json:"rainfall"`
}

// CropAlternative is one ranked recommendation.
type CropAlternative struct {
	Label      string  `json:"crop"`
	Confidence float64 `json:"confidence"`
}

// CropRecommendation is the recommender's answer.
type CropRecommendation struct {
	Crop            string            `json:"recommended_crop"`
	Recommendations []CropAlternative `json:"recommendations"`
}
