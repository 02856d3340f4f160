package forecast

import (
	"encoding/json"
	"fmt"

	"AgriPull/internal/domain/models"
	"AgriPull/internal/services/features"
	"AgriPull/internal/services/forest"
)

const artifactVersion = 1

// Model is one trained forest per price column plus the vocabulary the
// features were encoded with. It is persisted and loaded as a unit.
type Model struct {
	Version    int                                   `json:"version"`
	Vocabulary []string                              `json:"vocabulary"`
	Columns    map[models.PriceColumn]*forest.Forest `json:"columns"`
	Report     models.TrainingReport                 `json:"report"`

	vocab *features.Vocabulary
}

func (m *Model) encode() ([]byte, error) {
	return json.Marshal(m)
}

func decodeModel(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if m.Version != artifactVersion {
		return nil, fmt.Errorf("model version %d, want %d", m.Version, artifactVersion)
	}
	if len(m.Vocabulary) == 0 || len(m.Columns) == 0 {
		return nil, fmt.Errorf("model is missing vocabulary or columns")
	}
	for col, f := range m.Columns {
		if f == nil || f.Features != len(models.FeatureNames) {
			return nil, fmt.Errorf("model column %s is malformed", col)
		}
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("model column %s: %w", col, err)
		}
	}
	m.vocab = features.NewVocabulary(m.Vocabulary)
	return &m, nil
}

// predict returns clamped, rounded prices for every trained column.
func (m *Model) predict(f models.FeatureVector) map[models.PriceColumn]float64 {
	x := f.Values()
	out := make(map[models.PriceColumn]float64, len(m.Columns))
	for _, col := range models.PriceColumns {
		fr, ok := m.Columns[col]
		if !ok {
			continue
		}
		out[col] = clampRound(fr.Predict(x))
	}
	return out
}
