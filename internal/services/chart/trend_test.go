package chart

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"AgriPull/internal/domain/models"
)

func TestTrendPNG(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tr := models.Trend{Category: "Tomato", WindowLabel: "2024-03"}
	for i, p := range []float64{90, 92, 95, 110} {
		tr.Records = append(tr.Records, models.PriceRecord{
			Date:            start.AddDate(0, 0, i),
			Category:        "Tomato",
			WholesalePettah: models.Float(p),
			RetailPettah:    models.Float(p + 20),
		})
	}
	img, err := TrendPNG(tr)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(img, []byte("\x89PNG")) {
		t.Fatalf("output is not a PNG")
	}
}

func TestTrendPNGEmpty(t *testing.T) {
	_, err := TrendPNG(models.Trend{Category: "Tomato", WindowLabel: "2024-03"})
	if !errors.Is(err, models.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}
