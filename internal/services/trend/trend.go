package trend

import (
	"sort"

	"AgriPull/internal/domain/models"
	"AgriPull/internal/services/series"
)

// Threshold is the percent move beyond which demand is High or Low.
const Threshold = 5.0

// MinPoints is how many usable wholesale quotes a window needs.
const MinPoints = 2

// quote picks a record's wholesale price, Pettah before Dambulla. A zero
// or negative price counts as no quote.
func quote(r models.PriceRecord) (float64, bool) {
	for _, p := range []*float64{r.WholesalePettah, r.WholesaleDambulla} {
		if p != nil && *p > 0 {
			return *p, true
		}
	}
	return 0, false
}

// usable returns the wholesale quotes of the records that carry one.
func usable(subset models.Series) []float64 {
	out := make([]float64, 0, len(subset))
	for _, r := range subset {
		if p, ok := quote(r); ok {
			out = append(out, p)
		}
	}
	return out
}

// PercentChange measures the move between the first and last wholesale
// quotes of a date-ordered, single-category subset. It returns ok=false
// when fewer than MinPoints records carry a positive quote, in which case
// the change is 0.
func PercentChange(subset models.Series) (float64, bool) {
	prices := usable(subset)
	if len(prices) < MinPoints {
		return 0, false
	}
	first, last := prices[0], prices[len(prices)-1]
	if first <= 0 {
		return 0, true
	}
	return (last - first) / first * 100, true
}

// Classify maps a percent change to a demand level. The boundaries
// themselves are Medium.
func Classify(pct float64) models.DemandLevel {
	switch {
	case pct > Threshold:
		return models.DemandHigh
	case pct < -Threshold:
		return models.DemandLow
	default:
		return models.DemandMedium
	}
}

// Signal classifies a single-category window. ok is false when the window
// has too few usable quotes.
func Signal(category, window string, subset models.Series) (models.DemandSignal, bool) {
	pct, ok := PercentChange(subset)
	if !ok {
		return models.DemandSignal{}, false
	}
	prices := usable(subset)
	return models.DemandSignal{
		Category:            category,
		Level:               Classify(pct),
		PercentChange:       pct,
		WindowLabel:         window,
		RepresentativePrice: prices[len(prices)-1],
	}, true
}

// ClassifyAll classifies every category of a window. Categories with too
// few quotes are skipped. Output is ordered High, Medium, Low, then by
// category name.
func ClassifyAll(window string, subset models.Series) []models.DemandSignal {
	groups := series.GroupByCategory(subset)
	out := make([]models.DemandSignal, 0, len(groups))
	for cat, part := range groups {
		if sig, ok := Signal(cat, window, part); ok {
			out = append(out, sig)
		}
	}
	Sort(out)
	return out
}

// Sort orders signals by level rank, then category ascending.
func Sort(signals []models.DemandSignal) {
	sort.Slice(signals, func(i, j int) bool {
		ri, rj := signals[i].Level.Rank(), signals[j].Level.Rank()
		if ri != rj {
			return ri < rj
		}
		return signals[i].Category < signals[j].Category
	})
}
