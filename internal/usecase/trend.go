package usecase

import (
	"context"
	"fmt"
	"strings"

	"AgriPull/internal/domain/models"
	"AgriPull/internal/services/chart"
	"AgriPull/internal/services/market"
	"AgriPull/internal/services/trend"
	"AgriPull/pkg/util"
)

// TrendUseCase computes price trends and demand signals. Nothing it
// derives is stored.
type TrendUseCase struct {
	source SeriesProvider
}

func NewTrendUseCase(source SeriesProvider) *TrendUseCase {
	return &TrendUseCase{source: source}
}

type TrendParams struct {
	Vegetable string
	Year      int
	Month     int
}

// Trend returns the month's records of one vegetable with the wholesale
// points and the percent change between the first and last of them.
// Signal stays nil when fewer than two points carry a wholesale quote.
// An unknown vegetable yields an empty trend, not an error.
func (uc *TrendUseCase) Trend(ctx context.Context, p TrendParams) (*models.Trend, error) {
	name := strings.TrimSpace(p.Vegetable)
	if name == "" {
		return nil, fmt.Errorf("vegetable required: %w", models.ErrInvalidInput)
	}
	if err := market.CheckMonth(p.Month); err != nil {
		return nil, err
	}
	s, err := uc.source.Series(ctx)
	if err != nil {
		return nil, err
	}
	monthly, err := market.ByMonth(market.ByCategory(s, name), p.Year, p.Month)
	if err != nil {
		return nil, err
	}

	res := &models.Trend{
		Category:    name,
		WindowLabel: market.WindowLabel(p.Year, p.Month),
		Points:      make([]models.TrendPoint, 0, len(monthly)),
		Records:     monthly,
	}
	if len(monthly) > 0 {
		res.Category = monthly[0].Category
	}
	for _, r := range monthly {
		if price, ok := r.Wholesale(); ok {
			res.Points = append(res.Points, models.TrendPoint{Date: r.Date, Price: price})
		}
	}
	if sig, ok := trend.Signal(res.Category, res.WindowLabel, monthly); ok {
		res.PercentChange = sig.PercentChange
		res.Signal = &sig
	}
	return res, nil
}

// Chart renders the trend as a PNG.
func (uc *TrendUseCase) Chart(ctx context.Context, p TrendParams) ([]byte, error) {
	t, err := uc.Trend(ctx, p)
	if err != nil {
		return nil, err
	}
	return chart.TrendPNG(*t)
}

// DemandResult is the classified window with its label.
type DemandResult struct {
	Window  string                `json:"window"`
	Signals []models.DemandSignal `json:"signals"`
}

// Demand classifies every vegetable quoted in the given month. A zero year
// or month is taken from the latest date in the series. Vegetables with
// fewer than two wholesale quotes in the window are left out.
func (uc *TrendUseCase) Demand(ctx context.Context, year, month int) (*DemandResult, error) {
	if month != 0 {
		if err := market.CheckMonth(month); err != nil {
			return nil, err
		}
	}
	s, err := uc.source.Series(ctx)
	if err != nil {
		return nil, err
	}
	if year == 0 || month == 0 {
		latest, ok := s.MaxDate()
		if !ok {
			return nil, fmt.Errorf("empty series: %w", models.ErrDataUnavailable)
		}
		ly, lm := util.MonthOf(latest)
		if year == 0 {
			year = ly
		}
		if month == 0 {
			month = lm
		}
	}
	window, err := market.ByMonth(s, year, month)
	if err != nil {
		return nil, err
	}
	label := market.WindowLabel(year, month)
	return &DemandResult{Window: label, Signals: trend.ClassifyAll(label, window)}, nil
}
