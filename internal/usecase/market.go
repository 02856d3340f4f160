package usecase

import (
	"context"
	"time"

	"AgriPull/internal/domain/models"
	domrepo "AgriPull/internal/domain/repository"
	"AgriPull/internal/services/market"
)

// SeriesProvider returns the normalized price history.
type SeriesProvider interface {
	Series(ctx context.Context) (models.Series, error)
}

// MarketUseCase answers snapshot queries over a freshly loaded series.
type MarketUseCase struct {
	source  SeriesProvider
	metrics domrepo.Metrics
}

func NewMarketUseCase(source SeriesProvider, metrics domrepo.Metrics) *MarketUseCase {
	return &MarketUseCase{source: source, metrics: metrics}
}

// Latest returns the rows of the most recent date in the series and
// refreshes the last-price gauge for each of them.
func (uc *MarketUseCase) Latest(ctx context.Context) (models.Series, error) {
	s, err := uc.source.Series(ctx)
	if err != nil {
		return nil, err
	}
	out := market.Latest(s)
	if uc.metrics != nil {
		for _, r := range out {
			if p, ok := r.Wholesale(); ok {
				uc.metrics.RecordLastPrice(r.Category, p)
			}
		}
	}
	return out, nil
}

func (uc *MarketUseCase) ByDate(ctx context.Context, date time.Time) (models.Series, error) {
	s, err := uc.source.Series(ctx)
	if err != nil {
		return nil, err
	}
	return market.ByDate(s, date), nil
}

func (uc *MarketUseCase) ByMonth(ctx context.Context, year, month int) (models.Series, error) {
	if err := market.CheckMonth(month); err != nil {
		return nil, err
	}
	s, err := uc.source.Series(ctx)
	if err != nil {
		return nil, err
	}
	return market.ByMonth(s, year, month)
}

func (uc *MarketUseCase) ByVegetable(ctx context.Context, name string) (models.Series, error) {
	s, err := uc.source.Series(ctx)
	if err != nil {
		return nil, err
	}
	return market.ByCategory(s, name), nil
}
