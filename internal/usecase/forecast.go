package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"AgriPull/internal/domain/models"
	domrepo "AgriPull/internal/domain/repository"
	domsvc "AgriPull/internal/domain/service"
	applogger "AgriPull/pkg/logger"
	"AgriPull/pkg/util"
)

// ForecastUseCase predicts prices for a batch of vegetables. One
// vegetable failing does not affect the others.
type ForecastUseCase struct {
	forecaster domsvc.Forecaster
	events     domrepo.EventPublisher
	metrics    domrepo.Metrics
	log        *applogger.Logger
}

func NewForecastUseCase(f domsvc.Forecaster, events domrepo.EventPublisher, metrics domrepo.Metrics, log *applogger.Logger) *ForecastUseCase {
	if log == nil {
		log = applogger.NewNop()
	}
	return &ForecastUseCase{forecaster: f, events: events, metrics: metrics, log: log}
}

type PredictParams struct {
	Date       time.Time
	Vegetables []string
}

// Predict returns per-vegetable prices and the per-column totals over
// the vegetables that succeeded. Failures land in Errors. When nothing
// succeeds the first failure is returned as the error.
func (uc *ForecastUseCase) Predict(ctx context.Context, p PredictParams) (*models.BatchForecast, error) {
	names := util.UniqueTrimmed(p.Vegetables)
	if len(names) == 0 {
		return nil, fmt.Errorf("vegetables required: %w", models.ErrInvalidInput)
	}
	if p.Date.IsZero() {
		return nil, fmt.Errorf("date required: %w", models.ErrInvalidInput)
	}
	start := time.Now()

	res := &models.BatchForecast{
		Date:       p.Date,
		Vegetables: names,
		Prices:     make(map[string]map[models.PriceColumn]float64, len(names)),
		Totals:     make(map[models.PriceColumn]float64, len(models.PriceColumns)),
		Errors:     map[string]string{},
	}

	type item struct {
		name string
		val  models.Forecast
		err  error
	}
	ch := make(chan item, len(names))
	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			v, err := uc.forecaster.Predict(ctx, p.Date, name)
			ch <- item{name, v, err}
		}(name)
	}
	go func() { wg.Wait(); close(ch) }()

	errs := make(map[string]error)
	for it := range ch {
		if it.err != nil {
			errs[it.name] = it.err
			res.Errors[it.name] = it.err.Error()
			continue
		}
		res.Prices[it.name] = it.val.Prices
		if !it.val.Known {
			res.Fallback = append(res.Fallback, it.name)
		}
		for col, v := range it.val.Prices {
			res.Totals[col] += v
		}
	}
	for col, v := range res.Totals {
		res.Totals[col] = math.Round(v*100) / 100
	}

	if uc.metrics != nil {
		uc.metrics.RecordLatency("predict", time.Since(start).Seconds())
		if len(errs) > 0 {
			uc.metrics.RecordError("forecast")
		}
	}

	if len(res.Prices) == 0 {
		// names order keeps the reported failure deterministic
		for _, n := range names {
			if err, ok := errs[n]; ok {
				return nil, fmt.Errorf("forecast %s: %w", n, err)
			}
		}
		return nil, errors.New("no forecasts produced")
	}
	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	sort.Strings(res.Fallback)

	if uc.events != nil {
		if err := uc.events.PublishForecast(ctx, res); err != nil {
			uc.log.Warn("forecast event not published", applogger.Error(err))
		}
	}
	return res, nil
}

// Status reports the loaded model.
func (uc *ForecastUseCase) Status() models.ModelStatus {
	return uc.forecaster.Status()
}
