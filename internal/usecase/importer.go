package usecase

import (
	"context"
	"fmt"
	"time"

	"AgriPull/internal/domain/models"
	drepo "AgriPull/internal/domain/repository"
	"AgriPull/internal/services/series"
	applogger "AgriPull/pkg/logger"
)

// ImportUseCase copies a normalized series from a source into the price
// archive in batches.
type ImportUseCase struct {
	source  drepo.SeriesSource
	store   drepo.PriceArchive
	log     *applogger.Logger
	batchSz int
}

func NewImportUseCase(source drepo.SeriesSource, store drepo.PriceArchive, log *applogger.Logger, batchSz int) *ImportUseCase {
	if log == nil {
		log = applogger.NewNop()
	}
	if batchSz <= 0 {
		batchSz = 2000
	}
	return &ImportUseCase{source: source, store: store, log: log, batchSz: batchSz}
}

// ImportResult summarizes one import.
type ImportResult struct {
	Source   string        `json:"source"`
	Stats    series.Stats  `json:"stats"`
	Stored   int           `json:"stored"`
	Duration time.Duration `json:"duration"`
}

func (uc *ImportUseCase) Run(ctx context.Context) (*ImportResult, error) {
	start := time.Now()
	rows, err := uc.source.LoadRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", uc.source.Name(), err)
	}
	s, st := series.Normalize(rows)
	if len(s) == 0 {
		return nil, fmt.Errorf("source %s has no usable rows: %w", uc.source.Name(), models.ErrDataUnavailable)
	}

	res := &ImportResult{Source: uc.source.Name(), Stats: st}
	for i := 0; i < len(s); i += uc.batchSz {
		end := i + uc.batchSz
		if end > len(s) {
			end = len(s)
		}
		if err := uc.store.StoreBatch(ctx, s[i:end]); err != nil {
			return res, fmt.Errorf("store batch at %d: %w", i, err)
		}
		res.Stored = end
		uc.log.Debug("batch stored", applogger.Int("from", i), applogger.Int("to", end))
	}
	res.Duration = time.Since(start)
	uc.log.Info("import complete",
		applogger.String("source", res.Source),
		applogger.Int("stored", res.Stored),
		applogger.Int("bad_date", st.BadDate),
		applogger.Int("duplicates", st.Duplicates),
		applogger.Duration("took", res.Duration),
	)
	return res, nil
}
