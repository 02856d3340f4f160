package series

import (
	"context"
	"fmt"
	"time"

	"AgriPull/internal/domain/models"
	"AgriPull/internal/domain/repository"
	"AgriPull/pkg/cache"
	"AgriPull/pkg/logger"
)

// Loader reads raw rows from a source and normalizes them. With a cache
// and a positive TTL the normalized series is reused until it expires.
type Loader struct {
	source repository.SeriesSource
	cache  cache.Store
	ttl    time.Duration
	log    *logger.Logger
}

func NewLoader(source repository.SeriesSource, c cache.Store, ttl time.Duration, log *logger.Logger) *Loader {
	if log == nil {
		log = logger.NewNop()
	}
	return &Loader{source: source, cache: c, ttl: ttl, log: log}
}

func (l *Loader) cacheKey() string {
	return cache.Key("series", l.source.Name())
}

// Series returns the normalized series. An empty result is reported as
// models.ErrDataUnavailable.
func (l *Loader) Series(ctx context.Context) (models.Series, error) {
	if l.cache == nil || l.ttl <= 0 {
		return l.load(ctx)
	}
	return cache.Fetch(ctx, l.cache, l.cacheKey(), l.ttl, l.load, func(err error) {
		l.log.Warn("series cache unavailable", logger.String("key", l.cacheKey()), logger.Error(err))
	})
}

func (l *Loader) load(ctx context.Context) (models.Series, error) {
	rows, err := l.source.LoadRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", l.source.Name(), err)
	}
	s, st := Normalize(rows)
	l.log.Debug("series normalized",
		logger.String("source", l.source.Name()),
		logger.Int("input", st.Input),
		logger.Int("kept", st.Kept),
		logger.Int("bad_date", st.BadDate),
		logger.Int("no_category", st.NoCategory),
		logger.Int("duplicates", st.Duplicates),
	)
	if len(s) == 0 {
		return nil, fmt.Errorf("source %s has no usable rows: %w", l.source.Name(), models.ErrDataUnavailable)
	}
	return s, nil
}

// Invalidate drops the cached series.
func (l *Loader) Invalidate(ctx context.Context) error {
	if l.cache == nil {
		return nil
	}
	return l.cache.Delete(ctx, l.cacheKey())
}
