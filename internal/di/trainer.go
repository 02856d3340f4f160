package di

import (
	"AgriPull/internal/domain/repository"
	"AgriPull/internal/services/forecast"
	"AgriPull/internal/services/series"
	"AgriPull/pkg/cache"
	pkgch "AgriPull/pkg/clickhouse"
	applogger "AgriPull/pkg/logger"
)

// Trainer bundles what the offline training command needs.
type Trainer struct {
	Loader   *series.Loader
	Ensemble *forecast.Ensemble

	events repository.EventPublisher
	cache  cache.Service
	ch     *pkgch.Client
	log    *applogger.Logger
}

func ProvideTrainer(
	loader *series.Loader,
	ensemble *forecast.Ensemble,
	events repository.EventPublisher,
	c cache.Service,
	ch *pkgch.Client,
	l *applogger.Logger,
) *Trainer {
	return &Trainer{Loader: loader, Ensemble: ensemble, events: events, cache: c, ch: ch, log: l}
}

// Close flushes the log collector and releases clients.
func (t *Trainer) Close() {
	t.log.RemoveCollector()
	if err := t.events.Close(); err != nil {
		t.log.Warn("events close error", applogger.Error(err))
	}
	if err := t.cache.Close(); err != nil {
		t.log.Warn("cache close error", applogger.Error(err))
	}
	if t.ch != nil {
		if err := t.ch.Close(); err != nil {
			t.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}
}
