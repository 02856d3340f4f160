// Package forecast trains and serves the per-column price regressors.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"AgriPull/internal/domain/models"
	"AgriPull/internal/domain/repository"
	"AgriPull/internal/services/features"
	"AgriPull/internal/services/forest"
	"AgriPull/pkg/cache"
	"AgriPull/pkg/logger"
)

// SeriesProvider supplies the normalized history to train on.
type SeriesProvider interface {
	Series(ctx context.Context) (models.Series, error)
}

type Config struct {
	Forest       forest.Config
	TestFraction float64
	SplitSeed    int64
	// LockKey and LockTTL configure the cross-process training lock. They
	// only apply when a cache is supplied.
	LockKey  string
	LockTTL  time.Duration
	LockWait time.Duration
}

func DefaultConfig() Config {
	return Config{
		Forest:       forest.DefaultConfig(),
		TestFraction: 0.2,
		SplitSeed:    42,
		LockKey:      "model:train-lock",
		LockTTL:      5 * time.Minute,
		LockWait:     2 * time.Minute,
	}
}

// Ensemble owns the trained model. The first Predict on a cold process
// loads the persisted artifact or trains one; concurrent callers share
// that single run.
type Ensemble struct {
	cfg     Config
	source  SeriesProvider
	store   repository.ArtifactStore
	events  repository.EventPublisher
	metrics repository.Metrics
	locker  cache.Locker
	log     *logger.Logger

	mu    sync.RWMutex
	model *Model
	group singleflight.Group
	runs  atomic.Int64
	now   func() time.Time
}

type Option func(*Ensemble)

func WithEvents(p repository.EventPublisher) Option { return func(e *Ensemble) { e.events = p } }
func WithMetrics(m repository.Metrics) Option       { return func(e *Ensemble) { e.metrics = m } }

// WithLocker guards training across processes sharing the artifact.
func WithLocker(c cache.Locker) Option { return func(e *Ensemble) { e.locker = c } }

func NewEnsemble(cfg Config, source SeriesProvider, store repository.ArtifactStore, log *logger.Logger, opts ...Option) *Ensemble {
	if log == nil {
		log = logger.NewNop()
	}
	e := &Ensemble{cfg: cfg, source: source, store: store, log: log, now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

// TrainingRuns counts completed training runs since construction.
func (e *Ensemble) TrainingRuns() int64 { return e.runs.Load() }

func (e *Ensemble) current() *Model {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.model
}

// Predict returns the forecast prices of category on date. Prices are
// never negative and are rounded to 2 decimals. The category must match
// the trained vocabulary exactly; anything else is predicted with the
// fallback code and Known is false.
func (e *Ensemble) Predict(ctx context.Context, date time.Time, category string) (models.Forecast, error) {
	m, err := e.ensure(ctx)
	if err != nil {
		return models.Forecast{}, err
	}
	fv := features.Encode(date, category, m.vocab)
	_, known := m.vocab.Code(category)
	prices := m.predict(fv)
	if e.metrics != nil {
		e.metrics.RecordPrediction(category)
	}
	return models.Forecast{Date: date, Category: category, Known: known, Prices: prices}, nil
}

// Status reports whether a model is loaded and how it scored.
func (e *Ensemble) Status() models.ModelStatus {
	st := models.ModelStatus{TrainingRuns: e.TrainingRuns()}
	if m := e.current(); m != nil {
		rep := m.Report
		st.Loaded = true
		st.Report = &rep
	}
	return st
}

// Invalidate drops the in-memory model. The next Predict reloads it.
func (e *Ensemble) Invalidate() {
	e.mu.Lock()
	e.model = nil
	e.mu.Unlock()
}

// Warm loads or trains the model without predicting.
func (e *Ensemble) Warm(ctx context.Context) error {
	_, err := e.ensure(ctx)
	return err
}

func (e *Ensemble) ensure(ctx context.Context) (*Model, error) {
	if m := e.current(); m != nil {
		return m, nil
	}
	// Training outlives any single caller, so it ignores cancellation of
	// the request that happened to start it.
	shared := context.WithoutCancel(ctx)
	v, err, _ := e.group.Do("model", func() (any, error) {
		if m := e.current(); m != nil {
			return m, nil
		}
		m, err := e.loadOrTrain(shared)
		if err != nil {
			return nil, err
		}
		e.mu.Lock()
		e.model = m
		e.mu.Unlock()
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	m, ok := v.(*Model)
	if !ok {
		return nil, fmt.Errorf("unexpected type from model group: %T", v)
	}
	return m, nil
}

func (e *Ensemble) loadOrTrain(ctx context.Context) (*Model, error) {
	if m := e.load(ctx); m != nil {
		return m, nil
	}

	if e.locker != nil && e.cfg.LockKey != "" {
		ok, err := e.locker.TryLock(ctx, e.cfg.LockKey, e.cfg.LockTTL)
		switch {
		case err != nil:
			e.log.Warn("training lock unavailable, training locally", logger.Error(err))
		case ok:
			defer func() {
				if err := e.locker.Unlock(ctx, e.cfg.LockKey); err != nil {
					e.log.Warn("training lock release failed", logger.Error(err))
				}
			}()
			// a peer may have saved between our load and the lock
			if m := e.load(ctx); m != nil {
				return m, nil
			}
		default:
			if m := e.awaitPeer(ctx); m != nil {
				return m, nil
			}
			e.log.Warn("peer training did not finish in time, training locally")
		}
	}

	s, err := e.source.Series(ctx)
	if err != nil {
		return nil, err
	}
	m, err := e.Train(ctx, s)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// load reads the persisted artifact. A missing or unreadable artifact
// yields nil and training proceeds.
func (e *Ensemble) load(ctx context.Context) *Model {
	if e.store == nil {
		return nil
	}
	data, err := e.store.Load(ctx)
	if err != nil {
		e.log.Warn("model artifact unreadable", logger.String("path", e.store.Path()), logger.Error(err))
		return nil
	}
	if data == nil {
		return nil
	}
	m, err := decodeModel(data)
	if err != nil {
		e.log.Warn("model artifact rejected", logger.String("path", e.store.Path()), logger.Error(err))
		return nil
	}
	e.log.Info("model loaded",
		logger.String("path", e.store.Path()),
		logger.Int("vocabulary", len(m.Vocabulary)),
		logger.Int("columns", len(m.Columns)),
	)
	return m
}

// awaitPeer polls the artifact store while another process holds the
// training lock.
func (e *Ensemble) awaitPeer(ctx context.Context) *Model {
	deadline := time.NewTimer(e.cfg.LockWait)
	defer deadline.Stop()
	tick := time.NewTicker(500 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-deadline.C:
			return nil
		case <-tick.C:
			if m := e.load(ctx); m != nil {
				return m
			}
		}
	}
}

// Train fits one forest per price column on s, persists the result and
// installs it as the current model.
func (e *Ensemble) Train(ctx context.Context, s models.Series) (*Model, error) {
	start := e.now()
	m, err := e.fit(ctx, s)
	elapsed := time.Since(start)
	if err != nil {
		if e.metrics != nil {
			e.metrics.RecordTrainingRun("failure", elapsed)
		}
		e.log.Error("training failed", logger.Error(err))
		return nil, err
	}
	e.runs.Add(1)
	m.Report.TrainedAt = start.UTC()
	m.Report.DurationMS = elapsed.Milliseconds()

	if e.store != nil {
		m.Report.ArtifactPath = e.store.Path()
		data, err := m.encode()
		if err == nil {
			err = e.store.Save(ctx, data)
		}
		if err != nil {
			// The in-memory model still serves; the next process retrains.
			e.log.Error("model artifact not saved", logger.String("path", e.store.Path()), logger.Error(err))
		}
	}

	e.mu.Lock()
	e.model = m
	e.mu.Unlock()

	if e.metrics != nil {
		e.metrics.RecordTrainingRun("success", elapsed)
	}
	for _, sc := range m.Report.Scores {
		if sc.Skipped {
			e.log.Warn("column not trained", logger.String("column", string(sc.Column)), logger.String("reason", sc.SkipNote))
			continue
		}
		e.log.Info("column trained",
			logger.String("column", string(sc.Column)),
			logger.Int("samples", sc.Samples),
			logger.Float64("mae", sc.MAE),
			logger.Float64("rmse", sc.RMSE),
			logger.Float64("r2", sc.R2),
		)
	}
	if e.events != nil {
		rep := m.Report
		if err := e.events.PublishTraining(ctx, &rep); err != nil {
			e.log.Warn("training event not published", logger.Error(err))
		}
	}
	return m, nil
}

var errNoColumns = errors.New("no price column has training data")

func (e *Ensemble) fit(ctx context.Context, s models.Series) (*Model, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("empty series: %w", models.ErrDataUnavailable)
	}
	vocab := features.FitVocabulary(s)
	m := &Model{
		Version:    artifactVersion,
		Vocabulary: vocab.Names(),
		Columns:    make(map[models.PriceColumn]*forest.Forest),
		Report:     models.TrainingReport{Rows: len(s), Vocabulary: vocab.Names()},
		vocab:      vocab,
	}

	for _, col := range models.PriceColumns {
		var x [][]float64
		var y []float64
		for _, r := range s {
			p := r.Price(col)
			if p == nil {
				continue
			}
			x = append(x, features.Encode(r.Date, r.Category, vocab).Values())
			y = append(y, *p)
		}
		score := models.ColumnScore{Column: col, Samples: len(y)}
		if len(y) == 0 {
			score.Skipped = true
			score.SkipNote = "no quotes"
			m.Report.Scores = append(m.Report.Scores, score)
			continue
		}

		train, test := forest.Split(len(y), e.cfg.TestFraction, e.cfg.SplitSeed)
		fr, err := forest.Fit(ctx, pick(x, train), pickF(y, train), e.cfg.Forest)
		if err != nil {
			return nil, fmt.Errorf("fit %s: %w", col, err)
		}
		m.Columns[col] = fr
		if len(test) > 0 {
			sc := forest.Evaluate(pickF(y, test), fr.PredictAll(pick(x, test)))
			score.Holdout = len(test)
			score.MAE, score.RMSE, score.R2 = sc.MAE, sc.RMSE, sc.R2
		}
		m.Report.Scores = append(m.Report.Scores, score)
	}
	if len(m.Columns) == 0 {
		return nil, fmt.Errorf("%w: %w", errNoColumns, models.ErrDataUnavailable)
	}
	return m, nil
}

func pick(x [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, j := range idx {
		out[i] = x[j]
	}
	return out
}

func pickF(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}

func clampRound(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	return math.Round(p*100) / 100
}
