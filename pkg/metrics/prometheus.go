package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	trainingRuns     *prometheus.CounterVec
	trainingDuration prometheus.Histogram
	predictions      *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	lastPrice        *prometheus.GaugeVec
	latency          *prometheus.HistogramVec
}

var (
	defaultOnce     sync.Once
	defaultRecorder *Recorder
)

// New returns the recorder on the default registry. Every caller shares
// it, since the collectors can only be registered once.
func New() *Recorder {
	defaultOnce.Do(func() { defaultRecorder = NewWithRegisterer(prometheus.DefaultRegisterer) })
	return defaultRecorder
}

// NewWithRegisterer creates a recorder on reg; tests pass a fresh registry.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		trainingRuns: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agripull_training_runs_total",
				Help: "Model training runs by result",
			},
			[]string{"result"},
		),
		trainingDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "agripull_training_duration_seconds",
				Help:    "Duration of model training runs",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
		),
		predictions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agripull_predictions_total",
				Help: "Price predictions served per vegetable",
			},
			[]string{"vegetable"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agripull_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "agripull_last_price",
				Help: "Latest wholesale price per vegetable",
			},
			[]string{"vegetable"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agripull_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordTrainingRun counts a training run and observes its duration.
func (r *Recorder) RecordTrainingRun(result string, d time.Duration) {
	r.trainingRuns.WithLabelValues(result).Inc()
	r.trainingDuration.Observe(d.Seconds())
}

// RecordPrediction counts a served prediction.
func (r *Recorder) RecordPrediction(vegetable string) {
	r.predictions.WithLabelValues(vegetable).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a vegetable.
func (r *Recorder) RecordLastPrice(vegetable string, price float64) {
	r.lastPrice.WithLabelValues(vegetable).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
