package repository

import (
	"context"
	"time"

	"AgriPull/internal/domain/models"
	domrepo "AgriPull/internal/domain/repository"
	pkgkafka "AgriPull/pkg/kafka"
)

type eventProducer interface {
	Publish(ctx context.Context, topic string, msgs ...pkgkafka.Message) error
	Close() error
}

// ForecastEvent is the per-vegetable message published after a prediction.
type ForecastEvent struct {
	Date      string                         `json:"date"`
	Vegetable string                         `json:"vegetable"`
	Prices    map[models.PriceColumn]float64 `json:"prices"`
}

// KafkaEvents publishes training reports and forecasts as JSON.
type KafkaEvents struct {
	producer      eventProducer
	trainingTopic string
	forecastTopic string
}

func NewKafkaEvents(producer *pkgkafka.Producer, trainingTopic, forecastTopic string) *KafkaEvents {
	return &KafkaEvents{producer: producer, trainingTopic: trainingTopic, forecastTopic: forecastTopic}
}

var _ domrepo.EventPublisher = (*KafkaEvents)(nil)

// PublishTraining sends the report keyed by its training time.
func (p *KafkaEvents) PublishTraining(ctx context.Context, r *models.TrainingReport) error {
	return p.producer.Publish(ctx, p.trainingTopic, pkgkafka.Message{
		Key:     []byte(r.TrainedAt.UTC().Format(time.RFC3339)),
		Value:   r,
		Headers: map[string]string{pkgkafka.HeaderEventType: "training"},
	})
}

// PublishForecast sends one message per predicted vegetable, keyed by
// vegetable so a consumer sees each vegetable's forecasts in order.
func (p *KafkaEvents) PublishForecast(ctx context.Context, f *models.BatchForecast) error {
	msgs := make([]pkgkafka.Message, 0, len(f.Prices))
	for _, veg := range f.Vegetables {
		prices, ok := f.Prices[veg]
		if !ok {
			continue
		}
		msgs = append(msgs, pkgkafka.Message{
			Key:     []byte(veg),
			Value:   ForecastEvent{Date: f.Date.Format("2006-01-02"), Vegetable: veg, Prices: prices},
			Headers: map[string]string{pkgkafka.HeaderEventType: "forecast"},
		})
	}
	return p.producer.Publish(ctx, p.forecastTopic, msgs...)
}

func (p *KafkaEvents) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NopEvents discards events when no broker is configured.
type NopEvents struct{}

func (NopEvents) PublishTraining(context.Context, *models.TrainingReport) error { return nil }
func (NopEvents) PublishForecast(context.Context, *models.BatchForecast) error  { return nil }
func (NopEvents) Close() error                                                  { return nil }
