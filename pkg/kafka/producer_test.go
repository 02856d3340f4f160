package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closes int
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error {
	w.closes++
	return nil
}

func TestPublishEncodesAndTagsMessages(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "gzip")

	err := p.Publish(context.Background(), "agripull.forecasts",
		Message{Key: []byte("Beans"), Value: map[string]float64{"wholesale_pettah": 120.5}, Headers: map[string]string{HeaderEventType: "forecast"}},
		Message{Key: []byte("Carrot"), Value: "raw"},
	)
	require.NoError(t, err)
	require.Len(t, w.msgs, 2)

	assert.Equal(t, "agripull.forecasts", w.msgs[0].Topic)
	assert.JSONEq(t, `{"wholesale_pettah":120.5}`, string(w.msgs[0].Value))
	require.Len(t, w.msgs[0].Headers, 1)
	assert.Equal(t, "forecast", string(w.msgs[0].Headers[0].Value))
	assert.Equal(t, "raw", string(w.msgs[1].Value))
}

func TestPublishWrapsWriterErrors(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := newProducer(w, "gzip")
	err := p.Publish(context.Background(), "agripull.training", Message{Value: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agripull.training")

	require.NoError(t, p.Publish(context.Background(), "agripull.training"))
}

func TestPublishMessageAndClose(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "gzip")
	require.NoError(t, p.PublishMessage(context.Background(), "agripull.logs", []string{"a"}))
	assert.Nil(t, w.msgs[0].Key)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Equal(t, 1, w.closes)
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer(WithCompression("zstd"))
	assert.Error(t, err)
}
