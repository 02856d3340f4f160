package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AgriPull/internal/domain/models"
	"AgriPull/internal/services/forecast"
)

type fakeLoader struct {
	err         error
	invalidated bool
}

func (l *fakeLoader) Invalidate(context.Context) error {
	l.invalidated = true
	return nil
}

func (l *fakeLoader) Series(context.Context) (models.Series, error) {
	if l.err != nil {
		return nil, l.err
	}
	d := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return models.Series{{Date: d, Category: "Beans", WholesalePettah: models.Float(300)}}, nil
}

type fakeTrainer struct {
	err   error
	calls int
}

func (f *fakeTrainer) Invalidate() {}

func (f *fakeTrainer) Train(context.Context, models.Series) (*forecast.Model, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &forecast.Model{Report: models.TrainingReport{Rows: 1, Vocabulary: []string{"Beans"}}}, nil
}

func TestTrainReturnsErrorsInsteadOfExiting(t *testing.T) {
	ctx := context.Background()

	tr := &fakeTrainer{}
	err := train(ctx, &fakeLoader{err: models.ErrDataUnavailable}, tr, &bytes.Buffer{}, "")
	require.ErrorIs(t, err, models.ErrDataUnavailable)
	assert.Zero(t, tr.calls)

	boom := errors.New("boom")
	err = train(ctx, &fakeLoader{}, &fakeTrainer{err: boom}, &bytes.Buffer{}, "")
	assert.ErrorIs(t, err, boom)
}

func TestTrainWritesReports(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	loader := &fakeLoader{}
	var out bytes.Buffer

	require.NoError(t, train(context.Background(), loader, &fakeTrainer{}, &out, path))
	assert.True(t, loader.invalidated)
	assert.Contains(t, out.String(), `"rows": 1`)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}
