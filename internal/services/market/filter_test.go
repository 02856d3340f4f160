package market

import (
	"errors"
	"testing"
	"time"

	"AgriPull/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(date, cat string) models.PriceRecord {
	d, _ := time.Parse("2006-01-02", date)
	return models.PriceRecord{Date: d, Category: cat, WholesalePettah: models.Float(100)}
}

func TestLatestOnlyGlobalMaxDate(t *testing.T) {
	s := models.Series{
		rec("2024-01-01", "Beans"),
		rec("2024-01-05", "Beans"),
		rec("2024-01-05", "Tomato"),
		rec("2024-01-03", "Carrot"),
	}
	got := Latest(s)
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, "2024-01-05", r.Date.Format("2006-01-02"))
	}
	assert.Empty(t, Latest(nil))
}

func TestByCategoryCaseInsensitive(t *testing.T) {
	s := models.Series{rec("2024-01-01", "Tomato"), rec("2024-01-02", "tomato"), rec("2024-01-02", "Beans")}
	assert.Len(t, ByCategory(s, "TOMATO"), 2)
	assert.Len(t, ByCategory(s, " beans "), 1)
	assert.Empty(t, ByCategory(s, "Tomatoes"))
}

func TestByDate(t *testing.T) {
	s := models.Series{rec("2024-01-01", "Tomato"), rec("2024-01-02", "Tomato")}
	d := time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)
	got := ByDate(s, d)
	require.Len(t, got, 1)
	assert.Empty(t, ByDate(s, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)))
}

func TestByMonth(t *testing.T) {
	s := models.Series{rec("2024-01-31", "Tomato"), rec("2024-02-01", "Tomato"), rec("2023-01-15", "Tomato")}

	got, err := ByMonth(s, 2024, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = ByMonth(s, 2022, 6)
	require.NoError(t, err)
	assert.Empty(t, got)

	for _, m := range []int{0, 13, -1} {
		_, err = ByMonth(s, 2024, m)
		assert.True(t, errors.Is(err, models.ErrInvalidInput), "month %d", m)
	}
}
