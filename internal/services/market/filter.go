package market

import (
	"fmt"
	"strings"
	"time"

	"AgriPull/internal/domain/models"
)

// Latest returns the rows dated the global maximum date. Categories
// without a quote on that exact date are absent, not back-filled.
func Latest(s models.Series) models.Series {
	max, ok := s.MaxDate()
	if !ok {
		return models.Series{}
	}
	return ByDate(s, max)
}

// ByDate returns rows on the given calendar date.
func ByDate(s models.Series, date time.Time) models.Series {
	y, m, d := date.Date()
	out := make(models.Series, 0)
	for _, r := range s {
		ry, rm, rd := r.Date.Date()
		if ry == y && rm == m && rd == d {
			out = append(out, r)
		}
	}
	return out
}

// ByCategory returns rows whose category matches name case-insensitively.
func ByCategory(s models.Series, name string) models.Series {
	name = strings.TrimSpace(name)
	out := make(models.Series, 0)
	for _, r := range s {
		if strings.EqualFold(r.Category, name) {
			out = append(out, r)
		}
	}
	return out
}

// CheckMonth reports months outside 1-12 as models.ErrInvalidInput.
func CheckMonth(month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("month %d out of range 1-12: %w", month, models.ErrInvalidInput)
	}
	return nil
}

// ByMonth returns rows in the given year and month.
func ByMonth(s models.Series, year, month int) (models.Series, error) {
	if err := CheckMonth(month); err != nil {
		return nil, err
	}
	out := make(models.Series, 0)
	for _, r := range s {
		if r.Date.Year() == year && int(r.Date.Month()) == month {
			out = append(out, r)
		}
	}
	return out, nil
}

// WindowLabel formats a year/month window as "2024-01".
func WindowLabel(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
