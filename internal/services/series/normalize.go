package series

import (
	"sort"
	"strings"
	"time"

	"AgriPull/internal/domain/models"
)

// Stats reports what Normalize discarded.
type Stats struct {
	Input      int
	Kept       int
	BadDate    int
	NoCategory int
	Duplicates int
}

// Date builds a calendar date, rejecting values time.Date would normalize
// (Feb 30 becoming Mar 2, month 13, day 0).
func Date(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// Normalize converts raw rows into a Series. Rows with an impossible date
// or an empty category are dropped; that is expected noise, not an error.
// When a category has two rows for the same date the later row wins.
func Normalize(rows []models.RawRow) (models.Series, Stats) {
	st := Stats{Input: len(rows)}

	type key struct {
		cat  string
		date time.Time
	}
	idx := make(map[key]int, len(rows))
	out := make(models.Series, 0, len(rows))

	for _, row := range rows {
		d, ok := Date(row.Year, row.Month, row.Day)
		if !ok {
			st.BadDate++
			continue
		}
		cat := strings.TrimSpace(row.Category)
		if cat == "" {
			st.NoCategory++
			continue
		}
		rec := models.PriceRecord{
			Date:              d,
			Category:          cat,
			WholesalePettah:   row.Prices[0],
			WholesaleDambulla: row.Prices[1],
			RetailPettah:      row.Prices[2],
			RetailDambulla:    row.Prices[3],
		}
		k := key{cat: cat, date: d}
		if i, dup := idx[k]; dup {
			out[i] = rec
			st.Duplicates++
			continue
		}
		idx[k] = len(out)
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Category < out[j].Category
	})
	st.Kept = len(out)
	return out, st
}

// GroupByCategory splits a series per category, each part keeping date order.
func GroupByCategory(s models.Series) map[string]models.Series {
	out := make(map[string]models.Series)
	for _, r := range s {
		out[r.Category] = append(out[r.Category], r)
	}
	return out
}
