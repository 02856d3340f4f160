package series

import (
	"fmt"
	"strconv"
	"strings"

	"AgriPull/internal/domain/models"
)

// Column roles understood by the loaders.
const (
	colYear     = "year"
	colMonth    = "month"
	colDay      = "day"
	colCategory = "category"
)

// aliases maps normalized header spellings to a role or a price column.
var aliases = map[string]string{
	"year":                   colYear,
	"month":                  colMonth,
	"date":                   colDay,
	"day":                    colDay,
	"vegetablename":          colCategory,
	"vegetable":              colCategory,
	"vegetabletype":          colCategory,
	"category":               colCategory,
	"wholesalepettah":        string(models.WholesalePettah),
	"wholesalepettahprice":   string(models.WholesalePettah),
	"wholesaledambulla":      string(models.WholesaleDambulla),
	"wholesaledambullaprice": string(models.WholesaleDambulla),
	"retailpettah":           string(models.RetailPettah),
	"retailpettahprice":      string(models.RetailPettah),
	"retaildambulla":         string(models.RetailDambulla),
	"retaildambullaprice":    string(models.RetailDambulla),
}

// normalizeHeader lowercases and strips whitespace, underscores and a
// trailing currency marker such as "(RS)".
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.TrimSuffix(h, "(rs)")
	h = strings.TrimSuffix(h, "(rs.)")
	var b strings.Builder
	for _, r := range h {
		switch r {
		case ' ', '\t', '_', '-', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// HeaderIndex locates the canonical columns in a header row.
type HeaderIndex struct {
	year, month, day, category int
	prices                     [4]int
}

// NewHeaderIndex resolves header names. Year, month, day and category are
// required; price columns are optional and read as absent when missing.
func NewHeaderIndex(header []string) (*HeaderIndex, error) {
	hi := &HeaderIndex{year: -1, month: -1, day: -1, category: -1, prices: [4]int{-1, -1, -1, -1}}
	for i, h := range header {
		role, ok := aliases[normalizeHeader(h)]
		if !ok {
			continue
		}
		switch role {
		case colYear:
			hi.year = i
		case colMonth:
			hi.month = i
		case colDay:
			hi.day = i
		case colCategory:
			hi.category = i
		default:
			for p, col := range models.PriceColumns {
				if string(col) == role {
					hi.prices[p] = i
				}
			}
		}
	}
	missing := make([]string, 0)
	if hi.year < 0 {
		missing = append(missing, colYear)
	}
	if hi.month < 0 {
		missing = append(missing, colMonth)
	}
	if hi.day < 0 {
		missing = append(missing, colDay)
	}
	if hi.category < 0 {
		missing = append(missing, colCategory)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns %s: %w", strings.Join(missing, ", "), models.ErrDataUnavailable)
	}
	return hi, nil
}

// HasPrices reports whether at least one price column was found.
func (hi *HeaderIndex) HasPrices() bool {
	for _, p := range hi.prices {
		if p >= 0 {
			return true
		}
	}
	return false
}

// Row converts one record. Unparseable calendar cells yield zero values,
// which Normalize drops as invalid dates; unparseable prices are absent.
func (hi *HeaderIndex) Row(cells []string) models.RawRow {
	var row models.RawRow
	row.Year = parseInt(cell(cells, hi.year))
	row.Month = parseInt(cell(cells, hi.month))
	row.Day = parseInt(cell(cells, hi.day))
	row.Category = cell(cells, hi.category)
	for p, i := range hi.prices {
		if v, ok := parseFloat(cell(cells, i)); ok {
			row.Prices[p] = models.Float(v)
		}
	}
	return row
}

func cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

func parseInt(s string) int {
	if s == "" {
		return 0
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	// spreadsheets often store integers as "2024.0"
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int(f)) {
		return int(f)
	}
	return 0
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
