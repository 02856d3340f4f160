package models

import "time"

// PriceColumn identifies one of the four quoted price series.
type PriceColumn string

const (
	WholesalePettah   PriceColumn = "wholesale_pettah"
	WholesaleDambulla PriceColumn = "wholesale_dambulla"
	RetailPettah      PriceColumn = "retail_pettah"
	RetailDambulla    PriceColumn = "retail_dambulla"
)

// PriceColumns lists the columns in their canonical order.
var PriceColumns = []PriceColumn{WholesalePettah, WholesaleDambulla, RetailPettah, RetailDambulla}

// RawRow is a spreadsheet row after header normalization. The calendar
// fields are not validated yet.
type RawRow struct {
	Year     int
	Month    int
	Day      int
	Category string
	Prices   [4]*float64 // indexed like PriceColumns; nil means no quote
}

// PriceRecord is one vegetable's quotes for one valid calendar date.
type PriceRecord struct {
	Date              time.Time `json:"date"`
	Category          string    `json:"vegetable"`
	WholesalePettah   *float64  `json:"wholesale_pettah"`
	WholesaleDambulla *float64  `json:"wholesale_dambulla"`
	RetailPettah      *float64  `json:"retail_pettah"`
	RetailDambulla    *float64  `json:"retail_dambulla"`
}

// Price returns the quote for col, or nil when absent.
func (r PriceRecord) Price(col PriceColumn) *float64 {
	switch col {
	case WholesalePettah:
		return r.WholesalePettah
	case WholesaleDambulla:
		return r.WholesaleDambulla
	case RetailPettah:
		return r.RetailPettah
	case RetailDambulla:
		return r.RetailDambulla
	default:
		return nil
	}
}

// Wholesale returns the preferred wholesale quote: Pettah first, Dambulla
// as fallback.
func (r PriceRecord) Wholesale() (float64, bool) {
	if r.WholesalePettah != nil {
		return *r.WholesalePettah, true
	}
	if r.WholesaleDambulla != nil {
		return *r.WholesaleDambulla, true
	}
	return 0, false
}

// Series is the normalized price history ordered by date ascending, then
// by category.
type Series []PriceRecord

// Categories returns the distinct categories in first-seen order.
func (s Series) Categories() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range s {
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	return out
}

// MaxDate returns the latest date in the series.
func (s Series) MaxDate() (time.Time, bool) {
	if len(s) == 0 {
		return time.Time{}, false
	}
	max := s[0].Date
	for _, r := range s[1:] {
		if r.Date.After(max) {
			max = r.Date
		}
	}
	return max, true
}

// Float returns a pointer to v. Handy for building records in tests and loaders.
func Float(v float64) *float64 { return &v }
