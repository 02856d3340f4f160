package features

import (
	"sort"
	"strings"
	"time"

	"AgriPull/internal/domain/models"
)

// Vocabulary maps category names to dense integer codes. Codes follow the
// sorted order of the names, so the same set of categories always yields
// the same codes.
type Vocabulary struct {
	names []string
	codes map[string]int
}

// FitVocabulary collects the distinct trimmed categories of s.
func FitVocabulary(s models.Series) *Vocabulary {
	seen := make(map[string]struct{})
	for _, r := range s {
		c := strings.TrimSpace(r.Category)
		if c == "" {
			continue
		}
		seen[c] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for c := range seen {
		names = append(names, c)
	}
	return NewVocabulary(names)
}

// NewVocabulary builds a vocabulary from names, typically read back from a
// persisted model. Duplicates are collapsed.
func NewVocabulary(names []string) *Vocabulary {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	v := &Vocabulary{codes: make(map[string]int, len(sorted))}
	for _, n := range sorted {
		if _, ok := v.codes[n]; ok {
			continue
		}
		v.codes[n] = len(v.names)
		v.names = append(v.names, n)
	}
	return v
}

// Len is the number of known categories.
func (v *Vocabulary) Len() int { return len(v.names) }

// Names returns the categories in code order.
func (v *Vocabulary) Names() []string { return append([]string(nil), v.names...) }

// Code returns the code for category. Unknown categories get the middle
// code K/2 and ok=false.
func (v *Vocabulary) Code(category string) (int, bool) {
	if c, ok := v.codes[strings.TrimSpace(category)]; ok {
		return c, true
	}
	return len(v.names) / 2, false
}

// Encode derives the feature vector for (date, category).
func Encode(date time.Time, category string, v *Vocabulary) models.FeatureVector {
	code, _ := v.Code(category)
	return models.FeatureVector{
		Year:         date.Year(),
		Month:        int(date.Month()),
		Day:          date.Day(),
		DayOfWeek:    (int(date.Weekday()) + 6) % 7,
		DayOfYear:    date.YearDay(),
		CategoryCode: code,
	}
}
