package trend

import (
	"math"
	"testing"
	"time"

	"AgriPull/internal/domain/models"
)

func window(cat string, prices ...*float64) models.Series {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	out := make(models.Series, 0, len(prices))
	for i, p := range prices {
		out = append(out, models.PriceRecord{Date: start.AddDate(0, 0, i), Category: cat, WholesalePettah: p})
	}
	return out
}

func f(v float64) *float64 { return models.Float(v) }

func TestPercentChange(t *testing.T) {
	cases := []struct {
		name string
		s    models.Series
		want float64
		ok   bool
	}{
		{"up ten", window("A", f(100), f(110)), 10.0, true},
		{"down six", window("A", f(100), f(94)), -6.0, true},
		{"zero last", window("A", f(100), f(0)), 0, false},
		{"zero first", window("A", f(0), f(50)), 0, false},
		{"negative skipped", window("A", f(100), f(-3), f(105)), 5.0, true},
		{"absent last", window("A", f(100), nil), 0, false},
		{"single", window("A", f(100)), 0, false},
		{"gaps skipped", window("A", nil, f(90), nil, f(99)), 10.0, true},
	}
	for _, c := range cases {
		got, ok := PercentChange(c.s)
		if ok != c.ok {
			t.Fatalf("%s: ok=%v want %v", c.name, ok, c.ok)
		}
		if math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("%s: got %v want %v", c.name, got, c.want)
		}
	}
}

func TestPercentChangeFallsBackToDambulla(t *testing.T) {
	s := window("A", f(100), nil)
	s[1].WholesaleDambulla = f(120)
	got, ok := PercentChange(s)
	if !ok || got != 20 {
		t.Fatalf("got %v ok=%v", got, ok)
	}
}

func TestZeroQuoteFallsBackToDambulla(t *testing.T) {
	s := window("A", f(100), f(0))
	s[1].WholesaleDambulla = f(90)
	got, ok := PercentChange(s)
	if !ok || math.Abs(got+10) > 1e-9 {
		t.Fatalf("got %v ok=%v", got, ok)
	}
}

func TestZeroPricedWindowIsNotClassified(t *testing.T) {
	var s models.Series
	s = append(s, window("Beans", f(100), f(0))...)
	s = append(s, window("Leeks", f(100), f(100))...)
	got := ClassifyAll("2024-03", s)
	if len(got) != 1 || got[0].Category != "Leeks" {
		t.Fatalf("got %+v", got)
	}
}

func TestClassifyBoundaries(t *testing.T) {
	cases := map[float64]models.DemandLevel{
		5.0:  models.DemandMedium,
		-5.0: models.DemandMedium,
		5.1:  models.DemandHigh,
		-5.1: models.DemandLow,
		0:    models.DemandMedium,
	}
	for pct, want := range cases {
		if got := Classify(pct); got != want {
			t.Fatalf("Classify(%v) = %s, want %s", pct, got, want)
		}
	}
}

func TestTomatoScenario(t *testing.T) {
	s := window("Tomato", f(90), f(92), f(95), f(110))
	sig, ok := Signal("Tomato", "2024-03", s)
	if !ok {
		t.Fatalf("expected signal")
	}
	if math.Abs(sig.PercentChange-22.2222) > 1e-3 {
		t.Fatalf("percent change %v", sig.PercentChange)
	}
	if sig.Level != models.DemandHigh || sig.RepresentativePrice != 110 {
		t.Fatalf("unexpected signal %+v", sig)
	}
}

func TestClassifyAllOrderingAndSkips(t *testing.T) {
	var s models.Series
	s = append(s, window("carrot", f(100), f(101))...)
	s = append(s, window("Beans", f(100), f(120))...)
	s = append(s, window("Cabbage", f(100), f(80))...)
	s = append(s, window("Apple", f(100), f(130))...)
	s = append(s, window("Brinjal", f(100))...)
	s = append(s, window("Leeks", f(100), f(100))...)

	got := ClassifyAll("2024-03", s)
	want := []string{"Apple", "Beans", "Leeks", "carrot", "Cabbage"}
	if len(got) != len(want) {
		t.Fatalf("got %d signals, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Category != w {
			t.Fatalf("position %d = %s, want %s", i, got[i].Category, w)
		}
	}
	for _, sig := range got {
		if sig.Category == "Brinjal" {
			t.Fatalf("insufficient data must be excluded, not defaulted to Medium")
		}
	}
}
