// Package chart renders price trends as PNG images.
package chart

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"AgriPull/internal/domain/models"
)

const (
	width  = 10 * vg.Inch
	height = 5 * vg.Inch
)

var seriesColors = map[models.PriceColumn]color.RGBA{
	models.WholesalePettah:   {R: 31, G: 119, B: 180, A: 255},
	models.WholesaleDambulla: {R: 44, G: 160, B: 44, A: 255},
	models.RetailPettah:      {R: 255, G: 127, B: 14, A: 255},
	models.RetailDambulla:    {R: 214, G: 39, B: 40, A: 255},
}

// TrendPNG draws one line per price column present in the trend's records,
// with the day of month on the X axis.
func TrendPNG(t models.Trend) ([]byte, error) {
	if len(t.Records) == 0 {
		return nil, fmt.Errorf("no records for %s in %s: %w", t.Category, t.WindowLabel, models.ErrDataUnavailable)
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s price trend %s", t.Category, t.WindowLabel)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Day"
	p.Y.Label.Text = "Price (Rs)"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for _, col := range models.PriceColumns {
		pts := make(plotter.XYs, 0, len(t.Records))
		for _, r := range t.Records {
			if v := r.Price(col); v != nil {
				pts = append(pts, plotter.XY{X: float64(r.Date.Day()), Y: *v})
			}
		}
		if len(pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("line %s: %w", col, err)
		}
		line.Color = seriesColors[col]
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(string(col), line)
	}

	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf.Bytes(), nil
}
