package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"AgriPull/internal/domain/models"
	domrepo "AgriPull/internal/domain/repository"
	"AgriPull/internal/services/series"
)

// XLSXSource reads price rows from the first (or named) sheet of a
// spreadsheet. The file is reopened on every load.
type XLSXSource struct {
	path  string
	sheet string
}

func NewXLSXSource(path, sheet string) *XLSXSource {
	return &XLSXSource{path: path, sheet: sheet}
}

var _ domrepo.SeriesSource = (*XLSXSource)(nil)

func (s *XLSXSource) Name() string { return "xlsx:" + filepath.Base(s.path) }

func (s *XLSXSource) LoadRows(ctx context.Context) ([]models.RawRow, error) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, fmt.Errorf("price sheet %s: %w", s.path, models.ErrDataUnavailable)
	}
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v: %w", s.path, err, models.ErrDataUnavailable)
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%s has no sheets: %w", s.path, models.ErrDataUnavailable)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %v: %w", sheet, err, models.ErrDataUnavailable)
	}
	return rowsFromTable(ctx, rows)
}

// rowsFromTable converts a header row plus data rows. Blank lines are skipped.
func rowsFromTable(ctx context.Context, table [][]string) ([]models.RawRow, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("empty table: %w", models.ErrDataUnavailable)
	}
	hi, err := series.NewHeaderIndex(table[0])
	if err != nil {
		return nil, err
	}
	out := make([]models.RawRow, 0, len(table)-1)
	for i, cells := range table[1:] {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if blank(cells) {
			continue
		}
		out = append(out, hi.Row(cells))
	}
	return out, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
