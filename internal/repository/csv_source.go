package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"AgriPull/internal/domain/models"
	domrepo "AgriPull/internal/domain/repository"
)

// CSVSource reads price rows from a comma-separated export of the sheet.
type CSVSource struct {
	path string
}

func NewCSVSource(path string) *CSVSource { return &CSVSource{path: path} }

var _ domrepo.SeriesSource = (*CSVSource)(nil)

func (s *CSVSource) Name() string { return "csv:" + filepath.Base(s.path) }

func (s *CSVSource) LoadRows(ctx context.Context) ([]models.RawRow, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("price csv %s: %v: %w", s.path, err, models.ErrDataUnavailable)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	table, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %v: %w", s.path, err, models.ErrDataUnavailable)
	}
	return rowsFromTable(ctx, table)
}

// NewFileSource picks the loader by file extension.
func NewFileSource(path, sheet string) domrepo.SeriesSource {
	switch filepath.Ext(path) {
	case ".csv", ".CSV":
		return NewCSVSource(path)
	default:
		return NewXLSXSource(path, sheet)
	}
}
