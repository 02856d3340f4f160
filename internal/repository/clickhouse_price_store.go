package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"AgriPull/internal/domain/models"
	domrepo "AgriPull/internal/domain/repository"
	pkgch "AgriPull/pkg/clickhouse"
	applogger "AgriPull/pkg/logger"
)

// PriceSchema returns the idempotent DDL for the price archive. Rows are
// keyed by (vegetable, date); re-imports replace older versions.
func PriceSchema(database, table string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
            date               Date,
            vegetable          LowCardinality(String),
            wholesale_pettah   Nullable(Float64),
            wholesale_dambulla Nullable(Float64),
            retail_pettah      Nullable(Float64),
            retail_dambulla    Nullable(Float64),
            source             LowCardinality(String),
            ingested_at        DateTime DEFAULT now()
        ) ENGINE = ReplacingMergeTree(ingested_at)
        ORDER BY (vegetable, date)`, database, table),
	}
}

// CHPriceStore archives normalized price records in ClickHouse and can
// serve them back as a series source.
type CHPriceStore struct {
	ch     *pkgch.Client
	db     *sql.DB
	table  string
	source string
	l      *applogger.Logger
}

func NewCHPriceStore(ch *pkgch.Client, table, source string) *CHPriceStore {
	return &CHPriceStore{ch: ch, db: ch.DB(), table: table, source: source}
}

// SetLogger injects a structured logger.
func (s *CHPriceStore) SetLogger(l *applogger.Logger) { s.l = l }

var (
	_ domrepo.PriceArchive = (*CHPriceStore)(nil)
	_ domrepo.SeriesSource = (*CHPriceStore)(nil)
)

func (s *CHPriceStore) Name() string { return "clickhouse:" + s.table }

func nullable(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

var priceColumns = []string{
	"date", "vegetable",
	"wholesale_pettah", "wholesale_dambulla", "retail_pettah", "retail_dambulla",
	"source",
}

// StoreBatch inserts records as one native batch. Records without a date
// or vegetable are skipped.
func (s *CHPriceStore) StoreBatch(ctx context.Context, records []models.PriceRecord) error {
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		if r.Category == "" || r.Date.IsZero() {
			continue
		}
		rows = append(rows, []interface{}{
			r.Date,
			r.Category,
			nullable(r.WholesalePettah),
			nullable(r.WholesaleDambulla),
			nullable(r.RetailPettah),
			nullable(r.RetailDambulla),
			s.source,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	start := time.Now()
	if err := s.ch.InsertRows(ctx, s.table, priceColumns, rows); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse store_prices error",
				applogger.String("table", s.table),
				applogger.Int("rows", len(rows)),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("store prices: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse store_prices ok",
			applogger.String("table", s.table),
			applogger.Int("rows", len(rows)),
			applogger.Duration("took", time.Since(start)),
		)
	}
	return nil
}

// LoadRows reads the deduplicated archive back as raw rows.
func (s *CHPriceStore) LoadRows(ctx context.Context) ([]models.RawRow, error) {
	const qtpl = `
        SELECT toYear(date), toMonth(date), toDayOfMonth(date), vegetable,
               wholesale_pettah, wholesale_dambulla, retail_pettah, retail_dambulla
        FROM %s FINAL
        ORDER BY date ASC, vegetable ASC
    `
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(qtpl, s.table))
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse load_prices query error", applogger.String("table", s.table), applogger.Error(err))
		}
		return nil, fmt.Errorf("load prices: %v: %w", err, models.ErrDataUnavailable)
	}
	defer rows.Close()

	out := make([]models.RawRow, 0, 1024)
	for rows.Next() {
		var (
			r       models.RawRow
			y, m, d int
			p       [4]sql.NullFloat64
		)
		if err := rows.Scan(&y, &m, &d, &r.Category, &p[0], &p[1], &p[2], &p[3]); err != nil {
			return nil, fmt.Errorf("scan price row: %w", err)
		}
		r.Year, r.Month, r.Day = y, m, d
		for i := range p {
			if p[i].Valid {
				r.Prices[i] = models.Float(p[i].Float64)
			}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *CHPriceStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close is a no-op; the client is owned and closed by its creator.
func (s *CHPriceStore) Close() error {
	return nil
}
