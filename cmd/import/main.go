// Command import loads the price spreadsheet or CSV, normalizes it and
// archives the records in ClickHouse.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"AgriPull/internal/di"
	internalrepo "AgriPull/internal/repository"
	"AgriPull/internal/usecase"
	"AgriPull/pkg/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	path := flag.String("file", "", "spreadsheet or CSV to import (default data.path)")
	sheet := flag.String("sheet", "", "worksheet name (default data.sheet)")
	batch := flag.Int("batch", 2000, "rows per insert")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Printf("config load failed: %v", err)
		return 1
	}
	if *path == "" {
		*path = cfg.Data.Path
	}
	if *sheet == "" {
		*sheet = cfg.Data.Sheet
	}

	l, err := di.ProvideLogger(cfg, nil)
	if err != nil {
		log.Printf("logger: %v", err)
		return 1
	}
	ch, err := di.ProvideClickHouseClient(cfg)
	if err != nil {
		log.Printf("clickhouse: %v", err)
		return 1
	}
	if ch == nil {
		log.Printf("clickhouse.host is required for import")
		return 1
	}
	store := internalrepo.NewCHPriceStore(ch, cfg.ClickHouse.Database+"."+cfg.ClickHouse.Table, *path)
	store.SetLogger(l)
	defer ch.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	uc := usecase.NewImportUseCase(internalrepo.NewFileSource(*path, *sheet), store, l, *batch)
	res, err := uc.Run(ctx)
	if err != nil {
		log.Printf("import: %v", err)
		return 1
	}
	log.Printf("imported %d records from %s (%d bad dates, %d duplicates) in %s",
		res.Stored, res.Source, res.Stats.BadDate, res.Stats.Duplicates, res.Duration)
	return 0
}
