// Command train fits the price forecast model from the configured source
// and writes the artifact, replacing any existing one.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"AgriPull/internal/di"
	"AgriPull/internal/domain/models"
	"AgriPull/internal/services/forecast"
	"AgriPull/internal/services/report"
	"AgriPull/pkg/config"
)

type seriesLoader interface {
	Invalidate(ctx context.Context) error
	Series(ctx context.Context) (models.Series, error)
}

type modelTrainer interface {
	Invalidate()
	Train(ctx context.Context, s models.Series) (*forecast.Model, error)
}

func main() {
	os.Exit(run())
}

// run returns the exit code so deferred cleanup flushes the log collector
// and the event producer on failure too.
func run() int {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	reportPath := flag.String("report", "", "optional .xlsx file for the accuracy report")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Printf("config load failed: %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t, err := di.InitializeTrainer(cfg)
	if err != nil {
		log.Printf("trainer initialization failed: %v", err)
		return 1
	}
	defer t.Close()

	if err := train(ctx, t.Loader, t.Ensemble, os.Stdout, *reportPath); err != nil {
		log.Printf("train: %v", err)
		return 1
	}
	return 0
}

func train(ctx context.Context, loader seriesLoader, trainer modelTrainer, out io.Writer, reportPath string) error {
	if err := loader.Invalidate(ctx); err != nil {
		log.Printf("series cache not cleared: %v", err)
	}
	s, err := loader.Series(ctx)
	if err != nil {
		return fmt.Errorf("load series: %w", err)
	}
	trainer.Invalidate()
	m, err := trainer.Train(ctx, s)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m.Report); err != nil {
		return fmt.Errorf("print report: %w", err)
	}

	if reportPath == "" {
		return nil
	}
	f, err := os.Create(reportPath)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := report.WriteTrainingXLSX(f, m.Report); err != nil {
		f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	log.Printf("report written to %s", reportPath)
	return nil
}
