// Command app serves the AgriPull HTTP API.
package main

import (
	"flag"
	"log"
	"os"

	"AgriPull/internal/di"
	"AgriPull/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("load config %s: %v", *configPath, err)
	}
	log.Printf("agripull starting: env=%s source=%s model=%s", cfg.Environment, cfg.Data.Source, cfg.Model.Path)
	if len(cfg.Kafka.Brokers) > 0 {
		log.Printf("events: brokers=%v training=%s forecast=%s", cfg.Kafka.Brokers, cfg.Kafka.TrainingTopic, cfg.Kafka.ForecastTopic)
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("build app: %v", err)
	}

	// blocks until SIGINT/SIGTERM
	if err := app.Run(); err != nil {
		log.Printf("agripull stopped: %v", err)
		os.Exit(1)
	}
}
