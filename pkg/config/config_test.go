package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadAppliesDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, "environment: test\nserver:\n  port: 9090\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.Port != 9090 {
		t.Fatalf("explicit port lost: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout != 15*time.Second {
		t.Fatalf("read timeout default = %v", c.Server.ReadTimeout)
	}
	if c.Model.Trees != 100 || c.Model.MaxDepth != 20 || c.Model.Seed != 42 {
		t.Fatalf("model defaults = %+v", c.Model)
	}
	if c.Data.Source != "file" || c.Data.Path == "" {
		t.Fatalf("data defaults = %+v", c.Data)
	}
}

func TestLoadEmptyPathIsDefaults(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Environment != "development" || c.Kafka.TrainingTopic != "agripull.training" {
		t.Fatalf("unexpected defaults: %s %s", c.Environment, c.Kafka.TrainingTopic)
	}
}

func TestValidateRejectsUnknownSource(t *testing.T) {
	if _, err := Load(writeConfig(t, "data:\n  source: postgres\n")); err == nil {
		t.Fatalf("expected error for unknown data source")
	}
	if _, err := Load(writeConfig(t, "data:\n  source: clickhouse\n")); err == nil {
		t.Fatalf("expected error for clickhouse without host")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("AGRIPULL_DATA_PATH", "/srv/prices.csv")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	c, err := LoadWithEnv("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Data.Path != "/srv/prices.csv" {
		t.Fatalf("data path = %s", c.Data.Path)
	}
	if !c.Redis.Enabled || c.Redis.Addr != "redis:6379" {
		t.Fatalf("redis override not applied: %+v", c.Redis)
	}
	if len(c.Kafka.Brokers) != 2 {
		t.Fatalf("brokers = %v", c.Kafka.Brokers)
	}
}

func TestExampleConfigLoads(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "config", "config.example.yaml"))
	if err != nil {
		t.Fatalf("load example: %v", err)
	}
	if !c.RateLimit.Enabled || c.RateLimit.Burst != 10 {
		t.Fatalf("rate limit not read: %+v", c.RateLimit)
	}
	if c.Data.Source != "file" || c.Model.LockWait != 2*time.Minute {
		t.Fatalf("unexpected example values: %+v %+v", c.Data, c.Model)
	}
}
