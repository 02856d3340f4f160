package di

import (
	"context"
	"fmt"
	"time"

	"AgriPull/internal/domain/repository"
	domsvc "AgriPull/internal/domain/service"
	"AgriPull/internal/handler/api"
	internalrepo "AgriPull/internal/repository"
	"AgriPull/internal/service/ratelimit"
	"AgriPull/internal/services/forecast"
	"AgriPull/internal/services/forest"
	"AgriPull/internal/services/recommend"
	"AgriPull/internal/services/series"
	"AgriPull/internal/usecase"
	"AgriPull/pkg/cache"
	pkgch "AgriPull/pkg/clickhouse"
	"AgriPull/pkg/config"
	xhttp "AgriPull/pkg/http"
	pkgkafka "AgriPull/pkg/kafka"
	applogger "AgriPull/pkg/logger"
	"AgriPull/pkg/metrics"
	"AgriPull/pkg/server"
)

// ProvideKafkaProducer creates a Kafka producer. It returns nil when no
// brokers are configured.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithAutoCreateTopics(cfg.Kafka.Producer.AutoCreateTopics),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideLogger creates the application logger. With the collector enabled,
// repeated error logs are aggregated and shipped through the producer.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if cfg.Logging.Collector.Enabled && producer != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   cfg.Logging.Collector.Interval,
			CountThreshold: cfg.Logging.Collector.Threshold,
			Topic:          cfg.Logging.Collector.Topic,
			Publisher:      producer,
		})
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideEvents publishes to Kafka when a producer exists, otherwise drops events.
func ProvideEvents(cfg *config.Config, producer *pkgkafka.Producer) repository.EventPublisher {
	if producer == nil {
		return internalrepo.NopEvents{}
	}
	return internalrepo.NewKafkaEvents(producer, cfg.Kafka.TrainingTopic, cfg.Kafka.ForecastTopic)
}

// ProvideCache returns a memory cache, layered over Redis when enabled.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(256)), nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Redis.Addr),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(rc, cache.WithLayeredMemorySize(256), cache.WithLayeredLocalTTL(cfg.Data.CacheTTL)), nil
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the price
// schema. It returns nil when no host is configured.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.ClickHouse.Host == "" {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.PriceSchema(cfg.ClickHouse.Database, cfg.ClickHouse.Table)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvidePriceStore wraps the ClickHouse client as the price archive. It
// returns nil without a client.
func ProvidePriceStore(cfg *config.Config, ch *pkgch.Client, l *applogger.Logger) *internalrepo.CHPriceStore {
	if ch == nil {
		return nil
	}
	store := internalrepo.NewCHPriceStore(ch, cfg.ClickHouse.Database+"."+cfg.ClickHouse.Table, cfg.Data.Path)
	store.SetLogger(l)
	return store
}

// ProvideSeriesSource picks the spreadsheet/CSV file or the ClickHouse archive.
func ProvideSeriesSource(cfg *config.Config, store *internalrepo.CHPriceStore) (repository.SeriesSource, error) {
	if cfg.Data.Source == "clickhouse" {
		if store == nil {
			return nil, fmt.Errorf("data.source is clickhouse but clickhouse.host is empty")
		}
		return store, nil
	}
	return internalrepo.NewFileSource(cfg.Data.Path, cfg.Data.Sheet), nil
}

func ProvideSeriesLoader(cfg *config.Config, source repository.SeriesSource, c cache.Service, l *applogger.Logger) *series.Loader {
	return series.NewLoader(source, c, cfg.Data.CacheTTL, l)
}

func ProvideArtifactStore(cfg *config.Config) repository.ArtifactStore {
	return internalrepo.NewFileArtifactStore(cfg.Model.Path)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideEnsemble builds the forecast ensemble. The cross-process training
// lock is only taken when Redis backs the cache.
func ProvideEnsemble(
	cfg *config.Config,
	loader *series.Loader,
	store repository.ArtifactStore,
	events repository.EventPublisher,
	m repository.Metrics,
	c cache.Service,
	l *applogger.Logger,
) *forecast.Ensemble {
	fc := forecast.DefaultConfig()
	fc.Forest = forest.Config{
		Trees:           cfg.Model.Trees,
		MaxDepth:        cfg.Model.MaxDepth,
		MinSamplesSplit: cfg.Model.MinSamplesSplit,
		Seed:            cfg.Model.Seed,
		Workers:         cfg.Model.Workers,
	}
	fc.TestFraction = cfg.Model.TestFraction
	fc.SplitSeed = cfg.Model.Seed
	fc.LockTTL = cfg.Model.LockTTL
	fc.LockWait = cfg.Model.LockWait

	opts := []forecast.Option{forecast.WithEvents(events), forecast.WithMetrics(m)}
	if cfg.Redis.Enabled {
		opts = append(opts, forecast.WithLocker(c))
	}
	return forecast.NewEnsemble(fc, loader, store, l.With(applogger.String("component", "forecast")), opts...)
}

func ProvideForecaster(e *forecast.Ensemble) domsvc.Forecaster { return e }

func ProvideCropRecommender(cfg *config.Config) domsvc.CropRecommender {
	return recommend.NewHTTPCropRecommender(cfg)
}

// ProvideRateLimiter returns nil when rate limiting is disabled.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
}

func ProvideMarketUseCase(loader *series.Loader, m repository.Metrics) *usecase.MarketUseCase {
	return usecase.NewMarketUseCase(loader, m)
}

func ProvideTrendUseCase(loader *series.Loader) *usecase.TrendUseCase {
	return usecase.NewTrendUseCase(loader)
}

func ProvideHTTPServer(cfg *config.Config, h *api.Handler, l *applogger.Logger) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(h, l,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithSlowThreshold(cfg.Server.SlowRequest),
		xhttp.WithCORSOrigins(cfg.Server.CORSOrigins),
		xhttp.WithMetricsPath(metricsPath),
	)
}

// ProvideApp creates the application server and registers resource cleanup.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	ensemble *forecast.Ensemble,
	limiter *ratelimit.Limiter,
	events repository.EventPublisher,
	c cache.Service,
	ch *pkgch.Client,
) *server.App {
	app := server.New(cfg, l, srv, ensemble, limiter)
	if ch != nil {
		app.OnShutdown("clickhouse", ch.Close)
	}
	app.OnShutdown("cache", c.Close)
	// closes the producer, so it must run after the log collector flushes
	app.OnShutdown("events", events.Close)
	app.OnShutdown("log collector", func() error {
		l.RemoveCollector()
		return nil
	})
	return app
}
