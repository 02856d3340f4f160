//go:build wireinject
// +build wireinject

package di

import (
	"AgriPull/internal/handler/api"
	"AgriPull/internal/usecase"
	"AgriPull/pkg/config"
	"AgriPull/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Infrastructure clients
		ProvideKafkaProducer,
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,
		ProvideClickHouseClient,

		// Repositories
		ProvideEvents,
		ProvidePriceStore,
		ProvideSeriesSource,
		ProvideSeriesLoader,
		ProvideArtifactStore,

		// Services
		ProvideEnsemble,
		ProvideForecaster,
		ProvideCropRecommender,
		ProvideRateLimiter,

		// Use cases
		ProvideMarketUseCase,
		ProvideTrendUseCase,
		usecase.NewForecastUseCase,
		usecase.NewCropUseCase,

		// Transport
		api.NewHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}

// InitializeTrainer wires the pieces the train command uses.
func InitializeTrainer(cfg *config.Config) (*Trainer, error) {
	wire.Build(
		ProvideKafkaProducer,
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,
		ProvideClickHouseClient,
		ProvideEvents,
		ProvidePriceStore,
		ProvideSeriesSource,
		ProvideSeriesLoader,
		ProvideArtifactStore,
		ProvideEnsemble,
		ProvideTrainer,
	)
	return &Trainer{}, nil
}
