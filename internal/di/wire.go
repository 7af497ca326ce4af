//go:build wireinject
// +build wireinject

package di

import (
	"RiskLens/pkg/config"
	"RiskLens/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Metrics
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideBarStorage,
		ProvideBarPublisher,
		ProvideReportPublisher,
		ProvidePriceStore,
		ProvideBarSource,

		// Analytics engine
		ProvideRiskEngine,
		ProvideCrisisAnalyzer,

		// Use cases
		ProvideBarProcessor,
		ProvideBarCollector,
		ProvideKafkaBarsHandler,
		ProvideRiskAggregator,
		ProvideReportCache,
		ProvideRiskReportUseCase,
		ProvideJobQueue,
		ProvideBacktestUseCase,

		// HTTP
		ProvideRiskHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
