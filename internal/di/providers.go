package di

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"RiskLens/internal/domain/repository"
	domsvc "RiskLens/internal/domain/service"
	api "RiskLens/internal/handler/api"
	mid "RiskLens/internal/middleware"
	internalrepo "RiskLens/internal/repository"
	icache "RiskLens/internal/service/cache"
	"RiskLens/internal/service/provider"
	"RiskLens/internal/services/risk"
	"RiskLens/internal/usecase"
	pkgch "RiskLens/pkg/clickhouse"
	"RiskLens/pkg/config"
	pkgkafka "RiskLens/pkg/kafka"
	applogger "RiskLens/pkg/logger"
	"RiskLens/pkg/metrics"
	pkgqueue "RiskLens/pkg/queue"
	"RiskLens/pkg/server"
)

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
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

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
		"CREATE TABLE IF NOT EXISTS " + cfg.ClickHouse.Database + ".daily_bars (symbol String, date Date, open Float64, high Float64, low Float64, close Float64, volume Float64) ENGINE=ReplacingMergeTree ORDER BY (symbol, date)",
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
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
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideBarStorage creates ClickHouse storage repository.
func ProvideBarStorage(chClient *pkgch.Client, cfg *config.Config) repository.Storage {
	return internalrepo.NewClickHouseStorage(chClient.DB(), cfg.ClickHouse.Database+".daily_bars")
}

// ProvideBarPublisher creates the Kafka publisher for raw bars.
func ProvideBarPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.BarPublisher {
	return internalrepo.NewKafkaBarPublisher(producer, cfg.Kafka.Topic)
}

// ProvideReportPublisher creates the Kafka publisher for risk reports.
func ProvideReportPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.ReportTopic)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaBarsHandler registers handler for the bars topic.
func ProvideKafkaBarsHandler(store repository.Storage, metrics repository.Metrics, cfg *config.Config) *usecase.KafkaBarsHandler {
	return usecase.NewKafkaBarsHandler(cfg.Kafka.Topic, store, metrics)
}

// ProvideBarSource creates the daily-bar provider client.
func ProvideBarSource(cfg *config.Config) repository.BarSource {
	return provider.New(
		cfg.Provider.APIKey,
		cfg.Provider.BaseURL,
		cfg.Provider.RequestTimeout,
		cfg.Provider.RatePerSecond,
		cfg.Provider.Burst,
	)
}

// ProvideBarProcessor creates the bar processor use case.
func ProvideBarProcessor(
	pub repository.BarPublisher,
	store repository.Storage,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.BarProcessor {
	return usecase.NewBarProcessor(
		pub,
		store,
		metrics,
		cfg.Backend.Type,
		cfg.Backend.BatchSize,
		cfg.Backend.BatchTimeout,
	)
}

// ProvideBarCollector creates the polling collector with an ingest pipeline in front.
func ProvideBarCollector(
	source repository.BarSource,
	processor *usecase.BarProcessor,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.BarCollector {
	pipe := mid.NewIngestPipeline(processor, metrics,
		mid.WithBufferSize(2000),
	)
	symbols := make([]string, 0, len(cfg.Portfolio.Weights))
	for sym := range cfg.Portfolio.Weights {
		symbols = append(symbols, sym)
	}
	return usecase.NewBarCollector(source, processor, metrics, pipe, symbols, cfg.Provider.PollInterval)
}

// ProvideRiskEngine creates the analytics engine behind the domain interfaces.
func ProvideRiskEngine(cfg *config.Config) *risk.Engine {
	return risk.NewEngine(cfg)
}

// ProvideCrisisAnalyzer creates the crisis-window service.
func ProvideCrisisAnalyzer(cfg *config.Config) domsvc.CrisisAnalyzer {
	return risk.NewCrisisService(cfg)
}

// ProvidePriceStore creates the ClickHouse close-price reader.
func ProvidePriceStore(chClient *pkgch.Client) repository.PriceStore {
	return internalrepo.NewCHPriceStore(chClient)
}

// ProvideRiskAggregator wires the analytics engine to the price store.
func ProvideRiskAggregator(
	store repository.PriceStore,
	engine *risk.Engine,
	crisis domsvc.CrisisAnalyzer,
	cfg *config.Config,
) *usecase.RiskAggregator {
	return usecase.NewRiskAggregator(store, engine, engine, engine, engine, engine, crisis, cfg)
}

// ProvideReportCache selects the report cache backend. Falls back to
// in-process TTL cache when Redis is disabled or unreachable.
func ProvideReportCache(cfg *config.Config) icache.BytesCache {
	if cfg.Risk.Redis.Enabled {
		c, err := icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Risk.Redis.Addr,
			Password: cfg.Risk.Redis.Password,
			DB:       cfg.Risk.Redis.DB,
		})
		if err == nil {
			return c
		}
	}
	return icache.NewTTLCache()
}

// ProvideRiskReportUseCase creates the cached report builder.
func ProvideRiskReportUseCase(
	agg *usecase.RiskAggregator,
	cache icache.BytesCache,
	publisher repository.Publisher,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.RiskReportUseCase {
	return usecase.NewRiskReportUseCase(agg, cache, cfg.Risk.CacheTTL, publisher, metrics)
}

// ProvideJobQueue creates the Redis-backed backtest queue with its job registered.
func ProvideJobQueue(
	agg *usecase.RiskAggregator,
	cache icache.BytesCache,
	publisher repository.Publisher,
	metrics repository.Metrics,
	cfg *config.Config,
) (*pkgqueue.RedisQueue, error) {
	if !cfg.Risk.Redis.Enabled {
		return nil, nil
	}
	lgr, err := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		return nil, fmt.Errorf("queue logger: %w", err)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Risk.Redis.Addr,
		Password: cfg.Risk.Redis.Password,
		DB:       cfg.Risk.Redis.DB,
	})
	q := pkgqueue.NewRedisQueue(lgr,
		&pkgqueue.QueueConfig{Workers: 2, QueueSize: 100, RetryLimit: 3, RetryDelay: 5 * time.Second},
		client,
		pkgqueue.ModeProducerConsumer,
		pkgqueue.WithKeyPrefix("risklens:queue"),
	)
	q.RegisterJob(usecase.NewBacktestJob(agg, cache, publisher, metrics))
	return q, nil
}

// ProvideBacktestUseCase creates the async backtest submitter.
func ProvideBacktestUseCase(q *pkgqueue.RedisQueue, cache icache.BytesCache) *usecase.BacktestUseCase {
	if q == nil {
		return usecase.NewBacktestUseCase(nil, cache)
	}
	return usecase.NewBacktestUseCase(q, cache)
}

// ProvideRiskHandler creates the HTTP handler for all risk endpoints.
func ProvideRiskHandler(
	agg *usecase.RiskAggregator,
	report *usecase.RiskReportUseCase,
	backtest *usecase.BacktestUseCase,
) (*api.RiskEchoHandler, error) {
	lgr, err := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		return nil, fmt.Errorf("handler logger: %w", err)
	}
	return api.NewRiskEchoHandler(lgr, agg, report, backtest), nil
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	collector *usecase.BarCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaBarsHandler,
	chClient *pkgch.Client,
	handler *api.RiskEchoHandler,
	jobQueue *pkgqueue.RedisQueue,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	app := server.New(cfg, collector, consumer, kh, chClient)
	app.SetHTTPHandler(handler)
	if jobQueue != nil {
		app.SetJobQueue(jobQueue)
	}
	if collector != nil {
		app.BarProc = collector.Processor()
	}
	return app
}
