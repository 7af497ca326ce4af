package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"RiskLens/internal/domain/models"
	"RiskLens/internal/domain/repository"
	pkgkafka "RiskLens/pkg/kafka"
)

// ClickHouseStorage implements Storage for ClickHouse.
type ClickHouseStorage struct {
	db    *sql.DB
	table string
}

// NewClickHouseStorage creates ClickHouse storage.
func NewClickHouseStorage(db *sql.DB, table string) repository.Storage {
	return &ClickHouseStorage{db: db, table: table}
}

func (s *ClickHouseStorage) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

func (s *ClickHouseStorage) StoreBar(ctx context.Context, b *models.PriceBar) error {
	q := fmt.Sprintf("INSERT INTO %s (symbol, date, open, high, low, close, volume) VALUES (?, ?, ?, ?, ?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q,
		b.Symbol,
		b.Date,
		b.Open,
		b.High,
		b.Low,
		b.Close,
		b.Volume,
	)
	return err
}

func (s *ClickHouseStorage) StoreBarBatch(ctx context.Context, bars []models.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}
	// Batch insert using VALUES multi-row to reduce round-trips.
	const chunkSize = 2000
	for start := 0; start < len(bars); start += chunkSize {
		end := start + chunkSize
		if end > len(bars) {
			end = len(bars)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*7)
		for _, b := range bars[start:end] {
			if b.Symbol == "" || b.Date.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				b.Symbol,
				b.Date,
				b.Open,
				b.High,
				b.Low,
				b.Close,
				b.Volume,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (symbol, date, open, high, low, close, volume) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseStorage) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseStorage) Close() error {
	return nil // Managed by pkg
}

// KafkaPublisher implements Publisher for Kafka.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishReport(ctx context.Context, r *models.RiskReport) error {
	return p.producer.Publish(ctx, p.topic, []byte(r.Portfolio), r)
}

func (p *KafkaPublisher) PublishBacktest(ctx context.Context, s *models.BacktestSummary) error {
	key := []byte("backtest:" + string(s.Method))
	return p.producer.Publish(ctx, p.topic, key, s)
}

// KafkaBarPublisher implements BarPublisher for Kafka.
type KafkaBarPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaBarPublisher creates a Kafka bar publisher.
func NewKafkaBarPublisher(producer *pkgkafka.Producer, topic string) repository.BarPublisher {
	return &KafkaBarPublisher{producer: producer, topic: topic}
}

func barMessage(b *models.PriceBar) map[string]interface{} {
	return map[string]interface{}{
		"symbol": b.Symbol,
		"date":   b.Date.Format("2006-01-02"),
		"o":      b.Open,
		"h":      b.High,
		"l":      b.Low,
		"c":      b.Close,
		"v":      b.Volume,
	}
}

func (p *KafkaBarPublisher) PublishBar(ctx context.Context, b *models.PriceBar) error {
	return p.producer.Publish(ctx, p.topic, []byte(b.Symbol), barMessage(b))
}

func (p *KafkaBarPublisher) PublishBarBatch(ctx context.Context, bars []models.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(bars))
	for i := range bars {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(bars[i].Symbol),
			Value: barMessage(&bars[i]),
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaBarPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
