package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"RiskLens/internal/domain/models"
	pkgch "RiskLens/pkg/clickhouse"
	applogger "RiskLens/pkg/logger"
)

const barsTable = "risklens.daily_bars"

// CHPriceStore implements PriceStore backed by ClickHouse.
type CHPriceStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHPriceStore(ch *pkgch.Client) *CHPriceStore {
	return &CHPriceStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHPriceStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHPriceStore) GetCloses(ctx context.Context, symbol string, from, to time.Time) (models.PriceSeries, error) {
	start := time.Now()
	const q = `
        SELECT date, close
        FROM ` + barsTable + `
        WHERE symbol = ? AND date >= ? AND date <= ?
        ORDER BY date ASC
    `
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_closes query error",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return models.PriceSeries{}, fmt.Errorf("get closes: %w", err)
	}
	defer rows.Close()

	series := models.PriceSeries{Symbol: symbol, Points: make([]models.PricePoint, 0, 512)}
	for rows.Next() {
		var p models.PricePoint
		if err := rows.Scan(&p.Date, &p.Close); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse get_closes scan error",
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
			return models.PriceSeries{}, fmt.Errorf("scan close: %w", err)
		}
		series.Points = append(series.Points, p)
	}
	if err := rows.Err(); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_closes rows error",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return models.PriceSeries{}, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse get_closes ok",
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(series.Points)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return series, nil
}

func (s *CHPriceStore) GetLatestNCloses(ctx context.Context, symbol string, n int) (models.PriceSeries, error) {
	start := time.Now()
	const q = `
        SELECT date, close
        FROM ` + barsTable + `
        WHERE symbol = ?
        ORDER BY date DESC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, q, symbol, n)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse latest_closes query error",
				applogger.String("symbol", symbol),
				applogger.Int("limit", n),
				applogger.Error(err),
			)
		}
		return models.PriceSeries{}, fmt.Errorf("get latest closes: %w", err)
	}
	defer rows.Close()

	tmp := make([]models.PricePoint, 0, n)
	for rows.Next() {
		var p models.PricePoint
		if err := rows.Scan(&p.Date, &p.Close); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse latest_closes scan error",
					applogger.String("symbol", symbol),
					applogger.Int("limit", n),
					applogger.Error(err),
				)
			}
			return models.PriceSeries{}, fmt.Errorf("scan close: %w", err)
		}
		tmp = append(tmp, p)
	}
	if err := rows.Err(); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse latest_closes rows error",
				applogger.String("symbol", symbol),
				applogger.Int("limit", n),
				applogger.Error(err),
			)
		}
		return models.PriceSeries{}, fmt.Errorf("rows: %w", err)
	}
	// reverse to ASC
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}
	if s.l != nil {
		s.l.Info("clickhouse latest_closes ok",
			applogger.String("symbol", symbol),
			applogger.Int("limit", n),
			applogger.Int("rows", len(tmp)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return models.PriceSeries{Symbol: symbol, Points: tmp}, nil
}
