package usecase

import (
	"context"
	"sort"
	"time"

	drepo "RiskLens/internal/domain/repository"
	mid "RiskLens/internal/middleware"
	applogger "RiskLens/pkg/logger"
)

// BarCollector polls the bar source for new daily bars and feeds them
// through the ingest pipeline.
type BarCollector struct {
	source   drepo.BarSource
	proc     *BarProcessor
	metrics  drepo.Metrics
	pipe     *mid.IngestPipeline
	symbols  []string
	interval time.Duration
	lookback int // trading days fetched on first poll
	lastPoll map[string]time.Time
	stopCh   chan struct{}
	l        *applogger.Logger
}

// NewBarCollector creates a new BarCollector instance.
func NewBarCollector(source drepo.BarSource, proc *BarProcessor, metrics drepo.Metrics, pipe *mid.IngestPipeline, symbols []string, interval time.Duration) *BarCollector {
	if interval <= 0 {
		interval = time.Hour
	}
	syms := make([]string, len(symbols))
	copy(syms, symbols)
	sort.Strings(syms)
	return &BarCollector{
		source:   source,
		proc:     proc,
		metrics:  metrics,
		pipe:     pipe,
		symbols:  syms,
		interval: interval,
		lookback: 400,
		lastPoll: make(map[string]time.Time),
		stopCh:   make(chan struct{}),
	}
}

// SetLogger injects a structured logger.
func (c *BarCollector) SetLogger(l *applogger.Logger) { c.l = l }

// Start begins the polling loop.
func (c *BarCollector) Start(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	go c.loop(ctx)
	return nil
}

func (c *BarCollector) loop(ctx context.Context) {
	// initial fetch immediately, then on the ticker
	c.pollAll(ctx)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.pollAll(ctx)
		}
	}
}

func (c *BarCollector) pollAll(ctx context.Context) {
	now := time.Now().UTC()
	for _, symbol := range c.symbols {
		from := c.lastPoll[symbol]
		if from.IsZero() {
			from = now.AddDate(0, 0, -c.lookback)
		}
		bars, err := c.source.FetchDailyBars(ctx, symbol, from, now)
		if err != nil {
			c.metrics.RecordError("source_fetch")
			if c.l != nil {
				c.l.Warn("bar fetch failed",
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
			continue
		}
		for i := range bars {
			b := bars[i]
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, &b)
			} else {
				_ = c.proc.Process(ctx, &b)
			}
		}
		if len(bars) > 0 {
			c.lastPoll[symbol] = bars[len(bars)-1].Date
		}
	}
}

// Processor returns the underlying BarProcessor for lifecycle management.
func (c *BarCollector) Processor() *BarProcessor { return c.proc }

// Shutdown stops the pipeline and polling loop.
func (c *BarCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	close(c.stopCh)
	return nil
}
