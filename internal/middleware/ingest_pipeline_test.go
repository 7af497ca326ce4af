package middleware

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"RiskLens/internal/domain/models"
)

type recordingProc struct {
	mu   sync.Mutex
	bars []*models.PriceBar
	fail bool
}

func (p *recordingProc) Process(ctx context.Context, b *models.PriceBar) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return fmt.Errorf("downstream unavailable")
	}
	p.bars = append(p.bars, b)
	return nil
}

func (p *recordingProc) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.bars)
}

type nopMetrics struct{}

func (nopMetrics) RecordBarStored(backend, symbol string)            {}
func (nopMetrics) RecordReportBuilt(portfolio string)                {}
func (nopMetrics) RecordError(kind string)                           {}
func (nopMetrics) RecordVaR(method, portfolio string, value float64) {}
func (nopMetrics) RecordLatency(op string, seconds float64)          {}

func bar(symbol string, day int, close float64) *models.PriceBar {
	return &models.PriceBar{
		Symbol: symbol,
		Date:   time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		Open:   close,
		High:   close,
		Low:    close,
		Close:  close,
		Volume: 100,
	}
}

func TestPipelineForwardsValidBars(t *testing.T) {
	proc := &recordingProc{}
	p := NewIngestPipeline(proc, nopMetrics{})

	for day := 1; day <= 3; day++ {
		if err := p.Process(context.Background(), bar("AAPL", day, 100)); err != nil {
			t.Fatalf("process day %d: %v", day, err)
		}
	}
	if got := proc.count(); got != 3 {
		t.Errorf("forwarded %d bars, want 3", got)
	}
}

func TestPipelineRejectsInvalidBars(t *testing.T) {
	proc := &recordingProc{}
	p := NewIngestPipeline(proc, nopMetrics{})

	cases := []*models.PriceBar{
		nil,
		{Symbol: "", Date: time.Now(), Close: 100},
		{Symbol: "AAPL", Close: 100}, // zero date
		{Symbol: "AAPL", Date: time.Now(), Close: 0},
		{Symbol: "AAPL", Date: time.Now(), Close: 100, Volume: -1},
	}
	for i, b := range cases {
		if err := p.Process(context.Background(), b); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
	if got := proc.count(); got != 0 {
		t.Errorf("forwarded %d invalid bars", got)
	}
}

func TestPipelineDeduplicatesPerSymbolDate(t *testing.T) {
	proc := &recordingProc{}
	p := NewIngestPipeline(proc, nopMetrics{})

	ctx := context.Background()
	if err := p.Process(ctx, bar("AAPL", 2, 100)); err != nil {
		t.Fatalf("first bar: %v", err)
	}
	// same date and an older date are both dropped without error
	if err := p.Process(ctx, bar("AAPL", 2, 101)); err != nil {
		t.Fatalf("duplicate date: %v", err)
	}
	if err := p.Process(ctx, bar("AAPL", 1, 99)); err != nil {
		t.Fatalf("stale date: %v", err)
	}
	// a different symbol on the same date passes
	if err := p.Process(ctx, bar("MSFT", 2, 300)); err != nil {
		t.Fatalf("other symbol: %v", err)
	}
	if got := proc.count(); got != 2 {
		t.Errorf("forwarded %d bars, want 2", got)
	}
}

func TestPipelineBuffersOnDownstreamError(t *testing.T) {
	proc := &recordingProc{fail: true}
	p := NewIngestPipeline(proc, nopMetrics{}, WithBufferSize(10))

	err := p.Process(context.Background(), bar("AAPL", 1, 100))
	if err == nil {
		t.Fatal("expected downstream error")
	}

	// recover downstream and let the flusher drain the buffer
	proc.mu.Lock()
	proc.fail = false
	proc.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	defer p.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for proc.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := proc.count(); got != 1 {
		t.Errorf("flushed %d bars, want 1", got)
	}
}

func TestPipelineTransformHook(t *testing.T) {
	proc := &recordingProc{}
	p := NewIngestPipeline(proc, nopMetrics{}, WithTransform(func(b *models.PriceBar) *models.PriceBar {
		b.Symbol = "X:" + b.Symbol
		return b
	}))

	if err := p.Process(context.Background(), bar("AAPL", 1, 100)); err != nil {
		t.Fatalf("process: %v", err)
	}
	if proc.bars[0].Symbol != "X:AAPL" {
		t.Errorf("transform not applied, got %q", proc.bars[0].Symbol)
	}
}
