package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"RiskLens/internal/domain/models"
	domrepo "RiskLens/internal/domain/repository"
)

// Proc is the minimal processor interface the pipeline needs.
type Proc interface {
	Process(ctx context.Context, b *models.PriceBar) error
}

// IngestPipeline sits between the bar source and the storage backend.
// It validates, deduplicates per (symbol, date), optionally transforms,
// and buffers when downstream is unavailable.
type IngestPipeline struct {
	proc     Proc
	metrics  domrepo.Metrics
	bufSize  int
	bufCh    chan *models.PriceBar
	stopCh   chan struct{}
	started  bool
	mu       sync.Mutex
	lastDate map[string]time.Time // per-symbol last accepted bar date
	// simple format transform hook (optional)
	transform func(*models.PriceBar) *models.PriceBar
	// metrics
	bufDepthGauge func(int)
}

type PipelineOption func(*IngestPipeline)

// WithBufferSize sets the temporary buffer size when downstream is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *IngestPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithTransform sets a transformation hook to modify the bar format.
func WithTransform(fn func(*models.PriceBar) *models.PriceBar) PipelineOption {
	return func(p *IngestPipeline) { p.transform = fn }
}

// NewIngestPipeline creates a new pipeline.
func NewIngestPipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *IngestPipeline {
	p := &IngestPipeline{
		proc:     proc,
		metrics:  metrics,
		bufSize:  1000, // default buffer
		bufCh:    make(chan *models.PriceBar, 1000),
		stopCh:   make(chan struct{}),
		lastDate: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufSize != cap(p.bufCh) {
		p.bufCh = make(chan *models.PriceBar, p.bufSize)
	}
	p.bufDepthGauge = func(n int) { p.metrics.RecordLatency("pipeline_buffer_depth", float64(n)) }
	return p
}

// Start launches background flushing of buffered bars.
func (p *IngestPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case b := <-p.bufCh:
				if b == nil {
					continue
				}
				if err := p.proc.Process(ctx, b); err != nil {
					// exponential backoff with cap
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					// requeue if space; drop otherwise
					select {
					case p.bufCh <- b:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *IngestPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates, deduplicates, and forwards a bar downstream,
// buffering on errors.
func (p *IngestPipeline) Process(ctx context.Context, b *models.PriceBar) error {
	start := time.Now()
	if err := validateBar(b); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if p.transform != nil {
		b = p.transform(b)
		if err := validateBar(b); err != nil {
			p.metrics.RecordError("pipeline_transform_invalid")
			return err
		}
	}
	if !p.accept(b) {
		// already have this date; drop silently
		p.metrics.RecordError("pipeline_duplicate")
		return nil
	}

	if err := p.proc.Process(ctx, b); err != nil {
		p.metrics.RecordError("pipeline_process")
		// buffer non-blocking
		select {
		case p.bufCh <- b:
			if p.bufDepthGauge != nil {
				p.bufDepthGauge(len(p.bufCh))
			}
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validateBar(b *models.PriceBar) error {
	if b == nil {
		return fmt.Errorf("bar nil")
	}
	if b.Symbol == "" {
		return fmt.Errorf("symbol empty")
	}
	if b.Date.IsZero() {
		return fmt.Errorf("date invalid")
	}
	if b.Close <= 0 || b.Open < 0 || b.High < 0 || b.Low < 0 || b.Volume < 0 {
		return fmt.Errorf("invalid ohlcv")
	}
	return nil
}

func (p *IngestPipeline) accept(b *models.PriceBar) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	last := p.lastDate[b.Symbol]
	if !last.IsZero() && !b.Date.After(last) {
		return false
	}
	p.lastDate[b.Symbol] = b.Date
	return true
}
