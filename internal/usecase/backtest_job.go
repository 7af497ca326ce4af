package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"RiskLens/internal/domain/models"
	domrepo "RiskLens/internal/domain/repository"
	icache "RiskLens/internal/service/cache"
	"RiskLens/pkg/queue"
)

const (
	backtestMsgType   = "backtest.run"
	backtestKeyPref   = "backtest:"
	backtestRetainFor = 24 * time.Hour
)

// BacktestJobPayload is the queued request for a rolling VaR validation.
type BacktestJobPayload struct {
	ID        string  `json:"id"`
	Method    string  `json:"method"`
	Window    int     `json:"window"`
	Tolerance float64 `json:"tolerance"`
}

// BacktestJobResult is the cached outcome readable by the API.
type BacktestJobResult struct {
	ID          string                  `json:"id"`
	Status      string                  `json:"status"` // pending, completed, failed
	Error       string                  `json:"error,omitempty"`
	SubmittedAt time.Time               `json:"submitted_at"`
	FinishedAt  *time.Time              `json:"finished_at,omitempty"`
	Summary     *models.BacktestSummary `json:"summary,omitempty"`
	Records     []models.BacktestRecord `json:"records,omitempty"`
}

// BacktestJob processes queued backtest requests.
type BacktestJob struct {
	agg     *RiskAggregator
	cache   icache.BytesCache
	pub     domrepo.Publisher
	metrics domrepo.Metrics
}

func NewBacktestJob(agg *RiskAggregator, cache icache.BytesCache, pub domrepo.Publisher, metrics domrepo.Metrics) *BacktestJob {
	return &BacktestJob{agg: agg, cache: cache, pub: pub, metrics: metrics}
}

func (j *BacktestJob) Name() string { return "backtest_runner" }
func (j *BacktestJob) Type() string { return backtestMsgType }

func (j *BacktestJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[BacktestJobPayload](payload)
	if err != nil {
		return fmt.Errorf("parse backtest payload: %w", err)
	}

	start := time.Now()
	summary, records, err := j.agg.Backtest(ctx, models.NormalizeVaRMethod(p.Method), p.Window, p.Tolerance)
	finished := time.Now().UTC()
	result := BacktestJobResult{
		ID:          p.ID,
		SubmittedAt: start.UTC(),
		FinishedAt:  &finished,
	}
	if err != nil {
		j.metrics.RecordError("backtest_job")
		result.Status = "failed"
		result.Error = err.Error()
		j.storeResult(p.ID, &result)
		return err
	}

	result.Status = "completed"
	result.Summary = &summary
	result.Records = records
	j.storeResult(p.ID, &result)
	j.metrics.RecordLatency("backtest_job", time.Since(start).Seconds())

	if j.pub != nil {
		if err := j.pub.PublishBacktest(ctx, &summary); err != nil {
			j.metrics.RecordError("backtest_publish")
		}
	}
	return nil
}

func (j *BacktestJob) storeResult(id string, r *BacktestJobResult) {
	if j.cache == nil {
		return
	}
	if b, err := json.Marshal(r); err == nil {
		_ = j.cache.SetBytes(backtestKeyPref+id, b, backtestRetainFor)
	}
}

// BacktestUseCase submits backtests to the queue and reads results.
type BacktestUseCase struct {
	queue queue.QueueService
	cache icache.BytesCache
}

func NewBacktestUseCase(q queue.QueueService, cache icache.BytesCache) *BacktestUseCase {
	return &BacktestUseCase{queue: q, cache: cache}
}

type SubmitBacktestParams struct {
	Method    string
	Window    int
	Tolerance float64
}

// Submit enqueues a backtest and returns its job ID.
func (uc *BacktestUseCase) Submit(ctx context.Context, p SubmitBacktestParams) (string, error) {
	if uc.queue == nil {
		return "", fmt.Errorf("backtest queue disabled")
	}
	id, err := newJobID()
	if err != nil {
		return "", err
	}
	pending := BacktestJobResult{ID: id, Status: "pending", SubmittedAt: time.Now().UTC()}
	if uc.cache != nil {
		if b, err := json.Marshal(&pending); err == nil {
			_ = uc.cache.SetBytes(backtestKeyPref+id, b, backtestRetainFor)
		}
	}
	payload := BacktestJobPayload{ID: id, Method: p.Method, Window: p.Window, Tolerance: p.Tolerance}
	if err := uc.queue.PublishMessage(ctx, backtestMsgType, payload); err != nil {
		return "", fmt.Errorf("enqueue backtest: %w", err)
	}
	return id, nil
}

// Get returns the current state of a submitted backtest.
func (uc *BacktestUseCase) Get(ctx context.Context, id string) (*BacktestJobResult, error) {
	if uc.cache == nil {
		return nil, fmt.Errorf("backtest results unavailable")
	}
	b, ok, err := uc.cache.GetBytes(backtestKeyPref + id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("backtest %s not found", id)
	}
	var r BacktestJobResult
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func newJobID() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
