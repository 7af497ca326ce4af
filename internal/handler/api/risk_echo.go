package api

import (
	"time"

	models "RiskLens/internal/domain/models"
	"RiskLens/internal/service/metrics"
	"RiskLens/internal/service/ratelimit"
	"RiskLens/internal/usecase"
	xhttp "RiskLens/pkg/http"
	xlogger "RiskLens/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RiskEchoHandler implements Echo-based HTTP handlers following Clean Architecture.
type RiskEchoHandler struct {
	logger   *xlogger.Logger
	agg      *usecase.RiskAggregator
	report   *usecase.RiskReportUseCase
	backtest *usecase.BacktestUseCase
	rl       *ratelimit.Limiter
}

func NewRiskEchoHandler(logger *xlogger.Logger, agg *usecase.RiskAggregator, report *usecase.RiskReportUseCase, backtest *usecase.BacktestUseCase) *RiskEchoHandler {
	metrics.Register()
	return &RiskEchoHandler{logger: logger, agg: agg, report: report, backtest: backtest, rl: ratelimit.New()}
}

func (h *RiskEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/report", h.Report)
	g.GET("/var", h.VaR)
	g.GET("/moments", h.Moments)
	g.GET("/projection", h.Projection)
	g.GET("/decomposition", h.Decomposition)
	g.GET("/crisis", h.Crisis)
	g.POST("/backtest", h.SubmitBacktest)
	g.GET("/backtest", h.RunBacktest)
	g.GET("/backtest/:id", h.GetBacktest)
}

func (h *RiskEchoHandler) Report(c echo.Context) error {
	req := &models.ReportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.report.GetReport(c.Request().Context(), usecase.GetReportParams{
		Confidence: req.Confidence,
		Lookback:   req.Lookback,
		Refresh:    req.Refresh,
	})
	if err != nil {
		metrics.RiskErrors.WithLabelValues("report").Inc()
		h.logger.Error("report usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *RiskEchoHandler) VaR(c echo.Context) error {
	req := &models.VaRRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ctx := c.Request().Context()
	if req.Method == "all" {
		res, err := h.agg.AllVaR(ctx, req.Confidence, req.Lookback)
		if err != nil {
			metrics.RiskErrors.WithLabelValues("var").Inc()
			h.logger.Error("var usecase error", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
		return xhttp.SuccessResponse(c, res)
	}
	res, err := h.agg.VaR(ctx, models.NormalizeVaRMethod(req.Method), req.Confidence, req.Lookback)
	if err != nil {
		metrics.RiskErrors.WithLabelValues("var").Inc()
		h.logger.Error("var usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *RiskEchoHandler) Moments(c echo.Context) error {
	req := &models.MomentsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.agg.Moments(c.Request().Context(), req.Lookback)
	if err != nil {
		metrics.RiskErrors.WithLabelValues("moments").Inc()
		h.logger.Error("moments usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *RiskEchoHandler) Projection(c echo.Context) error {
	// simulations are the most expensive endpoint; throttle per client
	if !h.rl.Allow(c.RealIP()+":projection", 3, 1) {
		h.logger.Warn("projection rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.TooManyRequestsResponse(c, "rate limited")
	}

	req := &models.ProjectionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.agg.Projection(c.Request().Context(), req.Horizon, req.Paths, req.Lookback)
	if err != nil {
		metrics.RiskErrors.WithLabelValues("projection").Inc()
		h.logger.Error("projection usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *RiskEchoHandler) Decomposition(c echo.Context) error {
	req := &models.DecompositionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.agg.Decomposition(c.Request().Context(), req.Lookback)
	if err != nil {
		metrics.RiskErrors.WithLabelValues("decomposition").Inc()
		h.logger.Error("decomposition usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *RiskEchoHandler) Crisis(c echo.Context) error {
	req := &models.CrisisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	// ad-hoc window takes precedence over the configured set
	if fromRaw := c.QueryParam("from"); fromRaw != "" {
		from, ok := xhttp.ParseTime(fromRaw)
		if !ok {
			return xhttp.BadRequestResponse(c, "invalid 'from' timestamp")
		}
		to := xhttp.ParseTimeDefault(c.QueryParam("to"), time.Now().UTC())
		// bars are daily, so snap the window to day boundaries
		from, to = xhttp.AlignFromTo(from, to, "1d")
		rep, err := h.agg.CrisisWindow(c.Request().Context(), req.Name, from, to)
		if err != nil {
			metrics.RiskErrors.WithLabelValues("crisis").Inc()
			h.logger.Error("crisis usecase error", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
		return xhttp.SuccessResponse(c, []models.CrisisReport{rep})
	}

	res, err := h.agg.Crises(c.Request().Context(), req.Name)
	if err != nil {
		metrics.RiskErrors.WithLabelValues("crisis").Inc()
		h.logger.Error("crisis usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *RiskEchoHandler) SubmitBacktest(c echo.Context) error {
	req := &models.BacktestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	id, err := h.backtest.Submit(c.Request().Context(), usecase.SubmitBacktestParams{
		Method:    req.Method,
		Window:    req.Window,
		Tolerance: req.Tolerance,
	})
	if err != nil {
		metrics.RiskErrors.WithLabelValues("backtest_submit").Inc()
		h.logger.Error("backtest submit error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, map[string]string{"id": id, "status": "pending"})
}

// RunBacktest executes a backtest synchronously. Long histories belong on
// the async queue; the request validator bounds the window accordingly.
func (h *RiskEchoHandler) RunBacktest(c echo.Context) error {
	if !h.rl.Allow(c.RealIP()+":backtest", 2, 0.5) {
		h.logger.Warn("backtest rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.TooManyRequestsResponse(c, "rate limited")
	}

	req := &models.BacktestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	summary, records, err := h.agg.Backtest(c.Request().Context(), models.NormalizeVaRMethod(req.Method), req.Window, req.Tolerance)
	if err != nil {
		metrics.RiskErrors.WithLabelValues("backtest_run").Inc()
		h.logger.Error("backtest usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"summary": summary,
		"records": records,
	})
}

func (h *RiskEchoHandler) GetBacktest(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return xhttp.BadRequestResponse(c, "id required")
	}
	res, err := h.backtest.Get(c.Request().Context(), id)
	if err != nil {
		h.logger.Warn("backtest lookup failed", xlogger.String("id", id), xlogger.Error(err))
		return xhttp.NotFoundResponse(c, map[string]string{"id": id, "error": err.Error()})
	}
	return xhttp.SuccessResponse(c, res)
}
