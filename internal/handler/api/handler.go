package api

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	models "AgriPull/internal/domain/models"
	"AgriPull/internal/service/ratelimit"
	"AgriPull/internal/services/recommend"
	"AgriPull/internal/usecase"
	xhttp "AgriPull/pkg/http"
	xlogger "AgriPull/pkg/logger"
)

// Handler serves the market, trend, forecast and crop endpoints.
type Handler struct {
	logger   *xlogger.Logger
	market   *usecase.MarketUseCase
	trend    *usecase.TrendUseCase
	forecast *usecase.ForecastUseCase
	crop     *usecase.CropUseCase
	limiter  *ratelimit.Limiter
}

// NewHandler builds the API handler. A nil limiter disables rate limiting.
func NewHandler(
	logger *xlogger.Logger,
	market *usecase.MarketUseCase,
	trend *usecase.TrendUseCase,
	forecast *usecase.ForecastUseCase,
	crop *usecase.CropUseCase,
	limiter *ratelimit.Limiter,
) *Handler {
	if logger == nil {
		logger = xlogger.NewNop()
	}
	return &Handler{
		logger:   logger,
		market:   market,
		trend:    trend,
		forecast: forecast,
		crop:     crop,
		limiter:  limiter,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/hello", h.Hello)

	g.GET("/market/latest", h.Latest)
	g.GET("/market/date", h.ByDate)
	g.GET("/market/month", h.ByMonth)
	g.GET("/market/vegetable", h.ByVegetable)

	g.GET("/trend", h.Trend)
	g.GET("/trend/chart", h.TrendChart)
	g.GET("/demand", h.Demand)

	limited := RateLimit(h.limiter)
	g.POST("/predict", h.Predict, limited)
	g.POST("/crop/recommend", h.RecommendCrop, limited)
	g.GET("/model", h.Model)
}

func (h *Handler) Hello(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"message": "Hello from AgriPull"})
}

// fail maps a usecase error onto the response envelope.
func (h *Handler) fail(c echo.Context, op string, err error) error {
	appErr := toAppError(err)
	if appErr.Status >= 500 {
		h.logger.Error(op+" failed", xlogger.String("code", appErr.Code), xlogger.Error(err))
	} else {
		h.logger.Debug(op+" rejected", xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, appErr)
}

func toAppError(err error) *xhttp.AppError {
	var appErr *xhttp.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, models.ErrInvalidInput):
		return xhttp.InvalidInputError("", err.Error()).WithError(err)
	case errors.Is(err, models.ErrDataUnavailable):
		return xhttp.DataUnavailableError(err.Error()).WithError(err)
	case errors.Is(err, recommend.ErrNotConfigured):
		return xhttp.DataUnavailableError("crop recommender is not configured").WithError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return xhttp.DataUnavailableError("upstream timed out").WithError(err)
	default:
		return xhttp.InternalError("internal error").WithError(err)
	}
}
