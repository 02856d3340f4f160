package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	models "AgriPull/internal/domain/models"
	"AgriPull/internal/usecase"
	xhttp "AgriPull/pkg/http"
)

func (h *Handler) Trend(c echo.Context) error {
	req := &models.TrendRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.trend.Trend(c.Request().Context(), usecase.TrendParams{
		Vegetable: req.Vegetable,
		Year:      req.Year,
		Month:     req.Month,
	})
	if err != nil {
		return h.fail(c, "trend", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *Handler) TrendChart(c echo.Context) error {
	req := &models.TrendRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	png, err := h.trend.Chart(c.Request().Context(), usecase.TrendParams{
		Vegetable: req.Vegetable,
		Year:      req.Year,
		Month:     req.Month,
	})
	if err != nil {
		return h.fail(c, "trend chart", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return c.Blob(http.StatusOK, "image/png", png)
}

func (h *Handler) Demand(c echo.Context) error {
	req := &models.DemandRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.trend.Demand(c.Request().Context(), req.Year, req.Month)
	if err != nil {
		return h.fail(c, "demand", err)
	}
	return xhttp.SuccessResponse(c, res)
}
