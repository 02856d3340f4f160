package api

import (
	"github.com/labstack/echo/v4"

	models "AgriPull/internal/domain/models"
	xhttp "AgriPull/pkg/http"
)

func (h *Handler) Latest(c echo.Context) error {
	rows, err := h.market.Latest(c.Request().Context())
	if err != nil {
		return h.fail(c, "latest", err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *Handler) ByDate(c echo.Context) error {
	req := &models.DateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	date, ok := xhttp.ParseDate(req.Date)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.InvalidInputError("date", "date must be formatted as YYYY-MM-DD"))
	}
	rows, err := h.market.ByDate(c.Request().Context(), date)
	if err != nil {
		return h.fail(c, "market by date", err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *Handler) ByMonth(c echo.Context) error {
	req := &models.MonthRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	rows, err := h.market.ByMonth(c.Request().Context(), req.Year, req.Month)
	if err != nil {
		return h.fail(c, "market by month", err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *Handler) ByVegetable(c echo.Context) error {
	req := &models.VegetableRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	rows, err := h.market.ByVegetable(c.Request().Context(), req.Name)
	if err != nil {
		return h.fail(c, "market by vegetable", err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}
