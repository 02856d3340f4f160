package api

import (
	"github.com/labstack/echo/v4"

	models "AgriPull/internal/domain/models"
	"AgriPull/internal/usecase"
	xhttp "AgriPull/pkg/http"
)

func (h *Handler) Predict(c echo.Context) error {
	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	date, ok := xhttp.ParseDate(req.Date)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.InvalidInputError("date", "date must be formatted as YYYY-MM-DD"))
	}
	res, err := h.forecast.Predict(c.Request().Context(), usecase.PredictParams{
		Date:       date,
		Vegetables: req.Vegetables,
	})
	if err != nil {
		return h.fail(c, "predict", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *Handler) Model(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.forecast.Status())
}

func (h *Handler) RecommendCrop(c echo.Context) error {
	req := &models.CropRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.crop.Recommend(c.Request().Context(), req.Features())
	if err != nil {
		return h.fail(c, "crop recommend", err)
	}
	return xhttp.SuccessResponse(c, res)
}
