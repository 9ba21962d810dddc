package http

import (
	"fmt"
	"net/http"

	"harsi-trading-bot/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupSurveys(base *echo.Group) {
	v1 := base.Group("/v1/surveys")
	{
		v1.POST("", h.RecordSurvey)
		v1.GET("/:symbol", h.LatestSurvey)
	}
}

// RecordSurvey stores a HARSI survey sent directly over REST, bypassing the
// Telegram flow.
func (h *HttpAPIHandler) RecordSurvey(c echo.Context) error {
	var req dto.RecordSurveyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	symbol, ok := dto.ParseSymbol(req.Symbol)
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(fmt.Sprintf("unknown symbol %q", req.Symbol)))
	}

	readings := make(map[dto.Timeframe]dto.HarsiReading, len(req.Readings))
	for rawTf, rawReading := range req.Readings {
		tf, ok := dto.ParseTimeframe(rawTf)
		if !ok {
			return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(fmt.Sprintf("unknown timeframe %q", rawTf)))
		}
		reading, ok := dto.ParseHarsiReading(rawReading)
		if !ok {
			return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(fmt.Sprintf("unknown reading %q", rawReading)))
		}
		readings[tf] = reading
	}

	survey, err := h.service.SurveyService.Record(c.Request().Context(), symbol, readings)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("survey recorded", survey))
}

// LatestSurvey returns the most recent survey for a symbol.
func (h *HttpAPIHandler) LatestSurvey(c echo.Context) error {
	symbol, ok := dto.ParseSymbol(c.Param("symbol"))
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(fmt.Sprintf("unknown symbol %q", c.Param("symbol"))))
	}

	survey, err := h.service.SurveyService.Latest(c.Request().Context(), symbol)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}
	if survey == nil {
		return c.JSON(http.StatusNotFound, dto.NewBaseResponse(http.StatusNotFound, "no survey recorded", nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", survey))
}
