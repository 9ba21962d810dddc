package http

import (
	"net/http"
	"strconv"

	"harsi-trading-bot/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupReports(base *echo.Group) {
	v1 := base.Group("/v1/reports")
	{
		v1.GET("/:user_id", h.Report)
	}
}

// Report returns the win/loss summary of a user's closed orders.
func (h *HttpAPIHandler) Report(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid user id"))
	}

	summary, err := h.service.ReportService.Summary(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", summary))
}
