package http

import (
	"net/http"

	"harsi-trading-bot/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupHealth(base *echo.Group) {
	v1 := base.Group("/v1")
	{
		v1.GET("/health", h.Health)
	}
}

func (h *HttpAPIHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", nil))
}
