package handler

import (
	"net/http"

	"flightstats-service/pkg/apperr"

	"github.com/labstack/echo/v4"
)

const msgInternal = "An error occurred while processing your request."

// fail maps an error kind to a status. Only validation and not-found messages
// reach the caller; everything else is logged and answered generically.
func (h *Handler) fail(c echo.Context, err error) error {
	switch apperr.KindOf(err) {
	case apperr.Validation:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": apperr.MessageOf(err)})
	case apperr.NotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": apperr.MessageOf(err)})
	default:
		h.logger.Error("Request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"kind", apperr.KindOf(err).String(),
			"error", err)
		h.metrics.ErrorsCount.WithLabelValues("http").Inc()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": msgInternal})
	}
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": message})
}
