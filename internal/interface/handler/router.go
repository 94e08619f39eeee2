package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the echo instance with every API route registered.
// gatherer backs /metrics.
func NewRouter(h *Handler, gatherer prometheus.Gatherer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			h.logger.Debug("HTTP request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency)
			return nil
		},
	}))

	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := e.Group("/api")

	api.GET("/airports", h.ListAirports)
	api.GET("/airports/:id", h.GetAirport)

	api.GET("/flights", h.ListFlights)
	api.GET("/flights/search", h.SearchFlights)
	api.GET("/flights/:id", h.GetFlight)
	api.DELETE("/flights/:id", h.DeleteFlight)

	api.GET("/jobs", h.ListJobs)
	api.POST("/jobs", h.ScheduleJob)
	api.DELETE("/jobs", h.UnscheduleJob)

	api.GET("/stats/flexibility", h.FlexibilityStats)
	api.GET("/stats/:id/weekdays", h.WeekdayStats)
	api.GET("/stats/:id/extremes", h.ExtremeStats)
	api.GET("/stats/:id/dates", h.DateStats)

	return e
}
