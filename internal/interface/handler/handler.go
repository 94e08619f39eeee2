package handler

import (
	"net/http"
	"strconv"
	"time"

	"flightstats-service/internal/usecase"
	"flightstats-service/pkg/dates"
	"flightstats-service/pkg/logger"
	"flightstats-service/pkg/metrics"

	"github.com/labstack/echo/v4"
)

const msgInvalidDate = "Date must be formatted as YYYY-MM-DD or RFC3339."

// Handler serves the REST API
type Handler struct {
	tracker *usecase.Tracker
	stats   *usecase.Stats
	flights *usecase.Flights
	loc     *time.Location
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewHandler creates a handler; request dates are read in loc
func NewHandler(
	tracker *usecase.Tracker,
	stats *usecase.Stats,
	flights *usecase.Flights,
	loc *time.Location,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		tracker: tracker,
		stats:   stats,
		flights: flights,
		loc:     loc,
		logger:  logger,
		metrics: metrics,
	}
}

// ----- query DTOs -----

type scheduleQuery struct {
	OriginID      int    `query:"originId"`
	DestinationID int    `query:"destinationId"`
	Date          string `query:"date" validate:"required"`
	FlightNumber  string `query:"flightNumber"`
	Frequency     string `query:"frequency" validate:"required"`
}

type unscheduleQuery struct {
	FlightNumber string `query:"flightNumber"`
}

type searchQuery struct {
	OriginID      int    `query:"originId"`
	DestinationID int    `query:"destinationId"`
	Date          string `query:"date" validate:"required"`
}

type flexibilityQuery struct {
	OriginID      int    `query:"originId"`
	DestinationID int    `query:"destinationId"`
	Date          string `query:"date" validate:"required"`
	FlightNumber  string `query:"flightNumber"`
	Flexibility   int    `query:"flexibility"`
}

// bindQuery binds and validates query parameters, writing a 400 on failure
func bindQuery(c echo.Context, dst interface{}) (bool, error) {
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, dst); err != nil {
		return false, badRequest(c, "Query parameters are malformed.")
	}
	if err := c.Validate(dst); err != nil {
		return false, badRequest(c, validationMessage(err))
	}
	return true, nil
}

// pathID reads :id; non-numeric values become -1 so the usecase rejects them
func pathID(c echo.Context) int {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return -1
	}
	return id
}

// Health reports liveness
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// ----- airports -----

func (h *Handler) ListAirports(c echo.Context) error {
	airports, err := h.flights.Airports(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, airports)
}

func (h *Handler) GetAirport(c echo.Context) error {
	airport, err := h.flights.Airport(c.Request().Context(), pathID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, airport)
}

// ----- flights -----

func (h *Handler) ListFlights(c echo.Context) error {
	flights, err := h.flights.List(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, flights)
}

func (h *Handler) GetFlight(c echo.Context) error {
	flight, err := h.flights.Get(c.Request().Context(), pathID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, flight)
}

// DeleteFlight removes the flight, its price history and its tracking job
func (h *Handler) DeleteFlight(c echo.Context) error {
	if err := h.flights.Delete(c.Request().Context(), pathID(c)); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusOK)
}

// SearchFlights runs a live search for every flight on a route and day
func (h *Handler) SearchFlights(c echo.Context) error {
	var q searchQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	date, err := dates.Parse(q.Date, h.loc)
	if err != nil {
		return badRequest(c, msgInvalidDate)
	}

	observations, err := h.flights.Search(c.Request().Context(), q.OriginID, q.DestinationID, date)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, observations)
}

// ----- jobs -----

// ScheduleJob creates or replaces the tracking job for a flight
func (h *Handler) ScheduleJob(c echo.Context) error {
	var q scheduleQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	date, err := dates.Parse(q.Date, h.loc)
	if err != nil {
		return badRequest(c, msgInvalidDate)
	}

	job, err := h.tracker.Schedule(c.Request().Context(), usecase.TrackRequest{
		OriginID:      q.OriginID,
		DestinationID: q.DestinationID,
		TargetDate:    date,
		FlightNumber:  q.FlightNumber,
		Frequency:     q.Frequency,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, job)
}

func (h *Handler) UnscheduleJob(c echo.Context) error {
	var q unscheduleQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	if err := h.tracker.Unschedule(c.Request().Context(), q.FlightNumber); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *Handler) ListJobs(c echo.Context) error {
	jobs, err := h.tracker.Jobs(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, jobs)
}

// ----- stats -----

func (h *Handler) WeekdayStats(c echo.Context) error {
	out, err := h.stats.ByWeekday(c.Request().Context(), pathID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) ExtremeStats(c echo.Context) error {
	out, err := h.stats.Extremes(c.Request().Context(), pathID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) DateStats(c echo.Context) error {
	out, err := h.stats.ByCalendarDate(c.Request().Context(), pathID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// FlexibilityStats prices the flight on each date around the requested one
func (h *Handler) FlexibilityStats(c echo.Context) error {
	var q flexibilityQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	date, err := dates.Parse(q.Date, h.loc)
	if err != nil {
		return badRequest(c, msgInvalidDate)
	}

	out, err := h.stats.FlexibilityScan(c.Request().Context(), usecase.FlexibilityRequest{
		OriginID:      q.OriginID,
		DestinationID: q.DestinationID,
		Date:          date,
		FlightNumber:  q.FlightNumber,
		Flexibility:   q.Flexibility,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
