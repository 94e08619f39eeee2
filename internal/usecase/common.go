package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"flightstats-service/internal/domain/entity"
	"flightstats-service/internal/domain/repository"
	"flightstats-service/pkg/apperr"
	"flightstats-service/pkg/dates"
	"flightstats-service/pkg/metrics"
)

// Caller-facing validation messages
const (
	msgInvalidRoute       = "Origin and destination Ids must be positive integers."
	msgEmptyFlightNumber  = "Flight number cannot be empty."
	msgPastDate           = "Flight can't be today or in the past"
	msgInvalidFlexibility = "Flexibility must be between 1 and 5"
	msgInvalidFlightID    = "Flight Id must be a positive integer."
	msgInvalidAirportID   = "Airport Id must be a positive integer."
	msgInvalidFrequency   = "Frequency must be one of minute, hour, day, week, month."
	msgAirportNotFound    = "Origin or destination airport not found in the database."
)

const (
	minFlexibility = 1
	maxFlexibility = 5
)

// Lookup results for the lookups_total metric
const (
	lookupHit   = "hit"
	lookupMiss  = "miss"
	lookupError = "error"
)

func validateRoute(op string, originID, destinationID int) error {
	if originID <= 0 || destinationID <= 0 {
		return apperr.Invalid(op, msgInvalidRoute)
	}
	return nil
}

func normalizeFlightNumber(op, flightNumber string) (string, error) {
	flightNumber = strings.TrimSpace(flightNumber)
	if flightNumber == "" {
		return "", apperr.Invalid(op, msgEmptyFlightNumber)
	}
	return flightNumber, nil
}

func validateFutureDate(op string, date, now time.Time) error {
	if date.IsZero() || !dates.IsAfterToday(date, now) {
		return apperr.Invalid(op, msgPastDate)
	}
	return nil
}

// resolveAirports loads both ends of a route
func resolveAirports(ctx context.Context, op string, airports repository.AirportRepository, originID, destinationID uint) (*entity.Airport, *entity.Airport, error) {
	origin, err := airports.GetByID(ctx, originID)
	if err != nil {
		return nil, nil, airportError(op, err)
	}
	destination, err := airports.GetByID(ctx, destinationID)
	if err != nil {
		return nil, nil, airportError(op, err)
	}
	return origin, destination, nil
}

func airportError(op string, err error) error {
	if errors.Is(err, entity.ErrNotFound) {
		return apperr.Missing(op, msgAirportNotFound)
	}
	return apperr.Store(op, err)
}

// loadFlight resolves a caller-supplied flight id
func loadFlight(ctx context.Context, op string, flights repository.FlightRepository, id int) (*entity.Flight, error) {
	if id <= 0 {
		return nil, apperr.Invalid(op, msgInvalidFlightID)
	}
	flight, err := flights.GetByID(ctx, uint(id))
	if errors.Is(err, entity.ErrNotFound) {
		return nil, apperr.Missing(op, fmt.Sprintf("Flight with Id %d not found.", id))
	}
	if err != nil {
		return nil, apperr.Store(op, err)
	}
	return flight, nil
}

// findOne performs a single FindOne and records its result. The caller holds the lease.
func findOne(ctx context.Context, op string, provider repository.PriceLookupProvider, m *metrics.Metrics,
	origin, destination *entity.Airport, date time.Time, flightNumber string) (*entity.Observation, error) {
	obs, err := provider.FindOne(ctx, origin, destination, date, flightNumber)
	switch {
	case err != nil:
		m.LookupsTotal.WithLabelValues("find_one", lookupError).Inc()
		return nil, apperr.Lookup(op, err)
	case obs == nil:
		m.LookupsTotal.WithLabelValues("find_one", lookupMiss).Inc()
	default:
		m.LookupsTotal.WithLabelValues("find_one", lookupHit).Inc()
	}
	return obs, nil
}

func acquire(ctx context.Context, op string, lease repository.ProviderLease) (func(), error) {
	release, err := lease.Acquire(ctx)
	if err != nil {
		return nil, apperr.Lookup(op, fmt.Errorf("acquire provider lease: %w", err))
	}
	return release, nil
}
