package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flightstats-service/internal/domain/entity"
	"flightstats-service/internal/domain/repository"
	"flightstats-service/pkg/apperr"
	"flightstats-service/pkg/logger"
	"flightstats-service/pkg/metrics"
)

// Flights serves stored flights, reference airports and live route searches.
type Flights struct {
	store    repository.Store
	tracker  *Tracker
	provider repository.PriceLookupProvider
	lease    repository.ProviderLease
	logger   logger.Logger
	metrics  *metrics.Metrics
}

// NewFlights creates a new flights usecase
func NewFlights(
	store repository.Store,
	tracker *Tracker,
	provider repository.PriceLookupProvider,
	lease repository.ProviderLease,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *Flights {
	return &Flights{
		store:    store,
		tracker:  tracker,
		provider: provider,
		lease:    lease,
		logger:   logger,
		metrics:  metrics,
	}
}

// List returns every stored flight
func (f *Flights) List(ctx context.Context) ([]*entity.Flight, error) {
	flights, err := f.store.Flights().List(ctx)
	if err != nil {
		return nil, apperr.Store("flights.List", err)
	}
	return flights, nil
}

// Get returns a single flight
func (f *Flights) Get(ctx context.Context, id int) (*entity.Flight, error) {
	return loadFlight(ctx, "flights.Get", f.store.Flights(), id)
}

// Delete removes the flight with its snapshots, then its tracking job
func (f *Flights) Delete(ctx context.Context, id int) error {
	const op = "flights.Delete"

	var flightNumber string
	err := f.store.Atomically(ctx, func(tx repository.Tx) error {
		flight, err := loadFlight(ctx, op, tx.Flights(), id)
		if err != nil {
			return err
		}
		flightNumber = flight.FlightNumber

		if err := tx.Snapshots().DeleteByFlight(ctx, flight.ID); err != nil {
			return apperr.Store(op, err)
		}
		if err := tx.Flights().Delete(ctx, flight.ID); err != nil {
			return apperr.Store(op, err)
		}
		return nil
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.Unclassified {
			return apperr.Store(op, err)
		}
		return err
	}

	f.logger.Info("Flight deleted", "flightId", id, "flightNumber", flightNumber)
	return f.tracker.Unschedule(ctx, flightNumber)
}

// Search returns every flight the provider offers on the route for date
func (f *Flights) Search(ctx context.Context, originID, destinationID int, date time.Time) ([]entity.Observation, error) {
	const op = "flights.Search"

	if err := validateRoute(op, originID, destinationID); err != nil {
		return nil, err
	}
	if date.IsZero() {
		return nil, apperr.Invalid(op, "Date is required.")
	}

	origin, destination, err := resolveAirports(ctx, op, f.store.Airports(), uint(originID), uint(destinationID))
	if err != nil {
		return nil, err
	}

	release, err := acquire(ctx, op, f.lease)
	if err != nil {
		return nil, err
	}
	defer release()

	observations, err := f.provider.FindAny(ctx, origin, destination, date)
	if err != nil {
		f.metrics.LookupsTotal.WithLabelValues("find_any", lookupError).Inc()
		return nil, apperr.Lookup(op, err)
	}
	result := lookupHit
	if len(observations) == 0 {
		result = lookupMiss
	}
	f.metrics.LookupsTotal.WithLabelValues("find_any", result).Inc()
	return observations, nil
}

// Airports returns the reference airport list
func (f *Flights) Airports(ctx context.Context) ([]*entity.Airport, error) {
	airports, err := f.store.Airports().List(ctx)
	if err != nil {
		return nil, apperr.Store("flights.Airports", err)
	}
	return airports, nil
}

// Airport returns one reference airport
func (f *Flights) Airport(ctx context.Context, id int) (*entity.Airport, error) {
	const op = "flights.Airport"
	if id <= 0 {
		return nil, apperr.Invalid(op, msgInvalidAirportID)
	}
	airport, err := f.store.Airports().GetByID(ctx, uint(id))
	if errors.Is(err, entity.ErrNotFound) {
		return nil, apperr.Missing(op, fmt.Sprintf("Airport with Id %d not found.", id))
	}
	if err != nil {
		return nil, apperr.Store(op, err)
	}
	return airport, nil
}
