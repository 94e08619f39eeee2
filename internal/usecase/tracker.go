package usecase

import (
	"context"
	"errors"
	"time"

	"flightstats-service/internal/domain/entity"
	"flightstats-service/internal/domain/repository"
	"flightstats-service/pkg/apperr"
	"flightstats-service/pkg/dates"
	"flightstats-service/pkg/logger"
	"flightstats-service/pkg/metrics"
)

// Attempts of the find-or-create unit before a duplicate insert is reported
const maxPersistAttempts = 3

// TrackRequest asks for a flight's price to be observed until its departure date
type TrackRequest struct {
	OriginID      int
	DestinationID int
	TargetDate    time.Time
	FlightNumber  string
	Frequency     string
}

// Tracker owns the tracking job lifecycle and the per-tick scrape.
type Tracker struct {
	store    repository.Store
	jobs     repository.TrackingJobRepository
	registry repository.JobRegistry
	provider repository.PriceLookupProvider
	lease    repository.ProviderLease
	logger   logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewTracker creates a new tracker
func NewTracker(
	store repository.Store,
	jobs repository.TrackingJobRepository,
	registry repository.JobRegistry,
	provider repository.PriceLookupProvider,
	lease repository.ProviderLease,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *Tracker {
	return &Tracker{
		store:    store,
		jobs:     jobs,
		registry: registry,
		provider: provider,
		lease:    lease,
		logger:   logger,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Schedule creates or replaces the tracking job for req.FlightNumber
func (t *Tracker) Schedule(ctx context.Context, req TrackRequest) (*entity.TrackingJob, error) {
	const op = "tracker.Schedule"

	if err := validateRoute(op, req.OriginID, req.DestinationID); err != nil {
		return nil, err
	}
	flightNumber, err := normalizeFlightNumber(op, req.FlightNumber)
	if err != nil {
		return nil, err
	}
	if err := validateFutureDate(op, req.TargetDate, t.now()); err != nil {
		return nil, err
	}
	frequency, err := entity.ParseFrequency(req.Frequency)
	if err != nil {
		return nil, apperr.Invalid(op, msgInvalidFrequency)
	}

	if _, _, err := resolveAirports(ctx, op, t.store.Airports(), uint(req.OriginID), uint(req.DestinationID)); err != nil {
		return nil, err
	}

	job := &entity.TrackingJob{
		Key:           entity.JobKey(flightNumber),
		FlightNumber:  flightNumber,
		OriginID:      uint(req.OriginID),
		DestinationID: uint(req.DestinationID),
		TargetDate:    req.TargetDate,
		Frequency:     frequency,
	}

	if err := t.registry.AddOrUpdate(job.Key, frequency.CronSpec(), t.action(job)); err != nil {
		return nil, apperr.E(apperr.Unclassified, op, "", err)
	}
	if err := t.jobs.Upsert(ctx, job); err != nil {
		t.registry.RemoveIfExists(job.Key)
		return nil, apperr.Store(op, err)
	}

	t.logger.Info("Tracking job scheduled",
		"key", job.Key,
		"frequency", frequency,
		"targetDate", job.TargetDate.Format("2006-01-02"))
	return job, nil
}

// Unschedule removes the job for flightNumber; absent jobs are not an error
func (t *Tracker) Unschedule(ctx context.Context, flightNumber string) error {
	const op = "tracker.Unschedule"

	flightNumber, err := normalizeFlightNumber(op, flightNumber)
	if err != nil {
		return err
	}

	key := entity.JobKey(flightNumber)
	t.registry.RemoveIfExists(key)
	if err := t.jobs.Delete(ctx, key); err != nil {
		return apperr.Store(op, err)
	}
	t.logger.Info("Tracking job removed", "key", key)
	return nil
}

// TrackAndStore is one tick of a tracking job. It retires the job once the
// target date is reached, otherwise looks the flight up and appends a price
// snapshot, creating the flight on first sight.
func (t *Tracker) TrackAndStore(ctx context.Context, originID, destinationID uint, targetDate time.Time, flightNumber string) error {
	const op = "tracker.TrackAndStore"
	now := t.now()
	log := t.logger.With("flightNumber", flightNumber)

	if !dates.IsAfterToday(targetDate, now) {
		log.Info("Target date reached, retiring job", "targetDate", targetDate.Format("2006-01-02"))
		if err := t.Unschedule(ctx, flightNumber); err != nil {
			return err
		}
		t.metrics.TicksTotal.WithLabelValues(metrics.OutcomeExpired).Inc()
		return nil
	}

	origin, destination, err := resolveAirports(ctx, op, t.store.Airports(), originID, destinationID)
	if apperr.Is(err, apperr.NotFound) {
		log.Warn("Airport missing, skipping tick", "originId", originID, "destinationId", destinationID)
		t.metrics.TicksTotal.WithLabelValues(metrics.OutcomeSkipped).Inc()
		return nil
	}
	if err != nil {
		return err
	}

	release, err := acquire(ctx, op, t.lease)
	if err != nil {
		return err
	}
	obs, err := findOne(ctx, op, t.provider, t.metrics, origin, destination, targetDate, flightNumber)
	release()
	if err != nil {
		return err
	}
	if obs == nil {
		log.Info("Flight not offered, skipping tick", "date", targetDate.Format("2006-01-02"))
		t.metrics.TicksTotal.WithLabelValues(metrics.OutcomeSkipped).Inc()
		return nil
	}

	if err := t.persist(ctx, op, originID, destinationID, flightNumber, obs, now); err != nil {
		return err
	}

	log.Debug("Price snapshot stored", "price", obs.Price)
	t.metrics.TicksTotal.WithLabelValues(metrics.OutcomeStored).Inc()
	return nil
}

// persist finds or creates the flight and appends the snapshot in one unit of work.
// A concurrent insert of the same flight number makes the unit fail; the retry then
// finds the winner's row.
func (t *Tracker) persist(ctx context.Context, op string, originID, destinationID uint, flightNumber string, obs *entity.Observation, fetchedAt time.Time) error {
	for attempt := 1; ; attempt++ {
		created := false
		err := t.store.Atomically(ctx, func(tx repository.Tx) error {
			flight, err := tx.Flights().FindByNumber(ctx, flightNumber)
			if errors.Is(err, entity.ErrNotFound) {
				flight = &entity.Flight{
					OriginID:      originID,
					DestinationID: destinationID,
					FlightNumber:  flightNumber,
					DepartureTime: obs.DepartureTime,
					ArrivalTime:   obs.ArrivalTime,
					CreatedAt:     fetchedAt,
				}
				if err := tx.Flights().Create(ctx, flight); err != nil {
					return err
				}
				created = true
			} else if err != nil {
				return err
			}

			return tx.Snapshots().Create(ctx, &entity.PriceSnapshot{
				FlightID:  flight.ID,
				FetchedAt: fetchedAt,
				Price:     obs.Price,
			})
		})

		if errors.Is(err, entity.ErrDuplicateFlightNumber) && attempt < maxPersistAttempts {
			t.metrics.UpsertConflicts.Inc()
			t.logger.Debug("Concurrent flight insert, retrying", "flightNumber", flightNumber, "attempt", attempt)
			continue
		}
		if err != nil {
			return apperr.Store(op, err)
		}
		if created {
			t.metrics.FlightsCreated.Inc()
			t.logger.Info("Flight discovered", "flightNumber", flightNumber)
		}
		return nil
	}
}

// Restore re-registers every persisted job. Expired jobs retire on their first tick.
func (t *Tracker) Restore(ctx context.Context) (int, error) {
	const op = "tracker.Restore"

	jobs, err := t.jobs.List(ctx)
	if err != nil {
		return 0, apperr.Store(op, err)
	}

	restored := 0
	for _, job := range jobs {
		if err := t.registry.AddOrUpdate(job.Key, job.Frequency.CronSpec(), t.action(job)); err != nil {
			t.logger.Error("Failed to restore job", "key", job.Key, "error", err)
			continue
		}
		restored++
	}

	t.logger.Info("Tracking jobs restored", "count", restored)
	return restored, nil
}

// Jobs lists persisted tracking jobs
func (t *Tracker) Jobs(ctx context.Context) ([]*entity.TrackingJob, error) {
	jobs, err := t.jobs.List(ctx)
	if err != nil {
		return nil, apperr.Store("tracker.Jobs", err)
	}
	return jobs, nil
}

func (t *Tracker) action(job *entity.TrackingJob) repository.JobAction {
	originID, destinationID := job.OriginID, job.DestinationID
	targetDate, flightNumber := job.TargetDate, job.FlightNumber
	return func(ctx context.Context) error {
		return t.TrackAndStore(ctx, originID, destinationID, targetDate, flightNumber)
	}
}
