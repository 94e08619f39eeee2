package usecase

import (
	"context"
	"time"

	"flightstats-service/internal/domain/entity"
	"flightstats-service/internal/domain/repository"
	"flightstats-service/pkg/apperr"
	"flightstats-service/pkg/dates"
	"flightstats-service/pkg/logger"
	"flightstats-service/pkg/metrics"
)

// FlexibilityRequest asks for prices of a flight around a base date
type FlexibilityRequest struct {
	OriginID      int
	DestinationID int
	Date          time.Time
	FlightNumber  string
	Flexibility   int
}

// Stats aggregates stored price snapshots and runs live flexibility scans.
type Stats struct {
	store    repository.Store
	provider repository.PriceLookupProvider
	lease    repository.ProviderLease
	loc      *time.Location
	logger   logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewStats creates a new stats usecase. Weekdays and calendar dates are read in loc.
func NewStats(
	store repository.Store,
	provider repository.PriceLookupProvider,
	lease repository.ProviderLease,
	loc *time.Location,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *Stats {
	if loc == nil {
		loc = time.UTC
	}
	return &Stats{
		store:    store,
		provider: provider,
		lease:    lease,
		loc:      loc,
		logger:   logger,
		metrics:  metrics,
		now:      time.Now,
	}
}

func (s *Stats) snapshots(ctx context.Context, op string, flightID int) ([]*entity.PriceSnapshot, error) {
	flight, err := loadFlight(ctx, op, s.store.Flights(), flightID)
	if err != nil {
		return nil, err
	}
	snaps, err := s.store.Snapshots().ListByFlight(ctx, flight.ID)
	if err != nil {
		return nil, apperr.Store(op, err)
	}
	return snaps, nil
}

// ByWeekday returns one entry per weekday, Sunday first. Day is the most recent
// date on or before today with that weekday; weekdays without data are all zero.
func (s *Stats) ByWeekday(ctx context.Context, flightID int) ([]entity.DayPrice, error) {
	snaps, err := s.snapshots(ctx, "stats.ByWeekday", flightID)
	if err != nil {
		return nil, err
	}

	var buckets [7][]int
	for _, sn := range snaps {
		wd := sn.FetchedAt.In(s.loc).Weekday()
		buckets[wd] = append(buckets[wd], sn.Price)
	}

	today := s.now().In(s.loc)
	out := make([]entity.DayPrice, 0, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		dp := summarize(buckets[wd])
		dp.Day = dates.WeekdayAnchor(today, wd)
		out = append(out, dp)
	}
	return out, nil
}

// Extremes returns the cheapest then the most expensive snapshot. Ties keep the
// earliest stored snapshot. A flight without snapshots yields two zero entries.
func (s *Stats) Extremes(ctx context.Context, flightID int) ([]entity.DayPrice, error) {
	snaps, err := s.snapshots(ctx, "stats.Extremes", flightID)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return []entity.DayPrice{{}, {}}, nil
	}

	lo, hi := snaps[0], snaps[0]
	for _, sn := range snaps[1:] {
		if sn.Price < lo.Price {
			lo = sn
		}
		if sn.Price > hi.Price {
			hi = sn
		}
	}

	return []entity.DayPrice{
		{Day: s.day(lo.FetchedAt), Avg: float64(lo.Price)},
		{Day: s.day(hi.FetchedAt), Avg: float64(hi.Price)},
	}, nil
}

// ByCalendarDate returns one entry per distinct fetch date in first-seen order.
func (s *Stats) ByCalendarDate(ctx context.Context, flightID int) ([]entity.DayPrice, error) {
	snaps, err := s.snapshots(ctx, "stats.ByCalendarDate", flightID)
	if err != nil {
		return nil, err
	}

	var order []time.Time
	groups := make(map[string][]int)
	for _, sn := range snaps {
		day := s.day(sn.FetchedAt)
		key := day.Format("2006-01-02")
		if _, seen := groups[key]; !seen {
			order = append(order, day)
		}
		groups[key] = append(groups[key], sn.Price)
	}

	out := make([]entity.DayPrice, 0, len(order))
	for _, day := range order {
		dp := summarize(groups[day.Format("2006-01-02")])
		dp.Day = day
		out = append(out, dp)
	}
	return out, nil
}

// FlexibilityScan looks the flight up on every date within req.Flexibility days
// of req.Date, ascending, skipping dates that are not in the future. Dates where
// the flight is not offered report a zero price.
func (s *Stats) FlexibilityScan(ctx context.Context, req FlexibilityRequest) ([]entity.DayPrice, error) {
	const op = "stats.FlexibilityScan"
	now := s.now()

	if err := validateRoute(op, req.OriginID, req.DestinationID); err != nil {
		return nil, err
	}
	flightNumber, err := normalizeFlightNumber(op, req.FlightNumber)
	if err != nil {
		return nil, err
	}
	if req.Flexibility < minFlexibility || req.Flexibility > maxFlexibility {
		return nil, apperr.Invalid(op, msgInvalidFlexibility)
	}
	if err := validateFutureDate(op, req.Date, now); err != nil {
		return nil, err
	}

	origin, destination, err := resolveAirports(ctx, op, s.store.Airports(), uint(req.OriginID), uint(req.DestinationID))
	if err != nil {
		return nil, err
	}

	release, err := acquire(ctx, op, s.lease)
	if err != nil {
		return nil, err
	}
	defer release()

	out := make([]entity.DayPrice, 0, 2*req.Flexibility+1)
	for offset := -req.Flexibility; offset <= req.Flexibility; offset++ {
		date := dates.AddDays(req.Date, offset)
		if !date.After(now) {
			continue
		}

		obs, err := findOne(ctx, op, s.provider, s.metrics, origin, destination, date, flightNumber)
		if err != nil {
			s.logger.Error("Flexibility scan lookup failed",
				"flightNumber", flightNumber,
				"date", date.Format("2006-01-02"),
				"error", err)
			return nil, err
		}

		dp := entity.DayPrice{Day: date}
		if obs != nil {
			dp.Avg = float64(obs.Price)
		}
		out = append(out, dp)
	}
	return out, nil
}

// day is the calendar date of t in the stats location
func (s *Stats) day(t time.Time) time.Time {
	return dates.Day(t.In(s.loc))
}

// summarize computes min, mean and max of prices; empty input is all zero
func summarize(prices []int) entity.DayPrice {
	if len(prices) == 0 {
		return entity.DayPrice{}
	}
	lo, hi, sum := prices[0], prices[0], 0
	for _, p := range prices {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
		sum += p
	}
	return entity.DayPrice{
		Min: float64(lo),
		Avg: float64(sum) / float64(len(prices)),
		Max: float64(hi),
	}
}
