package lookup

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"flightstats-service/internal/domain/entity"
)

// StubProvider answers lookups without a network. Prices derive from a hash of
// route, day and flight number unless a fixed price was registered. It is used
// in dev mode and by tests.
type StubProvider struct {
	mu       sync.Mutex
	flights  []string
	fixed    map[string]int
	missing  map[string]bool
	failWith error
	calls    atomic.Int64
}

// NewStubProvider offers the given flight numbers on every route and day.
func NewStubProvider(flightNumbers ...string) *StubProvider {
	return &StubProvider{
		flights: flightNumbers,
		fixed:   make(map[string]int),
		missing: make(map[string]bool),
	}
}

func stubKey(flightNumber string, date time.Time) string {
	return flightNumber + "@" + date.Format("2006-01-02")
}

// SetPrice pins the price of flightNumber on date.
func (s *StubProvider) SetPrice(flightNumber string, date time.Time, price int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixed[stubKey(flightNumber, date)] = price
}

// Hide makes flightNumber absent on date.
func (s *StubProvider) Hide(flightNumber string, date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.missing[stubKey(flightNumber, date)] = true
}

// FailWith makes every subsequent call return err; nil restores normal answers.
func (s *StubProvider) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

// Calls returns the number of lookups served so far.
func (s *StubProvider) Calls() int {
	return int(s.calls.Load())
}

func (s *StubProvider) FindAny(ctx context.Context, origin, destination *entity.Airport, date time.Time) ([]entity.Observation, error) {
	s.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}

	var out []entity.Observation
	for _, number := range s.flights {
		key := stubKey(number, date)
		if s.missing[key] {
			continue
		}
		price, ok := s.fixed[key]
		if !ok {
			price = hashedPrice(origin.Code() + destination.Code() + key)
		}
		departure := time.Date(date.Year(), date.Month(), date.Day(), 9, 0, 0, 0, date.Location())
		out = append(out, entity.Observation{
			FlightNumber:  number,
			Origin:        entity.AirportRef{Code: origin.Code(), Name: origin.Name},
			Destination:   entity.AirportRef{Code: destination.Code(), Name: destination.Name},
			DepartureTime: departure,
			ArrivalTime:   departure.Add(3 * time.Hour),
			Price:         price,
		})
	}
	return out, nil
}

func (s *StubProvider) FindOne(ctx context.Context, origin, destination *entity.Airport, date time.Time, flightNumber string) (*entity.Observation, error) {
	all, err := s.FindAny(ctx, origin, destination, date)
	if err != nil {
		return nil, err
	}
	return pick(all, flightNumber), nil
}

// hashedPrice maps seed into 50..549
func hashedPrice(seed string) int {
	h := fnv.New32a()
	h.Write([]byte(seed))
	return 50 + int(h.Sum32()%500)
}
