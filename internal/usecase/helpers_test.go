package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"flightstats-service/internal/domain/entity"
	"flightstats-service/internal/domain/repository"
	"flightstats-service/internal/infrastructure/lease"
	"flightstats-service/internal/infrastructure/scheduler"
	"flightstats-service/internal/interface/lookup"
	memrepo "flightstats-service/internal/interface/repository"
	"flightstats-service/pkg/logger"
	"flightstats-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// Friday
var testNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type harness struct {
	store    *spyStore
	mem      *memrepo.MemoryStore
	jobs     *memrepo.MemoryTrackingJobRepository
	registry *scheduler.MemoryRegistry
	provider *lookup.StubProvider
	metrics  *metrics.Metrics
	tracker  *Tracker
	stats    *Stats
	flights  *Flights
}

func newHarness(t *testing.T, offered ...string) *harness {
	t.Helper()

	mem := memrepo.NewMemoryStore()
	mem.SeedAirports(
		&entity.Airport{ID: 1, Name: "Heathrow", IATA: "LHR"},
		&entity.Airport{ID: 2, Name: "John F Kennedy", IATA: "JFK"},
	)
	h := &harness{
		store:    &spyStore{MemoryStore: mem},
		mem:      mem,
		jobs:     memrepo.NewMemoryTrackingJobRepository(),
		registry: scheduler.NewMemoryRegistry(),
		provider: lookup.NewStubProvider(offered...),
		metrics:  metrics.NewMetrics("test", prometheus.NewRegistry()),
	}
	h.build(h.store)
	return h
}

// build wires the usecases against store
func (h *harness) build(store repository.Store) {
	log := logger.NewNopLogger()
	l := lease.NewLocalLease()

	h.tracker = NewTracker(store, h.jobs, h.registry, h.provider, l, log, h.metrics)
	h.tracker.now = func() time.Time { return testNow }
	h.stats = NewStats(store, h.provider, l, time.UTC, log, h.metrics)
	h.stats.now = func() time.Time { return testNow }
	h.flights = NewFlights(store, h.tracker, h.provider, l, log, h.metrics)
}

// seedFlight stores a flight with snapshots at the given fetch times and prices
func (h *harness) seedFlight(t *testing.T, number string, snaps ...entity.PriceSnapshot) *entity.Flight {
	t.Helper()
	ctx := context.Background()

	f := &entity.Flight{OriginID: 1, DestinationID: 2, FlightNumber: number}
	require.NoError(t, h.mem.Flights().Create(ctx, f))
	for _, sn := range snaps {
		sn.FlightID = f.ID
		require.NoError(t, h.mem.Snapshots().Create(ctx, &sn))
	}
	return f
}

func snap(at time.Time, price int) entity.PriceSnapshot {
	return entity.PriceSnapshot{FetchedAt: at, Price: price}
}

// spyStore counts how often the usecases touch the store
type spyStore struct {
	*memrepo.MemoryStore
	mu    sync.Mutex
	calls int
}

func (s *spyStore) touch() {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
}

func (s *spyStore) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *spyStore) Airports() repository.AirportRepository {
	s.touch()
	return s.MemoryStore.Airports()
}

func (s *spyStore) Flights() repository.FlightRepository {
	s.touch()
	return s.MemoryStore.Flights()
}

func (s *spyStore) Snapshots() repository.PriceSnapshotRepository {
	s.touch()
	return s.MemoryStore.Snapshots()
}

func (s *spyStore) Atomically(ctx context.Context, fn func(tx repository.Tx) error) error {
	s.touch()
	return s.MemoryStore.Atomically(ctx, fn)
}

// barrier holds the first n arrivals until all n have arrived
type barrier struct {
	mu      sync.Mutex
	n       int
	arrived int
	release chan struct{}
}

func newBarrier(n int) *barrier {
	return &barrier{n: n, release: make(chan struct{})}
}

func (b *barrier) wait() {
	b.mu.Lock()
	b.arrived++
	arrived := b.arrived
	if arrived == b.n {
		close(b.release)
	}
	b.mu.Unlock()
	if arrived <= b.n {
		<-b.release
	}
}

// barrierStore makes concurrent units of work all observe a flight as absent
// before any of them inserts it
type barrierStore struct {
	*memrepo.MemoryStore
	b *barrier
}

func (s *barrierStore) Atomically(ctx context.Context, fn func(tx repository.Tx) error) error {
	return s.MemoryStore.Atomically(ctx, func(tx repository.Tx) error {
		return fn(barrierTx{Tx: tx, b: s.b})
	})
}

type barrierTx struct {
	repository.Tx
	b *barrier
}

func (t barrierTx) Flights() repository.FlightRepository {
	return barrierFlights{FlightRepository: t.Tx.Flights(), b: t.b}
}

type barrierFlights struct {
	repository.FlightRepository
	b *barrier
}

func (f barrierFlights) FindByNumber(ctx context.Context, flightNumber string) (*entity.Flight, error) {
	flight, err := f.FlightRepository.FindByNumber(ctx, flightNumber)
	f.b.wait()
	return flight, err
}
