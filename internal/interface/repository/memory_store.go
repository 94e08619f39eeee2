package repository

import (
	"context"
	"sort"
	"sync"

	"flightstats-service/internal/domain/entity"
	"flightstats-service/internal/domain/repository"
)

// MemoryStore is an in-process repository.Store used by tests and the dev server.
// Writes inside Atomically are buffered and applied on commit; the flight number
// uniqueness check runs again at commit time, so two units of work that both saw a
// number as absent cannot both insert it.
type MemoryStore struct {
	mu         sync.RWMutex
	airports   map[uint]*entity.Airport
	flights    []*entity.Flight
	snapshots  []*entity.PriceSnapshot
	nextID     uint
	commitHook func() error
}

// NewMemoryStore creates an empty memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		airports: make(map[uint]*entity.Airport),
	}
}

// SeedAirports loads reference data
func (s *MemoryStore) SeedAirports(airports ...*entity.Airport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range airports {
		cp := *a
		s.airports[a.ID] = &cp
	}
}

// SetCommitHook installs fn to run before each commit; a non-nil error aborts it
func (s *MemoryStore) SetCommitHook(fn func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitHook = fn
}

func (s *MemoryStore) Airports() repository.AirportRepository {
	return &memAirports{store: s}
}

func (s *MemoryStore) Flights() repository.FlightRepository {
	return &memFlights{store: s}
}

func (s *MemoryStore) Snapshots() repository.PriceSnapshotRepository {
	return &memSnapshots{store: s}
}

// Atomically buffers fn's writes and commits them together
func (s *MemoryStore) Atomically(ctx context.Context, fn func(tx repository.Tx) error) error {
	tx := s.begin()
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.commit(tx)
}

func (s *MemoryStore) begin() *memTx {
	return &memTx{
		store:            s,
		deletedFlights:   make(map[uint]bool),
		deletedSnapshots: make(map[uint]bool),
	}
}

func (s *MemoryStore) allocID() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return s.nextID
}

func (s *MemoryStore) commit(tx *memTx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.commitHook != nil {
		if err := s.commitHook(); err != nil {
			return err
		}
	}

	for _, f := range tx.flights {
		for _, existing := range s.flights {
			if existing.FlightNumber == f.FlightNumber && !tx.deletedFlights[existing.ID] {
				return entity.ErrDuplicateFlightNumber
			}
		}
	}

	if len(tx.deletedFlights) > 0 {
		kept := s.flights[:0]
		for _, f := range s.flights {
			if !tx.deletedFlights[f.ID] {
				kept = append(kept, f)
			}
		}
		s.flights = kept
	}
	if len(tx.deletedSnapshots) > 0 {
		kept := s.snapshots[:0]
		for _, sn := range s.snapshots {
			if !tx.deletedSnapshots[sn.FlightID] {
				kept = append(kept, sn)
			}
		}
		s.snapshots = kept
	}

	s.flights = append(s.flights, tx.flights...)
	s.snapshots = append(s.snapshots, tx.snapshots...)
	sort.SliceStable(s.snapshots, func(i, j int) bool { return s.snapshots[i].ID < s.snapshots[j].ID })
	return nil
}

type memTx struct {
	store            *MemoryStore
	flights          []*entity.Flight
	snapshots        []*entity.PriceSnapshot
	deletedFlights   map[uint]bool
	deletedSnapshots map[uint]bool // keyed by flight id
}

func (t *memTx) Flights() repository.FlightRepository {
	return &memFlights{store: t.store, tx: t}
}

func (t *memTx) Snapshots() repository.PriceSnapshotRepository {
	return &memSnapshots{store: t.store, tx: t}
}

// visibleFlights returns committed rows not deleted in tx, then tx's own inserts
func (t *memTx) visibleFlights() []*entity.Flight {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	out := make([]*entity.Flight, 0, len(t.store.flights)+len(t.flights))
	for _, f := range t.store.flights {
		if !t.deletedFlights[f.ID] {
			out = append(out, f)
		}
	}
	return append(out, t.flights...)
}

func (t *memTx) visibleSnapshots() []*entity.PriceSnapshot {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	out := make([]*entity.PriceSnapshot, 0, len(t.store.snapshots)+len(t.snapshots))
	for _, sn := range t.store.snapshots {
		if !t.deletedSnapshots[sn.FlightID] {
			out = append(out, sn)
		}
	}
	return append(out, t.snapshots...)
}

type memAirports struct {
	store *MemoryStore
}

func (r *memAirports) GetByID(ctx context.Context, id uint) (*entity.Airport, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	a, ok := r.store.airports[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memAirports) List(ctx context.Context) ([]*entity.Airport, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*entity.Airport, 0, len(r.store.airports))
	for _, a := range r.store.airports {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// memFlights works inside tx, or in autocommit mode when tx is nil
type memFlights struct {
	store *MemoryStore
	tx    *memTx
}

func (r *memFlights) view() *memTx {
	if r.tx != nil {
		return r.tx
	}
	return r.store.begin()
}

func (r *memFlights) GetByID(ctx context.Context, id uint) (*entity.Flight, error) {
	for _, f := range r.view().visibleFlights() {
		if f.ID == id {
			cp := *f
			return &cp, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (r *memFlights) FindByNumber(ctx context.Context, flightNumber string) (*entity.Flight, error) {
	for _, f := range r.view().visibleFlights() {
		if f.FlightNumber == flightNumber {
			cp := *f
			return &cp, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (r *memFlights) List(ctx context.Context) ([]*entity.Flight, error) {
	visible := r.view().visibleFlights()
	out := make([]*entity.Flight, 0, len(visible))
	for _, f := range visible {
		cp := *f
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memFlights) Create(ctx context.Context, flight *entity.Flight) error {
	tx := r.view()
	for _, f := range tx.visibleFlights() {
		if f.FlightNumber == flight.FlightNumber {
			return entity.ErrDuplicateFlightNumber
		}
	}
	flight.ID = r.store.allocID()
	cp := *flight
	tx.flights = append(tx.flights, &cp)
	if r.tx == nil {
		return r.store.commit(tx)
	}
	return nil
}

func (r *memFlights) Delete(ctx context.Context, id uint) error {
	tx := r.view()
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	tx.deletedFlights[id] = true
	kept := tx.flights[:0]
	for _, f := range tx.flights {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	tx.flights = kept
	if r.tx == nil {
		return r.store.commit(tx)
	}
	return nil
}

type memSnapshots struct {
	store *MemoryStore
	tx    *memTx
}

func (r *memSnapshots) view() *memTx {
	if r.tx != nil {
		return r.tx
	}
	return r.store.begin()
}

func (r *memSnapshots) Create(ctx context.Context, snapshot *entity.PriceSnapshot) error {
	tx := r.view()
	snapshot.ID = r.store.allocID()
	cp := *snapshot
	tx.snapshots = append(tx.snapshots, &cp)
	if r.tx == nil {
		return r.store.commit(tx)
	}
	return nil
}

func (r *memSnapshots) ListByFlight(ctx context.Context, flightID uint) ([]*entity.PriceSnapshot, error) {
	var out []*entity.PriceSnapshot
	for _, sn := range r.view().visibleSnapshots() {
		if sn.FlightID == flightID {
			cp := *sn
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memSnapshots) DeleteByFlight(ctx context.Context, flightID uint) error {
	tx := r.view()
	tx.deletedSnapshots[flightID] = true
	kept := tx.snapshots[:0]
	for _, sn := range tx.snapshots {
		if sn.FlightID != flightID {
			kept = append(kept, sn)
		}
	}
	tx.snapshots = kept
	if r.tx == nil {
		return r.store.commit(tx)
	}
	return nil
}

// MemoryTrackingJobRepository keeps job definitions in a map
type MemoryTrackingJobRepository struct {
	mu   sync.Mutex
	jobs map[string]*entity.TrackingJob
}

// NewMemoryTrackingJobRepository creates an empty job repository
func NewMemoryTrackingJobRepository() *MemoryTrackingJobRepository {
	return &MemoryTrackingJobRepository{jobs: make(map[string]*entity.TrackingJob)}
}

func (r *MemoryTrackingJobRepository) Upsert(ctx context.Context, job *entity.TrackingJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *job
	if existing, ok := r.jobs[job.Key]; ok {
		cp.CreatedAt = existing.CreatedAt
	}
	r.jobs[job.Key] = &cp
	return nil
}

func (r *MemoryTrackingJobRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, key)
	return nil
}

func (r *MemoryTrackingJobRepository) List(ctx context.Context) ([]*entity.TrackingJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.TrackingJob, 0, len(r.jobs))
	for _, j := range r.jobs {
		cp := *j
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
