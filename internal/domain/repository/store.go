package repository

import "context"

// Tx exposes the repositories that take part in an atomic unit of work
type Tx interface {
	Flights() FlightRepository
	Snapshots() PriceSnapshotRepository
}

// Store groups the relational repositories. Atomically runs fn in a single
// transaction: if fn returns an error nothing it wrote is committed.
type Store interface {
	Tx
	Airports() AirportRepository
	Atomically(ctx context.Context, fn func(tx Tx) error) error
}
