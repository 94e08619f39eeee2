package repository

import (
	"context"

	"flightstats-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormStore implements repository.Store on a single *gorm.DB
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store; open db with gorm.Config{TranslateError: true}
// so that unique violations surface as entity.ErrDuplicateFlightNumber.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate creates or updates the tables owned by this service
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Airports{}, &Flights{}, &PriceSnapshots{})
}

func (s *GormStore) Airports() repository.AirportRepository {
	return NewGormAirportRepository(s.db)
}

func (s *GormStore) Flights() repository.FlightRepository {
	return NewGormFlightRepository(s.db)
}

func (s *GormStore) Snapshots() repository.PriceSnapshotRepository {
	return NewGormPriceSnapshotRepository(s.db)
}

// Atomically runs fn inside a database transaction
func (s *GormStore) Atomically(ctx context.Context, fn func(tx repository.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) Flights() repository.FlightRepository {
	return NewGormFlightRepository(t.db)
}

func (t *gormTx) Snapshots() repository.PriceSnapshotRepository {
	return NewGormPriceSnapshotRepository(t.db)
}
