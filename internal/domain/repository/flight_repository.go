package repository

import (
	"context"

	"flightstats-service/internal/domain/entity"
)

// FlightRepository defines the interface for flight operations.
// Create returns entity.ErrDuplicateFlightNumber when the number is taken.
type FlightRepository interface {
	GetByID(ctx context.Context, id uint) (*entity.Flight, error)
	FindByNumber(ctx context.Context, flightNumber string) (*entity.Flight, error)
	List(ctx context.Context) ([]*entity.Flight, error)
	Create(ctx context.Context, flight *entity.Flight) error
	Delete(ctx context.Context, id uint) error
}
