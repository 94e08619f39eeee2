package repository

import (
	"context"

	"flightstats-service/internal/domain/entity"
)

// AirportRepository defines the read-only interface for airport reference data
type AirportRepository interface {
	GetByID(ctx context.Context, id uint) (*entity.Airport, error)
	List(ctx context.Context) ([]*entity.Airport, error)
}
