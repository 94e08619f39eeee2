package repository

import (
	"context"

	"flightstats-service/internal/domain/entity"
)

// PriceSnapshotRepository defines the interface for price snapshot operations.
// Snapshots are append-only; ListByFlight returns them in storage order.
type PriceSnapshotRepository interface {
	Create(ctx context.Context, snapshot *entity.PriceSnapshot) error
	ListByFlight(ctx context.Context, flightID uint) ([]*entity.PriceSnapshot, error)
	DeleteByFlight(ctx context.Context, flightID uint) error
}
