package repository

import (
	"context"

	"flightstats-service/internal/domain/entity"
	"flightstats-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormPriceSnapshotRepository implements the PriceSnapshotRepository interface
type GormPriceSnapshotRepository struct {
	db *gorm.DB
}

// NewGormPriceSnapshotRepository creates a new GORM price snapshot repository
func NewGormPriceSnapshotRepository(db *gorm.DB) repository.PriceSnapshotRepository {
	return &GormPriceSnapshotRepository{
		db: db,
	}
}

// Create appends a snapshot
func (r *GormPriceSnapshotRepository) Create(ctx context.Context, snapshot *entity.PriceSnapshot) error {
	model := PriceSnapshots{
		FlightID:  snapshot.FlightID,
		FetchedAt: snapshot.FetchedAt,
		Price:     snapshot.Price,
	}

	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		return result.Error
	}

	snapshot.ID = model.ID
	return nil
}

// ListByFlight returns a flight's snapshots in insertion order
func (r *GormPriceSnapshotRepository) ListByFlight(ctx context.Context, flightID uint) ([]*entity.PriceSnapshot, error) {
	var snapshots []PriceSnapshots
	result := r.db.WithContext(ctx).
		Where("flight_id = ?", flightID).
		Order("id asc").
		Find(&snapshots)

	if result.Error != nil {
		return nil, result.Error
	}

	entities := make([]*entity.PriceSnapshot, 0, len(snapshots))
	for i := range snapshots {
		entities = append(entities, toSnapshotEntity(&snapshots[i]))
	}
	return entities, nil
}

// DeleteByFlight removes every snapshot of a flight
func (r *GormPriceSnapshotRepository) DeleteByFlight(ctx context.Context, flightID uint) error {
	return r.db.WithContext(ctx).Where("flight_id = ?", flightID).Delete(&PriceSnapshots{}).Error
}
