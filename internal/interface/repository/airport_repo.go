package repository

import (
	"context"
	"errors"

	"flightstats-service/internal/domain/entity"
	"flightstats-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormAirportRepository implements the AirportRepository interface
type GormAirportRepository struct {
	db *gorm.DB
}

// NewGormAirportRepository creates a new GORM airport repository
func NewGormAirportRepository(db *gorm.DB) repository.AirportRepository {
	return &GormAirportRepository{
		db: db,
	}
}

// GetByID finds an airport by its id
func (r *GormAirportRepository) GetByID(ctx context.Context, id uint) (*entity.Airport, error) {
	var airport Airports
	result := r.db.WithContext(ctx).First(&airport, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, result.Error
	}

	return toAirportEntity(&airport), nil
}

// List returns all airports ordered by id
func (r *GormAirportRepository) List(ctx context.Context) ([]*entity.Airport, error) {
	var airports []Airports
	result := r.db.WithContext(ctx).Order("id asc").Find(&airports)

	if result.Error != nil {
		return nil, result.Error
	}

	entities := make([]*entity.Airport, 0, len(airports))
	for i := range airports {
		entities = append(entities, toAirportEntity(&airports[i]))
	}
	return entities, nil
}
