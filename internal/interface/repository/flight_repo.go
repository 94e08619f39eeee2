package repository

import (
	"context"
	"errors"

	"flightstats-service/internal/domain/entity"
	"flightstats-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormFlightRepository implements the FlightRepository interface
type GormFlightRepository struct {
	db *gorm.DB
}

// NewGormFlightRepository creates a new GORM flight repository
func NewGormFlightRepository(db *gorm.DB) repository.FlightRepository {
	return &GormFlightRepository{
		db: db,
	}
}

// GetByID finds a flight by id
func (r *GormFlightRepository) GetByID(ctx context.Context, id uint) (*entity.Flight, error) {
	var flight Flights
	result := r.db.WithContext(ctx).First(&flight, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, result.Error
	}

	return toFlightEntity(&flight), nil
}

// FindByNumber finds a flight by its flight number
func (r *GormFlightRepository) FindByNumber(ctx context.Context, flightNumber string) (*entity.Flight, error) {
	var flight Flights
	result := r.db.WithContext(ctx).Where("flight_number = ?", flightNumber).First(&flight)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, result.Error
	}

	return toFlightEntity(&flight), nil
}

// List returns all flights ordered by id
func (r *GormFlightRepository) List(ctx context.Context) ([]*entity.Flight, error) {
	var flights []Flights
	result := r.db.WithContext(ctx).Order("id asc").Find(&flights)

	if result.Error != nil {
		return nil, result.Error
	}

	entities := make([]*entity.Flight, 0, len(flights))
	for i := range flights {
		entities = append(entities, toFlightEntity(&flights[i]))
	}
	return entities, nil
}

// Create inserts a new flight into the database
func (r *GormFlightRepository) Create(ctx context.Context, flight *entity.Flight) error {
	model := Flights{
		OriginID:      flight.OriginID,
		DestinationID: flight.DestinationID,
		FlightNumber:  flight.FlightNumber,
		DepartureTime: flight.DepartureTime,
		ArrivalTime:   flight.ArrivalTime,
		CreatedAt:     flight.CreatedAt,
	}

	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		// Requires gorm.Config{TranslateError: true}
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return entity.ErrDuplicateFlightNumber
		}
		return result.Error
	}

	// Update the entity with the generated ID
	flight.ID = model.ID
	flight.CreatedAt = model.CreatedAt

	return nil
}

// Delete removes a flight by id
func (r *GormFlightRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&Flights{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}
