package repository

import (
	"time"

	"flightstats-service/internal/domain/entity"
)

// Airports GORM model for database mapping
type Airports struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"column:name;not null"`
	City      string  `gorm:"column:city"`
	Country   string  `gorm:"column:country"`
	IATA      string  `gorm:"column:iata;size:3;index"`
	ICAO      string  `gorm:"column:icao;size:4"`
	Latitude  float64 `gorm:"column:latitude"`
	Longitude float64 `gorm:"column:longitude"`
	Altitude  int     `gorm:"column:altitude"`
	Timezone  string  `gorm:"column:timezone"`
}

// TableName overrides the default table name
func (Airports) TableName() string {
	return "airports"
}

// Flights GORM model for database mapping.
// flight_number carries the unique index that arbitrates concurrent first inserts.
type Flights struct {
	ID            uint      `gorm:"primaryKey"`
	OriginID      uint      `gorm:"column:origin_id;not null;index"`
	DestinationID uint      `gorm:"column:destination_id;not null;index"`
	FlightNumber  string    `gorm:"column:flight_number;size:32;not null;uniqueIndex"`
	DepartureTime time.Time `gorm:"column:departure_time"`
	ArrivalTime   time.Time `gorm:"column:arrival_time"`
	CreatedAt     time.Time
}

// TableName overrides the default table name
func (Flights) TableName() string {
	return "flights"
}

// PriceSnapshots GORM model for database mapping
type PriceSnapshots struct {
	ID        uint      `gorm:"primaryKey"`
	FlightID  uint      `gorm:"column:flight_id;not null;index"`
	FetchedAt time.Time `gorm:"column:fetched_at;not null"`
	Price     int       `gorm:"column:price;not null"`
}

// TableName overrides the default table name
func (PriceSnapshots) TableName() string {
	return "price_snapshots"
}

func toAirportEntity(m *Airports) *entity.Airport {
	return &entity.Airport{
		ID:        m.ID,
		Name:      m.Name,
		City:      m.City,
		Country:   m.Country,
		IATA:      m.IATA,
		ICAO:      m.ICAO,
		Latitude:  m.Latitude,
		Longitude: m.Longitude,
		Altitude:  m.Altitude,
		Timezone:  m.Timezone,
	}
}

func toFlightEntity(m *Flights) *entity.Flight {
	return &entity.Flight{
		ID:            m.ID,
		OriginID:      m.OriginID,
		DestinationID: m.DestinationID,
		FlightNumber:  m.FlightNumber,
		DepartureTime: m.DepartureTime,
		ArrivalTime:   m.ArrivalTime,
		CreatedAt:     m.CreatedAt,
	}
}

func toSnapshotEntity(m *PriceSnapshots) *entity.PriceSnapshot {
	return &entity.PriceSnapshot{
		ID:        m.ID,
		FlightID:  m.FlightID,
		FetchedAt: m.FetchedAt,
		Price:     m.Price,
	}
}
