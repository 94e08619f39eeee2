package entity

import "time"

// Flight is a tracked origin to destination route under one flight number.
// FlightNumber is unique across all flights. DepartureTime and ArrivalTime come
// from the first successful lookup and are not authoritative.
type Flight struct {
	ID            uint      `json:"id"`
	OriginID      uint      `json:"originId"`
	DestinationID uint      `json:"destinationId"`
	FlightNumber  string    `json:"flightNumber"`
	DepartureTime time.Time `json:"departureTime"`
	ArrivalTime   time.Time `json:"arrivalTime"`
	CreatedAt     time.Time `json:"createdAt"`
}

// PriceSnapshot is one immutable price observation for a flight
type PriceSnapshot struct {
	ID        uint      `json:"id"`
	FlightID  uint      `json:"flightId"`
	FetchedAt time.Time `json:"fetchedAt"`
	Price     int       `json:"price"`
}
