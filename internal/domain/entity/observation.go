package entity

import "time"

// AirportRef is the slim airport view returned by the lookup provider
type AirportRef struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Observation is a priced flight returned by a live lookup
type Observation struct {
	FlightNumber  string     `json:"flightNumber"`
	Origin        AirportRef `json:"origin"`
	Destination   AirportRef `json:"destination"`
	DepartureTime time.Time  `json:"departureTime"`
	ArrivalTime   time.Time  `json:"arrivalTime"`
	Price         int        `json:"price"`
}

// DayPrice is the per-entry shape of every stats view.
// Extremes and flexibility scans fill only Day and Avg.
type DayPrice struct {
	Day time.Time `json:"day"`
	Min float64   `json:"min"`
	Avg float64   `json:"avg"`
	Max float64   `json:"max"`
}
