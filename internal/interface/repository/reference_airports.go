package repository

import "flightstats-service/internal/domain/entity"

// ReferenceAirports is a small airport set for running the service without a
// relational database. IDs are stable so requests can be written against them.
func ReferenceAirports() []*entity.Airport {
	return []*entity.Airport{
		{ID: 1, Name: "Heathrow", City: "London", Country: "United Kingdom", IATA: "LHR", ICAO: "EGLL",
			Latitude: 51.4706, Longitude: -0.461941, Altitude: 83, Timezone: "Europe/London"},
		{ID: 2, Name: "John F Kennedy International", City: "New York", Country: "United States", IATA: "JFK", ICAO: "KJFK",
			Latitude: 40.639751, Longitude: -73.778925, Altitude: 13, Timezone: "America/New_York"},
		{ID: 3, Name: "Charles de Gaulle", City: "Paris", Country: "France", IATA: "CDG", ICAO: "LFPG",
			Latitude: 49.012779, Longitude: 2.55, Altitude: 392, Timezone: "Europe/Paris"},
		{ID: 4, Name: "Frankfurt am Main", City: "Frankfurt", Country: "Germany", IATA: "FRA", ICAO: "EDDF",
			Latitude: 50.033333, Longitude: 8.570556, Altitude: 364, Timezone: "Europe/Berlin"},
		{ID: 5, Name: "Zurich", City: "Zurich", Country: "Switzerland", IATA: "ZRH", ICAO: "LSZH",
			Latitude: 47.464722, Longitude: 8.549167, Altitude: 1416, Timezone: "Europe/Zurich"},
		{ID: 6, Name: "Dubai International", City: "Dubai", Country: "United Arab Emirates", IATA: "DXB", ICAO: "OMDB",
			Latitude: 25.252778, Longitude: 55.364444, Altitude: 62, Timezone: "Asia/Dubai"},
	}
}
