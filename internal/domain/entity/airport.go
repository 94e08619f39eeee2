package entity

// Airport is reference data loaded outside this service; the tracker only reads it.
type Airport struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	IATA      string  `json:"iata"`
	ICAO      string  `json:"icao"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  int     `json:"altitude"`
	Timezone  string  `json:"timezone"`
}

// Code returns the best available code for talking to the lookup provider.
func (a *Airport) Code() string {
	if a == nil {
		return ""
	}
	if a.IATA != "" {
		return a.IATA
	}
	return a.ICAO
}
