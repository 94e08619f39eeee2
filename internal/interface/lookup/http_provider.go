package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"flightstats-service/internal/domain/entity"
)

// HTTPProvider queries the browser worker that scrapes the flight search site.
// Each call is a single search; callers hold the provider lease around it.
type HTTPProvider struct {
	baseURL    string
	httpClient *http.Client
	limit      *RateLimit
}

// NewHTTPProvider creates a provider for the worker at baseURL.
func NewHTTPProvider(baseURL string, timeout time.Duration, limit *RateLimit) *HTTPProvider {
	if limit == nil {
		limit = NewRateLimit(0, time.Minute)
	}
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limit: limit,
	}
}

func (p *HTTPProvider) doRequest(ctx context.Context, path string, params url.Values, dest any) error {
	if err := p.limit.Wait(ctx); err != nil {
		return fmt.Errorf("lookup: waiting for rate limit: %w", err)
	}

	u := p.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("lookup: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json; charset=UTF-8")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("lookup: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("lookup: HTTP %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("lookup: decoding response: %w", err)
	}
	return nil
}

// FindAny returns every priced flight on the route for the given day.
func (p *HTTPProvider) FindAny(ctx context.Context, origin, destination *entity.Airport, date time.Time) ([]entity.Observation, error) {
	params := url.Values{
		"origin":      {origin.Code()},
		"destination": {destination.Code()},
		"date":        {date.Format("2006-01-02")},
	}

	var raw struct {
		Flights []workerFlight `json:"flights"`
	}
	if err := p.doRequest(ctx, "/flights", params, &raw); err != nil {
		return nil, err
	}

	result := make([]entity.Observation, 0, len(raw.Flights))
	for _, f := range raw.Flights {
		result = append(result, f.toObservation())
	}
	return result, nil
}

// FindOne returns the flight with the given number, or nil when the route has none.
func (p *HTTPProvider) FindOne(ctx context.Context, origin, destination *entity.Airport, date time.Time, flightNumber string) (*entity.Observation, error) {
	all, err := p.FindAny(ctx, origin, destination, date)
	if err != nil {
		return nil, err
	}
	return pick(all, flightNumber), nil
}

func pick(observations []entity.Observation, flightNumber string) *entity.Observation {
	for i := range observations {
		if strings.EqualFold(observations[i].FlightNumber, flightNumber) {
			obs := observations[i]
			return &obs
		}
	}
	return nil
}

// ── worker JSON types ──

type workerAirport struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type workerFlight struct {
	FlightNumber  string        `json:"flight_number"`
	Origin        workerAirport `json:"origin"`
	Destination   workerAirport `json:"destination"`
	DepartureTime time.Time     `json:"departure_time"`
	ArrivalTime   time.Time     `json:"arrival_time"`
	Price         int           `json:"price"`
}

func (f workerFlight) toObservation() entity.Observation {
	return entity.Observation{
		FlightNumber:  f.FlightNumber,
		Origin:        entity.AirportRef{Code: f.Origin.Code, Name: f.Origin.Name},
		Destination:   entity.AirportRef{Code: f.Destination.Code, Name: f.Destination.Name},
		DepartureTime: f.DepartureTime,
		ArrivalTime:   f.ArrivalTime,
		Price:         f.Price,
	}
}
