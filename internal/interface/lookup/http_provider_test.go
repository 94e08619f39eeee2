package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"flightstats-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const workerBody = `{"flights":[
 {"flight_number":"BA117","origin":{"code":"LHR","name":"Heathrow"},"destination":{"code":"JFK","name":"John F Kennedy"},
  "departure_time":"2025-06-01T08:25:00Z","arrival_time":"2025-06-01T11:10:00Z","price":412},
 {"flight_number":"VS3","origin":{"code":"LHR","name":"Heathrow"},"destination":{"code":"JFK","name":"John F Kennedy"},
  "departure_time":"2025-06-01T11:00:00Z","arrival_time":"2025-06-01T13:55:00Z","price":389}
]}`

var (
	lhr = &entity.Airport{ID: 1, Name: "Heathrow", IATA: "LHR", ICAO: "EGLL"}
	jfk = &entity.Airport{ID: 2, Name: "John F Kennedy", IATA: "JFK", ICAO: "KJFK"}
)

type recorded struct {
	mu      sync.Mutex
	queries []string
}

func (r *recorded) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queries...)
}

func newWorker(t *testing.T, status int, body string) (*httptest.Server, *recorded) {
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/flights", r.URL.Path)
		rec.mu.Lock()
		rec.queries = append(rec.queries, r.URL.RawQuery)
		rec.mu.Unlock()
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestHTTPProvider_FindAny(t *testing.T) {
	srv, rec := newWorker(t, http.StatusOK, workerBody)
	p := NewHTTPProvider(srv.URL+"/", 5*time.Second, nil)

	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	got, err := p.FindAny(context.Background(), lhr, jfk, date)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "BA117", got[0].FlightNumber)
	assert.Equal(t, 412, got[0].Price)
	assert.Equal(t, "Heathrow", got[0].Origin.Name)
	assert.Equal(t, "JFK", got[1].Destination.Code)

	queries := rec.all()
	require.Len(t, queries, 1)
	assert.Equal(t, "date=2025-06-01&destination=JFK&origin=LHR", queries[0])
}

func TestHTTPProvider_FindOne(t *testing.T) {
	srv, _ := newWorker(t, http.StatusOK, workerBody)
	p := NewHTTPProvider(srv.URL, 5*time.Second, nil)
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	obs, err := p.FindOne(context.Background(), lhr, jfk, date, "vs3")
	require.NoError(t, err)
	require.NotNil(t, obs)
	assert.Equal(t, 389, obs.Price)

	obs, err = p.FindOne(context.Background(), lhr, jfk, date, "AA100")
	require.NoError(t, err)
	assert.Nil(t, obs)
}

func TestHTTPProvider_Errors(t *testing.T) {
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"upstream failure", http.StatusBadGateway, "browser crashed", "HTTP 502: browser crashed"},
		{"bad json", http.StatusOK, "{", "decoding response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newWorker(t, tt.status, tt.body)
			p := NewHTTPProvider(srv.URL, 5*time.Second, nil)

			_, err := p.FindAny(context.Background(), lhr, jfk, date)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestHTTPProvider_RespectsRateLimit(t *testing.T) {
	srv, rec := newWorker(t, http.StatusOK, workerBody)
	p := NewHTTPProvider(srv.URL, 5*time.Second, NewRateLimit(1, time.Hour))
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := p.FindAny(context.Background(), lhr, jfk, date)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = p.FindAny(ctx, lhr, jfk, date)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, rec.all(), 1)
}
