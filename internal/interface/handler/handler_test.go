package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"flightstats-service/internal/domain/entity"
	"flightstats-service/internal/infrastructure/lease"
	"flightstats-service/internal/infrastructure/scheduler"
	"flightstats-service/internal/interface/lookup"
	memrepo "flightstats-service/internal/interface/repository"
	"flightstats-service/internal/usecase"
	"flightstats-service/pkg/logger"
	"flightstats-service/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	e        *echo.Echo
	store    *memrepo.MemoryStore
	registry *scheduler.MemoryRegistry
	provider *lookup.StubProvider
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memrepo.NewMemoryStore()
	store.SeedAirports(
		&entity.Airport{ID: 1, Name: "Heathrow", IATA: "LHR"},
		&entity.Airport{ID: 2, Name: "John F Kennedy", IATA: "JFK"},
	)
	registry := scheduler.NewMemoryRegistry()
	provider := lookup.NewStubProvider("BA117", "VS3")
	l := lease.NewLocalLease()
	log := logger.NewNopLogger()
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics("test", reg)

	tracker := usecase.NewTracker(store, memrepo.NewMemoryTrackingJobRepository(), registry, provider, l, log, m)
	stats := usecase.NewStats(store, provider, l, time.UTC, log, m)
	flights := usecase.NewFlights(store, tracker, provider, l, log, m)
	h := NewHandler(tracker, stats, flights, time.UTC, log, m)

	return &testServer{
		e:        NewRouter(h, reg),
		store:    store,
		registry: registry,
		provider: provider,
	}
}

func (s *testServer) do(method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestScheduleJob(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		status int
		errMsg string
	}{
		{"created", "originId=1&destinationId=2&flightNumber=BA117&frequency=day&date=" + futureDate(10), http.StatusOK, ""},
		{"bad ids", "originId=0&destinationId=2&flightNumber=BA117&frequency=day&date=" + futureDate(10), http.StatusBadRequest, "Origin and destination Ids must be positive integers."},
		{"non numeric id", "originId=abc&destinationId=2&flightNumber=BA117&frequency=day&date=" + futureDate(10), http.StatusBadRequest, "Query parameters are malformed."},
		{"blank flight", "originId=1&destinationId=2&flightNumber=&frequency=day&date=" + futureDate(10), http.StatusBadRequest, "Flight number cannot be empty."},
		{"past date", "originId=1&destinationId=2&flightNumber=BA117&frequency=day&date=2001-01-01", http.StatusBadRequest, "Flight can't be today or in the past"},
		{"missing date", "originId=1&destinationId=2&flightNumber=BA117&frequency=day", http.StatusBadRequest, "Query parameter date is required."},
		{"garbled date", "originId=1&destinationId=2&flightNumber=BA117&frequency=day&date=next-week", http.StatusBadRequest, msgInvalidDate},
		{"missing frequency", "originId=1&destinationId=2&flightNumber=BA117&date=" + futureDate(10), http.StatusBadRequest, "Query parameter frequency is required."},
		{"unknown airport", "originId=1&destinationId=9&flightNumber=BA117&frequency=day&date=" + futureDate(10), http.StatusNotFound, "Origin or destination airport not found in the database."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			rec := s.do(http.MethodPost, "/api/jobs?"+tt.query)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.errMsg != "" {
				assert.Equal(t, tt.errMsg, errorOf(t, rec))
				assert.Equal(t, 0, s.registry.Len())
				assert.Equal(t, 0, s.provider.Calls())
			}
		})
	}
}

func TestJobLifecycle(t *testing.T) {
	s := newTestServer(t)
	q := "originId=1&destinationId=2&flightNumber=BA117&frequency=hour&date=" + futureDate(10)

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/jobs?"+q).Code)
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/jobs?"+q).Code)
	assert.Equal(t, 1, s.registry.Len())

	rec := s.do(http.MethodGet, "/api/jobs")
	require.Equal(t, http.StatusOK, rec.Code)
	var jobs []entity.TrackingJob
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobs))
	require.Len(t, jobs, 1)
	assert.Equal(t, "JobForFlight_BA117", jobs[0].Key)

	// one tick stores the first snapshot
	require.NoError(t, s.registry.Fire(context.Background(), "JobForFlight_BA117"))
	rec = s.do(http.MethodGet, "/api/flights")
	var flights []entity.Flight
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &flights))
	require.Len(t, flights, 1)

	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/jobs?flightNumber=BA117").Code)
	assert.Equal(t, 0, s.registry.Len())
	// removing an absent job still succeeds
	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/jobs?flightNumber=BA117").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodDelete, "/api/jobs").Code)
}

func TestFlightsAndStats(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	f := &entity.Flight{OriginID: 1, DestinationID: 2, FlightNumber: "BA117"}
	require.NoError(t, s.store.Flights().Create(ctx, f))
	for _, sn := range []entity.PriceSnapshot{
		{FlightID: f.ID, FetchedAt: time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC), Price: 50},
		{FlightID: f.ID, FetchedAt: time.Date(2025, 3, 3, 18, 0, 0, 0, time.UTC), Price: 100},
		{FlightID: f.ID, FetchedAt: time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC), Price: 300},
	} {
		require.NoError(t, s.store.Snapshots().Create(ctx, &sn))
	}
	id := strconv.FormatUint(uint64(f.ID), 10)

	rec := s.do(http.MethodGet, "/api/flights/"+id)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/stats/"+id+"/weekdays")
	require.Equal(t, http.StatusOK, rec.Code)
	var weekdays []entity.DayPrice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &weekdays))
	require.Len(t, weekdays, 7)
	assert.Equal(t, 75.0, weekdays[time.Monday].Avg)

	rec = s.do(http.MethodGet, "/api/stats/"+id+"/extremes")
	require.Equal(t, http.StatusOK, rec.Code)
	var extremes []entity.DayPrice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &extremes))
	require.Len(t, extremes, 2)
	assert.Equal(t, 50.0, extremes[0].Avg)
	assert.Equal(t, 300.0, extremes[1].Avg)

	rec = s.do(http.MethodGet, "/api/stats/"+id+"/dates")
	require.Equal(t, http.StatusOK, rec.Code)
	var byDate []entity.DayPrice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &byDate))
	require.Len(t, byDate, 2)
	assert.Equal(t, 100.0, byDate[0].Max)

	rec = s.do(http.MethodGet, "/api/stats/0/weekdays")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Flight Id must be a positive integer.", errorOf(t, rec))

	rec = s.do(http.MethodGet, "/api/stats/abc/extremes")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/stats/77/dates")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Flight with Id 77 not found.", errorOf(t, rec))

	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/flights/"+id).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/flights/"+id).Code)
}

func TestFlexibilityStats(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/stats/flexibility?originId=1&destinationId=2&flightNumber=BA117&flexibility=2&date="+futureDate(20))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out []entity.DayPrice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out, 5)
	assert.Equal(t, 5, s.provider.Calls())

	rec = s.do(http.MethodGet, "/api/stats/flexibility?originId=1&destinationId=2&flightNumber=BA117&flexibility=9&date="+futureDate(20))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Flexibility must be between 1 and 5", errorOf(t, rec))
}

func TestProviderFailureIsGeneric500(t *testing.T) {
	s := newTestServer(t)
	s.provider.FailWith(assert.AnError)

	rec := s.do(http.MethodGet, "/api/flights/search?originId=1&destinationId=2&date="+futureDate(3))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, msgInternal, errorOf(t, rec))
}

func TestAirportsAndSearch(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/airports")
	require.Equal(t, http.StatusOK, rec.Code)
	var airports []entity.Airport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &airports))
	assert.Len(t, airports, 2)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/airports/1").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/airports/5").Code)

	rec = s.do(http.MethodGet, "/api/flights/search?originId=1&destinationId=2&date="+futureDate(3))
	require.Equal(t, http.StatusOK, rec.Code)
	var found []entity.Observation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	assert.Len(t, found, 2)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodGet, "/api/flights/search?originId=1&destinationId=2&date="+futureDate(3))

	rec := s.do(http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_lookups_total")
}
