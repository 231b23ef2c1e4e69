package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/trip-planner/internal/pipeline"
	"github.com/jonathan/trip-planner/internal/providers"
	"github.com/jonathan/trip-planner/internal/ranking"
	"github.com/jonathan/trip-planner/internal/summary"
	"github.com/jonathan/trip-planner/internal/types"
)

func testServer(t *testing.T, cfg Config) *Server {
	planner := &pipeline.Planner{
		Flights:     providers.MockFlights{},
		Hotels:      providers.MockHotels{},
		Restaurants: providers.MockRestaurants{},
		Ranker:      ranking.NewRanker(nil),
		Summarizer:  summary.NewSummarizer(nil),
		Out:         &bytes.Buffer{},
	}
	return New(planner, nil, cfg)
}

func planBody() *strings.Reader {
	return strings.NewReader(`{
		"origin": "SIN",
		"destination": "Bangkok",
		"start_date": "2026-03-10",
		"end_date": "2026-03-14",
		"budget": 1500
	}`)
}

func TestHandlePlan(t *testing.T) {
	s := testServer(t, Config{Port: 8080})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plan", planBody())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var plan types.TripPlan
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&plan))
	assert.Equal(t, "SIN", plan.Origin)
	assert.Equal(t, 4, plan.Nights)
	require.NotNil(t, plan.Flight)
	require.NotNil(t, plan.Hotel)
	// The mock providers spend a fraction of this budget, which is
	// outside the tolerance band around it.
	assert.False(t, plan.WithinTolerance)
	assert.NotEmpty(t, plan.Summary)
}

func TestHandlePlanInvalidDates(t *testing.T) {
	s := testServer(t, Config{Port: 8080})

	body := strings.NewReader(`{
		"origin": "SIN",
		"destination": "Bangkok",
		"start_date": "2026-03-14",
		"end_date": "2026-03-10",
		"budget": 1500
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/plan", body)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "end date must be after start date")
}

func TestHandlePlanMalformedBody(t *testing.T) {
	s := testServer(t, Config{Port: 8080})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plan", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetPlanWithoutArchive(t *testing.T) {
	s := testServer(t, Config{Port: 8080})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans/550e8400-e29b-41d4-a716-446655440000", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	s := testServer(t, Config{Port: 8080})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var health HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.False(t, health.Archive)
}

func TestRateLimitOnPlanRoute(t *testing.T) {
	t.Setenv("RATE_LIMIT_PLAN_LIMIT", "1")
	t.Setenv("RATE_LIMIT_PLAN_BURST", "1")
	s := testServer(t, Config{Port: 8080})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plan", planBody())
	req.RemoteAddr = "203.0.113.9:4242"
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))

	// Same client, bucket exhausted.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/plan", planBody())
	req.RemoteAddr = "203.0.113.9:4242"
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate_limit_exceeded")

	// Health is never limited.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "203.0.113.9:4242"
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthProtectsAPIRoutes(t *testing.T) {
	s := testServer(t, Config{Port: 8080, JWTSecret: "test-secret"})

	// No token: rejected.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/plan", planBody())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid token: accepted.
	token, err := s.jwtService.GenerateToken("test-client")
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/plan", planBody())
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Health stays open.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
