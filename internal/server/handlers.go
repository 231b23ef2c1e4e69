package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/trip-planner/internal/types"
)

// HealthResponse represents the response for /health
type HealthResponse struct {
	Status  string `json:"status"`
	Archive bool   `json:"archive"`
}

// handlePlan runs a full planning invocation synchronously and returns
// the finished plan.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req types.TripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	plan, err := s.planner.Plan(r.Context(), &req)
	if err != nil {
		// Validation problems are the caller's fault; anything else a
		// valid request produces is unexpected, since planning degrades
		// instead of failing.
		if errors.Is(err, types.ErrInvalidDates) || errors.Is(err, types.ErrInvalidBudget) {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, plan)
}

// handleGetPlan returns an archived plan by ID
func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Plan archive is not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid plan ID format")
		return
	}

	plan, err := s.archive.GetPlan(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load plan")
		return
	}
	if plan == nil {
		s.errorResponse(w, http.StatusNotFound, "Plan not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, plan)
}

// handleListPlans returns recent archived plans
func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Plan archive is not configured")
		return
	}

	summaries, err := s.archive.ListPlans(r.Context(), 20)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list plans")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"plans": summaries})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Archive: s.archive != nil,
	})
}
