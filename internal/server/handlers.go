package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"postcraft/internal/core"
	"postcraft/internal/generate"
	"postcraft/internal/schedule"

	"github.com/go-chi/chi/v5"
)

// ErrorResponse is the error envelope every endpoint uses.
type ErrorResponse struct {
	Error     string   `json:"error"`
	Message   string   `json:"message,omitempty"`
	Details   []string `json:"details,omitempty"`
	Timestamp string   `json:"timestamp"`
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// GenerateRequest is the /api/generate request body.
type GenerateRequest struct {
	Product core.Product         `json:"product"`
	Options core.GenerateOptions `json:"options"`
}

// GenerateResponse is the /api/generate success payload.
type GenerateResponse struct {
	Success          bool                   `json:"success"`
	Posts            []core.SocialMediaPost `json:"posts"`
	ImageInsights    *core.ImageInsights    `json:"imageInsights,omitempty"`
	ResearchInsights *core.ResearchInsights `json:"researchInsights,omitempty"`
	ScheduledPosts   []core.ScheduledPost   `json:"scheduledPosts,omitempty"`
	GeneratedAt      string                 `json:"generated_at"`
	Count            int                    `json:"count"`
}

// CalendarRequest is the /api/calendar request body.
type CalendarRequest struct {
	Posts     []core.SocialMediaPost `json:"posts"`
	StartDate string                 `json:"startDate,omitempty"`
	Timezone  string                 `json:"timezone,omitempty"`
}

// CalendarResponse is the /api/calendar success payload.
type CalendarResponse struct {
	Success     bool               `json:"success"`
	Calendar    []core.CalendarDay `json:"calendar"`
	Timezone    string             `json:"timezone"`
	GeneratedAt string             `json:"generatedAt"`
}

// OptimalTimesResponse is the /api/optimal-times/{platform} success payload.
type OptimalTimesResponse struct {
	Success      bool   `json:"success"`
	OptimalTimes []int  `json:"optimalTimes"`
	Platform     string `json:"platform"`
	Timezone     string `json:"timezone"`
	Timestamp    string `json:"timestamp"`
}

// ResearchRequest is the /api/research request body.
type ResearchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"maxResults,omitempty"`
}

// ResearchResponse is the /api/research success payload.
type ResearchResponse struct {
	Success   bool                  `json:"success"`
	Data      *core.WebResearchData `json:"data"`
	Timestamp string                `json:"timestamp"`
}

// handleHealth handles the /health endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// handleGenerate handles POST /api/generate
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body", err.Error(), nil)
		return
	}

	product, fieldErrors := ValidateProduct(req.Product)
	if len(fieldErrors) > 0 {
		s.respondError(w, http.StatusBadRequest, "Validation failed", "", fieldErrors)
		return
	}

	if req.Options.Timezone == "" {
		req.Options.Timezone = s.defaultTimezone
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.generateTimeout)
	defer cancel()

	result, err := s.generator.Generate(ctx, product, req.Options)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			s.respondError(w, http.StatusRequestTimeout, "Request timeout", "The request took too long to process. Please try again.", nil)
		case errors.Is(err, generate.ErrMalformedResponse), errors.Is(err, generate.ErrEmptyResult):
			s.respondError(w, http.StatusBadGateway, "Generation failed", err.Error(), nil)
		default:
			s.log.Error("Post generation failed", "error", err)
			s.respondError(w, http.StatusInternalServerError, "Internal server error", "An unexpected error occurred while generating posts.", nil)
		}
		return
	}

	s.respondJSON(w, http.StatusOK, GenerateResponse{
		Success:          true,
		Posts:            result.Posts,
		ImageInsights:    result.ImageInsights,
		ResearchInsights: result.ResearchInsights,
		ScheduledPosts:   result.ScheduledPosts,
		GeneratedAt:      time.Now().UTC().Format(time.RFC3339),
		Count:            len(result.Posts),
	})
}

// handleCalendar handles POST /api/calendar
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	var req CalendarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body", err.Error(), nil)
		return
	}

	if len(req.Posts) == 0 {
		s.respondError(w, http.StatusBadRequest, "Posts array is required and must not be empty", "", nil)
		return
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = s.defaultTimezone
	}

	scheduler := schedule.NewScheduler(timezone)
	calendar, err := scheduler.GenerateContentCalendar(req.Posts, req.StartDate)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidDate) {
			s.respondError(w, http.StatusBadRequest, "Invalid start date", err.Error(), nil)
			return
		}
		s.log.Error("Calendar generation failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "Calendar generation failed", "An unexpected error occurred while generating the content calendar.", nil)
		return
	}

	s.respondJSON(w, http.StatusOK, CalendarResponse{
		Success:     true,
		Calendar:    calendar,
		Timezone:    timezone,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// handleOptimalTimes handles GET /api/optimal-times/{platform}
func (s *Server) handleOptimalTimes(w http.ResponseWriter, r *http.Request) {
	platform := core.Platform(chi.URLParam(r, "platform"))
	if !platform.Valid() {
		s.respondError(w, http.StatusBadRequest, "Invalid platform. Must be twitter, instagram, or linkedin", "", nil)
		return
	}

	timezone := r.URL.Query().Get("timezone")
	if timezone == "" {
		timezone = s.defaultTimezone
	}

	s.respondJSON(w, http.StatusOK, OptimalTimesResponse{
		Success:      true,
		OptimalTimes: schedule.OptimalHours(platform),
		Platform:     string(platform),
		Timezone:     timezone,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	})
}

// handleResearch handles POST /api/research
func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	var req ResearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body", err.Error(), nil)
		return
	}

	if req.Query == "" {
		s.respondError(w, http.StatusBadRequest, "Query is required and must be a non-empty string", "", nil)
		return
	}

	data, err := s.researcher.SearchWeb(r.Context(), req.Query, req.MaxResults)
	if err != nil {
		// The researcher degrades internally; an error here is unexpected
		s.log.Error("Web research failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "Web research failed", "An unexpected error occurred during web research.", nil)
		return
	}

	s.respondJSON(w, http.StatusOK, ResearchResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// respondJSON writes a JSON response with the given status code
func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("Failed to encode response", "error", err)
	}
}

// respondError writes the standard error envelope
func (s *Server) respondError(w http.ResponseWriter, status int, errMsg, message string, details []string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:     errMsg,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
