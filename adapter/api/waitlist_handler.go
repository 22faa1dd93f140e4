package api

import (
	"encoding/json"
	"errors"
	"net/http"

	waitlistapp "github.com/felixgeelhaar/inkwell/internal/waitlist/application"
	"github.com/felixgeelhaar/inkwell/internal/waitlist/domain"
)

type joinWaitlistRequest struct {
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Tools  []string `json:"tools"`
	Source string   `json:"source"`
}

// handleJoinWaitlist handles POST /api/waitlist
func (s *Server) handleJoinWaitlist(w http.ResponseWriter, r *http.Request) {
	if s.deps.Waitlist == nil {
		writeAPIError(w, ErrUnavailable)
		return
	}

	var req joinWaitlistRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
		s.writeBodyError(w, err)
		return
	}

	_, err := s.deps.Waitlist.Join(r.Context(), waitlistapp.JoinCommand{
		Email:  req.Email,
		Name:   req.Name,
		Tools:  req.Tools,
		Source: req.Source,
	})
	switch {
	case errors.Is(err, domain.ErrEmailRequired):
		writeError(w, http.StatusBadRequest, "Email is required")
	case errors.Is(err, domain.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "Please enter a valid email address")
	case err != nil:
		s.logger.ErrorContext(r.Context(), "failed to join waitlist", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to join the waitlist")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully joined the waitlist"})
	}
}
