package api

import (
	"net/http"

	catalogapp "github.com/felixgeelhaar/inkwell/internal/catalog/application"
	"github.com/felixgeelhaar/inkwell/internal/catalog/domain"
	identity "github.com/felixgeelhaar/inkwell/internal/identity/domain"
	"github.com/felixgeelhaar/inkwell/pkg/observability"
)

// HeaderFallback is set when an unknown tool id was answered with the default tool.
const HeaderFallback = "X-Inkwell-Fallback"

// handleListTools handles GET /api/tools
func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"tools": s.deps.Catalog.Tools(),
	})
}

// toolView resolves the path's tool for the caller and flags a fallback.
func (s *Server) toolView(w http.ResponseWriter, r *http.Request) catalogapp.ToolView {
	view := s.deps.Catalog.View(r.Context(), r.PathValue("toolID"), identity.UserIDFromContext(r.Context()))
	s.flagFallback(w, view.FellBack)
	return view
}

func (s *Server) flagFallback(w http.ResponseWriter, fellBack bool) {
	if fellBack {
		w.Header().Set(HeaderFallback, "true")
		s.deps.Metrics.Counter(observability.MetricToolFallbacks, 1)
	}
}

// handleGetTool handles GET /api/tools/{toolID}
func (s *Server) handleGetTool(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.toolView(w, r))
}

// handleToolMetadata handles GET /api/tools/{toolID}/metadata
func (s *Server) handleToolMetadata(w http.ResponseWriter, r *http.Request) {
	toolID := r.PathValue("toolID")
	_, fellBack := s.deps.Catalog.Resolve(r.Context(), toolID)
	s.flagFallback(w, fellBack)
	writeJSON(w, http.StatusOK, s.deps.Catalog.Metadata(toolID))
}

type modesResponse struct {
	Tool  string              `json:"tool"`
	IsPro bool                `json:"isPro"`
	Modes []domain.ModeAccess `json:"modes"`
}

// handleToolModes handles GET /api/tools/{toolID}/modes
func (s *Server) handleToolModes(w http.ResponseWriter, r *http.Request) {
	view := s.toolView(w, r)
	writeJSON(w, http.StatusOK, modesResponse{
		Tool:  view.ID,
		IsPro: s.deps.Catalog.IsActive(r.Context(), identity.UserIDFromContext(r.Context())),
		Modes: view.Modes,
	})
}

// handleSubscription handles GET /api/subscription
func (s *Server) handleSubscription(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == nil {
		writeAPIError(w, ErrUnauthorized)
		return
	}
	if s.deps.Billing == nil {
		writeAPIError(w, ErrUnavailable)
		return
	}

	sub, err := s.deps.Billing.GetSubscription(r.Context(), *userID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to load subscription", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load subscription")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"subscription": sub,
		"isPro":        sub.IsActive(),
	})
}
