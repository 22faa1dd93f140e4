package application

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/inkwell/internal/catalog/domain"
	"github.com/google/uuid"
)

// AccessChecker reports whether a user currently holds an active or trialing
// subscription.
type AccessChecker interface {
	HasActiveAccess(ctx context.Context, userID uuid.UUID) (bool, error)
}

// ToolView is a tool with the gating state of its modes for one caller. It
// serializes with the same keys as ToolDefinition.
type ToolView struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Summary  string              `json:"summary"`
	Modes    []domain.ModeAccess `json:"modes"`
	FellBack bool                `json:"-"`
}

// Service exposes the tool catalog, route metadata and mode gating.
type Service struct {
	registry *domain.Registry
	metadata *domain.MetadataResolver
	access   AccessChecker
	logger   *slog.Logger
}

// NewService creates a catalog service. access may be nil, in which case every
// caller is treated as not subscribed.
func NewService(registry *domain.Registry, metadata *domain.MetadataResolver, access AccessChecker, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{registry: registry, metadata: metadata, access: access, logger: logger}
}

// Tools returns every tool in registry order.
func (s *Service) Tools() []domain.ToolDefinition {
	return s.registry.All()
}

// Lookup returns the tool with the given id, without fallback.
func (s *Service) Lookup(toolID string) (domain.ToolDefinition, bool) {
	return s.registry.Lookup(toolID)
}

// Resolve returns the tool with the given id, substituting the grammar checker
// for unknown ids. The substitution is logged.
func (s *Service) Resolve(ctx context.Context, toolID string) (domain.ToolDefinition, bool) {
	tool, fellBack := s.registry.Resolve(toolID)
	if fellBack {
		s.logger.WarnContext(ctx, "unknown tool id, using default tool",
			"tool_id", toolID,
			"fallback", tool.ID,
		)
	}
	return tool, fellBack
}

// Metadata returns the SEO metadata for a tool id.
func (s *Service) Metadata(toolID string) domain.Metadata {
	return s.metadata.For(toolID)
}

// PageMetadata returns the SEO metadata for an informational page.
func (s *Service) PageMetadata(slug string) domain.Metadata {
	return s.metadata.ForPage(slug)
}

// IsPage reports whether slug names an informational page.
func (s *Service) IsPage(slug string) bool {
	return domain.HasPage(slug)
}

// HomeMetadata returns the generic site metadata.
func (s *Service) HomeMetadata() domain.Metadata {
	return s.metadata.Default()
}

// IsActive reports whether the user holds an active subscription. A nil user
// or a failing lookup is reported as not active; lookup failures are logged.
func (s *Service) IsActive(ctx context.Context, userID *uuid.UUID) bool {
	if userID == nil || s.access == nil {
		return false
	}
	active, err := s.access.HasActiveAccess(ctx, *userID)
	if err != nil {
		s.logger.WarnContext(ctx, "subscription lookup failed, treating as free",
			"user_id", userID.String(),
			"error", err,
		)
		return false
	}
	return active
}

// View resolves a tool and annotates its modes with the caller's lock state.
func (s *Service) View(ctx context.Context, toolID string, userID *uuid.UUID) ToolView {
	tool, fellBack := s.Resolve(ctx, toolID)
	return ToolView{
		ID:       tool.ID,
		Name:     tool.Name,
		Summary:  tool.Summary,
		Modes:    domain.ModeAccessFor(tool, s.IsActive(ctx, userID)),
		FellBack: fellBack,
	}
}
