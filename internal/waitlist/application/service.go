package application

import (
	"context"
	"fmt"
	"log/slog"

	shareddomain "github.com/felixgeelhaar/inkwell/internal/shared/domain"
	"github.com/felixgeelhaar/inkwell/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/inkwell/internal/waitlist/domain"
	"github.com/felixgeelhaar/inkwell/pkg/observability"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// JoinCommand is a waitlist signup.
type JoinCommand struct {
	Email  string
	Name   string
	Tools  []string
	Source string
}

// JoinResult reports the stored entry and whether it is new.
type JoinResult struct {
	Entry   *domain.Entry
	Created bool
}

// Service manages waitlist signups.
type Service struct {
	repo      domain.Repository
	publisher eventbus.Publisher
	logger    *slog.Logger
	metrics   observability.Metrics
}

// NewService creates a waitlist service. publisher may be nil.
func NewService(repo domain.Repository, publisher eventbus.Publisher, logger *slog.Logger, metrics observability.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &Service{repo: repo, publisher: publisher, logger: logger, metrics: metrics}
}

// Join adds an address to the waitlist. Joining twice is not an error; the
// existing entry is returned and no event is published.
func (s *Service) Join(ctx context.Context, cmd JoinCommand) (*JoinResult, error) {
	entry, err := domain.NewEntry(cmd.Email, cmd.Name, cmd.Tools, cmd.Source)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Add(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("add waitlist entry: %w", err)
	}
	if !created {
		existing, err := s.repo.FindByEmail(ctx, entry.Email)
		if err != nil {
			return nil, fmt.Errorf("find waitlist entry: %w", err)
		}
		if existing != nil {
			entry = existing
		}
		s.logger.DebugContext(ctx, "waitlist address already registered", "entry_id", entry.ID.String())
		return &JoinResult{Entry: entry}, nil
	}

	s.metrics.Counter(observability.MetricWaitlistJoins, 1, observability.T("source", domain.SourceChannel(entry.Source)))
	s.logger.InfoContext(ctx, "waitlist entry created", "entry_id", entry.ID.String(), "source", entry.Source)

	if s.publisher != nil {
		event := domain.NewJoinedEvent(entry)
		event.SetMetadata(shareddomain.EventMetadata{CorrelationID: observability.CorrelationIDFromContext(ctx)})
		if err := eventbus.PublishEvent(ctx, s.publisher, event, event); err != nil {
			// the signup is already stored
			s.logger.WarnContext(ctx, "failed to publish waitlist event", "entry_id", entry.ID.String(), "error", err)
		}
	}
	return &JoinResult{Entry: entry, Created: true}, nil
}

// List returns the newest entries. limit is clamped to (0, MaxListLimit].
func (s *Service) List(ctx context.Context, limit int) ([]*domain.Entry, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	return s.repo.List(ctx, limit)
}

// Count returns the number of signups.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
