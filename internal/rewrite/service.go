package rewrite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	catalog "github.com/felixgeelhaar/inkwell/internal/catalog/domain"
	"github.com/felixgeelhaar/inkwell/pkg/observability"
)

var (
	ErrTextRequired = errors.New("text is required")
	ErrTextTooLong  = errors.New("text exceeds the maximum length")
)

// MaxTextRunes bounds the input forwarded to the model.
const MaxTextRunes = 20000

// Request is a rewrite call from the browser.
type Request struct {
	Text         string `json:"text"`
	Tool         string `json:"tool,omitempty"`
	Mode         string `json:"mode,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// Service validates rewrite requests and builds the model prompt.
type Service struct {
	generator Generator
	registry  *catalog.Registry
	logger    *slog.Logger
	metrics   observability.Metrics
}

// NewService creates a rewrite service.
func NewService(generator Generator, registry *catalog.Registry, logger *slog.Logger, metrics observability.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &Service{generator: generator, registry: registry, logger: logger, metrics: metrics}
}

// Rewrite returns the model's rewrite of req.Text. Validation failures are
// ErrTextRequired or ErrTextTooLong; every other error comes from the model.
func (s *Service) Rewrite(ctx context.Context, req Request) (string, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return "", ErrTextRequired
	}
	if len([]rune(text)) > MaxTextRunes {
		return "", ErrTextTooLong
	}
	if s.generator == nil {
		return "", fmt.Errorf("rewrite generator is not configured")
	}

	prompt := s.BuildPrompt(req)
	return observability.TimeOperationResult(s.logger, s.metrics, "rewrite.generate", func() (string, error) {
		return s.generator.Generate(ctx, prompt)
	})
}

// BuildPrompt renders the system and user prompt for a request.
func (s *Service) BuildPrompt(req Request) Prompt {
	toolID := req.Tool
	if toolID == "" {
		toolID = catalog.ToolArticleRewriter
	}
	tool, _ := s.registry.Resolve(toolID)
	mode := s.registry.ResolveMode(tool.ID, req.Mode)

	var b strings.Builder
	fmt.Fprintf(&b, "You are a writing assistant performing the %q task: %s\n", tool.Name, tool.Summary)
	fmt.Fprintf(&b, "Mode %q: %s\n", mode.Name, mode.Description)
	b.WriteString("Preserve the meaning and the language of the input. Return only the rewritten text, without commentary or quotes.")
	if extra := strings.TrimSpace(req.Instructions); extra != "" {
		b.WriteString("\nAdditional instructions: ")
		b.WriteString(extra)
	}
	return Prompt{System: b.String(), User: strings.TrimSpace(req.Text)}
}
