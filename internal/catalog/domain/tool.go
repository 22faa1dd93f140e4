// Package domain holds the static tool catalog: tool and mode definitions,
// SEO metadata and the Pro-mode gating table.
package domain

// Tool identifiers. Each one is also the browser route slug.
const (
	ToolGrammarChecker     = "grammar-checker"
	ToolParaphraser        = "paraphraser"
	ToolSummarizer         = "summarizer"
	ToolTranslator         = "translator"
	ToolToneConverter      = "tone-converter"
	ToolAIHumanizer        = "ai-humanizer"
	ToolReadabilityChecker = "readability-checker"
	ToolArticleRewriter    = "article-rewriter"
)

// DefaultToolID is returned by Resolve for ids that are not in the registry.
const DefaultToolID = ToolGrammarChecker

// ModeDefinition identifies a variant behavior of a tool.
type ModeDefinition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ToolDefinition describes one writing tool and its modes.
type ToolDefinition struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Summary string           `json:"summary"`
	Modes   []ModeDefinition `json:"modes"`
}

// Mode returns the mode with the given id.
func (t ToolDefinition) Mode(modeID string) (ModeDefinition, bool) {
	for _, m := range t.Modes {
		if m.ID == modeID {
			return m, true
		}
	}
	return ModeDefinition{}, false
}

// DefaultMode returns the first mode of the tool.
func (t ToolDefinition) DefaultMode() ModeDefinition {
	if len(t.Modes) == 0 {
		return ModeDefinition{}
	}
	return t.Modes[0]
}

func (t ToolDefinition) clone() ToolDefinition {
	modes := make([]ModeDefinition, len(t.Modes))
	copy(modes, t.Modes)
	t.Modes = modes
	return t
}
