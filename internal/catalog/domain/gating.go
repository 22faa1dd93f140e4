package domain

// proModes lists, per tool, the modes reserved for paying subscribers.
// Gating is a presentation hint; it is not an entitlement check.
var proModes = map[string][]string{
	ToolGrammarChecker:  {"academic"},
	ToolParaphraser:     {"academic", "creative", "expand", "shorten"},
	ToolSummarizer:      {"key-sentences"},
	ToolToneConverter:   {"persuasive", "empathetic"},
	ToolAIHumanizer:     {"advanced"},
	ToolArticleRewriter: {"seo", "creative"},
}

// ModeAccess is a mode together with its gating state for one caller.
type ModeAccess struct {
	ModeDefinition
	ProOnly bool `json:"proOnly"`
	Locked  bool `json:"locked"`
}

// ProModes returns the Pro-only mode ids of a tool.
func ProModes(toolID string) []string {
	modes := proModes[toolID]
	out := make([]string, len(modes))
	copy(out, modes)
	return out
}

// IsProOnly reports whether the tool/mode pair is reserved for subscribers.
func IsProOnly(toolID, modeID string) bool {
	for _, m := range proModes[toolID] {
		if m == modeID {
			return true
		}
	}
	return false
}

// IsLocked reports whether the mode control should be disabled for a caller
// whose subscription is (active=true) or is not active/trialing.
func IsLocked(toolID, modeID string, active bool) bool {
	return !active && IsProOnly(toolID, modeID)
}

// ModeAccessFor returns every mode of the tool with its gating state.
func ModeAccessFor(tool ToolDefinition, active bool) []ModeAccess {
	out := make([]ModeAccess, 0, len(tool.Modes))
	for _, m := range tool.Modes {
		pro := IsProOnly(tool.ID, m.ID)
		out = append(out, ModeAccess{
			ModeDefinition: m,
			ProOnly:        pro,
			Locked:         pro && !active,
		})
	}
	return out
}
