package domain

// toolTable is the source of truth for the catalog. Order is navigation order.
var toolTable = []ToolDefinition{
	{
		ID:      ToolGrammarChecker,
		Name:    "Grammar Checker",
		Summary: "Find and fix grammar, spelling and punctuation mistakes.",
		Modes: []ModeDefinition{
			{ID: "standard", Name: "Standard", Description: "Correct grammar, spelling and punctuation without changing your style."},
			{ID: "formal", Name: "Formal", Description: "Correct errors and tighten wording for professional writing."},
			{ID: "academic", Name: "Academic", Description: "Correct errors and enforce academic conventions and precise vocabulary."},
		},
	},
	{
		ID:      ToolParaphraser,
		Name:    "Paraphraser",
		Summary: "Rewrite sentences and paragraphs in your own words.",
		Modes: []ModeDefinition{
			{ID: "standard", Name: "Standard", Description: "Balanced rewording that keeps the original meaning."},
			{ID: "fluency", Name: "Fluency", Description: "Make the text read naturally with minimal changes."},
			{ID: "formal", Name: "Formal", Description: "Rewrite in a polished, professional register."},
			{ID: "simple", Name: "Simple", Description: "Use plain words and shorter sentences."},
			{ID: "academic", Name: "Academic", Description: "Rewrite with scholarly tone and technical vocabulary."},
			{ID: "creative", Name: "Creative", Description: "Reword freely with expressive, original phrasing."},
			{ID: "expand", Name: "Expand", Description: "Add detail and length while preserving meaning."},
			{ID: "shorten", Name: "Shorten", Description: "Condense the text to its essential points."},
		},
	},
	{
		ID:      ToolSummarizer,
		Name:    "Summarizer",
		Summary: "Condense long text into a short summary.",
		Modes: []ModeDefinition{
			{ID: "paragraph", Name: "Paragraph", Description: "A concise paragraph covering the main ideas."},
			{ID: "bullet-points", Name: "Bullet Points", Description: "The main ideas as a bulleted list."},
			{ID: "key-sentences", Name: "Key Sentences", Description: "The most important sentences, extracted verbatim."},
		},
	},
	{
		ID:      ToolTranslator,
		Name:    "Translator",
		Summary: "Translate text between languages while keeping its tone.",
		Modes: []ModeDefinition{
			{ID: "standard", Name: "Standard", Description: "Accurate, natural translation."},
			{ID: "formal", Name: "Formal", Description: "Translation in a formal register."},
			{ID: "casual", Name: "Casual", Description: "Translation in an everyday, conversational register."},
		},
	},
	{
		ID:      ToolToneConverter,
		Name:    "Tone Converter",
		Summary: "Change the tone of your writing without changing the message.",
		Modes: []ModeDefinition{
			{ID: "professional", Name: "Professional", Description: "Clear, courteous and businesslike."},
			{ID: "friendly", Name: "Friendly", Description: "Warm and approachable."},
			{ID: "confident", Name: "Confident", Description: "Direct and assertive."},
			{ID: "casual", Name: "Casual", Description: "Relaxed and conversational."},
			{ID: "persuasive", Name: "Persuasive", Description: "Compelling and action-oriented."},
			{ID: "empathetic", Name: "Empathetic", Description: "Understanding and supportive."},
		},
	},
	{
		ID:      ToolAIHumanizer,
		Name:    "AI Humanizer",
		Summary: "Make AI-generated text sound natural and human-written.",
		Modes: []ModeDefinition{
			{ID: "balanced", Name: "Balanced", Description: "Natural rhythm with the original structure kept."},
			{ID: "natural", Name: "Natural", Description: "Varied sentence length and conversational flow."},
			{ID: "advanced", Name: "Advanced", Description: "Deep restructuring for the most human-like result."},
		},
	},
	{
		ID:      ToolReadabilityChecker,
		Name:    "Readability Checker",
		Summary: "Score how easy your text is to read.",
		Modes: []ModeDefinition{
			{ID: "standard", Name: "Standard", Description: "Flesch reading ease, grade level and sentence statistics."},
		},
	},
	{
		ID:      ToolArticleRewriter,
		Name:    "Article Rewriter",
		Summary: "Rewrite whole articles into fresh, unique content.",
		Modes: []ModeDefinition{
			{ID: "standard", Name: "Standard", Description: "Rewrite the article while keeping its structure."},
			{ID: "formal", Name: "Formal", Description: "Rewrite the article in a formal register."},
			{ID: "seo", Name: "SEO", Description: "Rewrite with search-friendly headings and phrasing."},
			{ID: "creative", Name: "Creative", Description: "Rewrite with a distinctive, engaging voice."},
		},
	},
}

// Registry is an immutable, ordered set of tool definitions.
type Registry struct {
	tools []ToolDefinition
	index map[string]int
}

// NewRegistry builds the registry from the static tool table.
func NewRegistry() *Registry {
	return newRegistry(toolTable)
}

func newRegistry(table []ToolDefinition) *Registry {
	r := &Registry{
		tools: make([]ToolDefinition, 0, len(table)),
		index: make(map[string]int, len(table)),
	}
	for _, t := range table {
		if _, dup := r.index[t.ID]; dup {
			panic("catalog: duplicate tool id " + t.ID)
		}
		r.index[t.ID] = len(r.tools)
		r.tools = append(r.tools, t.clone())
	}
	return r
}

// All returns every tool in navigation order.
func (r *Registry) All() []ToolDefinition {
	out := make([]ToolDefinition, len(r.tools))
	for i, t := range r.tools {
		out[i] = t.clone()
	}
	return out
}

// Lookup returns the tool with the given id.
func (r *Registry) Lookup(id string) (ToolDefinition, bool) {
	i, ok := r.index[id]
	if !ok {
		return ToolDefinition{}, false
	}
	return r.tools[i].clone(), true
}

// Resolve returns the tool with the given id, or the grammar checker when the
// id is unknown. The second value reports whether the fallback was used.
func (r *Registry) Resolve(id string) (ToolDefinition, bool) {
	if t, ok := r.Lookup(id); ok {
		return t, false
	}
	t, _ := r.Lookup(DefaultToolID)
	return t, true
}

// Mode returns a mode of a known tool.
func (r *Registry) Mode(toolID, modeID string) (ModeDefinition, bool) {
	t, ok := r.Lookup(toolID)
	if !ok {
		return ModeDefinition{}, false
	}
	return t.Mode(modeID)
}

// ResolveMode returns the requested mode of the resolved tool, falling back to
// the tool's first mode.
func (r *Registry) ResolveMode(toolID, modeID string) ModeDefinition {
	t, _ := r.Resolve(toolID)
	if m, ok := t.Mode(modeID); ok {
		return m
	}
	return t.DefaultMode()
}
