package domain

import "strings"

// Site identifies the deployment the metadata is rendered for.
type Site struct {
	Name  string
	URL   string
	Image string
}

// OpenGraph holds the og:* social-card fields.
type OpenGraph struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	SiteName    string `json:"siteName"`
	Type        string `json:"type"`
	Image       string `json:"image,omitempty"`
}

// TwitterCard holds the twitter:* social-card fields.
type TwitterCard struct {
	Card        string `json:"card"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

// Metadata is the SEO payload for one route.
type Metadata struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Keywords    []string    `json:"keywords"`
	Canonical   string      `json:"canonical"`
	OpenGraph   OpenGraph   `json:"openGraph"`
	Twitter     TwitterCard `json:"twitter"`
}

type seoEntry struct {
	title       string
	description string
	keywords    []string
}

var toolSEO = map[string]seoEntry{
	ToolGrammarChecker: {
		title:       "Free Grammar Checker - Fix Grammar, Spelling and Punctuation",
		description: "Check your writing for grammar, spelling and punctuation mistakes and fix them instantly with the free AI grammar checker.",
		keywords:    []string{"grammar checker", "spell checker", "punctuation checker", "proofreading"},
	},
	ToolParaphraser: {
		title:       "Free Paraphrasing Tool - Rewrite Text in Your Own Words",
		description: "Paraphrase sentences, paragraphs and essays in standard, formal, academic, creative and other modes with the AI paraphraser.",
		keywords:    []string{"paraphrasing tool", "paraphraser", "rephrase", "reword sentences"},
	},
	ToolSummarizer: {
		title:       "Free Text Summarizer - Summarize Articles and Documents",
		description: "Turn long articles, papers and documents into a concise paragraph or bullet-point summary in seconds.",
		keywords:    []string{"summarizer", "text summarizer", "summary generator", "tldr"},
	},
	ToolTranslator: {
		title:       "Free AI Translator - Translate Text Naturally",
		description: "Translate text between languages with natural phrasing in a standard, formal or casual register.",
		keywords:    []string{"translator", "ai translation", "translate text", "language translator"},
	},
	ToolToneConverter: {
		title:       "Tone Converter - Change the Tone of Your Writing",
		description: "Rewrite your text to sound professional, friendly, confident, casual, persuasive or empathetic.",
		keywords:    []string{"tone converter", "tone changer", "rewrite tone", "writing tone"},
	},
	ToolAIHumanizer: {
		title:       "AI Humanizer - Make AI Text Sound Human",
		description: "Humanize AI-generated text so it reads naturally with varied rhythm and a human voice.",
		keywords:    []string{"ai humanizer", "humanize ai text", "ai to human text", "undetectable ai"},
	},
	ToolReadabilityChecker: {
		title:       "Readability Checker - Flesch Score and Grade Level",
		description: "Measure how easy your text is to read with Flesch reading ease, grade level and sentence statistics.",
		keywords:    []string{"readability checker", "flesch reading ease", "grade level", "readability score"},
	},
	ToolArticleRewriter: {
		title:       "Article Rewriter - Rewrite Articles Into Unique Content",
		description: "Rewrite full articles into fresh, unique and readable content, including an SEO mode for search-friendly phrasing.",
		keywords:    []string{"article rewriter", "content rewriter", "rewrite article", "spinner"},
	},
}

var pageSEO = map[string]seoEntry{
	"about": {
		title:       "About Us",
		description: "Learn about the team building AI writing tools that help everyone write clearly.",
	},
	"privacy": {
		title:       "Privacy Policy",
		description: "How we collect, use and protect your personal information.",
	},
	"terms": {
		title:       "Terms of Service",
		description: "The terms that govern your use of our writing tools.",
	},
	"pricing": {
		title:       "Pricing - Free and Pro Plans",
		description: "Compare the free and Pro plans. Pro unlocks every writing mode.",
		keywords:    []string{"pricing", "pro plan", "subscription"},
	},
	"waitlist": {
		title:       "Join the Waitlist",
		description: "Be the first to know when new writing tools launch.",
		keywords:    []string{"waitlist", "early access"},
	},
}

// HasPage reports whether slug names an informational page.
func HasPage(slug string) bool {
	_, ok := pageSEO[slug]
	return ok
}

var baseKeywords = []string{"ai writing tools", "writing assistant"}

// MetadataResolver maps route ids to SEO metadata. It never fails: unknown ids
// get the generic site template.
type MetadataResolver struct {
	site     Site
	registry *Registry
}

// NewMetadataResolver creates a resolver for the given site.
func NewMetadataResolver(registry *Registry, site Site) *MetadataResolver {
	site.URL = strings.TrimRight(site.URL, "/")
	if site.Name == "" {
		site.Name = "Inkwell"
	}
	return &MetadataResolver{site: site, registry: registry}
}

// For returns the metadata for a tool id.
func (m *MetadataResolver) For(toolID string) Metadata {
	entry, ok := toolSEO[toolID]
	if !ok {
		return m.Default()
	}
	return m.build("/"+toolID, entry)
}

// ForPage returns the metadata for an informational page slug.
func (m *MetadataResolver) ForPage(slug string) Metadata {
	if slug == "" {
		return m.Default()
	}
	entry, ok := pageSEO[slug]
	if !ok {
		return m.Default()
	}
	return m.build("/"+slug, entry)
}

// Default returns the generic site template.
func (m *MetadataResolver) Default() Metadata {
	names := make([]string, 0, len(m.registry.tools))
	for _, t := range m.registry.tools {
		names = append(names, strings.ToLower(t.Name))
	}
	return m.build("/", seoEntry{
		title:       m.site.Name + " - AI Writing Tools",
		description: "Free AI writing tools: " + strings.Join(names, ", ") + ".",
	})
}

func (m *MetadataResolver) build(path string, entry seoEntry) Metadata {
	title := entry.title
	if path != "/" {
		title = entry.title + " | " + m.site.Name
	}
	keywords := make([]string, 0, len(entry.keywords)+len(baseKeywords))
	keywords = append(keywords, entry.keywords...)
	keywords = append(keywords, baseKeywords...)

	url := m.site.URL + path
	return Metadata{
		Title:       title,
		Description: entry.description,
		Keywords:    keywords,
		Canonical:   url,
		OpenGraph: OpenGraph{
			Title:       title,
			Description: entry.description,
			URL:         url,
			SiteName:    m.site.Name,
			Type:        "website",
			Image:       m.site.Image,
		},
		Twitter: TwitterCard{
			Card:        "summary_large_image",
			Title:       title,
			Description: entry.description,
			Image:       m.site.Image,
		},
	}
}
