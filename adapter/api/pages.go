package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	catalogapp "github.com/felixgeelhaar/inkwell/internal/catalog/application"
	"github.com/felixgeelhaar/inkwell/internal/catalog/domain"
	identity "github.com/felixgeelhaar/inkwell/internal/identity/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

type pageData struct {
	SiteName string
	Page     string
	Meta     domain.Metadata
	Tools    []domain.ToolDefinition
	Tool     *catalogapp.ToolView
}

type pageRenderer struct {
	tmpl     *template.Template
	siteName string
}

func newPageRenderer(siteName string) (*pageRenderer, error) {
	if siteName == "" {
		siteName = "Inkwell"
	}
	tmpl, err := template.New("pages").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}
	return &pageRenderer{tmpl: tmpl, siteName: siteName}, nil
}

func (p *pageRenderer) render(w http.ResponseWriter, status int, data pageData) error {
	data.SiteName = p.siteName
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	data.Tools = s.deps.Catalog.Tools()
	if err := s.pages.render(w, status, data); err != nil {
		s.logger.ErrorContext(r.Context(), "failed to render page", "page", data.Page, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// handleHome handles GET /
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, pageData{Page: "home", Meta: s.deps.Catalog.HomeMetadata()})
}

// handlePage handles GET /{slug}: a tool page or an informational page.
// Unknown slugs get the 404 page rather than a fallback tool.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	if _, ok := s.deps.Catalog.Lookup(slug); ok {
		view := s.deps.Catalog.View(r.Context(), slug, identity.UserIDFromContext(r.Context()))
		s.renderPage(w, r, http.StatusOK, pageData{Page: "tool", Meta: s.deps.Catalog.Metadata(slug), Tool: &view})
		return
	}
	if s.deps.Catalog.IsPage(slug) {
		s.renderPage(w, r, http.StatusOK, pageData{Page: slug, Meta: s.deps.Catalog.PageMetadata(slug)})
		return
	}
	s.handleNotFound(w, r)
}

// handleNotFound answers unmatched routes: JSON under /api/, the 404 page elsewhere.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") || r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeAPIError(w, ErrNotFound)
		return
	}
	meta := s.deps.Catalog.HomeMetadata()
	meta.Title = "Page not found | " + s.pages.siteName
	s.renderPage(w, r, http.StatusNotFound, pageData{Page: "not-found", Meta: meta})
}
