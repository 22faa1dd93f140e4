package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/felixgeelhaar/inkwell/internal/extraction"
	"github.com/felixgeelhaar/inkwell/internal/proxy"
)

// multipartOverhead is the allowance for multipart framing on top of the
// upload limit.
const multipartOverhead = 64 << 10

func (s *Server) writeExtractionError(w http.ResponseWriter, r *http.Request, err error) {
	if status, ok := extraction.StatusCode(err); ok {
		writeError(w, status, err.Error())
		return
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, (&extraction.SizeError{Limit: s.deps.Documents.MaxBytes()}).Error())
		return
	}
	s.writeUpstreamError(w, r, "extract", err)
}

// handleExtractDocument handles POST /api/extract/document (multipart, field "file").
func (s *Server) handleExtractDocument(w http.ResponseWriter, r *http.Request) {
	if s.deps.Documents == nil {
		writeAPIError(w, ErrUnavailable)
		return
	}
	limit := s.deps.Documents.MaxBytes()
	if r.ContentLength > limit+multipartOverhead {
		s.writeExtractionError(w, r, &extraction.SizeError{Limit: limit})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	mr, err := r.MultipartReader()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Expected a multipart upload")
		return
	}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.writeExtractionError(w, r, err)
			return
		}
		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}

		doc, err := s.deps.Documents.Extract(r.Context(), extraction.Upload{
			Filename:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Body:        part,
		})
		_ = part.Close()
		if err != nil {
			s.writeExtractionError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
		return
	}
	writeError(w, http.StatusBadRequest, "File is required")
}

// handleExtractURL handles POST /api/extract/url
func (s *Server) handleExtractURL(w http.ResponseWriter, r *http.Request) {
	if s.deps.Articles == nil {
		writeAPIError(w, ErrUnavailable)
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
		s.writeBodyError(w, err)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}

	article, err := s.deps.Articles.Extract(r.Context(), req.URL)
	if err != nil {
		s.writeExtractionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// handleFetch handles GET /api/fetch?url=, returning the page body as fetched.
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	if s.deps.Fetcher == nil {
		writeAPIError(w, ErrUnavailable)
		return
	}
	raw := r.URL.Query().Get("url")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}

	page, err := s.deps.Fetcher.Fetch(r.Context(), raw)
	if err != nil {
		var pe *proxy.Error
		if errors.As(err, &pe) {
			writeError(w, pe.Status, pe.Message)
			return
		}
		s.writeExtractionError(w, r, err)
		return
	}

	contentType := page.ContentType
	if contentType == "" {
		contentType = "text/html; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Security-Policy", "sandbox")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page.Body)
}
