package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/felixgeelhaar/inkwell/internal/identity/infrastructure/token"
	"github.com/felixgeelhaar/inkwell/internal/proxy"
	"github.com/felixgeelhaar/inkwell/internal/rewrite"
)

// maxJSONBody bounds browser JSON bodies on proxy routes.
const maxJSONBody = 1 << 20

func readJSONBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return []byte("{}"), nil
	}
	if !json.Valid(body) {
		return nil, errInvalidJSON
	}
	return body, nil
}

var errInvalidJSON = errors.New("invalid JSON body")

func (s *Server) writeBodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "Request body is too large")
		return
	}
	writeAPIError(w, ErrBadJSON)
}

// writeUpstreamError maps a forward failure to its status and logs failures
// that are not the upstream's own replies.
func (s *Server) writeUpstreamError(w http.ResponseWriter, r *http.Request, upstream string, err error) {
	status, message := proxy.TranslateError(err)
	var pe *proxy.Error
	if !errors.As(err, &pe) {
		s.logger.ErrorContext(r.Context(), "proxy request failed",
			"upstream", upstream,
			"status", status,
			"error", err,
		)
	}
	writeError(w, status, message)
}

// handleProcess handles POST /api/tools/{toolID}/process
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	toolID := r.PathValue("toolID")
	if _, ok := s.deps.Catalog.Lookup(toolID); !ok {
		writeError(w, http.StatusNotFound, "Unknown tool: "+toolID)
		return
	}
	if s.deps.Backend == nil {
		writeAPIError(w, ErrUnavailable)
		return
	}

	body, err := readJSONBody(w, r)
	if err != nil {
		s.writeBodyError(w, err)
		return
	}
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || strings.TrimSpace(payload.Text) == "" {
		writeError(w, http.StatusBadRequest, "Text is required")
		return
	}

	header := http.Header{}
	if auth := r.Header.Get("Authorization"); auth != "" {
		header.Set("Authorization", auth)
	}
	resp, err := s.deps.Backend.Forward(r.Context(), proxy.Request{
		Path:   "/api/" + toolID,
		Body:   body,
		Header: header,
	})
	if err != nil {
		s.writeUpstreamError(w, r, "backend", err)
		return
	}
	writeRawJSON(w, resp.Status, resp.Body)
}

// handleRewrite handles POST /api/rewrite
func (s *Server) handleRewrite(w http.ResponseWriter, r *http.Request) {
	if s.deps.Rewrite == nil {
		writeAPIError(w, ErrUnavailable)
		return
	}

	var req rewrite.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
		s.writeBodyError(w, err)
		return
	}

	result, err := s.deps.Rewrite.Rewrite(r.Context(), req)
	switch {
	case errors.Is(err, rewrite.ErrTextRequired):
		writeError(w, http.StatusBadRequest, "Text is required")
	case errors.Is(err, rewrite.ErrTextTooLong):
		writeError(w, http.StatusBadRequest, "Text is too long")
	case err != nil:
		s.logger.ErrorContext(r.Context(), "rewrite failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to rewrite text")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"result": result})
	}
}

// handleAuth handles POST /api/auth/{action}
func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	if s.deps.Auth == nil {
		writeAPIError(w, ErrUnavailable)
		return
	}

	body, err := readJSONBody(w, r)
	if err != nil {
		s.writeBodyError(w, err)
		return
	}
	bearer, _ := token.ExtractBearerToken(r.Header.Get("Authorization"))

	resp, err := s.deps.Auth.Do(r.Context(), r.PathValue("action"), body, bearer)
	if errors.Is(err, proxy.ErrUnknownAuthAction) {
		writeError(w, http.StatusNotFound, "Unknown auth action")
		return
	}
	if err != nil {
		s.writeUpstreamError(w, r, "auth", err)
		return
	}
	writeRawJSON(w, resp.Status, resp.Body)
}
