// Package extraction turns uploaded documents and web pages into plain text
// for the editor.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/h2non/filetype"

	"github.com/felixgeelhaar/inkwell/internal/proxy"
	"github.com/felixgeelhaar/inkwell/pkg/observability"
)

// Upload is a document received from the browser.
type Upload struct {
	Filename    string
	ContentType string
	// Size is the declared size; 0 when unknown.
	Size int64
	Body io.Reader
}

// Document is the extracted text of an upload.
type Document struct {
	Filename string `json:"filename"`
	Format   string `json:"format"`
	Text     string `json:"text"`
	Words    int    `json:"words"`
}

var textExtensions = map[string]bool{".txt": true, ".md": true, ".markdown": true, ".text": true, ".csv": true}

var remoteFormats = map[string]string{
	"pdf":  "application/pdf",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"doc":  "application/msword",
	"odt":  "application/vnd.oasis.opendocument.text",
	"rtf":  "application/rtf",
	"epub": "application/epub+zip",
}

// DocumentExtractor decodes plain text locally and sends every other
// supported format to the backend's extraction endpoint.
type DocumentExtractor struct {
	backendURL string
	maxBytes   int64
	client     *http.Client
	logger     *slog.Logger
	metrics    observability.Metrics
}

// NewDocumentExtractor creates an extractor. backendURL is the processing
// backend's base URL.
func NewDocumentExtractor(backendURL string, maxBytes int64, timeout time.Duration, logger *slog.Logger, metrics observability.Metrics) *DocumentExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &DocumentExtractor{
		backendURL: strings.TrimRight(backendURL, "/"),
		maxBytes:   maxBytes,
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
		metrics:    metrics,
	}
}

// MaxBytes returns the upload limit.
func (e *DocumentExtractor) MaxBytes() int64 { return e.maxBytes }

// Extract returns the text of an upload. Oversized uploads are rejected
// before anything is sent to the backend.
func (e *DocumentExtractor) Extract(ctx context.Context, up Upload) (*Document, error) {
	if up.Size > e.maxBytes {
		e.metrics.Counter(observability.MetricUploadsRejected, 1, observability.T("reason", "size"))
		return nil, &SizeError{Limit: e.maxBytes}
	}

	data, err := io.ReadAll(io.LimitReader(up.Body, e.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > e.maxBytes {
		e.metrics.Counter(observability.MetricUploadsRejected, 1, observability.T("reason", "size"))
		return nil, &SizeError{Limit: e.maxBytes}
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	format, err := detectFormat(up.Filename, up.ContentType, data)
	if err != nil {
		e.metrics.Counter(observability.MetricUploadsRejected, 1, observability.T("reason", "type"))
		return nil, err
	}

	var text string
	if format == "text" {
		text = normalizeText(string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	} else {
		text, err = e.extractRemote(ctx, up.Filename, format, data)
		if err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}

	return &Document{
		Filename: filepath.Base(up.Filename),
		Format:   format,
		Text:     text,
		Words:    len(strings.Fields(text)),
	}, nil
}

// detectFormat sniffs the content and falls back to the file extension for
// container formats the sniffer reports as plain zip.
func detectFormat(filename, contentType string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	kind, _ := filetype.Match(data)
	if kind != filetype.Unknown {
		if _, ok := remoteFormats[kind.Extension]; ok {
			return kind.Extension, nil
		}
		if kind.Extension == "zip" && (ext == ".docx" || ext == ".odt" || ext == ".epub") {
			return strings.TrimPrefix(ext, "."), nil
		}
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, kind.MIME.Value)
	}

	if (textExtensions[ext] || strings.HasPrefix(contentType, "text/")) && utf8.Valid(data) {
		return "text", nil
	}
	if ext == "" && utf8.Valid(data) {
		return "text", nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedType, strings.TrimPrefix(ext, "."))
}

type extractResponse struct {
	Text *string `json:"text"`
}

func (e *DocumentExtractor) extractRemote(ctx context.Context, filename, format string, data []byte) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(filename)))
	h.Set("Content-Type", remoteFormats[format])
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("build multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.backendURL+"/api/extract", &body)
	if err != nil {
		return "", fmt.Errorf("build extract request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if id := observability.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.WarnContext(ctx, "document extraction request failed", "format", format, "error", err)
		return "", fmt.Errorf("extract request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4*e.maxBytes))
	e.metrics.Timing(observability.MetricProxyDuration, time.Since(start), observability.T("upstream", "extract"))
	if err != nil {
		return "", fmt.Errorf("read extract response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg struct {
			Error  string `json:"error"`
			Detail string `json:"detail"`
		}
		message := http.StatusText(resp.StatusCode)
		if json.Unmarshal(raw, &msg) == nil {
			if msg.Error != "" {
				message = msg.Error
			} else if msg.Detail != "" {
				message = msg.Detail
			}
		}
		return "", &proxy.Error{Status: resp.StatusCode, Message: message}
	}

	var out extractResponse
	if err := json.Unmarshal(raw, &out); err != nil || out.Text == nil {
		e.logger.WarnContext(ctx, "document extraction returned an unreadable response", "format", format, "status", resp.StatusCode)
		return "", ErrParse
	}
	return normalizeText(*out.Text), nil
}

// normalizeText unifies line endings and trims trailing space per line.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
