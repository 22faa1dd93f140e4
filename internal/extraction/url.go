package extraction

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"
	"unicode"

	"golang.org/x/net/html"

	"github.com/felixgeelhaar/inkwell/internal/proxy"
)

// MaxPageBytes caps how much of a fetched page is read.
const MaxPageBytes = 2 << 20

// Page is a fetched web page.
type Page struct {
	URL         string
	ContentType string
	Body        []byte
}

// Article is the readable text of a page.
type Article struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
	Words int    `json:"words"`
}

// Fetcher retrieves pages for the same-origin fetch proxy.
type Fetcher struct {
	client *http.Client
	logger *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*fetcherConfig)

type fetcherConfig struct {
	allowPrivate bool
	logger       *slog.Logger
}

// AllowPrivateNetworks lets the fetcher reach loopback and private addresses.
func AllowPrivateNetworks() FetcherOption {
	return func(c *fetcherConfig) { c.allowPrivate = true }
}

// WithFetchLogger sets the logger.
func WithFetchLogger(l *slog.Logger) FetcherOption {
	return func(c *fetcherConfig) { c.logger = l }
}

// NewFetcher creates a fetcher with a fixed timeout. Unless
// AllowPrivateNetworks is given, connections to non-public addresses are refused.
func NewFetcher(timeout time.Duration, opts ...FetcherOption) *Fetcher {
	cfg := fetcherConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	dialer := &net.Dialer{Timeout: timeout}
	if !cfg.allowPrivate {
		dialer.Control = func(network, address string, _ syscall.RawConn) error {
			host, _, err := net.SplitHostPort(address)
			if err != nil {
				return err
			}
			if ip := net.ParseIP(host); ip != nil && !isPublic(ip) {
				return ErrBlockedHost
			}
			return nil
		}
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext
	transport.Proxy = nil

	return &Fetcher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return errors.New("too many redirects")
				}
				if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
					return ErrInvalidURL
				}
				return nil
			},
		},
		logger: cfg.logger,
	}
}

func isPublic(ip net.IP) bool {
	return !(ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsMulticast())
}

// ParseURL validates a user-supplied URL.
func ParseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidURL
	}
	return u, nil
}

// Fetch GETs rawURL. Upstream non-2xx replies become *proxy.Error with the
// same status; bodies beyond MaxPageBytes are truncated.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	u, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Inkwell/1.0)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, ErrBlockedHost) {
			return nil, ErrBlockedHost
		}
		if errors.Is(err, ErrInvalidURL) {
			return nil, ErrInvalidURL
		}
		f.logger.WarnContext(ctx, "page fetch failed", "host", u.Host, "error", err)
		return nil, fmt.Errorf("fetch %s: %w", u.Host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &proxy.Error{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("fetching %s returned %s", u.Host, resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", u.Host, err)
	}
	return &Page{URL: resp.Request.URL.String(), ContentType: resp.Header.Get("Content-Type"), Body: body}, nil
}

// skippedElements never contribute text.
var skippedElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
	"nav": true, "footer": true, "header": true, "aside": true,
	"svg": true, "iframe": true,
}

var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "main": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "ul": true, "ol": true, "br": true, "tr": true, "blockquote": true, "pre": true,
}

// ExtractArticle parses HTML and returns its title and readable text.
func ExtractArticle(r io.Reader) (title, text string, err error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrParse, err)
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(squashSpace(n.Data))
			return
		case html.ElementNode:
			if n.Data == "title" {
				if title == "" {
					title = collapseSpaces(nodeText(n))
				}
				return
			}
			if skippedElements[n.Data] {
				return
			}
			if blockElements[n.Data] {
				sb.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElements[n.Data] {
			sb.WriteByte('\n')
		}
	}
	walk(doc)

	return title, collapseText(sb.String()), nil
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

// squashSpace replaces each whitespace run, newlines included, with one space
// and keeps leading and trailing runs so adjacent inline text stays separated.
func squashSpace(s string) string {
	var sb strings.Builder
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				sb.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		sb.WriteRune(r)
	}
	return sb.String()
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// collapseText collapses runs of whitespace within lines and drops blank lines.
func collapseText(s string) string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = collapseSpaces(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// URLExtractor fetches a page and extracts its readable text.
type URLExtractor struct {
	fetcher *Fetcher
}

// NewURLExtractor creates an extractor over fetcher.
func NewURLExtractor(fetcher *Fetcher) *URLExtractor {
	return &URLExtractor{fetcher: fetcher}
}

// Extract fetches rawURL and returns its article text. Plain-text pages are
// returned as-is.
func (e *URLExtractor) Extract(ctx context.Context, rawURL string) (*Article, error) {
	page, err := e.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	var title, text string
	if strings.HasPrefix(page.ContentType, "text/plain") {
		text = normalizeText(string(page.Body))
	} else {
		title, text, err = ExtractArticle(bytes.NewReader(page.Body))
		if err != nil {
			return nil, err
		}
	}
	if text == "" {
		return nil, ErrNoText
	}
	return &Article{URL: page.URL, Title: title, Text: text, Words: len(strings.Fields(text))}, nil
}
