package extraction

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/inkwell/internal/proxy"
)

const samplePage = `<!doctype html>
<html>
<head>
  <title>  The   Art of Editing </title>
  <style>body { color: red }</style>
  <script>var tracking = true;</script>
</head>
<body>
  <header><a href="/">Home</a></header>
  <nav><ul><li>Menu item</li></ul></nav>
  <main>
    <h1>Editing well</h1>
    <p>Good   writing is
       rewriting.</p>
    <p>Cut what you <em>can</em>.</p>
  </main>
  <aside>Related posts</aside>
  <footer>Copyright</footer>
  <noscript>Enable JS</noscript>
</body>
</html>`

func TestExtractArticle(t *testing.T) {
	title, text, err := ExtractArticle(strings.NewReader(samplePage))
	require.NoError(t, err)

	assert.Equal(t, "The Art of Editing", title)
	assert.Equal(t, "Editing well\nGood writing is rewriting.\nCut what you can.", text)
	for _, hidden := range []string{"tracking", "color", "Menu item", "Home", "Related", "Copyright", "Enable JS"} {
		assert.NotContains(t, text, hidden)
	}
}

func TestParseURL(t *testing.T) {
	for _, raw := range []string{"", "example.com", "ftp://example.com/x", "javascript:alert(1)", "http://"} {
		_, err := ParseURL(raw)
		assert.ErrorIs(t, err, ErrInvalidURL, raw)
	}

	u, err := ParseURL("  https://example.com/post?id=1 ")
	require.NoError(t, err)
	assert.Equal(t, "example.com", u.Host)
}

func TestFetcher_BlocksPrivateAddressesByDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach a loopback server")
	}))
	defer srv.Close()

	_, err := NewFetcher(2 * time.Second).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrBlockedHost)
}

func TestFetcher_NonSuccessStatusPassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewFetcher(2*time.Second, AllowPrivateNetworks()).Fetch(context.Background(), srv.URL+"/missing")
	var pe *proxy.Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusNotFound, pe.Status)
}

func TestFetcher_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := NewFetcher(50*time.Millisecond, AllowPrivateNetworks()).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	status, _ := proxy.TranslateError(err)
	assert.Equal(t, http.StatusGatewayTimeout, status)
}

func TestURLExtractor_Extract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Inkwell")
		switch r.URL.Path {
		case "/article":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(samplePage))
		case "/plain":
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte("just words\r\n"))
		case "/empty":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body><script>x()</script></body></html>"))
		}
	}))
	defer srv.Close()

	ex := NewURLExtractor(NewFetcher(2*time.Second, AllowPrivateNetworks()))

	article, err := ex.Extract(context.Background(), srv.URL+"/article")
	require.NoError(t, err)
	assert.Equal(t, "The Art of Editing", article.Title)
	assert.Equal(t, srv.URL+"/article", article.URL)
	assert.Positive(t, article.Words)

	article, err = ex.Extract(context.Background(), srv.URL+"/plain")
	require.NoError(t, err)
	assert.Equal(t, "just words", article.Text)
	assert.Empty(t, article.Title)

	_, err = ex.Extract(context.Background(), srv.URL+"/empty")
	assert.ErrorIs(t, err, ErrNoText)
}
