package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobPage = `
<html>
	<head><title>Careers</title></head>
	<body>
		<nav>Jobs | About | Blog</nav>
		<div class="sidebar">Similar roles</div>
		<div class="job-description">
			<h2>Backend Engineer</h2>
			<p>Build payment services in Go.</p>
			<ul><li>3+ years of Go</li><li>PostgreSQL</li></ul>
		</div>
		<footer>© Acme</footer>
	</body>
</html>`

func serve(t *testing.T, contentType, body string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestURL_Success(t *testing.T) {
	srv := serve(t, "text/html", "<html><body><h1>Test</h1></body></html>", http.StatusOK)

	result, err := URL(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestURL_InvalidURL(t *testing.T) {
	for _, u := range []string{"not-a-valid-url", "ftp://example.com/job", "file:///etc/passwd"} {
		t.Run(u, func(t *testing.T) {
			_, err := URL(context.Background(), u, nil)
			require.Error(t, err)

			var fetchErr *Error
			assert.ErrorAs(t, err, &fetchErr)
			assert.Contains(t, err.Error(), "invalid URL")
		})
	}
}

func TestURL_HTTPError(t *testing.T) {
	srv := serve(t, "text/html", "", http.StatusNotFound)

	result, err := URL(context.Background(), srv.URL, nil)
	require.Error(t, err)
	assert.NotNil(t, result) // Result is returned even on error
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
	assert.Contains(t, err.Error(), "404")
}

func TestURL_TooLarge(t *testing.T) {
	srv := serve(t, "text/html", strings.Repeat("a", 2048), http.StatusOK)

	opts := DefaultOptions()
	opts.MaxBytes = 1024
	_, err := URL(context.Background(), srv.URL, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "larger than 1024 bytes")
}

func TestJobPosting_HTML(t *testing.T) {
	srv := serve(t, "text/html; charset=utf-8", jobPage, http.StatusOK)

	result, err := JobPosting(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Contains(t, result.Text, "Backend Engineer")
	assert.Contains(t, result.Text, "- 3+ years of Go")
	assert.Contains(t, result.Text, "- PostgreSQL")
	assert.NotContains(t, result.Text, "Similar roles")
	assert.NotContains(t, result.Text, "Blog")
	assert.NotContains(t, result.Text, "Acme")
}

func TestJobPosting_PlainText(t *testing.T) {
	srv := serve(t, "text/plain", "Data Analyst\r\n\r\nSQL and Python required.", http.StatusOK)

	result, err := JobPosting(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Contains(t, result.Text, "SQL and Python required.")
	assert.NotContains(t, result.Text, "\r")
}

func TestJobPosting_EmptyPage(t *testing.T) {
	srv := serve(t, "text/html", "<html><body><nav>menu</nav></body></html>", http.StatusOK)

	_, err := JobPosting(context.Background(), srv.URL, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page has no text")
}

func TestJobPosting_RendersShortPages(t *testing.T) {
	srv := serve(t, "text/html", `<html><body><div id="root">Loading...</div></body></html>`, http.StatusOK)

	var rendered []string
	opts := DefaultOptions()
	opts.Render = func(_ context.Context, url string) (string, error) {
		rendered = append(rendered, url)
		return jobPage, nil
	}

	result, err := JobPosting(context.Background(), srv.URL, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL}, rendered)
	assert.Contains(t, result.Text, "Build payment services in Go.")
	assert.Contains(t, result.HTML, "job-description")
}

func TestJobPosting_RenderFailureKeepsFetch(t *testing.T) {
	srv := serve(t, "text/html", `<html><body><main>Short posting: Go developer</main></body></html>`, http.StatusOK)

	opts := DefaultOptions()
	opts.Render = func(context.Context, string) (string, error) {
		return "", errors.New("chrome not found")
	}

	result, err := JobPosting(context.Background(), srv.URL, opts)
	require.NoError(t, err)
	assert.Equal(t, "Short posting: Go developer", result.Text)
}

func TestJobPosting_LongPagesSkipRender(t *testing.T) {
	body := "<html><body><main><p>" + strings.Repeat("Go engineer wanted. ", 40) + "</p></main></body></html>"
	srv := serve(t, "text/html", body, http.StatusOK)

	opts := DefaultOptions()
	opts.Render = func(context.Context, string) (string, error) {
		t.Fatal("render should not be called")
		return "", nil
	}

	_, err := JobPosting(context.Background(), srv.URL, opts)
	require.NoError(t, err)
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("  Loading...  "))
	assert.False(t, ShouldUseBrowser(strings.Repeat("x", MinContentLength)))
}

func TestExtractMainText_FallbackToBody(t *testing.T) {
	html := `<html><body><div>Some content here.</div></body></html>`

	text, err := ExtractMainText(html, DefaultTextSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Some content here")
}

func TestExtractMainText_NoiseSelectors(t *testing.T) {
	html := `<html><body><main><p>Role details</p><div class="apply-box">Apply now</div></main></body></html>`

	text, err := ExtractMainText(html, DefaultTextSelectors(), ".apply-box")
	require.NoError(t, err)
	assert.Contains(t, text, "Role details")
	assert.NotContains(t, text, "Apply now")
}

func TestJobPostingSelectors(t *testing.T) {
	selectors := JobPostingSelectors()
	assert.Contains(t, selectors, ".job-description")
	assert.Contains(t, selectors, "#job-content")
}
