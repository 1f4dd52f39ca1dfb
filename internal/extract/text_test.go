package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Empty", "", ""},
		{"Only whitespace", "   \n  \n  ", ""},
		{"Collapse spaces", "Line    with \t multiple    spaces", "Line with multiple spaces"},
		{"Non-breaking space", "Go\u00a0developer", "Go developer"},
		{"CRLF and CR", "Line 1\r\nLine 2\rLine 3", "Line 1\nLine 2\nLine 3"},
		{"Cap blank lines", "Line 1\n\n\n\n\nLine 2", "Line 1\n\nLine 2"},
		{"Bullets keep marker", "   - Item 1\n  * Item 2", "- Item 1\n* Item 2"},
		{"Exotic glyph normalized", "▪ Built APIs\n●Led team\n\uf0b7 Shipped", "• Built APIs\n• Led team\n• Shipped"},
		{"Unicode kept", "Résumé 🚀 spéciàl", "Résumé 🚀 spéciàl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestCleanText_Deterministic(t *testing.T) {
	input := "Test content   with   spaces\n\n\nMultiple   blank   lines"
	assert.Equal(t, CleanText(input), CleanText(input))
	assert.Equal(t, CleanText(input), CleanText(CleanText(input)))
}

func TestLooksLikeHTML(t *testing.T) {
	assert.True(t, LooksLikeHTML("<p>Go developer</p>"))
	assert.True(t, LooksLikeHTML("Requirements:<br/>Go"))
	assert.True(t, LooksLikeHTML(`<ul class="reqs"><li>Go</li></ul>`))
	assert.False(t, LooksLikeHTML("Salary < 100k and experience > 3 years"))
	assert.False(t, LooksLikeHTML("C++ <3"))
}

func TestHTMLToText(t *testing.T) {
	html := `<html><head><title>Job</title><style>p{}</style></head><body>
<h2>Backend Engineer</h2>
<p>We use <b>Go</b> and PostgreSQL.</p>
<ul><li>Kubernetes</li><li>gRPC &amp; REST</li></ul>
<script>alert(1)</script>
</body></html>`

	text, err := HTMLToText(html)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer\nWe use Go and PostgreSQL.\n- Kubernetes\n- gRPC & REST", text)
}

func TestJobDescription(t *testing.T) {
	text, err := JobDescription("Need   Python\r\nskills.")
	require.NoError(t, err)
	assert.Equal(t, "Need Python\nskills.", text)

	text, err = JobDescription("<p>Need Python</p><p>skills.</p>")
	require.NoError(t, err)
	assert.Equal(t, "Need Python\nskills.", text)
}
