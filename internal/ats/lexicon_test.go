package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"Empty text", "", nil},
		{"Only punctuation", "!!! ... ---", nil},
		{"Tech symbols kept", "C++, C# and Node.js", []string{"c++", "c#", "and", "node.js"}},
		{"Sentence period trimmed", "Experience with node.js.", []string{"experience", "with", "node.js"}},
		{"Accents folded", "Résumé naïve", []string{"resume", "naive"}},
		{"Percent dropped", "by 30%", []string{"by", "30"}},
		{"Hyphenated kept", "fast-paced team", []string{"fast-paced", "team"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokenize(tt.text))
		})
	}
}

func TestCanonize(t *testing.T) {
	tests := []struct {
		name     string
		tokens   []string
		expected []string
	}{
		{"Synonyms mapped", []string{"reactjs", "js", "k8s", "golang"}, []string{"react.js", "javascript", "kubernetes", "go"}},
		{"Canonical kept", []string{"react.js", "javascript"}, []string{"react.js", "javascript"}},
		{"Unknown kept", []string{"rust", "elixir"}, []string{"rust", "elixir"}},
		{"Empty", []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Canonize(tt.tokens))
		})
	}
}

func TestCanonize_Idempotent(t *testing.T) {
	inputs := [][]string{
		{"reactjs", "react", "react.js", "node", "nodejs", "node.js"},
		{"ts", "typescript", "js", "postgres", "postgre", "mongo"},
		{"k8s", "github", "next", "nextjs", "restful", "apis", "golang"},
		Tokenize("Built REST APIs in Golang on K8s with Postgres and ReactJS"),
	}

	for _, in := range inputs {
		once := Canonize(in)
		assert.Equal(t, once, Canonize(once), "Canonize should be idempotent for %v", in)
	}
}

func TestFilterStop(t *testing.T) {
	got := FilterStop([]string{"we", "are", "looking", "for", "python", "and", "go", "skills"})
	assert.Equal(t, []string{"python", "go"}, got)
	assert.Empty(t, FilterStop(nil))
}

func TestNewLexicon_CustomTables(t *testing.T) {
	lex := NewLexicon([]string{"Foo"}, map[string]string{"PG": "Postgres"}, []string{"Shipped"})

	assert.Equal(t, []string{"bar"}, lex.FilterStop([]string{"foo", "bar"}))
	assert.Equal(t, []string{"postgres", "postgres"}, lex.Canonize([]string{"pg", "postgres"}))
	assert.True(t, lex.IsActionVerb("shipped"))
	assert.False(t, lex.IsActionVerb("built"))
}

func TestNewLexicon_SynonymChains(t *testing.T) {
	tests := []struct {
		name     string
		synonyms map[string]string
		in       []string
		expected []string
	}{
		{
			name:     "Chain resolves to its end",
			synonyms: map[string]string{"a": "b", "b": "c"},
			in:       []string{"a", "b", "c"},
			expected: []string{"c", "c", "c"},
		},
		{
			name:     "Long chain with mixed case",
			synonyms: map[string]string{"K8S": "Kube", "kube": "K8s-Engine", "k8s-engine": "kubernetes"},
			in:       []string{"k8s", "kube", "k8s-engine", "kubernetes"},
			expected: []string{"kubernetes", "kubernetes", "kubernetes", "kubernetes"},
		},
		{
			name:     "Cycle picks alphabetically first member",
			synonyms: map[string]string{"y": "z", "z": "x", "x": "y", "w": "y"},
			in:       []string{"w", "x", "y", "z"},
			expected: []string{"x", "x", "x", "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex := NewLexicon(nil, tt.synonyms, nil)
			got := lex.Canonize(tt.in)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, got, lex.Canonize(got))
		})
	}
}
