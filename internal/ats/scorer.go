package ats

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Version identifies the scoring rules. Bump it whenever a factor or
// weight changes so that cached results are invalidated.
const Version = "heuristic-v1"

// Weights assigns a non-negative weight to every factor.
type Weights struct {
	Keywords     float64 `json:"keywords" yaml:"keywords"`
	Semantic     float64 `json:"semantic" yaml:"semantic"`
	Structure    float64 `json:"structure" yaml:"structure"`
	Grammar      float64 `json:"grammar" yaml:"grammar"`
	ActionImpact float64 `json:"actionImpact" yaml:"actionImpact"`
	Recency      float64 `json:"recency" yaml:"recency"`
	Parseability float64 `json:"parseability" yaml:"parseability"`
}

// DefaultWeights returns the canonical weight table (sums to 100).
func DefaultWeights() Weights {
	return Weights{
		Keywords:     35,
		Semantic:     10,
		Structure:    15,
		Grammar:      10,
		ActionImpact: 15,
		Recency:      10,
		Parseability: 5,
	}
}

// Sum returns the total weight.
func (w Weights) Sum() float64 {
	return w.Keywords + w.Semantic + w.Structure + w.Grammar + w.ActionImpact + w.Recency + w.Parseability
}

// Validate rejects negative weights and an all-zero table.
func (w Weights) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"keywords", w.Keywords},
		{"semantic", w.Semantic},
		{"structure", w.Structure},
		{"grammar", w.Grammar},
		{"actionImpact", w.ActionImpact},
		{"recency", w.Recency},
		{"parseability", w.Parseability},
	} {
		if f.value < 0 {
			return fmt.Errorf("weight %s must be non-negative, got %v", f.name, f.value)
		}
	}
	if w.Sum() == 0 {
		return fmt.Errorf("weights must not all be zero")
	}
	return nil
}

// Factors is the per-factor breakdown.
type Factors struct {
	Keywords     KeywordResult      `json:"keywords"`
	Semantic     SemanticResult     `json:"semantic"`
	Structure    StructureResult    `json:"structure"`
	Grammar      GrammarResult      `json:"grammar"`
	ActionImpact ImpactResult       `json:"actionImpact"`
	Recency      RecencyResult      `json:"recency"`
	Parseability ParseabilityResult `json:"parseability"`
}

// Result is the full scoring output.
type Result struct {
	OverallScore int     `json:"overallScore"`
	Weights      Weights `json:"weights"`
	Factors      Factors `json:"factors"`
}

// Aggregate returns the rounded weighted average of the factor scores, or 0
// when the weights sum to zero.
func Aggregate(f Factors, w Weights) int {
	sum := w.Sum()
	if sum == 0 {
		return 0
	}
	total := float64(f.Keywords.Score)*w.Keywords +
		float64(f.Semantic.Score)*w.Semantic +
		float64(f.Structure.Score)*w.Structure +
		float64(f.Grammar.Score)*w.Grammar +
		float64(f.ActionImpact.Score)*w.ActionImpact +
		float64(f.Recency.Score)*w.Recency +
		float64(f.Parseability.Score)*w.Parseability
	return int(math.Round(clamp(total/sum, 0, 100)))
}

// Scorer runs every factor and aggregates them. A Scorer is immutable and
// safe for concurrent use as long as its StyleAnalyzer is.
type Scorer struct {
	lex     *Lexicon
	style   StyleAnalyzer
	weights Weights
	now     func() time.Time
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithLexicon replaces the default word tables.
func WithLexicon(l *Lexicon) Option {
	return func(s *Scorer) { s.lex = l }
}

// WithWeights replaces the default weight table.
func WithWeights(w Weights) Option {
	return func(s *Scorer) { s.weights = w }
}

// WithClock sets the time source used by the recency factor.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) { s.now = now }
}

// NewScorer creates a Scorer around the given style analyzer.
func NewScorer(style StyleAnalyzer, opts ...Option) *Scorer {
	s := &Scorer{
		lex:     DefaultLexicon(),
		style:   style,
		weights: DefaultWeights(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fingerprinter is implemented by style analyzers whose settings change
// their output.
type Fingerprinter interface {
	Fingerprint() string
}

// Fingerprint identifies everything that shapes a Result: the rule Version,
// the weights and the analyzer settings. Results computed under different
// fingerprints are not interchangeable.
func (s *Scorer) Fingerprint() string {
	w := s.weights
	fp := fmt.Sprintf("%s|weights=%g,%g,%g,%g,%g,%g,%g", Version,
		w.Keywords, w.Semantic, w.Structure, w.Grammar, w.ActionImpact, w.Recency, w.Parseability)
	if f, ok := s.style.(Fingerprinter); ok {
		fp += "|style=" + f.Fingerprint()
	}
	return fp
}

// Weights returns the weight table in use.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score evaluates resumeText against jobText. The only failure is a style
// analyzer error, in which case no partial result is returned.
func (s *Scorer) Score(ctx context.Context, resumeText, jobText string) (*Result, error) {
	grammar, err := ScoreGrammar(ctx, s.style, resumeText)
	if err != nil {
		return nil, err
	}

	f := Factors{
		Keywords:     s.lex.ScoreKeywords(resumeText, jobText),
		Semantic:     s.lex.ScoreSemantic(resumeText, jobText),
		Structure:    ScoreStructure(resumeText),
		Grammar:      grammar,
		ActionImpact: s.lex.ScoreActionImpact(resumeText),
		Recency:      ScoreRecency(resumeText, s.now()),
		Parseability: ScoreParseability(resumeText),
	}

	return &Result{
		OverallScore: Aggregate(f, s.weights),
		Weights:      s.weights,
		Factors:      f,
	}, nil
}
