// Package analytics summarizes a user's resume score history: overall stats,
// recent progress, improvement trend, per-factor averages and per-job
// insights.
package analytics

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/placify/internal/ats"
	"github.com/jonathan/placify/internal/db"
)

const (
	recentProgressLimit = 10
	jobInsightsLimit    = 10
)

// Stats are aggregate figures over every live score.
type Stats struct {
	TotalScores  int     `json:"totalScores"`
	AverageScore float64 `json:"averageScore"`
	BestScore    int     `json:"bestScore"`
	WorstScore   int     `json:"worstScore"`
	LatestScore  int     `json:"latestScore"`
	FirstScore   int     `json:"firstScore"`
}

// ProgressPoint is one entry of the recent progress list.
type ProgressPoint struct {
	ID            uuid.UUID `json:"id"`
	Score         int       `json:"score"`
	JobTitle      string    `json:"jobTitle,omitempty"`
	CompanyName   string    `json:"companyName,omitempty"`
	KeywordScore  int       `json:"keywordScore"`
	SemanticScore int       `json:"semanticScore"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Trend compares the latest score with the one before it.
type Trend struct {
	Current          int     `json:"current"`
	Previous         int     `json:"previous"`
	Difference       int     `json:"difference"`
	PercentageChange float64 `json:"percentageChange"`
	IsImprovement    bool    `json:"isImprovement"`
}

// FactorAverages holds the mean of each factor score. Records whose
// breakdown cannot be decoded are skipped.
type FactorAverages struct {
	Keywords     float64 `json:"keywords"`
	Semantic     float64 `json:"semantic"`
	Structure    float64 `json:"structure"`
	Grammar      float64 `json:"grammar"`
	ActionImpact float64 `json:"actionImpact"`
	Recency      float64 `json:"recency"`
	Parseability float64 `json:"parseability"`
	Samples      int     `json:"samples"`
}

// JobInsight groups attempts against the same job title and company.
type JobInsight struct {
	JobDescriptionHash string    `json:"jobDescriptionHash"`
	JobTitle           string    `json:"jobTitle,omitempty"`
	CompanyName        string    `json:"companyName,omitempty"`
	AverageScore       float64   `json:"averageScore"`
	BestScore          int       `json:"bestScore"`
	Attempts           int       `json:"attempts"`
	LastAttempt        time.Time `json:"lastAttempt"`
}

// Report is the full analytics payload for one user.
type Report struct {
	Stats            Stats           `json:"stats"`
	RecentProgress   []ProgressPoint `json:"recentProgress"`
	ImprovementTrend *Trend          `json:"improvementTrend"`
	FactorAverages   FactorAverages  `json:"categoryAnalytics"`
	JobInsights      []JobInsight    `json:"jobInsights"`
}

// JobDescriptionHash identifies "the same job" across attempts: the MD5 hex
// of lower("<title>|<company>").
func JobDescriptionHash(jobTitle, companyName string) string {
	sum := md5.Sum([]byte(strings.ToLower(jobTitle + "|" + companyName)))
	return hex.EncodeToString(sum[:])
}

// Build computes the report. scores may be in any order; soft-deleted
// records are ignored.
func Build(scores []db.ResumeScore) Report {
	live := make([]db.ResumeScore, 0, len(scores))
	for _, s := range scores {
		if !s.IsDeleted {
			live = append(live, s)
		}
	}
	// Oldest first.
	sort.SliceStable(live, func(i, j int) bool {
		return live[i].CreatedAt.Before(live[j].CreatedAt)
	})

	breakdowns := make([]*ats.Result, len(live))
	for i, s := range live {
		breakdowns[i] = decodeBreakdown(s.Breakdown)
	}

	progress := recentProgress(live, breakdowns)
	return Report{
		Stats:            computeStats(live),
		RecentProgress:   progress,
		ImprovementTrend: trend(progress),
		FactorAverages:   factorAverages(breakdowns),
		JobInsights:      jobInsights(live),
	}
}

func computeStats(live []db.ResumeScore) Stats {
	if len(live) == 0 {
		return Stats{}
	}
	st := Stats{
		TotalScores: len(live),
		BestScore:   live[0].Score,
		WorstScore:  live[0].Score,
		FirstScore:  live[0].Score,
		LatestScore: live[len(live)-1].Score,
	}
	sum := 0
	for _, s := range live {
		sum += s.Score
		if s.Score > st.BestScore {
			st.BestScore = s.Score
		}
		if s.Score < st.WorstScore {
			st.WorstScore = s.Score
		}
	}
	st.AverageScore = round(float64(sum)/float64(len(live)), 2)
	return st
}

// recentProgress returns up to ten entries, newest first.
func recentProgress(live []db.ResumeScore, breakdowns []*ats.Result) []ProgressPoint {
	out := make([]ProgressPoint, 0, recentProgressLimit)
	for i := len(live) - 1; i >= 0 && len(out) < recentProgressLimit; i-- {
		s := live[i]
		p := ProgressPoint{
			ID:          s.ID,
			Score:       s.Score,
			JobTitle:    s.JobTitle,
			CompanyName: s.CompanyName,
			CreatedAt:   s.CreatedAt,
		}
		if b := breakdowns[i]; b != nil {
			p.KeywordScore = b.Factors.Keywords.Score
			p.SemanticScore = b.Factors.Semantic.Score
		}
		out = append(out, p)
	}
	return out
}

func trend(progress []ProgressPoint) *Trend {
	if len(progress) < 2 {
		return nil
	}
	cur, prev := progress[0].Score, progress[1].Score
	t := &Trend{
		Current:       cur,
		Previous:      prev,
		Difference:    cur - prev,
		IsImprovement: cur > prev,
	}
	if prev != 0 {
		t.PercentageChange = round(float64(cur-prev)/float64(prev)*100, 1)
	}
	return t
}

func factorAverages(breakdowns []*ats.Result) FactorAverages {
	var fa FactorAverages
	for _, b := range breakdowns {
		if b == nil {
			continue
		}
		f := b.Factors
		fa.Keywords += float64(f.Keywords.Score)
		fa.Semantic += float64(f.Semantic.Score)
		fa.Structure += float64(f.Structure.Score)
		fa.Grammar += float64(f.Grammar.Score)
		fa.ActionImpact += float64(f.ActionImpact.Score)
		fa.Recency += float64(f.Recency.Score)
		fa.Parseability += float64(f.Parseability.Score)
		fa.Samples++
	}
	if fa.Samples == 0 {
		return fa
	}
	n := float64(fa.Samples)
	fa.Keywords = round(fa.Keywords/n, 2)
	fa.Semantic = round(fa.Semantic/n, 2)
	fa.Structure = round(fa.Structure/n, 2)
	fa.Grammar = round(fa.Grammar/n, 2)
	fa.ActionImpact = round(fa.ActionImpact/n, 2)
	fa.Recency = round(fa.Recency/n, 2)
	fa.Parseability = round(fa.Parseability/n, 2)
	return fa
}

// jobInsights groups by hash, keeping the title and company of the first
// attempt, and returns the ten most recently attempted groups.
func jobInsights(live []db.ResumeScore) []JobInsight {
	byHash := make(map[string]*JobInsight)
	sums := make(map[string]int)
	var order []string
	for _, s := range live {
		hash := s.JobDescriptionHash
		if hash == "" {
			hash = JobDescriptionHash(s.JobTitle, s.CompanyName)
		}
		in, ok := byHash[hash]
		if !ok {
			in = &JobInsight{
				JobDescriptionHash: hash,
				JobTitle:           s.JobTitle,
				CompanyName:        s.CompanyName,
				BestScore:          s.Score,
			}
			byHash[hash] = in
			order = append(order, hash)
		}
		in.Attempts++
		sums[hash] += s.Score
		if s.Score > in.BestScore {
			in.BestScore = s.Score
		}
		if s.CreatedAt.After(in.LastAttempt) {
			in.LastAttempt = s.CreatedAt
		}
	}

	out := make([]JobInsight, 0, len(order))
	for _, h := range order {
		in := byHash[h]
		in.AverageScore = round(float64(sums[h])/float64(in.Attempts), 2)
		out = append(out, *in)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastAttempt.After(out[j].LastAttempt)
	})
	if len(out) > jobInsightsLimit {
		out = out[:jobInsightsLimit]
	}
	return out
}

func decodeBreakdown(raw []byte) *ats.Result {
	if len(raw) == 0 {
		return nil
	}
	var r ats.Result
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil
	}
	return &r
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
