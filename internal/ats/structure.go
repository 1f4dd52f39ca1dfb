package ats

import (
	"math"
	"regexp"
	"strings"
)

// Sections records which standard resume headings were found.
type Sections struct {
	Summary        bool `json:"summary"`
	Skills         bool `json:"skills"`
	Experience     bool `json:"experience"`
	Projects       bool `json:"projects"`
	Education      bool `json:"education"`
	Certifications bool `json:"certifications"`
}

// StructureResult scores section coverage and bullet balance.
type StructureResult struct {
	Score       int      `json:"score"`
	Sections    Sections `json:"sections"`
	BulletRatio float64  `json:"bulletRatio"`
}

var (
	summaryRe        = regexp.MustCompile(`(?i)\b(?:summary|objective)\b`)
	skillsRe         = regexp.MustCompile(`(?i)\bskills\b`)
	experienceRe     = regexp.MustCompile(`(?i)\b(?:experience|work experience|professional experience)\b`)
	projectsRe       = regexp.MustCompile(`(?i)\bprojects\b`)
	educationRe      = regexp.MustCompile(`(?i)\beducation\b`)
	certificationsRe = regexp.MustCompile(`(?i)\b(?:certifications|licenses)\b`)
)

const (
	requiredSectionPoints = 60.0
	optionalSectionPoints = 20.0
	bulletBalancePoints   = 20.0
	idealBulletRatio      = 0.5
)

// ScoreStructure awards up to 60 points for the required sections (skills,
// experience, education), up to 20 for the optional ones (summary, projects,
// certifications) and up to 20 for a bullet ratio close to one half.
func ScoreStructure(resumeText string) StructureResult {
	s := Sections{
		Summary:        summaryRe.MatchString(resumeText),
		Skills:         skillsRe.MatchString(resumeText),
		Experience:     experienceRe.MatchString(resumeText),
		Projects:       projectsRe.MatchString(resumeText),
		Education:      educationRe.MatchString(resumeText),
		Certifications: certificationsRe.MatchString(resumeText),
	}

	reqHits := countTrue(s.Skills, s.Experience, s.Education)
	optHits := countTrue(s.Summary, s.Projects, s.Certifications)

	ratio := bulletRatio(resumeText)
	delta := math.Abs(ratio - idealBulletRatio)
	bulletScore := math.Max(0, bulletBalancePoints-(delta/idealBulletRatio)*bulletBalancePoints)

	score := requiredSectionPoints*float64(reqHits)/3 +
		optionalSectionPoints*float64(optHits)/3 +
		bulletScore

	return StructureResult{
		Score:       int(math.Round(score)),
		Sections:    s,
		BulletRatio: round2(ratio),
	}
}

// bulletRatio is bullet lines over all lines; 0 for blank text.
func bulletRatio(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	lines := splitLines(text)
	bullets := 0
	for _, line := range lines {
		if isBulletLine(line) {
			bullets++
		}
	}
	return float64(bullets) / float64(len(lines))
}

func countTrue(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
