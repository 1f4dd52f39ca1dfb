package ats

import (
	"math"
	"regexp"
	"strconv"
	"time"
)

// RecencyResult reports the latest year mentioned in the resume. Both
// pointers are nil when no year is found.
type RecencyResult struct {
	Score            int  `json:"score"`
	MostRecentYear   *int `json:"mostRecentYear"`
	YearsSinceRecent *int `json:"yearsSinceRecent"`
}

// digitRunRe finds digit runs; a year is a run of exactly four digits in
// 1900-2099, so "Jan 2021", "Sept2019" and "2018-2020" all qualify while
// phone numbers and zip codes do not.
var digitRunRe = regexp.MustCompile(`\d+`)

const noYearPenaltyYears = 99

// ScoreRecency scores 100 for activity this year and loses 15 points per year since.
func ScoreRecency(resumeText string, now time.Time) RecencyResult {
	mostRecent := 0
	for _, run := range digitRunRe.FindAllString(resumeText, -1) {
		if len(run) != 4 || (run[:2] != "19" && run[:2] != "20") {
			continue
		}
		y, err := strconv.Atoi(run)
		if err != nil {
			continue
		}
		mostRecent = max(mostRecent, y)
	}

	if mostRecent == 0 {
		return RecencyResult{
			Score: int(math.Max(0, 100-noYearPenaltyYears*15)),
		}
	}

	yearsAgo := max(0, now.Year()-mostRecent)
	return RecencyResult{
		Score:            int(math.Round(math.Max(0, 100-float64(yearsAgo)*15))),
		MostRecentYear:   &mostRecent,
		YearsSinceRecent: &yearsAgo,
	}
}
