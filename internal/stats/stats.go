// Package stats computes assessment statistics over submission records.
//
// Every function in this package is pure: it reads the records it is given and
// returns a freshly allocated result. An empty input always produces the
// zero-valued shape for that result (empty maps and slices, zero numbers).
package stats

import (
	"math"
	"time"

	"github.com/assessmentslol/assessments/internal/types"
)

// Record is the subset of a submission the aggregations read.
type Record struct {
	Platform       types.Platform
	Score          *int
	QuestionsCount *int
	TestCases      map[string]bool
	Status         types.SubmissionStatus
	RoleType       types.RoleType // empty when the role is unknown
	CreatedAt      time.Time
}

// Round2 rounds to two decimal places, with halves rounded toward positive infinity.
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

// RoundInt rounds to the nearest integer, with halves rounded toward positive infinity.
func RoundInt(x float64) float64 {
	return math.Floor(x + 0.5)
}

// successRate returns the MOVED_FORWARD share of records as a percentage
// rounded to two decimals. It returns 0 for an empty set.
func successRate(records []Record) float64 {
	if len(records) == 0 {
		return 0
	}
	moved := 0
	for _, r := range records {
		if r.Status == types.StatusMovedForward {
			moved++
		}
	}
	return Round2(float64(moved) / float64(len(records)) * 100)
}

// successRateByRole groups records by observed role type. Records without a
// role type are ignored.
func successRateByRole(records []Record) map[types.RoleType]float64 {
	groups := make(map[types.RoleType][]Record)
	for _, r := range records {
		if r.RoleType == "" {
			continue
		}
		groups[r.RoleType] = append(groups[r.RoleType], r)
	}
	rates := make(map[types.RoleType]float64, len(groups))
	for role, group := range groups {
		rates[role] = successRate(group)
	}
	return rates
}

// codeSignalScores returns the scores of CodeSignal records that carry one.
func codeSignalScores(records []Record) []int {
	var scores []int
	for _, r := range records {
		if r.Platform == types.PlatformCodeSignal && r.Score != nil {
			scores = append(scores, *r.Score)
		}
	}
	return scores
}

func filterPlatform(records []Record, p types.Platform) []Record {
	var out []Record
	for _, r := range records {
		if r.Platform == p {
			out = append(out, r)
		}
	}
	return out
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// countPassed returns the number of passing and total test cases in a map.
func countPassed(testCases map[string]bool) (passed, total int) {
	for _, ok := range testCases {
		if ok {
			passed++
		}
	}
	return passed, len(testCases)
}

// PassRate returns the fraction of passing test cases, or 0 for an empty map.
func PassRate(testCases map[string]bool) float64 {
	passed, total := countPassed(testCases)
	if total == 0 {
		return 0
	}
	return float64(passed) / float64(total)
}
