package stats

import (
	"sort"

	"github.com/assessmentslol/assessments/internal/types"
)

// DistributionStats is the full statistics view of one company's submissions.
type DistributionStats struct {
	ScoreDistribution ScoreDistribution      `json:"scoreDistribution"`
	RoleBreakdown     map[types.RoleType]int `json:"roleBreakdown"`
	SuccessRates      SuccessRates           `json:"successRates"`
	PlatformStats     PlatformStats          `json:"platformStats"`
}

// ScoreDistribution groups submissions by their per-platform result.
type ScoreDistribution struct {
	CodeSignal []ScoreBucket           `json:"codesignal"`
	HackerRank HackerRankDistributions `json:"hackerrank"`
}

// ScoreBucket counts CodeSignal submissions with a given score.
type ScoreBucket struct {
	Score int `json:"score"`
	Count int `json:"count"`
}

// HackerRankDistributions groups HackerRank submissions by completion and test case count.
type HackerRankDistributions struct {
	Completion []CompletionBucket `json:"completion"`
	TestCases  []TestCaseBucket   `json:"testCases"`
}

// CompletionBucket counts HackerRank submissions with a given completion rate.
type CompletionBucket struct {
	Rate  int `json:"rate"`
	Count int `json:"count"`
}

// TestCaseBucket counts HackerRank submissions that reported Count test cases.
type TestCaseBucket struct {
	Count       int `json:"count"`
	Submissions int `json:"submissions"`
}

// SuccessRates holds percentage success rates overall, per role type and per platform.
type SuccessRates struct {
	Overall    float64                    `json:"overall"`
	ByRole     map[types.RoleType]float64 `json:"byRole"`
	ByPlatform map[types.Platform]float64 `json:"byPlatform"`
}

// PlatformStats holds per-platform summary figures.
type PlatformStats struct {
	CodeSignal CodeSignalStats `json:"codesignal"`
	HackerRank HackerRankStats `json:"hackerrank"`
}

// CodeSignalStats summarizes CodeSignal scores.
type CodeSignalStats struct {
	Average float64    `json:"average"`
	Median  float64    `json:"median"`
	Range   ScoreRange `json:"range"`
}

// ScoreRange is the lowest and highest observed score.
type ScoreRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// HackerRankStats summarizes HackerRank completion and test case pass rates.
type HackerRankStats struct {
	AverageCompletion float64 `json:"averageCompletion"`
	AverageTestCases  float64 `json:"averageTestCases"`
}

// emptyDistribution returns the canonical zero-valued statistics.
func emptyDistribution() DistributionStats {
	return DistributionStats{
		ScoreDistribution: ScoreDistribution{
			CodeSignal: []ScoreBucket{},
			HackerRank: HackerRankDistributions{
				Completion: []CompletionBucket{},
				TestCases:  []TestCaseBucket{},
			},
		},
		RoleBreakdown: map[types.RoleType]int{},
		SuccessRates: SuccessRates{
			ByRole:     map[types.RoleType]float64{},
			ByPlatform: map[types.Platform]float64{},
		},
	}
}

// CompanyDistribution computes distributions, success rates and platform
// figures for a company's submissions.
func CompanyDistribution(records []Record) DistributionStats {
	stats := emptyDistribution()
	if len(records) == 0 {
		return stats
	}

	if scores := codeSignalScores(records); len(scores) > 0 {
		sort.Ints(scores)
		stats.ScoreDistribution.CodeSignal = scoreBuckets(scores)
		stats.PlatformStats.CodeSignal = CodeSignalStats{
			Average: Round2(mean(scores)),
			Median:  Median(scores),
			Range:   ScoreRange{Min: scores[0], Max: scores[len(scores)-1]},
		}
	}

	if hackerRank := filterPlatform(records, types.PlatformHackerRank); len(hackerRank) > 0 {
		completion := make(map[int]int)
		testCaseCounts := make(map[int]int)
		totalCompletion := 0
		var passRateSum float64
		withTestCases := 0

		for _, r := range hackerRank {
			if r.QuestionsCount != nil && *r.QuestionsCount != 0 {
				rate := int(RoundInt(float64(*r.QuestionsCount) / 100 * 100))
				completion[rate]++
				totalCompletion += *r.QuestionsCount
			}
			if len(r.TestCases) > 0 {
				testCaseCounts[len(r.TestCases)]++
				passRateSum += PassRate(r.TestCases)
				withTestCases++
			}
		}

		stats.ScoreDistribution.HackerRank.Completion = completionBuckets(completion)
		stats.ScoreDistribution.HackerRank.TestCases = testCaseBuckets(testCaseCounts)
		stats.PlatformStats.HackerRank.AverageCompletion = Round2(float64(totalCompletion) / float64(len(hackerRank)))
		if withTestCases > 0 {
			stats.PlatformStats.HackerRank.AverageTestCases = Round2(passRateSum / float64(withTestCases))
		}
	}

	for _, r := range records {
		if r.RoleType != "" {
			stats.RoleBreakdown[r.RoleType]++
		}
	}

	stats.SuccessRates.Overall = successRate(records)
	stats.SuccessRates.ByRole = successRateByRole(records)
	for _, p := range types.AllPlatforms() {
		if group := filterPlatform(records, p); len(group) > 0 {
			stats.SuccessRates.ByPlatform[p] = successRate(group)
		}
	}

	return stats
}

// Median returns the median of sorted values: the middle value for an odd
// count, the mean of the two middle values for an even count.
func Median(sorted []int) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 0 {
		return float64(sorted[n/2-1]+sorted[n/2]) / 2
	}
	return float64(sorted[n/2])
}

func scoreBuckets(sorted []int) []ScoreBucket {
	buckets := []ScoreBucket{}
	for _, s := range sorted {
		if last := len(buckets) - 1; last >= 0 && buckets[last].Score == s {
			buckets[last].Count++
			continue
		}
		buckets = append(buckets, ScoreBucket{Score: s, Count: 1})
	}
	return buckets
}

func completionBuckets(counts map[int]int) []CompletionBucket {
	buckets := make([]CompletionBucket, 0, len(counts))
	for rate, count := range counts {
		buckets = append(buckets, CompletionBucket{Rate: rate, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Rate < buckets[j].Rate })
	return buckets
}

func testCaseBuckets(counts map[int]int) []TestCaseBucket {
	buckets := make([]TestCaseBucket, 0, len(counts))
	for n, submissions := range counts {
		buckets = append(buckets, TestCaseBucket{Count: n, Submissions: submissions})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Count < buckets[j].Count })
	return buckets
}
