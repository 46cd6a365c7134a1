package stats

import "github.com/assessmentslol/assessments/internal/types"

// AverageScores holds per-platform averages.
type AverageScores struct {
	CodeSignal float64            `json:"codesignal"`
	HackerRank HackerRankAverages `json:"hackerrank"`
}

// HackerRankAverages holds HackerRank completion and test case averages.
type HackerRankAverages struct {
	Completion float64 `json:"completion"`
	TestCases  float64 `json:"testCases"`
}

// PersonalStats summarizes one profile's submissions.
//
// StatusDistribution values are fractions in [0, 1], while success rates
// elsewhere are percentages in [0, 100]. Clients depend on both units.
type PersonalStats struct {
	TotalSubmissions   int                                `json:"totalSubmissions"`
	AverageScores      AverageScores                      `json:"averageScores"`
	StatusDistribution map[types.SubmissionStatus]float64 `json:"statusDistribution"`
}

// Personal computes statistics for a single profile's submissions.
// HackerRank test cases are pooled across submissions rather than averaged per submission.
func Personal(records []Record) PersonalStats {
	stats := PersonalStats{
		TotalSubmissions:   len(records),
		StatusDistribution: make(map[types.SubmissionStatus]float64, 4),
	}
	for _, s := range types.AllStatuses() {
		stats.StatusDistribution[s] = 0
	}
	if len(records) == 0 {
		return stats
	}

	if scores := codeSignalScores(records); len(scores) > 0 {
		stats.AverageScores.CodeSignal = Round2(mean(scores))
	}

	if hackerRank := filterPlatform(records, types.PlatformHackerRank); len(hackerRank) > 0 {
		completed := 0
		passed, total := 0, 0
		for _, r := range hackerRank {
			if r.QuestionsCount != nil {
				completed += *r.QuestionsCount
			}
			p, t := countPassed(r.TestCases)
			passed += p
			total += t
		}
		stats.AverageScores.HackerRank.Completion = Round2(float64(completed) / float64(len(hackerRank)))
		if total > 0 {
			stats.AverageScores.HackerRank.TestCases = Round2(float64(passed) / float64(total))
		}
	}

	counts := make(map[types.SubmissionStatus]int, 4)
	for _, r := range records {
		if r.Status.Valid() {
			counts[r.Status]++
		}
	}
	for _, s := range types.AllStatuses() {
		stats.StatusDistribution[s] = Round2(float64(counts[s]) / float64(len(records)))
	}

	return stats
}
