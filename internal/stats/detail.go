package stats

import "github.com/assessmentslol/assessments/internal/types"

// CompanyDetailStats is the summary embedded in the company detail response.
type CompanyDetailStats struct {
	TotalSubmissions int                `json:"totalSubmissions"`
	AverageScores    AverageScores      `json:"averageScores"`
	SuccessRates     DetailSuccessRates `json:"successRates"`
}

// DetailSuccessRates holds percentage success rates, overall and per role type.
type DetailSuccessRates struct {
	Overall float64                    `json:"overall"`
	ByRole  map[types.RoleType]float64 `json:"byRole"`
}

// CompanyDetail computes the company detail summary.
//
// HackerRank completion and test case figures here are whole percentages:
// completion is the mean questions_count scaled by 1/100 and expressed out of
// 100, and test cases are pooled across submissions. Only HackerRank
// submissions with a questions count take part.
func CompanyDetail(records []Record) CompanyDetailStats {
	stats := CompanyDetailStats{
		TotalSubmissions: len(records),
		SuccessRates:     DetailSuccessRates{ByRole: map[types.RoleType]float64{}},
	}
	if len(records) == 0 {
		return stats
	}

	stats.AverageScores.CodeSignal = Round2(mean(codeSignalScores(records)))

	questions, count := 0, 0
	passed, total := 0, 0
	for _, r := range records {
		if r.Platform != types.PlatformHackerRank || r.QuestionsCount == nil {
			continue
		}
		questions += *r.QuestionsCount
		count++
		p, t := countPassed(r.TestCases)
		passed += p
		total += t
	}
	if count > 0 {
		stats.AverageScores.HackerRank.Completion = RoundInt(float64(questions) / float64(count*100) * 100)
	}
	if total > 0 {
		stats.AverageScores.HackerRank.TestCases = RoundInt(float64(passed) / float64(total) * 100)
	}

	stats.SuccessRates.Overall = successRate(records)
	stats.SuccessRates.ByRole = successRateByRole(records)

	return stats
}
