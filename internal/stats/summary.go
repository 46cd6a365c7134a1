package stats

import "time"

// CompanySummary is the per-company activity shown in company listings.
type CompanySummary struct {
	SubmissionCount int        `json:"submissionCount"`
	AverageScore    float64    `json:"averageScore"`
	RecentActivity  *time.Time `json:"recentActivity"`
}

// Summarize computes the listing summary. Zero scores are treated as missing
// when averaging, matching how listings have always been reported.
func Summarize(records []Record) CompanySummary {
	summary := CompanySummary{SubmissionCount: len(records)}

	var scores []int
	for _, r := range records {
		if r.Score != nil && *r.Score != 0 {
			scores = append(scores, *r.Score)
		}
		if summary.RecentActivity == nil || r.CreatedAt.After(*summary.RecentActivity) {
			created := r.CreatedAt
			summary.RecentActivity = &created
		}
	}
	summary.AverageScore = Round2(mean(scores))

	return summary
}
