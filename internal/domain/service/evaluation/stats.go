package evaluation

import (
	"math"

	"quality_evaluator/internal/domain/entity"
	"quality_evaluator/internal/domain/value"
)

const dateLayout = "2006-01-02"

// Stats is the small aggregate surfaced by the stats endpoint.
type Stats struct {
	Total          int64 `json:"total"`
	AverageScore   int64 `json:"averageScore"`
	ExcellentCount int64 `json:"excellentCount"`
}

// DashboardSummary is the full per-owner aggregate: counts per
// classification and language, score trend per calendar date, and
// tests/version-control adoption percentages.
type DashboardSummary struct {
	Total           int64              `json:"total"`
	Excellent       int64              `json:"excellent"`
	Good            int64              `json:"good"`
	Regular         int64              `json:"regular"`
	Bad             int64              `json:"bad"`
	AverageScore    float64            `json:"averageScore"`
	ByLanguage      map[string]int64   `json:"byLanguage"`
	ScoreEvolution  map[string]float64 `json:"scoreEvolution"`
	TestsPercentage float64            `json:"testsPercentage"`
	GitPercentage   float64            `json:"gitPercentage"`
}

// BuildStats aggregates in a single pass over the owned set.
func BuildStats(evaluations []entity.Evaluation) Stats {
	var sum, excellent int64

	for _, e := range evaluations {
		sum += int64(e.Score)
		if e.Classification == value.ClassificationExcelente {
			excellent++
		}
	}

	total := int64(len(evaluations))

	var average int64
	if total > 0 {
		average = int64(math.Round(float64(sum) / float64(total)))
	}

	return Stats{
		Total:          total,
		AverageScore:   average,
		ExcellentCount: excellent,
	}
}

// BuildDashboard aggregates everything the dashboard shows in a single
// pass over the owned set.
func BuildDashboard(evaluations []entity.Evaluation) DashboardSummary {
	summary := DashboardSummary{
		ByLanguage:     make(map[string]int64),
		ScoreEvolution: make(map[string]float64),
	}

	var (
		sum         int64
		withTests   int64
		withGit     int64
		scoreByDate = make(map[string]int64)
		countByDate = make(map[string]int64)
	)

	for _, e := range evaluations {
		sum += int64(e.Score)

		switch e.Classification {
		case value.ClassificationExcelente:
			summary.Excellent++
		case value.ClassificationBom:
			summary.Good++
		case value.ClassificationRegular:
			summary.Regular++
		default:
			summary.Bad++
		}

		summary.ByLanguage[e.Language.String()]++

		date := e.CreatedAt.Format(dateLayout)
		scoreByDate[date] += int64(e.Score)
		countByDate[date]++

		if e.HasTests {
			withTests++
		}
		if e.UsesGit {
			withGit++
		}
	}

	summary.Total = int64(len(evaluations))

	if summary.Total > 0 {
		total := float64(summary.Total)
		summary.AverageScore = float64(sum) / total
		summary.TestsPercentage = float64(withTests) * 100 / total
		summary.GitPercentage = float64(withGit) * 100 / total
	}

	for date, score := range scoreByDate {
		summary.ScoreEvolution[date] = float64(score) / float64(countByDate[date])
	}

	return summary
}
