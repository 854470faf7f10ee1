package evaluation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"quality_evaluator/internal/domain/entity"
	"quality_evaluator/internal/domain/service/evaluation"
	"quality_evaluator/internal/domain/value"
)

func TestBuildStats(t *testing.T) {
	rq := require.New(t)

	stats := evaluation.BuildStats([]entity.Evaluation{
		{Score: 90, Classification: value.ClassificationExcelente},
		{Score: 86, Classification: value.ClassificationExcelente},
		{Score: 55, Classification: value.ClassificationRegular},
	})

	rq.Equal(int64(3), stats.Total)
	rq.Equal(int64(2), stats.ExcellentCount)

	// (90+86+55)/3 = 77, rounded
	rq.Equal(int64(77), stats.AverageScore)
}

func TestBuildStatsEmpty(t *testing.T) {
	rq := require.New(t)

	stats := evaluation.BuildStats(nil)

	rq.Equal(int64(0), stats.Total)
	rq.Equal(int64(0), stats.AverageScore)
	rq.Equal(int64(0), stats.ExcellentCount)
}

func TestBuildDashboard(t *testing.T) {
	rq := require.New(t)

	day1 := time.Date(2026, time.February, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, time.February, 2, 10, 0, 0, 0, time.UTC)

	summary := evaluation.BuildDashboard([]entity.Evaluation{
		{Score: 90, Classification: value.ClassificationExcelente, Language: value.LanguageJava, HasTests: true, UsesGit: true, CreatedAt: day1},
		{Score: 70, Classification: value.ClassificationBom, Language: value.LanguageJava, HasTests: true, UsesGit: false, CreatedAt: day1},
		{Score: 50, Classification: value.ClassificationRegular, Language: value.LanguageGo, HasTests: false, UsesGit: true, CreatedAt: day2},
		{Score: 30, Classification: value.ClassificationRuim, Language: value.LanguageGo, HasTests: false, UsesGit: false, CreatedAt: day2},
	})

	rq.Equal(int64(4), summary.Total)
	rq.Equal(int64(1), summary.Excellent)
	rq.Equal(int64(1), summary.Good)
	rq.Equal(int64(1), summary.Regular)
	rq.Equal(int64(1), summary.Bad)
	rq.InDelta(60.0, summary.AverageScore, 0.001)

	rq.Equal(int64(2), summary.ByLanguage["JAVA"])
	rq.Equal(int64(2), summary.ByLanguage["GO"])

	rq.InDelta(80.0, summary.ScoreEvolution["2026-02-01"], 0.001)
	rq.InDelta(40.0, summary.ScoreEvolution["2026-02-02"], 0.001)

	rq.InDelta(50.0, summary.TestsPercentage, 0.001)
	rq.InDelta(50.0, summary.GitPercentage, 0.001)
}

func TestBuildDashboardEmpty(t *testing.T) {
	rq := require.New(t)

	summary := evaluation.BuildDashboard(nil)

	rq.Equal(int64(0), summary.Total)
	rq.Zero(summary.AverageScore)
	rq.Empty(summary.ByLanguage)
	rq.Empty(summary.ScoreEvolution)
}
