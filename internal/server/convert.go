package server

import (
	"fmt"

	"quality_evaluator/internal/domain/entity"
	"quality_evaluator/internal/domain/service/evaluation"
	"quality_evaluator/internal/domain/value"
	"quality_evaluator/pkg/lox"
	"quality_evaluator/pkg/rest"
)

func newDomainInput(request rest.EvaluationRequest) (evaluation.Input, error) {
	language, err := value.ParseLanguage(request.Language)
	if err != nil {
		return evaluation.Input{}, fmt.Errorf("value.ParseLanguage: %w", err)
	}

	return evaluation.Input{
		ProjectName: request.ProjectName,
		Language:    language,
		LinesOfCode: request.LinesOfCode,
		Complexity:  request.Complexity,
		HasTests:    *request.HasTests,
		UsesGit:     *request.UsesGit,
		AnalyzedBy:  request.AnalyzedBy,
		Description: request.Description,
	}, nil
}

func newRESTEvaluation(e entity.Evaluation) rest.EvaluationResponse {
	return rest.EvaluationResponse{
		ID:             e.ID.Int64(),
		ProjectName:    e.ProjectName,
		Language:       e.Language.String(),
		LinesOfCode:    e.LinesOfCode,
		Complexity:     e.Complexity,
		HasTests:       e.HasTests,
		UsesGit:        e.UsesGit,
		AnalyzedBy:     e.AnalyzedBy,
		Score:          e.Score,
		Classification: string(e.Classification),
		Description:    e.Description,
		CreatedAt:      e.CreatedAt,
	}
}

func newRESTPage(page evaluation.Page) rest.EvaluationPage {
	return rest.EvaluationPage{
		Content:       lox.Map(page.Content, newRESTEvaluation),
		Page:          page.Number,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages(),
	}
}

func newRESTUser(u entity.User) rest.UserResponse {
	return rest.UserResponse{
		ID:        u.ID.Int64(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func newRESTStats(stats evaluation.Stats) rest.StatsResponse {
	return rest.StatsResponse{
		Total:          stats.Total,
		AverageScore:   stats.AverageScore,
		ExcellentCount: stats.ExcellentCount,
	}
}

func newRESTDashboard(summary evaluation.DashboardSummary) rest.DashboardResponse {
	return rest.DashboardResponse{
		Total:           summary.Total,
		Excellent:       summary.Excellent,
		Good:            summary.Good,
		Regular:         summary.Regular,
		Bad:             summary.Bad,
		AverageScore:    summary.AverageScore,
		ByLanguage:      summary.ByLanguage,
		ScoreEvolution:  summary.ScoreEvolution,
		TestsPercentage: summary.TestsPercentage,
		GitPercentage:   summary.GitPercentage,
	}
}
