package value

import (
	"time"

	"git.appkode.ru/pub/go/failure"

	"quality_evaluator/pkg/errcodes"
)

// EvaluationFilter narrows an owner's evaluation set. Every field is
// optional; a zero field imposes no constraint. Dates are calendar
// dates (time part ignored).
type EvaluationFilter struct {
	StartDate      *time.Time
	EndDate        *time.Time
	ProjectName    string
	Language       Language
	MinScore       *int
	MaxScore       *int
	Classification Classification
}

func (f EvaluationFilter) IsZero() bool {
	return f.StartDate == nil &&
		f.EndDate == nil &&
		f.ProjectName == "" &&
		f.Language == "" &&
		f.MinScore == nil &&
		f.MaxScore == nil &&
		f.Classification == ""
}

// Validate enforces the filter business rules before any record is
// touched: the date range and the score range must be ordered.
func (f EvaluationFilter) Validate() error {
	if f.StartDate != nil && f.EndDate != nil && f.StartDate.After(*f.EndDate) {
		return failure.NewUnprocessableEntityError(
			"start date is after end date",
			failure.WithCode(errcodes.FilterDatesOutOfOrder),
			failure.WithDescription("A data inicial não pode ser maior que a data final"),
		)
	}

	if f.MinScore != nil && f.MaxScore != nil && *f.MinScore > *f.MaxScore {
		return failure.NewUnprocessableEntityError(
			"min score is greater than max score",
			failure.WithCode(errcodes.FilterScoresOutOfOrder),
			failure.WithDescription("O score mínimo não pode ser maior que o score máximo"),
		)
	}

	return nil
}
