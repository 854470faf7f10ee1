package evaluation

import (
	"sort"
	"strings"
	"time"

	"quality_evaluator/internal/domain/entity"
	"quality_evaluator/internal/domain/value"
)

type predicate func(entity.Evaluation) bool

// predicates expands the optional filter criteria into a conjunctive
// chain; an absent criterion contributes no predicate.
func predicates(filter value.EvaluationFilter) []predicate {
	var chain []predicate

	if filter.StartDate != nil || filter.EndDate != nil {
		chain = append(chain, func(e entity.Evaluation) bool {
			date := toDate(e.CreatedAt)
			if filter.StartDate != nil && date.Before(toDate(*filter.StartDate)) {
				return false
			}
			if filter.EndDate != nil && date.After(toDate(*filter.EndDate)) {
				return false
			}
			return true
		})
	}

	if filter.ProjectName != "" {
		needle := strings.ToLower(filter.ProjectName)
		chain = append(chain, func(e entity.Evaluation) bool {
			return strings.Contains(strings.ToLower(e.ProjectName), needle)
		})
	}

	if filter.Language != "" {
		chain = append(chain, func(e entity.Evaluation) bool {
			return e.Language == filter.Language
		})
	}

	if filter.MinScore != nil || filter.MaxScore != nil {
		chain = append(chain, func(e entity.Evaluation) bool {
			if filter.MinScore != nil && e.Score < *filter.MinScore {
				return false
			}
			if filter.MaxScore != nil && e.Score > *filter.MaxScore {
				return false
			}
			return true
		})
	}

	if filter.Classification != "" {
		chain = append(chain, func(e entity.Evaluation) bool {
			return strings.EqualFold(e.Classification.String(), filter.Classification.String())
		})
	}

	return chain
}

// ApplyFilter selects the records matching every supplied criterion
// and orders them newest-first. The sort is stable: records sharing a
// creation timestamp keep their incoming (insertion) order, which
// keeps pagination deterministic. The filter must be validated first.
func ApplyFilter(evaluations []entity.Evaluation, filter value.EvaluationFilter) []entity.Evaluation {
	chain := predicates(filter)

	filtered := make([]entity.Evaluation, 0, len(evaluations))

outer:
	for _, e := range evaluations {
		for _, match := range chain {
			if !match(e) {
				continue outer
			}
		}
		filtered = append(filtered, e)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	return filtered
}

// Paginate slices the filtered, ordered sequence. An out-of-range page
// yields an empty page.
func Paginate(evaluations []entity.Evaluation, page value.PageRequest) []entity.Evaluation {
	start, end := page.Bounds(len(evaluations))
	return evaluations[start:end]
}

func toDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
