package server

import (
	"net/url"
	"strconv"
	"time"

	"git.appkode.ru/pub/go/failure"

	"quality_evaluator/internal/domain/value"
	"quality_evaluator/pkg/errcodes"
)

const queryDateLayout = "2006-01-02"

func pageFromQuery(q url.Values) (value.PageRequest, error) {
	page, err := intQuery(q, "page", 0, errcodes.InvalidPaging)
	if err != nil {
		return value.PageRequest{}, err
	}

	size, err := intQuery(q, "size", value.DefaultPageSize, errcodes.InvalidPaging)
	if err != nil {
		return value.PageRequest{}, err
	}

	return value.NewPageRequest(page, size)
}

func sortFromQuery(q url.Values) (value.Sort, error) {
	return value.ParseSort(q.Get("sort"))
}

func filterFromQuery(q url.Values) (value.EvaluationFilter, error) {
	var filter value.EvaluationFilter

	startDate, err := dateQuery(q, "startDate")
	if err != nil {
		return value.EvaluationFilter{}, err
	}
	filter.StartDate = startDate

	endDate, err := dateQuery(q, "endDate")
	if err != nil {
		return value.EvaluationFilter{}, err
	}
	filter.EndDate = endDate

	filter.ProjectName = q.Get("projectName")

	if raw := q.Get("language"); raw != "" {
		language, err := value.ParseLanguage(raw)
		if err != nil {
			return value.EvaluationFilter{}, err
		}
		filter.Language = language
	}

	filter.MinScore, err = intPtrQuery(q, "minScore")
	if err != nil {
		return value.EvaluationFilter{}, err
	}

	filter.MaxScore, err = intPtrQuery(q, "maxScore")
	if err != nil {
		return value.EvaluationFilter{}, err
	}

	if raw := q.Get("classification"); raw != "" {
		classification, err := value.ParseClassification(raw)
		if err != nil {
			return value.EvaluationFilter{}, err
		}
		filter.Classification = classification
	}

	return filter, nil
}

func intQuery(q url.Values, name string, fallback int, code failure.ErrorCode) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, failure.NewInvalidArgumentError(
			"invalid query parameter "+name,
			failure.WithCode(code),
			failure.WithDescription("Parâmetro inválido: "+name),
		)
	}

	return n, nil
}

func intPtrQuery(q url.Values, name string) (*int, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, failure.NewInvalidArgumentError(
			"invalid query parameter "+name,
			failure.WithCode(errcodes.InvalidFilter),
			failure.WithDescription("Parâmetro inválido: "+name),
		)
	}

	return &n, nil
}

func dateQuery(q url.Values, name string) (*time.Time, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}

	t, err := time.Parse(queryDateLayout, raw)
	if err != nil {
		return nil, failure.NewInvalidArgumentError(
			"invalid query parameter "+name,
			failure.WithCode(errcodes.InvalidFilter),
			failure.WithDescription("Parâmetro inválido: "+name),
		)
	}

	return &t, nil
}
