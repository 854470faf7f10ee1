package value

import (
	"strings"

	"git.appkode.ru/pub/go/failure"

	"quality_evaluator/pkg/errcodes"
)

type SortField string

const (
	SortByCreatedAt   SortField = "createdAt"
	SortByScore       SortField = "score"
	SortByProjectName SortField = "projectName"
)

//nolint:gochecknoglobals
var sortFields = map[SortField]struct{}{
	SortByCreatedAt:   {},
	SortByScore:       {},
	SortByProjectName: {},
}

// Sort is a field name plus direction, e.g. "createdAt,desc".
type Sort struct {
	Field SortField
	Desc  bool
}

func DefaultSort() Sort {
	return Sort{Field: SortByCreatedAt, Desc: true}
}

func (s Sort) IsDefault() bool {
	return s == DefaultSort()
}

func ParseSort(raw string) (Sort, error) {
	if raw == "" {
		return DefaultSort(), nil
	}

	field, direction, _ := strings.Cut(raw, ",")

	sort := Sort{Field: SortField(field)}

	if _, ok := sortFields[sort.Field]; !ok {
		return Sort{}, failure.NewInvalidArgumentError(
			"invalid sort field: "+field,
			failure.WithCode(errcodes.InvalidPaging),
			failure.WithDescription("Ordenação inválida"),
		)
	}

	switch strings.ToLower(direction) {
	case "", "desc":
		sort.Desc = true
	case "asc":
		sort.Desc = false
	default:
		return Sort{}, failure.NewInvalidArgumentError(
			"invalid sort direction: "+direction,
			failure.WithCode(errcodes.InvalidPaging),
			failure.WithDescription("Ordenação inválida"),
		)
	}

	return sort, nil
}
