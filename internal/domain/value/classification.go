package value

import (
	"strings"

	"git.appkode.ru/pub/go/failure"

	"quality_evaluator/pkg/errcodes"
)

// Classification is an ordinal bucketing of the score. The wire values
// are the Portuguese names the API has always exposed.
type Classification string

const (
	ClassificationExcelente Classification = "EXCELENTE"
	ClassificationBom       Classification = "BOM"
	ClassificationRegular   Classification = "REGULAR"
	ClassificationRuim      Classification = "RUIM"
)

//nolint:gochecknoglobals
var classifications = map[Classification]struct{}{
	ClassificationExcelente: {},
	ClassificationBom:       {},
	ClassificationRegular:   {},
	ClassificationRuim:      {},
}

func (c Classification) String() string {
	return string(c)
}

func (c Classification) Valid() bool {
	_, ok := classifications[c]
	return ok
}

func ParseClassification(s string) (Classification, error) {
	classification := Classification(strings.ToUpper(strings.TrimSpace(s)))
	if !classification.Valid() {
		return "", failure.NewInvalidArgumentError(
			"invalid classification: "+s,
			failure.WithCode(errcodes.InvalidClassification),
			failure.WithDescription("Classificação inválida"),
		)
	}

	return classification, nil
}
