package evaluation

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"quality_evaluator/internal/domain"
	"quality_evaluator/internal/domain/entity"
	"quality_evaluator/pkg/errcodes"
)

const exportTimeLayout = "02/01/2006 15:04"

//nolint:gochecknoglobals
var exportHeader = []string{"Projeto", "Linguagem", "Nota", "Classificacao", "Data"}

// ExportCSV serializes the records to the flat UTF-8 export format:
// one header row, one row per record, language rendered as its display
// name. The caller guarantees the set is non-empty.
func ExportCSV(evaluations []entity.Evaluation) ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to write csv header")
	}

	for _, e := range evaluations {
		record := []string{
			e.ProjectName,
			e.Language.DisplayName(),
			strconv.Itoa(e.Score),
			e.Classification.String(),
			e.CreatedAt.Format(exportTimeLayout),
		}

		if err := w.Write(record); err != nil {
			return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to write csv record")
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to flush csv")
	}

	return buf.Bytes(), nil
}
