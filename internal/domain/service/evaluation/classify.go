package evaluation

import "quality_evaluator/internal/domain/value"

// Classification thresholds, inclusive-lower. The four intervals
// partition [0,100] exactly.
const (
	thresholdExcelente = 85
	thresholdBom       = 70
	thresholdRegular   = 50
)

func Classify(score int) value.Classification {
	switch {
	case score >= thresholdExcelente:
		return value.ClassificationExcelente
	case score >= thresholdBom:
		return value.ClassificationBom
	case score >= thresholdRegular:
		return value.ClassificationRegular
	default:
		return value.ClassificationRuim
	}
}
