package entity

import (
	"time"

	"quality_evaluator/internal/domain/value"
)

// Evaluation is a scored, classified record of one project's
// self-reported quality attributes. It belongs to exactly one owner
// and is visible only to that owner.
type Evaluation struct {
	ID             value.EvaluationID
	OwnerID        value.UserID
	ProjectName    string
	Language       value.Language
	LinesOfCode    int
	Complexity     int
	HasTests       bool
	UsesGit        bool
	AnalyzedBy     string
	Score          int
	Classification value.Classification
	Description    string
	CreatedAt      time.Time
}
