package persistence

import (
	"time"

	"quality_evaluator/internal/domain/entity"
	"quality_evaluator/internal/domain/value"
)

// evaluationSchema maps one evaluations row.
type evaluationSchema struct {
	ID             int64     `db:"id"`
	OwnerID        int64     `db:"owner_id"`
	ProjectName    string    `db:"project_name"`
	Language       string    `db:"language"`
	LinesOfCode    int       `db:"lines_of_code"`
	Complexity     int       `db:"complexity"`
	HasTests       bool      `db:"has_tests"`
	UsesGit        bool      `db:"uses_git"`
	AnalyzedBy     string    `db:"analyzed_by"`
	Score          int       `db:"score"`
	Classification string    `db:"classification"`
	Description    string    `db:"description"`
	CreatedAt      time.Time `db:"created_at"`
}

func (s *evaluationSchema) toDomain() entity.Evaluation {
	return entity.Evaluation{
		ID:             value.EvaluationID(s.ID),
		OwnerID:        value.UserID(s.OwnerID),
		ProjectName:    s.ProjectName,
		Language:       value.Language(s.Language),
		LinesOfCode:    s.LinesOfCode,
		Complexity:     s.Complexity,
		HasTests:       s.HasTests,
		UsesGit:        s.UsesGit,
		AnalyzedBy:     s.AnalyzedBy,
		Score:          s.Score,
		Classification: value.Classification(s.Classification),
		Description:    s.Description,
		CreatedAt:      s.CreatedAt,
	}
}

// userSchema maps one users row.
type userSchema struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

func (s *userSchema) toDomain() entity.User {
	return entity.User{
		ID:           value.UserID(s.ID),
		Name:         s.Name,
		Email:        s.Email,
		PasswordHash: s.PasswordHash,
		Role:         entity.UserRole(s.Role),
		CreatedAt:    s.CreatedAt,
	}
}
