package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"git.appkode.ru/pub/go/failure"
	"github.com/jmoiron/sqlx"

	"quality_evaluator/internal/domain"
	"quality_evaluator/internal/domain/entity"
	"quality_evaluator/internal/domain/value"
	"quality_evaluator/pkg/errcodes"
)

const evaluationColumns = `
	id, owner_id, project_name, language, lines_of_code, complexity,
	has_tests, uses_git, analyzed_by, score, classification, description, created_at`

// sortColumns whitelists the sortable fields; anything else never reaches SQL.
//
//nolint:gochecknoglobals
var sortColumns = map[value.SortField]string{
	value.SortByCreatedAt:   "created_at",
	value.SortByScore:       "score",
	value.SortByProjectName: "project_name",
}

type EvaluationRepository struct {
	db *sqlx.DB
}

func NewEvaluationRepository(db *sqlx.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// withTx runs fn inside a transaction.
func (r *EvaluationRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// Create inserts the evaluation and fills in the generated identifier.
func (r *EvaluationRepository) Create(ctx context.Context, evaluation *entity.Evaluation) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO evaluations (
				owner_id, project_name, language, lines_of_code, complexity,
				has_tests, uses_git, analyzed_by, score, classification, description, created_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id`

		var id int64
		err := tx.QueryRowxContext(ctx, query,
			evaluation.OwnerID.Int64(),
			evaluation.ProjectName,
			string(evaluation.Language),
			evaluation.LinesOfCode,
			evaluation.Complexity,
			evaluation.HasTests,
			evaluation.UsesGit,
			evaluation.AnalyzedBy,
			evaluation.Score,
			string(evaluation.Classification),
			evaluation.Description,
			evaluation.CreatedAt,
		).Scan(&id)
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to insert evaluation")
		}

		evaluation.ID = value.EvaluationID(id)

		return nil
	})
}

// GetByIDAndOwner returns the evaluation only when it belongs to owner.
func (r *EvaluationRepository) GetByIDAndOwner(ctx context.Context, id value.EvaluationID, owner value.UserID) (*entity.Evaluation, error) {
	query := `
		SELECT ` + evaluationColumns + `
		FROM evaluations
		WHERE id = $1 AND owner_id = $2`

	var schema evaluationSchema
	if err := r.db.GetContext(ctx, &schema, query, id.Int64(), owner.Int64()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, evaluationNotFound()
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get evaluation")
	}

	evaluation := schema.toDomain()

	return &evaluation, nil
}

// ListByOwner returns every evaluation of the owner, newest first.
func (r *EvaluationRepository) ListByOwner(ctx context.Context, owner value.UserID) ([]entity.Evaluation, error) {
	query := `
		SELECT ` + evaluationColumns + `
		FROM evaluations
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC`

	var schemas []evaluationSchema
	if err := r.db.SelectContext(ctx, &schemas, query, owner.Int64()); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list evaluations")
	}

	evaluations := make([]entity.Evaluation, 0, len(schemas))
	for _, s := range schemas {
		evaluations = append(evaluations, s.toDomain())
	}

	return evaluations, nil
}

// ListByOwnerPage orders and windows in SQL. The sort column comes from a
// whitelist, so the ORDER BY concatenation is safe.
func (r *EvaluationRepository) ListByOwnerPage(ctx context.Context, owner value.UserID, page value.PageRequest, sort value.Sort) ([]entity.Evaluation, int, error) {
	column, ok := sortColumns[sort.Field]
	if !ok {
		column = "created_at"
	}

	direction := "ASC"
	if sort.Desc {
		direction = "DESC"
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM evaluations WHERE owner_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, owner.Int64()); err != nil {
		return nil, 0, domain.WrapError(err, errcodes.InternalServerError, "failed to count evaluations")
	}

	query := fmt.Sprintf(`
		SELECT `+evaluationColumns+`
		FROM evaluations
		WHERE owner_id = $1
		ORDER BY %s %s, id DESC
		LIMIT $2 OFFSET $3`, column, direction)

	var schemas []evaluationSchema
	if err := r.db.SelectContext(ctx, &schemas, query, owner.Int64(), page.Size, page.Offset()); err != nil {
		return nil, 0, domain.WrapError(err, errcodes.InternalServerError, "failed to list evaluations page")
	}

	evaluations := make([]entity.Evaluation, 0, len(schemas))
	for _, s := range schemas {
		evaluations = append(evaluations, s.toDomain())
	}

	return evaluations, total, nil
}

// Update rewrites the scored attributes of an owned evaluation.
func (r *EvaluationRepository) Update(ctx context.Context, evaluation *entity.Evaluation) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE evaluations
			SET project_name = :project_name,
				language = :language,
				lines_of_code = :lines_of_code,
				complexity = :complexity,
				has_tests = :has_tests,
				uses_git = :uses_git,
				analyzed_by = :analyzed_by,
				score = :score,
				classification = :classification,
				description = :description
			WHERE id = :id AND owner_id = :owner_id`

		params := map[string]any{
			"id":             evaluation.ID.Int64(),
			"owner_id":       evaluation.OwnerID.Int64(),
			"project_name":   evaluation.ProjectName,
			"language":       string(evaluation.Language),
			"lines_of_code":  evaluation.LinesOfCode,
			"complexity":     evaluation.Complexity,
			"has_tests":      evaluation.HasTests,
			"uses_git":       evaluation.UsesGit,
			"analyzed_by":    evaluation.AnalyzedBy,
			"score":          evaluation.Score,
			"classification": string(evaluation.Classification),
			"description":    evaluation.Description,
		}

		res, err := tx.NamedExecContext(ctx, query, params)
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to update evaluation")
		}

		return requireAffected(res, evaluationNotFound)
	})
}

// Delete removes an owned evaluation.
func (r *EvaluationRepository) Delete(ctx context.Context, id value.EvaluationID, owner value.UserID) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `DELETE FROM evaluations WHERE id = $1 AND owner_id = $2`

		res, err := tx.ExecContext(ctx, query, id.Int64(), owner.Int64())
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to delete evaluation")
		}

		return requireAffected(res, evaluationNotFound)
	})
}

// requireAffected turns a zero-row mutation into notFound.
func requireAffected(res sql.Result, notFound func() error) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return notFound()
	}

	return nil
}

func evaluationNotFound() error {
	return failure.NewNotFoundError(
		"evaluation not found",
		failure.WithCode(errcodes.EvaluationNotFound),
		failure.WithDescription("Avaliação não encontrada"),
	)
}
