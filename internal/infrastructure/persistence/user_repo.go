package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"git.appkode.ru/pub/go/failure"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"quality_evaluator/internal/domain"
	"quality_evaluator/internal/domain/entity"
	"quality_evaluator/internal/domain/value"
	"quality_evaluator/pkg/errcodes"
)

const uniqueViolation = "23505"

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
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

// Create inserts the user and fills in the generated identifier. A duplicate
// email surfaces as a conflict rather than a bare constraint error.
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO users (name, email, password_hash, role, created_at)
			VALUES ($1, $2, $3, $4, NOW())
			RETURNING id, created_at`

		err := tx.QueryRowxContext(ctx, query,
			user.Name,
			user.Email,
			user.PasswordHash,
			string(user.Role),
		).Scan(&user.ID, &user.CreatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return failure.NewConflictError(
					"email already in use",
					failure.WithCode(errcodes.EmailAlreadyInUse),
					failure.WithDescription("E-mail já cadastrado"),
				)
			}
			return domain.WrapError(err, errcodes.InternalServerError, "failed to insert user")
		}

		return nil
	})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE email = $1`

	var schema userSchema
	if err := r.db.GetContext(ctx, &schema, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, userNotFound()
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get user")
	}

	user := schema.toDomain()

	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id value.UserID) (*entity.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE id = $1`

	var schema userSchema
	if err := r.db.GetContext(ctx, &schema, query, id.Int64()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, userNotFound()
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get user")
	}

	user := schema.toDomain()

	return &user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		ORDER BY created_at, id`

	var schemas []userSchema
	if err := r.db.SelectContext(ctx, &schemas, query); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list users")
	}

	users := make([]entity.User, 0, len(schemas))
	for _, s := range schemas {
		users = append(users, s.toDomain())
	}

	return users, nil
}

// Delete removes the user; the evaluations FK cascades.
func (r *UserRepository) Delete(ctx context.Context, id value.UserID) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `DELETE FROM users WHERE id = $1`

		res, err := tx.ExecContext(ctx, query, id.Int64())
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to delete user")
		}

		return requireAffected(res, userNotFound)
	})
}

func userNotFound() error {
	return failure.NewNotFoundError(
		"user not found",
		failure.WithCode(errcodes.UserNotFound),
		failure.WithDescription("Usuário não encontrado"),
	)
}
