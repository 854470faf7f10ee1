package user

import (
	"context"
	"fmt"

	"git.appkode.ru/pub/go/failure"
	"golang.org/x/crypto/bcrypt"

	"quality_evaluator/internal/domain/entity"
	"quality_evaluator/internal/domain/value"
	"quality_evaluator/pkg/contextx"
	"quality_evaluator/pkg/errcodes"
)

//nolint:gochecknoglobals
var logger = contextx.LoggerFromContextOrDefault

type Repository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id value.UserID) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	Delete(ctx context.Context, id value.UserID) error
}

// Tokens mints an access token for an authenticated user.
type Tokens interface {
	Issue(userID value.UserID) (string, error)
}

// EvaluationCachePurger drops cached evaluation projections after a user
// deletion cascades over rows whose cache keys cannot be enumerated.
type EvaluationCachePurger interface {
	PurgeCaches(ctx context.Context)
}

type Service struct {
	repo   Repository
	tokens Tokens
	purger EvaluationCachePurger
}

func NewService(repo Repository, tokens Tokens, purger EvaluationCachePurger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		purger: purger,
	}
}

func (s *Service) Register(ctx context.Context, name, email, password string) (entity.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		// bcrypt rejects passwords over 72 bytes.
		return entity.User{}, failure.NewInvalidArgumentError(
			"password not hashable: "+err.Error(),
			failure.WithCode(errcodes.InvalidPasswordFormat),
			failure.WithDescription("Senha inválida"),
		)
	}

	user := entity.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         entity.RoleUser,
	}

	if err = s.repo.Create(ctx, &user); err != nil {
		return entity.User{}, fmt.Errorf("repo.Create: %w", err)
	}

	logger(ctx).Info("user registered", "user_id", user.ID.Int64())

	return user, nil
}

// Login verifies the credentials and mints an access token. A missing user
// and a wrong password produce the same error so the response does not
// reveal which emails are registered.
func (s *Service) Login(ctx context.Context, email, password string) (string, entity.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if failure.IsNotFoundError(err) {
			return "", entity.User{}, credentialsMismatch()
		}

		return "", entity.User{}, fmt.Errorf("repo.GetByEmail: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", entity.User{}, credentialsMismatch()
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", entity.User{}, fmt.Errorf("tokens.Issue: %w", err)
	}

	return token, *user, nil
}

func (s *Service) GetByID(ctx context.Context, id value.UserID) (entity.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return entity.User{}, fmt.Errorf("repo.GetByID: %w", err)
	}

	return *user, nil
}

func (s *Service) List(ctx context.Context) ([]entity.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.List: %w", err)
	}

	return users, nil
}

// Delete removes the user together with their evaluations. The cascade
// invalidates cached projections for rows that no longer exist, so every
// evaluation cache namespace is purged afterwards.
func (s *Service) Delete(ctx context.Context, id value.UserID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("repo.GetByID: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("repo.Delete: %w", err)
	}

	s.purger.PurgeCaches(ctx)

	logger(ctx).Info("user deleted", "user_id", id.Int64())

	return nil
}

func credentialsMismatch() error {
	return failure.NewUnauthorizedError(
		"credentials mismatch",
		failure.WithCode(errcodes.CredentialsMismatch),
		failure.WithDescription("E-mail ou senha inválidos"),
	)
}
