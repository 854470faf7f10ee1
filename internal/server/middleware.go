package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"git.appkode.ru/pub/go/failure"

	"quality_evaluator/internal/domain/entity"
	"quality_evaluator/internal/domain/value"
	"quality_evaluator/pkg/contextx"
	"quality_evaluator/pkg/errcodes"
	"quality_evaluator/pkg/httpx/reply"
)

type tokenVerifier interface {
	Verify(raw string) (value.UserID, error)
}

type userDirectory interface {
	GetByID(ctx context.Context, id value.UserID) (entity.User, error)
}

// AuthMiddleware guards the authorized zone: it resolves the bearer token
// into a user identity and, for admin routes, checks the role.
type AuthMiddleware struct {
	tokens tokenVerifier
	users  userDirectory
}

func NewAuthMiddleware(tokens tokenVerifier, users userDirectory) AuthMiddleware {
	return AuthMiddleware{
		tokens: tokens,
		users:  users,
	}
}

func (m AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		raw, ok := bearerToken(r)
		if !ok {
			reply.Error(ctx, w, failure.NewUnauthorizedError(
				"missing bearer token",
				failure.WithCode(errcodes.AccessTokenInvalid),
				failure.WithDescription("Token ausente"),
			))

			return
		}

		userID, err := m.tokens.Verify(raw)
		if err != nil {
			reply.Error(ctx, w, err)

			return
		}

		// A token outliving its user (deleted account) is no longer valid.
		if _, err = m.users.GetByID(ctx, userID); err != nil {
			reply.Error(ctx, w, failure.NewUnauthorizedError(
				"token user no longer exists",
				failure.WithCode(errcodes.AccessTokenInvalid),
				failure.WithDescription("Token inválido"),
			))

			return
		}

		ctx = contextx.WithUserID(ctx, contextx.UserID(userID.String()))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := ownerFromContext(ctx)
		if err != nil {
			reply.Error(ctx, w, err)

			return
		}

		user, err := m.users.GetByID(ctx, userID)
		if err != nil {
			reply.Error(ctx, w, fmt.Errorf("users.GetByID: %w", err))

			return
		}

		if !user.IsAdmin() {
			reply.Error(ctx, w, failure.NewForbiddenError(
				"admin role required",
				failure.WithCode(errcodes.Forbidden),
				failure.WithDescription("Acesso restrito a administradores"),
			))

			return
		}

		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}

	return token, true
}

// ownerFromContext recovers the authenticated user id placed into the
// context by Authenticate.
func ownerFromContext(ctx context.Context) (value.UserID, error) {
	raw, err := contextx.UserIDFromContext(ctx)
	if err != nil {
		return 0, failure.NewUnauthorizedError(
			"no authenticated user in context",
			failure.WithCode(errcodes.AccessTokenInvalid),
			failure.WithDescription("Token inválido"),
		)
	}

	return value.ParseUserID(raw.String())
}
