package token

import (
	"errors"
	"fmt"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/golang-jwt/jwt/v5"

	"quality_evaluator/internal/domain/value"
	"quality_evaluator/pkg/errcodes"
)

// JWT issues and verifies HS256 access tokens whose subject is the user id.
type JWT struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWT(secret string, ttl time.Duration) *JWT {
	return &JWT{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (j *JWT) Issue(userID value.UserID) (string, error) {
	now := j.now()

	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("jwt.SignedString: %w", err)
	}

	return signed, nil
}

// Verify parses the token and returns the user id it was issued for.
func (j *JWT) Verify(raw string) (value.UserID, error) {
	parsed, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return j.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, failure.NewUnauthorizedError(
				"access token expired",
				failure.WithCode(errcodes.AccessTokenExpired),
				failure.WithDescription("Token expirado"),
			)
		}

		return 0, invalidToken()
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, invalidToken()
	}

	userID, err := value.ParseUserID(claims.Subject)
	if err != nil {
		return 0, invalidToken()
	}

	return userID, nil
}

func invalidToken() error {
	return failure.NewUnauthorizedError(
		"access token invalid",
		failure.WithCode(errcodes.AccessTokenInvalid),
		failure.WithDescription("Token inválido"),
	)
}
