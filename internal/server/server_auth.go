package server

import (
	"context"
	"fmt"
	"net/http"

	"quality_evaluator/internal/domain/entity"
	"quality_evaluator/pkg/httpx/reply"
	"quality_evaluator/pkg/httpx/req"
	"quality_evaluator/pkg/rest"
)

type authService interface {
	Register(ctx context.Context, name, email, password string) (entity.User, error)
	Login(ctx context.Context, email, password string) (string, entity.User, error)
}

type AuthServer struct {
	authService authService
}

func NewAuthServer(authService authService) AuthServer {
	return AuthServer{
		authService: authService,
	}
}

func (s AuthServer) postV1AuthRegister(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.RegisterRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	user, err := s.authService.Register(ctx, request.Name, request.Email, request.Password)
	if err != nil {
		return fmt.Errorf("authService.Register: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTUser(user))

	return nil
}

func (s AuthServer) postV1AuthLogin(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.LoginRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	token, user, err := s.authService.Login(ctx, request.Email, request.Password)
	if err != nil {
		return fmt.Errorf("authService.Login: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.LoginResponse{
		Token: token,
		User:  newRESTUser(user),
	})

	return nil
}
