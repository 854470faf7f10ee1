package server

import (
	"context"
	"fmt"
	"net/http"

	"quality_evaluator/internal/domain/entity"
	"quality_evaluator/internal/domain/value"
	"quality_evaluator/pkg/httpx/reply"
	"quality_evaluator/pkg/lox"
)

type adminService interface {
	List(ctx context.Context) ([]entity.User, error)
	Delete(ctx context.Context, id value.UserID) error
}

type AdminServer struct {
	adminService adminService
}

func NewAdminServer(adminService adminService) AdminServer {
	return AdminServer{
		adminService: adminService,
	}
}

func (s AdminServer) getV1AdminUsers(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	users, err := s.adminService.List(ctx)
	if err != nil {
		return fmt.Errorf("adminService.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(users, newRESTUser))

	return nil
}

func (s AdminServer) deleteV1AdminUser(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := value.ParseUserID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseUserID: %w", err)
	}

	if err = s.adminService.Delete(ctx, id); err != nil {
		return fmt.Errorf("adminService.Delete: %w", err)
	}

	reply.OK(w)

	return nil
}
