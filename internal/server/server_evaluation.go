package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"quality_evaluator/internal/domain/entity"
	"quality_evaluator/internal/domain/service/evaluation"
	"quality_evaluator/internal/domain/value"
	"quality_evaluator/pkg/httpx/reply"
	"quality_evaluator/pkg/httpx/req"
	"quality_evaluator/pkg/rest"
)

const exportFileName = "avaliacoes.csv"

type evaluationService interface {
	Create(ctx context.Context, owner value.UserID, in evaluation.Input) (entity.Evaluation, error)
	GetByID(ctx context.Context, owner value.UserID, id value.EvaluationID) (entity.Evaluation, error)
	List(ctx context.Context, owner value.UserID, page value.PageRequest, sort value.Sort) (evaluation.Page, error)
	Filter(ctx context.Context, owner value.UserID, filter value.EvaluationFilter, page value.PageRequest) (evaluation.Page, error)
	ExportCSV(ctx context.Context, owner value.UserID, filter value.EvaluationFilter) ([]byte, error)
	Update(ctx context.Context, owner value.UserID, id value.EvaluationID, in evaluation.Input) (entity.Evaluation, error)
	Delete(ctx context.Context, owner value.UserID, id value.EvaluationID) error
	Stats(ctx context.Context, owner value.UserID) (evaluation.Stats, error)
	Dashboard(ctx context.Context, owner value.UserID) (evaluation.DashboardSummary, error)
}

type EvaluationServer struct {
	evaluationService evaluationService
}

func NewEvaluationServer(evaluationService evaluationService) EvaluationServer {
	return EvaluationServer{
		evaluationService: evaluationService,
	}
}

func (s EvaluationServer) postV1Evaluations(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	owner, err := ownerFromContext(ctx)
	if err != nil {
		return err
	}

	var request rest.EvaluationRequest

	if err = req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	in, err := newDomainInput(request)
	if err != nil {
		return err
	}

	created, err := s.evaluationService.Create(ctx, owner, in)
	if err != nil {
		return fmt.Errorf("evaluationService.Create: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTEvaluation(created))

	return nil
}

func (s EvaluationServer) getV1Evaluations(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	owner, err := ownerFromContext(ctx)
	if err != nil {
		return err
	}

	page, err := pageFromQuery(r.URL.Query())
	if err != nil {
		return err
	}

	sort, err := sortFromQuery(r.URL.Query())
	if err != nil {
		return err
	}

	listed, err := s.evaluationService.List(ctx, owner, page, sort)
	if err != nil {
		return fmt.Errorf("evaluationService.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPage(listed))

	return nil
}

func (s EvaluationServer) getV1Evaluation(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	owner, err := ownerFromContext(ctx)
	if err != nil {
		return err
	}

	id, err := value.ParseEvaluationID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseEvaluationID: %w", err)
	}

	found, err := s.evaluationService.GetByID(ctx, owner, id)
	if err != nil {
		return fmt.Errorf("evaluationService.GetByID: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTEvaluation(found))

	return nil
}

func (s EvaluationServer) putV1Evaluation(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	owner, err := ownerFromContext(ctx)
	if err != nil {
		return err
	}

	id, err := value.ParseEvaluationID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseEvaluationID: %w", err)
	}

	var request rest.EvaluationRequest

	if err = req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	in, err := newDomainInput(request)
	if err != nil {
		return err
	}

	updated, err := s.evaluationService.Update(ctx, owner, id, in)
	if err != nil {
		return fmt.Errorf("evaluationService.Update: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTEvaluation(updated))

	return nil
}

func (s EvaluationServer) deleteV1Evaluation(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	owner, err := ownerFromContext(ctx)
	if err != nil {
		return err
	}

	id, err := value.ParseEvaluationID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseEvaluationID: %w", err)
	}

	if err = s.evaluationService.Delete(ctx, owner, id); err != nil {
		return fmt.Errorf("evaluationService.Delete: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s EvaluationServer) getV1EvaluationsFilter(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	owner, err := ownerFromContext(ctx)
	if err != nil {
		return err
	}

	filter, err := filterFromQuery(r.URL.Query())
	if err != nil {
		return err
	}

	page, err := pageFromQuery(r.URL.Query())
	if err != nil {
		return err
	}

	filtered, err := s.evaluationService.Filter(ctx, owner, filter, page)
	if err != nil {
		return fmt.Errorf("evaluationService.Filter: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPage(filtered))

	return nil
}

func (s EvaluationServer) getV1EvaluationsExportCSV(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	owner, err := ownerFromContext(ctx)
	if err != nil {
		return err
	}

	filter, err := filterFromQuery(r.URL.Query())
	if err != nil {
		return err
	}

	data, err := s.evaluationService.ExportCSV(ctx, owner, filter)
	if err != nil {
		return fmt.Errorf("evaluationService.ExportCSV: %w", err)
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)

	_, _ = w.Write(data)

	return nil
}

func (s EvaluationServer) getV1EvaluationsStats(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	owner, err := ownerFromContext(ctx)
	if err != nil {
		return err
	}

	stats, err := s.evaluationService.Stats(ctx, owner)
	if err != nil {
		return fmt.Errorf("evaluationService.Stats: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTStats(stats))

	return nil
}

func (s EvaluationServer) getV1EvaluationsDashboard(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	owner, err := ownerFromContext(ctx)
	if err != nil {
		return err
	}

	summary, err := s.evaluationService.Dashboard(ctx, owner)
	if err != nil {
		return fmt.Errorf("evaluationService.Dashboard: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDashboard(summary))

	return nil
}
