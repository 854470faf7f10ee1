package server_test

import (
	"context"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"quality_evaluator/internal/domain/entity"
	"quality_evaluator/internal/domain/service/evaluation"
	"quality_evaluator/internal/domain/service/user"
	"quality_evaluator/internal/domain/value"
	"quality_evaluator/internal/infrastructure/cache"
	"quality_evaluator/internal/infrastructure/token"
	"quality_evaluator/internal/server"
	"quality_evaluator/pkg/errcodes"
	"quality_evaluator/pkg/middlewarex"
	"quality_evaluator/pkg/rest"
	"quality_evaluator/pkg/tests"
)

type memEvaluationRepo struct {
	mu          sync.Mutex
	evaluations map[int64]entity.Evaluation
	nextID      int64
}

func (r *memEvaluationRepo) Create(_ context.Context, e *entity.Evaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	e.ID = value.EvaluationID(r.nextID)
	r.evaluations[r.nextID] = *e

	return nil
}

func (r *memEvaluationRepo) GetByIDAndOwner(_ context.Context, id value.EvaluationID, owner value.UserID) (*entity.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.evaluations[id.Int64()]
	if !ok || e.OwnerID != owner {
		return nil, failure.NewNotFoundError(
			"evaluation not found",
			failure.WithCode(errcodes.EvaluationNotFound),
		)
	}

	return &e, nil
}

func (r *memEvaluationRepo) ListByOwner(_ context.Context, owner value.UserID) ([]entity.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var owned []entity.Evaluation
	for _, e := range r.evaluations {
		if e.OwnerID == owner {
			owned = append(owned, e)
		}
	}

	sort.Slice(owned, func(i, j int) bool {
		if owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].ID > owned[j].ID
		}
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	return owned, nil
}

func (r *memEvaluationRepo) ListByOwnerPage(ctx context.Context, owner value.UserID, page value.PageRequest, _ value.Sort) ([]entity.Evaluation, int, error) {
	owned, err := r.ListByOwner(ctx, owner)
	if err != nil {
		return nil, 0, err
	}

	start, end := page.Bounds(len(owned))

	return owned[start:end], len(owned), nil
}

func (r *memEvaluationRepo) Update(_ context.Context, e *entity.Evaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evaluations[e.ID.Int64()] = *e

	return nil
}

func (r *memEvaluationRepo) Delete(_ context.Context, id value.EvaluationID, owner value.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.evaluations[id.Int64()]
	if !ok || e.OwnerID != owner {
		return failure.NewNotFoundError(
			"evaluation not found",
			failure.WithCode(errcodes.EvaluationNotFound),
		)
	}

	delete(r.evaluations, id.Int64())

	return nil
}

type memUserRepo struct {
	mu     sync.Mutex
	users  map[int64]entity.User
	nextID int64
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == u.Email {
			return failure.NewConflictError(
				"email already in use",
				failure.WithCode(errcodes.EmailAlreadyInUse),
			)
		}
	}

	r.nextID++
	u.ID = value.UserID(r.nextID)
	u.CreatedAt = time.Now()
	r.users[r.nextID] = *u

	return nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}

	return nil, failure.NewNotFoundError(
		"user not found",
		failure.WithCode(errcodes.UserNotFound),
	)
}

func (r *memUserRepo) GetByID(_ context.Context, id value.UserID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id.Int64()]
	if !ok {
		return nil, failure.NewNotFoundError(
			"user not found",
			failure.WithCode(errcodes.UserNotFound),
		)
	}

	return &u, nil
}

func (r *memUserRepo) List(_ context.Context) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]entity.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return users, nil
}

func (r *memUserRepo) Delete(_ context.Context, id value.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id.Int64()]; !ok {
		return failure.NewNotFoundError(
			"user not found",
			failure.WithCode(errcodes.UserNotFound),
		)
	}

	delete(r.users, id.Int64())

	return nil
}

type nopMetrics struct{}

func (nopMetrics) EvaluationCreated(value.Classification) {}
func (nopMetrics) EvaluationUpdated(value.Classification) {}
func (nopMetrics) EvaluationDeleted()                     {}
func (nopMetrics) ObserveCreateDuration(time.Duration)    {}

// newTestAPI wires the whole stack over in-memory stores and returns an
// API client pointed at it.
func newTestAPI(t *testing.T) (tests.APIClient, *memUserRepo) {
	t.Helper()

	evaluationRepo := &memEvaluationRepo{evaluations: make(map[int64]entity.Evaluation)}
	userRepo := &memUserRepo{users: make(map[int64]entity.User)}

	evaluationService := evaluation.NewService(
		evaluationRepo,
		cache.NewMemory(time.Minute),
		nopMetrics{},
		evaluation.NewDescriber(rand.New(rand.NewSource(1))),
	)

	tokens := token.NewJWT("test-secret", time.Hour)
	userService := user.NewService(userRepo, tokens, evaluationService)

	srv := server.NewServer(
		server.NewAuthServer(userService),
		server.NewAdminServer(userService),
		server.NewEvaluationServer(evaluationService),
		server.NewAuthMiddleware(tokens, userService),
	)

	router := chi.NewRouter()
	router.Use(middlewarex.TraceID)
	srv.RegisterRoutes(router)

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	return tests.NewAPIClient(ts.URL, ts.Client()), userRepo
}

func boolPtr(b bool) *bool { return &b }

func validEvaluationRequest() rest.EvaluationRequest {
	return rest.EvaluationRequest{
		ProjectName: "loja-virtual",
		Language:    "JAVA",
		LinesOfCode: 250,
		Complexity:  2,
		HasTests:    boolPtr(true),
		UsesGit:     boolPtr(true),
		AnalyzedBy:  "maria",
	}
}

func registerAndLogin(t *testing.T, api tests.APIClient, email string) http.Header {
	t.Helper()
	rq := require.New(t)
	ctx := context.Background()

	_, err := api.Post(ctx, "/v1/auth/register", http.Header{}, rest.RegisterRequest{
		Name:     "Maria",
		Email:    email,
		Password: "s3nh4-forte",
	}, nil, nil)
	rq.NoError(err)

	var login rest.LoginResponse

	resp, err := api.Post(ctx, "/v1/auth/login", http.Header{}, rest.LoginRequest{
		Email:    email,
		Password: "s3nh4-forte",
	}, &login, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.NotEmpty(login.Token)

	return http.Header{"Authorization": []string{"Bearer " + login.Token}}
}

func TestAuthFlow(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	api, _ := newTestAPI(t)

	var registered rest.UserResponse

	resp, err := api.Post(ctx, "/v1/auth/register", http.Header{}, rest.RegisterRequest{
		Name:     "Maria",
		Email:    "maria@example.com",
		Password: "s3nh4-forte",
	}, &registered, nil)
	rq.NoError(err)
	rq.Equal(http.StatusCreated, resp.StatusCode)
	rq.Equal("USER", registered.Role)

	// Duplicate email conflicts.
	var conflict rest.Error

	resp, err = api.Post(ctx, "/v1/auth/register", http.Header{}, rest.RegisterRequest{
		Name:     "Someone Else",
		Email:    "maria@example.com",
		Password: "outra-senha",
	}, nil, &conflict)
	rq.NoError(err)
	rq.Equal(http.StatusConflict, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.EmailAlreadyInUse.String()), conflict.Code)

	// Wrong password is unauthorized.
	resp, err = api.Post(ctx, "/v1/auth/login", http.Header{}, rest.LoginRequest{
		Email:    "maria@example.com",
		Password: "senha-errada",
	}, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func TestEvaluationsRequireToken(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	api, _ := newTestAPI(t)

	resp, err := api.Get(ctx, "/v1/evaluations", http.Header{}, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp, err = api.Get(ctx, "/v1/evaluations",
		http.Header{"Authorization": []string{"Bearer garbage"}}, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func TestEvaluationCRUD(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	api, _ := newTestAPI(t)
	auth := registerAndLogin(t, api, "maria@example.com")

	var created rest.EvaluationResponse

	resp, err := api.Post(ctx, "/v1/evaluations", auth, validEvaluationRequest(), &created, nil)
	rq.NoError(err)
	rq.Equal(http.StatusCreated, resp.StatusCode)
	rq.NotZero(created.ID)
	rq.GreaterOrEqual(created.Score, 0)
	rq.LessOrEqual(created.Score, 100)
	rq.NotEmpty(created.Classification)
	rq.NotEmpty(created.Description)

	var found rest.EvaluationResponse

	resp, err = api.Get(ctx, "/v1/evaluations/1", auth, &found, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(created.ID, found.ID)

	// Update with weaker attributes lowers the score.
	update := validEvaluationRequest()
	update.Language = "OTHER"
	update.Complexity = 5
	update.HasTests = boolPtr(false)
	update.UsesGit = boolPtr(false)

	var updated rest.EvaluationResponse

	resp, err = api.Put(ctx, "/v1/evaluations/1", auth, update, &updated, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Less(updated.Score, created.Score)

	resp, err = api.Delete(ctx, "/v1/evaluations/1", auth, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)

	resp, err = api.Get(ctx, "/v1/evaluations/1", auth, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)
}

func TestEvaluationValidation(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	api, _ := newTestAPI(t)
	auth := registerAndLogin(t, api, "maria@example.com")

	invalidLanguage := validEvaluationRequest()
	invalidLanguage.Language = "COBOL"

	resp, err := api.Post(ctx, "/v1/evaluations", auth, invalidLanguage, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)

	invalidComplexity := validEvaluationRequest()
	invalidComplexity.Complexity = 9

	resp, err = api.Post(ctx, "/v1/evaluations", auth, invalidComplexity, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
}

func TestEvaluationOwnershipIsolated(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	api, _ := newTestAPI(t)
	mariaAuth := registerAndLogin(t, api, "maria@example.com")
	joaoAuth := registerAndLogin(t, api, "joao@example.com")

	_, err := api.Post(ctx, "/v1/evaluations", mariaAuth, validEvaluationRequest(), nil, nil)
	rq.NoError(err)

	// João cannot see Maria's record.
	resp, err := api.Get(ctx, "/v1/evaluations/1", joaoAuth, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)

	var page rest.EvaluationPage

	resp, err = api.Get(ctx, "/v1/evaluations", joaoAuth, &page, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Empty(page.Content)
}

func TestEvaluationListPagination(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	api, _ := newTestAPI(t)
	auth := registerAndLogin(t, api, "maria@example.com")

	for range 5 {
		_, err := api.Post(ctx, "/v1/evaluations", auth, validEvaluationRequest(), nil, nil)
		rq.NoError(err)
	}

	var page rest.EvaluationPage

	resp, err := api.Get(ctx, "/v1/evaluations?page=1&size=2", auth, &page, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Len(page.Content, 2)
	rq.Equal(1, page.Page)
	rq.Equal(2, page.Size)
	rq.Equal(5, page.TotalElements)
	rq.Equal(3, page.TotalPages)

	resp, err = api.Get(ctx, "/v1/evaluations?size=500", auth, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
}

func TestEvaluationFilterEndpoint(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	api, _ := newTestAPI(t)
	auth := registerAndLogin(t, api, "maria@example.com")

	_, err := api.Post(ctx, "/v1/evaluations", auth, validEvaluationRequest(), nil, nil)
	rq.NoError(err)

	goRequest := validEvaluationRequest()
	goRequest.ProjectName = "billing-api"
	goRequest.Language = "GO"

	_, err = api.Post(ctx, "/v1/evaluations", auth, goRequest, nil, nil)
	rq.NoError(err)

	var page rest.EvaluationPage

	resp, err := api.Get(ctx, "/v1/evaluations/filter?language=GO", auth, &page, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Len(page.Content, 1)
	rq.Equal("billing-api", page.Content[0].ProjectName)

	// An inverted score range is rejected before any record is read.
	resp, err = api.Get(ctx, "/v1/evaluations/filter?minScore=90&maxScore=10", auth, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusUnprocessableEntity, resp.StatusCode)

	resp, err = api.Get(ctx, "/v1/evaluations/filter?startDate=2026-12-31&endDate=2026-01-01", auth, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusUnprocessableEntity, resp.StatusCode)

	resp, err = api.Get(ctx, "/v1/evaluations/filter?startDate=not-a-date", auth, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
}

func TestEvaluationExportCSV(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	api, _ := newTestAPI(t)
	auth := registerAndLogin(t, api, "maria@example.com")

	// Exporting an empty set is a business rule violation.
	resp, err := api.Get(ctx, "/v1/evaluations/export/csv", auth, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusUnprocessableEntity, resp.StatusCode)

	_, err = api.Post(ctx, "/v1/evaluations", auth, validEvaluationRequest(), nil, nil)
	rq.NoError(err)

	body, header := rawGet(t, api, "/v1/evaluations/export/csv", auth)
	rq.Contains(header.Get("Content-Type"), "text/csv")
	rq.Contains(header.Get("Content-Disposition"), "avaliacoes.csv")
	rq.True(strings.HasPrefix(body, "Projeto,Linguagem,Nota,Classificacao,Data"))
	rq.Contains(body, "loja-virtual")
}

func TestEvaluationStatsAndDashboard(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	api, _ := newTestAPI(t)
	auth := registerAndLogin(t, api, "maria@example.com")

	_, err := api.Post(ctx, "/v1/evaluations", auth, validEvaluationRequest(), nil, nil)
	rq.NoError(err)

	var stats rest.StatsResponse

	resp, err := api.Get(ctx, "/v1/evaluations/stats", auth, &stats, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(int64(1), stats.Total)

	var dashboard rest.DashboardResponse

	resp, err = api.Get(ctx, "/v1/evaluations/dashboard", auth, &dashboard, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(int64(1), dashboard.Total)
	rq.Equal(int64(1), dashboard.ByLanguage["JAVA"])
	rq.InDelta(100.0, dashboard.TestsPercentage, 0.001)
}

func TestAdminZone(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	api, userRepo := newTestAPI(t)
	userAuth := registerAndLogin(t, api, "maria@example.com")

	// Plain users are kept out.
	resp, err := api.Get(ctx, "/v1/admin/users", userAuth, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusForbidden, resp.StatusCode)

	// Seed an admin directly in the store and log in through the API.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-secret"), bcrypt.DefaultCost)
	rq.NoError(err)

	rq.NoError(userRepo.Create(ctx, &entity.User{
		Name:         "Root",
		Email:        "root@example.com",
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
	}))

	var login rest.LoginResponse

	_, err = api.Post(ctx, "/v1/auth/login", http.Header{}, rest.LoginRequest{
		Email:    "root@example.com",
		Password: "admin-secret",
	}, &login, nil)
	rq.NoError(err)

	adminAuth := http.Header{"Authorization": []string{"Bearer " + login.Token}}

	var users []rest.UserResponse

	resp, err = api.Get(ctx, "/v1/admin/users", adminAuth, &users, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Len(users, 2)

	// Delete the ordinary user; their session is then invalid.
	resp, err = api.Delete(ctx, "/v1/admin/users/1", adminAuth, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)

	resp, err = api.Get(ctx, "/v1/evaluations", userAuth, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusUnauthorized, resp.StatusCode)
}

// rawGet fetches a non-JSON endpoint.
func rawGet(t *testing.T, api tests.APIClient, endpoint string, headers http.Header) (string, http.Header) {
	t.Helper()
	rq := require.New(t)

	resp, err := api.Get(context.Background(), endpoint, headers, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)

	// The client closed the body; fetch again directly for the payload.
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, resp.Request.URL.String(), http.NoBody)
	rq.NoError(err)
	req.Header = headers.Clone()

	direct, err := http.DefaultClient.Do(req)
	rq.NoError(err)

	defer direct.Body.Close()

	body, err := io.ReadAll(direct.Body)
	rq.NoError(err)

	return string(body), direct.Header
}
