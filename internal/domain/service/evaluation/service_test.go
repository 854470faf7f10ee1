package evaluation_test

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"testing"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/stretchr/testify/require"

	"quality_evaluator/internal/domain/entity"
	"quality_evaluator/internal/domain/service/evaluation"
	"quality_evaluator/internal/domain/value"
	"quality_evaluator/pkg/errcodes"
)

type fakeRepo struct {
	mu          sync.Mutex
	evaluations map[int64]entity.Evaluation
	nextID      int64

	getCalls  int
	listCalls int
	pageCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{evaluations: make(map[int64]entity.Evaluation)}
}

func (r *fakeRepo) Create(_ context.Context, e *entity.Evaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	e.ID = value.EvaluationID(r.nextID)
	r.evaluations[r.nextID] = *e

	return nil
}

func (r *fakeRepo) GetByIDAndOwner(_ context.Context, id value.EvaluationID, owner value.UserID) (*entity.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.getCalls++

	e, ok := r.evaluations[id.Int64()]
	if !ok || e.OwnerID != owner {
		return nil, failure.NewNotFoundError(
			"evaluation not found",
			failure.WithCode(errcodes.EvaluationNotFound),
		)
	}

	return &e, nil
}

func (r *fakeRepo) ListByOwner(_ context.Context, owner value.UserID) ([]entity.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.listCalls++

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

func (r *fakeRepo) ListByOwnerPage(ctx context.Context, owner value.UserID, page value.PageRequest, sort value.Sort) ([]entity.Evaluation, int, error) {
	r.mu.Lock()
	r.pageCalls++
	r.mu.Unlock()

	owned, err := r.ListByOwner(ctx, owner)
	if err != nil {
		return nil, 0, err
	}

	start, end := page.Bounds(len(owned))

	return owned[start:end], len(owned), nil
}

func (r *fakeRepo) Update(_ context.Context, e *entity.Evaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.evaluations[e.ID.Int64()]; !ok {
		return failure.NewNotFoundError(
			"evaluation not found",
			failure.WithCode(errcodes.EvaluationNotFound),
		)
	}

	r.evaluations[e.ID.Int64()] = *e

	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id value.EvaluationID, owner value.UserID) error {
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

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	evicted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, namespace, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.entries[namespace+":"+key]

	return data, ok
}

func (c *fakeCache) Put(_ context.Context, namespace, key string, v []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[namespace+":"+key] = v
}

func (c *fakeCache) Evict(_ context.Context, namespace, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, namespace+":"+key)
	c.evicted = append(c.evicted, namespace+":"+key)
}

func (c *fakeCache) EvictAll(_ context.Context, namespace string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if len(key) > len(namespace) && key[:len(namespace)+1] == namespace+":" {
			delete(c.entries, key)
		}
	}

	c.evicted = append(c.evicted, namespace+":*")
}

func (c *fakeCache) has(namespace, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[namespace+":"+key]

	return ok
}

type fakeMetrics struct {
	mu      sync.Mutex
	created int
	updated int
	deleted int
}

func (m *fakeMetrics) EvaluationCreated(value.Classification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created++
}

func (m *fakeMetrics) EvaluationUpdated(value.Classification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updated++
}

func (m *fakeMetrics) EvaluationDeleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted++
}

func (m *fakeMetrics) ObserveCreateDuration(time.Duration) {}

func newTestService() (*evaluation.Service, *fakeRepo, *fakeCache, *fakeMetrics) {
	repo := newFakeRepo()
	cache := newFakeCache()
	metrics := &fakeMetrics{}
	describer := evaluation.NewDescriber(rand.New(rand.NewSource(1)))

	return evaluation.NewService(repo, cache, metrics, describer), repo, cache, metrics
}

func validInput() evaluation.Input {
	return evaluation.Input{
		ProjectName: "loja-virtual",
		Language:    value.LanguageJava,
		LinesOfCode: 250,
		Complexity:  2,
		HasTests:    true,
		UsesGit:     true,
		AnalyzedBy:  "maria",
	}
}

func TestServiceCreate(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc, repo, _, metrics := newTestService()

	created, err := svc.Create(ctx, 1, validInput())
	rq.NoError(err)

	rq.Equal(value.EvaluationID(1), created.ID)
	rq.Equal(value.UserID(1), created.OwnerID)
	rq.Equal(evaluation.Classify(created.Score), created.Classification)
	rq.NotEmpty(created.Description)
	rq.False(created.CreatedAt.IsZero())

	rq.Len(repo.evaluations, 1)
	rq.Equal(1, metrics.created)
}

func TestServiceCreateInvalidLanguage(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc, repo, _, metrics := newTestService()

	in := validInput()
	in.Language = "KLINGON"

	_, err := svc.Create(ctx, 1, in)
	rq.Error(err)
	rq.True(failure.IsInvalidArgumentError(err))

	// Nothing was scored or stored.
	rq.Empty(repo.evaluations)
	rq.Zero(metrics.created)
}

func TestServiceCreateKeepsProvidedDescription(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc, _, _, _ := newTestService()

	in := validInput()
	in.Description = "  Avaliação fornecida pelo analista.  "

	created, err := svc.Create(ctx, 1, in)
	rq.NoError(err)
	rq.Equal("Avaliação fornecida pelo analista.", created.Description)
}

func TestServiceGetByIDServedFromCache(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc, repo, _, _ := newTestService()

	created, err := svc.Create(ctx, 1, validInput())
	rq.NoError(err)

	first, err := svc.GetByID(ctx, 1, created.ID)
	rq.NoError(err)

	callsAfterFirst := repo.getCalls

	second, err := svc.GetByID(ctx, 1, created.ID)
	rq.NoError(err)

	rq.Equal(first.ID, second.ID)
	rq.Equal(callsAfterFirst, repo.getCalls)
}

func TestServiceGetByIDOwnershipScoped(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc, _, _, _ := newTestService()

	created, err := svc.Create(ctx, 1, validInput())
	rq.NoError(err)

	// Another user never sees it, not even a cached copy.
	_, err = svc.GetByID(ctx, 2, created.ID)
	rq.Error(err)
	rq.True(failure.IsNotFoundError(err))
}

func TestServiceListDefaultSortCachesFullList(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc, repo, cache, _ := newTestService()

	for range 5 {
		_, err := svc.Create(ctx, 1, validInput())
		rq.NoError(err)
	}

	page, err := svc.List(ctx, 1, value.PageRequest{Page: 0, Size: 2}, value.DefaultSort())
	rq.NoError(err)
	rq.Len(page.Content, 2)
	rq.Equal(5, page.TotalElements)
	rq.Equal(3, page.TotalPages())

	callsAfterFirst := repo.listCalls

	// Another window is cut from the cached full listing.
	page, err = svc.List(ctx, 1, value.PageRequest{Page: 2, Size: 2}, value.DefaultSort())
	rq.NoError(err)
	rq.Len(page.Content, 1)
	rq.Equal(callsAfterFirst, repo.listCalls)
	rq.True(cache.has("evaluations", "1"))
}

func TestServiceListCustomSortBypassesCache(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc, repo, cache, _ := newTestService()

	for range 3 {
		_, err := svc.Create(ctx, 1, validInput())
		rq.NoError(err)
	}

	page, err := svc.List(ctx, 1, value.PageRequest{Page: 0, Size: 10},
		value.Sort{Field: value.SortByScore, Desc: false})
	rq.NoError(err)
	rq.Len(page.Content, 3)

	rq.Equal(1, repo.pageCalls)
	rq.False(cache.has("evaluations", "1"))
}

func TestServiceFilterBypassesCache(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc, repo, _, _ := newTestService()

	_, err := svc.Create(ctx, 1, validInput())
	rq.NoError(err)

	_, err = svc.List(ctx, 1, value.PageRequest{Page: 0, Size: 10}, value.DefaultSort())
	rq.NoError(err)

	callsAfterList := repo.listCalls

	_, err = svc.Filter(ctx, 1, value.EvaluationFilter{Language: value.LanguageJava},
		value.PageRequest{Page: 0, Size: 10})
	rq.NoError(err)

	// The filtered read hit the store even though the listing is cached.
	rq.Equal(callsAfterList+1, repo.listCalls)
}

func TestServiceFilterInvalidRangeFailsBeforeStore(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc, repo, _, _ := newTestService()

	minScore, maxScore := 90, 10

	_, err := svc.Filter(ctx, 1, value.EvaluationFilter{MinScore: &minScore, MaxScore: &maxScore},
		value.PageRequest{Page: 0, Size: 10})
	rq.Error(err)
	rq.True(failure.IsUnprocessableEntityError(err))
	rq.Zero(repo.listCalls)
}

func TestServiceExportCSVEmptyResult(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc, _, _, _ := newTestService()

	_, err := svc.ExportCSV(ctx, 1, value.EvaluationFilter{})
	rq.Error(err)
	rq.True(failure.IsUnprocessableEntityError(err))
	rq.Equal(errcodes.NothingToExport, failure.Code(err))
}

func TestServiceExportCSVAppliesFilter(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc, _, _, _ := newTestService()

	_, err := svc.Create(ctx, 1, validInput())
	rq.NoError(err)

	goInput := validInput()
	goInput.ProjectName = "billing-api"
	goInput.Language = value.LanguageGo

	_, err = svc.Create(ctx, 1, goInput)
	rq.NoError(err)

	data, err := svc.ExportCSV(ctx, 1, value.EvaluationFilter{Language: value.LanguageGo})
	rq.NoError(err)
	rq.Contains(string(data), "billing-api")
	rq.NotContains(string(data), "loja-virtual")
}

func TestServiceUpdateRecomputesAndEvicts(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc, _, cache, metrics := newTestService()

	created, err := svc.Create(ctx, 1, validInput())
	rq.NoError(err)

	// Warm the single-record cache.
	_, err = svc.GetByID(ctx, 1, created.ID)
	rq.NoError(err)
	rq.True(cache.has("evaluation", created.ID.String()+"-1"))

	in := validInput()
	in.Language = value.LanguageOther
	in.HasTests = false
	in.UsesGit = false
	in.Complexity = 5

	updated, err := svc.Update(ctx, 1, created.ID, in)
	rq.NoError(err)

	rq.Less(updated.Score, created.Score)
	rq.Equal(created.CreatedAt, updated.CreatedAt)
	rq.Equal(1, metrics.updated)
	rq.False(cache.has("evaluation", created.ID.String()+"-1"))

	// A fresh read returns the new state.
	found, err := svc.GetByID(ctx, 1, created.ID)
	rq.NoError(err)
	rq.Equal(updated.Score, found.Score)
}

func TestServiceDelete(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc, _, _, metrics := newTestService()

	created, err := svc.Create(ctx, 1, validInput())
	rq.NoError(err)

	rq.NoError(svc.Delete(ctx, 1, created.ID))
	rq.Equal(1, metrics.deleted)

	err = svc.Delete(ctx, 1, created.ID)
	rq.Error(err)
	rq.True(failure.IsNotFoundError(err))
}

func TestServiceStatsServedFromCache(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc, repo, _, _ := newTestService()

	_, err := svc.Create(ctx, 1, validInput())
	rq.NoError(err)

	stats, err := svc.Stats(ctx, 1)
	rq.NoError(err)
	rq.Equal(int64(1), stats.Total)

	callsAfterFirst := repo.listCalls

	_, err = svc.Stats(ctx, 1)
	rq.NoError(err)
	rq.Equal(callsAfterFirst, repo.listCalls)
}

func TestServiceCreateEvictsAggregates(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc, _, _, _ := newTestService()

	_, err := svc.Create(ctx, 1, validInput())
	rq.NoError(err)

	stats, err := svc.Stats(ctx, 1)
	rq.NoError(err)
	rq.Equal(int64(1), stats.Total)

	summary, err := svc.Dashboard(ctx, 1)
	rq.NoError(err)
	rq.Equal(int64(1), summary.Total)

	// A second create invalidates both cached aggregates.
	_, err = svc.Create(ctx, 1, validInput())
	rq.NoError(err)

	stats, err = svc.Stats(ctx, 1)
	rq.NoError(err)
	rq.Equal(int64(2), stats.Total)

	summary, err = svc.Dashboard(ctx, 1)
	rq.NoError(err)
	rq.Equal(int64(2), summary.Total)
}

func TestServicePurgeCaches(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc, repo, cache, _ := newTestService()

	_, err := svc.Create(ctx, 1, validInput())
	rq.NoError(err)

	_, err = svc.List(ctx, 1, value.PageRequest{Page: 0, Size: 10}, value.DefaultSort())
	rq.NoError(err)
	rq.True(cache.has("evaluations", "1"))

	svc.PurgeCaches(ctx)
	rq.False(cache.has("evaluations", "1"))

	callsBefore := repo.listCalls

	_, err = svc.List(ctx, 1, value.PageRequest{Page: 0, Size: 10}, value.DefaultSort())
	rq.NoError(err)
	rq.Equal(callsBefore+1, repo.listCalls)
}
