package evaluation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"git.appkode.ru/pub/go/failure"
	jsoniter "github.com/json-iterator/go"

	"quality_evaluator/internal/domain/entity"
	"quality_evaluator/internal/domain/value"
	"quality_evaluator/pkg/contextx"
	"quality_evaluator/pkg/errcodes"
)

//nolint:gochecknoglobals
var (
	logger = contextx.LoggerFromContextOrDefault
	json   = jsoniter.ConfigCompatibleWithStandardLibrary
)

const (
	cacheNamespaceEvaluation = "evaluation"
	cacheNamespaceList       = "evaluations"
	cacheNamespaceStats      = "evaluationStats"
	cacheNamespaceDashboard  = "dashboardSummary"
)

// Repository is the persistence contract for evaluations. Every read is
// scoped to the owning user so one user can never observe another's rows.
type Repository interface {
	Create(ctx context.Context, evaluation *entity.Evaluation) error
	GetByIDAndOwner(ctx context.Context, id value.EvaluationID, owner value.UserID) (*entity.Evaluation, error)
	ListByOwner(ctx context.Context, owner value.UserID) ([]entity.Evaluation, error)
	ListByOwnerPage(ctx context.Context, owner value.UserID, page value.PageRequest, sort value.Sort) ([]entity.Evaluation, int, error)
	Update(ctx context.Context, evaluation *entity.Evaluation) error
	Delete(ctx context.Context, id value.EvaluationID, owner value.UserID) error
}

// Cache is a namespaced byte cache. Implementations absorb their own
// failures: a miss and a backend error look the same to the caller, and
// Put/Evict are best effort.
type Cache interface {
	Get(ctx context.Context, namespace, key string) ([]byte, bool)
	Put(ctx context.Context, namespace, key string, value []byte)
	Evict(ctx context.Context, namespace, key string)
	EvictAll(ctx context.Context, namespace string)
}

type Metrics interface {
	EvaluationCreated(classification value.Classification)
	EvaluationUpdated(classification value.Classification)
	EvaluationDeleted()
	ObserveCreateDuration(d time.Duration)
}

// Page is one window of an evaluation listing.
type Page struct {
	Content       []entity.Evaluation
	Number        int
	Size          int
	TotalElements int
}

func (p Page) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}

	return (p.TotalElements + p.Size - 1) / p.Size
}

type Service struct {
	repo        Repository
	cache       Cache
	metrics     Metrics
	describer   *Describer
	scoreConfig ScoreConfig
}

func NewService(repo Repository, cache Cache, metrics Metrics, describer *Describer) *Service {
	return &Service{
		repo:        repo,
		cache:       cache,
		metrics:     metrics,
		describer:   describer,
		scoreConfig: DefaultScoreConfig(),
	}
}

func (s *Service) WithScoreConfig(cfg ScoreConfig) *Service {
	s.scoreConfig = cfg

	return s
}

func (s *Service) Create(ctx context.Context, owner value.UserID, in Input) (entity.Evaluation, error) {
	if err := validateInput(in); err != nil {
		return entity.Evaluation{}, err
	}

	start := time.Now()

	score := s.scoreConfig.Score(in)
	classification := Classify(score)

	description := strings.TrimSpace(in.Description)
	if description == "" {
		description = s.describer.Generate(in, score, classification)
	}

	evaluation := entity.Evaluation{
		OwnerID:        owner,
		ProjectName:    in.ProjectName,
		Language:       in.Language,
		LinesOfCode:    in.LinesOfCode,
		Complexity:     in.Complexity,
		HasTests:       in.HasTests,
		UsesGit:        in.UsesGit,
		AnalyzedBy:     in.AnalyzedBy,
		Score:          score,
		Classification: classification,
		Description:    description,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, &evaluation); err != nil {
		return entity.Evaluation{}, fmt.Errorf("repo.Create: %w", err)
	}

	s.metrics.EvaluationCreated(classification)
	s.metrics.ObserveCreateDuration(time.Since(start))

	s.evictOwned(ctx, owner)

	logger(ctx).Info("evaluation created",
		"evaluation_id", evaluation.ID.Int64(),
		"score", score,
		"classification", classification,
	)

	return evaluation, nil
}

func (s *Service) GetByID(ctx context.Context, owner value.UserID, id value.EvaluationID) (entity.Evaluation, error) {
	return readThrough(ctx, s.cache, cacheNamespaceEvaluation, singleKey(id, owner),
		func() (entity.Evaluation, error) {
			evaluation, err := s.repo.GetByIDAndOwner(ctx, id, owner)
			if err != nil {
				return entity.Evaluation{}, fmt.Errorf("repo.GetByIDAndOwner: %w", err)
			}

			return *evaluation, nil
		})
}

// List returns one page of the owner's evaluations. The default ordering
// (newest first) is served from the cached full listing; any other sort
// goes straight to the store, which orders and windows in SQL.
func (s *Service) List(ctx context.Context, owner value.UserID, page value.PageRequest, sort value.Sort) (Page, error) {
	if !sort.IsDefault() {
		content, total, err := s.repo.ListByOwnerPage(ctx, owner, page, sort)
		if err != nil {
			return Page{}, fmt.Errorf("repo.ListByOwnerPage: %w", err)
		}

		return newPage(content, page, total), nil
	}

	owned, err := s.ownedList(ctx, owner)
	if err != nil {
		return Page{}, err
	}

	return newPage(Paginate(owned, page), page, len(owned)), nil
}

// Filter evaluates the predicate chain over the owner's live listing.
// Filtered reads never touch the cache: the combination space is unbounded
// and stale matches would be indistinguishable from real ones.
func (s *Service) Filter(ctx context.Context, owner value.UserID, filter value.EvaluationFilter, page value.PageRequest) (Page, error) {
	if err := filter.Validate(); err != nil {
		return Page{}, err
	}

	owned, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return Page{}, fmt.Errorf("repo.ListByOwner: %w", err)
	}

	filtered := ApplyFilter(owned, filter)

	return newPage(Paginate(filtered, page), page, len(filtered)), nil
}

func (s *Service) ExportCSV(ctx context.Context, owner value.UserID, filter value.EvaluationFilter) ([]byte, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	owned, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("repo.ListByOwner: %w", err)
	}

	filtered := ApplyFilter(owned, filter)
	if len(filtered) == 0 {
		return nil, failure.NewUnprocessableEntityError(
			"no evaluations match the export filter",
			failure.WithCode(errcodes.NothingToExport),
			failure.WithDescription("Nenhuma avaliação encontrada para exportação"),
		)
	}

	return ExportCSV(filtered)
}

// Update rescores the evaluation from the new attributes. The original
// creation timestamp and owner are preserved.
func (s *Service) Update(ctx context.Context, owner value.UserID, id value.EvaluationID, in Input) (entity.Evaluation, error) {
	if err := validateInput(in); err != nil {
		return entity.Evaluation{}, err
	}

	existing, err := s.repo.GetByIDAndOwner(ctx, id, owner)
	if err != nil {
		return entity.Evaluation{}, fmt.Errorf("repo.GetByIDAndOwner: %w", err)
	}

	score := s.scoreConfig.Score(in)
	classification := Classify(score)

	description := strings.TrimSpace(in.Description)
	if description == "" {
		description = s.describer.Generate(in, score, classification)
	}

	updated := *existing
	updated.ProjectName = in.ProjectName
	updated.Language = in.Language
	updated.LinesOfCode = in.LinesOfCode
	updated.Complexity = in.Complexity
	updated.HasTests = in.HasTests
	updated.UsesGit = in.UsesGit
	updated.AnalyzedBy = in.AnalyzedBy
	updated.Score = score
	updated.Classification = classification
	updated.Description = description

	if err = s.repo.Update(ctx, &updated); err != nil {
		return entity.Evaluation{}, fmt.Errorf("repo.Update: %w", err)
	}

	s.metrics.EvaluationUpdated(classification)

	s.cache.Evict(ctx, cacheNamespaceEvaluation, singleKey(id, owner))
	s.evictOwned(ctx, owner)

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, owner value.UserID, id value.EvaluationID) error {
	if _, err := s.repo.GetByIDAndOwner(ctx, id, owner); err != nil {
		return fmt.Errorf("repo.GetByIDAndOwner: %w", err)
	}

	if err := s.repo.Delete(ctx, id, owner); err != nil {
		return fmt.Errorf("repo.Delete: %w", err)
	}

	s.metrics.EvaluationDeleted()

	s.cache.Evict(ctx, cacheNamespaceEvaluation, singleKey(id, owner))
	s.evictOwned(ctx, owner)

	logger(ctx).Info("evaluation deleted", "evaluation_id", id.Int64())

	return nil
}

func (s *Service) Stats(ctx context.Context, owner value.UserID) (Stats, error) {
	return readThrough(ctx, s.cache, cacheNamespaceStats, owner.String(),
		func() (Stats, error) {
			owned, err := s.repo.ListByOwner(ctx, owner)
			if err != nil {
				return Stats{}, fmt.Errorf("repo.ListByOwner: %w", err)
			}

			return BuildStats(owned), nil
		})
}

func (s *Service) Dashboard(ctx context.Context, owner value.UserID) (DashboardSummary, error) {
	return readThrough(ctx, s.cache, cacheNamespaceDashboard, owner.String(),
		func() (DashboardSummary, error) {
			owned, err := s.repo.ListByOwner(ctx, owner)
			if err != nil {
				return DashboardSummary{}, fmt.Errorf("repo.ListByOwner: %w", err)
			}

			return BuildDashboard(owned), nil
		})
}

// PurgeCaches drops every cached evaluation projection across all users.
// Used after bulk mutations such as a user deletion cascading over rows
// whose cache keys are no longer recoverable.
func (s *Service) PurgeCaches(ctx context.Context) {
	s.cache.EvictAll(ctx, cacheNamespaceEvaluation)
	s.cache.EvictAll(ctx, cacheNamespaceList)
	s.cache.EvictAll(ctx, cacheNamespaceStats)
	s.cache.EvictAll(ctx, cacheNamespaceDashboard)
}

func (s *Service) ownedList(ctx context.Context, owner value.UserID) ([]entity.Evaluation, error) {
	return readThrough(ctx, s.cache, cacheNamespaceList, owner.String(),
		func() ([]entity.Evaluation, error) {
			owned, err := s.repo.ListByOwner(ctx, owner)
			if err != nil {
				return nil, fmt.Errorf("repo.ListByOwner: %w", err)
			}

			return owned, nil
		})
}

func (s *Service) evictOwned(ctx context.Context, owner value.UserID) {
	key := owner.String()

	s.cache.Evict(ctx, cacheNamespaceList, key)
	s.cache.Evict(ctx, cacheNamespaceStats, key)
	s.cache.Evict(ctx, cacheNamespaceDashboard, key)
}

func validateInput(in Input) error {
	if !in.Language.Valid() {
		return failure.NewInvalidArgumentError(
			"unknown language: "+string(in.Language),
			failure.WithCode(errcodes.InvalidLanguage),
			failure.WithDescription("Linguagem inválida"),
		)
	}

	return nil
}

func singleKey(id value.EvaluationID, owner value.UserID) string {
	return id.String() + "-" + owner.String()
}

// readThrough serves v from the cache when a well-formed entry exists,
// otherwise loads it and stores the serialized result for the next read.
func readThrough[T any](ctx context.Context, cache Cache, namespace, key string, load func() (T, error)) (T, error) {
	if raw, ok := cache.Get(ctx, namespace, key); ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}

		logger(ctx).Warn("dropping unreadable cache entry", "namespace", namespace, "key", key)
		cache.Evict(ctx, namespace, key)
	}

	v, err := load()
	if err != nil {
		var zero T

		return zero, err
	}

	if raw, err := json.Marshal(v); err == nil {
		cache.Put(ctx, namespace, key, raw)
	}

	return v, nil
}

func newPage(content []entity.Evaluation, page value.PageRequest, total int) Page {
	if content == nil {
		content = []entity.Evaluation{}
	}

	return Page{
		Content:       content,
		Number:        page.Page,
		Size:          page.Size,
		TotalElements: total,
	}
}
