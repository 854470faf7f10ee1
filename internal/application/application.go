package application

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"quality_evaluator/internal/config"
	"quality_evaluator/internal/domain/service/evaluation"
	"quality_evaluator/internal/domain/service/user"
	"quality_evaluator/internal/infrastructure/cache"
	"quality_evaluator/internal/infrastructure/metrics"
	"quality_evaluator/internal/infrastructure/persistence"
	"quality_evaluator/internal/infrastructure/token"
	"quality_evaluator/internal/server"
	"quality_evaluator/pkg/application/connectors"
	"quality_evaluator/pkg/application/modules"
	"quality_evaluator/pkg/logx"
	"quality_evaluator/pkg/middlewarex"
)

func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	if err = db.PingContext(ctx); err != nil {
		return fmt.Errorf("db.PingContext: %w", err)
	}

	evaluationRepo := persistence.NewEvaluationRepository(db)
	userRepo := persistence.NewUserRepository(db)

	var evaluationCache evaluation.Cache

	if cfg.Cache.Driver == config.CacheDriverRedis {
		rd := &connectors.Redis{
			Address:            cfg.Redis.Address,
			Username:           cfg.Redis.Username,
			Password:           cfg.Redis.Password,
			DatabaseNumber:     cfg.Redis.DatabaseNumber,
			PoolSize:           cfg.Redis.PoolSize,
			MinIdleConnections: cfg.Redis.MinIdleConnections,
			MaxIdleConnections: cfg.Redis.MaxIdleConnections,
		}
		evaluationCache = cache.NewRedis(rd.Client(ctx), cfg.Cache.TTL)

		defer rd.Close(ctx)
	} else {
		evaluationCache = cache.NewMemory(cfg.Cache.TTL)
	}

	evaluationMetrics := metrics.NewEvaluations(prometheus.DefaultRegisterer)
	describer := evaluation.NewDescriber(rand.New(rand.NewSource(time.Now().UnixNano())))

	evaluationService := evaluation.NewService(evaluationRepo, evaluationCache, evaluationMetrics, describer)

	tokens := token.NewJWT(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	userService := user.NewService(userRepo, tokens, evaluationService)

	srv := server.NewServer(
		server.NewAuthServer(userService),
		server.NewAdminServer(userService),
		server.NewEvaluationServer(evaluationService),
		server.NewAuthMiddleware(tokens, userService),
	)

	var masker logx.SensitiveDataMaskerInterface = logx.NewSensitiveDataMasker()
	if !cfg.Logging.MaskSensitive {
		masker = logx.NewNopSensitiveDataMasker()
	}

	router := chi.NewRouter()
	router.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, cfg.Logging.FieldMaxLen),
		middlewarex.ResponseLogging(masker, cfg.Logging.FieldMaxLen),
	)
	srv.RegisterRoutes(router)

	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g, &http.Server{ //nolint:exhaustruct
		Addr:    cfg.HTTP.ListenAddress,
		Handler: router,
	})

	modules.MetricServer{
		ListenAddress: cfg.Metrics.ListenAddress,
	}.Run(ctx, g)

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Probe.ListenAddress,
	}.Run(ctx, g)

	if err = g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}
