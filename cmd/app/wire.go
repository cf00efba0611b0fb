package main

import (
	"context"
	"fmt"
	"net/http"

	"studio/internal/api/v1/handler"
	"studio/internal/api/v1/router"
	"studio/internal/cache"
	"studio/internal/config"
	"studio/internal/draftstore"
	"studio/internal/gateway"
	"studio/internal/jobs"
	"studio/internal/middleware"
	"studio/internal/pubsub"
	"studio/internal/repository"
	"studio/internal/secrets"
	"studio/internal/service"
	"studio/internal/storage"
	"studio/internal/submission"
	"studio/internal/validation"
	"studio/internal/video"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type application struct {
	handler   http.Handler
	wizard    service.WizardService
	scheduler *jobs.Scheduler
	closers   []func()
}

// shutdown closes sessions, flushes pending drafts and releases clients.
func (a *application) shutdown(ctx context.Context) {
	a.wizard.Shutdown(ctx)
	if a.scheduler != nil {
		a.scheduler.Stop(ctx)
	}
	a.release()
}

// release runs the closers in reverse order of acquisition.
func (a *application) release() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// build wires the application. Clients opened before a failure are released.
func build(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*application, error) {
	a := &application{}
	if err := a.wire(ctx, cfg, logger); err != nil {
		a.release()
		return nil, err
	}
	return a, nil
}

func (a *application) wire(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	// Connections
	var pool *pgxpool.Pool
	if cfg.DBConnectionString != "" {
		p, err := pgxpool.New(ctx, cfg.DBConnectionString)
		if err != nil {
			return fmt.Errorf("failed to create database pool: %w", err)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return fmt.Errorf("failed to ping database: %w", err)
		}
		pool = p
		a.closers = append(a.closers, pool.Close)
		logger.Info().Msg("Database connection established")
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to ping redis: %w", err)
		}
		logger.Info().Str("addr", cfg.RedisAddr).Msg("Redis connection established")
	}

	// Draft snapshots
	var (
		store  draftstore.Store
		pruner jobs.Pruner
	)
	switch cfg.DraftStore {
	case "memory":
		store = draftstore.NewMemoryStore()
	case "redis":
		if rdb == nil {
			return fmt.Errorf("DRAFT_STORE=redis requires REDIS_ADDR")
		}
		store = draftstore.NewRedisStore(rdb, cfg.DraftRetention())
	case "postgres":
		if pool == nil {
			return fmt.Errorf("DRAFT_STORE=postgres requires DB_CONNECTION_STRING")
		}
		pg := draftstore.NewPostgresStore(pool)
		if err := pg.Migrate(ctx); err != nil {
			return err
		}
		store, pruner = pg, pg
	default:
		return fmt.Errorf("unknown DRAFT_STORE %q", cfg.DraftStore)
	}
	persister := draftstore.NewPersister(store, logger, draftstore.WithQuietPeriod(cfg.DraftDebounce()))

	var listCache cache.CourseListCache = cache.NewMemoryCache(cfg.CourseListTTL())
	if rdb != nil {
		listCache = cache.NewRedisCache(rdb, cfg.CourseListTTL())
	}

	gw := gateway.New(cfg.GatewayBaseURL, cfg.GatewayTimeout(), logger)

	var resources storage.Uploader = storage.NewGatewayUploader(gw)
	if cfg.ResourceStorage == "s3" {
		client, err := storage.NewS3Client(ctx, cfg)
		if err != nil {
			return err
		}
		resources = storage.NewS3Uploader(client, cfg.S3Bucket, cfg.S3URL, logger)
	}

	var publisher pubsub.Publisher = &pubsub.MemoryPublisher{}
	if cfg.GCPProjectID != "" {
		p, err := pubsub.NewPublisher(ctx, cfg)
		if err != nil {
			return err
		}
		publisher = p
		a.closers = append(a.closers, func() { _ = p.Close() })
	}

	stripeKey := cfg.StripeSecretKey
	if secrets.IsReference(stripeKey) {
		resolver, err := secrets.NewResolver(ctx, cfg.GCPProjectID)
		if err != nil {
			return err
		}
		defer func() { _ = resolver.Close() }()
		if stripeKey, err = resolver.Resolve(ctx, stripeKey); err != nil {
			return fmt.Errorf("failed to resolve Stripe secret key: %w", err)
		}
	}

	var progressRepo repository.ProgressRepository
	if pool != nil {
		if err := repository.MigrateProgress(ctx, pool); err != nil {
			return err
		}
		progressRepo = repository.NewProgressRepo(pool, logger)
	} else {
		logger.Warn().Msg("DB_CONNECTION_STRING not set, learner progress is kept in memory")
		progressRepo = repository.NewMemoryProgressRepo()
	}

	// Services
	adapter := submission.NewAdapter(gw, listCache, persister, publisher, cfg.PubSubCourseTopic, logger)
	a.wizard = service.NewWizardService(
		validation.New(),
		persister,
		gw,
		adapter,
		resources,
		video.NewUploader(gw, cfg.VideoUploadTimeout(), logger),
		video.NewPoller(gw, cfg.VideoPollInterval(), cfg.VideoPollTimeout(), logger),
		logger,
	)
	courseSvc := service.NewCourseService(gw, listCache, logger)
	checkoutSvc := service.NewCheckoutService(service.NewStripeIntents(stripeKey), gw, publisher, service.CheckoutConfig{
		WebhookSecret: cfg.StripeWebhookSecret,
		ServiceToken:  cfg.GatewayServiceToken,
		SupportEmail:  cfg.SupportEmail,
		Topic:         cfg.PubSubCourseTopic,
	}, logger)
	progressSvc := service.NewProgressService(progressRepo, gw, logger)

	// HTTP
	handlers := router.Handlers{
		Wizard:   handler.NewWizardHandler(a.wizard, logger),
		Course:   handler.NewCourseHandler(courseSvc, logger),
		Checkout: handler.NewCheckoutHandler(checkoutSvc, logger),
		Progress: handler.NewProgressHandler(progressSvc, logger),
	}
	h, api := router.SetupHumaAPI(cfg, middleware.AuthMiddleware(cfg.JWTSecret, logger), handlers, logger)
	router.RegisterRoutes(api, handlers, logger)
	a.handler = h

	if pruner != nil {
		a.scheduler = jobs.NewScheduler(logger)
		if err := a.scheduler.SchedulePrune(cfg.DraftPruneSchedule, pruner, cfg.DraftRetention()); err != nil {
			return err
		}
		a.scheduler.Start()
	}
	return nil
}
