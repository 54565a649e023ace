package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-triage/internal/api/http"
	"github.com/spec-kit/helpdesk-triage/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-triage/internal/auth"
	"github.com/spec-kit/helpdesk-triage/internal/config"
	"github.com/spec-kit/helpdesk-triage/internal/domain"
	"github.com/spec-kit/helpdesk-triage/internal/events"
	"github.com/spec-kit/helpdesk-triage/internal/intent"
	"github.com/spec-kit/helpdesk-triage/internal/llm"
	"github.com/spec-kit/helpdesk-triage/internal/observability"
	"github.com/spec-kit/helpdesk-triage/internal/persistence"
	"github.com/spec-kit/helpdesk-triage/internal/repository"
	"github.com/spec-kit/helpdesk-triage/internal/routing"
	"github.com/spec-kit/helpdesk-triage/internal/rules"
	"github.com/spec-kit/helpdesk-triage/internal/service"
	"github.com/spec-kit/helpdesk-triage/internal/specialist"
	"github.com/spec-kit/helpdesk-triage/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var itemRepo repository.WorkItemRepository
	if pool := pg.PoolHandle(); pool != nil {
		itemRepo = repository.NewWorkItemRepository(pool)
	} else {
		logger.Warn("using in-memory work item repository")
		itemRepo = repository.NewMemoryWorkItemRepository()
	}

	promRegistry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(promRegistry)

	dispatcher := events.NewInMemoryDispatcher(logger)
	notifications := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notifications.RegisterHandlers()

	generator := llm.NewAnthropicGenerator(cfg.LLM, logger)
	specialistDeps := specialist.Dependencies{
		Items:      itemRepo,
		Risk:       rules.NewRiskAssessor(cfg.Risk.LowResources, cfg.Risk.HighResources),
		Generator:  generator,
		Dispatcher: dispatcher,
		Logger:     logger,
	}

	registry, err := routing.NewRegistry(
		specialist.NewKnowledgeHandler(specialistDeps),
		specialist.NewAccessHandler(specialistDeps),
		specialist.NewHardwareHandler(specialistDeps),
		specialist.NewSoftwareHandler(specialistDeps),
		specialist.NewOnboardingHandler(specialistDeps),
		specialist.NewEscalationHandler(specialistDeps),
	)
	if err != nil {
		logger.Fatal("failed to build handler registry", zap.Error(err))
	}

	analytics := routing.NewAnalyticsLog(cfg.Triage.AnalyticsCapacity)
	router := routing.NewRouter(registry, analytics, routing.RouterConfig{
		ConfidenceThreshold: cfg.Triage.ConfidenceThreshold,
		MaxHandlers:         cfg.Triage.MaxHandlers,
	}, logger)
	coordinator := routing.NewCoordinator(registry, cfg.Triage.HandlerTimeout(), logger)

	triageService := service.NewTriageService(service.TriageDependencies{
		Classifier:  intent.NewClassifier(intent.DefaultDefinitions()),
		Router:      router,
		Coordinator: coordinator,
		Analytics:   analytics,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
	})

	policy, err := rules.NewSLAPolicy(map[domain.Priority]time.Duration{
		domain.PriorityLow:    time.Duration(cfg.SLA.LowMinutes) * time.Minute,
		domain.PriorityMedium: time.Duration(cfg.SLA.MediumMinutes) * time.Minute,
		domain.PriorityHigh:   time.Duration(cfg.SLA.HighMinutes) * time.Minute,
		domain.PriorityUrgent: time.Duration(cfg.SLA.UrgentMinutes) * time.Minute,
	})
	if err != nil {
		logger.Fatal("invalid sla policy", zap.Error(err))
	}

	sweepLock := persistence.NewSweepLock(redis, "helpdesk:sla:sweep", time.Duration(cfg.SLA.LockTTLSec)*time.Second)
	automationService := service.NewAutomationService(service.AutomationDependencies{
		ItemRepo:   itemRepo,
		Policy:     policy,
		Lock:       sweepLock,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	slaWorker := worker.NewSLAWorker(automationService, cfg.SLA.SweepSchedule, logger)
	if err := slaWorker.Start(); err != nil {
		logger.Fatal("failed to start sla worker", zap.Error(err))
	}
	defer slaWorker.Stop()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewAuthMiddleware(tokens)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Triage:         handlers.NewTriageHandler(triageService),
		WorkItems:      handlers.NewWorkItemsHandler(itemRepo),
		Analytics:      handlers.NewAnalyticsHandler(analytics, registry),
		AuthMiddleware: authMiddleware,
		Registry:       promRegistry,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
