package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/davidquintana/archivio-backend/api/routes"
	assignment "github.com/davidquintana/archivio-backend/internal/assignments"
	"github.com/davidquintana/archivio-backend/internal/auth"
	customer "github.com/davidquintana/archivio-backend/internal/customers"
	document "github.com/davidquintana/archivio-backend/internal/documents"
	notification "github.com/davidquintana/archivio-backend/internal/notifications"
	rule "github.com/davidquintana/archivio-backend/internal/rules"
	"github.com/davidquintana/archivio-backend/internal/search"
	"github.com/davidquintana/archivio-backend/internal/storagetopo"
	user "github.com/davidquintana/archivio-backend/internal/users"
	workflow "github.com/davidquintana/archivio-backend/internal/workflows"
	"github.com/davidquintana/archivio-backend/pkg/ai"
	"github.com/davidquintana/archivio-backend/pkg/auth/session"
	"github.com/davidquintana/archivio-backend/pkg/config"
	"github.com/davidquintana/archivio-backend/pkg/db"
	"github.com/davidquintana/archivio-backend/pkg/logger"
	"github.com/davidquintana/archivio-backend/pkg/migrate"
	"github.com/davidquintana/archivio-backend/pkg/pubsub"
	"github.com/davidquintana/archivio-backend/pkg/redis"
	"github.com/davidquintana/archivio-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	var gcsClient *gcs.Client
	if cfg.GCS.BucketName != "" {
		gcsClient, err = gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap gcs", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "gcs bucket not configured, presigned urls disabled")
	}

	var pubsubClient *pubsub.Client
	if cfg.GCP.ProjectID != "" {
		pubsubClient, err = pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "gcp project not configured, document events disabled")
	}

	var aiClient *ai.Client
	if cfg.AI.GeminiAPIKey != "" {
		aiClient, err = ai.NewClient(context.Background(), cfg.AI)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap gemini client", err)
			os.Exit(1)
		}
		defer func() {
			if err := aiClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing gemini client", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "gemini api key not configured, semantic search disabled")
	}

	customerRepo := customer.NewRepository(dbClient.DB())
	storageRepo := storagetopo.NewRepository(dbClient.DB())
	assignmentRepo := assignment.NewRepository(dbClient.DB())
	ruleRepo := rule.NewRepository(dbClient.DB())
	documentRepo := document.NewRepository(dbClient.DB())
	searchRepo := search.NewRepository(dbClient.DB())
	workflowRepo := workflow.NewRepository(dbClient.DB())
	notificationRepo := notification.NewRepository(dbClient.DB())
	userRepo := user.NewRepository(dbClient.DB())

	customerService, err := customer.NewService(customerRepo, assignmentRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create customer service", err)
		os.Exit(1)
	}

	storageService, err := storagetopo.NewService(storageRepo, assignmentRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create storage service", err)
		os.Exit(1)
	}

	assignmentService, err := assignment.NewService(assignmentRepo, customerRepo, storageRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create assignment service", err)
		os.Exit(1)
	}

	ruleService, err := rule.NewService(ruleRepo, assignmentRepo, customerRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create rule service", err)
		os.Exit(1)
	}

	documentService, err := document.NewService(
		documentRepo,
		customerRepo,
		assignmentRepo,
		gcsClient,
		pubsubClient,
		cfg.GCS,
		cfg.Documents,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create document service", err)
		os.Exit(1)
	}

	var embedder ai.Embedder
	var generator ai.Generator
	if aiClient != nil {
		embedder = aiClient
		generator = aiClient
	}
	searchService, err := search.NewService(searchRepo, embedder, generator, cfg.Search)
	if err != nil {
		logg.Error(context.Background(), "failed to create search service", err)
		os.Exit(1)
	}

	workflowService, err := workflow.NewService(workflowRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create workflow service", err)
		os.Exit(1)
	}

	notificationService, err := notification.NewService(notificationRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification service", err)
		os.Exit(1)
	}

	userService, err := user.NewService(userRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Users:     userRepo,
		Session:   sessionManager,
		Limiter:   redisClient,
		JWTConfig: cfg.JWT,
		RateLimit: cfg.AuthRateLimit,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	if cfg.FeatureFlags.BootstrapAdmin {
		if cfg.FeatureFlags.BootstrapAdminPassword == "" {
			logg.Warn(context.Background(), "bootstrap admin enabled but no password configured, skipping")
		} else if _, err := userService.BootstrapAdmin(
			context.Background(),
			cfg.FeatureFlags.BootstrapAdminEmail,
			cfg.FeatureFlags.BootstrapAdminPassword,
		); err != nil {
			logg.Error(context.Background(), "failed to bootstrap admin user", err)
			os.Exit(1)
		}
	}

	var gcsPinger gcs.Pinger
	if gcsClient != nil {
		gcsPinger = gcsClient
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, gcsPinger, sessionManager, routes.Services{
			Auth:          authService,
			Customers:     customerService,
			Storage:       storageService,
			Assignments:   assignmentService,
			Rules:         ruleService,
			Documents:     documentService,
			Search:        searchService,
			Workflows:     workflowService,
			Notifications: notificationService,
			Users:         userService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
