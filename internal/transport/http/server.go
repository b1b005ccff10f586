package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"teamawesome_t4/internal/config"
	"teamawesome_t4/internal/database"
	"teamawesome_t4/internal/handler"
	"teamawesome_t4/internal/queue"
	appredis "teamawesome_t4/internal/redis"
	"teamawesome_t4/internal/repository"
	"teamawesome_t4/internal/service"
	"teamawesome_t4/internal/worker"
)

// Run wires the whole application and blocks until SIGINT/SIGTERM.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	redisClient, err := appredis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer redisClient.Close()

	ctx := context.Background()
	if err := redisClient.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	// Repositories share the configured schema namespace
	userRepo := repository.NewUserRepository(cfg.DBSchema)
	followRepo := repository.NewFollowRepository(cfg.DBSchema)
	requestRepo := repository.NewFollowRequestRepository(cfg.DBSchema)
	summaryRepo := repository.NewFollowSummaryRepository(cfg.DBSchema)
	collabRepo := repository.NewCollaboratorRepository(cfg.DBSchema)
	milestoneRepo := repository.NewMilestoneRepository(cfg.DBSchema)
	projectRepo := repository.NewProjectRepository(cfg.DBSchema)

	txRunner := database.NewTxRunner(db)
	publisher := queue.NewPublisher(redisClient.Client)
	consumer := queue.NewConsumer(redisClient.Client)

	mediaService, err := service.NewMediaService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create media service: %w", err)
	}

	authService := service.NewAuthService(userRepo, db, cfg)
	userService := service.NewUserService(userRepo, followRepo, requestRepo, summaryRepo, db, mediaService, cfg.DefaultPictureURL)
	followService := service.NewFollowService(userRepo, followRepo, requestRepo, summaryRepo, db, txRunner, publisher)
	projectService := service.NewProjectService(projectRepo, collabRepo, db, txRunner)
	collabService := service.NewCollaborationService(userRepo, collabRepo, projectRepo, db, txRunner)
	milestoneService := service.NewMilestoneService(collabRepo, milestoneRepo, projectRepo, db, txRunner, publisher)

	// Projection workers: consume the relationship stream and re-run the
	// idempotent recomputes
	workerHandler := worker.NewHandler(followService, milestoneService)
	repairPool := worker.NewPool(consumer, workerHandler, worker.DefaultPoolConfig())
	if err := repairPool.Start(ctx); err != nil {
		return fmt.Errorf("failed to start repair workers: %w", err)
	}
	defer repairPool.Stop()

	// Reconciliation sweep: periodic full rebuild of every projection
	if cfg.ReconcileSpec != "" {
		reconciler := worker.NewReconciler(followService, projectService, milestoneService, cfg.ReconcileSpec)
		if err := reconciler.Start(); err != nil {
			return fmt.Errorf("failed to start reconciler: %w", err)
		}
		defer reconciler.Stop()
	}

	router := NewRouter(RouterConfig{
		AuthHandler:          handler.NewAuthHandler(authService, userService),
		UserHandler:          handler.NewUserHandler(userService),
		FollowHandler:        handler.NewFollowHandler(followService),
		ProjectHandler:       handler.NewProjectHandler(projectService),
		CollaborationHandler: handler.NewCollaborationHandler(collabService),
		MilestoneHandler:     handler.NewMilestoneHandler(milestoneService),
		JWTSecret:            cfg.JWTSecret,
	})

	server := &stdhttp.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("Received %v, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
