package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/groupstage/groupstage-backend/api/routes"
	"github.com/groupstage/groupstage-backend/internal/config"
	"github.com/groupstage/groupstage-backend/internal/handlers"
	"github.com/groupstage/groupstage-backend/internal/metrics"
	"github.com/groupstage/groupstage-backend/internal/repositories"
	mongorepo "github.com/groupstage/groupstage-backend/internal/repositories/mongodb"
	"github.com/groupstage/groupstage-backend/internal/services"
	"github.com/groupstage/groupstage-backend/pkg/mongodb"
)

func main() {
	// Load .env if present. Deployments set real environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to MongoDB
	mongoClient, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
	if err != nil {
		slog.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			slog.Error("error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Initialize repositories
	var eventRepo repositories.EventRepository = mongorepo.NewEventRepository(db)
	var groupRepo repositories.GroupRepository = mongorepo.NewGroupRepository(db)
	var teamRepo repositories.TeamRepository = mongorepo.NewTeamRepository(db)
	var adminUserRepo repositories.AdminUserRepository = mongorepo.NewAdminUserRepository(db)

	// Initialize metrics
	sweepMetrics := metrics.NewSweepMetrics()
	httpMetrics := metrics.NewHTTPMetrics()

	// Initialize services
	eventService := services.NewEventService(eventRepo, groupRepo, teamRepo, sweepMetrics, nil)
	groupService := services.NewGroupService(groupRepo)
	teamService := services.NewTeamService(teamRepo, groupRepo)
	authService := services.NewAuthService(adminUserRepo, cfg)

	// Initialize handlers
	handlerDeps := routes.HandlerDependencies{
		Auth:   handlers.NewAuthHandler(authService),
		Groups: handlers.NewGroupHandler(groupService),
		Teams:  handlers.NewTeamHandler(teamService),
		Events: handlers.NewEventHandler(eventService),
	}

	router := routes.SetupRouter(cfg, handlerDeps, httpMetrics)

	if cfg.Sweep.Enabled {
		go runSweeper(ctx, eventService, cfg.Sweep.Interval)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("server exited")
}

// runSweeper promotes due events on a fixed interval until ctx is cancelled.
func runSweeper(ctx context.Context, eventService services.EventService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("sweeper started", "interval", interval.String())
	for {
		select {
		case <-ctx.Done():
			slog.Info("sweeper stopped")
			return
		case <-ticker.C:
			if _, err := eventService.SweepDueEvents(ctx, time.Now()); err != nil {
				slog.Error("sweep failed", "error", err)
			}
		}
	}
}
