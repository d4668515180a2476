package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cesarbot/kudos-backend/api/routes"
	"github.com/cesarbot/kudos-backend/internal/config"
	"github.com/cesarbot/kudos-backend/internal/handlers"
	"github.com/cesarbot/kudos-backend/internal/repositories"
	mongorepo "github.com/cesarbot/kudos-backend/internal/repositories/mongodb"
	"github.com/cesarbot/kudos-backend/internal/scheduler"
	"github.com/cesarbot/kudos-backend/internal/services"
	"github.com/cesarbot/kudos-backend/pkg/chatgateway"
	"github.com/cesarbot/kudos-backend/pkg/logger"
	"github.com/cesarbot/kudos-backend/pkg/mongodb"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New("cesar-bot", cfg.LogLevel)

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.WithError(err).Error("error disconnecting from MongoDB")
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	var userRepo repositories.UserRepository = mongorepo.NewUserRepository(db)
	var txRepo repositories.TransactionRepository = mongorepo.NewTransactionRepository(db)
	var statRepo repositories.MonthlyStatRepository = mongorepo.NewMonthlyStatRepository(db)

	// Chat gateway
	var gateway chatgateway.Gateway
	if cfg.Slack.Mock || cfg.Slack.BotToken == "" {
		log.Warn("no Slack bot token configured, using mock gateway")
		gateway = chatgateway.NewMockGateway("Slack")
	} else {
		gateway = chatgateway.NewSlackGateway(cfg.Slack.BotToken)
	}

	// Services
	notifier := services.NewNotificationService(gateway, log)
	awardService := services.NewAwardService(
		userRepo, txRepo, statRepo, notifier, log,
		cfg.Award.GiverPrizeInterval, cfg.Award.UnlockLevel,
	)
	decayService := services.NewDecayService(userRepo, statRepo, notifier, log, cfg.Decay.Penalty)
	leaderboardService := services.NewLeaderboardService(userRepo, statRepo)
	userService := services.NewUserService(userRepo, txRepo)
	authService := services.NewAuthService(cfg)

	// Background decay scheduler
	decayScheduler := scheduler.New(decayService, cfg.Decay.Schedule, log)
	if err := decayScheduler.Start(); err != nil {
		log.WithError(err).Fatal("failed to start decay scheduler")
	}

	// Handlers
	deps := routes.HandlerDependencies{
		EventHandler:       handlers.NewEventHandler(awardService, cfg.Slack.SigningSecret, log),
		CommandHandler:     handlers.NewCommandHandler(leaderboardService, userService, gateway, cfg.Slack.SigningSecret, cfg.Award.UnlockLevel, log),
		LeaderboardHandler: handlers.NewLeaderboardHandler(leaderboardService),
		UserHandler:        handlers.NewUserHandler(userService),
		AuthHandler:        handlers.NewAuthHandler(authService),
		AdminHandler:       handlers.NewAdminHandler(decayService, userService),
	}

	router := routes.SetupRouter(cfg, log, deps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	log.WithField("port", cfg.Server.Port).Info("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("listen failed")
		}
	}()

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	decayScheduler.Stop(ctx)
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server exiting")
}
