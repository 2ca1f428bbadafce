package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vocabdeck/internal/app"
	"vocabdeck/internal/config"
	"vocabdeck/internal/handler"
	"vocabdeck/internal/middleware"
	"vocabdeck/internal/repository/sqlstore"
	"vocabdeck/internal/scheduler"
	"vocabdeck/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting vocabdeck bot")

	if err := cfg.ValidateBot(); err != nil {
		logger.Fatal("Invalid bot configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully",
		zap.String("store", cfg.Store.Driver),
		zap.String("lang", cfg.Lang),
	)

	// Connect to the store and run migrations
	dialect, err := sqlstore.DialectFor(cfg.Store.Driver)
	if err != nil {
		logger.Fatal("Unsupported store", zap.Error(err))
	}

	db, err := sqlstore.Open(dialect, cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := sqlstore.Migrate(db, dialect, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	logger.Info("Database ready")

	// Initialize repositories and the study core
	kvRepo := sqlstore.NewKVRepo(db, dialect)
	userRepo := sqlstore.NewUserRepo(db, dialect)

	a, err := app.New(app.Options{
		Store:  kvRepo,
		Lang:   cfg.Lang,
		Seed:   cfg.RandomSeed,
		Logger: logger,
	})
	if err != nil {
		logger.Fatal("Failed to load study data", zap.Error(err))
	}

	authService := service.NewAuthService(userRepo, cfg.BotPassword)

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error("Handler error", zap.Error(err))
		},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized")

	// Initialize handler. Auth runs inside the serialized section so the
	// greeting after a correct password can render the session.
	h := handler.NewHandler(bot, a, authService, logger)
	bot.Use(middleware.Serialize(a))
	bot.Use(middleware.AuthMiddleware(authService, a.Translator, h.HandleAuthorized, logger))
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	// Scheduled backups
	var backups *scheduler.Scheduler
	if cfg.Backup.Dir != "" {
		backups = scheduler.New(a, cfg.Backup.Dir, cfg.Backup.At, logger)
		if err := backups.Start(); err != nil {
			logger.Fatal("Failed to start backup scheduler", zap.Error(err))
		}
	}

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	if backups != nil {
		backups.Stop()
	}

	logger.Info("Bot stopped gracefully")
}
