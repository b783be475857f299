// Package server initializes and runs the main application server.
// It wires the database, repositories, services, and the HTTP endpoint,
// and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/fashionguide/chat-backend/internal/logging"
	"github.com/fashionguide/chat-backend/internal/server/auth"
	"github.com/fashionguide/chat-backend/internal/server/chat"
	"github.com/fashionguide/chat-backend/internal/server/config"
	"github.com/fashionguide/chat-backend/internal/server/google"
	"github.com/fashionguide/chat-backend/internal/server/httpapi"
	"github.com/fashionguide/chat-backend/internal/server/notifier"
	"github.com/fashionguide/chat-backend/internal/server/repositories/repomanager"
	"github.com/fashionguide/chat-backend/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	httpServer  *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	tokens := auth.NewTokenManager([]byte(cfg.SecretKey), cfg.AccessTokenValidity)

	var n notifier.Notifier
	if cfg.SMTPHost != "" {
		n = notifier.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	} else {
		n = notifier.NewLogNotifier(logger)
	}

	verification := services.NewVerificationService(db, rm, n, cfg.VerificationCodeValidity, logger)
	users := services.NewUserService(db, rm, tokens, verification, logger)

	verifier := google.NewTokenInfoVerifier(cfg.GoogleClientID, nil)
	googleSvc := services.NewGoogleService(db, rm, verifier, tokens, logger)

	var flow *google.Flow
	if cfg.GoogleClientID != "" && cfg.GoogleRedirectURL != "" {
		flow = google.NewFlow(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	}

	chatHandler := chat.NewHandler(chat.NewBinder(tokens), rm.Messages(db), chat.StaticResponder{}, logger)

	httpServer := httpapi.NewServer(cfg.EndpointAddr, logger, users, verification, googleSvc, flow, chatHandler, tokens, cfg.AllowedOrigin)

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		repomanager: rm,
		httpServer:  httpServer,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		app.logger.Error(ctx, "migrations failed", "error", err.Error())
		return
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err.Error())
	}
}
