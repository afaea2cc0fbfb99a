package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ckante203-dev/chat-backend/internal/auth"
	"github.com/ckante203-dev/chat-backend/internal/config"
	"github.com/ckante203-dev/chat-backend/internal/database"
	"github.com/ckante203-dev/chat-backend/internal/logging"
	"github.com/ckante203-dev/chat-backend/internal/repository"
	postgresrepo "github.com/ckante203-dev/chat-backend/internal/repository/postgres"
	sqliterepo "github.com/ckante203-dev/chat-backend/internal/repository/sqlite"
	"github.com/ckante203-dev/chat-backend/internal/service"
	"github.com/ckante203-dev/chat-backend/internal/transport/http/handlers"
	"github.com/ckante203-dev/chat-backend/internal/transport/http/router"
	"github.com/ckante203-dev/chat-backend/internal/transport/ws"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// stores bundles the repositories of whichever backend is configured.
type stores struct {
	users         repository.UserRepository
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	ping          func(ctx context.Context) error
	close         func()
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if cfg.JWTSecret == config.DefaultJWTSecret {
		logger.Warn("JWT_SECRET is the development default; set it before deploying")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	// Auth primitives
	hasher, err := auth.NewPasswordHasher(cfg.PasswordCost)
	if err != nil {
		return err
	}
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTSigningMethod, cfg.JWTTTL)
	if err != nil {
		return err
	}

	// Services
	authService := service.NewAuthService(st.users, hasher, tokens, logger)
	convService := service.NewConversationService(st.conversations, st.users, logger)
	msgService := service.NewMessageService(st.messages, st.conversations, logger)

	// WebSocket
	hub := ws.NewHub(logger)
	msgService.SetNotifier(ws.NewHubNotifier(hub))

	handler := router.New(router.Deps{
		Auth:           handlers.NewAuthHandler(authService, logger),
		Conversations:  handlers.NewConversationHandler(convService, logger),
		Messages:       handlers.NewMessageHandler(msgService, logger),
		Tokens:         tokens,
		WS:             ws.ServeWS(hub, tokens, convService, cfg.CORSAllowedOrigins),
		Ping:           st.ping,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		logger.Info("server listening", "addr", srv.Addr, "db_driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err := sqliterepo.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("opened sqlite database", "path", cfg.SQLitePath)
		return &stores{
			users:         sqliterepo.NewUserRepo(db),
			conversations: sqliterepo.NewConversationRepo(db),
			messages:      sqliterepo.NewMessageRepo(db),
			ping:          db.PingContext,
			close:         func() { db.Close() },
		}, nil

	default:
		pool, err := database.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)
		return &stores{
			users:         postgresrepo.NewUserRepo(pool),
			conversations: postgresrepo.NewConversationRepo(pool),
			messages:      postgresrepo.NewMessageRepo(pool),
			ping:          pool.Ping,
			close:         pool.Close,
		}, nil
	}
}
