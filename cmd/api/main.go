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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"xalqbahosi/internal/config"
	"xalqbahosi/internal/database"
	"xalqbahosi/internal/domain"
	"xalqbahosi/internal/metrics"
	"xalqbahosi/internal/modules/announcement"
	"xalqbahosi/internal/modules/media"
	jwtsvc "xalqbahosi/internal/pkg/jwt"
	"xalqbahosi/internal/server"
	"xalqbahosi/internal/state"
	"xalqbahosi/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config", "error", err)
		os.Exit(1)
	}
	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	localDB, err := database.Connect(cfg.LocalDBPath)
	if err != nil {
		logger.Error("open local store", "error", err)
		os.Exit(1)
	}
	local, err := storage.NewLocalBackend(localDB, domain.DemoLocations())
	if err != nil {
		logger.Error("init local store", "error", err)
		os.Exit(1)
	}

	// The remote store is connected lazily: while it cannot be reached,
	// calls fall back to the local store and the connect is retried.
	var primary storage.Backend
	if cfg.DatabaseURL != "" {
		remote := storage.NewLazyBackend(connectRemote(cfg.DatabaseURL, logger), cfg.RemoteRetryInterval, logger)
		if err := remote.Ready(context.Background()); err != nil {
			logger.Warn("remote store unavailable, serving locally", "error", err)
		}
		primary = remote
	}

	m := metrics.New()
	gateway := storage.NewGateway(primary, local, logger, m)

	mediaRepo, err := media.NewRepository(localDB)
	if err != nil {
		logger.Error("init media store", "error", err)
		os.Exit(1)
	}

	hub := announcement.NewHub()
	defer hub.Close()

	router := server.NewRouter(server.Deps{
		Gateway:          gateway,
		Local:            local,
		State:            state.New(cfg.StateTTL),
		Media:            media.NewService(mediaRepo, cfg.UploadsDir),
		JWT:              jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL),
		Hub:              hub,
		Metrics:          m,
		Logger:           logger,
		AdminLogin:       cfg.AdminLogin,
		AdminHash:        cfg.AdminPasswordHash,
		TelegramBotToken: cfg.TelegramBotToken,
		UploadsDir:       cfg.UploadsDir,
		CORSOrigins:      cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr, "remote_configured", primary != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}

func connectRemote(dsn string, logger *slog.Logger) storage.ConnectFunc {
	return func(context.Context) (storage.Backend, error) {
		db, err := database.Connect(dsn)
		if err != nil {
			return nil, err
		}
		remote, err := storage.NewDocumentBackend(db, logger)
		if err != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
			return nil, err
		}
		return remote, nil
	}
}
