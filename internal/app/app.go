package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mobiledorms/mobiledorms-api/internal/auth"
	"github.com/mobiledorms/mobiledorms-api/internal/config"
	"github.com/mobiledorms/mobiledorms-api/internal/db"
	"github.com/mobiledorms/mobiledorms-api/internal/ratelimit"
	"github.com/mobiledorms/mobiledorms-api/internal/settings"
	log "github.com/sirupsen/logrus"
)

// shutdownTimeout bounds graceful server shutdown.
const shutdownTimeout = 10 * time.Second

// Migrate opens the database and runs migrations and seeds.
func Migrate(_ context.Context, cfg config.AppConfig) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	dsn, err := config.LoadDatabaseDSN(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	return db.Migrate(conn)
}

// RunServer boots the API server with database-backed components.
func RunServer(ctx context.Context, cfg config.AppConfig, port int) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	dsn, err := config.LoadDatabaseDSN(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}
	if errRefresh := settings.RefreshSnapshot(ctx, conn); errRefresh != nil {
		return errRefresh
	}

	authCfg, errAuth := config.LoadAuthConfig(configPath)
	if errAuth != nil {
		return errAuth
	}
	if authCfg.AdminAPIKey == "" {
		log.Warn("no admin api key configured, key-based admin auth is disabled")
	}
	rateCfg, errRate := config.LoadRateLimitConfig(configPath)
	if errRate != nil {
		return errRate
	}

	authSvc := auth.NewService(conn, authCfg)
	limiter := ratelimit.NewManager(ratelimit.NewSettingsProvider(rateCfg), nil, nil)

	gin.SetMode(gin.ReleaseMode)
	router := NewRouter(conn, authSvc, limiter)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.WithField("port", port).Info("mobiledorms api listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if errShutdown := srv.Shutdown(shutdownCtx); errShutdown != nil {
			return errShutdown
		}
		return nil
	case errServe := <-errCh:
		if errors.Is(errServe, http.ErrServerClosed) {
			return nil
		}
		return errServe
	}
}

// GenerateAPIKey returns a fresh 64-character hex admin API key.
func GenerateAPIKey() (string, error) {
	buf := make([]byte, 32)
	if _, errRead := rand.Read(buf); errRead != nil {
		return "", errRead
	}
	return hex.EncodeToString(buf), nil
}
