// Package main provides the entry point for the Tastebook server
package main

import (
	"context"
	"io"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appcatalog "github.com/tastebook/v1/internal/application/catalog"
	appuser "github.com/tastebook/v1/internal/application/user"
	"github.com/tastebook/v1/internal/infrastructure/auth"
	"github.com/tastebook/v1/internal/infrastructure/config"
	"github.com/tastebook/v1/internal/infrastructure/http/server"
	"github.com/tastebook/v1/internal/infrastructure/persistence/database"
	gormrepo "github.com/tastebook/v1/internal/infrastructure/persistence/gorm"
	"github.com/tastebook/v1/internal/infrastructure/session"
	"github.com/tastebook/v1/internal/ports/outbound"
	"github.com/tastebook/v1/pkg/logger"
)

func main() {
	app := fx.New(
		fx.NopLogger,

		// Configuration
		fx.Provide(func() (*config.Config, error) {
			return config.Load("")
		}),

		// Logger
		fx.Provide(func(cfg *config.Config) (*zap.Logger, error) {
			return logger.New(logger.Config{
				Level:       cfg.App.LogLevel,
				Format:      cfg.App.LogFormat,
				Development: cfg.App.Debug,
			})
		}),

		// Database
		fx.Provide(database.Connect),

		// Repositories
		fx.Provide(func(db *gorm.DB) outbound.CatalogRepository {
			return gormrepo.NewCatalogRepository(db)
		}),
		fx.Provide(func(db *gorm.DB) outbound.UserRepository {
			return gormrepo.NewUserRepository(db)
		}),

		// Services
		fx.Provide(func(repo outbound.CatalogRepository, cfg *config.Config, log *zap.Logger) *appcatalog.CatalogService {
			return appcatalog.NewCatalogService(repo, appcatalog.Policy{
				TrackCreators:         cfg.Features.TrackCreators,
				RequireLoginForGroups: cfg.Features.RequireLoginForGroups,
			}, log)
		}),
		fx.Provide(appuser.NewUserService),

		// Sessions and login flow
		fx.Provide(session.NewStore),
		fx.Provide(func(cfg *config.Config) *auth.Client {
			return auth.NewClient(cfg.Auth)
		}),
		fx.Provide(func(client *auth.Client, users *appuser.UserService, log *zap.Logger) *auth.Flow {
			return auth.NewFlow(client, users, log)
		}),

		// HTTP server
		fx.Provide(server.New),

		// Lifecycle
		fx.Invoke(registerLifecycleHooks),
	)

	app.Run()
}

func registerLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	srv *server.Server,
	store session.Store,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && err != http.ErrServerClosed {
					log.Error("HTTP server stopped", zap.Error(err))
				}
			}()

			log.Info("Tastebook started",
				zap.Int("port", cfg.Server.Port),
				zap.String("environment", cfg.App.Environment),
			)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
			defer cancel()
			if closer, ok := store.(io.Closer); ok {
				if err := closer.Close(); err != nil {
					log.Warn("Session store close failed", zap.Error(err))
				}
			}
			return srv.Shutdown(shutdownCtx)
		},
	})
}
