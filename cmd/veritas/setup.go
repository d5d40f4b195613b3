package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/veritas/internal/config"
	"github.com/sandevgo/veritas/internal/core"
	"github.com/sandevgo/veritas/internal/providers/llm"
	"github.com/sandevgo/veritas/internal/service/relay"
	"github.com/sandevgo/veritas/internal/storage"
	"github.com/sandevgo/veritas/internal/storage/sqlite"
	"github.com/sandevgo/veritas/internal/transport/httpapi"
	"github.com/sandevgo/veritas/pkg/log"
	"github.com/sandevgo/veritas/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	shivaayCfg := config.NewShivaayConfig(ctx)
	serverCfg := config.NewServerConfig(ctx)

	// 2. Storage. A failed init leaves the relay serving without
	// persistence rather than refusing to start.
	repo, cleanup := initStorage(ctx, appCfg)
	if cleanup != nil {
		services = append(services, srv.NewCleanup(cleanup))
	}

	// 3. Upstream provider
	provider := llm.NewShivaay(shivaayCfg)

	// 4. Relay
	rly := relay.New(repo, provider)

	// 5. HTTP transport
	services = append(services, httpapi.NewServer(ctx, serverCfg, rly))

	logger.Info().Str("model", shivaayCfg.Model).Msg("veritas clinical history relay configured (streaming enabled)")
	return services
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (core.ConversationRepository, func() error) {
	db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("path", cfg.GetDatabasePath()).Msg("failed to initialize storage, persistence disabled")
		return storage.NewUnavailable(), nil
	}
	return sqlite.NewConversationsRepo(db), db.Close
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
