package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"imagecreator/internal/adapter/repo"
	"imagecreator/internal/domain"
	"imagecreator/internal/http/handlers"
	"imagecreator/internal/http/httpapi"
	"imagecreator/internal/infra"
	"imagecreator/internal/providers/gateway"
	imgprov "imagecreator/internal/providers/image"
	"imagecreator/internal/providers/prompt"
	"imagecreator/internal/service"
	"imagecreator/internal/storage"
)

func main() {
	// Load .env (optional)
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	store, err := storage.NewFileStore(cfg.StorageDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open image storage")
	}

	// Asset library: PostgreSQL when configured, a JSON file otherwise.
	var assetRepo domain.AssetRepository
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
		pg := repo.NewAssetRepository(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to ensure schema")
		}
		assetRepo = pg
		logger.Info().Msg("asset library backed by postgres")
	} else {
		js, err := repo.NewJSONStore(cfg.LibraryPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open asset library")
		}
		assetRepo = js
		logger.Info().Str("path", cfg.LibraryPath).Msg("asset library backed by json file")
	}

	collections, err := repo.NewCollectionStore(cfg.CollectionsPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open collections store")
	}

	client, err := gateway.NewClient(gateway.Options{
		APIKey:         cfg.GatewayAPIKey,
		BaseURL:        cfg.GatewayBaseURL,
		Logger:         &logger,
		RequestTimeout: cfg.RequestTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build gateway client")
	}

	var adapters []imgprov.Adapter
	var enricher prompt.Enricher
	var merger prompt.Merger
	if client.HasCredentials() {
		adapters = []imgprov.Adapter{imgprov.NewGPTImage(client), imgprov.NewGeminiImage(client)}
		chat := prompt.NewChatEnricher(client, cfg.ChatModel)
		enricher, merger = chat, chat
	} else {
		logger.Warn().Msg("no gateway credentials, running on the synthetic adapter")
		adapters = []imgprov.Adapter{imgprov.NewSynthetic()}
		static := prompt.NewStaticEnricher()
		enricher, merger = static, static
	}

	svc := service.New(service.Options{
		Logger:         &logger,
		Repo:           assetRepo,
		Store:          store,
		Adapters:       adapters,
		Enricher:       enricher,
		Merger:         merger,
		Collections:    collections,
		PreferredModel: cfg.PreferredModel,
		BatchWorkers:   cfg.BatchWorkers,
	})

	app := handlers.NewApp(svc, &logger)
	router := httpapi.NewRouter(app, &logger, []string{"http://localhost:3000", "http://localhost:5173"})
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
