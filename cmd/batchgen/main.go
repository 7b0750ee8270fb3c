// Command batchgen generates a batch of images from a prompt file without
// going through the HTTP API. Prompts come from a plain text file (one per
// line), a CSV (first column), or a JSON array of strings.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"imagecreator/internal/adapter/repo"
	"imagecreator/internal/infra"
	"imagecreator/internal/providers/gateway"
	imgprov "imagecreator/internal/providers/image"
	"imagecreator/internal/providers/prompt"
	"imagecreator/internal/service"
	"imagecreator/internal/storage"
)

func main() {
	_ = godotenv.Load()

	var (
		promptFile = flag.String("prompts", "", "path to a prompt file (.txt, .csv or .json)")
		style      = flag.String("style", "", "style preset applied to every prompt")
		size       = flag.String("size", "1024x1024", "output size")
		model      = flag.String("model", "", "pin a specific model")
	)
	flag.Parse()

	if *promptFile == "" {
		fmt.Fprintln(os.Stderr, "usage: batchgen -prompts FILE [-style NAME] [-size WxH] [-model NAME]")
		os.Exit(2)
	}

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	prompts, err := readPrompts(*promptFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to read prompts")
	}

	store, err := storage.NewFileStore(cfg.StorageDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open image storage")
	}
	library, err := repo.NewJSONStore(cfg.LibraryPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open asset library")
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
	if client.HasCredentials() {
		adapters = []imgprov.Adapter{imgprov.NewGPTImage(client), imgprov.NewGeminiImage(client)}
	} else {
		logger.Warn().Msg("no gateway credentials, using the synthetic adapter")
		adapters = []imgprov.Adapter{imgprov.NewSynthetic()}
	}

	svc := service.New(service.Options{
		Logger:         &logger,
		Repo:           library,
		Store:          store,
		Adapters:       adapters,
		Enricher:       prompt.NewStaticEnricher(),
		Merger:         prompt.NewStaticEnricher(),
		PreferredModel: cfg.PreferredModel,
		BatchWorkers:   cfg.BatchWorkers,
	})

	assets, failures, err := svc.BatchGenerate(context.Background(), service.BatchRequest{
		Prompts: prompts,
		Style:   *style,
		Size:    *size,
		Model:   *model,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("batch failed")
	}

	for _, a := range assets {
		fmt.Printf("%s\t%s\t%s\n", a.ID, a.Model, filepath.Join(cfg.StorageDir, a.Filename))
	}
	for _, f := range failures {
		fmt.Fprintf(os.Stderr, "failed: %s\n", f)
	}
	logger.Info().Int("generated", len(assets)).Int("failed", len(failures)).Msg("batch finished")
	if len(failures) > 0 {
		os.Exit(1)
	}
}

func readPrompts(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		var prompts []string
		if err := json.Unmarshal(data, &prompts); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return prompts, nil
	case ".csv":
		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		var prompts []string
		for _, rec := range records {
			if len(rec) > 0 {
				prompts = append(prompts, rec[0])
			}
		}
		return prompts, nil
	default:
		var prompts []string
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				prompts = append(prompts, line)
			}
		}
		return prompts, nil
	}
}
