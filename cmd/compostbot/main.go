package main

import (
	"flag"
	"time"

	"github.com/joho/godotenv"
	"github.com/kart-io/logger"

	"compostbot/internal/chunker"
	"compostbot/internal/config"
	"compostbot/internal/extractor"
	"compostbot/internal/llm"
	"compostbot/internal/objstore"
	"compostbot/internal/server"
	"compostbot/internal/service"
	"compostbot/internal/session"
	"compostbot/internal/store/sqlite"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/compostbot/config.yaml if not provided)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
	} else {
		cfg, _, err = config.LoadDefault()
	}
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	provider, err := llm.NewClient(llm.Config{
		APIKeyEnv:   cfg.Provider.APIKeyEnv,
		BaseURL:     cfg.Provider.BaseURL,
		EmbedModel:  cfg.Provider.EmbedModel,
		ChatModel:   cfg.Provider.ChatModel,
		Dimension:   cfg.Provider.Dimension,
		Temperature: cfg.Provider.Temperature,
		MaxTokens:   cfg.Provider.MaxTokens,
		Timeout:     time.Duration(cfg.Provider.TimeoutSecs) * time.Second,
	})
	if err != nil {
		logger.Fatalf("failed to create provider client: %v", err)
	}

	store, err := sqlite.NewStore(cfg.Storage.DataDir)
	if err != nil {
		logger.Fatalf("failed to open document store: %v", err)
	}
	defer store.Close()

	bucket, err := objstore.NewFSBucket(cfg.Storage.BucketDir)
	if err != nil {
		logger.Fatalf("failed to open bucket: %v", err)
	}

	artifacts := service.ArtifactConfig{Prefix: cfg.Index.Prefix, Name: cfg.Index.Name}
	ch := chunker.NewWindowChunker(cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap)

	ingest := service.NewIngest(bucket, store.Documents(), extractor.NewPDF())
	sync := service.NewSync(store.Documents(), store.Ledger(), bucket, ch, provider, artifacts)
	query := service.NewQuery(bucket, provider, provider, session.NewMemoryStore(), artifacts, cfg.Index.TopK)

	router := server.NewRouter(server.NewHandler(ingest, sync, query))
	logger.Infof("listening on %s", cfg.Server.Addr)
	if err := router.Run(cfg.Server.Addr); err != nil {
		logger.Fatalf("server stopped: %v", err)
	}
}
