package main

import (
	"flag"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"compostbot/internal/config"
	"compostbot/internal/llm"
	"compostbot/internal/objstore"
	"compostbot/internal/service"
	"compostbot/internal/session"
	"compostbot/internal/tui"
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
		log.Fatalf("failed to load config: %v", err)
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
		log.Fatalf("failed to create provider client: %v", err)
	}

	bucket, err := objstore.NewFSBucket(cfg.Storage.BucketDir)
	if err != nil {
		log.Fatalf("failed to open bucket: %v", err)
	}

	artifacts := service.ArtifactConfig{Prefix: cfg.Index.Prefix, Name: cfg.Index.Name}
	query := service.NewQuery(bucket, provider, provider, session.NewMemoryStore(), artifacts, cfg.Index.TopK)

	if _, err := tea.NewProgram(tui.New(query), tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
