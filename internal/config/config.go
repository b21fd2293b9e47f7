package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// ProviderConfig holds settings for the OpenAI embedding/chat provider.
type ProviderConfig struct {
	APIKeyEnv   string  `yaml:"api_key_env"`
	BaseURL     string  `yaml:"base_url"`
	EmbedModel  string  `yaml:"embed_model"`
	ChatModel   string  `yaml:"chat_model"`
	Dimension   int     `yaml:"dimension"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutSecs int     `yaml:"timeout_secs"`
}

// ChunkerConfig configures how document text is split into windows.
type ChunkerConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// IndexConfig names the persisted index artifact pair.
type IndexConfig struct {
	Name   string `yaml:"name"`
	Prefix string `yaml:"prefix"`
	TopK   int    `yaml:"top_k"`
}

// StorageConfig locates the document database and the object bucket.
type StorageConfig struct {
	DataDir   string `yaml:"data_dir"`
	BucketDir string `yaml:"bucket_dir"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Provider ProviderConfig `yaml:"provider"`
	Chunker  ChunkerConfig  `yaml:"chunker"`
	Index    IndexConfig    `yaml:"index"`
	Storage  StorageConfig  `yaml:"storage"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/compostbot/config.yaml.
// If neither exists, it writes defaults to ~/.config/compostbot/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "compostbot", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Server: ServerConfig{Addr: ":8080"},
		Provider: ProviderConfig{
			APIKeyEnv:   "OPENAI_API_KEY",
			EmbedModel:  "text-embedding-3-small",
			ChatModel:   "gpt-3.5-turbo",
			Dimension:   1536,
			MaxTokens:   100,
			TimeoutSecs: 60,
		},
		Chunker: ChunkerConfig{ChunkSize: 512, ChunkOverlap: 32},
		Index:   IndexConfig{Name: "faiss_index", Prefix: "indices/", TopK: 4},
		Storage: StorageConfig{DataDir: "data", BucketDir: "bucket"},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.Provider.APIKeyEnv == "" {
		cfg.Provider.APIKeyEnv = def.Provider.APIKeyEnv
	}
	if cfg.Provider.EmbedModel == "" {
		cfg.Provider.EmbedModel = def.Provider.EmbedModel
	}
	if cfg.Provider.ChatModel == "" {
		cfg.Provider.ChatModel = def.Provider.ChatModel
	}
	if cfg.Provider.Dimension == 0 {
		cfg.Provider.Dimension = def.Provider.Dimension
	}
	if cfg.Provider.MaxTokens == 0 {
		cfg.Provider.MaxTokens = def.Provider.MaxTokens
	}
	if cfg.Provider.TimeoutSecs == 0 {
		cfg.Provider.TimeoutSecs = def.Provider.TimeoutSecs
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = def.Chunker.ChunkSize
	}
	if cfg.Chunker.ChunkOverlap == 0 {
		cfg.Chunker.ChunkOverlap = def.Chunker.ChunkOverlap
	}
	if cfg.Index.Name == "" {
		cfg.Index.Name = def.Index.Name
	}
	if cfg.Index.Prefix == "" {
		cfg.Index.Prefix = def.Index.Prefix
	}
	if cfg.Index.TopK == 0 {
		cfg.Index.TopK = def.Index.TopK
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = def.Storage.DataDir
	}
	if cfg.Storage.BucketDir == "" {
		cfg.Storage.BucketDir = def.Storage.BucketDir
	}
}
