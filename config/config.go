// Package config loads the YAML application configuration.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// StorageConfig configures the local record store.
type StorageConfig struct {
	// Path is the BadgerDB directory. Empty selects the default under the
	// user's home directory.
	Path string `yaml:"path"`
}

// AIConfig configures the embedding and generation providers.
type AIConfig struct {
	Host               string `yaml:"host"`
	EmbeddingModel     string `yaml:"embedding_model"`
	GeneratorModel     string `yaml:"generator_model"`
	APIKeyEnv          string `yaml:"api_key_env"`
	EmbeddingBatchSize int    `yaml:"embedding_batch_size"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	Dimension   int    `yaml:"dimension"`
}

// VectorStoreConfig selects and configures the vector store implementation.
// Type "none" disables vector search; documents still process with
// enrichment only.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// PipelineConfig configures document processing.
type PipelineConfig struct {
	ChunkSize            int `yaml:"chunk_size"`
	Overlap              int `yaml:"overlap"`
	PoolSize             int `yaml:"pool_size"`
	EnrichmentIntervalMS int `yaml:"enrichment_interval_ms"`
	QuestionCount        int `yaml:"question_count"`
	SummaryPrefixWords   int `yaml:"summary_prefix_words"`
}

// SearchConfig configures the retrieval path.
type SearchConfig struct {
	MaxHits      int `yaml:"max_hits"`
	CacheSize    int `yaml:"cache_size"`
	CacheTTLSecs int `yaml:"cache_ttl_secs"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Storage     StorageConfig     `yaml:"storage"`
	AI          AIConfig          `yaml:"ai"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	Search      SearchConfig      `yaml:"search"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
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

// LoadDefault tries ./studyowl.yaml first, then ~/.config/studyowl/config.yaml.
// If neither exists, it writes defaults to ~/.config/studyowl/config.yaml and
// returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "studyowl.yaml"
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
	return filepath.Join(home, ".config", "studyowl", "config.yaml"), nil
}

// DefaultStoragePath returns the default BadgerDB directory.
func DefaultStoragePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "studyowl"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		AI: AIConfig{
			Host:               "http://localhost:11434",
			EmbeddingModel:     "embeddinggemma",
			GeneratorModel:     "qwen2.5:3b",
			APIKeyEnv:          "STUDYOWL_API_KEY",
			EmbeddingBatchSize: 32,
		},
		VectorStore: VectorStoreConfig{
			Type: "memory",
		},
		Pipeline: PipelineConfig{
			ChunkSize:            300,
			Overlap:              50,
			PoolSize:             0, // 0 selects the runtime default
			EnrichmentIntervalMS: 1500,
			QuestionCount:        5,
			SummaryPrefixWords:   2000,
		},
		Search: SearchConfig{
			MaxHits:      5,
			CacheSize:    100,
			CacheTTLSecs: 300,
		},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()

	if cfg.AI.Host == "" {
		cfg.AI.Host = def.AI.Host
	}
	if cfg.AI.EmbeddingModel == "" {
		cfg.AI.EmbeddingModel = def.AI.EmbeddingModel
	}
	if cfg.AI.GeneratorModel == "" {
		cfg.AI.GeneratorModel = def.AI.GeneratorModel
	}
	if cfg.AI.APIKeyEnv == "" {
		cfg.AI.APIKeyEnv = def.AI.APIKeyEnv
	}
	if cfg.AI.EmbeddingBatchSize == 0 {
		cfg.AI.EmbeddingBatchSize = def.AI.EmbeddingBatchSize
	}

	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = def.VectorStore.Type
	}
	if cfg.VectorStore.Type == "qdrant" && cfg.VectorStore.Qdrant != nil {
		if cfg.VectorStore.Qdrant.URL == "" {
			cfg.VectorStore.Qdrant.URL = "http://localhost:6333"
		}
		if cfg.VectorStore.Qdrant.Collection == "" {
			cfg.VectorStore.Qdrant.Collection = "studyowl"
		}
		if cfg.VectorStore.Qdrant.TimeoutSecs == 0 {
			cfg.VectorStore.Qdrant.TimeoutSecs = 15
		}
		if cfg.VectorStore.Qdrant.APIKeyEnv == "" {
			cfg.VectorStore.Qdrant.APIKeyEnv = "QDRANT_API_KEY"
		}
	}

	if cfg.Pipeline.ChunkSize == 0 {
		cfg.Pipeline.ChunkSize = def.Pipeline.ChunkSize
	}
	if cfg.Pipeline.Overlap == 0 {
		cfg.Pipeline.Overlap = def.Pipeline.Overlap
	}
	if cfg.Pipeline.EnrichmentIntervalMS == 0 {
		cfg.Pipeline.EnrichmentIntervalMS = def.Pipeline.EnrichmentIntervalMS
	}
	if cfg.Pipeline.QuestionCount == 0 {
		cfg.Pipeline.QuestionCount = def.Pipeline.QuestionCount
	}
	if cfg.Pipeline.SummaryPrefixWords == 0 {
		cfg.Pipeline.SummaryPrefixWords = def.Pipeline.SummaryPrefixWords
	}

	if cfg.Search.MaxHits == 0 {
		cfg.Search.MaxHits = def.Search.MaxHits
	}
	if cfg.Search.CacheSize == 0 {
		cfg.Search.CacheSize = def.Search.CacheSize
	}
	if cfg.Search.CacheTTLSecs == 0 {
		cfg.Search.CacheTTLSecs = def.Search.CacheTTLSecs
	}
}
