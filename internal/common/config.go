package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string            `toml:"environment"` // "development" or "production"
	Server      ServerConfig      `toml:"server"`
	Storage     StorageConfig     `toml:"storage"`
	Extraction  ExtractionConfig  `toml:"extraction"`
	Chunking    ChunkingConfig    `toml:"chunking"`
	Retrieval   RetrievalConfig   `toml:"retrieval"`
	Embeddings  EmbeddingsConfig  `toml:"embeddings"`
	LLM         LLMConfig         `toml:"llm"`
	Analysis    AnalysisConfig    `toml:"analysis"`
	Maintenance MaintenanceConfig `toml:"maintenance"`
	Logging     LoggingConfig     `toml:"logging"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gte=1,lte=65535"`
	Host string `toml:"host" validate:"required"`
}

type StorageConfig struct {
	Badger     BadgerConfig     `toml:"badger"`
	Filesystem FilesystemConfig `toml:"filesystem"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`         // Delete database on startup for clean test runs
}

// FilesystemConfig holds the on-disk cache locations shared across processes.
type FilesystemConfig struct {
	CacheDir         string `toml:"cache_dir" validate:"required"`         // Extracted-text cache (extract_<fid>.txt)
	IndexDir         string `toml:"index_dir" validate:"required"`         // Persisted similarity indexes (vs_<backend>_<fid>)
	ConversationsDir string `toml:"conversations_dir" validate:"required"` // Per-document conversation JSON records
}

type ExtractionConfig struct {
	OCRLanguage string `toml:"ocr_language"` // Tesseract language code (default "eng")
}

type ChunkingConfig struct {
	ChunkSize      int `toml:"chunk_size" validate:"gte=1"`       // Target maximum chunk size in characters
	MinChunkLength int `toml:"min_chunk_length" validate:"gte=0"` // Chunks shorter than this (trimmed) are dropped
	MaxChunks      int `toml:"max_chunks" validate:"gte=0"`       // 0 = unlimited; otherwise keep the first N
}

type RetrievalConfig struct {
	TopK            int     `toml:"top_k" validate:"gte=1"`
	SimilarityFloor float64 `toml:"similarity_floor"`                  // Minimum acceptable similarity score
	DedupThreshold  float64 `toml:"dedup_threshold" validate:"gt=0"`   // Token-Jaccard overlap above which a result is dropped
	ContextBudget   int     `toml:"context_budget" validate:"gte=1"`   // Maximum assembled context size in characters
	OverfetchFactor int     `toml:"overfetch_factor" validate:"gte=1"` // Candidates fetched = top_k * factor
	HistoryWindow   int     `toml:"history_window" validate:"gte=0"`   // Recent conversation turns included in prompts
}

type EmbeddingsConfig struct {
	Backend   string `toml:"backend" validate:"oneof=gemini lexical"` // Backend identity, encoded in persisted index paths
	Dimension int    `toml:"dimension" validate:"gte=8"`              // Vector dimension for the lexical backend
}

// LLMProvider identifies which hosted model backend to use
type LLMProvider string

const (
	LLMProviderGemini LLMProvider = "gemini"
	LLMProviderClaude LLMProvider = "claude"
)

type LLMConfig struct {
	Provider LLMProvider  `toml:"provider" validate:"oneof=gemini claude"`
	Gemini   GeminiConfig `toml:"gemini"`
	Claude   ClaudeConfig `toml:"claude"`
}

type GeminiConfig struct {
	APIKey          string  `toml:"api_key"`
	ChatModel       string  `toml:"chat_model"`        // Default: gemini-2.5-flash-lite
	EmbedModel      string  `toml:"embed_model"`       // Default: gemini-embedding-001
	EmbedDimension  int     `toml:"embed_dimension"`   // Default: 768
	Temperature     float32 `toml:"temperature"`       // Default: 0.1
	MaxOutputTokens int32   `toml:"max_output_tokens"` // Default: 2048
	TopP            float32 `toml:"top_p"`             // Default: 0.95
	TopK            float32 `toml:"top_k"`             // Default: 40
	Timeout         string  `toml:"timeout"`           // Default: "5m"
	RateLimit       string  `toml:"rate_limit"`        // Minimum interval between provider calls, default "1s"
}

type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`      // Default: claude-sonnet-4-20250514
	MaxTokens   int     `toml:"max_tokens"` // Default: 2048
	Temperature float32 `toml:"temperature"`
	Timeout     string  `toml:"timeout"`    // Default: "5m"
	RateLimit   string  `toml:"rate_limit"` // Default: "1s"
}

type AnalysisConfig struct {
	MaxInputChars int `toml:"max_input_chars" validate:"gte=1"` // Cap on re-joined document text sent to the model
}

type MaintenanceConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // Cron schedule for the cache sweep
	TTL      string `toml:"ttl"`      // Age after which cache/index files are purged
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// NewDefaultConfig returns the built-in defaults, tuned for local development.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/badger",
			},
			Filesystem: FilesystemConfig{
				CacheDir:         "./cache",
				IndexDir:         "./data",
				ConversationsDir: "./conversations",
			},
		},
		Extraction: ExtractionConfig{
			OCRLanguage: "eng",
		},
		Chunking: ChunkingConfig{
			ChunkSize:      1000,
			MinChunkLength: 40,
			MaxChunks:      400,
		},
		Retrieval: RetrievalConfig{
			TopK:            5,
			SimilarityFloor: 0.2,
			DedupThreshold:  0.9,
			ContextBudget:   8000,
			OverfetchFactor: 3,
			HistoryWindow:   10,
		},
		Embeddings: EmbeddingsConfig{
			Backend:   "lexical",
			Dimension: 256,
		},
		LLM: LLMConfig{
			Provider: LLMProviderGemini,
			Gemini: GeminiConfig{
				ChatModel:       "gemini-2.5-flash-lite",
				EmbedModel:      "gemini-embedding-001",
				EmbedDimension:  768,
				Temperature:     0.1,
				MaxOutputTokens: 2048,
				TopP:            0.95,
				TopK:            40,
				Timeout:         "5m",
				RateLimit:       "1s",
			},
			Claude: ClaudeConfig{
				Model:       "claude-sonnet-4-20250514",
				MaxTokens:   2048,
				Temperature: 0.1,
				Timeout:     "5m",
				RateLimit:   "1s",
			},
		},
		Analysis: AnalysisConfig{
			MaxInputChars: 20000,
		},
		Maintenance: MaintenanceConfig{
			Enabled:  true,
			Schedule: "0 3 * * *",
			TTL:      "720h",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files; environment variables override everything.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration against struct-level constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ApplyFlagOverrides applies command-line flag values (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("EXPLICARE_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("EXPLICARE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("EXPLICARE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if badgerPath := os.Getenv("EXPLICARE_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if cacheDir := os.Getenv("EXPLICARE_CACHE_DIR"); cacheDir != "" {
		config.Storage.Filesystem.CacheDir = cacheDir
	}
	if indexDir := os.Getenv("EXPLICARE_INDEX_DIR"); indexDir != "" {
		config.Storage.Filesystem.IndexDir = indexDir
	}

	if backend := os.Getenv("EXPLICARE_EMBEDDINGS_BACKEND"); backend != "" {
		config.Embeddings.Backend = backend
	}

	if provider := os.Getenv("EXPLICARE_LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = LLMProvider(provider)
	}
	if key := os.Getenv("EXPLICARE_GEMINI_API_KEY"); key != "" {
		config.LLM.Gemini.APIKey = key
	} else if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		config.LLM.Gemini.APIKey = key
	}
	if key := os.Getenv("EXPLICARE_CLAUDE_API_KEY"); key != "" {
		config.LLM.Claude.APIKey = key
	} else if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.LLM.Claude.APIKey = key
	}

	if level := os.Getenv("EXPLICARE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("EXPLICARE_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}
}
