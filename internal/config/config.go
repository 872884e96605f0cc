// Package config provides configuration loading for recallbot.
//
// Configuration is loaded from a YAML file with environment variable
// overrides. Secrets (bot token, API keys) are wrapped in the Secret
// type so they never appear in logs or serialized output.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for configuration validation.
var (
	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMissingSecret indicates a required secret is not set.
	ErrMissingSecret = errors.New("required secret not set")
)

// Config holds the complete recallbot configuration.
type Config struct {
	Telegram  TelegramConfig  `koanf:"telegram"`
	LLM       LLMConfig       `koanf:"llm"`
	Embedding EmbeddingConfig `koanf:"embedding"`
	Store     StoreConfig     `koanf:"store"`
	Session   SessionConfig   `koanf:"session"`
	Retrieval RetrievalConfig `koanf:"retrieval"`
	Ingest    IngestConfig    `koanf:"ingest"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// TelegramConfig holds bot transport configuration.
type TelegramConfig struct {
	// Token is the bot API token from @BotFather.
	Token Secret `koanf:"token"`

	// AdminID is the chat that receives operational alerts. Optional.
	AdminID int64 `koanf:"admin_id"`
}

// LLMConfig holds language model provider configuration.
//
// The provider speaks the OpenAI chat completions protocol, so BaseURL
// can point at OpenAI, OpenRouter, or any compatible gateway.
type LLMConfig struct {
	BaseURL string `koanf:"base_url"`

	APIKey Secret `koanf:"api_key"`

	// Model is the primary model for answering, summarization and media
	// analysis.
	Model string `koanf:"model"`

	// CheapModel is tried first for classification and reranking.
	// Falls back to Model when it fails.
	CheapModel string `koanf:"cheap_model"`

	Temperature float64 `koanf:"temperature"`

	Timeout Duration `koanf:"timeout"`

	// WhisperAPIKey enables the Whisper transcription fallback for audio
	// when the multimodal model is unavailable. Optional.
	WhisperAPIKey Secret `koanf:"whisper_api_key"`
}

// EmbeddingConfig holds the embedding provider configuration.
type EmbeddingConfig struct {
	BaseURL string `koanf:"base_url"`
	Model   string `koanf:"model"`
	APIKey  Secret `koanf:"api_key"`

	// VectorSize is the embedding dimensionality. Must match the store
	// collection.
	VectorSize int `koanf:"vector_size"`
}

// StoreConfig holds vector store configuration.
type StoreConfig struct {
	// Backend selects the store implementation: "qdrant" or "chromem".
	Backend string `koanf:"backend"`

	// Collection is the collection holding all stored items.
	Collection string `koanf:"collection"`

	Qdrant  QdrantConfig  `koanf:"qdrant"`
	Chromem ChromemConfig `koanf:"chromem"`
}

// QdrantConfig holds Qdrant gRPC connection settings.
type QdrantConfig struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	UseTLS bool   `koanf:"use_tls"`
	APIKey Secret `koanf:"api_key"`
}

// ChromemConfig holds embedded chromem-go store settings.
type ChromemConfig struct {
	Path     string `koanf:"path"`
	Compress bool   `koanf:"compress"`
}

// SessionConfig holds search session cache settings.
type SessionConfig struct {
	// TTL bounds how long a cached search session can be referenced by
	// "show #N" before it expires.
	TTL Duration `koanf:"ttl"`
}

// RetrievalConfig holds retrieval pipeline settings.
type RetrievalConfig struct {
	// TopK is the raw candidate count fetched from the vector store
	// before reranking.
	TopK int `koanf:"top_k"`

	// MaxResults caps how many reranked results are presented.
	MaxResults int `koanf:"max_results"`
}

// IngestConfig holds ingestion settings.
type IngestConfig struct {
	// MaxFileSize is the largest media payload accepted for analysis.
	MaxFileSize int64 `koanf:"max_file_size"`
}

// ServerConfig holds the health/metrics HTTP server configuration.
type ServerConfig struct {
	Port            int      `koanf:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// applyDefaults sets default values for unset fields.
func applyDefaults(cfg *Config) {
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "google/gemini-2.0-flash-001"
	}
	if cfg.LLM.CheapModel == "" {
		cfg.LLM.CheapModel = cfg.LLM.Model
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.3
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = Duration(60 * time.Second)
	}
	if cfg.Embedding.BaseURL == "" {
		cfg.Embedding.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.Embedding.VectorSize == 0 {
		cfg.Embedding.VectorSize = 768
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "chromem"
	}
	if cfg.Store.Collection == "" {
		cfg.Store.Collection = "telegram_memory"
	}
	if cfg.Store.Qdrant.Host == "" {
		cfg.Store.Qdrant.Host = "localhost"
	}
	if cfg.Store.Qdrant.Port == 0 {
		cfg.Store.Qdrant.Port = 6334
	}
	if cfg.Store.Chromem.Path == "" {
		cfg.Store.Chromem.Path = "~/.local/share/recallbot/store"
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = Duration(time.Hour)
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 20
	}
	if cfg.Retrieval.MaxResults == 0 {
		cfg.Retrieval.MaxResults = 5
	}
	if cfg.Ingest.MaxFileSize == 0 {
		cfg.Ingest.MaxFileSize = 20 * 1024 * 1024
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = Duration(10 * time.Second)
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !c.Telegram.Token.IsSet() {
		return fmt.Errorf("%w: telegram.token", ErrMissingSecret)
	}
	if !c.LLM.APIKey.IsSet() {
		return fmt.Errorf("%w: llm.api_key", ErrMissingSecret)
	}
	switch c.Store.Backend {
	case "qdrant", "chromem":
	default:
		return fmt.Errorf("%w: unknown store backend %q", ErrInvalidConfig, c.Store.Backend)
	}
	if c.Store.Backend == "qdrant" {
		if c.Store.Qdrant.Port <= 0 || c.Store.Qdrant.Port > 65535 {
			return fmt.Errorf("%w: invalid qdrant port %d", ErrInvalidConfig, c.Store.Qdrant.Port)
		}
	}
	if c.Embedding.VectorSize <= 0 {
		return fmt.Errorf("%w: embedding.vector_size must be positive", ErrInvalidConfig)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: retrieval.top_k must be positive", ErrInvalidConfig)
	}
	if c.Retrieval.MaxResults <= 0 {
		return fmt.Errorf("%w: retrieval.max_results must be positive", ErrInvalidConfig)
	}
	if c.Session.TTL.Duration() <= 0 {
		return fmt.Errorf("%w: session.ttl must be positive", ErrInvalidConfig)
	}
	return nil
}
