package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	LLM        LLMConfig        `yaml:"llm"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Dedup      DedupConfig      `yaml:"dedup"`
	Clustering ClusteringConfig `yaml:"clustering"`
	FAQ        FAQConfig        `yaml:"faq"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Valkey     ValkeyConfig     `yaml:"valkey"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LLMConfig contains Ollama settings for generation and embeddings.
type LLMConfig struct {
	BaseURL         string        `yaml:"baseUrl"`
	Model           string        `yaml:"model"`
	EmbeddingModel  string        `yaml:"embeddingModel"`
	Timeout         time.Duration `yaml:"timeout"`
	FallbackOnError bool          `yaml:"fallbackOnError"`
}

// RetrievalConfig controls context retrieval for AI draft answers.
type RetrievalConfig struct {
	TopK int `yaml:"topK"`
}

// DedupConfig controls duplicate detection when archiving resolved questions.
type DedupConfig struct {
	Strategy         string  `yaml:"strategy"`
	CosineThreshold  float64 `yaml:"cosineThreshold"`
	JaccardThreshold float64 `yaml:"jaccardThreshold"`
}

// ClusteringConfig controls FAQ topic clustering.
type ClusteringConfig struct {
	Strategy         string  `yaml:"strategy"`
	Epsilon          float64 `yaml:"epsilon"`
	MinPoints        int     `yaml:"minPoints"`
	JaccardThreshold float64 `yaml:"jaccardThreshold"`
	MinOverlap       int     `yaml:"minOverlap"`
}

// FAQConfig controls the student-facing FAQ board.
type FAQConfig struct {
	DefaultThreshold int `yaml:"defaultThreshold"`
}

// PostgresConfig contains DSN and pooling settings. An empty DSN selects
// the in-memory stores.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig contains connection information for the settings store.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = boolValue(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("OLLAMA_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("OLLAMA_EMBEDDING_MODEL"); v != "" {
		cfg.LLM.EmbeddingModel = v
	}
	if v := os.Getenv("OLLAMA_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.LLM.Timeout = parsed
		}
	}
	if v := os.Getenv("LLM_FALLBACK_ON_ERROR"); v != "" {
		cfg.LLM.FallbackOnError = boolValue(v)
	}
	if v := os.Getenv("RETRIEVAL_TOP_K"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Retrieval.TopK = parsed
		}
	}
	if v := os.Getenv("DEDUP_STRATEGY"); v != "" {
		cfg.Dedup.Strategy = v
	}
	if v := os.Getenv("DEDUP_COSINE_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Dedup.CosineThreshold = parsed
		}
	}
	if v := os.Getenv("DEDUP_JACCARD_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Dedup.JaccardThreshold = parsed
		}
	}
	if v := os.Getenv("CLUSTERING_STRATEGY"); v != "" {
		cfg.Clustering.Strategy = v
	}
	if v := os.Getenv("CLUSTERING_EPSILON"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Clustering.Epsilon = parsed
		}
	}
	if v := os.Getenv("CLUSTERING_MIN_POINTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Clustering.MinPoints = parsed
		}
	}
	if v := os.Getenv("FAQ_DEFAULT_THRESHOLD"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.FAQ.DefaultThreshold = parsed
		}
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("VALKEY_ENABLED"); v != "" {
		cfg.Valkey.Enabled = boolValue(v)
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Valkey.Addr = v
	}
}

func boolValue(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 120 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
		},
		LLM: LLMConfig{
			BaseURL:         "http://localhost:11434",
			Model:           "llama3.2",
			EmbeddingModel:  "nomic-embed-text",
			Timeout:         60 * time.Second,
			FallbackOnError: true,
		},
		Retrieval: RetrievalConfig{
			TopK: 5,
		},
		Dedup: DedupConfig{
			Strategy:         "cosine",
			CosineThreshold:  0.8,
			JaccardThreshold: 0.7,
		},
		Clustering: ClusteringConfig{
			Strategy:         "embedding",
			Epsilon:          0.4,
			MinPoints:        2,
			JaccardThreshold: 0.3,
			MinOverlap:       2,
		},
		FAQ: FAQConfig{
			DefaultThreshold: 1,
		},
		Postgres: PostgresConfig{
			DSN:      "",
			MaxConns: 4,
			MinConns: 0,
		},
		Valkey: ValkeyConfig{
			Enabled: false,
			Addr:    "",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.LLM.BaseURL) == "" {
		return errors.New("llm.baseUrl cannot be empty")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if strings.TrimSpace(c.LLM.EmbeddingModel) == "" {
		return errors.New("llm.embeddingModel cannot be empty")
	}
	if c.LLM.Timeout <= 0 {
		return errors.New("llm.timeout must be positive")
	}
	if c.Retrieval.TopK <= 0 {
		return errors.New("retrieval.topK must be positive")
	}
	switch c.Dedup.Strategy {
	case "cosine", "jaccard":
	default:
		return fmt.Errorf("dedup.strategy must be cosine or jaccard, got %q", c.Dedup.Strategy)
	}
	if c.Dedup.CosineThreshold <= 0 || c.Dedup.CosineThreshold > 1 {
		return errors.New("dedup.cosineThreshold must be in (0, 1]")
	}
	if c.Dedup.JaccardThreshold <= 0 || c.Dedup.JaccardThreshold > 1 {
		return errors.New("dedup.jaccardThreshold must be in (0, 1]")
	}
	switch c.Clustering.Strategy {
	case "embedding", "lexical":
	default:
		return fmt.Errorf("clustering.strategy must be embedding or lexical, got %q", c.Clustering.Strategy)
	}
	if c.Clustering.Epsilon <= 0 {
		return errors.New("clustering.epsilon must be positive")
	}
	if c.Clustering.MinPoints < 2 {
		return errors.New("clustering.minPoints must be at least 2")
	}
	if c.FAQ.DefaultThreshold < 1 {
		return errors.New("faq.defaultThreshold must be at least 1")
	}
	if c.Valkey.Enabled && strings.TrimSpace(c.Valkey.Addr) == "" {
		return errors.New("valkey.addr cannot be empty when valkey is enabled")
	}
	return nil
}
