package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	pkgRetry "github.com/Boddenberg/pj-assistant-bfa-go/internal/pkg/retry"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`

	// External service configurations
	LLMConnectorCfg       LLMConnectorConfig `envPrefix:"LLM_"`
	EmbeddingConnectorCfg EmbeddingConfig    `envPrefix:"EMBEDDING_"`
	SupabaseCfg           SupabaseConfig     `envPrefix:"SUPABASE_"`

	// Knowledge base configuration
	KnowledgeCfg KnowledgeConfig `envPrefix:"KB_"`

	// Workflow configuration
	AgentCfg AgentConfig `envPrefix:"AGENT_"`

	// Security & governance configuration
	SecurityCfg SecurityConfig `envPrefix:"SECURITY_"`
	CostCfg     CostConfig     `envPrefix:"COST_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	CompletionsEndpoint string               `env:"COMPLETIONS_ENDPOINT" envDefault:"/v1/chat/completions"`
	Model               string               `env:"MODEL" envDefault:"gpt-4o-mini"`
	MaxTokens           int                  `env:"MAX_TOKENS" envDefault:"4096"`
	Temperature         float64              `env:"TEMPERATURE" envDefault:"0.3"`
	Retry               pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type EmbeddingConfig struct {
	HTTPClientConfig
	EmbeddingsEndpoint string               `env:"EMBEDDINGS_ENDPOINT" envDefault:"/v1/embeddings"`
	Model              string               `env:"MODEL" envDefault:"text-embedding-3-small"`
	Dimension          int                  `env:"DIMENSION" envDefault:"384"`
	Retry              pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// SupabaseConfig configures the remote vector table. When URL or key is
// empty the local knowledge store backend is used instead.
type SupabaseConfig struct {
	URL                   string        `env:"URL"`
	ServiceRoleKey        string        `env:"SERVICE_ROLE_KEY"`
	Enabled               bool          `env:"ENABLED" envDefault:"true"`
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"20s"`
}

// KnowledgeConfig configures knowledge-base ingestion.
type KnowledgeConfig struct {
	BaseDir      string `env:"DIR" envDefault:"./data/knowledge_base"`
	ChunkSize    int    `env:"CHUNK_SIZE" envDefault:"500"`
	ChunkOverlap int    `env:"CHUNK_OVERLAP" envDefault:"100"`
}

// AgentConfig configures the workflow engine and its quality gates.
type AgentConfig struct {
	TopK               int           `env:"TOP_K" envDefault:"3"`
	RelevanceThreshold float64       `env:"RELEVANCE_THRESHOLD" envDefault:"0.3"`
	FallbackConfidence float64       `env:"FALLBACK_CONFIDENCE" envDefault:"0.3"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`
}

type SecurityConfig struct {
	MaxInputLength    int           `env:"MAX_INPUT_LENGTH" envDefault:"5000"`
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1h"`
}

type CostConfig struct {
	PromptPricePer1K     float64 `env:"PROMPT_PRICE_PER_1K" envDefault:"0.00015"`
	CompletionPricePer1K float64 `env:"COMPLETION_PRICE_PER_1K" envDefault:"0.0006"`
	MaxDailyCostPerUser  float64 `env:"MAX_DAILY_COST_PER_USER" envDefault:"1.0"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"20s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL" envDefault:"https://api.openai.com"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errs []string

	if cfg.KnowledgeCfg.ChunkSize < 1 {
		errs = append(errs, fmt.Sprintf("KB_CHUNK_SIZE must be positive, got %d", cfg.KnowledgeCfg.ChunkSize))
	}

	if cfg.KnowledgeCfg.ChunkOverlap < 0 || cfg.KnowledgeCfg.ChunkOverlap >= cfg.KnowledgeCfg.ChunkSize {
		errs = append(errs, fmt.Sprintf("KB_CHUNK_OVERLAP must be between 0 and KB_CHUNK_SIZE(%d), got %d",
			cfg.KnowledgeCfg.ChunkSize, cfg.KnowledgeCfg.ChunkOverlap))
	}

	if cfg.AgentCfg.TopK < 1 || cfg.AgentCfg.TopK > 50 {
		errs = append(errs, fmt.Sprintf("AGENT_TOP_K must be between 1 and 50, got %d", cfg.AgentCfg.TopK))
	}

	if cfg.AgentCfg.RelevanceThreshold < 0 || cfg.AgentCfg.RelevanceThreshold > 1 {
		errs = append(errs, fmt.Sprintf("AGENT_RELEVANCE_THRESHOLD must be between 0 and 1, got %g", cfg.AgentCfg.RelevanceThreshold))
	}

	if cfg.AgentCfg.FallbackConfidence < 0 || cfg.AgentCfg.FallbackConfidence > 1 {
		errs = append(errs, fmt.Sprintf("AGENT_FALLBACK_CONFIDENCE must be between 0 and 1, got %g", cfg.AgentCfg.FallbackConfidence))
	}

	if cfg.SecurityCfg.MaxInputLength < 1 {
		errs = append(errs, fmt.Sprintf("SECURITY_MAX_INPUT_LENGTH must be positive, got %d", cfg.SecurityCfg.MaxInputLength))
	}

	if cfg.SecurityCfg.RateLimitRequests < 1 {
		errs = append(errs, fmt.Sprintf("SECURITY_RATE_LIMIT_REQUESTS must be positive, got %d", cfg.SecurityCfg.RateLimitRequests))
	}

	if cfg.EmbeddingConnectorCfg.Dimension < 1 {
		errs = append(errs, fmt.Sprintf("EMBEDDING_DIMENSION must be positive, got %d", cfg.EmbeddingConnectorCfg.Dimension))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// UseSupabase reports whether the remote vector backend is fully configured.
func (c *Config) UseSupabase() bool {
	return c.SupabaseCfg.Enabled && c.SupabaseCfg.URL != "" && c.SupabaseCfg.ServiceRoleKey != ""
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
