package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Graph store configuration
	Graph GraphConfig `mapstructure:"graph"`

	// LLM configuration
	LLM LLMConfig `mapstructure:"llm"`

	// Embedder configuration
	Embedder EmbedderConfig `mapstructure:"embedder"`

	// Memory engine configuration
	Memory MemoryConfig `mapstructure:"memory"`

	// CircuitBreaker configuration
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// GraphConfig holds graph store configuration
type GraphConfig struct {
	Provider string `mapstructure:"provider"` // neo4j, falkordb
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`

	// Base is the graph key prefix on FalkorDB; each tenant gets
	// "<base>_<tenant>".
	Base string `mapstructure:"base"`

	// Database is the shared Neo4j database name. Ignored by FalkorDB.
	Database string `mapstructure:"database"`
}

// LLMConfig holds configuration for the chat model
type LLMConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// EmbedderConfig holds configuration for the embedding model
type EmbedderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// MemoryConfig holds tunables for the memory engine
type MemoryConfig struct {
	MergeThreshold  float64 `mapstructure:"merge_threshold"`
	SearchThreshold float64 `mapstructure:"search_threshold"`
	TopK            int     `mapstructure:"top_k"`
	CustomPrompt    string  `mapstructure:"custom_prompt"`
}

// CircuitBreakerConfig holds configuration for circuit breaking
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	// Set defaults
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Override with environment variables if present
	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Graph store defaults
	viper.SetDefault("graph.provider", "neo4j")
	viper.SetDefault("graph.uri", "bolt://localhost:7687")
	viper.SetDefault("graph.username", "")
	viper.SetDefault("graph.password", "")
	viper.SetDefault("graph.base", "mnemo")
	viper.SetDefault("graph.database", "neo4j")

	// LLM defaults
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.temperature", 0.0)
	viper.SetDefault("llm.max_tokens", 2048)

	// Embedder defaults
	viper.SetDefault("embedder.model", "text-embedding-3-small")

	// Memory engine defaults
	viper.SetDefault("memory.merge_threshold", 0.9)
	viper.SetDefault("memory.search_threshold", 0.7)
	viper.SetDefault("memory.top_k", 5)

	// Circuit breaker defaults
	viper.SetDefault("circuit_breaker.enabled", true)
	viper.SetDefault("circuit_breaker.max_requests", 3)
	viper.SetDefault("circuit_breaker.interval", 60)
	viper.SetDefault("circuit_breaker.timeout", 30)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", 0.6)
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	// Model credentials
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		if config.LLM.APIKey == "" {
			config.LLM.APIKey = apiKey
		}
		if config.Embedder.APIKey == "" {
			config.Embedder.APIKey = apiKey
		}
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		if config.LLM.BaseURL == "" {
			config.LLM.BaseURL = baseURL
		}
		if config.Embedder.BaseURL == "" {
			config.Embedder.BaseURL = baseURL
		}
	}

	// Graph store credentials
	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		config.Graph.URI = uri
	}
	if user := os.Getenv("NEO4J_USER"); user != "" {
		config.Graph.Username = user
	}
	if pass := os.Getenv("NEO4J_PASSWORD"); pass != "" {
		config.Graph.Password = pass
	}
	if database := os.Getenv("NEO4J_DATABASE"); database != "" {
		config.Graph.Database = database
	}

	// Generic graph settings
	if provider := os.Getenv("GRAPH_PROVIDER"); provider != "" {
		config.Graph.Provider = provider
	}
	if uri := os.Getenv("GRAPH_URI"); uri != "" {
		config.Graph.URI = uri
	}

	// Server settings
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		viper.Set("server.port", port)
	}
}
