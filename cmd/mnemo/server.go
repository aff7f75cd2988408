package mnemo

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soundprediction/mnemo"
	"github.com/soundprediction/mnemo/pkg/config"
	"github.com/soundprediction/mnemo/pkg/embedder"
	"github.com/soundprediction/mnemo/pkg/llm"
	"github.com/soundprediction/mnemo/pkg/logger"
	"github.com/soundprediction/mnemo/pkg/server"
	"github.com/soundprediction/mnemo/pkg/store"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Mnemo HTTP server",
	Long: `Start the Mnemo HTTP server to provide REST API access to the memory engine.

The server provides endpoints for:
- Ingesting text into a tenant's graph memory
- Searching stored relations with natural language queries
- Listing and clearing a tenant's memories
- Health checks

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServer,
}

var (
	serverHost string
	serverPort int
	serverMode string
)

func init() {
	rootCmd.AddCommand(serverCmd)

	// Server-specific flags
	serverCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serverCmd.Flags().StringVar(&serverMode, "mode", "debug", "Server mode (debug, release, test)")

	// Graph store flags
	serverCmd.Flags().String("graph-provider", "neo4j", "Graph store provider (neo4j, falkordb)")
	serverCmd.Flags().String("graph-uri", "bolt://localhost:7687", "Graph store URI")
	serverCmd.Flags().String("graph-username", "", "Graph store username")
	serverCmd.Flags().String("graph-password", "", "Graph store password")
	serverCmd.Flags().String("graph-base", "mnemo", "FalkorDB graph key prefix for tenant namespaces")
	serverCmd.Flags().String("graph-database", "neo4j", "Neo4j database name shared by all tenants")

	// LLM flags
	serverCmd.Flags().String("llm-model", "gpt-4o-mini", "Chat model")
	serverCmd.Flags().String("llm-api-key", "", "Chat model API key")
	serverCmd.Flags().String("llm-base-url", "", "Chat model base URL")

	// Embedder flags
	serverCmd.Flags().String("embedder-model", "text-embedding-3-small", "Embedding model")
	serverCmd.Flags().String("embedder-api-key", "", "Embedding API key")
	serverCmd.Flags().String("embedder-base-url", "", "Embedding base URL")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	overrideConfigWithFlags(cmd, cfg)

	// Validate configuration
	if err := validateServerConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Initialize memory engine
	memory, err := initializeMemory(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize memory engine: %w", err)
	}

	// Create and setup server
	srv := server.New(cfg, memory)
	srv.Setup()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal: %v\n", sig)

		// Create shutdown context with timeout
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Shutdown server
		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		// Release graph connections
		if err := memory.Close(shutdownCtx); err != nil {
			return fmt.Errorf("memory shutdown error: %w", err)
		}

		fmt.Println("Server stopped gracefully")
		return nil
	}
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	// Server flags
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serverMode
	}

	// Graph store flags
	if cmd.Flags().Changed("graph-provider") {
		cfg.Graph.Provider, _ = cmd.Flags().GetString("graph-provider")
	}
	if cmd.Flags().Changed("graph-uri") {
		cfg.Graph.URI, _ = cmd.Flags().GetString("graph-uri")
	}
	if cmd.Flags().Changed("graph-username") {
		cfg.Graph.Username, _ = cmd.Flags().GetString("graph-username")
	}
	if cmd.Flags().Changed("graph-password") {
		cfg.Graph.Password, _ = cmd.Flags().GetString("graph-password")
	}
	if cmd.Flags().Changed("graph-base") {
		cfg.Graph.Base, _ = cmd.Flags().GetString("graph-base")
	}
	if cmd.Flags().Changed("graph-database") {
		cfg.Graph.Database, _ = cmd.Flags().GetString("graph-database")
	}

	// LLM flags
	if cmd.Flags().Changed("llm-model") {
		cfg.LLM.Model, _ = cmd.Flags().GetString("llm-model")
	}
	if cmd.Flags().Changed("llm-api-key") {
		cfg.LLM.APIKey, _ = cmd.Flags().GetString("llm-api-key")
	}
	if cmd.Flags().Changed("llm-base-url") {
		cfg.LLM.BaseURL, _ = cmd.Flags().GetString("llm-base-url")
	}

	// Embedder flags
	if cmd.Flags().Changed("embedder-model") {
		cfg.Embedder.Model, _ = cmd.Flags().GetString("embedder-model")
	}
	if cmd.Flags().Changed("embedder-api-key") {
		cfg.Embedder.APIKey, _ = cmd.Flags().GetString("embedder-api-key")
	}
	if cmd.Flags().Changed("embedder-base-url") {
		cfg.Embedder.BaseURL, _ = cmd.Flags().GetString("embedder-base-url")
	}
}

func validateServerConfig(cfg *config.Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Server.Port)
	}
	if cfg.Graph.URI == "" {
		return fmt.Errorf("graph store URI is required")
	}
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("LLM API key is required (set llm.api_key or OPENAI_API_KEY)")
	}
	if cfg.Embedder.APIKey == "" {
		return fmt.Errorf("embedder API key is required (set embedder.api_key or OPENAI_API_KEY)")
	}
	return nil
}

func initializeMemory(cfg *config.Config) (mnemo.Memory, error) {
	log := logger.NewDefaultLogger(logger.ParseLevel(cfg.Log.Level))

	// Graph store
	graphStore, err := store.NewBoltStore(&store.Config{
		Provider: store.Provider(cfg.Graph.Provider),
		URI:      cfg.Graph.URI,
		Username: cfg.Graph.Username,
		Password: cfg.Graph.Password,
		Base:     cfg.Graph.Base,
		Database: cfg.Graph.Database,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create graph store: %w", err)
	}

	// LLM client
	var llmClient llm.Client
	llmClient, err = llm.NewOpenAIClient(llm.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	// Wrap with circuit breaker so a failing model provider sheds load fast
	if cfg.CircuitBreaker.Enabled {
		llmClient = llm.NewBreakerClient(llmClient, llm.BreakerConfig{
			MaxRequests:      cfg.CircuitBreaker.MaxRequests,
			Interval:         cfg.CircuitBreaker.Interval,
			Timeout:          cfg.CircuitBreaker.Timeout,
			ReadyToTripRatio: cfg.CircuitBreaker.ReadyToTripRatio,
		}, log)
	}

	// Embedder client
	embedderClient, err := embedder.NewOpenAIEmbedder(embedder.Config{
		APIKey:  cfg.Embedder.APIKey,
		BaseURL: cfg.Embedder.BaseURL,
		Model:   cfg.Embedder.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	memoryConfig := &mnemo.Config{
		MergeThreshold:  cfg.Memory.MergeThreshold,
		SearchThreshold: cfg.Memory.SearchThreshold,
		TopK:            cfg.Memory.TopK,
		CustomPrompt:    cfg.Memory.CustomPrompt,
	}

	client, err := mnemo.NewClient(graphStore, llmClient, embedderClient, memoryConfig, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory client: %w", err)
	}

	log.Info("memory engine initialized",
		"graph_provider", cfg.Graph.Provider,
		"llm_model", cfg.LLM.Model,
		"embedder_model", cfg.Embedder.Model)

	return client, nil
}
