package handlers

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"postcraft/internal/config"
	"postcraft/internal/generate"
	"postcraft/internal/llm"
	"postcraft/internal/logger"
	"postcraft/internal/research"
	"postcraft/internal/search"
	"postcraft/internal/server"

	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command for starting the HTTP server
func NewServeCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the postcraft HTTP server.

The server exposes:
  • POST /api/generate        - generate posts for a product
  • POST /api/calendar        - build a 7-day content calendar
  • GET  /api/optimal-times/{platform} - optimal posting hours
  • POST /api/research        - market research for a query
  • GET  /health              - health check

Examples:
  # Start server on default port 8080
  postcraft serve

  # Start on custom port
  postcraft serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), port, host)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "HTTP server port (default from config: 8080)")
	cmd.Flags().StringVar(&host, "host", "", "HTTP server host (default from config: 0.0.0.0)")

	return cmd
}

func runServe(ctx context.Context, port int, host string) error {
	log := logger.Get()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if host != "" {
		cfg.Server.Host = host
	}

	generator, researcher, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	srv := server.New(generator, researcher, cfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigCh:
		log.Info("Shutting down", "signal", sig.String())
	case <-ctx.Done():
		log.Info("Shutting down", "reason", "context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

// buildPipeline wires the LLM client, search provider, researcher, and
// generator from the loaded configuration.
func buildPipeline(cfg *config.Config) (*generate.Generator, *research.Researcher, error) {
	llmClient, err := llm.NewClient(cfg.AI.Gemini.Model)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	providerType := search.ProviderType(cfg.Search.DefaultProvider)
	factory := search.NewProviderFactory()
	provider, err := factory.CreateProvider(providerType, config.GetSearchProviderConfig(cfg.Search.DefaultProvider))
	if err != nil {
		logger.Warn("Search provider unavailable, falling back to placeholder results", "provider", cfg.Search.DefaultProvider, "error", err)
		provider = nil
	}

	researcher := research.NewResearcher(llmClient, provider)

	generator := generate.NewGenerator(llmClient, researcher, generate.Options{
		PostCount:          cfg.Generation.PostCount,
		Temperature:        cfg.Generation.Temperature,
		MaxTokens:          cfg.Generation.MaxTokens,
		ResearchMaxResults: cfg.Research.MaxResults,
	})

	return generator, researcher, nil
}
