package handlers

import (
	"context"
	"fmt"

	"postcraft/internal/config"

	"github.com/spf13/cobra"
)

// NewResearchCmd creates the research command
func NewResearchCmd() *cobra.Command {
	var (
		maxResults int
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "research [query]",
		Short: "Run market research for a query",
		Long: `Search the web for a query and synthesize marketing insights.

Examples:
  postcraft research "insulated travel mugs"
  postcraft research "standing desks" --max-results 10 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResearch(cmd.Context(), args[0], maxResults, asJSON)
		},
	}

	cmd.Flags().IntVar(&maxResults, "max-results", 0, "Maximum search results (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")

	return cmd
}

func runResearch(ctx context.Context, query string, maxResults int, asJSON bool) error {
	cfg := config.Get()
	if maxResults <= 0 {
		maxResults = cfg.Research.MaxResults
	}

	_, researcher, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	data, err := researcher.SearchWeb(ctx, query, maxResults)
	if err != nil {
		return fmt.Errorf("research failed: %w", err)
	}

	if asJSON {
		return printJSON(data)
	}

	fmt.Printf("Research: %s\n\n", data.Query)
	if len(data.Results) > 0 {
		fmt.Println("Sources:")
		for _, r := range data.Results {
			fmt.Printf("  - %s\n    %s\n", r.Title, r.URL)
		}
		fmt.Println()
	}
	fmt.Println("Insights:")
	for _, insight := range data.Insights {
		fmt.Printf("  - %s\n", insight)
	}
	return nil
}
