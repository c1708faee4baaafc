package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"postcraft/internal/config"
	"postcraft/internal/core"
	"postcraft/internal/schedule"

	"github.com/spf13/cobra"
)

// NewGenerateCmd creates the generate command for one-shot post generation
func NewGenerateCmd() *cobra.Command {
	var (
		name        string
		description string
		price       float64
		category    string
		voice       string
		imagePath   string
		websiteURL  string
		query       string
		doSchedule  bool
		timezone    string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate social media posts for a product",
		Long: `Generate platform-tailored posts for a product from the command line.

Examples:
  # Minimal generation
  postcraft generate --name "Trail Mug" --description "Insulated steel mug for hikers" --price 24.99

  # With image analysis and research
  postcraft generate --name "Trail Mug" --description "Insulated steel mug" \
    --price 24.99 --image ./mug.jpg --research-query "insulated mugs market"

  # With scheduling
  postcraft generate --name "Trail Mug" --description "Insulated steel mug" \
    --price 24.99 --schedule --timezone America/New_York`,
		RunE: func(cmd *cobra.Command, args []string) error {
			product := core.Product{
				Name:        name,
				Description: description,
				Price:       price,
				Category:    category,
			}
			opts := core.GenerateOptions{
				WebsiteURL:    websiteURL,
				ResearchQuery: query,
				Voice:         core.BrandVoice(voice),
				SchedulePosts: doSchedule,
				Timezone:      timezone,
			}
			return runGenerate(cmd.Context(), product, opts, imagePath, asJSON)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Product name (required)")
	cmd.Flags().StringVar(&description, "description", "", "Product description (required)")
	cmd.Flags().Float64Var(&price, "price", 0, "Product price")
	cmd.Flags().StringVar(&category, "category", "", "Product category")
	cmd.Flags().StringVar(&voice, "voice", "", "Brand voice: friendly, luxury, playful, clinical, casual")
	cmd.Flags().StringVar(&imagePath, "image", "", "Path to a product image for vision analysis")
	cmd.Flags().StringVar(&websiteURL, "website", "", "Product website URL")
	cmd.Flags().StringVar(&query, "research-query", "", "Run market research with this query before generation")
	cmd.Flags().BoolVar(&doSchedule, "schedule", false, "Schedule the generated posts at optimal hours")
	cmd.Flags().StringVar(&timezone, "timezone", "", "Timezone label for scheduled posts")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")

	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

func runGenerate(ctx context.Context, product core.Product, opts core.GenerateOptions, imagePath string, asJSON bool) error {
	if opts.Voice != "" && !opts.Voice.Valid() {
		return fmt.Errorf("unknown brand voice %q", opts.Voice)
	}

	if imagePath != "" {
		data, err := os.ReadFile(imagePath)
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		opts.ImageBase64 = base64.StdEncoding.EncodeToString(data)
		opts.ImageMimeType = mimeTypeForImage(imagePath)
	}

	cfg := config.Get()
	if opts.Timezone == "" {
		opts.Timezone = cfg.Scheduling.DefaultTimezone
	}

	generator, _, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	result, err := generator.Generate(ctx, product, opts)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	if asJSON {
		return printJSON(result)
	}

	printPosts(result)
	return nil
}

func printPosts(result *core.GenerateResult) {
	for _, post := range result.Posts {
		fmt.Printf("=== %s ===\n%s\n\n", post.Platform, post.Content)
	}
	if result.ResearchInsights != nil && len(result.ResearchInsights.Bullets) > 0 {
		fmt.Println("Research insights:")
		for _, bullet := range result.ResearchInsights.Bullets {
			fmt.Printf("  - %s\n", bullet)
		}
		fmt.Println()
	}
	if len(result.ScheduledPosts) > 0 {
		sched := schedule.NewScheduler("")
		fmt.Println("Schedule:")
		for _, sp := range result.ScheduledPosts {
			fmt.Printf("  %-10s %s (%s)\n", sp.Platform, sched.FormatScheduledTime(sp.ScheduledTime), sp.Timezone)
		}
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func mimeTypeForImage(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
