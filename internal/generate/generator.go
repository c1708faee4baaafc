package generate

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"postcraft/internal/core"
	"postcraft/internal/llm"
	"postcraft/internal/logger"
	"postcraft/internal/schedule"

	"golang.org/x/sync/errgroup"
)

// LLMClient defines the model operations the generator depends on.
type LLMClient interface {
	// GenerateText generates text from a prompt
	GenerateText(ctx context.Context, prompt string, options llm.TextGenerationOptions) (string, error)

	// AnalyzeProductImage runs vision analysis over raw image bytes
	AnalyzeProductImage(ctx context.Context, data []byte, mimeType string) (core.ImageInsights, error)
}

// Researcher defines the market research operation the generator depends on.
type Researcher interface {
	SearchWeb(ctx context.Context, query string, maxResults int) (*core.WebResearchData, error)
}

// Options configures the generator behavior
type Options struct {
	PostCount          int     // Number of posts to request per generation
	Temperature        float32 // Sampling temperature for the generation call
	MaxTokens          int32   // Token budget for the generation call
	ResearchMaxResults int     // Result cap passed to the researcher
}

// DefaultOptions returns sensible defaults
func DefaultOptions() Options {
	return Options{
		PostCount:          5,
		Temperature:        0.8,
		MaxTokens:          1000,
		ResearchMaxResults: 5,
	}
}

// Generator runs the post generation pipeline: optional concurrent image
// analysis and market research, an enriched prompt, a structured generation
// call, validation, and optional scheduling.
type Generator struct {
	llmClient  LLMClient
	researcher Researcher
	options    Options
}

// NewGenerator creates a generator with explicit dependencies. The researcher
// may be nil, in which case research requests are skipped.
func NewGenerator(llmClient LLMClient, researcher Researcher, options Options) *Generator {
	if options.PostCount <= 0 {
		options.PostCount = DefaultOptions().PostCount
	}
	return &Generator{
		llmClient:  llmClient,
		researcher: researcher,
		options:    options,
	}
}

// Generate produces platform-tailored post drafts for a validated product.
// Image analysis and research are independent of each other and run
// concurrently; either failing degrades to generation without that
// enrichment rather than failing the request.
func (g *Generator) Generate(ctx context.Context, product core.Product, opts core.GenerateOptions) (*core.GenerateResult, error) {
	var (
		imageInsights    *core.ImageInsights
		researchInsights *core.ResearchInsights
	)

	eg, egCtx := errgroup.WithContext(ctx)

	if opts.ImageBase64 != "" && opts.ImageMimeType != "" {
		eg.Go(func() error {
			insights, err := g.analyzeImage(egCtx, opts.ImageBase64, opts.ImageMimeType)
			if err != nil {
				logger.Warn("Image analysis failed, continuing without image insights", "error", err.Error())
				return nil
			}
			imageInsights = insights
			return nil
		})
	}

	if g.researcher != nil && (opts.ResearchQuery != "" || opts.WebsiteURL != "") {
		eg.Go(func() error {
			query := opts.ResearchQuery
			if query == "" {
				query = defaultResearchQuery(product)
			}

			data, err := g.researcher.SearchWeb(egCtx, query, g.options.ResearchMaxResults)
			if err != nil {
				logger.Warn("Web research failed, continuing without research insights", "error", err.Error())
				return nil
			}
			researchInsights = &core.ResearchInsights{Bullets: data.Insights}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	prompt := BuildPostsPrompt(product, opts, imageInsights, researchInsights, g.options.PostCount)

	raw, err := g.llmClient.GenerateText(ctx, prompt, llm.TextGenerationOptions{
		MaxTokens:    g.options.MaxTokens,
		Temperature:  g.options.Temperature,
		JSONResponse: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate posts: %w", err)
	}

	posts, dropped, err := ParsePostsResponse(raw)
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		logger.Warn("Dropped malformed posts from model response", "dropped", dropped, "kept", len(posts))
	}

	result := &core.GenerateResult{
		Posts:            posts,
		ImageInsights:    imageInsights,
		ResearchInsights: researchInsights,
		Dropped:          dropped,
	}

	if opts.SchedulePosts {
		scheduler := schedule.NewScheduler(opts.Timezone)
		scheduled, err := scheduler.CreateSchedule(posts, "")
		if err != nil {
			return nil, fmt.Errorf("failed to schedule posts: %w", err)
		}
		result.ScheduledPosts = scheduled
	}

	return result, nil
}

// analyzeImage decodes the base64 payload and runs vision analysis.
func (g *Generator) analyzeImage(ctx context.Context, imageBase64, mimeType string) (*core.ImageInsights, error) {
	data, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image payload: %w", err)
	}

	insights, err := g.llmClient.AnalyzeProductImage(ctx, data, mimeType)
	if err != nil {
		return nil, err
	}
	return &insights, nil
}

// defaultResearchQuery derives a research query from the product when the
// caller requested research without supplying one.
func defaultResearchQuery(product core.Product) string {
	category := product.Category
	if category == "" {
		category = "product"
	}
	return fmt.Sprintf("%s %s", product.Name, category)
}

// postsEnvelope is the JSON shape the model is instructed to return.
type postsEnvelope struct {
	Posts []struct {
		Platform string `json:"platform"`
		Content  string `json:"content"`
	} `json:"posts"`
}

// ParsePostsResponse validates raw model output into typed posts. Entries
// missing a platform or content, or naming a platform outside the supported
// set, are dropped without aborting the batch; the dropped count is returned
// for observability. Order is preserved and duplicates are legal.
func ParsePostsResponse(raw string) ([]core.SocialMediaPost, int, error) {
	cleaned := llm.StripCodeFences(raw)

	var envelope postsEnvelope
	if err := json.Unmarshal([]byte(cleaned), &envelope); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if envelope.Posts == nil {
		return nil, 0, fmt.Errorf("%w: missing posts collection", ErrMalformedResponse)
	}

	var posts []core.SocialMediaPost
	dropped := 0
	for _, entry := range envelope.Posts {
		platform := core.Platform(strings.TrimSpace(entry.Platform))
		content := strings.TrimSpace(entry.Content)
		if !platform.Valid() || content == "" {
			dropped++
			continue
		}
		posts = append(posts, core.SocialMediaPost{
			Platform: platform,
			Content:  content,
		})
	}

	if len(posts) == 0 {
		return nil, dropped, ErrEmptyResult
	}

	return posts, dropped, nil
}
