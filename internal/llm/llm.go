package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"postcraft/internal/core"

	"github.com/spf13/viper"
	"google.golang.org/genai"
)

const (
	// DefaultModel is the default Gemini model for post generation.
	DefaultModel = "gemini-2.5-flash"
	// DefaultVisionModel is the default Gemini model for image analysis.
	DefaultVisionModel = "gemini-2.5-flash"

	// ImageAnalysisPromptTemplate asks the model to describe a product photo
	// in the fixed JSON shape the generator consumes.
	ImageAnalysisPromptTemplate = `Analyze this product image for social media marketing.

Return a JSON object with this exact structure:
{
  "summary": "one sentence describing what the image shows",
  "tags": ["up to six short visual tags"],
  "altText": "concise accessibility alt text for the image"
}

Return only the JSON object, no other text.`
)

// Client wraps the Gemini SDK for text generation and image analysis.
// Construct it once at process start and pass it to the components that need
// it; there is no lazily-initialized shared handle.
type Client struct {
	apiKey      string
	modelName   string
	visionModel string
	gClient     *genai.Client
}

// TextGenerationOptions contains options for text generation
type TextGenerationOptions struct {
	MaxTokens    int32   // Maximum number of tokens to generate
	Temperature  float32 // Temperature for randomness (0.0 to 1.0)
	Model        string  // Model to use (optional, defaults to client's model)
	JSONResponse bool    // Ask the model for application/json output
}

// NewClient creates a new LLM client.
// It supports multiple ways to get the API key (in order of preference):
// 1. Environment variable: GEMINI_API_KEY (or alternatives)
// 2. Viper configuration: ai.gemini.api_key
func NewClient(modelName string) (*Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		if apiKey = os.Getenv("GOOGLE_GEMINI_API_KEY"); apiKey == "" {
			if apiKey = os.Getenv("GOOGLE_AI_API_KEY"); apiKey == "" {
				apiKey = viper.GetString("ai.gemini.api_key")
			}
		}
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required. Set GEMINI_API_KEY environment variable or ai.gemini.api_key in config file.\nGet your API key from: https://makersuite.google.com/app/apikey")
	}

	if modelName == "" {
		modelName = viper.GetString("ai.gemini.model")
		if modelName == "" {
			modelName = DefaultModel
		}
	}

	visionModel := viper.GetString("ai.gemini.vision_model")
	if visionModel == "" {
		visionModel = DefaultVisionModel
	}

	ctx := context.Background()
	gClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		apiKey:      apiKey,
		modelName:   modelName,
		visionModel: visionModel,
		gClient:     gClient,
	}, nil
}

// ModelName returns the model this client generates text with.
func (c *Client) ModelName() string {
	return c.modelName
}

// GenerateText generates text using the LLM with specified options
func (c *Client) GenerateText(ctx context.Context, prompt string, options TextGenerationOptions) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	modelName := c.modelName
	if options.Model != "" {
		modelName = options.Model
	}

	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}

	var config *genai.GenerateContentConfig
	if options.MaxTokens > 0 || options.Temperature > 0 || options.JSONResponse {
		config = &genai.GenerateContentConfig{}
		if options.MaxTokens > 0 {
			config.MaxOutputTokens = options.MaxTokens
		}
		if options.Temperature > 0 {
			temp := options.Temperature
			config.Temperature = &temp
		}
		if options.JSONResponse {
			config.ResponseMIMEType = "application/json"
		}
	}

	resp, err := c.gClient.Models.GenerateContent(ctx, modelName, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from LLM")
	}

	return text, nil
}

// AnalyzeProductImage runs vision analysis over raw image bytes and returns
// the insights used to enrich the generation prompt. Tags are capped at 6.
func (c *Client) AnalyzeProductImage(ctx context.Context, data []byte, mimeType string) (core.ImageInsights, error) {
	if len(data) == 0 {
		return core.ImageInsights{}, fmt.Errorf("image data is empty")
	}
	if mimeType == "" {
		return core.ImageInsights{}, fmt.Errorf("image MIME type is required")
	}

	contents := []*genai.Content{{
		Parts: []*genai.Part{
			{Text: ImageAnalysisPromptTemplate},
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
		},
		Role: "user",
	}}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	resp, err := c.gClient.Models.GenerateContent(ctx, c.visionModel, contents, config)
	if err != nil {
		return core.ImageInsights{}, fmt.Errorf("failed to analyze image: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return core.ImageInsights{}, fmt.Errorf("empty response from vision model")
	}

	insights, err := parseImageInsights(text)
	if err != nil {
		return core.ImageInsights{}, fmt.Errorf("failed to parse image analysis: %w", err)
	}

	return insights, nil
}

// parseImageInsights decodes a vision response, tolerating markdown fences.
func parseImageInsights(raw string) (core.ImageInsights, error) {
	cleaned := StripCodeFences(raw)

	var insights core.ImageInsights
	if err := json.Unmarshal([]byte(cleaned), &insights); err != nil {
		return core.ImageInsights{}, err
	}

	if insights.Summary == "" && insights.AltText == "" && len(insights.Tags) == 0 {
		return core.ImageInsights{}, fmt.Errorf("vision response carried no usable fields")
	}

	if len(insights.Tags) > 6 {
		insights.Tags = insights.Tags[:6]
	}

	return insights, nil
}

// StripCodeFences removes a wrapping markdown code fence from model output,
// if present, so the payload can be parsed as JSON.
func StripCodeFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}
