package generate

import (
	"fmt"
	"strings"

	"postcraft/internal/core"
)

// maxPromptBullets caps how many research bullets make it into the prompt.
const maxPromptBullets = 5

// BuildPostsPrompt assembles the generation prompt from the product data and
// whatever enrichments are available. It is a pure function of its inputs.
func BuildPostsPrompt(product core.Product, opts core.GenerateOptions, image *core.ImageInsights, research *core.ResearchInsights, postCount int) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("Generate %d social media posts for this product:\n\n", postCount))
	prompt.WriteString(fmt.Sprintf("Product: %s\n", product.Name))
	prompt.WriteString(fmt.Sprintf("Description: %s\n", product.Description))
	prompt.WriteString(fmt.Sprintf("Price: $%v\n", product.Price))
	if product.Category != "" {
		prompt.WriteString(fmt.Sprintf("Category: %s\n", product.Category))
	}

	if opts.Voice.Valid() {
		prompt.WriteString(fmt.Sprintf("\nBrand voice: %s\n", opts.Voice))
	}

	if image != nil {
		prompt.WriteString(fmt.Sprintf("\nObserved Visuals: %s\n", strings.Join(image.Tags, ", ")))
		prompt.WriteString(fmt.Sprintf("Image Summary: %s\n", image.Summary))
	}

	if research != nil && len(research.Bullets) > 0 {
		bullets := research.Bullets
		if len(bullets) > maxPromptBullets {
			bullets = bullets[:maxPromptBullets]
		}
		prompt.WriteString("\nResearch Insights:\n")
		for _, bullet := range bullets {
			prompt.WriteString(fmt.Sprintf("- %s\n", bullet))
		}
	}

	prompt.WriteString(`
Create engaging social media posts for Twitter, Instagram, and LinkedIn. Use emojis and make them compelling.

Return the response as a JSON object with this exact structure:
{
  "posts": [
    { "platform": "twitter", "content": "..." },
    { "platform": "instagram", "content": "..." },
    { "platform": "linkedin", "content": "..." },
    { "platform": "twitter", "content": "..." },
    { "platform": "instagram", "content": "..." }
  ]
}

Make sure each post is unique and tailored to the specific platform's audience and character limits.`)

	return prompt.String()
}
