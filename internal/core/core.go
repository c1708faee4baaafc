package core

import "time"

// Platform identifies a supported social network. The set is closed: posts
// for any other platform are dropped during validation.
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
)

// Platforms returns every supported platform, in a fixed order.
func Platforms() []Platform {
	return []Platform{PlatformTwitter, PlatformInstagram, PlatformLinkedIn}
}

// Valid reports whether p is one of the supported platforms.
func (p Platform) Valid() bool {
	switch p {
	case PlatformTwitter, PlatformInstagram, PlatformLinkedIn:
		return true
	}
	return false
}

// BrandVoice is an optional tone directive appended to the generation prompt.
type BrandVoice string

const (
	VoiceFriendly BrandVoice = "friendly"
	VoiceLuxury   BrandVoice = "luxury"
	VoicePlayful  BrandVoice = "playful"
	VoiceClinical BrandVoice = "clinical"
	VoiceCasual   BrandVoice = "casual"
)

// Valid reports whether v is one of the enumerated brand voices.
func (v BrandVoice) Valid() bool {
	switch v {
	case VoiceFriendly, VoiceLuxury, VoicePlayful, VoiceClinical, VoiceCasual:
		return true
	}
	return false
}

// Product is the caller-supplied product description. It is validated once at
// the boundary and never mutated afterwards.
type Product struct {
	Name        string  `json:"name"`               // Required, max 200 chars
	Description string  `json:"description"`        // Required, max 2000 chars
	Price       float64 `json:"price"`              // Required, 0..999999
	Category    string  `json:"category,omitempty"` // Optional, max 100 chars
}

// SocialMediaPost is a single generated post draft.
type SocialMediaPost struct {
	Platform Platform `json:"platform"` // One of the closed platform set
	Content  string   `json:"content"`  // Draft text, platform-tailored by the model
}

// ImageInsights is the result of vision analysis on an uploaded product image.
type ImageInsights struct {
	Summary string   `json:"summary"` // One-sentence visual summary
	Tags    []string `json:"tags"`    // Visual tags, at most 6
	AltText string   `json:"altText"` // Accessibility alt text
}

// ResearchInsights carries market research bullets fed back into the prompt.
type ResearchInsights struct {
	Bullets []string `json:"bullets"` // Concise findings, at most 5
}

// PostStatus is the lifecycle state of a scheduled post. This service only
// ever assigns StatusPending; transitions belong to a publishing integration.
type PostStatus string

const (
	StatusPending   PostStatus = "pending"
	StatusPublished PostStatus = "published"
	StatusFailed    PostStatus = "failed"
)

// ScheduledPost is a generated post annotated with a suggested posting time.
type ScheduledPost struct {
	ID            string     `json:"id"`            // Unique, generated at creation, never reused
	Platform      Platform   `json:"platform"`      // Platform the post targets
	Content       string     `json:"content"`       // Draft text
	ScheduledTime time.Time  `json:"scheduledTime"` // Suggested absolute posting time
	Timezone      string     `json:"timezone"`      // Timezone label supplied by the caller
	Status        PostStatus `json:"status"`        // Starts at "pending"
}

// CalendarDay is one day of a 7-day content calendar.
type CalendarDay struct {
	Day              int               `json:"day"`              // 1..7
	Date             string            `json:"date"`             // Calendar date, 2006-01-02
	DayName          string            `json:"dayName"`          // Full weekday name
	Posts            []SocialMediaPost `json:"posts"`            // Posts assigned to this day
	RecommendedTimes []int             `json:"recommendedTimes"` // Sorted, deduplicated hours
}

// WebSearchResult is a single market research search hit.
type WebSearchResult struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Snippet       string `json:"snippet"`
	PublishedDate string `json:"publishedDate,omitempty"`
}

// WebResearchData is the full output of a market research pass.
type WebResearchData struct {
	Query       string            `json:"query"`       // The research query as submitted
	Results     []WebSearchResult `json:"results"`     // Search hits the insights derive from
	Insights    []string          `json:"insights"`    // Insight bullets, at most 5
	GeneratedAt time.Time         `json:"generatedAt"` // When the research completed
}

// GenerateOptions holds the optional inputs to a generation request.
type GenerateOptions struct {
	ImageBase64   string     `json:"imageBase64,omitempty"`   // Image payload without data: prefix
	ImageMimeType string     `json:"imageMimeType,omitempty"` // e.g. image/png
	WebsiteURL    string     `json:"websiteUrl,omitempty"`    // Triggers research when set
	ResearchQuery string     `json:"researchQuery,omitempty"` // Explicit research query
	Voice         BrandVoice `json:"voice,omitempty"`         // Optional brand voice
	SchedulePosts bool       `json:"schedulePosts,omitempty"` // Attach scheduling suggestions
	Timezone      string     `json:"timezone,omitempty"`      // Timezone label for scheduling
}

// GenerateResult is the assembled output of one generation pipeline run.
type GenerateResult struct {
	Posts            []SocialMediaPost `json:"posts"`
	ImageInsights    *ImageInsights    `json:"imageInsights,omitempty"`
	ResearchInsights *ResearchInsights `json:"researchInsights,omitempty"`
	ScheduledPosts   []ScheduledPost   `json:"scheduledPosts,omitempty"`
	Dropped          int               `json:"-"` // Model entries discarded during validation
}
