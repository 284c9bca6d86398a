// internal/models/analysis.go
package models

// Sentiment classification values
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Tone classification values
const (
	ToneProfessional   = "professional"
	ToneCasual         = "casual"
	ToneAcademic       = "academic"
	ToneConversational = "conversational"
)

// Analysis is the structured result of analyzing one content item.
// Every field is populated in any Analysis returned by the pipeline;
// the orchestrator fills gaps a provider left open.
type Analysis struct {
	MainTheme        string   `json:"main_theme"`
	KeyTopics        []string `json:"key_topics"`
	Keywords         []string `json:"keywords"`
	Sentiment        string   `json:"sentiment"`
	Tone             string   `json:"tone"`
	TargetAudience   string   `json:"target_audience"`
	KeyTakeaways     []string `json:"key_takeaways"`
	SummaryShort     string   `json:"summary_short"`
	SummaryMedium    string   `json:"summary_medium"`
	SummaryLong      string   `json:"summary_long"`
	SuggestedFormats []string `json:"suggested_formats"`
}

// SocialPost is one platform-rendered social media post.
type SocialPost struct {
	Platform       string   `json:"platform"`
	Text           string   `json:"text"`
	Hashtags       []string `json:"hashtags"`
	CharacterCount int      `json:"character_count"`
}

// EmailSnippet is one email-format artifact (newsletter teaser, promotional).
type EmailSnippet struct {
	Type      string `json:"type"`
	Subject   string `json:"subject"`
	Content   string `json:"content"`
	CTA       string `json:"cta"`
	WordCount int    `json:"word_count"`
}

// ShortArticle is the long-form repurposed artifact.
type ShortArticle struct {
	Headline     string `json:"headline"`
	Introduction string `json:"introduction"`
	MainContent  string `json:"main_content"`
	Conclusion   string `json:"conclusion"`
	WordCount    int    `json:"word_count"`
	ReadingTime  string `json:"reading_time"`
}

// InfographicStat is a single labeled data point for an infographic.
type InfographicStat struct {
	Label          string `json:"label"`
	Value          string `json:"value"`
	IconSuggestion string `json:"icon_suggestion"`
}

// InfographicSection is a titled block of an infographic layout.
type InfographicSection struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// InfographicData holds the elements of an infographic payload.
// ImageURL is always null: the system emits a design description,
// not a rendered image.
type InfographicData struct {
	Title            string               `json:"title"`
	Statistics       []InfographicStat    `json:"statistics"`
	Sections         []InfographicSection `json:"sections"`
	CTA              string               `json:"cta"`
	ImageDescription string               `json:"image_description"`
	ImageURL         *string              `json:"image_url"`
}

// RAGMetadata records how a bundle was generated.
type RAGMetadata struct {
	ContextUsed         bool   `json:"context_used"`
	ContextLength       int    `json:"context_length"`
	GenerationTimestamp string `json:"generation_timestamp"`
	FallbackUsed        bool   `json:"fallback_used"`
	AIProvider          string `json:"ai_provider"`
}

// RepurposedBundle is the full set of repurposed artifacts for one item.
type RepurposedBundle struct {
	SocialPosts     []SocialPost     `json:"social_posts"`
	EmailSnippets   []EmailSnippet   `json:"email_snippets"`
	ShortArticle    ShortArticle     `json:"short_article"`
	InfographicData InfographicData  `json:"infographic_data"`
	RAGMetadata     RAGMetadata      `json:"rag_metadata"`
}

// SocialPlatforms is the fixed set of platforms a bundle always covers,
// in rendering order.
var SocialPlatforms = []string{"linkedin", "twitter", "facebook", "instagram"}

// DefaultSuggestedFormats is the canonical suggested_formats set.
var DefaultSuggestedFormats = []string{"social_post", "email_snippet", "short_article", "infographic_data"}

// FillDefaults replaces every empty Analysis field with a neutral default
// so that downstream consumers never see a nil or empty field regardless of
// which provider produced the analysis.
func (a *Analysis) FillDefaults() {
	if a.MainTheme == "" {
		a.MainTheme = "Content Analysis"
	}
	if len(a.KeyTopics) == 0 {
		a.KeyTopics = []string{"content", "information", "analysis"}
	}
	if len(a.Keywords) == 0 {
		a.Keywords = []string{"content", "information", "analysis"}
	}
	if a.Sentiment == "" {
		a.Sentiment = SentimentNeutral
	}
	if a.Tone == "" {
		a.Tone = ToneProfessional
	}
	if a.TargetAudience == "" {
		a.TargetAudience = "General audience interested in the topic"
	}
	if len(a.KeyTakeaways) == 0 {
		a.KeyTakeaways = []string{"Content provides valuable information"}
	}
	if a.SummaryShort == "" {
		a.SummaryShort = a.MainTheme
	}
	if a.SummaryMedium == "" {
		a.SummaryMedium = a.SummaryShort
	}
	if a.SummaryLong == "" {
		a.SummaryLong = a.SummaryMedium
	}
	if len(a.SuggestedFormats) == 0 {
		a.SuggestedFormats = append([]string{}, DefaultSuggestedFormats...)
	}
	if len(a.KeyTopics) > 5 {
		a.KeyTopics = a.KeyTopics[:5]
	}
	if len(a.Keywords) > 10 {
		a.Keywords = a.Keywords[:10]
	}
	if len(a.KeyTakeaways) > 3 {
		a.KeyTakeaways = a.KeyTakeaways[:3]
	}
}
