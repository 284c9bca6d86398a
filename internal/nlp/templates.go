// internal/nlp/templates.go
package nlp

import (
	"fmt"
	"strings"
	"time"

	"github.com/Corphon/RepurposeAI/internal/models"
)

// Repurpose renders the full artifact bundle from fixed per-platform
// templates. The result always contains four social posts (linkedin,
// twitter, facebook, instagram), two email snippets, one short article and
// one infographic payload.
func (e *Engine) Repurpose(text string, analysis *models.Analysis) *models.RepurposedBundle {
	if analysis == nil {
		analysis = e.Analyze(text)
	}

	theme := analysis.MainTheme
	keywords := analysis.Keywords
	summary := analysis.SummaryShort
	if summary == "" {
		summary = firstN(text, 100)
	}

	return &models.RepurposedBundle{
		SocialPosts:     e.renderSocialPosts(theme, keywords, summary),
		EmailSnippets:   e.renderEmailSnippets(theme, summary),
		ShortArticle:    e.renderShortArticle(theme, analysis),
		InfographicData: e.renderInfographic(theme, keywords, analysis),
		RAGMetadata: models.RAGMetadata{
			ContextUsed:         false,
			ContextLength:       0,
			GenerationTimestamp: time.Now().UTC().Format(time.RFC3339),
			FallbackUsed:        true,
			AIProvider:          ProviderName,
		},
	}
}

// ProviderName identifies the local engine in rag_metadata and logs.
const ProviderName = "local"

func (e *Engine) renderSocialPosts(theme string, keywords []string, summary string) []models.SocialPost {
	hashtag := "content"
	if len(keywords) > 0 {
		hashtag = keywords[0]
	}
	lowerTheme := strings.ToLower(theme)

	linkedin := fmt.Sprintf(
		"Exploring %s. %s Key insights that matter for professionals. #%s #insights #professional",
		lowerTheme, summary, hashtag)
	twitter := fmt.Sprintf("%s: %s #%s #insights", theme, firstN(summary, 100), hashtag)
	facebook := fmt.Sprintf(
		"Sharing some thoughts on %s. %s What's your take on this? Let's discuss!",
		lowerTheme, summary)
	instagram := fmt.Sprintf(
		"Deep dive into %s today! %s #%s #insights #learning #growth",
		lowerTheme, summary, hashtag)

	return []models.SocialPost{
		{
			Platform:       "linkedin",
			Text:           linkedin,
			Hashtags:       []string{hashtag, "insights", "professional"},
			CharacterCount: len(linkedin),
		},
		{
			Platform:       "twitter",
			Text:           twitter,
			Hashtags:       []string{hashtag, "insights"},
			CharacterCount: len(twitter),
		},
		{
			Platform:       "facebook",
			Text:           facebook,
			Hashtags:       []string{hashtag},
			CharacterCount: len(facebook),
		},
		{
			Platform:       "instagram",
			Text:           instagram,
			Hashtags:       []string{hashtag, "insights", "learning", "growth"},
			CharacterCount: len(instagram),
		},
	}
}

func (e *Engine) renderEmailSnippets(theme, summary string) []models.EmailSnippet {
	lowerTheme := strings.ToLower(theme)

	teaser := fmt.Sprintf(
		"We've been exploring %s and wanted to share some key insights with you.\n\n%s\n\nThis analysis reveals important considerations that could impact your approach to this topic.",
		lowerTheme, summary)
	promo := fmt.Sprintf(
		"Our latest analysis on %s is now available.\n\n%s\n\nDiscover actionable insights that can help you make informed decisions.",
		lowerTheme, summary)

	return []models.EmailSnippet{
		{
			Type:      "newsletter_teaser",
			Subject:   fmt.Sprintf("New insights on %s", lowerTheme),
			Content:   teaser,
			CTA:       "Read Full Analysis",
			WordCount: len(strings.Fields(teaser)),
		},
		{
			Type:      "promotional",
			Subject:   fmt.Sprintf("Don't miss: Key findings about %s", lowerTheme),
			Content:   promo,
			CTA:       "Get Full Report",
			WordCount: len(strings.Fields(promo)),
		},
	}
}

func (e *Engine) renderShortArticle(theme string, analysis *models.Analysis) models.ShortArticle {
	lowerTheme := strings.ToLower(theme)

	focus := "the topic"
	if len(analysis.Keywords) > 0 {
		focus = strings.Join(clip(analysis.Keywords, 3), ", ")
	}
	firstTakeaway := "The content provides valuable insights."
	if len(analysis.KeyTakeaways) > 0 {
		firstTakeaway = analysis.KeyTakeaways[0]
	}

	intro := fmt.Sprintf(
		"In today's rapidly evolving landscape, %s has become increasingly important. Our analysis reveals several key considerations that deserve attention.",
		lowerTheme)
	main := fmt.Sprintf(
		"The examination of %s shows that %s are central themes. %s This analysis helps us understand the broader implications and potential applications.",
		lowerTheme, focus, firstTakeaway)
	conclusion := fmt.Sprintf(
		"These insights about %s provide a foundation for informed decision-making. Understanding these key aspects can help guide future strategies and approaches.",
		lowerTheme)

	wordCount := len(strings.Fields(intro)) + len(strings.Fields(main)) + len(strings.Fields(conclusion))

	return models.ShortArticle{
		Headline:     fmt.Sprintf("Understanding %s: Key Insights and Implications", theme),
		Introduction: intro,
		MainContent:  main,
		Conclusion:   conclusion,
		WordCount:    wordCount,
		ReadingTime:  readingTime(wordCount),
	}
}

// readingTime estimates reading time at roughly 200 words per minute.
func readingTime(words int) string {
	minutes := (words + 199) / 200
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

func (e *Engine) renderInfographic(theme string, keywords []string, analysis *models.Analysis) models.InfographicData {
	focus := "the topic"
	if len(keywords) > 0 {
		focus = strings.Join(clip(keywords, 3), ", ")
	}

	return models.InfographicData{
		Title: fmt.Sprintf("Key Insights: %s", theme),
		Statistics: []models.InfographicStat{
			{Label: "Main Focus", Value: theme, IconSuggestion: "target"},
			{Label: "Key Topics", Value: fmt.Sprintf("%d", len(keywords)), IconSuggestion: "list"},
			{Label: "Sentiment", Value: titleCase(analysis.Sentiment), IconSuggestion: "heart"},
		},
		Sections: []models.InfographicSection{
			{Title: "Overview", Description: analysis.SummaryShort},
			{Title: "Key Topics", Description: fmt.Sprintf("Focus areas: %s", focus)},
			{Title: "Target Audience", Description: analysis.TargetAudience},
		},
		CTA:              "Learn More",
		ImageDescription: fmt.Sprintf("Infographic displaying key insights and statistics about %s", theme),
		ImageURL:         nil,
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
