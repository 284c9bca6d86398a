// internal/nlp/engine_test.go
package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Corphon/RepurposeAI/internal/models"
)

const healthcareText = "AI is transforming healthcare through predictive diagnostics. " +
	"Machine learning models identify disease patterns earlier than traditional methods. " +
	"The key benefit is faster intervention and improved patient outcomes. " +
	"Hospitals adopting AI report significant efficiency gains."

func TestAnalyzePopulatesEveryField(t *testing.T) {
	analysis := NewEngine().Analyze(healthcareText)

	assert.NotEmpty(t, analysis.MainTheme)
	assert.NotEmpty(t, analysis.KeyTopics)
	assert.NotEmpty(t, analysis.Keywords)
	assert.NotEmpty(t, analysis.Sentiment)
	assert.NotEmpty(t, analysis.Tone)
	assert.NotEmpty(t, analysis.TargetAudience)
	assert.NotEmpty(t, analysis.KeyTakeaways)
	assert.NotEmpty(t, analysis.SummaryShort)
	assert.NotEmpty(t, analysis.SummaryMedium)
	assert.NotEmpty(t, analysis.SummaryLong)
	assert.Equal(t, models.DefaultSuggestedFormats, analysis.SuggestedFormats)

	assert.LessOrEqual(t, len(analysis.KeyTopics), 5)
	assert.LessOrEqual(t, len(analysis.Keywords), 10)
	assert.LessOrEqual(t, len(analysis.KeyTakeaways), 3)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	engine := NewEngine()
	first := engine.Analyze(healthcareText)
	second := engine.Analyze(healthcareText)
	assert.Equal(t, first, second)
}

func TestAnalyzeKeywordRanking(t *testing.T) {
	// "healthcare" appears three times, everything else once; ties break by
	// first occurrence.
	text := "Healthcare budgets grow. Healthcare needs reform. Healthcare matters."
	analysis := NewEngine().Analyze(text)

	require.NotEmpty(t, analysis.Keywords)
	assert.Equal(t, "healthcare", analysis.Keywords[0])
	assert.Equal(t, "Analysis of healthcare", analysis.MainTheme)
}

func TestAnalyzeStopWordsAndShortTokensFiltered(t *testing.T) {
	analysis := NewEngine().Analyze("The a an of to in is it we AI ML big data analytics")

	for _, kw := range analysis.Keywords {
		assert.Greater(t, len(kw), 2)
		_, isStop := stopWords[kw]
		assert.False(t, isStop, "stop word %q leaked into keywords", kw)
	}
}

func TestAnalyzeSentiment(t *testing.T) {
	engine := NewEngine()

	positive := engine.Analyze("This is a great success with excellent benefits and amazing improvements.")
	assert.Equal(t, models.SentimentPositive, positive.Sentiment)

	negative := engine.Analyze("The terrible failure caused awful problems and serious damage everywhere.")
	assert.Equal(t, models.SentimentNegative, negative.Sentiment)

	neutral := engine.Analyze("The committee met on Tuesday to review the quarterly schedule.")
	assert.Equal(t, models.SentimentNeutral, neutral.Sentiment)
}

func TestAnalyzeEmptyInputStillComplete(t *testing.T) {
	analysis := NewEngine().Analyze("")

	assert.NotEmpty(t, analysis.MainTheme)
	assert.NotEmpty(t, analysis.Keywords)
	assert.NotEmpty(t, analysis.SummaryShort)
	assert.Equal(t, models.SentimentNeutral, analysis.Sentiment)
}

func TestRepurposeArtifactCardinality(t *testing.T) {
	bundle := NewEngine().Repurpose(healthcareText, nil)

	require.Len(t, bundle.SocialPosts, 4)
	platforms := make([]string, len(bundle.SocialPosts))
	for i, post := range bundle.SocialPosts {
		platforms[i] = post.Platform
	}
	assert.Equal(t, models.SocialPlatforms, platforms)

	require.Len(t, bundle.EmailSnippets, 2)
	assert.Equal(t, "newsletter_teaser", bundle.EmailSnippets[0].Type)
	assert.Equal(t, "promotional", bundle.EmailSnippets[1].Type)

	assert.NotEmpty(t, bundle.ShortArticle.Headline)
	assert.NotEmpty(t, bundle.InfographicData.Title)
	assert.Nil(t, bundle.InfographicData.ImageURL)
}

func TestRepurposeCharacterAndWordCounts(t *testing.T) {
	bundle := NewEngine().Repurpose(healthcareText, nil)

	for _, post := range bundle.SocialPosts {
		assert.Equal(t, len(post.Text), post.CharacterCount, "platform %s", post.Platform)
	}
	for _, snippet := range bundle.EmailSnippets {
		assert.Positive(t, snippet.WordCount)
		assert.NotEmpty(t, snippet.Subject)
		assert.NotEmpty(t, snippet.CTA)
	}
	assert.Positive(t, bundle.ShortArticle.WordCount)
	assert.NotEmpty(t, bundle.ShortArticle.ReadingTime)
}

func TestRepurposeMetadataMarksFallback(t *testing.T) {
	bundle := NewEngine().Repurpose(healthcareText, nil)

	assert.True(t, bundle.RAGMetadata.FallbackUsed)
	assert.False(t, bundle.RAGMetadata.ContextUsed)
	assert.Equal(t, ProviderName, bundle.RAGMetadata.AIProvider)
	assert.NotEmpty(t, bundle.RAGMetadata.GenerationTimestamp)
}

func TestRepurposeUsesProvidedAnalysis(t *testing.T) {
	analysis := &models.Analysis{MainTheme: "Quantum Computing"}
	analysis.FillDefaults()

	bundle := NewEngine().Repurpose(healthcareText, analysis)
	assert.Contains(t, bundle.ShortArticle.Headline, "Quantum Computing")
}
