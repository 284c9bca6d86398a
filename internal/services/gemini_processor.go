// internal/services/gemini_processor.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Corphon/RepurposeAI/internal/config"
	apperrors "github.com/Corphon/RepurposeAI/internal/errors"
	"github.com/Corphon/RepurposeAI/internal/llm"
	"github.com/Corphon/RepurposeAI/internal/models"
	"github.com/Corphon/RepurposeAI/internal/utils"
)

// GeminiProcessor drives the primary LLM backend. Prompts request strict
// JSON matching the analysis and bundle schemas; responses go through
// normalization before decoding so fenced or prose-wrapped JSON still parses.
type GeminiProcessor struct {
	provider   llm.Provider
	model      string
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
	logger     *utils.Logger
}

// NewGeminiProcessor builds the processor from configuration. Returns an
// error when no API key is configured so the chain builder can skip it.
func NewGeminiProcessor(cfg *config.AppConfig) (*GeminiProcessor, error) {
	providerConfig := map[string]string{
		"api_key":       cfg.Gemini.APIKey,
		"default_model": cfg.Gemini.Model,
	}
	if cfg.Gemini.BaseURL != "" {
		providerConfig["base_url"] = cfg.Gemini.BaseURL
	}

	provider, err := llm.GetProvider("gemini", providerConfig)
	if err != nil {
		return nil, err
	}

	return &GeminiProcessor{
		provider:   provider,
		model:      cfg.Gemini.Model,
		timeout:    cfg.RequestTimeout,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoff,
		logger:     utils.GetLogger(),
	}, nil
}

func (p *GeminiProcessor) Name() string {
	return p.provider.GetName()
}

func (p *GeminiProcessor) Kind() ProviderKind {
	return ProviderGemini
}

// AnalyzeContent asks the model for a structured analysis of the text.
func (p *GeminiProcessor) AnalyzeContent(ctx context.Context, text, ragContext string) (*models.Analysis, error) {
	prompt := buildAnalysisPrompt(text, ragContext)

	raw, err := p.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var analysis models.Analysis
	if err := llm.DecodeJSON(p.Name(), raw, &analysis); err != nil {
		return nil, err
	}
	analysis.FillDefaults()
	return &analysis, nil
}

// RepurposeContent asks the model for the full artifact bundle and stamps
// the rag metadata from what actually happened on this call.
func (p *GeminiProcessor) RepurposeContent(ctx context.Context, text string, analysis *models.Analysis, ragContext string) (*models.RepurposedBundle, error) {
	prompt := buildRepurposePrompt(text, analysis, ragContext)

	raw, err := p.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var bundle models.RepurposedBundle
	if err := llm.DecodeJSON(p.Name(), raw, &bundle); err != nil {
		return nil, err
	}
	if err := validateBundle(p.Name(), &bundle); err != nil {
		return nil, err
	}

	bundle.RAGMetadata = models.RAGMetadata{
		ContextUsed:         ragContext != "",
		ContextLength:       len(ragContext),
		GenerationTimestamp: time.Now().UTC().Format(time.RFC3339),
		FallbackUsed:        false,
		AIProvider:          p.Name(),
	}
	normalizeBundle(&bundle)
	return &bundle, nil
}

// RankContext asks the model to order candidate documents by relevance,
// returning 1-based indexes into candidates. Errors propagate so the caller
// can fall back to recency order.
func (p *GeminiProcessor) RankContext(ctx context.Context, text string, candidates []string, limit int) ([]int, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	sb.WriteString("Rank the following documents by relevance to the new content.\n")
	sb.WriteString(fmt.Sprintf("Respond with ONLY a JSON array of the %d most relevant document numbers, most relevant first. Example: [2, 1]\n\n", limit))
	sb.WriteString("New content:\n")
	sb.WriteString(truncateForPrompt(text, 1500))
	sb.WriteString("\n\nDocuments:\n")
	for i, candidate := range candidates {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, truncateForPrompt(candidate, 300)))
	}

	raw, err := p.complete(ctx, sb.String())
	if err != nil {
		return nil, err
	}

	var ranks []int
	if err := llm.DecodeJSON(p.Name(), raw, &ranks); err != nil {
		return nil, err
	}
	return ranks, nil
}

// complete runs one prompt through the provider with bounded retries and a
// fixed backoff. Only retryable failures are retried; fatal and parse
// errors surface immediately.
func (p *GeminiProcessor) complete(ctx context.Context, prompt string) (string, error) {
	req := llm.CompletionRequest{
		Prompt:      prompt,
		Model:       p.model,
		Temperature: 0.7,
	}

	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Warnf("Gemini retry %d/%d after: %v", attempt, p.maxRetries, lastErr)
			select {
			case <-time.After(p.backoff):
			case <-ctx.Done():
				return "", apperrors.NewRetryableError(p.Name(), "request cancelled during backoff", ctx.Err())
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, p.timeout)
		resp, err := p.provider.CompleteText(callCtx, req)
		cancel()

		if err == nil {
			return resp.Text, nil
		}
		if !apperrors.IsRetryable(err) {
			return "", err
		}
		lastErr = err
	}

	return "", lastErr
}

func buildAnalysisPrompt(text, ragContext string) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following content and respond with ONLY valid JSON matching this schema:\n")
	sb.WriteString(`{
  "main_theme": "string",
  "key_topics": ["up to 5 strings"],
  "keywords": ["up to 10 strings"],
  "sentiment": "positive|negative|neutral",
  "tone": "professional|casual|academic|conversational",
  "target_audience": "string",
  "key_takeaways": ["up to 3 strings"],
  "summary_short": "1-2 sentences",
  "summary_medium": "3-4 sentences",
  "summary_long": "5-8 sentences",
  "suggested_formats": ["social_post", "email_snippet", "short_article", "infographic_data"]
}`)
	sb.WriteString("\n\n")
	if ragContext != "" {
		sb.WriteString("Context from previously analyzed content:\n")
		sb.WriteString(ragContext)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Content to analyze:\n")
	sb.WriteString(text)
	return sb.String()
}

func buildRepurposePrompt(text string, analysis *models.Analysis, ragContext string) string {
	var sb strings.Builder
	sb.WriteString("Repurpose the following content into multiple formats. Respond with ONLY valid JSON matching this schema:\n")
	sb.WriteString(`{
  "social_posts": [
    {"platform": "linkedin", "text": "string", "hashtags": ["string"], "character_count": 0},
    {"platform": "twitter", "text": "string", "hashtags": ["string"], "character_count": 0},
    {"platform": "facebook", "text": "string", "hashtags": ["string"], "character_count": 0},
    {"platform": "instagram", "text": "string", "hashtags": ["string"], "character_count": 0}
  ],
  "email_snippets": [
    {"type": "newsletter_teaser", "subject": "string", "content": "string", "cta": "string", "word_count": 0},
    {"type": "promotional", "subject": "string", "content": "string", "cta": "string", "word_count": 0}
  ],
  "short_article": {"headline": "string", "introduction": "string", "main_content": "string", "conclusion": "string", "word_count": 0, "reading_time": "N min read"},
  "infographic_data": {"title": "string", "statistics": [{"label": "string", "value": "string", "icon_suggestion": "string"}], "sections": [{"title": "string", "description": "string"}], "cta": "string", "image_description": "string", "image_url": null}
}`)
	sb.WriteString("\nExactly 4 social posts covering linkedin, twitter, facebook and instagram, and exactly 2 email snippets.\n\n")
	if analysis != nil {
		sb.WriteString(fmt.Sprintf("Main theme: %s\nTone: %s\nTarget audience: %s\n\n",
			analysis.MainTheme, analysis.Tone, analysis.TargetAudience))
	}
	if ragContext != "" {
		sb.WriteString("Context from previously analyzed content:\n")
		sb.WriteString(ragContext)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Content to repurpose:\n")
	sb.WriteString(text)
	return sb.String()
}

// validateBundle rejects model output that violates the artifact cardinality
// contract so the chain falls through instead of persisting a partial bundle.
func validateBundle(provider string, bundle *models.RepurposedBundle) error {
	if len(bundle.SocialPosts) != len(models.SocialPlatforms) {
		return apperrors.NewParseError(provider, fmt.Sprintf("expected %d social posts, got %d",
			len(models.SocialPlatforms), len(bundle.SocialPosts)), nil)
	}
	if len(bundle.EmailSnippets) != 2 {
		return apperrors.NewParseError(provider, fmt.Sprintf("expected 2 email snippets, got %d",
			len(bundle.EmailSnippets)), nil)
	}
	if bundle.ShortArticle.Headline == "" {
		return apperrors.NewParseError(provider, "short article headline missing", nil)
	}
	return nil
}

// normalizeBundle recomputes the counts models routinely get wrong and
// enforces the always-null image URL.
func normalizeBundle(bundle *models.RepurposedBundle) {
	for i := range bundle.SocialPosts {
		bundle.SocialPosts[i].CharacterCount = len(bundle.SocialPosts[i].Text)
	}
	for i := range bundle.EmailSnippets {
		bundle.EmailSnippets[i].WordCount = len(strings.Fields(bundle.EmailSnippets[i].Content))
	}
	article := &bundle.ShortArticle
	article.WordCount = len(strings.Fields(article.Introduction)) +
		len(strings.Fields(article.MainContent)) +
		len(strings.Fields(article.Conclusion))
	bundle.InfographicData.ImageURL = nil
}

func truncateForPrompt(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
