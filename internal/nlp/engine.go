// internal/nlp/engine.go
package nlp

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/Corphon/RepurposeAI/internal/models"
)

// Engine is the terminal fallback of the provider chain: a deterministic,
// lexicon-driven analyzer and template renderer with no external
// dependencies. Analyze and Repurpose never fail and always return fully
// populated structures.
type Engine struct{}

// NewEngine creates a local analysis engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Analyze derives a complete Analysis from raw text using frequency-ranked
// keywords and lexicon matching. Identical input yields identical output.
func (e *Engine) Analyze(text string) *models.Analysis {
	sentences := splitSentences(text)
	tokens := filterTokens(tokenize(text))

	keywords := topKeywords(tokens, 10)

	posCount := countMatches(tokens, positiveWords)
	negCount := countMatches(tokens, negativeWords)
	sentiment := models.SentimentNeutral
	if posCount > negCount {
		sentiment = models.SentimentPositive
	} else if negCount > posCount {
		sentiment = models.SentimentNegative
	}

	formalCount := countMatches(tokens, formalIndicators)
	casualCount := countMatches(tokens, casualIndicators)
	tone := models.ToneConversational
	if formalCount > casualCount {
		tone = models.ToneProfessional
	} else if casualCount > formalCount {
		tone = models.ToneCasual
	}

	mainTheme := "Content Analysis"
	if len(keywords) > 0 {
		mainTheme = "Analysis of " + keywords[0]
	}

	summaryShort := firstN(text, 100)
	if len(sentences) > 0 {
		summaryShort = sentences[0]
	}
	summaryMedium := summaryShort
	if len(sentences) >= 2 {
		summaryMedium = strings.Join(sentences[:2], ". ")
	}
	summaryLong := summaryMedium
	if len(sentences) >= 3 {
		summaryLong = strings.Join(sentences[:3], ". ")
	}

	analysis := &models.Analysis{
		MainTheme:        mainTheme,
		KeyTopics:        clip(keywords, 5),
		Keywords:         clip(keywords, 8),
		Sentiment:        sentiment,
		Tone:             tone,
		TargetAudience:   determineAudience(keywords, tone),
		KeyTakeaways:     extractTakeaways(sentences, keywords),
		SummaryShort:     summaryShort,
		SummaryMedium:    summaryMedium,
		SummaryLong:      summaryLong,
		SuggestedFormats: append([]string{}, models.DefaultSuggestedFormats...),
	}
	analysis.FillDefaults()
	return analysis
}

// splitSentences breaks text into trimmed, non-empty sentences.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for _, r := range text {
		switch r {
		case '.', '!', '?':
			flush()
		case '\n':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return sentences
}

// tokenize lower-cases and splits text into alphanumeric word tokens.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// filterTokens removes stop words and tokens of length <= 2.
func filterTokens(tokens []string) []string {
	filtered := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if len(t) <= 2 {
			continue
		}
		if _, stop := stopWords[t]; stop {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered
}

// topKeywords ranks tokens by frequency, breaking ties by first occurrence.
func topKeywords(tokens []string, limit int) []string {
	type wordStat struct {
		word  string
		count int
		first int
	}

	stats := make(map[string]*wordStat, len(tokens))
	order := make([]*wordStat, 0)
	for i, t := range tokens {
		if s, ok := stats[t]; ok {
			s.count++
			continue
		}
		s := &wordStat{word: t, count: 1, first: i}
		stats[t] = s
		order = append(order, s)
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].first < order[j].first
	})

	if len(order) > limit {
		order = order[:limit]
	}
	keywords := make([]string, len(order))
	for i, s := range order {
		keywords[i] = s.word
	}
	return keywords
}

// determineAudience classifies the audience by keyword membership, falling
// back to a tone heuristic.
func determineAudience(keywords []string, tone string) string {
	switch {
	case anyMember(keywords, businessTerms):
		return "Business professionals and entrepreneurs"
	case anyMember(keywords, techTerms):
		return "Technology enthusiasts and professionals"
	case tone == models.ToneProfessional:
		return "Professional audience seeking insights"
	default:
		return "General audience interested in the topic"
	}
}

// extractTakeaways scans the first five sentences for importance indicators,
// synthesizing generic takeaways when none match.
func extractTakeaways(sentences []string, keywords []string) []string {
	var takeaways []string

	limit := len(sentences)
	if limit > 5 {
		limit = 5
	}
	for _, sentence := range sentences[:limit] {
		lower := strings.ToLower(sentence)
		for _, indicator := range takeawayIndicators {
			if strings.Contains(lower, indicator) {
				takeaways = append(takeaways, strings.TrimSpace(sentence))
				break
			}
		}
		if len(takeaways) == 3 {
			return takeaways
		}
	}

	if len(takeaways) > 0 {
		return takeaways
	}

	if len(keywords) > 0 {
		second := "the topic"
		if len(keywords) > 1 {
			second = keywords[1]
		}
		return []string{
			fmt.Sprintf("Key insights about %s", keywords[0]),
			fmt.Sprintf("Important considerations regarding %s", second),
			"Valuable information for decision making",
		}
	}

	return []string{
		"Content provides valuable insights",
		"Important information for readers",
		"Useful for understanding the topic",
	}
}

func clip(s []string, n int) []string {
	if len(s) > n {
		s = s[:n]
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func firstN(text string, n int) string {
	if len(text) > n {
		return text[:n]
	}
	return text
}
