// internal/nlp/lexicon.go
package nlp

// Fixed lexicons used by the local engine. These are deliberately small:
// the engine exists to always produce a defensible answer, not to compete
// with a hosted model.

var stopWords = wordSet(
	"the", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with",
	"by", "is", "are", "was", "were", "a", "an", "be", "been", "being",
	"have", "has", "had", "do", "does", "did", "will", "would", "could",
	"should", "may", "might", "shall", "can", "this", "that", "these",
	"those", "it", "its", "they", "them", "their", "we", "our", "you",
	"your", "he", "she", "his", "her", "as", "if", "than", "then", "there",
	"here", "from", "into", "over", "under", "about", "after", "before",
	"between", "through", "during", "not", "no", "nor", "so", "too", "very",
	"just", "also", "more", "most", "some", "such", "only", "own", "same",
	"other", "any", "each", "few", "both", "all", "again", "once", "when",
	"where", "why", "how", "what", "which", "who", "whom",
)

var positiveWords = wordSet(
	"good", "great", "excellent", "amazing", "wonderful", "fantastic",
	"positive", "success", "growth", "innovative", "effective",
	"beneficial", "valuable", "important", "significant",
)

var negativeWords = wordSet(
	"bad", "terrible", "awful", "negative", "problem", "issue", "failure",
	"decline", "poor", "difficult", "challenging", "concerning",
)

var formalIndicators = wordSet(
	"therefore", "however", "furthermore", "consequently", "analysis",
	"research", "study", "data",
)

var casualIndicators = wordSet(
	"really", "pretty", "quite", "totally", "awesome", "cool", "hey", "wow",
)

var businessTerms = wordSet(
	"business", "company", "market", "strategy", "revenue", "profit",
	"management",
)

var techTerms = wordSet(
	"technology", "software", "digital", "ai", "data", "system", "platform",
)

// takeawayIndicators flag sentences that read as key points.
var takeawayIndicators = []string{
	"important", "key", "essential", "crucial", "significant", "main", "primary",
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func countMatches(tokens []string, set map[string]struct{}) int {
	count := 0
	for _, t := range tokens {
		if _, ok := set[t]; ok {
			count++
		}
	}
	return count
}

func anyMember(words []string, set map[string]struct{}) bool {
	for _, w := range words {
		if _, ok := set[w]; ok {
			return true
		}
	}
	return false
}
