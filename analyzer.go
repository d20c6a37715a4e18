package truthdare

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// ──────────────────────────────────────────────
// Text Signal Extractor — tags, intent, sentiment, triggers
// ──────────────────────────────────────────────

// TextSignals is the combined result of analyzing one piece of free text.
type TextSignals struct {
	// Tags are the lexicon tags whose word lists matched, sorted.
	Tags []string
	// Intent is the first matching intent in lexicon order, "" if none.
	Intent string
	// Sentiment ranges -100 (very negative) to 100 (very positive),
	// 0 when no sentiment words were found.
	Sentiment int
	// Triggered reports whether any trigger word, phrase or pattern matched.
	Triggered bool
}

var tokenSplit = regexp.MustCompile(`[\s,.!?;:]+`)

// TextAnalyzer extracts tags, intent, sentiment and trigger flags from free
// text using an immutable Lexicon. Analyze has no side effects and is safe
// to call concurrently.
//
// Usage:
//
//	analyzer := truthdare.NewTextAnalyzer(truthdare.DefaultLexicon())
//	signals := analyzer.Analyze("Ik ben heel blij en enthousiast")
type TextAnalyzer struct {
	lexicon *Lexicon
}

// NewTextAnalyzer creates an analyzer over the given lexicon.
// A nil lexicon behaves as an empty one.
func NewTextAnalyzer(lexicon *Lexicon) *TextAnalyzer {
	if lexicon == nil {
		lexicon = EmptyLexicon()
	}
	return &TextAnalyzer{lexicon: lexicon}
}

// Analyze runs the four sub-analyses over the text. The sub-analyses are
// independent and run concurrently; the result is assembled only after all
// of them complete.
func (a *TextAnalyzer) Analyze(text string) TextSignals {
	normalized := strings.ToLower(text)
	words := tokenize(normalized)
	tokens := tokenSet(words)

	var (
		wg        sync.WaitGroup
		tags      []string
		intent    string
		sentiment int
		triggered bool
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		tags = a.extractTags(normalized, tokens)
	}()
	go func() {
		defer wg.Done()
		intent = a.detectIntent(normalized)
	}()
	go func() {
		defer wg.Done()
		sentiment = a.scoreSentiment(normalized, words)
	}()
	go func() {
		defer wg.Done()
		triggered = a.scanTriggers(normalized, tokens)
	}()
	wg.Wait()

	return TextSignals{
		Tags:      tags,
		Intent:    intent,
		Sentiment: sentiment,
		Triggered: triggered,
	}
}

// ScanTriggers reports whether the text alone trips the trigger detector,
// without running the other sub-analyses. Used for partial transcripts.
func (a *TextAnalyzer) ScanTriggers(text string) bool {
	normalized := strings.ToLower(text)
	return a.scanTriggers(normalized, tokenSet(tokenize(normalized)))
}

func (a *TextAnalyzer) extractTags(normalized string, tokens map[string]bool) []string {
	found := map[string]bool{}
	for tag, words := range a.lexicon.TagWords {
		for _, w := range words {
			if strings.Contains(w, " ") {
				if strings.Contains(normalized, w) {
					found[tag] = true
					break
				}
			} else if tokens[w] {
				found[tag] = true
				break
			}
		}
	}
	tags := make([]string, 0, len(found))
	for tag := range found {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func (a *TextAnalyzer) detectIntent(normalized string) string {
	for _, ip := range a.lexicon.IntentPatterns {
		for _, p := range ip.Patterns {
			if p != "" && strings.Contains(normalized, p) {
				return ip.Intent
			}
		}
	}
	return ""
}

func (a *TextAnalyzer) scoreSentiment(normalized string, words []string) int {
	total := 0
	count := 0
	// every occurrence of a scored word counts
	for _, w := range words {
		if score, ok := a.lexicon.SentimentScores[w]; ok {
			total += score
			count++
		}
	}
	// multi-word phrases match as substrings
	for word, score := range a.lexicon.SentimentScores {
		if strings.Contains(word, " ") && strings.Contains(normalized, word) {
			total += score
			count++
		}
	}
	if count == 0 {
		return 0
	}
	// scores are on a ±5 scale; normalize the average into -100..100
	return int(math.Round(float64(total*100) / float64(count*5)))
}

func (a *TextAnalyzer) scanTriggers(normalized string, tokens map[string]bool) bool {
	for _, w := range a.lexicon.TriggerWords {
		if strings.Contains(w, " ") {
			if strings.Contains(normalized, w) {
				return true
			}
		} else if tokens[w] {
			return true
		}
	}
	for _, re := range a.lexicon.TriggerPatterns {
		if re.MatchString(normalized) {
			return true
		}
	}
	return false
}

func tokenize(normalized string) []string {
	parts := tokenSplit.Split(normalized, -1)
	words := make([]string, 0, len(parts))
	for _, t := range parts {
		if t != "" {
			words = append(words, t)
		}
	}
	return words
}

func tokenSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
