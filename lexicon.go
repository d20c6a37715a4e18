package truthdare

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"

	"go.uber.org/zap"
)

// ──────────────────────────────────────────────
// Lexicon — static word/phrase resources for text analysis
// ──────────────────────────────────────────────

// IntentPattern is one named intent with its keyword/phrase patterns.
// Patterns are plain substrings matched against normalized text.
type IntentPattern struct {
	Intent   string   `json:"intent"`
	Patterns []string `json:"patterns"`
}

// Lexicon holds the immutable language resources the analyzer runs on:
// tag word lists, per-word sentiment scores (±5 scale), intent patterns in
// declaration order, and trigger words/regex patterns. A Lexicon is loaded
// once and never mutated, so it is safe for concurrent readers.
type Lexicon struct {
	TagWords        map[string][]string
	SentimentScores map[string]int
	IntentPatterns  []IntentPattern
	TriggerWords    []string
	TriggerPatterns []*regexp.Regexp
}

// LexiconConfig controls lexicon loading.
type LexiconConfig struct {
	Logger *zap.Logger
}

// DefaultLexiconConfig returns the default loading config.
func DefaultLexiconConfig() LexiconConfig {
	return LexiconConfig{Logger: zap.NewNop()}
}

type triggerFile struct {
	Words    []string `json:"words"`
	Patterns []string `json:"patterns"`
}

// LoadLexicon reads tags.json, sentiment.json, intents.json and triggers.json
// from dir. A missing or corrupt file degrades to an empty resource for that
// concern; loading never fails the process.
//
// Usage:
//
//	lex := truthdare.LoadLexicon("assets/nlp")
//	analyzer := truthdare.NewTextAnalyzer(lex)
func LoadLexicon(dir string, config ...LexiconConfig) *Lexicon {
	cfg := DefaultLexiconConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	lex := &Lexicon{
		TagWords:        map[string][]string{},
		SentimentScores: map[string]int{},
	}

	if err := readJSONFile(filepath.Join(dir, "tags.json"), &lex.TagWords); err != nil {
		logger.Warn("lexicon: tag map unavailable, tagging disabled", zap.Error(err))
		lex.TagWords = map[string][]string{}
	}
	if err := readJSONFile(filepath.Join(dir, "sentiment.json"), &lex.SentimentScores); err != nil {
		logger.Warn("lexicon: sentiment scores unavailable, sentiment neutral", zap.Error(err))
		lex.SentimentScores = map[string]int{}
	}
	if err := readJSONFile(filepath.Join(dir, "intents.json"), &lex.IntentPatterns); err != nil {
		logger.Warn("lexicon: intent patterns unavailable, intent detection disabled", zap.Error(err))
		lex.IntentPatterns = nil
	}

	var triggers triggerFile
	if err := readJSONFile(filepath.Join(dir, "triggers.json"), &triggers); err != nil {
		logger.Warn("lexicon: trigger list unavailable, trigger scan disabled", zap.Error(err))
	}
	lex.TriggerWords = normalizeWords(triggers.Words)
	for _, p := range triggers.Patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			logger.Warn("lexicon: skipping invalid trigger pattern", zap.String("pattern", p), zap.Error(err))
			continue
		}
		lex.TriggerPatterns = append(lex.TriggerPatterns, re)
	}

	lex.normalize()
	return lex
}

// DefaultLexicon returns the built-in starter lexicon (Dutch + English),
// mirroring the packaged app content. Useful as a fallback when no lexicon
// directory is shipped.
func DefaultLexicon() *Lexicon {
	lex := &Lexicon{
		TagWords: map[string][]string{
			"reizen":  {"reizen", "vakantie", "reis", "trip", "travel", "landen"},
			"muziek":  {"muziek", "liedje", "zingen", "music", "song"},
			"eten":    {"eten", "koken", "restaurant", "food", "maaltijd"},
			"familie": {"familie", "ouders", "broer", "zus", "family"},
			"liefde":  {"liefde", "verliefd", "relatie", "date", "love"},
			"werk":    {"werk", "baan", "studie", "school", "work"},
			"sport":   {"sport", "voetbal", "fitness", "hardlopen"},
			"dromen":  {"droom", "dromen", "toekomst", "wens", "dream"},
			"funny":   {"grappig", "lachen", "mop", "funny", "hilarisch"},
			"deep":    {"diep", "betekenis", "gevoel", "emotie", "nadenken"},
		},
		SentimentScores: map[string]int{
			"blij": 4, "enthousiast": 4, "geweldig": 5, "leuk": 3, "fijn": 3,
			"mooi": 3, "top": 4, "fantastisch": 5, "happy": 4, "great": 4,
			"love": 4, "awesome": 5, "goed": 2, "nice": 3,
			"verdrietig": -4, "boos": -4, "vervelend": -3, "slecht": -3,
			"haat": -5, "vreselijk": -5, "bang": -3, "sad": -4, "angry": -4,
			"terrible": -5, "awful": -5, "niet leuk": -3,
		},
		IntentPatterns: []IntentPattern{
			{Intent: "preference", Patterns: []string{"ik vind", "ik hou van", "favoriete", "het liefst", "i like", "i love"}},
			{Intent: "memory", Patterns: []string{"ik herinner", "vroeger", "toen ik", "i remember", "when i was"}},
			{Intent: "wish", Patterns: []string{"ik wil", "ik zou willen", "ooit", "i wish", "i want to"}},
			{Intent: "uncertainty", Patterns: []string{"weet niet", "geen idee", "misschien", "not sure", "maybe"}},
		},
		TriggerWords: []string{
			"trauma", "overleden", "misbruik", "zelfmoord", "suicide",
			"abuse", "depressie", "depression", "funeral", "begrafenis",
		},
		TriggerPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bik (kan|wil) (dit|hier) niet( over)? (praten|hebben)\b`),
			regexp.MustCompile(`(?i)\bstop (hiermee|ermee)\b`),
		},
	}
	lex.normalize()
	return lex
}

// EmptyLexicon returns a lexicon with no resources. Every analysis over it
// yields the neutral result.
func EmptyLexicon() *Lexicon {
	return &Lexicon{
		TagWords:        map[string][]string{},
		SentimentScores: map[string]int{},
	}
}

func (l *Lexicon) normalize() {
	for tag, words := range l.TagWords {
		l.TagWords[tag] = normalizeWords(words)
	}
	scores := make(map[string]int, len(l.SentimentScores))
	for word, score := range l.SentimentScores {
		scores[normalizeWord(word)] = score
	}
	l.SentimentScores = scores
	for i, ip := range l.IntentPatterns {
		l.IntentPatterns[i].Patterns = normalizeWords(ip.Patterns)
	}
	l.TriggerWords = normalizeWords(l.TriggerWords)
}

func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func normalizeWord(w string) string {
	return NormalizeTag(w)
}

func normalizeWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if n := normalizeWord(w); n != "" {
			out = append(out, n)
		}
	}
	return out
}
