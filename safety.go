package truthdare

import (
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// ──────────────────────────────────────────────
// Safety Filter — admissibility gate for questions and answers
// ──────────────────────────────────────────────

// SafetyDecision is the outcome of a safety check. When OK is false,
// MildAlternative carries a synthesized safe replacement question.
type SafetyDecision struct {
	OK              bool
	MildAlternative *Question
}

// sensitiveTagsByHeat maps each heat bucket breakpoint to the tags that are
// disallowed at that bucket. Lower heat means more tags disallowed; from 90
// up there is no tag-based restriction. Fixed configuration, not learned.
var sensitiveTagsByHeat = map[int][]string{
	0:  {"explicit", "alcohol", "drugs", "sexual", "controversial"},
	30: {"explicit", "drugs", "sexual"},
	50: {"explicit", "sexual"},
	70: {"explicit"},
	90: {},
}

var mildTruthTexts = []string{
	"Wat is je favoriete vakantiebestemming en waarom?",
	"Welk boek of film heeft de grootste indruk op je gemaakt?",
	"Als je één talent zou kunnen hebben, wat zou dat zijn?",
	"Wat is je favoriete maaltijd om te koken?",
	"Wat zou je doen als je een dag vrij hebt zonder verplichtingen?",
}

var mildDareTexts = []string{
	"Doe een imitatie van je favoriete filmkarakter.",
	"Zing het refrein van je favoriete lied.",
	"Vertel een mop aan de groep.",
	"Doe een dansje van 10 seconden.",
	"Maak een compliment aan iedereen in de groep.",
}

// SafetyConfig controls the safety filter.
type SafetyConfig struct {
	// Rand drives mild-alternative text selection. Defaults to a
	// time-seeded source; inject a fixed seed in tests.
	Rand   *rand.Rand
	Logger *zap.Logger
}

// DefaultSafetyConfig returns the default safety config.
func DefaultSafetyConfig() SafetyConfig {
	return SafetyConfig{
		Rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
		Logger: zap.NewNop(),
	}
}

// SafetyFilter decides whether a question is admissible in a given context
// and synthesizes a milder fallback when it is not. The bucket thresholds
// and disallowed-tag lists are fixed tables; nothing here is learned.
//
// Usage:
//
//	safety := truthdare.NewSafetyFilter(analyzer)
//	decision := safety.Check(question, ctx)
//	if !decision.OK {
//	    question = *decision.MildAlternative
//	}
type SafetyFilter struct {
	analyzer *TextAnalyzer
	rng      *rand.Rand
	logger   *zap.Logger
}

// NewSafetyFilter creates a safety filter over the given analyzer.
func NewSafetyFilter(analyzer *TextAnalyzer, config ...SafetyConfig) *SafetyFilter {
	cfg := DefaultSafetyConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &SafetyFilter{analyzer: analyzer, rng: cfg.Rand, logger: cfg.Logger}
}

// Check decides admissibility of q under ctx. Rejection reasons, in order:
// a tag disallowed for the heat bucket, trigger words in the question text,
// or a depth level above the context cap. Safety always wins over interest:
// bias weights play no role here.
func (s *SafetyFilter) Check(q Question, ctx SelectionContext) SafetyDecision {
	ctx = ctx.Clamp()

	disallowed := sensitiveTagsByHeat[heatBucket(ctx.Heat)]
	hasSensitiveTag := q.HasAnyTag(disallowed)
	hasTriggers := s.analyzer.ScanTriggers(q.Text)
	exceedsDepth := q.DepthLevel > 0 && q.DepthLevel > ctx.MaxDepth

	if !hasSensitiveTag && !hasTriggers && !exceedsDepth {
		return SafetyDecision{OK: true}
	}

	s.logger.Debug("question rejected by safety filter",
		zap.String("question_id", q.ID),
		zap.Bool("sensitive_tag", hasSensitiveTag),
		zap.Bool("triggered", hasTriggers),
		zap.Bool("exceeds_depth", exceedsDepth))

	alt := s.MildAlternative(q, ctx)
	return SafetyDecision{OK: false, MildAlternative: &alt}
}

// CheckAnswer reports whether an answer is safe to build on: it fails when
// the text trips the trigger detector or carries extremely negative
// sentiment (below -70).
func (s *SafetyFilter) CheckAnswer(answer string) bool {
	return answerSafe(s.analyzer.Analyze(answer))
}

// answerSafe is the shared answer admissibility criterion: no trigger hit and
// sentiment above the distress floor.
func answerSafe(signals TextSignals) bool {
	return !signals.Triggered && signals.Sentiment >= -70
}

// MildAlternative synthesizes a same-kind low-depth question from the fixed
// safe pool, preserving the original target mode. Each alternative is a new
// instance with a fresh id.
func (s *SafetyFilter) MildAlternative(original Question, ctx SelectionContext) Question {
	ctx = ctx.Clamp()
	if original.Kind == KindDare {
		return Question{
			ID:         NewQuestionID(),
			Kind:       KindDare,
			Category:   "casual",
			TargetMode: original.TargetMode,
			Tags:       []string{"casual", "safe"},
			Text:       mildDareTexts[s.rng.Intn(len(mildDareTexts))],
		}
	}
	depth := original.DepthLevel
	if depth == 0 {
		depth = 1
	}
	if depth > ctx.MaxDepth {
		depth = ctx.MaxDepth
	}
	return Question{
		ID:         NewQuestionID(),
		Kind:       KindTruth,
		Category:   "casual",
		TargetMode: original.TargetMode,
		DepthLevel: depth,
		Tags:       []string{"casual", "safe"},
		Text:       mildTruthTexts[s.rng.Intn(len(mildTruthTexts))],
	}
}

// heatBucket maps heat 0..100 to its sensitivity bucket breakpoint.
func heatBucket(heat int) int {
	switch {
	case heat < 30:
		return 0
	case heat < 50:
		return 30
	case heat < 70:
		return 50
	case heat < 90:
		return 70
	default:
		return 90
	}
}
