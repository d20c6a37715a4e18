package truthdare

import (
	"math/rand"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ──────────────────────────────────────────────
// Question Selector — picks the next question under safety,
// heat/depth, bias and anti-repeat constraints
// ──────────────────────────────────────────────

// SelectorConfig controls the selector.
type SelectorConfig struct {
	// AntiRepeatSize is the capacity of the recently-served id cache.
	AntiRepeatSize int
	// Rand drives kind choice, tie-breaks and shuffles. Defaults to a
	// time-seeded source; inject a fixed seed in tests.
	Rand   *rand.Rand
	Logger *zap.Logger
}

// DefaultSelectorConfig returns the default selector config.
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		AntiRepeatSize: 20,
		Rand:           rand.New(rand.NewSource(time.Now().UnixNano())),
		Logger:         zap.NewNop(),
	}
}

// Selector combines the catalog, the safety filter, the caller-provided bias
// snapshot and a short-term anti-repeat cache to pick the next question, and
// decides whether an answer warrants a follow-up.
//
// SelectNext never fails: when everything else is exhausted it returns a
// forced-safe fallback. The anti-repeat cache is session-scoped; call
// ResetSession when a session ends.
//
// Usage:
//
//	selector := truthdare.NewSelector(catalog, safety, analyzer)
//	q := selector.SelectNext(ctx)
//	selector.RecordServed(q)
type Selector struct {
	catalog  *Catalog
	safety   *SafetyFilter
	analyzer *TextAnalyzer
	recent   *lruCache
	rng      *rand.Rand
	logger   *zap.Logger
}

// NewSelector creates a selector.
func NewSelector(catalog *Catalog, safety *SafetyFilter, analyzer *TextAnalyzer, config ...SelectorConfig) *Selector {
	cfg := DefaultSelectorConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.AntiRepeatSize <= 0 {
		cfg.AntiRepeatSize = 20
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Selector{
		catalog:  catalog,
		safety:   safety,
		analyzer: analyzer,
		recent:   newLRUCache(cfg.AntiRepeatSize),
		rng:      cfg.Rand,
		logger:   cfg.Logger,
	}
}

// SelectNext picks the next question for the context. Priority order:
// star-queue tag match, then the general biased pool behind the safety gate,
// then the mild alternative for the first candidate, then a forced-safe
// fallback. It never returns a zero Question.
//
// Star-path candidates bypass the anti-repeat exclusion (a starred topic may
// legitimately revisit recent ground), but every served question must still
// be recorded by the caller via RecordServed.
func (s *Selector) SelectNext(ctx SelectionContext) Question {
	ctx = ctx.Clamp()

	if len(ctx.StarTagsQueue) > 0 {
		if q, ok := s.matchByTag(ctx.StarTagsQueue[0], ctx); ok {
			s.logger.Debug("star-queue selection",
				zap.String("tag", ctx.StarTagsQueue[0]), zap.String("question_id", q.ID))
			return q
		}
	}

	pool := s.buildPool(ctx)
	for _, q := range pool {
		if d := s.safety.Check(q, ctx); d.OK {
			return q
		}
	}
	if len(pool) > 0 {
		if d := s.safety.Check(pool[0], ctx); d.MildAlternative != nil {
			return *d.MildAlternative
		}
	}

	s.logger.Debug("no eligible pool candidate, forcing safe fallback",
		zap.String("player_id", ctx.PlayerID))
	return s.forcedSafe(ctx)
}

// RecordServed marks a question as recently served for anti-repeat purposes.
// Callers must invoke it for every question they actually present, including
// star-path and fallback questions.
func (s *Selector) RecordServed(q Question) {
	s.recent.Put(q.ID)
}

// ResetSession clears the anti-repeat cache. Call when a session ends.
func (s *Selector) ResetSession() {
	s.recent.Clear()
}

// MaybeAskFollowUp decides whether the answer warrants one follow-up
// question. It returns nil when the answer trips the trigger detector, when
// relevance is too low (no intent and no tag overlap with the previous
// question), or when no safe follow-up exists.
func (s *Selector) MaybeAskFollowUp(answer string, ctx SelectionContext) *Question {
	ctx = ctx.Clamp()
	signals := s.analyzer.Analyze(answer)

	if signals.Triggered {
		// Triggered content suggests a break, never a follow-up.
		s.logger.Debug("follow-up suppressed by trigger scan",
			zap.String("player_id", ctx.PlayerID))
		return nil
	}
	if signals.Intent == "" && !tagsOverlap(signals.Tags, ctx.LastTags) {
		return nil
	}

	candidate, ok := s.followUpFor(answer, signals, ctx)
	if !ok {
		return nil
	}
	if d := s.safety.Check(candidate, ctx); !d.OK {
		return d.MildAlternative
	}
	return &candidate
}

// matchByTag serves the star-queue priority path: find a catalog question
// carrying the starred tag, gate it through safety, and return it (or its
// mild alternative). Reports false when the catalog has no match at all, in
// which case selection falls through to the general pool.
func (s *Selector) matchByTag(tag string, ctx SelectionContext) (Question, bool) {
	candidates := s.catalog.ByTags([]string{tag}, CategoriesForMode(ctx.Mode))
	candidates = s.rankByBias(candidates, ctx.Bias)
	if len(candidates) == 0 {
		return Question{}, false
	}
	q := candidates[0]
	if d := s.safety.Check(q, ctx); !d.OK {
		return *d.MildAlternative, true
	}
	return q, true
}

// buildPool gathers the general candidate pool: mode categories, a randomly
// chosen kind, depth filter, anti-repeat exclusion, ranked by bias weight
// with uniform-random tie-breaks.
func (s *Selector) buildPool(ctx SelectionContext) []Question {
	categories := CategoriesForMode(ctx.Mode)

	// The truth/dare ratio may be tuned per category; draw the deciding
	// category uniformly first, 50/50 by default.
	ratio := s.catalog.TruthRatio(categories[s.rng.Intn(len(categories))])
	kind := KindTruth
	if s.rng.Float64() >= ratio {
		kind = KindDare
	}

	all := s.catalog.ByKindAndCategories(kind, categories)
	pool := make([]Question, 0, len(all))
	for _, q := range all {
		if q.DepthLevel > 0 && q.DepthLevel > ctx.MaxDepth {
			continue
		}
		if s.recent.Contains(q.ID) {
			continue
		}
		pool = append(pool, q)
	}
	return s.rankByBias(pool, ctx.Bias)
}

// rankByBias orders questions by the player's strongest tag weight for each
// question, descending. Equal scores keep a uniform-random order: the slice
// is shuffled first and the sort is stable.
func (s *Selector) rankByBias(pool []Question, bias BiasProfile) []Question {
	out := make([]Question, len(pool))
	copy(out, pool)
	s.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	sort.SliceStable(out, func(i, j int) bool {
		return questionScore(out[i], bias) > questionScore(out[j], bias)
	})
	return out
}

func questionScore(q Question, bias BiasProfile) float64 {
	score := 0.5
	for _, tag := range q.Tags {
		if w := bias.Weight(tag); w > score {
			score = w
		}
	}
	return score
}

// followUpFor finds a follow-up question keyed on the extracted tags, or
// synthesizes a short generic probe when the catalog has no match.
func (s *Selector) followUpFor(answer string, signals TextSignals, ctx SelectionContext) (Question, bool) {
	if len(signals.Tags) == 0 && signals.Intent == "" {
		return Question{}, false
	}

	categories := CategoriesForMode(ctx.Mode)
	candidates := s.catalog.ByTags(signals.Tags, categories)
	eligible := make([]Question, 0, len(candidates))
	for _, q := range candidates {
		if q.DepthLevel > 0 && q.DepthLevel > ctx.MaxDepth {
			continue
		}
		if s.recent.Contains(q.ID) {
			continue
		}
		eligible = append(eligible, q)
	}
	if len(eligible) > 0 {
		return eligible[s.rng.Intn(len(eligible))], true
	}
	return s.genericFollowUp(answer, ctx), true
}

// genericFollowUp builds a low-depth probing question when no catalog
// follow-up matches. Short answers get an invitation to elaborate.
func (s *Selector) genericFollowUp(answer string, ctx SelectionContext) Question {
	text := "Hoe heeft dat je beïnvloed?"
	if len(strings.Fields(answer)) < 10 {
		text = "Kun je daar wat meer over vertellen?"
	}
	depth := 2
	if ctx.MaxDepth < depth {
		depth = ctx.MaxDepth
	}
	tags := ctx.LastTags
	if len(tags) > 2 {
		tags = tags[:2]
	}
	return Question{
		ID:         NewQuestionID(),
		Kind:       KindTruth,
		Category:   "casual",
		TargetMode: TargetSingle,
		DepthLevel: depth,
		Tags:       NormalizeTags(tags),
		Text:       text,
	}
}

// forcedSafe is the last resort: re-run selection at heat 0 and depth 1, and
// when even that yields nothing, synthesize from the fixed safe pool. By
// construction this never comes back empty.
func (s *Selector) forcedSafe(ctx SelectionContext) Question {
	forced := ctx
	forced.Heat = 0
	forced.MaxDepth = 1
	forced.StarTagsQueue = nil

	for _, q := range s.buildPool(forced) {
		if d := s.safety.Check(q, forced); d.OK {
			return q
		}
	}

	kind := KindTruth
	if s.rng.Float64() < 0.5 {
		kind = KindDare
	}
	return s.safety.MildAlternative(Question{Kind: kind, TargetMode: TargetSingle}, forced)
}

func tagsOverlap(a, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[NormalizeTag(t)] = true
	}
	for _, t := range b {
		if set[NormalizeTag(t)] {
			return true
		}
	}
	return false
}
