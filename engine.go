package truthdare

import (
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// EngineConfig controls engine construction.
type EngineConfig struct {
	// Rand drives all engine randomness (kind choice, tie-breaks, mild
	// alternative and funniest-moment picks). Defaults to a time-seeded
	// source; inject a fixed seed for deterministic runs.
	Rand   *rand.Rand
	Logger *zap.Logger
}

// DefaultEngineConfig returns the default engine config.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{Logger: zap.NewNop()}
}

// Engine bundles the constructed core components: one analyzer, safety
// filter, selector, learning engine and emotion estimator over a shared
// catalog and lexicon. Each capability has exactly one implementation;
// construct once and inject where needed.
//
// Usage:
//
//	engine := truthdare.NewEngine(catalog, lexicon, profileStore)
//	session := truthdare.NewGameSession("session-1", engine)
type Engine struct {
	Catalog  *Catalog
	Analyzer *TextAnalyzer
	Safety   *SafetyFilter
	Selector *Selector
	Learning *LearningEngine
	Emotion  *EmotionEstimator

	rng    *rand.Rand
	logger *zap.Logger
}

// NewEngine wires the core components together.
func NewEngine(catalog *Catalog, lexicon *Lexicon, profiles ProfileStore, config ...EngineConfig) *Engine {
	cfg := DefaultEngineConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	analyzer := NewTextAnalyzer(lexicon)
	safety := NewSafetyFilter(analyzer, SafetyConfig{Rand: rng, Logger: cfg.Logger})
	selector := NewSelector(catalog, safety, analyzer, SelectorConfig{
		AntiRepeatSize: 20,
		Rand:           rng,
		Logger:         cfg.Logger,
	})
	learning := NewLearningEngine(profiles, LearningConfig{Logger: cfg.Logger})

	return &Engine{
		Catalog:  catalog,
		Analyzer: analyzer,
		Safety:   safety,
		Selector: selector,
		Learning: learning,
		Emotion:  NewEmotionEstimator(analyzer),
		rng:      rng,
		logger:   cfg.Logger,
	}
}
