package truthdare

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ──────────────────────────────────────────────
// Learning Engine — bias profile updates from interaction signals
// ──────────────────────────────────────────────

// SignalType identifies the kind of interaction a LearningSignal reports.
type SignalType string

const (
	SignalInterest   SignalType = "interest"   // player starred a topic
	SignalDiscomfort SignalType = "discomfort" // player showed discomfort
	SignalSkip       SignalType = "skip"       // player skipped the question
	SignalEngagement SignalType = "engagement" // player engaged deeply
	SignalLaughter   SignalType = "laughter"   // laughter during the answer
	SignalSilence    SignalType = "silence"    // hesitation or silence
)

// LearningSignal is one transient interaction event. It is consumed once by
// the LearningEngine; only its effect on the bias profile is persisted.
type LearningSignal struct {
	PlayerID   string
	Type       SignalType
	QuestionID string
	Tags       []string
	// Heat and Depth are the observed values of the question the signal
	// concerns, nil when not applicable.
	Heat  *int
	Depth *int
}

// ProfileSaveError reports a failed bias profile write. The previously
// persisted profile remains authoritative.
type ProfileSaveError struct {
	PlayerID string
	Err      error
}

func (e *ProfileSaveError) Error() string {
	return fmt.Sprintf("could not save bias profile for player %s: %v", e.PlayerID, e.Err)
}

func (e *ProfileSaveError) Unwrap() error { return e.Err }

// LearningConfig controls the learning engine.
type LearningConfig struct {
	Logger *zap.Logger
}

// DefaultLearningConfig returns the default learning config.
func DefaultLearningConfig() LearningConfig {
	return LearningConfig{Logger: zap.NewNop()}
}

// LearningEngine applies interaction signals to per-player bias profiles
// with bounded, monotone adjustments, and persists the result. It is the
// single writer of bias profiles; reads elsewhere go through snapshots.
//
// The engine assumes one logical writer per player at a time. Concurrent
// signals for the same player from two sources are a documented race.
//
// Usage:
//
//	engine := truthdare.NewLearningEngine(profileStore)
//	err := engine.UpdateSignals(truthdare.LearningSignal{
//	    PlayerID: "p1",
//	    Type:     truthdare.SignalInterest,
//	    Tags:     []string{"reizen"},
//	})
type LearningEngine struct {
	store  ProfileStore
	logger *zap.Logger

	mu    sync.Mutex
	cache map[string]BiasProfile
}

// NewLearningEngine creates a learning engine over the given profile store.
func NewLearningEngine(store ProfileStore, config ...LearningConfig) *LearningEngine {
	cfg := DefaultLearningConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &LearningEngine{
		store:  store,
		logger: cfg.Logger,
		cache:  map[string]BiasProfile{},
	}
}

// UpdateSignals applies one signal to the player's latest persisted profile
// and persists the updated profile. On persistence failure the in-memory
// cache is not advanced, so the stored profile stays authoritative, and a
// *ProfileSaveError is returned.
func (e *LearningEngine) UpdateSignals(sig LearningSignal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, err := e.loadLocked(sig.PlayerID)
	if err != nil {
		return fmt.Errorf("load bias profile for player %s: %w", sig.PlayerID, err)
	}

	updated := applySignal(current, sig)
	if err := e.store.PutBiasProfile(sig.PlayerID, updated); err != nil {
		e.logger.Error("bias profile write failed",
			zap.String("player_id", sig.PlayerID), zap.Error(err))
		return &ProfileSaveError{PlayerID: sig.PlayerID, Err: err}
	}
	e.cache[sig.PlayerID] = updated

	e.logger.Debug("bias profile updated",
		zap.String("player_id", sig.PlayerID),
		zap.String("signal", string(sig.Type)),
		zap.Int("depth_comfort", updated.DepthComfort),
		zap.Int("heat_comfort", updated.HeatComfort))
	return nil
}

// CurrentBias returns a snapshot of the player's bias profile, falling back
// to the canonical default for unknown players or on read errors.
func (e *LearningEngine) CurrentBias(playerID string) BiasProfile {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, err := e.loadLocked(playerID)
	if err != nil {
		e.logger.Warn("bias profile read failed, using default",
			zap.String("player_id", playerID), zap.Error(err))
		return NewBiasProfile()
	}
	return p.Clone()
}

// Forget drops a player's profile from cache and store (player-data wipe).
func (e *LearningEngine) Forget(playerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.cache, playerID)
	return e.store.DeleteBiasProfile(playerID)
}

func (e *LearningEngine) loadLocked(playerID string) (BiasProfile, error) {
	if p, ok := e.cache[playerID]; ok {
		return p.Clone(), nil
	}
	p, found, err := e.store.GetBiasProfile(playerID)
	if err != nil {
		return BiasProfile{}, err
	}
	if !found {
		return NewBiasProfile(), nil
	}
	if p.TagWeights == nil {
		p.TagWeights = map[string]float64{}
	}
	e.cache[playerID] = p.Clone()
	return p, nil
}

// applySignal computes the updated profile for one signal. Every adjustment
// is clamped: tag weights to [0,1], depth comfort to [1,5], heat comfort to
// [0,100].
func applySignal(p BiasProfile, sig LearningSignal) BiasProfile {
	updated := p.Clone()

	switch sig.Type {
	case SignalInterest:
		for _, tag := range sig.Tags {
			updated.adjustWeight(tag, 0.20)
		}
		if sig.Depth != nil && *sig.Depth > updated.DepthComfort {
			updated.DepthComfort++
		}
		if sig.Heat != nil && *sig.Heat > updated.HeatComfort {
			updated.HeatComfort += 5
		}

	case SignalDiscomfort:
		for _, tag := range sig.Tags {
			updated.adjustWeight(tag, -0.20)
		}
		if sig.Depth != nil && *sig.Depth >= updated.DepthComfort {
			updated.DepthComfort--
		}
		if sig.Heat != nil && *sig.Heat >= updated.HeatComfort {
			updated.HeatComfort -= 10
		}

	case SignalSkip:
		for _, tag := range sig.Tags {
			updated.adjustWeight(tag, -0.10)
		}

	case SignalEngagement:
		for _, tag := range sig.Tags {
			updated.adjustWeight(tag, 0.15)
		}
		if sig.Depth != nil {
			if *sig.Depth > updated.DepthComfort {
				updated.DepthComfort = *sig.Depth
			}
		} else {
			updated.DepthComfort++
		}

	case SignalLaughter:
		updated.adjustWeight("funny", 0.15)
		for _, tag := range sig.Tags {
			updated.adjustWeight(tag, 0.10)
		}

	case SignalSilence:
		for _, tag := range sig.Tags {
			updated.adjustWeight(tag, -0.05)
		}
		if sig.Depth != nil && *sig.Depth >= updated.DepthComfort {
			updated.DepthComfort--
		}
	}

	updated.clampComforts()
	return updated
}
