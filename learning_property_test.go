package truthdare

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

// ══════════════════════════════════════════════
// LearningEngine property tests
// ══════════════════════════════════════════════

var allSignalTypes = []SignalType{
	SignalInterest, SignalDiscomfort, SignalSkip,
	SignalEngagement, SignalLaughter, SignalSilence,
}

// Any sequence of signals keeps every profile value inside its bounds.
func TestLearningEngine_BoundsHoldUnderAnySignals(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		e := NewLearningEngine(NewInMemoryProfileStore())
		tags := []string{"reizen", "deep", "funny", "sport", "muziek"}

		n := rapid.IntRange(1, 50).Draw(rt, "num_signals")
		for i := 0; i < n; i++ {
			sig := LearningSignal{
				PlayerID: "p1",
				Type:     rapid.SampledFrom(allSignalTypes).Draw(rt, fmt.Sprintf("type_%d", i)),
				Tags:     []string{rapid.SampledFrom(tags).Draw(rt, fmt.Sprintf("tag_%d", i))},
			}
			if rapid.Bool().Draw(rt, fmt.Sprintf("has_depth_%d", i)) {
				sig.Depth = intPtr(rapid.IntRange(1, 5).Draw(rt, fmt.Sprintf("depth_%d", i)))
			}
			if rapid.Bool().Draw(rt, fmt.Sprintf("has_heat_%d", i)) {
				sig.Heat = intPtr(rapid.IntRange(0, 100).Draw(rt, fmt.Sprintf("heat_%d", i)))
			}
			if err := e.UpdateSignals(sig); err != nil {
				rt.Fatalf("update failed: %v", err)
			}
		}

		bias := e.CurrentBias("p1")
		for tag, w := range bias.TagWeights {
			if w < 0 || w > 1 {
				rt.Fatalf("weight for %s out of [0,1]: %v", tag, w)
			}
		}
		if bias.DepthComfort < 1 || bias.DepthComfort > 5 {
			rt.Fatalf("depth comfort out of [1,5]: %d", bias.DepthComfort)
		}
		if bias.HeatComfort < 0 || bias.HeatComfort > 100 {
			rt.Fatalf("heat comfort out of [0,100]: %d", bias.HeatComfort)
		}
	})
}

// Signals for one player never touch another player's profile.
func TestLearningEngine_PlayersAreIsolated(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		e := NewLearningEngine(NewInMemoryProfileStore())

		n := rapid.IntRange(1, 20).Draw(rt, "num_signals")
		for i := 0; i < n; i++ {
			sig := LearningSignal{
				PlayerID: "active",
				Type:     rapid.SampledFrom(allSignalTypes).Draw(rt, fmt.Sprintf("type_%d", i)),
				Tags:     []string{"reizen"},
				Depth:    intPtr(rapid.IntRange(1, 5).Draw(rt, fmt.Sprintf("depth_%d", i))),
			}
			if err := e.UpdateSignals(sig); err != nil {
				rt.Fatalf("update failed: %v", err)
			}
		}

		other := e.CurrentBias("bystander")
		if len(other.TagWeights) != 0 || other.DepthComfort != 1 || other.HeatComfort != 50 {
			rt.Fatalf("bystander profile drifted: %+v", other)
		}
	})
}
