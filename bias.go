package truthdare

// BiasProfile is the learned per-player weighting over content tags plus
// comfort levels. It is owned for writes by the LearningEngine; everything
// else reads snapshots obtained via Clone.
type BiasProfile struct {
	// TagWeights maps tag to a weight in [0,1]. Absent tags read as 0.5.
	TagWeights map[string]float64 `json:"tag_weights"`
	// DepthComfort is in [1,5].
	DepthComfort int `json:"depth_comfort"`
	// HeatComfort is in [0,100].
	HeatComfort int `json:"heat_comfort"`
}

// NewBiasProfile returns the canonical default profile for a player with no
// history: no tag weights, depth comfort 1, heat comfort 50.
func NewBiasProfile() BiasProfile {
	return BiasProfile{
		TagWeights:   map[string]float64{},
		DepthComfort: 1,
		HeatComfort:  50,
	}
}

// Clone returns a deep copy. Snapshots handed to selection code are clones,
// so selector reads never alias the engine's state.
func (b BiasProfile) Clone() BiasProfile {
	weights := make(map[string]float64, len(b.TagWeights))
	for k, v := range b.TagWeights {
		weights[k] = v
	}
	b.TagWeights = weights
	return b
}

// Weight returns the weight for a tag, defaulting to 0.5 when absent.
func (b BiasProfile) Weight(tag string) float64 {
	if w, ok := b.TagWeights[NormalizeTag(tag)]; ok {
		return w
	}
	return 0.5
}

// adjustWeight applies a delta to one tag, clamping the result into [0,1].
func (b *BiasProfile) adjustWeight(tag string, delta float64) {
	tag = NormalizeTag(tag)
	if tag == "" {
		return
	}
	b.TagWeights[tag] = clampFloat(b.Weight(tag)+delta, 0, 1)
}

// clampComforts forces both comfort values back into their ranges.
func (b *BiasProfile) clampComforts() {
	b.DepthComfort = clampInt(b.DepthComfort, 1, 5)
	b.HeatComfort = clampInt(b.HeatComfort, 0, 100)
}
