package truthdare

// SelectionContext carries everything one selection call needs. It is built
// fresh per call and never retained by the selector; the BiasProfile inside
// is a read-only snapshot.
type SelectionContext struct {
	PlayerID string
	Mode     GameMode
	// Heat 0..100 controls tolerance for explicit content.
	Heat int
	// MaxDepth 1..5 caps reflective question depth.
	MaxDepth int
	// StarTagsQueue holds starred tags awaiting priority follow-up, in order.
	StarTagsQueue []string
	// LastTags are the tags of the most recently asked question.
	LastTags []string
	Bias     BiasProfile
	Mood     Mood
}

// Clamp normalizes heat and depth into their valid ranges. Selection code
// always operates on a clamped context.
func (c SelectionContext) Clamp() SelectionContext {
	c.Heat = clampInt(c.Heat, 0, 100)
	c.MaxDepth = clampInt(c.MaxDepth, 1, 5)
	return c
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
