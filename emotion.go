package truthdare

// EmotionTag is a discrete mood estimate with a numeric stress level.
type EmotionTag struct {
	Mood   Mood
	Stress int // 0..100
}

// EmotionEstimator maps a transcript event to a mood and stress level. The
// classification is pure and stateless: prosody drives stress, the text's
// sentiment picks the mood against the stress thresholds.
type EmotionEstimator struct {
	analyzer *TextAnalyzer
}

// NewEmotionEstimator creates an estimator over the given analyzer.
func NewEmotionEstimator(analyzer *TextAnalyzer) *EmotionEstimator {
	return &EmotionEstimator{analyzer: analyzer}
}

// Analyze estimates mood and stress for one transcript event.
func (e *EmotionEstimator) Analyze(ev TranscriptEvent) EmotionTag {
	stress := stressLevel(ev.Prosody)
	sentiment := e.analyzer.Analyze(ev.Text).Sentiment

	var mood Mood
	switch {
	case sentiment > 50 && stress < 30:
		mood = MoodHappy
	case sentiment > 0 && stress < 50:
		mood = MoodCalm
	case stress > 70:
		mood = MoodNervous
	default:
		mood = MoodSerious
	}
	return EmotionTag{Mood: mood, Stress: stress}
}

// stressLevel combines three individually capped components: speech rate,
// silence count, and pitch excess above the 0.7 normalized threshold.
func stressLevel(p Prosody) int {
	rate := int(clampFloat(p.Rate*20, 0, 40))
	silence := clampInt(len(p.Silences)*5, 0, 30)
	pitch := 0
	if p.Pitch > 0.7 {
		pitch = int(clampFloat((p.Pitch-0.7)*100, 0, 30))
	}
	return clampInt(rate+silence+pitch, 0, 100)
}
