package truthdare

import (
	"strings"

	"github.com/google/uuid"
)

// ──────────────────────────────────────────────
// Question model — immutable content records
// ──────────────────────────────────────────────

// QuestionKind distinguishes truth questions from dares.
type QuestionKind string

const (
	KindTruth QuestionKind = "truth"
	KindDare  QuestionKind = "dare"
)

// TargetMode describes who a question is aimed at.
type TargetMode string

const (
	TargetSingle TargetMode = "single"
	TargetPair   TargetMode = "pair"
	TargetGroup  TargetMode = "group"
	TargetSelf   TargetMode = "self"
)

// GameMode selects the category mix for a session.
type GameMode string

const (
	ModeCasual         GameMode = "casual"
	ModeParty          GameMode = "party"
	ModeDeepTalk       GameMode = "deep_talk"
	ModeRomantic       GameMode = "romantic"
	ModeFamilyFriendly GameMode = "family_friendly"
)

// Mood is a discrete player mood estimate.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodCalm    Mood = "calm"
	MoodSerious Mood = "serious"
	MoodNervous Mood = "nervous"
)

// Question is an immutable content record. Instances are created once at
// content-load time, or synthesized at runtime (fallbacks, chains, follow-ups)
// with a fresh ID per instance. A Question is never mutated after creation.
type Question struct {
	ID         string       `json:"id"`
	Kind       QuestionKind `json:"kind"`
	Category   string       `json:"category"`
	TargetMode TargetMode   `json:"target_mode"`
	// DepthLevel is 1..5 for reflective categories, 0 when not applicable.
	DepthLevel int      `json:"depth_level,omitempty"`
	Tags       []string `json:"tags"`
	Text       string   `json:"text"`
}

// HasTag reports whether the question carries the given (normalized) tag.
func (q Question) HasTag(tag string) bool {
	tag = NormalizeTag(tag)
	for _, t := range q.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasAnyTag reports whether any of the given tags is on the question.
func (q Question) HasAnyTag(tags []string) bool {
	for _, t := range tags {
		if q.HasTag(t) {
			return true
		}
	}
	return false
}

// NewQuestionID returns a fresh unique question instance id.
func NewQuestionID() string {
	return uuid.NewString()
}

// NormalizeTag lower-cases and trims a tag for comparison and storage.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// NormalizeTags normalizes every tag and drops empties and duplicates,
// preserving first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		n := NormalizeTag(t)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// CategoriesForMode maps a game mode to its fixed category list.
func CategoriesForMode(mode GameMode) []string {
	switch mode {
	case ModeCasual:
		return []string{"casual", "friends", "funny", "hypothetical"}
	case ModeParty:
		return []string{"party", "funny", "challenge", "hypothetical"}
	case ModeDeepTalk:
		return []string{"deep", "personal", "future", "hypothetical"}
	case ModeRomantic:
		return []string{"romantic", "personal", "deep", "future"}
	case ModeFamilyFriendly:
		return []string{"family", "casual", "childhood", "funny"}
	default:
		return []string{"casual", "friends", "funny", "hypothetical"}
	}
}
