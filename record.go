package truthdare

import "time"

// QuestionRecord is one append-only session log entry: a question that was
// asked, and what happened to it. Once written, only the starred flag and
// the follow-up link may still be set, each exactly once.
type QuestionRecord struct {
	SessionID  string       `json:"session_id"`
	PlayerID   string       `json:"player_id"`
	QuestionID string       `json:"question_id"`
	Kind       QuestionKind `json:"kind"`
	Category   string       `json:"category"`
	Text       string       `json:"text"`
	Tags       []string     `json:"tags"`
	DepthLevel int          `json:"depth_level,omitempty"`
	AskedAt    time.Time    `json:"asked_at"`
	WasSkipped bool         `json:"was_skipped"`
	WasStarred bool         `json:"was_starred"`
	FollowUpID string       `json:"follow_up_id,omitempty"`
	// Sentiment of the given answer, 0 for skipped questions.
	Sentiment int `json:"sentiment"`
}
