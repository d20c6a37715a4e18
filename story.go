package truthdare

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// ──────────────────────────────────────────────
// Story Recorder — session log, theme chains, end-of-session summary
// ──────────────────────────────────────────────

// MoodPoint is one step of the session's mood journey.
type MoodPoint struct {
	PlayerID string
	Mood     Mood
}

// SessionSummary is derived from the session's question records. It is
// recomputed on demand and never persisted as its own entity.
type SessionSummary struct {
	// PlayerHighlights maps player id to a few highlight lines.
	PlayerHighlights map[string][]string
	// MoodJourney is the ordered sequence of recorded moods.
	MoodJourney []MoodPoint
	// TopTags are the up-to-5 most frequent answered tags.
	TopTags []string
	// DeepestMoment describes the highest-depth answered question, "" if none.
	DeepestMoment string
	// FunniestMoment describes a random answered dare, "" if none.
	FunniestMoment string
}

const (
	chainMinSessionSize = 5
	chainMinThemeCount  = 3
)

var chainTextByStep = []string{
	"Wat vind je het meest interessant aan %s?",
	"Heb je een bijzondere ervaring gehad met %s?",
	"Hoe heeft %s je leven beïnvloed?",
	"Wat zou je willen veranderen aan hoe mensen omgaan met %s?",
	"Wat denk je dat de toekomst brengt voor %s?",
}

// RecorderConfig controls the session recorder.
type RecorderConfig struct {
	// Store optionally persists every appended record. Persistence failures
	// are logged and do not fail the turn.
	Store RecordStore
	// Rand drives chain length and funniest-moment selection. Defaults to a
	// time-seeded source; inject a fixed seed in tests.
	Rand   *rand.Rand
	Logger *zap.Logger
}

// DefaultRecorderConfig returns the default recorder config.
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		Rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
		Logger: zap.NewNop(),
	}
}

// SessionRecorder keeps the append-only log of one session, tracks the
// dominant theme for question chains, and synthesizes the end-of-session
// summary. All state is session-scoped: Reset discards it.
//
// Usage:
//
//	recorder := truthdare.NewSessionRecorder("session-1", analyzer)
//	recorder.OnAsked("p1", question, &answer)
//	chain := recorder.ChainIfNeeded()
//	summary := recorder.SessionSummary()
type SessionRecorder struct {
	sessionID string
	analyzer  *TextAnalyzer
	store     RecordStore
	rng       *rand.Rand
	logger    *zap.Logger

	records     []QuestionRecord
	themeCounts map[string]int
	moodJourney []MoodPoint
	activeChain []Question
}

// NewSessionRecorder creates a recorder for one session.
func NewSessionRecorder(sessionID string, analyzer *TextAnalyzer, config ...RecorderConfig) *SessionRecorder {
	cfg := DefaultRecorderConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &SessionRecorder{
		sessionID:   sessionID,
		analyzer:    analyzer,
		store:       cfg.Store,
		rng:         cfg.Rand,
		logger:      cfg.Logger,
		themeCounts: map[string]int{},
	}
}

// OnAsked appends a record for an asked question. A nil answer means the
// question was skipped. Answered questions contribute their sentiment to the
// record and their tags to the session's theme counters, unless the answer
// itself is flagged: a distressing topic must never seed a theme chain.
func (r *SessionRecorder) OnAsked(playerID string, q Question, answer *string) {
	rec := QuestionRecord{
		SessionID:  r.sessionID,
		PlayerID:   playerID,
		QuestionID: q.ID,
		Kind:       q.Kind,
		Category:   q.Category,
		Text:       q.Text,
		Tags:       q.Tags,
		DepthLevel: q.DepthLevel,
		AskedAt:    time.Now(),
		WasSkipped: answer == nil,
	}
	if answer != nil {
		signals := r.analyzer.Analyze(*answer)
		rec.Sentiment = signals.Sentiment
		if answerSafe(signals) {
			for _, tag := range q.Tags {
				r.themeCounts[tag]++
			}
		}
	}
	r.records = append(r.records, rec)

	if r.store != nil {
		if err := r.store.AppendQuestionRecord(rec); err != nil {
			r.logger.Error("question record write failed",
				zap.String("question_id", q.ID), zap.Error(err))
		}
	}

	// consume active chain members as they are asked
	if len(r.activeChain) > 0 {
		remaining := lo.Filter(r.activeChain, func(c Question, _ int) bool {
			return c.ID != q.ID
		})
		r.activeChain = remaining
	}
}

// RecordMood appends one step to the session's mood journey.
func (r *SessionRecorder) RecordMood(playerID string, mood Mood) {
	r.moodJourney = append(r.moodJourney, MoodPoint{PlayerID: playerID, Mood: mood})
}

// MarkStarred sets the starred flag on the record for questionID. Write-once.
func (r *SessionRecorder) MarkStarred(questionID string) error {
	for i := range r.records {
		if r.records[i].QuestionID == questionID {
			if r.records[i].WasStarred {
				return ErrAlreadySet
			}
			r.records[i].WasStarred = true
			if r.store != nil {
				if err := r.store.SetStarred(r.sessionID, questionID); err != nil {
					r.logger.Error("starred flag write failed",
						zap.String("question_id", questionID), zap.Error(err))
				}
			}
			return nil
		}
	}
	return ErrRecordNotFound
}

// LinkFollowUp records the follow-up link on the record for questionID.
// Write-once.
func (r *SessionRecorder) LinkFollowUp(questionID, followUpID string) error {
	for i := range r.records {
		if r.records[i].QuestionID == questionID {
			if r.records[i].FollowUpID != "" {
				return ErrAlreadySet
			}
			r.records[i].FollowUpID = followUpID
			if r.store != nil {
				if err := r.store.SetFollowUp(r.sessionID, questionID, followUpID); err != nil {
					r.logger.Error("follow-up link write failed",
						zap.String("question_id", questionID), zap.Error(err))
				}
			}
			return nil
		}
	}
	return ErrRecordNotFound
}

// ChainIfNeeded returns the active chain if one exists. Otherwise, once the
// session holds at least five asked questions and some tag has been answered
// at least three times, it synthesizes a chain of 3-5 sequentially deepening
// questions on that dominant theme and caches it until its members are all
// consumed via OnAsked. Returns an empty slice when no chain is warranted.
func (r *SessionRecorder) ChainIfNeeded() []Question {
	if len(r.activeChain) > 0 {
		return append([]Question(nil), r.activeChain...)
	}
	if len(r.records) < chainMinSessionSize {
		return nil
	}

	theme, count := r.dominantTheme()
	if theme == "" || count < chainMinThemeCount {
		return nil
	}

	length := 3 + r.rng.Intn(3) // 3..5
	chain := make([]Question, 0, length)
	for step := 1; step <= length; step++ {
		chain = append(chain, themedQuestion(theme, step))
	}
	r.activeChain = chain

	r.logger.Info("theme chain started",
		zap.String("theme", theme), zap.Int("length", length))
	return append([]Question(nil), chain...)
}

// SessionSummary builds the summary from the current records.
func (r *SessionRecorder) SessionSummary() SessionSummary {
	byPlayer := lo.GroupBy(r.records, func(rec QuestionRecord) string { return rec.PlayerID })
	highlights := make(map[string][]string, len(byPlayer))
	for playerID, recs := range byPlayer {
		highlights[playerID] = playerHighlights(recs)
	}

	return SessionSummary{
		PlayerHighlights: highlights,
		MoodJourney:      append([]MoodPoint(nil), r.moodJourney...),
		TopTags:          r.topTags(5),
		DeepestMoment:    r.deepestMoment(),
		FunniestMoment:   r.funniestMoment(),
	}
}

// Reset discards all session-scoped state so the recorder can serve a new
// session under the same id space.
func (r *SessionRecorder) Reset() {
	r.records = nil
	r.themeCounts = map[string]int{}
	r.moodJourney = nil
	r.activeChain = nil
}

func (r *SessionRecorder) dominantTheme() (string, int) {
	best := ""
	bestCount := 0
	tags := lo.Keys(r.themeCounts)
	sort.Strings(tags) // deterministic among equal counts
	for _, tag := range tags {
		if r.themeCounts[tag] > bestCount {
			best = tag
			bestCount = r.themeCounts[tag]
		}
	}
	return best, bestCount
}

func (r *SessionRecorder) topTags(n int) []string {
	tags := lo.Keys(r.themeCounts)
	sort.Slice(tags, func(i, j int) bool {
		if r.themeCounts[tags[i]] != r.themeCounts[tags[j]] {
			return r.themeCounts[tags[i]] > r.themeCounts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	if len(tags) > n {
		tags = tags[:n]
	}
	return tags
}

func (r *SessionRecorder) deepestMoment() string {
	deepest := QuestionRecord{}
	found := false
	for _, rec := range r.records {
		if rec.WasSkipped || rec.DepthLevel == 0 {
			continue
		}
		if !found || rec.DepthLevel > deepest.DepthLevel {
			deepest = rec
			found = true
		}
	}
	if !found {
		return ""
	}
	return fmt.Sprintf("\"%s\" leidde tot een diep moment van reflectie.", deepest.Text)
}

// funniestMoment picks uniformly among answered dares. Deliberately random
// rather than ranked by any signal.
func (r *SessionRecorder) funniestMoment() string {
	dares := lo.Filter(r.records, func(rec QuestionRecord, _ int) bool {
		return !rec.WasSkipped && rec.Kind == KindDare
	})
	if len(dares) == 0 {
		return ""
	}
	pick := dares[r.rng.Intn(len(dares))]
	return fmt.Sprintf("Er was veel gelach bij de opdracht: \"%s\"", pick.Text)
}

func playerHighlights(recs []QuestionRecord) []string {
	var highlights []string

	strong := 0
	for _, rec := range recs {
		if rec.WasSkipped || abs(rec.Sentiment) <= 50 || strong >= 2 {
			continue
		}
		reaction := "enthousiast"
		if rec.Sentiment < 0 {
			reaction = "serieus"
		}
		highlights = append(highlights, fmt.Sprintf("Reageerde %s op: \"%s\"", reaction, rec.Text))
		strong++
	}
	for _, rec := range recs {
		if rec.WasSkipped {
			highlights = append(highlights, fmt.Sprintf("Sloeg de vraag over: \"%s\"", rec.Text))
			break
		}
	}
	for _, rec := range recs {
		if !rec.WasSkipped && rec.DepthLevel >= 3 {
			highlights = append(highlights, fmt.Sprintf("Deelde een diep inzicht bij: \"%s\"", rec.Text))
			break
		}
	}
	return highlights
}

// themedQuestion builds one chain member. Depth grows with the step, capped
// at 5, so a chain always deepens monotonically.
func themedQuestion(theme string, step int) Question {
	depth := step
	if depth > 5 {
		depth = 5
	}
	text := chainTextByStep[len(chainTextByStep)-1]
	if step-1 < len(chainTextByStep) {
		text = chainTextByStep[step-1]
	}
	return Question{
		ID:         NewQuestionID(),
		Kind:       KindTruth,
		Category:   "deep",
		TargetMode: TargetSingle,
		DepthLevel: depth,
		Tags:       []string{theme, "chain", "themed"},
		Text:       fmt.Sprintf(text, theme),
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
