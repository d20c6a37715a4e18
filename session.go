package truthdare

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ──────────────────────────────────────────────
// Game Session — one foreground session's turn flow
// ──────────────────────────────────────────────

// ErrNoPendingQuestion is returned when an answer or skip arrives for a
// player who has no open question.
var ErrNoPendingQuestion = errors.New("no pending question for player")

// SessionConfig controls one game session.
type SessionConfig struct {
	Mode     GameMode
	Heat     int // 0..100
	MaxDepth int // 1..5
	// Store optionally persists question records.
	Store  RecordStore
	Logger *zap.Logger
}

// DefaultSessionConfig returns a casual session at moderate heat.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Mode:     ModeCasual,
		Heat:     50,
		MaxDepth: 3,
		Logger:   zap.NewNop(),
	}
}

// AnswerOutcome is what one submitted answer produced.
type AnswerOutcome struct {
	// Emotion is the mood/stress estimate, zero-valued for text-only answers.
	Emotion EmotionTag
	// FollowUp is the next question to present immediately, nil when the
	// answer warrants none.
	FollowUp *Question
	// SafetyTriggered is set when the answer tripped the trigger detector
	// or carried extremely negative sentiment. The session suggests a
	// softer path instead of a follow-up; this is a state, not an error.
	SafetyTriggered bool
}

// GameSession drives the per-turn flow of one local session: it builds
// selection contexts from learned bias, serves questions, routes answers
// through analysis and learning, and produces the end-of-session summary.
//
// A session assumes a single active player turn at a time; its state
// (anti-repeat cache, star queues, session log) is discarded by EndSession.
type GameSession struct {
	id       string
	engine   *Engine
	recorder *SessionRecorder
	mode     GameMode
	heat     int
	maxDepth int
	logger   *zap.Logger

	starQueues map[string][]string
	pending    map[string]Question
	lastTags   map[string][]string
	moods      map[string]Mood
}

// NewGameSession creates a session over a constructed engine.
func NewGameSession(id string, engine *Engine, config ...SessionConfig) *GameSession {
	cfg := DefaultSessionConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	recorder := NewSessionRecorder(id, engine.Analyzer, RecorderConfig{
		Store:  cfg.Store,
		Rand:   engine.rng,
		Logger: cfg.Logger,
	})
	return &GameSession{
		id:         id,
		engine:     engine,
		recorder:   recorder,
		mode:       cfg.Mode,
		heat:       clampInt(cfg.Heat, 0, 100),
		maxDepth:   clampInt(cfg.MaxDepth, 1, 5),
		logger:     cfg.Logger,
		starQueues: map[string][]string{},
		pending:    map[string]Question{},
		lastTags:   map[string][]string{},
		moods:      map[string]Mood{},
	}
}

// Recorder exposes the session recorder for summary and chain queries.
func (g *GameSession) Recorder() *SessionRecorder { return g.recorder }

// NextQuestion serves the next question for a player and marks it pending
// until answered or skipped.
func (g *GameSession) NextQuestion(playerID string) Question {
	ctx := g.contextFor(playerID)
	q := g.engine.Selector.SelectNext(ctx)

	// a served starred tag leaves the queue
	if queue := g.starQueues[playerID]; len(queue) > 0 && q.HasTag(queue[0]) {
		g.starQueues[playerID] = queue[1:]
	}
	g.engine.Selector.RecordServed(q)
	g.pending[playerID] = q

	g.logger.Debug("question served",
		zap.String("player_id", playerID),
		zap.String("question_id", q.ID),
		zap.String("kind", string(q.Kind)))
	return q
}

// SubmitAnswer processes a free-text answer to the player's pending
// question: it logs the record, feeds implicit learning signals, and decides
// on a follow-up. Learning persistence failures are returned alongside the
// outcome; the outcome itself stays valid.
func (g *GameSession) SubmitAnswer(playerID, answer string) (AnswerOutcome, error) {
	return g.submit(playerID, answer, nil)
}

// SubmitTranscript is SubmitAnswer for spoken answers: the transcript text
// is the answer, and prosody additionally drives the emotion estimate and
// silence detection.
func (g *GameSession) SubmitTranscript(playerID string, ev TranscriptEvent) (AnswerOutcome, error) {
	return g.submit(playerID, ev.Text, &ev)
}

func (g *GameSession) submit(playerID, answer string, ev *TranscriptEvent) (AnswerOutcome, error) {
	q, ok := g.pending[playerID]
	if !ok {
		return AnswerOutcome{}, fmt.Errorf("player %s: %w", playerID, ErrNoPendingQuestion)
	}
	delete(g.pending, playerID)

	g.recorder.OnAsked(playerID, q, &answer)
	g.lastTags[playerID] = q.Tags

	outcome := AnswerOutcome{}
	if ev != nil {
		outcome.Emotion = g.engine.Emotion.Analyze(*ev)
		g.moods[playerID] = outcome.Emotion.Mood
		g.recorder.RecordMood(playerID, outcome.Emotion.Mood)
	}

	var signalErr error
	signals := g.engine.Analyzer.Analyze(answer)
	if !g.engine.Safety.CheckAnswer(answer) {
		// defined state transition, never an exception: suspend follow-ups
		// and let the UI steer to a softer path
		outcome.SafetyTriggered = true
		g.logger.Info("answer flagged by safety check",
			zap.String("player_id", playerID), zap.String("question_id", q.ID))
		return outcome, nil
	}

	signalErr = g.applyImplicitSignals(playerID, q, signals, ev)

	ctx := g.contextFor(playerID)
	if fu := g.engine.Selector.MaybeAskFollowUp(answer, ctx); fu != nil {
		if err := g.recorder.LinkFollowUp(q.ID, fu.ID); err != nil {
			g.logger.Warn("could not link follow-up", zap.Error(err))
		}
		g.engine.Selector.RecordServed(*fu)
		g.pending[playerID] = *fu
		outcome.FollowUp = fu
	}
	return outcome, signalErr
}

// Skip records a skipped question and applies the skip signal.
func (g *GameSession) Skip(playerID string) error {
	q, ok := g.pending[playerID]
	if !ok {
		return fmt.Errorf("player %s: %w", playerID, ErrNoPendingQuestion)
	}
	delete(g.pending, playerID)

	g.recorder.OnAsked(playerID, q, nil)
	g.lastTags[playerID] = q.Tags

	return g.engine.Learning.UpdateSignals(LearningSignal{
		PlayerID:   playerID,
		Type:       SignalSkip,
		QuestionID: q.ID,
		Tags:       q.Tags,
	})
}

// Star queues a starred tag for priority follow-up and records the interest
// signal for the player's current (or last) question.
func (g *GameSession) Star(playerID, tag string) error {
	tag = NormalizeTag(tag)
	if tag == "" {
		return nil
	}
	g.starQueues[playerID] = append(g.starQueues[playerID], tag)

	sig := LearningSignal{
		PlayerID: playerID,
		Type:     SignalInterest,
		Tags:     []string{tag},
	}
	if q, ok := g.pending[playerID]; ok {
		sig.QuestionID = q.ID
		if q.DepthLevel > 0 {
			depth := q.DepthLevel
			sig.Depth = &depth
		}
		heat := g.heat
		sig.Heat = &heat
		if err := g.recorder.MarkStarred(q.ID); err != nil && !errors.Is(err, ErrRecordNotFound) {
			g.logger.Warn("could not mark record starred", zap.Error(err))
		}
	}
	return g.engine.Learning.UpdateSignals(sig)
}

// ReportLaughter applies a laughter signal for the player's last question.
func (g *GameSession) ReportLaughter(playerID string) error {
	return g.engine.Learning.UpdateSignals(LearningSignal{
		PlayerID: playerID,
		Type:     SignalLaughter,
		Tags:     g.lastTags[playerID],
	})
}

// ReportDiscomfort applies an explicit discomfort signal for the player's
// last question.
func (g *GameSession) ReportDiscomfort(playerID string) error {
	sig := LearningSignal{
		PlayerID: playerID,
		Type:     SignalDiscomfort,
		Tags:     g.lastTags[playerID],
	}
	heat := g.heat
	sig.Heat = &heat
	return g.engine.Learning.UpdateSignals(sig)
}

// ListenAnswer consumes a voice stream for one answer: partial transcripts
// are trigger-scanned and stop the stream early when unsafe content shows
// up; the last transcript becomes the submitted answer.
func (g *GameSession) ListenAnswer(playerID string, stream VoiceStream) (AnswerOutcome, error) {
	events, err := stream.Start()
	if err != nil {
		return AnswerOutcome{}, fmt.Errorf("start voice stream: %w", err)
	}

	var last *TranscriptEvent
	for ev := range events {
		ev := ev
		if g.engine.Analyzer.ScanTriggers(ev.Text) {
			stream.Stop()
			g.logger.Info("listening suspended by trigger scan",
				zap.String("player_id", playerID))
			last = &ev
			break
		}
		last = &ev
	}
	if err := stream.Err(); err != nil {
		return AnswerOutcome{}, fmt.Errorf("voice stream terminated: %w", err)
	}
	if last == nil {
		return AnswerOutcome{}, nil
	}
	return g.SubmitTranscript(playerID, *last)
}

// ChainIfNeeded proxies the recorder's theme chain synthesis.
func (g *GameSession) ChainIfNeeded() []Question {
	return g.recorder.ChainIfNeeded()
}

// EndSession produces the session summary and discards all session-scoped
// state: the log, the star queues, the anti-repeat cache.
func (g *GameSession) EndSession() SessionSummary {
	summary := g.recorder.SessionSummary()
	g.recorder.Reset()
	g.engine.Selector.ResetSession()
	g.starQueues = map[string][]string{}
	g.pending = map[string]Question{}
	g.lastTags = map[string][]string{}
	g.moods = map[string]Mood{}
	g.logger.Info("session ended", zap.String("session_id", g.id))
	return summary
}

// contextFor builds the clamped selection context for a player.
func (g *GameSession) contextFor(playerID string) SelectionContext {
	mood, ok := g.moods[playerID]
	if !ok {
		mood = MoodCalm
	}
	return SelectionContext{
		PlayerID:      playerID,
		Mode:          g.mode,
		Heat:          g.heat,
		MaxDepth:      g.maxDepth,
		StarTagsQueue: append([]string(nil), g.starQueues[playerID]...),
		LastTags:      append([]string(nil), g.lastTags[playerID]...),
		Bias:          g.engine.Learning.CurrentBias(playerID),
		Mood:          mood,
	}.Clamp()
}

// applyImplicitSignals derives learning signals from the analyzed answer:
// strong positive sentiment counts as engagement, laughter words boost the
// funny tag, and hesitant speech registers as silence.
func (g *GameSession) applyImplicitSignals(playerID string, q Question, signals TextSignals, ev *TranscriptEvent) error {
	var firstErr error
	apply := func(sig LearningSignal) {
		if err := g.engine.Learning.UpdateSignals(sig); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if signals.Sentiment > 50 {
		sig := LearningSignal{
			PlayerID:   playerID,
			Type:       SignalEngagement,
			QuestionID: q.ID,
			Tags:       q.Tags,
		}
		if q.DepthLevel > 0 {
			depth := q.DepthLevel
			sig.Depth = &depth
		}
		apply(sig)
	}
	if signals.Sentiment > 50 && q.HasTag("funny") {
		apply(LearningSignal{
			PlayerID:   playerID,
			Type:       SignalLaughter,
			QuestionID: q.ID,
			Tags:       q.Tags,
		})
	}
	if ev != nil && len(ev.Prosody.Silences) >= 3 {
		sig := LearningSignal{
			PlayerID:   playerID,
			Type:       SignalSilence,
			QuestionID: q.ID,
			Tags:       q.Tags,
		}
		if q.DepthLevel > 0 {
			depth := q.DepthLevel
			sig.Depth = &depth
		}
		apply(sig)
	}
	return firstErr
}
