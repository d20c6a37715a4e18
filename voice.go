package truthdare

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// ──────────────────────────────────────────────
// Voice stream — cancellable transcript event producer
// ──────────────────────────────────────────────

// ErrAlreadyListening is returned when Start is called on a stream that is
// already active.
var ErrAlreadyListening = errors.New("voice stream already listening")

// SilencePeriod is one detected gap in speech.
type SilencePeriod struct {
	Start    time.Duration
	Duration time.Duration
}

// Prosody carries the acoustic features of one transcript event.
type Prosody struct {
	// Pitch is normalized to 0..1.
	Pitch float64
	// Rate is the speech rate in words per second.
	Rate float64
	// Silences are the detected silence gaps.
	Silences []SilencePeriod
}

// TranscriptEvent is one recognized utterance with its prosody.
type TranscriptEvent struct {
	Text       string
	Confidence float64
	Prosody    Prosody
}

// VoiceStream is the capability interface for voice input. Start yields
// transcript events on the returned channel until the stream ends or Stop
// is called. The channel is closed on termination; Err reports a terminal
// stream error afterwards (nil on clean stop).
//
// Stop is synchronous: when it returns, no further events are emitted and
// the underlying audio resource is released.
type VoiceStream interface {
	Start() (<-chan TranscriptEvent, error)
	Stop()
	Err() error
}

// ScriptedVoiceStream is an in-process VoiceStream that replays a fixed
// script of transcript events. It stands in for a platform recognizer in
// tests and demos.
type ScriptedVoiceStream struct {
	script []TranscriptEvent
	// Delay between emitted events, 0 for immediate replay.
	Delay time.Duration
	// Fail, when set, terminates the stream with this error once the script
	// has been replayed, simulating a recognizer failure.
	Fail error

	listening atomic.Bool
	mu        sync.Mutex
	stop      chan struct{}
	done      sync.WaitGroup
	err       error
}

// NewScriptedVoiceStream creates a stream that will replay the given events.
func NewScriptedVoiceStream(script ...TranscriptEvent) *ScriptedVoiceStream {
	return &ScriptedVoiceStream{script: script}
}

// Start begins replaying the script. It fails with ErrAlreadyListening when
// the stream is already active.
func (s *ScriptedVoiceStream) Start() (<-chan TranscriptEvent, error) {
	if !s.listening.CompareAndSwap(false, true) {
		return nil, ErrAlreadyListening
	}

	s.mu.Lock()
	s.stop = make(chan struct{})
	s.err = nil
	stop := s.stop
	s.mu.Unlock()

	out := make(chan TranscriptEvent)
	s.done.Add(1)
	go func() {
		defer s.done.Done()
		defer close(out)
		defer s.listening.Store(false)
		for _, ev := range s.script {
			if s.Delay > 0 {
				select {
				case <-time.After(s.Delay):
				case <-stop:
					return
				}
			}
			select {
			case out <- ev:
			case <-stop:
				return
			}
		}
		if s.Fail != nil {
			s.mu.Lock()
			s.err = s.Fail
			s.mu.Unlock()
		}
	}()
	return out, nil
}

// Stop halts emission. It blocks until the producer has exited, so no event
// is delivered after Stop returns.
func (s *ScriptedVoiceStream) Stop() {
	s.mu.Lock()
	if s.stop != nil {
		select {
		case <-s.stop:
			// already stopped
		default:
			close(s.stop)
		}
	}
	s.mu.Unlock()
	s.done.Wait()
}

// Err reports the terminal stream error, nil after a clean stop or a fully
// replayed script without an injected failure.
func (s *ScriptedVoiceStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
