package truthdare

import (
	"errors"
	"sync"
)

// ──────────────────────────────────────────────
// Storage interfaces — pluggable persistence backends
// ──────────────────────────────────────────────

// ErrRecordNotFound is returned when a session record addressed by
// (sessionID, questionID) does not exist.
var ErrRecordNotFound = errors.New("question record not found")

// ErrAlreadySet is returned when a write-once field (starred flag,
// follow-up link) is written a second time.
var ErrAlreadySet = errors.New("field already set")

// ProfileStore persists per-player bias profiles. Writes are assumed
// crash-atomic per profile: a reader sees either the old or the new profile,
// never a partial write.
type ProfileStore interface {
	// GetBiasProfile returns the stored profile for a player. The second
	// return is false when the player has no stored profile yet.
	GetBiasProfile(playerID string) (BiasProfile, bool, error)
	// PutBiasProfile stores the profile, replacing any previous one.
	PutBiasProfile(playerID string, profile BiasProfile) error
	// DeleteBiasProfile removes a player's profile (player-data wipe).
	DeleteBiasProfile(playerID string) error
}

// RecordStore persists the append-only session question log.
type RecordStore interface {
	AppendQuestionRecord(rec QuestionRecord) error
	// SetStarred marks a record starred. Write-once: a second call returns
	// ErrAlreadySet.
	SetStarred(sessionID, questionID string) error
	// SetFollowUp links a follow-up question to a record. Write-once.
	SetFollowUp(sessionID, questionID, followUpID string) error
	QuerySessionRecords(sessionID string) ([]QuestionRecord, error)
}

// InMemoryProfileStore is a thread-safe in-memory ProfileStore for
// development and tests. Data is lost on restart.
type InMemoryProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]BiasProfile
}

// NewInMemoryProfileStore creates an empty in-memory profile store.
func NewInMemoryProfileStore() *InMemoryProfileStore {
	return &InMemoryProfileStore{profiles: map[string]BiasProfile{}}
}

func (s *InMemoryProfileStore) GetBiasProfile(playerID string) (BiasProfile, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[playerID]
	if !ok {
		return BiasProfile{}, false, nil
	}
	return p.Clone(), true, nil
}

func (s *InMemoryProfileStore) PutBiasProfile(playerID string, profile BiasProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[playerID] = profile.Clone()
	return nil
}

func (s *InMemoryProfileStore) DeleteBiasProfile(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, playerID)
	return nil
}

// InMemoryRecordStore is a thread-safe in-memory RecordStore for
// development and tests.
type InMemoryRecordStore struct {
	mu      sync.RWMutex
	records map[string][]QuestionRecord // sessionID -> records in append order
}

// NewInMemoryRecordStore creates an empty in-memory record store.
func NewInMemoryRecordStore() *InMemoryRecordStore {
	return &InMemoryRecordStore{records: map[string][]QuestionRecord{}}
}

func (s *InMemoryRecordStore) AppendQuestionRecord(rec QuestionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.SessionID] = append(s.records[rec.SessionID], rec)
	return nil
}

func (s *InMemoryRecordStore) SetStarred(sessionID, questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.records[sessionID]
	for i := range recs {
		if recs[i].QuestionID == questionID {
			if recs[i].WasStarred {
				return ErrAlreadySet
			}
			recs[i].WasStarred = true
			return nil
		}
	}
	return ErrRecordNotFound
}

func (s *InMemoryRecordStore) SetFollowUp(sessionID, questionID, followUpID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.records[sessionID]
	for i := range recs {
		if recs[i].QuestionID == questionID {
			if recs[i].FollowUpID != "" {
				return ErrAlreadySet
			}
			recs[i].FollowUpID = followUpID
			return nil
		}
	}
	return ErrRecordNotFound
}

func (s *InMemoryRecordStore) QuerySessionRecords(sessionID string) ([]QuestionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.records[sessionID]
	out := make([]QuestionRecord, len(recs))
	copy(out, recs)
	return out, nil
}
