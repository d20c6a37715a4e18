package truthdare

import (
	"testing"
	"time"
)

func TestInMemoryProfileStore_Roundtrip(t *testing.T) {
	s := NewInMemoryProfileStore()

	if _, found, err := s.GetBiasProfile("p1"); err != nil || found {
		t.Fatalf("expected a miss, got found=%v err=%v", found, err)
	}

	profile := NewBiasProfile()
	profile.TagWeights["reizen"] = 0.8
	if err := s.PutBiasProfile("p1", profile); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	// mutating the original must not leak into the store
	profile.TagWeights["reizen"] = 0.1

	got, found, err := s.GetBiasProfile("p1")
	if err != nil || !found {
		t.Fatalf("expected a hit, got found=%v err=%v", found, err)
	}
	if got.TagWeights["reizen"] != 0.8 {
		t.Fatalf("store must hold its own copy, got %v", got.TagWeights["reizen"])
	}

	if err := s.DeleteBiasProfile("p1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, found, _ := s.GetBiasProfile("p1"); found {
		t.Fatal("deleted profile must be gone")
	}
}

func TestInMemoryRecordStore_AppendAndQuery(t *testing.T) {
	s := NewInMemoryRecordStore()
	now := time.Now()

	for i, id := range []string{"q1", "q2", "q3"} {
		err := s.AppendQuestionRecord(QuestionRecord{
			SessionID: "s1", PlayerID: "p1", QuestionID: id,
			Kind: KindTruth, AskedAt: now.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	recs, err := s.QuerySessionRecords("s1")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(recs) != 3 || recs[0].QuestionID != "q1" || recs[2].QuestionID != "q3" {
		t.Fatalf("expected append order, got %+v", recs)
	}

	other, _ := s.QuerySessionRecords("s2")
	if len(other) != 0 {
		t.Fatalf("sessions must be isolated, got %d records", len(other))
	}
}

func TestInMemoryRecordStore_WriteOnceFlags(t *testing.T) {
	s := NewInMemoryRecordStore()
	if err := s.AppendQuestionRecord(QuestionRecord{SessionID: "s1", QuestionID: "q1"}); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	if err := s.SetStarred("s1", "q1"); err != nil {
		t.Fatalf("first star failed: %v", err)
	}
	if err := s.SetStarred("s1", "q1"); err != ErrAlreadySet {
		t.Fatalf("expected ErrAlreadySet, got %v", err)
	}
	if err := s.SetStarred("s1", "missing"); err != ErrRecordNotFound {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}

	if err := s.SetFollowUp("s1", "q1", "fu1"); err != nil {
		t.Fatalf("first link failed: %v", err)
	}
	if err := s.SetFollowUp("s1", "q1", "fu2"); err != ErrAlreadySet {
		t.Fatalf("expected ErrAlreadySet, got %v", err)
	}
	if err := s.SetFollowUp("s2", "q1", "fu1"); err != ErrRecordNotFound {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
