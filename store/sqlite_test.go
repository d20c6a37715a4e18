package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	truthdare "github.com/wvdnwd23/True-or-dare"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_BiasProfileRoundtrip(t *testing.T) {
	s := openTestStore(t)

	_, found, err := s.GetBiasProfile("p1")
	require.NoError(t, err)
	assert.False(t, found)

	profile := truthdare.BiasProfile{
		TagWeights:   map[string]float64{"reizen": 0.8, "deep": 0.3},
		DepthComfort: 3,
		HeatComfort:  60,
	}
	require.NoError(t, s.PutBiasProfile("p1", profile))

	got, found, err := s.GetBiasProfile("p1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, profile, got)

	// a second put replaces the stored profile
	profile.HeatComfort = 70
	require.NoError(t, s.PutBiasProfile("p1", profile))
	got, _, err = s.GetBiasProfile("p1")
	require.NoError(t, err)
	assert.Equal(t, 70, got.HeatComfort)
}

func TestSQLiteStore_DeleteBiasProfile(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.PutBiasProfile("p1", truthdare.NewBiasProfile()))
	require.NoError(t, s.DeleteBiasProfile("p1"))

	_, found, err := s.GetBiasProfile("p1")
	require.NoError(t, err)
	assert.False(t, found)

	// deleting an absent profile is a no-op
	require.NoError(t, s.DeleteBiasProfile("p1"))
}

func TestSQLiteStore_EmptyTagWeights(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.PutBiasProfile("p1", truthdare.NewBiasProfile()))
	got, found, err := s.GetBiasProfile("p1")
	require.NoError(t, err)
	require.True(t, found)
	assert.NotNil(t, got.TagWeights)
	assert.Empty(t, got.TagWeights)
}

func sampleRecord(sessionID, questionID string, askedAt time.Time) truthdare.QuestionRecord {
	return truthdare.QuestionRecord{
		SessionID:  sessionID,
		PlayerID:   "p1",
		QuestionID: questionID,
		Kind:       truthdare.KindTruth,
		Category:   "casual",
		Text:       "Wat is je favoriete reisbestemming?",
		Tags:       []string{"reizen", "casual"},
		DepthLevel: 2,
		AskedAt:    askedAt,
		Sentiment:  40,
	}
}

func TestSQLiteStore_RecordsOrderedByAskedAt(t *testing.T) {
	s := openTestStore(t)
	base := time.Now()

	// inserted out of order on purpose
	require.NoError(t, s.AppendQuestionRecord(sampleRecord("s1", "q2", base.Add(2*time.Second))))
	require.NoError(t, s.AppendQuestionRecord(sampleRecord("s1", "q1", base.Add(1*time.Second))))
	require.NoError(t, s.AppendQuestionRecord(sampleRecord("s1", "q3", base.Add(3*time.Second))))
	require.NoError(t, s.AppendQuestionRecord(sampleRecord("s2", "q1", base)))

	recs, err := s.QuerySessionRecords("s1")
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "q1", recs[0].QuestionID)
	assert.Equal(t, "q2", recs[1].QuestionID)
	assert.Equal(t, "q3", recs[2].QuestionID)
	assert.Equal(t, []string{"reizen", "casual"}, recs[0].Tags)
	assert.Equal(t, truthdare.KindTruth, recs[0].Kind)
	assert.Equal(t, 40, recs[0].Sentiment)
}

func TestSQLiteStore_WriteOnceFlags(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.AppendQuestionRecord(sampleRecord("s1", "q1", time.Now())))

	require.NoError(t, s.SetStarred("s1", "q1"))
	assert.ErrorIs(t, s.SetStarred("s1", "q1"), truthdare.ErrAlreadySet)
	assert.ErrorIs(t, s.SetStarred("s1", "missing"), truthdare.ErrRecordNotFound)

	require.NoError(t, s.SetFollowUp("s1", "q1", "fu1"))
	assert.ErrorIs(t, s.SetFollowUp("s1", "q1", "fu2"), truthdare.ErrAlreadySet)
	assert.ErrorIs(t, s.SetFollowUp("s2", "q1", "fu1"), truthdare.ErrRecordNotFound)

	recs, err := s.QuerySessionRecords("s1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].WasStarred)
	assert.Equal(t, "fu1", recs[0].FollowUpID)
}

func TestSQLiteStore_SkippedRecordRoundtrip(t *testing.T) {
	s := openTestStore(t)

	rec := sampleRecord("s1", "q1", time.Now())
	rec.WasSkipped = true
	rec.Tags = nil
	require.NoError(t, s.AppendQuestionRecord(rec))

	recs, err := s.QuerySessionRecords("s1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].WasSkipped)
	assert.Nil(t, recs[0].Tags)
}
