// Package store provides durable storage backends for the engine's
// ProfileStore and RecordStore interfaces.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	truthdare "github.com/wvdnwd23/True-or-dare"
)

const schema = `
CREATE TABLE IF NOT EXISTS bias_profiles (
	player_id     TEXT PRIMARY KEY,
	tag_weights   TEXT NOT NULL,
	depth_comfort INTEGER NOT NULL,
	heat_comfort  INTEGER NOT NULL,
	updated_at    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS question_records (
	session_id   TEXT NOT NULL,
	player_id    TEXT NOT NULL,
	question_id  TEXT NOT NULL,
	kind         TEXT NOT NULL,
	category     TEXT NOT NULL,
	text         TEXT NOT NULL,
	tags         TEXT NOT NULL,
	depth_level  INTEGER NOT NULL,
	asked_at     INTEGER NOT NULL,
	was_skipped  INTEGER NOT NULL,
	was_starred  INTEGER NOT NULL DEFAULT 0,
	follow_up_id TEXT NOT NULL DEFAULT '',
	sentiment    INTEGER NOT NULL,
	PRIMARY KEY (session_id, question_id)
);

CREATE INDEX IF NOT EXISTS idx_records_session ON question_records(session_id, asked_at);
`

// SQLiteStore implements truthdare.ProfileStore and truthdare.RecordStore on
// a local SQLite database. Each profile or record write is a single
// statement, so writes are atomic from the reader's perspective.
//
// Usage:
//
//	s, err := store.OpenSQLite("truthdare.db")
//	if err != nil { ... }
//	defer s.Close()
//	engine := truthdare.NewEngine(catalog, lexicon, s)
type SQLiteStore struct {
	db *sql.DB
}

var (
	_ truthdare.ProfileStore = (*SQLiteStore)(nil)
	_ truthdare.RecordStore  = (*SQLiteStore)(nil)
)

// OpenSQLite opens (creating if needed) the database at path and ensures
// the schema exists. Use ":memory:" for an ephemeral store.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// one writer at a time keeps single-statement writes atomic
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetBiasProfile(playerID string) (truthdare.BiasProfile, bool, error) {
	row := s.db.QueryRow(
		`SELECT tag_weights, depth_comfort, heat_comfort FROM bias_profiles WHERE player_id = ?`,
		playerID)

	var weightsJSON string
	var profile truthdare.BiasProfile
	err := row.Scan(&weightsJSON, &profile.DepthComfort, &profile.HeatComfort)
	if err == sql.ErrNoRows {
		return truthdare.BiasProfile{}, false, nil
	}
	if err != nil {
		return truthdare.BiasProfile{}, false, fmt.Errorf("read bias profile: %w", err)
	}
	if err := json.Unmarshal([]byte(weightsJSON), &profile.TagWeights); err != nil {
		return truthdare.BiasProfile{}, false, fmt.Errorf("decode tag weights: %w", err)
	}
	if profile.TagWeights == nil {
		profile.TagWeights = map[string]float64{}
	}
	return profile, true, nil
}

func (s *SQLiteStore) PutBiasProfile(playerID string, profile truthdare.BiasProfile) error {
	weightsJSON, err := json.Marshal(profile.TagWeights)
	if err != nil {
		return fmt.Errorf("encode tag weights: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO bias_profiles (player_id, tag_weights, depth_comfort, heat_comfort, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET
			tag_weights   = excluded.tag_weights,
			depth_comfort = excluded.depth_comfort,
			heat_comfort  = excluded.heat_comfort,
			updated_at    = excluded.updated_at`,
		playerID, string(weightsJSON), profile.DepthComfort, profile.HeatComfort,
		time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("write bias profile: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteBiasProfile(playerID string) error {
	if _, err := s.db.Exec(`DELETE FROM bias_profiles WHERE player_id = ?`, playerID); err != nil {
		return fmt.Errorf("delete bias profile: %w", err)
	}
	return nil
}

func (s *SQLiteStore) AppendQuestionRecord(rec truthdare.QuestionRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO question_records
			(session_id, player_id, question_id, kind, category, text, tags,
			 depth_level, asked_at, was_skipped, was_starred, follow_up_id, sentiment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.PlayerID, rec.QuestionID, string(rec.Kind), rec.Category,
		rec.Text, strings.Join(rec.Tags, ","), rec.DepthLevel, rec.AskedAt.UnixMilli(),
		boolToInt(rec.WasSkipped), boolToInt(rec.WasStarred), rec.FollowUpID, rec.Sentiment)
	if err != nil {
		return fmt.Errorf("append question record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SetStarred(sessionID, questionID string) error {
	res, err := s.db.Exec(
		`UPDATE question_records SET was_starred = 1
		 WHERE session_id = ? AND question_id = ? AND was_starred = 0`,
		sessionID, questionID)
	if err != nil {
		return fmt.Errorf("set starred flag: %w", err)
	}
	return s.checkWriteOnce(res, sessionID, questionID)
}

func (s *SQLiteStore) SetFollowUp(sessionID, questionID, followUpID string) error {
	res, err := s.db.Exec(
		`UPDATE question_records SET follow_up_id = ?
		 WHERE session_id = ? AND question_id = ? AND follow_up_id = ''`,
		followUpID, sessionID, questionID)
	if err != nil {
		return fmt.Errorf("set follow-up link: %w", err)
	}
	return s.checkWriteOnce(res, sessionID, questionID)
}

func (s *SQLiteStore) QuerySessionRecords(sessionID string) ([]truthdare.QuestionRecord, error) {
	rows, err := s.db.Query(`
		SELECT session_id, player_id, question_id, kind, category, text, tags,
		       depth_level, asked_at, was_skipped, was_starred, follow_up_id, sentiment
		FROM question_records WHERE session_id = ? ORDER BY asked_at, rowid`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("query session records: %w", err)
	}
	defer rows.Close()

	var out []truthdare.QuestionRecord
	for rows.Next() {
		var rec truthdare.QuestionRecord
		var kind, tags string
		var askedAt int64
		var skipped, starred int
		if err := rows.Scan(&rec.SessionID, &rec.PlayerID, &rec.QuestionID, &kind,
			&rec.Category, &rec.Text, &tags, &rec.DepthLevel, &askedAt,
			&skipped, &starred, &rec.FollowUpID, &rec.Sentiment); err != nil {
			return nil, fmt.Errorf("scan question record: %w", err)
		}
		rec.Kind = truthdare.QuestionKind(kind)
		if tags != "" {
			rec.Tags = strings.Split(tags, ",")
		}
		rec.AskedAt = time.UnixMilli(askedAt)
		rec.WasSkipped = skipped == 1
		rec.WasStarred = starred == 1
		out = append(out, rec)
	}
	return out, rows.Err()
}

// checkWriteOnce distinguishes "no such record" from "already set" after a
// guarded write-once update touched zero rows.
func (s *SQLiteStore) checkWriteOnce(res sql.Result, sessionID, questionID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}
	row := s.db.QueryRow(
		`SELECT COUNT(*) FROM question_records WHERE session_id = ? AND question_id = ?`,
		sessionID, questionID)
	var count int
	if err := row.Scan(&count); err != nil {
		return fmt.Errorf("check record existence: %w", err)
	}
	if count == 0 {
		return truthdare.ErrRecordNotFound
	}
	return truthdare.ErrAlreadySet
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
