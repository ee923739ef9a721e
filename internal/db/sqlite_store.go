package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/slowwearcrew/pawportal/internal/api"
	"github.com/slowwearcrew/pawportal/internal/services"
)

// SQLiteStore persists the survey portal state in a single sqlite
// file. Template and response bodies are stored as JSON payloads so
// the schema never has to chase template shape changes.
type SQLiteStore struct {
	db *sql.DB
}

var _ api.Store = (*SQLiteStore)(nil)

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func NewStore(db *sql.DB) (api.Store, error) {
	return NewSQLiteStore(db)
}

func toNullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func encodeWeeks(weeks []int) sql.NullString {
	if len(weeks) == 0 {
		return sql.NullString{}
	}
	b, _ := json.Marshal(weeks)
	return sql.NullString{String: string(b), Valid: true}
}

func decodeWeeks(ns sql.NullString) []int {
	if !ns.Valid || strings.TrimSpace(ns.String) == "" {
		return nil
	}
	var out []int
	if err := json.Unmarshal([]byte(ns.String), &out); err != nil {
		return nil
	}
	return out
}

func (s *SQLiteStore) GetSession(id string) (*services.Session, error) {
	row := s.db.QueryRow(`SELECT id, name, start_date, end_date, sensory_template_id, progress_template_id, sensory_weeks, progress_weeks FROM sessions WHERE id = ?`, id)
	var sess services.Session
	var start, end, sWeeks, pWeeks sql.NullString
	err := row.Scan(&sess.ID, &sess.Name, &start, &end, &sess.SensoryTemplateID, &sess.ProgressTemplateID, &sWeeks, &pWeeks)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sess.StartDate = start.String
	sess.EndDate = end.String
	sess.SensoryWeeks = decodeWeeks(sWeeks)
	sess.ProgressWeeks = decodeWeeks(pWeeks)
	return &sess, nil
}

func (s *SQLiteStore) ListSessions() ([]*services.Session, error) {
	rows, err := s.db.Query(`SELECT id FROM sessions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := make([]*services.Session, 0, len(ids))
	for _, id := range ids {
		sess, err := s.GetSession(id)
		if err != nil {
			return nil, err
		}
		if sess != nil {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (s *SQLiteStore) PutSession(sess *services.Session) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO sessions (id, name, start_date, end_date, sensory_template_id, progress_template_id, sensory_weeks, progress_weeks) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.Name, toNullString(sess.StartDate), toNullString(sess.EndDate),
		sess.SensoryTemplateID, sess.ProgressTemplateID,
		encodeWeeks(sess.SensoryWeeks), encodeWeeks(sess.ProgressWeeks))
	return err
}

func (s *SQLiteStore) GetTemplate(id string) (*services.SurveyTemplate, error) {
	row := s.db.QueryRow(`SELECT payload FROM templates WHERE id = ?`, id)
	var payload string
	err := row.Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var tpl services.SurveyTemplate
	if err := json.Unmarshal([]byte(payload), &tpl); err != nil {
		return nil, fmt.Errorf("decode template %s: %w", id, err)
	}
	return &tpl, nil
}

func (s *SQLiteStore) PutTemplate(tpl *services.SurveyTemplate) error {
	payload, err := encodeJSON(tpl)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT OR REPLACE INTO templates (id, kind, payload) VALUES (?, ?, ?)`,
		tpl.ID, string(tpl.Kind), payload)
	return err
}

func scanParticipant(row interface{ Scan(...any) error }) (*services.Participant, error) {
	var p services.Participant
	var pet, last, created sql.NullString
	err := row.Scan(&p.ID, &p.AccessCode, &p.SessionID, &pet, &last, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.PetName = pet.String
	p.LastAccess = last.String
	p.CreatedAt = created.String
	return &p, nil
}

const participantCols = `id, access_code, session_id, pet_name, last_access, created_at`

func (s *SQLiteStore) GetParticipant(id string) (*services.Participant, error) {
	return scanParticipant(s.db.QueryRow(`SELECT `+participantCols+` FROM participants WHERE id = ?`, id))
}

func (s *SQLiteStore) FindParticipantByAccessCode(code string) (*services.Participant, error) {
	return scanParticipant(s.db.QueryRow(`SELECT `+participantCols+` FROM participants WHERE access_code = ?`,
		services.NormalizeAccessCode(code)))
}

func (s *SQLiteStore) listParticipants(query string, args ...any) ([]*services.Participant, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*services.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ListParticipants() ([]*services.Participant, error) {
	return s.listParticipants(`SELECT ` + participantCols + ` FROM participants ORDER BY id`)
}

func (s *SQLiteStore) ListParticipantsBySession(sessionID string) ([]*services.Participant, error) {
	return s.listParticipants(`SELECT `+participantCols+` FROM participants WHERE session_id = ? ORDER BY id`, sessionID)
}

func (s *SQLiteStore) AddParticipant(p *services.Participant) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO participants (`+participantCols+`) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, services.NormalizeAccessCode(p.AccessCode), p.SessionID,
		toNullString(p.PetName), toNullString(p.LastAccess), toNullString(p.CreatedAt))
	return err
}

func (s *SQLiteStore) TouchParticipant(id, lastAccess string) error {
	_, err := s.db.Exec(`UPDATE participants SET last_access = ? WHERE id = ?`, lastAccess, id)
	return err
}

func (s *SQLiteStore) ListResponses(participantID string) (services.ResponseTree, error) {
	rows, err := s.db.Query(`SELECT week, kind, payload FROM responses WHERE participant_id = ?`, participantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tree := services.ResponseTree{}
	for rows.Next() {
		var week int
		var kind, payload string
		if err := rows.Scan(&week, &kind, &payload); err != nil {
			return nil, err
		}
		var wr services.WeekResponse
		if err := json.Unmarshal([]byte(payload), &wr); err != nil {
			return nil, fmt.Errorf("decode response %s week %d: %w", participantID, week, err)
		}
		rec := tree[week]
		if rec == nil {
			rec = &services.WeekRecord{}
			tree[week] = rec
		}
		if services.Kind(kind) == services.KindProgress {
			rec.Progress = &wr
		} else {
			rec.Sensory = &wr
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(tree) == 0 {
		return nil, nil
	}
	return tree, nil
}

func (s *SQLiteStore) GetWeekResponse(participantID string, week int, kind services.Kind) (*services.WeekResponse, error) {
	row := s.db.QueryRow(`SELECT payload FROM responses WHERE participant_id = ? AND week = ? AND kind = ?`,
		participantID, week, string(kind))
	var payload string
	err := row.Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var wr services.WeekResponse
	if err := json.Unmarshal([]byte(payload), &wr); err != nil {
		return nil, fmt.Errorf("decode response %s week %d: %w", participantID, week, err)
	}
	return &wr, nil
}

func (s *SQLiteStore) PutWeekResponse(participantID string, week int, kind services.Kind, wr *services.WeekResponse) error {
	payload, err := encodeJSON(wr)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT OR REPLACE INTO responses (participant_id, week, kind, payload) VALUES (?, ?, ?, ?)`,
		participantID, week, string(kind), payload)
	return err
}

func (s *SQLiteStore) GetDraft(key string) (*services.WeekResponse, error) {
	row := s.db.QueryRow(`SELECT payload FROM drafts WHERE key = ?`, key)
	var payload string
	err := row.Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var wr services.WeekResponse
	if err := json.Unmarshal([]byte(payload), &wr); err != nil {
		return nil, fmt.Errorf("decode draft %s: %w", key, err)
	}
	return &wr, nil
}

func (s *SQLiteStore) PutDraft(key string, wr *services.WeekResponse) error {
	payload, err := encodeJSON(wr)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT OR REPLACE INTO drafts (key, payload) VALUES (?, ?)`, key, payload)
	return err
}

func (s *SQLiteStore) DeleteDraft(key string) error {
	_, err := s.db.Exec(`DELETE FROM drafts WHERE key = ?`, key)
	return err
}

func (s *SQLiteStore) FindAdminByEmail(email string) (*services.AdminUser, error) {
	row := s.db.QueryRow(`SELECT id, email, pass_hash, created_at FROM admins WHERE email = ? COLLATE NOCASE`, strings.TrimSpace(email))
	var u services.AdminUser
	var created sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.PassHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = created.String
	return &u, nil
}

func (s *SQLiteStore) AddAdmin(a *services.AdminUser) error {
	_, err := s.db.Exec(`INSERT INTO admins (id, email, pass_hash, created_at) VALUES (?, ?, ?, ?)`,
		a.ID, a.Email, a.PassHash, toNullString(a.CreatedAt))
	return err
}
