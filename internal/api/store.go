package api

import (
	"sort"
	"strings"
	"sync"

	"github.com/slowwearcrew/pawportal/internal/services"
)

// memoryStore keeps everything in maps behind one RWMutex. It is the
// default backend for tests and for running without a database file.
type memoryStore struct {
	mu           sync.RWMutex
	sessions     map[string]*services.Session
	templates    map[string]*services.SurveyTemplate
	participants map[string]*services.Participant
	byCode       map[string]*services.Participant
	responses    map[string]services.ResponseTree
	drafts       map[string]*services.WeekResponse
	admins       map[string]*services.AdminUser
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		sessions:     map[string]*services.Session{},
		templates:    map[string]*services.SurveyTemplate{},
		participants: map[string]*services.Participant{},
		byCode:       map[string]*services.Participant{},
		responses:    map[string]services.ResponseTree{},
		drafts:       map[string]*services.WeekResponse{},
		admins:       map[string]*services.AdminUser{},
	}
}

func (m *memoryStore) GetSession(id string) (*services.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id], nil
}

func (m *memoryStore) ListSessions() ([]*services.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*services.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStore) PutSession(s *services.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memoryStore) GetTemplate(id string) (*services.SurveyTemplate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.templates[id], nil
}

func (m *memoryStore) PutTemplate(t *services.SurveyTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[t.ID] = t
	return nil
}

func (m *memoryStore) GetParticipant(id string) (*services.Participant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.participants[id], nil
}

func (m *memoryStore) FindParticipantByAccessCode(code string) (*services.Participant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byCode[services.NormalizeAccessCode(code)], nil
}

func (m *memoryStore) ListParticipants() ([]*services.Participant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*services.Participant, 0, len(m.participants))
	for _, p := range m.participants {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStore) ListParticipantsBySession(sessionID string) ([]*services.Participant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*services.Participant{}
	for _, p := range m.participants {
		if p.SessionID == sessionID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStore) AddParticipant(p *services.Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.AccessCode = services.NormalizeAccessCode(p.AccessCode)
	m.participants[p.ID] = p
	m.byCode[p.AccessCode] = p
	return nil
}

func (m *memoryStore) TouchParticipant(id, lastAccess string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p := m.participants[id]; p != nil {
		p.LastAccess = lastAccess
	}
	return nil
}

func (m *memoryStore) ListResponses(participantID string) (services.ResponseTree, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.responses[participantID], nil
}

func (m *memoryStore) GetWeekResponse(participantID string, week int, kind services.Kind) (*services.WeekResponse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.responses[participantID].Week(week, kind), nil
}

func (m *memoryStore) PutWeekResponse(participantID string, week int, kind services.Kind, wr *services.WeekResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tree := m.responses[participantID]
	if tree == nil {
		tree = services.ResponseTree{}
		m.responses[participantID] = tree
	}
	rec := tree[week]
	if rec == nil {
		rec = &services.WeekRecord{}
		tree[week] = rec
	}
	if kind == services.KindProgress {
		rec.Progress = wr
	} else {
		rec.Sensory = wr
	}
	return nil
}

func (m *memoryStore) GetDraft(key string) (*services.WeekResponse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drafts[key], nil
}

func (m *memoryStore) PutDraft(key string, wr *services.WeekResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[key] = wr
	return nil
}

func (m *memoryStore) DeleteDraft(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, key)
	return nil
}

func (m *memoryStore) FindAdminByEmail(email string) (*services.AdminUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.admins[strings.ToLower(email)], nil
}

func (m *memoryStore) AddAdmin(a *services.AdminUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.admins[strings.ToLower(a.Email)] = a
	return nil
}
