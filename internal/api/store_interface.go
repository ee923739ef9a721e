package api

import "github.com/slowwearcrew/pawportal/internal/services"

// Store is the persistence surface the router and services run against.
// Both the in-memory store and the sqlite store implement it.
type Store interface {
	GetSession(id string) (*services.Session, error)
	ListSessions() ([]*services.Session, error)
	PutSession(s *services.Session) error

	GetTemplate(id string) (*services.SurveyTemplate, error)
	PutTemplate(t *services.SurveyTemplate) error

	GetParticipant(id string) (*services.Participant, error)
	FindParticipantByAccessCode(code string) (*services.Participant, error)
	ListParticipants() ([]*services.Participant, error)
	ListParticipantsBySession(sessionID string) ([]*services.Participant, error)
	AddParticipant(p *services.Participant) error
	TouchParticipant(id, lastAccess string) error

	ListResponses(participantID string) (services.ResponseTree, error)
	GetWeekResponse(participantID string, week int, kind services.Kind) (*services.WeekResponse, error)
	PutWeekResponse(participantID string, week int, kind services.Kind, wr *services.WeekResponse) error

	GetDraft(key string) (*services.WeekResponse, error)
	PutDraft(key string, wr *services.WeekResponse) error
	DeleteDraft(key string) error

	FindAdminByEmail(email string) (*services.AdminUser, error)
	AddAdmin(a *services.AdminUser) error
}

var _ Store = (*memoryStore)(nil)
