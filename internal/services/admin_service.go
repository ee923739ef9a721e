package services

type AdminStore interface {
	GetSession(id string) (*Session, error)
	ListSessions() ([]*Session, error)
	ListParticipants() ([]*Participant, error)
	ListParticipantsBySession(sessionID string) ([]*Participant, error)
	ListResponses(pid string) (ResponseTree, error)
}

// CompletionStatus summarizes one participant's standing across the
// requested weeks.
type CompletionStatus string

const (
	StatusComplete   CompletionStatus = "complete"
	StatusPartial    CompletionStatus = "partial"
	StatusNoResponse CompletionStatus = "none"
)

// ParticipantReview is one row of the admin per-participant table.
type ParticipantReview struct {
	ParticipantID string           `json:"participant_id"`
	PetName       string           `json:"pet_name,omitempty"`
	AccessCode    string           `json:"access_code"`
	LastAccess    string           `json:"last_access,omitempty"`
	Weeks         map[int]bool     `json:"weeks"`
	Completed     int              `json:"completed"`
	Status        CompletionStatus `json:"status"`
}

// SessionReview is the admin review screen for one session and kind:
// cohort stats plus per-participant presence.
type SessionReview struct {
	Session      *Session            `json:"session"`
	Kind         Kind                `json:"kind"`
	Weeks        []int               `json:"weeks"`
	Stats        CohortStats         `json:"stats"`
	Participants []ParticipantReview `json:"participants"`
}

// RosterEntry is one row of the all-participants roster.
type RosterEntry struct {
	ParticipantID string `json:"participant_id"`
	AccessCode    string `json:"access_code"`
	SessionName   string `json:"session_name"`
	LastAccess    string `json:"last_access,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
	ResponseCount int    `json:"response_count"`
}

// Roster is the participant overview across all sessions.
type Roster struct {
	Total         int           `json:"total"`
	WithResponses int           `json:"with_responses"`
	NoResponses   int           `json:"no_responses"`
	Entries       []RosterEntry `json:"entries"`
}

// AdminService serves the administrator review screens. One
// parameterized implementation covers both survey kinds.
type AdminService struct {
	store AdminStore
}

func NewAdminService(store AdminStore) *AdminService {
	return &AdminService{store: store}
}

// Review computes the session's cohort stats and per-participant
// week presence for the given kind.
func (s *AdminService) Review(sessionID string, kind Kind) (*SessionReview, error) {
	if !kind.Valid() {
		return nil, NewInvalidError("unknown survey kind")
	}
	sess, err := s.store.GetSession(sessionID)
	if err != nil {
		return nil, NewUnavailableError(err.Error())
	}
	if sess == nil {
		return nil, NewNotFoundError("session not found")
	}
	participants, err := s.store.ListParticipantsBySession(sessionID)
	if err != nil {
		return nil, NewUnavailableError(err.Error())
	}
	responses := map[string]ResponseTree{}
	for _, p := range participants {
		tree, err := s.store.ListResponses(p.ID)
		if err != nil {
			return nil, NewUnavailableError(err.Error())
		}
		responses[p.ID] = tree
	}

	weeks := sess.TargetWeeks(kind)
	review := &SessionReview{
		Session: sess,
		Kind:    kind,
		Weeks:   weeks,
		Stats:   ComputeCohortStats(participants, responses, weeks, kind),
	}
	for _, p := range participants {
		tree := responses[p.ID]
		pr := ParticipantReview{
			ParticipantID: p.ID,
			PetName:       p.PetName,
			AccessCode:    p.AccessCode,
			LastAccess:    p.LastAccess,
			Weeks:         make(map[int]bool, len(weeks)),
		}
		for _, w := range weeks {
			present := tree.Week(w, kind).Submitted()
			pr.Weeks[w] = present
			if present {
				pr.Completed++
			}
		}
		switch {
		case pr.Completed == len(weeks) && len(weeks) > 0:
			pr.Status = StatusComplete
		case pr.Completed > 0:
			pr.Status = StatusPartial
		default:
			pr.Status = StatusNoResponse
		}
		review.Participants = append(review.Participants, pr)
	}
	return review, nil
}

// ParticipantRoster lists every participant with its session name and
// stored response count.
func (s *AdminService) ParticipantRoster() (*Roster, error) {
	participants, err := s.store.ListParticipants()
	if err != nil {
		return nil, NewUnavailableError(err.Error())
	}
	sessions, err := s.store.ListSessions()
	if err != nil {
		return nil, NewUnavailableError(err.Error())
	}
	names := make(map[string]string, len(sessions))
	for _, sess := range sessions {
		names[sess.ID] = sess.Name
	}

	roster := &Roster{Total: len(participants)}
	for _, p := range participants {
		tree, err := s.store.ListResponses(p.ID)
		if err != nil {
			return nil, NewUnavailableError(err.Error())
		}
		name := names[p.SessionID]
		if name == "" {
			name = p.SessionID
		}
		count := len(tree)
		if count > 0 {
			roster.WithResponses++
		}
		roster.Entries = append(roster.Entries, RosterEntry{
			ParticipantID: p.ID,
			AccessCode:    p.AccessCode,
			SessionName:   name,
			LastAccess:    p.LastAccess,
			CreatedAt:     p.CreatedAt,
			ResponseCount: count,
		})
	}
	roster.NoResponses = roster.Total - roster.WithResponses
	return roster, nil
}
