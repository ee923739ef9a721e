package services

import (
	"strings"

	"github.com/google/uuid"
)

func shortID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}

// Kind selects which of the two weekly surveys a record belongs to.
type Kind string

const (
	KindSensory  Kind = "sensory"
	KindProgress Kind = "progress"
)

// Valid reports whether k names a known survey kind.
func (k Kind) Valid() bool { return k == KindSensory || k == KindProgress }

// ScoreRange defines the three contiguous inclusive intervals used to
// classify a category total into a sensitivity tier. All three must be
// supplied together; a template without a range classifies as N/A.
type ScoreRange struct {
	Low    [2]int `json:"low"`
	Medium [2]int `json:"medium"`
	High   [2]int `json:"high"`
}

// Category is one block of a sensory survey template.
type Category struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Icon        string      `json:"icon,omitempty"`
	Description string      `json:"description,omitempty"`
	Questions   []string    `json:"questions"`
	ScoreRange  *ScoreRange `json:"scoreRange,omitempty"`
}

// Mission is the per-week task descriptor of a progress template.
type Mission struct {
	Title string `json:"title"`
}

// SurveyTemplate holds either the ordered sensory categories or the
// ordered per-week missions, depending on Kind.
type SurveyTemplate struct {
	ID         string      `json:"id"`
	Kind       Kind        `json:"kind"`
	Categories []*Category `json:"categories,omitempty"`
	Missions   []Mission   `json:"missions,omitempty"`
}

// QuestionCount sums the question lists of all categories.
func (t *SurveyTemplate) QuestionCount() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, c := range t.Categories {
		n += len(c.Questions)
	}
	return n
}

// Session is one cohort/run of the study. Immutable once created.
type Session struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	StartDate          string `json:"startDate,omitempty"`
	EndDate            string `json:"endDate,omitempty"`
	SensoryTemplateID  string `json:"sensorySurveyTemplateId"`
	ProgressTemplateID string `json:"wearingProgressSurveyTemplateId"`
	SensoryWeeks       []int  `json:"sensoryWeeks,omitempty"`
	ProgressWeeks      []int  `json:"progressWeeks,omitempty"`
}

// TargetWeeks returns the week numbers a session expects for a kind,
// falling back to the program defaults when the session carries none.
func (s *Session) TargetWeeks(kind Kind) []int {
	if s != nil {
		if kind == KindSensory && len(s.SensoryWeeks) > 0 {
			return s.SensoryWeeks
		}
		if kind == KindProgress && len(s.ProgressWeeks) > 0 {
			return s.ProgressWeeks
		}
	}
	if kind == KindSensory {
		return []int{1, 4}
	}
	return []int{1, 2, 3, 4}
}

// Participant logs in with an access code unique within its session.
// Only LastAccess is ever mutated after creation.
type Participant struct {
	ID         string `json:"id"`
	AccessCode string `json:"accessCode"`
	SessionID  string `json:"sessionId"`
	PetName    string `json:"pet,omitempty"`
	LastAccess string `json:"lastAccess,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
}

// AdminUser is a dashboard account with a bcrypt password hash.
type AdminUser struct {
	ID        string
	Email     string
	PassHash  []byte
	CreatedAt string
}

// Answer is one multiple-choice response. Value 1..3 when answered,
// 0 when unanswered. Note is optional free text.
type Answer struct {
	Value int    `json:"value"`
	Note  string `json:"note"`
}

// CategoryResponse carries one Answer per template question, in
// template order.
type CategoryResponse struct {
	Questions []Answer `json:"questions"`
}

// WeekResponse is a single submitted (or drafted) weekly record.
// Sensory records fill Categories; progress records fill the
// reaction/memo pair. Timestamp is set on collection and doubles as
// the submission marker once persisted.
type WeekResponse struct {
	Categories   map[string]*CategoryResponse `json:"categories,omitempty"`
	DogReaction  string                       `json:"dogReaction,omitempty"`
	GuardianMemo string                       `json:"guardianMemo,omitempty"`
	Timestamp    string                       `json:"timestamp"`
}

// Submitted reports whether w represents a persisted submission.
func (w *WeekResponse) Submitted() bool { return w != nil && w.Timestamp != "" }

// Category returns the stored response for a category id, or nil.
func (w *WeekResponse) Category(id string) *CategoryResponse {
	if w == nil || w.Categories == nil {
		return nil
	}
	return w.Categories[id]
}

// WeekRecord groups the two kinds of response stored for one week.
type WeekRecord struct {
	Sensory  *WeekResponse `json:"sensory,omitempty"`
	Progress *WeekResponse `json:"progress,omitempty"`
}

// ByKind selects the response of the given kind, nil-safe.
func (r *WeekRecord) ByKind(kind Kind) *WeekResponse {
	if r == nil {
		return nil
	}
	if kind == KindProgress {
		return r.Progress
	}
	return r.Sensory
}

// ResponseTree is every stored week record of one participant, keyed
// by week number.
type ResponseTree map[int]*WeekRecord

// Week returns the response for (week, kind), or nil when absent.
func (t ResponseTree) Week(week int, kind Kind) *WeekResponse {
	if t == nil {
		return nil
	}
	return t[week].ByKind(kind)
}
