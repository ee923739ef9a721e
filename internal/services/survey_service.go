package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type ErrorCode string

const (
	ErrorInvalid      ErrorCode = "invalid"
	ErrorNotFound     ErrorCode = "not_found"
	ErrorIncomplete   ErrorCode = "incomplete"
	ErrorConflict     ErrorCode = "conflict"
	ErrorUnauthorized ErrorCode = "unauthorized"
	ErrorUnavailable  ErrorCode = "unavailable"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewInvalidError(msg string) error    { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewNotFoundError(msg string) error   { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewIncompleteError(msg string) error { return &ServiceError{Code: ErrorIncomplete, Message: msg} }
func NewConflictError(msg string) error   { return &ServiceError{Code: ErrorConflict, Message: msg} }
func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}

func NewUnavailableError(msg string) error {
	return &ServiceError{Code: ErrorUnavailable, Message: msg}
}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// SurveyStore is the persistence surface the submission workflow needs.
// Writes are whole-record overwrites; there is no partial merge.
type SurveyStore interface {
	GetWeekResponse(pid string, week int, kind Kind) (*WeekResponse, error)
	PutWeekResponse(pid string, week int, kind Kind, wr *WeekResponse) error
}

// DraftStore is the scratch storage for unsubmitted answer state,
// keyed by composite string key. Local to one client session.
type DraftStore interface {
	GetDraft(key string) (*WeekResponse, error)
	PutDraft(key string, wr *WeekResponse) error
	DeleteDraft(key string) error
}

// DraftKey builds the composite scratch key for one
// (participant, week, kind).
func DraftKey(pid string, week int, kind Kind) string {
	return fmt.Sprintf("draft_%s_week%d_%s", kind, week, pid)
}

// SurveyInput is the raw form state collected by the client: answers
// keyed by category id in template question order (sensory), or the
// reaction/memo pair (progress).
type SurveyInput struct {
	Answers  map[string][]Answer `json:"answers,omitempty"`
	Reaction string              `json:"reaction,omitempty"`
	Memo     string              `json:"memo,omitempty"`
}

// SurveyService hosts draft reconciliation and final submission for
// both survey kinds.
type SurveyService struct {
	store  SurveyStore
	drafts DraftStore
	now    func() time.Time
}

func NewSurveyService(store SurveyStore, drafts DraftStore) *SurveyService {
	return &SurveyService{
		store:  store,
		drafts: drafts,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// isoTimestamp matches the wire format responses have always carried.
func isoTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// CollectAnswers assembles a complete week record from the current
// input state, walking the template so every question has a slot:
// unanswered questions collect as value 0. The second result reports
// whether every required field is answered.
func (s *SurveyService) CollectAnswers(tpl *SurveyTemplate, in SurveyInput, kind Kind) (*WeekResponse, bool) {
	record := &WeekResponse{Timestamp: isoTimestamp(s.now())}
	if kind == KindProgress {
		record.DogReaction = strings.TrimSpace(in.Reaction)
		record.GuardianMemo = strings.TrimSpace(in.Memo)
		return record, record.DogReaction != ""
	}
	complete := true
	record.Categories = map[string]*CategoryResponse{}
	if tpl == nil {
		return record, false
	}
	for _, cat := range tpl.Categories {
		cr := &CategoryResponse{Questions: make([]Answer, len(cat.Questions))}
		given := in.Answers[cat.ID]
		for qi := range cat.Questions {
			var a Answer
			if qi < len(given) {
				a = given[qi]
			}
			if a.Value == 0 {
				complete = false
			}
			cr.Questions[qi] = a
		}
		record.Categories[cat.ID] = cr
	}
	return record, complete
}

// validateAnswers rejects answer values outside the 0..3 domain
// (0 meaning unanswered). The client's radio inputs cannot produce
// these, so any such value is a malformed request, not study data.
func validateAnswers(in SurveyInput) error {
	for _, answers := range in.Answers {
		for _, a := range answers {
			if a.Value < 0 || a.Value > 3 {
				return NewInvalidError("answer value out of range")
			}
		}
	}
	return nil
}

// LoadForm returns the record a survey form should render: the draft
// when one exists, else the persisted submission, else nil for a
// blank form.
func (s *SurveyService) LoadForm(pid string, week int, kind Kind) (*WeekResponse, error) {
	persisted, err := s.store.GetWeekResponse(pid, week, kind)
	if err != nil {
		return nil, NewUnavailableError(err.Error())
	}
	draft, err := s.drafts.GetDraft(DraftKey(pid, week, kind))
	if err != nil {
		return nil, NewUnavailableError(err.Error())
	}
	return MergeForEditing(persisted, draft), nil
}

// SaveDraft persists the current, possibly incomplete, input state to
// scratch storage. Draft saving never requires completeness, but a
// finalized week accepts no further drafts: a draft stored after
// submission would shadow the submitted record in LoadForm forever.
func (s *SurveyService) SaveDraft(pid string, week int, kind Kind, tpl *SurveyTemplate, in SurveyInput) error {
	if !kind.Valid() {
		return NewInvalidError("unknown survey kind")
	}
	if err := validateAnswers(in); err != nil {
		return err
	}
	existing, err := s.store.GetWeekResponse(pid, week, kind)
	if err != nil {
		return NewUnavailableError(err.Error())
	}
	if existing.Submitted() {
		return NewConflictError("week already submitted")
	}
	record, _ := s.CollectAnswers(tpl, in, kind)
	if err := s.drafts.PutDraft(DraftKey(pid, week, kind), record); err != nil {
		return NewUnavailableError(err.Error())
	}
	return nil
}

// Submit validates completeness, writes the whole record, and clears
// the draft so stale local state can never resurrect a finalized
// week. An already submitted week is terminal and rejects the write.
func (s *SurveyService) Submit(pid string, week int, kind Kind, tpl *SurveyTemplate, in SurveyInput) (*WeekResponse, error) {
	if !kind.Valid() {
		return nil, NewInvalidError("unknown survey kind")
	}
	if week < 1 {
		return nil, NewInvalidError("invalid week")
	}
	if err := validateAnswers(in); err != nil {
		return nil, err
	}
	existing, err := s.store.GetWeekResponse(pid, week, kind)
	if err != nil {
		return nil, NewUnavailableError(err.Error())
	}
	if existing.Submitted() {
		return nil, NewConflictError("week already submitted")
	}
	record, complete := s.CollectAnswers(tpl, in, kind)
	if !complete {
		return nil, NewIncompleteError("all questions must be answered")
	}
	if err := s.store.PutWeekResponse(pid, week, kind, record); err != nil {
		return nil, NewUnavailableError(err.Error())
	}
	if err := s.drafts.DeleteDraft(DraftKey(pid, week, kind)); err != nil {
		return nil, NewUnavailableError(err.Error())
	}
	return record, nil
}
