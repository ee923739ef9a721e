package services

import (
	"testing"
	"time"
)

type stubSurveyStore struct {
	responses map[string]*WeekResponse
	puts      int
}

func newStubSurveyStore() *stubSurveyStore {
	return &stubSurveyStore{responses: map[string]*WeekResponse{}}
}

func respKey(pid string, week int, kind Kind) string {
	return pid + "/" + WeekLabel(week) + "/" + string(kind)
}

func (s *stubSurveyStore) GetWeekResponse(pid string, week int, kind Kind) (*WeekResponse, error) {
	return s.responses[respKey(pid, week, kind)], nil
}

func (s *stubSurveyStore) PutWeekResponse(pid string, week int, kind Kind, wr *WeekResponse) error {
	s.puts++
	s.responses[respKey(pid, week, kind)] = wr
	return nil
}

type stubDraftStore struct {
	drafts map[string]*WeekResponse
}

func newStubDraftStore() *stubDraftStore {
	return &stubDraftStore{drafts: map[string]*WeekResponse{}}
}

func (s *stubDraftStore) GetDraft(key string) (*WeekResponse, error) { return s.drafts[key], nil }

func (s *stubDraftStore) PutDraft(key string, wr *WeekResponse) error {
	s.drafts[key] = wr
	return nil
}

func (s *stubDraftStore) DeleteDraft(key string) error {
	delete(s.drafts, key)
	return nil
}

func newTestSurveyService(store *stubSurveyStore, drafts *stubDraftStore) *SurveyService {
	svc := NewSurveyService(store, drafts)
	svc.now = func() time.Time { return time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestCollectAnswersSensory(t *testing.T) {
	svc := newTestSurveyService(newStubSurveyStore(), newStubDraftStore())
	tpl := exportTemplate()

	record, complete := svc.CollectAnswers(tpl, SurveyInput{
		Answers: map[string][]Answer{
			"touch": {{Value: 3}, {Value: 2, Note: "hesitant"}},
			"sound": {{Value: 1}},
		},
	}, KindSensory)
	if !complete {
		t.Fatalf("expected complete")
	}
	if record.Timestamp != "2026-01-05T09:00:00.000Z" {
		t.Fatalf("timestamp = %q", record.Timestamp)
	}
	if got := CategoryTotal(record.Category("touch")); got != 5 {
		t.Fatalf("touch total = %d", got)
	}

	// Missing answers collect as unanswered and flag incompleteness.
	record, complete = svc.CollectAnswers(tpl, SurveyInput{
		Answers: map[string][]Answer{"touch": {{Value: 3}}},
	}, KindSensory)
	if complete {
		t.Fatalf("expected incomplete")
	}
	if got := AnswerAt(record.Category("touch"), 1); got.Value != 0 {
		t.Fatalf("missing answer value = %d, want 0", got.Value)
	}
	if record.Category("sound") == nil {
		t.Fatalf("absent category must still collect with defaults")
	}
}

func TestCollectAnswersProgress(t *testing.T) {
	svc := newTestSurveyService(newStubSurveyStore(), newStubDraftStore())
	record, complete := svc.CollectAnswers(nil, SurveyInput{Reaction: "  wore it calmly  ", Memo: "short walk"}, KindProgress)
	if !complete {
		t.Fatalf("expected complete with reaction set")
	}
	if record.DogReaction != "wore it calmly" || record.GuardianMemo != "short walk" {
		t.Fatalf("record = %+v", record)
	}
	if _, complete = svc.CollectAnswers(nil, SurveyInput{Memo: "memo only"}, KindProgress); complete {
		t.Fatalf("reaction is mandatory")
	}
}

func TestSaveDraftNeverRequiresCompleteness(t *testing.T) {
	drafts := newStubDraftStore()
	svc := newTestSurveyService(newStubSurveyStore(), drafts)
	err := svc.SaveDraft("P1", 1, KindSensory, exportTemplate(), SurveyInput{
		Answers: map[string][]Answer{"touch": {{Value: 2}}},
	})
	if err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if drafts.drafts[DraftKey("P1", 1, KindSensory)] == nil {
		t.Fatalf("draft not stored")
	}
}

func TestSubmitIncompletePerformsNoWrite(t *testing.T) {
	store := newStubSurveyStore()
	svc := newTestSurveyService(store, newStubDraftStore())
	_, err := svc.Submit("P1", 1, KindSensory, exportTemplate(), SurveyInput{
		Answers: map[string][]Answer{"touch": {{Value: 1}}},
	})
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorIncomplete {
		t.Fatalf("err = %v, want incomplete", err)
	}
	if store.puts != 0 {
		t.Fatalf("incomplete submit wrote to store")
	}
}

func TestSubmitClearsDraft(t *testing.T) {
	store := newStubSurveyStore()
	drafts := newStubDraftStore()
	svc := newTestSurveyService(store, drafts)
	key := DraftKey("P1", 1, KindProgress)
	drafts.drafts[key] = &WeekResponse{DogReaction: "stale draft"}

	record, err := svc.Submit("P1", 1, KindProgress, nil, SurveyInput{Reaction: "calm all day"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !record.Submitted() {
		t.Fatalf("submitted record missing timestamp")
	}
	if drafts.drafts[key] != nil {
		t.Fatalf("draft survived submission")
	}
	// The cleared draft must not resurrect in the form state.
	form, err := svc.LoadForm("P1", 1, KindProgress)
	if err != nil {
		t.Fatalf("LoadForm: %v", err)
	}
	if form.DogReaction != "calm all day" {
		t.Fatalf("form = %+v", form)
	}
}

func TestSubmitAfterSubmitIsTerminal(t *testing.T) {
	store := newStubSurveyStore()
	svc := newTestSurveyService(store, newStubDraftStore())
	if _, err := svc.Submit("P1", 2, KindProgress, nil, SurveyInput{Reaction: "first"}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := svc.Submit("P1", 2, KindProgress, nil, SurveyInput{Reaction: "second"})
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorConflict {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestSaveDraftAfterSubmitIsRejected(t *testing.T) {
	store := newStubSurveyStore()
	drafts := newStubDraftStore()
	svc := newTestSurveyService(store, drafts)
	if _, err := svc.Submit("P1", 1, KindProgress, nil, SurveyInput{Reaction: "calm all day"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	err := svc.SaveDraft("P1", 1, KindProgress, nil, SurveyInput{Reaction: "late edit"})
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorConflict {
		t.Fatalf("err = %v, want conflict", err)
	}
	if drafts.drafts[DraftKey("P1", 1, KindProgress)] != nil {
		t.Fatalf("draft stored for a finalized week")
	}
	// The finalized record must stay what the form renders.
	form, err := svc.LoadForm("P1", 1, KindProgress)
	if err != nil {
		t.Fatalf("LoadForm: %v", err)
	}
	if form.DogReaction != "calm all day" {
		t.Fatalf("form = %+v, want submitted record", form)
	}
}

func TestOutOfDomainAnswerValuesRejected(t *testing.T) {
	store := newStubSurveyStore()
	drafts := newStubDraftStore()
	svc := newTestSurveyService(store, drafts)

	_, err := svc.Submit("P1", 1, KindSensory, exportTemplate(), SurveyInput{
		Answers: map[string][]Answer{
			"touch": {{Value: 9}, {Value: 1}},
			"sound": {{Value: 1}},
		},
	})
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorInvalid {
		t.Fatalf("err = %v, want invalid", err)
	}
	if store.puts != 0 {
		t.Fatalf("out-of-domain submit wrote to store")
	}

	err = svc.SaveDraft("P1", 1, KindSensory, exportTemplate(), SurveyInput{
		Answers: map[string][]Answer{"touch": {{Value: -2}}},
	})
	se, ok = AsServiceError(err)
	if !ok || se.Code != ErrorInvalid {
		t.Fatalf("err = %v, want invalid", err)
	}
	if drafts.drafts[DraftKey("P1", 1, KindSensory)] != nil {
		t.Fatalf("out-of-domain draft stored")
	}
}

func TestLoadFormDraftWins(t *testing.T) {
	store := newStubSurveyStore()
	drafts := newStubDraftStore()
	svc := newTestSurveyService(store, drafts)
	store.responses[respKey("P1", 1, KindSensory)] = &WeekResponse{Timestamp: "persisted"}
	drafts.drafts[DraftKey("P1", 1, KindSensory)] = &WeekResponse{Timestamp: "draft"}

	form, err := svc.LoadForm("P1", 1, KindSensory)
	if err != nil {
		t.Fatalf("LoadForm: %v", err)
	}
	if form.Timestamp != "draft" {
		t.Fatalf("form timestamp = %q, want draft", form.Timestamp)
	}
}
