package services

import "testing"

type stubAdminStore struct {
	sessions     []*Session
	participants []*Participant
	responses    map[string]ResponseTree
}

func (s *stubAdminStore) GetSession(id string) (*Session, error) {
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess, nil
		}
	}
	return nil, nil
}

func (s *stubAdminStore) ListSessions() ([]*Session, error) { return s.sessions, nil }

func (s *stubAdminStore) ListParticipants() ([]*Participant, error) { return s.participants, nil }

func (s *stubAdminStore) ListParticipantsBySession(sessionID string) ([]*Participant, error) {
	out := []*Participant{}
	for _, p := range s.participants {
		if p.SessionID == sessionID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubAdminStore) ListResponses(pid string) (ResponseTree, error) {
	return s.responses[pid], nil
}

var _ AdminStore = (*stubAdminStore)(nil)

func newAdminFixture() *stubAdminStore {
	return &stubAdminStore{
		sessions: []*Session{{ID: "S1", Name: "Spring Cohort", SensoryTemplateID: "tpl_s", ProgressTemplateID: "tpl_p"}},
		participants: []*Participant{
			{ID: "P1", SessionID: "S1", AccessCode: "AAAA"},
			{ID: "P2", SessionID: "S1", AccessCode: "BBBB"},
			{ID: "P3", SessionID: "S1", AccessCode: "CCCC"},
		},
		responses: map[string]ResponseTree{
			"P1": {
				1: {Sensory: submitted("t1")},
				4: {Sensory: submitted("t2")},
			},
			"P2": {1: {Sensory: submitted("t3")}},
		},
	}
}

func TestAdminReview(t *testing.T) {
	svc := NewAdminService(newAdminFixture())
	review, err := svc.Review("S1", KindSensory)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if review.Stats.Total != 3 || review.Stats.PerWeek[1] != 2 || review.Stats.PerWeek[4] != 1 {
		t.Fatalf("stats = %+v", review.Stats)
	}
	if review.Stats.AllComplete != 1 {
		t.Fatalf("AllComplete = %d, want 1", review.Stats.AllComplete)
	}
	want := map[string]CompletionStatus{"P1": StatusComplete, "P2": StatusPartial, "P3": StatusNoResponse}
	for _, pr := range review.Participants {
		if pr.Status != want[pr.ParticipantID] {
			t.Fatalf("%s status = %s, want %s", pr.ParticipantID, pr.Status, want[pr.ParticipantID])
		}
	}
}

func TestAdminReviewUnknownSession(t *testing.T) {
	svc := NewAdminService(newAdminFixture())
	_, err := svc.Review("missing", KindSensory)
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorNotFound {
		t.Fatalf("err = %v, want not_found", err)
	}
}

func TestAdminParticipantRoster(t *testing.T) {
	svc := NewAdminService(newAdminFixture())
	roster, err := svc.ParticipantRoster()
	if err != nil {
		t.Fatalf("ParticipantRoster: %v", err)
	}
	if roster.Total != 3 || roster.WithResponses != 2 || roster.NoResponses != 1 {
		t.Fatalf("roster = %+v", roster)
	}
	for _, e := range roster.Entries {
		if e.SessionName != "Spring Cohort" {
			t.Fatalf("session name = %q", e.SessionName)
		}
		if e.ParticipantID == "P1" && e.ResponseCount != 2 {
			t.Fatalf("P1 response count = %d", e.ResponseCount)
		}
	}
}
