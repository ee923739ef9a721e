package services

import "testing"

func TestMergeForEditing(t *testing.T) {
	persisted := &WeekResponse{
		Categories: map[string]*CategoryResponse{"touch": {Questions: []Answer{{Value: 1}}}},
		Timestamp:  "2026-02-03T10:00:00.000Z",
	}
	draft := &WeekResponse{
		Categories: map[string]*CategoryResponse{"touch": {Questions: []Answer{{Value: 3}}}},
		Timestamp:  "2026-02-04T09:30:00.000Z",
	}

	// Draft always wins, regardless of persisted content.
	if got := MergeForEditing(persisted, draft); got != draft {
		t.Fatalf("draft did not supersede persisted")
	}
	if got := MergeForEditing(nil, draft); got != draft {
		t.Fatalf("draft not returned when persisted absent")
	}
	if got := MergeForEditing(persisted, nil); got != persisted {
		t.Fatalf("persisted not returned when draft absent")
	}
	if got := MergeForEditing(nil, nil); got != nil {
		t.Fatalf("expected nil for blank form, got %+v", got)
	}
}
