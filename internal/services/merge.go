package services

// MergeForEditing decides which record a survey form should render.
// A draft always represents the complete answer set at last local
// edit, so it fully supersedes the persisted record; there is no
// per-field patching. With neither present the form starts blank.
func MergeForEditing(persisted, draft *WeekResponse) *WeekResponse {
	if draft != nil {
		return draft
	}
	return persisted
}
