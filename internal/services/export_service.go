package services

type ExportStore interface {
	GetSession(id string) (*Session, error)
	GetTemplate(id string) (*SurveyTemplate, error)
	ListParticipantsBySession(sessionID string) ([]*Participant, error)
	ListResponses(pid string) (ResponseTree, error)
}

type ExportParams struct {
	SessionID string
	Kind      Kind
	Format    string // "csv" or "json"
}

type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService produces the admin download artifacts for one session.
type ExportService struct {
	store ExportStore
}

func NewExportService(store ExportStore) *ExportService {
	return &ExportService{store: store}
}

func (s *ExportService) Export(params ExportParams) (*ExportResult, error) {
	if params.SessionID == "" {
		return nil, NewInvalidError("session id required")
	}
	if !params.Kind.Valid() {
		return nil, NewInvalidError("unknown survey kind")
	}
	format := params.Format
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "json" {
		return nil, NewInvalidError("unsupported format")
	}

	sess, err := s.store.GetSession(params.SessionID)
	if err != nil {
		return nil, NewUnavailableError(err.Error())
	}
	if sess == nil {
		return nil, NewNotFoundError("session not found")
	}
	participants, err := s.store.ListParticipantsBySession(sess.ID)
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

	weeks := sess.TargetWeeks(params.Kind)
	var data []byte
	switch {
	case params.Kind == KindSensory && format == "csv":
		// The session's own template reference is always the one
		// flattened against; there is no well-known template id.
		tpl, err := s.store.GetTemplate(sess.SensoryTemplateID)
		if err != nil {
			return nil, NewUnavailableError(err.Error())
		}
		if tpl == nil {
			return nil, NewNotFoundError("sensory template not found")
		}
		data = SensoryCSV(BuildSensoryRows(participants, responses, tpl, weeks))
	case params.Kind == KindSensory && format == "json":
		data, err = SensoryJSON(participants, responses)
		if err != nil {
			return nil, NewInvalidError(err.Error())
		}
	case params.Kind == KindProgress && format == "csv":
		data = ProgressCSV(BuildProgressRows(participants, responses, weeks))
	default:
		data, err = ProgressJSON(participants, responses, weeks)
		if err != nil {
			return nil, NewInvalidError(err.Error())
		}
	}

	contentType := "text/csv; charset=utf-8"
	ext := "csv"
	if format == "json" {
		contentType = "application/json; charset=utf-8"
		ext = "json"
	}
	return &ExportResult{
		Filename:    ExportFilename(params.Kind, sess.Name, ext),
		ContentType: contentType,
		Data:        data,
	}, nil
}
