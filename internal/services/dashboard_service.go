package services

type DashboardStore interface {
	GetParticipant(id string) (*Participant, error)
	GetSession(id string) (*Session, error)
	GetTemplate(id string) (*SurveyTemplate, error)
	ListResponses(pid string) (ResponseTree, error)
}

// CategoryScore is one category's total and tier for a submitted week.
type CategoryScore struct {
	CategoryID string `json:"category_id"`
	Title      string `json:"title"`
	Icon       string `json:"icon,omitempty"`
	Total      int    `json:"total"`
	Tier       Tier   `json:"tier"`
}

// WeekSummary is the dashboard card state for one target week.
type WeekSummary struct {
	Week      int             `json:"week"`
	Submitted bool            `json:"submitted"`
	Timestamp string          `json:"timestamp,omitempty"`
	Scores    []CategoryScore `json:"scores,omitempty"`
}

// DashboardView is everything the participant dashboard renders.
type DashboardView struct {
	Session     *Session      `json:"session"`
	PetName     string        `json:"pet_name,omitempty"`
	TargetWeeks []int         `json:"target_weeks"`
	Completed   int           `json:"completed"`
	Weeks       []WeekSummary `json:"weeks"`
}

// QuestionAnswer pairs a template question with its stored answer.
type QuestionAnswer struct {
	Question string `json:"question"`
	Value    int    `json:"value"`
	Note     string `json:"note,omitempty"`
}

// CategoryDetail is the per-question breakdown shown on the week
// detail screen.
type CategoryDetail struct {
	CategoryScore
	Description string           `json:"description,omitempty"`
	Questions   []QuestionAnswer `json:"questions"`
}

// WeekDetailView is one submitted week's full scored breakdown.
type WeekDetailView struct {
	Week       int              `json:"week"`
	Timestamp  string           `json:"timestamp"`
	Categories []CategoryDetail `json:"categories"`
}

// MissionCard is one week's journal slot on the progress board.
type MissionCard struct {
	Week      int    `json:"week"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Reaction  string `json:"reaction,omitempty"`
	Memo      string `json:"memo,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// MissionBoardView is the full progress journal for one participant.
type MissionBoardView struct {
	Session  *Session      `json:"session"`
	PetName  string        `json:"pet_name,omitempty"`
	Missions []MissionCard `json:"missions"`
}

// DashboardService assembles the participant-facing read views from
// already-fetched snapshots; all computation is synchronous and pure.
type DashboardService struct {
	store DashboardStore
}

func NewDashboardService(store DashboardStore) *DashboardService {
	return &DashboardService{store: store}
}

func (s *DashboardService) context(pid string) (*Participant, *Session, ResponseTree, error) {
	p, err := s.store.GetParticipant(pid)
	if err != nil {
		return nil, nil, nil, NewUnavailableError(err.Error())
	}
	if p == nil {
		return nil, nil, nil, NewNotFoundError("participant not found")
	}
	sess, err := s.store.GetSession(p.SessionID)
	if err != nil {
		return nil, nil, nil, NewUnavailableError(err.Error())
	}
	if sess == nil {
		return nil, nil, nil, NewNotFoundError("session not found")
	}
	tree, err := s.store.ListResponses(pid)
	if err != nil {
		return nil, nil, nil, NewUnavailableError(err.Error())
	}
	return p, sess, tree, nil
}

// Overview builds the participant dashboard: per-target-week status
// with category totals and tiers for submitted weeks.
func (s *DashboardService) Overview(pid string) (*DashboardView, error) {
	p, sess, tree, err := s.context(pid)
	if err != nil {
		return nil, err
	}
	tpl, err := s.store.GetTemplate(sess.SensoryTemplateID)
	if err != nil {
		return nil, NewUnavailableError(err.Error())
	}
	if tpl == nil {
		return nil, NewNotFoundError("sensory template not found")
	}

	view := &DashboardView{Session: sess, PetName: p.PetName, TargetWeeks: sess.TargetWeeks(KindSensory)}
	for _, week := range view.TargetWeeks {
		wr := tree.Week(week, KindSensory)
		summary := WeekSummary{Week: week, Submitted: wr.Submitted()}
		if summary.Submitted {
			view.Completed++
			summary.Timestamp = wr.Timestamp
			summary.Scores = scoreCategories(tpl, wr)
		}
		view.Weeks = append(view.Weeks, summary)
	}
	return view, nil
}

// WeekDetail returns the scored per-question breakdown of one
// submitted sensory week.
func (s *DashboardService) WeekDetail(pid string, week int) (*WeekDetailView, error) {
	_, sess, tree, err := s.context(pid)
	if err != nil {
		return nil, err
	}
	wr := tree.Week(week, KindSensory)
	if !wr.Submitted() {
		return nil, NewNotFoundError("no response for this week")
	}
	tpl, err := s.store.GetTemplate(sess.SensoryTemplateID)
	if err != nil {
		return nil, NewUnavailableError(err.Error())
	}
	if tpl == nil {
		return nil, NewNotFoundError("sensory template not found")
	}

	detail := &WeekDetailView{Week: week, Timestamp: wr.Timestamp}
	for _, cat := range tpl.Categories {
		cr := wr.Category(cat.ID)
		if cr == nil {
			continue
		}
		total := CategoryTotal(cr)
		cd := CategoryDetail{
			CategoryScore: CategoryScore{
				CategoryID: cat.ID,
				Title:      cat.Title,
				Icon:       cat.Icon,
				Total:      total,
				Tier:       Classify(total, cat.ScoreRange),
			},
			Description: cat.Description,
		}
		for qi, question := range cat.Questions {
			ans := AnswerAt(cr, qi)
			cd.Questions = append(cd.Questions, QuestionAnswer{Question: question, Value: ans.Value, Note: ans.Note})
		}
		detail.Categories = append(detail.Categories, cd)
	}
	return detail, nil
}

// MissionBoard builds the weekly journal view: each configured week's
// mission paired with the submitted entry when one exists.
func (s *DashboardService) MissionBoard(pid string) (*MissionBoardView, error) {
	p, sess, tree, err := s.context(pid)
	if err != nil {
		return nil, err
	}
	tpl, err := s.store.GetTemplate(sess.ProgressTemplateID)
	if err != nil {
		return nil, NewUnavailableError(err.Error())
	}
	if tpl == nil {
		return nil, NewNotFoundError("progress template not found")
	}

	view := &MissionBoardView{Session: sess, PetName: p.PetName}
	for i, week := range sess.TargetWeeks(KindProgress) {
		card := MissionCard{Week: week}
		if i < len(tpl.Missions) {
			card.Title = tpl.Missions[i].Title
		}
		if wr := tree.Week(week, KindProgress); wr.Submitted() {
			card.Completed = true
			card.Reaction = wr.DogReaction
			card.Memo = wr.GuardianMemo
			card.Timestamp = wr.Timestamp
		}
		view.Missions = append(view.Missions, card)
	}
	return view, nil
}

func scoreCategories(tpl *SurveyTemplate, wr *WeekResponse) []CategoryScore {
	var scores []CategoryScore
	for _, cat := range tpl.Categories {
		cr := wr.Category(cat.ID)
		if cr == nil {
			continue
		}
		total := CategoryTotal(cr)
		scores = append(scores, CategoryScore{
			CategoryID: cat.ID,
			Title:      cat.Title,
			Icon:       cat.Icon,
			Total:      total,
			Tier:       Classify(total, cat.ScoreRange),
		})
	}
	return scores
}
