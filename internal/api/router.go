package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/slowwearcrew/pawportal/internal/middleware"
	"github.com/slowwearcrew/pawportal/internal/services"
	"github.com/slowwearcrew/pawportal/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

type Router struct {
	store     Store
	auth      *services.AuthService
	surveys   *services.SurveyService
	dashboard *services.DashboardService
	admin     *services.AdminService
	exports   *services.ExportService
}

// NewMemoryStore returns the map-backed Store used when no database
// path is configured.
func NewMemoryStore() Store { return newMemoryStore() }

func NewRouter(store Store) *Router {
	return &Router{
		store:     store,
		auth:      services.NewAuthService(store, middleware.SignToken),
		surveys:   services.NewSurveyService(store, store),
		dashboard: services.NewDashboardService(store),
		admin:     services.NewAdminService(store),
		exports:   services.NewExportService(store),
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/login", rt.handleLogin)            // POST
	mux.HandleFunc("/api/admin/login", rt.handleAdminLogin) // POST
	mux.HandleFunc("/api/seed", rt.handleSeed)              // POST
	mux.Handle("/api/dashboard", middleware.RequireAuth(http.HandlerFunc(rt.handleDashboard)))
	mux.Handle("/api/weeks/", middleware.RequireAuth(http.HandlerFunc(rt.handleWeekDetail)))
	mux.Handle("/api/surveys/", middleware.RequireAuth(http.HandlerFunc(rt.handleSurveyScoped)))
	mux.Handle("/api/missions", middleware.RequireAuth(http.HandlerFunc(rt.handleMissions)))
	mux.Handle("/api/admin/sessions/", middleware.RequireAdmin(http.HandlerFunc(rt.handleAdminSessionScoped)))
	mux.Handle("/api/admin/participants", middleware.RequireAdmin(http.HandlerFunc(rt.handleAdminRoster)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(code services.ErrorCode) int {
	switch code {
	case services.ErrorInvalid:
		return http.StatusBadRequest
	case services.ErrorNotFound:
		return http.StatusNotFound
	case services.ErrorIncomplete:
		return http.StatusUnprocessableEntity
	case services.ErrorConflict:
		return http.StatusConflict
	case services.ErrorUnauthorized:
		return http.StatusUnauthorized
	case services.ErrorUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeServiceError(w http.ResponseWriter, err error) {
	if se, ok := services.AsServiceError(err); ok {
		writeJSON(w, statusFor(se.Code), map[string]string{"error": string(se.Code), "message": se.Message})
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// tierLabels resolves every classification tier into the request
// locale so clients never hardcode label strings.
func tierLabels(locale string) map[string]string {
	out := map[string]string{}
	for _, t := range []services.Tier{services.TierLow, services.TierMedium, services.TierHigh, services.TierNotApplicable, services.TierOutOfRange} {
		out[string(t)] = utils.TierLabel(locale, string(t))
	}
	return out
}

// POST /api/login — access-code entry
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		AccessCode string `json:"access_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.auth.LoginWithAccessCode(req.AccessCode)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token":       res.Token,
		"participant": res.Participant,
		"session":     res.Session,
	})
}

// POST /api/admin/login
func (rt *Router) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.auth.AdminLogin(req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": res.Token, "email": res.Admin.Email})
}

// requireParticipant pulls the authenticated participant out of the
// request context, writing 401 when the token carried no participant.
func requireParticipant(w http.ResponseWriter, r *http.Request) (pid, sessionID string, ok bool) {
	pid, sessionID, ok = middleware.ParticipantFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}
	return pid, sessionID, ok
}

func (rt *Router) templateFor(sessionID string, kind services.Kind) (*services.SurveyTemplate, error) {
	sess, err := rt.store.GetSession(sessionID)
	if err != nil {
		return nil, services.NewUnavailableError(err.Error())
	}
	if sess == nil {
		return nil, services.NewNotFoundError("session not found")
	}
	id := sess.SensoryTemplateID
	if kind == services.KindProgress {
		id = sess.ProgressTemplateID
	}
	tpl, err := rt.store.GetTemplate(id)
	if err != nil {
		return nil, services.NewUnavailableError(err.Error())
	}
	if tpl == nil {
		return nil, services.NewNotFoundError("survey template not found")
	}
	return tpl, nil
}

// GET /api/dashboard
func (rt *Router) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	pid, _, ok := requireParticipant(w, r)
	if !ok {
		return
	}
	view, err := rt.dashboard.Overview(pid)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	locale := middleware.LocaleFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"dashboard": view, "tier_labels": tierLabels(locale)})
}

// GET /api/weeks/{n} — scored breakdown of one submitted week
func (rt *Router) handleWeekDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	pid, _, ok := requireParticipant(w, r)
	if !ok {
		return
	}
	week, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/weeks/"))
	if err != nil || week < 1 {
		http.Error(w, "invalid week", http.StatusBadRequest)
		return
	}
	view, err := rt.dashboard.WeekDetail(pid, week)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	locale := middleware.LocaleFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"week": view, "tier_labels": tierLabels(locale)})
}

// /api/surveys/{week}?kind=sensory|progress
//
//	GET            merged form state (persisted overlaid with draft)
//	POST /draft    stash current answers, no completeness check
//	POST /submit   final submission; conflicts once submitted
func (rt *Router) handleSurveyScoped(w http.ResponseWriter, r *http.Request) {
	pid, sessionID, ok := requireParticipant(w, r)
	if !ok {
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/surveys/")
	parts := strings.Split(rest, "/")
	week, err := strconv.Atoi(parts[0])
	if err != nil || week < 1 {
		http.Error(w, "invalid week", http.StatusBadRequest)
		return
	}
	kind := services.Kind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = services.KindSensory
	}
	if !kind.Valid() {
		http.Error(w, "unknown survey kind", http.StatusBadRequest)
		return
	}

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		form, err := rt.surveys.LoadForm(pid, week, kind)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"week": week, "kind": kind, "form": form})
		return
	}

	if len(parts) != 2 || r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var in services.SurveyInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tpl, err := rt.templateFor(sessionID, kind)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	switch parts[1] {
	case "draft":
		if err := rt.surveys.SaveDraft(pid, week, kind, tpl, in); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	case "submit":
		wr, err := rt.surveys.Submit(pid, week, kind, tpl, in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "timestamp": wr.Timestamp})
	default:
		http.NotFound(w, r)
	}
}

// GET /api/missions — progress journal board
func (rt *Router) handleMissions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	pid, _, ok := requireParticipant(w, r)
	if !ok {
		return
	}
	view, err := rt.dashboard.MissionBoard(pid)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// /api/admin/sessions/{id}/review?kind=   cohort review screen
// /api/admin/sessions/{id}/stats?kind=    bare completion stats
// /api/admin/sessions/{id}/export?kind=&format=csv|json
func (rt *Router) handleAdminSessionScoped(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/admin/sessions/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	sessionID := parts[0]
	kind := services.Kind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = services.KindSensory
	}
	if !kind.Valid() {
		http.Error(w, "unknown survey kind", http.StatusBadRequest)
		return
	}

	switch parts[1] {
	case "review":
		review, err := rt.admin.Review(sessionID, kind)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, review)
	case "stats":
		review, err := rt.admin.Review(sessionID, kind)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, review.Stats)
	case "export":
		res, err := rt.exports.Export(services.ExportParams{
			SessionID: sessionID,
			Kind:      kind,
			Format:    r.URL.Query().Get("format"),
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		w.Header().Set("Content-Type", res.ContentType)
		w.Header().Set("Content-Disposition", "attachment; filename="+res.Filename)
		_, _ = w.Write(res.Data)
	default:
		http.NotFound(w, r)
	}
}

// GET /api/admin/participants — roster across all sessions
func (rt *Router) handleAdminRoster(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	roster, err := rt.admin.ParticipantRoster()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

// POST /api/seed — create a sample session, templates, participants,
// and an admin account for local development.
func (rt *Router) handleSeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sensory := &services.SurveyTemplate{
		ID:   "sensory_sample",
		Kind: services.KindSensory,
		Categories: []*services.Category{
			{
				ID: "touch", Title: "촉각 반응", Icon: "🐾",
				Description: "옷을 입힐 때 몸에 닿는 감각에 대한 반응",
				Questions: []string{
					"옷을 입힐 때 몸을 피하거나 얼어붙나요?",
					"옷을 입은 채로 평소처럼 걷나요?",
					"옷을 벗기려고 몸을 긁거나 무나요?",
				},
				ScoreRange: &services.ScoreRange{Low: [2]int{3, 4}, Medium: [2]int{5, 7}, High: [2]int{8, 9}},
			},
			{
				ID: "sound", Title: "청각 반응", Icon: "👂",
				Description: "벨크로, 지퍼 등 착용 시 소리에 대한 반응",
				Questions: []string{
					"벨크로 소리에 놀라거나 도망가나요?",
					"지퍼를 올릴 때 귀를 뒤로 젖히나요?",
				},
				ScoreRange: &services.ScoreRange{Low: [2]int{2, 3}, Medium: [2]int{4, 5}, High: [2]int{6, 6}},
			},
		},
	}
	progress := &services.SurveyTemplate{
		ID:   "progress_sample",
		Kind: services.KindProgress,
		Missions: []services.Mission{
			{Title: "1주차: 하루 10분씩 옷을 입혀보세요"},
			{Title: "2주차: 옷을 입은 채로 실내 놀이를 해보세요"},
			{Title: "3주차: 옷을 입고 짧은 산책을 나가보세요"},
			{Title: "4주차: 평소 산책 코스를 옷을 입고 완주해보세요"},
		},
	}
	sess := &services.Session{
		ID:                 "SAMPLE",
		Name:               "2026 봄 시즌",
		StartDate:          "2026-03-02",
		EndDate:            "2026-03-29",
		SensoryTemplateID:  sensory.ID,
		ProgressTemplateID: progress.ID,
	}
	_ = rt.store.PutTemplate(sensory)
	_ = rt.store.PutTemplate(progress)
	_ = rt.store.PutSession(sess)
	codes := []struct{ code, pet string }{{"DOG1", "콩이"}, {"DOG2", "바둑이"}}
	for i, c := range codes {
		_ = rt.store.AddParticipant(&services.Participant{
			ID:         "p" + strconv.Itoa(i+1),
			AccessCode: c.code,
			SessionID:  sess.ID,
			PetName:    c.pet,
		})
	}
	if admin, _ := rt.store.FindAdminByEmail("admin@example.com"); admin == nil {
		hash, _ := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
		_ = rt.store.AddAdmin(&services.AdminUser{ID: "a0000001", Email: "admin@example.com", PassHash: hash})
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "session_id": sess.ID, "access_codes": []string{"DOG1", "DOG2"}})
}
