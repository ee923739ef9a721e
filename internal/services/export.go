package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SensoryRow is one fully expanded export row: participant x week x
// category x question.
type SensoryRow struct {
	ParticipantID string
	AccessCode    string
	Week          int
	Category      string
	Question      string
	Score         int
	Note          string
	Timestamp     string
}

// ProgressRow is one participant x week journal export row.
type ProgressRow struct {
	ParticipantID string
	PetName       string
	AccessCode    string
	Week          int
	Reaction      string
	Memo          string
	Timestamp     string
}

// WeekLabel renders the week key used in storage paths and exports.
func WeekLabel(week int) string { return "week" + strconv.Itoa(week) }

// BuildSensoryRows flattens the per-participant response trees into
// row records. Output is sparse: weeks or categories without data
// produce no rows. Ordering is deterministic: participants in input
// order, weeks in the given order, categories and questions in
// template order.
func BuildSensoryRows(participants []*Participant, responses map[string]ResponseTree, tpl *SurveyTemplate, weeks []int) []SensoryRow {
	var rows []SensoryRow
	if tpl == nil {
		return rows
	}
	for _, p := range participants {
		tree := responses[p.ID]
		for _, week := range weeks {
			wr := tree.Week(week, KindSensory)
			if !wr.Submitted() {
				continue
			}
			for _, cat := range tpl.Categories {
				cr := wr.Category(cat.ID)
				if cr == nil {
					continue
				}
				for qi, question := range cat.Questions {
					ans := AnswerAt(cr, qi)
					rows = append(rows, SensoryRow{
						ParticipantID: p.ID,
						AccessCode:    p.AccessCode,
						Week:          week,
						Category:      cat.Title,
						Question:      question,
						Score:         ans.Value,
						Note:          ans.Note,
						Timestamp:     wr.Timestamp,
					})
				}
			}
		}
	}
	return rows
}

// BuildProgressRows flattens journal entries: one row per submitted
// participant-week, in input/given order.
func BuildProgressRows(participants []*Participant, responses map[string]ResponseTree, weeks []int) []ProgressRow {
	var rows []ProgressRow
	for _, p := range participants {
		tree := responses[p.ID]
		for _, week := range weeks {
			wr := tree.Week(week, KindProgress)
			if !wr.Submitted() {
				continue
			}
			rows = append(rows, ProgressRow{
				ParticipantID: p.ID,
				PetName:       p.PetName,
				AccessCode:    p.AccessCode,
				Week:          week,
				Reaction:      wr.DogReaction,
				Memo:          wr.GuardianMemo,
				Timestamp:     wr.Timestamp,
			})
		}
	}
	return rows
}

var sensoryCSVHeader = []string{"Participant ID", "Access Code", "Week", "Category", "Question", "Score", "Note", "Timestamp"}

var progressCSVHeader = []string{"Participant ID", "Pet Name", "Access Code", "Week", "Dog Reaction", "Guardian Memo", "Timestamp"}

// SensoryCSV renders the fixed-shape sensory export. Every field is
// double-quoted and embedded quotes are doubled; downstream tooling
// depends on this exact byte shape.
func SensoryCSV(rows []SensoryRow) []byte {
	var b strings.Builder
	writeCSVLine(&b, sensoryCSVHeader)
	for _, r := range rows {
		writeCSVLine(&b, []string{
			r.ParticipantID,
			r.AccessCode,
			WeekLabel(r.Week),
			r.Category,
			r.Question,
			strconv.Itoa(r.Score),
			r.Note,
			r.Timestamp,
		})
	}
	return []byte(strings.TrimSuffix(b.String(), "\n"))
}

// ProgressCSV renders the fixed-shape progress export.
func ProgressCSV(rows []ProgressRow) []byte {
	var b strings.Builder
	writeCSVLine(&b, progressCSVHeader)
	for _, r := range rows {
		writeCSVLine(&b, []string{
			r.ParticipantID,
			r.PetName,
			r.AccessCode,
			WeekLabel(r.Week),
			r.Reaction,
			r.Memo,
			r.Timestamp,
		})
	}
	return []byte(strings.TrimSuffix(b.String(), "\n"))
}

func writeCSVLine(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

type sensoryExportEntry struct {
	AccessCode string                 `json:"accessCode"`
	Responses  map[string]*WeekRecord `json:"responses"`
}

// SensoryJSON renders the pretty-printed export keyed by participant
// id: access code plus the full nested response tree. Participants
// without any responses are omitted, matching the tabular exports'
// sparse shape.
func SensoryJSON(participants []*Participant, responses map[string]ResponseTree) ([]byte, error) {
	out := map[string]sensoryExportEntry{}
	for _, p := range participants {
		tree := responses[p.ID]
		if len(tree) == 0 {
			continue
		}
		byLabel := make(map[string]*WeekRecord, len(tree))
		for week, rec := range tree {
			byLabel[WeekLabel(week)] = rec
		}
		out[p.ID] = sensoryExportEntry{AccessCode: p.AccessCode, Responses: byLabel}
	}
	return json.MarshalIndent(out, "", "  ")
}

type progressExportEntry struct {
	PetName           string                   `json:"petName"`
	AccessCode        string                   `json:"accessCode"`
	ProgressResponses map[string]*WeekResponse `json:"progressResponses"`
}

// ProgressJSON renders the journal export: one key per configured
// week, null where no entry exists.
func ProgressJSON(participants []*Participant, responses map[string]ResponseTree, weeks []int) ([]byte, error) {
	out := map[string]progressExportEntry{}
	for _, p := range participants {
		tree := responses[p.ID]
		if len(tree) == 0 {
			continue
		}
		byWeek := make(map[string]*WeekResponse, len(weeks))
		for _, week := range weeks {
			byWeek[WeekLabel(week)] = tree.Week(week, KindProgress)
		}
		out[p.ID] = progressExportEntry{PetName: p.PetName, AccessCode: p.AccessCode, ProgressResponses: byWeek}
	}
	return json.MarshalIndent(out, "", "  ")
}

// ExportFilename derives the artifact name from the survey kind and
// session name, whitespace runs collapsed to dashes.
func ExportFilename(kind Kind, sessionName, ext string) string {
	prefix := "sensory-survey"
	if kind == KindProgress {
		prefix = "progress-survey"
	}
	name := strings.Join(strings.Fields(sessionName), "-")
	if name == "" {
		name = "session"
	}
	return fmt.Sprintf("%s-%s.%s", prefix, name, ext)
}
