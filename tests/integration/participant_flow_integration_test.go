//go:build integration

package integration_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

func baseURL() string {
	if v := os.Getenv("PAWPORTAL_TEST_BASE_URL"); strings.TrimSpace(v) != "" {
		return strings.TrimRight(v, "/")
	}
	return "http://127.0.0.1:18080"
}

// Exercises the full participant journey against a running server:
// seed, access-code login, draft, submit, dashboard, then the admin
// review and export surface.
func TestParticipantFlowIntegration(t *testing.T) {
	client := &http.Client{Timeout: 5 * time.Second}
	base := baseURL()

	doPost(t, client, base+"/api/seed", "", nil, nil)

	var login struct {
		Token   string `json:"token"`
		Session struct {
			ID string `json:"id"`
		} `json:"session"`
	}
	doPost(t, client, base+"/api/login", "", map[string]string{"access_code": "dog1"}, &login)
	if login.Token == "" || login.Session.ID == "" {
		t.Fatalf("unexpected login response: %+v", login)
	}

	answers := map[string]any{"answers": map[string]any{
		"touch": []map[string]any{{"value": 2}, {"value": 2}, {"value": 2}},
		"sound": []map[string]any{{"value": 2}, {"value": 2}},
	}}
	doPost(t, client, base+"/api/surveys/1/draft?kind=sensory", login.Token, answers, nil)
	doPost(t, client, base+"/api/surveys/1/submit?kind=sensory", login.Token, answers, nil)

	var dash struct {
		Dashboard struct {
			Completed int `json:"completed"`
		} `json:"dashboard"`
	}
	doGet(t, client, base+"/api/dashboard", login.Token, &dash)
	if dash.Dashboard.Completed != 1 {
		t.Fatalf("completed = %d, want 1", dash.Dashboard.Completed)
	}

	var admin struct {
		Token string `json:"token"`
	}
	doPost(t, client, base+"/api/admin/login", "", map[string]string{
		"email":    "admin@example.com",
		"password": "changeme",
	}, &admin)
	if admin.Token == "" {
		t.Fatalf("admin login did not return token")
	}

	var review struct {
		Stats struct {
			Total   int            `json:"total"`
			PerWeek map[string]int `json:"per_week"`
		} `json:"stats"`
	}
	doGet(t, client, base+"/api/admin/sessions/"+login.Session.ID+"/review?kind=sensory", admin.Token, &review)
	if review.Stats.Total < 1 {
		t.Fatalf("unexpected review stats: %+v", review.Stats)
	}

	req, err := http.NewRequest(http.MethodGet, base+"/api/admin/sessions/"+login.Session.ID+"/export?kind=sensory&format=csv", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+admin.Token)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("export request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("export status %d body %s", resp.StatusCode, string(body))
	}
	csvData, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read export data: %v", err)
	}
	if !strings.Contains(string(csvData), `"DOG1"`) {
		t.Fatalf("export csv missing seeded access code; csv=%s", string(csvData))
	}
}

func doPost(t *testing.T, client *http.Client, url, token string, body, out any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(http.MethodPost, url, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	doJSON(t, client, req, url, out)
}

func doGet(t *testing.T, client *http.Client, url, token string, out any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	doJSON(t, client, req, url, out)
}

func doJSON(t *testing.T, client *http.Client, req *http.Request, url string, out any) {
	t.Helper()
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("http %s %s failed: %v", req.Method, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status %d for %s: %s", resp.StatusCode, url, string(body))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decode response from %s: %v", url, err)
		}
	}
}
