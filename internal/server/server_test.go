package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/algo-verite/engine/internal/engine"
	"github.com/algo-verite/engine/internal/reference"
	"github.com/algo-verite/engine/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := store.NewStore(filepath.Join(t.TempDir(), "verite.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	eng := engine.New(reference.Defaults(), nil)
	ts := httptest.NewServer(New(eng, st, nil).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func getJSON(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func fluBody() map[string]any {
	return map[string]any{
		"pathology": "FLU",
		"symptoms":  []string{"FEVER", "COUGH"},
		"profile":   map[string]any{"age": 35, "comorbidities": 0, "immunity_level": 0.8},
	}
}

func TestRootAndHealth(t *testing.T) {
	ts := newTestServer(t)

	if resp := getJSON(t, ts.URL+"/"); resp.StatusCode != http.StatusOK {
		t.Fatalf("root status = %d", resp.StatusCode)
	}
	resp := getJSON(t, ts.URL+"/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d", resp.StatusCode)
	}
	var body map[string]string
	decode(t, resp, &body)
	if body["status"] != "healthy" {
		t.Fatalf("health body = %v", body)
	}
}

func TestAnalyze_EndToEnd(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/medical/analyze", fluBody())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("analyze status = %d", resp.StatusCode)
	}

	var a engine.Analysis
	decode(t, resp, &a)
	if a.PatientID == "" || len(a.Treatments) == 0 {
		t.Fatalf("analysis incomplete: %+v", a)
	}

	// The analysis is persisted and retrievable.
	resp = getJSON(t, ts.URL+"/api/medical/patient/"+a.PatientID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patient status = %d", resp.StatusCode)
	}

	// And replay verification finds it intact.
	resp = getJSON(t, ts.URL+"/api/medical/verify/"+a.PatientID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify status = %d", resp.StatusCode)
	}
	var verdict map[string]any
	decode(t, resp, &verdict)
	if verdict["status"] != "INTACT" {
		t.Fatalf("verify body = %v", verdict)
	}
}

func TestAnalyze_ImmunityDefault(t *testing.T) {
	ts := newTestServer(t)

	body := fluBody()
	body["profile"] = map[string]any{"age": 35}

	resp := postJSON(t, ts.URL+"/api/medical/analyze", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("analyze without immunity = %d", resp.StatusCode)
	}
}

func TestAnalyze_BadRequests(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/medical/analyze", "application/json", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("malformed body status = %d", resp.StatusCode)
	}

	bad := fluBody()
	bad["pathology"] = "DRAGON_POX"
	if resp := postJSON(t, ts.URL+"/api/medical/analyze", bad); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown pathology status = %d", resp.StatusCode)
	}
}

func TestGetPatient_NotFound(t *testing.T) {
	ts := newTestServer(t)
	if resp := getJSON(t, ts.URL+"/api/medical/patient/PAT_missing"); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestVerify_NotFound(t *testing.T) {
	ts := newTestServer(t)
	if resp := getJSON(t, ts.URL+"/api/medical/verify/PAT_missing"); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestRecommend(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/medical/treatment/recommend", fluBody())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("recommend status = %d", resp.StatusCode)
	}

	var body struct {
		Treatments []map[string]any `json:"treatments"`
	}
	decode(t, resp, &body)
	if len(body.Treatments) != 2 {
		t.Fatalf("treatments = %d, want 2", len(body.Treatments))
	}
}

func TestCohort(t *testing.T) {
	ts := newTestServer(t)

	// The cohort endpoint takes a bare array.
	resp := postJSON(t, ts.URL+"/api/medical/cohort/analyze", []map[string]any{fluBody(), fluBody()})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cohort status = %d", resp.StatusCode)
	}

	var result engine.CohortResult
	decode(t, resp, &result)
	if result.Stats.TotalPatients != 2 || result.Stats.SuccessfulAnalyses != 2 {
		t.Fatalf("cohort stats = %+v", result.Stats)
	}

	if resp := postJSON(t, ts.URL+"/api/medical/cohort/analyze", fluBody()); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("object body should be rejected, got %d", resp.StatusCode)
	}
}

func TestFollowUp(t *testing.T) {
	ts := newTestServer(t)

	// Create the patient via analysis first.
	resp := postJSON(t, ts.URL+"/api/medical/analyze", fluBody())
	var a engine.Analysis
	decode(t, resp, &a)

	resp = postJSON(t, ts.URL+"/api/medical/followup", map[string]any{
		"patient_id":    a.PatientID,
		"day_number":    3,
		"health_status": "STABLE",
		"symptoms":      []string{"COUGH"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("follow-up status = %d", resp.StatusCode)
	}

	if resp := postJSON(t, ts.URL+"/api/medical/followup", map[string]any{"day_number": 1}); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing patient_id status = %d", resp.StatusCode)
	}
}

func TestSystemStatus(t *testing.T) {
	ts := newTestServer(t)

	resp := getJSON(t, ts.URL+"/api/system/status")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status endpoint = %d", resp.StatusCode)
	}
	var body struct {
		Version    string           `json:"version"`
		Statistics store.Statistics `json:"statistics"`
	}
	decode(t, resp, &body)
	if body.Version != engine.Version {
		t.Fatalf("version = %s", body.Version)
	}
}
