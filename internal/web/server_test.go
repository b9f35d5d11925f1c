package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nahidhasan/picklist-export/internal/config"
	"github.com/nahidhasan/picklist-export/internal/salesforce"
)

// fakeOrg is an HTTP stub of the Salesforce endpoints the exporter uses:
// one Account object with a single picklist field, not-found for the rest.
func fakeOrg(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/services/data/v65.0/sobjects/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/services/data/v65.0/sobjects/":
			fmt.Fprint(w, `{"sobjects": [
				{"name": "Account", "queryable": true},
				{"name": "Invoice__c", "queryable": true}
			]}`)
		case strings.HasSuffix(r.URL.Path, "/Account/describe"):
			// Small delay so in-flight runs stay observable and cancellable.
			time.Sleep(5 * time.Millisecond)
			fmt.Fprint(w, `{"name": "Account", "fields": [
				{"name": "Industry", "label": "Industry", "type": "picklist",
				 "picklistValues": [{"label": "Banking", "value": "Banking", "active": true}]}
			]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `[{"errorCode": "NOT_FOUND", "message": "not found"}]`)
		}
	})
	mux.HandleFunc("/services/data/v65.0/tooling/query/", func(w http.ResponseWriter, r *http.Request) {
		soql := r.URL.Query().Get("q")
		if strings.Contains(soql, "FROM FieldDefinition") {
			fmt.Fprint(w, `{"records": [{"Metadata": {"valueSet": {"valueSetDefinition": {"value": [
				{"label": "Banking", "valueName": "Banking"},
				{"label": "Telecom", "valueName": "Telecom", "isActive": false}
			]}}}}]}`)
			return
		}
		fmt.Fprint(w, `{"records": []}`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	org := fakeOrg(t)

	cfg := &config.Config{}
	cfg.Export.OutputDir = t.TempDir()

	client := salesforce.NewClient(salesforce.Config{
		InstanceURL: org.URL,
		AccessToken: "test-token",
	})
	return NewServer(cfg, client, nil)
}

func doJSON(t *testing.T, router http.Handler, method, path, body string, out any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s %s response: %v\n%s", method, path, err, rec.Body.String())
		}
	}
	return rec
}

func waitForRun(t *testing.T, router http.Handler, runID string) RunStatus {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		var status RunStatus
		rec := doJSON(t, router, http.MethodGet, "/api/export/"+runID, "", &status)
		if rec.Code != http.StatusOK {
			t.Fatalf("status poll returned %d: %s", rec.Code, rec.Body.String())
		}
		if status.Phase != PhaseRunning {
			return status
		}
		if time.Now().After(deadline) {
			t.Fatal("run did not finish in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestExportRunLifecycle(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	var started struct {
		RunID string `json:"runId"`
	}
	rec := doJSON(t, router, http.MethodPost, "/api/export",
		`{"objects": ["Account", "Ghost__c"], "format": "csv"}`, &started)
	if rec.Code != http.StatusOK {
		t.Fatalf("start export returned %d: %s", rec.Code, rec.Body.String())
	}
	if started.RunID == "" {
		t.Fatal("start export returned no run id")
	}

	status := waitForRun(t, router, started.RunID)
	if status.Phase != PhaseComplete {
		t.Fatalf("run phase = %s, want complete (error %q)", status.Phase, status.Error)
	}
	if status.Stats == nil {
		t.Fatal("finished run carries no statistics")
	}
	if status.Stats.TotalObjects != 2 || status.Stats.SuccessfulObjects != 1 || status.Stats.ObjectsNotFound != 1 {
		t.Errorf("stats = %+v, want 2 total, 1 success, 1 not found", status.Stats)
	}
	if status.Stats.TotalValues != 2 || status.Stats.TotalInactiveValues != 1 {
		t.Errorf("stats = %+v, want 2 values with 1 inactive", status.Stats)
	}

	// The finished report downloads with an attachment disposition.
	rec = doJSON(t, router, http.MethodGet, "/api/export/"+started.RunID+"/download", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("download returned %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "attachment") {
		t.Errorf("Content-Disposition = %q, want an attachment", got)
	}
	if !strings.Contains(rec.Body.String(), "Banking") {
		t.Error("downloaded report is missing exported rows")
	}
}

func TestStartExportValidation(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	tests := []struct {
		name string
		body string
	}{
		{"empty objects", `{"objects": []}`},
		{"whitespace objects", `{"objects": ["  ", ""]}`},
		{"bad json", `{"objects": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/export", tt.body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("start export returned %d, want 400", rec.Code)
			}
		})
	}
}

func TestCancelRun(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	// A large batch keeps the run alive long enough to cancel it.
	objects := make([]string, 200)
	for i := range objects {
		objects[i] = "Account"
	}
	body, _ := json.Marshal(map[string]any{"objects": objects, "format": "csv"})

	var started struct {
		RunID string `json:"runId"`
	}
	doJSON(t, router, http.MethodPost, "/api/export", string(body), &started)

	rec := doJSON(t, router, http.MethodPost, "/api/export/"+started.RunID+"/cancel", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel returned %d: %s", rec.Code, rec.Body.String())
	}

	status := waitForRun(t, router, started.RunID)
	if status.Phase != PhaseCancelled {
		t.Errorf("run phase = %s, want cancelled", status.Phase)
	}
	if status.Stats == nil || !status.Stats.Cancelled {
		t.Errorf("stats = %+v, want Cancelled set", status.Stats)
	}
}

func TestRunNotFound(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	paths := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/export/does-not-exist"},
		{http.MethodPost, "/api/export/does-not-exist/cancel"},
		{http.MethodGet, "/api/export/does-not-exist/download"},
	}
	for _, p := range paths {
		rec := doJSON(t, router, p.method, p.path, "", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s returned %d, want 404", p.method, p.path, rec.Code)
		}
	}
}

func TestListObjectsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	var body struct {
		Objects []string `json:"objects"`
		Count   int      `json:"count"`
	}
	rec := doJSON(t, router, http.MethodGet, "/api/objects?filter=custom", "", &body)
	if rec.Code != http.StatusOK {
		t.Fatalf("list objects returned %d: %s", rec.Code, rec.Body.String())
	}
	if body.Count != 1 || len(body.Objects) != 1 || body.Objects[0] != "Invoice__c" {
		t.Errorf("objects = %+v, want just Invoice__c", body)
	}
}

func TestRunHistoryWithoutStore(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv.Router(), http.MethodGet, "/api/runs", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("runs returned %d, want 404 when no store is configured", rec.Code)
	}
}
