package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hong880226/printer-server/internal/action"
	"github.com/hong880226/printer-server/internal/backend"
	"github.com/hong880226/printer-server/internal/config"
	"github.com/hong880226/printer-server/internal/notify"
	"github.com/hong880226/printer-server/internal/poll"
	"github.com/hong880226/printer-server/internal/state"
)

// fakePrintBackend stands in for the remote print service
type fakePrintBackend struct {
	mu       sync.Mutex
	requests []string
}

func (f *fakePrintBackend) record(r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.EscapedPath())
	f.mu.Unlock()
}

func (f *fakePrintBackend) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *fakePrintBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/files" && r.Method == http.MethodGet:
		w.Write([]byte(`{"success":true,"files":[{"filename":"a.pdf","size":"1.2 KB"}]}`))
	case strings.HasPrefix(r.URL.Path, "/files/") && r.Method == http.MethodDelete:
		w.Write([]byte(`{"success":true}`))
	case r.URL.Path == "/print":
		w.Write([]byte(`{"success":true,"job":{"job_id":31}}`))
	case r.URL.Path == "/jobs":
		w.Write([]byte(`{"success":true,"cups_jobs":[]}`))
	default:
		w.Write([]byte(`{"success":true}`))
	}
}

func newTestStack(t *testing.T) (*httptest.Server, *fakePrintBackend, *notify.Notifier, *state.Store) {
	t.Helper()

	fake := &fakePrintBackend{}
	backendSrv := httptest.NewServer(fake)
	t.Cleanup(backendSrv.Close)

	client := backend.NewClient(backendSrv.URL, 2*time.Second)
	store := state.NewStore()
	notifier := notify.New(time.Hour, 0, 0)

	poller, err := poll.New(client, store, time.Second, time.Second, time.Second)
	if err != nil {
		t.Fatal(err)
	}

	confirmer := action.ConfirmerFunc(func(string) bool { return true })
	orch := action.New(client, store, notifier, poller, confirmer)

	logBuf := NewLogBuffer(50)
	hub := NewHub(store, notifier)
	server := NewServer(config.Default(), store, notifier, orch, poller, logBuf, hub)

	uiSrv := httptest.NewServer(server.Handler())
	t.Cleanup(uiSrv.Close)

	return uiSrv, fake, notifier, store
}

func TestPrintEndpointShortCircuitsWithoutPrinter(t *testing.T) {
	ui, fake, notifier, _ := newTestStack(t)

	body := bytes.NewBufferString(`{"filename":"a.pdf","printer":"","copies":1,"page_range":""}`)
	resp, err := http.Post(ui.URL+"/api/print", "application/json", body)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var out struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Success {
		t.Fatal("print without a printer should not succeed")
	}

	if got := fake.seen(); len(got) != 0 {
		t.Fatalf("validation failure must not reach the backend, saw %v", got)
	}
	active := notifier.Active()
	if len(active) != 1 || active[0].Severity != notify.Warning {
		t.Fatalf("want one warning, got %v", active)
	}
}

func TestPrintEndpointSubmitsAndRefreshesJobs(t *testing.T) {
	ui, fake, notifier, _ := newTestStack(t)

	body := bytes.NewBufferString(`{"filename":"a.pdf","printer":"lp0","copies":2,"page_range":"1-2"}`)
	resp, err := http.Post(ui.URL+"/api/print", "application/json", body)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var out struct {
		Success bool `json:"success"`
	}
	json.NewDecoder(resp.Body).Decode(&out)
	if !out.Success {
		t.Fatal("print should succeed")
	}

	seen := fake.seen()
	if len(seen) != 2 || seen[0] != "POST /print" || seen[1] != "GET /jobs" {
		t.Fatalf("want submit then jobs refresh, saw %v", seen)
	}

	active := notifier.Active()
	if len(active) != 1 || !strings.Contains(active[0].Message, "31") {
		t.Fatalf("job id should appear in the notification, got %v", active)
	}
}

func TestDeleteEndpointEscapesAndRefreshesFiles(t *testing.T) {
	ui, fake, _, store := newTestStack(t)

	req, _ := http.NewRequest(http.MethodDelete, ui.URL+"/api/files/report%20final.pdf", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	seen := fake.seen()
	if len(seen) != 2 {
		t.Fatalf("want delete then files refresh, saw %v", seen)
	}
	if seen[0] != "DELETE /files/report%20final.pdf" {
		t.Fatalf("filename not escaped on the wire: %v", seen[0])
	}
	if seen[1] != "GET /files" {
		t.Fatalf("want files refresh after delete, saw %v", seen[1])
	}

	if files := store.Snapshot().Files; len(files) != 1 || files[0].Filename != "a.pdf" {
		t.Fatalf("refresh should have replaced files, got %#v", files)
	}
}

func TestCancelEndpointRejectsBadID(t *testing.T) {
	ui, fake, _, _ := newTestStack(t)

	resp, err := http.Post(ui.URL+"/api/jobs/not-a-number/cancel", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if got := fake.seen(); len(got) != 0 {
		t.Fatalf("bad id must not reach the backend, saw %v", got)
	}
}

func TestStateEndpointServesSnapshot(t *testing.T) {
	ui, _, _, store := newTestStack(t)

	store.SetJobs([]backend.PrintJob{{JobID: 3, State: 3}})

	resp, err := http.Get(ui.URL + "/api/state")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var out struct {
		State struct {
			Jobs []state.JobView `json:"jobs"`
		} `json:"state"`
		Notifications []notify.Notification `json:"notifications"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.State.Jobs) != 1 || !out.State.Jobs[0].Cancelable {
		t.Fatalf("unexpected jobs payload %#v", out.State.Jobs)
	}
	if out.Notifications == nil {
		t.Fatal("notifications array should always be present")
	}
}
