package action

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/hong880226/printer-server/internal/backend"
	"github.com/hong880226/printer-server/internal/notify"
	"github.com/hong880226/printer-server/internal/state"
)

type fakeBackend struct {
	uploadErr map[string]error
	submitID  int
	submitErr error
	deleteErr error
	cancelErr error

	uploads []string
	submits int
	deletes []string
	cancels []int
}

func (f *fakeBackend) UploadFile(ctx context.Context, filename string, r io.Reader) error {
	f.uploads = append(f.uploads, filename)
	return f.uploadErr[filename]
}

func (f *fakeBackend) DeleteFile(ctx context.Context, filename string) error {
	f.deletes = append(f.deletes, filename)
	return f.deleteErr
}

func (f *fakeBackend) SubmitPrintJob(ctx context.Context, req backend.PrintRequest) (int, error) {
	f.submits++
	return f.submitID, f.submitErr
}

func (f *fakeBackend) CancelJob(ctx context.Context, jobID int) error {
	f.cancels = append(f.cancels, jobID)
	return f.cancelErr
}

type fakeRefresher struct {
	files int
	jobs  int
}

func (f *fakeRefresher) RefreshFiles(ctx context.Context) error {
	f.files++
	return nil
}

func (f *fakeRefresher) RefreshJobs(ctx context.Context) {
	f.jobs++
}

func accept() Confirmer { return ConfirmerFunc(func(string) bool { return true }) }
func deny() Confirmer   { return ConfirmerFunc(func(string) bool { return false }) }

func newTestOrchestrator(b *fakeBackend, c Confirmer) (*Orchestrator, *state.Store, *notify.Notifier, *fakeRefresher) {
	store := state.NewStore()
	notifier := notify.New(time.Hour, 0, 0)
	refresher := &fakeRefresher{}
	o := New(b, store, notifier, refresher, c)
	o.resetDelay = 50 * time.Millisecond
	return o, store, notifier, refresher
}

func severities(n *notify.Notifier) []notify.Severity {
	var out []notify.Severity
	for _, e := range n.Active() {
		out = append(out, e.Severity)
	}
	return out
}

func TestUploadBatchContinuesPastFailure(t *testing.T) {
	fb := &fakeBackend{uploadErr: map[string]error{
		"two.pdf": &backend.Error{Kind: backend.KindRejected, Op: "uploadFile", Message: "file type not allowed"},
	}}
	o, store, notifier, refresher := newTestOrchestrator(fb, accept())

	events, unsubscribe := store.Subscribe()
	defer unsubscribe()

	o.UploadBatch(context.Background(), []UploadItem{
		{Filename: "one.pdf", Data: strings.NewReader("1")},
		{Filename: "two.pdf", Data: strings.NewReader("2")},
		{Filename: "three.pdf", Data: strings.NewReader("3")},
	})

	want := []notify.Severity{notify.Success, notify.Error, notify.Success}
	got := severities(notifier)
	if len(got) != len(want) {
		t.Fatalf("notifications = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("notifications = %v, want %v", got, want)
		}
	}

	msgs := notifier.Active()
	if !strings.Contains(msgs[1].Message, "two.pdf") || !strings.Contains(msgs[1].Message, "file type not allowed") {
		t.Fatalf("failure notification should name file and reason, got %q", msgs[1].Message)
	}

	if refresher.files != 2 {
		t.Fatalf("files refreshed %d times, want one per successful upload", refresher.files)
	}
	if len(fb.uploads) != 3 {
		t.Fatalf("all items should be attempted, got %v", fb.uploads)
	}

	// Initial zero-progress plus one update per item.
	progressEvents := 0
	for {
		select {
		case ev := <-events:
			if ev.Kind == state.EventProgress {
				progressEvents++
			}
			continue
		default:
		}
		break
	}
	if progressEvents != 4 {
		t.Fatalf("progress published %d times, want 4", progressEvents)
	}

	if p := store.Snapshot().Progress; !p.Active || p.Percent != 100 {
		t.Fatalf("progress should rest at 100%% after the batch, got %#v", p)
	}

	deadline := time.Now().Add(time.Second)
	for {
		if p := store.Snapshot().Progress; !p.Active && p.Percent == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("progress indicator never reset after the batch delay")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestPrintWithoutPrinterShortCircuits(t *testing.T) {
	fb := &fakeBackend{}
	o, _, notifier, refresher := newTestOrchestrator(fb, accept())

	if o.Print(context.Background(), "a.pdf", "", 1, "") {
		t.Fatal("Print should report failure without a printer")
	}

	if fb.submits != 0 {
		t.Fatalf("no network call expected, got %d submits", fb.submits)
	}
	got := severities(notifier)
	if len(got) != 1 || got[0] != notify.Warning {
		t.Fatalf("want a single warning, got %v", got)
	}
	if refresher.jobs != 0 {
		t.Fatal("no jobs refresh expected")
	}
}

func TestPrintWithoutFilenameShortCircuits(t *testing.T) {
	fb := &fakeBackend{}
	o, _, notifier, _ := newTestOrchestrator(fb, accept())

	if o.Print(context.Background(), "", "lp0", 1, "") {
		t.Fatal("Print should report failure without a filename")
	}
	if fb.submits != 0 {
		t.Fatalf("no network call expected, got %d submits", fb.submits)
	}
	if got := severities(notifier); len(got) != 1 || got[0] != notify.Warning {
		t.Fatalf("want a single warning, got %v", got)
	}
}

func TestPrintSuccessEchoesJobID(t *testing.T) {
	fb := &fakeBackend{submitID: 77}
	o, _, notifier, refresher := newTestOrchestrator(fb, accept())

	if !o.Print(context.Background(), "a.pdf", "lp0", 2, "1-3") {
		t.Fatal("Print should succeed")
	}

	msgs := notifier.Active()
	if len(msgs) != 1 || msgs[0].Severity != notify.Success {
		t.Fatalf("want one success notification, got %v", msgs)
	}
	if !strings.Contains(msgs[0].Message, "77") {
		t.Fatalf("job id should appear verbatim, got %q", msgs[0].Message)
	}
	if refresher.jobs != 1 {
		t.Fatalf("jobs refreshed %d times, want 1", refresher.jobs)
	}
}

func TestPrintFailureSurfacesReason(t *testing.T) {
	fb := &fakeBackend{submitErr: &backend.Error{Kind: backend.KindRejected, Op: "submitPrintJob", Message: "printer jammed"}}
	o, _, notifier, refresher := newTestOrchestrator(fb, accept())

	if o.Print(context.Background(), "a.pdf", "lp0", 1, "") {
		t.Fatal("Print should report failure")
	}
	msgs := notifier.Active()
	if len(msgs) != 1 || msgs[0].Severity != notify.Error || !strings.Contains(msgs[0].Message, "printer jammed") {
		t.Fatalf("unexpected notifications %v", msgs)
	}
	if refresher.jobs != 0 {
		t.Fatal("no jobs refresh expected on failure")
	}
}

func TestDeleteDeniedMakesNoCallButClosesPreview(t *testing.T) {
	fb := &fakeBackend{}
	o, store, notifier, _ := newTestOrchestrator(fb, deny())

	store.SetFiles([]backend.FileEntry{{Filename: "a.pdf"}})
	store.OpenPreview("a.pdf")

	o.Delete(context.Background(), "a.pdf", true)

	if len(fb.deletes) != 0 {
		t.Fatalf("denied delete must not hit the network, got %v", fb.deletes)
	}
	if len(notifier.Active()) != 0 {
		t.Fatal("denied delete should stay silent")
	}
	if store.Preview() != "" {
		t.Fatal("preview surface should close regardless of outcome")
	}
}

func TestDeleteSuccessRefreshesFiles(t *testing.T) {
	fb := &fakeBackend{}
	o, _, notifier, refresher := newTestOrchestrator(fb, accept())

	o.Delete(context.Background(), "a.pdf", false)

	if len(fb.deletes) != 1 || fb.deletes[0] != "a.pdf" {
		t.Fatalf("unexpected delete calls %v", fb.deletes)
	}
	if refresher.files != 1 {
		t.Fatalf("files refreshed %d times, want 1", refresher.files)
	}
	if got := severities(notifier); len(got) != 1 || got[0] != notify.Success {
		t.Fatalf("want one success notification, got %v", got)
	}
}

func TestCancelJobDeniedMakesNoCall(t *testing.T) {
	fb := &fakeBackend{}
	o, _, _, _ := newTestOrchestrator(fb, deny())

	o.CancelJob(context.Background(), 9)

	if len(fb.cancels) != 0 {
		t.Fatalf("denied cancel must not hit the network, got %v", fb.cancels)
	}
}

func TestCancelJobFailureSurfacesReason(t *testing.T) {
	fb := &fakeBackend{cancelErr: errors.New("connection reset")}
	o, _, notifier, refresher := newTestOrchestrator(fb, accept())

	o.CancelJob(context.Background(), 9)

	msgs := notifier.Active()
	if len(msgs) != 1 || msgs[0].Severity != notify.Error || !strings.Contains(msgs[0].Message, "connection reset") {
		t.Fatalf("unexpected notifications %v", msgs)
	}
	if refresher.jobs != 0 {
		t.Fatal("no jobs refresh expected on failure")
	}
}

func TestCancelJobSuccessRefreshesJobs(t *testing.T) {
	fb := &fakeBackend{}
	o, _, notifier, refresher := newTestOrchestrator(fb, accept())

	o.CancelJob(context.Background(), 4)

	if len(fb.cancels) != 1 || fb.cancels[0] != 4 {
		t.Fatalf("unexpected cancel calls %v", fb.cancels)
	}
	if refresher.jobs != 1 {
		t.Fatalf("jobs refreshed %d times, want 1", refresher.jobs)
	}
	if got := severities(notifier); len(got) != 1 || got[0] != notify.Success {
		t.Fatalf("want one success notification, got %v", got)
	}
}
