package action

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hong880226/printer-server/internal/backend"
	"github.com/hong880226/printer-server/internal/notify"
	"github.com/hong880226/printer-server/internal/state"
)

// Backend is the slice of the backend client the orchestrator mutates
// through
type Backend interface {
	UploadFile(ctx context.Context, filename string, r io.Reader) error
	DeleteFile(ctx context.Context, filename string) error
	SubmitPrintJob(ctx context.Context, req backend.PrintRequest) (int, error)
	CancelJob(ctx context.Context, jobID int) error
}

// Refresher triggers the targeted state refresh that follows each mutation
type Refresher interface {
	RefreshFiles(ctx context.Context) error
	RefreshJobs(ctx context.Context)
}

// Confirmer gates destructive actions. A false return means the action is
// dropped before any network call.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface
type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

// UploadItem is one file in an upload batch
type UploadItem struct {
	Filename string
	Data     io.Reader
}

// Orchestrator sequences user-initiated mutations: each backend call is
// followed by a targeted refresh and an outcome notification.
type Orchestrator struct {
	backend   Backend
	store     *state.Store
	notifier  *notify.Notifier
	refresher Refresher
	confirmer Confirmer

	// resetDelay is how long the final batch percentage stays visible
	// before the progress indicator resets
	resetDelay time.Duration
}

// New creates an Orchestrator
func New(b Backend, store *state.Store, notifier *notify.Notifier, refresher Refresher, confirmer Confirmer) *Orchestrator {
	return &Orchestrator{
		backend:    b,
		store:      store,
		notifier:   notifier,
		refresher:  refresher,
		confirmer:  confirmer,
		resetDelay: time.Second,
	}
}

// UploadBatch uploads each item sequentially. Per-item failures are
// surfaced and the batch continues; each success triggers an immediate files
// refresh. Progress advances monotonically to 100% and resets shortly after
// the batch ends.
func (o *Orchestrator) UploadBatch(ctx context.Context, items []UploadItem) {
	if len(items) == 0 {
		return
	}

	total := len(items)
	o.store.SetProgress(state.Progress{Active: true, Total: total})

	for i, item := range items {
		err := o.backend.UploadFile(ctx, item.Filename, item.Data)
		if err != nil {
			o.notifier.Push(notify.Error,
				fmt.Sprintf("upload of %q failed: %s", item.Filename, backend.ErrReason(err)))
		} else {
			o.notifier.Push(notify.Success,
				fmt.Sprintf("file %q uploaded", item.Filename))
			// Refresh failures are already logged; the upload itself
			// succeeded and the next refresh will catch up.
			_ = o.refresher.RefreshFiles(ctx)
		}

		o.store.SetProgress(state.Progress{
			Active:  true,
			Index:   i + 1,
			Total:   total,
			Percent: (i + 1) * 100 / total,
		})
	}

	time.AfterFunc(o.resetDelay, func() {
		o.store.SetProgress(state.Progress{})
	})
}

// Print validates and submits a print job. Missing printer or filename
// short-circuits to a warning with no network call. It reports whether the
// submission succeeded, so the view can clear its page-range input.
func (o *Orchestrator) Print(ctx context.Context, filename, printer string, copies int, pageRange string) bool {
	if printer == "" {
		o.notifier.Push(notify.Warning, "select a printer first")
		return false
	}
	if filename == "" {
		o.notifier.Push(notify.Warning, "select a file to print")
		return false
	}

	jobID, err := o.backend.SubmitPrintJob(ctx, backend.PrintRequest{
		Filename:  filename,
		Printer:   printer,
		Copies:    copies,
		PageRange: pageRange,
	})
	if err != nil {
		o.notifier.Push(notify.Error, "print failed: "+backend.ErrReason(err))
		return false
	}

	o.notifier.Push(notify.Success, fmt.Sprintf("print job submitted: %d", jobID))
	o.refresher.RefreshJobs(ctx)
	return true
}

// Delete removes a file after confirmation. When invoked from the preview
// surface, that surface closes no matter how the action turns out, denial
// included.
func (o *Orchestrator) Delete(ctx context.Context, filename string, fromPreview bool) {
	if fromPreview {
		defer o.store.ClosePreview()
	}

	if !o.confirmer.Confirm(fmt.Sprintf("delete file %q?", filename)) {
		return
	}

	if err := o.backend.DeleteFile(ctx, filename); err != nil {
		o.notifier.Push(notify.Error, "delete failed: "+backend.ErrReason(err))
		return
	}

	o.notifier.Push(notify.Success, fmt.Sprintf("file %q deleted", filename))
	_ = o.refresher.RefreshFiles(ctx)
}

// CancelJob cancels a spooler job after confirmation
func (o *Orchestrator) CancelJob(ctx context.Context, jobID int) {
	if !o.confirmer.Confirm(fmt.Sprintf("cancel print job %d?", jobID)) {
		return
	}

	if err := o.backend.CancelJob(ctx, jobID); err != nil {
		o.notifier.Push(notify.Error, "cancel failed: "+backend.ErrReason(err))
		return
	}

	o.notifier.Push(notify.Success, fmt.Sprintf("print job %d canceled", jobID))
	o.refresher.RefreshJobs(ctx)
}
