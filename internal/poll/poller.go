package poll

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hong880226/printer-server/internal/backend"
	"github.com/hong880226/printer-server/internal/state"
)

// Backend is the slice of the backend client the poller needs
type Backend interface {
	PrinterStatus(ctx context.Context) (backend.Status, error)
	ListJobs(ctx context.Context, timeout time.Duration) ([]backend.PrintJob, error)
	ListFiles(ctx context.Context) ([]backend.FileEntry, error)
	ListPrinters(ctx context.Context) ([]backend.PrinterDescriptor, error)
}

// Poller drives the two periodic refresh cycles (printer status, job queue)
// and exposes the on-demand refreshes for files and printers. The timers run
// for the life of the process and never interact with user-triggered
// refreshes.
type Poller struct {
	backend Backend
	store   *state.Store

	statusInterval time.Duration
	jobsInterval   time.Duration
	jobsTimeout    time.Duration
}

// New creates a Poller. jobsTimeout must not exceed jobsInterval: an
// in-flight jobs poll has to be abandoned before the next tick fires, or
// polls would pile up against a slow backend.
func New(b Backend, store *state.Store, statusInterval, jobsInterval, jobsTimeout time.Duration) (*Poller, error) {
	if statusInterval <= 0 || jobsInterval <= 0 || jobsTimeout <= 0 {
		return nil, fmt.Errorf("poll intervals must be positive")
	}
	if jobsTimeout > jobsInterval {
		return nil, fmt.Errorf("jobs timeout %v exceeds jobs interval %v", jobsTimeout, jobsInterval)
	}
	return &Poller{
		backend:        b,
		store:          store,
		statusInterval: statusInterval,
		jobsInterval:   jobsInterval,
		jobsTimeout:    jobsTimeout,
	}, nil
}

// Run blocks, firing both refresh cycles until ctx is cancelled. Everything
// is refreshed once up front so the view has data before the first tick.
func (p *Poller) Run(ctx context.Context) {
	p.RefreshStatus(ctx)
	if err := p.RefreshPrinters(ctx); err != nil {
		log.Printf("initial printer list fetch failed: %v", err)
	}
	if err := p.RefreshFiles(ctx); err != nil {
		log.Printf("initial file list fetch failed: %v", err)
	}
	p.RefreshJobs(ctx)

	statusTicker := time.NewTicker(p.statusInterval)
	defer statusTicker.Stop()
	jobsTicker := time.NewTicker(p.jobsInterval)
	defer jobsTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-statusTicker.C:
			p.RefreshStatus(ctx)
		case <-jobsTicker.C:
			p.RefreshJobs(ctx)
		}
	}
}

// RefreshStatus fetches the printer status and replaces the snapshot. A
// failed fetch still overwrites, collapsing to unknown; a stale busy/idle
// must never survive a failure.
func (p *Poller) RefreshStatus(ctx context.Context) {
	status, err := p.backend.PrinterStatus(ctx)
	if err != nil {
		log.Printf("printer status fetch failed: %v", err)
		status = backend.StatusUnknown
	}
	p.store.SetStatus(status)
}

// RefreshJobs fetches the job queue. A timeout or failure is logged and the
// previous collection stays displayed unchanged; the next tick retries
// naturally, so nothing is surfaced to the user.
func (p *Poller) RefreshJobs(ctx context.Context) {
	jobs, err := p.backend.ListJobs(ctx, p.jobsTimeout)
	if err != nil {
		if backend.IsTimeout(err) {
			log.Printf("job queue poll timed out after %v", p.jobsTimeout)
		} else {
			log.Printf("job queue poll failed: %v", err)
		}
		return
	}
	p.store.SetJobs(jobs)
}

// RefreshFiles replaces the file collection. The error is returned so a
// user-triggered refresh can surface it.
func (p *Poller) RefreshFiles(ctx context.Context) error {
	files, err := p.backend.ListFiles(ctx)
	if err != nil {
		log.Printf("file list fetch failed: %v", err)
		return err
	}
	p.store.SetFiles(files)
	return nil
}

// RefreshPrinters replaces the printer list
func (p *Poller) RefreshPrinters(ctx context.Context) error {
	printers, err := p.backend.ListPrinters(ctx)
	if err != nil {
		log.Printf("printer list fetch failed: %v", err)
		return err
	}
	p.store.SetPrinters(printers)
	return nil
}
