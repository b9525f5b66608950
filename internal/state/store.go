package state

import (
	"sync"

	"github.com/hong880226/printer-server/internal/backend"
)

// EventKind identifies which part of the view-state changed
type EventKind string

const (
	EventFiles         EventKind = "files"
	EventJobs          EventKind = "jobs"
	EventPrinters      EventKind = "printers"
	EventStatus        EventKind = "status"
	EventPreview       EventKind = "preview"
	EventPreviewClosed EventKind = "preview_closed"
	EventProgress      EventKind = "progress"
)

// Event is a change notification emitted by the store
type Event struct {
	Kind EventKind `json:"kind"`
}

// Progress is the upload batch progress indicator
type Progress struct {
	Active  bool `json:"active"`
	Index   int  `json:"index"`
	Total   int  `json:"total"`
	Percent int  `json:"percent"`
}

// Snapshot is a read-only copy of the whole view-state
type Snapshot struct {
	Files    []backend.FileEntry         `json:"files"`
	Jobs     []JobView                   `json:"jobs"`
	Printers []backend.PrinterDescriptor `json:"printers"`
	Status   backend.Status              `json:"status"`
	Preview  string                      `json:"preview"`
	Progress Progress                    `json:"progress"`
}

// Store owns the client-side view of the backend: file set, job queue,
// printer list, and printer status. Every setter fully replaces its
// collection; the backend is the sole source of truth and partial merges
// could keep entries alive that another client already deleted. Concurrent
// setters simply race to overwrite, which is safe under that policy.
type Store struct {
	mu       sync.RWMutex
	files    []backend.FileEntry
	jobs     []JobView
	printers []backend.PrinterDescriptor
	status   backend.Status
	preview  string
	progress Progress

	subMu sync.Mutex
	subs  map[int]chan Event
	next  int
}

// NewStore creates an empty store with unknown printer status
func NewStore() *Store {
	return &Store{
		status: backend.StatusUnknown,
		subs:   make(map[int]chan Event),
	}
}

// SetFiles replaces the file collection. If an open preview refers to a
// filename no longer present, the preview selection is cleared and an
// EventPreviewClosed is emitted so any open surface shuts.
func (s *Store) SetFiles(files []backend.FileEntry) {
	s.mu.Lock()
	s.files = append([]backend.FileEntry(nil), files...)

	previewLost := false
	if s.preview != "" && !containsFile(s.files, s.preview) {
		s.preview = ""
		previewLost = true
	}
	s.mu.Unlock()

	s.publish(Event{Kind: EventFiles})
	if previewLost {
		s.publish(Event{Kind: EventPreviewClosed})
	}
}

// SetJobs replaces the job collection, precomputing each row's display
// mapping
func (s *Store) SetJobs(jobs []backend.PrintJob) {
	views := make([]JobView, len(jobs))
	for i, j := range jobs {
		views[i] = NewJobView(j)
	}

	s.mu.Lock()
	s.jobs = views
	s.mu.Unlock()

	s.publish(Event{Kind: EventJobs})
}

// SetPrinters replaces the printer list
func (s *Store) SetPrinters(printers []backend.PrinterDescriptor) {
	s.mu.Lock()
	s.printers = append([]backend.PrinterDescriptor(nil), printers...)
	s.mu.Unlock()

	s.publish(Event{Kind: EventPrinters})
}

// SetStatus overwrites the printer status snapshot. Callers pass
// StatusUnknown on fetch failure so a stale busy/idle never stays visible.
func (s *Store) SetStatus(status backend.Status) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()

	s.publish(Event{Kind: EventStatus})
}

// OpenPreview selects filename for previewing. It reports false without
// changing the selection when the file is not in the current collection.
// At most one preview is active at a time.
func (s *Store) OpenPreview(filename string) bool {
	s.mu.Lock()
	if !containsFile(s.files, filename) {
		s.mu.Unlock()
		return false
	}
	s.preview = filename
	s.mu.Unlock()

	s.publish(Event{Kind: EventPreview})
	return true
}

// ClosePreview clears the preview selection
func (s *Store) ClosePreview() {
	s.mu.Lock()
	changed := s.preview != ""
	s.preview = ""
	s.mu.Unlock()

	if changed {
		s.publish(Event{Kind: EventPreviewClosed})
	}
}

// Preview returns the currently previewed filename, or ""
func (s *Store) Preview() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.preview
}

// SetProgress publishes the upload progress indicator
func (s *Store) SetProgress(p Progress) {
	s.mu.Lock()
	s.progress = p
	s.mu.Unlock()

	s.publish(Event{Kind: EventProgress})
}

// Snapshot returns a copy of the full view-state
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Files:    append([]backend.FileEntry(nil), s.files...),
		Jobs:     append([]JobView(nil), s.jobs...),
		Printers: append([]backend.PrinterDescriptor(nil), s.printers...),
		Status:   s.status,
		Preview:  s.preview,
		Progress: s.progress,
	}
	if snap.Files == nil {
		snap.Files = []backend.FileEntry{}
	}
	if snap.Jobs == nil {
		snap.Jobs = []JobView{}
	}
	if snap.Printers == nil {
		snap.Printers = []backend.PrinterDescriptor{}
	}
	return snap
}

// Subscribe registers a change listener. The returned channel is buffered;
// a slow consumer loses events rather than blocking state mutation, and can
// always recover by taking a fresh Snapshot. The second return value
// unsubscribes.
func (s *Store) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	s.subMu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	s.subMu.Unlock()

	return ch, func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) publish(ev Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func containsFile(files []backend.FileEntry, filename string) bool {
	for _, f := range files {
		if f.Filename == filename {
			return true
		}
	}
	return false
}
