package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity of a notification
type Severity string

const (
	Info    Severity = "info"
	Success Severity = "success"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// Notification is one ephemeral user-facing message
type Notification struct {
	ID        string    `json:"id"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier holds the ordered, append-only queue of visible notifications.
// Each entry removes itself after visibleFor plus a short exit delay, so the
// view has time to animate it out. Entries coexist independently; there is
// no deduplication.
type Notifier struct {
	mu      sync.Mutex
	visible []Notification

	visibleFor time.Duration
	exitDelay  time.Duration

	// maxVisible, when positive, bounds the queue by dropping the oldest
	// entry first. Zero keeps the historical unbounded behavior.
	maxVisible int

	onChange func()
}

// New creates a Notifier. visibleFor is how long an entry stays shown,
// exitDelay the extra time before it is removed.
func New(visibleFor, exitDelay time.Duration, maxVisible int) *Notifier {
	return &Notifier{
		visibleFor: visibleFor,
		exitDelay:  exitDelay,
		maxVisible: maxVisible,
	}
}

// SetOnChange registers a callback invoked after every queue change
func (n *Notifier) SetOnChange(fn func()) {
	n.mu.Lock()
	n.onChange = fn
	n.mu.Unlock()
}

// Push appends a notification and schedules its removal
func (n *Notifier) Push(severity Severity, message string) Notification {
	entry := Notification{
		ID:        uuid.NewString(),
		Severity:  severity,
		Message:   message,
		CreatedAt: time.Now(),
	}

	n.mu.Lock()
	if n.maxVisible > 0 && len(n.visible) >= n.maxVisible {
		n.visible = n.visible[1:]
	}
	n.visible = append(n.visible, entry)
	fn := n.onChange
	n.mu.Unlock()

	time.AfterFunc(n.visibleFor+n.exitDelay, func() {
		n.remove(entry.ID)
	})

	if fn != nil {
		fn()
	}
	return entry
}

// Active returns the visible notifications in arrival order
func (n *Notifier) Active() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]Notification, len(n.visible))
	copy(out, n.visible)
	return out
}

func (n *Notifier) remove(id string) {
	n.mu.Lock()
	changed := false
	for i, e := range n.visible {
		if e.ID == id {
			n.visible = append(n.visible[:i], n.visible[i+1:]...)
			changed = true
			break
		}
	}
	fn := n.onChange
	n.mu.Unlock()

	if changed && fn != nil {
		fn()
	}
}
