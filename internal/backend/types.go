package backend

// FileEntry is a document held by the backend. The filename is the unique
// key; Size arrives display-formatted by the server.
type FileEntry struct {
	Filename    string `json:"filename"`
	Size        string `json:"size"`
	PreviewPath string `json:"preview_path,omitempty"`
}

// PrinterDescriptor is one printer as reported by the backend
type PrinterDescriptor struct {
	Name string `json:"name"`
	Info string `json:"info,omitempty"`
}

// Status is a printer status snapshot
type Status string

const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusStopped    Status = "stopped"
	StatusUnknown    Status = "unknown"
)

// ParseStatus maps a wire status string to a Status, collapsing anything
// unrecognized to StatusUnknown
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusIdle, StatusProcessing, StatusStopped:
		return Status(s)
	default:
		return StatusUnknown
	}
}

// PrintJob is one job in the backend spooler's queue. JobID is assigned by
// the backend and never changes; State is the raw CUPS-derived integer code.
type PrintJob struct {
	JobID   int    `json:"job_id"`
	Name    string `json:"name"`
	Printer string `json:"printer"`
	User    string `json:"user"`
	Size    int64  `json:"size"`
	State   int    `json:"state"`
}
