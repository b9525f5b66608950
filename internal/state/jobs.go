package state

import (
	"math"
	"strconv"

	"github.com/hong880226/printer-server/internal/backend"
)

// Display classes for job rows
const (
	ClassPending   = "pending"
	ClassCompleted = "completed"
	ClassCancelled = "cancelled"
	ClassFailed    = "failed"
)

// JobView is a PrintJob decorated with its presentation mapping
type JobView struct {
	backend.PrintJob
	Class      string `json:"class"`
	Label      string `json:"label"`
	Cancelable bool   `json:"cancelable"`
	SizeText   string `json:"size_text"`
}

// NewJobView builds the view row for a job
func NewJobView(j backend.PrintJob) JobView {
	return JobView{
		PrintJob:   j,
		Class:      StateClass(j.State),
		Label:      StateLabel(j.State),
		Cancelable: Cancelable(j.State),
		SizeText:   FormatSize(j.Size),
	}
}

// StateClass buckets a CUPS-derived state code into a display class.
// Unmapped codes fall back to pending.
func StateClass(code int) string {
	switch code {
	case 1, 2, 4:
		return ClassPending
	case 3:
		return ClassCompleted
	case 5, 6, 7:
		return ClassCancelled
	case 8, 9:
		return ClassFailed
	default:
		return ClassPending
	}
}

// StateLabel maps a state code to its display text
func StateLabel(code int) string {
	switch code {
	case 1:
		return "waiting"
	case 2:
		return "queued"
	case 3:
		return "completed"
	case 4:
		return "processing"
	case 5:
		return "stopped"
	case 6:
		return "canceled"
	case 7:
		return "aborted"
	case 8, 9:
		return "failed"
	default:
		return "unknown"
	}
}

// Cancelable reports whether a job gets a cancel affordance. Only code 3
// does, even though 3 maps to the completed display class; this mismatch
// matches long-standing production behavior. Flip it only together with
// TestJobViewCancelableOnlyAtStateThree.
func Cancelable(code int) bool {
	return code == 3
}

// FormatSize renders a byte count with 1024-based units, trimming trailing
// zeros ("1.5 MB", "312 B")
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(units) {
		i = len(units) - 1
	}
	v := float64(bytes) / math.Pow(1024, float64(i))
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = trimZeros(s)
	return s + " " + units[i]
}

func trimZeros(s string) string {
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}
