package tasks

import (
	"fmt"

	"github.com/desertthunder/jobtrack/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	QueueLinks Phase = iota
	FetchPage
	SaveRecord
	ImportFailed
	ImportDone
)

func (p Phase) String() string {
	switch p {
	case QueueLinks:
		return "queue_links"
	case FetchPage:
		return "fetch_page"
	case SaveRecord:
		return "save_record"
	case ImportFailed:
		return "import_failed"
	case ImportDone:
		return "import_done"
	default:
		return ""
	}
}

// sendProgress sends update without blocking; updates are dropped when the channel is full.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func queueLinksUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   QueueLinks,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Importing %d links...", total),
	}
}

func fetchPageUpdate(step, total int, link string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPage,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching %s...", step, total, link),
	}
}

func saveRecordUpdate(step, total int, rec *models.JobRecord, created bool) ProgressUpdate {
	verb := "updated"
	if created {
		verb = "added"
	}
	return ProgressUpdate{
		Phase:   SaveRecord,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s - %s (%s)", step, total, rec.CompanyName, rec.JobTitle, verb),
		Data:    rec,
	}
}

func importFailedUpdate(step, total int, link string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportFailed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, link, err),
	}
}

func importDoneUpdate(result *ImportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportDone,
		Step:    result.Total,
		Total:   result.Total,
		Message: fmt.Sprintf("Imported %d (%d new, %d updated, %d failed)", result.Created+result.Updated, result.Created, result.Updated, result.Failed),
		Data:    result,
	}
}
