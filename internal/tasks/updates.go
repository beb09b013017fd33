package tasks

import (
	"fmt"

	"github.com/desertthunder/coursebook/internal/models"
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
	FetchCourses Phase = iota
	FetchSlots
	ExportCourse
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case FetchCourses:
		return "fetch_courses"
	case FetchSlots:
		return "fetch_slots"
	case ExportCourse:
		return "export_course"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func fetchCoursesUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCourses,
		Step:    1,
		Total:   1,
		Message: "Fetching course catalog...",
	}
}

func foundCoursesUpdate(courses []models.Course) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCourses,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d courses", len(courses)),
		Data:    courses,
	}
}

func fetchSlotsUpdate(step, total int, course models.Course) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSlots,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching slots: %s...", step, total, course),
	}
}

func exportCompletedUpdate(step, total int, course models.Course, slots int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportCourse,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d slots)", step, total, course, slots),
	}
}

func exportFailedUpdate(step, total int, course models.Course, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportCourse,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, course, err),
	}
}

func writeManifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing manifest to %s", path),
		Data:    path,
	}
}
