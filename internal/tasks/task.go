package tasks

import (
	"context"

	"github.com/desertthunder/coursebook/internal/models"
)

// Kind identifies what a [Task] fetches or writes, and therefore how [Session.Apply] reconciles its [Result].
type Kind int

const (
	KindCourses Kind = iota + 1
	KindSlots
	KindRefresh
	KindBooking
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindCourses:
		return "courses"
	case KindSlots:
		return "slots"
	case KindRefresh:
		return "refresh"
	case KindBooking:
		return "booking"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Task is one network round trip issued by a [Session].
//
// Course and Seq are the tag captured when the task was created. Running a task never touches session state,
// so it may run on any goroutine; its [Result] must be handed back to [Session.Apply] on the owning goroutine.
type Task struct {
	Kind   Kind
	Course models.Course
	Seq    uint64
	fn     func(ctx context.Context) Result
}

// Run performs the request and returns its result stamped with the task's tag.
func (t *Task) Run(ctx context.Context) Result {
	res := t.fn(ctx)
	res.Kind = t.Kind
	res.Course = t.Course
	res.Seq = t.Seq
	return res
}

// Result is the outcome of a [Task]. Only the fields matching Kind are set.
type Result struct {
	Kind    Kind
	Course  models.Course
	Seq     uint64
	Courses []models.Course
	Slots   []models.Slot
	Request models.BookingRequest
	Err     error
}

// Recorder persists confirmations after a successful booking.
//
// Failures are logged and ignored; a recorded booking is never rolled back.
type Recorder interface {
	Record(c models.Confirmation) error
}

// Drain runs tasks one at a time on the calling goroutine, applying each result and queueing the follow-ups,
// until none remain. Used by the one-shot CLI commands.
func Drain(ctx context.Context, s *Session, tasks ...*Task) {
	queue := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if t != nil {
			queue = append(queue, t)
		}
	}

	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		queue = append(queue, s.Apply(t.Run(ctx))...)
	}
}
