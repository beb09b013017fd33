package tasks

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/coursebook/internal/models"
	"github.com/desertthunder/coursebook/internal/services"
	"github.com/desertthunder/coursebook/internal/shared"
)

// SessionOpts configures a [Session].
type SessionOpts struct {
	Service  services.BookingService
	Logger   *log.Logger
	Recorder Recorder // optional
}

// Session is the booking flow's single state aggregate.
//
// Intent handlers mutate selection state synchronously and return the [Task] that must run next.
// Completed tasks come back through [Session.Apply], which is the only place network results touch state.
// A Session is owned by one goroutine and is not safe for concurrent use.
type Session struct {
	service  services.BookingService
	logger   *log.Logger
	recorder Recorder

	started          bool
	courses          models.LoadState[[]models.Course]
	slots            models.LoadState[[]models.Slot]
	slotSeq          uint64
	selection        models.Selection
	registrant       models.Registrant
	attempt          models.BookingAttempt
	showConfirmation bool
}

// NewSession creates an idle session. Nothing is fetched until [Session.Start].
func NewSession(opts SessionOpts) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Session{
		service:  opts.Service,
		logger:   logger,
		recorder: opts.Recorder,
	}
}

// Start issues the one catalog fetch of the session. Later calls return nil.
func (s *Session) Start() *Task {
	if s.started {
		return nil
	}
	s.started = true
	s.courses = models.Loading[[]models.Course]()

	svc := s.service
	return &Task{
		Kind: KindCourses,
		fn: func(ctx context.Context) Result {
			courses, err := svc.Courses(ctx)
			return Result{Courses: courses, Err: err}
		},
	}
}

// SelectCourse makes c the current course and restarts the slot load, even when c is already selected.
//
// The previous slot list and selected slot are cleared before the returned task runs,
// and any slot load still in flight is superseded.
func (s *Session) SelectCourse(c models.Course) *Task {
	s.selection.SetCourse(c)
	s.slots = models.Loading[[]models.Slot]()
	return s.slotsTask(KindSlots, c)
}

// SelectSlot selects a slot of the loaded list. Unknown and full slots are rejected.
func (s *Session) SelectSlot(key models.SlotKey) error {
	if _, ok := s.SelectedCourse(); !ok {
		return shared.ErrNoCourse
	}
	if !s.slots.IsLoaded() {
		return fmt.Errorf("%w: slots are not loaded", shared.ErrSlotUnavailable)
	}

	slot, ok := models.FindSlot(s.slots.Value, key)
	if !ok {
		return fmt.Errorf("%w: unknown slot %s", shared.ErrSlotUnavailable, key)
	}
	if slot.Full() {
		return fmt.Errorf("%w: %s is full", shared.ErrSlotUnavailable, key)
	}

	s.selection.SetSlot(key)
	return nil
}

func (s *Session) SetFirstName(v string) { s.registrant.FirstName = v }
func (s *Session) SetLastName(v string) { s.registrant.LastName = v }

// SetRegistrant replaces both name fields.
func (s *Session) SetRegistrant(r models.Registrant) { s.registrant = r }

// CanSubmit reports whether course, slot and both trimmed names are present.
func (s *Session) CanSubmit() bool {
	return s.selection.Course != nil && s.selection.Slot != nil && s.registrant.Complete()
}

// Submit starts a booking for the current selection and trimmed names.
//
// It returns [shared.ErrSubmitPending] while an earlier submission is in flight and [shared.ErrNotReady]
// when [Session.CanSubmit] is false. In both cases nothing changes and no task is returned.
func (s *Session) Submit() (*Task, error) {
	if s.attempt.Pending() {
		return nil, shared.ErrSubmitPending
	}
	if !s.CanSubmit() {
		return nil, shared.ErrNotReady
	}

	r := s.registrant.Trimmed()
	req := models.BookingRequest{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Course:    *s.selection.Course,
		Date:      s.selection.Slot.Date,
		Time:      s.selection.Slot.Time,
	}
	s.attempt = models.BookingAttempt{Status: models.AttemptPending, Request: req}
	s.showConfirmation = false

	svc := s.service
	return &Task{
		Kind:   KindBooking,
		Course: req.Course,
		fn: func(ctx context.Context) Result {
			return Result{Request: req, Err: svc.Book(ctx, req)}
		},
	}, nil
}

// DismissConfirmation hides the confirmation. The attempt itself is kept.
func (s *Session) DismissConfirmation() {
	s.showConfirmation = false
}

// Apply reconciles a completed task with the current state and returns follow-up tasks to run.
func (s *Session) Apply(res Result) []*Task {
	switch res.Kind {
	case KindCourses:
		s.applyCourses(res)
	case KindSlots, KindRefresh:
		s.applySlots(res)
	case KindBooking:
		return s.applyBooking(res)
	case KindRecord:
		if res.Err != nil {
			s.logger.Warn("failed to record booking", "course", res.Course, "err", res.Err)
		}
	default:
		s.logger.Debug("ignoring result of unknown kind", "kind", res.Kind)
	}
	return nil
}

func (s *Session) applyCourses(res Result) {
	if res.Err != nil {
		s.courses = models.Failed[[]models.Course](LoadErrorMessage(CoursesFailedMessage, res.Err))
		s.logger.Error("course catalog load failed", "err", res.Err)
		return
	}
	s.courses = models.Loaded(res.Courses)
	s.logger.Debug("course catalog loaded", "count", len(res.Courses))
}

// applySlots keeps a slot result only when its sequence number is the latest issued.
//
// A failed refresh leaves a loaded list in place.
func (s *Session) applySlots(res Result) {
	if res.Seq != s.slotSeq {
		s.logger.Debug("discarding superseded slot response", "course", res.Course, "seq", res.Seq, "current", s.slotSeq)
		return
	}

	if res.Err != nil {
		if res.Kind == KindRefresh && !s.slots.IsLoading() {
			s.logger.Warn("slot refresh failed", "course", res.Course, "err", res.Err)
			return
		}
		s.slots = models.Failed[[]models.Slot](LoadErrorMessage(SlotsFailedMessage, res.Err))
		s.logger.Error("slot load failed", "course", res.Course, "err", res.Err)
		return
	}

	s.slots = models.Loaded(res.Slots)
	if key, ok := s.SelectedSlot(); ok {
		if slot, found := models.FindSlot(res.Slots, key); !found || slot.Full() {
			s.selection.ClearSlot()
		}
	}
	s.logger.Debug("slots loaded", "course", res.Course, "count", len(res.Slots), "kind", res.Kind)
}

func (s *Session) applyBooking(res Result) []*Task {
	if !s.attempt.Pending() || s.attempt.Request != res.Request {
		s.logger.Debug("ignoring booking result without a matching pending attempt", "course", res.Course)
		return nil
	}

	if res.Err != nil {
		s.attempt = models.BookingAttempt{
			Status:  models.AttemptFailed,
			Request: res.Request,
			Message: BookingErrorMessage(res.Err),
		}
		s.logger.Warn("booking failed", "course", res.Request.Course, "slot", res.Request.Date+" "+res.Request.Time, "err", res.Err)
		return nil
	}

	conf := res.Request.Confirmation()
	s.attempt = models.BookingAttempt{
		Status:       models.AttemptSucceeded,
		Request:      res.Request,
		Confirmation: conf,
	}
	s.showConfirmation = true
	s.logger.Info("booking confirmed", "course", conf.Course, "date", conf.Date, "time", conf.Time)

	var follow []*Task
	if c, ok := s.SelectedCourse(); ok && c == conf.Course {
		follow = append(follow, s.slotsTask(KindRefresh, conf.Course))
	} else {
		s.logger.Debug("skipping refresh, booked course is no longer selected", "course", conf.Course)
	}
	if s.recorder != nil {
		follow = append(follow, s.recordTask(conf))
	}
	return follow
}

// slotsTask tags a new slot fetch with the next sequence number, superseding older ones.
func (s *Session) slotsTask(kind Kind, c models.Course) *Task {
	s.slotSeq++
	svc := s.service
	return &Task{
		Kind:   kind,
		Course: c,
		Seq:    s.slotSeq,
		fn: func(ctx context.Context) Result {
			slots, err := svc.Slots(ctx, c)
			return Result{Slots: slots, Err: err}
		},
	}
}

func (s *Session) recordTask(conf models.Confirmation) *Task {
	rec := s.recorder
	return &Task{
		Kind:   KindRecord,
		Course: conf.Course,
		fn: func(context.Context) Result {
			return Result{Err: rec.Record(conf)}
		},
	}
}

// Courses returns the catalog load state.
func (s *Session) Courses() models.LoadState[[]models.Course] { return s.courses }

// Slots returns the slot load state for the selected course.
func (s *Session) Slots() models.LoadState[[]models.Slot] { return s.slots }

// SelectedCourse returns the current course, if any.
func (s *Session) SelectedCourse() (models.Course, bool) {
	if s.selection.Course == nil {
		return "", false
	}
	return *s.selection.Course, true
}

// SelectedSlot returns the current slot, if any.
func (s *Session) SelectedSlot() (models.SlotKey, bool) {
	if s.selection.Slot == nil {
		return models.SlotKey{}, false
	}
	return *s.selection.Slot, true
}

func (s *Session) Registrant() models.Registrant { return s.registrant }
func (s *Session) Attempt() models.BookingAttempt { return s.attempt }
func (s *Session) ConfirmationVisible() bool { return s.showConfirmation }
