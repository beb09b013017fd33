package main

import (
	"context"
	"errors"

	"github.com/desertthunder/coursebook/internal/formatter"
	"github.com/desertthunder/coursebook/internal/models"
	"github.com/desertthunder/coursebook/internal/repositories"
	"github.com/desertthunder/coursebook/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Courses loads and prints the course catalog.
func (r *Runner) Courses(ctx context.Context, cmd *cli.Command) error {
	s := r.newSession(nil)
	tasks.Drain(ctx, s, s.Start())

	state := s.Courses()
	if state.IsFailed() {
		return errors.New(state.Err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(state.Value, true)
	}

	if len(state.Value) == 0 {
		return r.writePlain("No courses available.\n")
	}
	for i, c := range state.Value {
		r.writePlain("%d. %s\n", i+1, c)
	}
	return nil
}

// Slots loads and prints the slots of one course.
func (r *Runner) Slots(ctx context.Context, cmd *cli.Command) error {
	course := models.Course(cmd.String("course"))

	s := r.newSession(nil)
	tasks.Drain(ctx, s, s.SelectCourse(course))

	state := s.Slots()
	if state.IsFailed() {
		return errors.New(state.Err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(state.Value, true)
	}

	r.writePlainHeader(string(course))
	r.writeSlots(state.Value)
	return nil
}

// Book selects a slot, submits the booking and prints the confirmation with the refreshed availability.
//
// Unless --no-record is given the confirmation is also stored in the receipt journal. A journal that
// cannot be opened is logged and the booking still goes ahead.
func (r *Runner) Book(ctx context.Context, cmd *cli.Command) error {
	course := models.Course(cmd.String("course"))
	key := models.SlotKey{Date: cmd.String("date"), Time: cmd.String("time")}

	var recorder tasks.Recorder
	if !cmd.Bool("no-record") {
		repo, db, err := r.openReceipts()
		if err != nil {
			r.logger.Warn("receipt journal unavailable, booking will not be recorded", "err", err)
		} else {
			defer db.Close()
			recorder = repositories.NewReceiptRecorder(repo, r.service.Name())
		}
	}

	s := r.newSession(recorder)
	tasks.Drain(ctx, s, s.SelectCourse(course))
	if slots := s.Slots(); slots.IsFailed() {
		return errors.New(slots.Err)
	}

	if err := s.SelectSlot(key); err != nil {
		return err
	}
	s.SetRegistrant(models.Registrant{FirstName: cmd.String("first"), LastName: cmd.String("last")})

	task, err := s.Submit()
	if err != nil {
		return err
	}

	r.logger.Info("submitting booking", "course", course, "slot", key)
	tasks.Drain(ctx, s, task)

	attempt := s.Attempt()
	if attempt.Status != models.AttemptSucceeded {
		return errors.New(attempt.Message)
	}

	c := attempt.Confirmation
	r.writePlain("✓ Booking confirmed\n\n")
	r.writePlain("Course: %s\n", c.Course)
	r.writePlain("Slot:   %s %s\n", c.Date, c.Time)
	r.writePlain("Name:   %s %s\n", c.FirstName, c.LastName)

	if slot, ok := models.FindSlot(s.Slots().Value, key); ok {
		r.writePlainln("Now: %s", formatter.SlotAvailability(slot))
	}
	return nil
}

func (r *Runner) writeSlots(slots []models.Slot) {
	if len(slots) == 0 {
		r.writePlain("No slots available.\n")
		return
	}
	for i, slot := range slots {
		r.writePlain("%2d. %s %s  %s\n", i+1, slot.Date, slot.Time, formatter.SlotAvailability(slot))
	}
}
