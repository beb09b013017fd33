package models

import (
	"fmt"
	"strings"
)

// Course is an opaque, display-unique course identifier as returned by the catalog.
type Course string

// Slot is one date/time offering of a course. Remaining is a server snapshot and is never decremented locally.
type Slot struct {
	Date      string `json:"date" validate:"required"`
	Time      string `json:"time" validate:"required"`
	Capacity  int    `json:"capacity" validate:"gte=0"`
	Remaining int    `json:"remaining" validate:"gte=0,ltefield=Capacity"`
}

// Key returns the identity of the slot within its course.
func (s Slot) Key() SlotKey {
	return SlotKey{Date: s.Date, Time: s.Time}
}

// Full reports whether the slot has no remaining places.
func (s Slot) Full() bool {
	return s.Remaining <= 0
}

// SlotKey identifies a slot within a course's slot list.
type SlotKey struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%s %s", k.Date, k.Time)
}

// FindSlot returns the slot with the given key.
func FindSlot(slots []Slot, key SlotKey) (Slot, bool) {
	for _, s := range slots {
		if s.Key() == key {
			return s, true
		}
	}
	return Slot{}, false
}

// Selection is the transient course and slot choice.
// Slot is only meaningful relative to Course.
type Selection struct {
	Course *Course
	Slot   *SlotKey
}

// SetCourse replaces the selected course and always clears the slot.
func (s *Selection) SetCourse(c Course) {
	s.Course = &c
	s.Slot = nil
}

// SetSlot selects a slot of the current course.
func (s *Selection) SetSlot(k SlotKey) {
	s.Slot = &k
}

// ClearSlot drops the selected slot.
func (s *Selection) ClearSlot() {
	s.Slot = nil
}

// Registrant holds the raw name fields as typed.
type Registrant struct {
	FirstName string
	LastName  string
}

// Trimmed returns a copy with surrounding whitespace removed.
func (r Registrant) Trimmed() Registrant {
	return Registrant{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
	}
}

// Complete reports whether both names are non-empty after trimming.
func (r Registrant) Complete() bool {
	t := r.Trimmed()
	return t.FirstName != "" && t.LastName != ""
}

// BookingRequest is the write payload sent to the booking service.
type BookingRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Course    Course `json:"course"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

// Confirmation snapshots a successful request.
func (r BookingRequest) Confirmation() Confirmation {
	return Confirmation{
		Course:    r.Course,
		Date:      r.Date,
		Time:      r.Time,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

// Confirmation is what the confirmation view renders after a successful booking.
type Confirmation struct {
	Course    Course `json:"course"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AttemptStatus is the lifecycle of a [BookingAttempt].
type AttemptStatus int

const (
	AttemptIdle AttemptStatus = iota
	AttemptPending
	AttemptSucceeded
	AttemptFailed
)

func (s AttemptStatus) String() string {
	switch s {
	case AttemptPending:
		return "pending"
	case AttemptSucceeded:
		return "succeeded"
	case AttemptFailed:
		return "failed"
	default:
		return "idle"
	}
}

// BookingAttempt is the last submitted request and its outcome.
//
// Confirmation is set only when Status is [AttemptSucceeded]; Message only when it is [AttemptFailed].
type BookingAttempt struct {
	Status       AttemptStatus
	Request      BookingRequest
	Confirmation Confirmation
	Message      string
}

// Pending reports whether a submission is in flight.
func (a BookingAttempt) Pending() bool {
	return a.Status == AttemptPending
}
