// package services defines interface BookingService for talking to the remote booking endpoint
package services

import (
	"context"

	"github.com/desertthunder/coursebook/internal/models"
)

// BookingService is the remote source of truth for courses, slot capacity and duplicate detection.
type BookingService interface {
	// Courses retrieves the catalog of bookable course identifiers.
	Courses(ctx context.Context) ([]models.Course, error)

	// Slots retrieves the current availability for one course.
	Slots(ctx context.Context, course models.Course) ([]models.Slot, error)

	// Book registers the request's person for the request's slot.
	// A rejection by the service is returned as a [*ResponseError] of kind [KindApplication].
	Book(ctx context.Context, req models.BookingRequest) error

	// Name returns a short description of the service, used in logs and receipts.
	Name() string
}
