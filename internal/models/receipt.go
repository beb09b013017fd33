package models

import (
	"fmt"
	"time"
)

// Receipt is a locally persisted copy of a [Confirmation].
//
// It records the endpoint the booking was made against so that receipts from different services can be told apart.
type Receipt struct {
	id           string
	sequence     int
	endpoint     string
	confirmation Confirmation
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

// NewReceipt creates a new [Receipt] timestamped now. The ID is assigned by the repository.
func NewReceipt(sequence int, endpoint string, c Confirmation) *Receipt {
	now := time.Now()
	return &Receipt{
		sequence:     sequence,
		endpoint:     endpoint,
		confirmation: c,
		createdAt:    now,
		updatedAt:    now,
	}
}

func (r *Receipt) ID() string { return r.id }
func (r *Receipt) Sequence() int { return r.sequence }
func (r *Receipt) Endpoint() string { return r.endpoint }
func (r *Receipt) Confirmation() Confirmation { return r.confirmation }
func (r *Receipt) CreatedAt() time.Time { return r.createdAt }
func (r *Receipt) UpdatedAt() time.Time { return r.updatedAt }
func (r *Receipt) DeletedAt() *time.Time { return r.deletedAt }

func (r *Receipt) SetID(id string) { r.id = id }
func (r *Receipt) SetSequence(seq int) { r.sequence = seq }
func (r *Receipt) SetCreatedAt(t time.Time) { r.createdAt = t }
func (r *Receipt) SetUpdatedAt(t time.Time) { r.updatedAt = t }
func (r *Receipt) SetDeletedAt(t *time.Time) { r.deletedAt = t }
func (r *Receipt) IsDeleted() bool { return r.deletedAt != nil }

// Validate checks that the receipt carries a complete confirmation.
func (r *Receipt) Validate() error {
	c := r.confirmation
	switch {
	case r.id == "":
		return fmt.Errorf("receipt ID is required")
	case c.Course == "":
		return fmt.Errorf("receipt course is required")
	case c.Date == "" || c.Time == "":
		return fmt.Errorf("receipt slot date and time are required")
	case c.FirstName == "" || c.LastName == "":
		return fmt.Errorf("receipt registrant name is required")
	}
	return nil
}
