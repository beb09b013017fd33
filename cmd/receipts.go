package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"
)

// receiptView is the JSON shape printed by 'receipts list --json'.
type receiptView struct {
	ID        string    `json:"id"`
	Sequence  int       `json:"sequence"`
	Endpoint  string    `json:"endpoint"`
	Course    string    `json:"course"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"created_at"`
}

// ReceiptsList prints the stored receipts in booking order.
func (r *Runner) ReceiptsList(ctx context.Context, cmd *cli.Command) error {
	repo, db, err := r.openReceipts()
	if err != nil {
		return err
	}
	defer db.Close()

	receipts, err := repo.List(map[string]any{"course": cmd.String("course")})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		views := make([]receiptView, 0, len(receipts))
		for _, rc := range receipts {
			c := rc.Confirmation()
			views = append(views, receiptView{
				ID:        rc.ID(),
				Sequence:  rc.Sequence(),
				Endpoint:  rc.Endpoint(),
				Course:    string(c.Course),
				Date:      c.Date,
				Time:      c.Time,
				FirstName: c.FirstName,
				LastName:  c.LastName,
				CreatedAt: rc.CreatedAt(),
			})
		}
		return r.writeJSON(views, true)
	}

	if len(receipts) == 0 {
		return r.writePlain("No receipts stored.\n")
	}

	for _, rc := range receipts {
		c := rc.Confirmation()
		r.writePlain("#%d %s  %s %s  %s %s\n", rc.Sequence(), c.Course, c.Date, c.Time, c.FirstName, c.LastName)
		r.writePlain("   id: %s\n", rc.ID())
	}
	return nil
}

// ReceiptsDelete removes one receipt from the journal.
func (r *Runner) ReceiptsDelete(ctx context.Context, cmd *cli.Command) error {
	repo, db, err := r.openReceipts()
	if err != nil {
		return err
	}
	defer db.Close()

	id := cmd.String("id")
	if err := repo.Delete(id); err != nil {
		return err
	}

	r.logger.Info("receipt deleted", "id", id)
	return r.writePlain("✓ Receipt %s deleted\n", id)
}
