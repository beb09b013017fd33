package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/coursebook/internal/models"
	"github.com/desertthunder/coursebook/internal/shared"
	"github.com/jmoiron/sqlx"
)

var _ models.Repository[*models.Receipt] = (*ReceiptRepository)(nil)

type receiptRow struct {
	ID        string       `db:"id"`
	Sequence  int          `db:"sequence"`
	Endpoint  string       `db:"endpoint"`
	Course    string       `db:"course"`
	SlotDate  string       `db:"slot_date"`
	SlotTime  string       `db:"slot_time"`
	FirstName string       `db:"first_name"`
	LastName  string       `db:"last_name"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
	DeletedAt sql.NullTime `db:"deleted_at"`
}

func (row receiptRow) receipt() *models.Receipt {
	r := models.NewReceipt(row.Sequence, row.Endpoint, models.Confirmation{
		Course:    models.Course(row.Course),
		Date:      row.SlotDate,
		Time:      row.SlotTime,
		FirstName: row.FirstName,
		LastName:  row.LastName,
	})
	r.SetID(row.ID)
	r.SetCreatedAt(row.CreatedAt)
	r.SetUpdatedAt(row.UpdatedAt)
	if row.DeletedAt.Valid {
		r.SetDeletedAt(&row.DeletedAt.Time)
	}
	return r
}

const receiptColumns = `id, sequence, endpoint, course, slot_date, slot_time, first_name, last_name, created_at, updated_at, deleted_at`

// ReceiptRepository implements [models.Repository] for [models.Receipt] persistence.
type ReceiptRepository struct {
	db *sqlx.DB
}

// NewReceiptRepository creates a new [ReceiptRepository] with the given database connection
func NewReceiptRepository(db *sqlx.DB) *ReceiptRepository {
	return &ReceiptRepository{db: db}
}

// Create inserts a new receipt with generated ID and sequence
func (r *ReceiptRepository) Create(receipt *models.Receipt) error {
	receipt.SetID(shared.GenerateID())
	if err := receipt.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	sequence, err := NextSequence(r.db, "receipts")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	receipt.SetSequence(sequence)

	c := receipt.Confirmation()
	_, err = r.db.NamedExec(`
		INSERT INTO receipts (id, sequence, endpoint, course, slot_date, slot_time, first_name, last_name, created_at, updated_at)
		VALUES (:id, :sequence, :endpoint, :course, :slot_date, :slot_time, :first_name, :last_name, :created_at, :updated_at)
	`, receiptRow{
		ID:        receipt.ID(),
		Sequence:  sequence,
		Endpoint:  receipt.Endpoint(),
		Course:    string(c.Course),
		SlotDate:  c.Date,
		SlotTime:  c.Time,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		CreatedAt: receipt.CreatedAt(),
		UpdatedAt: receipt.UpdatedAt(),
	})
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}

	return nil
}

// Get retrieves a receipt by ID, excluding soft-deleted receipts
func (r *ReceiptRepository) Get(id string) (*models.Receipt, error) {
	var row receiptRow
	err := r.db.Get(&row, `SELECT `+receiptColumns+` FROM receipts WHERE id = ? AND deleted_at IS NULL`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrReceiptNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query receipt: %w", err)
	}
	return row.receipt(), nil
}

// Delete soft-deletes a receipt by ID
func (r *ReceiptRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE receipts SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrReceiptNotFound, id)
	}

	return nil
}

// List retrieves all receipts matching the given criteria in sequence order, excluding soft-deleted receipts.
//
// Supported criteria: "course" and "endpoint" (exact match).
func (r *ReceiptRepository) List(criteria map[string]any) ([]*models.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts WHERE deleted_at IS NULL`
	args := []any{}

	if course, ok := criteria["course"].(string); ok && course != "" {
		query += " AND course = ?"
		args = append(args, course)
	}
	if endpoint, ok := criteria["endpoint"].(string); ok && endpoint != "" {
		query += " AND endpoint = ?"
		args = append(args, endpoint)
	}

	query += " ORDER BY sequence ASC"

	var rows []receiptRow
	if err := r.db.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query receipts: %w", err)
	}

	receipts := make([]*models.Receipt, 0, len(rows))
	for _, row := range rows {
		receipts = append(receipts, row.receipt())
	}
	return receipts, nil
}

// ReceiptRecorder journals confirmed bookings made against one endpoint.
type ReceiptRecorder struct {
	repo     *ReceiptRepository
	endpoint string
}

func NewReceiptRecorder(repo *ReceiptRepository, endpoint string) *ReceiptRecorder {
	return &ReceiptRecorder{repo: repo, endpoint: endpoint}
}

// Record stores c as a new receipt.
func (r *ReceiptRecorder) Record(c models.Confirmation) error {
	return r.repo.Create(models.NewReceipt(0, r.endpoint, c))
}
