package repositories

import (
	"errors"
	"testing"

	"github.com/desertthunder/coursebook/internal/models"
	"github.com/desertthunder/coursebook/internal/shared"
	"github.com/jmoiron/sqlx"
)

const testEndpoint = "http://127.0.0.1:8080/exec"

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := shared.NewDatabase(shared.MemoryDSN)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func confirmation(course models.Course, tm string) models.Confirmation {
	return models.Confirmation{Course: course, Date: "12.05.2024", Time: tm, FirstName: "Ada", LastName: "Lovelace"}
}

func TestReceiptRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		repo := NewReceiptRepository(setupTestDB(t))
		receipt := models.NewReceipt(0, testEndpoint, confirmation("Adults A", "09:00"))

		if err := repo.Create(receipt); err != nil {
			t.Fatalf("failed to create receipt: %v", err)
		}

		if receipt.ID() == "" {
			t.Error("receipt ID should be set after creation")
		}
		if receipt.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", receipt.Sequence())
		}
	})

	t.Run("Create assigns increasing sequences", func(t *testing.T) {
		repo := NewReceiptRepository(setupTestDB(t))

		for i := 1; i <= 3; i++ {
			r := models.NewReceipt(0, testEndpoint, confirmation("Adults A", "09:00"))
			if err := repo.Create(r); err != nil {
				t.Fatalf("failed to create receipt: %v", err)
			}
			if r.Sequence() != i {
				t.Errorf("expected sequence %d, got %d", i, r.Sequence())
			}
		}
	})

	t.Run("Create rejects incomplete confirmations", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewReceiptRepository(db)
		c := confirmation("Adults A", "09:00")
		c.LastName = ""

		err := repo.Create(models.NewReceipt(0, testEndpoint, c))
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}

		next, err := NextSequence(db, "receipts")
		if err != nil {
			t.Fatalf("NextSequence failed: %v", err)
		}
		if next != 1 {
			t.Errorf("rejected receipt should not consume a sequence, got %d", next)
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewReceiptRepository(setupTestDB(t))
		receipt := models.NewReceipt(0, testEndpoint, confirmation("Adults A", "09:00"))
		if err := repo.Create(receipt); err != nil {
			t.Fatalf("failed to create receipt: %v", err)
		}

		retrieved, err := repo.Get(receipt.ID())
		if err != nil {
			t.Fatalf("failed to get receipt: %v", err)
		}

		if retrieved.Confirmation() != receipt.Confirmation() {
			t.Errorf("expected %+v, got %+v", receipt.Confirmation(), retrieved.Confirmation())
		}
		if retrieved.Endpoint() != testEndpoint {
			t.Errorf("expected endpoint %s, got %s", testEndpoint, retrieved.Endpoint())
		}
		if retrieved.CreatedAt().IsZero() {
			t.Error("created_at should be set")
		}
	})

	t.Run("Get NotFound", func(t *testing.T) {
		repo := NewReceiptRepository(setupTestDB(t))

		if _, err := repo.Get("missing"); !errors.Is(err, shared.ErrReceiptNotFound) {
			t.Errorf("expected ErrReceiptNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewReceiptRepository(setupTestDB(t))
		receipt := models.NewReceipt(0, testEndpoint, confirmation("Adults A", "09:00"))
		if err := repo.Create(receipt); err != nil {
			t.Fatalf("failed to create receipt: %v", err)
		}

		if err := repo.Delete(receipt.ID()); err != nil {
			t.Fatalf("failed to delete receipt: %v", err)
		}

		if _, err := repo.Get(receipt.ID()); !errors.Is(err, shared.ErrReceiptNotFound) {
			t.Errorf("deleted receipt should not be found, got %v", err)
		}
		if err := repo.Delete(receipt.ID()); !errors.Is(err, shared.ErrReceiptNotFound) {
			t.Errorf("second delete should report not found, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewReceiptRepository(setupTestDB(t))
		for _, c := range []models.Confirmation{
			confirmation("Adults A", "09:00"),
			confirmation("Kids B", "10:00"),
			confirmation("Adults A", "15:00"),
		} {
			if err := repo.Create(models.NewReceipt(0, testEndpoint, c)); err != nil {
				t.Fatalf("failed to create receipt: %v", err)
			}
		}

		tests := []struct {
			name     string
			criteria map[string]any
			want     []string
		}{
			{"all", nil, []string{"09:00", "10:00", "15:00"}},
			{"by course", map[string]any{"course": "Adults A"}, []string{"09:00", "15:00"}},
			{"empty course ignored", map[string]any{"course": ""}, []string{"09:00", "10:00", "15:00"}},
			{"by endpoint", map[string]any{"endpoint": "http://other"}, nil},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				receipts, err := repo.List(tt.criteria)
				if err != nil {
					t.Fatalf("failed to list receipts: %v", err)
				}
				if len(receipts) != len(tt.want) {
					t.Fatalf("expected %d receipts, got %d", len(tt.want), len(receipts))
				}
				for i, r := range receipts {
					if r.Confirmation().Time != tt.want[i] {
						t.Errorf("receipt %d: expected %s, got %s", i, tt.want[i], r.Confirmation().Time)
					}
				}
			})
		}
	})

	t.Run("List excludes deleted", func(t *testing.T) {
		repo := NewReceiptRepository(setupTestDB(t))
		keep := models.NewReceipt(0, testEndpoint, confirmation("Adults A", "09:00"))
		drop := models.NewReceipt(0, testEndpoint, confirmation("Adults A", "12:00"))
		for _, r := range []*models.Receipt{keep, drop} {
			if err := repo.Create(r); err != nil {
				t.Fatalf("failed to create receipt: %v", err)
			}
		}
		if err := repo.Delete(drop.ID()); err != nil {
			t.Fatalf("failed to delete receipt: %v", err)
		}

		receipts, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list receipts: %v", err)
		}
		if len(receipts) != 1 || receipts[0].ID() != keep.ID() {
			t.Errorf("expected only %s, got %d receipts", keep.ID(), len(receipts))
		}
	})
}

func TestReceiptRecorder(t *testing.T) {
	repo := NewReceiptRepository(setupTestDB(t))
	recorder := NewReceiptRecorder(repo, testEndpoint)

	if err := recorder.Record(confirmation("Kids B", "10:00")); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	receipts, err := repo.List(map[string]any{"course": "Kids B"})
	if err != nil {
		t.Fatalf("failed to list receipts: %v", err)
	}
	if len(receipts) != 1 {
		t.Fatalf("expected 1 receipt, got %d", len(receipts))
	}
	if receipts[0].Endpoint() != testEndpoint {
		t.Errorf("expected endpoint %s, got %s", testEndpoint, receipts[0].Endpoint())
	}
}

func TestNextSequence(t *testing.T) {
	t.Run("Increments", func(t *testing.T) {
		db := setupTestDB(t)
		for want := 1; want <= 3; want++ {
			got, err := NextSequence(db, "receipts")
			if err != nil {
				t.Fatalf("NextSequence failed: %v", err)
			}
			if got != want {
				t.Errorf("expected %d, got %d", want, got)
			}
		}
	})

	t.Run("Unknown table", func(t *testing.T) {
		if _, err := NextSequence(setupTestDB(t), "missing"); err == nil {
			t.Error("expected error for unknown sequence table")
		}
	})
}
