package repositories

import (
	"context"
	"time"

	"github.com/hspware/hospital_billing_app/internal/core/domain"
)

// BillReader defines read operations for bill data
type BillReader interface {
	// FindBillByID retrieves a specific bill by its ID.
	FindBillByID(ctx context.Context, billID string) (*domain.Bill, error)

	// FindMaxBillNumberByPrefix returns the lexicographically largest
	// billNumber starting with prefix ({TYPE}{YY}{MM}), or nil when none
	// exists. This read feeds the (non-atomic) human-readable numbering.
	FindMaxBillNumberByPrefix(ctx context.Context, prefix string) (*string, error)

	// ListBillsByPatient retrieves a paginated list of the patient's bills
	// using token-based pagination, newest first.
	ListBillsByPatient(ctx context.Context, patientID string, limit int, nextToken *string) ([]domain.Bill, *string, error)
}

// BillWriter defines write operations for bill data
type BillWriter interface {
	// SaveBill persists a new bill. A unique-index violation on billNumber or
	// billNo surfaces as apperrors.ErrDuplicate so the caller can regenerate
	// and retry.
	SaveBill(ctx context.Context, bill domain.Bill) error

	// UpdateBillDocumentLink stores the uploaded document location. Failures
	// here never affect the persisted financial computation.
	UpdateBillDocumentLink(ctx context.Context, billID string, link string, updatedBy string, updatedAt time.Time) error
}

// BillRepositoryFacade combines all bill-related repository interfaces
type BillRepositoryFacade interface {
	BillReader
	BillWriter
}
