package repositories

import (
	"context"
	"time"

	"github.com/hspware/hospital_billing_app/internal/core/domain"
)

// DepositReader defines read operations for deposit receipts
type DepositReader interface {
	// FindDepositByReceiptID retrieves a specific deposit receipt.
	FindDepositByReceiptID(ctx context.Context, receiptID string) (*domain.DepositReceipt, error)

	// FindActiveDepositsByAdmission retrieves the currently-active deposits
	// for an admission, ordered by creation time descending.
	FindActiveDepositsByAdmission(ctx context.Context, admissionID string) ([]domain.DepositReceipt, error)

	// ListDepositsByAdmission retrieves all deposits (active and cancelled)
	// for an admission, ordered by sequence number ascending.
	ListDepositsByAdmission(ctx context.Context, admissionID string) ([]domain.DepositReceipt, error)
}

// DepositWriter defines write operations for deposit receipts
type DepositWriter interface {
	// SaveDeposit persists a new deposit receipt. Duplicate receipt IDs
	// surface as apperrors.ErrDuplicate.
	SaveDeposit(ctx context.Context, deposit domain.DepositReceipt) error

	// CancelDeposit soft-deletes a receipt, recording when and why. Sequence
	// numbers and cumulative amounts of other receipts are never touched.
	CancelDeposit(ctx context.Context, receiptID string, reason string, cancelledAt time.Time, cancelledBy string) error

	// UpdateDepositDocumentLink stores the uploaded receipt document location.
	UpdateDepositDocumentLink(ctx context.Context, receiptID string, link string, updatedBy string, updatedAt time.Time) error
}

// DepositRepositoryFacade combines all deposit-related repository interfaces
type DepositRepositoryFacade interface {
	DepositReader
	DepositWriter
}
