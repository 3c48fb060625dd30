package services

import (
	"context"

	"github.com/hspware/hospital_billing_app/internal/core/domain"
	"github.com/hspware/hospital_billing_app/internal/dto"
)

// DepositReaderSvc defines read operations for deposit receipts
type DepositReaderSvc interface {
	// GetDepositByReceiptID retrieves one deposit receipt.
	GetDepositByReceiptID(ctx context.Context, receiptID string) (*domain.DepositReceipt, error)

	// GetAdmissionDepositSummary returns the live summary over an admission's
	// active deposits: the authoritative total, independent of any receipt's
	// frozen cumulative snapshot.
	GetAdmissionDepositSummary(ctx context.Context, admissionID string) (*domain.DepositSummary, error)

	// ListDepositsByAdmission lists all receipts for an admission, cancelled
	// ones included, in sequence order.
	ListDepositsByAdmission(ctx context.Context, admissionID string) ([]domain.DepositReceipt, error)
}

// DepositWriterSvc defines write operations for deposit receipts
type DepositWriterSvc interface {
	// CreateDeposit records an advance payment against the patient's current
	// admission, assigning the next per-admission sequence number and the
	// frozen cumulative amount.
	CreateDeposit(ctx context.Context, patientID string, req dto.CreateDepositRequest, requestingUserID string) (*domain.DepositReceipt, error)

	// CancelDeposit soft-deletes a receipt. Survivors keep their sequence
	// numbers and cumulative snapshots.
	CancelDeposit(ctx context.Context, receiptID string, reason string, requestingUserID string) error
}

// DepositSvcFacade combines all deposit service interfaces
type DepositSvcFacade interface {
	DepositReaderSvc
	DepositWriterSvc
}
