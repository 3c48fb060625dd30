package services

import (
	"context"

	"github.com/hspware/hospital_billing_app/internal/core/domain"
	"github.com/hspware/hospital_billing_app/internal/dto"
)

// BillingReaderSvc defines read operations over bills and balances
type BillingReaderSvc interface {
	// GetBillByID retrieves a bill.
	GetBillByID(ctx context.Context, billID string) (*domain.Bill, error)

	// ListBillsByPatient retrieves a paginated list of the patient's bills.
	ListBillsByPatient(ctx context.Context, patientID string, limit int, nextToken *string) ([]domain.Bill, *string, error)

	// AuditPatientBalance re-derives the pending amount from the settlement
	// history and reports drift against the stored balance.
	AuditPatientBalance(ctx context.Context, patientID string) (*dto.BalanceAuditResponse, error)
}

// BillingWriterSvc defines the settlement-producing billing operations.
// Each one computes charges, folds in discount/advance, applies the running
// balance formula, persists the bill plus a settlement record, and updates the
// patient's pending amount.
type BillingWriterSvc interface {
	// CreateOPDReceipt bills an outpatient visit and settles the payment
	// against the patient's running balance.
	CreateOPDReceipt(ctx context.Context, patientID string, req dto.CreateOPDReceiptRequest, requestingUserID string) (*domain.Bill, error)

	// CreateIPDDischargeBill produces the itemized discharge bill for the
	// patient's current admission, using the admission's live active-deposit
	// total as the advance, then closes the admission.
	CreateIPDDischargeBill(ctx context.Context, patientID string, req dto.CreateIPDBillRequest, requestingUserID string) (*domain.Bill, error)

	// CreateFinalReceipt settles an outstanding balance without new charges.
	CreateFinalReceipt(ctx context.Context, patientID string, req dto.CreateFinalReceiptRequest, requestingUserID string) (*domain.Bill, error)
}

// BillingSvcFacade combines all billing service interfaces
type BillingSvcFacade interface {
	BillingReaderSvc
	BillingWriterSvc
}
