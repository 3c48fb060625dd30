package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepositReceipt mirrors the deposit_receipts table.
type DepositReceipt struct {
	ReceiptID        string          `db:"receipt_id"`
	PatientID        string          `db:"patient_id"`
	AdmissionID      string          `db:"admission_id"`
	Amount           decimal.Decimal `db:"amount"`
	SequenceNumber   int             `db:"sequence_number"`
	CumulativeAmount decimal.Decimal `db:"cumulative_amount"`
	PaymentMode      string          `db:"payment_mode"`
	Notes            string          `db:"notes"`
	IsActive         bool            `db:"is_active"`
	CancelledAt      *time.Time      `db:"cancelled_at"`
	CancelReason     *string         `db:"cancel_reason"`
	DocumentLink     *string         `db:"document_link"`
	AuditFields
}
