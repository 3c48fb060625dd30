package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepositReceipt is one advance payment against an admission.
//
// SequenceNumber and CumulativeAmount are computed over the deposits active at
// creation time and are frozen thereafter: cancelling an earlier receipt never
// renumbers survivors or rewrites their cumulative snapshots. Live totals come
// from DepositSummary instead.
type DepositReceipt struct {
	ReceiptID        string          `json:"receiptID"` // DEP-{base36 ts}-{seq:02d}-{random}
	PatientID        string          `json:"patientID"`
	AdmissionID      string          `json:"admissionID"`
	Amount           decimal.Decimal `json:"amount"`
	SequenceNumber   int             `json:"sequenceNumber"`
	CumulativeAmount decimal.Decimal `json:"cumulativeAmount"`
	PaymentMode      string          `json:"paymentMode"` // CASH, CARD, UPI, ...
	Notes            string          `json:"notes"`
	IsActive         bool            `json:"isActive"`
	CancelledAt      *time.Time      `json:"cancelledAt,omitempty"`
	CancelReason     *string         `json:"cancelReason,omitempty"`
	// DocumentLink is the uploaded receipt PDF, nil when upload failed.
	DocumentLink *string `json:"documentLink,omitempty"`
	AuditFields
}

// DepositSummary is the live view over an admission's active deposits.
// TotalAmount is recomputed fresh from the active receipts and is authoritative,
// independent of any single receipt's frozen CumulativeAmount.
type DepositSummary struct {
	HasDeposits   bool             `json:"hasDeposits"`
	TotalAmount   decimal.Decimal  `json:"totalAmount"`
	DepositsCount int              `json:"depositsCount"`
	Deposits      []DepositReceipt `json:"deposits"`
}
