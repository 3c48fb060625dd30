package dto

import (
	"time"

	"github.com/hspware/hospital_billing_app/internal/core/domain"
)

// CreateDepositRequest records an advance payment against the patient's
// current admission.
type CreateDepositRequest struct {
	Amount      string `json:"amount" binding:"required"`
	PaymentMode string `json:"paymentMode"`
	Notes       string `json:"notes"`
}

// CancelDepositRequest soft-deletes a deposit receipt.
type CancelDepositRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// DepositResponse is the API representation of a deposit receipt.
type DepositResponse struct {
	ReceiptID        string     `json:"receiptID"`
	PatientID        string     `json:"patientID"`
	AdmissionID      string     `json:"admissionID"`
	Amount           string     `json:"amount"`
	SequenceNumber   int        `json:"sequenceNumber"`
	CumulativeAmount string     `json:"cumulativeAmount"`
	PaymentMode      string     `json:"paymentMode,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	IsActive         bool       `json:"isActive"`
	CancelledAt      *time.Time `json:"cancelledAt,omitempty"`
	CancelReason     *string    `json:"cancelReason,omitempty"`
	DocumentLink     *string    `json:"documentLink,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// DepositSummaryResponse is the live view over an admission's active deposits.
type DepositSummaryResponse struct {
	HasDeposits   bool              `json:"hasDeposits"`
	TotalAmount   string            `json:"totalAmount"`
	DepositsCount int               `json:"depositsCount"`
	Deposits      []DepositResponse `json:"deposits"`
}

// ToDepositResponse converts a domain.DepositReceipt to its API representation.
func ToDepositResponse(d *domain.DepositReceipt) DepositResponse {
	return DepositResponse{
		ReceiptID:        d.ReceiptID,
		PatientID:        d.PatientID,
		AdmissionID:      d.AdmissionID,
		Amount:           d.Amount.StringFixed(2),
		SequenceNumber:   d.SequenceNumber,
		CumulativeAmount: d.CumulativeAmount.StringFixed(2),
		PaymentMode:      d.PaymentMode,
		Notes:            d.Notes,
		IsActive:         d.IsActive,
		CancelledAt:      d.CancelledAt,
		CancelReason:     d.CancelReason,
		DocumentLink:     d.DocumentLink,
		CreatedAt:        d.CreatedAt,
	}
}

// ToDepositSummaryResponse converts a domain.DepositSummary to its API representation.
func ToDepositSummaryResponse(s *domain.DepositSummary) DepositSummaryResponse {
	deposits := make([]DepositResponse, len(s.Deposits))
	for i := range s.Deposits {
		deposits[i] = ToDepositResponse(&s.Deposits[i])
	}
	return DepositSummaryResponse{
		HasDeposits:   s.HasDeposits,
		TotalAmount:   s.TotalAmount.StringFixed(2),
		DepositsCount: s.DepositsCount,
		Deposits:      deposits,
	}
}
