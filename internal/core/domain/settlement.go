package domain

import "github.com/shopspring/decimal"

// SettlementType identifies which billing event recalculated the balance.
type SettlementType string

const (
	SettlementOPDReceipt   SettlementType = "OPD_RECEIPT"
	SettlementIPDDischarge SettlementType = "IPD_DISCHARGE"
	SettlementFinalReceipt SettlementType = "FINAL_RECEIPT"
)

// Settlement is the result of applying one payment event to the running balance:
//
//	totalDue     = previousRemaining + currentCharge
//	newRemaining = totalDue - amountPaid
//	pending      = max(newRemaining, 0)
//	discharged   = newRemaining <= 0
//
// RawRemaining keeps the pre-clamp value so audits can detect discarded
// overpayments; the model tracks no credit for them.
type Settlement struct {
	PreviousRemaining decimal.Decimal `json:"previousRemaining"`
	CurrentCharge     decimal.Decimal `json:"currentCharge"`
	AmountPaid        decimal.Decimal `json:"amountPaid"`
	TotalDue          decimal.Decimal `json:"totalDue"`
	RawRemaining      decimal.Decimal `json:"rawRemaining"`
	PendingAmount     decimal.Decimal `json:"pendingAmount"`
	Discharged        bool            `json:"discharged"`
}

// SettlementRecord is the persisted audit trail of one settlement event.
// Records are append-only; the newest record's PendingAmount seeds the next
// event's PreviousRemaining, establishing continuity across visits.
type SettlementRecord struct {
	RecordID    string         `json:"recordID"` // Primary Key (UUID)
	PatientID   string         `json:"patientID"`
	AdmissionID *string        `json:"admissionID,omitempty"`
	BillID      *string        `json:"billID,omitempty"`
	Type        SettlementType `json:"type"`
	Settlement
	AuditFields
}
