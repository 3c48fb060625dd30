package models

import (
	"github.com/shopspring/decimal"
)

// SettlementRecord mirrors the settlement_history table.
type SettlementRecord struct {
	RecordID          string          `db:"record_id"`
	PatientID         string          `db:"patient_id"`
	AdmissionID       *string         `db:"admission_id"`
	BillID            *string         `db:"bill_id"`
	Type              string          `db:"settlement_type"`
	PreviousRemaining decimal.Decimal `db:"previous_remaining"`
	CurrentCharge     decimal.Decimal `db:"current_charge"`
	AmountPaid        decimal.Decimal `db:"amount_paid"`
	TotalDue          decimal.Decimal `db:"total_due"`
	RawRemaining      decimal.Decimal `db:"raw_remaining"`
	PendingAmount     decimal.Decimal `db:"pending_amount"`
	Discharged        bool            `db:"discharged"`
	AuditFields
}

// SequenceCounter mirrors the sequence_counters table.
type SequenceCounter struct {
	Name          string `db:"name"`
	SequenceValue int64  `db:"sequence_value"`
}
