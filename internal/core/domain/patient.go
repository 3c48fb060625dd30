package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Patient represents a registered patient and their single running balance.
//
// PendingAmount is the sole source of truth for "does this patient owe money".
// It is maintained incrementally by settlement events and is never re-derived
// from history in the write path (see SettlementRecord for the audit trail).
type Patient struct {
	PatientID     string `json:"patientID"`     // Primary Key (UUID)
	PatientNumber string `json:"patientNumber"` // Human-readable number, e.g. PAT000123
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	// PendingAmount is the outstanding balance carried across visits and admissions.
	PendingAmount decimal.Decimal `json:"pendingAmount"`
	// Discharged is true iff PendingAmount <= 0 after the most recent settlement.
	Discharged bool `json:"discharged"`
	// CurrentAdmissionID points at the active admission, if any. Admissions are
	// append-only records; this pointer is the only notion of "current".
	CurrentAdmissionID *string `json:"currentAdmissionID,omitempty"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// HasActiveAdmission reports whether the patient is currently admitted.
func (p *Patient) HasActiveAdmission() bool {
	return p.CurrentAdmissionID != nil && *p.CurrentAdmissionID != ""
}
