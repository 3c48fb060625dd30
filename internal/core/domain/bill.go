package domain

import "github.com/shopspring/decimal"

// BillType distinguishes outpatient receipts from inpatient bills.
type BillType string

const (
	BillTypeOPD BillType = "OPD"
	BillTypeIPD BillType = "IPD"
	// BillTypeFinal marks a final settlement receipt: no new charges, only a
	// payment against the outstanding balance.
	BillTypeFinal BillType = "FINAL"
)

// Bill is a generated billing document record.
//
// BillNo is a globally unique integer minted from the atomic "billNo" counter.
// BillNumber is the human-readable {TYPE}{YY}{MM}{seq:04d} string whose
// trailing sequence effectively restarts per type+month. Both are assigned at
// creation and never change.
type Bill struct {
	BillID     string   `json:"billID"` // Primary Key (UUID)
	BillNo     int64    `json:"billNo"`
	BillNumber string   `json:"billNumber"`
	BillType   BillType `json:"billType"`
	PatientID  string   `json:"patientID"`
	// OPDNumber is the visit number minted from the "opdNumber" counter,
	// set for OPD receipts only.
	OPDNumber *int64 `json:"opdNumber,omitempty"`
	// AdmissionID is set for IPD bills, nil for OPD receipts.
	AdmissionID *string                   `json:"admissionID,omitempty"`
	Charges     map[string]ChargeCategory `json:"charges"`
	Calculation BillCalculation           `json:"calculation"`
	AmountPaid  decimal.Decimal           `json:"amountPaid"`
	// DocumentLink is the uploaded PDF location. Left nil when rendering or
	// upload fails; never a reason to roll back the financial computation.
	DocumentLink *string `json:"documentLink,omitempty"`
	AuditFields
}
