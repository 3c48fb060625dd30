package models

import (
	"github.com/shopspring/decimal"
)

// Bill mirrors the bills table. Charges is the JSONB-encoded charge map;
// the repository marshals it to and from the domain type.
type Bill struct {
	BillID       string          `db:"bill_id"`
	BillNo       int64           `db:"bill_no"`
	BillNumber   string          `db:"bill_number"`
	BillType     string          `db:"bill_type"`
	PatientID    string          `db:"patient_id"`
	OPDNumber    *int64          `db:"opd_number"`
	AdmissionID  *string         `db:"admission_id"`
	Charges      []byte          `db:"charges"`
	TotalCharges decimal.Decimal `db:"total_charges"`
	Discount     decimal.Decimal `db:"discount"`
	Advance      decimal.Decimal `db:"advance"`
	FinalAmount  decimal.Decimal `db:"final_amount"`
	AmountPaid   decimal.Decimal `db:"amount_paid"`
	DocumentLink *string         `db:"document_link"`
	AuditFields
}
