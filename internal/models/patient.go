package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Patient mirrors the patients table.
type Patient struct {
	PatientID          string          `db:"patient_id"`
	PatientNumber      string          `db:"patient_number"`
	Name               string          `db:"name"`
	Phone              string          `db:"phone"`
	Address            string          `db:"address"`
	PendingAmount      decimal.Decimal `db:"pending_amount"`
	Discharged         bool            `db:"discharged"`
	CurrentAdmissionID *string         `db:"current_admission_id"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}

// Admission mirrors the admissions table.
type Admission struct {
	AdmissionID  string     `db:"admission_id"`
	PatientID    string     `db:"patient_id"`
	IPDNumber    int64      `db:"ipd_number"`
	WardType     string     `db:"ward_type"`
	DoctorName   string     `db:"doctor_name"`
	Diagnosis    string     `db:"diagnosis"`
	AdmittedAt   time.Time  `db:"admitted_at"`
	DischargedAt *time.Time `db:"discharged_at"`
	AuditFields
}
