package domain

import "time"

// Admission represents one episode of inpatient care. Admissions are an
// append-only log; Patient.CurrentAdmissionID identifies the active one.
type Admission struct {
	AdmissionID  string     `json:"admissionID"` // Primary Key (UUID)
	PatientID    string     `json:"patientID"`   // FK -> Patient.patientID
	IPDNumber    int64      `json:"ipdNumber"`   // From the "ipdNumber" sequence counter
	WardType     string     `json:"wardType"`    // e.g. GENERAL, ICU, PRIVATE
	DoctorName   string     `json:"doctorName"`
	Diagnosis    string     `json:"diagnosis"`
	AdmittedAt   time.Time  `json:"admittedAt"`
	DischargedAt *time.Time `json:"dischargedAt,omitempty"`
	AuditFields
}

// LengthOfStayDays returns the whole number of days between admission and
// discharge (or now when still admitted), with a minimum of 1. This is the
// default duration fed to the charge processor for day-based categories.
func (a *Admission) LengthOfStayDays(now time.Time) int {
	end := now
	if a.DischargedAt != nil {
		end = *a.DischargedAt
	}
	days := int(end.Sub(a.AdmittedAt).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days
}
