package dto

import (
	"time"

	"github.com/hspware/hospital_billing_app/internal/core/domain"
)

// RegisterPatientRequest defines the data required to register a patient.
type RegisterPatientRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdatePatientRequest defines the data allowed for updating a patient.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdatePatientRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// AdmitPatientRequest defines the data required to open an admission.
type AdmitPatientRequest struct {
	WardType   string `json:"wardType" binding:"required"`
	DoctorName string `json:"doctorName" binding:"required"`
	Diagnosis  string `json:"diagnosis"`
}

// ListPatientsParams defines query parameters for listing patients.
type ListPatientsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// PatientResponse is the API representation of a patient.
type PatientResponse struct {
	PatientID          string    `json:"patientID"`
	PatientNumber      string    `json:"patientNumber"`
	Name               string    `json:"name"`
	Phone              string    `json:"phone,omitempty"`
	Address            string    `json:"address,omitempty"`
	PendingAmount      string    `json:"pendingAmount"`
	Discharged         bool      `json:"discharged"`
	CurrentAdmissionID *string   `json:"currentAdmissionID,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// AdmissionResponse is the API representation of an admission record.
type AdmissionResponse struct {
	AdmissionID  string     `json:"admissionID"`
	PatientID    string     `json:"patientID"`
	IPDNumber    int64      `json:"ipdNumber"`
	WardType     string     `json:"wardType"`
	DoctorName   string     `json:"doctorName"`
	Diagnosis    string     `json:"diagnosis,omitempty"`
	AdmittedAt   time.Time  `json:"admittedAt"`
	DischargedAt *time.Time `json:"dischargedAt,omitempty"`
}

// ListPatientsResponse wraps the list of patients.
type ListPatientsResponse struct {
	Patients []PatientResponse `json:"patients"`
}

// ToPatientResponse converts a domain.Patient to its API representation.
func ToPatientResponse(p *domain.Patient) PatientResponse {
	return PatientResponse{
		PatientID:          p.PatientID,
		PatientNumber:      p.PatientNumber,
		Name:               p.Name,
		Phone:              p.Phone,
		Address:            p.Address,
		PendingAmount:      p.PendingAmount.StringFixed(2),
		Discharged:         p.Discharged,
		CurrentAdmissionID: p.CurrentAdmissionID,
		CreatedAt:          p.CreatedAt,
	}
}

// ToListPatientsResponse converts a slice of domain.Patient to the list DTO.
func ToListPatientsResponse(patients []domain.Patient) ListPatientsResponse {
	responses := make([]PatientResponse, len(patients))
	for i := range patients {
		responses[i] = ToPatientResponse(&patients[i])
	}
	return ListPatientsResponse{Patients: responses}
}

// ToAdmissionResponse converts a domain.Admission to its API representation.
func ToAdmissionResponse(a *domain.Admission) AdmissionResponse {
	return AdmissionResponse{
		AdmissionID:  a.AdmissionID,
		PatientID:    a.PatientID,
		IPDNumber:    a.IPDNumber,
		WardType:     a.WardType,
		DoctorName:   a.DoctorName,
		Diagnosis:    a.Diagnosis,
		AdmittedAt:   a.AdmittedAt,
		DischargedAt: a.DischargedAt,
	}
}
