package services

import (
	"context"

	"github.com/hspware/hospital_billing_app/internal/core/domain"
	"github.com/hspware/hospital_billing_app/internal/dto"
)

// PatientReaderSvc defines read operations for patient data
type PatientReaderSvc interface {
	// GetPatientByID retrieves a patient by ID.
	GetPatientByID(ctx context.Context, patientID string) (*domain.Patient, error)

	// GetPatientByNumber retrieves a patient by their human-readable number.
	GetPatientByNumber(ctx context.Context, patientNumber string) (*domain.Patient, error)

	// ListPatients retrieves a paginated list of patients.
	ListPatients(ctx context.Context, limit, offset int) ([]domain.Patient, error)

	// GetAdmission retrieves one admission record.
	GetAdmission(ctx context.Context, admissionID string) (*domain.Admission, error)

	// ListAdmissions retrieves a patient's admission log, newest first.
	ListAdmissions(ctx context.Context, patientID string) ([]domain.Admission, error)
}

// PatientWriterSvc defines write operations for patient data
type PatientWriterSvc interface {
	// RegisterPatient creates a new patient, minting their patient number.
	RegisterPatient(ctx context.Context, req dto.RegisterPatientRequest, creatorUserID string) (*domain.Patient, error)

	// UpdatePatient updates a patient's contact details.
	UpdatePatient(ctx context.Context, patientID string, req dto.UpdatePatientRequest, requestingUserID string) (*domain.Patient, error)

	// AdmitPatient opens a new admission for the patient, minting the IPD
	// number and setting the current-admission pointer. Fails when the
	// patient already has an active admission.
	AdmitPatient(ctx context.Context, patientID string, req dto.AdmitPatientRequest, requestingUserID string) (*domain.Admission, error)
}

// PatientLifecycleSvc defines operations for managing patient lifecycle
type PatientLifecycleSvc interface {
	// DeletePatient marks a patient as deleted (soft delete).
	DeletePatient(ctx context.Context, patientID string, requestingUserID string) error
}

// PatientSvcFacade combines all patient-related service interfaces
type PatientSvcFacade interface {
	PatientReaderSvc
	PatientWriterSvc
	PatientLifecycleSvc
}
