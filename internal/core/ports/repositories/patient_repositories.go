package repositories

import (
	"context"
	"time"

	"github.com/hspware/hospital_billing_app/internal/core/domain"
)

// PatientReader defines read operations for patient data
type PatientReader interface {
	// FindPatientByID retrieves a specific patient by their ID.
	FindPatientByID(ctx context.Context, patientID string) (*domain.Patient, error)

	// FindPatientByNumber retrieves a patient by their human-readable number.
	FindPatientByNumber(ctx context.Context, patientNumber string) (*domain.Patient, error)

	// FindPatients retrieves a paginated list of patients.
	FindPatients(ctx context.Context, limit int, offset int) ([]domain.Patient, error)
}

// PatientWriter defines write operations for patient data
type PatientWriter interface {
	// SavePatient persists a new patient.
	SavePatient(ctx context.Context, patient domain.Patient) error

	// UpdatePatient updates an existing patient's details.
	UpdatePatient(ctx context.Context, patient domain.Patient) error

	// SetCurrentAdmission points the patient at their active admission
	// (nil clears it on discharge).
	SetCurrentAdmission(ctx context.Context, patientID string, admissionID *string, updatedBy string, updatedAt time.Time) error
}

// PatientLifecycleManager defines operations for managing patient lifecycle
type PatientLifecycleManager interface {
	// MarkPatientDeleted marks a patient as deleted (soft delete).
	MarkPatientDeleted(ctx context.Context, patientID string, deletedAt time.Time, deletedBy string) error
}

// AdmissionReader defines read operations for admission records
type AdmissionReader interface {
	// FindAdmissionByID retrieves a specific admission record.
	FindAdmissionByID(ctx context.Context, admissionID string) (*domain.Admission, error)

	// FindAdmissionsByPatient retrieves the patient's admission log, newest first.
	FindAdmissionsByPatient(ctx context.Context, patientID string) ([]domain.Admission, error)
}

// AdmissionWriter defines write operations for admission records
type AdmissionWriter interface {
	// SaveAdmission persists a new admission record.
	SaveAdmission(ctx context.Context, admission domain.Admission) error

	// MarkAdmissionDischarged stamps the discharge time on an admission.
	MarkAdmissionDischarged(ctx context.Context, admissionID string, dischargedAt time.Time, updatedBy string) error
}

// PatientRepositoryFacade combines all patient-related repository interfaces
type PatientRepositoryFacade interface {
	PatientReader
	PatientWriter
	PatientLifecycleManager
	AdmissionReader
	AdmissionWriter
}
