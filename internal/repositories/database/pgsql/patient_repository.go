package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hspware/hospital_billing_app/internal/apperrors"
	"github.com/hspware/hospital_billing_app/internal/core/domain"
	portsrepo "github.com/hspware/hospital_billing_app/internal/core/ports/repositories"
	"github.com/hspware/hospital_billing_app/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxPatientRepository struct {
	BaseRepository
}

func newPgxPatientRepository(db *pgxpool.Pool) portsrepo.PatientRepositoryFacade {
	return &PgxPatientRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.PatientRepositoryFacade = (*PgxPatientRepository)(nil)

func toModelPatient(d domain.Patient) models.Patient {
	return models.Patient{
		PatientID:          d.PatientID,
		PatientNumber:      d.PatientNumber,
		Name:               d.Name,
		Phone:              d.Phone,
		Address:            d.Address,
		PendingAmount:      d.PendingAmount,
		Discharged:         d.Discharged,
		CurrentAdmissionID: d.CurrentAdmissionID,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
		DeletedAt: d.DeletedAt,
	}
}

func toDomainPatient(m models.Patient) domain.Patient {
	return domain.Patient{
		PatientID:          m.PatientID,
		PatientNumber:      m.PatientNumber,
		Name:               m.Name,
		Phone:              m.Phone,
		Address:            m.Address,
		PendingAmount:      m.PendingAmount,
		Discharged:         m.Discharged,
		CurrentAdmissionID: m.CurrentAdmissionID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
		DeletedAt: m.DeletedAt,
	}
}

func toDomainAdmission(m models.Admission) domain.Admission {
	return domain.Admission{
		AdmissionID:  m.AdmissionID,
		PatientID:    m.PatientID,
		IPDNumber:    m.IPDNumber,
		WardType:     m.WardType,
		DoctorName:   m.DoctorName,
		Diagnosis:    m.Diagnosis,
		AdmittedAt:   m.AdmittedAt,
		DischargedAt: m.DischargedAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const patientColumns = `patient_id, patient_number, name, phone, address, pending_amount, discharged, current_admission_id, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func scanPatient(row pgx.Row) (*models.Patient, error) {
	var m models.Patient
	err := row.Scan(
		&m.PatientID,
		&m.PatientNumber,
		&m.Name,
		&m.Phone,
		&m.Address,
		&m.PendingAmount,
		&m.Discharged,
		&m.CurrentAdmissionID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxPatientRepository) SavePatient(ctx context.Context, patient domain.Patient) error {
	m := toModelPatient(patient)
	query := `
        INSERT INTO patients (patient_id, patient_number, name, phone, address, pending_amount, discharged, current_admission_id, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
    `
	_, err := r.Pool.Exec(ctx, query,
		m.PatientID, m.PatientNumber, m.Name, m.Phone, m.Address,
		m.PendingAmount, m.Discharged, m.CurrentAdmissionID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("patient number %s: %w", m.PatientNumber, apperrors.ErrDuplicate)
		}
		return storageError("failed to save patient", err)
	}
	return nil
}

func (r *PgxPatientRepository) FindPatientByID(ctx context.Context, patientID string) (*domain.Patient, error) {
	query := fmt.Sprintf(`SELECT %s FROM patients WHERE patient_id = $1 AND deleted_at IS NULL;`, patientColumns)

	m, err := scanPatient(r.Pool.QueryRow(ctx, query, patientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, storageError(fmt.Sprintf("failed to find patient by ID %s", patientID), err)
	}

	d := toDomainPatient(*m)
	return &d, nil
}

func (r *PgxPatientRepository) FindPatientByNumber(ctx context.Context, patientNumber string) (*domain.Patient, error) {
	query := fmt.Sprintf(`SELECT %s FROM patients WHERE patient_number = $1 AND deleted_at IS NULL;`, patientColumns)

	m, err := scanPatient(r.Pool.QueryRow(ctx, query, patientNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, storageError(fmt.Sprintf("failed to find patient by number %s", patientNumber), err)
	}

	d := toDomainPatient(*m)
	return &d, nil
}

func (r *PgxPatientRepository) FindPatients(ctx context.Context, limit int, offset int) ([]domain.Patient, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
        SELECT %s FROM patients
        WHERE deleted_at IS NULL
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2;
    `, patientColumns)

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, storageError("failed to query patients", err)
	}
	defer rows.Close()

	patients := []domain.Patient{}
	for rows.Next() {
		m, err := scanPatient(rows)
		if err != nil {
			return nil, storageError("failed to scan patient row", err)
		}
		patients = append(patients, toDomainPatient(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating patient rows", err)
	}
	return patients, nil
}

func (r *PgxPatientRepository) UpdatePatient(ctx context.Context, patient domain.Patient) error {
	m := toModelPatient(patient)
	query := `
        UPDATE patients
        SET name = $2, phone = $3, address = $4, last_updated_at = $5, last_updated_by = $6
        WHERE patient_id = $1 AND deleted_at IS NULL;
    `
	cmdTag, err := r.Pool.Exec(ctx, query, m.PatientID, m.Name, m.Phone, m.Address, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return storageError(fmt.Sprintf("failed to update patient %s", m.PatientID), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxPatientRepository) SetCurrentAdmission(ctx context.Context, patientID string, admissionID *string, updatedBy string, updatedAt time.Time) error {
	query := `
        UPDATE patients
        SET current_admission_id = $2, last_updated_at = $3, last_updated_by = $4
        WHERE patient_id = $1 AND deleted_at IS NULL;
    `
	cmdTag, err := r.Pool.Exec(ctx, query, patientID, admissionID, updatedAt, updatedBy)
	if err != nil {
		return storageError(fmt.Sprintf("failed to set current admission for patient %s", patientID), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxPatientRepository) MarkPatientDeleted(ctx context.Context, patientID string, deletedAt time.Time, deletedBy string) error {
	query := `
        UPDATE patients
        SET deleted_at = $2, last_updated_at = $2, last_updated_by = $3
        WHERE patient_id = $1 AND deleted_at IS NULL;
    `
	cmdTag, err := r.Pool.Exec(ctx, query, patientID, deletedAt, deletedBy)
	if err != nil {
		return storageError(fmt.Sprintf("failed to mark patient %s deleted", patientID), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

const admissionColumns = `admission_id, patient_id, ipd_number, ward_type, doctor_name, diagnosis, admitted_at, discharged_at, created_at, created_by, last_updated_at, last_updated_by`

func scanAdmission(row pgx.Row) (*models.Admission, error) {
	var m models.Admission
	err := row.Scan(
		&m.AdmissionID,
		&m.PatientID,
		&m.IPDNumber,
		&m.WardType,
		&m.DoctorName,
		&m.Diagnosis,
		&m.AdmittedAt,
		&m.DischargedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxPatientRepository) SaveAdmission(ctx context.Context, admission domain.Admission) error {
	query := `
        INSERT INTO admissions (admission_id, patient_id, ipd_number, ward_type, doctor_name, diagnosis, admitted_at, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
    `
	_, err := r.Pool.Exec(ctx, query,
		admission.AdmissionID, admission.PatientID, admission.IPDNumber,
		admission.WardType, admission.DoctorName, admission.Diagnosis, admission.AdmittedAt,
		admission.CreatedAt, admission.CreatedBy, admission.LastUpdatedAt, admission.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("admission %s: %w", admission.AdmissionID, apperrors.ErrDuplicate)
		}
		return storageError("failed to save admission", err)
	}
	return nil
}

func (r *PgxPatientRepository) FindAdmissionByID(ctx context.Context, admissionID string) (*domain.Admission, error) {
	query := fmt.Sprintf(`SELECT %s FROM admissions WHERE admission_id = $1;`, admissionColumns)

	m, err := scanAdmission(r.Pool.QueryRow(ctx, query, admissionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, storageError(fmt.Sprintf("failed to find admission by ID %s", admissionID), err)
	}

	d := toDomainAdmission(*m)
	return &d, nil
}

func (r *PgxPatientRepository) FindAdmissionsByPatient(ctx context.Context, patientID string) ([]domain.Admission, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM admissions
        WHERE patient_id = $1
        ORDER BY admitted_at DESC;
    `, admissionColumns)

	rows, err := r.Pool.Query(ctx, query, patientID)
	if err != nil {
		return nil, storageError("failed to query admissions", err)
	}
	defer rows.Close()

	admissions := []domain.Admission{}
	for rows.Next() {
		m, err := scanAdmission(rows)
		if err != nil {
			return nil, storageError("failed to scan admission row", err)
		}
		admissions = append(admissions, toDomainAdmission(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating admission rows", err)
	}
	return admissions, nil
}

func (r *PgxPatientRepository) MarkAdmissionDischarged(ctx context.Context, admissionID string, dischargedAt time.Time, updatedBy string) error {
	query := `
        UPDATE admissions
        SET discharged_at = $2, last_updated_at = $2, last_updated_by = $3
        WHERE admission_id = $1 AND discharged_at IS NULL;
    `
	cmdTag, err := r.Pool.Exec(ctx, query, admissionID, dischargedAt, updatedBy)
	if err != nil {
		return storageError(fmt.Sprintf("failed to mark admission %s discharged", admissionID), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
