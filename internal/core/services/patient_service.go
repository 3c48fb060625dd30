package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hspware/hospital_billing_app/internal/apperrors"
	"github.com/hspware/hospital_billing_app/internal/core/domain"
	portsrepo "github.com/hspware/hospital_billing_app/internal/core/ports/repositories"
	portssvc "github.com/hspware/hospital_billing_app/internal/core/ports/services"
	"github.com/hspware/hospital_billing_app/internal/dto"
	"github.com/hspware/hospital_billing_app/internal/middleware"
	"github.com/shopspring/decimal"
)

var (
	ErrAlreadyAdmitted = errors.New("patient already has an active admission")
)

// patientService manages patient registration, contact details and the
// admission log. Balance mutations live in the billing service; this layer
// never writes PendingAmount.
type patientService struct {
	patientRepo portsrepo.PatientRepositoryFacade
	counterSvc  portssvc.CounterSvcFacade
}

// NewPatientService creates a new patient service.
func NewPatientService(patientRepo portsrepo.PatientRepositoryFacade, counterSvc portssvc.CounterSvcFacade) portssvc.PatientSvcFacade {
	return &patientService{
		patientRepo: patientRepo,
		counterSvc:  counterSvc,
	}
}

var _ portssvc.PatientSvcFacade = (*patientService)(nil)

func (s *patientService) RegisterPatient(ctx context.Context, req dto.RegisterPatientRequest, creatorUserID string) (*domain.Patient, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("patient name is required: %w", apperrors.ErrValidation)
	}

	seq, err := s.counterSvc.NextSequenceValue(ctx, domain.CounterPatientNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to mint patient number: %w", err)
	}

	now := time.Now()
	patient := domain.Patient{
		PatientID:     uuid.NewString(),
		PatientNumber: fmt.Sprintf("PAT%06d", seq),
		Name:          strings.TrimSpace(req.Name),
		Phone:         strings.TrimSpace(req.Phone),
		Address:       strings.TrimSpace(req.Address),
		PendingAmount: decimal.Zero,
		Discharged:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.patientRepo.SavePatient(ctx, patient); err != nil {
		logger.Error("Failed to save patient", slog.String("patient_id", patient.PatientID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Patient registered", slog.String("patient_id", patient.PatientID), slog.String("patient_number", patient.PatientNumber))
	return &patient, nil
}

func (s *patientService) GetPatientByID(ctx context.Context, patientID string) (*domain.Patient, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	patient, err := s.patientRepo.FindPatientByID(ctx, patientID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find patient", slog.String("patient_id", patientID), slog.String("error", err.Error()))
		}
		return nil, err
	}
	return patient, nil
}

func (s *patientService) GetPatientByNumber(ctx context.Context, patientNumber string) (*domain.Patient, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	patient, err := s.patientRepo.FindPatientByNumber(ctx, patientNumber)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find patient by number", slog.String("patient_number", patientNumber), slog.String("error", err.Error()))
		}
		return nil, err
	}
	return patient, nil
}

func (s *patientService) ListPatients(ctx context.Context, limit, offset int) ([]domain.Patient, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	patients, err := s.patientRepo.FindPatients(ctx, limit, offset)
	if err != nil {
		logger.Error("Failed to list patients", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	if patients == nil {
		return []domain.Patient{}, nil
	}
	return patients, nil
}

func (s *patientService) UpdatePatient(ctx context.Context, patientID string, req dto.UpdatePatientRequest, requestingUserID string) (*domain.Patient, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	patient, err := s.patientRepo.FindPatientByID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("patient name must not be empty: %w", apperrors.ErrValidation)
		}
		patient.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		patient.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		patient.Address = strings.TrimSpace(*req.Address)
	}

	patient.LastUpdatedAt = time.Now()
	patient.LastUpdatedBy = requestingUserID

	if err := s.patientRepo.UpdatePatient(ctx, *patient); err != nil {
		logger.Error("Failed to update patient", slog.String("patient_id", patientID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Patient updated", slog.String("patient_id", patientID))
	return patient, nil
}

func (s *patientService) AdmitPatient(ctx context.Context, patientID string, req dto.AdmitPatientRequest, requestingUserID string) (*domain.Admission, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	patient, err := s.patientRepo.FindPatientByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if patient.HasActiveAdmission() {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyAdmitted, *patient.CurrentAdmissionID)
	}

	ipdSeq, err := s.counterSvc.NextSequenceValue(ctx, domain.CounterIPDNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to mint IPD number: %w", err)
	}

	now := time.Now()
	admission := domain.Admission{
		AdmissionID: uuid.NewString(),
		PatientID:   patientID,
		IPDNumber:   ipdSeq,
		WardType:    strings.TrimSpace(req.WardType),
		DoctorName:  strings.TrimSpace(req.DoctorName),
		Diagnosis:   strings.TrimSpace(req.Diagnosis),
		AdmittedAt:  now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	if err := s.patientRepo.SaveAdmission(ctx, admission); err != nil {
		logger.Error("Failed to save admission", slog.String("patient_id", patientID), slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.patientRepo.SetCurrentAdmission(ctx, patientID, &admission.AdmissionID, requestingUserID, now); err != nil {
		logger.Error("Failed to set current admission pointer", slog.String("patient_id", patientID), slog.String("admission_id", admission.AdmissionID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Patient admitted", slog.String("patient_id", patientID), slog.String("admission_id", admission.AdmissionID), slog.Int64("ipd_number", admission.IPDNumber))
	return &admission, nil
}

func (s *patientService) GetAdmission(ctx context.Context, admissionID string) (*domain.Admission, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	admission, err := s.patientRepo.FindAdmissionByID(ctx, admissionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find admission", slog.String("admission_id", admissionID), slog.String("error", err.Error()))
		}
		return nil, err
	}
	return admission, nil
}

func (s *patientService) ListAdmissions(ctx context.Context, patientID string) ([]domain.Admission, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	admissions, err := s.patientRepo.FindAdmissionsByPatient(ctx, patientID)
	if err != nil {
		logger.Error("Failed to list admissions", slog.String("patient_id", patientID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list admissions: %w", err)
	}
	if admissions == nil {
		return []domain.Admission{}, nil
	}
	return admissions, nil
}

func (s *patientService) DeletePatient(ctx context.Context, patientID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	patient, err := s.patientRepo.FindPatientByID(ctx, patientID)
	if err != nil {
		return err
	}
	if patient.HasActiveAdmission() {
		return fmt.Errorf("cannot delete patient with an active admission: %w", apperrors.ErrValidation)
	}
	if patient.PendingAmount.IsPositive() {
		return fmt.Errorf("cannot delete patient with an outstanding balance of %s: %w", patient.PendingAmount.StringFixed(2), apperrors.ErrValidation)
	}

	if err := s.patientRepo.MarkPatientDeleted(ctx, patientID, time.Now(), requestingUserID); err != nil {
		logger.Error("Failed to mark patient deleted", slog.String("patient_id", patientID), slog.String("error", err.Error()))
		return err
	}

	logger.Info("Patient deleted", slog.String("patient_id", patientID))
	return nil
}
