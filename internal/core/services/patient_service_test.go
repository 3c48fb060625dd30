package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hspware/hospital_billing_app/internal/apperrors"
	"github.com/hspware/hospital_billing_app/internal/core/domain"
	portssvc "github.com/hspware/hospital_billing_app/internal/core/ports/services"
	"github.com/hspware/hospital_billing_app/internal/core/services"
	"github.com/hspware/hospital_billing_app/internal/dto"
)

type PatientServiceTestSuite struct {
	suite.Suite
	mockPatientRepo *MockPatientRepository
	counterRepo     *fakeCounterRepo
	service         portssvc.PatientSvcFacade
	userID          string
}

func (s *PatientServiceTestSuite) SetupTest() {
	s.mockPatientRepo = new(MockPatientRepository)
	s.counterRepo = newFakeCounterRepo()
	s.service = services.NewPatientService(s.mockPatientRepo, services.NewCounterService(s.counterRepo))
	s.userID = uuid.NewString()
}

func TestPatientServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PatientServiceTestSuite))
}

func (s *PatientServiceTestSuite) TestRegisterPatient_MintsPatientNumber() {
	var saved domain.Patient
	s.mockPatientRepo.On("SavePatient", mock.Anything, mock.AnythingOfType("domain.Patient")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.Patient) }).Return(nil)

	patient, err := s.service.RegisterPatient(context.Background(), dto.RegisterPatientRequest{
		Name:  "Meena Joshi",
		Phone: "9876543210",
	}, s.userID)

	s.Require().NoError(err)
	s.Equal("PAT000001", patient.PatientNumber)
	s.True(patient.PendingAmount.Equal(decimal.Zero))
	s.True(patient.Discharged, "new patients carry no dues")
	s.Nil(patient.CurrentAdmissionID)
	s.Equal(s.userID, saved.CreatedBy)

	second, err := s.service.RegisterPatient(context.Background(), dto.RegisterPatientRequest{Name: "Next"}, s.userID)
	s.Require().NoError(err)
	s.Equal("PAT000002", second.PatientNumber)
}

func (s *PatientServiceTestSuite) TestRegisterPatient_RequiresName() {
	_, err := s.service.RegisterPatient(context.Background(), dto.RegisterPatientRequest{Name: "   "}, s.userID)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockPatientRepo.AssertNotCalled(s.T(), "SavePatient")
}

func (s *PatientServiceTestSuite) TestAdmitPatient_MintsIPDNumberAndSetsPointer() {
	patient := domain.Patient{PatientID: uuid.NewString(), PatientNumber: "PAT000009"}
	s.mockPatientRepo.On("FindPatientByID", mock.Anything, patient.PatientID).Return(&patient, nil)
	s.mockPatientRepo.On("SaveAdmission", mock.Anything, mock.AnythingOfType("domain.Admission")).Return(nil)
	s.mockPatientRepo.On("SetCurrentAdmission", mock.Anything, patient.PatientID, mock.AnythingOfType("*string"), s.userID, mock.Anything).Return(nil)

	admission, err := s.service.AdmitPatient(context.Background(), patient.PatientID, dto.AdmitPatientRequest{
		WardType:   "ICU",
		DoctorName: "Dr. Kulkarni",
		Diagnosis:  "pneumonia",
	}, s.userID)

	s.Require().NoError(err)
	s.Equal(int64(1), admission.IPDNumber)
	s.Equal("ICU", admission.WardType)
	s.False(admission.AdmittedAt.IsZero())
	s.mockPatientRepo.AssertCalled(s.T(), "SetCurrentAdmission", mock.Anything, patient.PatientID, &admission.AdmissionID, s.userID, mock.Anything)
}

func (s *PatientServiceTestSuite) TestAdmitPatient_RejectsDoubleAdmission() {
	existing := uuid.NewString()
	patient := domain.Patient{PatientID: uuid.NewString(), CurrentAdmissionID: &existing}
	s.mockPatientRepo.On("FindPatientByID", mock.Anything, patient.PatientID).Return(&patient, nil)

	_, err := s.service.AdmitPatient(context.Background(), patient.PatientID, dto.AdmitPatientRequest{
		WardType:   "GENERAL",
		DoctorName: "Dr. Rao",
	}, s.userID)

	s.ErrorIs(err, services.ErrAlreadyAdmitted)
	s.mockPatientRepo.AssertNotCalled(s.T(), "SaveAdmission")
}

func (s *PatientServiceTestSuite) TestUpdatePatient_PartialUpdate() {
	patient := domain.Patient{PatientID: uuid.NewString(), Name: "Old Name", Phone: "111"}
	s.mockPatientRepo.On("FindPatientByID", mock.Anything, patient.PatientID).Return(&patient, nil)

	var updated domain.Patient
	s.mockPatientRepo.On("UpdatePatient", mock.Anything, mock.AnythingOfType("domain.Patient")).
		Run(func(args mock.Arguments) { updated = args.Get(1).(domain.Patient) }).Return(nil)

	_, err := s.service.UpdatePatient(context.Background(), patient.PatientID, dto.UpdatePatientRequest{
		Phone: strPtr("222"),
	}, s.userID)

	s.Require().NoError(err)
	s.Equal("Old Name", updated.Name, "omitted fields stay untouched")
	s.Equal("222", updated.Phone)
	s.Equal(s.userID, updated.LastUpdatedBy)
}

func (s *PatientServiceTestSuite) TestDeletePatient_BlockedByOutstandingBalance() {
	patient := domain.Patient{PatientID: uuid.NewString(), PendingAmount: dec("250")}
	s.mockPatientRepo.On("FindPatientByID", mock.Anything, patient.PatientID).Return(&patient, nil)

	err := s.service.DeletePatient(context.Background(), patient.PatientID, s.userID)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockPatientRepo.AssertNotCalled(s.T(), "MarkPatientDeleted")
}

func (s *PatientServiceTestSuite) TestDeletePatient_BlockedByActiveAdmission() {
	admissionID := uuid.NewString()
	patient := domain.Patient{PatientID: uuid.NewString(), CurrentAdmissionID: &admissionID}
	s.mockPatientRepo.On("FindPatientByID", mock.Anything, patient.PatientID).Return(&patient, nil)

	err := s.service.DeletePatient(context.Background(), patient.PatientID, s.userID)

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *PatientServiceTestSuite) TestGetPatientByID_NotFound() {
	patientID := uuid.NewString()
	s.mockPatientRepo.On("FindPatientByID", mock.Anything, patientID).Return(nil, apperrors.ErrNotFound)

	_, err := s.service.GetPatientByID(context.Background(), patientID)

	s.ErrorIs(err, apperrors.ErrNotFound)
}
