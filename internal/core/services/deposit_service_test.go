package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

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

type DepositServiceTestSuite struct {
	suite.Suite
	mockDepositRepo *MockDepositRepository
	mockPatientRepo *MockPatientRepository
	service         portssvc.DepositSvcFacade
	patient         domain.Patient
	admissionID     string
	userID          string
}

func (s *DepositServiceTestSuite) SetupTest() {
	s.mockDepositRepo = new(MockDepositRepository)
	s.mockPatientRepo = new(MockPatientRepository)
	s.service = services.NewDepositService(s.mockDepositRepo, s.mockPatientRepo, nil, nil)

	s.userID = uuid.NewString()
	s.admissionID = uuid.NewString()
	s.patient = domain.Patient{
		PatientID:          uuid.NewString(),
		PatientNumber:      "PAT000007",
		Name:               "Ravi Nair",
		CurrentAdmissionID: &s.admissionID,
	}
}

func TestDepositServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DepositServiceTestSuite))
}

func activeDeposit(amount string, seq int) domain.DepositReceipt {
	return domain.DepositReceipt{
		ReceiptID:      strings.ToUpper(uuid.NewString()[:8]),
		Amount:         dec(amount),
		SequenceNumber: seq,
		IsActive:       true,
	}
}

func (s *DepositServiceTestSuite) TestCreateDeposit_FirstDepositOfAdmission() {
	s.mockPatientRepo.On("FindPatientByID", mock.Anything, s.patient.PatientID).Return(&s.patient, nil)
	s.mockDepositRepo.On("FindActiveDepositsByAdmission", mock.Anything, s.admissionID).Return([]domain.DepositReceipt{}, nil)
	s.mockDepositRepo.On("SaveDeposit", mock.Anything, mock.AnythingOfType("domain.DepositReceipt")).Return(nil)

	deposit, err := s.service.CreateDeposit(context.Background(), s.patient.PatientID, dto.CreateDepositRequest{
		Amount:      "1000",
		PaymentMode: "CASH",
	}, s.userID)

	s.Require().NoError(err)
	s.Equal(1, deposit.SequenceNumber)
	s.True(deposit.CumulativeAmount.Equal(dec("1000")))
	s.True(deposit.IsActive)
	s.True(strings.HasPrefix(deposit.ReceiptID, "DEP-"))
	s.Equal(deposit.ReceiptID, strings.ToUpper(deposit.ReceiptID))
}

func (s *DepositServiceTestSuite) TestCreateDeposit_SequenceAndCumulativeGrow() {
	s.mockPatientRepo.On("FindPatientByID", mock.Anything, s.patient.PatientID).Return(&s.patient, nil)
	s.mockDepositRepo.On("FindActiveDepositsByAdmission", mock.Anything, s.admissionID).Return([]domain.DepositReceipt{
		activeDeposit("1000", 1),
		activeDeposit("500", 2),
	}, nil)
	s.mockDepositRepo.On("SaveDeposit", mock.Anything, mock.AnythingOfType("domain.DepositReceipt")).Return(nil)

	deposit, err := s.service.CreateDeposit(context.Background(), s.patient.PatientID, dto.CreateDepositRequest{
		Amount: "2000",
	}, s.userID)

	s.Require().NoError(err)
	s.Equal(3, deposit.SequenceNumber)
	s.True(deposit.CumulativeAmount.Equal(dec("3500")))
}

func (s *DepositServiceTestSuite) TestCreateDeposit_SequenceCountsOnlyActiveDeposits() {
	// Receipt #2 of three was cancelled earlier: two receipts remain active,
	// so the next deposit is numbered 3 and the cumulative covers the two
	// survivors plus itself.
	s.mockPatientRepo.On("FindPatientByID", mock.Anything, s.patient.PatientID).Return(&s.patient, nil)
	s.mockDepositRepo.On("FindActiveDepositsByAdmission", mock.Anything, s.admissionID).Return([]domain.DepositReceipt{
		activeDeposit("1000", 1),
		activeDeposit("2000", 3),
	}, nil)
	s.mockDepositRepo.On("SaveDeposit", mock.Anything, mock.AnythingOfType("domain.DepositReceipt")).Return(nil)

	deposit, err := s.service.CreateDeposit(context.Background(), s.patient.PatientID, dto.CreateDepositRequest{
		Amount: "500",
	}, s.userID)

	s.Require().NoError(err)
	s.Equal(3, deposit.SequenceNumber)
	s.True(deposit.CumulativeAmount.Equal(dec("3500")))
}

func (s *DepositServiceTestSuite) TestCreateDeposit_RequiresActiveAdmission() {
	s.patient.CurrentAdmissionID = nil
	s.mockPatientRepo.On("FindPatientByID", mock.Anything, s.patient.PatientID).Return(&s.patient, nil)

	_, err := s.service.CreateDeposit(context.Background(), s.patient.PatientID, dto.CreateDepositRequest{
		Amount: "1000",
	}, s.userID)

	s.ErrorIs(err, services.ErrNoActiveAdmission)
	s.mockDepositRepo.AssertNotCalled(s.T(), "SaveDeposit")
}

func (s *DepositServiceTestSuite) TestCreateDeposit_RejectsNonPositiveAmount() {
	s.mockPatientRepo.On("FindPatientByID", mock.Anything, s.patient.PatientID).Return(&s.patient, nil)

	_, err := s.service.CreateDeposit(context.Background(), s.patient.PatientID, dto.CreateDepositRequest{
		Amount: "-50",
	}, s.userID)

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *DepositServiceTestSuite) TestCancelDeposit_SoftDeletes() {
	deposit := &domain.DepositReceipt{
		ReceiptID:   "DEP-ABC-01-F00",
		PatientID:   s.patient.PatientID,
		AdmissionID: s.admissionID,
		Amount:      dec("500"),
		IsActive:    true,
	}
	s.mockDepositRepo.On("FindDepositByReceiptID", mock.Anything, deposit.ReceiptID).Return(deposit, nil)
	s.mockDepositRepo.On("CancelDeposit", mock.Anything, deposit.ReceiptID, "entered twice", mock.AnythingOfType("time.Time"), s.userID).Return(nil)

	err := s.service.CancelDeposit(context.Background(), deposit.ReceiptID, "entered twice", s.userID)

	s.Require().NoError(err)
	s.mockDepositRepo.AssertExpectations(s.T())
}

func (s *DepositServiceTestSuite) TestCancelDeposit_AlreadyCancelled() {
	now := time.Now()
	deposit := &domain.DepositReceipt{
		ReceiptID:   "DEP-ABC-02-F01",
		IsActive:    false,
		CancelledAt: &now,
	}
	s.mockDepositRepo.On("FindDepositByReceiptID", mock.Anything, deposit.ReceiptID).Return(deposit, nil)

	err := s.service.CancelDeposit(context.Background(), deposit.ReceiptID, "again", s.userID)

	s.ErrorIs(err, services.ErrDepositAlreadyCancelled)
	s.mockDepositRepo.AssertNotCalled(s.T(), "CancelDeposit")
}

func (s *DepositServiceTestSuite) TestGetAdmissionDepositSummary_SumsActiveOnly() {
	// Cumulative snapshots on the receipts are frozen history; the summary
	// recomputes the live total from the active set.
	s.mockDepositRepo.On("FindActiveDepositsByAdmission", mock.Anything, s.admissionID).Return([]domain.DepositReceipt{
		{ReceiptID: "DEP-1", Amount: dec("1000"), SequenceNumber: 1, CumulativeAmount: dec("1000"), IsActive: true},
		{ReceiptID: "DEP-3", Amount: dec("2000"), SequenceNumber: 3, CumulativeAmount: dec("3500"), IsActive: true},
	}, nil)

	summary, err := s.service.GetAdmissionDepositSummary(context.Background(), s.admissionID)

	s.Require().NoError(err)
	s.True(summary.HasDeposits)
	s.Equal(2, summary.DepositsCount)
	s.True(summary.TotalAmount.Equal(dec("3000")), "live total ignores the stale cumulative snapshot")
}

func (s *DepositServiceTestSuite) TestGetAdmissionDepositSummary_Empty() {
	s.mockDepositRepo.On("FindActiveDepositsByAdmission", mock.Anything, s.admissionID).Return([]domain.DepositReceipt{}, nil)

	summary, err := s.service.GetAdmissionDepositSummary(context.Background(), s.admissionID)

	s.Require().NoError(err)
	s.False(summary.HasDeposits)
	s.Equal(0, summary.DepositsCount)
	s.True(summary.TotalAmount.Equal(decimal.Zero))
	s.NotNil(summary.Deposits)
}
