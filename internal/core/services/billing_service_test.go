package services_test

import (
	"context"
	"fmt"
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

type BillingServiceTestSuite struct {
	suite.Suite
	mockBillRepo       *MockBillRepository
	mockPatientRepo    *MockPatientRepository
	mockSettlementRepo *MockSettlementRepository
	counterRepo        *fakeCounterRepo
	mockDepositRepo    *MockDepositRepository
	service            portssvc.BillingSvcFacade
	patient            domain.Patient
	userID             string
}

func (s *BillingServiceTestSuite) SetupTest() {
	s.mockBillRepo = new(MockBillRepository)
	s.mockPatientRepo = new(MockPatientRepository)
	s.mockSettlementRepo = new(MockSettlementRepository)
	s.counterRepo = newFakeCounterRepo()
	s.mockDepositRepo = new(MockDepositRepository)

	counterSvc := services.NewCounterService(s.counterRepo)
	depositSvc := services.NewDepositService(s.mockDepositRepo, s.mockPatientRepo, nil, nil)
	s.service = services.NewBillingService(
		s.mockBillRepo,
		s.mockPatientRepo,
		s.mockSettlementRepo,
		counterSvc,
		depositSvc,
		nil,
		nil,
	)

	s.userID = uuid.NewString()
	s.patient = domain.Patient{
		PatientID:     uuid.NewString(),
		PatientNumber: "PAT000042",
		Name:          "Asha Verma",
		PendingAmount: decimal.Zero,
		Discharged:    true,
	}
}

func TestBillingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BillingServiceTestSuite))
}

func (s *BillingServiceTestSuite) expectNoHistory() {
	s.mockSettlementRepo.On("FindLatestSettlementByPatient", mock.Anything, s.patient.PatientID).Return(nil, apperrors.ErrNotFound)
}

func (s *BillingServiceTestSuite) expectSettlementWrites() {
	s.mockSettlementRepo.On("RecordSettlement", mock.Anything, mock.AnythingOfType("domain.SettlementRecord")).Return(nil)
}

// captureSettlement expects the atomic settlement write and hands back a
// pointer which holds the recorded settlement after the call. Assertions on
// amounts use numeric equality; structurally comparing computed decimals is
// unreliable because equal values can carry different exponents.
func (s *BillingServiceTestSuite) captureSettlement() *domain.SettlementRecord {
	saved := &domain.SettlementRecord{}
	s.mockSettlementRepo.On("RecordSettlement", mock.Anything, mock.AnythingOfType("domain.SettlementRecord")).
		Run(func(args mock.Arguments) { *saved = args.Get(1).(domain.SettlementRecord) }).Return(nil)
	return saved
}

func (s *BillingServiceTestSuite) TestCreateOPDReceipt_FirstBillOfMonth() {
	s.mockPatientRepo.On("FindPatientByID", mock.Anything, s.patient.PatientID).Return(&s.patient, nil)
	s.mockBillRepo.On("FindMaxBillNumberByPrefix", mock.Anything, mock.AnythingOfType("string")).Return(nil, nil)
	s.mockBillRepo.On("SaveBill", mock.Anything, mock.AnythingOfType("domain.Bill")).Return(nil)
	s.expectNoHistory()
	s.expectSettlementWrites()

	bill, err := s.service.CreateOPDReceipt(context.Background(), s.patient.PatientID, dto.CreateOPDReceiptRequest{
		DoctorName:      "Dr. Rao",
		ConsultationFee: "500",
		AmountPaid:      "500",
	}, s.userID)

	s.Require().NoError(err)
	expectedNumber := fmt.Sprintf("OPD%s0001", time.Now().Format("0601"))
	s.Equal(expectedNumber, bill.BillNumber)
	s.Equal(domain.BillTypeOPD, bill.BillType)
	s.Equal(int64(1), bill.BillNo)
	s.Require().NotNil(bill.OPDNumber)
	s.Equal(int64(1), *bill.OPDNumber)
	s.True(bill.Calculation.TotalCharges.Equal(dec("500")))
	s.True(bill.Calculation.FinalAmount.Equal(dec("500")))
}

func (s *BillingServiceTestSuite) TestCreateOPDReceipt_IncrementsWithinMonth() {
	prefix := "OPD" + time.Now().Format("0601")
	existing := prefix + "0007"

	s.mockPatientRepo.On("FindPatientByID", mock.Anything, s.patient.PatientID).Return(&s.patient, nil)
	s.mockBillRepo.On("FindMaxBillNumberByPrefix", mock.Anything, prefix).Return(&existing, nil)
	s.mockBillRepo.On("SaveBill", mock.Anything, mock.AnythingOfType("domain.Bill")).Return(nil)
	s.expectNoHistory()
	s.expectSettlementWrites()

	bill, err := s.service.CreateOPDReceipt(context.Background(), s.patient.PatientID, dto.CreateOPDReceiptRequest{
		ConsultationFee: "300",
		AmountPaid:      "300",
	}, s.userID)

	s.Require().NoError(err)
	s.Equal(prefix+"0008", bill.BillNumber)
}

func (s *BillingServiceTestSuite) TestCreateOPDReceipt_RetriesOnDuplicateBillNumber() {
	s.mockPatientRepo.On("FindPatientByID", mock.Anything, s.patient.PatientID).Return(&s.patient, nil)
	s.mockBillRepo.On("FindMaxBillNumberByPrefix", mock.Anything, mock.AnythingOfType("string")).Return(nil, nil)
	// A concurrent creator wins the first number; the retry succeeds.
	s.mockBillRepo.On("SaveBill", mock.Anything, mock.AnythingOfType("domain.Bill")).Return(apperrors.ErrDuplicate).Once()
	s.mockBillRepo.On("SaveBill", mock.Anything, mock.AnythingOfType("domain.Bill")).Return(nil).Once()
	s.expectNoHistory()
	s.expectSettlementWrites()

	bill, err := s.service.CreateOPDReceipt(context.Background(), s.patient.PatientID, dto.CreateOPDReceiptRequest{
		ConsultationFee: "250",
		AmountPaid:      "250",
	}, s.userID)

	s.Require().NoError(err)
	s.NotEmpty(bill.BillNumber)
	s.mockBillRepo.AssertNumberOfCalls(s.T(), "SaveBill", 2)
}

func (s *BillingServiceTestSuite) TestCreateOPDReceipt_GivesUpAfterRepeatedDuplicates() {
	s.mockPatientRepo.On("FindPatientByID", mock.Anything, s.patient.PatientID).Return(&s.patient, nil)
	s.mockBillRepo.On("FindMaxBillNumberByPrefix", mock.Anything, mock.AnythingOfType("string")).Return(nil, nil)
	s.mockBillRepo.On("SaveBill", mock.Anything, mock.AnythingOfType("domain.Bill")).Return(apperrors.ErrDuplicate)
	s.expectNoHistory()

	_, err := s.service.CreateOPDReceipt(context.Background(), s.patient.PatientID, dto.CreateOPDReceiptRequest{
		ConsultationFee: "250",
		AmountPaid:      "250",
	}, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrDuplicate)
	s.mockBillRepo.AssertNumberOfCalls(s.T(), "SaveBill", 3)
}

func (s *BillingServiceTestSuite) TestCreateOPDReceipt_PercentDiscountAndPartialPayment() {
	s.mockPatientRepo.On("FindPatientByID", mock.Anything, s.patient.PatientID).Return(&s.patient, nil)
	s.mockBillRepo.On("FindMaxBillNumberByPrefix", mock.Anything, mock.AnythingOfType("string")).Return(nil, nil)
	s.mockBillRepo.On("SaveBill", mock.Anything, mock.AnythingOfType("domain.Bill")).Return(nil)
	s.expectNoHistory()

	saved := s.captureSettlement()

	bill, err := s.service.CreateOPDReceipt(context.Background(), s.patient.PatientID, dto.CreateOPDReceiptRequest{
		ConsultationFee: "1000",
		DiscountPercent: "10",
		AmountPaid:      "600",
	}, s.userID)

	s.Require().NoError(err)
	s.True(bill.Calculation.Discount.Equal(dec("100")))
	s.True(bill.Calculation.FinalAmount.Equal(dec("900")))

	s.Equal(domain.SettlementOPDReceipt, saved.Type)
	s.True(saved.PreviousRemaining.Equal(decimal.Zero))
	s.True(saved.CurrentCharge.Equal(dec("900")))
	s.True(saved.PendingAmount.Equal(dec("300")))
	s.False(saved.Discharged)
}

func (s *BillingServiceTestSuite) TestCreateOPDReceipt_CarriesPreviousBalance() {
	s.mockPatientRepo.On("FindPatientByID", mock.Anything, s.patient.PatientID).Return(&s.patient, nil)
	s.mockBillRepo.On("FindMaxBillNumberByPrefix", mock.Anything, mock.AnythingOfType("string")).Return(nil, nil)
	s.mockBillRepo.On("SaveBill", mock.Anything, mock.AnythingOfType("domain.Bill")).Return(nil)

	previous := &domain.SettlementRecord{
		Settlement: domain.Settlement{PendingAmount: dec("200")},
	}
	s.mockSettlementRepo.On("FindLatestSettlementByPatient", mock.Anything, s.patient.PatientID).Return(previous, nil)

	saved := s.captureSettlement()

	_, err := s.service.CreateOPDReceipt(context.Background(), s.patient.PatientID, dto.CreateOPDReceiptRequest{
		ConsultationFee: "500",
		AmountPaid:      "700",
	}, s.userID)

	s.Require().NoError(err)
	s.True(saved.PreviousRemaining.Equal(dec("200")))
	s.True(saved.TotalDue.Equal(dec("700")))
	s.True(saved.PendingAmount.Equal(decimal.Zero))
	s.True(saved.Discharged)
}

func (s *BillingServiceTestSuite) TestCreateOPDReceipt_OverpaymentClampedNotCredited() {
	s.mockPatientRepo.On("FindPatientByID", mock.Anything, s.patient.PatientID).Return(&s.patient, nil)
	s.mockBillRepo.On("FindMaxBillNumberByPrefix", mock.Anything, mock.AnythingOfType("string")).Return(nil, nil)
	s.mockBillRepo.On("SaveBill", mock.Anything, mock.AnythingOfType("domain.Bill")).Return(nil)
	s.expectNoHistory()

	saved := s.captureSettlement()

	_, err := s.service.CreateOPDReceipt(context.Background(), s.patient.PatientID, dto.CreateOPDReceiptRequest{
		ConsultationFee: "500",
		AmountPaid:      "800",
	}, s.userID)

	s.Require().NoError(err)
	s.True(saved.RawRemaining.Equal(dec("-300")), "pre-clamp value kept for audit")
	s.True(saved.PendingAmount.Equal(decimal.Zero), "stored balance never goes negative")
}

func (s *BillingServiceTestSuite) TestCreateOPDReceipt_RejectsZeroFee() {
	s.mockPatientRepo.On("FindPatientByID", mock.Anything, s.patient.PatientID).Return(&s.patient, nil)

	_, err := s.service.CreateOPDReceipt(context.Background(), s.patient.PatientID, dto.CreateOPDReceiptRequest{
		ConsultationFee: "0",
		AmountPaid:      "0",
	}, s.userID)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockBillRepo.AssertNotCalled(s.T(), "SaveBill")
}

func (s *BillingServiceTestSuite) TestCreateIPDDischargeBill_UsesLiveDepositTotalAsAdvance() {
	admissionID := uuid.NewString()
	s.patient.CurrentAdmissionID = &admissionID
	s.patient.PendingAmount = decimal.Zero

	admission := domain.Admission{
		AdmissionID: admissionID,
		PatientID:   s.patient.PatientID,
		IPDNumber:   17,
		WardType:    "GENERAL",
		AdmittedAt:  time.Now().Add(-72 * time.Hour),
	}

	s.mockPatientRepo.On("FindPatientByID", mock.Anything, s.patient.PatientID).Return(&s.patient, nil)
	s.mockPatientRepo.On("FindAdmissionByID", mock.Anything, admissionID).Return(&admission, nil)
	s.mockDepositRepo.On("FindActiveDepositsByAdmission", mock.Anything, admissionID).Return([]domain.DepositReceipt{
		{ReceiptID: "DEP-A", Amount: dec("1000"), IsActive: true},
		{ReceiptID: "DEP-B", Amount: dec("1500"), IsActive: true},
	}, nil)
	s.mockBillRepo.On("FindMaxBillNumberByPrefix", mock.Anything, "IPD"+time.Now().Format("0601")).Return(nil, nil)
	s.mockBillRepo.On("SaveBill", mock.Anything, mock.AnythingOfType("domain.Bill")).Return(nil)
	s.expectNoHistory()
	s.expectSettlementWrites()
	s.mockPatientRepo.On("MarkAdmissionDischarged", mock.Anything, admissionID, mock.Anything, s.userID).Return(nil)
	s.mockPatientRepo.On("SetCurrentAdmission", mock.Anything, s.patient.PatientID, (*string)(nil), s.userID, mock.Anything).Return(nil)

	bill, err := s.service.CreateIPDDischargeBill(context.Background(), s.patient.PatientID, dto.CreateIPDBillRequest{
		Charges: map[string]dto.ChargeInputDTO{
			"generalWard": {Rate: "1000"},
			"surgeonFee":  {Rate: "5000", Days: intPtr(1)},
		},
		AmountPaid: "5500",
	}, s.userID)

	s.Require().NoError(err)
	s.Equal(domain.BillTypeIPD, bill.BillType)
	s.Require().NotNil(bill.AdmissionID)
	s.Equal(admissionID, *bill.AdmissionID)
	// 3 days of ward at 1000 plus a one-day surgeon fee.
	s.True(bill.Calculation.TotalCharges.Equal(dec("8000")))
	s.True(bill.Calculation.Advance.Equal(dec("2500")), "advance is the live active deposit total")
	s.True(bill.Calculation.FinalAmount.Equal(dec("5500")))

	s.mockPatientRepo.AssertCalled(s.T(), "MarkAdmissionDischarged", mock.Anything, admissionID, mock.Anything, s.userID)
	s.mockPatientRepo.AssertCalled(s.T(), "SetCurrentAdmission", mock.Anything, s.patient.PatientID, (*string)(nil), s.userID, mock.Anything)
}

func (s *BillingServiceTestSuite) TestCreateIPDDischargeBill_RequiresActiveAdmission() {
	s.mockPatientRepo.On("FindPatientByID", mock.Anything, s.patient.PatientID).Return(&s.patient, nil)

	_, err := s.service.CreateIPDDischargeBill(context.Background(), s.patient.PatientID, dto.CreateIPDBillRequest{
		Charges:    map[string]dto.ChargeInputDTO{"icu": {Rate: "4000"}},
		AmountPaid: "0",
	}, s.userID)

	s.ErrorIs(err, services.ErrNoActiveAdmission)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *BillingServiceTestSuite) TestCreateIPDDischargeBill_RequiresCharges() {
	admissionID := uuid.NewString()
	s.patient.CurrentAdmissionID = &admissionID
	admission := domain.Admission{AdmissionID: admissionID, PatientID: s.patient.PatientID, AdmittedAt: time.Now().Add(-24 * time.Hour)}

	s.mockPatientRepo.On("FindPatientByID", mock.Anything, s.patient.PatientID).Return(&s.patient, nil)
	s.mockPatientRepo.On("FindAdmissionByID", mock.Anything, admissionID).Return(&admission, nil)

	_, err := s.service.CreateIPDDischargeBill(context.Background(), s.patient.PatientID, dto.CreateIPDBillRequest{
		Charges:    map[string]dto.ChargeInputDTO{"unknownCategory": {Rate: "100"}},
		AmountPaid: "0",
	}, s.userID)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockBillRepo.AssertNotCalled(s.T(), "SaveBill")
}

func (s *BillingServiceTestSuite) TestCreateFinalReceipt_SettlesCarriedBalance() {
	s.mockPatientRepo.On("FindPatientByID", mock.Anything, s.patient.PatientID).Return(&s.patient, nil)
	previous := &domain.SettlementRecord{Settlement: domain.Settlement{PendingAmount: dec("300")}}
	s.mockSettlementRepo.On("FindLatestSettlementByPatient", mock.Anything, s.patient.PatientID).Return(previous, nil)
	s.mockBillRepo.On("FindMaxBillNumberByPrefix", mock.Anything, "FIN"+time.Now().Format("0601")).Return(nil, nil)
	s.mockBillRepo.On("SaveBill", mock.Anything, mock.AnythingOfType("domain.Bill")).Return(nil)

	saved := s.captureSettlement()

	bill, err := s.service.CreateFinalReceipt(context.Background(), s.patient.PatientID, dto.CreateFinalReceiptRequest{
		AmountPaid: "300",
	}, s.userID)

	s.Require().NoError(err)
	s.Equal(domain.BillTypeFinal, bill.BillType)
	s.Empty(bill.Charges)
	s.Equal(domain.SettlementFinalReceipt, saved.Type)
	s.True(saved.CurrentCharge.Equal(decimal.Zero))
	s.True(saved.PendingAmount.Equal(decimal.Zero))
	s.True(saved.Discharged)
}

func (s *BillingServiceTestSuite) TestCreateFinalReceipt_NothingOutstanding() {
	s.mockPatientRepo.On("FindPatientByID", mock.Anything, s.patient.PatientID).Return(&s.patient, nil)
	s.mockSettlementRepo.On("FindLatestSettlementByPatient", mock.Anything, s.patient.PatientID).Return(nil, apperrors.ErrNotFound)

	_, err := s.service.CreateFinalReceipt(context.Background(), s.patient.PatientID, dto.CreateFinalReceiptRequest{
		AmountPaid: "100",
	}, s.userID)

	s.ErrorIs(err, services.ErrNothingToSettle)
}

func (s *BillingServiceTestSuite) TestAuditPatientBalance_ReportsDrift() {
	s.patient.PendingAmount = dec("150")
	s.mockPatientRepo.On("FindPatientByID", mock.Anything, s.patient.PatientID).Return(&s.patient, nil)
	s.mockSettlementRepo.On("RecomputePendingFromHistory", mock.Anything, s.patient.PatientID).Return(dec("100"), nil)

	audit, err := s.service.AuditPatientBalance(context.Background(), s.patient.PatientID)

	s.Require().NoError(err)
	s.Equal("150.00", audit.StoredPending)
	s.Equal("100.00", audit.RecomputedPending)
	s.Equal("50.00", audit.Drift)
	s.False(audit.Consistent)
}

func (s *BillingServiceTestSuite) TestAuditPatientBalance_Consistent() {
	s.patient.PendingAmount = dec("100")
	s.mockPatientRepo.On("FindPatientByID", mock.Anything, s.patient.PatientID).Return(&s.patient, nil)
	s.mockSettlementRepo.On("RecomputePendingFromHistory", mock.Anything, s.patient.PatientID).Return(dec("100"), nil)

	audit, err := s.service.AuditPatientBalance(context.Background(), s.patient.PatientID)

	s.Require().NoError(err)
	s.True(audit.Consistent)
	s.Equal("0.00", audit.Drift)
}
