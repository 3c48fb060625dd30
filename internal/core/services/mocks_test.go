package services_test

import (
	"context"
	"time"

	"github.com/hspware/hospital_billing_app/internal/core/domain"
	portsrepo "github.com/hspware/hospital_billing_app/internal/core/ports/repositories"
	portssvc "github.com/hspware/hospital_billing_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock CounterRepository ---

type MockCounterRepository struct {
	mock.Mock
}

var _ portsrepo.CounterRepositoryFacade = (*MockCounterRepository)(nil)

func (m *MockCounterRepository) NextSequenceValue(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCounterRepository) CurrentSequenceValue(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCounterRepository) ResetCounter(ctx context.Context, name string, newValue int64) error {
	args := m.Called(ctx, name, newValue)
	return args.Error(0)
}

// --- Mock PatientRepository ---

type MockPatientRepository struct {
	mock.Mock
}

var _ portsrepo.PatientRepositoryFacade = (*MockPatientRepository)(nil)

func (m *MockPatientRepository) FindPatientByID(ctx context.Context, patientID string) (*domain.Patient, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Patient), args.Error(1)
}

func (m *MockPatientRepository) FindPatientByNumber(ctx context.Context, patientNumber string) (*domain.Patient, error) {
	args := m.Called(ctx, patientNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Patient), args.Error(1)
}

func (m *MockPatientRepository) FindPatients(ctx context.Context, limit int, offset int) ([]domain.Patient, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Patient), args.Error(1)
}

func (m *MockPatientRepository) SavePatient(ctx context.Context, patient domain.Patient) error {
	args := m.Called(ctx, patient)
	return args.Error(0)
}

func (m *MockPatientRepository) UpdatePatient(ctx context.Context, patient domain.Patient) error {
	args := m.Called(ctx, patient)
	return args.Error(0)
}

func (m *MockPatientRepository) SetCurrentAdmission(ctx context.Context, patientID string, admissionID *string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, patientID, admissionID, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockPatientRepository) MarkPatientDeleted(ctx context.Context, patientID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, patientID, deletedAt, deletedBy)
	return args.Error(0)
}

func (m *MockPatientRepository) FindAdmissionByID(ctx context.Context, admissionID string) (*domain.Admission, error) {
	args := m.Called(ctx, admissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Admission), args.Error(1)
}

func (m *MockPatientRepository) FindAdmissionsByPatient(ctx context.Context, patientID string) ([]domain.Admission, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Admission), args.Error(1)
}

func (m *MockPatientRepository) SaveAdmission(ctx context.Context, admission domain.Admission) error {
	args := m.Called(ctx, admission)
	return args.Error(0)
}

func (m *MockPatientRepository) MarkAdmissionDischarged(ctx context.Context, admissionID string, dischargedAt time.Time, updatedBy string) error {
	args := m.Called(ctx, admissionID, dischargedAt, updatedBy)
	return args.Error(0)
}

// --- Mock BillRepository ---

type MockBillRepository struct {
	mock.Mock
}

var _ portsrepo.BillRepositoryFacade = (*MockBillRepository)(nil)

func (m *MockBillRepository) FindBillByID(ctx context.Context, billID string) (*domain.Bill, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}

func (m *MockBillRepository) FindMaxBillNumberByPrefix(ctx context.Context, prefix string) (*string, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *MockBillRepository) ListBillsByPatient(ctx context.Context, patientID string, limit int, nextToken *string) ([]domain.Bill, *string, error) {
	args := m.Called(ctx, patientID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Bill), returnedNextToken, args.Error(2)
}

func (m *MockBillRepository) SaveBill(ctx context.Context, bill domain.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillRepository) UpdateBillDocumentLink(ctx context.Context, billID string, link string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, billID, link, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock DepositRepository ---

type MockDepositRepository struct {
	mock.Mock
}

var _ portsrepo.DepositRepositoryFacade = (*MockDepositRepository)(nil)

func (m *MockDepositRepository) FindDepositByReceiptID(ctx context.Context, receiptID string) (*domain.DepositReceipt, error) {
	args := m.Called(ctx, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DepositReceipt), args.Error(1)
}

func (m *MockDepositRepository) FindActiveDepositsByAdmission(ctx context.Context, admissionID string) ([]domain.DepositReceipt, error) {
	args := m.Called(ctx, admissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DepositReceipt), args.Error(1)
}

func (m *MockDepositRepository) ListDepositsByAdmission(ctx context.Context, admissionID string) ([]domain.DepositReceipt, error) {
	args := m.Called(ctx, admissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DepositReceipt), args.Error(1)
}

func (m *MockDepositRepository) SaveDeposit(ctx context.Context, deposit domain.DepositReceipt) error {
	args := m.Called(ctx, deposit)
	return args.Error(0)
}

func (m *MockDepositRepository) CancelDeposit(ctx context.Context, receiptID string, reason string, cancelledAt time.Time, cancelledBy string) error {
	args := m.Called(ctx, receiptID, reason, cancelledAt, cancelledBy)
	return args.Error(0)
}

func (m *MockDepositRepository) UpdateDepositDocumentLink(ctx context.Context, receiptID string, link string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, receiptID, link, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock SettlementRepository ---

type MockSettlementRepository struct {
	mock.Mock
}

var _ portsrepo.SettlementRepositoryFacade = (*MockSettlementRepository)(nil)

func (m *MockSettlementRepository) FindLatestSettlementByPatient(ctx context.Context, patientID string) (*domain.SettlementRecord, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementRecord), args.Error(1)
}

func (m *MockSettlementRepository) ListSettlementsByPatient(ctx context.Context, patientID string, limit int) ([]domain.SettlementRecord, error) {
	args := m.Called(ctx, patientID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SettlementRecord), args.Error(1)
}

func (m *MockSettlementRepository) RecomputePendingFromHistory(ctx context.Context, patientID string) (decimal.Decimal, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return decimal.Zero, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockSettlementRepository) RecordSettlement(ctx context.Context, record domain.SettlementRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, userID, deletedAt, deletedBy)
	return args.Error(0)
}

// --- Mock DocumentStore ---

type MockDocumentStore struct {
	mock.Mock
}

var _ portssvc.DocumentStoreSvc = (*MockDocumentStore)(nil)

func (m *MockDocumentStore) Upload(ctx context.Context, filename string, mimeType string, content []byte) (string, error) {
	args := m.Called(ctx, filename, mimeType, content)
	return args.String(0), args.Error(1)
}
