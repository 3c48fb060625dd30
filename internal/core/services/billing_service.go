package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/hspware/hospital_billing_app/internal/apperrors"
	"github.com/hspware/hospital_billing_app/internal/core/domain"
	portsrepo "github.com/hspware/hospital_billing_app/internal/core/ports/repositories"
	portssvc "github.com/hspware/hospital_billing_app/internal/core/ports/services"
	"github.com/hspware/hospital_billing_app/internal/dto"
	"github.com/hspware/hospital_billing_app/internal/middleware"
	"github.com/hspware/hospital_billing_app/internal/platform/render"
	"github.com/hspware/hospital_billing_app/internal/utils/billing"
	"github.com/shopspring/decimal"
)

var (
	ErrNoActiveAdmission = errors.New("patient has no active admission")
	ErrNothingToSettle   = errors.New("patient has no outstanding balance to settle")
)

// maxBillNumberAttempts bounds the regenerate-and-retry loop around the
// read-then-write bill numbering. Two concurrent creators can read the same
// max and collide on the unique index; the loser regenerates.
const maxBillNumberAttempts = 3

// billingService owns every settlement-producing billing flow and is the only
// writer of Patient.PendingAmount. Each flow computes charges, folds in
// discount and advance, applies the running-balance formula, persists the bill
// plus a settlement record, and updates the stored balance.
type billingService struct {
	billRepo       portsrepo.BillRepositoryFacade
	patientRepo    portsrepo.PatientRepositoryFacade
	settlementRepo portsrepo.SettlementRepositoryFacade
	counterSvc     portssvc.CounterSvcFacade
	depositSvc     portssvc.DepositReaderSvc
	renderer       *render.HTMLRenderer
	documents      portssvc.DocumentStoreSvc
}

// NewBillingService creates a new billing service. documents may be nil, in
// which case bills are created without uploaded documents.
func NewBillingService(
	billRepo portsrepo.BillRepositoryFacade,
	patientRepo portsrepo.PatientRepositoryFacade,
	settlementRepo portsrepo.SettlementRepositoryFacade,
	counterSvc portssvc.CounterSvcFacade,
	depositSvc portssvc.DepositReaderSvc,
	renderer *render.HTMLRenderer,
	documents portssvc.DocumentStoreSvc,
) portssvc.BillingSvcFacade {
	return &billingService{
		billRepo:       billRepo,
		patientRepo:    patientRepo,
		settlementRepo: settlementRepo,
		counterSvc:     counterSvc,
		depositSvc:     depositSvc,
		renderer:       renderer,
		documents:      documents,
	}
}

var _ portssvc.BillingSvcFacade = (*billingService)(nil)

// billNumberPrefix builds the {TYPE}{YY}{MM} segment of a bill number.
// "0601" renders the two-digit year followed by the two-digit month.
func billNumberPrefix(billType domain.BillType, now time.Time) string {
	prefix := string(billType)
	if billType == domain.BillTypeFinal {
		prefix = "FIN"
	}
	return prefix + now.Format("0601")
}

// generateBillNumber mints the next human-readable bill number for the
// type+month bucket. This is a read-then-write: the unique index on
// bill_number is the real guard, and SaveBill surfaces collisions as
// apperrors.ErrDuplicate for the caller to retry.
func (s *billingService) generateBillNumber(ctx context.Context, billType domain.BillType, now time.Time) (string, error) {
	prefix := billNumberPrefix(billType, now)

	maxNumber, err := s.billRepo.FindMaxBillNumberByPrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to read max bill number for prefix %s: %w", prefix, err)
	}

	seq := int64(1)
	if maxNumber != nil && len(*maxNumber) > len(prefix) {
		parsed, parseErr := strconv.ParseInt((*maxNumber)[len(prefix):], 10, 64)
		if parseErr == nil {
			seq = parsed + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

// saveBillWithRetry persists the bill, regenerating the bill number when a
// concurrent creator won the same number. billNo comes from the atomic counter
// and is never the collision source, so it is minted once by the caller.
func (s *billingService) saveBillWithRetry(ctx context.Context, bill *domain.Bill, now time.Time) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	var err error
	for attempt := 1; attempt <= maxBillNumberAttempts; attempt++ {
		bill.BillNumber, err = s.generateBillNumber(ctx, bill.BillType, now)
		if err != nil {
			return err
		}

		err = s.billRepo.SaveBill(ctx, *bill)
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperrors.ErrDuplicate) {
			return err
		}
		logger.Warn("Bill number collision, regenerating", slog.String("bill_number", bill.BillNumber), slog.Int("attempt", attempt))
	}
	return fmt.Errorf("failed to allocate a unique bill number after %d attempts: %w", maxBillNumberAttempts, err)
}

// previousRemaining reads the carried-over balance from the most recent
// settlement record, zero when the patient has none.
func (s *billingService) previousRemaining(ctx context.Context, patientID string) (decimal.Decimal, error) {
	latest, err := s.settlementRepo.FindLatestSettlementByPatient(ctx, patientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to read latest settlement: %w", err)
	}
	if latest == nil {
		return decimal.Zero, nil
	}
	return latest.PendingAmount, nil
}

// recordSettlement appends the settlement record and overwrites the patient's
// stored balance. The repository performs both writes in one transaction so
// the audit trail and the stored balance move together.
func (s *billingService) recordSettlement(
	ctx context.Context,
	patientID string,
	admissionID *string,
	billID *string,
	settlementType domain.SettlementType,
	settlement domain.Settlement,
	userID string,
	now time.Time,
) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	record := domain.SettlementRecord{
		RecordID:    uuid.NewString(),
		PatientID:   patientID,
		AdmissionID: admissionID,
		BillID:      billID,
		Type:        settlementType,
		Settlement:  settlement,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.settlementRepo.RecordSettlement(ctx, record); err != nil {
		logger.Error("Failed to record settlement", slog.String("patient_id", patientID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to record settlement: %w", err)
	}

	logger.Info("Settlement recorded",
		slog.String("patient_id", patientID),
		slog.String("settlement_type", string(settlementType)),
		slog.String("pending_amount", settlement.PendingAmount.StringFixed(2)),
		slog.Bool("discharged", settlement.Discharged))
	return nil
}

// uploadBillDocument renders and uploads the printable bill. Failures are
// logged and swallowed: the financial record is already committed and a
// missing PDF never rolls it back.
func (s *billingService) uploadBillDocument(ctx context.Context, bill *domain.Bill, patient *domain.Patient, admission *domain.Admission, userID string) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if s.documents == nil || s.renderer == nil {
		return
	}

	content, err := s.renderer.RenderBill(bill, patient, admission)
	if err != nil {
		logger.Warn("Failed to render bill document", slog.String("bill_id", bill.BillID), slog.String("error", err.Error()))
		return
	}

	filename := fmt.Sprintf("%s_%s.html", bill.BillNumber, patient.PatientNumber)
	link, err := s.documents.Upload(ctx, filename, "text/html", content)
	if err != nil {
		logger.Warn("Failed to upload bill document", slog.String("bill_id", bill.BillID), slog.String("error", err.Error()))
		return
	}

	if err := s.billRepo.UpdateBillDocumentLink(ctx, bill.BillID, link, userID, time.Now()); err != nil {
		logger.Warn("Failed to store bill document link", slog.String("bill_id", bill.BillID), slog.String("error", err.Error()))
		return
	}
	bill.DocumentLink = &link
}

func (s *billingService) CreateOPDReceipt(ctx context.Context, patientID string, req dto.CreateOPDReceiptRequest, requestingUserID string) (*domain.Bill, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	patient, err := s.patientRepo.FindPatientByID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	fee := billing.ParseAmount(req.ConsultationFee)
	if !fee.IsPositive() {
		return nil, fmt.Errorf("consultation fee must be positive: %w", apperrors.ErrValidation)
	}

	charges := ProcessCharges(map[string]domain.ChargeInput{
		"consultation": {Rate: fee},
	}, 1)

	// OPD discounts arrive as a percentage of the charges total.
	discountPercent := billing.ParseAmount(req.DiscountPercent)
	if discountPercent.IsNegative() || discountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("discount percent must be between 0 and 100: %w", apperrors.ErrValidation)
	}
	total := billing.SumChargeTotals(charges)
	discount := total.Mul(discountPercent).Div(decimal.NewFromInt(100))

	calc := billing.CalculateBillTotals(charges, discount, decimal.Zero)
	amountPaid := billing.ParseAmount(req.AmountPaid)
	if amountPaid.IsNegative() {
		return nil, fmt.Errorf("amount paid must not be negative: %w", apperrors.ErrValidation)
	}

	previous, err := s.previousRemaining(ctx, patientID)
	if err != nil {
		return nil, err
	}
	settlement := billing.ComputeSettlement(previous, calc.FinalAmount, amountPaid)

	opdSeq, err := s.counterSvc.NextSequenceValue(ctx, domain.CounterOPDNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to mint OPD number: %w", err)
	}
	billNo, err := s.counterSvc.NextSequenceValue(ctx, domain.CounterBillNo)
	if err != nil {
		return nil, fmt.Errorf("failed to mint bill number: %w", err)
	}

	now := time.Now()
	bill := domain.Bill{
		BillID:      uuid.NewString(),
		BillNo:      billNo,
		BillType:    domain.BillTypeOPD,
		PatientID:   patientID,
		OPDNumber:   &opdSeq,
		Charges:     charges,
		Calculation: calc,
		AmountPaid:  amountPaid,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	if err := s.saveBillWithRetry(ctx, &bill, now); err != nil {
		logger.Error("Failed to save OPD receipt", slog.String("patient_id", patientID), slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.recordSettlement(ctx, patientID, nil, &bill.BillID, domain.SettlementOPDReceipt, settlement, requestingUserID, now); err != nil {
		return nil, err
	}

	s.uploadBillDocument(ctx, &bill, patient, nil, requestingUserID)

	logger.Info("OPD receipt created", slog.String("bill_id", bill.BillID), slog.String("bill_number", bill.BillNumber), slog.Int64("opd_number", opdSeq))
	return &bill, nil
}

func (s *billingService) CreateIPDDischargeBill(ctx context.Context, patientID string, req dto.CreateIPDBillRequest, requestingUserID string) (*domain.Bill, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	patient, err := s.patientRepo.FindPatientByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !patient.HasActiveAdmission() {
		return nil, fmt.Errorf("%w: %w", ErrNoActiveAdmission, apperrors.ErrValidation)
	}

	admission, err := s.patientRepo.FindAdmissionByID(ctx, *patient.CurrentAdmissionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stayDays := admission.LengthOfStayDays(now)

	fixedInputs := make(map[string]domain.ChargeInput, len(req.Charges))
	for key, in := range req.Charges {
		fixedInputs[key] = domain.ChargeInput{Rate: billing.ParseAmount(in.Rate), Days: in.Days}
	}
	customInputs := make([]domain.CustomChargeInput, len(req.CustomCharges))
	for i, in := range req.CustomCharges {
		customInputs[i] = domain.CustomChargeInput{Description: in.Description, Rate: billing.ParseAmount(in.Rate), Days: in.Days}
	}

	charges := MergeCharges(ProcessCharges(fixedInputs, stayDays), ProcessCustomCharges(customInputs))
	if len(charges) == 0 {
		return nil, fmt.Errorf("discharge bill requires at least one charge: %w", apperrors.ErrValidation)
	}

	// The advance is the live total of the admission's active deposits, never
	// a client-supplied figure.
	summary, err := s.depositSvc.GetAdmissionDepositSummary(ctx, admission.AdmissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read deposit summary: %w", err)
	}

	discount := billing.ParseAmount(req.Discount)
	if discount.IsNegative() {
		return nil, fmt.Errorf("discount must not be negative: %w", apperrors.ErrValidation)
	}

	calc := billing.CalculateBillTotals(charges, discount, summary.TotalAmount)
	amountPaid := billing.ParseAmount(req.AmountPaid)
	if amountPaid.IsNegative() {
		return nil, fmt.Errorf("amount paid must not be negative: %w", apperrors.ErrValidation)
	}

	previous, err := s.previousRemaining(ctx, patientID)
	if err != nil {
		return nil, err
	}
	settlement := billing.ComputeSettlement(previous, calc.FinalAmount, amountPaid)

	billNo, err := s.counterSvc.NextSequenceValue(ctx, domain.CounterBillNo)
	if err != nil {
		return nil, fmt.Errorf("failed to mint bill number: %w", err)
	}

	admissionID := admission.AdmissionID
	bill := domain.Bill{
		BillID:      uuid.NewString(),
		BillNo:      billNo,
		BillType:    domain.BillTypeIPD,
		PatientID:   patientID,
		AdmissionID: &admissionID,
		Charges:     charges,
		Calculation: calc,
		AmountPaid:  amountPaid,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	if err := s.saveBillWithRetry(ctx, &bill, now); err != nil {
		logger.Error("Failed to save IPD discharge bill", slog.String("patient_id", patientID), slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.recordSettlement(ctx, patientID, &admissionID, &bill.BillID, domain.SettlementIPDDischarge, settlement, requestingUserID, now); err != nil {
		return nil, err
	}

	// The admission closes regardless of whether the balance cleared; any
	// unpaid remainder stays on the patient's running balance.
	if err := s.patientRepo.MarkAdmissionDischarged(ctx, admissionID, now, requestingUserID); err != nil {
		logger.Error("Failed to mark admission discharged", slog.String("admission_id", admissionID), slog.String("error", err.Error()))
		return nil, err
	}
	if err := s.patientRepo.SetCurrentAdmission(ctx, patientID, nil, requestingUserID, now); err != nil {
		logger.Error("Failed to clear current admission pointer", slog.String("patient_id", patientID), slog.String("error", err.Error()))
		return nil, err
	}

	s.uploadBillDocument(ctx, &bill, patient, admission, requestingUserID)

	logger.Info("IPD discharge bill created",
		slog.String("bill_id", bill.BillID),
		slog.String("bill_number", bill.BillNumber),
		slog.String("admission_id", admissionID),
		slog.Int("stay_days", stayDays))
	return &bill, nil
}

func (s *billingService) CreateFinalReceipt(ctx context.Context, patientID string, req dto.CreateFinalReceiptRequest, requestingUserID string) (*domain.Bill, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	patient, err := s.patientRepo.FindPatientByID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	previous, err := s.previousRemaining(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !previous.IsPositive() {
		return nil, fmt.Errorf("%w: %w", ErrNothingToSettle, apperrors.ErrValidation)
	}

	amountPaid := billing.ParseAmount(req.AmountPaid)
	if !amountPaid.IsPositive() {
		return nil, fmt.Errorf("amount paid must be positive: %w", apperrors.ErrValidation)
	}

	// No new charges: the receipt settles the carried-over balance only.
	settlement := billing.ComputeSettlement(previous, decimal.Zero, amountPaid)

	billNo, err := s.counterSvc.NextSequenceValue(ctx, domain.CounterBillNo)
	if err != nil {
		return nil, fmt.Errorf("failed to mint bill number: %w", err)
	}

	now := time.Now()
	bill := domain.Bill{
		BillID:    uuid.NewString(),
		BillNo:    billNo,
		BillType:  domain.BillTypeFinal,
		PatientID: patientID,
		Charges:   map[string]domain.ChargeCategory{},
		Calculation: domain.BillCalculation{
			TotalCharges: decimal.Zero,
			Discount:     decimal.Zero,
			Advance:      decimal.Zero,
			FinalAmount:  decimal.Zero,
		},
		AmountPaid: amountPaid,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	if err := s.saveBillWithRetry(ctx, &bill, now); err != nil {
		logger.Error("Failed to save final receipt", slog.String("patient_id", patientID), slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.recordSettlement(ctx, patientID, nil, &bill.BillID, domain.SettlementFinalReceipt, settlement, requestingUserID, now); err != nil {
		return nil, err
	}

	s.uploadBillDocument(ctx, &bill, patient, nil, requestingUserID)

	logger.Info("Final receipt created", slog.String("bill_id", bill.BillID), slog.String("bill_number", bill.BillNumber))
	return &bill, nil
}

func (s *billingService) GetBillByID(ctx context.Context, billID string) (*domain.Bill, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	bill, err := s.billRepo.FindBillByID(ctx, billID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find bill", slog.String("bill_id", billID), slog.String("error", err.Error()))
		}
		return nil, err
	}
	return bill, nil
}

func (s *billingService) ListBillsByPatient(ctx context.Context, patientID string, limit int, nextToken *string) ([]domain.Bill, *string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if limit <= 0 {
		limit = 20
	}

	bills, next, err := s.billRepo.ListBillsByPatient(ctx, patientID, limit, nextToken)
	if err != nil {
		logger.Error("Failed to list bills", slog.String("patient_id", patientID), slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to list bills: %w", err)
	}
	if bills == nil {
		bills = []domain.Bill{}
	}
	return bills, next, nil
}

func (s *billingService) AuditPatientBalance(ctx context.Context, patientID string) (*dto.BalanceAuditResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	patient, err := s.patientRepo.FindPatientByID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	recomputed, err := s.settlementRepo.RecomputePendingFromHistory(ctx, patientID)
	if err != nil {
		logger.Error("Failed to recompute pending from history", slog.String("patient_id", patientID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to recompute pending amount: %w", err)
	}

	drift := patient.PendingAmount.Sub(recomputed)
	if !drift.IsZero() {
		logger.Warn("Patient balance drift detected",
			slog.String("patient_id", patientID),
			slog.String("stored", patient.PendingAmount.StringFixed(2)),
			slog.String("recomputed", recomputed.StringFixed(2)))
	}

	return &dto.BalanceAuditResponse{
		PatientID:         patientID,
		StoredPending:     patient.PendingAmount.StringFixed(2),
		RecomputedPending: recomputed.StringFixed(2),
		Drift:             drift.StringFixed(2),
		Consistent:        drift.IsZero(),
	}, nil
}
