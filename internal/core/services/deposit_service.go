package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hspware/hospital_billing_app/internal/apperrors"
	"github.com/hspware/hospital_billing_app/internal/core/domain"
	portsrepo "github.com/hspware/hospital_billing_app/internal/core/ports/repositories"
	portssvc "github.com/hspware/hospital_billing_app/internal/core/ports/services"
	"github.com/hspware/hospital_billing_app/internal/dto"
	"github.com/hspware/hospital_billing_app/internal/middleware"
	"github.com/hspware/hospital_billing_app/internal/platform/render"
	"github.com/hspware/hospital_billing_app/internal/utils"
	"github.com/hspware/hospital_billing_app/internal/utils/billing"
	"github.com/shopspring/decimal"
)

var ErrDepositAlreadyCancelled = errors.New("deposit receipt is already cancelled")

// maxReceiptIDAttempts bounds regeneration when the random receipt ID suffix
// collides, which is vanishingly rare but cheap to retry.
const maxReceiptIDAttempts = 3

// depositService manages advance deposit receipts. Sequence numbers and
// cumulative amounts are computed over the deposits active at creation time
// and frozen on the receipt; live totals always come from the summary.
type depositService struct {
	depositRepo portsrepo.DepositRepositoryFacade
	patientRepo portsrepo.PatientRepositoryFacade
	renderer    *render.HTMLRenderer
	documents   portssvc.DocumentStoreSvc
}

// NewDepositService creates a new deposit service. documents may be nil, in
// which case receipts are created without uploaded documents.
func NewDepositService(
	depositRepo portsrepo.DepositRepositoryFacade,
	patientRepo portsrepo.PatientRepositoryFacade,
	renderer *render.HTMLRenderer,
	documents portssvc.DocumentStoreSvc,
) portssvc.DepositSvcFacade {
	return &depositService{
		depositRepo: depositRepo,
		patientRepo: patientRepo,
		renderer:    renderer,
		documents:   documents,
	}
}

var _ portssvc.DepositSvcFacade = (*depositService)(nil)

func (s *depositService) CreateDeposit(ctx context.Context, patientID string, req dto.CreateDepositRequest, requestingUserID string) (*domain.DepositReceipt, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	patient, err := s.patientRepo.FindPatientByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !patient.HasActiveAdmission() {
		return nil, fmt.Errorf("%w: %w", ErrNoActiveAdmission, apperrors.ErrValidation)
	}
	admissionID := *patient.CurrentAdmissionID

	amount := billing.ParseAmount(req.Amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("deposit amount must be positive: %w", apperrors.ErrValidation)
	}

	active, err := s.depositRepo.FindActiveDepositsByAdmission(ctx, admissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read active deposits: %w", err)
	}

	// Sequence and cumulative are snapshots over the receipts active right
	// now. They are frozen on the receipt; cancelling an earlier deposit
	// later never rewrites them.
	sequence := len(active) + 1
	cumulative := amount
	for _, d := range active {
		cumulative = cumulative.Add(d.Amount)
	}

	now := time.Now()
	deposit := domain.DepositReceipt{
		PatientID:        patientID,
		AdmissionID:      admissionID,
		Amount:           amount,
		SequenceNumber:   sequence,
		CumulativeAmount: cumulative,
		PaymentMode:      req.PaymentMode,
		Notes:            req.Notes,
		IsActive:         true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	for attempt := 1; attempt <= maxReceiptIDAttempts; attempt++ {
		receiptID, idErr := utils.GenerateReceiptID(sequence, now)
		if idErr != nil {
			return nil, idErr
		}
		deposit.ReceiptID = receiptID
		err = s.depositRepo.SaveDeposit(ctx, deposit)
		if err == nil {
			break
		}
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Failed to save deposit receipt", slog.String("patient_id", patientID), slog.String("error", err.Error()))
			return nil, err
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to allocate a unique receipt ID after %d attempts: %w", maxReceiptIDAttempts, err)
	}

	s.uploadDepositDocument(ctx, &deposit, patient, requestingUserID)

	logger.Info("Deposit recorded",
		slog.String("receipt_id", deposit.ReceiptID),
		slog.String("admission_id", admissionID),
		slog.Int("sequence_number", sequence),
		slog.String("amount", amount.StringFixed(2)),
		slog.String("cumulative_amount", cumulative.StringFixed(2)))
	return &deposit, nil
}

func (s *depositService) CancelDeposit(ctx context.Context, receiptID string, reason string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	deposit, err := s.depositRepo.FindDepositByReceiptID(ctx, receiptID)
	if err != nil {
		return err
	}
	if !deposit.IsActive {
		return fmt.Errorf("%w: %w", ErrDepositAlreadyCancelled, apperrors.ErrValidation)
	}

	if err := s.depositRepo.CancelDeposit(ctx, receiptID, reason, time.Now(), requestingUserID); err != nil {
		logger.Error("Failed to cancel deposit", slog.String("receipt_id", receiptID), slog.String("error", err.Error()))
		return err
	}

	logger.Info("Deposit cancelled", slog.String("receipt_id", receiptID), slog.String("reason", reason))
	return nil
}

func (s *depositService) GetDepositByReceiptID(ctx context.Context, receiptID string) (*domain.DepositReceipt, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	deposit, err := s.depositRepo.FindDepositByReceiptID(ctx, receiptID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find deposit", slog.String("receipt_id", receiptID), slog.String("error", err.Error()))
		}
		return nil, err
	}
	return deposit, nil
}

func (s *depositService) GetAdmissionDepositSummary(ctx context.Context, admissionID string) (*domain.DepositSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	active, err := s.depositRepo.FindActiveDepositsByAdmission(ctx, admissionID)
	if err != nil {
		logger.Error("Failed to read active deposits", slog.String("admission_id", admissionID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to read active deposits: %w", err)
	}

	total := decimal.Zero
	for _, d := range active {
		total = total.Add(d.Amount)
	}
	if active == nil {
		active = []domain.DepositReceipt{}
	}

	return &domain.DepositSummary{
		HasDeposits:   len(active) > 0,
		TotalAmount:   total,
		DepositsCount: len(active),
		Deposits:      active,
	}, nil
}

func (s *depositService) ListDepositsByAdmission(ctx context.Context, admissionID string) ([]domain.DepositReceipt, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	deposits, err := s.depositRepo.ListDepositsByAdmission(ctx, admissionID)
	if err != nil {
		logger.Error("Failed to list deposits", slog.String("admission_id", admissionID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list deposits: %w", err)
	}
	if deposits == nil {
		return []domain.DepositReceipt{}, nil
	}
	return deposits, nil
}

// uploadDepositDocument renders and uploads the printable receipt. Failures
// are logged and swallowed.
func (s *depositService) uploadDepositDocument(ctx context.Context, deposit *domain.DepositReceipt, patient *domain.Patient, userID string) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if s.documents == nil || s.renderer == nil {
		return
	}

	content, err := s.renderer.RenderDepositReceipt(deposit, patient)
	if err != nil {
		logger.Warn("Failed to render deposit receipt document", slog.String("receipt_id", deposit.ReceiptID), slog.String("error", err.Error()))
		return
	}

	filename := fmt.Sprintf("%s_%s.html", deposit.ReceiptID, patient.PatientNumber)
	link, err := s.documents.Upload(ctx, filename, "text/html", content)
	if err != nil {
		logger.Warn("Failed to upload deposit receipt document", slog.String("receipt_id", deposit.ReceiptID), slog.String("error", err.Error()))
		return
	}

	if err := s.depositRepo.UpdateDepositDocumentLink(ctx, deposit.ReceiptID, link, userID, time.Now()); err != nil {
		logger.Warn("Failed to store deposit receipt document link", slog.String("receipt_id", deposit.ReceiptID), slog.String("error", err.Error()))
		return
	}
	deposit.DocumentLink = &link
}
