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

type PgxDepositRepository struct {
	BaseRepository
}

func newPgxDepositRepository(db *pgxpool.Pool) portsrepo.DepositRepositoryFacade {
	return &PgxDepositRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.DepositRepositoryFacade = (*PgxDepositRepository)(nil)

func toDomainDeposit(m models.DepositReceipt) domain.DepositReceipt {
	return domain.DepositReceipt{
		ReceiptID:        m.ReceiptID,
		PatientID:        m.PatientID,
		AdmissionID:      m.AdmissionID,
		Amount:           m.Amount,
		SequenceNumber:   m.SequenceNumber,
		CumulativeAmount: m.CumulativeAmount,
		PaymentMode:      m.PaymentMode,
		Notes:            m.Notes,
		IsActive:         m.IsActive,
		CancelledAt:      m.CancelledAt,
		CancelReason:     m.CancelReason,
		DocumentLink:     m.DocumentLink,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const depositColumns = `receipt_id, patient_id, admission_id, amount, sequence_number, cumulative_amount, payment_mode, notes, is_active, cancelled_at, cancel_reason, document_link, created_at, created_by, last_updated_at, last_updated_by`

func scanDeposit(row pgx.Row) (*models.DepositReceipt, error) {
	var m models.DepositReceipt
	err := row.Scan(
		&m.ReceiptID,
		&m.PatientID,
		&m.AdmissionID,
		&m.Amount,
		&m.SequenceNumber,
		&m.CumulativeAmount,
		&m.PaymentMode,
		&m.Notes,
		&m.IsActive,
		&m.CancelledAt,
		&m.CancelReason,
		&m.DocumentLink,
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

func (r *PgxDepositRepository) SaveDeposit(ctx context.Context, deposit domain.DepositReceipt) error {
	query := `
        INSERT INTO deposit_receipts (receipt_id, patient_id, admission_id, amount, sequence_number, cumulative_amount, payment_mode, notes, is_active, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
    `
	_, err := r.Pool.Exec(ctx, query,
		deposit.ReceiptID, deposit.PatientID, deposit.AdmissionID,
		deposit.Amount, deposit.SequenceNumber, deposit.CumulativeAmount,
		deposit.PaymentMode, deposit.Notes, deposit.IsActive,
		deposit.CreatedAt, deposit.CreatedBy, deposit.LastUpdatedAt, deposit.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("receipt ID %s: %w", deposit.ReceiptID, apperrors.ErrDuplicate)
		}
		return storageError("failed to save deposit receipt", err)
	}
	return nil
}

func (r *PgxDepositRepository) FindDepositByReceiptID(ctx context.Context, receiptID string) (*domain.DepositReceipt, error) {
	query := fmt.Sprintf(`SELECT %s FROM deposit_receipts WHERE receipt_id = $1;`, depositColumns)

	m, err := scanDeposit(r.Pool.QueryRow(ctx, query, receiptID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, storageError(fmt.Sprintf("failed to find deposit by receipt ID %s", receiptID), err)
	}

	d := toDomainDeposit(*m)
	return &d, nil
}

func (r *PgxDepositRepository) FindActiveDepositsByAdmission(ctx context.Context, admissionID string) ([]domain.DepositReceipt, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM deposit_receipts
        WHERE admission_id = $1 AND is_active = TRUE
        ORDER BY created_at DESC;
    `, depositColumns)

	return r.queryDeposits(ctx, query, admissionID)
}

func (r *PgxDepositRepository) ListDepositsByAdmission(ctx context.Context, admissionID string) ([]domain.DepositReceipt, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM deposit_receipts
        WHERE admission_id = $1
        ORDER BY sequence_number ASC, created_at ASC;
    `, depositColumns)

	return r.queryDeposits(ctx, query, admissionID)
}

func (r *PgxDepositRepository) queryDeposits(ctx context.Context, query string, admissionID string) ([]domain.DepositReceipt, error) {
	rows, err := r.Pool.Query(ctx, query, admissionID)
	if err != nil {
		return nil, storageError("failed to query deposits", err)
	}
	defer rows.Close()

	deposits := []domain.DepositReceipt{}
	for rows.Next() {
		m, err := scanDeposit(rows)
		if err != nil {
			return nil, storageError("failed to scan deposit row", err)
		}
		deposits = append(deposits, toDomainDeposit(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating deposit rows", err)
	}
	return deposits, nil
}

func (r *PgxDepositRepository) CancelDeposit(ctx context.Context, receiptID string, reason string, cancelledAt time.Time, cancelledBy string) error {
	// Soft delete only. Sequence numbers and cumulative snapshots of other
	// receipts are deliberately untouched.
	query := `
        UPDATE deposit_receipts
        SET is_active = FALSE, cancelled_at = $2, cancel_reason = $3, last_updated_at = $2, last_updated_by = $4
        WHERE receipt_id = $1 AND is_active = TRUE;
    `
	cmdTag, err := r.Pool.Exec(ctx, query, receiptID, cancelledAt, reason, cancelledBy)
	if err != nil {
		return storageError(fmt.Sprintf("failed to cancel deposit %s", receiptID), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxDepositRepository) UpdateDepositDocumentLink(ctx context.Context, receiptID string, link string, updatedBy string, updatedAt time.Time) error {
	query := `
        UPDATE deposit_receipts
        SET document_link = $2, last_updated_at = $3, last_updated_by = $4
        WHERE receipt_id = $1;
    `
	cmdTag, err := r.Pool.Exec(ctx, query, receiptID, link, updatedAt, updatedBy)
	if err != nil {
		return storageError(fmt.Sprintf("failed to update document link for deposit %s", receiptID), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
