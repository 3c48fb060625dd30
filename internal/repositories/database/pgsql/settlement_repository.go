package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hspware/hospital_billing_app/internal/apperrors"
	"github.com/hspware/hospital_billing_app/internal/core/domain"
	portsrepo "github.com/hspware/hospital_billing_app/internal/core/ports/repositories"
	"github.com/hspware/hospital_billing_app/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxSettlementRepository struct {
	BaseRepository
}

func newPgxSettlementRepository(db *pgxpool.Pool) portsrepo.SettlementRepositoryFacade {
	return &PgxSettlementRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.SettlementRepositoryFacade = (*PgxSettlementRepository)(nil)

func toDomainSettlement(m models.SettlementRecord) domain.SettlementRecord {
	return domain.SettlementRecord{
		RecordID:    m.RecordID,
		PatientID:   m.PatientID,
		AdmissionID: m.AdmissionID,
		BillID:      m.BillID,
		Type:        domain.SettlementType(m.Type),
		Settlement: domain.Settlement{
			PreviousRemaining: m.PreviousRemaining,
			CurrentCharge:     m.CurrentCharge,
			AmountPaid:        m.AmountPaid,
			TotalDue:          m.TotalDue,
			RawRemaining:      m.RawRemaining,
			PendingAmount:     m.PendingAmount,
			Discharged:        m.Discharged,
		},
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const settlementColumns = `record_id, patient_id, admission_id, bill_id, settlement_type, previous_remaining, current_charge, amount_paid, total_due, raw_remaining, pending_amount, discharged, created_at, created_by, last_updated_at, last_updated_by`

func scanSettlement(row pgx.Row) (*models.SettlementRecord, error) {
	var m models.SettlementRecord
	err := row.Scan(
		&m.RecordID,
		&m.PatientID,
		&m.AdmissionID,
		&m.BillID,
		&m.Type,
		&m.PreviousRemaining,
		&m.CurrentCharge,
		&m.AmountPaid,
		&m.TotalDue,
		&m.RawRemaining,
		&m.PendingAmount,
		&m.Discharged,
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

// RecordSettlement appends the settlement record and overwrites the patient's
// stored balance in one transaction, so the audit trail and the running
// balance can never diverge on a partial failure.
func (r *PgxSettlementRepository) RecordSettlement(ctx context.Context, record domain.SettlementRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	insert := `
        INSERT INTO settlement_history (record_id, patient_id, admission_id, bill_id, settlement_type, previous_remaining, current_charge, amount_paid, total_due, raw_remaining, pending_amount, discharged, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
    `
	_, err = tx.Exec(ctx, insert,
		record.RecordID, record.PatientID, record.AdmissionID, record.BillID, string(record.Type),
		record.PreviousRemaining, record.CurrentCharge, record.AmountPaid,
		record.TotalDue, record.RawRemaining, record.PendingAmount, record.Discharged,
		record.CreatedAt, record.CreatedBy, record.LastUpdatedAt, record.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("settlement record %s: %w", record.RecordID, apperrors.ErrDuplicate)
		}
		return storageError("failed to save settlement record", err)
	}

	update := `
        UPDATE patients
        SET pending_amount = $2, discharged = $3, last_updated_at = $4, last_updated_by = $5
        WHERE patient_id = $1 AND deleted_at IS NULL;
    `
	cmdTag, err := tx.Exec(ctx, update,
		record.PatientID, record.PendingAmount, record.Discharged, record.LastUpdatedAt, record.LastUpdatedBy,
	)
	if err != nil {
		return storageError("failed to update patient balance", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("patient %s: %w", record.PatientID, apperrors.ErrNotFound)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxSettlementRepository) FindLatestSettlementByPatient(ctx context.Context, patientID string) (*domain.SettlementRecord, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM settlement_history
        WHERE patient_id = $1
        ORDER BY created_at DESC
        LIMIT 1;
    `, settlementColumns)

	m, err := scanSettlement(r.Pool.QueryRow(ctx, query, patientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, storageError(fmt.Sprintf("failed to find latest settlement for patient %s", patientID), err)
	}

	d := toDomainSettlement(*m)
	return &d, nil
}

func (r *PgxSettlementRepository) ListSettlementsByPatient(ctx context.Context, patientID string, limit int) ([]domain.SettlementRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(`
        SELECT %s FROM settlement_history
        WHERE patient_id = $1
        ORDER BY created_at DESC
        LIMIT $2;
    `, settlementColumns)

	rows, err := r.Pool.Query(ctx, query, patientID, limit)
	if err != nil {
		return nil, storageError("failed to query settlements", err)
	}
	defer rows.Close()

	records := []domain.SettlementRecord{}
	for rows.Next() {
		m, err := scanSettlement(rows)
		if err != nil {
			return nil, storageError("failed to scan settlement row", err)
		}
		records = append(records, toDomainSettlement(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating settlement rows", err)
	}
	return records, nil
}

// RecomputePendingFromHistory replays the patient's settlement history oldest
// first and re-derives the running balance from scratch. The write path never
// calls this; it exists so audits can detect drift in the incrementally
// maintained balance.
func (r *PgxSettlementRepository) RecomputePendingFromHistory(ctx context.Context, patientID string) (decimal.Decimal, error) {
	query := `
        SELECT current_charge, amount_paid FROM settlement_history
        WHERE patient_id = $1
        ORDER BY created_at ASC;
    `
	rows, err := r.Pool.Query(ctx, query, patientID)
	if err != nil {
		return decimal.Zero, storageError("failed to query settlement history", err)
	}
	defer rows.Close()

	pending := decimal.Zero
	for rows.Next() {
		var charge, paid decimal.Decimal
		if err := rows.Scan(&charge, &paid); err != nil {
			return decimal.Zero, storageError("failed to scan settlement history row", err)
		}
		pending = pending.Add(charge).Sub(paid)
		if pending.IsNegative() {
			pending = decimal.Zero
		}
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, storageError("error iterating settlement history rows", err)
	}
	return pending, nil
}
