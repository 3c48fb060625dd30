package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hspware/hospital_billing_app/internal/apperrors"
	"github.com/hspware/hospital_billing_app/internal/core/domain"
	portsrepo "github.com/hspware/hospital_billing_app/internal/core/ports/repositories"
	"github.com/hspware/hospital_billing_app/internal/models"
	"github.com/hspware/hospital_billing_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxBillRepository struct {
	BaseRepository
}

func newPgxBillRepository(db *pgxpool.Pool) portsrepo.BillRepositoryFacade {
	return &PgxBillRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.BillRepositoryFacade = (*PgxBillRepository)(nil)

func toModelBill(d domain.Bill) (models.Bill, error) {
	charges, err := json.Marshal(d.Charges)
	if err != nil {
		return models.Bill{}, fmt.Errorf("failed to marshal bill charges: %w", err)
	}
	return models.Bill{
		BillID:       d.BillID,
		BillNo:       d.BillNo,
		BillNumber:   d.BillNumber,
		BillType:     string(d.BillType),
		PatientID:    d.PatientID,
		OPDNumber:    d.OPDNumber,
		AdmissionID:  d.AdmissionID,
		Charges:      charges,
		TotalCharges: d.Calculation.TotalCharges,
		Discount:     d.Calculation.Discount,
		Advance:      d.Calculation.Advance,
		FinalAmount:  d.Calculation.FinalAmount,
		AmountPaid:   d.AmountPaid,
		DocumentLink: d.DocumentLink,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}, nil
}

func toDomainBill(m models.Bill) (domain.Bill, error) {
	charges := map[string]domain.ChargeCategory{}
	if len(m.Charges) > 0 {
		if err := json.Unmarshal(m.Charges, &charges); err != nil {
			return domain.Bill{}, fmt.Errorf("failed to unmarshal charges for bill %s: %w", m.BillID, err)
		}
	}
	return domain.Bill{
		BillID:      m.BillID,
		BillNo:      m.BillNo,
		BillNumber:  m.BillNumber,
		BillType:    domain.BillType(m.BillType),
		PatientID:   m.PatientID,
		OPDNumber:   m.OPDNumber,
		AdmissionID: m.AdmissionID,
		Charges:     charges,
		Calculation: domain.BillCalculation{
			TotalCharges: m.TotalCharges,
			Discount:     m.Discount,
			Advance:      m.Advance,
			FinalAmount:  m.FinalAmount,
		},
		AmountPaid:   m.AmountPaid,
		DocumentLink: m.DocumentLink,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}, nil
}

const billColumns = `bill_id, bill_no, bill_number, bill_type, patient_id, opd_number, admission_id, charges, total_charges, discount, advance, final_amount, amount_paid, document_link, created_at, created_by, last_updated_at, last_updated_by`

func scanBill(row pgx.Row) (*models.Bill, error) {
	var m models.Bill
	err := row.Scan(
		&m.BillID,
		&m.BillNo,
		&m.BillNumber,
		&m.BillType,
		&m.PatientID,
		&m.OPDNumber,
		&m.AdmissionID,
		&m.Charges,
		&m.TotalCharges,
		&m.Discount,
		&m.Advance,
		&m.FinalAmount,
		&m.AmountPaid,
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

func (r *PgxBillRepository) SaveBill(ctx context.Context, bill domain.Bill) error {
	m, err := toModelBill(bill)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO bills (bill_id, bill_no, bill_number, bill_type, patient_id, opd_number, admission_id, charges, total_charges, discount, advance, final_amount, amount_paid, document_link, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
    `
	_, err = r.Pool.Exec(ctx, query,
		m.BillID, m.BillNo, m.BillNumber, m.BillType, m.PatientID, m.OPDNumber, m.AdmissionID,
		m.Charges, m.TotalCharges, m.Discount, m.Advance, m.FinalAmount, m.AmountPaid, m.DocumentLink,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// The unique indexes on bill_number and bill_no guard the
			// read-then-write numbering; callers regenerate and retry.
			return fmt.Errorf("bill number %s: %w", m.BillNumber, apperrors.ErrDuplicate)
		}
		return storageError("failed to save bill", err)
	}
	return nil
}

func (r *PgxBillRepository) FindBillByID(ctx context.Context, billID string) (*domain.Bill, error) {
	query := fmt.Sprintf(`SELECT %s FROM bills WHERE bill_id = $1;`, billColumns)

	m, err := scanBill(r.Pool.QueryRow(ctx, query, billID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, storageError(fmt.Sprintf("failed to find bill by ID %s", billID), err)
	}

	d, err := toDomainBill(*m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PgxBillRepository) FindMaxBillNumberByPrefix(ctx context.Context, prefix string) (*string, error) {
	query := `
        SELECT MAX(bill_number) FROM bills WHERE bill_number LIKE $1 || '%';
    `
	var maxNumber *string
	if err := r.Pool.QueryRow(ctx, query, prefix).Scan(&maxNumber); err != nil {
		return nil, storageError(fmt.Sprintf("failed to find max bill number for prefix %s", prefix), err)
	}
	return maxNumber, nil
}

func (r *PgxBillRepository) ListBillsByPatient(ctx context.Context, patientID string, limit int, nextToken *string) ([]domain.Bill, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	var cursor *time.Time
	if nextToken != nil && *nextToken != "" {
		decoded, err := pagination.DecodeDateBasedToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid pagination token: %w", apperrors.ErrValidation)
		}
		cursor = &decoded
	}

	query := fmt.Sprintf(`
        SELECT %s FROM bills
        WHERE patient_id = $1 AND ($2::timestamptz IS NULL OR created_at < $2)
        ORDER BY created_at DESC
        LIMIT $3;
    `, billColumns)

	// Fetch one extra row to know whether another page exists.
	rows, err := r.Pool.Query(ctx, query, patientID, cursor, limit+1)
	if err != nil {
		return nil, nil, storageError("failed to query bills", err)
	}
	defer rows.Close()

	bills := []domain.Bill{}
	for rows.Next() {
		m, err := scanBill(rows)
		if err != nil {
			return nil, nil, storageError("failed to scan bill row", err)
		}
		d, err := toDomainBill(*m)
		if err != nil {
			return nil, nil, err
		}
		bills = append(bills, d)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, storageError("error iterating bill rows", err)
	}

	var newNextToken *string
	if len(bills) > limit {
		bills = bills[:limit]
		token := pagination.EncodeDateBasedToken(bills[len(bills)-1].CreatedAt)
		newNextToken = &token
	}
	return bills, newNextToken, nil
}

func (r *PgxBillRepository) UpdateBillDocumentLink(ctx context.Context, billID string, link string, updatedBy string, updatedAt time.Time) error {
	query := `
        UPDATE bills
        SET document_link = $2, last_updated_at = $3, last_updated_by = $4
        WHERE bill_id = $1;
    `
	cmdTag, err := r.Pool.Exec(ctx, query, billID, link, updatedAt, updatedBy)
	if err != nil {
		return storageError(fmt.Sprintf("failed to update document link for bill %s", billID), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
