package repositories

import (
	"context"

	"github.com/hspware/hospital_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SettlementReader defines read operations for the settlement audit trail
type SettlementReader interface {
	// FindLatestSettlementByPatient retrieves the most recent settlement
	// record for a patient, or nil when the patient has none. Its
	// PendingAmount is the previousRemaining input of the next event.
	FindLatestSettlementByPatient(ctx context.Context, patientID string) (*domain.SettlementRecord, error)

	// ListSettlementsByPatient retrieves the patient's settlement history,
	// newest first.
	ListSettlementsByPatient(ctx context.Context, patientID string, limit int) ([]domain.SettlementRecord, error)

	// RecomputePendingFromHistory re-derives the running balance by replaying
	// the full settlement history. Audit use only; the write path maintains
	// the balance incrementally.
	RecomputePendingFromHistory(ctx context.Context, patientID string) (decimal.Decimal, error)
}

// SettlementWriter defines write operations for the settlement audit trail
type SettlementWriter interface {
	// RecordSettlement appends one settlement record and overwrites the
	// patient's stored balance and discharged flag atomically. Records are
	// append-only and never updated.
	RecordSettlement(ctx context.Context, record domain.SettlementRecord) error
}

// SettlementRepositoryFacade combines the settlement repository interfaces
type SettlementRepositoryFacade interface {
	SettlementReader
	SettlementWriter
}
