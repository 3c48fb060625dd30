package pgsql

import (
	portsrepo "github.com/hspware/hospital_billing_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	counterRepo := newPgxCounterRepository(dbPool)
	patientRepo := newPgxPatientRepository(dbPool)
	billRepo := newPgxBillRepository(dbPool)
	depositRepo := newPgxDepositRepository(dbPool)
	settlementRepo := newPgxSettlementRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		CounterRepo:    counterRepo,
		PatientRepo:    patientRepo,
		BillRepo:       billRepo,
		DepositRepo:    depositRepo,
		SettlementRepo: settlementRepo,
		UserRepo:       userRepo,
	}
}
