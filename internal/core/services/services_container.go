package services

import (
	portsrepo "github.com/hspware/hospital_billing_app/internal/core/ports/repositories"
	portssvc "github.com/hspware/hospital_billing_app/internal/core/ports/services"
	"github.com/hspware/hospital_billing_app/internal/platform/config"
	"github.com/hspware/hospital_billing_app/internal/platform/render"
)

// NewServiceContainer creates a new service container with properly initialized
// dependencies. documents may be nil when no document store is configured;
// billing and deposit flows degrade to null document links.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, documents portssvc.DocumentStoreSvc) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	renderer := render.NewHTMLRenderer(cfg.HospitalName, cfg.HospitalAddress)

	// Counter service first since patient and billing numbering depend on it.
	container.Counter = NewCounterService(repos.CounterRepo)

	container.Patient = NewPatientService(repos.PatientRepo, container.Counter)
	container.Deposit = NewDepositService(repos.DepositRepo, repos.PatientRepo, renderer, documents)
	container.Billing = NewBillingService(
		repos.BillRepo,
		repos.PatientRepo,
		repos.SettlementRepo,
		container.Counter,
		container.Deposit,
		renderer,
		documents,
	)

	container.User = NewUserService(repos.UserRepo)
	container.TokenService = NewTokenService(cfg)
	container.Documents = documents

	return container
}

// Compile-time interface checks for the service implementations.
var (
	_ portssvc.CounterSvcFacade = (*counterService)(nil)
	_ portssvc.PatientSvcFacade = (*patientService)(nil)
	_ portssvc.BillingSvcFacade = (*billingService)(nil)
	_ portssvc.DepositSvcFacade = (*depositService)(nil)
	_ portssvc.UserSvcFacade    = (*userService)(nil)
)
