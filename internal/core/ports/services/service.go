package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Counter      CounterSvcFacade
	Patient      PatientSvcFacade
	Billing      BillingSvcFacade
	Deposit      DepositSvcFacade
	User         UserSvcFacade
	TokenService TokenSvcFacade
	Documents    DocumentStoreSvc
}
