package services

import "context"

// CounterSvcFacade exposes the named sequence counters. Every human-readable
// number in the system (patient, OPD, IPD, billNo) is minted through here.
type CounterSvcFacade interface {
	// NextSequenceValue atomically increments and returns the named counter.
	NextSequenceValue(ctx context.Context, name string) (int64, error)

	// CurrentSequenceValue returns the counter without incrementing, 0 when absent.
	CurrentSequenceValue(ctx context.Context, name string) (int64, error)

	// ResetCounter administratively sets a counter. Not part of normal flow.
	ResetCounter(ctx context.Context, name string, newValue int64) error
}
