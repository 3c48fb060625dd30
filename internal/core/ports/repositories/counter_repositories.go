package repositories

import "context"

// CounterIncrementer defines the atomic increment operation. The returned value
// is unique among concurrent callers; on error no value may be assumed consumed.
type CounterIncrementer interface {
	// NextSequenceValue atomically increments and returns the counter for name,
	// creating it at 1 on first use. The upsert and increment are a single
	// storage operation, never a create-then-increment.
	NextSequenceValue(ctx context.Context, name string) (int64, error)
}

// CounterReader defines non-incrementing read access to counters.
type CounterReader interface {
	// CurrentSequenceValue returns the counter's current value, 0 when absent.
	CurrentSequenceValue(ctx context.Context, name string) (int64, error)
}

// CounterAdmin defines administrative correction operations.
type CounterAdmin interface {
	// ResetCounter sets the counter to newValue, creating it if absent.
	ResetCounter(ctx context.Context, name string, newValue int64) error
}

// CounterRepositoryFacade combines all counter repository interfaces.
type CounterRepositoryFacade interface {
	CounterIncrementer
	CounterReader
	CounterAdmin
}
