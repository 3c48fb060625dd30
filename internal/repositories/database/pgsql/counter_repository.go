package pgsql

import (
	"context"
	"fmt"

	portsrepo "github.com/hspware/hospital_billing_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCounterRepository struct {
	BaseRepository
}

func newPgxCounterRepository(db *pgxpool.Pool) portsrepo.CounterRepositoryFacade {
	return &PgxCounterRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.CounterRepositoryFacade = (*PgxCounterRepository)(nil)

// NextSequenceValue increments and returns the named counter in one statement.
// The upsert-increment is a single atomic operation: concurrent callers are
// serialized by the row lock and each sees a distinct value. There is no
// read-then-write anywhere in this path.
func (r *PgxCounterRepository) NextSequenceValue(ctx context.Context, name string) (int64, error) {
	query := `
        INSERT INTO sequence_counters (name, sequence_value)
        VALUES ($1, 1)
        ON CONFLICT (name) DO UPDATE SET
            sequence_value = sequence_counters.sequence_value + 1
        RETURNING sequence_value;
    `
	var value int64
	if err := r.Pool.QueryRow(ctx, query, name).Scan(&value); err != nil {
		return 0, storageError(fmt.Sprintf("failed to increment counter %s", name), err)
	}
	return value, nil
}

func (r *PgxCounterRepository) CurrentSequenceValue(ctx context.Context, name string) (int64, error) {
	query := `
        SELECT COALESCE((SELECT sequence_value FROM sequence_counters WHERE name = $1), 0);
    `
	var value int64
	if err := r.Pool.QueryRow(ctx, query, name).Scan(&value); err != nil {
		return 0, storageError(fmt.Sprintf("failed to read counter %s", name), err)
	}
	return value, nil
}

func (r *PgxCounterRepository) ResetCounter(ctx context.Context, name string, newValue int64) error {
	query := `
        INSERT INTO sequence_counters (name, sequence_value)
        VALUES ($1, $2)
        ON CONFLICT (name) DO UPDATE SET
            sequence_value = EXCLUDED.sequence_value;
    `
	if _, err := r.Pool.Exec(ctx, query, name, newValue); err != nil {
		return storageError(fmt.Sprintf("failed to reset counter %s", name), err)
	}
	return nil
}
