package pgsql

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/hspware/hospital_billing_app/internal/apperrors"
)

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "idx_bills_bill_number"}
	assert.True(t, isUniqueViolation(unique))
	assert.True(t, isUniqueViolation(errors.Join(errors.New("exec failed"), unique)), "wrapped driver errors should still match")

	notNull := &pgconn.PgError{Code: "23502"}
	assert.False(t, isUniqueViolation(notNull))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
	assert.False(t, isUniqueViolation(nil))
}

func TestStorageError(t *testing.T) {
	cause := errors.New("connection refused")
	err := storageError("failed to save bill", cause)

	assert.ErrorIs(t, err, apperrors.ErrStorage, "driver failures should carry the storage sentinel")
	assert.ErrorIs(t, err, cause, "the original cause should stay inspectable")
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	assert.NotErrorIs(t, err, apperrors.ErrDuplicate)
	assert.Contains(t, err.Error(), "failed to save bill")
}
