package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/granja/internal/inventory"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "ForeignKey", err: &pgconn.PgError{Code: "23503", ConstraintName: "lots_product_id_fkey"}, want: inventory.ErrNotFound},
		{name: "Unique", err: &pgconn.PgError{Code: "23505"}, want: inventory.ErrInvalidInput},
		{name: "Check", err: &pgconn.PgError{Code: "23514"}, want: inventory.ErrInvalidInput},
		{name: "Serialization", err: fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "40001"}), want: inventory.ErrConcurrentUpdate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError("op", tt.err), tt.want)
		})
	}

	plain := errors.New("connection reset")
	assert.ErrorIs(t, mapError("op", plain), plain)
}

func TestLockKey(t *testing.T) {
	assert.Equal(t, lockKey("cash_transactions"), cashLockKey)
	assert.NotEqual(t, lockKey("a"), lockKey("b"))
}
