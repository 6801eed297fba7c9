package respond_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/granja/internal/http/respond"
	"github.com/MrJamesThe3rd/granja/internal/inventory"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: inventory.NotFound("lot", uuid.New()), want: http.StatusNotFound},
		{err: &inventory.InsufficientStockError{}, want: http.StatusConflict},
		{err: fmt.Errorf("debiting lot: %w", inventory.ErrConcurrentUpdate), want: http.StatusConflict},
		{err: inventory.ErrAlreadyCancelled, want: http.StatusConflict},
		{err: inventory.ErrProductInUse, want: http.StatusConflict},
		{err: inventory.ErrInvalidQuantity, want: http.StatusUnprocessableEntity},
		{err: inventory.ErrInvalidRate, want: http.StatusUnprocessableEntity},
		{err: inventory.ErrEmptySale, want: http.StatusUnprocessableEntity},
		{err: inventory.ErrUnauthorized, want: http.StatusForbidden},
		{err: inventory.ErrJobInProgress, want: http.StatusLocked},
		{err: errors.New("connection refused"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, respond.Status(tt.err))
		})
	}
}

func TestFail_HidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.Fail(rec, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}

func TestFail_InsufficientStockBody(t *testing.T) {
	id := uuid.MustParse("6f1c1c8e-6c53-4a1a-9d8e-2d7d8a3a1b11")
	rec := httptest.NewRecorder()

	respond.Fail(rec, &inventory.InsufficientStockError{
		ProductID:   id,
		ProductName: "Queso",
		Available:   decimal.NewFromInt(2),
		Requested:   decimal.NewFromInt(5),
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{
		"error": "insufficient stock for Queso: available 2, requested 5",
		"product_id": "6f1c1c8e-6c53-4a1a-9d8e-2d7d8a3a1b11",
		"available": "2",
		"requested": "5"
	}`, rec.Body.String())
}
