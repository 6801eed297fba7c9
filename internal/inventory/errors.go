package inventory

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInvalidPrice      = errors.New("invalid price")
	ErrInvalidRate       = errors.New("invalid exchange rate")
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmptySale         = errors.New("sale has no lines")
	ErrAlreadyCancelled  = errors.New("sale already cancelled")
	ErrUnauthorized      = errors.New("role not allowed")
	ErrProductInUse      = errors.New("product has sales")
	ErrConcurrentUpdate  = errors.New("lot changed concurrently")
	ErrJobInProgress     = errors.New("job already running")
)

// NotFoundError names the entity that could not be found.
type NotFoundError struct {
	Entity string
	ID     uuid.UUID
}

// NotFound returns a *NotFoundError for the given entity.
func NotFound(entity string, id uuid.UUID) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InsufficientStockError is returned when the sellable lots of a product
// cannot cover a requested quantity.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Available   decimal.Decimal
	Requested   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID.String()
	}

	return fmt.Sprintf("insufficient stock for %s: available %s, requested %s",
		name, e.Available.String(), e.Requested.String())
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
