package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RecordWasteParams struct {
	ProductID uuid.UUID
	LotID     *uuid.UUID
	Quantity  decimal.Decimal
	Reason    string
}

// RecordWaste writes off stock. With a lot the loss is valued at the lot cost
// and debited from it. Without one only the product stock moves, valued at
// the sale price, and the lots stay as they were until SyncLots reconciles
// them. Waste is never posted to the cash ledger.
func (s *Service) RecordWaste(ctx context.Context, params RecordWasteParams) (*Waste, error) {
	if !positiveAtScale(params.Quantity) {
		return nil, ErrInvalidQuantity
	}

	if strings.TrimSpace(params.Reason) == "" {
		return nil, fmt.Errorf("%w: waste reason is required", ErrInvalidInput)
	}

	waste := &Waste{
		ID:        uuid.New(),
		ProductID: params.ProductID,
		LotID:     params.LotID,
		Quantity:  params.Quantity,
		Reason:    strings.TrimSpace(params.Reason),
		CreatedAt: s.now(),
	}

	err := s.inLedger(ctx, func(tx LedgerTx) error {
		p, err := tx.GetProduct(ctx, params.ProductID)
		if err != nil {
			return err
		}

		if params.LotID != nil {
			lot, err := tx.GetLot(ctx, *params.LotID)
			if err != nil {
				return err
			}

			if lot.ProductID != p.ID {
				return NotFound("lot", lot.ID)
			}

			if lot.Remaining.LessThan(params.Quantity) {
				return &InsufficientStockError{
					ProductID:   p.ID,
					ProductName: p.Name,
					Available:   lot.Remaining,
					Requested:   params.Quantity,
				}
			}

			if err := tx.DecrementLot(ctx, lot.ID, params.Quantity); err != nil {
				return fmt.Errorf("debiting lot %s: %w", lot.Number, err)
			}

			waste.UnitCost = lot.UnitCost
		} else {
			if p.Stock.LessThan(params.Quantity) {
				return &InsufficientStockError{
					ProductID:   p.ID,
					ProductName: p.Name,
					Available:   p.Stock,
					Requested:   params.Quantity,
				}
			}

			waste.UnitCost = p.SalePrice
		}

		waste.Cost = money(waste.UnitCost.Mul(params.Quantity))

		if err := tx.AdjustProductStock(ctx, p.ID, params.Quantity.Neg()); err != nil {
			return err
		}

		before := p.Stock
		p.Stock = p.Stock.Sub(params.Quantity)

		if err := tx.CreateWaste(ctx, waste); err != nil {
			return err
		}

		return s.alertLowStock(ctx, tx, p, before)
	})
	if err != nil {
		return nil, err
	}

	return waste, nil
}
