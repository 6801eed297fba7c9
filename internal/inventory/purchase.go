package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PurchaseLineParams struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	// UnitSalePrice defaults to the cost times Config.DefaultMarkup.
	UnitSalePrice *decimal.Decimal
	// ExpiresAt defaults to the product shelf life.
	ExpiresAt *time.Time
}

type RecordPurchaseParams struct {
	SupplierID   uuid.UUID
	Lines        []PurchaseLineParams
	InvoiceRef   string
	Currency     string
	ExchangeRate decimal.Decimal
}

// RecordPurchase receives every line as a new lot and posts the purchase
// total as one cash outflow.
func (s *Service) RecordPurchase(ctx context.Context, params RecordPurchaseParams) (*Purchase, error) {
	if len(params.Lines) == 0 {
		return nil, fmt.Errorf("%w: purchase has no lines", ErrInvalidInput)
	}

	now := s.now()

	for _, l := range params.Lines {
		if !positiveAtScale(l.Quantity) {
			return nil, ErrInvalidQuantity
		}

		if !positiveAtScale(l.UnitPrice) {
			return nil, ErrInvalidPrice
		}

		if l.UnitSalePrice != nil && !positiveAtScale(*l.UnitSalePrice) {
			return nil, ErrInvalidPrice
		}

		if l.ExpiresAt != nil && DaysRemaining(*l.ExpiresAt, now) < 0 {
			return nil, fmt.Errorf("%w: expiry must not precede receipt", ErrInvalidInput)
		}
	}

	currency, rate, err := s.rate(params.Currency, params.ExchangeRate)
	if err != nil {
		return nil, err
	}

	purchase := &Purchase{
		ID:           uuid.New(),
		Number:       newNumber("C", now),
		SupplierID:   params.SupplierID,
		InvoiceRef:   params.InvoiceRef,
		Currency:     currency,
		ExchangeRate: rate,
		CreatedAt:    now,
	}

	err = s.inLedger(ctx, func(tx LedgerTx) error {
		if _, err := tx.GetSupplier(ctx, params.SupplierID); err != nil {
			return err
		}

		total := decimal.Zero
		products := make(map[uuid.UUID]*Product)

		for _, line := range params.Lines {
			p, ok := products[line.ProductID]
			if !ok {
				found, err := tx.GetProduct(ctx, line.ProductID)
				if err != nil {
					return err
				}

				p = found
				products[p.ID] = p
			}

			unitCost := line.UnitPrice.Mul(rate)

			salePrice := unitCost.Mul(s.cfg.DefaultMarkup).Round(2)
			if line.UnitSalePrice != nil {
				salePrice = *line.UnitSalePrice
			}

			expiresAt := s.defaultExpiry(p, now)
			if line.ExpiresAt != nil {
				expiresAt = *line.ExpiresAt
			}

			lot := s.newLot(p.ID, line.Quantity, unitCost, salePrice, now, expiresAt)
			if err := tx.CreateLot(ctx, lot); err != nil {
				return err
			}

			if err := tx.AdjustProductStock(ctx, p.ID, line.Quantity); err != nil {
				return err
			}

			p.Stock = p.Stock.Add(line.Quantity)

			subtotal := money(line.Quantity.Mul(line.UnitPrice))
			purchase.Lines = append(purchase.Lines, PurchaseLine{
				ID:        uuid.New(),
				ProductID: p.ID,
				LotID:     lot.ID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				Subtotal:  subtotal,
			})
			total = total.Add(subtotal)
		}

		purchase.Total = total
		purchase.TotalBase = money(total.Mul(rate))

		if err := tx.CreatePurchase(ctx, purchase); err != nil {
			return err
		}

		_, err := s.post(ctx, tx, cashEntry{
			Type:    CashPurchase,
			Outflow: purchase.TotalBase,
			Concept: "Compra " + purchase.Number,
			RefID:   &purchase.ID,
		})

		return err
	})
	if err != nil {
		return nil, err
	}

	return purchase, nil
}

type AddLotParams struct {
	ProductID     uuid.UUID
	Quantity      decimal.Decimal
	UnitCost      decimal.Decimal
	UnitSalePrice *decimal.Decimal
	ReceivedAt    time.Time
	ExpiresAt     time.Time
}

// AddLot records stock received outside the purchase flow. Nothing is posted
// to the cash ledger.
func (s *Service) AddLot(ctx context.Context, params AddLotParams) (*Lot, error) {
	if !positiveAtScale(params.Quantity) {
		return nil, ErrInvalidQuantity
	}

	if !positiveAtScale(params.UnitCost) {
		return nil, ErrInvalidPrice
	}

	if params.UnitSalePrice != nil && !positiveAtScale(*params.UnitSalePrice) {
		return nil, ErrInvalidPrice
	}

	receivedAt := params.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = s.now()
	}

	if params.ExpiresAt.IsZero() || params.ExpiresAt.Before(receivedAt) {
		return nil, fmt.Errorf("%w: expiry must not precede receipt", ErrInvalidInput)
	}

	var lot *Lot

	err := s.inLedger(ctx, func(tx LedgerTx) error {
		p, err := tx.GetProduct(ctx, params.ProductID)
		if err != nil {
			return err
		}

		salePrice := p.SalePrice
		if params.UnitSalePrice != nil {
			salePrice = *params.UnitSalePrice
		}

		lot = s.newLot(p.ID, params.Quantity, params.UnitCost, salePrice, receivedAt, params.ExpiresAt)
		if err := tx.CreateLot(ctx, lot); err != nil {
			return err
		}

		return tx.AdjustProductStock(ctx, p.ID, params.Quantity)
	})
	if err != nil {
		return nil, err
	}

	return lot, nil
}
