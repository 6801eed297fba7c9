package inventory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SaleLineParams struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

type RecordSaleParams struct {
	CustomerID uuid.UUID
	Lines      []SaleLineParams
	Payment    Payment
}

func (p RecordSaleParams) validate() error {
	if len(p.Lines) == 0 {
		return ErrEmptySale
	}

	for _, l := range p.Lines {
		if !positiveAtScale(l.Quantity) {
			return ErrInvalidQuantity
		}

		if !positiveAtScale(l.UnitPrice) {
			return ErrInvalidPrice
		}
	}

	return nil
}

// RecordSale sells every line FIFO from the sellable lots of its product and
// posts the total to the cash ledger. All lines are planned before any lot is
// touched, so one unsatisfiable line fails the whole sale.
func (s *Service) RecordSale(ctx context.Context, params RecordSaleParams) (*Sale, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	currency, rate, err := s.rate(params.Payment.Currency, params.Payment.ExchangeRate)
	if err != nil {
		return nil, err
	}

	now := s.now()
	payment := params.Payment
	payment.Currency = currency
	payment.ExchangeRate = rate

	if payment.Method == "" {
		payment.Method = PaymentCash
	}

	sale := &Sale{
		ID:         uuid.New(),
		Number:     newNumber("V", now),
		CustomerID: params.CustomerID,
		Status:     SaleCompleted,
		Payment:    payment,
		CreatedAt:  now,
	}

	err = s.inLedger(ctx, func(tx LedgerTx) error {
		if _, err := tx.GetCustomer(ctx, params.CustomerID); err != nil {
			return err
		}

		products := make(map[uuid.UUID]*Product)
		working := make(map[uuid.UUID][]*Lot)

		// Products are locked in id order, whatever the line order.
		for _, id := range productIDs(params.Lines) {
			p, err := tx.GetProduct(ctx, id)
			if err != nil {
				return err
			}

			lots, err := tx.ListProductLots(ctx, id)
			if err != nil {
				return err
			}

			products[id] = p
			working[id] = cloneLots(lots)
		}

		plans := make([]*AllocationPlan, len(params.Lines))

		for i, line := range params.Lines {
			plan, err := Allocate(line.ProductID, working[line.ProductID], line.Quantity, now)
			if err != nil {
				var stockErr *InsufficientStockError
				if errors.As(err, &stockErr) {
					stockErr.ProductName = products[line.ProductID].Name
				}

				return err
			}

			applyPlan(working[line.ProductID], plan)
			plans[i] = plan
		}

		stockBefore := make(map[uuid.UUID]decimal.Decimal, len(products))
		for id, p := range products {
			stockBefore[id] = p.Stock
		}

		total := decimal.Zero
		profit := decimal.Zero

		for i, line := range params.Lines {
			plan := plans[i]
			product := products[line.ProductID]

			for _, a := range plan.Allocations {
				if err := tx.DecrementLot(ctx, a.LotID, a.Quantity); err != nil {
					return fmt.Errorf("debiting lot %s: %w", a.LotNumber, err)
				}
			}

			if err := tx.AdjustProductStock(ctx, product.ID, line.Quantity.Neg()); err != nil {
				return err
			}

			product.Stock = product.Stock.Sub(line.Quantity)

			subtotal := money(line.Quantity.Mul(line.UnitPrice))
			lineProfit := money(plan.Profit(line.UnitPrice.Mul(rate)))

			sale.Lines = append(sale.Lines, SaleLine{
				ID:          uuid.New(),
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
				Subtotal:    subtotal,
				Cost:        money(plan.TotalCost),
				Profit:      lineProfit,
				Allocations: plan.Allocations,
			})

			total = total.Add(subtotal)
			profit = profit.Add(lineProfit)
		}

		sale.Total = total
		sale.TotalBase = money(total.Mul(rate))
		sale.Profit = profit

		if err := tx.CreateSale(ctx, sale); err != nil {
			return err
		}

		for id, p := range products {
			if err := s.alertLowStock(ctx, tx, p, stockBefore[id]); err != nil {
				return err
			}
		}

		_, err := s.post(ctx, tx, cashEntry{
			Type:    CashSale,
			Inflow:  sale.TotalBase,
			Concept: "Venta " + sale.Number,
			RefID:   &sale.ID,
		})

		return err
	})
	if err != nil {
		return nil, err
	}

	return sale, nil
}

// CancelSale reverses the stock of a completed sale and posts a compensating
// outflow for its frozen total. Only roles allowed to cancel sales may call it.
//
// Stock returns to the most recently received lot of each product, because
// that is what the sale history supports. That lot's quantity grows when the
// returned stock would exceed it. With Config.ExactRestore the
// persisted allocation of each line is reversed instead.
func (s *Service) CancelSale(ctx context.Context, id uuid.UUID, role Role) (*Sale, error) {
	if !role.CanCancelSales() {
		return nil, ErrUnauthorized
	}

	var sale *Sale

	err := s.inLedger(ctx, func(tx LedgerTx) error {
		var err error

		sale, err = tx.GetSale(ctx, id)
		if err != nil {
			return err
		}

		if sale.Status == SaleCancelled {
			return ErrAlreadyCancelled
		}

		for _, line := range sale.Lines {
			if err := s.restoreLine(ctx, tx, line); err != nil {
				return err
			}

			if err := tx.AdjustProductStock(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		now := s.now()
		if err := tx.MarkSaleCancelled(ctx, sale.ID, now); err != nil {
			return err
		}

		sale.Status = SaleCancelled
		sale.CancelledAt = &now

		_, err = s.post(ctx, tx, cashEntry{
			Type:    CashSaleReversal,
			Outflow: sale.TotalBase,
			Concept: "Anulación venta " + sale.Number,
			RefID:   &sale.ID,
		})

		return err
	})
	if err != nil {
		return nil, err
	}

	return sale, nil
}

func (s *Service) restoreLine(ctx context.Context, tx LedgerTx, line SaleLine) error {
	if s.cfg.ExactRestore && len(line.Allocations) > 0 {
		for _, a := range line.Allocations {
			if err := tx.IncrementLot(ctx, a.LotID, a.Quantity); err != nil {
				return fmt.Errorf("restoring lot %s: %w", a.LotNumber, err)
			}
		}

		return nil
	}

	lots, err := tx.ListProductLots(ctx, line.ProductID)
	if err != nil {
		return err
	}

	latest := mostRecentLot(lots)
	if latest == nil {
		return fmt.Errorf("restoring %s: %w", line.ProductName, NotFound("lot", line.ProductID))
	}

	if err := tx.IncrementLot(ctx, latest.ID, line.Quantity); err != nil {
		return fmt.Errorf("restoring lot %s: %w", latest.Number, err)
	}

	return nil
}

func cloneLots(lots []*Lot) []*Lot {
	out := make([]*Lot, len(lots))
	for i, l := range lots {
		c := *l
		out[i] = &c
	}

	return out
}

// productIDs returns the distinct products of lines, sorted.
func productIDs(lines []SaleLineParams) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}

	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })

	return slices.Compact(ids)
}
