package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Drift is the difference found between a product's stock and its lots.
type Drift struct {
	ProductID   uuid.UUID
	ProductName string
	Stock       decimal.Decimal
	LotTotal    decimal.Decimal
	// Lot is the corrective lot, nil when the lots hold more than the stock.
	Lot *Lot
}

type SyncResult struct {
	Checked   int
	Repaired  []Drift
	Surpluses []Drift
}

// SyncLots compares every product's stock with the remaining quantity of all
// its lots. A shortfall is covered by one corrective lot priced at the
// product's sale price. A surplus is reported and left untouched, since there
// is no telling which lot it belongs to.
func (s *Service) SyncLots(ctx context.Context) (*SyncResult, error) {
	unlock, ok, err := s.locker.TryLock(ctx, "sync-lots")
	if err != nil {
		return nil, fmt.Errorf("acquiring sync lock: %w", err)
	}

	if !ok {
		return nil, ErrJobInProgress
	}
	defer unlock()

	result := &SyncResult{}

	err = s.inLedger(ctx, func(tx LedgerTx) error {
		products, err := tx.ListProducts(ctx)
		if err != nil {
			return err
		}

		now := s.now()

		for _, p := range products {
			result.Checked++

			lots, err := tx.ListProductLots(ctx, p.ID)
			if err != nil {
				return err
			}

			total := decimal.Zero
			for _, l := range lots {
				total = total.Add(l.Remaining)
			}

			drift := Drift{
				ProductID:   p.ID,
				ProductName: p.Name,
				Stock:       p.Stock,
				LotTotal:    total,
			}

			switch total.Cmp(p.Stock) {
			case 0:
				continue
			case 1:
				result.Surpluses = append(result.Surpluses, drift)
				continue
			}

			lot := s.newLot(p.ID, p.Stock.Sub(total), p.SalePrice, p.SalePrice, now, s.defaultExpiry(p, now))
			if err := tx.CreateLot(ctx, lot); err != nil {
				return fmt.Errorf("creating corrective lot for %s: %w", p.Name, err)
			}

			drift.Lot = lot
			result.Repaired = append(result.Repaired, drift)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
