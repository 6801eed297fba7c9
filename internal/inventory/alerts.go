package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SweepResult summarises one expiry sweep.
type SweepResult struct {
	Checked     int
	Transitions int
	Alerts      []*Alert
}

// SweepExpiry reclassifies every lot that still holds stock. A lot whose
// status moves to near expiry or expired raises exactly one alert; sweeping
// again on the same day changes nothing. Products left without stocked lots
// raise one no_lots alert until a new lot is received.
func (s *Service) SweepExpiry(ctx context.Context, today time.Time) (*SweepResult, error) {
	unlock, ok, err := s.locker.TryLock(ctx, "sweep-expiry")
	if err != nil {
		return nil, fmt.Errorf("acquiring sweep lock: %w", err)
	}

	if !ok {
		return nil, ErrJobInProgress
	}
	defer unlock()

	result := &SweepResult{}

	err = s.inLedger(ctx, func(tx LedgerTx) error {
		lots, err := tx.ListStockedLots(ctx)
		if err != nil {
			return err
		}

		stocked := make(map[uuid.UUID]bool)

		for _, lot := range lots {
			result.Checked++
			stocked[lot.ProductID] = true

			next := s.classify(lot.ExpiresAt, today)
			if next == lot.Status {
				continue
			}

			changed, err := tx.UpdateLotStatus(ctx, lot.ID, lot.Status, next)
			if err != nil {
				return err
			}

			if !changed {
				continue
			}

			result.Transitions++

			if next == StatusActive {
				continue
			}

			alert := expiryAlert(lot, next, today)
			alert.CreatedAt = s.now()

			if err := tx.CreateAlert(ctx, alert); err != nil {
				return err
			}

			result.Alerts = append(result.Alerts, alert)
		}

		products, err := tx.ListProducts(ctx)
		if err != nil {
			return err
		}

		for _, p := range products {
			if stocked[p.ID] || !p.SalePrice.IsPositive() {
				continue
			}

			alert, err := s.alertNoLots(ctx, tx, p)
			if err != nil {
				return err
			}

			if alert != nil {
				result.Alerts = append(result.Alerts, alert)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func expiryAlert(lot *Lot, status Status, today time.Time) *Alert {
	productID := lot.ProductID
	lotID := lot.ID

	a := &Alert{
		ID:        uuid.New(),
		ProductID: &productID,
		LotID:     &lotID,
	}

	if status == StatusExpired {
		a.Kind = AlertExpired
		a.Priority = PriorityHigh
		a.Message = fmt.Sprintf("Lote %s vencido el %s con %s en existencia",
			lot.Number, lot.ExpiresAt.Format(time.DateOnly), lot.Remaining.String())

		return a
	}

	a.Kind = AlertNearExpiry
	a.Priority = PriorityMedium
	a.Message = fmt.Sprintf("Lote %s vence en %d días (%s)",
		lot.Number, DaysRemaining(lot.ExpiresAt, today), lot.ExpiresAt.Format(time.DateOnly))

	return a
}

// alertNoLots raises a no_lots alert unless one was already raised after the
// product's latest lot arrived.
func (s *Service) alertNoLots(ctx context.Context, tx LedgerTx, p *Product) (*Alert, error) {
	latest, err := tx.LatestAlert(ctx, p.ID, AlertNoLots)
	if err != nil {
		return nil, err
	}

	if latest != nil {
		lots, err := tx.ListProductLots(ctx, p.ID)
		if err != nil {
			return nil, err
		}

		last := mostRecentLot(lots)
		if last == nil || !last.CreatedAt.After(latest.CreatedAt) {
			return nil, nil
		}
	}

	productID := p.ID
	alert := &Alert{
		ID:        uuid.New(),
		Kind:      AlertNoLots,
		Priority:  PriorityHigh,
		ProductID: &productID,
		Message:   fmt.Sprintf("%s no tiene lotes con existencia", p.Name),
		CreatedAt: s.now(),
	}

	if err := tx.CreateAlert(ctx, alert); err != nil {
		return nil, err
	}

	return alert, nil
}

// alertLowStock raises a low_stock alert when the stock of p has just crossed
// down to its minimum. p.Stock must already hold the new stock.
func (s *Service) alertLowStock(ctx context.Context, tx LedgerTx, p *Product, before decimal.Decimal) error {
	if !before.GreaterThan(p.MinStock) || p.Stock.GreaterThan(p.MinStock) {
		return nil
	}

	priority := PriorityMedium
	if !p.Stock.IsPositive() {
		priority = PriorityHigh
	}

	productID := p.ID

	return tx.CreateAlert(ctx, &Alert{
		ID:        uuid.New(),
		Kind:      AlertLowStock,
		Priority:  priority,
		ProductID: &productID,
		Message: fmt.Sprintf("%s quedó en %s %s (mínimo %s)",
			p.Name, p.Stock.String(), p.Unit, p.MinStock.String()),
		CreatedAt: s.now(),
	})
}

func (s *Service) ListAlerts(ctx context.Context, unreadOnly bool) ([]*Alert, error) {
	return s.repo.ListAlerts(ctx, unreadOnly)
}

func (s *Service) MarkAlertRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAlertRead(ctx, id)
}
