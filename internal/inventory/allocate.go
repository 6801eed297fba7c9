package inventory

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationPlan is the FIFO breakdown of a quantity across lots. It is
// advisory until the ledger commits it.
type AllocationPlan struct {
	ProductID   uuid.UUID
	Requested   decimal.Decimal
	Allocations []Allocation
	TotalCost   decimal.Decimal
}

// Profit returns the margin of selling the planned quantity at unitPrice.
func (p *AllocationPlan) Profit(unitPrice decimal.Decimal) decimal.Decimal {
	profit := decimal.Zero
	for _, a := range p.Allocations {
		profit = profit.Add(a.Quantity.Mul(unitPrice.Sub(a.UnitCost)))
	}

	return profit
}

// Allocate partitions quantity across the sellable lots of productID,
// soonest expiry first. Lots of other products, empty lots and lots that are
// expired on day today are skipped. The input lots are not modified.
func Allocate(productID uuid.UUID, lots []*Lot, quantity decimal.Decimal, today time.Time) (*AllocationPlan, error) {
	if !quantity.IsPositive() {
		return nil, ErrInvalidQuantity
	}

	candidates := SellableLots(productID, lots, today)

	available := decimal.Zero
	for _, l := range candidates {
		available = available.Add(l.Remaining)
	}

	if available.LessThan(quantity) {
		return nil, &InsufficientStockError{
			ProductID: productID,
			Available: available,
			Requested: quantity,
		}
	}

	plan := &AllocationPlan{
		ProductID: productID,
		Requested: quantity,
		TotalCost: decimal.Zero,
	}

	needed := quantity

	for _, l := range candidates {
		if !needed.IsPositive() {
			break
		}

		take := decimal.Min(l.Remaining, needed)
		plan.Allocations = append(plan.Allocations, Allocation{
			LotID:     l.ID,
			LotNumber: l.Number,
			Quantity:  take,
			UnitCost:  l.UnitCost,
		})
		plan.TotalCost = plan.TotalCost.Add(take.Mul(l.UnitCost))
		needed = needed.Sub(take)
	}

	return plan, nil
}

// SellableLots returns the lots of productID that still hold stock and are
// not expired on day today, in FIFO order.
func SellableLots(productID uuid.UUID, lots []*Lot, today time.Time) []*Lot {
	var out []*Lot

	for _, l := range lots {
		if l.ProductID != productID || !l.Remaining.IsPositive() {
			continue
		}

		if Classify(l.ExpiresAt, today) == StatusExpired {
			continue
		}

		out = append(out, l)
	}

	slices.SortStableFunc(out, compareFIFO)

	return out
}

// compareFIFO orders lots by expiry, then receipt, then creation order.
func compareFIFO(a, b *Lot) int {
	if c := a.ExpiresAt.Compare(b.ExpiresAt); c != 0 {
		return c
	}

	if c := a.ReceivedAt.Compare(b.ReceivedAt); c != 0 {
		return c
	}

	if c := cmp.Compare(a.Seq, b.Seq); c != 0 {
		return c
	}

	return cmp.Compare(a.ID.String(), b.ID.String())
}

// applyPlan debits a plan from in-memory lot copies so later lines of the
// same event see what is left.
func applyPlan(lots []*Lot, plan *AllocationPlan) {
	byID := make(map[uuid.UUID]*Lot, len(lots))
	for _, l := range lots {
		byID[l.ID] = l
	}

	for _, a := range plan.Allocations {
		if l, ok := byID[a.LotID]; ok {
			l.Remaining = l.Remaining.Sub(a.Quantity)
		}
	}
}

// mostRecentLot returns the lot received last, or nil when lots is empty.
func mostRecentLot(lots []*Lot) *Lot {
	var latest *Lot

	for _, l := range lots {
		if latest == nil || compareReceipt(l, latest) > 0 {
			latest = l
		}
	}

	return latest
}

func compareReceipt(a, b *Lot) int {
	if c := a.ReceivedAt.Compare(b.ReceivedAt); c != 0 {
		return c
	}

	return cmp.Compare(a.Seq, b.Seq)
}
