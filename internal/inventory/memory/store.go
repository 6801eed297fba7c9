// Package memory is an in-process implementation of the inventory
// repository. It backs tests and the single-user demo mode; data is lost on
// exit.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/granja/internal/inventory"
)

type state struct {
	products  map[uuid.UUID]inventory.Product
	lots      map[uuid.UUID]inventory.Lot
	customers map[uuid.UUID]inventory.Customer
	suppliers map[uuid.UUID]inventory.Supplier
	sales     []inventory.Sale
	purchases []inventory.Purchase
	waste     []inventory.Waste
	cash      []inventory.CashTransaction
	alerts    []inventory.Alert
	lotSeq    int64
	cashSeq   int64
}

func (s *state) clone() *state {
	c := *s
	c.products = cloneMap(s.products)
	c.lots = cloneMap(s.lots)
	c.customers = cloneMap(s.customers)
	c.suppliers = cloneMap(s.suppliers)
	c.sales = slices.Clone(s.sales)
	c.purchases = slices.Clone(s.purchases)
	c.waste = slices.Clone(s.waste)
	c.cash = slices.Clone(s.cash)
	c.alerts = slices.Clone(s.alerts)

	return &c
}

func cloneMap[V any](m map[uuid.UUID]V) map[uuid.UUID]V {
	out := make(map[uuid.UUID]V, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}

// Store keeps everything behind one mutex. A ledger transaction holds the
// mutex from BeginLedger until Commit or Rollback and works on a copy of the
// state, so a failed operation leaves nothing behind.
type Store struct {
	mu    sync.Mutex
	state *state
}

func New() *Store {
	return &Store{state: &state{
		products:  make(map[uuid.UUID]inventory.Product),
		lots:      make(map[uuid.UUID]inventory.Lot),
		customers: make(map[uuid.UUID]inventory.Customer),
		suppliers: make(map[uuid.UUID]inventory.Supplier),
	}}
}

func (s *Store) BeginLedger(_ context.Context) (inventory.LedgerTx, error) {
	s.mu.Lock()

	return &ledgerTx{store: s, st: s.state.clone()}, nil
}

func (s *Store) GetProduct(_ context.Context, id uuid.UUID) (*inventory.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.getProduct(id)
}

func (s *Store) ListProducts(_ context.Context) ([]*inventory.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.listProducts(), nil
}

func (s *Store) ListLots(_ context.Context, filter inventory.LotFilter) ([]*inventory.Lot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*inventory.Lot

	for _, l := range s.state.lots {
		if filter.ProductID != nil && l.ProductID != *filter.ProductID {
			continue
		}

		if filter.Status != nil && l.Status != *filter.Status {
			continue
		}

		if filter.InStockOnly && !l.Remaining.IsPositive() {
			continue
		}

		out = append(out, &l)
	}

	sortLots(out)

	return out, nil
}

func (s *Store) GetSale(_ context.Context, id uuid.UUID) (*inventory.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.getSale(id)
}

func (s *Store) ListSales(_ context.Context, filter inventory.SaleFilter) ([]*inventory.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*inventory.Sale

	for _, sale := range s.state.sales {
		if filter.Status != nil && sale.Status != *filter.Status {
			continue
		}

		if !inRange(sale.CreatedAt, filter.StartDate, filter.EndDate) {
			continue
		}

		out = append(out, copySale(sale))
	}

	return out, nil
}

func (s *Store) ListPurchases(_ context.Context) ([]*inventory.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*inventory.Purchase, 0, len(s.state.purchases))
	for _, p := range s.state.purchases {
		p.Lines = slices.Clone(p.Lines)
		out = append(out, &p)
	}

	return out, nil
}

func (s *Store) ListWaste(_ context.Context) ([]*inventory.Waste, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*inventory.Waste, 0, len(s.state.waste))
	for _, w := range s.state.waste {
		out = append(out, &w)
	}

	return out, nil
}

func (s *Store) ListCashTransactions(_ context.Context, filter inventory.CashFilter) ([]*inventory.CashTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*inventory.CashTransaction

	for _, c := range s.state.cash {
		if !inRange(c.CreatedAt, filter.StartDate, filter.EndDate) {
			continue
		}

		out = append(out, &c)
	}

	return out, nil
}

func (s *Store) LastCashTransaction(_ context.Context) (*inventory.CashTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.lastCash(), nil
}

func (s *Store) ListAlerts(_ context.Context, unreadOnly bool) ([]*inventory.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*inventory.Alert

	for i := len(s.state.alerts) - 1; i >= 0; i-- {
		a := s.state.alerts[i]
		if unreadOnly && a.Read {
			continue
		}

		out = append(out, &a)
	}

	return out, nil
}

func (s *Store) MarkAlertRead(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.alerts {
		if s.state.alerts[i].ID == id {
			s.state.alerts[i].Read = true
			return nil
		}
	}

	return inventory.NotFound("alert", id)
}

func (s *Store) CreateCustomer(_ context.Context, c *inventory.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.customers[c.ID] = *c

	return nil
}

func (s *Store) ListCustomers(_ context.Context) ([]*inventory.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*inventory.Customer, 0, len(s.state.customers))
	for _, c := range s.state.customers {
		out = append(out, &c)
	}

	slices.SortFunc(out, func(a, b *inventory.Customer) int { return cmp.Compare(a.Name, b.Name) })

	return out, nil
}

func (s *Store) CreateSupplier(_ context.Context, sup *inventory.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.suppliers[sup.ID] = *sup

	return nil
}

func (s *Store) ListSuppliers(_ context.Context) ([]*inventory.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*inventory.Supplier, 0, len(s.state.suppliers))
	for _, sup := range s.state.suppliers {
		out = append(out, &sup)
	}

	slices.SortFunc(out, func(a, b *inventory.Supplier) int { return cmp.Compare(a.Name, b.Name) })

	return out, nil
}

func (st *state) getProduct(id uuid.UUID) (*inventory.Product, error) {
	p, ok := st.products[id]
	if !ok || p.DeletedAt != nil {
		return nil, inventory.NotFound("product", id)
	}

	return &p, nil
}

func (st *state) listProducts() []*inventory.Product {
	var out []*inventory.Product

	for _, p := range st.products {
		if p.DeletedAt != nil {
			continue
		}

		out = append(out, &p)
	}

	slices.SortFunc(out, func(a, b *inventory.Product) int { return cmp.Compare(a.Name, b.Name) })

	return out
}

func (st *state) getSale(id uuid.UUID) (*inventory.Sale, error) {
	for _, sale := range st.sales {
		if sale.ID == id {
			return copySale(sale), nil
		}
	}

	return nil, inventory.NotFound("sale", id)
}

func (st *state) lastCash() *inventory.CashTransaction {
	if len(st.cash) == 0 {
		return nil
	}

	c := st.cash[len(st.cash)-1]

	return &c
}

func copySale(s inventory.Sale) *inventory.Sale {
	s.Lines = slices.Clone(s.Lines)
	for i := range s.Lines {
		s.Lines[i].Allocations = slices.Clone(s.Lines[i].Allocations)
	}

	return &s
}

func sortLots(lots []*inventory.Lot) {
	slices.SortFunc(lots, func(a, b *inventory.Lot) int {
		if c := a.ExpiresAt.Compare(b.ExpiresAt); c != 0 {
			return c
		}

		if c := a.ReceivedAt.Compare(b.ReceivedAt); c != 0 {
			return c
		}

		return cmp.Compare(a.Seq, b.Seq)
	})
}

func inRange(t time.Time, start, end *time.Time) bool {
	if start != nil && t.Before(*start) {
		return false
	}

	if end != nil && t.After(*end) {
		return false
	}

	return true
}

// ledgerTx mutates a private copy of the state.
type ledgerTx struct {
	store *Store
	st    *state
	done  bool
}

func (tx *ledgerTx) Commit() error {
	if tx.done {
		return nil
	}

	tx.store.state = tx.st
	tx.done = true
	tx.store.mu.Unlock()

	return nil
}

func (tx *ledgerTx) Rollback() error {
	if tx.done {
		return nil
	}

	tx.done = true
	tx.store.mu.Unlock()

	return nil
}

func (tx *ledgerTx) GetProduct(_ context.Context, id uuid.UUID) (*inventory.Product, error) {
	return tx.st.getProduct(id)
}

func (tx *ledgerTx) ListProducts(_ context.Context) ([]*inventory.Product, error) {
	return tx.st.listProducts(), nil
}

func (tx *ledgerTx) CreateProduct(_ context.Context, p *inventory.Product) error {
	tx.st.products[p.ID] = *p
	return nil
}

func (tx *ledgerTx) UpdateProduct(_ context.Context, p *inventory.Product) error {
	current, err := tx.st.getProduct(p.ID)
	if err != nil {
		return err
	}

	// Stock belongs to the ledger operations.
	updated := *p
	updated.Stock = current.Stock
	tx.st.products[p.ID] = updated

	return nil
}

func (tx *ledgerTx) DeleteProduct(_ context.Context, id uuid.UUID, at time.Time) error {
	p, err := tx.st.getProduct(id)
	if err != nil {
		return err
	}

	p.DeletedAt = &at
	tx.st.products[id] = *p

	return nil
}

func (tx *ledgerTx) AdjustProductStock(_ context.Context, id uuid.UUID, delta decimal.Decimal) error {
	p, err := tx.st.getProduct(id)
	if err != nil {
		return err
	}

	p.Stock = p.Stock.Add(delta)
	tx.st.products[id] = *p

	return nil
}

func (tx *ledgerTx) CountSaleLines(_ context.Context, productID uuid.UUID) (int, error) {
	n := 0

	for _, sale := range tx.st.sales {
		for _, l := range sale.Lines {
			if l.ProductID == productID {
				n++
			}
		}
	}

	return n, nil
}

func (tx *ledgerTx) ListProductLots(_ context.Context, productID uuid.UUID) ([]*inventory.Lot, error) {
	var out []*inventory.Lot

	for _, l := range tx.st.lots {
		if l.ProductID == productID {
			out = append(out, &l)
		}
	}

	sortLots(out)

	return out, nil
}

func (tx *ledgerTx) ListStockedLots(_ context.Context) ([]*inventory.Lot, error) {
	var out []*inventory.Lot

	for _, l := range tx.st.lots {
		if l.Remaining.IsPositive() {
			out = append(out, &l)
		}
	}

	sortLots(out)

	return out, nil
}

func (tx *ledgerTx) GetLot(_ context.Context, id uuid.UUID) (*inventory.Lot, error) {
	l, ok := tx.st.lots[id]
	if !ok {
		return nil, inventory.NotFound("lot", id)
	}

	return &l, nil
}

func (tx *ledgerTx) CreateLot(_ context.Context, l *inventory.Lot) error {
	if _, err := tx.st.getProduct(l.ProductID); err != nil {
		return err
	}

	tx.st.lotSeq++
	l.Seq = tx.st.lotSeq
	tx.st.lots[l.ID] = *l

	return nil
}

func (tx *ledgerTx) DecrementLot(_ context.Context, id uuid.UUID, qty decimal.Decimal) error {
	l, ok := tx.st.lots[id]
	if !ok {
		return inventory.NotFound("lot", id)
	}

	if l.Remaining.LessThan(qty) {
		return inventory.ErrConcurrentUpdate
	}

	l.Remaining = l.Remaining.Sub(qty)
	tx.st.lots[id] = l

	return nil
}

func (tx *ledgerTx) IncrementLot(_ context.Context, id uuid.UUID, qty decimal.Decimal) error {
	l, ok := tx.st.lots[id]
	if !ok {
		return inventory.NotFound("lot", id)
	}

	l.Remaining = l.Remaining.Add(qty)
	if l.Remaining.GreaterThan(l.Quantity) {
		l.Quantity = l.Remaining
	}

	tx.st.lots[id] = l

	return nil
}

func (tx *ledgerTx) UpdateLotStatus(_ context.Context, id uuid.UUID, from, to inventory.Status) (bool, error) {
	l, ok := tx.st.lots[id]
	if !ok {
		return false, inventory.NotFound("lot", id)
	}

	if l.Status != from {
		return false, nil
	}

	l.Status = to
	tx.st.lots[id] = l

	return true, nil
}

func (tx *ledgerTx) GetCustomer(_ context.Context, id uuid.UUID) (*inventory.Customer, error) {
	c, ok := tx.st.customers[id]
	if !ok {
		return nil, inventory.NotFound("customer", id)
	}

	return &c, nil
}

func (tx *ledgerTx) GetSupplier(_ context.Context, id uuid.UUID) (*inventory.Supplier, error) {
	sup, ok := tx.st.suppliers[id]
	if !ok {
		return nil, inventory.NotFound("supplier", id)
	}

	return &sup, nil
}

func (tx *ledgerTx) CreateSale(_ context.Context, s *inventory.Sale) error {
	tx.st.sales = append(tx.st.sales, *copySale(*s))
	return nil
}

func (tx *ledgerTx) GetSale(_ context.Context, id uuid.UUID) (*inventory.Sale, error) {
	return tx.st.getSale(id)
}

func (tx *ledgerTx) MarkSaleCancelled(_ context.Context, id uuid.UUID, at time.Time) error {
	for i := range tx.st.sales {
		if tx.st.sales[i].ID != id {
			continue
		}

		if tx.st.sales[i].Status == inventory.SaleCancelled {
			return inventory.ErrAlreadyCancelled
		}

		tx.st.sales[i].Status = inventory.SaleCancelled
		tx.st.sales[i].CancelledAt = &at

		return nil
	}

	return inventory.NotFound("sale", id)
}

func (tx *ledgerTx) CreatePurchase(_ context.Context, p *inventory.Purchase) error {
	c := *p
	c.Lines = slices.Clone(p.Lines)
	tx.st.purchases = append(tx.st.purchases, c)

	return nil
}

func (tx *ledgerTx) CreateWaste(_ context.Context, w *inventory.Waste) error {
	tx.st.waste = append(tx.st.waste, *w)
	return nil
}

func (tx *ledgerTx) CreateAlert(_ context.Context, a *inventory.Alert) error {
	tx.st.alerts = append(tx.st.alerts, *a)
	return nil
}

func (tx *ledgerTx) LatestAlert(_ context.Context, productID uuid.UUID, kind inventory.AlertKind) (*inventory.Alert, error) {
	for i := len(tx.st.alerts) - 1; i >= 0; i-- {
		a := tx.st.alerts[i]
		if a.Kind == kind && a.ProductID != nil && *a.ProductID == productID {
			return &a, nil
		}
	}

	return nil, nil
}

func (tx *ledgerTx) LastCashTransaction(_ context.Context) (*inventory.CashTransaction, error) {
	return tx.st.lastCash(), nil
}

func (tx *ledgerTx) AppendCash(_ context.Context, c *inventory.CashTransaction) error {
	tx.st.cashSeq++
	c.Seq = tx.st.cashSeq
	tx.st.cash = append(tx.st.cash, *c)

	return nil
}
