package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/granja/internal/inventory"
	"github.com/MrJamesThe3rd/granja/internal/inventory/memory"
)

type fixture struct {
	t        *testing.T
	ctx      context.Context
	store    *memory.Store
	svc      *inventory.Service
	now      time.Time
	customer *inventory.Customer
	supplier *inventory.Supplier
}

func newFixture(t *testing.T, opts ...inventory.Option) *fixture {
	t.Helper()

	f := &fixture{
		t:     t,
		ctx:   context.Background(),
		store: memory.New(),
		now:   time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
	}

	opts = append([]inventory.Option{inventory.WithClock(func() time.Time { return f.now })}, opts...)
	f.svc = inventory.NewService(f.store, opts...)

	var err error

	f.customer, err = f.svc.CreateCustomer(f.ctx, inventory.CreateCustomerParams{Name: "Mostrador"})
	require.NoError(t, err)

	f.supplier, err = f.svc.CreateSupplier(f.ctx, inventory.CreateSupplierParams{Name: "Granja Norte"})
	require.NoError(t, err)

	t.Cleanup(f.assertStockMatchesLots)

	return f
}

func (f *fixture) product(name, salePrice, minStock string) *inventory.Product {
	f.t.Helper()

	p, err := f.svc.CreateProduct(f.ctx, inventory.CreateProductParams{
		Name:      name,
		Unit:      "kg",
		SalePrice: dec(salePrice),
		MinStock:  dec(minStock),
	})
	require.NoError(f.t, err)

	return p
}

func (f *fixture) addLot(p *inventory.Product, qty, cost string, received, expires time.Time) *inventory.Lot {
	f.t.Helper()

	l, err := f.svc.AddLot(f.ctx, inventory.AddLotParams{
		ProductID:  p.ID,
		Quantity:   dec(qty),
		UnitCost:   dec(cost),
		ReceivedAt: received,
		ExpiresAt:  expires,
	})
	require.NoError(f.t, err)

	return l
}

func (f *fixture) lot(id uuid.UUID) *inventory.Lot {
	f.t.Helper()

	lots, err := f.svc.ListLots(f.ctx, inventory.LotFilter{})
	require.NoError(f.t, err)

	for _, l := range lots {
		if l.ID == id {
			return l
		}
	}

	f.t.Fatalf("lot %s not found", id)

	return nil
}

func (f *fixture) stock(id uuid.UUID) decimal.Decimal {
	f.t.Helper()

	p, err := f.svc.GetProduct(f.ctx, id)
	require.NoError(f.t, err)

	return p.Stock
}

func (f *fixture) cash() []*inventory.CashTransaction {
	f.t.Helper()

	rows, err := f.svc.ListCashTransactions(f.ctx, inventory.CashFilter{})
	require.NoError(f.t, err)

	return rows
}

func (f *fixture) sell(lines ...inventory.SaleLineParams) (*inventory.Sale, error) {
	return f.svc.RecordSale(f.ctx, inventory.RecordSaleParams{
		CustomerID: f.customer.ID,
		Lines:      lines,
	})
}

// assertStockMatchesLots checks that every product's stock equals the sum of
// its lots, unless the test deliberately left them apart.
func (f *fixture) assertStockMatchesLots() {
	if f.t.Failed() {
		return
	}

	products, err := f.svc.ListProducts(f.ctx)
	require.NoError(f.t, err)

	waste, err := f.svc.ListWaste(f.ctx)
	require.NoError(f.t, err)

	unreconciled := make(map[uuid.UUID]bool)
	for _, w := range waste {
		if w.Unreconciled() {
			unreconciled[w.ProductID] = true
		}
	}

	for _, p := range products {
		if unreconciled[p.ID] {
			continue
		}

		lots, err := f.svc.ListLots(f.ctx, inventory.LotFilter{ProductID: &p.ID})
		require.NoError(f.t, err)

		total := decimal.Zero
		for _, l := range lots {
			assert.False(f.t, l.Remaining.IsNegative(), "lot %s negative", l.Number)
			assert.False(f.t, l.Remaining.GreaterThan(l.Quantity), "lot %s over quantity", l.Number)
			total = total.Add(l.Remaining)
		}

		assert.True(f.t, p.Stock.Equal(total), "%s: stock %s, lots %s", p.Name, p.Stock, total)
	}
}

func TestLedger_SaleRoundTrip(t *testing.T) {
	f := newFixture(t)
	p := f.product("Queso", "5", "0")
	l := f.addLot(p, "5", "2", date(2023, 12, 20), date(2024, 2, 1))

	sale, err := f.sell(inventory.SaleLineParams{ProductID: p.ID, Quantity: dec("1"), UnitPrice: dec("5")})
	require.NoError(t, err)

	assert.Equal(t, inventory.SaleCompleted, sale.Status)
	assert.True(t, dec("3").Equal(sale.Profit), sale.Profit.String())
	assert.True(t, dec("5").Equal(sale.Total))
	assert.True(t, dec("4").Equal(f.lot(l.ID).Remaining))
	assert.True(t, dec("4").Equal(f.stock(p.ID)))

	rows := f.cash()
	require.Len(t, rows, 1)
	assert.Equal(t, inventory.CashSale, rows[0].Type)
	assert.True(t, dec("5").Equal(rows[0].Inflow))
	assert.True(t, dec("5").Equal(rows[0].Balance))
	assert.Equal(t, sale.ID, *rows[0].RefID)
}

func TestLedger_SaleConsumesSoonestExpiryFirst(t *testing.T) {
	f := newFixture(t)
	p := f.product("Yogur", "4", "0")
	later := f.addLot(p, "5", "2", date(2023, 12, 1), date(2024, 1, 10))
	sooner := f.addLot(p, "3", "1", date(2023, 12, 2), date(2024, 1, 5))

	sale, err := f.sell(inventory.SaleLineParams{ProductID: p.ID, Quantity: dec("4"), UnitPrice: dec("4")})
	require.NoError(t, err)

	allocs := sale.Lines[0].Allocations
	require.Len(t, allocs, 2)
	assert.Equal(t, sooner.ID, allocs[0].LotID)
	assert.True(t, dec("3").Equal(allocs[0].Quantity))
	assert.Equal(t, later.ID, allocs[1].LotID)
	assert.True(t, dec("1").Equal(allocs[1].Quantity))

	assert.True(t, f.lot(sooner.ID).Remaining.IsZero())
	assert.True(t, dec("4").Equal(f.lot(later.ID).Remaining))
	// 3 x (4 - 1) + 1 x (4 - 2)
	assert.True(t, dec("11").Equal(sale.Profit))
}

func TestLedger_InsufficientStockMutatesNothing(t *testing.T) {
	f := newFixture(t)
	p := f.product("Leche", "1.5", "0")
	a := f.addLot(p, "5", "1", date(2023, 12, 1), date(2024, 1, 10))
	b := f.addLot(p, "3", "1", date(2023, 12, 1), date(2024, 1, 5))

	sale, err := f.sell(inventory.SaleLineParams{ProductID: p.ID, Quantity: dec("10"), UnitPrice: dec("2")})
	require.Error(t, err)
	assert.Nil(t, sale)

	var stockErr *inventory.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, p.ID, stockErr.ProductID)
	assert.Equal(t, "Leche", stockErr.ProductName)
	assert.True(t, dec("8").Equal(stockErr.Available))
	assert.True(t, dec("10").Equal(stockErr.Requested))

	assert.True(t, dec("5").Equal(f.lot(a.ID).Remaining))
	assert.True(t, dec("3").Equal(f.lot(b.ID).Remaining))
	assert.True(t, dec("8").Equal(f.stock(p.ID)))
	assert.Empty(t, f.cash())

	sales, err := f.svc.ListSales(f.ctx, inventory.SaleFilter{})
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestLedger_ExpiredLotsAreNotSold(t *testing.T) {
	f := newFixture(t)
	p := f.product("Pan", "1", "0")
	f.addLot(p, "5", "0.5", date(2023, 12, 1), date(2023, 12, 31))

	_, err := f.sell(inventory.SaleLineParams{ProductID: p.ID, Quantity: dec("1"), UnitPrice: dec("1")})

	var stockErr *inventory.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, stockErr.Available.IsZero())
}

func TestLedger_MultiLineSaleIsAtomic(t *testing.T) {
	f := newFixture(t)
	eggs := f.product("Huevos", "0.2", "0")
	honey := f.product("Miel", "8", "0")
	eggLot := f.addLot(eggs, "30", "0.1", date(2023, 12, 1), date(2024, 1, 20))
	f.addLot(honey, "1", "5", date(2023, 12, 1), date(2025, 1, 1))

	_, err := f.sell(
		inventory.SaleLineParams{ProductID: eggs.ID, Quantity: dec("12"), UnitPrice: dec("0.2")},
		inventory.SaleLineParams{ProductID: honey.ID, Quantity: dec("2"), UnitPrice: dec("8")},
	)
	require.ErrorIs(t, err, inventory.ErrInsufficientStock)

	assert.True(t, dec("30").Equal(f.lot(eggLot.ID).Remaining))
	assert.True(t, dec("30").Equal(f.stock(eggs.ID)))
	assert.True(t, dec("1").Equal(f.stock(honey.ID)))
	assert.Empty(t, f.cash())
}

func TestLedger_SameProductOnTwoLines(t *testing.T) {
	f := newFixture(t)
	p := f.product("Tomate", "3", "0")
	f.addLot(p, "4", "1", date(2023, 12, 1), date(2024, 1, 20))

	_, err := f.sell(
		inventory.SaleLineParams{ProductID: p.ID, Quantity: dec("3"), UnitPrice: dec("3")},
		inventory.SaleLineParams{ProductID: p.ID, Quantity: dec("2"), UnitPrice: dec("3")},
	)
	require.ErrorIs(t, err, inventory.ErrInsufficientStock)
	assert.True(t, dec("4").Equal(f.stock(p.ID)))

	sale, err := f.sell(
		inventory.SaleLineParams{ProductID: p.ID, Quantity: dec("3"), UnitPrice: dec("3")},
		inventory.SaleLineParams{ProductID: p.ID, Quantity: dec("1"), UnitPrice: dec("2.5")},
	)
	require.NoError(t, err)
	assert.True(t, dec("11.5").Equal(sale.Total))
	assert.True(t, f.stock(p.ID).IsZero())
}

func TestLedger_SaleValidation(t *testing.T) {
	f := newFixture(t)
	p := f.product("Queso", "5", "0")
	f.addLot(p, "5", "2", date(2023, 12, 1), date(2024, 2, 1))

	tests := []struct {
		name   string
		params inventory.RecordSaleParams
		want   error
	}{
		{
			name:   "NoLines",
			params: inventory.RecordSaleParams{CustomerID: f.customer.ID},
			want:   inventory.ErrEmptySale,
		},
		{
			name: "ZeroQuantity",
			params: inventory.RecordSaleParams{CustomerID: f.customer.ID, Lines: []inventory.SaleLineParams{
				{ProductID: p.ID, Quantity: dec("0"), UnitPrice: dec("5")},
			}},
			want: inventory.ErrInvalidQuantity,
		},
		{
			name: "NegativePrice",
			params: inventory.RecordSaleParams{CustomerID: f.customer.ID, Lines: []inventory.SaleLineParams{
				{ProductID: p.ID, Quantity: dec("1"), UnitPrice: dec("-5")},
			}},
			want: inventory.ErrInvalidPrice,
		},
		{
			name: "UnknownCustomer",
			params: inventory.RecordSaleParams{CustomerID: uuid.New(), Lines: []inventory.SaleLineParams{
				{ProductID: p.ID, Quantity: dec("1"), UnitPrice: dec("5")},
			}},
			want: inventory.ErrNotFound,
		},
		{
			name: "UnknownProduct",
			params: inventory.RecordSaleParams{CustomerID: f.customer.ID, Lines: []inventory.SaleLineParams{
				{ProductID: uuid.New(), Quantity: dec("1"), UnitPrice: dec("5")},
			}},
			want: inventory.ErrNotFound,
		},
		{
			name: "ForeignCurrencyWithoutRate",
			params: inventory.RecordSaleParams{
				CustomerID: f.customer.ID,
				Lines:      []inventory.SaleLineParams{{ProductID: p.ID, Quantity: dec("1"), UnitPrice: dec("5")}},
				Payment:    inventory.Payment{Currency: "VES"},
			},
			want: inventory.ErrInvalidRate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RecordSale(f.ctx, tt.params)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.True(t, dec("5").Equal(f.stock(p.ID)))
	assert.Empty(t, f.cash())
}

func TestLedger_ForeignCurrencySale(t *testing.T) {
	f := newFixture(t)
	p := f.product("Queso", "5", "0")
	f.addLot(p, "5", "2", date(2023, 12, 1), date(2024, 2, 1))

	sale, err := f.svc.RecordSale(f.ctx, inventory.RecordSaleParams{
		CustomerID: f.customer.ID,
		Lines:      []inventory.SaleLineParams{{ProductID: p.ID, Quantity: dec("2"), UnitPrice: dec("200")}},
		Payment:    inventory.Payment{Method: inventory.PaymentTransfer, Currency: "ves", ExchangeRate: dec("0.025")},
	})
	require.NoError(t, err)

	assert.Equal(t, "VES", sale.Payment.Currency)
	assert.True(t, dec("400").Equal(sale.Total))
	assert.True(t, dec("10").Equal(sale.TotalBase))
	// 2 x (200 x 0.025 - 2)
	assert.True(t, dec("6").Equal(sale.Profit))

	rows := f.cash()
	require.Len(t, rows, 1)
	assert.True(t, dec("10").Equal(rows[0].Inflow))
}

func TestLedger_CancelSale(t *testing.T) {
	f := newFixture(t)
	p := f.product("Queso", "5", "0")
	older := f.addLot(p, "3", "1", date(2023, 12, 1), date(2024, 1, 5))
	newer := f.addLot(p, "2", "2", date(2023, 12, 15), date(2024, 1, 20))

	sale, err := f.sell(inventory.SaleLineParams{ProductID: p.ID, Quantity: dec("1"), UnitPrice: dec("5")})
	require.NoError(t, err)
	require.True(t, dec("2").Equal(f.lot(older.ID).Remaining))

	_, err = f.svc.CancelSale(f.ctx, sale.ID, inventory.RoleCashier)
	require.ErrorIs(t, err, inventory.ErrUnauthorized)

	f.now = f.now.Add(time.Hour)

	cancelled, err := f.svc.CancelSale(f.ctx, sale.ID, inventory.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, inventory.SaleCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	assert.True(t, dec("4").Equal(cancelled.Profit), "profit stays frozen")

	// stock goes back to the most recently received lot
	restored := f.lot(newer.ID)
	assert.True(t, dec("3").Equal(restored.Remaining))
	assert.True(t, dec("3").Equal(restored.Quantity))
	assert.True(t, dec("2").Equal(f.lot(older.ID).Remaining))
	assert.True(t, dec("5").Equal(f.stock(p.ID)))

	rows := f.cash()
	require.Len(t, rows, 2)
	assert.Equal(t, inventory.CashSaleReversal, rows[1].Type)
	assert.True(t, dec("5").Equal(rows[1].Outflow))
	assert.True(t, rows[1].Balance.IsZero())

	_, err = f.svc.CancelSale(f.ctx, sale.ID, inventory.RoleManager)
	assert.ErrorIs(t, err, inventory.ErrAlreadyCancelled)
	assert.Len(t, f.cash(), 2)
}

func TestLedger_CancelSaleExactRestore(t *testing.T) {
	cfg := inventory.DefaultConfig()
	cfg.ExactRestore = true

	f := newFixture(t, inventory.WithConfig(cfg))
	p := f.product("Queso", "5", "0")
	older := f.addLot(p, "3", "1", date(2023, 12, 1), date(2024, 1, 5))
	newer := f.addLot(p, "2", "2", date(2023, 12, 15), date(2024, 1, 20))

	sale, err := f.sell(inventory.SaleLineParams{ProductID: p.ID, Quantity: dec("4"), UnitPrice: dec("5")})
	require.NoError(t, err)

	_, err = f.svc.CancelSale(f.ctx, sale.ID, inventory.RoleManager)
	require.NoError(t, err)

	assert.True(t, dec("3").Equal(f.lot(older.ID).Remaining))
	assert.True(t, dec("2").Equal(f.lot(newer.ID).Remaining))
}

func TestLedger_CancelUnknownSale(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CancelSale(f.ctx, uuid.New(), inventory.RoleAdmin)
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestLedger_CashBalance(t *testing.T) {
	f := newFixture(t)

	balance, err := f.svc.CurrentBalance(f.ctx)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	_, err = f.svc.RecordAdjustment(f.ctx, inventory.RecordAdjustmentParams{Inflow: dec("100"), Concept: "Apertura de caja"})
	require.NoError(t, err)

	_, err = f.svc.RecordExpense(f.ctx, inventory.RecordExpenseParams{Category: "Transporte", Description: "Flete", Amount: dec("30")})
	require.NoError(t, err)

	balance, err = f.svc.CurrentBalance(f.ctx)
	require.NoError(t, err)
	assert.True(t, dec("70").Equal(balance))

	rows := f.cash()
	require.Len(t, rows, 2)

	prev := decimal.Zero
	for i, r := range rows {
		assert.True(t, prev.Add(r.Inflow).Sub(r.Outflow).Equal(r.Balance), "row %d", i)
		assert.Equal(t, int64(i+1), r.Seq)
		prev = r.Balance
	}

	assert.Equal(t, "Transporte: Flete", rows[1].Concept)
}

func TestLedger_CashValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RecordExpense(f.ctx, inventory.RecordExpenseParams{Description: "x", Amount: dec("0")})
	assert.ErrorIs(t, err, inventory.ErrInvalidPrice)

	_, err = f.svc.RecordExpense(f.ctx, inventory.RecordExpenseParams{Amount: dec("1")})
	assert.ErrorIs(t, err, inventory.ErrInvalidInput)

	_, err = f.svc.RecordAdjustment(f.ctx, inventory.RecordAdjustmentParams{Concept: "nada"})
	assert.ErrorIs(t, err, inventory.ErrInvalidPrice)

	_, err = f.svc.RecordAdjustment(f.ctx, inventory.RecordAdjustmentParams{Outflow: dec("-1"), Concept: "x"})
	assert.ErrorIs(t, err, inventory.ErrInvalidPrice)

	assert.Empty(t, f.cash())
}

func TestLedger_RecordPurchase(t *testing.T) {
	f := newFixture(t)
	cheese := f.product("Queso", "5", "0")
	milk := f.product("Leche", "1.5", "0")
	expires := date(2024, 1, 20)

	purchase, err := f.svc.RecordPurchase(f.ctx, inventory.RecordPurchaseParams{
		SupplierID:   f.supplier.ID,
		InvoiceRef:   "F-001",
		Currency:     "EUR",
		ExchangeRate: dec("1.1"),
		Lines: []inventory.PurchaseLineParams{
			{ProductID: cheese.ID, Quantity: dec("10"), UnitPrice: dec("2"), ExpiresAt: &expires},
			{ProductID: milk.ID, Quantity: dec("20"), UnitPrice: dec("1"), UnitSalePrice: new(dec("1.5"))},
		},
	})
	require.NoError(t, err)

	assert.True(t, dec("40").Equal(purchase.Total))
	assert.True(t, dec("44").Equal(purchase.TotalBase))
	require.Len(t, purchase.Lines, 2)

	cheeseLot := f.lot(purchase.Lines[0].LotID)
	assert.True(t, dec("2.2").Equal(cheeseLot.UnitCost))
	assert.True(t, dec("2.86").Equal(cheeseLot.UnitSalePrice), cheeseLot.UnitSalePrice.String())
	assert.True(t, expires.Equal(cheeseLot.ExpiresAt))

	milkLot := f.lot(purchase.Lines[1].LotID)
	assert.True(t, dec("1.5").Equal(milkLot.UnitSalePrice))
	assert.True(t, f.now.AddDate(0, 0, 365).Equal(milkLot.ExpiresAt))

	assert.True(t, dec("10").Equal(f.stock(cheese.ID)))
	assert.True(t, dec("20").Equal(f.stock(milk.ID)))

	rows := f.cash()
	require.Len(t, rows, 1)
	assert.Equal(t, inventory.CashPurchase, rows[0].Type)
	assert.True(t, dec("44").Equal(rows[0].Outflow))
	assert.True(t, dec("-44").Equal(rows[0].Balance))
}

func TestLedger_RecordPurchaseUnknownSupplier(t *testing.T) {
	f := newFixture(t)
	p := f.product("Queso", "5", "0")

	_, err := f.svc.RecordPurchase(f.ctx, inventory.RecordPurchaseParams{
		SupplierID: uuid.New(),
		Lines:      []inventory.PurchaseLineParams{{ProductID: p.ID, Quantity: dec("1"), UnitPrice: dec("1")}},
	})
	assert.ErrorIs(t, err, inventory.ErrNotFound)
	assert.True(t, f.stock(p.ID).IsZero())
}

func TestLedger_CreateProductSeedsInitialLot(t *testing.T) {
	f := newFixture(t)
	days := 10

	p, err := f.svc.CreateProduct(f.ctx, inventory.CreateProductParams{
		Name:          "Mantequilla",
		SalePrice:     dec("4"),
		InitialCost:   new(dec("2.5")),
		Stock:         dec("12"),
		ShelfLifeDays: &days,
	})
	require.NoError(t, err)

	lots, err := f.svc.ListLots(f.ctx, inventory.LotFilter{ProductID: &p.ID})
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.True(t, dec("12").Equal(lots[0].Remaining))
	assert.True(t, dec("2.5").Equal(lots[0].UnitCost))
	assert.True(t, f.now.AddDate(0, 0, 10).Equal(lots[0].ExpiresAt))
	assert.Empty(t, f.cash())
}

func TestLedger_RecordWaste(t *testing.T) {
	f := newFixture(t)
	p := f.product("Fresas", "6", "0")
	l := f.addLot(p, "10", "3", date(2023, 12, 20), date(2024, 1, 3))

	w, err := f.svc.RecordWaste(f.ctx, inventory.RecordWasteParams{
		ProductID: p.ID, LotID: &l.ID, Quantity: dec("4"), Reason: "golpeadas",
	})
	require.NoError(t, err)
	assert.True(t, dec("12").Equal(w.Cost))
	assert.False(t, w.Unreconciled())
	assert.True(t, dec("6").Equal(f.lot(l.ID).Remaining))
	assert.True(t, dec("6").Equal(f.stock(p.ID)))
	assert.Empty(t, f.cash())

	_, err = f.svc.RecordWaste(f.ctx, inventory.RecordWasteParams{
		ProductID: p.ID, LotID: &l.ID, Quantity: dec("7"), Reason: "podridas",
	})
	assert.ErrorIs(t, err, inventory.ErrInsufficientStock)

	_, err = f.svc.RecordWaste(f.ctx, inventory.RecordWasteParams{ProductID: p.ID, LotID: &l.ID, Quantity: dec("1")})
	assert.ErrorIs(t, err, inventory.ErrInvalidInput)

	other := f.product("Moras", "6", "0")
	_, err = f.svc.RecordWaste(f.ctx, inventory.RecordWasteParams{
		ProductID: other.ID, LotID: &l.ID, Quantity: dec("1"), Reason: "x",
	})
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestLedger_WasteWithoutLotThenSync(t *testing.T) {
	f := newFixture(t)
	p := f.product("Fresas", "6", "0")
	l := f.addLot(p, "10", "3", date(2023, 12, 20), date(2024, 1, 3))

	w, err := f.svc.RecordWaste(f.ctx, inventory.RecordWasteParams{ProductID: p.ID, Quantity: dec("2"), Reason: "merma"})
	require.NoError(t, err)
	assert.True(t, w.Unreconciled())
	assert.True(t, dec("12").Equal(w.Cost))
	assert.True(t, dec("10").Equal(f.lot(l.ID).Remaining))
	assert.True(t, dec("8").Equal(f.stock(p.ID)))

	res, err := f.svc.SyncLots(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, res.Repaired)
	require.Len(t, res.Surpluses, 1)
	assert.True(t, dec("10").Equal(res.Surpluses[0].LotTotal))
	assert.True(t, dec("10").Equal(f.lot(l.ID).Remaining))
}

func TestLedger_SyncCreatesCorrectiveLot(t *testing.T) {
	f := newFixture(t)
	p := f.product("Miel", "8", "0")
	f.addLot(p, "2", "5", date(2023, 12, 1), date(2025, 1, 1))

	// Simulate drift left behind by an older version of the data.
	tx, err := f.store.BeginLedger(f.ctx)
	require.NoError(t, err)
	require.NoError(t, tx.AdjustProductStock(f.ctx, p.ID, dec("3")))
	require.NoError(t, tx.Commit())

	res, err := f.svc.SyncLots(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Checked)
	require.Len(t, res.Repaired, 1)

	corrective := res.Repaired[0].Lot
	require.NotNil(t, corrective)
	assert.True(t, dec("3").Equal(corrective.Quantity))
	assert.True(t, dec("8").Equal(corrective.UnitCost))
	assert.True(t, f.now.AddDate(0, 0, 365).Equal(corrective.ExpiresAt))

	again, err := f.svc.SyncLots(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, again.Repaired)
}

func TestLedger_SweepExpiry(t *testing.T) {
	f := newFixture(t)
	f.now = date(2023, 12, 1)

	p := f.product("Yogur", "2", "0")
	near := f.addLot(p, "5", "1", date(2023, 12, 1), date(2024, 1, 5))
	expired := f.addLot(p, "5", "1", date(2023, 12, 1), date(2023, 12, 31))
	f.addLot(p, "5", "1", date(2023, 12, 1), date(2024, 6, 1))
	require.Equal(t, inventory.StatusActive, near.Status)

	f.now = date(2024, 1, 1)

	res, err := f.svc.SweepExpiry(f.ctx, f.now)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Checked)
	assert.Equal(t, 2, res.Transitions)
	require.Len(t, res.Alerts, 2)

	kinds := map[inventory.AlertKind]uuid.UUID{}
	for _, a := range res.Alerts {
		kinds[a.Kind] = *a.LotID
	}

	assert.Equal(t, expired.ID, kinds[inventory.AlertExpired])
	assert.Equal(t, near.ID, kinds[inventory.AlertNearExpiry])
	assert.Equal(t, inventory.StatusNearExpiry, f.lot(near.ID).Status)

	again, err := f.svc.SweepExpiry(f.ctx, f.now)
	require.NoError(t, err)
	assert.Zero(t, again.Transitions)
	assert.Empty(t, again.Alerts)

	f.now = date(2024, 1, 6)

	later, err := f.svc.SweepExpiry(f.ctx, f.now)
	require.NoError(t, err)
	require.Len(t, later.Alerts, 1)
	assert.Equal(t, inventory.AlertExpired, later.Alerts[0].Kind)

	alerts, err := f.svc.ListAlerts(f.ctx, true)
	require.NoError(t, err)
	assert.Len(t, alerts, 3)

	require.NoError(t, f.svc.MarkAlertRead(f.ctx, alerts[0].ID))

	unread, err := f.svc.ListAlerts(f.ctx, true)
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	assert.ErrorIs(t, f.svc.MarkAlertRead(f.ctx, uuid.New()), inventory.ErrNotFound)
}

func TestLedger_SweepRaisesNoLotsOnce(t *testing.T) {
	f := newFixture(t)
	p := f.product("Miel", "8", "0")

	res, err := f.svc.SweepExpiry(f.ctx, f.now)
	require.NoError(t, err)
	require.Len(t, res.Alerts, 1)
	assert.Equal(t, inventory.AlertNoLots, res.Alerts[0].Kind)
	assert.Equal(t, p.ID, *res.Alerts[0].ProductID)

	again, err := f.svc.SweepExpiry(f.ctx, f.now)
	require.NoError(t, err)
	assert.Empty(t, again.Alerts)
}

type busyLocker struct{}

func (busyLocker) TryLock(context.Context, string) (func(), bool, error) {
	return nil, false, nil
}

func TestLedger_BatchJobsRespectLock(t *testing.T) {
	f := newFixture(t, inventory.WithLocker(busyLocker{}))

	_, err := f.svc.SweepExpiry(f.ctx, f.now)
	assert.ErrorIs(t, err, inventory.ErrJobInProgress)

	_, err = f.svc.SyncLots(f.ctx)
	assert.ErrorIs(t, err, inventory.ErrJobInProgress)
}

func TestLedger_LowStockAlertFiresOnCrossing(t *testing.T) {
	f := newFixture(t)
	p := f.product("Queso", "5", "2")
	f.addLot(p, "5", "2", date(2023, 12, 1), date(2024, 2, 1))

	_, err := f.sell(inventory.SaleLineParams{ProductID: p.ID, Quantity: dec("2"), UnitPrice: dec("5")})
	require.NoError(t, err)

	alerts, err := f.svc.ListAlerts(f.ctx, false)
	require.NoError(t, err)
	assert.Empty(t, alerts)

	_, err = f.sell(inventory.SaleLineParams{ProductID: p.ID, Quantity: dec("1"), UnitPrice: dec("5")})
	require.NoError(t, err)

	_, err = f.sell(inventory.SaleLineParams{ProductID: p.ID, Quantity: dec("2"), UnitPrice: dec("5")})
	require.NoError(t, err)

	alerts, err = f.svc.ListAlerts(f.ctx, false)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, inventory.AlertLowStock, alerts[0].Kind)
	assert.Equal(t, inventory.PriorityMedium, alerts[0].Priority)
}

func TestLedger_DeleteProduct(t *testing.T) {
	f := newFixture(t)
	sold := f.product("Queso", "5", "0")
	f.addLot(sold, "5", "2", date(2023, 12, 1), date(2024, 2, 1))
	unused := f.product("Nata", "3", "0")

	_, err := f.sell(inventory.SaleLineParams{ProductID: sold.ID, Quantity: dec("1"), UnitPrice: dec("5")})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.DeleteProduct(f.ctx, sold.ID), inventory.ErrProductInUse)
	require.NoError(t, f.svc.DeleteProduct(f.ctx, unused.ID))

	_, err = f.svc.GetProduct(f.ctx, unused.ID)
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestLedger_UpdateProductKeepsStock(t *testing.T) {
	f := newFixture(t)
	p := f.product("Queso", "5", "0")
	f.addLot(p, "5", "2", date(2023, 12, 1), date(2024, 2, 1))

	updated, err := f.svc.UpdateProduct(f.ctx, p.ID, inventory.UpdateProductParams{
		Name:      new("Queso blanco"),
		SalePrice: new(dec("6")),
	})
	require.NoError(t, err)
	assert.Equal(t, "Queso blanco", updated.Name)
	assert.True(t, dec("6").Equal(updated.SalePrice))
	assert.True(t, dec("5").Equal(f.stock(p.ID)))

	_, err = f.svc.UpdateProduct(f.ctx, p.ID, inventory.UpdateProductParams{SalePrice: new(dec("0"))})
	assert.ErrorIs(t, err, inventory.ErrInvalidPrice)
}

func TestLedger_AddLotValidation(t *testing.T) {
	f := newFixture(t)
	p := f.product("Queso", "5", "0")

	_, err := f.svc.AddLot(f.ctx, inventory.AddLotParams{
		ProductID: p.ID, Quantity: dec("1"), UnitCost: dec("1"),
		ReceivedAt: date(2024, 1, 2), ExpiresAt: date(2024, 1, 1),
	})
	assert.ErrorIs(t, err, inventory.ErrInvalidInput)

	_, err = f.svc.AddLot(f.ctx, inventory.AddLotParams{
		ProductID: p.ID, Quantity: dec("1"), UnitCost: dec("0"), ExpiresAt: date(2024, 2, 1),
	})
	assert.ErrorIs(t, err, inventory.ErrInvalidPrice)

	_, err = f.svc.AddLot(f.ctx, inventory.AddLotParams{
		ProductID: uuid.New(), Quantity: dec("1"), UnitCost: dec("1"), ExpiresAt: date(2024, 2, 1),
	})
	assert.ErrorIs(t, err, inventory.ErrNotFound)
	assert.Empty(t, f.cash())
}

func TestLedger_TotalsAreSumOfRoundedLines(t *testing.T) {
	f := newFixture(t)
	p := f.product("Queso", "2.5", "0")
	f.addLot(p, "5", "1", date(2023, 12, 20), date(2024, 2, 1))

	line := inventory.SaleLineParams{ProductID: p.ID, Quantity: dec("0.333"), UnitPrice: dec("2.50")}

	sale, err := f.sell(line, line)
	require.NoError(t, err)

	subtotals := decimal.Zero
	profits := decimal.Zero

	for _, l := range sale.Lines {
		assert.True(t, dec("0.83").Equal(l.Subtotal), l.Subtotal.String())
		subtotals = subtotals.Add(l.Subtotal)
		profits = profits.Add(l.Profit)
	}

	assert.True(t, dec("1.66").Equal(sale.Total), sale.Total.String())
	assert.True(t, subtotals.Equal(sale.Total))
	assert.True(t, sale.Total.Equal(sale.TotalBase))
	assert.True(t, profits.Equal(sale.Profit), sale.Profit.String())
	assert.True(t, dec("4.334").Equal(f.stock(p.ID)))

	purchase, err := f.svc.RecordPurchase(f.ctx, inventory.RecordPurchaseParams{
		SupplierID: f.supplier.ID,
		Lines: []inventory.PurchaseLineParams{
			{ProductID: p.ID, Quantity: dec("0.333"), UnitPrice: dec("2.50")},
			{ProductID: p.ID, Quantity: dec("0.333"), UnitPrice: dec("2.50")},
		},
	})
	require.NoError(t, err)
	assert.True(t, dec("1.66").Equal(purchase.Total), purchase.Total.String())

	rows := f.cash()
	require.Len(t, rows, 2)
	assert.True(t, dec("1.66").Equal(rows[0].Inflow))
	assert.True(t, dec("1.66").Equal(rows[1].Outflow))
	assert.True(t, rows[1].Balance.IsZero(), rows[1].Balance.String())
}

func TestLedger_RejectsValuesBeyondStoredScale(t *testing.T) {
	f := newFixture(t)
	p := f.product("Queso", "5", "0")
	f.addLot(p, "5", "2", date(2023, 12, 1), date(2024, 2, 1))

	_, err := f.sell(inventory.SaleLineParams{ProductID: p.ID, Quantity: dec("0.33333"), UnitPrice: dec("5")})
	assert.ErrorIs(t, err, inventory.ErrInvalidQuantity)

	_, err = f.sell(inventory.SaleLineParams{ProductID: p.ID, Quantity: dec("1"), UnitPrice: dec("4.99999")})
	assert.ErrorIs(t, err, inventory.ErrInvalidPrice)

	_, err = f.svc.RecordPurchase(f.ctx, inventory.RecordPurchaseParams{
		SupplierID: f.supplier.ID,
		Lines:      []inventory.PurchaseLineParams{{ProductID: p.ID, Quantity: dec("1.00001"), UnitPrice: dec("1")}},
	})
	assert.ErrorIs(t, err, inventory.ErrInvalidQuantity)

	_, err = f.svc.RecordWaste(f.ctx, inventory.RecordWasteParams{ProductID: p.ID, Quantity: dec("0.00001"), Reason: "Moho"})
	assert.ErrorIs(t, err, inventory.ErrInvalidQuantity)

	_, err = f.svc.AddLot(f.ctx, inventory.AddLotParams{
		ProductID: p.ID, Quantity: dec("0.12345"), UnitCost: dec("1"), ExpiresAt: date(2024, 2, 1),
	})
	assert.ErrorIs(t, err, inventory.ErrInvalidQuantity)

	assert.True(t, dec("5").Equal(f.stock(p.ID)))
	assert.Empty(t, f.cash())
}

func TestLedger_PurchaseRoundsConvertedUnitCost(t *testing.T) {
	f := newFixture(t)
	p := f.product("Queso", "5", "0")

	purchase, err := f.svc.RecordPurchase(f.ctx, inventory.RecordPurchaseParams{
		SupplierID:   f.supplier.ID,
		Currency:     "EUR",
		ExchangeRate: dec("1.1"),
		Lines:        []inventory.PurchaseLineParams{{ProductID: p.ID, Quantity: dec("1"), UnitPrice: dec("1.2345")}},
	})
	require.NoError(t, err)

	lot := f.lot(purchase.Lines[0].LotID)
	assert.True(t, dec("1.358").Equal(lot.UnitCost), lot.UnitCost.String())
}

func TestLedger_PurchaseRejectsExpiredLine(t *testing.T) {
	f := newFixture(t)
	p := f.product("Queso", "5", "0")
	yesterday := date(2023, 12, 31)
	today := date(2024, 1, 1)

	_, err := f.svc.RecordPurchase(f.ctx, inventory.RecordPurchaseParams{
		SupplierID: f.supplier.ID,
		Lines:      []inventory.PurchaseLineParams{{ProductID: p.ID, Quantity: dec("1"), UnitPrice: dec("1"), ExpiresAt: &yesterday}},
	})
	require.ErrorIs(t, err, inventory.ErrInvalidInput)
	assert.True(t, f.stock(p.ID).IsZero())
	assert.Empty(t, f.cash())

	purchase, err := f.svc.RecordPurchase(f.ctx, inventory.RecordPurchaseParams{
		SupplierID: f.supplier.ID,
		Lines:      []inventory.PurchaseLineParams{{ProductID: p.ID, Quantity: dec("1"), UnitPrice: dec("1"), ExpiresAt: &today}},
	})
	require.NoError(t, err)
	assert.Equal(t, inventory.StatusNearExpiry, f.lot(purchase.Lines[0].LotID).Status)
}
