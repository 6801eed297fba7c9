package importer_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/granja/internal/importer"
	"github.com/MrJamesThe3rd/granja/internal/importer/supplier"
	"github.com/MrJamesThe3rd/granja/internal/inventory"
	"github.com/MrJamesThe3rd/granja/internal/inventory/memory"
	"github.com/MrJamesThe3rd/granja/internal/matching"
	matchingMemory "github.com/MrJamesThe3rd/granja/internal/matching/memory"
)

const note = `Producto;Cantidad;Costo;Vence
queso anejo;10;2,00;15/02/2024
Leche;4;1,50;
Yogur;2;3,00;
`

type env struct {
	inv      *inventory.Service
	svc      *importer.Service
	supplier *inventory.Supplier
	products map[string]*inventory.Product
}

func setup(t *testing.T) *env {
	t.Helper()

	ctx := context.Background()
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	inv := inventory.NewService(memory.New(), inventory.WithClock(func() time.Time { return now }))

	e := &env{
		inv:      inv,
		svc:      importer.NewService(inv, map[importer.Format]importer.Parser{importer.FormatSupplierCSV: supplier.NewParser()}, supplier.Fold),
		products: make(map[string]*inventory.Product),
	}

	for _, name := range []string{"Queso Añejo", "Leche entera", "Leche descremada"} {
		p, err := inv.CreateProduct(ctx, inventory.CreateProductParams{Name: name, SalePrice: decimal.NewFromInt(5)})
		require.NoError(t, err)

		e.products[name] = p
	}

	var err error

	e.supplier, err = inv.CreateSupplier(ctx, inventory.CreateSupplierParams{Name: "Lácteos del Valle"})
	require.NoError(t, err)

	return e
}

func TestService_Preview(t *testing.T) {
	e := setup(t)

	preview, err := e.svc.Preview(context.Background(), importer.FormatSupplierCSV, strings.NewReader(note))
	require.NoError(t, err)
	require.Len(t, preview.Lines, 3)

	queso := preview.Lines[0]
	require.NotNil(t, queso.ProductID)
	assert.Equal(t, e.products["Queso Añejo"].ID, *queso.ProductID)

	leche := preview.Lines[1]
	assert.Nil(t, leche.ProductID)
	assert.ElementsMatch(t, []string{"Leche entera", "Leche descremada"}, leche.Candidates)

	yogur := preview.Lines[2]
	assert.Nil(t, yogur.ProductID)
	assert.Empty(t, yogur.Candidates)

	assert.Equal(t, 2, preview.Unresolved)
	assert.True(t, decimal.NewFromInt(32).Equal(preview.Total))
}

func TestService_Confirm(t *testing.T) {
	ctx := context.Background()
	e := setup(t)

	preview, err := e.svc.Preview(ctx, importer.FormatSupplierCSV, strings.NewReader(note))
	require.NoError(t, err)

	params := importer.ConfirmParams{SupplierID: e.supplier.ID, InvoiceRef: "NE-000123"}

	_, err = e.svc.Confirm(ctx, preview, params)
	require.ErrorIs(t, err, importer.ErrUnresolved)
	assert.Contains(t, err.Error(), "3:Leche")

	products, err := e.inv.ListProducts(ctx)
	require.NoError(t, err)

	for _, p := range products {
		assert.True(t, p.Stock.IsZero(), "unresolved import must not receive stock")
	}

	params.Overrides = map[int]uuid.UUID{
		3: e.products["Leche entera"].ID,
		4: e.products["Leche descremada"].ID,
	}

	purchase, err := e.svc.Confirm(ctx, preview, params)
	require.NoError(t, err)
	assert.Len(t, purchase.Lines, 3)
	assert.Equal(t, "NE-000123", purchase.InvoiceRef)
	assert.True(t, decimal.NewFromInt(32).Equal(purchase.TotalBase))

	queso, err := e.inv.GetProduct(ctx, e.products["Queso Añejo"].ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(queso.Stock))

	lots, err := e.inv.ListLots(ctx, inventory.LotFilter{ProductID: &queso.ID})
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), lots[0].ExpiresAt)

	balance, err := e.inv.CurrentBalance(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(-32).Equal(balance))
}

func TestService_UnknownFormat(t *testing.T) {
	e := setup(t)

	_, err := e.svc.Preview(context.Background(), "xml", strings.NewReader(note))
	assert.Error(t, err)
}

func TestService_LearnsOverrides(t *testing.T) {
	ctx := context.Background()
	e := setup(t)

	aliases := matching.NewService(matchingMemory.New(), e.inv, supplier.Fold)
	svc := importer.NewService(e.inv, map[importer.Format]importer.Parser{
		importer.FormatSupplierCSV: supplier.NewParser(),
	}, supplier.Fold, importer.WithAliases(aliases))

	first, err := svc.Preview(ctx, importer.FormatSupplierCSV, strings.NewReader(note))
	require.NoError(t, err)
	require.Equal(t, 2, first.Unresolved)

	drink, err := e.inv.CreateProduct(ctx, inventory.CreateProductParams{Name: "Bebida láctea", SalePrice: decimal.NewFromInt(4)})
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, first, importer.ConfirmParams{
		SupplierID: e.supplier.ID,
		Overrides: map[int]uuid.UUID{
			3: e.products["Leche entera"].ID,
			4: drink.ID,
		},
	})
	require.NoError(t, err)

	second, err := svc.Preview(ctx, importer.FormatSupplierCSV, strings.NewReader(note))
	require.NoError(t, err)
	assert.Zero(t, second.Unresolved)

	assert.False(t, second.Lines[0].FromAlias)

	leche := second.Lines[1]
	assert.True(t, leche.FromAlias)
	assert.Equal(t, "Leche entera", leche.ProductName)

	yogur := second.Lines[2]
	assert.True(t, yogur.FromAlias)
	assert.Equal(t, drink.ID, *yogur.ProductID)
}
