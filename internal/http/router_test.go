package http_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/MrJamesThe3rd/granja/internal/http"
	"github.com/MrJamesThe3rd/granja/internal/http/alert"
	"github.com/MrJamesThe3rd/granja/internal/http/auth"
	"github.com/MrJamesThe3rd/granja/internal/http/cash"
	"github.com/MrJamesThe3rd/granja/internal/http/export"
	"github.com/MrJamesThe3rd/granja/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/granja/internal/http/matching"
	"github.com/MrJamesThe3rd/granja/internal/http/party"
	"github.com/MrJamesThe3rd/granja/internal/http/product"
	"github.com/MrJamesThe3rd/granja/internal/http/purchase"
	"github.com/MrJamesThe3rd/granja/internal/http/sale"
	"github.com/MrJamesThe3rd/granja/internal/http/waste"
	"github.com/MrJamesThe3rd/granja/internal/importer"
	"github.com/MrJamesThe3rd/granja/internal/importer/supplier"
	"github.com/MrJamesThe3rd/granja/internal/inventory"
	"github.com/MrJamesThe3rd/granja/internal/inventory/memory"
	"github.com/MrJamesThe3rd/granja/internal/matching"
	matchingMemory "github.com/MrJamesThe3rd/granja/internal/matching/memory"
	"github.com/MrJamesThe3rd/granja/internal/report"
)

var secret = []byte("test-secret")

type api struct {
	t       *testing.T
	handler http.Handler
}

func newAPI(t *testing.T) *api {
	t.Helper()

	now := func() time.Time { return time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC) }
	svc := inventory.NewService(memory.New(), inventory.WithClock(now))
	aliases := matching.NewService(matchingMemory.New(), svc, supplier.Fold)
	imp := importer.NewService(svc, map[importer.Format]importer.Parser{
		importer.FormatSupplierCSV:  supplier.NewParser(),
		importer.FormatSupplierXLSX: supplier.NewXLSXParser(),
	}, supplier.Fold, importer.WithAliases(aliases))

	h := apphttp.New(apphttp.Handlers{
		Products:  product.NewHandler(svc),
		Sales:     sale.NewHandler(svc),
		Purchases: purchase.NewHandler(svc),
		Waste:     waste.NewHandler(svc),
		Cash:      cash.NewHandler(svc),
		Alerts:    alert.NewHandler(svc, now),
		Parties:   party.NewHandler(svc),
		Reports:   export.NewHandler(report.NewService(svc, svc.Config().NearExpiryDays), now),
		Import:    importcsv.NewHandler(imp),
		Aliases:   matchingHandler.NewHandler(aliases),
	}, apphttp.Options{JWTSecret: secret, AllowedOrigins: []string{"*"}})

	return &api{t: t, handler: h}
}

func (a *api) do(method, path string, body any, role inventory.Role) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if role != "" {
		token, err := auth.Sign(secret, "test", role, time.Hour)
		require.NoError(a.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())

	return v
}

type idResponse struct {
	ID string `json:"id"`
}

func (a *api) seed() (productID, customerID string) {
	a.t.Helper()

	rec := a.do(http.MethodPost, "/api/v1/products", map[string]any{
		"name": "Queso blanco", "unit": "kg", "sale_price": "5", "min_stock": "1",
	}, "")
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	productID = decode[idResponse](a.t, rec).ID

	rec = a.do(http.MethodPost, "/api/v1/products/"+productID+"/lots", map[string]any{
		"quantity": "4", "unit_cost": "2", "expires_at": "2024-03-01T00:00:00Z",
	}, "")
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(http.MethodPost, "/api/v1/customers", map[string]any{"name": "Mostrador"}, "")
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	customerID = decode[idResponse](a.t, rec).ID

	return productID, customerID
}

func TestRouter_SaleLifecycle(t *testing.T) {
	a := newAPI(t)
	productID, customerID := a.seed()

	sale := map[string]any{
		"customer_id": customerID,
		"lines":       []map[string]any{{"product_id": productID, "quantity": "3", "unit_price": "5"}},
	}

	rec := a.do(http.MethodPost, "/api/v1/sales", sale, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[struct {
		ID        string `json:"id"`
		TotalBase string `json:"total_base"`
		Profit    string `json:"profit"`
	}](t, rec)
	assert.Equal(t, "15", created.TotalBase)
	assert.Equal(t, "9", created.Profit)

	rec = a.do(http.MethodPost, "/api/v1/sales", sale, "")
	require.Equal(t, http.StatusConflict, rec.Code)

	insufficient := decode[struct {
		ProductID string `json:"product_id"`
		Available string `json:"available"`
		Requested string `json:"requested"`
	}](t, rec)
	assert.Equal(t, productID, insufficient.ProductID)
	assert.Equal(t, "1", insufficient.Available)
	assert.Equal(t, "3", insufficient.Requested)

	cancelPath := "/api/v1/sales/" + created.ID + "/cancel"

	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, cancelPath, nil, "").Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, cancelPath, nil, inventory.RoleCashier).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodPost, cancelPath, nil, inventory.RoleManager).Code)
	assert.Equal(t, http.StatusConflict, a.do(http.MethodPost, cancelPath, nil, inventory.RoleAdmin).Code)

	rec = a.do(http.MethodGet, "/api/v1/cash/balance", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", decode[struct {
		Balance string `json:"balance"`
	}](t, rec).Balance)

	rec = a.do(http.MethodGet, "/api/v1/products/"+productID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "4", decode[struct {
		Stock string `json:"stock"`
	}](t, rec).Stock)
}

func TestRouter_Errors(t *testing.T) {
	a := newAPI(t)
	productID, _ := a.seed()

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
	}{
		{name: "BadID", method: http.MethodGet, path: "/api/v1/products/nope", wantStatus: http.StatusBadRequest},
		{name: "MissingProduct", method: http.MethodGet, path: "/api/v1/products/6f1c1c8e-6c53-4a1a-9d8e-2d7d8a3a1b11", wantStatus: http.StatusNotFound},
		{name: "InvalidBody", method: http.MethodPost, path: "/api/v1/products", body: map[string]any{"name": ""}, wantStatus: http.StatusBadRequest},
		{name: "EmptySale", method: http.MethodPost, path: "/api/v1/sales", body: map[string]any{"customer_id": productID, "lines": []any{}}, wantStatus: http.StatusBadRequest},
		{name: "UnknownCustomer", method: http.MethodPost, path: "/api/v1/sales", body: map[string]any{
			"customer_id": productID,
			"lines":       []map[string]any{{"product_id": productID, "quantity": "1", "unit_price": "5"}},
		}, wantStatus: http.StatusNotFound},
		{name: "WasteWithoutReason", method: http.MethodPost, path: "/api/v1/waste", body: map[string]any{"product_id": productID, "quantity": "1"}, wantStatus: http.StatusBadRequest},
		{name: "ForeignExpenseWithoutRate", method: http.MethodPost, path: "/api/v1/cash/expenses", body: map[string]any{
			"description": "Hielo", "amount": "10", "currency": "VES",
		}, wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(tt.method, tt.path, tt.body, "")
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer garbage")

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_JobsAndReport(t *testing.T) {
	a := newAPI(t)
	a.seed()

	rec := a.do(http.MethodPost, "/api/v1/jobs/sweep-expiry", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(http.MethodPost, "/api/v1/jobs/sync-lots", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, decode[struct {
		Repaired []any `json:"repaired"`
	}](t, rec).Repaired)

	rec = a.do(http.MethodGet, "/api/v1/reports/inventory.xlsx", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, report.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "inventario_20240110.xlsx")
	assert.NotZero(t, rec.Body.Len())
}

func TestRouter_ImportDeliveryNote(t *testing.T) {
	a := newAPI(t)
	productID, _ := a.seed()

	rec := a.do(http.MethodPost, "/api/v1/suppliers", map[string]any{"name": "Lácteos del Valle"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	supplierID := decode[idResponse](t, rec).ID

	upload := func(path string, fields map[string]string) *httptest.ResponseRecorder {
		var body bytes.Buffer

		mw := multipart.NewWriter(&body)
		fw, err := mw.CreateFormFile("file", "nota.csv")
		require.NoError(t, err)

		_, err = fw.Write([]byte("Producto;Cantidad;Costo;Vence\nQueso Blanco;6;2,10;01/02/2024\nRequesón;1;3;\n"))
		require.NoError(t, err)

		for k, v := range fields {
			require.NoError(t, mw.WriteField(k, v))
		}

		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, path, &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		rec := httptest.NewRecorder()
		a.handler.ServeHTTP(rec, req)

		return rec
	}

	rec = upload("/api/v1/import/preview", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, decode[struct {
		Unresolved int `json:"unresolved"`
	}](t, rec).Unresolved)

	rec = upload("/api/v1/import/confirm", map[string]string{"supplier_id": supplierID})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	rec = upload("/api/v1/import/confirm", map[string]string{"supplier_id": supplierID, "product[3]": productID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(http.MethodGet, "/api/v1/products/"+productID, nil, "")
	assert.Equal(t, "11", decode[struct {
		Stock string `json:"stock"`
	}](t, rec).Stock)

	rec = a.do(http.MethodGet, "/api/v1/aliases/suggest?name=REQUESON", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, productID, decode[struct {
		ProductID string `json:"product_id"`
	}](t, rec).ProductID)

	rec = upload("/api/v1/import/preview", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Zero(t, decode[struct {
		Unresolved int `json:"unresolved"`
	}](t, rec).Unresolved)
}

func TestRouter_Aliases(t *testing.T) {
	a := newAPI(t)
	productID, _ := a.seed()

	rec := a.do(http.MethodPost, "/api/v1/aliases", map[string]any{"name": "Qso. blanco", "product_id": productID}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "qso. blanco", decode[struct {
		Name string `json:"name"`
	}](t, rec).Name)

	rec = a.do(http.MethodPost, "/api/v1/aliases", map[string]any{"name": "x", "product_id": "6f1c7b1e-0000-4000-8000-000000000000"}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

	rec = a.do(http.MethodPost, "/api/v1/aliases", map[string]any{"product_id": productID}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = a.do(http.MethodGet, "/api/v1/aliases/suggest", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodGet, "/api/v1/aliases", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]struct {
		Name string `json:"name"`
	}](t, rec), 1)
}
