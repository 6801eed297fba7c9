package purchase

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/granja/internal/http/respond"
	"github.com/MrJamesThe3rd/granja/internal/inventory"
)

type Handler struct {
	svc *inventory.Service
}

func NewHandler(svc *inventory.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
}

type lineRequest struct {
	ProductID     uuid.UUID        `json:"product_id" validate:"required"`
	Quantity      decimal.Decimal  `json:"quantity" validate:"gt=0"`
	UnitPrice     decimal.Decimal  `json:"unit_price" validate:"gt=0"`
	UnitSalePrice *decimal.Decimal `json:"unit_sale_price,omitempty" validate:"omitempty,gt=0"`
	ExpiresAt     *time.Time       `json:"expires_at,omitempty"`
}

type createPurchaseRequest struct {
	SupplierID   uuid.UUID       `json:"supplier_id" validate:"required"`
	InvoiceRef   string          `json:"invoice_ref" validate:"max=60"`
	Currency     string          `json:"currency" validate:"omitempty,len=3,alpha"`
	ExchangeRate decimal.Decimal `json:"exchange_rate" validate:"gte=0"`
	Lines        []lineRequest   `json:"lines" validate:"required,min=1,dive"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createPurchaseRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	lines := make([]inventory.PurchaseLineParams, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = inventory.PurchaseLineParams{
			ProductID:     l.ProductID,
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice,
			UnitSalePrice: l.UnitSalePrice,
			ExpiresAt:     l.ExpiresAt,
		}
	}

	p, err := h.svc.RecordPurchase(r.Context(), inventory.RecordPurchaseParams{
		SupplierID:   req.SupplierID,
		Lines:        lines,
		InvoiceRef:   req.InvoiceRef,
		Currency:     req.Currency,
		ExchangeRate: req.ExchangeRate,
	})
	if err != nil {
		respond.Fail(w, err)
		return
	}

	slog.Info("purchase recorded", "purchase_id", p.ID, "number", p.Number, "lines", len(p.Lines))
	respond.JSON(w, http.StatusCreated, ToResponse(p))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.svc.ListPurchases(r.Context())
	if err != nil {
		respond.Fail(w, err)
		return
	}

	resp := make([]Response, len(purchases))
	for i, p := range purchases {
		resp[i] = ToResponse(p)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type lineResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	LotID     uuid.UUID       `json:"lot_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Response is the JSON form of a purchase, shared with the import handler.
type Response struct {
	ID           uuid.UUID       `json:"id"`
	Number       string          `json:"number"`
	SupplierID   uuid.UUID       `json:"supplier_id"`
	InvoiceRef   string          `json:"invoice_ref,omitempty"`
	Currency     string          `json:"currency"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	Total        decimal.Decimal `json:"total"`
	TotalBase    decimal.Decimal `json:"total_base"`
	Lines        []lineResponse  `json:"lines"`
	CreatedAt    time.Time       `json:"created_at"`
}

func ToResponse(p *inventory.Purchase) Response {
	resp := Response{
		ID:           p.ID,
		Number:       p.Number,
		SupplierID:   p.SupplierID,
		InvoiceRef:   p.InvoiceRef,
		Currency:     p.Currency,
		ExchangeRate: p.ExchangeRate,
		Total:        p.Total,
		TotalBase:    p.TotalBase,
		Lines:        make([]lineResponse, len(p.Lines)),
		CreatedAt:    p.CreatedAt,
	}

	for i, l := range p.Lines {
		resp.Lines[i] = lineResponse{
			ProductID: l.ProductID,
			LotID:     l.LotID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		}
	}

	return resp
}
