package sale

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/granja/internal/http/auth"
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
	r.Get("/{id}", h.get)
	r.Post("/{id}/cancel", h.cancel)
}

type lineRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gt=0"`
}

type paymentRequest struct {
	Method       inventory.PaymentMethod `json:"method" validate:"omitempty,oneof=cash card transfer mobile"`
	Currency     string                  `json:"currency" validate:"omitempty,len=3,alpha"`
	ExchangeRate decimal.Decimal         `json:"exchange_rate" validate:"gte=0"`
	AmountPaid   decimal.Decimal         `json:"amount_paid" validate:"gte=0"`
	Bank         string                  `json:"bank"`
	Reference    string                  `json:"reference"`
}

type createSaleRequest struct {
	CustomerID uuid.UUID      `json:"customer_id" validate:"required"`
	Lines      []lineRequest  `json:"lines" validate:"required,min=1,dive"`
	Payment    paymentRequest `json:"payment"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createSaleRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	lines := make([]inventory.SaleLineParams, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = inventory.SaleLineParams{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}

	sale, err := h.svc.RecordSale(r.Context(), inventory.RecordSaleParams{
		CustomerID: req.CustomerID,
		Lines:      lines,
		Payment: inventory.Payment{
			Method:       req.Payment.Method,
			Currency:     req.Payment.Currency,
			ExchangeRate: req.Payment.ExchangeRate,
			AmountPaid:   req.Payment.AmountPaid,
			Bank:         req.Payment.Bank,
			Reference:    req.Payment.Reference,
		},
	})
	if err != nil {
		respond.Fail(w, err)
		return
	}

	slog.Info("sale recorded", "sale_id", sale.ID, "number", sale.Number, "total_base", sale.TotalBase.String())
	respond.JSON(w, http.StatusCreated, toResponse(sale))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := inventory.SaleFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(inventory.SaleStatus(s))
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = new(t)
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = new(t)
		}
	}

	sales, err := h.svc.ListSales(r.Context(), filter)
	if err != nil {
		respond.Fail(w, err)
		return
	}

	resp := make([]saleResponse, len(sales))
	for i, s := range sales {
		resp[i] = toResponse(s)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	sale, err := h.svc.GetSale(r.Context(), id)
	if err != nil {
		respond.Fail(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(sale))
}

// cancel requires a manager or admin token.
func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	sale, err := h.svc.CancelSale(r.Context(), id, auth.RoleFrom(r.Context()))
	if err != nil {
		respond.Fail(w, err)
		return
	}

	slog.Info("sale cancelled", "sale_id", sale.ID, "number", sale.Number)
	respond.JSON(w, http.StatusOK, toResponse(sale))
}
