package cash

import (
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
	r.Get("/", h.list)
	r.Get("/balance", h.balance)
	r.Post("/expenses", h.expense)
	r.Post("/adjustments", h.adjustment)
}

type transactionResponse struct {
	ID        uuid.UUID          `json:"id"`
	Type      inventory.CashType `json:"type"`
	Concept   string             `json:"concept"`
	RefID     *uuid.UUID         `json:"ref_id,omitempty"`
	Inflow    decimal.Decimal    `json:"inflow"`
	Outflow   decimal.Decimal    `json:"outflow"`
	Balance   decimal.Decimal    `json:"balance"`
	CreatedAt time.Time          `json:"created_at"`
}

type balanceResponse struct {
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := inventory.CashFilter{}

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

	rows, err := h.svc.ListCashTransactions(r.Context(), filter)
	if err != nil {
		respond.Fail(w, err)
		return
	}

	resp := make([]transactionResponse, len(rows))
	for i, row := range rows {
		resp[i] = toResponse(row)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.svc.CurrentBalance(r.Context())
	if err != nil {
		respond.Fail(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, balanceResponse{Balance: balance, Currency: h.svc.Config().BaseCurrency})
}

type expenseRequest struct {
	Category     string          `json:"category" validate:"max=60"`
	Description  string          `json:"description" validate:"required,max=200"`
	Amount       decimal.Decimal `json:"amount" validate:"gt=0"`
	Currency     string          `json:"currency" validate:"omitempty,len=3,alpha"`
	ExchangeRate decimal.Decimal `json:"exchange_rate" validate:"gte=0"`
}

func (h *Handler) expense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	row, err := h.svc.RecordExpense(r.Context(), inventory.RecordExpenseParams{
		Category:     req.Category,
		Description:  req.Description,
		Amount:       req.Amount,
		Currency:     req.Currency,
		ExchangeRate: req.ExchangeRate,
	})
	if err != nil {
		respond.Fail(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(row))
}

type adjustmentRequest struct {
	Inflow  decimal.Decimal `json:"inflow" validate:"gte=0"`
	Outflow decimal.Decimal `json:"outflow" validate:"gte=0"`
	Concept string          `json:"concept" validate:"required,max=200"`
}

func (h *Handler) adjustment(w http.ResponseWriter, r *http.Request) {
	var req adjustmentRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	row, err := h.svc.RecordAdjustment(r.Context(), inventory.RecordAdjustmentParams{
		Inflow:  req.Inflow,
		Outflow: req.Outflow,
		Concept: req.Concept,
	})
	if err != nil {
		respond.Fail(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(row))
}

func toResponse(c *inventory.CashTransaction) transactionResponse {
	return transactionResponse{
		ID:        c.ID,
		Type:      c.Type,
		Concept:   c.Concept,
		RefID:     c.RefID,
		Inflow:    c.Inflow,
		Outflow:   c.Outflow,
		Balance:   c.Balance,
		CreatedAt: c.CreatedAt,
	}
}
