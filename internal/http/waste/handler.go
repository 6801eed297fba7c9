package waste

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

type createWasteRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	LotID     *uuid.UUID      `json:"lot_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity" validate:"gt=0"`
	Reason    string          `json:"reason" validate:"required,max=200"`
}

type wasteResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	LotID        *uuid.UUID      `json:"lot_id,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Cost         decimal.Decimal `json:"cost"`
	Reason       string          `json:"reason"`
	Unreconciled bool            `json:"unreconciled"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createWasteRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	waste, err := h.svc.RecordWaste(r.Context(), inventory.RecordWasteParams{
		ProductID: req.ProductID,
		LotID:     req.LotID,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
	})
	if err != nil {
		respond.Fail(w, err)
		return
	}

	if waste.Unreconciled() {
		slog.Warn("waste recorded without lot", "waste_id", waste.ID, "product_id", waste.ProductID)
	}

	respond.JSON(w, http.StatusCreated, toResponse(waste))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListWaste(r.Context())
	if err != nil {
		respond.Fail(w, err)
		return
	}

	resp := make([]wasteResponse, len(entries))
	for i, e := range entries {
		resp[i] = toResponse(e)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func toResponse(w *inventory.Waste) wasteResponse {
	return wasteResponse{
		ID:           w.ID,
		ProductID:    w.ProductID,
		LotID:        w.LotID,
		Quantity:     w.Quantity,
		UnitCost:     w.UnitCost,
		Cost:         w.Cost,
		Reason:       w.Reason,
		Unreconciled: w.Unreconciled(),
		CreatedAt:    w.CreatedAt,
	}
}
