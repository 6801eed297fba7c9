package alert

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
	now func() time.Time
}

func NewHandler(svc *inventory.Service, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}

	return &Handler{svc: svc, now: now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/{id}/read", h.markRead)
}

// JobRoutes exposes the maintenance jobs.
func (h *Handler) JobRoutes(r chi.Router) {
	r.Post("/sweep-expiry", h.sweep)
	r.Post("/sync-lots", h.sync)
}

type alertResponse struct {
	ID        uuid.UUID           `json:"id"`
	Kind      inventory.AlertKind `json:"kind"`
	Priority  inventory.Priority  `json:"priority"`
	ProductID *uuid.UUID          `json:"product_id,omitempty"`
	LotID     *uuid.UUID          `json:"lot_id,omitempty"`
	Message   string              `json:"message"`
	Read      bool                `json:"read"`
	CreatedAt time.Time           `json:"created_at"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.svc.ListAlerts(r.Context(), r.URL.Query().Get("unread") == "true")
	if err != nil {
		respond.Fail(w, err)
		return
	}

	resp := make([]alertResponse, len(alerts))
	for i, a := range alerts {
		resp[i] = toResponse(a)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.MarkAlertRead(r.Context(), id); err != nil {
		respond.Fail(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type sweepResponse struct {
	Checked     int             `json:"checked"`
	Transitions int             `json:"transitions"`
	Alerts      []alertResponse `json:"alerts"`
}

func (h *Handler) sweep(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.SweepExpiry(r.Context(), h.now())
	if err != nil {
		respond.Fail(w, err)
		return
	}

	slog.Info("expiry sweep", "checked", res.Checked, "transitions", res.Transitions, "alerts", len(res.Alerts))

	resp := sweepResponse{Checked: res.Checked, Transitions: res.Transitions, Alerts: make([]alertResponse, len(res.Alerts))}
	for i, a := range res.Alerts {
		resp.Alerts[i] = toResponse(a)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type driftResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Stock       decimal.Decimal `json:"stock"`
	LotTotal    decimal.Decimal `json:"lot_total"`
	LotID       *uuid.UUID      `json:"lot_id,omitempty"`
}

type syncResponse struct {
	Checked   int             `json:"checked"`
	Repaired  []driftResponse `json:"repaired"`
	Surpluses []driftResponse `json:"surpluses"`
}

func (h *Handler) sync(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.SyncLots(r.Context())
	if err != nil {
		respond.Fail(w, err)
		return
	}

	slog.Info("lot sync", "checked", res.Checked, "repaired", len(res.Repaired), "surpluses", len(res.Surpluses))

	respond.JSON(w, http.StatusOK, syncResponse{
		Checked:   res.Checked,
		Repaired:  toDrifts(res.Repaired),
		Surpluses: toDrifts(res.Surpluses),
	})
}

func toDrifts(ds []inventory.Drift) []driftResponse {
	out := make([]driftResponse, len(ds))

	for i, d := range ds {
		out[i] = driftResponse{
			ProductID:   d.ProductID,
			ProductName: d.ProductName,
			Stock:       d.Stock,
			LotTotal:    d.LotTotal,
		}

		if d.Lot != nil {
			out[i].LotID = &d.Lot.ID
		}
	}

	return out
}

func toResponse(a *inventory.Alert) alertResponse {
	return alertResponse{
		ID:        a.ID,
		Kind:      a.Kind,
		Priority:  a.Priority,
		ProductID: a.ProductID,
		LotID:     a.LotID,
		Message:   a.Message,
		Read:      a.Read,
		CreatedAt: a.CreatedAt,
	}
}
