// Package matching serves the learned supplier aliases used when importing
// delivery notes.
package matching

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/granja/internal/http/respond"
	"github.com/MrJamesThe3rd/granja/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type aliasResponse struct {
	Name      string    `json:"name"`
	ProductID uuid.UUID `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

type suggestResponse struct {
	Name      string     `json:"name"`
	ProductID *uuid.UUID `json:"product_id"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	aliases, err := h.svc.List(r.Context())
	if err != nil {
		respond.Fail(w, err)
		return
	}

	resp := make([]aliasResponse, len(aliases))
	for i, a := range aliases {
		resp[i] = aliasResponse{Name: a.Name, ProductID: a.ProductID, CreatedAt: a.CreatedAt}
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		respond.Error(w, http.StatusBadRequest, "name query parameter is required")
		return
	}

	id, err := h.svc.Suggest(r.Context(), name)
	if err != nil {
		respond.Fail(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, suggestResponse{Name: name, ProductID: id})
}

type learnRequest struct {
	Name      string    `json:"name" validate:"required,max=200"`
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	alias, err := h.svc.Learn(r.Context(), req.Name, req.ProductID)
	if errors.Is(err, matching.ErrEmptyAlias) {
		respond.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err != nil {
		respond.Fail(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, aliasResponse{Name: alias.Name, ProductID: alias.ProductID, CreatedAt: alias.CreatedAt})
}
