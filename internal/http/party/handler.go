// Package party serves the customers and suppliers a sale or purchase
// refers to.
package party

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/granja/internal/http/respond"
	"github.com/MrJamesThe3rd/granja/internal/inventory"
)

type Handler struct {
	svc *inventory.Service
}

func NewHandler(svc *inventory.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) CustomerRoutes(r chi.Router) {
	r.Post("/", h.createCustomer)
	r.Get("/", h.listCustomers)
}

func (h *Handler) SupplierRoutes(r chi.Router) {
	r.Post("/", h.createSupplier)
	r.Get("/", h.listSuppliers)
}

type customerRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Document string `json:"document" validate:"max=30"`
	Phone    string `json:"phone" validate:"max=30"`
}

type customerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	c, err := h.svc.CreateCustomer(r.Context(), inventory.CreateCustomerParams{
		Name:     req.Name,
		Document: req.Document,
		Phone:    req.Phone,
	})
	if err != nil {
		respond.Fail(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toCustomer(c))
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.ListCustomers(r.Context())
	if err != nil {
		respond.Fail(w, err)
		return
	}

	resp := make([]customerResponse, len(customers))
	for i, c := range customers {
		resp[i] = toCustomer(c)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type supplierRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Contact string `json:"contact" validate:"max=120"`
	Phone   string `json:"phone" validate:"max=30"`
}

type supplierResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	s, err := h.svc.CreateSupplier(r.Context(), inventory.CreateSupplierParams{
		Name:    req.Name,
		Contact: req.Contact,
		Phone:   req.Phone,
	})
	if err != nil {
		respond.Fail(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toSupplier(s))
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.svc.ListSuppliers(r.Context())
	if err != nil {
		respond.Fail(w, err)
		return
	}

	resp := make([]supplierResponse, len(suppliers))
	for i, s := range suppliers {
		resp[i] = toSupplier(s)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func toCustomer(c *inventory.Customer) customerResponse {
	return customerResponse{ID: c.ID, Name: c.Name, Document: c.Document, Phone: c.Phone, CreatedAt: c.CreatedAt}
}

func toSupplier(s *inventory.Supplier) supplierResponse {
	return supplierResponse{ID: s.ID, Name: s.Name, Contact: s.Contact, Phone: s.Phone, CreatedAt: s.CreatedAt}
}
