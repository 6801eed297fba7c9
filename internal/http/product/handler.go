package product

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

// Routes mounts products under the router and their lots under /{id}/lots.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/lots", h.listLots)
	r.Post("/{id}/lots", h.addLot)
}

// LotRoutes serves the lot listing across all products.
func (h *Handler) LotRoutes(r chi.Router) {
	r.Get("/", h.listAllLots)
}

type createProductRequest struct {
	Name          string           `json:"name" validate:"required,max=120"`
	Category      string           `json:"category" validate:"max=60"`
	Unit          string           `json:"unit" validate:"max=20"`
	InitialCost   *decimal.Decimal `json:"initial_cost,omitempty" validate:"omitempty,gte=0"`
	SalePrice     decimal.Decimal  `json:"sale_price" validate:"gt=0"`
	Stock         decimal.Decimal  `json:"stock" validate:"gte=0"`
	MinStock      decimal.Decimal  `json:"min_stock" validate:"gte=0"`
	ShelfLifeDays *int             `json:"shelf_life_days,omitempty" validate:"omitempty,gt=0"`
	ExpiresAt     *time.Time       `json:"expires_at,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	p, err := h.svc.CreateProduct(r.Context(), inventory.CreateProductParams{
		Name:          req.Name,
		Category:      req.Category,
		Unit:          req.Unit,
		InitialCost:   req.InitialCost,
		SalePrice:     req.SalePrice,
		Stock:         req.Stock,
		MinStock:      req.MinStock,
		ShelfLifeDays: req.ShelfLifeDays,
		ExpiresAt:     req.ExpiresAt,
	})
	if err != nil {
		respond.Fail(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context())
	if err != nil {
		respond.Fail(w, err)
		return
	}

	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toResponse(p)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	p, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		respond.Fail(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

type updateProductRequest struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Category      *string          `json:"category,omitempty" validate:"omitempty,max=60"`
	Unit          *string          `json:"unit,omitempty" validate:"omitempty,max=20"`
	InitialCost   *decimal.Decimal `json:"initial_cost,omitempty" validate:"omitempty,gte=0"`
	SalePrice     *decimal.Decimal `json:"sale_price,omitempty" validate:"omitempty,gt=0"`
	MinStock      *decimal.Decimal `json:"min_stock,omitempty" validate:"omitempty,gte=0"`
	ShelfLifeDays *int             `json:"shelf_life_days,omitempty" validate:"omitempty,gt=0"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req updateProductRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	p, err := h.svc.UpdateProduct(r.Context(), id, inventory.UpdateProductParams{
		Name:          req.Name,
		Category:      req.Category,
		Unit:          req.Unit,
		InitialCost:   req.InitialCost,
		SalePrice:     req.SalePrice,
		MinStock:      req.MinStock,
		ShelfLifeDays: req.ShelfLifeDays,
	})
	if err != nil {
		respond.Fail(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		respond.Fail(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listLots(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	h.writeLots(w, r, inventory.LotFilter{ProductID: &id})
}

func (h *Handler) listAllLots(w http.ResponseWriter, r *http.Request) {
	h.writeLots(w, r, inventory.LotFilter{})
}

func (h *Handler) writeLots(w http.ResponseWriter, r *http.Request, filter inventory.LotFilter) {
	q := r.URL.Query()

	if s := q.Get("status"); s != "" {
		filter.Status = new(inventory.Status(s))
	}

	filter.InStockOnly = q.Get("in_stock") == "true"

	lots, err := h.svc.ListLots(r.Context(), filter)
	if err != nil {
		respond.Fail(w, err)
		return
	}

	today := time.Now()
	resp := make([]lotResponse, len(lots))

	for i, l := range lots {
		resp[i] = toLotResponse(l, today)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type addLotRequest struct {
	Quantity      decimal.Decimal  `json:"quantity" validate:"gt=0"`
	UnitCost      decimal.Decimal  `json:"unit_cost" validate:"gt=0"`
	UnitSalePrice *decimal.Decimal `json:"unit_sale_price,omitempty" validate:"omitempty,gt=0"`
	ReceivedAt    time.Time        `json:"received_at"`
	ExpiresAt     time.Time        `json:"expires_at" validate:"required"`
}

func (h *Handler) addLot(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req addLotRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	lot, err := h.svc.AddLot(r.Context(), inventory.AddLotParams{
		ProductID:     id,
		Quantity:      req.Quantity,
		UnitCost:      req.UnitCost,
		UnitSalePrice: req.UnitSalePrice,
		ReceivedAt:    req.ReceivedAt,
		ExpiresAt:     req.ExpiresAt,
	})
	if err != nil {
		respond.Fail(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toLotResponse(lot, time.Now()))
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}

	return id, true
}
