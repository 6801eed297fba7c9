package importcsv

import (
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/granja/internal/http/purchase"
	"github.com/MrJamesThe3rd/granja/internal/http/respond"
	"github.com/MrJamesThe3rd/granja/internal/importer"
)

const maxUpload = 10 << 20

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/preview", h.preview)
	r.Post("/confirm", h.confirm)
}

type lineResponse struct {
	Line        int             `json:"line"`
	Product     string          `json:"product"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	ProductName string          `json:"product_name,omitempty"`
	Candidates  []string        `json:"candidates,omitempty"`
	FromAlias   bool            `json:"from_alias,omitempty"`
}

type previewResponse struct {
	Lines      []lineResponse  `json:"lines"`
	Unresolved int             `json:"unresolved"`
	Total      decimal.Decimal `json:"total"`
}

// confirmForm carries the multipart fields sent next to the file.
type confirmForm struct {
	SupplierID   uuid.UUID         `validate:"required"`
	InvoiceRef   string            `validate:"max=60"`
	Currency     string            `validate:"omitempty,len=3,alpha"`
	ExchangeRate decimal.Decimal   `validate:"gte=0"`
	Overrides    map[int]uuid.UUID `validate:"dive,required"`
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	p, ok := h.parse(w, r)
	if !ok {
		return
	}

	resp := previewResponse{Lines: make([]lineResponse, len(p.Lines)), Unresolved: p.Unresolved, Total: p.Total}
	for i, l := range p.Lines {
		resp.Lines[i] = lineResponse{
			Line:        l.Line,
			Product:     l.Product,
			Quantity:    l.Quantity,
			UnitCost:    l.UnitCost,
			ExpiresAt:   l.ExpiresAt,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Candidates:  l.Candidates,
			FromAlias:   l.FromAlias,
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}

// confirm re-parses the same upload and records it as a purchase. Rows the
// preview could not resolve are assigned with form fields product[<line>].
func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	p, ok := h.parse(w, r)
	if !ok {
		return
	}

	form := confirmForm{
		InvoiceRef: r.FormValue("invoice_ref"),
		Currency:   r.FormValue("currency"),
		Overrides:  make(map[int]uuid.UUID),
	}

	if id, err := uuid.Parse(r.FormValue("supplier_id")); err == nil {
		form.SupplierID = id
	}

	if s := r.FormValue("exchange_rate"); s != "" {
		rate, err := decimal.NewFromString(s)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid exchange_rate")
			return
		}

		form.ExchangeRate = rate
	}

	for key, values := range r.MultipartForm.Value {
		inner, found := strings.CutPrefix(key, "product[")
		if !found || !strings.HasSuffix(inner, "]") || len(values) == 0 {
			continue
		}

		line, err := strconv.Atoi(strings.TrimSuffix(inner, "]"))
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid override "+key)
			return
		}

		id, err := uuid.Parse(values[0])
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid product id for "+key)
			return
		}

		form.Overrides[line] = id
	}

	if !respond.Valid(w, &form) {
		return
	}

	created, err := h.importSvc.Confirm(r.Context(), p, importer.ConfirmParams{
		SupplierID:   form.SupplierID,
		InvoiceRef:   form.InvoiceRef,
		Currency:     form.Currency,
		ExchangeRate: form.ExchangeRate,
		Overrides:    form.Overrides,
	})
	if errors.Is(err, importer.ErrUnresolved) {
		respond.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err != nil {
		respond.Fail(w, err)
		return
	}

	slog.Info("delivery note imported", "purchase_id", created.ID, "lines", len(created.Lines))
	respond.JSON(w, http.StatusCreated, purchase.ToResponse(created))
}

func (h *Handler) parse(w http.ResponseWriter, r *http.Request) (*importer.Preview, bool) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		respond.Error(w, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "file field is required")
		return nil, false
	}
	defer file.Close()

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format = importer.FormatSupplierCSV
		if strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
			format = importer.FormatSupplierXLSX
		}
	}

	p, err := h.importSvc.Preview(r.Context(), format, file)
	if errors.Is(err, importer.ErrInvalidUpload) {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	if err != nil {
		respond.Fail(w, err)
		return nil, false
	}

	return p, true
}
