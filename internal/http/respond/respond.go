// Package respond holds the JSON plumbing shared by the HTTP handlers:
// decoding with validation, encoding, and mapping ledger errors to status
// codes.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/granja/internal/inventory"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Decimals are validated as numbers, so gt=0 and gte=0 work on them.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d, ok := field.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}

		return d.InexactFloat64()
	}, decimal.Decimal{})

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

type errorResponse struct {
	Error     string            `json:"error"`
	Fields    map[string]string `json:"fields,omitempty"`
	ProductID *uuid.UUID        `json:"product_id,omitempty"`
	Available *decimal.Decimal  `json:"available,omitempty"`
	Requested *decimal.Decimal  `json:"requested,omitempty"`
}

// Decode reads a JSON body into dst and validates it. On failure the 400
// response has already been written and false is returned.
func Decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		JSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}

	return Valid(w, dst)
}

// Valid validates dst, writing a 400 with the failing fields when it is not.
func Valid(w http.ResponseWriter, dst any) bool {
	err := validate.Struct(dst)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		JSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return false
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Namespace()] = fe.Tag()
	}

	JSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: fields})

	return false
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Fail writes the status matching err. Errors the ledger does not name are
// logged and reported as 500 without detail.
func Fail(w http.ResponseWriter, err error) {
	var insufficient *inventory.InsufficientStockError
	if errors.As(err, &insufficient) {
		JSON(w, http.StatusConflict, errorResponse{
			Error:     insufficient.Error(),
			ProductID: &insufficient.ProductID,
			Available: &insufficient.Available,
			Requested: &insufficient.Requested,
		})

		return
	}

	status := Status(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		JSON(w, status, errorResponse{Error: "internal error"})

		return
	}

	JSON(w, status, errorResponse{Error: err.Error()})
}

// Status maps a ledger error to an HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, inventory.ErrInsufficientStock),
		errors.Is(err, inventory.ErrAlreadyCancelled),
		errors.Is(err, inventory.ErrProductInUse),
		errors.Is(err, inventory.ErrConcurrentUpdate):
		return http.StatusConflict
	case errors.Is(err, inventory.ErrInvalidQuantity),
		errors.Is(err, inventory.ErrInvalidPrice),
		errors.Is(err, inventory.ErrInvalidRate),
		errors.Is(err, inventory.ErrInvalidInput),
		errors.Is(err, inventory.ErrEmptySale):
		return http.StatusUnprocessableEntity
	case errors.Is(err, inventory.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, inventory.ErrJobInProgress):
		return http.StatusLocked
	}

	return http.StatusInternalServerError
}

// Error writes a plain message with the given status.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorResponse{Error: msg})
}
