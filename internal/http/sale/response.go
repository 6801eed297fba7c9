package sale

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/granja/internal/inventory"
)

type allocationResponse struct {
	LotID     uuid.UUID       `json:"lot_id"`
	LotNumber string          `json:"lot_number"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

type lineResponse struct {
	ProductID   uuid.UUID            `json:"product_id"`
	ProductName string               `json:"product_name"`
	Quantity    decimal.Decimal      `json:"quantity"`
	UnitPrice   decimal.Decimal      `json:"unit_price"`
	Subtotal    decimal.Decimal      `json:"subtotal"`
	Cost        decimal.Decimal      `json:"cost"`
	Profit      decimal.Decimal      `json:"profit"`
	Allocations []allocationResponse `json:"allocations"`
}

type paymentResponse struct {
	Method       inventory.PaymentMethod `json:"method"`
	Currency     string                  `json:"currency"`
	ExchangeRate decimal.Decimal         `json:"exchange_rate"`
	AmountPaid   decimal.Decimal         `json:"amount_paid"`
	Bank         string                  `json:"bank,omitempty"`
	Reference    string                  `json:"reference,omitempty"`
}

type saleResponse struct {
	ID          uuid.UUID            `json:"id"`
	Number      string               `json:"number"`
	CustomerID  uuid.UUID            `json:"customer_id"`
	Status      inventory.SaleStatus `json:"status"`
	Total       decimal.Decimal      `json:"total"`
	TotalBase   decimal.Decimal      `json:"total_base"`
	Profit      decimal.Decimal      `json:"profit"`
	Payment     paymentResponse      `json:"payment"`
	Lines       []lineResponse       `json:"lines"`
	CreatedAt   time.Time            `json:"created_at"`
	CancelledAt *time.Time           `json:"cancelled_at,omitempty"`
}

func toResponse(s *inventory.Sale) saleResponse {
	resp := saleResponse{
		ID:         s.ID,
		Number:     s.Number,
		CustomerID: s.CustomerID,
		Status:     s.Status,
		Total:      s.Total,
		TotalBase:  s.TotalBase,
		Profit:     s.Profit,
		Payment: paymentResponse{
			Method:       s.Payment.Method,
			Currency:     s.Payment.Currency,
			ExchangeRate: s.Payment.ExchangeRate,
			AmountPaid:   s.Payment.AmountPaid,
			Bank:         s.Payment.Bank,
			Reference:    s.Payment.Reference,
		},
		Lines:       make([]lineResponse, len(s.Lines)),
		CreatedAt:   s.CreatedAt,
		CancelledAt: s.CancelledAt,
	}

	for i, l := range s.Lines {
		line := lineResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
			Cost:        l.Cost,
			Profit:      l.Profit,
			Allocations: make([]allocationResponse, len(l.Allocations)),
		}

		for j, a := range l.Allocations {
			line.Allocations[j] = allocationResponse{
				LotID:     a.LotID,
				LotNumber: a.LotNumber,
				Quantity:  a.Quantity,
				UnitCost:  a.UnitCost,
			}
		}

		resp.Lines[i] = line
	}

	return resp
}
