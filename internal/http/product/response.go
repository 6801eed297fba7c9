package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/granja/internal/inventory"
)

type productResponse struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Category      string           `json:"category,omitempty"`
	Unit          string           `json:"unit,omitempty"`
	InitialCost   *decimal.Decimal `json:"initial_cost,omitempty"`
	SalePrice     decimal.Decimal  `json:"sale_price"`
	Stock         decimal.Decimal  `json:"stock"`
	MinStock      decimal.Decimal  `json:"min_stock"`
	ShelfLifeDays *int             `json:"shelf_life_days,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     *time.Time       `json:"updated_at,omitempty"`
}

type lotResponse struct {
	ID            uuid.UUID        `json:"id"`
	ProductID     uuid.UUID        `json:"product_id"`
	Number        string           `json:"number"`
	Quantity      decimal.Decimal  `json:"quantity"`
	Remaining     decimal.Decimal  `json:"remaining"`
	UnitCost      decimal.Decimal  `json:"unit_cost"`
	UnitSalePrice decimal.Decimal  `json:"unit_sale_price"`
	ReceivedAt    time.Time        `json:"received_at"`
	ExpiresAt     time.Time        `json:"expires_at"`
	Status        inventory.Status `json:"status"`
	DaysRemaining int              `json:"days_remaining"`
}

func toResponse(p *inventory.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Name:          p.Name,
		Category:      p.Category,
		Unit:          p.Unit,
		InitialCost:   p.InitialCost,
		SalePrice:     p.SalePrice,
		Stock:         p.Stock,
		MinStock:      p.MinStock,
		ShelfLifeDays: p.ShelfLifeDays,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// toLotResponse reports the stored status; DaysRemaining is computed for today.
func toLotResponse(l *inventory.Lot, today time.Time) lotResponse {
	return lotResponse{
		ID:            l.ID,
		ProductID:     l.ProductID,
		Number:        l.Number,
		Quantity:      l.Quantity,
		Remaining:     l.Remaining,
		UnitCost:      l.UnitCost,
		UnitSalePrice: l.UnitSalePrice,
		ReceivedAt:    l.ReceivedAt,
		ExpiresAt:     l.ExpiresAt,
		Status:        l.Status,
		DaysRemaining: inventory.DaysRemaining(l.ExpiresAt, today),
	}
}
