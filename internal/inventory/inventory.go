package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a lot, derived from its expiry date.
type Status string

const (
	StatusActive     Status = "active"
	StatusNearExpiry Status = "near_expiry"
	StatusExpired    Status = "expired"
)

// SaleStatus represents the lifecycle state of a sale.
type SaleStatus string

const (
	SaleCompleted SaleStatus = "completada"
	SaleCancelled SaleStatus = "cancelada"
)

// CashType classifies a row of the cash ledger.
type CashType string

const (
	CashSale         CashType = "sale"
	CashSaleReversal CashType = "sale_cancellation"
	CashPurchase     CashType = "purchase"
	CashExpense      CashType = "expense"
	CashAdjustment   CashType = "adjustment"
)

// AlertKind identifies what triggered an alert.
type AlertKind string

const (
	AlertNearExpiry AlertKind = "near_expiry"
	AlertExpired    AlertKind = "expired"
	AlertNoLots     AlertKind = "no_lots"
	AlertLowStock   AlertKind = "low_stock"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentMobile   PaymentMethod = "mobile"
)

// Role is the capability presented by the caller for restricted operations.
type Role string

const (
	RoleCashier Role = "cashier"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// CanCancelSales reports whether the role may cancel completed sales.
func (r Role) CanCancelSales() bool {
	return r == RoleAdmin || r == RoleManager
}

// Product is a catalogue entry. Stock is the denormalized sum of the
// remaining quantity of all its lots.
type Product struct {
	ID            uuid.UUID
	Name          string
	Category      string
	Unit          string
	InitialCost   *decimal.Decimal
	SalePrice     decimal.Decimal
	Stock         decimal.Decimal
	MinStock      decimal.Decimal
	ShelfLifeDays *int
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
}

// Lot is a discrete received quantity of one product.
type Lot struct {
	ID            uuid.UUID
	ProductID     uuid.UUID
	Number        string
	Quantity      decimal.Decimal
	Remaining     decimal.Decimal
	UnitCost      decimal.Decimal
	UnitSalePrice decimal.Decimal
	ReceivedAt    time.Time
	ExpiresAt     time.Time
	Status        Status
	Seq           int64 // creation order, assigned by the store
	CreatedAt     time.Time
}

type Customer struct {
	ID        uuid.UUID
	Name      string
	Document  string
	Phone     string
	CreatedAt time.Time
}

type Supplier struct {
	ID        uuid.UUID
	Name      string
	Contact   string
	Phone     string
	CreatedAt time.Time
}

// Payment holds how a sale was paid. ExchangeRate is the number of
// base-currency units per one unit of Currency.
type Payment struct {
	Method       PaymentMethod
	Currency     string
	ExchangeRate decimal.Decimal
	AmountPaid   decimal.Decimal
	Bank         string
	Reference    string
}

// Sale is a completed or cancelled sale. Total, TotalBase and Profit are
// frozen when the sale is recorded.
type Sale struct {
	ID          uuid.UUID
	Number      string
	CustomerID  uuid.UUID
	Lines       []SaleLine
	Total       decimal.Decimal // sale currency
	TotalBase   decimal.Decimal
	Profit      decimal.Decimal // base currency
	Status      SaleStatus
	Payment     Payment
	CreatedAt   time.Time
	CancelledAt *time.Time
}

type SaleLine struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
	Cost        decimal.Decimal
	Profit      decimal.Decimal
	Allocations []Allocation
}

// Allocation is the share of a quantity drawn from one lot.
type Allocation struct {
	LotID     uuid.UUID
	LotNumber string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
}

type Purchase struct {
	ID           uuid.UUID
	Number       string
	SupplierID   uuid.UUID
	InvoiceRef   string
	Currency     string
	ExchangeRate decimal.Decimal
	Total        decimal.Decimal
	TotalBase    decimal.Decimal
	Lines        []PurchaseLine
	CreatedAt    time.Time
}

type PurchaseLine struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	LotID     uuid.UUID
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// Waste is a loss of stock. It is reported separately and never posted to
// the cash ledger.
type Waste struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	LotID     *uuid.UUID
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	Cost      decimal.Decimal
	Reason    string
	CreatedAt time.Time
}

// Unreconciled reports whether the waste left the product stock out of step
// with its lots.
func (w *Waste) Unreconciled() bool {
	return w.LotID == nil
}

// CashTransaction is an immutable row of the cash ledger.
type CashTransaction struct {
	ID        uuid.UUID
	Seq       int64
	Type      CashType
	Concept   string
	RefID     *uuid.UUID
	Inflow    decimal.Decimal
	Outflow   decimal.Decimal
	Balance   decimal.Decimal
	CreatedAt time.Time
}

type Alert struct {
	ID        uuid.UUID
	Kind      AlertKind
	Priority  Priority
	ProductID *uuid.UUID
	LotID     *uuid.UUID
	Message   string
	Read      bool
	CreatedAt time.Time
}
