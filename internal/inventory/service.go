package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=inventory
type Repository interface {
	BeginLedger(ctx context.Context) (LedgerTx, error)

	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	ListProducts(ctx context.Context) ([]*Product, error)
	ListLots(ctx context.Context, filter LotFilter) ([]*Lot, error)
	GetSale(ctx context.Context, id uuid.UUID) (*Sale, error)
	ListSales(ctx context.Context, filter SaleFilter) ([]*Sale, error)
	ListPurchases(ctx context.Context) ([]*Purchase, error)
	ListWaste(ctx context.Context) ([]*Waste, error)
	ListCashTransactions(ctx context.Context, filter CashFilter) ([]*CashTransaction, error)
	LastCashTransaction(ctx context.Context) (*CashTransaction, error)
	ListAlerts(ctx context.Context, unreadOnly bool) ([]*Alert, error)
	MarkAlertRead(ctx context.Context, id uuid.UUID) error

	CreateCustomer(ctx context.Context, c *Customer) error
	ListCustomers(ctx context.Context) ([]*Customer, error)
	CreateSupplier(ctx context.Context, s *Supplier) error
	ListSuppliers(ctx context.Context) ([]*Supplier, error)
}

// LedgerTx is one atomic unit of work. Reads of products, lots and sales lock
// the rows they return until Commit or Rollback. LastCashTransaction
// serialises cash appends.
type LedgerTx interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	ListProducts(ctx context.Context) ([]*Product, error)
	CreateProduct(ctx context.Context, p *Product) error
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID, at time.Time) error
	AdjustProductStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
	CountSaleLines(ctx context.Context, productID uuid.UUID) (int, error)

	ListProductLots(ctx context.Context, productID uuid.UUID) ([]*Lot, error)
	ListStockedLots(ctx context.Context) ([]*Lot, error)
	GetLot(ctx context.Context, id uuid.UUID) (*Lot, error)
	CreateLot(ctx context.Context, l *Lot) error
	DecrementLot(ctx context.Context, id uuid.UUID, qty decimal.Decimal) error
	// IncrementLot adds qty to a lot's remaining stock, raising its quantity
	// when remaining would exceed it.
	IncrementLot(ctx context.Context, id uuid.UUID, qty decimal.Decimal) error
	UpdateLotStatus(ctx context.Context, id uuid.UUID, from, to Status) (bool, error)

	GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error)
	GetSupplier(ctx context.Context, id uuid.UUID) (*Supplier, error)

	CreateSale(ctx context.Context, s *Sale) error
	GetSale(ctx context.Context, id uuid.UUID) (*Sale, error)
	MarkSaleCancelled(ctx context.Context, id uuid.UUID, at time.Time) error
	CreatePurchase(ctx context.Context, p *Purchase) error
	CreateWaste(ctx context.Context, w *Waste) error
	CreateAlert(ctx context.Context, a *Alert) error
	LatestAlert(ctx context.Context, productID uuid.UUID, kind AlertKind) (*Alert, error)

	LastCashTransaction(ctx context.Context) (*CashTransaction, error)
	AppendCash(ctx context.Context, tx *CashTransaction) error

	Commit() error
	Rollback() error
}

// Locker guards batch jobs so only one runner executes them at a time.
type Locker interface {
	TryLock(ctx context.Context, key string) (unlock func(), ok bool, err error)
}

type nopLocker struct{}

func (nopLocker) TryLock(context.Context, string) (func(), bool, error) {
	return func() {}, true, nil
}

// Config tunes the ledger rules.
type Config struct {
	BaseCurrency         string
	NearExpiryDays       int
	DefaultMarkup        decimal.Decimal
	DefaultShelfLifeDays int
	// ExactRestore makes CancelSale reverse the persisted allocation instead
	// of crediting the most recently received lot.
	ExactRestore bool
}

func DefaultConfig() Config {
	return Config{
		BaseCurrency:         "USD",
		NearExpiryDays:       DefaultNearExpiryDays,
		DefaultMarkup:        decimal.RequireFromString("1.3"),
		DefaultShelfLifeDays: 365,
	}
}

type Option func(*Service)

func WithConfig(cfg Config) Option {
	return func(s *Service) { s.cfg = cfg }
}

// WithClock injects the time source used for expiry and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLocker(l Locker) Option {
	return func(s *Service) { s.locker = l }
}

type Service struct {
	repo   Repository
	cfg    Config
	now    func() time.Time
	locker Locker
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		cfg:    DefaultConfig(),
		now:    time.Now,
		locker: nopLocker{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) Config() Config {
	return s.cfg
}

type LotFilter struct {
	ProductID   *uuid.UUID
	Status      *Status
	InStockOnly bool
}

type SaleFilter struct {
	Status    *SaleStatus
	StartDate *time.Time
	EndDate   *time.Time
}

type CashFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// inLedger runs fn inside one ledger transaction and commits when fn succeeds.
func (s *Service) inLedger(ctx context.Context, fn func(tx LedgerTx) error) error {
	tx, err := s.repo.BeginLedger(ctx)
	if err != nil {
		return fmt.Errorf("begin ledger: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger: %w", err)
	}

	return nil
}

type CreateProductParams struct {
	Name          string
	Category      string
	Unit          string
	InitialCost   *decimal.Decimal
	SalePrice     decimal.Decimal
	Stock         decimal.Decimal
	MinStock      decimal.Decimal
	ShelfLifeDays *int
	// ExpiresAt applies to the initial lot; defaults to the shelf life.
	ExpiresAt *time.Time
}

// CreateProduct adds a product and, when it starts with stock, seeds one
// initial lot holding that stock.
func (s *Service) CreateProduct(ctx context.Context, params CreateProductParams) (*Product, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrInvalidInput)
	}

	if !positiveAtScale(params.SalePrice) {
		return nil, ErrInvalidPrice
	}

	if params.InitialCost != nil && params.InitialCost.IsNegative() {
		return nil, ErrInvalidPrice
	}

	if params.Stock.IsNegative() || params.MinStock.IsNegative() {
		return nil, ErrInvalidQuantity
	}

	if !params.Stock.Equal(params.Stock.Round(scale)) {
		return nil, ErrInvalidQuantity
	}

	now := s.now()
	p := &Product{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(params.Name),
		Category:      params.Category,
		Unit:          params.Unit,
		InitialCost:   params.InitialCost,
		SalePrice:     params.SalePrice,
		Stock:         params.Stock,
		MinStock:      params.MinStock,
		ShelfLifeDays: params.ShelfLifeDays,
		CreatedAt:     now,
	}

	err := s.inLedger(ctx, func(tx LedgerTx) error {
		if err := tx.CreateProduct(ctx, p); err != nil {
			return err
		}

		if !p.Stock.IsPositive() {
			return nil
		}

		cost := p.SalePrice
		if p.InitialCost != nil && p.InitialCost.IsPositive() {
			cost = *p.InitialCost
		}

		expiresAt := s.defaultExpiry(p, now)
		if params.ExpiresAt != nil {
			expiresAt = *params.ExpiresAt
		}

		return tx.CreateLot(ctx, s.newLot(p.ID, p.Stock, cost, p.SalePrice, now, expiresAt))
	})
	if err != nil {
		return nil, err
	}

	return p, nil
}

type UpdateProductParams struct {
	Name          *string
	Category      *string
	Unit          *string
	InitialCost   *decimal.Decimal
	SalePrice     *decimal.Decimal
	MinStock      *decimal.Decimal
	ShelfLifeDays *int
}

// UpdateProduct changes catalogue fields. A new sale price applies to future
// sales only; stock is owned by the ledger operations.
func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) (*Product, error) {
	if params.SalePrice != nil && !positiveAtScale(*params.SalePrice) {
		return nil, ErrInvalidPrice
	}

	if params.InitialCost != nil && params.InitialCost.IsNegative() {
		return nil, ErrInvalidPrice
	}

	if params.MinStock != nil && params.MinStock.IsNegative() {
		return nil, ErrInvalidQuantity
	}

	if params.Name != nil && strings.TrimSpace(*params.Name) == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrInvalidInput)
	}

	var updated *Product

	err := s.inLedger(ctx, func(tx LedgerTx) error {
		p, err := tx.GetProduct(ctx, id)
		if err != nil {
			return err
		}

		if params.Name != nil {
			p.Name = strings.TrimSpace(*params.Name)
		}

		if params.Category != nil {
			p.Category = *params.Category
		}

		if params.Unit != nil {
			p.Unit = *params.Unit
		}

		if params.InitialCost != nil {
			p.InitialCost = params.InitialCost
		}

		if params.SalePrice != nil {
			p.SalePrice = *params.SalePrice
		}

		if params.MinStock != nil {
			p.MinStock = *params.MinStock
		}

		if params.ShelfLifeDays != nil {
			p.ShelfLifeDays = params.ShelfLifeDays
		}

		now := s.now()
		p.UpdatedAt = &now

		if err := tx.UpdateProduct(ctx, p); err != nil {
			return err
		}

		updated = p

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteProduct removes a product that has never been sold.
func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.inLedger(ctx, func(tx LedgerTx) error {
		if _, err := tx.GetProduct(ctx, id); err != nil {
			return err
		}

		n, err := tx.CountSaleLines(ctx, id)
		if err != nil {
			return err
		}

		if n > 0 {
			return ErrProductInUse
		}

		return tx.DeleteProduct(ctx, id, s.now())
	})
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context) ([]*Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) ListLots(ctx context.Context, filter LotFilter) ([]*Lot, error) {
	return s.repo.ListLots(ctx, filter)
}

func (s *Service) GetSale(ctx context.Context, id uuid.UUID) (*Sale, error) {
	return s.repo.GetSale(ctx, id)
}

func (s *Service) ListSales(ctx context.Context, filter SaleFilter) ([]*Sale, error) {
	return s.repo.ListSales(ctx, filter)
}

func (s *Service) ListPurchases(ctx context.Context) ([]*Purchase, error) {
	return s.repo.ListPurchases(ctx)
}

func (s *Service) ListWaste(ctx context.Context) ([]*Waste, error) {
	return s.repo.ListWaste(ctx)
}

type CreateCustomerParams struct {
	Name     string
	Document string
	Phone    string
}

func (s *Service) CreateCustomer(ctx context.Context, params CreateCustomerParams) (*Customer, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}

	c := &Customer{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(params.Name),
		Document:  params.Document,
		Phone:     params.Phone,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) ListCustomers(ctx context.Context) ([]*Customer, error) {
	return s.repo.ListCustomers(ctx)
}

type CreateSupplierParams struct {
	Name    string
	Contact string
	Phone   string
}

func (s *Service) CreateSupplier(ctx context.Context, params CreateSupplierParams) (*Supplier, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, fmt.Errorf("%w: supplier name is required", ErrInvalidInput)
	}

	sup := &Supplier{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(params.Name),
		Contact:   params.Contact,
		Phone:     params.Phone,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateSupplier(ctx, sup); err != nil {
		return nil, err
	}

	return sup, nil
}

func (s *Service) ListSuppliers(ctx context.Context) ([]*Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}

func (s *Service) newLot(productID uuid.UUID, qty, unitCost, salePrice decimal.Decimal, receivedAt, expiresAt time.Time) *Lot {
	return &Lot{
		ID:            uuid.New(),
		ProductID:     productID,
		Number:        newNumber("L", receivedAt),
		Quantity:      qty,
		Remaining:     qty,
		UnitCost:      unitCost.Round(scale),
		UnitSalePrice: salePrice,
		ReceivedAt:    receivedAt,
		ExpiresAt:     expiresAt,
		Status:        s.classify(expiresAt, s.now()),
		CreatedAt:     s.now(),
	}
}

func (s *Service) classify(expiresAt, today time.Time) Status {
	return ClassifyWithin(expiresAt, today, s.cfg.NearExpiryDays)
}

// defaultExpiry is the expiry used when a lot is received without one.
func (s *Service) defaultExpiry(p *Product, from time.Time) time.Time {
	days := s.cfg.DefaultShelfLifeDays
	if p.ShelfLifeDays != nil && *p.ShelfLifeDays > 0 {
		days = *p.ShelfLifeDays
	}

	return from.AddDate(0, 0, days)
}

// rate normalises a currency and exchange rate pair against the base currency.
func (s *Service) rate(currency string, rate decimal.Decimal) (string, decimal.Decimal, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" || currency == s.cfg.BaseCurrency {
		return s.cfg.BaseCurrency, decimal.NewFromInt(1), nil
	}

	if !rate.IsPositive() {
		return "", decimal.Zero, ErrInvalidRate
	}

	return currency, rate, nil
}

// newNumber builds a human readable document number: a time stamp plus a
// random suffix. Unique, not meaningfully sortable.
func newNumber(prefix string, at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("%s-%s-%s", prefix, at.Format("20060102150405"), suffix)
}

func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// scale is the number of decimals stored for quantities, unit costs and
// unit prices.
const scale = 4

// positiveAtScale reports whether d is positive and fits in scale decimals.
func positiveAtScale(d decimal.Decimal) bool {
	return d.IsPositive() && d.Equal(d.Round(scale))
}
