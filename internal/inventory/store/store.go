package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/granja/internal/inventory"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// cashLockKey serialises appends to the cash ledger across transactions.
var cashLockKey = lockKey("cash_transactions")

func lockKey(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))

	return int64(h.Sum64())
}

// mapError translates constraint violations into inventory errors.
func mapError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return fmt.Errorf("%s: %w: %s", op, inventory.ErrNotFound, pgErr.ConstraintName)
		case "23505", "23514":
			return fmt.Errorf("%s: %w: %s", op, inventory.ErrInvalidInput, pgErr.ConstraintName)
		case "40001", "40P01":
			return fmt.Errorf("%s: %w", op, inventory.ErrConcurrentUpdate)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

const productColumns = `
	id, name, category, unit, initial_cost, sale_price, stock, min_stock,
	shelf_life_days, created_at, updated_at, deleted_at
`

// Expected column order: productColumns.
func scanProduct(s scanner) (*inventory.Product, error) {
	var p inventory.Product

	var initialCost decimal.NullDecimal

	if err := s.Scan(
		&p.ID, &p.Name, &p.Category, &p.Unit, &initialCost, &p.SalePrice, &p.Stock, &p.MinStock,
		&p.ShelfLifeDays, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	); err != nil {
		return nil, err
	}

	if initialCost.Valid {
		p.InitialCost = &initialCost.Decimal
	}

	return &p, nil
}

const lotColumns = `
	id, seq, product_id, lot_number, quantity, remaining, unit_cost, unit_sale_price,
	received_at, expires_at, status, created_at
`

// Expected column order: lotColumns.
func scanLot(s scanner) (*inventory.Lot, error) {
	var l inventory.Lot

	var status string

	if err := s.Scan(
		&l.ID, &l.Seq, &l.ProductID, &l.Number, &l.Quantity, &l.Remaining, &l.UnitCost, &l.UnitSalePrice,
		&l.ReceivedAt, &l.ExpiresAt, &status, &l.CreatedAt,
	); err != nil {
		return nil, err
	}

	l.Status = inventory.Status(status)

	return &l, nil
}

const saleColumns = `
	id, sale_number, customer_id, total, total_base, profit, status,
	payment_method, currency, exchange_rate, amount_paid, bank, reference,
	created_at, cancelled_at
`

func scanSale(s scanner) (*inventory.Sale, error) {
	var sale inventory.Sale

	var status, method string

	if err := s.Scan(
		&sale.ID, &sale.Number, &sale.CustomerID, &sale.Total, &sale.TotalBase, &sale.Profit, &status,
		&method, &sale.Payment.Currency, &sale.Payment.ExchangeRate, &sale.Payment.AmountPaid,
		&sale.Payment.Bank, &sale.Payment.Reference,
		&sale.CreatedAt, &sale.CancelledAt,
	); err != nil {
		return nil, err
	}

	sale.Status = inventory.SaleStatus(status)
	sale.Payment.Method = inventory.PaymentMethod(method)

	return &sale, nil
}

const cashColumns = `id, seq, type, concept, ref_id, inflow, outflow, balance, created_at`

func scanCash(s scanner) (*inventory.CashTransaction, error) {
	var c inventory.CashTransaction

	var typ string

	if err := s.Scan(
		&c.ID, &c.Seq, &typ, &c.Concept, &c.RefID, &c.Inflow, &c.Outflow, &c.Balance, &c.CreatedAt,
	); err != nil {
		return nil, err
	}

	c.Type = inventory.CashType(typ)

	return &c, nil
}

const alertColumns = `id, kind, priority, product_id, lot_id, message, read, created_at`

func scanAlert(s scanner) (*inventory.Alert, error) {
	var a inventory.Alert

	var kind, priority string

	if err := s.Scan(
		&a.ID, &kind, &priority, &a.ProductID, &a.LotID, &a.Message, &a.Read, &a.CreatedAt,
	); err != nil {
		return nil, err
	}

	a.Kind = inventory.AlertKind(kind)
	a.Priority = inventory.Priority(priority)

	return &a, nil
}

func getProduct(ctx context.Context, q querier, id uuid.UUID, lock bool) (*inventory.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND deleted_at IS NULL`
	if lock {
		query += ` FOR UPDATE`
	}

	p, err := scanProduct(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, inventory.NotFound("product", id)
		}

		return nil, fmt.Errorf("getting product: %w", err)
	}

	return p, nil
}

func listProducts(ctx context.Context, q querier, lock bool) ([]*inventory.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE deleted_at IS NULL ORDER BY name ASC`
	if lock {
		query += ` FOR UPDATE`
	}

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []*inventory.Product

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}

		products = append(products, p)
	}

	return products, rows.Err()
}

func queryLots(ctx context.Context, q querier, query string, args ...any) ([]*inventory.Lot, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing lots: %w", err)
	}
	defer rows.Close()

	var lots []*inventory.Lot

	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning lot: %w", err)
		}

		lots = append(lots, l)
	}

	return lots, rows.Err()
}

func getSale(ctx context.Context, q querier, id uuid.UUID, lock bool) (*inventory.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	sale, err := scanSale(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, inventory.NotFound("sale", id)
		}

		return nil, fmt.Errorf("getting sale: %w", err)
	}

	if err := loadSaleLines(ctx, q, sale); err != nil {
		return nil, err
	}

	return sale, nil
}

func loadSaleLines(ctx context.Context, q querier, sale *inventory.Sale) error {
	rows, err := q.QueryContext(ctx, `
		SELECT id, product_id, product_name, quantity, unit_price, subtotal, cost, profit
		FROM sale_lines WHERE sale_id = $1 ORDER BY position ASC`, sale.ID)
	if err != nil {
		return fmt.Errorf("listing sale lines: %w", err)
	}

	var lines []inventory.SaleLine

	for rows.Next() {
		var l inventory.SaleLine
		if err := rows.Scan(&l.ID, &l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice,
			&l.Subtotal, &l.Cost, &l.Profit); err != nil {
			rows.Close()
			return fmt.Errorf("scanning sale line: %w", err)
		}

		lines = append(lines, l)
	}

	rows.Close()

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating sale lines: %w", err)
	}

	for i := range lines {
		allocs, err := loadAllocations(ctx, q, lines[i].ID)
		if err != nil {
			return err
		}

		lines[i].Allocations = allocs
	}

	sale.Lines = lines

	return nil
}

func loadAllocations(ctx context.Context, q querier, lineID uuid.UUID) ([]inventory.Allocation, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT lot_id, lot_number, quantity, unit_cost
		FROM sale_line_allocations WHERE sale_line_id = $1 ORDER BY position ASC`, lineID)
	if err != nil {
		return nil, fmt.Errorf("listing allocations: %w", err)
	}
	defer rows.Close()

	var allocs []inventory.Allocation

	for rows.Next() {
		var a inventory.Allocation
		if err := rows.Scan(&a.LotID, &a.LotNumber, &a.Quantity, &a.UnitCost); err != nil {
			return nil, fmt.Errorf("scanning allocation: %w", err)
		}

		allocs = append(allocs, a)
	}

	return allocs, rows.Err()
}

func lastCash(ctx context.Context, q querier) (*inventory.CashTransaction, error) {
	query := `SELECT ` + cashColumns + ` FROM cash_transactions ORDER BY seq DESC LIMIT 1`

	c, err := scanCash(q.QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("getting last cash transaction: %w", err)
	}

	return c, nil
}

func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (*inventory.Product, error) {
	return getProduct(ctx, s.db, id, false)
}

func (s *Store) ListProducts(ctx context.Context) ([]*inventory.Product, error) {
	return listProducts(ctx, s.db, false)
}

func (s *Store) ListLots(ctx context.Context, filter inventory.LotFilter) ([]*inventory.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE 1 = 1`

	var args []any

	argIdx := 1

	if filter.ProductID != nil {
		query += fmt.Sprintf(" AND product_id = $%d", argIdx)

		args = append(args, *filter.ProductID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
	}

	if filter.InStockOnly {
		query += " AND remaining > 0"
	}

	query += " ORDER BY expires_at ASC, received_at ASC, seq ASC"

	return queryLots(ctx, s.db, query, args...)
}

func (s *Store) GetSale(ctx context.Context, id uuid.UUID) (*inventory.Sale, error) {
	return getSale(ctx, s.db, id, false)
}

func (s *Store) ListSales(ctx context.Context, filter inventory.SaleFilter) ([]*inventory.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE 1 = 1`

	var args []any

	argIdx := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argIdx)

		args = append(args, *filter.EndDate)
	}

	query += " ORDER BY created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}

	var sales []*inventory.Sale

	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning sale: %w", err)
		}

		sales = append(sales, sale)
	}

	rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sales: %w", err)
	}

	for _, sale := range sales {
		if err := loadSaleLines(ctx, s.db, sale); err != nil {
			return nil, err
		}
	}

	return sales, nil
}

func (s *Store) ListPurchases(ctx context.Context) ([]*inventory.Purchase, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, purchase_number, supplier_id, invoice_ref, currency, exchange_rate,
			total, total_base, created_at
		FROM purchases ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing purchases: %w", err)
	}

	var purchases []*inventory.Purchase

	byID := make(map[uuid.UUID]*inventory.Purchase)

	for rows.Next() {
		var p inventory.Purchase
		if err := rows.Scan(&p.ID, &p.Number, &p.SupplierID, &p.InvoiceRef, &p.Currency, &p.ExchangeRate,
			&p.Total, &p.TotalBase, &p.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning purchase: %w", err)
		}

		purchases = append(purchases, &p)
		byID[p.ID] = &p
	}

	rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating purchases: %w", err)
	}

	lineRows, err := s.db.QueryContext(ctx, `
		SELECT purchase_id, id, product_id, lot_id, quantity, unit_price, subtotal
		FROM purchase_lines ORDER BY purchase_id, position ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing purchase lines: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var purchaseID uuid.UUID

		var l inventory.PurchaseLine
		if err := lineRows.Scan(&purchaseID, &l.ID, &l.ProductID, &l.LotID, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scanning purchase line: %w", err)
		}

		if p, ok := byID[purchaseID]; ok {
			p.Lines = append(p.Lines, l)
		}
	}

	return purchases, lineRows.Err()
}

func (s *Store) ListWaste(ctx context.Context) ([]*inventory.Waste, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_id, lot_id, quantity, unit_cost, cost, reason, created_at
		FROM waste ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing waste: %w", err)
	}
	defer rows.Close()

	var out []*inventory.Waste

	for rows.Next() {
		var w inventory.Waste
		if err := rows.Scan(&w.ID, &w.ProductID, &w.LotID, &w.Quantity, &w.UnitCost, &w.Cost,
			&w.Reason, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning waste: %w", err)
		}

		out = append(out, &w)
	}

	return out, rows.Err()
}

func (s *Store) ListCashTransactions(ctx context.Context, filter inventory.CashFilter) ([]*inventory.CashTransaction, error) {
	query := `SELECT ` + cashColumns + ` FROM cash_transactions WHERE 1 = 1`

	var args []any

	argIdx := 1

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argIdx)

		args = append(args, *filter.EndDate)
	}

	query += " ORDER BY seq ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing cash transactions: %w", err)
	}
	defer rows.Close()

	var out []*inventory.CashTransaction

	for rows.Next() {
		c, err := scanCash(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning cash transaction: %w", err)
		}

		out = append(out, c)
	}

	return out, rows.Err()
}

func (s *Store) LastCashTransaction(ctx context.Context) (*inventory.CashTransaction, error) {
	return lastCash(ctx, s.db)
}

func (s *Store) ListAlerts(ctx context.Context, unreadOnly bool) ([]*inventory.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts`
	if unreadOnly {
		query += ` WHERE NOT read`
	}

	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing alerts: %w", err)
	}
	defer rows.Close()

	var out []*inventory.Alert

	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning alert: %w", err)
		}

		out = append(out, a)
	}

	return out, rows.Err()
}

func (s *Store) MarkAlertRead(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `UPDATE alerts SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("marking alert read: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return inventory.NotFound("alert", id)
	}

	return nil
}

func (s *Store) CreateCustomer(ctx context.Context, c *inventory.Customer) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, document, phone, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Name, c.Document, c.Phone, c.CreatedAt)
	if err != nil {
		return mapError("creating customer", err)
	}

	return nil
}

func (s *Store) ListCustomers(ctx context.Context) ([]*inventory.Customer, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, document, phone, created_at FROM customers ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	defer rows.Close()

	var out []*inventory.Customer

	for rows.Next() {
		var c inventory.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Document, &c.Phone, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning customer: %w", err)
		}

		out = append(out, &c)
	}

	return out, rows.Err()
}

func (s *Store) CreateSupplier(ctx context.Context, sup *inventory.Supplier) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO suppliers (id, name, contact, phone, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		sup.ID, sup.Name, sup.Contact, sup.Phone, sup.CreatedAt)
	if err != nil {
		return mapError("creating supplier", err)
	}

	return nil
}

func (s *Store) ListSuppliers(ctx context.Context) ([]*inventory.Supplier, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, contact, phone, created_at FROM suppliers ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing suppliers: %w", err)
	}
	defer rows.Close()

	var out []*inventory.Supplier

	for rows.Next() {
		var sup inventory.Supplier
		if err := rows.Scan(&sup.ID, &sup.Name, &sup.Contact, &sup.Phone, &sup.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning supplier: %w", err)
		}

		out = append(out, &sup)
	}

	return out, rows.Err()
}

type ledgerTx struct {
	tx *sql.Tx
}

func (s *Store) BeginLedger(ctx context.Context) (inventory.LedgerTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning ledger tx: %w", err)
	}

	return &ledgerTx{tx: dbTx}, nil
}

func (ltx *ledgerTx) Commit() error { return ltx.tx.Commit() }

// Rollback is a no-op after Commit.
func (ltx *ledgerTx) Rollback() error {
	if err := ltx.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}

	return nil
}

func (ltx *ledgerTx) GetProduct(ctx context.Context, id uuid.UUID) (*inventory.Product, error) {
	return getProduct(ctx, ltx.tx, id, true)
}

func (ltx *ledgerTx) ListProducts(ctx context.Context) ([]*inventory.Product, error) {
	return listProducts(ctx, ltx.tx, true)
}

func (ltx *ledgerTx) CreateProduct(ctx context.Context, p *inventory.Product) error {
	_, err := ltx.tx.ExecContext(ctx, `
		INSERT INTO products (id, name, category, unit, initial_cost, sale_price, stock, min_stock,
			shelf_life_days, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.Name, p.Category, p.Unit, p.InitialCost, p.SalePrice, p.Stock, p.MinStock,
		p.ShelfLifeDays, p.CreatedAt)
	if err != nil {
		return mapError("creating product", err)
	}

	return nil
}

func (ltx *ledgerTx) UpdateProduct(ctx context.Context, p *inventory.Product) error {
	res, err := ltx.tx.ExecContext(ctx, `
		UPDATE products
		SET name = $1, category = $2, unit = $3, initial_cost = $4, sale_price = $5,
			min_stock = $6, shelf_life_days = $7, updated_at = $8
		WHERE id = $9 AND deleted_at IS NULL`,
		p.Name, p.Category, p.Unit, p.InitialCost, p.SalePrice,
		p.MinStock, p.ShelfLifeDays, p.UpdatedAt, p.ID)
	if err != nil {
		return mapError("updating product", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return inventory.NotFound("product", p.ID)
	}

	return nil
}

func (ltx *ledgerTx) DeleteProduct(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := ltx.tx.ExecContext(ctx, `UPDATE products SET deleted_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	return nil
}

func (ltx *ledgerTx) AdjustProductStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	res, err := ltx.tx.ExecContext(ctx, `
		UPDATE products SET stock = stock + $1 WHERE id = $2 AND deleted_at IS NULL`, delta, id)
	if err != nil {
		return mapError("adjusting stock", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return inventory.NotFound("product", id)
	}

	return nil
}

func (ltx *ledgerTx) CountSaleLines(ctx context.Context, productID uuid.UUID) (int, error) {
	var n int
	if err := ltx.tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sale_lines WHERE product_id = $1`, productID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting sale lines: %w", err)
	}

	return n, nil
}

func (ltx *ledgerTx) ListProductLots(ctx context.Context, productID uuid.UUID) ([]*inventory.Lot, error) {
	return queryLots(ctx, ltx.tx, `SELECT `+lotColumns+` FROM lots
		WHERE product_id = $1
		ORDER BY expires_at ASC, received_at ASC, seq ASC
		FOR UPDATE`, productID)
}

func (ltx *ledgerTx) ListStockedLots(ctx context.Context) ([]*inventory.Lot, error) {
	return queryLots(ctx, ltx.tx, `SELECT `+lotColumns+` FROM lots
		WHERE remaining > 0
		ORDER BY expires_at ASC, received_at ASC, seq ASC
		FOR UPDATE`)
}

func (ltx *ledgerTx) GetLot(ctx context.Context, id uuid.UUID) (*inventory.Lot, error) {
	l, err := scanLot(ltx.tx.QueryRowContext(ctx,
		`SELECT `+lotColumns+` FROM lots WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, inventory.NotFound("lot", id)
		}

		return nil, fmt.Errorf("getting lot: %w", err)
	}

	return l, nil
}

func (ltx *ledgerTx) CreateLot(ctx context.Context, l *inventory.Lot) error {
	err := ltx.tx.QueryRowContext(ctx, `
		INSERT INTO lots (id, product_id, lot_number, quantity, remaining, unit_cost, unit_sale_price,
			received_at, expires_at, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING seq`,
		l.ID, l.ProductID, l.Number, l.Quantity, l.Remaining, l.UnitCost, l.UnitSalePrice,
		l.ReceivedAt, l.ExpiresAt, l.Status, l.CreatedAt,
	).Scan(&l.Seq)
	if err != nil {
		return mapError("creating lot", err)
	}

	return nil
}

// DecrementLot only succeeds while the lot still holds qty, so a lot drained
// by a concurrent writer is reported instead of going negative.
func (ltx *ledgerTx) DecrementLot(ctx context.Context, id uuid.UUID, qty decimal.Decimal) error {
	res, err := ltx.tx.ExecContext(ctx, `
		UPDATE lots SET remaining = remaining - $1
		WHERE id = $2 AND remaining >= $1`, qty, id)
	if err != nil {
		return mapError("decrementing lot", err)
	}

	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	if _, err := ltx.GetLot(ctx, id); err != nil {
		return err
	}

	return inventory.ErrConcurrentUpdate
}

func (ltx *ledgerTx) IncrementLot(ctx context.Context, id uuid.UUID, qty decimal.Decimal) error {
	res, err := ltx.tx.ExecContext(ctx, `
		UPDATE lots
		SET remaining = remaining + $1, quantity = GREATEST(quantity, remaining + $1)
		WHERE id = $2`, qty, id)
	if err != nil {
		return mapError("incrementing lot", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return inventory.NotFound("lot", id)
	}

	return nil
}

func (ltx *ledgerTx) UpdateLotStatus(ctx context.Context, id uuid.UUID, from, to inventory.Status) (bool, error) {
	res, err := ltx.tx.ExecContext(ctx,
		`UPDATE lots SET status = $1 WHERE id = $2 AND status = $3`, to, id, from)
	if err != nil {
		return false, fmt.Errorf("updating lot status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("updating lot status: %w", err)
	}

	return n > 0, nil
}

func (ltx *ledgerTx) GetCustomer(ctx context.Context, id uuid.UUID) (*inventory.Customer, error) {
	var c inventory.Customer

	err := ltx.tx.QueryRowContext(ctx,
		`SELECT id, name, document, phone, created_at FROM customers WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Document, &c.Phone, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, inventory.NotFound("customer", id)
		}

		return nil, fmt.Errorf("getting customer: %w", err)
	}

	return &c, nil
}

func (ltx *ledgerTx) GetSupplier(ctx context.Context, id uuid.UUID) (*inventory.Supplier, error) {
	var sup inventory.Supplier

	err := ltx.tx.QueryRowContext(ctx,
		`SELECT id, name, contact, phone, created_at FROM suppliers WHERE id = $1`, id,
	).Scan(&sup.ID, &sup.Name, &sup.Contact, &sup.Phone, &sup.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, inventory.NotFound("supplier", id)
		}

		return nil, fmt.Errorf("getting supplier: %w", err)
	}

	return &sup, nil
}

func (ltx *ledgerTx) CreateSale(ctx context.Context, sale *inventory.Sale) error {
	_, err := ltx.tx.ExecContext(ctx, `
		INSERT INTO sales (id, sale_number, customer_id, total, total_base, profit, status,
			payment_method, currency, exchange_rate, amount_paid, bank, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		sale.ID, sale.Number, sale.CustomerID, sale.Total, sale.TotalBase, sale.Profit, sale.Status,
		sale.Payment.Method, sale.Payment.Currency, sale.Payment.ExchangeRate, sale.Payment.AmountPaid,
		sale.Payment.Bank, sale.Payment.Reference, sale.CreatedAt)
	if err != nil {
		return mapError("creating sale", err)
	}

	for i, l := range sale.Lines {
		_, err := ltx.tx.ExecContext(ctx, `
			INSERT INTO sale_lines (id, sale_id, position, product_id, product_name, quantity,
				unit_price, subtotal, cost, profit)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			l.ID, sale.ID, i, l.ProductID, l.ProductName, l.Quantity,
			l.UnitPrice, l.Subtotal, l.Cost, l.Profit)
		if err != nil {
			return mapError("creating sale line", err)
		}

		for j, a := range l.Allocations {
			_, err := ltx.tx.ExecContext(ctx, `
				INSERT INTO sale_line_allocations (sale_line_id, position, lot_id, lot_number, quantity, unit_cost)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				l.ID, j, a.LotID, a.LotNumber, a.Quantity, a.UnitCost)
			if err != nil {
				return mapError("creating allocation", err)
			}
		}
	}

	return nil
}

func (ltx *ledgerTx) GetSale(ctx context.Context, id uuid.UUID) (*inventory.Sale, error) {
	return getSale(ctx, ltx.tx, id, true)
}

func (ltx *ledgerTx) MarkSaleCancelled(ctx context.Context, id uuid.UUID, at time.Time) error {
	res, err := ltx.tx.ExecContext(ctx, `
		UPDATE sales SET status = $1, cancelled_at = $2
		WHERE id = $3 AND status = $4`,
		inventory.SaleCancelled, at, id, inventory.SaleCompleted)
	if err != nil {
		return fmt.Errorf("cancelling sale: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return inventory.ErrAlreadyCancelled
	}

	return nil
}

func (ltx *ledgerTx) CreatePurchase(ctx context.Context, p *inventory.Purchase) error {
	_, err := ltx.tx.ExecContext(ctx, `
		INSERT INTO purchases (id, purchase_number, supplier_id, invoice_ref, currency, exchange_rate,
			total, total_base, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.Number, p.SupplierID, p.InvoiceRef, p.Currency, p.ExchangeRate,
		p.Total, p.TotalBase, p.CreatedAt)
	if err != nil {
		return mapError("creating purchase", err)
	}

	for i, l := range p.Lines {
		_, err := ltx.tx.ExecContext(ctx, `
			INSERT INTO purchase_lines (id, purchase_id, position, product_id, lot_id, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			l.ID, p.ID, i, l.ProductID, l.LotID, l.Quantity, l.UnitPrice, l.Subtotal)
		if err != nil {
			return mapError("creating purchase line", err)
		}
	}

	return nil
}

func (ltx *ledgerTx) CreateWaste(ctx context.Context, w *inventory.Waste) error {
	_, err := ltx.tx.ExecContext(ctx, `
		INSERT INTO waste (id, product_id, lot_id, quantity, unit_cost, cost, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		w.ID, w.ProductID, w.LotID, w.Quantity, w.UnitCost, w.Cost, w.Reason, w.CreatedAt)
	if err != nil {
		return mapError("creating waste", err)
	}

	return nil
}

func (ltx *ledgerTx) CreateAlert(ctx context.Context, a *inventory.Alert) error {
	_, err := ltx.tx.ExecContext(ctx, `
		INSERT INTO alerts (id, kind, priority, product_id, lot_id, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.Kind, a.Priority, a.ProductID, a.LotID, a.Message, a.Read, a.CreatedAt)
	if err != nil {
		return mapError("creating alert", err)
	}

	return nil
}

func (ltx *ledgerTx) LatestAlert(ctx context.Context, productID uuid.UUID, kind inventory.AlertKind) (*inventory.Alert, error) {
	a, err := scanAlert(ltx.tx.QueryRowContext(ctx, `SELECT `+alertColumns+` FROM alerts
		WHERE product_id = $1 AND kind = $2
		ORDER BY created_at DESC LIMIT 1`, productID, kind))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("getting latest alert: %w", err)
	}

	return a, nil
}

// LastCashTransaction takes the cash advisory lock before reading, so the
// balance it returns stays current until this transaction ends.
func (ltx *ledgerTx) LastCashTransaction(ctx context.Context) (*inventory.CashTransaction, error) {
	if _, err := ltx.tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", cashLockKey); err != nil {
		return nil, fmt.Errorf("acquiring cash lock: %w", err)
	}

	return lastCash(ctx, ltx.tx)
}

func (ltx *ledgerTx) AppendCash(ctx context.Context, c *inventory.CashTransaction) error {
	err := ltx.tx.QueryRowContext(ctx, `
		INSERT INTO cash_transactions (id, type, concept, ref_id, inflow, outflow, balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING seq`,
		c.ID, c.Type, c.Concept, c.RefID, c.Inflow, c.Outflow, c.Balance, c.CreatedAt,
	).Scan(&c.Seq)
	if err != nil {
		return mapError("appending cash transaction", err)
	}

	return nil
}
