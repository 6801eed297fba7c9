// Package report builds the back-office workbook: lot valuation, waste and
// the cash ledger, one sheet each.
package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/granja/internal/inventory"
)

const (
	SheetLots  = "Lotes"
	SheetWaste = "Mermas"
	SheetCash  = "Caja"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	dateLayout  = "02/01/2006"
)

var statusLabels = map[inventory.Status]string{
	inventory.StatusActive:     "Vigente",
	inventory.StatusNearExpiry: "Por vencer",
	inventory.StatusExpired:    "Vencido",
}

// Source is the read side of the ledger.
type Source interface {
	ListProducts(ctx context.Context) ([]*inventory.Product, error)
	ListLots(ctx context.Context, filter inventory.LotFilter) ([]*inventory.Lot, error)
	ListWaste(ctx context.Context) ([]*inventory.Waste, error)
	ListCashTransactions(ctx context.Context, filter inventory.CashFilter) ([]*inventory.CashTransaction, error)
}

type Service struct {
	src      Source
	nearDays int
}

func NewService(src Source, nearDays int) *Service {
	return &Service{src: src, nearDays: nearDays}
}

// Write renders the workbook for today into w.
func (s *Service) Write(ctx context.Context, w io.Writer, today time.Time) error {
	f, err := s.Build(ctx, today)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}

// Build assembles the workbook. Lot status is classified against today
// rather than read from storage, so the report is correct between sweeps.
func (s *Service) Build(ctx context.Context, today time.Time) (*excelize.File, error) {
	products, err := s.src.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	names := make(map[uuid.UUID]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	lots, err := s.src.ListLots(ctx, inventory.LotFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing lots: %w", err)
	}

	waste, err := s.src.ListWaste(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing waste: %w", err)
	}

	cash, err := s.src.ListCashTransactions(ctx, inventory.CashFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing cash transactions: %w", err)
	}

	f := excelize.NewFile()

	b := &builder{f: f}
	if err := f.SetSheetName("Sheet1", SheetLots); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}

	if _, err := f.NewSheet(SheetWaste); err != nil {
		return nil, fmt.Errorf("adding sheet: %w", err)
	}

	if _, err := f.NewSheet(SheetCash); err != nil {
		return nil, fmt.Errorf("adding sheet: %w", err)
	}

	if b.bold, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return nil, fmt.Errorf("creating style: %w", err)
	}

	s.lotSheet(b, lots, names, today)
	wasteSheet(b, waste, names)
	cashSheet(b, cash)

	if b.err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("filling workbook: %w", b.err)
	}

	return f, nil
}

func (s *Service) lotSheet(b *builder, lots []*inventory.Lot, names map[uuid.UUID]string, today time.Time) {
	b.header(SheetLots, "Producto", "Lote", "Recibido", "Vence", "Días", "Estado", "Cantidad", "Restante", "Costo unitario", "Valor")

	total := decimal.Zero

	for i, l := range lots {
		value := l.Remaining.Mul(l.UnitCost).Round(2)
		total = total.Add(value)

		status := inventory.ClassifyWithin(l.ExpiresAt, today, s.nearDays)
		b.row(SheetLots, i+2,
			names[l.ProductID], l.Number,
			l.ReceivedAt.Format(dateLayout), l.ExpiresAt.Format(dateLayout),
			inventory.DaysRemaining(l.ExpiresAt, today), statusLabels[status],
			num(l.Quantity), num(l.Remaining), num(l.UnitCost), num(value),
		)
	}

	b.total(SheetLots, len(lots)+2, "J", total)
}

func wasteSheet(b *builder, waste []*inventory.Waste, names map[uuid.UUID]string) {
	b.header(SheetWaste, "Fecha", "Producto", "Lote", "Cantidad", "Costo unitario", "Costo", "Motivo", "Conciliada")

	total := decimal.Zero

	for i, w := range waste {
		lot := ""
		if w.LotID != nil {
			lot = w.LotID.String()
		}

		reconciled := "Sí"
		if w.Unreconciled() {
			reconciled = "No"
		}

		total = total.Add(w.Cost)
		b.row(SheetWaste, i+2,
			w.CreatedAt.Format(dateLayout), names[w.ProductID], lot,
			num(w.Quantity), num(w.UnitCost), num(w.Cost), w.Reason, reconciled,
		)
	}

	b.total(SheetWaste, len(waste)+2, "F", total)
}

func cashSheet(b *builder, cash []*inventory.CashTransaction) {
	b.header(SheetCash, "Fecha", "Tipo", "Concepto", "Entrada", "Salida", "Saldo")

	for i, c := range cash {
		b.row(SheetCash, i+2,
			c.CreatedAt.Format("02/01/2006 15:04"), string(c.Type), c.Concept,
			num(c.Inflow), num(c.Outflow), num(c.Balance),
		)
	}
}

// builder keeps the first error so sheet code can write rows unchecked.
type builder struct {
	f    *excelize.File
	bold int
	err  error
}

func (b *builder) header(sheet string, cols ...string) {
	values := make([]any, len(cols))
	for i, c := range cols {
		values[i] = c
	}

	b.row(sheet, 1, values...)

	if b.err != nil {
		return
	}

	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		b.err = err
		return
	}

	b.err = b.f.SetCellStyle(sheet, "A1", last, b.bold)
}

func (b *builder) row(sheet string, n int, values ...any) {
	if b.err != nil {
		return
	}

	b.err = b.f.SetSheetRow(sheet, fmt.Sprintf("A%d", n), &values)
}

func (b *builder) total(sheet string, n int, col string, v decimal.Decimal) {
	if b.err != nil {
		return
	}

	label, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		b.err = err
		return
	}

	if b.err = b.f.SetCellValue(sheet, label, "Total"); b.err != nil {
		return
	}

	cell := fmt.Sprintf("%s%d", col, n)
	if b.err = b.f.SetCellValue(sheet, cell, num(v)); b.err != nil {
		return
	}

	b.err = b.f.SetCellStyle(sheet, label, cell, b.bold)
}

// num converts to float64 so spreadsheet formulas can use the cell.
func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
