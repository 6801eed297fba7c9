package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/granja/internal/inventory"
	"github.com/MrJamesThe3rd/granja/internal/matching"
)

var (
	ErrUnresolved    = errors.New("unresolved products")
	ErrInvalidUpload = errors.New("invalid upload")
)

// Catalog is the part of the ledger the importer needs.
type Catalog interface {
	ListProducts(ctx context.Context) ([]*inventory.Product, error)
	RecordPurchase(ctx context.Context, params inventory.RecordPurchaseParams) (*inventory.Purchase, error)
}

// Aliases remembers products assigned by hand to a supplier's wording.
type Aliases interface {
	Suggest(ctx context.Context, name string) (*uuid.UUID, error)
	Learn(ctx context.Context, name string, productID uuid.UUID) (*matching.Alias, error)
}

type Service struct {
	catalog Catalog
	parsers map[Format]Parser
	fold    func(string) string
	aliases Aliases
}

type Option func(*Service)

// WithAliases consults learned aliases for rows the catalogue names do not
// resolve, and learns every override a confirmed import used.
func WithAliases(a Aliases) Option {
	return func(s *Service) { s.aliases = a }
}

// NewService registers the parser for each supported format. fold
// normalises product names before they are compared.
func NewService(catalog Catalog, parsers map[Format]Parser, fold func(string) string, opts ...Option) *Service {
	if fold == nil {
		fold = func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	}

	s := &Service{catalog: catalog, parsers: parsers, fold: fold}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// PreviewLine is a parsed row and the catalogue product it resolved to.
// ProductID is nil when no product, or more than one, matched. FromAlias
// marks a row resolved through a learned alias rather than by name.
type PreviewLine struct {
	Row
	ProductID   *uuid.UUID
	ProductName string
	Candidates  []string
	FromAlias   bool
}

type Preview struct {
	Lines      []PreviewLine
	Unresolved int
	Total      decimal.Decimal
}

// Preview parses an upload and matches every row against the catalogue
// without touching stock.
func (s *Service) Preview(ctx context.Context, format Format, r io.Reader) (*Preview, error) {
	parser, ok := s.parsers[format]
	if !ok {
		return nil, fmt.Errorf("%w: unknown import format %q", ErrInvalidUpload, format)
	}

	rows, err := parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidUpload, err)
	}

	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	idx := s.index(products)
	preview := &Preview{Total: decimal.Zero}

	for _, row := range rows {
		line := PreviewLine{Row: row}

		matches := idx.lookup(s.fold(row.Product))
		if len(matches) == 1 {
			line.ProductID = &matches[0].ID
			line.ProductName = matches[0].Name
		} else {
			p, err := s.suggest(ctx, idx, row.Product)
			if err != nil {
				return nil, err
			}

			if p != nil {
				line.ProductID = &p.ID
				line.ProductName = p.Name
				line.FromAlias = true
			} else {
				preview.Unresolved++

				for _, m := range matches {
					line.Candidates = append(line.Candidates, m.Name)
				}
			}
		}

		preview.Total = preview.Total.Add(row.Quantity.Mul(row.UnitCost))
		preview.Lines = append(preview.Lines, line)
	}

	preview.Total = preview.Total.Round(2)

	return preview, nil
}

type ConfirmParams struct {
	SupplierID   uuid.UUID
	InvoiceRef   string
	Currency     string
	ExchangeRate decimal.Decimal
	// Overrides assigns a product to a row, keyed by Row.Line, for rows the
	// preview could not resolve.
	Overrides map[int]uuid.UUID
}

// Confirm records a previewed upload as one purchase. Every line must be
// resolved, either by name or through Overrides.
func (s *Service) Confirm(ctx context.Context, preview *Preview, params ConfirmParams) (*inventory.Purchase, error) {
	lines := make([]inventory.PurchaseLineParams, 0, len(preview.Lines))

	var missing []string

	for _, l := range preview.Lines {
		productID := l.ProductID
		if id, ok := params.Overrides[l.Line]; ok {
			productID = &id
		}

		if productID == nil {
			missing = append(missing, fmt.Sprintf("%d:%s", l.Line, l.Product))
			continue
		}

		lines = append(lines, inventory.PurchaseLineParams{
			ProductID: *productID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitCost,
			ExpiresAt: l.ExpiresAt,
		})
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnresolved, strings.Join(missing, ", "))
	}

	purchase, err := s.catalog.RecordPurchase(ctx, inventory.RecordPurchaseParams{
		SupplierID:   params.SupplierID,
		Lines:        lines,
		InvoiceRef:   params.InvoiceRef,
		Currency:     params.Currency,
		ExchangeRate: params.ExchangeRate,
	})
	if err != nil {
		return nil, err
	}

	s.learn(ctx, preview, params.Overrides)

	return purchase, nil
}

// suggest resolves a row through the learned aliases. An alias pointing at a
// product no longer in the catalogue is ignored.
func (s *Service) suggest(ctx context.Context, idx nameIndex, name string) (*inventory.Product, error) {
	if s.aliases == nil {
		return nil, nil
	}

	id, err := s.aliases.Suggest(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("suggesting product: %w", err)
	}

	if id == nil {
		return nil, nil
	}

	return idx.byID[*id], nil
}

// learn records the overrides of a confirmed import. The purchase is already
// stored, so a failure here is only logged.
func (s *Service) learn(ctx context.Context, preview *Preview, overrides map[int]uuid.UUID) {
	if s.aliases == nil {
		return
	}

	for _, l := range preview.Lines {
		id, ok := overrides[l.Line]
		if !ok {
			continue
		}

		if _, err := s.aliases.Learn(ctx, l.Product, id); err != nil {
			slog.Warn("failed to learn product alias", "name", l.Product, "product_id", id, "error", err)
		}
	}
}

// Import is Preview followed by Confirm.
func (s *Service) Import(ctx context.Context, format Format, r io.Reader, params ConfirmParams) (*inventory.Purchase, error) {
	preview, err := s.Preview(ctx, format, r)
	if err != nil {
		return nil, err
	}

	return s.Confirm(ctx, preview, params)
}

// nameIndex resolves folded names: an exact match wins, otherwise every
// product whose name contains the query is a candidate.
type nameIndex struct {
	exact map[string][]*inventory.Product
	all   []folded
	byID  map[uuid.UUID]*inventory.Product
}

type folded struct {
	name    string
	product *inventory.Product
}

func (s *Service) index(products []*inventory.Product) nameIndex {
	idx := nameIndex{
		exact: make(map[string][]*inventory.Product),
		byID:  make(map[uuid.UUID]*inventory.Product, len(products)),
	}

	for _, p := range products {
		idx.byID[p.ID] = p

		f := s.fold(p.Name)
		idx.exact[f] = append(idx.exact[f], p)
		idx.all = append(idx.all, folded{name: f, product: p})
	}

	return idx
}

func (idx nameIndex) lookup(name string) []*inventory.Product {
	if name == "" {
		return nil
	}

	if ps, ok := idx.exact[name]; ok {
		return ps
	}

	var out []*inventory.Product

	for _, f := range idx.all {
		if strings.Contains(f.name, name) {
			out = append(out, f.product)
		}
	}

	return out
}
