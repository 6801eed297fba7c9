// Package matching remembers how suppliers name catalogue products, so a
// delivery note row resolved by hand once resolves on its own next time.
package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/granja/internal/inventory"
)

var ErrEmptyAlias = errors.New("alias is empty")

// Alias maps a folded supplier wording to a product.
type Alias struct {
	Name      string
	ProductID uuid.UUID
	CreatedAt time.Time
}

type Repository interface {
	// FindAlias returns the product of the longest alias contained in name,
	// or nil when none is.
	FindAlias(ctx context.Context, name string) (*uuid.UUID, error)
	SaveAlias(ctx context.Context, alias Alias) error
	ListAliases(ctx context.Context) ([]Alias, error)
}

type Products interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*inventory.Product, error)
}

type Service struct {
	repo     Repository
	products Products
	fold     func(string) string
	now      func() time.Time
}

func NewService(repo Repository, products Products, fold func(string) string) *Service {
	if fold == nil {
		fold = func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	}

	return &Service{repo: repo, products: products, fold: fold, now: time.Now}
}

// Suggest returns the product learned for a supplier's wording, or nil.
func (s *Service) Suggest(ctx context.Context, name string) (*uuid.UUID, error) {
	folded := s.fold(name)
	if folded == "" {
		return nil, nil
	}

	id, err := s.repo.FindAlias(ctx, folded)
	if err != nil {
		return nil, fmt.Errorf("finding alias: %w", err)
	}

	return id, nil
}

// Learn remembers that name refers to productID. Learning the same name
// again points it at the new product.
func (s *Service) Learn(ctx context.Context, name string, productID uuid.UUID) (*Alias, error) {
	folded := s.fold(name)
	if folded == "" {
		return nil, ErrEmptyAlias
	}

	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	alias := Alias{Name: folded, ProductID: productID, CreatedAt: s.now()}
	if err := s.repo.SaveAlias(ctx, alias); err != nil {
		return nil, fmt.Errorf("saving alias: %w", err)
	}

	return &alias, nil
}

func (s *Service) List(ctx context.Context) ([]Alias, error) {
	aliases, err := s.repo.ListAliases(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing aliases: %w", err)
	}

	return aliases, nil
}
