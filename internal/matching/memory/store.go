package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/granja/internal/matching"
)

type Store struct {
	mu      sync.RWMutex
	aliases map[string]matching.Alias
}

func New() *Store {
	return &Store{aliases: make(map[string]matching.Alias)}
}

func (s *Store) FindAlias(_ context.Context, name string) (*uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *matching.Alias

	for _, a := range s.aliases {
		if !strings.Contains(name, a.Name) {
			continue
		}

		if best == nil || len(a.Name) > len(best.Name) ||
			(len(a.Name) == len(best.Name) && a.CreatedAt.After(best.CreatedAt)) {
			best = &a
		}
	}

	if best == nil {
		return nil, nil
	}

	return &best.ProductID, nil
}

func (s *Store) SaveAlias(_ context.Context, alias matching.Alias) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.aliases[alias.Name] = alias

	return nil
}

func (s *Store) ListAliases(_ context.Context) ([]matching.Alias, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]matching.Alias, 0, len(s.aliases))
	for _, a := range s.aliases {
		out = append(out, a)
	}

	slices.SortFunc(out, func(a, b matching.Alias) int { return cmp.Compare(a.Name, b.Name) })

	return out, nil
}
