package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/granja/internal/inventory"
	"github.com/MrJamesThe3rd/granja/internal/matching"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindAlias(ctx context.Context, name string) (*uuid.UUID, error) {
	query := `
		SELECT product_id
		FROM product_aliases
		WHERE $1 LIKE '%' || alias || '%'
		ORDER BY LENGTH(alias) DESC, created_at DESC
		LIMIT 1
	`

	var id uuid.UUID

	err := s.db.QueryRowContext(ctx, query, name).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding alias: %w", err)
	}

	return &id, nil
}

func (s *Store) SaveAlias(ctx context.Context, alias matching.Alias) error {
	query := `
		INSERT INTO product_aliases (alias, product_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (alias) DO UPDATE
		SET product_id = EXCLUDED.product_id, created_at = EXCLUDED.created_at
	`

	_, err := s.db.ExecContext(ctx, query, alias.Name, alias.ProductID, alias.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("saving alias: %w", inventory.ErrNotFound)
		}

		return fmt.Errorf("saving alias: %w", err)
	}

	return nil
}

func (s *Store) ListAliases(ctx context.Context) ([]matching.Alias, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT alias, product_id, created_at
		FROM product_aliases
		ORDER BY alias
	`)
	if err != nil {
		return nil, fmt.Errorf("listing aliases: %w", err)
	}
	defer rows.Close()

	var aliases []matching.Alias

	for rows.Next() {
		var a matching.Alias
		if err := rows.Scan(&a.Name, &a.ProductID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning alias: %w", err)
		}

		aliases = append(aliases, a)
	}

	return aliases, rows.Err()
}
