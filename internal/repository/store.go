package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/commercekit/category-merchandising/internal/domain"
	"github.com/jackc/pgx/v5"
)

// Get single store by its url code
func (r *Repository) GetStoreByCode(ctx context.Context, code string) (*domain.Store, error) {
	store := &domain.Store{}

	err := r.pool.QueryRow(ctx,
		`SELECT id, code, name, created_at
		 FROM stores WHERE code = $1`,
		code,
	).Scan(&store.ID, &store.Code, &store.Name, &store.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStoreNotFound
		}
		return nil, fmt.Errorf("query store code=%q: %w", code, err)
	}

	return store, nil
}
