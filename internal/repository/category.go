package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/commercekit/category-merchandising/internal/domain"
	"github.com/jackc/pgx/v5"
)

// CategoryPath resolves a category id to its store-scoped display path, e.g.
// "Electronics/Phones". The root category is not part of the path.
func (r *Repository) CategoryPath(ctx context.Context, categoryID int64, store *domain.Store) (string, error) {
	rows, err := r.pool.Query(ctx,
		`WITH RECURSIVE chain AS (
			SELECT id, parent_id, name, 0 AS depth
			FROM categories
			WHERE id = $1 AND store_id = $2
			UNION ALL
			SELECT c.id, c.parent_id, c.name, chain.depth + 1
			FROM categories c
			JOIN chain ON c.id = chain.parent_id AND c.store_id = $2
		)
		SELECT name FROM chain ORDER BY depth DESC`,
		categoryID, store.ID,
	)
	if err != nil {
		return "", fmt.Errorf("query category path id=%d: %w", categoryID, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return "", fmt.Errorf("scan category name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterate category path: %w", err)
	}

	if len(names) == 0 {
		return "", domain.ErrCategoryNotFound
	}
	return strings.Join(names, "/"), nil
}

// GetCategory fetches one category scoped to a store.
func (r *Repository) GetCategory(ctx context.Context, categoryID int64, store *domain.Store) (*domain.Category, error) {
	cat := &domain.Category{}

	err := r.pool.QueryRow(ctx,
		`SELECT id, parent_id, name
		 FROM categories WHERE id = $1 AND store_id = $2`,
		categoryID, store.ID,
	).Scan(&cat.ID, &cat.ParentID, &cat.Name)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("query category id=%d: %w", categoryID, err)
	}

	return cat, nil
}
