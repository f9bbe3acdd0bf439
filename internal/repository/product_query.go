package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/commercekit/category-merchandising/internal/domain"
)

// ProductQuery builds the category listing select. The platform hands it to
// the merchandising pipeline by mutable reference; the pipeline may rewrite
// its row set and ordering or leave it untouched.
type ProductQuery struct {
	storeID    int64
	categoryID int64
	page       int
	pageSize   int

	restrictIDs []int64
	rankIDs     []int64
}

// ProductListing is the platform's native query for a category page. page is
// 1-based, matching the toolbar's page parameter.
func (r *Repository) ProductListing(store *domain.Store, categoryID int64, page, pageSize int) *ProductQuery {
	if page < 1 {
		page = 1
	}
	return &ProductQuery{
		storeID:    store.ID,
		categoryID: categoryID,
		page:       page,
		pageSize:   pageSize,
	}
}

func (q *ProductQuery) PageSize() int {
	return q.pageSize
}

func (q *ProductQuery) Page() int {
	return q.page
}

// RestrictToIDs limits the row set to exactly the given product ids.
func (q *ProductQuery) RestrictToIDs(ids []int64) {
	q.restrictIDs = ids
}

// OrderByIDRank replaces the ordering clause entirely: rows are sorted by the
// position of their id within ids, first id first.
func (q *ProductQuery) OrderByIDRank(ids []int64) {
	q.rankIDs = ids
}

// SQL renders the select and its arguments.
func (q *ProductQuery) SQL() (string, []any) {
	var b strings.Builder
	args := []any{q.storeID, q.categoryID}

	b.WriteString(`SELECT p.id, p.sku, p.name, p.brand, p.price, p.created_at
		FROM products p
		JOIN product_categories pc ON pc.product_id = p.id
		WHERE p.store_id = $1 AND pc.category_id = $2`)

	if q.restrictIDs != nil {
		args = append(args, q.restrictIDs)
		fmt.Fprintf(&b, " AND p.id = ANY($%d)", len(args))
	}

	if q.rankIDs != nil {
		args = append(args, q.rankIDs)
		fmt.Fprintf(&b, " ORDER BY array_position($%d::bigint[], p.id)", len(args))
	} else {
		b.WriteString(" ORDER BY p.created_at DESC, p.id")
	}

	if q.pageSize > 0 {
		args = append(args, q.pageSize)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
		args = append(args, (q.page-1)*q.pageSize)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}

	return b.String(), args
}

// FetchListing runs the listing query and scans the product rows.
func (r *Repository) FetchListing(ctx context.Context, q *ProductQuery) ([]domain.Product, error) {
	sql, args := q.SQL()
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query product listing for category %d: %w", q.categoryID, err)
	}
	defer rows.Close()

	var items []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Brand, &p.Price, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over products: %w", err)
	}
	return items, nil
}
