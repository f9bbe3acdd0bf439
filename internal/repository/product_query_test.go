package repository

import (
	"strings"
	"testing"

	"github.com/commercekit/category-merchandising/internal/domain"
)

func listingQuery(page, pageSize int) *ProductQuery {
	r := New(nil)
	store := &domain.Store{ID: 7, Code: "default"}
	return r.ProductListing(store, 2, page, pageSize)
}

func TestProductListingSQL(t *testing.T) {
	q := listingQuery(2, 24)

	sql, args := q.SQL()
	if !strings.Contains(sql, "WHERE p.store_id = $1 AND pc.category_id = $2") {
		t.Errorf("missing scope clause:\n%s", sql)
	}
	if !strings.Contains(sql, "ORDER BY p.created_at DESC, p.id") {
		t.Errorf("missing native ordering:\n%s", sql)
	}
	if !strings.Contains(sql, "LIMIT $3 OFFSET $4") {
		t.Errorf("missing pagination clause:\n%s", sql)
	}

	if args[0] != int64(7) || args[1] != int64(2) {
		t.Errorf("unexpected scope args: %v", args)
	}
	if args[2] != 24 || args[3] != 24 {
		t.Errorf("page 2 of 24 should use limit 24 offset 24, got %v", args)
	}
}

func TestProductListingNormalizesPage(t *testing.T) {
	q := listingQuery(0, 24)

	_, args := q.SQL()
	if args[3] != 0 {
		t.Errorf("page below 1 should clamp to the first page, got offset %v", args[3])
	}
}

func TestRestrictToIDs(t *testing.T) {
	q := listingQuery(1, 24)
	q.RestrictToIDs([]int64{10, 20, 30})

	sql, args := q.SQL()
	if !strings.Contains(sql, "AND p.id = ANY($3)") {
		t.Errorf("missing id restriction:\n%s", sql)
	}
	ids, ok := args[2].([]int64)
	if !ok || len(ids) != 3 {
		t.Errorf("unexpected restriction args: %v", args[2])
	}
}

func TestOrderByIDRankReplacesOrdering(t *testing.T) {
	q := listingQuery(1, 24)
	q.OrderByIDRank([]int64{30, 10, 20})

	sql, args := q.SQL()
	if !strings.Contains(sql, "ORDER BY array_position($3::bigint[], p.id)") {
		t.Errorf("missing rank ordering:\n%s", sql)
	}
	if strings.Contains(sql, "p.created_at DESC") {
		t.Errorf("native ordering must be replaced:\n%s", sql)
	}
	ids, ok := args[2].([]int64)
	if !ok || ids[0] != 30 {
		t.Errorf("rank args must preserve ranking order, got %v", args[2])
	}
}
