package listing

import (
	"fmt"
	"strings"
	"testing"

	"github.com/commercekit/category-merchandising/internal/domain"
	"github.com/commercekit/category-merchandising/internal/repository"
)

type fakeQuery struct {
	restricted []int64
	ranked     []int64
}

func (f *fakeQuery) RestrictToIDs(ids []int64) { f.restricted = ids }
func (f *fakeQuery) OrderByIDRank(ids []int64) { f.ranked = ids }

func TestApplyRewritesQuery(t *testing.T) {
	q := &fakeQuery{}
	result := &domain.RankingResult{ProductIDs: []string{"10", "20", "30"}, TotalCount: 3}

	if !Apply(result, q) {
		t.Fatal("expected ranking to be applied")
	}

	want := []int64{10, 20, 30}
	for i, id := range want {
		if q.ranked[i] != id {
			t.Errorf("rank order: expected %v, got %v", want, q.ranked)
			break
		}
		if q.restricted[i] != id {
			t.Errorf("restriction: expected %v, got %v", want, q.restricted)
			break
		}
	}
}

func TestApplyEmptyResultIsNoOp(t *testing.T) {
	q := &fakeQuery{}

	if Apply(&domain.RankingResult{}, q) {
		t.Error("empty result must not be applied")
	}
	if Apply(nil, q) {
		t.Error("nil result must not be applied")
	}
	if q.ranked != nil || q.restricted != nil {
		t.Errorf("query must stay untouched, got ranked=%v restricted=%v", q.ranked, q.restricted)
	}
}

func TestApplyNonNumericIDsIsNoOp(t *testing.T) {
	q := &fakeQuery{}
	result := &domain.RankingResult{ProductIDs: []string{"10", "oops", "30"}}

	if Apply(result, q) {
		t.Error("malformed ids must not be applied")
	}
	if q.ranked != nil || q.restricted != nil {
		t.Errorf("query must stay untouched, got ranked=%v restricted=%v", q.ranked, q.restricted)
	}
}

// The no-op law against the real query: with an empty ranking the rendered
// SQL is identical before and after Apply.
func TestApplyNoOpLawOnProductQuery(t *testing.T) {
	repo := repository.New(nil)
	store := &domain.Store{ID: 1, Code: "default"}

	q := repo.ProductListing(store, 2, 1, 24)
	beforeSQL, beforeArgs := q.SQL()

	Apply(&domain.RankingResult{}, q)

	afterSQL, afterArgs := q.SQL()
	if beforeSQL != afterSQL {
		t.Errorf("SQL changed:\nbefore: %s\nafter:  %s", beforeSQL, afterSQL)
	}
	if fmt.Sprint(beforeArgs) != fmt.Sprint(afterArgs) {
		t.Errorf("args changed: before %v, after %v", beforeArgs, afterArgs)
	}
}

// The ordering law against the real query: ranked ids [10,20,30] produce a
// select that sorts id 10 first, 20 second, 30 third and restricts the row
// set to exactly those ids.
func TestApplyOrderingLawOnProductQuery(t *testing.T) {
	repo := repository.New(nil)
	store := &domain.Store{ID: 1, Code: "default"}

	q := repo.ProductListing(store, 2, 1, 24)
	result := &domain.RankingResult{ProductIDs: []string{"10", "20", "30"}, TotalCount: 3}

	if !Apply(result, q) {
		t.Fatal("expected ranking to be applied")
	}

	sql, args := q.SQL()
	wantOrder := "ORDER BY array_position($4::bigint[], p.id)"
	if !strings.Contains(sql, wantOrder) {
		t.Errorf("expected rank ordering clause %q in:\n%s", wantOrder, sql)
	}
	if strings.Contains(sql, "p.created_at DESC") {
		t.Errorf("native ordering must be replaced entirely:\n%s", sql)
	}
	if !strings.Contains(sql, "p.id = ANY($3)") {
		t.Errorf("expected id restriction clause in:\n%s", sql)
	}

	ids, ok := args[2].([]int64)
	if !ok || len(ids) != 3 || ids[0] != 10 || ids[1] != 20 || ids[2] != 30 {
		t.Errorf("expected id args [10 20 30] in ranking order, got %v", args[2])
	}
}
