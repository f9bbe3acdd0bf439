package listing

import (
	"log"
	"strconv"

	"github.com/commercekit/category-merchandising/internal/domain"
)

// ProductQuery is the slice of the platform's query abstraction the applier
// needs: explicit ordering by id-list position and set-membership filtering.
type ProductQuery interface {
	RestrictToIDs(ids []int64)
	OrderByIDRank(ids []int64)
}

// Apply rewrites the listing query to show only, and exactly in the order of,
// the externally ranked products. Ranking is advisory: an empty result or one
// carrying ids that are not usable entity ids leaves the query untouched.
// Returns whether the rewrite happened.
func Apply(result *domain.RankingResult, query ProductQuery) bool {
	if result == nil || len(result.ProductIDs) == 0 {
		log.Printf("[listing] got an empty ranking result, keeping native listing")
		return false
	}

	ids, ok := entityIDs(result.ProductIDs)
	if !ok {
		log.Printf("[listing] ranking result carries non-numeric product ids, keeping native listing")
		return false
	}

	query.OrderByIDRank(ids)
	query.RestrictToIDs(ids)
	return true
}

func entityIDs(productIDs []string) ([]int64, bool) {
	ids := make([]int64, 0, len(productIDs))
	for _, raw := range productIDs {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
