package domain

// MerchandiseRequest is the fully-specified, immutable request sent to the
// ranking service for one listing render.
type MerchandiseRequest struct {
	Account           *Account
	Facets            FacetBundle
	CustomerID        string
	Category          string
	PageNumber        int
	Limit             int
	PreviewMode       bool
	ContinuationToken string
}

// RankingResult is the ordered outcome of one remote merchandising call.
// ProductIDs is in ranking order, index 0 is the best-ranked product.
type RankingResult struct {
	ProductIDs        []string `json:"product_ids"`
	TotalCount        int      `json:"total_count"`
	ContinuationToken string   `json:"continuation_token,omitempty"`
}
