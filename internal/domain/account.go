package domain

// FeatureRankingAPI is the account capability required to call the
// merchandising endpoint of the ranking service.
const FeatureRankingAPI = "ranking-api"

type Account struct {
	MerchantID string   `json:"merchant_id"`
	APIToken   string   `json:"api_token"`
	Features   []string `json:"features"`
}

func (a *Account) Supports(feature string) bool {
	for _, f := range a.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// StoreSettings is the per-store merchandising configuration.
type StoreSettings struct {
	BrandAttribute   string `json:"brand_attribute"`
	MaxProductLimit  int    `json:"max_product_limit"`
	PersonalizedSort bool   `json:"personalized_sort"`
}
