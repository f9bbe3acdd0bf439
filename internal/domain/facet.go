package domain

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FilterSet is the normalized, service-facing filter bag. The same shape is
// used for include and exclude filters; the exclude side is carried for
// protocol symmetry and stays empty for now.
type FilterSet struct {
	Price        *PriceRange         `json:"price,omitempty"`
	Categories   []string            `json:"categories,omitempty"`
	Brands       []string            `json:"brands,omitempty"`
	CustomFields map[string][]string `json:"custom_fields,omitempty"`
}

func (f *FilterSet) SetPrice(min, max float64) {
	f.Price = &PriceRange{Min: min, Max: max}
}

func (f *FilterSet) SetCategories(categories []string) {
	f.Categories = categories
}

func (f *FilterSet) SetBrands(brands []string) {
	f.Brands = brands
}

// SetCustomField maps a custom-field key to exactly one value list per request.
func (f *FilterSet) SetCustomField(name string, values []string) {
	if f.CustomFields == nil {
		f.CustomFields = make(map[string][]string)
	}
	f.CustomFields[name] = values
}

// FacetBundle pairs the include and exclude filter sets produced by one
// normalization pass. It is owned exclusively by the request that carries it.
type FacetBundle struct {
	Include FilterSet `json:"include"`
	Exclude FilterSet `json:"exclude"`
}
