package domain

// SortPersonalized is the sort order key that hands the listing over to the
// remote ranking service.
const SortPersonalized = "personalized"

type FilterType string

const (
	FilterCategory  FilterType = "category"
	FilterAttribute FilterType = "attribute"
)

// InputKind mirrors the catalog platform's frontend input type of an attribute.
type InputKind string

const (
	InputPrice       InputKind = "price"
	InputSelect      InputKind = "select"
	InputMultiSelect InputKind = "multiselect"
	InputDate        InputKind = "date"
	InputBoolean     InputKind = "boolean"
)

// ActiveFilter is one shopper-selected navigation constraint, read-only from
// the platform's layered navigation state.
type ActiveFilter struct {
	Type          FilterType
	CategoryID    int64
	AttributeCode string
	InputKind     InputKind
	Label         string
	RawValue      any
}

func NewCategoryFilter(categoryID int64) ActiveFilter {
	return ActiveFilter{Type: FilterCategory, CategoryID: categoryID}
}

func NewAttributeFilter(code string, kind InputKind, label string, raw any) ActiveFilter {
	return ActiveFilter{
		Type:          FilterAttribute,
		AttributeCode: code,
		InputKind:     kind,
		Label:         label,
		RawValue:      raw,
	}
}
