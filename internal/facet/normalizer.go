package facet

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/commercekit/category-merchandising/internal/domain"
)

// CategoryNamer resolves a category id to a store-scoped display path.
type CategoryNamer interface {
	CategoryPath(ctx context.Context, categoryID int64, store *domain.Store) (string, error)
}

// Normalizer maps the platform's heterogeneous active filters into the
// normalized filter protocol understood by the ranking service.
type Normalizer struct {
	categories CategoryNamer
}

func NewNormalizer(categories CategoryNamer) *Normalizer {
	return &Normalizer{categories: categories}
}

// Normalize builds the facet bundle for one listing render. brandAttribute is
// the store's configured brand attribute code, resolved by the caller before
// the pass starts. On a coercion failure the bundle populated so far is
// returned together with the error; the caller decides whether to keep it.
func (n *Normalizer) Normalize(ctx context.Context, store *domain.Store, brandAttribute string, filters []domain.ActiveFilter) (domain.FacetBundle, error) {
	bundle := domain.FacetBundle{}

	for _, f := range filters {
		if err := n.mapIncludeFilter(ctx, store, &bundle.Include, brandAttribute, f); err != nil {
			return bundle, err
		}
	}

	return bundle, nil
}

func (n *Normalizer) mapIncludeFilter(ctx context.Context, store *domain.Store, include *domain.FilterSet, brandAttribute string, f domain.ActiveFilter) error {
	if f.Type == domain.FilterCategory {
		path, err := n.categories.CategoryPath(ctx, f.CategoryID, store)
		if err != nil || path == "" {
			// A missing category must never abort the whole normalization.
			log.Printf("[facet] could not get category %d from filters: %v", f.CategoryID, err)
			return nil
		}
		return mapValueToFilter(store, include, brandAttribute, "category", path)
	}

	if f.AttributeCode == "" {
		log.Printf("[facet] skipping filter without attribute code")
		return nil
	}

	var value any
	switch f.InputKind {
	case domain.InputPrice:
		value = f.RawValue
	case domain.InputSelect, domain.InputMultiSelect:
		value = f.Label
	case domain.InputBoolean:
		value = truthy(f.RawValue)
	case domain.InputDate:
		log.Printf("[facet] date attribute %q is not supported in include filters", f.AttributeCode)
		return nil
	default:
		log.Printf("[facet] cannot build include filter for %q frontend input type", f.InputKind)
		return nil
	}

	return mapValueToFilter(store, include, brandAttribute, f.AttributeCode, value)
}

// mapValueToFilter dispatches one normalized value by attribute code,
// case-insensitive.
func mapValueToFilter(store *domain.Store, include *domain.FilterSet, brandAttribute, name string, value any) error {
	switch strings.ToLower(name) {
	case "price":
		min, max, err := priceBounds(store, name, value)
		if err != nil {
			return err
		}
		include.SetPrice(min, max)
	case "new":
		values, err := valueList(store, name, yesNo(truthy(value)))
		if err != nil {
			return err
		}
		include.SetCustomField(name, values)
	case "category":
		path, ok := value.(string)
		if !ok {
			return &domain.FacetValueError{StoreCode: store.Code, Field: name, Value: value}
		}
		include.SetCategories([]string{path})
	case strings.ToLower(brandAttribute):
		values, err := valueList(store, name, value)
		if err != nil {
			return err
		}
		include.SetBrands(values)
	default:
		values, err := valueList(store, name, value)
		if err != nil {
			return err
		}
		include.SetCustomField(name, values)
	}
	return nil
}

// valueList coerces a filter value to the list-of-strings shape: scalars wrap
// into a single-element list, booleans become "Yes"/"No", lists pass through.
func valueList(store *domain.Store, name string, value any) ([]string, error) {
	switch v := value.(type) {
	case string:
		return []string{v}, nil
	case bool:
		return []string{yesNo(v)}, nil
	case int:
		return []string{strconv.Itoa(v)}, nil
	case int64:
		return []string{strconv.FormatInt(v, 10)}, nil
	case float64:
		return []string{strconv.FormatFloat(v, 'f', -1, 64)}, nil
	case []string:
		return v, nil
	case []any:
		values := make([]string, 0, len(v))
		for _, item := range v {
			scalar, err := valueList(store, name, item)
			if err != nil || len(scalar) != 1 {
				return nil, &domain.FacetValueError{StoreCode: store.Code, Field: name, Value: value}
			}
			values = append(values, scalar[0])
		}
		return values, nil
	default:
		return nil, &domain.FacetValueError{StoreCode: store.Code, Field: name, Value: value}
	}
}

// priceBounds reads the raw price filter value, expected to be array-like of
// numbers, and returns its min and max.
func priceBounds(store *domain.Store, name string, value any) (float64, float64, error) {
	nums, ok := numbers(value)
	if !ok || len(nums) == 0 {
		return 0, 0, &domain.FacetValueError{StoreCode: store.Code, Field: name, Value: value}
	}

	min, max := nums[0], nums[0]
	for _, n := range nums[1:] {
		if n < min {
			min = n
		}
		if n > max {
			max = n
		}
	}
	return min, max, nil
}

func numbers(value any) ([]float64, bool) {
	switch v := value.(type) {
	case []float64:
		return v, true
	case []int:
		nums := make([]float64, len(v))
		for i, n := range v {
			nums[i] = float64(n)
		}
		return nums, true
	case []any:
		nums := make([]float64, 0, len(v))
		for _, item := range v {
			n, ok := number(item)
			if !ok {
				return nil, false
			}
			nums = append(nums, n)
		}
		return nums, true
	default:
		if n, ok := number(value); ok {
			return []float64{n}, true
		}
		return nil, false
	}
}

func number(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(v, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(v) {
		case "", "0", "false", "no":
			return false
		default:
			return true
		}
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		return value != nil
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
