package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/commercekit/category-merchandising/internal/domain"
	"github.com/commercekit/category-merchandising/internal/listing"
	"github.com/commercekit/category-merchandising/internal/merchandise"
	"github.com/go-chi/chi/v5"
)

const (
	defaultPageSize = 24
	defaultSort     = "position"
)

// filterableAttributes declares the layered-navigation attributes this
// storefront exposes, with their frontend input kinds.
var filterableAttributes = map[string]domain.InputKind{
	"price":        domain.InputPrice,
	"color":        domain.InputMultiSelect,
	"size":         domain.InputMultiSelect,
	"manufacturer": domain.InputSelect,
	"material":     domain.InputSelect,
	"new":          domain.InputBoolean,
	"release_date": domain.InputDate,
}

// GET /stores/{store}/categories/{categoryID}/products
func (h *Handler) GetCategoryListing(w http.ResponseWriter, r *http.Request) {
	store, err := h.repo.GetStoreByCode(r.Context(), chi.URLParam(r, "store"))
	if err != nil {
		if errors.Is(err, domain.ErrStoreNotFound) {
			writeError(w, http.StatusNotFound, "store_not_found", "Store does not exist")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	categoryID, err := strconv.ParseInt(chi.URLParam(r, "categoryID"), 10, 64)
	if err != nil || categoryID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid category id")
		return
	}

	if _, err := h.repo.GetCategory(r.Context(), categoryID, store); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			writeError(w, http.StatusNotFound, "category_not_found", "Category does not exist")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	// Parse and validate page
	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		parsed, err := strconv.Atoi(pageStr)
		if err != nil || parsed < 1 || parsed > 10000 {
			writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid page parameter")
			return
		}
		page = parsed
	}

	// Parse page size; the merchandising core clamps it against the store's
	// configured maximum on its own.
	pageSize := defaultPageSize
	if sizeStr := r.URL.Query().Get("limit"); sizeStr != "" {
		if parsed, err := strconv.Atoi(sizeStr); err == nil {
			pageSize = parsed
		}
	}

	sort := r.URL.Query().Get("sort")
	if sort == "" {
		sort = defaultSort
	}

	query := h.repo.ProductListing(store, categoryID, page, pageSize)
	pass := merchandise.NewPass()

	outcome := h.pipeline.Render(r.Context(), listing.RenderInput{
		Pass:       pass,
		Store:      store,
		CategoryID: categoryID,
		Filters:    parseActiveFilters(r, categoryID),
		SortOrder:  sort,
		PageNumber: page - 1, // toolbar pages are 1-based, the protocol is 0-based
		Limit:      query.PageSize(),
		Cookies:    requestCookies{r: r},
		Query:      query,
	})

	products, err := h.repo.FetchListing(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	resp := ListingResponse{
		Store:      store.Code,
		CategoryID: categoryID,
		Page:       page,
		PageSize:   query.PageSize(),
		Sort:       sort,
		Products:   products,
		Ranking:    RankingMeta{Ranked: outcome.Ranked, FallbackReason: string(outcome.Reason)},
	}
	if outcome.Result != nil {
		resp.Ranking.TotalCount = outcome.Result.TotalCount
	}

	writeJSON(w, http.StatusOK, resp)
}

// parseActiveFilters turns layered-navigation query params into the
// platform-native filter descriptors the normalizer consumes.
func parseActiveFilters(r *http.Request, currentCategoryID int64) []domain.ActiveFilter {
	var filters []domain.ActiveFilter

	if catStr := r.URL.Query().Get("cat"); catStr != "" {
		if catID, err := strconv.ParseInt(catStr, 10, 64); err == nil && catID != currentCategoryID {
			filters = append(filters, domain.NewCategoryFilter(catID))
		}
	}

	for code, kind := range filterableAttributes {
		for _, raw := range r.URL.Query()[code] {
			if raw == "" {
				continue
			}
			filters = append(filters, domain.NewAttributeFilter(code, kind, raw, attributeRawValue(kind, raw)))
		}
	}

	return filters
}

// attributeRawValue reconstructs the platform's raw filter value from the
// query param: price params arrive as "min-max".
func attributeRawValue(kind domain.InputKind, raw string) any {
	if kind != domain.InputPrice {
		return raw
	}

	parts := strings.SplitN(raw, "-", 2)
	bounds := make([]any, 0, len(parts))
	for _, p := range parts {
		bounds = append(bounds, p)
	}
	return bounds
}

// requestCookies adapts the inbound request to the cookie reader the
// assembler expects.
type requestCookies struct {
	r *http.Request
}

func (c requestCookies) Cookie(name string) (string, bool) {
	cookie, err := c.r.Cookie(name)
	if err != nil {
		return "", false
	}
	return cookie.Value, true
}
