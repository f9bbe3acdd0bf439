package merchandise

import (
	"context"
	"log"
	"strings"

	"github.com/commercekit/category-merchandising/internal/domain"
)

// AccountSource looks up the ranking account and merchandising settings
// configured for a store.
type AccountSource interface {
	FindAccount(ctx context.Context, store *domain.Store) (*domain.Account, error)
	Settings(ctx context.Context, store *domain.Store) (*domain.StoreSettings, error)
}

// SessionCreator mints a new tracking identity when the shopper has none.
type SessionCreator interface {
	CreateSession(ctx context.Context, store *domain.Store, account *domain.Account) (string, error)
}

// CategoryNamer resolves the browsed category to a display path.
type CategoryNamer interface {
	CategoryPath(ctx context.Context, categoryID int64, store *domain.Store) (string, error)
}

// CookieReader reads request cookies by name.
type CookieReader interface {
	Cookie(name string) (string, bool)
}

// Assembler builds a fully-specified merchandise request for one listing
// render.
type Assembler struct {
	accounts   AccountSource
	sessions   SessionCreator
	categories CategoryNamer

	customerCookie string
	previewCookie  string
}

func NewAssembler(accounts AccountSource, sessions SessionCreator, categories CategoryNamer, customerCookie, previewCookie string) *Assembler {
	return &Assembler{
		accounts:       accounts,
		sessions:       sessions,
		categories:     categories,
		customerCookie: customerCookie,
		previewCookie:  previewCookie,
	}
}

// Input carries the per-render context needed to assemble a request.
type Input struct {
	Store      *domain.Store
	Facets     domain.FacetBundle
	PageNumber int // 0-based
	Limit      int
	CategoryID int64 // 0 means no category context
	Cookies    CookieReader
}

// Assemble resolves account, identity, category and pagination state into an
// immutable MerchandiseRequest.
func (a *Assembler) Assemble(ctx context.Context, pass *Pass, in Input) (*domain.MerchandiseRequest, error) {
	account, err := a.accounts.FindAccount(ctx, in.Store)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, &domain.MissingAccountError{StoreCode: in.Store.Code}
	}

	if !account.Supports(domain.FeatureRankingAPI) {
		return nil, &domain.MissingTokenError{StoreCode: in.Store.Code, Capability: domain.FeatureRankingAPI}
	}

	customerID, ok := in.Cookies.Cookie(a.customerCookie)
	if !ok || customerID == "" {
		// New session which the ranking service won't track.
		customerID, err = a.sessions.CreateSession(ctx, in.Store, account)
		if err != nil {
			return nil, &domain.SessionCreationError{StoreCode: in.Store.Code, Err: err}
		}
	}

	settings, err := a.accounts.Settings(ctx, in.Store)
	if err != nil {
		return nil, err
	}
	limit := sanitizeLimit(in.Limit, settings.MaxProductLimit)

	category := ""
	if in.CategoryID != 0 {
		category, err = a.categories.CategoryPath(ctx, in.CategoryID, in.Store)
		if err != nil {
			return nil, err
		}
	}

	preview := false
	if v, ok := in.Cookies.Cookie(a.previewCookie); ok {
		preview = truthyCookie(v)
	}

	// Continuation-token reuse is valid only when both pagination coordinates
	// are unchanged from the last fetch in this pass.
	token := ""
	if state, ok := pass.Peek(); ok &&
		state.LastUsedLimit == limit &&
		state.LastFetchedPage == in.PageNumber {
		token = state.Result.ContinuationToken
	}

	return &domain.MerchandiseRequest{
		Account:           account,
		Facets:            in.Facets,
		CustomerID:        customerID,
		Category:          category,
		PageNumber:        in.PageNumber,
		Limit:             limit,
		PreviewMode:       preview,
		ContinuationToken: token,
	}, nil
}

func truthyCookie(v string) bool {
	switch strings.ToLower(v) {
	case "", "0", "false", "no":
		return false
	default:
		return true
	}
}

func sanitizeLimit(limit, maxLimit int) int {
	if limit <= 0 || limit > maxLimit {
		log.Printf("[merchandise] limit set to %d - original limit was %d", maxLimit, limit)
		return maxLimit
	}
	return limit
}
