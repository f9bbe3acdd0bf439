package listing

import (
	"context"
	"log"

	"github.com/commercekit/category-merchandising/internal/domain"
	"github.com/commercekit/category-merchandising/internal/events"
	"github.com/commercekit/category-merchandising/internal/facet"
	"github.com/commercekit/category-merchandising/internal/merchandise"
)

// RankingClient executes an assembled request against the remote ranking
// service.
type RankingClient interface {
	Execute(ctx context.Context, req *domain.MerchandiseRequest) (*domain.RankingResult, error)
}

// ResultPublisher emits the post-ranking domain event. Publish failures never
// affect the render.
type ResultPublisher interface {
	PublishResult(ev events.ResultEvent) error
}

// Pipeline runs the full request-assembly and result-application flow for one
// category listing render.
type Pipeline struct {
	accounts   merchandise.AccountSource
	normalizer *facet.Normalizer
	assembler  *merchandise.Assembler
	client     RankingClient
	publisher  ResultPublisher
}

func NewPipeline(accounts merchandise.AccountSource, normalizer *facet.Normalizer, assembler *merchandise.Assembler, client RankingClient, publisher ResultPublisher) *Pipeline {
	return &Pipeline{
		accounts:   accounts,
		normalizer: normalizer,
		assembler:  assembler,
		client:     client,
		publisher:  publisher,
	}
}

// RenderInput is the per-render context handed in by the platform adapter.
type RenderInput struct {
	Pass       *merchandise.Pass
	Store      *domain.Store
	CategoryID int64
	Filters    []domain.ActiveFilter
	SortOrder  string
	PageNumber int // 0-based
	Limit      int
	Cookies    merchandise.CookieReader
	Query      ProductQuery
}

// Render re-orders the listing query by the remote ranking, or leaves it
// untouched and reports why. It never aborts the page render.
func (p *Pipeline) Render(ctx context.Context, in RenderInput) Outcome {
	if in.Pass.Handled() {
		return fallback(FallbackAlreadyHandled, nil)
	}
	in.Pass.MarkHandled()

	if in.SortOrder != domain.SortPersonalized {
		return fallback(FallbackNotPersonalized, nil)
	}

	settings, err := p.accounts.Settings(ctx, in.Store)
	if err != nil {
		return fallback(FallbackConfiguration, err)
	}
	if !settings.PersonalizedSort {
		return fallback(FallbackSortingDisabled, nil)
	}

	facets, err := p.normalizer.Normalize(ctx, in.Store, settings.BrandAttribute, in.Filters)
	if err != nil {
		// Proceed with whatever was successfully normalized.
		log.Printf("[listing] facet normalization degraded for store %q: %v", in.Store.Code, err)
	}

	req, err := p.assembler.Assemble(ctx, in.Pass, merchandise.Input{
		Store:      in.Store,
		Facets:     facets,
		PageNumber: in.PageNumber,
		Limit:      in.Limit,
		CategoryID: in.CategoryID,
		Cookies:    in.Cookies,
	})
	if err != nil {
		if domain.IsSessionCreationError(err) {
			return fallback(FallbackSession, err)
		}
		return fallback(FallbackConfiguration, err)
	}

	result, err := p.client.Execute(ctx, req)
	if err != nil {
		return fallback(FallbackTransport, err)
	}

	in.Pass.Record(result, req.Limit, req.PageNumber)

	if p.publisher != nil {
		ev := events.ResultEvent{
			StoreCode:  in.Store.Code,
			Category:   req.Category,
			ProductIDs: result.ProductIDs,
			TotalCount: result.TotalCount,
			Limit:      req.Limit,
			Page:       req.PageNumber,
		}
		if err := p.publisher.PublishResult(ev); err != nil {
			log.Printf("[listing] publish result event: %v", err)
		}
	}

	log.Printf("[listing] got %d / %d (total) ranked product ids for category %q, page %d, limit %d",
		len(result.ProductIDs), result.TotalCount, req.Category, req.PageNumber, req.Limit)

	if !Apply(result, in.Query) {
		return fallback(FallbackEmptyRanking, nil)
	}

	rankedRenders.Inc()
	return Outcome{Ranked: true, Result: result}
}

func fallback(reason FallbackReason, err error) Outcome {
	if err != nil {
		log.Printf("[listing] keeping native listing (%s): %v", reason, err)
	} else {
		log.Printf("[listing] keeping native listing (%s)", reason)
	}
	fallbackRenders.WithLabelValues(string(reason)).Inc()
	return Outcome{Reason: reason, Err: err}
}
