package listing

import (
	"context"
	"errors"
	"testing"

	"github.com/commercekit/category-merchandising/internal/domain"
	"github.com/commercekit/category-merchandising/internal/events"
	"github.com/commercekit/category-merchandising/internal/facet"
	"github.com/commercekit/category-merchandising/internal/merchandise"
)

type stubAccounts struct {
	account  *domain.Account
	settings *domain.StoreSettings
}

func (s *stubAccounts) FindAccount(ctx context.Context, store *domain.Store) (*domain.Account, error) {
	return s.account, nil
}

func (s *stubAccounts) Settings(ctx context.Context, store *domain.Store) (*domain.StoreSettings, error) {
	return s.settings, nil
}

type stubSessions struct{}

func (stubSessions) CreateSession(ctx context.Context, store *domain.Store, account *domain.Account) (string, error) {
	return "session-1", nil
}

type stubNamer struct{}

func (stubNamer) CategoryPath(ctx context.Context, categoryID int64, store *domain.Store) (string, error) {
	return "Electronics/Phones", nil
}

type stubClient struct {
	result   *domain.RankingResult
	err      error
	requests []*domain.MerchandiseRequest
}

func (s *stubClient) Execute(ctx context.Context, req *domain.MerchandiseRequest) (*domain.RankingResult, error) {
	s.requests = append(s.requests, req)
	return s.result, s.err
}

type stubPublisher struct {
	published []events.ResultEvent
	err       error
}

func (s *stubPublisher) PublishResult(ev events.ResultEvent) error {
	s.published = append(s.published, ev)
	return s.err
}

type stubCookies map[string]string

func (s stubCookies) Cookie(name string) (string, bool) {
	v, ok := s[name]
	return v, ok
}

func newTestPipeline(accounts *stubAccounts, client *stubClient, publisher *stubPublisher) *Pipeline {
	normalizer := facet.NewNormalizer(stubNamer{})
	assembler := merchandise.NewAssembler(accounts, stubSessions{}, stubNamer{}, "merch_cid", "merch_preview")
	var pub ResultPublisher
	if publisher != nil {
		pub = publisher
	}
	return NewPipeline(accounts, normalizer, assembler, client, pub)
}

func enabledAccounts() *stubAccounts {
	return &stubAccounts{
		account: &domain.Account{
			MerchantID: "m-1",
			APIToken:   "tok",
			Features:   []string{domain.FeatureRankingAPI},
		},
		settings: &domain.StoreSettings{
			BrandAttribute:   "manufacturer",
			MaxProductLimit:  100,
			PersonalizedSort: true,
		},
	}
}

func renderInput(pass *merchandise.Pass, q ProductQuery) RenderInput {
	return RenderInput{
		Pass:       pass,
		Store:      &domain.Store{ID: 1, Code: "default"},
		CategoryID: 2,
		SortOrder:  domain.SortPersonalized,
		PageNumber: 0,
		Limit:      24,
		Cookies:    stubCookies{"merch_cid": "customer-1"},
		Query:      q,
	}
}

func TestRenderSuccess(t *testing.T) {
	client := &stubClient{result: &domain.RankingResult{
		ProductIDs:        []string{"10", "20", "30"},
		TotalCount:        3,
		ContinuationToken: "batch-2",
	}}
	publisher := &stubPublisher{}
	p := newTestPipeline(enabledAccounts(), client, publisher)

	q := &fakeQuery{}
	pass := merchandise.NewPass()
	outcome := p.Render(context.Background(), renderInput(pass, q))

	if !outcome.Ranked {
		t.Fatalf("expected ranked outcome, got fallback %q: %v", outcome.Reason, outcome.Err)
	}
	if len(q.ranked) != 3 || q.ranked[0] != 10 {
		t.Errorf("query not rewritten by rank: %v", q.ranked)
	}

	state, ok := pass.Peek()
	if !ok {
		t.Fatal("pass should record the result")
	}
	if state.LastUsedLimit != 24 || state.LastFetchedPage != 0 {
		t.Errorf("unexpected recorded coordinates: %+v", state)
	}

	if len(publisher.published) != 1 {
		t.Fatalf("expected one result event, got %d", len(publisher.published))
	}
	ev := publisher.published[0]
	if ev.Limit != 24 || ev.Page != 0 || ev.TotalCount != 3 {
		t.Errorf("unexpected event payload: %+v", ev)
	}
}

func TestRenderRunsAtMostOncePerPass(t *testing.T) {
	client := &stubClient{result: &domain.RankingResult{ProductIDs: []string{"10"}, TotalCount: 1}}
	p := newTestPipeline(enabledAccounts(), client, nil)

	pass := merchandise.NewPass()
	first := p.Render(context.Background(), renderInput(pass, &fakeQuery{}))
	second := p.Render(context.Background(), renderInput(pass, &fakeQuery{}))

	if !first.Ranked {
		t.Fatalf("first render should rank: %v", first.Err)
	}
	if second.Ranked || second.Reason != FallbackAlreadyHandled {
		t.Errorf("second render in the same pass must fall back, got %+v", second)
	}
	if len(client.requests) != 1 {
		t.Errorf("remote service must be called once per pass, got %d", len(client.requests))
	}
}

func TestRenderSkipsNonPersonalizedSort(t *testing.T) {
	client := &stubClient{}
	p := newTestPipeline(enabledAccounts(), client, nil)

	in := renderInput(merchandise.NewPass(), &fakeQuery{})
	in.SortOrder = "price_asc"

	outcome := p.Render(context.Background(), in)
	if outcome.Ranked || outcome.Reason != FallbackNotPersonalized {
		t.Errorf("expected sort_not_personalized fallback, got %+v", outcome)
	}
	if len(client.requests) != 0 {
		t.Errorf("remote service must not be called, got %d requests", len(client.requests))
	}
}

func TestRenderSkipsWhenSortingDisabled(t *testing.T) {
	accounts := enabledAccounts()
	accounts.settings.PersonalizedSort = false
	p := newTestPipeline(accounts, &stubClient{}, nil)

	outcome := p.Render(context.Background(), renderInput(merchandise.NewPass(), &fakeQuery{}))
	if outcome.Ranked || outcome.Reason != FallbackSortingDisabled {
		t.Errorf("expected personalized_sorting_disabled fallback, got %+v", outcome)
	}
}

func TestRenderMissingAccountFallsBack(t *testing.T) {
	accounts := enabledAccounts()
	accounts.account = nil
	q := &fakeQuery{}
	p := newTestPipeline(accounts, &stubClient{}, nil)

	outcome := p.Render(context.Background(), renderInput(merchandise.NewPass(), q))
	if outcome.Ranked || outcome.Reason != FallbackConfiguration {
		t.Errorf("expected configuration fallback, got %+v", outcome)
	}
	if !domain.IsMissingAccountError(outcome.Err) {
		t.Errorf("expected MissingAccountError, got %v", outcome.Err)
	}
	if q.ranked != nil || q.restricted != nil {
		t.Error("query must stay untouched on fallback")
	}
}

func TestRenderTransportErrorFallsBack(t *testing.T) {
	client := &stubClient{err: errors.New("connection refused")}
	q := &fakeQuery{}
	p := newTestPipeline(enabledAccounts(), client, nil)

	outcome := p.Render(context.Background(), renderInput(merchandise.NewPass(), q))
	if outcome.Ranked || outcome.Reason != FallbackTransport {
		t.Errorf("expected transport fallback, got %+v", outcome)
	}
	if q.ranked != nil {
		t.Error("query must stay untouched on transport failure")
	}
}

func TestRenderEmptyRankingFallsBack(t *testing.T) {
	client := &stubClient{result: &domain.RankingResult{}}
	q := &fakeQuery{}
	p := newTestPipeline(enabledAccounts(), client, nil)

	outcome := p.Render(context.Background(), renderInput(merchandise.NewPass(), q))
	if outcome.Ranked || outcome.Reason != FallbackEmptyRanking {
		t.Errorf("expected empty_ranking fallback, got %+v", outcome)
	}
	if q.ranked != nil || q.restricted != nil {
		t.Error("query must stay untouched on empty ranking")
	}
}

func TestRenderPublishFailureDoesNotAffectOutcome(t *testing.T) {
	client := &stubClient{result: &domain.RankingResult{ProductIDs: []string{"10"}, TotalCount: 1}}
	publisher := &stubPublisher{err: errors.New("broker down")}
	p := newTestPipeline(enabledAccounts(), client, publisher)

	outcome := p.Render(context.Background(), renderInput(merchandise.NewPass(), &fakeQuery{}))
	if !outcome.Ranked {
		t.Errorf("publish failure must not affect the render, got %+v", outcome)
	}
}
