package merchandise

import "github.com/commercekit/category-merchandising/internal/domain"

// LastResultState remembers the most recent ranking result within one
// rendering pass, together with the pagination coordinates used to obtain it.
type LastResultState struct {
	Result          *domain.RankingResult
	LastUsedLimit   int
	LastFetchedPage int
}

// Pass is the per-request context of one rendering pass. It owns the
// last-result state and the at-most-once guard for the re-ordering hook.
// A new pass is created for every inbound listing render and is never shared
// across requests.
type Pass struct {
	state   *LastResultState
	handled bool
}

func NewPass() *Pass {
	return &Pass{}
}

// Record stores the outcome of a successful remote call. Written once per
// pass; there is no transition back to the empty state.
func (p *Pass) Record(result *domain.RankingResult, limitUsed, pageUsed int) {
	p.state = &LastResultState{
		Result:          result,
		LastUsedLimit:   limitUsed,
		LastFetchedPage: pageUsed,
	}
}

// Peek returns the recorded state, if any.
func (p *Pass) Peek() (LastResultState, bool) {
	if p.state == nil {
		return LastResultState{}, false
	}
	return *p.state, true
}

// Handled reports whether the re-ordering hook already ran in this pass.
func (p *Pass) Handled() bool {
	return p.handled
}

func (p *Pass) MarkHandled() {
	p.handled = true
}
