package listing

import "github.com/commercekit/category-merchandising/internal/domain"

// FallbackReason names why a render kept the platform's native listing.
type FallbackReason string

const (
	FallbackAlreadyHandled  FallbackReason = "already_handled"
	FallbackNotPersonalized FallbackReason = "sort_not_personalized"
	FallbackSortingDisabled FallbackReason = "personalized_sorting_disabled"
	FallbackConfiguration   FallbackReason = "configuration"
	FallbackSession         FallbackReason = "session"
	FallbackTransport       FallbackReason = "transport"
	FallbackEmptyRanking    FallbackReason = "empty_ranking"
)

// Outcome makes the ranked-or-native decision an explicit value instead of a
// swallowed exception. In every fallback case the shopper still gets the
// native listing; the reason is only visible in logs and telemetry.
type Outcome struct {
	Ranked bool
	Reason FallbackReason
	Err    error
	Result *domain.RankingResult
}
