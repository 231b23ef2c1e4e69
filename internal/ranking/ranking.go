// Package ranking reorders short candidate lists by desirability. A
// live language-model backend scores candidates when configured; a
// deterministic price-and-rating heuristic covers offline use and every
// failure mode, so a ranking is always produced.
package ranking

import (
	"context"
	"sort"

	"github.com/jonathan/trip-planner/internal/llm"
	"github.com/jonathan/trip-planner/internal/types"
)

// Context carries the budget and preference signals a ranking call can
// weigh against price.
type Context struct {
	Destination string
	StartDate   string
	EndDate     string
	Cuisine     string
	// RoleBudget is the budget allocated to the category being ranked.
	RoleBudget float64
	Nights     int
}

// Result is the outcome of ranking one candidate list. Source tells
// callers whether the model or the heuristic produced the ordering;
// FallbackReason is set only when the heuristic ran because the model
// path failed.
type Result[T types.Candidate] struct {
	Ranked         []types.Scored[T]
	Source         types.Source
	FallbackReason string
}

// Ranker scores and reorders candidate lists. The backend variant is
// fixed at construction: with a nil client every call takes the
// deterministic heuristic path.
type Ranker struct {
	client llm.Client
}

// NewRanker creates a Ranker. Pass a nil client to force the
// deterministic heuristic backend.
func NewRanker(client llm.Client) *Ranker {
	return &Ranker{client: client}
}

// RankFlights ranks flight candidates, best first, truncated to topK.
func (r *Ranker) RankFlights(ctx context.Context, candidates []types.Flight, rc Context, topK int) Result[types.Flight] {
	return rankCandidates(ctx, r, "flight", candidates, rc, topK)
}

// RankHotels ranks hotel candidates, best first, truncated to topK.
func (r *Ranker) RankHotels(ctx context.Context, candidates []types.Hotel, rc Context, topK int) Result[types.Hotel] {
	return rankCandidates(ctx, r, "hotel", candidates, rc, topK)
}

// RankRestaurants ranks restaurant candidates, best first, truncated to topK.
func (r *Ranker) RankRestaurants(ctx context.Context, candidates []types.Restaurant, rc Context, topK int) Result[types.Restaurant] {
	return rankCandidates(ctx, r, "restaurant", candidates, rc, topK)
}

// rankCandidates dispatches to the model backend when available and
// falls back to the heuristic on any failure.
func rankCandidates[T types.Candidate](ctx context.Context, r *Ranker, role string, candidates []T, rc Context, topK int) Result[T] {
	if len(candidates) == 0 {
		return Result[T]{Source: types.SourceHeuristic}
	}

	if r.client != nil {
		ranked, err := rankViaModel(ctx, r.client, role, candidates, rc, topK)
		if err == nil {
			return Result[T]{Ranked: ranked, Source: types.SourceModel}
		}
		return Result[T]{
			Ranked:         rankHeuristic(candidates, topK),
			Source:         types.SourceHeuristic,
			FallbackReason: err.Error(),
		}
	}

	return Result[T]{Ranked: rankHeuristic(candidates, topK), Source: types.SourceHeuristic}
}

// rankHeuristic scores candidates as 100 - price + rating, clamped to
// [1,100]. Cheaper and better-rated candidates win; ties keep input
// order, which is the provider's own price/rating ordering.
func rankHeuristic[T types.Candidate](candidates []T, topK int) []types.Scored[T] {
	scored := make([]types.Scored[T], 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, types.Scored[T]{
			Candidate: c,
			Score:     clampScore(100 - c.PriceValue() + c.RatingValue()),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if topK > 0 && len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}

func clampScore(score float64) float64 {
	if score < 1 {
		return 1
	}
	if score > 100 {
		return 100
	}
	return types.Round2(score)
}
