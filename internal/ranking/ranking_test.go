package ranking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/trip-planner/internal/llm"
	"github.com/jonathan/trip-planner/internal/types"
)

// mockClient returns a canned response or error for every call.
type mockClient struct {
	response string
	err      error
	calls    int
}

func (m *mockClient) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	m.calls++
	return m.response, m.err
}

func (m *mockClient) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	m.calls++
	return m.response, m.err
}

func (m *mockClient) Close() error { return nil }

func sampleHotels() []types.Hotel {
	return []types.Hotel{
		{Name: "Agoda Plaza", Stars: 4, PricePerNight: 150, Rating: 8.9},
		{Name: "Budget Stay", Stars: 3, PricePerNight: 90, Rating: 7.8},
		{Name: "Luxury Resort", Stars: 5, PricePerNight: 300, Rating: 9.4},
	}
}

func TestRankHotels_Heuristic(t *testing.T) {
	ranker := NewRanker(nil)

	result := ranker.RankHotels(context.Background(), sampleHotels(), Context{}, 3)

	require.Len(t, result.Ranked, 3)
	assert.Equal(t, types.SourceHeuristic, result.Source)
	assert.Empty(t, result.FallbackReason)

	// 100 - 90 + 7.8 = 17.8 beats 100 - 150 + 8.9 (clamped to 1).
	assert.Equal(t, "Budget Stay", result.Ranked[0].Candidate.Name)
	assert.Equal(t, 17.8, result.Ranked[0].Score)

	// Scores stay in [1,100].
	for _, s := range result.Ranked {
		assert.GreaterOrEqual(t, s.Score, 1.0)
		assert.LessOrEqual(t, s.Score, 100.0)
	}
}

func TestRankHotels_HeuristicDeterministic(t *testing.T) {
	ranker := NewRanker(nil)

	first := ranker.RankHotels(context.Background(), sampleHotels(), Context{}, 3)
	second := ranker.RankHotels(context.Background(), sampleHotels(), Context{}, 3)

	assert.Equal(t, first, second)
}

func TestRankFlights_HeuristicTieKeepsProviderOrder(t *testing.T) {
	ranker := NewRanker(nil)
	// Both prices are high enough to clamp to score 1; the provider's
	// ascending price order must survive the tie.
	flights := []types.Flight{
		{Airline: "BudgetFly", Price: 200},
		{Airline: "MockAir", Price: 280},
	}

	result := ranker.RankFlights(context.Background(), flights, Context{}, 3)

	require.Len(t, result.Ranked, 2)
	assert.Equal(t, "BudgetFly", result.Ranked[0].Candidate.Airline)
	assert.Equal(t, 1.0, result.Ranked[0].Score)
}

func TestRankRestaurants_TopKTruncation(t *testing.T) {
	ranker := NewRanker(nil)
	restaurants := []types.Restaurant{
		{Name: "A", EstimatedPrice: 10},
		{Name: "B", EstimatedPrice: 20},
		{Name: "C", EstimatedPrice: 30},
		{Name: "D", EstimatedPrice: 40},
	}

	result := ranker.RankRestaurants(context.Background(), restaurants, Context{}, 2)

	require.Len(t, result.Ranked, 2)
	assert.Equal(t, "A", result.Ranked[0].Candidate.Name)
	assert.Equal(t, "B", result.Ranked[1].Candidate.Name)
}

func TestRank_EmptyInput(t *testing.T) {
	ranker := NewRanker(nil)

	result := ranker.RankFlights(context.Background(), nil, Context{}, 3)
	assert.Empty(t, result.Ranked)
}

func TestRankHotels_ModelPath(t *testing.T) {
	client := &mockClient{response: `[{"index":2,"score":95},{"index":0,"score":60}]`}
	ranker := NewRanker(client)

	result := ranker.RankHotels(context.Background(), sampleHotels(), Context{RoleBudget: 400}, 3)

	require.Len(t, result.Ranked, 2)
	assert.Equal(t, types.SourceModel, result.Source)
	assert.Equal(t, "Luxury Resort", result.Ranked[0].Candidate.Name)
	assert.Equal(t, 95.0, result.Ranked[0].Score)
	assert.Equal(t, "Agoda Plaza", result.Ranked[1].Candidate.Name)
}

func TestRankHotels_ModelErrorFallsBack(t *testing.T) {
	client := &mockClient{err: errors.New("quota exhausted")}
	ranker := NewRanker(client)

	result := ranker.RankHotels(context.Background(), sampleHotels(), Context{}, 3)

	assert.Equal(t, types.SourceHeuristic, result.Source)
	assert.Contains(t, result.FallbackReason, "quota exhausted")
	require.Len(t, result.Ranked, 3)
	assert.Equal(t, "Budget Stay", result.Ranked[0].Candidate.Name)
}

func TestRankHotels_MalformedModelResponseFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not json", "the best hotel is clearly the cheap one"},
		{"wrong shape", `{"winner": 1}`},
		{"out of range score", `[{"index":0,"score":900}]`},
		{"all indexes out of range", `[{"index":7,"score":50}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranker := NewRanker(&mockClient{response: tt.response})

			result := ranker.RankHotels(context.Background(), sampleHotels(), Context{}, 3)

			assert.Equal(t, types.SourceHeuristic, result.Source)
			assert.NotEmpty(t, result.FallbackReason)
			assert.NotEmpty(t, result.Ranked)
		})
	}
}

func TestRankHotels_ModelDuplicateIndexesDropped(t *testing.T) {
	client := &mockClient{response: `[{"index":1,"score":90},{"index":1,"score":80},{"index":0,"score":70}]`}
	ranker := NewRanker(client)

	result := ranker.RankHotels(context.Background(), sampleHotels(), Context{}, 3)

	require.Len(t, result.Ranked, 2)
	assert.Equal(t, "Budget Stay", result.Ranked[0].Candidate.Name)
	assert.Equal(t, "Agoda Plaza", result.Ranked[1].Candidate.Name)
}

func TestRankHotels_ModelFencedJSONAccepted(t *testing.T) {
	client := &mockClient{response: "```json\n[{\"index\":0,\"score\":88}]\n```"}
	ranker := NewRanker(client)

	result := ranker.RankHotels(context.Background(), sampleHotels(), Context{}, 3)

	assert.Equal(t, types.SourceModel, result.Source)
	require.Len(t, result.Ranked, 1)
	assert.Equal(t, "Agoda Plaza", result.Ranked[0].Candidate.Name)
}
