package ranking

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/jonathan/trip-planner/internal/llm"
	"github.com/jonathan/trip-planner/internal/prompts"
	"github.com/jonathan/trip-planner/internal/schemas"
	"github.com/jonathan/trip-planner/internal/types"
)

// modelEntry is one element of the expected model response: a
// zero-based index into the candidate list plus a score.
type modelEntry struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// rankViaModel asks the model to score the candidates and maps the
// response back onto them. Any malformed response is an error; the
// caller falls back to the heuristic.
func rankViaModel[T types.Candidate](ctx context.Context, client llm.Client, role string, candidates []T, rc Context, topK int) ([]types.Scored[T], error) {
	prompt, err := buildRankPrompt(role, candidates, rc, topK)
	if err != nil {
		return nil, err
	}

	resp, err := client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("model generation failed: %w", err)
	}

	resp = llm.CleanJSONBlock(resp)
	if err := schemas.ValidateRankingResponse(resp); err != nil {
		return nil, fmt.Errorf("model response failed schema validation: %w", err)
	}

	var entries []modelEntry
	if err := json.Unmarshal([]byte(resp), &entries); err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}

	seen := make(map[int]bool, len(entries))
	ranked := make([]types.Scored[T], 0, len(entries))
	for _, e := range entries {
		if e.Index < 0 || e.Index >= len(candidates) || seen[e.Index] {
			continue
		}
		seen[e.Index] = true
		ranked = append(ranked, types.Scored[T]{
			Candidate: candidates[e.Index],
			Score:     clampScore(e.Score),
		})
	}
	if len(ranked) == 0 {
		return nil, fmt.Errorf("model response contained no usable entries")
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if topK > 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked, nil
}

func buildRankPrompt[T types.Candidate](role string, candidates []T, rc Context, topK int) (string, error) {
	candidateJSON, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode candidates: %w", err)
	}

	cuisine := rc.Cuisine
	if cuisine == "" {
		cuisine = "none"
	}

	template := prompts.MustGet("ranking.json", "rank-candidates")
	return prompts.Format(template, map[string]string{
		"Role":        role,
		"Destination": rc.Destination,
		"StartDate":   rc.StartDate,
		"EndDate":     rc.EndDate,
		"RoleBudget":  strconv.FormatFloat(rc.RoleBudget, 'f', 2, 64),
		"Cuisine":     cuisine,
		"Candidates":  string(candidateJSON),
		"TopK":        strconv.Itoa(topK),
	}), nil
}
