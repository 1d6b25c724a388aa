// Package router implements budget-aware model selection.
package router

import (
	"github.com/felixgeelhaar/agent-go/domain/router"
	"github.com/felixgeelhaar/agent-go/infrastructure/logging"
)

// budgetForcingCentsThreshold is the remaining-budget floor below which the
// router forces a FLASH-tier model regardless of quality score.
const budgetForcingCentsThreshold = 5

// ModelRouter selects a model candidate for a routing request.
type ModelRouter struct {
	candidates []router.ModelCandidate // insertion order, ties broken by it
}

// NewModelRouter creates a router over the given candidates, in registration order.
func NewModelRouter(candidates ...router.ModelCandidate) *ModelRouter {
	return &ModelRouter{candidates: candidates}
}

// Register appends a candidate to the router's pool.
func (r *ModelRouter) Register(c router.ModelCandidate) {
	r.candidates = append(r.candidates, c)
}

// Route implements router.Router.
func (r *ModelRouter) Route(req router.RouteRequest) (router.RouteResult, error) {
	if len(r.candidates) == 0 {
		return router.RouteResult{}, router.ErrNoCandidates
	}

	complexity := req.ComplexityHint
	if complexity == "" {
		complexity = router.InferComplexity(req.Prompt)
	}

	qualified := make([]router.ModelCandidate, 0, len(r.candidates))
	for _, c := range r.candidates {
		if c.QualityScores[complexity] >= req.Budget.MinQuality {
			qualified = append(qualified, c)
		}
	}

	if len(qualified) == 0 {
		fallback := r.candidates[0]
		logging.Warn().
			Add(logging.Str("model", fallback.ID)).
			Add(logging.Str("complexity", string(complexity))).
			Msg("no model met the quality floor, falling back to first registered model")
		return router.RouteResult{
			ModelID:    fallback.ID,
			Tier:       fallback.Tier,
			Complexity: complexity,
			Reason:     "no candidate met the minimum quality floor; using first registered model",
			Warning:    true,
		}, nil
	}

	if req.Budget.RemainingCostCents < budgetForcingCentsThreshold {
		for _, c := range qualified {
			if c.Tier == router.TierFlash {
				return router.RouteResult{
					ModelID:    c.ID,
					Tier:       c.Tier,
					Complexity: complexity,
					Reason:     "remaining budget below 5 cents; forcing flash-tier model",
				}, nil
			}
		}
	}

	best := qualified[0]
	bestScore := score(best, complexity)
	for _, c := range qualified[1:] {
		s := score(c, complexity)
		if s > bestScore {
			best, bestScore = c, s
		}
	}

	return router.RouteResult{
		ModelID:    best.ID,
		Tier:       best.Tier,
		Complexity: complexity,
		Reason:     "highest quality-per-cost score among qualified candidates",
	}, nil
}

func score(c router.ModelCandidate, complexity router.Complexity) float64 {
	return c.QualityScores[complexity] / (c.AverageCostPer1K + 0.1)
}
