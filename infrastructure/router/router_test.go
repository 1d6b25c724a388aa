package router

import (
	"testing"

	"github.com/felixgeelhaar/agent-go/domain/router"
)

func flash() router.ModelCandidate {
	return router.ModelCandidate{
		ID:   "flash-1",
		Tier: router.TierFlash,
		QualityScores: map[router.Complexity]float64{
			router.ComplexityClassification: 0.7,
			router.ComplexityReasoning:      0.5,
		},
		AverageCostPer1K: 0.1,
	}
}

func full() router.ModelCandidate {
	return router.ModelCandidate{
		ID:   "full-1",
		Tier: router.TierFull,
		QualityScores: map[router.Complexity]float64{
			router.ComplexityClassification: 0.9,
			router.ComplexityReasoning:      0.95,
		},
		AverageCostPer1K: 2.0,
	}
}

func TestModelRouter_NoCandidates(t *testing.T) {
	t.Parallel()
	r := NewModelRouter()
	_, err := r.Route(router.RouteRequest{Prompt: "hi"})
	if err != router.ErrNoCandidates {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
}

func TestModelRouter_FallsBackWhenNoneQualify(t *testing.T) {
	t.Parallel()
	r := NewModelRouter(flash(), full())
	result, err := r.Route(router.RouteRequest{
		Prompt:         "classify this",
		ComplexityHint: router.ComplexityClassification,
		Budget:         router.Budget{MinQuality: 0.99},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Warning {
		t.Error("expected warning flag when falling back")
	}
	if result.ModelID != "flash-1" {
		t.Errorf("expected fallback to first registered candidate, got %s", result.ModelID)
	}
}

func TestModelRouter_ForcesFlashUnderTightBudget(t *testing.T) {
	t.Parallel()
	r := NewModelRouter(flash(), full())
	result, err := r.Route(router.RouteRequest{
		Prompt:         "reason about this",
		ComplexityHint: router.ComplexityReasoning,
		Budget:         router.Budget{RemainingCostCents: 3, MinQuality: 0.4},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Tier != router.TierFlash {
		t.Errorf("expected flash tier forced under tight budget, got %s", result.Tier)
	}
}

func TestModelRouter_PicksHighestQualityPerCost(t *testing.T) {
	t.Parallel()
	r := NewModelRouter(flash(), full())
	result, err := r.Route(router.RouteRequest{
		Prompt:         "classify this",
		ComplexityHint: router.ComplexityClassification,
		Budget:         router.Budget{RemainingCostCents: 1000, MinQuality: 0.5},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// flash: 0.7/(0.1+0.1)=3.5   full: 0.9/(2.0+0.1)=0.43 -> flash wins
	if result.ModelID != "flash-1" {
		t.Errorf("expected flash-1 to win on quality-per-cost, got %s", result.ModelID)
	}
	if result.Warning {
		t.Error("did not expect warning on a clean qualified route")
	}
}
