// Package router provides the domain model for complexity-aware model routing.
package router

import "strings"

// Complexity classifies the reasoning demand of a prompt.
type Complexity string

const (
	ComplexitySafetyCritical Complexity = "SAFETY_CRITICAL"
	ComplexityReasoning      Complexity = "REASONING"
	ComplexityExtraction     Complexity = "EXTRACTION"
	ComplexitySummarization  Complexity = "SUMMARIZATION"
	ComplexityClassification Complexity = "CLASSIFICATION"
)

// Tier groups models by cost/latency class.
type Tier string

const (
	TierFlash Tier = "FLASH"
	TierMini  Tier = "MINI"
	TierFull  Tier = "FULL"
)

// Budget bounds what RouteRequest may spend.
type Budget struct {
	RemainingCostCents int
	PerRequestCapCents int
	MinQuality         float64
}

// RouteRequest is the input to a routing decision.
type RouteRequest struct {
	Prompt         string
	ComplexityHint Complexity // empty means infer from Prompt
	Budget         Budget
}

// ModelCandidate describes a model the router may select.
type ModelCandidate struct {
	ID               string
	Tier             Tier
	QualityScores    map[Complexity]float64
	AverageCostPer1K float64 // cents per 1K tokens
}

// RouteResult is the routing decision.
type RouteResult struct {
	ModelID    string
	Tier       Tier
	Complexity Complexity
	Reason     string
	Warning    bool
}

// InferComplexity classifies a prompt when no hint is supplied. Matching is a
// case-insensitive substring scan evaluated in fixed priority order; the
// first family with a hit wins.
func InferComplexity(prompt string) Complexity {
	lower := strings.ToLower(prompt)

	safetyCritical := []string{"harm", "hurt", "emergency", "danger"}
	reasoning := []string{"plan", "reason", "step by step", "analyze"}
	extraction := []string{"extract", "list", "entities"}
	summarization := []string{"summarize", "tldr", "brief"}

	if containsAny(lower, safetyCritical) {
		return ComplexitySafetyCritical
	}
	if containsAny(lower, reasoning) {
		return ComplexityReasoning
	}
	if containsAny(lower, extraction) {
		return ComplexityExtraction
	}
	if containsAny(lower, summarization) {
		return ComplexitySummarization
	}
	if len(prompt) < 100 {
		return ComplexityClassification
	}
	return ComplexityReasoning
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// Router selects a model for a prompt under a budget.
type Router interface {
	Route(req RouteRequest) (RouteResult, error)
}
