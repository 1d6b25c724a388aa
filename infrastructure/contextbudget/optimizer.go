// Package contextbudget fits prioritized content into a token cap and
// derives a stable cache-friendly prefix from the result.
package contextbudget

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/felixgeelhaar/agent-go/domain/contextbudget"
)

// Optimizer assembles prompts under a fixed token budget.
type Optimizer struct {
	maxTokens int
}

// New creates an Optimizer with the given token cap.
func New(maxTokens int) *Optimizer {
	return &Optimizer{maxTokens: maxTokens}
}

// Optimize sorts sources by priority (descending, ties broken by input
// order), always includes required sources, and greedily appends the rest
// until the token cap is reached.
func (o *Optimizer) Optimize(sources []contextbudget.ContentSource) contextbudget.OptimizedContext {
	ordered := make([]contextbudget.ContentSource, len(sources))
	copy(ordered, sources)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	var included, dropped []contextbudget.ContentSource
	total := 0

	for _, s := range ordered {
		if !s.Required {
			continue
		}
		included = append(included, s)
		total += contextbudget.EstimateTokens(s.Content)
	}

	for _, s := range ordered {
		if s.Required {
			continue
		}
		cost := contextbudget.EstimateTokens(s.Content)
		if total+cost > o.maxTokens {
			dropped = append(dropped, s)
			continue
		}
		included = append(included, s)
		total += cost
	}

	// Re-sort included by priority so the assembled prefix is deterministic
	// regardless of the required/optional split above.
	sort.SliceStable(included, func(i, j int) bool {
		return included[i].Priority > included[j].Priority
	})

	prefix := stablePrefix(included)
	return contextbudget.OptimizedContext{
		Included:     included,
		Dropped:      dropped,
		TotalTokens:  total,
		StablePrefix: prefix,
		PrefixHash:   hashPrefix(prefix),
	}
}

// stablePrefix concatenates the always-required, highest-priority sources
// whose content does not change between calls, so the resulting string can
// anchor a prompt cache key across runs with differing optional content.
func stablePrefix(included []contextbudget.ContentSource) string {
	var b strings.Builder
	for _, s := range included {
		if !s.Required {
			continue
		}
		b.WriteString(string(s.Type))
		b.WriteString(":")
		b.WriteString(s.Content)
		b.WriteString("\n")
	}
	return b.String()
}

func hashPrefix(prefix string) string {
	h := sha256.New()
	h.Write([]byte(prefix))
	return hex.EncodeToString(h.Sum(nil))
}
