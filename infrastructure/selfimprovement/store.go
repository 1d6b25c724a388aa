// Package selfimprovement records execution history, maintains rolling
// baselines, and mines patterns and suggestions from it, wiring the
// domain/pattern and domain/suggestion policy-evolution types into the
// voice-biographer execution-mining domain.
package selfimprovement

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	domainpattern "github.com/felixgeelhaar/agent-go/domain/pattern"
	"github.com/felixgeelhaar/agent-go/domain/selfimprovement"
	domainsuggestion "github.com/felixgeelhaar/agent-go/domain/suggestion"
)

// Store holds execution history, baselines, mined patterns, and
// suggestions under a single lock, per the runtime's concurrency model:
// recordExecution performs baseline update, pattern mining, and anomaly
// detection atomically.
type Store struct {
	mu          sync.Mutex
	executions  []selfimprovement.ExecutionRecord
	baselines   map[string]*selfimprovement.Baseline
	patterns    []*domainpattern.Pattern
	learned     map[string]selfimprovement.LearnedPattern // PatternID -> LearnedPattern
	suggestions []*domainsuggestion.Suggestion
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		baselines: make(map[string]*selfimprovement.Baseline),
		learned:   make(map[string]selfimprovement.LearnedPattern),
	}
}

// RecordExecution appends an execution, updates its agent's rolling
// baseline, tags anomalies, mines patterns, and derives suggestions — all
// under one critical section.
func (s *Store) RecordExecution(rec selfimprovement.ExecutionRecord) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.updateBaseline(rec)
	s.tagAnomalies(&rec)
	s.executions = append(s.executions, rec)
	s.prune()
	s.minePatterns()
	s.deriveSuggestions()
}

func (s *Store) updateBaseline(rec selfimprovement.ExecutionRecord) {
	b, ok := s.baselines[rec.AgentID]
	if !ok {
		success := 0.0
		if rec.Outcome == selfimprovement.OutcomeSuccess {
			success = 1.0
		}
		satisfaction := 0.0
		if rec.Satisfaction != nil {
			satisfaction = *rec.Satisfaction
		}
		s.baselines[rec.AgentID] = &selfimprovement.Baseline{
			AgentID: rec.AgentID, SuccessRate: success, Duration: rec.Duration,
			Tokens: float64(rec.Tokens), CostCents: float64(rec.CostCents),
			Satisfaction: satisfaction, Samples: 1,
		}
		return
	}

	success := 0.0
	if rec.Outcome == selfimprovement.OutcomeSuccess {
		success = 1.0
	}
	a := selfimprovement.EMAAlpha
	b.SuccessRate = ema(b.SuccessRate, success, a)
	b.Duration = time.Duration(ema(float64(b.Duration), float64(rec.Duration), a))
	b.Tokens = ema(b.Tokens, float64(rec.Tokens), a)
	b.CostCents = ema(b.CostCents, float64(rec.CostCents), a)
	if rec.Satisfaction != nil {
		b.Satisfaction = ema(b.Satisfaction, *rec.Satisfaction, a)
	}
	b.Samples++
}

func ema(prev, sample, alpha float64) float64 {
	return alpha*sample + (1-alpha)*prev
}

func (s *Store) tagAnomalies(rec *selfimprovement.ExecutionRecord) {
	b, ok := s.baselines[rec.AgentID]
	if !ok || b.Samples < 10 {
		return
	}
	if float64(rec.Duration) > selfimprovement.AnomalyFactor*float64(b.Duration) {
		rec.ErrorPatterns = append(rec.ErrorPatterns, "unusually_slow")
	}
	if float64(rec.CostCents) > selfimprovement.AnomalyFactor*b.CostCents {
		rec.ErrorPatterns = append(rec.ErrorPatterns, "unusually_expensive")
	}
	if float64(rec.Tokens) > selfimprovement.AnomalyFactor*b.Tokens {
		rec.ErrorPatterns = append(rec.ErrorPatterns, "high_token_usage")
	}
}

func (s *Store) prune() {
	cutoff := time.Now().AddDate(0, 0, -selfimprovement.MaxAgeDays)
	kept := s.executions[:0]
	for _, rec := range s.executions {
		if rec.Timestamp.After(cutoff) {
			kept = append(kept, rec)
		}
	}
	s.executions = kept

	if len(s.executions) > selfimprovement.MaxExecutions {
		// Enforce the cap by recency: keep the newest MaxExecutions records.
		sort.Slice(s.executions, func(i, j int) bool {
			return s.executions[i].Timestamp.Before(s.executions[j].Timestamp)
		})
		s.executions = s.executions[len(s.executions)-selfimprovement.MaxExecutions:]
	}
}

// minePatterns emits up to four pattern families per call, wrapping each
// finding in a domain/pattern.Pattern so pattern lifecycle (evidence,
// significance) is governed by the teacher's existing type.
func (s *Store) minePatterns() {
	s.mineFailurePattern()
	s.mineSuccessPattern()
	s.mineTimeoutPattern()
	s.mineCostPattern()

	if len(s.patterns) > selfimprovement.MaxPatterns {
		s.patterns = s.patterns[len(s.patterns)-selfimprovement.MaxPatterns:]
	}
}

func (s *Store) mineFailurePattern() {
	var failures []selfimprovement.ExecutionRecord
	for _, r := range s.executions {
		if r.Outcome == selfimprovement.OutcomeFailure {
			failures = append(failures, r)
		}
	}
	if len(failures) < 3 {
		return
	}

	counts := make(map[string]int)
	for _, f := range failures {
		if f.ErrorTag != "" {
			counts[f.ErrorTag]++
		}
	}
	var topTag string
	topCount := 0
	for tag, c := range counts {
		if c > topCount {
			topTag, topCount = tag, c
		}
	}
	if topCount < 2 {
		return
	}

	confidence := float64(topCount) / float64(len(failures))
	p := domainpattern.NewPattern(domainpattern.PatternTypeRecurringFailure, "recurring failure: "+topTag, "repeated failure tag across executions")
	p.Confidence = confidence
	p.Frequency = topCount
	s.recordLearned(p, selfimprovement.PatternFailure,
		[]selfimprovement.PatternCondition{{Feature: "error_tag", Operator: selfimprovement.OpEquals, Value: topTag}},
		"investigate and address the "+topTag+" failure mode", confidence)
}

func (s *Store) mineSuccessPattern() {
	var successes []selfimprovement.ExecutionRecord
	for _, r := range s.executions {
		if r.Outcome == selfimprovement.OutcomeSuccess {
			successes = append(successes, r)
		}
	}
	if len(successes) == 0 {
		return
	}

	toolCounts := make(map[string]int)
	for _, r := range successes {
		seen := make(map[string]bool)
		for _, t := range r.ToolsUsed {
			if !seen[t] {
				toolCounts[t]++
				seen[t] = true
			}
		}
	}

	var combined []string
	for tool, c := range toolCounts {
		if float64(c)/float64(len(successes)) >= 0.5 {
			combined = append(combined, tool)
		}
	}
	if len(combined) == 0 {
		return
	}
	sort.Strings(combined)

	confidence := float64(len(successes)) / float64(len(s.executions))
	p := domainpattern.NewPattern(domainpattern.PatternTypeToolAffinity, "reliable tool combination", "tools consistently present in successful runs")
	p.Confidence = confidence
	p.Frequency = len(successes)
	_ = p.SetData(domainpattern.ToolAffinityData{Tools: combined, Correlation: confidence})
	s.recordLearned(p, selfimprovement.PatternSuccess, nil,
		"prefer the tool combination ["+strings.Join(combined, ", ")+"] for similar goals", confidence)
}

func (s *Store) mineTimeoutPattern() {
	var timeouts []selfimprovement.ExecutionRecord
	for _, r := range s.executions {
		if r.Outcome == selfimprovement.OutcomeTimeout {
			timeouts = append(timeouts, r)
		}
	}
	if len(timeouts) < 2 {
		return
	}

	var totalTokens, totalSteps int
	for _, t := range timeouts {
		totalTokens += t.Tokens
		totalSteps += len(t.ToolsUsed)
	}
	meanSteps := float64(totalSteps) / float64(len(timeouts))
	meanTokens := float64(totalTokens) / float64(len(timeouts))

	p := domainpattern.NewPattern(domainpattern.PatternTypeTimeout, "recurring timeout", "runs consistently exhaust their time budget")
	p.Confidence = float64(len(timeouts)) / float64(len(s.executions))
	p.Frequency = len(timeouts)
	_ = p.SetData(map[string]float64{"mean_steps": meanSteps, "mean_tokens": meanTokens})
	s.recordLearned(p, selfimprovement.PatternTimeout, nil,
		"raise the timeout budget or reduce task complexity for this agent", p.Confidence)
}

func (s *Store) mineCostPattern() {
	if len(s.executions) == 0 {
		return
	}
	var total float64
	for _, r := range s.executions {
		total += float64(r.CostCents)
	}
	mean := total / float64(len(s.executions))

	var expensive []selfimprovement.ExecutionRecord
	for _, r := range s.executions {
		if float64(r.CostCents) > 1.5*mean {
			expensive = append(expensive, r)
		}
	}
	if len(expensive) == 0 {
		return
	}

	wordCounts := make(map[string]int)
	for _, r := range expensive {
		seen := make(map[string]bool)
		for _, w := range strings.Fields(strings.ToLower(r.Goal)) {
			w = strings.Trim(w, ".,!?;:")
			if len(w) <= 3 || seen[w] {
				continue
			}
			seen[w] = true
			wordCounts[w]++
		}
	}
	var common []string
	for w, c := range wordCounts {
		if float64(c)/float64(len(expensive)) >= 0.5 {
			common = append(common, w)
		}
	}
	if len(common) == 0 {
		return
	}
	sort.Strings(common)

	confidence := float64(len(expensive)) / float64(len(s.executions))
	p := domainpattern.NewPattern(domainpattern.PatternTypeCostAnomaly, "expensive goal pattern", "goals sharing common terms consistently cost more than average")
	p.Confidence = confidence
	p.Frequency = len(expensive)
	s.recordLearned(p, selfimprovement.PatternCost, nil,
		"route goals mentioning ["+strings.Join(common, ", ")+"] to a cheaper model tier", confidence)
}

func (s *Store) recordLearned(p *domainpattern.Pattern, family selfimprovement.PatternFamily, conditions []selfimprovement.PatternCondition, recommendation string, confidence float64) {
	s.patterns = append(s.patterns, p)
	s.learned[p.ID] = selfimprovement.LearnedPattern{
		ID: p.ID, Family: family, Description: p.Description, Confidence: confidence,
		ObservationCount: p.Frequency, Conditions: conditions, Recommendation: recommendation,
		Impact: confidence, PatternID: p.ID,
	}
}

// deriveSuggestions converts patterns with confidence >= MinSuggestionConfidence
// into prioritized domain/suggestion.Suggestion values.
func (s *Store) deriveSuggestions() {
	var fresh []*domainsuggestion.Suggestion
	for _, lp := range s.learned {
		if lp.Confidence < selfimprovement.MinSuggestionConfidence {
			continue
		}
		isFailure := lp.Family == selfimprovement.PatternFailure
		priority := selfimprovement.Priority(lp.ObservationCount, lp.Confidence, isFailure)

		sugType := domainsuggestion.SuggestionTypeDecreaseBudget
		if lp.Family == selfimprovement.PatternTimeout {
			sugType = domainsuggestion.SuggestionTypeIncreaseBudget
		}
		sug := domainsuggestion.NewSuggestion(sugType, lp.Description, lp.Recommendation)
		sug.Confidence = lp.Confidence
		sug.Rationale = lp.Recommendation
		sug.AddPatternID(lp.PatternID)
		impact := domainsuggestion.ImpactLevelLow
		switch {
		case priority >= 4:
			impact = domainsuggestion.ImpactLevelHigh
		case priority >= 2.5:
			impact = domainsuggestion.ImpactLevelMedium
		}
		sug.Impact = impact
		_ = sug.SetChangeData(map[string]any{"priority": priority})
		fresh = append(fresh, sug)
	}

	sort.Slice(fresh, func(i, j int) bool {
		return priorityOf(fresh[i]) > priorityOf(fresh[j])
	})
	if len(fresh) > selfimprovement.MaxSuggestions {
		fresh = fresh[:selfimprovement.MaxSuggestions]
	}
	s.suggestions = fresh
}

func priorityOf(sug *domainsuggestion.Suggestion) float64 {
	var data struct {
		Priority float64 `json:"priority"`
	}
	_ = sug.GetChangeData(&data)
	return data.Priority
}

// Baseline returns the current rolling baseline for an agent, if any.
func (s *Store) Baseline(agentID string) (selfimprovement.Baseline, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.baselines[agentID]
	if !ok {
		return selfimprovement.Baseline{}, false
	}
	return *b, true
}

// Suggestions returns the current prioritized suggestion list.
func (s *Store) Suggestions() []*domainsuggestion.Suggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domainsuggestion.Suggestion, len(s.suggestions))
	copy(out, s.suggestions)
	return out
}

// Patterns returns the current mined pattern set.
func (s *Store) Patterns() []*domainpattern.Pattern {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domainpattern.Pattern, len(s.patterns))
	copy(out, s.patterns)
	return out
}

// Executions returns a snapshot of retained execution records.
func (s *Store) Executions() []selfimprovement.ExecutionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]selfimprovement.ExecutionRecord, len(s.executions))
	copy(out, s.executions)
	return out
}
