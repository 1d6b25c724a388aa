// Package wellbeing implements the concern/scam scoring guard over the
// static pattern tables in domain/wellbeing.
package wellbeing

import (
	"strings"
	"sync"
	"time"

	"github.com/felixgeelhaar/agent-go/domain/wellbeing"
	"github.com/felixgeelhaar/agent-go/infrastructure/logging"
)

const (
	maxRecurrenceEntries = 10
	maxAssessmentLog     = 100
	trimAssessmentLogTo  = 50
)

// Guard scores input against the concern and scam tables and tracks
// per-concern recurrence across calls.
type Guard struct {
	mu            sync.Mutex
	concerns      []wellbeing.ConcernPattern
	scams         []wellbeing.ScamPattern
	minConfidence float64
	recurThresh   int

	recurrence map[wellbeing.ConcernType][]time.Time
	log        []wellbeing.WellbeingAssessment
}

// New creates a Guard over the default concern and scam tables.
func New() *Guard {
	return &Guard{
		concerns:      wellbeing.ConcernTable(),
		scams:         wellbeing.ScamTable(),
		minConfidence: wellbeing.DefaultMinConfidence,
		recurThresh:   wellbeing.DefaultRecurrenceThreshold,
		recurrence:    make(map[wellbeing.ConcernType][]time.Time),
	}
}

// Assess scores input against both tables and returns the combined
// assessment. detectedEmotion is the caller's best guess at the speaker's
// emotional state (e.g. "LONELINESS"), used for the emotion-correlation
// bonus; pass "" if unknown.
func (g *Guard) Assess(input string, detectedEmotion string) wellbeing.WellbeingAssessment {
	lower := strings.ToLower(input)

	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	var concerns []wellbeing.DetectedConcern
	for _, pattern := range g.concerns {
		score, evidence := scorePattern(lower, pattern.Keywords, pattern.Phrases, pattern.Weight)
		if pattern.CorrelatedEmotion != "" && detectedEmotion == pattern.CorrelatedEmotion {
			score += 0.3
		}
		if len(evidence) == 0 || score < g.minConfidence {
			continue
		}
		recurring := g.trackRecurrence(pattern.Type, now)
		concerns = append(concerns, wellbeing.DetectedConcern{
			Type:      pattern.Type,
			Score:     score,
			Severity:  wellbeing.BucketSeverity(score),
			Evidence:  evidence,
			Recurring: recurring,
		})
	}

	var scams []wellbeing.DetectedScam
	for _, pattern := range g.scams {
		score, evidence := scorePattern(lower, pattern.Keywords, pattern.Phrases, 1.0)
		if len(evidence) == 0 || score < g.minConfidence {
			continue
		}
		severity := pattern.IntrinsicSeverity
		if bucket := wellbeing.BucketSeverity(score); severityRank(bucket) > severityRank(severity) {
			severity = bucket
		}
		scams = append(scams, wellbeing.DetectedScam{
			Type:     pattern.Type,
			Score:    score,
			Severity: severity,
			Evidence: evidence,
		})
	}

	assessment := g.buildAssessment(concerns, scams, now)
	g.appendLog(assessment)
	return assessment
}

func scorePattern(lower string, keywords, phrases []string, weight float64) (float64, []string) {
	var evidence []string
	var raw float64
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			raw += 0.3
			evidence = append(evidence, k)
		}
	}
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			raw += 0.5
			evidence = append(evidence, p)
		}
	}
	return raw * weight, evidence
}

func severityRank(s wellbeing.Severity) int {
	switch s {
	case wellbeing.SeverityCritical:
		return 4
	case wellbeing.SeverityHigh:
		return 3
	case wellbeing.SeverityModerate:
		return 2
	case wellbeing.SeverityLow:
		return 1
	default:
		return 0
	}
}

func isCriticalOverride(t wellbeing.ConcernType) bool {
	switch t {
	case wellbeing.ConcernSelfHarm, wellbeing.ConcernSuicidalIdeation, wellbeing.ConcernMedicalEmergency, wellbeing.ConcernAbuse:
		return true
	default:
		return false
	}
}

func (g *Guard) trackRecurrence(t wellbeing.ConcernType, now time.Time) bool {
	hist := append(g.recurrence[t], now)
	if len(hist) > maxRecurrenceEntries {
		hist = hist[len(hist)-maxRecurrenceEntries:]
	}
	g.recurrence[t] = hist
	return len(hist) >= g.recurThresh
}

func (g *Guard) buildAssessment(concerns []wellbeing.DetectedConcern, scams []wellbeing.DetectedScam, now time.Time) wellbeing.WellbeingAssessment {
	overall := wellbeing.SeverityNone
	hasCriticalOverride := false
	emergencyConcern := false
	confidence := 0.0

	for _, c := range concerns {
		if c.Score > confidence {
			confidence = c.Score
		}
		if severityRank(c.Severity) > severityRank(overall) {
			overall = c.Severity
		}
		if isCriticalOverride(c.Type) {
			hasCriticalOverride = true
			if c.Type == wellbeing.ConcernSuicidalIdeation || c.Type == wellbeing.ConcernSelfHarm || c.Type == wellbeing.ConcernMedicalEmergency {
				emergencyConcern = true
			}
		}
	}
	for _, s := range scams {
		if s.Score > confidence {
			confidence = s.Score
		}
		if severityRank(s.Severity) > severityRank(overall) {
			overall = s.Severity
		}
	}
	if hasCriticalOverride {
		overall = wellbeing.SeverityCritical
	}

	response := responseFor(overall, emergencyConcern)
	actions := recommendedActions(overall)

	assessment := wellbeing.WellbeingAssessment{
		OverallSeverity:         overall,
		Concerns:                concerns,
		Scams:                   scams,
		RequiresImmediateAction: overall == wellbeing.SeverityCritical,
		Response:                response,
		SuggestedResponse:       suggestedResponse(response, concerns, scams),
		RecommendedActions:      actions,
		Confidence:              confidence,
		Timestamp:               now,
		Justification:           justification(concerns, scams),
	}
	return assessment
}

func responseFor(overall wellbeing.Severity, emergency bool) wellbeing.ResponseType {
	switch overall {
	case wellbeing.SeverityCritical:
		if emergency {
			return wellbeing.ResponseEmergency
		}
		return wellbeing.ResponseEscalate
	case wellbeing.SeverityHigh:
		return wellbeing.ResponseSuggest
	case wellbeing.SeverityModerate:
		return wellbeing.ResponseEncourage
	case wellbeing.SeverityLow:
		return wellbeing.ResponseComfort
	default:
		return wellbeing.ResponseSupportive
	}
}

func recommendedActions(overall wellbeing.Severity) []wellbeing.RecommendedAction {
	actions := []wellbeing.RecommendedAction{
		{Action: wellbeing.ActionLog, Priority: 3},
	}
	switch overall {
	case wellbeing.SeverityCritical:
		actions = append(actions,
			wellbeing.RecommendedAction{Action: wellbeing.ActionCallEmergency, Priority: 1},
			wellbeing.RecommendedAction{Action: wellbeing.ActionNotifyCaregiver, Priority: 1},
		)
	case wellbeing.SeverityHigh:
		actions = append(actions,
			wellbeing.RecommendedAction{Action: wellbeing.ActionNotifyFamily, Priority: 2, RequiresConsent: true},
			wellbeing.RecommendedAction{Action: wellbeing.ActionRecommendProfessional, Priority: 2},
		)
	case wellbeing.SeverityModerate:
		actions = append(actions,
			wellbeing.RecommendedAction{Action: wellbeing.ActionScheduleFollowup, Priority: 3},
			wellbeing.RecommendedAction{Action: wellbeing.ActionProvideResources, Priority: 3},
		)
	}
	sortActionsByPriority(actions)
	return actions
}

func sortActionsByPriority(actions []wellbeing.RecommendedAction) {
	for i := 1; i < len(actions); i++ {
		for j := i; j > 0 && actions[j].Priority < actions[j-1].Priority; j-- {
			actions[j], actions[j-1] = actions[j-1], actions[j]
		}
	}
}

func suggestedResponse(response wellbeing.ResponseType, concerns []wellbeing.DetectedConcern, scams []wellbeing.DetectedScam) string {
	var b strings.Builder
	switch response {
	case wellbeing.ResponseEmergency:
		b.WriteString(wellbeing.LifelineText)
	case wellbeing.ResponseEscalate:
		b.WriteString("I'm concerned about what you shared, and I'd like to make sure you're safe. ")
		b.WriteString(wellbeing.LifelineText)
	case wellbeing.ResponseSuggest:
		b.WriteString("It sounds like this has been really hard. Would it help to reach out to someone you trust?")
	case wellbeing.ResponseEncourage:
		b.WriteString("Thank you for telling me. It might help to talk this through with someone close to you.")
	case wellbeing.ResponseComfort:
		b.WriteString("I hear you, and I'm glad you shared that with me.")
	default:
		b.WriteString("Thanks for sharing that with me.")
	}
	for _, s := range scams {
		if s.Type == wellbeing.ScamGrandparent {
			b.WriteString(" Please don't send money or gift cards before calling your grandchild directly or checking with another family member first.")
			break
		}
	}
	return b.String()
}

func justification(concerns []wellbeing.DetectedConcern, scams []wellbeing.DetectedScam) string {
	var parts []string
	for _, c := range concerns {
		parts = append(parts, string(c.Type))
	}
	for _, s := range scams {
		parts = append(parts, string(s.Type))
	}
	if len(parts) == 0 {
		return "no concerning patterns detected"
	}
	return "detected: " + strings.Join(parts, ", ")
}

func (g *Guard) appendLog(a wellbeing.WellbeingAssessment) {
	g.log = append(g.log, a)
	if len(g.log) > maxAssessmentLog {
		logging.Info().Msg("wellbeing assessment log exceeded cap, trimming")
		g.log = g.log[len(g.log)-trimAssessmentLogTo:]
	}
}

// Log returns a snapshot of the assessment history.
func (g *Guard) Log() []wellbeing.WellbeingAssessment {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]wellbeing.WellbeingAssessment, len(g.log))
	copy(out, g.log)
	return out
}

// HasMisinformation reports whether text contains a known
// medical-misinformation substring, gating the emergency disclaimer.
func HasMisinformation(text string) bool {
	lower := strings.ToLower(text)
	for _, s := range wellbeing.MedicalMisinformationSubstrings() {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
