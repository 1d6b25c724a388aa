// Package wellbeing provides the domain model for the wellbeing and scam
// guard: static pattern tables, severity scoring, and the resulting
// assessment a caller acts on.
package wellbeing

import "time"

// Severity buckets an assessment or a single detected concern.
type Severity string

const (
	SeverityNone     Severity = "NONE"
	SeverityLow      Severity = "LOW"
	SeverityModerate Severity = "MODERATE"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// ResponseType is how the runtime should react to an assessment.
type ResponseType string

const (
	ResponseSupportive ResponseType = "SUPPORTIVE"
	ResponseComfort    ResponseType = "COMFORT"
	ResponseEncourage  ResponseType = "ENCOURAGE_HELP"
	ResponseSuggest    ResponseType = "SUGGEST_CONTACT"
	ResponseEscalate   ResponseType = "ESCALATE"
	ResponseEmergency  ResponseType = "EMERGENCY"
)

// ConcernType enumerates the wellbeing concerns the guard scans for.
type ConcernType string

const (
	ConcernLoneliness            ConcernType = "LONELINESS"
	ConcernDepression            ConcernType = "DEPRESSION"
	ConcernSelfHarm              ConcernType = "SELF_HARM"
	ConcernSuicidalIdeation      ConcernType = "SUICIDAL_IDEATION"
	ConcernCognitiveDecline      ConcernType = "COGNITIVE_DECLINE"
	ConcernDisorientation        ConcernType = "DISORIENTATION"
	ConcernMedicalEmergency      ConcernType = "MEDICAL_EMERGENCY"
	ConcernSubstanceAbuse        ConcernType = "SUBSTANCE_ABUSE"
	ConcernAbuse                 ConcernType = "ABUSE"
	ConcernFinancialExploitation ConcernType = "FINANCIAL_EXPLOITATION"
	ConcernFallRisk              ConcernType = "FALL_RISK"
	ConcernDistress              ConcernType = "DISTRESS"
)

// ScamType enumerates the scam patterns the guard scans for.
type ScamType string

const (
	ScamMoneyRequest           ScamType = "MONEY_REQUEST"
	ScamGovernmentImpersonation ScamType = "GOVERNMENT_IMPERSONATION"
	ScamTechSupport            ScamType = "TECH_SUPPORT"
	ScamRomance                ScamType = "ROMANCE"
	ScamLottery                ScamType = "LOTTERY"
	ScamGrandparent            ScamType = "GRANDPARENT"
	ScamMedicare               ScamType = "MEDICARE"
	ScamInvestment             ScamType = "INVESTMENT"
	ScamCharity                ScamType = "CHARITY"
	ScamPhishing               ScamType = "PHISHING"
)

// ActionType enumerates the recommended-action vocabulary.
type ActionType string

const (
	ActionLog                 ActionType = "LOG"
	ActionCallEmergency       ActionType = "CALL_EMERGENCY"
	ActionNotifyCaregiver     ActionType = "NOTIFY_CAREGIVER"
	ActionNotifyFamily        ActionType = "NOTIFY_FAMILY"
	ActionRecommendProfessional ActionType = "RECOMMEND_PROFESSIONAL"
	ActionScheduleFollowup    ActionType = "SCHEDULE_FOLLOWUP"
	ActionProvideResources    ActionType = "PROVIDE_RESOURCES"
)

// ConcernPattern is one entry in the static concern table.
type ConcernPattern struct {
	Type              ConcernType
	Keywords          []string // weight 0.3 each hit
	Phrases           []string // weight 0.5 each hit
	Weight            float64 // multiplier applied to summed evidence
	CriticalOverride  bool    // forces overall risk to CRITICAL when present
	CorrelatedEmotion string  // emotion label that, if present, adds +0.3
}

// ScamPattern is one entry in the static scam table.
type ScamPattern struct {
	Type             ScamType
	Keywords         []string
	Phrases          []string
	IntrinsicSeverity Severity
}

// DetectedConcern is evidence of a single concern found in an input.
type DetectedConcern struct {
	Type     ConcernType
	Score    float64
	Severity Severity
	Evidence []string
	Recurring bool
}

// DetectedScam is evidence of a single scam pattern found in an input.
type DetectedScam struct {
	Type     ScamType
	Score    float64
	Severity Severity
	Evidence []string
}

// RecommendedAction is one action the runner or a human should take.
type RecommendedAction struct {
	Action      ActionType
	Priority    int // 1 is most urgent
	RequiresConsent bool
}

// WellbeingAssessment is the full output of one guard evaluation.
type WellbeingAssessment struct {
	OverallSeverity         Severity
	Concerns                []DetectedConcern
	Scams                   []DetectedScam
	RequiresImmediateAction bool
	Response                ResponseType
	SuggestedResponse       string
	RecommendedActions      []RecommendedAction
	Confidence              float64
	Timestamp               time.Time
	Justification           string
}

// DefaultMinConfidence is the floor score below which a concern is not emitted.
const DefaultMinConfidence = 0.4

// DefaultRecurrenceThreshold is the number of recurrences that marks a
// concern as recurring.
const DefaultRecurrenceThreshold = 3

// Severity bucket boundaries.
const (
	CriticalThreshold = 0.9
	HighThreshold     = 0.7
	ModerateThreshold = 0.5
	LowThreshold      = 0.3
)

// BucketSeverity maps a raw score to its severity bucket.
func BucketSeverity(score float64) Severity {
	switch {
	case score >= CriticalThreshold:
		return SeverityCritical
	case score >= HighThreshold:
		return SeverityHigh
	case score >= ModerateThreshold:
		return SeverityModerate
	case score >= LowThreshold:
		return SeverityLow
	default:
		return SeverityNone
	}
}

// ConcernTable is the static list of concerns the guard scans for.
func ConcernTable() []ConcernPattern {
	return []ConcernPattern{
		{
			Type:     ConcernLoneliness,
			Keywords: []string{"lonely", "alone", "isolated", "no one visits"},
			Phrases:  []string{"nobody calls me anymore", "i have no one to talk to"},
			Weight:   1.0, CorrelatedEmotion: "LONELINESS",
		},
		{
			Type:     ConcernDepression,
			Keywords: []string{"hopeless", "worthless", "empty", "tired of everything"},
			Phrases:  []string{"what's the point anymore", "i don't enjoy anything"},
			Weight:   1.0, CorrelatedEmotion: "SADNESS",
		},
		{
			Type:             ConcernSelfHarm,
			Keywords:         []string{"hurt myself", "cutting", "self-harm"},
			Phrases:          []string{"i want to hurt myself", "thinking about hurting myself"},
			Weight:           1.3, CriticalOverride: true,
		},
		{
			Type:     ConcernSuicidalIdeation,
			Keywords: []string{"suicide", "kill myself", "end it all", "not worth living"},
			Phrases:  []string{"i don't want to live anymore", "better off dead", "i want to die"},
			Weight:   1.5, CriticalOverride: true,
		},
		{
			Type:     ConcernCognitiveDecline,
			Keywords: []string{"forget", "confused", "can't remember", "memory"},
			Phrases:  []string{"i keep forgetting things", "i can't remember what day it is"},
			Weight:   0.9,
		},
		{
			Type:     ConcernDisorientation,
			Keywords: []string{"lost", "don't know where i am", "disoriented"},
			Phrases:  []string{"i don't know where i am", "i can't find my way home"},
			Weight:   1.0,
		},
		{
			Type:             ConcernMedicalEmergency,
			Keywords:         []string{"chest pain", "can't breathe", "bleeding", "collapsed"},
			Phrases:          []string{"i can't breathe", "i'm having chest pain", "i think i'm having a heart attack"},
			Weight:           1.5, CriticalOverride: true,
		},
		{
			Type:     ConcernSubstanceAbuse,
			Keywords: []string{"drinking too much", "pills", "overdose"},
			Phrases:  []string{"i've been drinking every day", "i took too many pills"},
			Weight:   1.1,
		},
		{
			Type:             ConcernAbuse,
			Keywords:         []string{"hits me", "yells at me", "scared of him", "scared of her"},
			Phrases:          []string{"my caregiver hurts me", "i'm afraid to be alone with them"},
			Weight:           1.4, CriticalOverride: true,
		},
		{
			Type:     ConcernFinancialExploitation,
			Keywords: []string{"took my money", "signed papers", "access to my account"},
			Phrases:  []string{"someone is taking money from my account", "they made me sign something"},
			Weight:   1.1,
		},
		{
			Type:     ConcernFallRisk,
			Keywords: []string{"fell", "fall", "dizzy", "unsteady"},
			Phrases:  []string{"i fell down again", "i feel unsteady on my feet"},
			Weight:   1.0,
		},
		{
			Type:     ConcernDistress,
			Keywords: []string{"overwhelmed", "can't cope", "too much"},
			Phrases:  []string{"i can't take this anymore", "everything feels like too much"},
			Weight:   0.8,
		},
	}
}

// ScamTable is the static list of scam patterns the guard scans for.
func ScamTable() []ScamPattern {
	return []ScamPattern{
		{Type: ScamMoneyRequest, Keywords: []string{"wire money", "send money", "gift cards"}, Phrases: []string{"they asked me to wire money", "send gift card codes"}, IntrinsicSeverity: SeverityHigh},
		{Type: ScamGovernmentImpersonation, Keywords: []string{"irs", "social security", "arrest warrant"}, Phrases: []string{"the irs called and said i owe money", "social security said my number was suspended"}, IntrinsicSeverity: SeverityHigh},
		{Type: ScamTechSupport, Keywords: []string{"computer virus", "remote access", "microsoft called"}, Phrases: []string{"someone called saying my computer has a virus", "they wanted remote access to my computer"}, IntrinsicSeverity: SeverityModerate},
		{Type: ScamRomance, Keywords: []string{"online boyfriend", "online girlfriend", "never met in person"}, Phrases: []string{"he says he loves me but we've never met", "she needs money to visit me"}, IntrinsicSeverity: SeverityModerate},
		{Type: ScamLottery, Keywords: []string{"you won", "lottery", "sweepstakes", "claim your prize"}, Phrases: []string{"i won a lottery i never entered", "pay a fee to claim my prize"}, IntrinsicSeverity: SeverityModerate},
		{Type: ScamGrandparent, Keywords: []string{"grandchild", "bail", "in trouble", "don't tell anyone"}, Phrases: []string{"my grandchild needs bail money", "someone called saying my grandchild is in jail"}, IntrinsicSeverity: SeverityCritical},
		{Type: ScamMedicare, Keywords: []string{"medicare", "new card", "benefits expiring"}, Phrases: []string{"medicare called about my new card", "my benefits are about to expire"}, IntrinsicSeverity: SeverityHigh},
		{Type: ScamInvestment, Keywords: []string{"guaranteed return", "crypto investment", "double your money"}, Phrases: []string{"guaranteed to double your money", "a guaranteed return with no risk"}, IntrinsicSeverity: SeverityModerate},
		{Type: ScamCharity, Keywords: []string{"donate now", "disaster relief", "urgent donation"}, Phrases: []string{"they need an urgent donation today", "donate now or the offer expires"}, IntrinsicSeverity: SeverityLow},
		{Type: ScamPhishing, Keywords: []string{"click this link", "verify your account", "suspicious login"}, Phrases: []string{"an email asked me to verify my account", "click this link to confirm your identity"}, IntrinsicSeverity: SeverityModerate},
	}
}

// MedicalMisinformationSubstrings gates the appending of a fixed disclaimer
// when a response touches known misinformation territory.
func MedicalMisinformationSubstrings() []string {
	return []string{"cures cancer", "vaccines cause", "essential oils cure", "stop taking your medication"}
}

// EmergencyDisclaimer is appended whenever a response surfaces medical
// misinformation-adjacent content.
const EmergencyDisclaimer = "This is not medical advice. Please consult a doctor or call 911 if this is an emergency."

// LifelineText is the fixed crisis-line text required in any EMERGENCY
// response triggered by suicidal ideation or self-harm.
const LifelineText = "If you are in crisis, call or text 988 to reach the Suicide & Crisis Lifeline. If this is a medical emergency, call 911."
