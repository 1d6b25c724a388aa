package agent

import (
	"encoding/json"
	"time"
)

// ObservationType classifies what a processed observation represents.
type ObservationType string

const (
	ObservationInformation  ObservationType = "INFORMATION"
	ObservationConfirmation ObservationType = "CONFIRMATION"
	ObservationContradiction ObservationType = "CONTRADICTION"
	ObservationDiscovery    ObservationType = "DISCOVERY"
	ObservationError        ObservationType = "ERROR"
	ObservationInsufficient ObservationType = "INSUFFICIENT"
)

// FailurePolicy governs what happens when a planned step fails.
type FailurePolicy string

const (
	FailurePolicyAbort   FailurePolicy = "abort"
	FailurePolicySkip    FailurePolicy = "skip"
	FailurePolicyRetry   FailurePolicy = "retry"
	FailurePolicyFallback FailurePolicy = "fallback"
)

// PlannedStep is one unit of work the runner intends to execute.
// In the ReAct runner the plan is a single virtual step (action "REACT_LOOP")
// that unrolls dynamically into many PlannedSteps, one per thought/action cycle.
type PlannedStep struct {
	ID          string          `json:"id"`
	Order       int             `json:"order"`
	Action      string          `json:"action"`
	ToolName    string          `json:"tool_name,omitempty"`
	Input       json.RawMessage `json:"input,omitempty"`
	OutputShape string          `json:"output_shape,omitempty"`
	MaxRetries  int             `json:"max_retries"`
	Timeout     time.Duration   `json:"timeout"`
	OnFailure   FailurePolicy   `json:"on_failure"`
}

// StepResult captures the outcome of executing a PlannedStep.
type StepResult struct {
	StepID   string          `json:"step_id"`
	Success  bool            `json:"success"`
	Output   json.RawMessage `json:"output,omitempty"`
	Error    string          `json:"error,omitempty"`
	Tokens   int             `json:"tokens"`
	CostCents int            `json:"cost_cents"`
	Duration time.Duration   `json:"duration"`
	Trace    json.RawMessage `json:"trace,omitempty"`

	// Thought is the (possibly truncated) chain-of-thought that produced this step.
	Thought string `json:"thought,omitempty"`
	// FullThought preserves the untruncated thought for trace inspection only.
	FullThought string `json:"-"`
}

// ProcessedObservation is the structured interpretation of a StepResult.
type ProcessedObservation struct {
	Type             ObservationType `json:"type"`
	Insight          string          `json:"insight"`
	Confidence       float64         `json:"confidence"`
	InvalidatesPlan  bool            `json:"invalidates_plan"`
	Raw              json.RawMessage `json:"raw,omitempty"`
}

// Budget is the quadruple of resource caps a run is held to.
type Budget struct {
	MaxSteps          int
	TimeoutMs         int
	TokenBudget       int
	CostBudgetCents   int
	MaxReplanAttempts int
}

// DefaultBudget matches the runner's documented defaults.
func DefaultBudget() Budget {
	return Budget{
		MaxSteps:          5,
		TimeoutMs:         30000,
		TokenBudget:       8000,
		CostBudgetCents:   20,
		MaxReplanAttempts: 2,
	}
}

// RunContext is the per-run mutable state owned exclusively by the runner
// (spec's StateMachineContext). All mutation happens through the named
// operations below; nothing else may write these fields directly.
type RunContext struct {
	Goal                string
	Steps               []StepResult
	IntermediateResults map[string]json.RawMessage
	TokenCount          int
	CostCents           int
	ReplanCount         int
	StartTime           time.Time
	LastError           string
	HaltReason          HaltReason
	FinalAnswer         string
	Partial             bool

	budget Budget
}

// NewRunContext creates a fresh context for one run.
func NewRunContext(goal string, budget Budget) *RunContext {
	return &RunContext{
		Goal:                goal,
		Steps:               make([]StepResult, 0),
		IntermediateResults: make(map[string]json.RawMessage),
		StartTime:           time.Now(),
		budget:              budget,
	}
}

// AddStep appends a completed step result, maintaining steps.length == currentStepIndex.
func (c *RunContext) AddStep(result StepResult) {
	c.Steps = append(c.Steps, result)
}

// RecordUsage increases the monotone token/cost counters.
func (c *RunContext) RecordUsage(tokens, costCents int) {
	if tokens > 0 {
		c.TokenCount += tokens
	}
	if costCents > 0 {
		c.CostCents += costCents
	}
}

// RecordReplan increments the replan counter.
func (c *RunContext) RecordReplan() {
	c.ReplanCount++
}

// SetHaltReason records why the run halted. Only valid alongside a terminal
// transition to HALTED; the runner is responsible for keeping that invariant.
func (c *RunContext) SetHaltReason(reason HaltReason) {
	c.HaltReason = reason
}

// SetFinalAnswer records the synthesized (or short-circuited) final answer.
func (c *RunContext) SetFinalAnswer(answer string) {
	c.FinalAnswer = answer
}

// SetIntermediateResult stores a named intermediate value (tool descriptions,
// optimized context, subgoals, ...).
func (c *RunContext) SetIntermediateResult(key string, value json.RawMessage) {
	c.IntermediateResults[key] = value
}

// GetIntermediateResult retrieves a named intermediate value.
func (c *RunContext) GetIntermediateResult(key string) (json.RawMessage, bool) {
	v, ok := c.IntermediateResults[key]
	return v, ok
}

// ElapsedMs returns milliseconds elapsed since the run started.
func (c *RunContext) ElapsedMs() int {
	return int(time.Since(c.StartTime).Milliseconds())
}

// CheckBudgetLimits evaluates the four budget guards in the fixed order
// MAX_STEPS, TIMEOUT, TOKEN_BUDGET, COST_BUDGET. The first hit wins.
func (c *RunContext) CheckBudgetLimits() (HaltReason, bool) {
	if c.budget.MaxSteps > 0 && len(c.Steps) >= c.budget.MaxSteps {
		return HaltReasonMaxSteps, true
	}
	if c.budget.TimeoutMs > 0 && c.ElapsedMs() >= c.budget.TimeoutMs {
		return HaltReasonTimeout, true
	}
	if c.budget.TokenBudget > 0 && c.TokenCount >= c.budget.TokenBudget {
		return HaltReasonTokenBudget, true
	}
	if c.budget.CostBudgetCents > 0 && c.CostCents >= c.budget.CostBudgetCents {
		return HaltReasonCostBudget, true
	}
	return HaltReasonNone, false
}

// CanReplan reports whether another replan attempt is within budget.
func (c *RunContext) CanReplan() bool {
	return c.ReplanCount < c.budget.MaxReplanAttempts
}

// Snapshot is a read-only view handed to listeners.
type Snapshot struct {
	State       State           `json:"state"`
	StepCount   int             `json:"step_count"`
	TokenCount  int             `json:"token_count"`
	CostCents   int             `json:"cost_cents"`
	ElapsedMs   int             `json:"elapsed_ms"`
	ReplanCount int             `json:"replan_count"`
	HaltReason  HaltReason      `json:"halt_reason,omitempty"`
}

// Snapshot produces an immutable view of the run context for a given state.
func (c *RunContext) Snapshot(state State) Snapshot {
	return Snapshot{
		State:       state,
		StepCount:   len(c.Steps),
		TokenCount:  c.TokenCount,
		CostCents:   c.CostCents,
		ElapsedMs:   c.ElapsedMs(),
		ReplanCount: c.ReplanCount,
		HaltReason:  c.HaltReason,
	}
}
