package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/felixgeelhaar/agent-go/domain/agent"
	"github.com/felixgeelhaar/agent-go/domain/contextbudget"
	domainpolicy "github.com/felixgeelhaar/agent-go/domain/policy"
	domainrouter "github.com/felixgeelhaar/agent-go/domain/router"
	"github.com/felixgeelhaar/agent-go/domain/selfimprovement"
	"github.com/felixgeelhaar/agent-go/domain/session"
	"github.com/felixgeelhaar/agent-go/domain/wellbeing"
	infracontextbudget "github.com/felixgeelhaar/agent-go/infrastructure/contextbudget"
	"github.com/felixgeelhaar/agent-go/infrastructure/logging"
	infraorchestrator "github.com/felixgeelhaar/agent-go/infrastructure/orchestrator"
	infrarouter "github.com/felixgeelhaar/agent-go/infrastructure/router"
	infraselfimprovement "github.com/felixgeelhaar/agent-go/infrastructure/selfimprovement"
	"github.com/felixgeelhaar/agent-go/infrastructure/toolregistry"
	infrawellbeing "github.com/felixgeelhaar/agent-go/infrastructure/wellbeing"
)

// Memory is a single retrieved long-term memory handed to the runner.
type Memory struct {
	Topic   string
	Content string
}

// ChatMessage is one turn of recent conversation history.
type ChatMessage struct {
	Role    string
	Content string
}

// AgentContext is the per-invocation, caller-owned bundle the runner never
// mutates (spec's AgentContext).
type AgentContext struct {
	UserID    string
	SessionID string
	History   []ChatMessage
	Memories  []Memory
}

// RunResult is the bundle returned from one call to Runner.Run.
type RunResult struct {
	FinalAnswer  string
	Steps        []agent.StepResult
	HaltReason   agent.HaltReason
	TokensUsed   int
	CostCents    int
	TraceID      string
	Observations []agent.ProcessedObservation
	Partial      bool
}

// RunnerConfig wires the runner's collaborators. Model and Router are
// required; everything else degrades gracefully to a no-op when nil.
type RunnerConfig struct {
	Model       ModelClient
	Router      *infrarouter.ModelRouter
	Tools       *toolregistry.Registry
	Orchestrator *infraorchestrator.Orchestrator // optional: drives multi-agent pipelines for goals that need a hand-off sequence
	Wellbeing   *infrawellbeing.Guard
	SelfImprove *infraselfimprovement.Store
	Sessions    session.Store
	Transitions *domainpolicy.StateTransitions
	Eligibility *domainpolicy.ToolEligibility

	Budget               agent.Budget
	SimpleQueryThreshold int
	MaxThoughtLength     int
	IntentModel          string
	ReasoningModel       string
	SynthesisModel       string
}

func (c *RunnerConfig) setDefaults() {
	if c.Transitions == nil {
		c.Transitions = domainpolicy.DefaultTransitions()
	}
	if c.Eligibility == nil {
		c.Eligibility = domainpolicy.NewToolEligibility()
	}
	if c.Budget == (agent.Budget{}) {
		c.Budget = agent.DefaultBudget()
	}
	if c.SimpleQueryThreshold == 0 {
		c.SimpleQueryThreshold = 20
	}
	if c.MaxThoughtLength == 0 {
		c.MaxThoughtLength = 1000
	}
}

// Runner is the Enhanced ReAct runner: it drives the 12-state machine
// through intent recognition, decomposition, planning, the react loop,
// reflection, and synthesis, consulting the wellbeing guard, model router,
// tool registry, context budget manager, session cache, and
// self-improvement store as collaborators.
type Runner struct {
	cfg RunnerConfig
}

// NewRunner creates a Runner from a validated config.
func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if cfg.Model == nil {
		return nil, fmt.Errorf("runner: Model is required")
	}
	if cfg.Router == nil {
		return nil, fmt.Errorf("runner: Router is required")
	}
	cfg.setDefaults()
	return &Runner{cfg: cfg}, nil
}

// runState is the per-call mutable state threaded through handlers; it
// holds everything a handler needs beyond the shared RunContext.
type runState struct {
	state         agent.State
	ctx           *agent.RunContext
	agentCtx      AgentContext
	optimized     contextbudget.OptimizedContext
	intent        recognizedIntent
	subgoals      []string
	traceID       string
	toolsUsed     []string
	wellbeingResp *wellbeing.WellbeingAssessment
}

type recognizedIntent struct {
	Intent     string
	Confidence float64
	Greeting   bool
}

// Run executes one full reasoning cycle for goal under agentCtx.
func (r *Runner) Run(ctx context.Context, goal string, agentCtx AgentContext) (RunResult, error) {
	rc := agent.NewRunContext(goal, r.cfg.Budget)
	st := &runState{
		state:    agent.StateIdle,
		ctx:      rc,
		agentCtx: agentCtx,
		traceID:  newTraceID(),
	}

	st.optimized = r.buildContext(goal, agentCtx)

	st.state = agent.StateRecognizingIntent // fire START

	for !st.state.IsTerminal() {
		if st.state == agent.StateExecuting {
			if reason, halted := rc.CheckBudgetLimits(); halted {
				rc.SetHaltReason(reason)
				st.state = agent.StateHalted
				break
			}
		}

		next, err := r.dispatch(ctx, st)
		if err != nil {
			rc.LastError = err.Error()
			next = agent.StateError
		}

		if next.IsTerminal() || r.cfg.Transitions.CanTransition(st.state, next) {
			st.state = next
			continue
		}

		logging.Warn().
			Add(logging.FromState(st.state)).
			Add(logging.ToState(next)).
			Msg("handler proposed a transition absent from the policy table; resolving to error")
		st.state = agent.StateError
	}

	if st.state == agent.StateError {
		st.state = r.resolveError(rc)
	}

	result := RunResult{
		FinalAnswer:  rc.FinalAnswer,
		Steps:        rc.Steps,
		HaltReason:   rc.HaltReason,
		TokensUsed:   rc.TokenCount,
		CostCents:    rc.CostCents,
		TraceID:      st.traceID,
		Partial:      rc.Partial,
	}

	if st.state == agent.StateDone && rc.FinalAnswer != "" && r.cfg.Sessions != nil {
		r.storeSessionContinuity(agentCtx, goal, st)
	}
	if r.cfg.SelfImprove != nil {
		r.recordExecution(agentCtx, goal, rc, st)
	}

	return result, nil
}

// resolveError performs ERROR's one-step recovery: RECOVER_WITH_FALLBACK to
// SYNTHESIZING when a final answer can still be produced, else UNRECOVERABLE
// to HALTED. This is deliberately not a second table-visible transition —
// see domain/policy.DefaultTransitions.
func (r *Runner) resolveError(rc *agent.RunContext) agent.State {
	if rc.FinalAnswer != "" {
		return agent.StateDone
	}
	if rc.LastError != "" {
		rc.Partial = true
		rc.FinalAnswer = "I wasn't able to finish that, but here's what I found: " + summarizeSteps(rc.Steps)
		rc.SetHaltReason(agent.HaltReasonUnrecoverable)
		return agent.StateDone
	}
	rc.SetHaltReason(agent.HaltReasonUnrecoverable)
	return agent.StateHalted
}

func summarizeSteps(steps []agent.StepResult) string {
	if len(steps) == 0 {
		return "no progress was made."
	}
	last := steps[len(steps)-1]
	if last.Output != nil {
		return string(last.Output)
	}
	return last.Error
}

func (r *Runner) dispatch(ctx context.Context, st *runState) (agent.State, error) {
	switch st.state {
	case agent.StateRecognizingIntent:
		return r.handleIntentRecognition(ctx, st)
	case agent.StateDecomposingTask:
		return r.handleTaskDecomposition(ctx, st)
	case agent.StatePlanning:
		return r.handlePlanning(ctx, st)
	case agent.StateExecuting:
		return r.handleExecuting(ctx, st)
	case agent.StateObserving:
		return r.handleObserving(ctx, st)
	case agent.StateReflecting:
		return r.handleReflecting(ctx, st)
	case agent.StateSynthesizing:
		return r.handleSynthesizing(ctx, st)
	case agent.StateReplanning:
		return r.handleReplanning(ctx, st)
	default:
		return agent.StateError, fmt.Errorf("runner: no handler for state %s", st.state)
	}
}

// buildContext assembles the priority-ordered context sources and trims
// them under the token budget (spec §4.2 step 2).
func (r *Runner) buildContext(goal string, agentCtx AgentContext) contextbudget.OptimizedContext {
	var sources []contextbudget.ContentSource
	sources = append(sources, contextbudget.ContentSource{
		ID: "system_prompt", Type: contextbudget.SourceSystemPrompt,
		Content: systemPrompt, Priority: 100, Required: true,
	})
	sources = append(sources, contextbudget.ContentSource{
		ID: "goal", Type: contextbudget.SourceGoal, Content: goal, Priority: 90, Required: true,
	})
	for i, m := range agentCtx.Memories {
		sources = append(sources, contextbudget.ContentSource{
			ID: fmt.Sprintf("memory_%d", i), Type: contextbudget.SourceMemory,
			Content: m.Topic + ": " + m.Content, Priority: 55,
		})
	}
	for i, h := range agentCtx.History {
		sources = append(sources, contextbudget.ContentSource{
			ID: fmt.Sprintf("history_%d", i), Type: contextbudget.SourceHistory,
			Content: h.Role + ": " + h.Content, Priority: 50,
		})
	}

	optimizer := infracontextbudget.New(r.cfg.Budget.TokenBudget)
	return optimizer.Optimize(sources)
}

const systemPrompt = "You are a warm, patient voice companion helping an older adult reflect on and record their life story. Keep responses short, clear, and conversational."

func newTraceID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func (r *Runner) storeSessionContinuity(agentCtx AgentContext, goal string, st *runState) {
	rec := session.Record{
		SessionID:    agentCtx.SessionID,
		UserID:       agentCtx.UserID,
		LastGoal:     goal,
		LastState:    string(st.state),
		Observations: nil,
		UpdatedAt:    time.Now(),
	}
	if err := r.cfg.Sessions.PutSession(rec); err != nil {
		logging.Warn().Add(logging.ErrorField(err)).Msg("failed to persist session continuity record")
	}
	if topics, ok := r.cfg.Sessions.GetTopics(agentCtx.UserID); ok {
		topics.AddTopic(st.intent.Intent)
		_ = r.cfg.Sessions.PutTopics(topics)
	} else {
		ts := session.TopicSet{UserID: agentCtx.UserID, UpdatedAt: time.Now()}
		ts.AddTopic(st.intent.Intent)
		_ = r.cfg.Sessions.PutTopics(ts)
	}
}

func (r *Runner) recordExecution(agentCtx AgentContext, goal string, rc *agent.RunContext, st *runState) {
	outcome := selfimprovement.OutcomeSuccess
	switch {
	case st.state == agent.StateHalted && rc.HaltReason == agent.HaltReasonTimeout:
		outcome = selfimprovement.OutcomeTimeout
	case st.state != agent.StateDone || rc.Partial:
		outcome = selfimprovement.OutcomeFailure
	}

	r.cfg.SelfImprove.RecordExecution(selfimprovement.ExecutionRecord{
		AgentID:   agentCtx.UserID,
		Goal:      goal,
		Outcome:   outcome,
		Tokens:    rc.TokenCount,
		CostCents: rc.CostCents,
		Duration:  time.Since(rc.StartTime),
		ToolsUsed: st.toolsUsed,
		ErrorTag:  rc.LastError,
	})
}

// routeComplexity is a small wrapper translating a domain/router.Complexity
// hint and the run's remaining budget into a RouteResult.
func (r *Runner) route(prompt string, complexity domainrouter.Complexity) (domainrouter.RouteResult, error) {
	remaining := r.cfg.Budget.CostBudgetCents
	return r.cfg.Router.Route(domainrouter.RouteRequest{
		Prompt:         prompt,
		ComplexityHint: complexity,
		Budget: domainrouter.Budget{
			RemainingCostCents: remaining,
			MinQuality:         0.5,
		},
	})
}
