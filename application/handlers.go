package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/agent-go/domain/agent"
	"github.com/felixgeelhaar/agent-go/domain/contextbudget"
	domainrouter "github.com/felixgeelhaar/agent-go/domain/router"
	"github.com/felixgeelhaar/agent-go/domain/tool"
	"github.com/felixgeelhaar/agent-go/domain/wellbeing"
	"github.com/felixgeelhaar/agent-go/infrastructure/logging"
	infrawellbeing "github.com/felixgeelhaar/agent-go/infrastructure/wellbeing"
)

// estimateCostCents applies the runtime's coarse cost heuristic (roughly 2
// cents per 1,000 tokens) for usage accounting where the model client
// doesn't surface a precise per-call cost.
func estimateCostCents(tokens int) int {
	if tokens <= 0 {
		return 0
	}
	return (tokens + 499) / 500
}

// decomposeThreshold is the goal length above which the runner bothers
// asking the model for subgoals instead of treating the goal as one unit.
const decomposeThreshold = 200

// reactHistoryWindow bounds how many prior steps are rendered back into the
// react prompt; older steps still count toward the budget but stop
// consuming prompt tokens.
const reactHistoryWindow = 5

// fixedReactOutputTokens is the fixed output-token estimate applied to a
// react step when a provider doesn't report usage, matching the runner's
// other chars/4-class heuristics.
const fixedReactOutputTokens = 200

type intentParse struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Greeting   bool    `json:"greeting"`
}

type subgoalsParse struct {
	Subgoals []string `json:"subgoals"`
}

type reactStep struct {
	Thought     string          `json:"thought"`
	Action      string          `json:"action"`
	ActionInput json.RawMessage `json:"action_input"`
}

// handleIntentRecognition runs the wellbeing short-circuit, the greeting
// fast path, and otherwise classifies the goal's intent (spec §4.2,
// recognizing_intent).
func (r *Runner) handleIntentRecognition(ctx context.Context, st *runState) (agent.State, error) {
	if r.cfg.Wellbeing != nil {
		assessment := r.cfg.Wellbeing.Assess(st.ctx.Goal, "")
		st.wellbeingResp = &assessment
		if assessment.OverallSeverity == wellbeing.SeverityHigh || assessment.OverallSeverity == wellbeing.SeverityCritical {
			st.ctx.SetFinalAnswer(assessment.SuggestedResponse)
			return agent.StateSynthesizing, nil
		}
	}

	if len(st.ctx.Goal) <= r.cfg.SimpleQueryThreshold && looksLikeGreeting(st.ctx.Goal) {
		st.intent = recognizedIntent{Intent: "GREETING", Confidence: 1.0, Greeting: true}
		return agent.StateSynthesizing, nil
	}

	route, err := r.route(st.ctx.Goal, domainrouter.ComplexityClassification)
	if err != nil {
		return agent.StateError, fmt.Errorf("runner: intent routing failed: %w", err)
	}

	var parsed intentParse
	tokensIn, tokensOut, err := r.cfg.Model.GenerateJSON(ctx, route.ModelID, intentSystemPrompt, st.ctx.Goal, &parsed)
	if err != nil {
		return agent.StateError, fmt.Errorf("runner: intent recognition failed: %w", err)
	}
	st.ctx.RecordUsage(tokensIn+tokensOut, estimateCostCents(tokensIn+tokensOut))

	if parsed.Greeting || parsed.Confidence < 0.3 {
		st.intent = recognizedIntent{Intent: parsed.Intent, Confidence: parsed.Confidence, Greeting: parsed.Greeting}
		return agent.StateSynthesizing, nil
	}

	st.intent = recognizedIntent{Intent: parsed.Intent, Confidence: parsed.Confidence}
	return agent.StateDecomposingTask, nil
}

const intentSystemPrompt = `Classify the user's message. Respond with JSON: {"intent": string, "confidence": number between 0 and 1, "greeting": boolean}. Set greeting true only for pure greetings or small talk with no substantive request.`

func looksLikeGreeting(goal string) bool {
	lower := strings.ToLower(strings.TrimSpace(goal))
	greetings := []string{"hi", "hello", "hey", "good morning", "good afternoon", "good evening", "how are you"}
	for _, g := range greetings {
		if lower == g || strings.HasPrefix(lower, g+" ") || strings.HasPrefix(lower, g+",") {
			return true
		}
	}
	return false
}

// handleTaskDecomposition breaks a long goal into subgoals, tolerating a
// parse failure by falling back to treating the whole goal as one subgoal
// (spec §4.2, decomposing_task).
func (r *Runner) handleTaskDecomposition(ctx context.Context, st *runState) (agent.State, error) {
	if len(st.ctx.Goal) <= decomposeThreshold {
		st.subgoals = []string{st.ctx.Goal}
		return agent.StatePlanning, nil
	}

	route, err := r.route(st.ctx.Goal, domainrouter.ComplexityReasoning)
	if err != nil {
		st.subgoals = []string{st.ctx.Goal}
		return agent.StatePlanning, nil
	}

	var parsed subgoalsParse
	tokensIn, tokensOut, err := r.cfg.Model.GenerateJSON(ctx, route.ModelID, decomposeSystemPrompt, st.ctx.Goal, &parsed)
	if err != nil || len(parsed.Subgoals) == 0 {
		logging.Warn().Add(logging.Goal(st.ctx.Goal)).Msg("task decomposition failed to parse, treating goal as a single subgoal")
		st.subgoals = []string{st.ctx.Goal}
		return agent.StatePlanning, nil
	}
	st.ctx.RecordUsage(tokensIn+tokensOut, estimateCostCents(tokensIn+tokensOut))
	st.subgoals = parsed.Subgoals
	return agent.StatePlanning, nil
}

const decomposeSystemPrompt = `Break the user's goal into an ordered list of smaller subgoals. Respond with JSON: {"subgoals": [string, ...]}. Use a single-element list if the goal is already a single step.`

// handlePlanning renders the synthetic single-step REACT_LOOP plan and
// caches the tool descriptions and optimized context the react loop will
// render into its prompt (spec §4.2, planning).
func (r *Runner) handlePlanning(ctx context.Context, st *runState) (agent.State, error) {
	var toolDescs []string
	if r.cfg.Tools != nil {
		toolDescs = r.cfg.Tools.Descriptions()
	}
	if raw, err := json.Marshal(toolDescs); err == nil {
		st.ctx.SetIntermediateResult("tool_descriptions", raw)
	}

	plan := agent.PlannedStep{
		ID:     "react-loop",
		Order:  0,
		Action: "REACT_LOOP",
	}
	if raw, err := json.Marshal(plan); err == nil {
		st.ctx.SetIntermediateResult("plan", raw)
	}

	return agent.StateExecuting, nil
}

// handleExecuting runs one thought/action/observation cycle of the react
// loop: render the prompt, ask the model for the next step, and either
// record the final answer or dispatch a tool call (spec §4.2, executing).
func (r *Runner) handleExecuting(ctx context.Context, st *runState) (agent.State, error) {
	prompt := r.renderReactPrompt(st)

	route, err := r.route(prompt, domainrouter.ComplexityReasoning)
	if err != nil {
		st.ctx.AddStep(agent.StepResult{StepID: fmt.Sprintf("step-%d", len(st.ctx.Steps)), Success: false, Error: err.Error()})
		return agent.StateObserving, nil
	}

	var step reactStep
	tokensIn, tokensOut, err := r.cfg.Model.GenerateJSON(ctx, route.ModelID, systemPrompt, prompt, &step)
	if err != nil {
		st.ctx.RecordUsage(estimateTokens(prompt), estimateCostCents(estimateTokens(prompt)))
		st.ctx.AddStep(agent.StepResult{StepID: fmt.Sprintf("step-%d", len(st.ctx.Steps)), Success: false, Error: err.Error()})
		return agent.StateObserving, nil
	}
	if tokensIn == 0 && tokensOut == 0 {
		tokensIn, tokensOut = estimateTokens(prompt), fixedReactOutputTokens
	}
	st.ctx.RecordUsage(tokensIn+tokensOut, estimateCostCents(tokensIn+tokensOut))

	fullThought := step.Thought
	thought := fullThought
	if len(thought) > r.cfg.MaxThoughtLength {
		thought = thought[:r.cfg.MaxThoughtLength] + "..."
	}

	if strings.EqualFold(step.Action, "Final Answer") {
		answer := decodeActionInputText(step.ActionInput)
		st.ctx.SetFinalAnswer(answer)
		st.ctx.AddStep(agent.StepResult{
			StepID: fmt.Sprintf("step-%d", len(st.ctx.Steps)), Success: true,
			Output: step.ActionInput, Thought: thought, FullThought: fullThought,
		})
		return agent.StateObserving, nil
	}

	if r.cfg.Tools == nil {
		st.ctx.AddStep(agent.StepResult{
			StepID: fmt.Sprintf("step-%d", len(st.ctx.Steps)), Success: false,
			Error: "no tool registry configured", Thought: thought, FullThought: fullThought,
		})
		return agent.StateObserving, nil
	}

	execCtx := tool.ToolExecutionContext{
		RunID: st.traceID, SessionID: st.agentCtx.SessionID, UserID: st.agentCtx.UserID,
		State: string(st.state),
	}
	result, err := r.cfg.Tools.Execute(ctx, step.Action, step.ActionInput, execCtx, false)
	st.toolsUsed = append(st.toolsUsed, step.Action)
	if err != nil {
		st.ctx.AddStep(agent.StepResult{
			StepID: fmt.Sprintf("step-%d", len(st.ctx.Steps)), Success: false,
			Error: err.Error(), Thought: thought, FullThought: fullThought, Duration: result.Duration,
		})
		return agent.StateObserving, nil
	}

	st.ctx.AddStep(agent.StepResult{
		StepID: fmt.Sprintf("step-%d", len(st.ctx.Steps)), Success: true,
		Output: result.Output, Thought: thought, FullThought: fullThought, Duration: result.Duration,
	})
	return agent.StateObserving, nil
}

func decodeActionInputText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func (r *Runner) renderReactPrompt(st *runState) string {
	var b strings.Builder
	b.WriteString("Goal: ")
	b.WriteString(st.ctx.Goal)
	b.WriteString("\n\n")

	if raw, ok := st.ctx.GetIntermediateResult("tool_descriptions"); ok {
		var descs []string
		_ = json.Unmarshal(raw, &descs)
		if len(descs) > 0 {
			b.WriteString("Available tools:\n")
			for _, d := range descs {
				b.WriteString("- ")
				b.WriteString(d)
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	for _, src := range st.optimized.Included {
		switch src.Type {
		case contextbudget.SourceMemory, contextbudget.SourceHistory, contextbudget.SourceKnowledge:
			b.WriteString(src.Content)
			b.WriteString("\n")
		}
	}

	start := 0
	if len(st.ctx.Steps) > reactHistoryWindow {
		start = len(st.ctx.Steps) - reactHistoryWindow
	}
	if start < len(st.ctx.Steps) {
		b.WriteString("\nPrior steps:\n")
		for _, step := range st.ctx.Steps[start:] {
			b.WriteString("- thought: ")
			b.WriteString(step.Thought)
			if step.Success {
				b.WriteString(" -> observation: ")
				b.WriteString(string(step.Output))
			} else {
				b.WriteString(" -> error: ")
				b.WriteString(step.Error)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\nRespond with JSON: {\"thought\": string, \"action\": string (a tool name or \"Final Answer\"), \"action_input\": any}.")
	return b.String()
}

// handleObserving interprets the latest step: a final answer moves straight
// to reflection, a failed step replans when budget allows, and otherwise
// the loop continues (spec §4.2, observing).
func (r *Runner) handleObserving(ctx context.Context, st *runState) (agent.State, error) {
	if st.ctx.FinalAnswer != "" {
		return agent.StateReflecting, nil
	}
	if len(st.ctx.Steps) == 0 {
		return agent.StateExecuting, nil
	}
	last := st.ctx.Steps[len(st.ctx.Steps)-1]
	if !last.Success {
		if st.ctx.CanReplan() {
			return agent.StateReplanning, nil
		}
		return agent.StateReflecting, nil
	}
	return agent.StateExecuting, nil
}

// handleReflecting decides whether the run has enough to synthesize a final
// answer or needs another planning pass (spec §4.2, reflecting).
func (r *Runner) handleReflecting(ctx context.Context, st *runState) (agent.State, error) {
	if st.ctx.FinalAnswer != "" {
		return agent.StateSynthesizing, nil
	}
	if len(st.ctx.Steps) > 0 && !st.ctx.Steps[len(st.ctx.Steps)-1].Success && st.ctx.CanReplan() {
		return agent.StateReplanning, nil
	}
	return agent.StateSynthesizing, nil
}

// handleSynthesizing produces the final answer text when the react loop
// didn't already set one, applies the wellbeing post-processing pass, and
// finishes the run (spec §4.2, synthesizing).
func (r *Runner) handleSynthesizing(ctx context.Context, st *runState) (agent.State, error) {
	if st.ctx.FinalAnswer == "" {
		route, err := r.route(st.ctx.Goal, domainrouter.ComplexitySummarization)
		if err != nil {
			return agent.StateError, fmt.Errorf("runner: synthesis routing failed: %w", err)
		}
		text, tokensIn, tokensOut, err := r.cfg.Model.GenerateText(ctx, route.ModelID, synthesisSystemPrompt, summarizeObservations(st.ctx.Steps))
		if err != nil {
			return agent.StateError, fmt.Errorf("runner: synthesis failed: %w", err)
		}
		st.ctx.RecordUsage(tokensIn+tokensOut, estimateCostCents(tokensIn+tokensOut))
		st.ctx.SetFinalAnswer(text)
	}

	if infrawellbeing.HasMisinformation(st.ctx.FinalAnswer) {
		st.ctx.SetFinalAnswer(st.ctx.FinalAnswer + " " + wellbeing.EmergencyDisclaimer)
	}

	return agent.StateDone, nil
}

const synthesisSystemPrompt = "Summarize these reasoning steps into one warm, conversational final answer for the user, in at most a few sentences."

func summarizeObservations(steps []agent.StepResult) string {
	var b strings.Builder
	for _, s := range steps {
		if s.Success {
			b.WriteString(string(s.Output))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// handleReplanning re-enters planning when another attempt is within
// budget, and otherwise halts the run (spec §4.2, replanning).
func (r *Runner) handleReplanning(ctx context.Context, st *runState) (agent.State, error) {
	if !st.ctx.CanReplan() {
		st.ctx.SetHaltReason(agent.HaltReasonReplanLimit)
		return agent.StateHalted, nil
	}
	st.ctx.RecordReplan()
	return agent.StatePlanning, nil
}
