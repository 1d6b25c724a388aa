package application

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/agent-go/domain/agent"
)

// LegacyOrchestrator adapts the teacher's tool-decision Engine to sit behind
// the same call surface as Runner, so callers built against the older
// plan/decide/transition loop can keep working while new code goes through
// Runner directly. It is a facade, not a duplicate: all planning and
// execution still happens inside the wrapped Engine.
type LegacyOrchestrator struct {
	engine *Engine
}

// NewLegacyOrchestrator wraps an already-configured Engine.
func NewLegacyOrchestrator(engine *Engine) *LegacyOrchestrator {
	return &LegacyOrchestrator{engine: engine}
}

// Run delegates to the wrapped Engine's RunWithVars and reshapes the result
// into a RunResult so callers migrating to Runner's return type see a
// consistent shape regardless of which loop actually executed.
func (l *LegacyOrchestrator) Run(ctx context.Context, goal string, vars map[string]any) (RunResult, error) {
	if l.engine == nil {
		return RunResult{}, fmt.Errorf("legacy orchestrator: no engine configured")
	}

	run, err := l.engine.RunWithVars(ctx, goal, vars)
	if run == nil {
		return RunResult{}, err
	}

	result := RunResult{
		TraceID: run.ID,
	}
	if run.Status == agent.RunStatusCompleted {
		result.FinalAnswer = string(run.Result)
	}
	if run.Status == agent.RunStatusFailed {
		result.HaltReason = agent.HaltReasonUnrecoverable
		result.Partial = true
	}
	return result, err
}

// Engine exposes the wrapped Engine for callers that still need its native
// API (ResumeWithInput, Knowledge).
func (l *LegacyOrchestrator) Engine() *Engine {
	return l.engine
}
