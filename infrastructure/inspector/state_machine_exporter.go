// Package inspector provides inspector infrastructure implementations.
package inspector

import (
	"context"

	"github.com/felixgeelhaar/agent-go/domain/agent"
	"github.com/felixgeelhaar/agent-go/domain/inspector"
	"github.com/felixgeelhaar/agent-go/domain/policy"
)

// StateMachineExporter exports state machine data.
type StateMachineExporter struct {
	eligibility *policy.ToolEligibility
	transitions *policy.StateTransitions
}

// NewStateMachineExporter creates a new state machine exporter.
func NewStateMachineExporter(
	eligibility *policy.ToolEligibility,
	transitions *policy.StateTransitions,
) *StateMachineExporter {
	return &StateMachineExporter{
		eligibility: eligibility,
		transitions: transitions,
	}
}

// Export exports the state machine.
func (e *StateMachineExporter) Export(ctx context.Context) (*inspector.StateMachineExport, error) {
	export := &inspector.StateMachineExport{
		Initial:  agent.StateIdle,
		Terminal: []agent.State{agent.StateDone, agent.StateError},
	}

	// Export states
	allStates := []agent.State{
		agent.StateIdle,
		agent.StateExecuting,
		agent.StateExecuting,
		agent.StateExecuting,
		agent.StateExecuting,
		agent.StateDone,
		agent.StateError,
	}

	for _, state := range allStates {
		stateExport := inspector.StateExport{
			Name:              state,
			Description:       getStateDescription(state),
			IsTerminal:        state == agent.StateDone || state == agent.StateError,
			AllowsSideEffects: state == agent.StateExecuting,
		}

		// Get eligible tools if eligibility is configured
		if e.eligibility != nil {
			stateExport.EligibleTools = e.eligibility.AllowedTools(state)
		}

		export.States = append(export.States, stateExport)
	}

	// Export transitions
	if e.transitions != nil {
		for _, from := range allStates {
			targets := e.transitions.AllowedTransitions(from)
			for _, to := range targets {
				export.Transitions = append(export.Transitions, inspector.StateMachineTransition{
					From:  from,
					To:    to,
					Label: getTransitionLabel(from, to),
				})
			}
		}
	} else {
		// Default transitions if none configured
		export.Transitions = getDefaultTransitions()
	}

	return export, nil
}

func getStateDescription(state agent.State) string {
	switch state {
	case agent.StateIdle:
		return "Normalize and understand the goal"
	case agent.StateExecuting:
		return "Gather evidence through read-only operations"
	case agent.StateExecuting:
		return "Choose the next action"
	case agent.StateExecuting:
		return "Perform side-effects"
	case agent.StateExecuting:
		return "Confirm outcomes"
	case agent.StateDone:
		return "Terminal success state"
	case agent.StateError:
		return "Terminal failure state"
	default:
		return ""
	}
}

func getTransitionLabel(from, to agent.State) string {
	if to == agent.StateError {
		return "on error"
	}
	if to == agent.StateDone {
		return "on success"
	}
	return ""
}

func getDefaultTransitions() []inspector.StateMachineTransition {
	return []inspector.StateMachineTransition{
		{From: agent.StateIdle, To: agent.StateExecuting},
		{From: agent.StateIdle, To: agent.StateExecuting},
		{From: agent.StateIdle, To: agent.StateError, Label: "on error"},
		{From: agent.StateExecuting, To: agent.StateExecuting},
		{From: agent.StateExecuting, To: agent.StateError, Label: "on error"},
		{From: agent.StateExecuting, To: agent.StateExecuting},
		{From: agent.StateExecuting, To: agent.StateExecuting},
		{From: agent.StateExecuting, To: agent.StateDone, Label: "on success"},
		{From: agent.StateExecuting, To: agent.StateError, Label: "on error"},
		{From: agent.StateExecuting, To: agent.StateExecuting},
		{From: agent.StateExecuting, To: agent.StateError, Label: "on error"},
		{From: agent.StateExecuting, To: agent.StateExecuting},
		{From: agent.StateExecuting, To: agent.StateDone, Label: "on success"},
		{From: agent.StateExecuting, To: agent.StateError, Label: "on error"},
	}
}

// Ensure StateMachineExporter implements inspector.StateMachineExporter
var _ inspector.StateMachineExporter = (*StateMachineExporter)(nil)
