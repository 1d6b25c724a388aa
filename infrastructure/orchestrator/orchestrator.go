// Package orchestrator drives linear multi-agent pipelines: handoffs,
// retries, approval gates, and a bounded message history.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/agent-go/domain/orchestrator"
	"github.com/felixgeelhaar/agent-go/infrastructure/logging"
)

// defaultMaxNestingDepth bounds agent-registry recursion per spec's design
// note on cyclic references between agents.
const defaultMaxNestingDepth = 4

// Orchestrator runs pipelines of Stage against a pool of agents.
type Orchestrator struct {
	mu          sync.Mutex
	factory     orchestrator.AgentFactory
	agentCache  map[string]orchestrator.Agent
	messages    []orchestrator.Message
	maxDepth    int
}

// New creates an Orchestrator backed by the given agent factory.
func New(factory orchestrator.AgentFactory) *Orchestrator {
	return &Orchestrator{
		factory:    factory,
		agentCache: make(map[string]orchestrator.Agent),
		maxDepth:   defaultMaxNestingDepth,
	}
}

// resolveAgent resolves an agent by id, caching within the pipeline run.
func (o *Orchestrator) resolveAgent(agentID string) (orchestrator.Agent, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if a, ok := o.agentCache[agentID]; ok {
		return a, nil
	}
	a, err := o.factory(agentID)
	if err != nil {
		return nil, err
	}
	o.agentCache[agentID] = a
	return a, nil
}

func (o *Orchestrator) recordMessage(m orchestrator.Message) {
	m.ID = uuid.New().String()
	m.Timestamp = time.Now()
	o.mu.Lock()
	o.messages = append(o.messages, m)
	o.mu.Unlock()
}

// MessagesFor returns the bounded history of messages involving an agent.
func (o *Orchestrator) MessagesFor(agentID string) []orchestrator.Message {
	o.mu.Lock()
	defer o.mu.Unlock()

	var out []orchestrator.Message
	for _, m := range o.messages {
		if m.From == agentID || m.To == agentID {
			out = append(out, m)
		}
	}
	return out
}

// RunPipeline executes stages in order, implementing the stage algorithm
// from the multi-agent orchestrator design: skip predicate, handoff
// recording, retry-on-failure, approval gating, and context transfer.
func (o *Orchestrator) RunPipeline(
	ctx context.Context,
	stages []orchestrator.Stage,
	initialInput string,
	tc *orchestrator.TransferContext,
	approval orchestrator.ApprovalHandler,
) (orchestrator.PipelineResult, error) {
	// Fresh agent cache per pipeline run, per the design note on bounding
	// recursion: a cache cleared between pipelines prevents an unbounded
	// agent graph from accumulating across unrelated runs.
	o.mu.Lock()
	o.agentCache = make(map[string]orchestrator.Agent)
	o.mu.Unlock()

	result := orchestrator.PipelineResult{Success: true}
	previousOutput := initialInput
	previousStage := "orchestrator"

	for depth, stage := range stages {
		if depth >= o.maxDepth && o.maxDepth > 0 {
			logging.Warn().Add(logging.Str("stage", stage.Name)).Msg("pipeline exceeded max nesting depth, aborting")
			result.Success = false
			break
		}

		if stage.SkipIf != nil && stage.SkipIf(tc) {
			result.Stages = append(result.Stages, orchestrator.StageResult{Stage: stage.Name, Status: orchestrator.StageSkipped})
			continue
		}

		agent, err := o.resolveAgent(stage.AgentID)
		if err != nil {
			result.Success = false
			result.Stages = append(result.Stages, orchestrator.StageResult{Stage: stage.Name, Status: orchestrator.StageFailed, Error: err.Error()})
			if stage.OnFailure == orchestrator.OnFailureAbort {
				break
			}
			continue
		}

		o.recordMessage(orchestrator.Message{From: previousStage, To: stage.Name, Type: orchestrator.MessageHandoff, Payload: previousOutput, Context: *tc})

		prompt := previousOutput
		if stage.InputTransform != nil {
			prompt, err = stage.InputTransform(previousOutput, tc)
			if err != nil {
				result.Success = false
				result.Stages = append(result.Stages, orchestrator.StageResult{Stage: stage.Name, Status: orchestrator.StageFailed, Error: err.Error()})
				if stage.OnFailure == orchestrator.OnFailureAbort {
					break
				}
				continue
			}
		}

		output, tokens, costCents, execErr := o.executeWithRetry(ctx, agent, prompt, stage.MaxRetries)
		if execErr != nil {
			switch stage.OnFailure {
			case orchestrator.OnFailureSkip:
				result.Stages = append(result.Stages, orchestrator.StageResult{Stage: stage.Name, Status: orchestrator.StageFailed, Error: execErr.Error()})
				continue
			default: // abort
				result.Success = false
				result.Stages = append(result.Stages, orchestrator.StageResult{Stage: stage.Name, Status: orchestrator.StageFailed, Error: execErr.Error()})
			}
			break
		}

		tc.RemainingTokens -= tokens
		tc.RemainingCents -= costCents

		if stage.ApprovalRequired {
			if approval == nil {
				result.Success = false
				result.Stages = append(result.Stages, orchestrator.StageResult{Stage: stage.Name, Status: orchestrator.StageRejected, Error: "approval required but no approval handler configured"})
				break
			}
			verdict, err := approval.RequestApproval(ctx, orchestrator.ApprovalRequest{
				Checkpoint: stage.Name,
				Data:       output,
				Context:    tc,
				TimeoutMs:  int(stage.Timeout.Milliseconds()),
			})
			o.recordMessage(orchestrator.Message{From: stage.Name, To: "orchestrator", Type: orchestrator.MessageApproval, Payload: output, Context: *tc})
			if err != nil || !verdict.Approved {
				o.recordMessage(orchestrator.Message{From: "orchestrator", To: stage.Name, Type: orchestrator.MessageRejection, Context: *tc})
				result.Stages = append(result.Stages, orchestrator.StageResult{Stage: stage.Name, Status: orchestrator.StageRejected, Output: output})
				if stage.OnFailure == orchestrator.OnFailureSkip {
					continue
				}
				result.Success = false
				break
			}
		}

		tc.Observations = append(tc.Observations, output)
		previousOutput = output
		previousStage = stage.Name
		result.Stages = append(result.Stages, orchestrator.StageResult{Stage: stage.Name, Status: orchestrator.StageSuccess, Output: output})
	}

	result.FinalOutput = previousOutput
	return result, nil
}

func (o *Orchestrator) executeWithRetry(ctx context.Context, agent orchestrator.Agent, prompt string, maxRetries int) (string, int, int, error) {
	var lastErr error
	attempts := maxRetries + 1
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		output, tokens, cost, err := agent.Execute(ctx, prompt)
		if err == nil {
			return output, tokens, cost, nil
		}
		lastErr = err
	}
	return "", 0, 0, fmt.Errorf("stage execution failed after %d attempts: %w", attempts, lastErr)
}

// RunCritique sends a critique prompt to a critic agent and parses its
// verdict, falling back to a conservative passthrough when unparseable.
func RunCritique(ctx context.Context, critic orchestrator.Agent, prompt string, parse func(string) (orchestrator.CritiqueResult, error)) orchestrator.CritiqueResult {
	raw, _, _, err := critic.Execute(ctx, prompt)
	if err != nil {
		return orchestrator.ConservativeCritique()
	}
	result, err := parse(raw)
	if err != nil {
		return orchestrator.ConservativeCritique()
	}
	return result
}
