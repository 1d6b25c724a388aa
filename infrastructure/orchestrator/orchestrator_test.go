package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/agent-go/domain/orchestrator"
)

type scriptedAgent struct {
	output    string
	tokens    int
	costCents int
	failTimes int
	calls     int
}

func (a *scriptedAgent) Execute(ctx context.Context, prompt string) (string, int, int, error) {
	a.calls++
	if a.calls <= a.failTimes {
		return "", 0, 0, errors.New("transient failure")
	}
	return a.output, a.tokens, a.costCents, nil
}

func factoryFor(agents map[string]orchestrator.Agent) orchestrator.AgentFactory {
	return func(agentID string) (orchestrator.Agent, error) {
		a, ok := agents[agentID]
		if !ok {
			return nil, errors.New("unknown agent: " + agentID)
		}
		return a, nil
	}
}

func TestRunPipeline_HappyPath(t *testing.T) {
	t.Parallel()
	interviewer := &scriptedAgent{output: "what was your favorite childhood memory?", tokens: 10, costCents: 1}
	writer := &scriptedAgent{output: "a warm summer evening chapter", tokens: 20, costCents: 2}

	o := New(factoryFor(map[string]orchestrator.Agent{"interviewer": interviewer, "writer": writer}))
	tc := &orchestrator.TransferContext{RemainingTokens: 1000, RemainingCents: 100}

	stages := []orchestrator.Stage{
		{Name: "interview", AgentID: "interviewer"},
		{Name: "write", AgentID: "writer"},
	}
	result, err := o.RunPipeline(context.Background(), stages, "begin biography", tc, nil)
	if err != nil {
		t.Fatalf("RunPipeline: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected pipeline success, got %+v", result)
	}
	if result.FinalOutput != writer.output {
		t.Errorf("got final output %q, want %q", result.FinalOutput, writer.output)
	}
	if tc.RemainingTokens != 1000-30 {
		t.Errorf("expected tokens debited, got %d remaining", tc.RemainingTokens)
	}
}

func TestRunPipeline_RetriesThenSucceeds(t *testing.T) {
	t.Parallel()
	flaky := &scriptedAgent{output: "recovered output", failTimes: 2}
	o := New(factoryFor(map[string]orchestrator.Agent{"flaky": flaky}))
	tc := &orchestrator.TransferContext{RemainingTokens: 100, RemainingCents: 100}

	stages := []orchestrator.Stage{{Name: "stage1", AgentID: "flaky", MaxRetries: 2}}
	result, err := o.RunPipeline(context.Background(), stages, "go", tc, nil)
	if err != nil {
		t.Fatalf("RunPipeline: %v", err)
	}
	if !result.Success || result.FinalOutput != "recovered output" {
		t.Fatalf("expected recovery after retries, got %+v", result)
	}
}

func TestRunPipeline_AbortsOnFailureByDefault(t *testing.T) {
	t.Parallel()
	alwaysFails := &scriptedAgent{failTimes: 10}
	o := New(factoryFor(map[string]orchestrator.Agent{"broken": alwaysFails}))
	tc := &orchestrator.TransferContext{RemainingTokens: 100, RemainingCents: 100}

	stages := []orchestrator.Stage{{Name: "stage1", AgentID: "broken"}}
	result, err := o.RunPipeline(context.Background(), stages, "go", tc, nil)
	if err != nil {
		t.Fatalf("RunPipeline: %v", err)
	}
	if result.Success {
		t.Fatal("expected pipeline failure when a stage exhausts retries and aborts")
	}
}

func TestRunPipeline_SkipPredicateSkipsStage(t *testing.T) {
	t.Parallel()
	agent := &scriptedAgent{output: "should not run"}
	o := New(factoryFor(map[string]orchestrator.Agent{"a": agent}))
	tc := &orchestrator.TransferContext{RemainingTokens: 100, RemainingCents: 100}

	stages := []orchestrator.Stage{
		{Name: "skip-me", AgentID: "a", SkipIf: func(tc *orchestrator.TransferContext) bool { return true }},
	}
	result, err := o.RunPipeline(context.Background(), stages, "start", tc, nil)
	if err != nil {
		t.Fatalf("RunPipeline: %v", err)
	}
	if agent.calls != 0 {
		t.Error("expected the skipped stage's agent to never execute")
	}
	if len(result.Stages) != 1 || result.Stages[0].Status != orchestrator.StageSkipped {
		t.Fatalf("expected a single skipped stage result, got %+v", result.Stages)
	}
}

type rejectingApproval struct{}

func (rejectingApproval) RequestApproval(ctx context.Context, req orchestrator.ApprovalRequest) (orchestrator.ApprovalResult, error) {
	return orchestrator.ApprovalResult{Approved: false}, nil
}

func TestRunPipeline_RejectedApprovalFailsPipeline(t *testing.T) {
	t.Parallel()
	agent := &scriptedAgent{output: "draft chapter"}
	o := New(factoryFor(map[string]orchestrator.Agent{"writer": agent}))
	tc := &orchestrator.TransferContext{RemainingTokens: 100, RemainingCents: 100}

	stages := []orchestrator.Stage{{Name: "publish", AgentID: "writer", ApprovalRequired: true}}
	result, err := o.RunPipeline(context.Background(), stages, "start", tc, rejectingApproval{})
	if err != nil {
		t.Fatalf("RunPipeline: %v", err)
	}
	if result.Success {
		t.Fatal("expected pipeline to fail when approval is rejected")
	}
	if len(result.Stages) != 1 || result.Stages[0].Status != orchestrator.StageRejected {
		t.Fatalf("expected a rejected stage result, got %+v", result.Stages)
	}
}

func TestRunCritique_FallsBackOnParseFailure(t *testing.T) {
	t.Parallel()
	critic := &scriptedAgent{output: "not valid json"}
	result := RunCritique(context.Background(), critic, "critique this", func(s string) (orchestrator.CritiqueResult, error) {
		return orchestrator.CritiqueResult{}, errors.New("parse failure")
	})
	if !result.Passed {
		t.Error("expected conservative passthrough to pass")
	}
}

func TestRunCritique_FallsBackOnExecutionError(t *testing.T) {
	t.Parallel()
	critic := &scriptedAgent{failTimes: 1}
	result := RunCritique(context.Background(), critic, "critique this", func(s string) (orchestrator.CritiqueResult, error) {
		t.Fatal("parse should not be called when execution fails")
		return orchestrator.CritiqueResult{}, nil
	})
	if !result.Passed {
		t.Error("expected conservative passthrough to pass")
	}
}
