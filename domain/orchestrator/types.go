// Package orchestrator provides the domain model for the multi-agent pipeline.
package orchestrator

import (
	"context"
	"time"
)

// FailurePolicy governs what happens when a stage fails.
type FailurePolicy string

const (
	OnFailureAbort FailurePolicy = "abort"
	OnFailureSkip  FailurePolicy = "skip"
	OnFailureRetry FailurePolicy = "retry"
)

// MessageType classifies an inter-agent message.
type MessageType string

const (
	MessageHandoff    MessageType = "HANDOFF"
	MessageRequest    MessageType = "REQUEST"
	MessageResponse   MessageType = "RESPONSE"
	MessageCritique   MessageType = "CRITIQUE"
	MessageApproval   MessageType = "APPROVAL"
	MessageRejection  MessageType = "REJECTION"
)

// StageStatus is the outcome of running one pipeline stage.
type StageStatus string

const (
	StageSuccess StageStatus = "success"
	StageFailed  StageStatus = "failed"
	StageSkipped StageStatus = "skipped"
	StageRejected StageStatus = "rejected"
)

// TransferContext is the budget and observation state threaded between stages.
type TransferContext struct {
	Observations    []string
	RemainingTokens int
	RemainingCents  int
	Vars            map[string]any
}

// Agent is a sub-agent invocable as a pipeline stage.
type Agent interface {
	// Execute runs the agent against a rendered prompt, returning its answer
	// and the resources it consumed.
	Execute(ctx context.Context, prompt string) (output string, tokens int, costCents int, err error)
}

// AgentFactory creates (or looks up) an Agent by id. Orchestrators use this
// to resolve agents lazily, caching per pipeline run to bound recursion.
type AgentFactory func(agentID string) (Agent, error)

// InputTransform renders the prompt for a stage from the previous stage's
// output and the current transfer context.
type InputTransform func(prevOutput string, tc *TransferContext) (string, error)

// SkipPredicate reports whether a stage should be skipped.
type SkipPredicate func(tc *TransferContext) bool

// Stage is one position in a linear pipeline.
type Stage struct {
	Name             string
	AgentID          string
	InputTransform   InputTransform
	ApprovalRequired bool
	OnFailure        FailurePolicy
	MaxRetries       int
	SkipIf           SkipPredicate
	Timeout          time.Duration
}

// ApprovalRequest is sent to the approval handler at an approval checkpoint.
type ApprovalRequest struct {
	Checkpoint string
	Data       string
	Context    *TransferContext
	TimeoutMs  int
}

// ApprovalResult is the approval handler's verdict.
type ApprovalResult struct {
	Approved bool
	Approver string
	Comments string
	Timestamp time.Time
}

// ApprovalHandler gates stages flagged ApprovalRequired.
type ApprovalHandler interface {
	RequestApproval(ctx context.Context, req ApprovalRequest) (ApprovalResult, error)
}

// Message is an immutable record of inter-agent communication.
type Message struct {
	ID        string
	From      string
	To        string
	Type      MessageType
	Payload   string
	Context   TransferContext
	Timestamp time.Time
}

// StageResult is the outcome of executing one stage.
type StageResult struct {
	Stage  string
	Status StageStatus
	Output string
	Error  string
}

// PipelineResult is the outcome of running a full pipeline.
type PipelineResult struct {
	Success     bool
	Stages      []StageResult
	FinalOutput string
}

// CritiqueResult is the structured verdict a critic agent returns.
type CritiqueResult struct {
	Passed      bool
	Score       float64
	Issues      []string
	Suggestions []string
	Summary     string
}

// ConservativeCritique is the passthrough verdict used when a critic agent's
// response cannot be parsed.
func ConservativeCritique() CritiqueResult {
	return CritiqueResult{Passed: true, Score: 0.7, Summary: "critique unparseable, conservative passthrough"}
}
