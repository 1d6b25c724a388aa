// Package toolregistry implements the tool contract registry's execute
// pipeline: existence, enablement, permission, rate-limiting, validation,
// dry-run, dispatch, and audit logging.
package toolregistry

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/felixgeelhaar/agent-go/domain/tool"
	"github.com/felixgeelhaar/agent-go/infrastructure/logging"
)

// ErrorCode is a closed set of pipeline failure codes.
type ErrorCode string

const (
	CodeToolNotFound    ErrorCode = "TOOL_NOT_FOUND"
	CodeToolDisabled    ErrorCode = "TOOL_DISABLED"
	CodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	CodeRateLimit       ErrorCode = "RATE_LIMIT"
	CodeInvalidInput    ErrorCode = "INVALID_INPUT"
	CodeExecutionError  ErrorCode = "EXECUTION_ERROR"
)

// PipelineError is the structured error the execute pipeline returns.
type PipelineError struct {
	Code      ErrorCode
	Retryable bool
	Cause     error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return string(e.Code) + ": " + e.Cause.Error()
	}
	return string(e.Code)
}

func (e *PipelineError) Unwrap() error { return e.Cause }

func newPipelineError(code ErrorCode, retryable bool, cause error) *PipelineError {
	return &PipelineError{Code: code, Retryable: retryable, Cause: cause}
}

const rateLimitWindow = 60 * time.Second

const (
	maxAuditLog      = 1000
	trimAuditLogTo   = 500
)

// Executor runs a tool after the pipeline's checks pass. Satisfied by
// infrastructure/resilience.Executor.
type Executor interface {
	Execute(ctx context.Context, t tool.Tool, input json.RawMessage) (tool.Result, error)
}

// AuditEntry is one execute-pipeline invocation record.
type AuditEntry struct {
	ToolName   string
	InputShape string // type tag + shape only, never values
	Outcome    string // "success" | string(ErrorCode)
	Duration   time.Duration
	Timestamp  time.Time
}

// Stats summarizes an individual tool's audit history.
type Stats struct {
	CallCount   int
	SuccessRate float64
	MeanLatency time.Duration
	P95Latency  time.Duration
	LastUsed    time.Time
}

type toolEntry struct {
	t       tool.Tool
	enabled bool
}

// Registry is the runtime tool contract registry.
type Registry struct {
	mu         sync.Mutex
	tools      map[string]*toolEntry
	executor   Executor
	resolver   tool.PermissionResolver
	rateWindows map[string][]time.Time
	audit      []AuditEntry
}

// New creates a Registry dispatching through the given executor. If
// resolver is nil, permission falls back to tool.DefaultPermissionLevel.
func New(executor Executor, resolver tool.PermissionResolver) *Registry {
	return &Registry{
		tools:       make(map[string]*toolEntry),
		executor:    executor,
		resolver:    resolver,
		rateWindows: make(map[string][]time.Time),
	}
}

// Register adds a tool, enabled by default.
func (r *Registry) Register(t tool.Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.Name()]; exists {
		return tool.ErrToolExists
	}
	r.tools[t.Name()] = &toolEntry{t: t, enabled: true}
	return nil
}

// SetEnabled toggles whether a registered tool may be dispatched.
func (r *Registry) SetEnabled(name string, enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.tools[name]; ok {
		e.enabled = enabled
	}
}

// Execute runs the full pipeline: existence, enabled, permission,
// rate-limit, input validation, dry-run, dispatch, output validation
// (log-only), audit log.
func (r *Registry) Execute(ctx context.Context, toolName string, input json.RawMessage, execCtx tool.ToolExecutionContext, dryRun bool) (tool.Result, error) {
	start := time.Now()

	r.mu.Lock()
	entry, found := r.tools[toolName]
	r.mu.Unlock()
	if !found {
		r.recordAudit(toolName, input, string(CodeToolNotFound), time.Since(start))
		return tool.Result{}, newPipelineError(CodeToolNotFound, false, tool.ErrToolNotFound)
	}
	if !entry.enabled {
		r.recordAudit(toolName, input, string(CodeToolDisabled), time.Since(start))
		return tool.Result{}, newPipelineError(CodeToolDisabled, false, nil)
	}

	level := tool.DefaultPermissionLevel(entry.t)
	if r.resolver != nil {
		level = r.resolver(entry.t, execCtx)
	}
	// A standalone registry (no orchestrator approval handler upstream)
	// treats CONFIRM/APPROVE as ALLOWED; only BLOCKED is denied here.
	if level == tool.PermissionBlocked {
		r.recordAudit(toolName, input, string(CodePermissionDenied), time.Since(start))
		return tool.Result{}, newPipelineError(CodePermissionDenied, false, nil)
	}

	if !r.checkRateLimit(toolName) {
		r.recordAudit(toolName, input, string(CodeRateLimit), time.Since(start))
		return tool.Result{}, newPipelineError(CodeRateLimit, true, nil)
	}

	if err := entry.t.InputSchema().Validate(input); err != nil {
		r.recordAudit(toolName, input, string(CodeInvalidInput), time.Since(start))
		return tool.Result{}, newPipelineError(CodeInvalidInput, false, err)
	}

	if dryRun {
		r.recordAudit(toolName, input, "success", time.Since(start))
		return tool.NewResult(input), nil
	}

	result, err := r.dispatch(ctx, entry.t, input)
	if err != nil {
		r.recordAudit(toolName, input, string(CodeExecutionError), time.Since(start))
		return tool.Result{}, newPipelineError(CodeExecutionError, entry.t.Annotations().CanRetry(), err)
	}

	if verr := entry.t.OutputSchema().Validate(result.Output); verr != nil {
		logging.Warn().Add(logging.ToolName(toolName)).Add(logging.ErrorField(verr)).Msg("tool output failed schema validation, proceeding anyway")
	}

	r.recordAudit(toolName, input, "success", time.Since(start))
	return result, nil
}

func (r *Registry) dispatch(ctx context.Context, t tool.Tool, input json.RawMessage) (tool.Result, error) {
	if r.executor != nil {
		return r.executor.Execute(ctx, t, input)
	}
	return t.Execute(ctx, input)
}

// checkRateLimit enforces a sliding 60s window per tool; only successful
// dispatches consume the window's budget, counted at call time and backed
// out is unnecessary since validation failures return before this check.
func (r *Registry) checkRateLimit(toolName string) bool {
	const maxPerWindow = 60

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-rateLimitWindow)
	hits := r.rateWindows[toolName]
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= maxPerWindow {
		r.rateWindows[toolName] = kept
		return false
	}
	r.rateWindows[toolName] = append(kept, now)
	return true
}

func (r *Registry) recordAudit(toolName string, input json.RawMessage, outcome string, dur time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audit = append(r.audit, AuditEntry{
		ToolName:   toolName,
		InputShape: shapeOf(input),
		Outcome:    outcome,
		Duration:   dur,
		Timestamp:  time.Now(),
	})
	if len(r.audit) > maxAuditLog {
		r.audit = r.audit[len(r.audit)-trimAuditLogTo:]
	}
}

// shapeOf summarizes input as a type tag and shallow shape, never values,
// so audit entries can't leak sensitive tool arguments.
func shapeOf(input json.RawMessage) string {
	var v any
	if err := json.Unmarshal(input, &v); err != nil {
		return "invalid"
	}
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "object{" + strings.Join(keys, ",") + "}"
	case []any:
		return "array[len=" + strconv.Itoa(len(t)) + "]"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return "unknown"
	}
}

// StatsFor computes call statistics for a tool from the audit log.
func (r *Registry) StatsFor(toolName string) Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	var durations []time.Duration
	successes := 0
	var lastUsed time.Time
	for _, e := range r.audit {
		if e.ToolName != toolName {
			continue
		}
		durations = append(durations, e.Duration)
		if e.Outcome == "success" {
			successes++
		}
		if e.Timestamp.After(lastUsed) {
			lastUsed = e.Timestamp
		}
	}
	if len(durations) == 0 {
		return Stats{}
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	var total time.Duration
	for _, d := range durations {
		total += d
	}
	mean := total / time.Duration(len(durations))
	p95Index := int(float64(len(durations)) * 0.95)
	if p95Index >= len(durations) {
		p95Index = len(durations) - 1
	}

	return Stats{
		CallCount:   len(durations),
		SuccessRate: float64(successes) / float64(len(durations)),
		MeanLatency: mean,
		P95Latency:  durations[p95Index],
		LastUsed:    lastUsed,
	}
}

// Descriptions returns a "name: description" line per registered, enabled
// tool in name order, suitable for rendering into a planning prompt.
func (r *Registry) Descriptions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]string, 0, len(names))
	for _, name := range names {
		e := r.tools[name]
		if !e.enabled {
			continue
		}
		out = append(out, name+": "+e.t.Description())
	}
	return out
}

// AuditLog returns a snapshot of the bounded audit history.
func (r *Registry) AuditLog() []AuditEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]AuditEntry, len(r.audit))
	copy(out, r.audit)
	return out
}
