package toolregistry

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/felixgeelhaar/agent-go/domain/tool"
)

func echoTool(name string) tool.Tool {
	return tool.NewBuilder(name).
		WithDescription("echoes its input back").
		ReadOnly().
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			return tool.NewResult(input), nil
		}).
		MustBuild()
}

func blockedTool(name string) tool.Tool {
	return tool.NewBuilder(name).
		WithDescription("never allowed to run").
		WithRiskLevel(tool.RiskCritical).
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			return tool.NewResult(input), nil
		}).
		MustBuild()
}

func TestRegistry_ExecuteSuccess(t *testing.T) {
	t.Parallel()
	r := New(nil, nil)
	if err := r.Register(echoTool("lookup_memory")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	input := json.RawMessage(`{"query":"first car"}`)
	result, err := r.Execute(context.Background(), "lookup_memory", input, tool.ToolExecutionContext{RunID: "r1"}, false)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if string(result.Output) != string(input) {
		t.Errorf("got output %s, want %s", result.Output, input)
	}
}

func TestRegistry_ExecuteUnknownTool(t *testing.T) {
	t.Parallel()
	r := New(nil, nil)
	_, err := r.Execute(context.Background(), "nonexistent", json.RawMessage(`{}`), tool.ToolExecutionContext{}, false)
	if err == nil {
		t.Fatal("expected an error for an unregistered tool")
	}
	perr, ok := err.(*PipelineError)
	if !ok || perr.Code != CodeToolNotFound {
		t.Errorf("expected CodeToolNotFound, got %v", err)
	}
}

func TestRegistry_ExecuteBlockedByPermission(t *testing.T) {
	t.Parallel()
	r := New(nil, nil)
	if err := r.Register(blockedTool("wipe_everything")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := r.Execute(context.Background(), "wipe_everything", json.RawMessage(`{}`), tool.ToolExecutionContext{}, false)
	perr, ok := err.(*PipelineError)
	if !ok || perr.Code != CodePermissionDenied {
		t.Fatalf("expected CodePermissionDenied, got %v", err)
	}
}

func TestRegistry_ExecuteDisabledTool(t *testing.T) {
	t.Parallel()
	r := New(nil, nil)
	if err := r.Register(echoTool("lookup_memory")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	r.SetEnabled("lookup_memory", false)

	_, err := r.Execute(context.Background(), "lookup_memory", json.RawMessage(`{}`), tool.ToolExecutionContext{}, false)
	perr, ok := err.(*PipelineError)
	if !ok || perr.Code != CodeToolDisabled {
		t.Fatalf("expected CodeToolDisabled, got %v", err)
	}
}

func TestRegistry_DryRunShortCircuitsDispatch(t *testing.T) {
	t.Parallel()
	r := New(nil, nil)
	called := false
	def := tool.NewBuilder("side_effecting").
		WithDescription("would mutate state if actually run").
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			called = true
			return tool.NewResult(input), nil
		}).
		MustBuild()
	if err := r.Register(def); err != nil {
		t.Fatalf("Register: %v", err)
	}

	input := json.RawMessage(`{"x":1}`)
	result, err := r.Execute(context.Background(), "side_effecting", input, tool.ToolExecutionContext{}, true)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if called {
		t.Error("expected dry-run to bypass the handler")
	}
	if string(result.Output) != string(input) {
		t.Errorf("expected dry-run result to echo input, got %s", result.Output)
	}
}

func TestRegistry_Descriptions(t *testing.T) {
	t.Parallel()
	r := New(nil, nil)
	if err := r.Register(echoTool("b_tool")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(echoTool("a_tool")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	r.SetEnabled("b_tool", false)

	descs := r.Descriptions()
	if len(descs) != 1 {
		t.Fatalf("expected only the enabled tool listed, got %v", descs)
	}
	if descs[0] != "a_tool: echoes its input back" {
		t.Errorf("unexpected description line: %q", descs[0])
	}
}

func TestRegistry_RateLimitTripsAfterCap(t *testing.T) {
	t.Parallel()
	r := New(nil, nil)
	if err := r.Register(echoTool("fast_tool")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	var lastErr error
	for i := 0; i < 61; i++ {
		_, lastErr = r.Execute(context.Background(), "fast_tool", json.RawMessage(`{}`), tool.ToolExecutionContext{}, false)
	}
	perr, ok := lastErr.(*PipelineError)
	if !ok || perr.Code != CodeRateLimit {
		t.Fatalf("expected the 61st call to trip the rate limit, got %v", lastErr)
	}
}
