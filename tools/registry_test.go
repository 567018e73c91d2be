package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// stubTool is a configurable tool for registry tests.
type stubTool struct {
	meta     ToolMetadata
	execute  func(ctx context.Context, args json.RawMessage) ToolResult
	validate func(args json.RawMessage) error
}

func (s *stubTool) Metadata() ToolMetadata { return s.meta }

func (s *stubTool) Execute(ctx context.Context, args json.RawMessage) ToolResult {
	return s.execute(ctx, args)
}

func (s *stubTool) Validate(args json.RawMessage) error {
	if s.validate != nil {
		return s.validate(args)
	}
	return nil
}

func newStub(name string, params []ToolParameter, execute func(context.Context, json.RawMessage) ToolResult) *stubTool {
	return &stubTool{
		meta:    ToolMetadata{Name: name, Description: name, Parameters: params},
		execute: execute,
	}
}

func TestRegisterDuplicate(t *testing.T) {
	registry := NewRegistry()
	tool := newStub("dup", nil, func(context.Context, json.RawMessage) ToolResult {
		return SuccessResult("ok")
	})

	if err := registry.Register(tool); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := registry.Register(tool); err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestInvokeUnknownTool(t *testing.T) {
	registry := NewRegistry()

	result := registry.Invoke(context.Background(), "nope", json.RawMessage(`{}`))
	if result.Success() {
		t.Fatal("expected failure for unknown tool")
	}
	if result.ErrorKind != KindUnknownTool {
		t.Errorf("expected %s, got %s", KindUnknownTool, result.ErrorKind)
	}
}

func TestInvokeMissingParameter(t *testing.T) {
	registry := NewRegistry()
	tool := newStub("needs_path", []ToolParameter{
		{Name: "path", ParamType: "string", Required: true},
		{Name: "flag", ParamType: "boolean", Required: false},
	}, func(context.Context, json.RawMessage) ToolResult {
		return SuccessResult("ok")
	})
	if err := registry.Register(tool); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := registry.Invoke(context.Background(), "needs_path", json.RawMessage(`{"flag": true}`))
	if result.Success() {
		t.Fatal("expected failure for missing parameter")
	}
	if result.ErrorKind != KindMissingParameter {
		t.Errorf("expected %s, got %s", KindMissingParameter, result.ErrorKind)
	}
	if !strings.Contains(result.Error.Error(), "path") {
		t.Errorf("expected parameter name in error, got %v", result.Error)
	}
}

func TestInvokeOptionalParameterAbsent(t *testing.T) {
	registry := NewRegistry()
	tool := newStub("optional", []ToolParameter{
		{Name: "extra", ParamType: "string", Required: false},
	}, func(context.Context, json.RawMessage) ToolResult {
		return SuccessResult("ran")
	})
	if err := registry.Register(tool); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := registry.Invoke(context.Background(), "optional", json.RawMessage(`{}`))
	if !result.Success() {
		t.Errorf("expected success, got %v", result.Error)
	}
}

func TestInvokeRecoversPanic(t *testing.T) {
	registry := NewRegistry()
	tool := newStub("bomb", nil, func(context.Context, json.RawMessage) ToolResult {
		panic("boom")
	})
	if err := registry.Register(tool); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := registry.Invoke(context.Background(), "bomb", json.RawMessage(`{}`))
	if result.Success() {
		t.Fatal("expected failure for panicking tool")
	}
	if result.ErrorKind != KindHandlerError {
		t.Errorf("expected %s, got %s", KindHandlerError, result.ErrorKind)
	}
	if !strings.Contains(result.Error.Error(), "boom") {
		t.Errorf("expected panic value in error, got %v", result.Error)
	}
}

func TestInvokeRecoversValidatePanic(t *testing.T) {
	registry := NewRegistry()
	tool := newStub("strict", nil, func(context.Context, json.RawMessage) ToolResult {
		return SuccessResult("never reached")
	})
	tool.validate = func(json.RawMessage) error {
		panic("bad schema assumption")
	}
	if err := registry.Register(tool); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := registry.Invoke(context.Background(), "strict", json.RawMessage(`{}`))
	if result.Success() {
		t.Fatal("expected failure for panicking Validate")
	}
	if result.ErrorKind != KindHandlerError {
		t.Errorf("expected %s, got %s", KindHandlerError, result.ErrorKind)
	}
	if !strings.Contains(result.Error.Error(), "bad schema assumption") {
		t.Errorf("expected panic value in error, got %v", result.Error)
	}
}

func TestInvokeTimesOut(t *testing.T) {
	registry := NewRegistry().WithTimeout(1)
	tool := newStub("slow", nil, func(ctx context.Context, _ json.RawMessage) ToolResult {
		select {
		case <-time.After(10 * time.Second):
		case <-ctx.Done():
		}
		return SuccessResult("too late")
	})
	if err := registry.Register(tool); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := registry.Invoke(context.Background(), "slow", json.RawMessage(`{}`))
	if result.Success() {
		t.Fatal("expected timeout failure")
	}
	if result.ErrorKind != KindHandlerTimeout {
		t.Errorf("expected %s, got %s", KindHandlerTimeout, result.ErrorKind)
	}
}

func TestWithDefaultsRegistersBuiltins(t *testing.T) {
	root := newTestRoot(t)

	registry, err := WithDefaults(root, DefaultToolTimeout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := registry.Names()
	want := []string{"read_file", "run_shell", "write_file"}
	if len(names) != len(want) {
		t.Fatalf("expected %d tools, got %v", len(want), names)
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("expected %q at %d, got %q", name, i, names[i])
		}
	}

	// Only the shell requires approval.
	for _, meta := range registry.List() {
		requiresApproval := meta.Name == "run_shell"
		if meta.RequiresApproval != requiresApproval {
			t.Errorf("%s: RequiresApproval = %v", meta.Name, meta.RequiresApproval)
		}
	}
}

func TestDefinitionsShape(t *testing.T) {
	registry := NewRegistry()
	tool := newStub("shaped", []ToolParameter{
		{Name: "path", ParamType: "string", Description: "a path", Required: true},
	}, func(context.Context, json.RawMessage) ToolResult {
		return SuccessResult("ok")
	})
	if err := registry.Register(tool); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	defs := registry.Definitions()
	if len(defs) != 1 {
		t.Fatalf("expected one definition, got %d", len(defs))
	}
	def := defs[0]
	if def.Name != "shaped" {
		t.Errorf("unexpected name %q", def.Name)
	}
	properties, ok := def.Parameters["properties"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected properties map, got %T", def.Parameters["properties"])
	}
	if _, ok := properties["path"]; !ok {
		t.Error("expected 'path' in properties")
	}
	required, ok := def.Parameters["required"].([]string)
	if !ok || len(required) != 1 || required[0] != "path" {
		t.Errorf("unexpected required list: %v", def.Parameters["required"])
	}
}
