// Tool registry and the single tool invocation choke point.
//
// Information Hiding:
// - Tool storage and lookup implementation hidden
// - Argument validation against the parameter schema hidden
// - Panic recovery and timeout enforcement hidden from the agent loop

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"playpen/llm"
	"playpen/sandbox"
)

// Default timeout and size constants for tools.
const (
	DefaultToolTimeout = 30 // seconds
	DefaultOutputCap   = 8 * 1024
	DefaultMaxFileSize = 1024 * 1024 // 1MB
)

// Registry manages available tools.
type Registry struct {
	mu          sync.RWMutex
	tools       map[string]Tool
	timeoutSecs uint64
}

// NewRegistry creates a new empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:       make(map[string]Tool),
		timeoutSecs: DefaultToolTimeout,
	}
}

// WithTimeout overrides the per-invocation timeout.
func (r *Registry) WithTimeout(secs uint64) *Registry {
	if secs > 0 {
		r.timeoutSecs = secs
	}
	return r
}

// Register adds a new tool to the registry.
// Returns error if a tool with the same name already exists.
func (r *Registry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Metadata().Name
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool '%s' already registered", name)
	}
	r.tools[name] = tool
	return nil
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.tools[name]
	return tool, exists
}

// Names returns all registered tool names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns metadata for all registered tools in name order.
func (r *Registry) List() []ToolMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	metadata := make([]ToolMetadata, 0, len(names))
	for _, name := range names {
		metadata = append(metadata, r.tools[name].Metadata())
	}
	return metadata
}

// Definitions returns the tool surface shown to the LLM collaborator.
func (r *Registry) Definitions() []llm.ToolDefinition {
	list := r.List()
	defs := make([]llm.ToolDefinition, 0, len(list))
	for _, meta := range list {
		defs = append(defs, meta.Definition())
	}
	return defs
}

// Invoke looks up a tool, validates arguments against its parameter schema,
// and executes it. All failures come back as failed ToolResults; a broken
// handler must never crash the session, so the whole invocation path
// (Metadata, Validate and Execute) runs under panic recovery.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (result ToolResult) {
	defer func() {
		if rec := recover(); rec != nil {
			result = FailureResultf(KindHandlerError, "tool '%s' panicked: %v", name, rec)
		}
	}()

	tool, exists := r.Get(name)
	if !exists {
		return FailureResultf(KindUnknownTool, "unknown tool: %s", name)
	}

	if result, ok := checkRequiredParameters(tool.Metadata(), args); !ok {
		return result
	}

	if err := tool.Validate(args); err != nil {
		return FailureResult(KindHandlerError, fmt.Errorf("validation failed: %w", err))
	}

	timeout := time.Duration(r.timeoutSecs) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan ToolResult, 1)
	go func() {
		done <- executeRecovering(ctx, tool, args)
	}()

	select {
	case result := <-done:
		return result
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return FailureResultf(KindHandlerTimeout, "tool '%s' timed out after %d seconds", name, r.timeoutSecs)
		}
		return FailureResult(KindHandlerError, ctx.Err())
	}
}

// executeRecovering runs the tool and converts panics into failed results.
func executeRecovering(ctx context.Context, tool Tool, args json.RawMessage) (result ToolResult) {
	defer func() {
		if rec := recover(); rec != nil {
			result = FailureResultf(KindHandlerError, "tool '%s' panicked: %v", tool.Metadata().Name, rec)
		}
	}()
	return tool.Execute(ctx, args)
}

// checkRequiredParameters verifies every required parameter is present in
// the raw arguments. Returns a MissingParameter result naming the first
// absent parameter.
func checkRequiredParameters(meta ToolMetadata, args json.RawMessage) (ToolResult, bool) {
	var provided map[string]json.RawMessage
	if len(args) > 0 {
		if err := json.Unmarshal(args, &provided); err != nil {
			return FailureResult(KindHandlerError, fmt.Errorf("invalid arguments: %w", err)), false
		}
	}
	for _, p := range meta.Parameters {
		if !p.Required {
			continue
		}
		if _, ok := provided[p.Name]; !ok {
			return FailureResultf(KindMissingParameter, "missing required parameter: %s", p.Name), false
		}
	}
	return ToolResult{}, true
}

// WithDefaults creates a registry holding the built-in tool set, confined to
// the given sandbox root. Returns error if any registration fails.
func WithDefaults(root *sandbox.Root, timeoutSecs uint64) (*Registry, error) {
	registry := NewRegistry().WithTimeout(timeoutSecs)

	builtins := []Tool{
		NewRunShellTool(root, timeoutSecs),
		NewReadFileTool(root, DefaultMaxFileSize),
		NewWriteFileTool(root, DefaultMaxFileSize),
	}

	for _, t := range builtins {
		if err := registry.Register(t); err != nil {
			return nil, fmt.Errorf("failed to register default tools: %w", err)
		}
	}

	return registry, nil
}
