// Filesystem tools - read and write confined to the workspace sandbox.
//
// Information Hiding:
// - File I/O implementation details hidden
// - Path resolution delegated to the sandbox package
// - Error classification for file operations abstracted

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"playpen/sandbox"
)

// resolveFailure maps sandbox resolution errors onto tool error kinds.
func resolveFailure(err error) ToolResult {
	switch {
	case errors.Is(err, sandbox.ErrInvalidPath):
		return FailureResult(KindInvalidPath, err)
	case errors.Is(err, sandbox.ErrSandboxEscape):
		return FailureResult(KindSandboxEscape, err)
	default:
		return FailureResult(KindHandlerError, err)
	}
}

// ReadFileTool reads file contents from inside the workspace.
type ReadFileTool struct {
	BaseTool
	root         workspaceRoot
	maxSizeBytes int64
}

// NewReadFileTool creates a new read file tool.
func NewReadFileTool(root workspaceRoot, maxSizeBytes int64) *ReadFileTool {
	return &ReadFileTool{
		root:         root,
		maxSizeBytes: maxSizeBytes,
	}
}

// Metadata returns the tool metadata.
func (t *ReadFileTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "read_file",
		Description: "Read the contents of a file inside the workspace",
		Parameters: []ToolParameter{
			{Name: "path", ParamType: "string", Description: "Path to the file, relative to the workspace", Required: true},
			{Name: "num_lines", ParamType: "integer", Description: "If set, return only the first N lines", Required: false},
		},
	}
}

type readFileArgs struct {
	Path     string `json:"path"`
	NumLines int    `json:"num_lines"`
}

// Validate validates the arguments.
func (t *ReadFileTool) Validate(args json.RawMessage) error {
	var a readFileArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if a.Path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	return nil
}

// Execute reads the file.
func (t *ReadFileTool) Execute(ctx context.Context, args json.RawMessage) ToolResult {
	var a readFileArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return FailureResult(KindHandlerError, fmt.Errorf("invalid arguments: %w", err))
	}

	resolved, err := t.root.Resolve(a.Path)
	if err != nil {
		return resolveFailure(err)
	}

	info, err := os.Stat(resolved)
	if os.IsNotExist(err) {
		return FailureResultf(KindFileNotFound, "file does not exist: %s", a.Path)
	}
	if err != nil {
		return FailureResult(KindHandlerError, fmt.Errorf("failed to read file metadata: %w", err))
	}

	if info.Size() > t.maxSizeBytes {
		return FailureResultf(KindHandlerError, "file too large: %d bytes (max: %d bytes)", info.Size(), t.maxSizeBytes)
	}

	content, err := os.ReadFile(resolved)
	if err != nil {
		return FailureResult(KindHandlerError, fmt.Errorf("failed to read file: %w", err))
	}

	text := string(content)
	if a.NumLines > 0 {
		text = firstLines(text, a.NumLines)
	}

	return SuccessResult(text)
}

// firstLines returns the first n newline-delimited lines of text. A file
// with fewer lines comes back whole.
func firstLines(text string, n int) string {
	lines := strings.Split(text, "\n")
	if len(lines) <= n {
		return text
	}
	return strings.Join(lines[:n], "\n")
}

// WriteFileTool writes content to a file inside the workspace.
type WriteFileTool struct {
	BaseTool
	root         workspaceRoot
	maxSizeBytes int64
}

// NewWriteFileTool creates a new write file tool.
func NewWriteFileTool(root workspaceRoot, maxSizeBytes int64) *WriteFileTool {
	return &WriteFileTool{
		root:         root,
		maxSizeBytes: maxSizeBytes,
	}
}

// Metadata returns the tool metadata.
func (t *WriteFileTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "write_file",
		Description: "Write content to a file inside the workspace (overwrites if it exists)",
		Parameters: []ToolParameter{
			{Name: "path", ParamType: "string", Description: "Path to the file, relative to the workspace", Required: true},
			{Name: "content", ParamType: "string", Description: "Content to write", Required: true},
		},
	}
}

type writeFileArgs struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Validate validates the arguments.
func (t *WriteFileTool) Validate(args json.RawMessage) error {
	var a writeFileArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if a.Path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	return nil
}

// Execute writes to the file, creating parent directories inside the
// workspace as needed.
func (t *WriteFileTool) Execute(ctx context.Context, args json.RawMessage) ToolResult {
	var a writeFileArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return FailureResult(KindHandlerError, fmt.Errorf("invalid arguments: %w", err))
	}

	if int64(len(a.Content)) > t.maxSizeBytes {
		return FailureResultf(KindHandlerError, "content too large: %d bytes (max: %d bytes)", len(a.Content), t.maxSizeBytes)
	}

	resolved, err := t.root.Resolve(a.Path)
	if err != nil {
		return resolveFailure(err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0755); err != nil {
		return FailureResult(KindHandlerError, fmt.Errorf("failed to create directory: %w", err))
	}

	if err := os.WriteFile(resolved, []byte(a.Content), 0644); err != nil {
		return FailureResult(KindHandlerError, fmt.Errorf("failed to write file: %w", err))
	}

	return SuccessResult(fmt.Sprintf("wrote %d bytes to %s", len(a.Content), resolved))
}

// Verify built-in file tools implement Tool
var (
	_ Tool = (*ReadFileTool)(nil)
	_ Tool = (*WriteFileTool)(nil)
)
