// Shell command execution inside the workspace sandbox.
//
// Information Hiding:
// - Shell execution details hidden
// - Exit status and timeout classification hidden

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// RunShellTool executes shell commands via sh -c with the sandbox root as
// working directory. It is the only built-in flagged as requiring approval.
type RunShellTool struct {
	BaseTool
	root        workspaceRoot
	timeoutSecs uint64
}

// NewRunShellTool creates a new shell tool with the given timeout.
func NewRunShellTool(root workspaceRoot, timeoutSecs uint64) *RunShellTool {
	if timeoutSecs == 0 {
		timeoutSecs = DefaultToolTimeout
	}
	return &RunShellTool{
		root:        root,
		timeoutSecs: timeoutSecs,
	}
}

// Metadata returns the tool metadata.
func (t *RunShellTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "run_shell",
		Description: "Execute a shell command inside the workspace. Use this to list files, run scripts, install packages, or use git.",
		Parameters: []ToolParameter{
			{Name: "command", ParamType: "string", Description: "The shell command to run", Required: true},
		},
		RequiresApproval: true,
	}
}

type runShellArgs struct {
	Command string `json:"command"`
}

// Validate validates the tool arguments.
func (t *RunShellTool) Validate(args json.RawMessage) error {
	var a runShellArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if strings.TrimSpace(a.Command) == "" {
		return fmt.Errorf("command cannot be empty")
	}
	return nil
}

// Execute runs the shell command.
func (t *RunShellTool) Execute(ctx context.Context, args json.RawMessage) ToolResult {
	var a runShellArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return FailureResult(KindHandlerError, fmt.Errorf("invalid arguments: %w", err))
	}

	if strings.TrimSpace(a.Command) == "" {
		return FailureResultf(KindHandlerError, "command cannot be empty")
	}

	timeout := time.Duration(t.timeoutSecs) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// sh -c allows pipes and redirects; the approval gate has already run
	// by the time we get here.
	cmd := exec.CommandContext(ctx, "sh", "-c", a.Command)
	cmd.Dir = t.root.Dir()

	output, err := cmd.CombinedOutput()
	combined := string(output)

	if ctx.Err() == context.DeadlineExceeded {
		return FailureResultf(KindHandlerTimeout, "command timed out after %d seconds", t.timeoutSecs)
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return ToolResult{
				Output: combined,
				Error:  fmt.Errorf("command failed with exit code %d", exitErr.ExitCode()),
			}
		}
		return FailureResult(KindHandlerError, fmt.Errorf("failed to execute command: %w", err))
	}

	if strings.TrimSpace(combined) == "" {
		return SuccessResult("command executed successfully (no output)")
	}
	return SuccessResult(combined)
}

// Verify RunShellTool implements Tool
var _ Tool = (*RunShellTool)(nil)
