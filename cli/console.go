// Terminal rendering and the interactive approval prompt.
//
// Information Hiding:
// - Turn formatting hidden
// - Approval prompt transport (stdin/stdout) hidden

package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"playpen/model"
)

// Console renders transcript turns to the terminal and asks the operator for
// tool approvals. It implements agent.UI.
type Console struct {
	out    io.Writer
	errOut io.Writer
	in     *bufio.Reader
}

// NewConsole creates a console on stdin/stdout/stderr.
func NewConsole() *Console {
	return &Console{
		out:    os.Stdout,
		errOut: os.Stderr,
		in:     bufio.NewReader(os.Stdin),
	}
}

// NewConsoleWith creates a console on explicit streams (useful for testing).
func NewConsoleWith(out, errOut io.Writer, in io.Reader) *Console {
	return &Console{
		out:    out,
		errOut: errOut,
		in:     bufio.NewReader(in),
	}
}

// DisplayTurn renders one transcript turn with a role prefix.
func (c *Console) DisplayTurn(turn model.Turn) {
	switch turn.Kind {
	case model.TurnUserMessage:
		// The user just typed it; echoing would only add noise.
	case model.TurnAssistantText:
		fmt.Fprintf(c.out, "\nassistant> %s\n\n", turn.Assistant.Text)
	case model.TurnToolRequest:
		fmt.Fprintf(c.out, "  [tool %s] %s %s\n", turn.Request.ID, turn.Request.Name, compactArgs(turn.Request.Arguments))
	case model.TurnToolResult:
		c.displayResult(turn.Result)
	}
}

func (c *Console) displayResult(result *model.ToolResult) {
	if result.OK {
		fmt.Fprintf(c.out, "  [ok] %s\n", indentOutput(result.Output))
		return
	}
	fmt.Fprintf(c.out, "  [error:%s] %s\n", result.ErrorKind, indentOutput(result.Output))
}

// DisplayError shows a session-level failure banner.
func (c *Console) DisplayError(message string) {
	fmt.Fprintf(c.errOut, "\nError: %s\n\n", message)
}

// ReadLine reads one line of operator input. The REPL and the approval
// prompt share this reader so neither buffers input meant for the other.
// Returns io.EOF when the input is exhausted.
func (c *Console) ReadLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// PromptApproval asks the operator to approve one tool invocation. Only an
// explicit yes answer approves; everything else (including EOF) denies.
func (c *Console) PromptApproval(tool string, args json.RawMessage) (bool, error) {
	fmt.Fprintf(c.out, "\n  approve %s? %s\n  [y/N] ", tool, prettyArgs(args))

	line, err := c.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read approval answer: %w", err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// compactArgs renders tool arguments on one line.
func compactArgs(args json.RawMessage) string {
	if len(args) == 0 {
		return "{}"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, args); err != nil {
		return string(args)
	}
	return buf.String()
}

// prettyArgs renders tool arguments indented for the approval prompt.
func prettyArgs(args json.RawMessage) string {
	var parsed map[string]interface{}
	if err := json.Unmarshal(args, &parsed); err != nil {
		return string(args)
	}
	pretty, err := json.MarshalIndent(parsed, "  ", "  ")
	if err != nil {
		return string(args)
	}
	return string(pretty)
}

// indentOutput keeps multi-line tool output aligned under its prefix.
func indentOutput(output string) string {
	output = strings.TrimRight(output, "\n")
	if output == "" {
		return "(no output)"
	}
	return strings.ReplaceAll(output, "\n", "\n       ")
}
