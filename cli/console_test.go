package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"playpen/model"
)

func newTestConsole(input string) (*Console, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return NewConsoleWith(out, errOut, strings.NewReader(input)), out, errOut
}

func TestPromptApprovalYes(t *testing.T) {
	for _, answer := range []string{"y\n", "Y\n", "yes\n", " YES \n"} {
		console, _, _ := newTestConsole(answer)
		approved, err := console.PromptApproval("run_shell", json.RawMessage(`{"command":"ls"}`))
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", answer, err)
		}
		if !approved {
			t.Errorf("expected approval for answer %q", answer)
		}
	}
}

func TestPromptApprovalDeniesEverythingElse(t *testing.T) {
	for _, answer := range []string{"n\n", "no\n", "\n", "maybe\n", ""} {
		console, _, _ := newTestConsole(answer)
		approved, err := console.PromptApproval("run_shell", json.RawMessage(`{}`))
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", answer, err)
		}
		if approved {
			t.Errorf("expected denial for answer %q", answer)
		}
	}
}

func TestPromptShowsToolAndArgs(t *testing.T) {
	console, out, _ := newTestConsole("n\n")
	console.PromptApproval("run_shell", json.RawMessage(`{"command":"rm -rf ."}`))

	prompt := out.String()
	if !strings.Contains(prompt, "run_shell") {
		t.Error("expected tool name in prompt")
	}
	if !strings.Contains(prompt, "rm -rf .") {
		t.Error("expected command in prompt")
	}
}

func TestDisplayTurnAssistant(t *testing.T) {
	console, out, _ := newTestConsole("")
	console.DisplayTurn(model.NewAssistantTurn("all done"))

	if !strings.Contains(out.String(), "all done") {
		t.Errorf("expected assistant text, got %q", out.String())
	}
}

func TestDisplayTurnToolRequestShowsID(t *testing.T) {
	console, out, _ := newTestConsole("")
	console.DisplayTurn(model.NewToolRequestTurn("req-42", "read_file", json.RawMessage(`{"path":"a.txt"}`)))

	rendered := out.String()
	if !strings.Contains(rendered, "req-42") {
		t.Error("expected request id in output")
	}
	if !strings.Contains(rendered, "read_file") {
		t.Error("expected tool name in output")
	}
}

func TestDisplayTurnFailedResultShowsKind(t *testing.T) {
	console, out, _ := newTestConsole("")
	console.DisplayTurn(model.NewToolResultTurn("r1", "read_file", "file does not exist: a.txt", false, "FileNotFound"))

	if !strings.Contains(out.String(), "FileNotFound") {
		t.Errorf("expected error kind in output, got %q", out.String())
	}
}

func TestReadLineSharesReaderWithApproval(t *testing.T) {
	console, _, _ := newTestConsole("y\nlist the workspace\n")

	approved, err := console.PromptApproval("run_shell", json.RawMessage(`{"command":"ls"}`))
	if err != nil {
		t.Fatalf("unexpected approval error: %v", err)
	}
	if !approved {
		t.Fatal("expected approval")
	}

	line, err := console.ReadLine()
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	if line != "list the workspace" {
		t.Errorf("expected next instruction after the approval answer, got %q", line)
	}
}

func TestReadLineEOF(t *testing.T) {
	console, _, _ := newTestConsole("last line")

	line, err := console.ReadLine()
	if err != nil {
		t.Fatalf("unexpected error on final unterminated line: %v", err)
	}
	if line != "last line" {
		t.Errorf("expected final line, got %q", line)
	}

	if _, err := console.ReadLine(); err != io.EOF {
		t.Errorf("expected io.EOF once input is exhausted, got %v", err)
	}
}

func TestDisplayErrorGoesToStderr(t *testing.T) {
	console, out, errOut := newTestConsole("")
	console.DisplayError("model unavailable")

	if out.Len() != 0 {
		t.Errorf("expected nothing on stdout, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "model unavailable") {
		t.Errorf("expected error on stderr, got %q", errOut.String())
	}
}
