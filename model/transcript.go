// Package model provides the conversation transcript domain types shared
// between the agent loop, the LLM layer and the console.
package model

import (
	"encoding/json"
	"time"
)

// TurnKind discriminates between turn types.
type TurnKind string

// Turn kinds.
const (
	TurnUserMessage   TurnKind = "user_message"
	TurnAssistantText TurnKind = "assistant_text"
	TurnToolRequest   TurnKind = "tool_request"
	TurnToolResult    TurnKind = "tool_result"
)

// Turn is a single entry in the conversation transcript. Exactly one of the
// pointer fields is set, matching Kind.
type Turn struct {
	Kind      TurnKind       `json:"kind"`
	Timestamp time.Time      `json:"timestamp"`
	User      *UserMessage   `json:"user,omitempty"`
	Assistant *AssistantText `json:"assistant,omitempty"`
	Request   *ToolRequest   `json:"tool_request,omitempty"`
	Result    *ToolResult    `json:"tool_result,omitempty"`
}

// UserMessage holds one user instruction.
type UserMessage struct {
	Text string `json:"text"`
}

// AssistantText holds a final (non-tool) model response.
type AssistantText struct {
	Text string `json:"text"`
}

// ToolRequest records a tool invocation the model asked for. The ID is
// generated loop-side and pairs the request with its eventual result.
type ToolRequest struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolResult records the outcome of one tool invocation.
type ToolResult struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Output    string `json:"output"`
	OK        bool   `json:"ok"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// NewUserTurn creates a Turn wrapping a user instruction.
func NewUserTurn(text string) Turn {
	return Turn{
		Kind:      TurnUserMessage,
		Timestamp: time.Now(),
		User:      &UserMessage{Text: text},
	}
}

// NewAssistantTurn creates a Turn wrapping final assistant text.
func NewAssistantTurn(text string) Turn {
	return Turn{
		Kind:      TurnAssistantText,
		Timestamp: time.Now(),
		Assistant: &AssistantText{Text: text},
	}
}

// NewToolRequestTurn creates a Turn wrapping a tool request.
func NewToolRequestTurn(id, name string, args json.RawMessage) Turn {
	return Turn{
		Kind:      TurnToolRequest,
		Timestamp: time.Now(),
		Request:   &ToolRequest{ID: id, Name: name, Arguments: args},
	}
}

// NewToolResultTurn creates a Turn wrapping a tool result.
func NewToolResultTurn(id, name, output string, ok bool, errorKind string) Turn {
	return Turn{
		Kind:      TurnToolResult,
		Timestamp: time.Now(),
		Result:    &ToolResult{ID: id, Name: name, Output: output, OK: ok, ErrorKind: errorKind},
	}
}

// Transcript is the append-only conversation history for one session.
// It is owned exclusively by the agent loop; TruncateTo exists only to roll
// back a failed model turn before anything was surfaced.
type Transcript struct {
	turns []Turn
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds a turn to the transcript.
func (t *Transcript) Append(turn Turn) {
	t.turns = append(t.turns, turn)
}

// Turns returns a copy of the transcript entries in order.
func (t *Transcript) Turns() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Len returns the number of turns.
func (t *Transcript) Len() int {
	return len(t.turns)
}

// TruncateTo discards turns beyond n. Used to roll back a user turn that
// failed before producing any visible output.
func (t *Transcript) TruncateTo(n int) {
	if n < 0 {
		n = 0
	}
	if n < len(t.turns) {
		t.turns = t.turns[:n]
	}
}

// PendingRequest returns the most recent ToolRequest that has no matching
// ToolResult yet, or nil when every request is paired.
func (t *Transcript) PendingRequest() *ToolRequest {
	answered := make(map[string]bool)
	for i := len(t.turns) - 1; i >= 0; i-- {
		switch t.turns[i].Kind {
		case TurnToolResult:
			answered[t.turns[i].Result.ID] = true
		case TurnToolRequest:
			if !answered[t.turns[i].Request.ID] {
				req := *t.turns[i].Request
				return &req
			}
		}
	}
	return nil
}

// Reset discards the whole transcript. Called at session end.
func (t *Transcript) Reset() {
	t.turns = nil
}
