package model

import (
	"encoding/json"
	"testing"
)

func TestAppendAndTurns(t *testing.T) {
	transcript := NewTranscript()
	transcript.Append(NewUserTurn("hi"))
	transcript.Append(NewAssistantTurn("hello"))

	if transcript.Len() != 2 {
		t.Fatalf("expected 2 turns, got %d", transcript.Len())
	}

	turns := transcript.Turns()
	if turns[0].Kind != TurnUserMessage || turns[0].User.Text != "hi" {
		t.Errorf("unexpected first turn: %+v", turns[0])
	}
	if turns[1].Kind != TurnAssistantText || turns[1].Assistant.Text != "hello" {
		t.Errorf("unexpected second turn: %+v", turns[1])
	}
}

func TestTurnsReturnsCopy(t *testing.T) {
	transcript := NewTranscript()
	transcript.Append(NewUserTurn("hi"))

	turns := transcript.Turns()
	turns[0] = NewAssistantTurn("mutated")

	if transcript.Turns()[0].Kind != TurnUserMessage {
		t.Error("mutating the returned slice changed the transcript")
	}
}

func TestTruncateTo(t *testing.T) {
	transcript := NewTranscript()
	transcript.Append(NewUserTurn("one"))
	transcript.Append(NewAssistantTurn("two"))
	transcript.Append(NewUserTurn("three"))

	transcript.TruncateTo(1)
	if transcript.Len() != 1 {
		t.Fatalf("expected 1 turn, got %d", transcript.Len())
	}
	if transcript.Turns()[0].User.Text != "one" {
		t.Error("wrong turn survived truncation")
	}

	// Larger than length and negative are both no-ops down to zero.
	transcript.TruncateTo(5)
	if transcript.Len() != 1 {
		t.Errorf("expected unchanged length, got %d", transcript.Len())
	}
	transcript.TruncateTo(-1)
	if transcript.Len() != 0 {
		t.Errorf("expected empty transcript, got %d", transcript.Len())
	}
}

func TestPendingRequest(t *testing.T) {
	transcript := NewTranscript()
	if transcript.PendingRequest() != nil {
		t.Error("expected no pending request on empty transcript")
	}

	args := json.RawMessage(`{"command":"ls"}`)
	transcript.Append(NewToolRequestTurn("r1", "run_shell", args))
	pending := transcript.PendingRequest()
	if pending == nil || pending.ID != "r1" {
		t.Fatalf("expected pending request r1, got %+v", pending)
	}

	transcript.Append(NewToolResultTurn("r1", "run_shell", "ok", true, ""))
	if transcript.PendingRequest() != nil {
		t.Error("expected no pending request after result")
	}
}

func TestReset(t *testing.T) {
	transcript := NewTranscript()
	transcript.Append(NewUserTurn("hi"))
	transcript.Reset()
	if transcript.Len() != 0 {
		t.Errorf("expected empty transcript after reset, got %d", transcript.Len())
	}
}

func TestTurnConstructorsSetExactlyOneField(t *testing.T) {
	cases := []struct {
		name string
		turn Turn
		kind TurnKind
	}{
		{"user", NewUserTurn("x"), TurnUserMessage},
		{"assistant", NewAssistantTurn("x"), TurnAssistantText},
		{"request", NewToolRequestTurn("id", "tool", nil), TurnToolRequest},
		{"result", NewToolResultTurn("id", "tool", "out", true, ""), TurnToolResult},
	}
	for _, tc := range cases {
		if tc.turn.Kind != tc.kind {
			t.Errorf("%s: expected kind %s, got %s", tc.name, tc.kind, tc.turn.Kind)
		}
		set := 0
		if tc.turn.User != nil {
			set++
		}
		if tc.turn.Assistant != nil {
			set++
		}
		if tc.turn.Request != nil {
			set++
		}
		if tc.turn.Result != nil {
			set++
		}
		if set != 1 {
			t.Errorf("%s: expected exactly one payload field, got %d", tc.name, set)
		}
		if tc.turn.Timestamp.IsZero() {
			t.Errorf("%s: expected timestamp", tc.name)
		}
	}
}
