// Package llm provides LLM provider abstractions.
//
// Each provider implementation hides:
// - API client initialization and authentication
// - Request/response format conversion
// - Provider-specific error handling

package llm

import (
	"context"
	"fmt"
	"strings"
)

// Provider defines the abstract interface for LLM providers. The agent loop
// replays the full conversation plus the tool surface on every call; the
// provider answers with free text, tool calls, or both.
type Provider interface {
	// Name returns the provider name (for logging/debugging).
	Name() string

	// Model returns the current model being used.
	Model() string

	// ChatWithTools sends a chat completion request with tool definitions.
	// The LLM may respond with tool calls in LLMResponse.ToolCalls.
	ChatWithTools(ctx context.Context, messages []ChatMessage, tools []ToolDefinition) (LLMResponse, error)
}

// ThinkingLevel trades reasoning depth for latency. It is passed through to
// providers that support it and ignored by those that do not.
type ThinkingLevel int

// Thinking levels.
const (
	// ThinkingAuto lets the model pick its own reasoning depth.
	ThinkingAuto ThinkingLevel = iota
	// ThinkingLow favors latency over reasoning depth.
	ThinkingLow
	// ThinkingHigh favors reasoning depth over latency.
	ThinkingHigh
)

// String returns the canonical upper-case name of the level.
func (l ThinkingLevel) String() string {
	switch l {
	case ThinkingLow:
		return "LOW"
	case ThinkingHigh:
		return "HIGH"
	default:
		return "AUTO"
	}
}

// ParseThinkingLevel parses a thinking level from string (case-insensitive).
func ParseThinkingLevel(s string) (ThinkingLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOW":
		return ThinkingLow, nil
	case "HIGH":
		return ThinkingHigh, nil
	case "AUTO", "":
		return ThinkingAuto, nil
	default:
		return ThinkingAuto, fmt.Errorf("unknown thinking level: %q (want LOW, HIGH or AUTO)", s)
	}
}
