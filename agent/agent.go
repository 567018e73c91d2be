// The agent loop: the state machine that turns one user instruction into a
// sequence of model calls and tool invocations.
//
// This is THE canonical implementation of the loop. All turn handling goes
// through this module.
//
// Information Hiding:
// - Loop state transitions hidden
// - Transcript-to-message replay hidden
// - Tool routing, approval gating and output archiving hidden

package agent

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"playpen/llm"
	"playpen/model"
	"playpen/storage"
	"playpen/tools"
)

// DefaultMaxRounds bounds the number of model calls spent on one user
// instruction before the loop gives up and reports back.
const DefaultMaxRounds = 16

// DefaultSystemPrompt is the standing instruction sent to the model ahead
// of every conversation.
const DefaultSystemPrompt = `You are a coding agent operating inside a sandboxed workspace. ` +
	`You can run shell commands and read or write files through the tools provided. ` +
	`All paths are confined to the workspace; do not try to reach outside it. ` +
	`Use tools to accomplish the user's task, then answer with a short summary of what you did.`

// State identifies where the loop currently is in handling an instruction.
type State int

// Loop states.
const (
	StateIdle State = iota
	StateAwaitingModel
	StateAwaitingApproval
	StateExecutingTool
	StateDone
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateAwaitingModel:
		return "AwaitingModel"
	case StateAwaitingApproval:
		return "AwaitingApproval"
	case StateExecutingTool:
		return "ExecutingTool"
	case StateDone:
		return "Done"
	case StateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// UI is the surface the loop reports progress through. The console
// implements it; tests substitute a recording fake.
type UI interface {
	Approver

	// DisplayTurn shows one transcript turn as it is appended.
	DisplayTurn(turn model.Turn)

	// DisplayError shows a session-level failure (model unavailable etc).
	DisplayError(message string)
}

// Agent owns one conversation: the transcript, the model connection, the
// tool registry and the approval gate.
type Agent struct {
	provider     llm.Provider
	registry     *tools.Registry
	gate         *Gate
	ui           UI
	transcript   *model.Transcript
	outputs      *storage.OutputStore
	systemPrompt string
	maxRounds    int
	outputCap    int
	state        State
}

// New creates an agent wired to the given provider, tools and UI.
func New(provider llm.Provider, registry *tools.Registry, ui UI) *Agent {
	return &Agent{
		provider:     provider,
		registry:     registry,
		gate:         NewGate(ui),
		ui:           ui,
		transcript:   model.NewTranscript(),
		systemPrompt: DefaultSystemPrompt,
		maxRounds:    DefaultMaxRounds,
		outputCap:    tools.DefaultOutputCap,
	}
}

// WithSystemPrompt overrides the standing instruction.
func (a *Agent) WithSystemPrompt(prompt string) *Agent {
	if prompt != "" {
		a.systemPrompt = prompt
	}
	return a
}

// WithMaxRounds overrides the per-instruction model call limit.
func (a *Agent) WithMaxRounds(n int) *Agent {
	if n > 0 {
		a.maxRounds = n
	}
	return a
}

// WithOutputStore enables archiving of full tool outputs for the session.
func (a *Agent) WithOutputStore(store *storage.OutputStore) *Agent {
	a.outputs = store
	return a
}

// WithOutputCap overrides the transcript size cap for tool output.
func (a *Agent) WithOutputCap(maxBytes int) *Agent {
	if maxBytes > 0 {
		a.outputCap = maxBytes
	}
	return a
}

// State returns the loop's current state.
func (a *Agent) State() State {
	return a.state
}

// Transcript returns the conversation transcript.
func (a *Agent) Transcript() *model.Transcript {
	return a.transcript
}

// HandleUserMessage runs one user instruction to completion: model calls and
// tool invocations alternate until the model answers with plain text.
//
// Tool failures of every kind are folded into failed tool results and fed
// back to the model; only a model-layer failure aborts the instruction, and
// in that case the transcript is rolled back to where this instruction
// started so a retry replays a clean history.
func (a *Agent) HandleUserMessage(ctx context.Context, text string) error {
	// Providers reject a replayed tool call with no result, so a request an
	// interrupted turn left unanswered gets a failed result before anything
	// else lands in the transcript.
	if pending := a.transcript.PendingRequest(); pending != nil {
		a.append(model.NewToolResultTurn(pending.ID, pending.Name, "no result recorded", false, tools.KindHandlerError))
	}

	checkpoint := a.transcript.Len()
	a.append(model.NewUserTurn(text))

	for round := 0; round < a.maxRounds; round++ {
		a.state = StateAwaitingModel
		response, err := a.provider.ChatWithTools(ctx, a.messages(), a.registry.Definitions())
		if err != nil {
			a.transcript.TruncateTo(checkpoint)
			a.state = StateFailed
			a.ui.DisplayError(fmt.Sprintf("model unavailable: %v", err))
			a.state = StateIdle
			return fmt.Errorf("model call failed: %w", err)
		}

		if len(response.ToolCalls) == 0 {
			a.state = StateDone
			a.append(model.NewAssistantTurn(response.Content))
			a.state = StateIdle
			return nil
		}

		// The response is a tool call; any preamble text is dropped and
		// only the first call is honored.
		call := response.ToolCalls[0]
		requestID := uuid.NewString()
		a.append(model.NewToolRequestTurn(requestID, call.Name, call.Arguments))

		result := a.dispatch(ctx, call)

		output := result.Output
		if result.Error != nil {
			if output != "" {
				output += "\n"
			}
			output += result.Error.Error()
		}
		a.archive(ctx, requestID, call.Name, output)
		capped := tools.TruncateOutput(output, a.outputCap)
		a.append(model.NewToolResultTurn(requestID, call.Name, capped, result.Success(), result.ErrorKind))
	}

	notice := fmt.Sprintf("Stopping: reached the limit of %d tool rounds for this instruction.", a.maxRounds)
	a.state = StateDone
	a.append(model.NewAssistantTurn(notice))
	a.state = StateIdle
	return nil
}

// Reset clears the conversation, returning the agent to a fresh session.
func (a *Agent) Reset() {
	a.transcript.Reset()
	a.state = StateIdle
}

// dispatch routes one tool call through the approval gate and the registry.
func (a *Agent) dispatch(ctx context.Context, call llm.ToolCall) tools.ToolResult {
	if tool, ok := a.registry.Get(call.Name); ok && tool.Metadata().RequiresApproval {
		a.state = StateAwaitingApproval
		approved, err := a.gate.Request(call.Name, call.Arguments)
		if err != nil {
			return tools.FailureResult(tools.KindHandlerError, fmt.Errorf("approval prompt failed: %w", err))
		}
		if !approved {
			return tools.FailureResultf(tools.KindApprovalDenied, "invocation of '%s' denied by user", call.Name)
		}
	}

	a.state = StateExecutingTool
	return a.registry.Invoke(ctx, call.Name, call.Arguments)
}

// archive stores the full untruncated output; archive failures never fail
// the turn.
func (a *Agent) archive(ctx context.Context, requestID, tool, output string) {
	if a.outputs == nil {
		return
	}
	if err := a.outputs.Put(ctx, requestID, tool, output); err != nil {
		a.ui.DisplayError(fmt.Sprintf("failed to archive tool output %s: %v", requestID, err))
	}
}

func (a *Agent) append(turn model.Turn) {
	a.transcript.Append(turn)
	a.ui.DisplayTurn(turn)
}

// messages replays the transcript as the message list sent to the stateless
// model: the transcript is the single source of truth for what the model
// has seen.
func (a *Agent) messages() []llm.ChatMessage {
	turns := a.transcript.Turns()
	messages := make([]llm.ChatMessage, 0, len(turns)+1)
	messages = append(messages, llm.SystemMessage(a.systemPrompt))

	for _, turn := range turns {
		switch turn.Kind {
		case model.TurnUserMessage:
			messages = append(messages, llm.UserMessage(turn.User.Text))
		case model.TurnAssistantText:
			messages = append(messages, llm.AssistantMessage(turn.Assistant.Text))
		case model.TurnToolRequest:
			messages = append(messages, llm.ChatMessage{
				Role: "assistant",
				ToolCalls: []llm.ToolCall{{
					ID:        turn.Request.ID,
					Name:      turn.Request.Name,
					Arguments: turn.Request.Arguments,
				}},
			})
		case model.TurnToolResult:
			content := turn.Result.Output
			if !turn.Result.OK && turn.Result.ErrorKind != "" {
				content = fmt.Sprintf("[%s] %s", turn.Result.ErrorKind, content)
			}
			messages = append(messages, llm.ToolMessage(turn.Result.ID, turn.Result.Name, content))
		}
	}
	return messages
}
