// Session setup and the interactive loop.
//
// Information Hiding:
// - Provider/sandbox/registry wiring hidden
// - REPL command dispatch hidden
// - Output archive lookups hidden

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"playpen/agent"
	"playpen/config"
	"playpen/llm"
	"playpen/sandbox"
	"playpen/storage"
	"playpen/tools"
)

// Options holds CLI execution options.
type Options struct {
	Provider      string
	Model         string
	Workspace     string
	MaxRounds     int
	ThinkingLevel string
}

// DefaultOptions returns default CLI options.
func DefaultOptions() Options {
	return Options{
		Provider:      "gemini",
		Workspace:     config.DefaultWorkspace,
		ThinkingLevel: "AUTO",
	}
}

// Run wires up a session and drives the interactive loop until the operator
// exits. Startup failures (bad provider, missing credential, unusable
// workspace) come back as errors for main to report.
func Run(ctx context.Context, opts Options) error {
	settings, err := config.New(opts.Provider)
	if err != nil {
		return err
	}
	if opts.Workspace != "" {
		settings.Workspace = opts.Workspace
	}
	if opts.MaxRounds > 0 {
		settings.Agent.MaxRounds = opts.MaxRounds
	}
	if opts.Model != "" {
		settings.LLM.Model = opts.Model
	}

	provider, err := createProvider(settings, opts.ThinkingLevel)
	if err != nil {
		return err
	}

	root, err := sandbox.NewRoot(settings.Workspace)
	if err != nil {
		return fmt.Errorf("failed to prepare workspace: %w", err)
	}

	registry, err := tools.WithDefaults(root, settings.Agent.ToolTimeoutSecs)
	if err != nil {
		return err
	}

	outputs, err := storage.OpenSession()
	if err != nil {
		return fmt.Errorf("failed to open session archive: %w", err)
	}
	defer outputs.Close()

	console := NewConsole()
	a := agent.New(provider, registry, console).
		WithMaxRounds(settings.Agent.MaxRounds).
		WithOutputStore(outputs)

	fmt.Printf("playpen: %s (%s), workspace %s\n", provider.Name(), provider.Model(), root.Dir())
	fmt.Printf("Tools: %s. Type 'exit' to quit, ':out <id>' for full tool output.\n\n", strings.Join(registry.Names(), ", "))

	return repl(ctx, a, console, outputs)
}

// repl reads operator input line by line and hands each instruction to the
// agent. Input comes through the console's reader, which the approval
// prompt shares, so piped input lines land where they are expected.
// Agent-level errors end the instruction, not the session.
func repl(ctx context.Context, a *agent.Agent, console *Console, outputs *storage.OutputStore) error {
	for {
		fmt.Print("> ")
		line, err := console.ReadLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}
		if strings.HasPrefix(input, ":out ") {
			showArchivedOutput(ctx, console, outputs, strings.TrimSpace(strings.TrimPrefix(input, ":out ")))
			continue
		}

		// The error is already on screen via DisplayError; the session
		// continues with the transcript rolled back.
		_ = a.HandleUserMessage(ctx, input)
	}
	return nil
}

// showArchivedOutput dumps the full untruncated output of one tool request.
func showArchivedOutput(ctx context.Context, console *Console, outputs *storage.OutputStore, requestID string) {
	output, found, err := outputs.Get(ctx, requestID)
	if err != nil {
		console.DisplayError(fmt.Sprintf("failed to load output %s: %v", requestID, err))
		return
	}
	if !found {
		ids, err := outputs.RequestIDs(ctx)
		if err == nil && len(ids) > 0 {
			console.DisplayError(fmt.Sprintf("no output for %s (known: %s)", requestID, strings.Join(ids, ", ")))
		} else {
			console.DisplayError(fmt.Sprintf("no output for %s", requestID))
		}
		return
	}
	fmt.Println(output)
}

// createProvider builds the LLM provider from settings plus the thinking
// level flag.
func createProvider(settings config.Settings, thinkingLevel string) (llm.Provider, error) {
	providerType, err := llm.ParseProviderType(settings.LLM.Provider)
	if err != nil {
		return nil, err
	}

	thinking, err := llm.ParseThinkingLevel(thinkingLevel)
	if err != nil {
		return nil, err
	}

	apiKey, err := config.APIKeyFor(settings.LLM.Provider)
	if err != nil {
		return nil, err
	}

	return llm.NewProviderBuilder(providerType).
		Model(settings.LLM.Model).
		MaxTokens(settings.LLM.MaxTokens).
		Temperature(float32(settings.LLM.Temperature)).
		Thinking(thinking).
		APIKey(apiKey)
}
