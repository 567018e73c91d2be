package config

import (
	"os"
	"testing"
)

func TestNewValidProvider(t *testing.T) {
	settings, err := New("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != "gemini" {
		t.Errorf("expected provider 'gemini', got %q", settings.LLM.Provider)
	}
}

func TestNewWithAlias(t *testing.T) {
	settings, err := New("claude")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != "anthropic" {
		t.Errorf("expected provider 'anthropic' (normalized from 'claude'), got %q", settings.LLM.Provider)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New("unknown_provider")
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewDefaults(t *testing.T) {
	for _, key := range []string{"AGENT_MAX_ROUNDS", "TOOL_TIMEOUT_SECS", "PLAYPEN_WORKSPACE"} {
		original := os.Getenv(key)
		os.Unsetenv(key)
		defer os.Setenv(key, original)
	}

	settings, err := New("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Agent.MaxRounds != 16 {
		t.Errorf("expected default max rounds 16, got %d", settings.Agent.MaxRounds)
	}
	if settings.Agent.ToolTimeoutSecs != 30 {
		t.Errorf("expected default tool timeout 30, got %d", settings.Agent.ToolTimeoutSecs)
	}
	if settings.Workspace != DefaultWorkspace {
		t.Errorf("expected default workspace %q, got %q", DefaultWorkspace, settings.Workspace)
	}
}

func TestNewReadsWorkspaceEnv(t *testing.T) {
	original := os.Getenv("PLAYPEN_WORKSPACE")
	os.Setenv("PLAYPEN_WORKSPACE", "/tmp/elsewhere")
	defer os.Setenv("PLAYPEN_WORKSPACE", original)

	settings, err := New("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Workspace != "/tmp/elsewhere" {
		t.Errorf("expected workspace from env, got %q", settings.Workspace)
	}
}

func TestAPIKeyForValidProvider(t *testing.T) {
	original := os.Getenv("GEMINI_API_KEY")
	os.Setenv("GEMINI_API_KEY", "test-key")
	defer os.Setenv("GEMINI_API_KEY", original)

	key, err := APIKeyFor("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "test-key" {
		t.Errorf("expected 'test-key', got %q", key)
	}
}

func TestAPIKeyForMissing(t *testing.T) {
	original := os.Getenv("OPENAI_API_KEY")
	os.Unsetenv("OPENAI_API_KEY")
	defer os.Setenv("OPENAI_API_KEY", original)

	_, err := APIKeyFor("openai")
	if err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestAPIKeyForUnknownProvider(t *testing.T) {
	_, err := APIKeyFor("unknown")
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestModelFor(t *testing.T) {
	model, err := ModelFor("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model == "" {
		t.Error("expected non-empty model")
	}
}

func TestModelForEnvOverride(t *testing.T) {
	original := os.Getenv("GEMINI_MODEL")
	os.Setenv("GEMINI_MODEL", "gemini-custom")
	defer os.Setenv("GEMINI_MODEL", original)

	model, err := ModelFor("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model != "gemini-custom" {
		t.Errorf("expected env override, got %q", model)
	}
}

func TestNewWithInvalidEnvVar(t *testing.T) {
	original := os.Getenv("LLM_MAX_TOKENS")
	os.Setenv("LLM_MAX_TOKENS", "not-a-number")
	defer os.Setenv("LLM_MAX_TOKENS", original)

	_, err := New("gemini")
	if err == nil {
		t.Error("expected error for invalid LLM_MAX_TOKENS")
	}
}

func TestNewWithInvalidMaxRounds(t *testing.T) {
	original := os.Getenv("AGENT_MAX_ROUNDS")
	os.Setenv("AGENT_MAX_ROUNDS", "lots")
	defer os.Setenv("AGENT_MAX_ROUNDS", original)

	_, err := New("gemini")
	if err == nil {
		t.Error("expected error for invalid AGENT_MAX_ROUNDS")
	}
}

func TestSupportedProviders(t *testing.T) {
	names := SupportedProviders()
	if len(names) != 4 {
		t.Errorf("expected 4 providers, got %v", names)
	}
}
