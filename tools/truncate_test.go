package tools

import (
	"strings"
	"testing"
)

func TestTruncateOutputShortUnchanged(t *testing.T) {
	if got := TruncateOutput("short", 100); got != "short" {
		t.Errorf("expected unchanged output, got %q", got)
	}
}

func TestTruncateOutputExactFitUnchanged(t *testing.T) {
	s := strings.Repeat("x", 64)
	if got := TruncateOutput(s, 64); got != s {
		t.Errorf("expected unchanged output at exact cap")
	}
}

func TestTruncateOutputKeepsHeadAndTail(t *testing.T) {
	s := "HEAD" + strings.Repeat("m", 10000) + "TAIL"
	got := TruncateOutput(s, 200)

	if !strings.HasPrefix(got, "HEAD") {
		t.Error("expected head preserved")
	}
	if !strings.HasSuffix(got, "TAIL") {
		t.Error("expected tail preserved")
	}
	if !strings.Contains(got, "bytes truncated") {
		t.Error("expected truncation marker")
	}
	// Head and tail together stay within the cap; only the marker is extra.
	if len(got) > 200+len("\n[... 1234567 bytes truncated ...]\n") {
		t.Errorf("output too long: %d bytes", len(got))
	}
}

func TestTruncateOutputZeroCapDisabled(t *testing.T) {
	s := strings.Repeat("x", 1000)
	if got := TruncateOutput(s, 0); got != s {
		t.Error("expected cap of zero to disable truncation")
	}
}
