package tools

import "fmt"

// TruncateOutput caps output at maxBytes, keeping the head and tail and
// marking how much was removed from the middle. Capped transcript entries
// stay readable while the full output is archived by the caller.
func TruncateOutput(output string, maxBytes int) string {
	if maxBytes <= 0 || len(output) <= maxBytes {
		return output
	}

	marker := func(removed int) string {
		return fmt.Sprintf("\n[... %d bytes truncated ...]\n", removed)
	}

	half := maxBytes / 2
	removed := len(output) - maxBytes
	return output[:half] + marker(removed) + output[len(output)-half:]
}
