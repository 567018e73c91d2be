// Package sandbox confines all tool filesystem access to a single workspace root.
//
// Information Hiding:
// - Path canonicalization strategy hidden
// - Symlink resolution details hidden
// - Callers only see Resolve and the two sentinel errors
package sandbox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors returned by Resolve.
var (
	// ErrInvalidPath indicates the requested path is empty or malformed.
	ErrInvalidPath = errors.New("invalid path")
	// ErrSandboxEscape indicates the canonical path lies outside the workspace root.
	ErrSandboxEscape = errors.New("path escapes sandbox")
)

// Root is the workspace directory all tool paths are resolved against.
// It is fixed at startup and read-only afterwards.
type Root struct {
	dir string // canonical absolute path
}

// NewRoot creates the workspace directory if absent and returns a Root
// holding its canonical absolute path.
func NewRoot(dir string) (*Root, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("workspace directory: %w", ErrInvalidPath)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace directory: %w", err)
	}

	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspace directory: %w", err)
	}

	// Resolve symlinks up front so containment checks compare canonical forms.
	canon, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize workspace directory: %w", err)
	}

	return &Root{dir: canon}, nil
}

// Dir returns the canonical absolute path of the workspace root.
func (r *Root) Dir() string {
	return r.dir
}

// Resolve maps a requested path (relative or absolute) onto the workspace
// root and returns its canonical absolute form. It fails with ErrInvalidPath
// for empty input and ErrSandboxEscape when the canonical result lies outside
// the root. The containment check runs on the canonicalized path, so neither
// ".." segments nor symlinks pointing out of the workspace pass.
func (r *Root) Resolve(requested string) (string, error) {
	if strings.TrimSpace(requested) == "" {
		return "", fmt.Errorf("empty path: %w", ErrInvalidPath)
	}

	joined := requested
	if !filepath.IsAbs(joined) {
		joined = filepath.Join(r.dir, joined)
	}
	joined = filepath.Clean(joined)

	canon, err := canonicalize(joined)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize %q: %w", requested, err)
	}

	if !r.contains(canon) {
		return "", fmt.Errorf("access to %q denied: %w", requested, ErrSandboxEscape)
	}

	return canon, nil
}

// contains reports whether canon equals the root or is a descendant of it.
func (r *Root) contains(canon string) bool {
	if canon == r.dir {
		return true
	}
	return strings.HasPrefix(canon, r.dir+string(filepath.Separator))
}

// canonicalize resolves symlinks in path. The path itself may not exist yet
// (write targets), so symlinks are evaluated on the deepest existing ancestor
// and the non-existing remainder is re-joined afterwards.
func canonicalize(path string) (string, error) {
	suffix := ""
	current := path

	for {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			if suffix == "" {
				return resolved, nil
			}
			return filepath.Join(resolved, suffix), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", err
		}
		suffix = filepath.Join(filepath.Base(current), suffix)
		current = parent
	}
}
