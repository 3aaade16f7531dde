package paths

import (
	"fmt"
	"path/filepath"
	"strings"

	relerrors "git.home.luguber.info/inful/buildreloc/internal/errors"
)

// DirectoryPath is an immutable, cleaned filesystem path. The zero value is
// "no directory" and is reported by IsZero.
type DirectoryPath struct {
	path string
}

// InvalidPathError reports a path or path segment that cannot be resolved.
type InvalidPathError struct {
	Op      string // resolve, child, new
	Path    string // base path the operation ran against, if any
	Segment string
	Reason  string
}

func (e *InvalidPathError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid path %q: %s", e.Segment, e.Reason)
	}
	return fmt.Sprintf("%s %q against %s: %s", e.Op, e.Segment, e.Path, e.Reason)
}

// ErrorCategory classifies path errors as validation failures.
func (e *InvalidPathError) ErrorCategory() relerrors.ErrorCategory {
	return relerrors.CategoryValidation
}

// NewDirectoryPath validates and cleans p.
func NewDirectoryPath(p string) (DirectoryPath, error) {
	if reason := checkSyntax(p); reason != "" {
		return DirectoryPath{}, &InvalidPathError{Op: "new", Segment: p, Reason: reason}
	}
	return DirectoryPath{path: filepath.Clean(p)}, nil
}

// MustDirectoryPath is NewDirectoryPath for literals known to be valid.
func MustDirectoryPath(p string) DirectoryPath {
	d, err := NewDirectoryPath(p)
	if err != nil {
		panic(err)
	}
	return d
}

// Resolve returns the directory reached by following offset from d. Absolute
// offsets replace d entirely.
func (d DirectoryPath) Resolve(offset string) (DirectoryPath, error) {
	if d.IsZero() {
		return DirectoryPath{}, &InvalidPathError{Op: "resolve", Segment: offset, Reason: "base directory is not set"}
	}
	if reason := checkSyntax(offset); reason != "" {
		return DirectoryPath{}, &InvalidPathError{Op: "resolve", Path: d.path, Segment: offset, Reason: reason}
	}
	if filepath.IsAbs(offset) {
		return DirectoryPath{path: filepath.Clean(offset)}, nil
	}
	return DirectoryPath{path: filepath.Join(d.path, offset)}, nil
}

// Child returns d/segment. segment must be a single, non-navigating path element.
func (d DirectoryPath) Child(segment string) (DirectoryPath, error) {
	if d.IsZero() {
		return DirectoryPath{}, &InvalidPathError{Op: "child", Segment: segment, Reason: "base directory is not set"}
	}
	if reason := checkSegment(segment); reason != "" {
		return DirectoryPath{}, &InvalidPathError{Op: "child", Path: d.path, Segment: segment, Reason: reason}
	}
	return DirectoryPath{path: filepath.Join(d.path, segment)}, nil
}

func (d DirectoryPath) String() string { return d.path }

// MarshalText implements encoding.TextMarshaler.
func (d DirectoryPath) MarshalText() ([]byte, error) { return []byte(d.path), nil }

// UnmarshalText implements encoding.TextUnmarshaler with NewDirectoryPath's validation.
func (d *DirectoryPath) UnmarshalText(b []byte) error {
	p, err := NewDirectoryPath(string(b))
	if err != nil {
		return err
	}
	*d = p
	return nil
}

func (d DirectoryPath) IsZero() bool { return d.path == "" }

func (d DirectoryPath) IsAbs() bool { return filepath.IsAbs(d.path) }

func (d DirectoryPath) Equal(other DirectoryPath) bool { return d.path == other.path }

// IsRoot reports whether d is a filesystem (or volume) root.
func (d DirectoryPath) IsRoot() bool {
	return d.IsAbs() && filepath.Dir(d.path) == d.path
}

// Contains reports whether other is d itself or lies beneath it.
func (d DirectoryPath) Contains(other DirectoryPath) bool {
	if d.IsZero() || other.IsZero() {
		return false
	}
	rel, err := filepath.Rel(d.path, other.path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func checkSyntax(p string) string {
	switch {
	case p == "":
		return "path is empty"
	case strings.ContainsRune(p, 0):
		return "path contains a NUL byte"
	case strings.Contains(p, "$"):
		return "path contains an unexpanded variable ($)"
	}
	return ""
}

func checkSegment(s string) string {
	if reason := checkSyntax(s); reason != "" {
		return reason
	}
	switch {
	case s == "." || s == "..":
		return "segment must not navigate"
	case strings.ContainsAny(s, `/\`):
		return "segment contains a path separator"
	}
	return ""
}
