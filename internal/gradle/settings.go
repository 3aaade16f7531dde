// Package gradle reads the parts of a Gradle settings script that decide the
// project structure: the root project name and the included subprojects.
// It is a declaration scanner, not a Groovy/Kotlin interpreter. Includes built
// from string interpolation ("$name", "${name}") are skipped, and a
// parenthesis-free include continues onto the next line only after a
// trailing comma.
package gradle

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	SettingsFileKotlin = "settings.gradle.kts"
	SettingsFileGroovy = "settings.gradle"

	// DefaultBuildDirName is Gradle's conventional project build directory.
	DefaultBuildDirName = "build"

	pathSeparator = ":"
)

// ErrNoSettingsFile is returned when a directory has no settings script.
var ErrNoSettingsFile = errors.New("no Gradle settings file found")

var (
	includeRe      = regexp.MustCompile(`(?m)^\s*include\b\s*(?:\(([^)]*)\)|((?:[^\n]*,[ \t]*\n)*[^\n]*))`)
	rootNameRe     = regexp.MustCompile(`(?m)^\s*rootProject\.name\s*=\s*["']([^"']+)["']`)
	quotedRe       = regexp.MustCompile(`["']([^"']*)["']`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// Settings is the project structure declared by a settings script.
type Settings struct {
	File            string
	RootProjectName string
	// Includes holds Gradle project paths (":app", ":feature:login") in
	// declaration order, without duplicates.
	Includes []string
}

// FindSettingsFile returns the settings script in dir, preferring the Kotlin DSL.
func FindSettingsFile(dir string) (string, error) {
	for _, name := range []string{SettingsFileKotlin, SettingsFileGroovy} {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w in %s", ErrNoSettingsFile, dir)
}

// LoadSettings parses the settings script at path.
func LoadSettings(path string) (*Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	s, err := ParseSettings(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	s.File = path
	return s, nil
}

// ParseSettings extracts rootProject.name and include declarations.
func ParseSettings(r io.Reader) (*Settings, error) {
	src, err := stripComments(r)
	if err != nil {
		return nil, err
	}

	s := &Settings{}
	if m := rootNameRe.FindStringSubmatch(src); m != nil {
		s.RootProjectName = m[1]
	}

	seen := make(map[string]struct{})
	for _, m := range includeRe.FindAllStringSubmatch(src, -1) {
		args := m[1]
		if args == "" {
			args = m[2]
		}
		for _, q := range quotedRe.FindAllStringSubmatch(args, -1) {
			if strings.Contains(q[1], "$") {
				slog.Debug("Skipping interpolated include", slog.String("include", q[1]))
				continue
			}
			p := normalizeProjectPath(q[1])
			if p == "" {
				continue
			}
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			s.Includes = append(s.Includes, p)
		}
	}
	return s, nil
}

// ProjectName returns the project name for a Gradle project path: its last segment.
func ProjectName(projectPath string) string {
	trimmed := strings.TrimRight(projectPath, pathSeparator)
	if i := strings.LastIndex(trimmed, pathSeparator); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

func normalizeProjectPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == pathSeparator {
		return ""
	}
	if !strings.HasPrefix(p, pathSeparator) {
		p = pathSeparator + p
	}
	return p
}

// stripComments removes block comments and whole-line or trailing // comments.
// A // directly following ':' is kept so URLs in strings survive.
func stripComments(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read settings: %w", err)
	}
	src := blockCommentRe.ReplaceAllString(string(data), "")

	var b strings.Builder
	sc := bufio.NewScanner(strings.NewReader(src))
	for sc.Scan() {
		line := sc.Text()
		if i := lineCommentIndex(line); i >= 0 {
			line = line[:i]
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String(), sc.Err()
}

func lineCommentIndex(line string) int {
	for i := 0; i+1 < len(line); i++ {
		if line[i] == '/' && line[i+1] == '/' && (i == 0 || line[i-1] != ':') {
			return i
		}
	}
	return -1
}
