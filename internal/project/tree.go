package project

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/buildreloc/internal/gradle"
	"git.home.luguber.info/inful/buildreloc/internal/logfields"
)

// DuplicateProjectError reports two subprojects that share a name and would
// therefore share an output directory.
type DuplicateProjectError struct {
	Name  string
	Paths []string
}

func (e *DuplicateProjectError) Error() string {
	return fmt.Sprintf("subprojects %s share the name %q", strings.Join(e.Paths, ", "), e.Name)
}

// Tree is a root project and its subprojects, in declaration order.
type Tree struct {
	root        *Node
	subprojects []*Node
}

// NewTree validates that subproject names are unique.
func NewTree(root *Node, subprojects ...*Node) (*Tree, error) {
	if root == nil {
		return nil, fmt.Errorf("root project is required")
	}
	byName := make(map[string]*Node, len(subprojects))
	for _, sub := range subprojects {
		if prev, ok := byName[sub.Name()]; ok {
			return nil, &DuplicateProjectError{Name: sub.Name(), Paths: []string{prev.String(), sub.String()}}
		}
		byName[sub.Name()] = sub
	}
	return &Tree{root: root, subprojects: append([]*Node(nil), subprojects...)}, nil
}

// FromNames builds a tree from explicit subproject entries. Entries may be
// plain names ("app") or Gradle paths (":feature:login").
func FromNames(rootName string, entries []string) (*Tree, error) {
	root := NewNode(rootName, ":")
	subs := make([]*Node, 0, len(entries))
	for _, e := range entries {
		gradlePath := e
		if !strings.HasPrefix(gradlePath, ":") {
			gradlePath = ":" + gradlePath
		}
		subs = append(subs, NewNode(gradle.ProjectName(gradlePath), gradlePath))
	}
	return NewTree(root, subs...)
}

// Discover reads the Gradle settings script of rootDir. settingsFile may be
// empty (auto-detect) or a path relative to rootDir. The root project name
// falls back to the directory name, as Gradle does.
func Discover(rootDir, settingsFile string) (*Tree, error) {
	var err error
	if settingsFile == "" {
		settingsFile, err = gradle.FindSettingsFile(rootDir)
		if err != nil {
			return nil, err
		}
	} else if !filepath.IsAbs(settingsFile) {
		settingsFile = filepath.Join(rootDir, settingsFile)
	}

	settings, err := gradle.LoadSettings(settingsFile)
	if err != nil {
		return nil, err
	}

	rootName := settings.RootProjectName
	if rootName == "" {
		abs, err := filepath.Abs(rootDir)
		if err != nil {
			return nil, fmt.Errorf("resolve root dir: %w", err)
		}
		rootName = filepath.Base(abs)
	}

	slog.Debug("Discovered Gradle projects",
		logfields.File(settingsFile),
		logfields.Project(rootName),
		slog.Int("subprojects", len(settings.Includes)))

	return FromNames(rootName, settings.Includes)
}

func (t *Tree) Root() *Node { return t.root }

// Subprojects returns the subprojects in declaration order.
func (t *Tree) Subprojects() []*Node {
	return append([]*Node(nil), t.subprojects...)
}

// All returns the root followed by the subprojects.
func (t *Tree) All() []*Node {
	return append([]*Node{t.root}, t.subprojects...)
}
