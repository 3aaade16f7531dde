package project

import (
	"errors"
	"fmt"
	"sync"

	"git.home.luguber.info/inful/buildreloc/internal/paths"
)

// ErrReconfigured is returned when a configured node is assigned a different
// output directory.
var ErrReconfigured = errors.New("output directory already configured")

// Node is a build unit: the root project or one of its subprojects.
type Node struct {
	name string
	path string

	mu         sync.RWMutex
	outputDir  paths.DirectoryPath
	projectDir paths.DirectoryPath
}

// NewNode creates an unconfigured node. gradlePath is the Gradle project path
// (":" for the root).
func NewNode(name, gradlePath string) *Node {
	return &Node{name: name, path: gradlePath}
}

func (n *Node) Name() string { return n.name }

// Path returns the Gradle project path.
func (n *Node) Path() string { return n.path }

// OutputDirectory returns the configured output directory, or the zero value
// if the node has not been configured.
func (n *Node) OutputDirectory() paths.DirectoryPath {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.outputDir
}

// Configured reports whether an output directory has been assigned.
func (n *Node) Configured() bool {
	return !n.OutputDirectory().IsZero()
}

// SetOutputDirectory assigns dir. The first assignment configures the node;
// later assignments must repeat the same directory.
func (n *Node) SetOutputDirectory(dir paths.DirectoryPath) error {
	if dir.IsZero() {
		return fmt.Errorf("project %s: empty output directory", n.name)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.outputDir.IsZero() && !n.outputDir.Equal(dir) {
		return fmt.Errorf("project %s: %w (have %s, got %s)", n.name, ErrReconfigured, n.outputDir, dir)
	}
	n.outputDir = dir
	return nil
}

// ProjectDirectory returns the directory the node was relocated from, or the
// zero value if none was recorded.
func (n *Node) ProjectDirectory() paths.DirectoryPath {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.projectDir
}

// SetProjectDirectory records the directory holding the project's sources.
func (n *Node) SetProjectDirectory(dir paths.DirectoryPath) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.projectDir = dir
}

func (n *Node) String() string {
	if n.path == "" {
		return n.name
	}
	return n.path
}
