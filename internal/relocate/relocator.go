package relocate

import (
	"errors"
	"fmt"
	"log/slog"

	relerrors "git.home.luguber.info/inful/buildreloc/internal/errors"
	"git.home.luguber.info/inful/buildreloc/internal/gradle"
	"git.home.luguber.info/inful/buildreloc/internal/logfields"
	"git.home.luguber.info/inful/buildreloc/internal/metrics"
	"git.home.luguber.info/inful/buildreloc/internal/paths"
	"git.home.luguber.info/inful/buildreloc/internal/project"
)

// DefaultCleanTaskName is the task name the cleanup action registers under.
const DefaultCleanTaskName = "clean"

// Relocator moves project output directories under a shared root output
// directory.
type Relocator struct {
	recorder       metrics.Recorder
	defaultDirName string
	cleanTaskName  string
}

// Option configures a Relocator.
type Option func(*Relocator)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(rl *Relocator) {
		if r != nil {
			rl.recorder = r
		}
	}
}

// WithDefaultDirName overrides the name of a project's default output
// directory, which relocation offsets are resolved against.
func WithDefaultDirName(name string) Option {
	return func(rl *Relocator) {
		if name != "" {
			rl.defaultDirName = name
		}
	}
}

// WithCleanTaskName overrides the name the cleanup task is registered under.
func WithCleanTaskName(name string) Option {
	return func(rl *Relocator) {
		if name != "" {
			rl.cleanTaskName = name
		}
	}
}

// New creates a Relocator.
func New(opts ...Option) *Relocator {
	r := &Relocator{
		recorder:       metrics.NoopRecorder{},
		defaultDirName: gradle.DefaultBuildDirName,
		cleanTaskName:  DefaultCleanTaskName,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RelocateRoot resolves relativeOffset against the root's default output
// directory under baseDir (baseDir/build for Gradle) and assigns the result as
// the root's output directory.
func (r *Relocator) RelocateRoot(root *project.Node, baseDir paths.DirectoryPath, relativeOffset string) (paths.DirectoryPath, error) {
	newDir, err := r.resolveRoot(baseDir, relativeOffset)
	if err == nil {
		err = root.SetOutputDirectory(newDir)
	}
	r.recorder.IncRelocation(metrics.KindRoot, err == nil)
	if err != nil {
		return paths.DirectoryPath{}, err
	}
	root.SetProjectDirectory(baseDir)

	slog.Debug("Relocated root output directory",
		logfields.Project(root.Name()),
		logfields.Path(newDir.String()))
	return newDir, nil
}

func (r *Relocator) resolveRoot(baseDir paths.DirectoryPath, relativeOffset string) (paths.DirectoryPath, error) {
	defaultDir, err := baseDir.Child(r.defaultDirName)
	if err != nil {
		return paths.DirectoryPath{}, err
	}
	return defaultDir.Resolve(relativeOffset)
}

// RelocateSubproject assigns newRootDir/<sub name> as the subproject's output
// directory.
func (r *Relocator) RelocateSubproject(sub *project.Node, newRootDir paths.DirectoryPath) (paths.DirectoryPath, error) {
	newDir, err := newRootDir.Child(sub.Name())
	if err == nil {
		err = sub.SetOutputDirectory(newDir)
	}
	r.recorder.IncRelocation(metrics.KindSubproject, err == nil)
	if err != nil {
		return paths.DirectoryPath{}, err
	}

	slog.Debug("Relocated subproject output directory",
		logfields.Project(sub.String()),
		logfields.Path(newDir.String()))
	return newDir, nil
}

// RelocateTree relocates the root, then every subproject beneath the root's
// new directory.
func (r *Relocator) RelocateTree(tree *project.Tree, baseDir paths.DirectoryPath, relativeOffset string) (*Layout, error) {
	root := tree.Root()
	rootDir, err := r.RelocateRoot(root, baseDir, relativeOffset)
	if err != nil {
		return nil, layoutError(root.Name(), err)
	}

	layout := &Layout{Root: Entry{Project: root.Name(), GradlePath: root.Path(), Dir: rootDir, Root: true}}
	for _, sub := range tree.Subprojects() {
		dir, err := r.RelocateSubproject(sub, rootDir)
		if err != nil {
			return nil, layoutError(sub.String(), err)
		}
		layout.Subprojects = append(layout.Subprojects, Entry{Project: sub.Name(), GradlePath: sub.Path(), Dir: dir})
	}
	r.recorder.SetProjects(len(layout.Subprojects) + 1)

	slog.Info("Relocated build outputs",
		logfields.Project(root.Name()),
		logfields.Path(rootDir.String()),
		slog.Int("subprojects", len(layout.Subprojects)))
	return layout, nil
}

// layoutError keeps path errors classified as validation failures.
func layoutError(name string, err error) error {
	var ipe *paths.InvalidPathError
	if errors.As(err, &ipe) {
		return fmt.Errorf("relocate %s: %w", name, err)
	}
	return relerrors.LayoutFailed(name, err)
}

// Entry is one project's relocated output directory.
type Entry struct {
	Project    string              `json:"project"`
	GradlePath string              `json:"gradle_path"`
	Dir        paths.DirectoryPath `json:"dir"`
	Root       bool                `json:"root,omitempty"`
}

// Layout is the result of relocating a project tree.
type Layout struct {
	Root        Entry   `json:"root"`
	Subprojects []Entry `json:"subprojects"`
}

// Entries returns the root entry followed by the subproject entries.
func (l *Layout) Entries() []Entry {
	return append([]Entry{l.Root}, l.Subprojects...)
}

func (e Entry) String() string {
	return fmt.Sprintf("%s -> %s", e.GradlePath, e.Dir)
}
