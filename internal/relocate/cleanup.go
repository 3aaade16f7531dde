package relocate

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	relerrors "git.home.luguber.info/inful/buildreloc/internal/errors"
	"git.home.luguber.info/inful/buildreloc/internal/logfields"
	"git.home.luguber.info/inful/buildreloc/internal/metrics"
	"git.home.luguber.info/inful/buildreloc/internal/paths"
	"git.home.luguber.info/inful/buildreloc/internal/project"
	"git.home.luguber.info/inful/buildreloc/internal/tasks"
)

// CleanupHandle deletes a root project's output directory tree on demand.
// The target is read from the root node when Execute runs, not when the
// handle is created.
type CleanupHandle struct {
	name     string
	root     *project.Node
	recorder metrics.Recorder
}

// RegisterCleanTask creates the cleanup handle for root and, when reg is not
// nil, registers its Execute method under the clean task name. Nothing is
// deleted until the handle (or the registered task) is executed.
func (r *Relocator) RegisterCleanTask(reg *tasks.Registry, root *project.Node) (*CleanupHandle, error) {
	h := &CleanupHandle{name: r.cleanTaskName, root: root, recorder: r.recorder}
	if reg != nil {
		if err := reg.Register(h.name, "Deletes the relocated build output directory", h.Execute); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Name returns the task name the handle is registered under.
func (h *CleanupHandle) Name() string { return h.name }

// Target returns the directory Execute would remove right now (zero if the
// root has not been relocated).
func (h *CleanupHandle) Target() paths.DirectoryPath { return h.root.OutputDirectory() }

// Execute recursively removes the root output directory. A root that was never
// configured, or a directory that does not exist, is a no-op. A target that is
// a filesystem root or encloses the project directory is refused.
func (h *CleanupHandle) Execute(ctx context.Context) error {
	target := h.Target()
	if target.IsZero() {
		slog.Debug("Root output directory not configured, nothing to clean", logfields.Project(h.root.Name()))
		return nil
	}
	if target.IsRoot() {
		return relerrors.UnsafeCleanup(target.String(), "target is a filesystem root")
	}
	if projectDir := h.root.ProjectDirectory(); target.Contains(projectDir) {
		return relerrors.UnsafeCleanup(target.String(), "target contains the project directory")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := os.Lstat(target.String()); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("Output directory already absent", logfields.Path(target.String()))
			return nil
		}
		return relerrors.CleanupFailed(target.String(), err)
	}

	size := treeSize(target.String())
	if err := os.RemoveAll(target.String()); err != nil {
		return relerrors.CleanupFailed(target.String(), err)
	}
	h.recorder.ObserveRemovedBytes(h.name, size)

	slog.Info("Removed build output directory",
		logfields.Path(target.String()),
		slog.Int64("bytes", size))
	return nil
}

// treeSize sums regular file sizes under dir; unreadable entries are skipped.
func treeSize(dir string) int64 {
	var total int64
	_ = filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			if info, err := d.Info(); err == nil {
				total += info.Size()
			}
		}
		return nil
	})
	return total
}
