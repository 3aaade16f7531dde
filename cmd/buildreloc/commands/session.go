package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/buildreloc/internal/config"
	relerrors "git.home.luguber.info/inful/buildreloc/internal/errors"
	"git.home.luguber.info/inful/buildreloc/internal/eventstore"
	"git.home.luguber.info/inful/buildreloc/internal/gitinfo"
	"git.home.luguber.info/inful/buildreloc/internal/gradle"
	"git.home.luguber.info/inful/buildreloc/internal/logfields"
	"git.home.luguber.info/inful/buildreloc/internal/metrics"
	"git.home.luguber.info/inful/buildreloc/internal/notify"
	"git.home.luguber.info/inful/buildreloc/internal/paths"
	"git.home.luguber.info/inful/buildreloc/internal/project"
	"git.home.luguber.info/inful/buildreloc/internal/relocate"
	"git.home.luguber.info/inful/buildreloc/internal/tasks"
)

// session wires one command invocation: configuration, metrics, history and
// notifications around a Relocator.
type session struct {
	cfg       *config.Config
	runID     string
	commit    string
	promReg   *prom.Registry
	recorder  metrics.Recorder
	relocator *relocate.Relocator
	store     eventstore.Store
	publisher notify.Publisher

	// Replaced on every relocation so a watch-mode reload starts from fresh,
	// unconfigured project nodes.
	tasks  *tasks.Registry
	handle *relocate.CleanupHandle
}

type sessionOptions struct {
	// record enables history and notifications.
	record bool
}

func openSession(cfg *config.Config, opts sessionOptions) (*session, error) {
	reg := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(reg)

	s := &session{
		cfg:      cfg,
		runID:    eventstore.NewRunID(),
		promReg:  reg,
		recorder: recorder,
		relocator: relocate.New(
			relocate.WithRecorder(recorder),
			relocate.WithDefaultDirName(cfg.Root.DefaultOutput),
			relocate.WithCleanTaskName(cfg.Clean.TaskName),
		),
		store:     eventstore.NopStore{},
		publisher: notify.NopPublisher{},
	}

	if info, err := gitinfo.Describe(cfg.RootDir()); err == nil {
		s.commit = info.Commit
	} else if !errors.Is(err, gitinfo.ErrNotRepository) {
		slog.Debug("Could not read git metadata", logfields.Error(err))
	}

	if !opts.record {
		return s, nil
	}

	if p := cfg.ResolvePath(cfg.History.Path); p != "" {
		store, err := eventstore.NewSQLiteStore(p)
		if err != nil {
			return nil, relerrors.StoreError("open history", err).WithContext("path", p)
		}
		s.store = store
	}

	if cfg.Notify.NATSURL != "" {
		pub, err := notify.NewNATSPublisher(cfg.Notify.NATSURL, cfg.Notify.Subject, 5*time.Second)
		if err != nil {
			// History still records the run; notifications are best effort.
			slog.Warn("Event notifications disabled", logfields.Error(err))
		} else {
			s.publisher = notify.WithRetry(pub, cfg.Notify.Retry.Policy())
		}
	}
	return s, nil
}

// reconfigure applies a reloaded configuration. History, notification and
// metrics settings keep their startup values.
func (s *session) reconfigure(cfg *config.Config) {
	if cfg.History.Path != s.cfg.History.Path || cfg.Notify != s.cfg.Notify || cfg.Metrics != s.cfg.Metrics {
		slog.Warn("History, notify and metrics changes take effect after restart")
		cfg.History, cfg.Notify, cfg.Metrics = s.cfg.History, s.cfg.Notify, s.cfg.Metrics
	}
	s.cfg = cfg
	s.relocator = relocate.New(
		relocate.WithRecorder(s.recorder),
		relocate.WithDefaultDirName(cfg.Root.DefaultOutput),
		relocate.WithCleanTaskName(cfg.Clean.TaskName),
	)
}

// Close flushes metrics and releases the store and publisher.
func (s *session) Close() error {
	var errs []error
	if p := s.cfg.ResolvePath(s.cfg.Metrics.File); p != "" {
		if err := metrics.WriteTextfile(p, s.promReg); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close history: %w", err))
	}
	return errors.Join(errs...)
}

// loadTree builds the project tree from the explicit subproject list, or from
// the Gradle settings file. A project without a settings file is a
// single-project build.
func (s *session) loadTree() (*project.Tree, error) {
	rootDir := s.cfg.RootDir()
	rootName := s.cfg.Root.Name
	if rootName == "" {
		rootName = filepath.Base(rootDir)
	}

	if len(s.cfg.Subprojects) > 0 {
		return project.FromNames(rootName, s.cfg.Subprojects)
	}

	tree, err := project.Discover(rootDir, s.cfg.SettingsFile)
	switch {
	case errors.Is(err, gradle.ErrNoSettingsFile):
		slog.Debug("No Gradle settings file, relocating the root project only", logfields.Path(rootDir))
		return project.FromNames(rootName, nil)
	case err != nil:
		return nil, relerrors.Wrap(err, relerrors.CategoryConfig, relerrors.SeverityFatal, "failed to read Gradle settings").
			WithContext("root_dir", rootDir)
	}

	if s.cfg.Root.Name != "" && tree.Root().Name() != s.cfg.Root.Name {
		subs := make([]string, 0, len(tree.Subprojects()))
		for _, sub := range tree.Subprojects() {
			subs = append(subs, sub.Path())
		}
		return project.FromNames(s.cfg.Root.Name, subs)
	}
	return tree, nil
}

// relocate computes the layout and registers the clean task for its root.
func (s *session) relocate() (*relocate.Layout, error) {
	tree, err := s.loadTree()
	if err != nil {
		return nil, err
	}
	baseDir, err := paths.NewDirectoryPath(s.cfg.RootDir())
	if err != nil {
		return nil, err
	}

	layout, err := s.relocator.RelocateTree(tree, baseDir, s.cfg.Output.Offset)
	if err != nil {
		return nil, err
	}

	reg := tasks.NewRegistry(tasks.WithRecorder(s.recorder))
	handle, err := s.relocator.RegisterCleanTask(reg, tree.Root())
	if err != nil {
		return nil, err
	}
	s.tasks, s.handle = reg, handle
	return layout, nil
}

// recordLayout appends one relocated event per project.
func (s *session) recordLayout(ctx context.Context, layout *relocate.Layout) {
	for _, e := range layout.Entries() {
		s.record(ctx, eventstore.Event{
			Type:    eventstore.EventRelocated,
			Project: e.GradlePath,
			Path:    e.Dir.String(),
		})
	}
}

// clean runs the registered clean task and records the outcome.
func (s *session) clean(ctx context.Context) error {
	if s.tasks == nil {
		return relerrors.InternalError("clean task not registered", nil)
	}
	target := s.handle.Target().String()

	_, err := s.tasks.Run(ctx, s.handle.Name())
	e := eventstore.Event{Type: eventstore.EventCleaned, Project: ":", Path: target}
	if err != nil {
		e.Type = eventstore.EventCleanFailed
		e.Error = err.Error()
	}
	s.record(ctx, e)
	return err
}

// record stores and publishes e. Failures are logged, never returned: the
// relocation or cleanup itself already happened.
func (s *session) record(ctx context.Context, e eventstore.Event) {
	e.RunID = s.runID
	e.Commit = s.commit
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if err := s.store.Append(ctx, e); err != nil {
		slog.Warn("Failed to record event", logfields.EventType(string(e.Type)), logfields.Error(err))
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		slog.Warn("Failed to publish event", logfields.EventType(string(e.Type)), logfields.Error(err))
	}
}
