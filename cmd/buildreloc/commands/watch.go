package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"git.home.luguber.info/inful/buildreloc/internal/config"
	"git.home.luguber.info/inful/buildreloc/internal/daemon"
	"git.home.luguber.info/inful/buildreloc/internal/gradle"
	"git.home.luguber.info/inful/buildreloc/internal/logfields"
	"git.home.luguber.info/inful/buildreloc/internal/metrics"
	"git.home.luguber.info/inful/buildreloc/internal/report"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Debounce time.Duration `help:"Delay before re-relocating after a change" default:"2s"`
	Schedule string        `help:"Override clean.schedule (cron expression)"`
	Listen   string        `help:"Override metrics.listen"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if w.Schedule != "" {
		cfg.Clean.Schedule = w.Schedule
	}
	if w.Listen != "" {
		cfg.Metrics.Listen = w.Listen
	}

	s, err := openSession(cfg, sessionOptions{record: true})
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			slog.Warn("Failed to close session", logfields.Error(err))
		}
	}()

	// The first reload reuses the configuration loaded above.
	reloaded := false
	opts := daemon.Options{
		WatchFiles:    watchFiles(root, cfg),
		Debounce:      w.Debounce,
		CleanSchedule: cfg.Clean.Schedule,
		CleanTaskName: cfg.Clean.TaskName,
		MetricsListen: cfg.Metrics.Listen,
		Reload: func(ctx context.Context) error {
			if reloaded {
				next, err := root.loadConfig()
				if err != nil {
					return err
				}
				s.reconfigure(next)
			}
			reloaded = true

			layout, err := s.relocate()
			if err != nil {
				return err
			}
			s.recordLayout(ctx, layout)
			return report.Render(g.out(), layout, report.FormatText)
		},
		Clean: s.clean,
	}
	if cfg.Metrics.Listen != "" {
		opts.MetricsHandler = metrics.HTTPHandler(s.promReg)
	}

	d, err := daemon.New(opts)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	slog.Info("Watching for changes", slog.Int("files", len(opts.WatchFiles)))
	return d.Run(ctx)
}

// watchFiles lists the configuration file and the Gradle settings file. A
// settings file that does not exist yet is watched under both names.
func watchFiles(root *CLI, cfg *config.Config) []string {
	var files []string
	if root.Config != "" {
		files = append(files, root.Config)
	} else {
		files = append(files, filepath.Join(root.Dir, config.DefaultFileName))
	}

	rootDir := cfg.RootDir()
	switch {
	case cfg.SettingsFile != "" && filepath.IsAbs(cfg.SettingsFile):
		files = append(files, cfg.SettingsFile)
	case cfg.SettingsFile != "":
		files = append(files, filepath.Join(rootDir, cfg.SettingsFile))
	default:
		files = append(files,
			filepath.Join(rootDir, gradle.SettingsFileKotlin),
			filepath.Join(rootDir, gradle.SettingsFileGroovy))
	}
	return files
}
