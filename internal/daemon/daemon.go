// Package daemon implements watch mode: relocation is re-run when the
// configuration or Gradle settings change, and the clean task can run on a
// cron schedule.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/buildreloc/internal/logfields"
)

// Status represents the current state of the daemon
type Status string

const (
	StatusStopped  Status = "stopped"
	StatusStarting Status = "starting"
	StatusRunning  Status = "running"
	StatusStopping Status = "stopping"
)

// Options configures a Daemon.
type Options struct {
	// WatchFiles trigger Reload when changed.
	WatchFiles []string
	Debounce   time.Duration

	// CleanSchedule is a cron expression; empty disables scheduled cleans.
	CleanSchedule string
	CleanTaskName string

	// MetricsListen is the address metrics are served on; empty disables it.
	MetricsListen  string
	MetricsHandler http.Handler

	Reload func(ctx context.Context) error
	Clean  func(ctx context.Context) error
}

// Daemon runs the watcher, the scheduler and the metrics endpoint until its
// context is cancelled. Reloads and cleans never overlap.
type Daemon struct {
	opts   Options
	mu     sync.Mutex
	status atomic.Value // Status
}

// New validates opts and returns a stopped daemon.
func New(opts Options) (*Daemon, error) {
	if opts.Reload == nil {
		return nil, fmt.Errorf("reload callback is required")
	}
	if opts.CleanSchedule != "" && opts.Clean == nil {
		return nil, fmt.Errorf("clean callback is required when a schedule is set")
	}
	if opts.MetricsListen != "" && opts.MetricsHandler == nil {
		return nil, fmt.Errorf("metrics handler is required when metrics.listen is set")
	}
	if opts.CleanTaskName == "" {
		opts.CleanTaskName = "clean"
	}
	d := &Daemon{opts: opts}
	d.status.Store(StatusStopped)
	return d, nil
}

// GetStatus returns the current daemon status.
func (d *Daemon) GetStatus() Status {
	return d.status.Load().(Status)
}

// Run performs an initial reload, then blocks until ctx is cancelled or a
// component fails. A failing initial reload is returned immediately.
func (d *Daemon) Run(ctx context.Context) error {
	d.status.Store(StatusStarting)
	defer d.status.Store(StatusStopped)

	if err := d.reload(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	if d.opts.CleanSchedule != "" {
		scheduler, err := NewScheduler()
		if err != nil {
			return err
		}
		if _, err := scheduler.ScheduleCron(d.opts.CleanTaskName, d.opts.CleanSchedule, func() { d.clean(gctx) }); err != nil {
			_ = scheduler.Stop()
			return err
		}
		scheduler.Start()
		g.Go(func() error {
			<-gctx.Done()
			return scheduler.Stop()
		})
	}

	if len(d.opts.WatchFiles) > 0 {
		watcher, err := NewConfigWatcher(d.opts.WatchFiles, d.opts.Debounce, func(ctx context.Context) {
			if err := d.reload(ctx); err != nil {
				slog.Error("Failed to reload", logfields.Error(err))
			}
		})
		if err != nil {
			// Stops anything already started in the group.
			g.Go(func() error { return err })
			return g.Wait()
		}
		g.Go(func() error { return watcher.Run(gctx) })
	}

	if d.opts.MetricsListen != "" {
		srv := &http.Server{
			Addr:              d.opts.MetricsListen,
			Handler:           d.metricsMux(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			slog.Info("Serving metrics", slog.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	d.status.Store(StatusRunning)
	slog.Info("Watch mode running")

	// Holds the group open when no component is enabled.
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	err := g.Wait()
	d.status.Store(StatusStopping)
	return err
}

func (d *Daemon) metricsMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", d.opts.MetricsHandler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

func (d *Daemon) reload(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opts.Reload(ctx)
}

func (d *Daemon) clean(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ctx.Err() != nil {
		return
	}
	if err := d.opts.Clean(ctx); err != nil {
		slog.Error("Scheduled clean failed", logfields.Task(d.opts.CleanTaskName), logfields.Error(err))
	}
}
