// Package tasks is a registry of named, deferred actions. Registering a task
// only binds a name to an action; nothing runs until Run is called.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"git.home.luguber.info/inful/buildreloc/internal/logfields"
	"git.home.luguber.info/inful/buildreloc/internal/metrics"
)

var (
	ErrTaskExists   = errors.New("task already registered")
	ErrTaskNotFound = errors.New("task not found")
)

// Action is the body of a task.
type Action func(ctx context.Context) error

// Task is a named action.
type Task struct {
	Name        string
	Description string
	Action      Action
}

// Result describes one task execution.
type Result struct {
	Task     string
	Started  time.Time
	Duration time.Duration
	Err      error
}

// Registry holds tasks by name.
type Registry struct {
	mu       sync.RWMutex
	tasks    map[string]*Task
	recorder metrics.Recorder
	now      func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithRecorder sets the metrics recorder used for task executions.
func WithRecorder(r metrics.Recorder) Option {
	return func(reg *Registry) {
		if r != nil {
			reg.recorder = r
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		tasks:    make(map[string]*Task),
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register binds name to action.
func (r *Registry) Register(name, description string, action Action) error {
	if name == "" {
		return fmt.Errorf("register task: empty name")
	}
	if action == nil {
		return fmt.Errorf("register task %s: nil action", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[name]; ok {
		return fmt.Errorf("register task %s: %w", name, ErrTaskExists)
	}
	r.tasks[name] = &Task{Name: name, Description: description, Action: action}
	slog.Debug("Registered task", logfields.Task(name))
	return nil
}

// Lookup returns the task registered under name.
func (r *Registry) Lookup(name string) (*Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[name]
	return t, ok
}

// Names returns the registered task names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tasks))
	for name := range r.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes the named task once. A failing action is reported both in
// Result.Err and as the returned error; it is never retried.
func (r *Registry) Run(ctx context.Context, name string) (Result, error) {
	t, ok := r.Lookup(name)
	if !ok {
		return Result{Task: name}, fmt.Errorf("run task %s: %w", name, ErrTaskNotFound)
	}

	res := Result{Task: name, Started: r.now()}
	if err := ctx.Err(); err != nil {
		res.Err = err
		r.recorder.IncTaskResult(name, metrics.ResultCanceled)
		return res, fmt.Errorf("task %s: %w", name, err)
	}

	slog.Info("Running task", logfields.Task(name))
	err := t.Action(ctx)
	res.Duration = r.now().Sub(res.Started)
	r.recorder.ObserveTaskDuration(name, res.Duration)

	if err != nil {
		res.Err = fmt.Errorf("task %s: %w", name, err)
		result := metrics.ResultFailed
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			result = metrics.ResultCanceled
		}
		r.recorder.IncTaskResult(name, result)
		slog.Error("Task failed", logfields.Task(name), logfields.Error(err))
		return res, res.Err
	}

	r.recorder.IncTaskResult(name, metrics.ResultSuccess)
	slog.Info("Task completed",
		logfields.Task(name),
		logfields.DurationMS(float64(res.Duration.Microseconds())/1000))
	return res, nil
}
