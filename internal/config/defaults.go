package config

import (
	"strings"

	relerrors "git.home.luguber.info/inful/buildreloc/internal/errors"
	"git.home.luguber.info/inful/buildreloc/internal/paths"
	"git.home.luguber.info/inful/buildreloc/internal/retry"
)

const (
	DefaultOffset        = "../../build"
	DefaultOutputDirName = "build"
	DefaultCleanTaskName = "clean"
	DefaultNotifySubject = "buildreloc.events"
)

func (c *Config) applyDefaults() {
	if c.Root.Dir == "" {
		c.Root.Dir = "."
	}
	if c.Root.DefaultOutput == "" {
		c.Root.DefaultOutput = DefaultOutputDirName
	}
	if c.Output.Offset == "" {
		c.Output.Offset = DefaultOffset
	}
	if c.Clean.TaskName == "" {
		c.Clean.TaskName = DefaultCleanTaskName
	}
	if c.Notify.Subject == "" {
		c.Notify.Subject = DefaultNotifySubject
	}
	c.Logging.Level = NormalizeLogLevel(string(c.Logging.Level))
	c.Logging.Format = NormalizeLogFormat(string(c.Logging.Format))
}

// Validate checks values that would otherwise fail late, during relocation.
func (c *Config) Validate() error {
	// Resolving against "/" checks offset syntax without touching real paths.
	if _, err := paths.MustDirectoryPath("/").Resolve(c.Output.Offset); err != nil {
		return relerrors.ValidationFailed("output.offset", err.Error())
	}
	if _, err := paths.MustDirectoryPath("/").Child(c.Root.DefaultOutput); err != nil {
		return relerrors.ValidationFailed("root.default_output", err.Error())
	}
	if strings.ContainsAny(c.Clean.TaskName, " \t\n") {
		return relerrors.ValidationFailed("clean.task_name", "must not contain whitespace")
	}
	for i, s := range c.Subprojects {
		if strings.TrimSpace(s) == "" {
			return relerrors.ValidationFailed("subprojects", "entry is empty").WithContext("index", i)
		}
	}
	switch retry.BackoffMode(c.Notify.Retry.Backoff) {
	case "", retry.BackoffFixed, retry.BackoffLinear, retry.BackoffExponential:
	default:
		return relerrors.ValidationFailed("notify.retry.backoff", "must be fixed, linear or exponential")
	}
	if c.Notify.NATSURL != "" && strings.ContainsAny(c.Notify.Subject, " *>") {
		return relerrors.ValidationFailed("notify.subject", "must be a literal NATS subject")
	}
	return nil
}
