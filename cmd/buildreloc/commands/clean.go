package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/buildreloc/internal/logfields"
)

// CleanCmd implements the 'clean' command.
type CleanCmd struct {
	DryRun bool `name:"dry-run" help:"Print the directory that would be deleted"`
}

func (c *CleanCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	s, err := openSession(cfg, sessionOptions{record: !c.DryRun})
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			slog.Warn("Failed to close session", logfields.Error(err))
		}
	}()

	if _, err := s.relocate(); err != nil {
		return err
	}
	target := s.handle.Target()
	if c.DryRun {
		_, err := fmt.Fprintf(g.out(), "would delete %s\n", target)
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if err := s.clean(ctx); err != nil {
		return err
	}
	_, err = fmt.Fprintf(g.out(), "deleted %s\n", target)
	return err
}
