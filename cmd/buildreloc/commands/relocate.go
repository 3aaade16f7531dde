package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/buildreloc/internal/logfields"
	"git.home.luguber.info/inful/buildreloc/internal/relocate"
	"git.home.luguber.info/inful/buildreloc/internal/report"
)

// RelocateCmd implements the 'relocate' command.
type RelocateCmd struct {
	Offset string `help:"Override output.offset from the configuration"`
	Mkdir  bool   `help:"Create the relocated output directories"`
	Format string `short:"f" help:"Output format (text, json, markdown, html)" default:"text"`
}

func (r *RelocateCmd) Run(g *Global, root *CLI) error {
	format, err := report.ParseFormat(r.Format)
	if err != nil {
		return err
	}
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if r.Offset != "" {
		cfg.Output.Offset = r.Offset
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

	layout, err := s.relocate()
	if err != nil {
		return err
	}
	if r.Mkdir {
		if err := createDirs(layout); err != nil {
			return err
		}
	}
	s.recordLayout(context.Background(), layout)

	slog.Debug("Relocation recorded", logfields.RunID(s.runID))
	return report.Render(g.out(), layout, format)
}

func createDirs(layout *relocate.Layout) error {
	for _, e := range layout.Entries() {
		if err := os.MkdirAll(e.Dir.String(), 0o750); err != nil {
			return fmt.Errorf("create %s: %w", e.Dir, err)
		}
	}
	return nil
}
