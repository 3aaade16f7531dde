package commands

import (
	"git.home.luguber.info/inful/buildreloc/internal/report"
)

// LayoutCmd implements the 'layout' command.
type LayoutCmd struct {
	Format string `short:"f" help:"Output format (text, json, markdown, html)" default:"text"`
}

func (l *LayoutCmd) Run(g *Global, root *CLI) error {
	format, err := report.ParseFormat(l.Format)
	if err != nil {
		return err
	}
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	s, err := openSession(cfg, sessionOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	layout, err := s.relocate()
	if err != nil {
		return err
	}
	return report.Render(g.out(), layout, format)
}
