package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	relerrors "git.home.luguber.info/inful/buildreloc/internal/errors"
	"git.home.luguber.info/inful/buildreloc/internal/eventstore"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int    `short:"n" help:"Maximum number of events to show" default:"20"`
	RunID string `name:"run" help:"Only show events of this run id"`
	JSON  bool   `name:"json" help:"Print events as JSON"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	p := cfg.ResolvePath(cfg.History.Path)
	if p == "" {
		return relerrors.ConfigRequired("history.path")
	}
	store, err := eventstore.NewSQLiteStore(p)
	if err != nil {
		return relerrors.StoreError("open history", err).WithContext("path", p)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	var events []eventstore.Event
	if h.RunID != "" {
		events, err = store.ByRun(ctx, h.RunID)
	} else {
		events, err = store.List(ctx, h.Limit)
	}
	if err != nil {
		return relerrors.StoreError("list events", err)
	}

	if h.JSON {
		enc := json.NewEncoder(g.out())
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	}

	tw := tabwriter.NewWriter(g.out(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TIME\tRUN\tEVENT\tPROJECT\tPATH\tCOMMIT")
	for _, e := range events {
		commit := e.Commit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		line := fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s",
			e.Timestamp.Local().Format(time.DateTime), shortRunID(e.RunID), e.Type, e.Project, e.Path, commit)
		if e.Error != "" {
			line += "\t" + e.Error
		}
		_, _ = fmt.Fprintln(tw, line)
	}
	return tw.Flush()
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
