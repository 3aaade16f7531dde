package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/buildreloc/cmd/buildreloc/commands"
	relerrors "git.home.luguber.info/inful/buildreloc/internal/errors"
	"git.home.luguber.info/inful/buildreloc/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("buildreloc"),
		kong.Description("Relocate Gradle build output directories under a shared root and clean them."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	if err := parser.Run(&commands.Global{}, cli); err != nil {
		relerrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
