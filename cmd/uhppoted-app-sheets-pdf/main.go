package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/uhppoted/uhppoted-app-sheets-pdf/commands"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/log"
)

var cli = []commands.Command{
	&commands.VersionCmd,
	&commands.RunCmd,
	&commands.ExportCmd,
	&commands.RenderCmd,
}

var options = commands.Options{
	Config: "",
	Debug:  false,
}

func main() {
	root := cobra.Command{
		Use:           commands.APP,
		Short:         "Exports Google Sheets spreadsheets to paginated, fit-to-width PDF files",
		Version:       commands.VERSION,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = log.Logger().Sync()
		},
	}

	root.PersistentFlags().StringVar(&options.Config, "config", options.Config, "YAML configuration file. Defaults to "+commands.DEFAULT_CONFIG+" if it exists")
	root.PersistentFlags().BoolVar(&options.Debug, "debug", options.Debug, "Enable debugging information")

	for _, c := range cli {
		root.AddCommand(commands.Cobra(c, &options))
	}

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "\n   ERROR: %v\n\n", err)
		os.Exit(1)
	}
}
