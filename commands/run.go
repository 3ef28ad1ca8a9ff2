package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/uhppoted/uhppoted-app-sheets-pdf/auth"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/httpd"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/log"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/pipeline"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/publish"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/source"
)

var RunCmd = Run{
	listen: "",
}

// Run starts the HTTP export service.
type Run struct {
	listen string
}

func (cmd *Run) Name() string {
	return "run"
}

func (cmd *Run) Description() string {
	return "Runs the spreadsheet to PDF export service"
}

func (cmd *Run) Usage() string {
	return "[--listen <address>]"
}

func (cmd *Run) Help() string {
	return `Runs the HTTP export service. Each POST / request with a delegated Google
access token and a spreadsheet ID exports every tab of the spreadsheet to a
single PDF, stored in the same Google Drive folder as the spreadsheet.

Examples:
  uhppoted-app-sheets-pdf run
  uhppoted-app-sheets-pdf --config /usr/local/etc/uhppoted/sheets-pdf/config.yaml run --listen :8081`
}

func (cmd *Run) Flags(flagset *pflag.FlagSet) {
	flagset.StringVar(&cmd.listen, "listen", cmd.listen, "HTTP listen address e.g. ':8080'. Defaults to the configured address")
}

func (cmd *Run) Execute(ctx context.Context, options *Options) error {
	cfg, err := load(options, "")
	if err != nil {
		return err
	}

	if cmd.listen != "" {
		cfg.Listen = cmd.listen
	}

	g, err := geometry(cfg)
	if err != nil {
		return err
	}

	validator := auth.NewValidator(cfg.AllowedDomain, endpoint(cfg.Endpoints.UserInfo)...)
	fetcher := source.NewSheets(endpoint(cfg.Endpoints.Sheets)...)
	publisher := publish.NewDrive(cfg.DefaultFolder, endpoint(cfg.Endpoints.Drive)...)
	p := pipeline.New(validator, fetcher, publisher, g, cfg.Font)

	if cfg.AllowedDomain == "" {
		log.Warnf("run", "no allowed domain configured - any Google identity may use the service")
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return httpd.NewServer(p, cfg).ListenAndServe(ctx)
}
