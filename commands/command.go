package commands

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"google.golang.org/api/option"

	"github.com/uhppoted/uhppoted-app-sheets-pdf/config"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/layout"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/log"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/types"
)

const APP = "uhppoted-app-sheets-pdf"

// Options are the global command line flags.
type Options struct {
	Config string
	Debug  bool
}

type Command interface {
	Name() string
	Description() string
	Usage() string
	Help() string
	Flags(flagset *pflag.FlagSet)
	Execute(ctx context.Context, options *Options) error
}

// Cobra wraps a command for the cobra command tree.
func Cobra(c Command, options *Options) *cobra.Command {
	cmd := cobra.Command{
		Use:          strings.TrimSpace(c.Name() + " " + c.Usage()),
		Short:        c.Description(),
		Long:         c.Help(),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Execute(cmd.Context(), options)
		},
	}

	c.Flags(cmd.Flags())

	return &cmd
}

// load reads the configuration file (the default file if none is given and it
// exists) and initialises the logger. A non-empty format overrides the
// configured log format.
func load(options *Options, format string) (*config.Config, error) {
	file := options.Config
	if file == "" {
		if _, err := os.Stat(DEFAULT_CONFIG); err == nil {
			file = DEFAULT_CONFIG
		}
	}

	cfg, err := config.Load(file)
	if err != nil {
		return nil, err
	}

	if format != "" {
		cfg.Log.Format = format
	}

	if options.Debug {
		cfg.Log.Level = "debug"
	}

	logger, err := log.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrConfiguration, err)
	}

	log.SetLogger(logger)

	return cfg, nil
}

func geometry(cfg *config.Config) (layout.Geometry, error) {
	g, err := layout.NewGeometry(cfg.PageSize)
	if err != nil {
		return g, fmt.Errorf("%w: %v", types.ErrConfiguration, err)
	}

	g.MinColumn = cfg.MinColumn
	g.MaxColumn = cfg.MaxColumn

	return g, nil
}

func endpoint(url string) []option.ClientOption {
	if strings.TrimSpace(url) == "" {
		return nil
	}

	return []option.ClientOption{option.WithEndpoint(url)}
}

var spreadsheetURL = regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`)

// spreadsheetID extracts the spreadsheet ID from a Google Sheets URL.
func spreadsheetID(url string) (string, error) {
	match := spreadsheetURL.FindStringSubmatch(strings.TrimSpace(url))
	if len(match) < 2 || match[1] == "" {
		return "", fmt.Errorf("invalid spreadsheet URL - expected something like 'https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms'")
	}

	return match[1], nil
}
