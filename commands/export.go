package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/uhppoted/uhppoted-app-sheets-pdf/auth"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/pipeline"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/publish"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/source"
)

var ExportCmd = Export{
	workdir:     DEFAULT_WORKDIR,
	credentials: DEFAULT_CREDENTIALS,
	tokens:      "",
	url:         "",
	name:        "",
}

// Export runs the export pipeline for a local user, with the tokens of an
// installed OAuth2 application.
type Export struct {
	workdir     string
	credentials string
	tokens      string
	url         string
	name        string
}

func (cmd *Export) Name() string {
	return "export"
}

func (cmd *Export) Description() string {
	return "Exports every tab of a Google Sheets spreadsheet to a PDF in the same Google Drive folder"
}

func (cmd *Export) Usage() string {
	return "--credentials <file> --url <url>"
}

func (cmd *Export) Help() string {
	return `Exports every tab of a Google Sheets spreadsheet to a single landscape PDF and
stores it in the Google Drive folder of the spreadsheet. The first run prompts
for an authorization code and caches the OAuth2 token in the working directory.

Examples:
  uhppoted-app-sheets-pdf export --credentials "credentials.json" \
                                 --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"`
}

func (cmd *Export) Flags(flagset *pflag.FlagSet) {
	flagset.StringVar(&cmd.workdir, "workdir", cmd.workdir, "Directory for working files (tokens, etc)")
	flagset.StringVar(&cmd.credentials, "credentials", cmd.credentials, "Path for the 'credentials.json' file")
	flagset.StringVar(&cmd.tokens, "tokens", cmd.tokens, "Folder for the cached OAuth2 tokens. Defaults to <workdir>/.google")
	flagset.StringVar(&cmd.url, "url", cmd.url, "Spreadsheet URL")
	flagset.StringVar(&cmd.name, "name", cmd.name, "PDF name. Defaults to the spreadsheet title")
}

func (cmd *Export) Execute(ctx context.Context, options *Options) error {
	cfg, err := load(options, "console")
	if err != nil {
		return err
	}

	// ... check parameters
	if strings.TrimSpace(cmd.credentials) == "" {
		return fmt.Errorf("--credentials is a required option")
	}

	if strings.TrimSpace(cmd.url) == "" {
		return fmt.Errorf("--url is a required option")
	}

	id, err := spreadsheetID(cmd.url)
	if err != nil {
		return err
	}

	g, err := geometry(cfg)
	if err != nil {
		return err
	}

	// ... authorise
	tokens := cmd.tokens
	if tokens == "" {
		tokens = filepath.Join(cmd.workdir, ".google")
	}

	_, file := filepath.Split(cmd.credentials)
	cache := filepath.Join(tokens, strings.TrimSuffix(file, filepath.Ext(file))+".pdf")

	credential, err := authorize(ctx, cmd.credentials, cache, os.Stdin)
	if err != nil {
		return fmt.Errorf("authentication/authorization error (%v)", err)
	}

	// ... export
	p := pipeline.New(
		auth.NewValidator(cfg.AllowedDomain, endpoint(cfg.Endpoints.UserInfo)...),
		source.NewSheets(endpoint(cfg.Endpoints.Sheets)...),
		publish.NewDrive(cfg.DefaultFolder, endpoint(cfg.Endpoints.Drive)...),
		g,
		cfg.Font)

	artifact, err := p.Run(ctx, pipeline.Request{
		SourceID:   id,
		SourceName: cmd.name,
		Credential: credential,
	})
	if err != nil {
		return err
	}

	if artifact.Fallback {
		fmt.Printf("WARNING: unable to resolve the spreadsheet folder - stored in '%v' instead\n", folder(artifact.Folder))
	}

	fmt.Printf("%v\n", artifact.URL)

	return nil
}

func folder(id string) string {
	if id == "" {
		return "My Drive"
	}

	return id
}
