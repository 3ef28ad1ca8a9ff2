package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/uhppoted/uhppoted-app-sheets-pdf/pipeline"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/publish"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/source"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/types"
)

var RenderCmd = Render{
	file: "",
	out:  ".",
	name: "",
}

// Render converts a local .xlsx workbook to a PDF file, without any Google
// services.
type Render struct {
	file string
	out  string
	name string
}

// local accepts every caller. Offline rendering has no identity provider.
type local struct {
}

func (l local) Validate(ctx context.Context, credential types.Credential) (types.Identity, error) {
	return types.Identity{}, nil
}

func (cmd *Render) Name() string {
	return "render"
}

func (cmd *Render) Description() string {
	return "Renders every worksheet of a local .xlsx workbook to a PDF file"
}

func (cmd *Render) Usage() string {
	return "--file <xlsx> [--out <folder>]"
}

func (cmd *Render) Help() string {
	return `Renders every worksheet of a local .xlsx workbook to a single landscape PDF,
using the same layout as the export service.

Examples:
  uhppoted-app-sheets-pdf render --file "ACL.xlsx" --out "reports"`
}

func (cmd *Render) Flags(flagset *pflag.FlagSet) {
	flagset.StringVar(&cmd.file, "file", cmd.file, "Workbook (.xlsx) file")
	flagset.StringVar(&cmd.out, "out", cmd.out, "Folder for the generated PDF")
	flagset.StringVar(&cmd.name, "name", cmd.name, "PDF name. Defaults to the workbook file name")
}

func (cmd *Render) Execute(ctx context.Context, options *Options) error {
	cfg, err := load(options, "console")
	if err != nil {
		return err
	}

	if strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("--file is a required option")
	}

	g, err := geometry(cfg)
	if err != nil {
		return err
	}

	p := pipeline.New(local{}, source.Workbook{}, publish.Directory{Path: cmd.out}, g, cfg.Font)

	artifact, err := p.Run(ctx, pipeline.Request{
		SourceID:   cmd.file,
		SourceName: cmd.name,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%v\n", artifact.ID)

	return nil
}
