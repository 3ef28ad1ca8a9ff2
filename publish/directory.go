package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/uhppoted/uhppoted-app-sheets-pdf/log"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/types"
)

// Directory writes the PDF to a local folder. The file appears atomically:
// it is written to a temporary file in the same folder and then renamed.
type Directory struct {
	Path string
}

func (d Directory) Publish(ctx context.Context, pdf []byte, doc *types.SourceDocument, credential types.Credential, generated time.Time) (*types.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := "Report"
	if doc != nil {
		name = doc.Name
	}

	dir := d.Path
	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0770); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrStorage, err)
	}

	file := filepath.Join(dir, ArtifactName(name, generated))

	tmp, err := os.CreateTemp(dir, ".pdf-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrStorage, err)
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(pdf); err != nil {
		return nil, fmt.Errorf("%w: error writing PDF file (%v)", types.ErrStorage, err)
	} else if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("%w: error writing PDF file (%v)", types.ErrStorage, err)
	}

	if err := os.Rename(tmp.Name(), file); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrStorage, err)
	}

	abs, err := filepath.Abs(file)
	if err != nil {
		abs = file
	}

	log.Infof("publish", "created %v", abs)

	return &types.Artifact{
		ID:     abs,
		Name:   filepath.Base(file),
		URL:    "file://" + filepath.ToSlash(abs),
		Folder: filepath.Dir(abs),
	}, nil
}
