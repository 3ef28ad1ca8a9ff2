package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/uhppoted/uhppoted-app-sheets-pdf/types"
)

// Workbook reads a local .xlsx file. The source ID is the file path and the
// credential is ignored.
type Workbook struct {
}

func (w Workbook) FetchAll(ctx context.Context, path string, credential types.Credential) (*types.SourceDocument, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: missing workbook file", types.ErrNotFound)
	}

	f, err := excelize.OpenFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: workbook %v", types.ErrNotFound, path)
	} else if errors.Is(err, fs.ErrPermission) {
		return nil, fmt.Errorf("%w: workbook %v", types.ErrAccessDenied, path)
	} else if err != nil {
		return nil, fmt.Errorf("%w: unable to open workbook %v (%v)", types.ErrUpstream, path, err)
	}

	defer f.Close()

	name := filepath.Base(path)
	doc := types.SourceDocument{
		ID:   path,
		Name: strings.TrimSuffix(name, filepath.Ext(name)),
		Tabs: []types.Tab{},
	}

	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("%w: unable to read worksheet %v (%v)", types.ErrUpstream, sheet, err)
		}

		tab := types.Tab{
			Name: sheet,
			Rows: [][]types.Cell{},
		}

		for _, values := range rows {
			row := make([]types.Cell, len(values))
			for i, v := range values {
				row[i] = types.TextCell(v)
			}

			tab.Rows = append(tab.Rows, row)
		}

		doc.Tabs = append(doc.Tabs, tab)
	}

	return &doc, nil
}
