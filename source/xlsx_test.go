package source

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/uhppoted/uhppoted-app-sheets-pdf/types"
)

func workbook(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "Quarterly Report.xlsx")

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		t.Fatalf("%v", err)
	}

	f.SetCellValue("Summary", "A1", "Region")
	f.SetCellValue("Summary", "B1", "Total")
	f.SetCellValue("Summary", "A2", "North")
	f.SetCellValue("Summary", "B2", 1250)
	f.SetCellValue("Summary", "A3", "South")

	if _, err := f.NewSheet("Empty"); err != nil {
		t.Fatalf("%v", err)
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("%v", err)
	}

	return path
}

func TestWorkbookFetchAll(t *testing.T) {
	path := workbook(t)

	doc, err := Workbook{}.FetchAll(context.Background(), path, "")
	if err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	if doc.Name != "Quarterly Report" {
		t.Errorf("Incorrect document name - expected:%v, got:%v", "Quarterly Report", doc.Name)
	}

	if len(doc.Tabs) != 2 {
		t.Fatalf("Incorrect tab count - expected:%v, got:%v", 2, len(doc.Tabs))
	}

	summary := doc.Tabs[0]
	if summary.Name != "Summary" || len(summary.Rows) != 3 {
		t.Fatalf("Incorrect 'Summary' tab %v", summary)
	}

	if v := summary.Rows[1][1].Text(); v != "1250" {
		t.Errorf("Incorrect cell B2 - expected:%v, got:%v", "1250", v)
	}

	if n := len(summary.Rows[2]); n != 1 {
		t.Errorf("Incorrect width for ragged row - expected:%v, got:%v", 1, n)
	}

	if doc.Tabs[1].Name != "Empty" || len(doc.Tabs[1].Rows) != 0 {
		t.Errorf("Incorrect 'Empty' tab %v", doc.Tabs[1])
	}
}

func TestWorkbookFetchAllWithMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.xlsx")

	if _, err := (Workbook{}).FetchAll(context.Background(), path, ""); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if _, err := (Workbook{}).FetchAll(context.Background(), "", ""); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestWorkbookFetchAllWithCancelledContext(t *testing.T) {
	path := workbook(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := (Workbook{}).FetchAll(ctx, path, ""); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
