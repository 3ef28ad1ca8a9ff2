// Package layout fits tabular data onto fixed size landscape pages. Column
// widths are compressed proportionally to fit the printable width and rows
// are paginated vertically, so that cell content is wrapped but never clipped.
package layout

import (
	"github.com/uhppoted/uhppoted-app-sheets-pdf/types"
)

// Page is one physical page of a tab. Number and Count are 1-based within the tab.
type Page struct {
	Tab    string
	Number int
	Count  int
	Plan   Plan
	Header *Row
	Rows   []Row
}

// Row holds the wrapped lines of each cell. A row that is too tall for a page
// is split into several Rows with Continued set on all but the first.
type Row struct {
	Index     int
	Cells     [][]string
	Lines     int
	Height    float64
	Header    bool
	Continued bool
}

// Render lays out every tab of the document, in tab order.
func Render(doc types.SourceDocument, g Geometry, m Measurer) []Page {
	pages := []Page{}

	for _, tab := range doc.Tabs {
		pages = append(pages, LayoutTab(tab, g, m)...)
	}

	return pages
}

// LayoutTab lays out a single tab. It always returns at least one page.
func LayoutTab(tab types.Tab, g Geometry, m Measurer) []Page {
	columns := tab.Columns()
	if len(tab.Rows) == 0 || columns == 0 {
		return []Page{
			{Tab: tab.Name, Number: 1, Count: 1},
		}
	}

	text := make([][]string, len(tab.Rows))
	for r, row := range tab.Rows {
		text[r] = make([]string, columns)
		for c, cell := range row {
			text[r][c] = cell.Text()
		}
	}

	plan := Fit(NaturalWidths(text, columns, g, m), g.Width())
	body := g.Body()

	// ... header is repeated on every page unless it would crowd out the body
	var header *Row
	rows := []Row{}

	first := layoutRow(0, text[0], plan.Widths, true, g, m)
	if first.Height <= body/2 {
		header = &first
	} else {
		rows = append(rows, first)
	}

	for r := 1; r < len(text); r++ {
		rows = append(rows, layoutRow(r, text[r], plan.Widths, false, g, m))
	}

	available := body
	if header != nil {
		available -= header.Height
	}

	fragments := []Row{}
	for _, row := range rows {
		fragments = append(fragments, fragment(row, available, g)...)
	}

	// ... greedy vertical pagination
	pages := []Page{}
	current := []Row{}
	used := 0.0

	for _, row := range fragments {
		if len(current) > 0 && used+row.Height > available+epsilon {
			pages = append(pages, Page{Tab: tab.Name, Plan: plan, Header: header, Rows: current})
			current = []Row{}
			used = 0
		}

		current = append(current, row)
		used += row.Height
	}

	if len(current) > 0 || len(pages) == 0 {
		pages = append(pages, Page{Tab: tab.Name, Plan: plan, Header: header, Rows: current})
	}

	for i := range pages {
		pages[i].Number = i + 1
		pages[i].Count = len(pages)
	}

	return pages
}

func layoutRow(index int, values []string, widths []float64, header bool, g Geometry, m Measurer) Row {
	font := Body
	if header {
		font = Header
	}

	cells := make([][]string, len(widths))
	lines := 1

	for c, w := range widths {
		cells[c] = Wrap(values[c], w, font, g, m)
		if len(cells[c]) > lines {
			lines = len(cells[c])
		}
	}

	return Row{
		Index:  index,
		Cells:  cells,
		Lines:  lines,
		Height: g.RowHeight(lines, header),
		Header: header,
	}
}

// fragment splits a row that is taller than the available height into rows of
// as many lines as fit.
func fragment(row Row, available float64, g Geometry) []Row {
	if row.Height <= available+epsilon {
		return []Row{row}
	}

	leading := g.BodyLeading
	if row.Header {
		leading = g.HeaderLeading
	}

	limit := int((available - 2*g.VPadding + epsilon) / leading)
	if limit < 1 {
		limit = 1
	}

	fragments := []Row{}
	for start := 0; start < row.Lines; start += limit {
		end := start + limit
		if end > row.Lines {
			end = row.Lines
		}

		cells := make([][]string, len(row.Cells))
		for c, lines := range row.Cells {
			if start < len(lines) {
				cells[c] = lines[start:min(end, len(lines))]
			} else {
				cells[c] = []string{}
			}
		}

		fragments = append(fragments, Row{
			Index:     row.Index,
			Cells:     cells,
			Lines:     end - start,
			Height:    g.RowHeight(end-start, row.Header),
			Header:    row.Header,
			Continued: start > 0,
		})
	}

	return fragments
}
