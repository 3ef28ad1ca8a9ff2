package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/uhppoted/uhppoted-app-sheets-pdf/layout"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/log"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/types"
)

const (
	titleSize    = 12
	subtitleSize = 7
	headerSize   = 8
	bodySize     = 7
	gridLine     = 0.5
)

type Options struct {
	// Font is an optional UTF-8 TrueType font file. The PDF core Helvetica fonts
	// are used if it is empty.
	Font      string
	Generated time.Time
	Creator   string
}

// Document is a rendered PDF plus the page layout it was drawn from.
type Document struct {
	Pages []layout.Page
	PDF   []byte
}

type renderer struct {
	pdf      *fpdf.Fpdf
	geometry layout.Geometry
	family   string
	utf8     bool
}

// Render lays out every tab of the document and draws the pages into one PDF,
// in tab order.
func Render(doc types.SourceDocument, g layout.Geometry, options Options) (*Document, error) {
	r := newRenderer(g, options)
	if err := r.pdf.Error(); err != nil {
		return nil, fmt.Errorf("unable to initialise PDF (%v)", err)
	}

	pages := layout.Render(doc, g, r)
	generated := options.Generated.UTC().Format("2006-01-02 15:04:05 MST")

	for _, page := range pages {
		if page.Plan.Scaled() && page.Number == 1 {
			log.Debugf("render", "%v: compressed %v columns to %.1f%% of natural width", page.Tab, len(page.Plan.Widths), 100*page.Plan.Scale)
		}

		r.draw(doc.Name, generated, page)
	}

	var b bytes.Buffer
	if err := r.pdf.Output(&b); err != nil {
		return nil, fmt.Errorf("error generating PDF (%v)", err)
	}

	return &Document{
		Pages: pages,
		PDF:   b.Bytes(),
	}, nil
}

func newRenderer(g layout.Geometry, options Options) *renderer {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: g.PageHeight, Ht: g.PageWidth},
	})

	pdf.SetMargins(g.Margin, g.Margin, g.Margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(g.Padding)
	pdf.SetLineWidth(gridLine)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(options.Generated)

	if options.Creator != "" {
		pdf.SetCreator(options.Creator, true)
	}

	r := renderer{
		pdf:      pdf,
		geometry: g,
		family:   "Helvetica",
	}

	if options.Font != "" {
		pdf.AddUTF8Font("body", "", options.Font)
		pdf.AddUTF8Font("body", "B", options.Font)
		r.family = "body"
		r.utf8 = true
	}

	return &r
}

// Width implements layout.Measurer with the fonts used to draw the grid.
func (r *renderer) Width(text string, font layout.Font) float64 {
	r.font(font)

	return r.pdf.GetStringWidth(r.translate(text))
}

func (r *renderer) font(font layout.Font) {
	switch font {
	case layout.Header:
		r.pdf.SetFont(r.family, "B", headerSize)
	default:
		r.pdf.SetFont(r.family, "", bodySize)
	}
}

func (r *renderer) draw(document, generated string, page layout.Page) {
	g := r.geometry
	pdf := r.pdf
	x := g.Margin
	y := g.Margin

	pdf.AddPage()

	// ... title region
	title := page.Tab
	if page.Number > 1 {
		title = fmt.Sprintf("%v (continued)", page.Tab)
	}

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont(r.family, "B", titleSize)
	pdf.SetXY(x, y)
	pdf.CellFormat(g.Width(), 18, r.translate(title), "", 0, "LM", false, 0, "")

	subtitle := []string{}
	if strings.TrimSpace(document) != "" {
		subtitle = append(subtitle, document)
	}
	subtitle = append(subtitle, fmt.Sprintf("generated %v", generated))
	subtitle = append(subtitle, fmt.Sprintf("page %v of %v", page.Number, page.Count))

	pdf.SetTextColor(96, 96, 96)
	pdf.SetFont(r.family, "", subtitleSize)
	pdf.SetXY(x, y+18)
	pdf.CellFormat(g.Width(), 10, r.translate(strings.Join(subtitle, "  |  ")), "", 0, "LM", false, 0, "")

	// ... grid
	y += g.TitleHeight

	if page.Header == nil && len(page.Rows) == 0 {
		pdf.SetDrawColor(160, 160, 160)
		pdf.Line(x, y, x+g.Width(), y)
		pdf.SetFont(r.family, "", bodySize)
		pdf.SetXY(x, y+g.VPadding)
		pdf.CellFormat(g.Width(), g.BodyLeading, r.translate("(no data)"), "", 0, "LM", false, 0, "")
		return
	}

	if page.Header != nil {
		y += r.row(*page.Header, page.Plan.Widths, y)
	}

	for _, row := range page.Rows {
		y += r.row(row, page.Plan.Widths, y)
	}
}

func (r *renderer) row(row layout.Row, widths []float64, y float64) float64 {
	g := r.geometry
	pdf := r.pdf
	x := g.Margin

	leading := g.BodyLeading
	style := "D"

	pdf.SetDrawColor(0, 0, 0)
	if row.Header {
		leading = g.HeaderLeading
		style = "FD"
		pdf.SetFillColor(169, 169, 169)
		pdf.SetTextColor(245, 245, 245)
		r.font(layout.Header)
	} else {
		pdf.SetTextColor(0, 0, 0)
		r.font(layout.Body)
	}

	for c, w := range widths {
		pdf.Rect(x, y, w, row.Height, style)

		for i, line := range row.Cells[c] {
			pdf.SetXY(x, y+g.VPadding+float64(i)*leading)
			pdf.CellFormat(w, leading, r.translate(line), "", 0, "LM", false, 0, "")
		}

		x += w
	}

	return row.Height
}

// translate converts text to the cp1252 encoding of the core fonts. Runes that
// have no cp1252 code point are drawn as '?'.
func (r *renderer) translate(text string) string {
	if r.utf8 {
		return text
	}

	var b strings.Builder
	for _, ch := range text {
		if ch < 0x80 {
			b.WriteByte(byte(ch))
		} else if v, ok := charmap.Windows1252.EncodeRune(ch); ok {
			b.WriteByte(v)
		} else {
			b.WriteByte('?')
		}
	}

	return b.String()
}
