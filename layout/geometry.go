package layout

import (
	"fmt"
	"strings"
)

// Geometry is the fixed physical page, in points, in landscape orientation.
type Geometry struct {
	Size          string
	PageWidth     float64
	PageHeight    float64
	Margin        float64
	TitleHeight   float64
	Padding       float64
	VPadding      float64
	BodyLeading   float64
	HeaderLeading float64
	MinColumn     float64
	MaxColumn     float64
}

// landscape page sizes in points
var sizes = map[string][2]float64{
	"letter": {792, 612},
	"a4":     {841.89, 595.28},
	"legal":  {1008, 612},
}

func NewGeometry(size string) (Geometry, error) {
	key := strings.ToLower(strings.TrimSpace(size))
	if key == "" {
		key = "letter"
	}

	dimensions, ok := sizes[key]
	if !ok {
		return Geometry{}, fmt.Errorf("unknown page size '%v'", size)
	}

	return Geometry{
		Size:          key,
		PageWidth:     dimensions[0],
		PageHeight:    dimensions[1],
		Margin:        20,
		TitleHeight:   36,
		Padding:       2,
		VPadding:      2,
		BodyLeading:   8,
		HeaderLeading: 9,
		MinColumn:     24,
		MaxColumn:     240,
	}, nil
}

// Width is the printable width W that every column plan must fit into.
func (g Geometry) Width() float64 {
	return g.PageWidth - 2*g.Margin
}

// Body is the height available to the grid on every page.
func (g Geometry) Body() float64 {
	return g.PageHeight - 2*g.Margin - g.TitleHeight
}

// RowHeight is the height of a row with the given number of lines.
func (g Geometry) RowHeight(lines int, header bool) float64 {
	if lines < 1 {
		lines = 1
	}

	if header {
		return float64(lines)*g.HeaderLeading + 2*g.VPadding
	}

	return float64(lines)*g.BodyLeading + 2*g.VPadding
}

// RowsPerPage is the number of single line body rows that fit below a single
// line repeated header.
func (g Geometry) RowsPerPage() int {
	n := int((g.Body() - g.RowHeight(1, true) + epsilon) / g.RowHeight(1, false))
	if n < 1 {
		return 1
	}

	return n
}
