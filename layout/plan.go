package layout

import (
	"strings"
)

const epsilon = 1e-9

// Plan is the column width plan for one tab. The widths never sum to more than
// the printable width it was fitted to.
type Plan struct {
	Natural []float64
	Widths  []float64
	Scale   float64
}

func (p Plan) Scaled() bool {
	return p.Scale < 1
}

func (p Plan) Total() float64 {
	return sum(p.Widths)
}

// Fit uses the natural widths directly if they fit into the budget, otherwise
// every column gets the same proportional share of the budget that its natural
// width has of the oversized total.
func Fit(natural []float64, budget float64) Plan {
	widths := make([]float64, len(natural))
	copy(widths, natural)

	total := sum(natural)
	if total <= budget || total <= 0 {
		return Plan{
			Natural: natural,
			Widths:  widths,
			Scale:   1,
		}
	}

	scale := budget / total
	for i, w := range natural {
		widths[i] = w * budget / total
	}

	return Plan{
		Natural: natural,
		Widths:  widths,
		Scale:   scale,
	}
}

// NaturalWidths measures the widest line in each column (row 0 in the header
// font) plus padding, clamped to [MinColumn, MaxColumn].
func NaturalWidths(rows [][]string, columns int, g Geometry, m Measurer) []float64 {
	widths := make([]float64, columns)

	for c := 0; c < columns; c++ {
		widest := 0.0
		for r, row := range rows {
			if c >= len(row) {
				continue
			}

			font := Body
			if r == 0 {
				font = Header
			}

			for _, line := range paragraphs(row[c]) {
				if w := m.Width(line, font); w > widest {
					widest = w
				}
			}
		}

		w := widest + 2*g.Padding
		if w < g.MinColumn {
			w = g.MinColumn
		}

		if w > g.MaxColumn {
			w = g.MaxColumn
		}

		widths[c] = w
	}

	return widths
}

func paragraphs(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}

	return total
}
