package layout

import (
	"strings"
)

type Font int

const (
	Body Font = iota
	Header
)

// Measurer returns the rendered width of a line of text in a font. The PDF
// renderer implements it with the same font metrics it draws with.
type Measurer interface {
	Width(text string, font Font) float64
}

// Wrap splits text into lines no wider than width less the cell padding.
// Lines break at whitespace and words that are too wide break between runes.
// Every line holds at least one rune, so wrapping always terminates and no
// content is dropped.
func Wrap(text string, width float64, font Font, g Geometry, m Measurer) []string {
	available := width - 2*g.Padding
	lines := []string{}

	for _, p := range paragraphs(text) {
		lines = append(lines, wrap(p, available, font, m)...)
	}

	return lines
}

func wrap(paragraph string, available float64, font Font, m Measurer) []string {
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return []string{""}
	}

	lines := []string{}
	line := ""

	for _, word := range words {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}

		if m.Width(candidate, font) <= available+epsilon {
			line = candidate
			continue
		}

		if line != "" {
			lines = append(lines, line)
			line = ""
		}

		if m.Width(word, font) <= available+epsilon {
			line = word
			continue
		}

		pieces := split(word, available, font, m)
		lines = append(lines, pieces[:len(pieces)-1]...)
		line = pieces[len(pieces)-1]
	}

	if line != "" {
		lines = append(lines, line)
	}

	return lines
}

func split(word string, available float64, font Font, m Measurer) []string {
	runes := []rune(word)
	pieces := []string{}

	for start := 0; start < len(runes); {
		end := start + 1
		for end < len(runes) && m.Width(string(runes[start:end+1]), font) <= available+epsilon {
			end++
		}

		pieces = append(pieces, string(runes[start:end]))
		start = end
	}

	return pieces
}
