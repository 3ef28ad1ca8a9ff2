package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Credential is the caller's delegated OAuth2 access token. It lives for one
// request and is never logged or stored.
type Credential string

func (c Credential) String() string {
	if c == "" {
		return ""
	}

	return "********"
}

type Identity struct {
	Email  string
	Domain string
	Hosted string
}

// NewIdentity derives the domain from the e-mail address.
func NewIdentity(email, hosted string) Identity {
	email = strings.TrimSpace(email)
	domain := ""
	if ix := strings.LastIndex(email, "@"); ix >= 0 {
		domain = email[ix+1:]
	}

	return Identity{
		Email:  email,
		Domain: domain,
		Hosted: hosted,
	}
}

type SourceDocument struct {
	ID   string
	Name string
	Tabs []Tab
}

// Tab holds the cell values of one worksheet. Rows may have different lengths.
type Tab struct {
	Name string
	Rows [][]Cell
}

// Columns returns the length of the longest row.
func (t Tab) Columns() int {
	columns := 0
	for _, row := range t.Rows {
		if len(row) > columns {
			columns = len(row)
		}
	}

	return columns
}

type Kind int

const (
	Empty Kind = iota
	Text
	Number
	Bool
)

type Cell struct {
	Kind   Kind
	text   string
	number float64
	flag   bool
}

func TextCell(v string) Cell {
	if v == "" {
		return Cell{Kind: Empty}
	}

	return Cell{Kind: Text, text: v}
}

func NumberCell(v float64) Cell {
	return Cell{Kind: Number, number: v}
}

func BoolCell(v bool) Cell {
	return Cell{Kind: Bool, flag: v}
}

// MakeCell converts a decoded JSON/workbook value to a cell. Unknown types are
// formatted with %v.
func MakeCell(v any) Cell {
	switch value := v.(type) {
	case nil:
		return Cell{Kind: Empty}
	case string:
		return TextCell(value)
	case float64:
		return NumberCell(value)
	case float32:
		return NumberCell(float64(value))
	case int:
		return NumberCell(float64(value))
	case int64:
		return NumberCell(float64(value))
	case bool:
		return BoolCell(value)
	default:
		return TextCell(fmt.Sprintf("%v", value))
	}
}

// Text returns the deterministic text representation of the cell value.
func (c Cell) Text() string {
	switch c.Kind {
	case Text:
		return c.text
	case Number:
		return strconv.FormatFloat(c.number, 'f', -1, 64)
	case Bool:
		if c.flag {
			return "TRUE"
		}
		return "FALSE"
	default:
		return ""
	}
}

func (c Cell) String() string {
	return c.Text()
}

// Artifact is the locator of a published PDF.
type Artifact struct {
	ID       string
	Name     string
	URL      string
	Folder   string
	Fallback bool
}
