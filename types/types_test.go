package types

import (
	"testing"
)

func TestMakeCell(t *testing.T) {
	tests := []struct {
		value    any
		kind     Kind
		expected string
	}{
		{nil, Empty, ""},
		{"", Empty, ""},
		{"Gate", Text, "Gate"},
		{float64(12.5), Number, "12.5"},
		{float64(1e21), Number, "1000000000000000000000"},
		{int64(7), Number, "7"},
		{true, Bool, "TRUE"},
		{false, Bool, "FALSE"},
		{[]int{1, 2}, Text, "[1 2]"},
	}

	for _, test := range tests {
		cell := MakeCell(test.value)

		if cell.Kind != test.kind {
			t.Errorf("Incorrect kind for %v - expected:%v, got:%v", test.value, test.kind, cell.Kind)
		}

		if cell.Text() != test.expected {
			t.Errorf("Incorrect text for %v - expected:%q, got:%q", test.value, test.expected, cell.Text())
		}
	}
}

func TestNewIdentity(t *testing.T) {
	identity := NewIdentity(" someone@Example.COM ", "example.com")

	if identity.Email != "someone@Example.COM" {
		t.Errorf("Incorrect e-mail - expected:%v, got:%v", "someone@Example.COM", identity.Email)
	}

	if identity.Domain != "Example.COM" {
		t.Errorf("Incorrect domain - expected:%v, got:%v", "Example.COM", identity.Domain)
	}
}

func TestTabColumnsWithRaggedRows(t *testing.T) {
	tab := Tab{
		Name: "ragged",
		Rows: [][]Cell{
			{TextCell("a")},
			{TextCell("a"), TextCell("b"), TextCell("c")},
			{},
		},
	}

	if columns := tab.Columns(); columns != 3 {
		t.Errorf("Incorrect column count - expected:%v, got:%v", 3, columns)
	}
}

func TestCredentialIsNotPrinted(t *testing.T) {
	credential := Credential("ya29.secret")

	if s := credential.String(); s == "ya29.secret" {
		t.Errorf("Credential printed in clear")
	}
}
