package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestTableAddRow(t *testing.T) {
	table := NewTable("Name", "Type")

	table.AddRow("acme/seo", "wordpress-plugin")
	table.AddRow("acme/short")
	table.AddRow("acme/long", "library", "extra")

	if table.Len() != 3 {
		t.Fatalf("Expected 3 rows, got %d", table.Len())
	}
	if len(table.rows[1]) != 2 || table.rows[1][1] != "" {
		t.Errorf("Expected short row to be padded, got %q", table.rows[1])
	}
	if len(table.rows[2]) != 2 {
		t.Errorf("Expected long row to be truncated, got %q", table.rows[2])
	}
}

func TestTableRender(t *testing.T) {
	table := NewTable("PACKAGE", "FORCED")
	table.AddRow("wpackagist-plugin/acme-seo", "yes")
	table.AddRow("acme/x", "no")

	want := strings.Join([]string{
		"PACKAGE                     FORCED",
		"--------------------------  ------",
		"wpackagist-plugin/acme-seo  yes",
		"acme/x                      no",
		"",
	}, "\n")

	if got := table.Render(); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestTableRenderEmpty(t *testing.T) {
	if got := NewTable().Render(); got != "" {
		t.Errorf("Render() with no headers = %q, want empty", got)
	}
}

func TestTablePrint(t *testing.T) {
	color.NoColor = true

	table := NewTable("A", "B")
	table.AddRow("1", "2")

	var buf bytes.Buffer
	table.Print(&buf)
	if buf.String() != table.Render() {
		t.Errorf("Print() = %q, want %q", buf.String(), table.Render())
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		s     string
		width int
		want  string
	}{
		{"ab", 4, "ab  "},
		{"abcd", 2, "abcd"},
		{"", 3, "   "},
	}
	for _, tt := range tests {
		if got := padRight(tt.s, tt.width); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.s, tt.width, got, tt.want)
		}
	}
}
