package tablewriter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestTableAlignsColoredCells(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = noColor })

	tw := New(Col("Wallet"), Col("Released", RightAlign()), NewLineCol("Error"))
	tw.Write(map[string]interface{}{"Wallet": color.GreenString("t2abc"), "Released": "300"})
	tw.Write(map[string]interface{}{"Wallet": "t2defgh", "Released": "1,200", "Error": "paused"})

	var buf bytes.Buffer
	if err := tw.Flush(&buf); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"Wallet   Released",
		"t2abc         300",
		"t2defgh     1,200",
		"  Error: paused",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %q", lines)
	}
	for i := range want {
		if got := stripEscapes(lines[i]); got != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got, want[i])
		}
	}
}

func TestUnusedColumnsAreHidden(t *testing.T) {
	tw := New(Col("A"), Col("B"))
	tw.Write(map[string]interface{}{"A": 1, "C": "extra"})

	var buf bytes.Buffer
	if err := tw.Flush(&buf); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "B") || !strings.Contains(buf.String(), "extra") {
		t.Fatalf("got %q", buf.String())
	}
}

func stripEscapes(s string) string {
	var out strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && r == 'm':
			inEsc = false
		case !inEsc:
			out.WriteRune(r)
		}
	}
	return out.String()
}
