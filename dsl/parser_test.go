package dsl_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ByLCY/posterly/dsl"
)

const sampleDSL = `
// 早安海报
poster Morning portrait {
  quote: "The best time is <b>now</b>."
  background: gradient #ff0000 #0000ff
  size: 40px; align: left
  color: #ffffff

  /* 几何 */
  box x 50 y 40% width 80 height 50 rotate -12.5deg
  gesture resize br { down 500 400; move 540 420; up }
  gesture rotate {
    down 336 120
    move 400 130
    cancel
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Name != "Morning" || doc.Aspect != "portrait" {
		t.Fatalf("unexpected header: %s %s", doc.Name, doc.Aspect)
	}
	stmts := doc.Body.Statements
	if len(stmts) != 8 {
		t.Fatalf("expected 8 statements, got %d", len(stmts))
	}

	quote := stmts[0].Assignment
	if quote == nil || quote.Key != "quote" {
		t.Fatalf("expected quote assignment, got %+v", stmts[0])
	}
	if got := quote.Value.Text(); got != "The best time is <b>now</b>." {
		t.Fatalf("unexpected quote: %s", got)
	}

	bg := stmts[1].Assignment
	if bg == nil || len(bg.Value.Parts) != 3 {
		t.Fatalf("expected 3 background parts, got %+v", stmts[1])
	}
	if !bg.Value.Parts[0].Is("Ident") || !bg.Value.Parts[1].Is("Color") || bg.Value.Parts[2].Value != "#0000ff" {
		t.Fatalf("unexpected background parts: %s", tokensToString(bg.Value.Parts))
	}

	// 同一行内以分号分隔
	if stmts[2].Assignment.Key != "size" || stmts[3].Assignment.Key != "align" {
		t.Fatalf("semicolon separated assignments not split")
	}
	size, err := stmts[2].Assignment.Value.Parts[0].Float()
	if err != nil || size != 40 {
		t.Fatalf("size should parse as 40, got %g (%v)", size, err)
	}

	box := stmts[5].Command
	if box == nil || box.Name != "box" || len(box.Args) != 10 {
		t.Fatalf("unexpected box command: %+v", stmts[5])
	}
	if rot, _ := box.Args[9].Float(); rot != -12.5 {
		t.Fatalf("rotation should parse as -12.5, got %g", rot)
	}
	if y, _ := box.Args[3].Float(); y != 40 {
		t.Fatalf("percent suffix should be dropped, got %g", y)
	}

	resize := stmts[6].Command
	if resize.Name != "gesture" || tokensToString(resize.Args) != "resize br" {
		t.Fatalf("unexpected gesture header: %+v", resize)
	}
	if resize.Block == nil || len(resize.Block.Statements) != 3 {
		t.Fatalf("inline gesture block should have 3 steps")
	}
	if up := resize.Block.Statements[2].Command; up == nil || up.Name != "up" || len(up.Args) != 0 {
		t.Fatalf("expected bare up step, got %+v", resize.Block.Statements[2])
	}

	rotate := stmts[7].Command
	if rotate.Block == nil || len(rotate.Block.Statements) != 3 {
		t.Fatalf("multi-line gesture block should have 3 steps")
	}
	if last := rotate.Block.Statements[2].Command; last.Name != "cancel" {
		t.Fatalf("expected cancel step, got %s", last.Name)
	}
	if rotate.Pos.Line != 12 {
		t.Fatalf("command position should be tracked, got line %d", rotate.Pos.Line)
	}
}

func TestParseConcatenatedStrings(t *testing.T) {
	doc, err := dsl.ParseString(`poster P { quote: "Stay " "hungry" }`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := doc.Body.Statements[0].Assignment.Value.Text(); got != "Stay hungry" {
		t.Fatalf("adjacent strings should be joined, got %q", got)
	}
	if doc.Aspect != "" {
		t.Fatalf("aspect is optional, got %q", doc.Aspect)
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"missing header": `{ quote: "x" }`,
		"unclosed block": `poster P { quote: "x"`,
		"bad color":      `poster P { color: #abcd }`,
	}
	for name, src := range cases {
		if _, err := dsl.ParseString(src); err == nil {
			t.Fatalf("%s: expected parse error", name)
		}
	}
}

func TestLexemeErrors(t *testing.T) {
	doc, err := dsl.ParseString("poster P {\n  size: big\n}")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = doc.Body.Statements[0].Assignment.Value.Parts[0].Float()
	var dslErr *dsl.Error
	if !errors.As(err, &dslErr) {
		t.Fatalf("expected *dsl.Error, got %v", err)
	}
	if dslErr.Pos.Line != 2 || !strings.Contains(err.Error(), "2:") {
		t.Fatalf("error should carry position, got %v", err)
	}
}

func TestParseReader(t *testing.T) {
	doc, err := dsl.Parse("morning.poster", strings.NewReader(sampleDSL))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Body.Statements[0].Assignment.Pos.Filename != "morning.poster" {
		t.Fatalf("filename should be recorded in positions")
	}
}

func tokensToString(parts []*dsl.Lexeme) string {
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, p.Value)
	}
	return strings.Join(values, " ")
}
