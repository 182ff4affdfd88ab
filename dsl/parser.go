package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+|\.\d+)(?:px|deg|%)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[;:,]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	tokenNames       = invertSymbols(dslLexer.Symbols())
	newlineTokenType = mustTokenType("Newline")
	lbraceTokenType  = mustTokenType("LBrace")
	rbraceTokenType  = mustTokenType("RBrace")
	symbolTokenType  = mustTokenType("Symbol")
	stringTokenType  = mustTokenType("String")

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment"),
	)
)

// Document is the root AST node of a .poster file:
//
//	poster Name [aspect] { statements }
type Document struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Name   string         `parser:"Newline* 'poster' @Ident"`
	Aspect string         `parser:"@Ident?"`
	Body   *Block         `parser:"@@ Newline*"`
}

// Block is a delimited list of statements separated by newlines or ';'.
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement is either `key: value` or a command with optional block.
type Statement struct {
	Assignment *Assignment `parser:"  @@"`
	Command    *Command    `parser:"| @@"`
}

// Assignment uses colon syntax (key: value...).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident ':'"`
	Value *Value         `parser:"@@"`
}

// Command is a word followed by arguments and an optional block on the same line,
// eg. `box x 50 y 50` or `gesture resize br { ... }`.
type Command struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident"`
	Args  []*Lexeme      `parser:"@@*"`
	Block *Block         `parser:"@@?"`
}

// Value is the token list after the colon of an assignment.
type Value struct {
	Parts []*Lexeme `parser:"@@+"`
}

// Lexeme captures a single lexical token.
type Lexeme struct {
	Type  string         `json:"type"`
	Value string         `json:"value"`
	Raw   string         `json:"raw"`
	Pos   lexer.Position `json:"-"`
}

// Parse implements participle.Parseable so Lexeme can act as a grammar atom.
func (l *Lexeme) Parse(lex *lexer.PeekingLexer) error {
	tok := lex.Peek()
	if shouldStopArg(tok) {
		return participle.NextMatch
	}
	lexeme, err := newLexeme(*lex.Next())
	if err != nil {
		return err
	}
	*l = lexeme
	return nil
}

// Is reports whether the lexeme has the given token type (String/Number/Color/Ident).
func (l *Lexeme) Is(typ string) bool { return l != nil && l.Type == typ }

// Float parses a Number lexeme, dropping its px/deg/% suffix.
func (l *Lexeme) Float() (float64, error) {
	if !l.Is("Number") {
		return 0, l.Errorf("期望数字，得到 %q", l.Raw)
	}
	s := strings.TrimRight(l.Value, "pxdeg%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, l.Errorf("无法解析数字 %q", l.Raw)
	}
	return v, nil
}

// Errorf 返回带有源码位置的错误。
func (l *Lexeme) Errorf(format string, args ...any) error {
	return &Error{Pos: l.Pos, Msg: fmt.Sprintf(format, args...)}
}

// Error 是带位置的语义错误。
type Error struct {
	Pos lexer.Position
	Msg string
}

func (e *Error) Error() string {
	if e.Pos.Line == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Errorf returns an error located at the given position.
func Errorf(pos lexer.Position, format string, args ...any) error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Text concatenates the string and word parts of the value, separated by spaces
// except between adjacent string literals.
func (v *Value) Text() string {
	var b strings.Builder
	for i, p := range v.Parts {
		if i > 0 && !(p.Is("String") && v.Parts[i-1].Is("String")) {
			b.WriteByte(' ')
		}
		b.WriteString(p.Value)
	}
	return b.String()
}

// Pos returns the position of the first part.
func (v *Value) Pos() lexer.Position {
	if v == nil || len(v.Parts) == 0 {
		return lexer.Position{}
	}
	return v.Parts[0].Pos
}

// Parse parses DSL content from an io.Reader. filename is used in positions.
func Parse(filename string, r io.Reader) (*Document, error) {
	return documentParser.Parse(filename, r)
}

// ParseString parses DSL content from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}

func shouldStopArg(tok *lexer.Token) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	switch tok.Type {
	case newlineTokenType, rbraceTokenType, lbraceTokenType:
		return true
	case symbolTokenType:
		return tok.Value == ";"
	default:
		return false
	}
}

func newLexeme(tok lexer.Token) (Lexeme, error) {
	name, ok := tokenNames[tok.Type]
	if !ok {
		name = fmt.Sprintf("#%d", tok.Type)
	}
	val := tok.Value
	if tok.Type == stringTokenType {
		unquoted, err := strconv.Unquote(tok.Value)
		if err != nil {
			return Lexeme{}, Errorf(tok.Pos, "无效的字符串 %s", tok.Value)
		}
		val = unquoted
	}
	return Lexeme{Type: name, Value: val, Raw: tok.Value, Pos: tok.Pos}, nil
}

func invertSymbols(symbols map[string]lexer.TokenType) map[lexer.TokenType]string {
	out := make(map[lexer.TokenType]string, len(symbols))
	for name, tt := range symbols {
		out[tt] = name
	}
	return out
}

func mustTokenType(name string) lexer.TokenType {
	tt, ok := dslLexer.Symbols()[name]
	if !ok {
		panic(fmt.Sprintf("token %s not defined", name))
	}
	return tt
}
