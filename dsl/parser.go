package dsl

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	directiveLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "String", Pattern: `"[^"]*"`},
		{Name: "Number", Pattern: `-?\d+`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
		{Name: "Punct", Pattern: `[.=,|]`},
		{Name: "Other", Pattern: `[^\s]`},
	})

	directiveParser = participle.MustBuild[Directive](
		participle.Lexer(directiveLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
)

// LineKind classifies one line of markup input.
type LineKind int

const (
	LineBlank LineKind = iota
	LineComment
	LineDirective
	LineText
	LineCode
	LineMalformed
)

func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineComment:
		return "comment"
	case LineDirective:
		return "directive"
	case LineText:
		return "text"
	case LineCode:
		return "code"
	case LineMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Line is the scanner's view of a single input line.
type Line struct {
	Kind      LineKind
	Text      string // trimmed text, or the untouched line inside a code block
	Directive *Directive
	Err       error // parse failure for LineMalformed
}

// Directive is a dot-prefixed command such as `.CHAP "Intro"`.
type Directive struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Name string         `parser:"'.' @Ident"`
	Args []*Arg         `parser:"@@*"`
}

// Arg is one token group following the directive keyword.
type Arg struct {
	Pair   *Pair   `parser:"  @@"`
	String *Text   `parser:"| @String"`
	Number *int    `parser:"| @Number"`
	Word   *string `parser:"| @Ident"`
	Other  *string `parser:"| @(Punct | Other)"`
}

// Pair captures KEY=a,b,c parameters (table geometry, NAME="...").
type Pair struct {
	Key    string   `parser:"@Ident '='"`
	Values []string `parser:"@(String | Number | Ident) ( ',' @(String | Number | Ident) )*"`
}

// Text strips the surrounding double quotes when capturing a String token.
// Quoted strings carry no escape sequences.
type Text string

// Capture implements participle.Capture.
func (t *Text) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("text capture requires value")
	}
	*t = Text(unquote(values[0]))
	return nil
}

func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}
	return v
}

// ParseLine classifies raw. While a code block is open every line except
// `.ECODE` is returned verbatim as LineCode.
func ParseLine(raw string, inCode bool) Line {
	trimmed := strings.TrimSpace(raw)
	if inCode && trimmed != ".ECODE" {
		return Line{Kind: LineCode, Text: raw}
	}
	switch {
	case trimmed == "":
		return Line{Kind: LineBlank}
	case trimmed[0] == '#':
		return Line{Kind: LineComment, Text: trimmed}
	case trimmed[0] == '.':
		d, err := ParseDirective(trimmed)
		if err != nil {
			return Line{Kind: LineMalformed, Text: trimmed, Err: err}
		}
		return Line{Kind: LineDirective, Text: trimmed, Directive: d}
	default:
		return Line{Kind: LineText, Text: trimmed}
	}
}

// ParseDirective parses a single directive line.
func ParseDirective(line string) (*Directive, error) {
	return directiveParser.ParseString("", line)
}

// Quoted returns the first quoted string argument.
func (d *Directive) Quoted() (string, bool) {
	for _, a := range d.Args {
		if a.String != nil {
			return string(*a.String), true
		}
	}
	return "", false
}

// Quotes returns every quoted argument in order, e.g. the cells of
// `.TR "a" | "b" | "c"`.
func (d *Directive) Quotes() []string {
	var out []string
	for _, a := range d.Args {
		if a.String != nil {
			out = append(out, string(*a.String))
		}
	}
	return out
}

// Int returns the first numeric argument.
func (d *Directive) Int() (int, bool) {
	for _, a := range d.Args {
		if a.Number != nil {
			return *a.Number, true
		}
	}
	return 0, false
}

// Words returns the bare keyword arguments.
func (d *Directive) Words() []string {
	var out []string
	for _, a := range d.Args {
		if a.Word != nil {
			out = append(out, *a.Word)
		}
	}
	return out
}

// HasWord reports whether w appears as a bare keyword argument.
func (d *Directive) HasWord(w string) bool {
	for _, word := range d.Words() {
		if word == w {
			return true
		}
	}
	return false
}

// Values returns the value list of KEY=... or nil when absent.
func (d *Directive) Values(key string) []string {
	for _, a := range d.Args {
		if a.Pair == nil || a.Pair.Key != key {
			continue
		}
		out := make([]string, len(a.Pair.Values))
		for i, v := range a.Pair.Values {
			out[i] = unquote(v)
		}
		return out
	}
	return nil
}
