package layout

import (
	"errors"
	"strings"
	"testing"

	"github.com/ByLCY/typewriter/renderer/text"
)

func newTestPaginator(params DocumentParams) (*Paginator, *text.Capture) {
	p := params
	c := &text.Capture{}
	return NewPaginator(&p, c, ColumnWidth{}), c
}

func TestPaginatorBreaksAfterPageHeight(t *testing.T) {
	params := DefaultParams()
	params.PageHeight = 10
	p, c := newTestPaginator(params)
	for i := 0; i < 12; i++ {
		p.Line("x")
	}
	if p.Pos.Page != 2 || p.Pos.Line != 2 {
		t.Fatalf("expected page 2 line 2, got page %d line %d", p.Pos.Page, p.Pos.Line)
	}
	lines := c.Lines()
	if len(lines) != 13 {
		t.Fatalf("expected 13 lines (12 + separator), got %d: %q", len(lines), lines)
	}
	if lines[10] != "" || lines[9] != "x" || lines[11] != "x" {
		t.Fatalf("separator must sit between line 10 and 11: %q", lines)
	}
}

func TestPaginatorFooterReservation(t *testing.T) {
	params := DefaultParams()
	params.PageHeight = 10
	params.Footer = "Page {PAGE}/{PAGES}"
	p, c := newTestPaginator(params)
	p.TotalPages = 3
	if got := p.Available(); got != 7 {
		t.Fatalf("available=%d want 7", got)
	}
	for i := 0; i < 8; i++ {
		p.Line("x")
	}
	want := []string{"x", "x", "x", "x", "x", "x", "x", "", "Page 1/3", "", "x"}
	if got := c.Lines(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("got=%q want=%q", got, want)
	}
	if p.Pos.Page != 2 || p.Pos.Line != 1 {
		t.Fatalf("expected page 2 line 1, got %+v", p.Pos)
	}
}

func TestPaginatorFooterPadsShortPage(t *testing.T) {
	params := DefaultParams()
	params.PageHeight = 8
	params.Footer = "{PAGE}"
	params.FootAlign = AlignCenter
	params.PageWidth = 11
	p, c := newTestPaginator(params)
	p.Line("x")
	p.Break()
	lines := c.Lines()
	// 正文 1 行 + 补齐到第 5 行 + 空行 + 页脚 + 分页空行 = 8 行。
	if len(lines) != 8 {
		t.Fatalf("expected a full 8-line page, got %d: %q", len(lines), lines)
	}
	if lines[6] != "     1" {
		t.Fatalf("footer not centered: %q", lines[6])
	}
}

func TestPaginatorHeaderOnlyInChapters(t *testing.T) {
	params := DefaultParams()
	params.PageWidth = 20
	params.Title = "T"
	params.Header = "{TITLE} - {CHAPTITLE}"
	params.HeadAlign = AlignRight
	p, c := newTestPaginator(params)

	p.Break()
	if p.Pos.Line != 0 {
		t.Fatalf("no header expected before the first chapter, line=%d", p.Pos.Line)
	}

	p.InChapters = true
	p.Trail.Chapter = "C"
	c.Reset()
	p.Break()
	lines := c.Lines()
	if len(lines) < 2 {
		t.Fatalf("missing header: %q", lines)
	}
	header := lines[len(lines)-2]
	if header != strings.Repeat(" ", 15)+"T - C" {
		t.Fatalf("header=%q", header)
	}
	if p.Pos.Line != 1 || p.Pos.Page != 3 {
		t.Fatalf("only the blank after the header counts, got %+v", p.Pos)
	}
}

func TestPaginatorHeaderReservation(t *testing.T) {
	params := DefaultParams()
	params.PageHeight = 10
	params.Header = "H"
	params.Footer = "F"
	p, _ := newTestPaginator(params)
	if got := p.Available(); got != 5 {
		t.Fatalf("available=%d want 5", got)
	}
}

func TestPaginatorBodyLinesWithHeader(t *testing.T) {
	params := DefaultParams()
	params.PageHeight = 10
	params.Header = "H"
	p, c := newTestPaginator(params)
	p.InChapters = true
	p.Break()
	for i := 0; i < 14; i++ {
		p.Line("w")
	}
	// 可用 8 行，页眉后的空行占 1 行，每页正文 7 行。
	var perPage []int
	for _, l := range c.Lines() {
		switch l {
		case "H":
			perPage = append(perPage, 0)
		case "w":
			perPage[len(perPage)-1]++
		}
	}
	if len(perPage) != 2 || perPage[0] != 7 || perPage[1] != 7 {
		t.Fatalf("expected 7 body lines per page, got %v", perPage)
	}
	if p.Pos.Page != 3 {
		t.Fatalf("expected page 3, got %d", p.Pos.Page)
	}
}

func TestPaginatorFinishPage(t *testing.T) {
	params := DefaultParams()
	params.PageHeight = 5
	p, c := newTestPaginator(params)
	p.Line("only")
	p.FinishPage()
	if got := len(c.Lines()); got != 4 {
		t.Fatalf("expected padding to height-1 (4 lines), got %d", got)
	}
	if p.Pos.Page != 1 {
		t.Fatalf("FinishPage must not advance the page, got %d", p.Pos.Page)
	}
}

func TestPaginatorZeroHeightNeverBreaks(t *testing.T) {
	params := DefaultParams()
	params.PageHeight = 0
	p, _ := newTestPaginator(params)
	for i := 0; i < 100; i++ {
		p.Line("x")
	}
	if p.Pos.Page != 1 {
		t.Fatalf("expected a single page, got %d", p.Pos.Page)
	}
}

var errSinkClosed = errors.New("sink closed")

type failingSink struct{ calls int }

func (f *failingSink) WriteLine(string) error {
	f.calls++
	return errSinkClosed
}

func TestPaginatorLatchesSinkError(t *testing.T) {
	params := DefaultParams()
	s := &failingSink{}
	p := NewPaginator(&params, s, nil)
	p.Line("a")
	p.Line("b")
	if p.Err() != errSinkClosed {
		t.Fatalf("expected latched error, got %v", p.Err())
	}
	if s.calls != 1 {
		t.Fatalf("sink must not be written after a failure, calls=%d", s.calls)
	}
}
