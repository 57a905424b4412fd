package layout

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ByLCY/typewriter/dsl"
	"github.com/ByLCY/typewriter/renderer"
)

const (
	pageNumberField = 4 // 目录页码列宽
	columnGap       = 2 // 表格列间距
)

// Builder 在一遍排版中依次执行指令与正文行，持有段落/列表/表格等瞬时状态。
// 每一遍使用新的 Builder；引用表由 Session 在两遍之间传递。
type Builder struct {
	params  DocumentParams
	pager   *Paginator
	measure Measurer
	refs    *References
	opts    Options
	log     *slog.Logger

	list       ListState
	table      TableState
	inDocument bool
	inCode     bool

	// include 由 Session 注入，用于处理 .INCLUDE。
	include func(name string)
}

func newBuilder(params DocumentParams, refs *References, sink renderer.Sink, opts Options) *Builder {
	b := &Builder{
		params:  params,
		measure: opts.Measurer,
		refs:    refs,
		opts:    opts,
		log:     opts.Logger,
	}
	b.pager = NewPaginator(&b.params, sink, b.measure)
	return b
}

// InCode 报告是否处于代码块中，行扫描需要据此区分原样行与指令。
func (b *Builder) InCode() bool { return b.inCode }

// Pager 暴露分页器，便于测试检查页码与行号。
func (b *Builder) Pager() *Paginator { return b.pager }

// Params 返回当前文档参数。
func (b *Builder) Params() DocumentParams { return b.params }

// Apply 处理一行已分类的输入。空行、注释与无法解析的指令被静默忽略。
func (b *Builder) Apply(line dsl.Line) {
	switch line.Kind {
	case dsl.LineDirective:
		b.directive(line.Directive)
	case dsl.LineText, dsl.LineCode:
		b.text(line.Text)
	case dsl.LineMalformed:
		b.log.Debug("忽略无法解析的指令", "line", line.Text, "err", line.Err)
	}
}

func (b *Builder) text(s string) {
	if !b.inDocument {
		return
	}
	if b.inCode {
		b.pager.Line(spaces(b.params.LeftMargin) + expandTabs(s, b.params.TabSize))
		return
	}
	b.paragraph(s, b.pager.Pos.ParagraphAlign)
}

func (b *Builder) directive(d *dsl.Directive) {
	switch d.Name {
	case "TITLE":
		b.setString(d, &b.params.Title)
	case "AUTH":
		b.setString(d, &b.params.Author)
	case "DATE":
		b.setString(d, &b.params.Date)
	case "HEADER":
		b.setString(d, &b.params.Header)
	case "FOOTER":
		b.setString(d, &b.params.Footer)
	case "PAGEWIDTH":
		b.setInt(d, &b.params.PageWidth)
	case "PAGEHEIGHT":
		b.setInt(d, &b.params.PageHeight)
	case "LMARGIN":
		b.setInt(d, &b.params.LeftMargin)
	case "RMARGIN":
		b.setInt(d, &b.params.RightMargin)
	case "INDENT":
		b.setInt(d, &b.params.Indent)
	case "TABSIZE":
		b.setInt(d, &b.params.TabSize)
	case "LINESPACE":
		b.setInt(d, &b.params.LineSpace)
	case "JUSTIFY":
		b.setAlign(d, &b.params.Justify)
	case "HEADALIGN":
		b.setAlign(d, &b.params.HeadAlign)
	case "FOOTALIGN":
		b.setAlign(d, &b.params.FootAlign)
	case "DOCUMENT":
		b.startDocument()
	case "EDOC":
		b.pager.FinishPage()
		b.inDocument = false
	case "MAKETOC":
		b.contents()
	case "MAKETOT":
		b.tableIndex()
	case "PAGEBREAK":
		b.pager.Break()
	case "CHAP":
		b.heading(d, 1)
	case "SUBCHAP":
		b.heading(d, 2)
	case "SUBSUBCHAP":
		b.heading(d, 3)
	case "P":
		b.startParagraph(d)
	case "BREAK":
		b.pager.Blank()
	case "CODE":
		b.inCode = true
		b.pager.Blank()
	case "ECODE":
		b.inCode = false
		b.pager.Blank()
	case "LIST":
		b.startList(d)
	case "BULLET":
		if s, ok := d.Quoted(); ok && s != "" {
			r, _ := utf8.DecodeRuneInString(s)
			b.list.Bullet = r
		}
	case "ITEM":
		if s, ok := d.Quoted(); ok {
			b.item(s)
		}
	case "ELIST":
		b.list = ListState{}
		b.pager.Blank()
	case "TABLE":
		b.startTable(d)
	case "TH":
		b.table.Headers = b.table.cells(d.Quotes())
	case "TR":
		b.table.Rows = append(b.table.Rows, b.table.cells(d.Quotes()))
	case "TLINE":
		b.table.Rules = append(b.table.Rules, len(b.table.Rows)-1)
	case "ETABLE":
		b.renderTable()
	case "INCLUDE":
		if name, ok := d.Quoted(); ok && b.include != nil {
			b.include(name)
		}
	default:
		b.log.Debug("忽略未知指令", "name", d.Name)
	}
}

func (b *Builder) setString(d *dsl.Directive, dst *string) {
	if s, ok := d.Quoted(); ok {
		*dst = s
	}
}

func (b *Builder) setInt(d *dsl.Directive, dst *int) {
	if n, ok := d.Int(); ok {
		*dst = n
	}
}

func (b *Builder) setAlign(d *dsl.Directive, dst *Align) {
	if words := d.Words(); len(words) > 0 {
		*dst = ParseAlign(words[0])
	}
}

// startDocument 输出标题页：标题、作者、日期依次居中，每项之后空一行。
func (b *Builder) startDocument() {
	b.inDocument = true
	b.pager.Pos.Line = 0
	if b.params.Header != "" && b.pager.InChapters {
		b.pager.Header()
	}
	b.pager.Emit("")
	for _, s := range []string{b.params.Title, b.params.Author, b.params.Date} {
		if s == "" {
			continue
		}
		b.centered(s)
		b.pager.Blank()
	}
	b.pager.Blank()
}

func (b *Builder) centered(s string) {
	width := b.params.ContentWidth()
	lines := WrapLines(s, width, width, b.measure)
	for i, words := range lines {
		b.emitText(RenderLine(words, width, AlignCenter, i == len(lines)-1, b.measure))
	}
}

// heading 记录引用后输出标题与下划线（章用 '='，节用 '-'，小节无下划线）。
func (b *Builder) heading(d *dsl.Directive, level int) {
	title, ok := d.Quoted()
	if !ok {
		return
	}
	need := 4
	if level == 3 {
		need = 3
	}
	if level == 1 {
		b.pager.InChapters = true
	}
	b.pager.Ensure(need)
	b.refs.addChapter(title, level, b.pager.Pos.Page)

	switch level {
	case 1:
		b.pager.Trail.Chapter = title
	case 2:
		b.pager.Trail.Subchapter = title
	default:
		b.pager.Trail.Subsubchapter = title
	}

	b.pager.Emit("")
	b.pager.Emit(title)
	switch level {
	case 1:
		b.pager.Emit(repeat("=", b.measure.Width(title)))
	case 2:
		b.pager.Emit(repeat("-", b.measure.Width(title)))
	}
	b.pager.Emit("")
}

func (b *Builder) startParagraph(d *dsl.Directive) {
	b.pager.Blank()
	align := b.params.Justify
	for _, w := range []string{"LEFT", "RIGHT", "CENTER", "FULL"} {
		if d.HasWord(w) {
			align = ParseAlign(w)
			break
		}
	}
	b.pager.Pos.ParagraphAlign = align
	b.pager.Pos.FirstLine = true
}

// paragraph 折行输出一段正文。段落首行额外预留 Indent 列。
func (b *Builder) paragraph(s string, align Align) {
	width := b.params.ContentWidth()
	first := width
	indent := 0
	if b.pager.Pos.FirstLine {
		first -= b.params.Indent
		indent = b.params.Indent
	}
	lines := WrapLines(s, first, width, b.measure)
	for i, words := range lines {
		avail, lead := width, ""
		if i == 0 && indent > 0 {
			avail, lead = first, spaces(indent)
		}
		if i == 0 {
			b.pager.Pos.FirstLine = false
		}
		b.emitText(lead + RenderLine(words, avail, align, i == len(lines)-1, b.measure))
	}
}

// emitText 输出一行正文并按 LineSpace 追加空行。
func (b *Builder) emitText(s string) {
	b.pager.Ensure(b.params.LineSpace)
	b.pager.Emit(spaces(b.params.LeftMargin) + s)
	for i := 1; i < b.params.LineSpace; i++ {
		b.pager.Blank()
	}
}

func (b *Builder) startList(d *dsl.Directive) {
	switch {
	case d.HasWord("BULLET"):
		b.list.Kind = ListBullet
		b.list.Bullet = '*'
	case d.HasWord("RNUMBER"):
		b.list.Kind = ListRoman
	case d.HasWord("NUMBER"):
		b.list.Kind = ListNumber
	}
	b.list.Count = 0
	b.list.Indent = b.params.Indent
	b.pager.Blank()
}

// listPrefix 生成条目前缀。数字前缀在 1..9 与 10+ 之间保持同宽；
// 罗马数字占 4 列再加一个空格，超过 4 个字母时仅加宽该条目。
func listPrefix(l ListState) string {
	n := l.Count + 1
	switch l.Kind {
	case ListBullet:
		return string(l.Bullet) + " "
	case ListNumber:
		if n < 10 {
			return strconv.Itoa(n) + ".  "
		}
		return strconv.Itoa(n) + ". "
	case ListRoman:
		return fmt.Sprintf("%-4s ", roman(n))
	default:
		return ""
	}
}

var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func roman(n int) string {
	var sb strings.Builder
	for _, r := range romanTable {
		for n >= r.value {
			sb.WriteString(r.symbol)
			n -= r.value
		}
	}
	return sb.String()
}

// item 输出一个列表条目：首行带前缀，续行以等宽空白对齐到首个单词。
func (b *Builder) item(s string) {
	prefix := listPrefix(b.list)
	pw := b.measure.Width(prefix)
	width := b.params.ContentWidth() - b.list.Indent
	margin := spaces(b.params.LeftMargin + b.list.Indent)
	for i, words := range WrapLines(s, width-pw, width, b.measure) {
		lead := spaces(pw)
		if i == 0 {
			lead = prefix
		}
		b.pager.Line(margin + lead + strings.Join(words, " "))
	}
	b.list.Count++
}

func (b *Builder) startTable(d *dsl.Directive) {
	b.table = TableState{}
	if v := d.Values("COLS"); len(v) > 0 {
		b.table.Cols, _ = strconv.Atoi(v[0])
	}
	if b.table.Cols < 0 {
		b.table.Cols = 0
	}
	b.table.Widths = make([]int, b.table.Cols)
	b.table.Aligns = make([]Align, b.table.Cols)
	for i, w := range d.Values("WIDTHS") {
		if i >= b.table.Cols {
			break
		}
		b.table.Widths[i], _ = strconv.Atoi(w)
	}
	for i, a := range d.Values("ALIGNS") {
		if i >= b.table.Cols {
			break
		}
		b.table.Aligns[i] = ParseAlign(a)
	}
	if name := d.Values("NAME"); len(name) > 0 {
		b.table.Name = name[0]
		b.refs.addTable(name[0], b.pager.Pos.Page)
	}
	b.pager.Blank()
}

// renderTable 输出表头、数据行与 TLINE 分隔线，然后清空表格状态。
func (b *Builder) renderTable() {
	t := &b.table
	hasHeader := false
	for _, h := range t.Headers {
		if h != "" {
			hasHeader = true
			break
		}
	}
	if hasHeader {
		b.pager.Line(b.tableRow(t.Headers))
		if t.hasRuleAfter(-1) {
			b.pager.Line(b.tableRule())
		}
	}
	for i, row := range t.Rows {
		b.pager.Line(b.tableRow(row))
		if t.hasRuleAfter(i) {
			b.pager.Line(b.tableRule())
		}
	}
	b.pager.Blank()
	b.table = TableState{}
}

func (b *Builder) tableRow(cells []string) string {
	var sb strings.Builder
	sb.WriteString(spaces(b.params.LeftMargin))
	for col := 0; col < b.table.Cols; col++ {
		cell := ""
		if col < len(cells) {
			cell = cells[col]
		}
		width := b.table.Widths[col]
		free := width - b.measure.Width(cell)
		switch {
		case b.table.Aligns[col] == AlignCenter && free > 0:
			sb.WriteString(spaces(free / 2))
			sb.WriteString(cell)
			sb.WriteString(spaces(free - free/2))
		case b.table.Aligns[col] == AlignRight && free > 0:
			sb.WriteString(spaces(free))
			sb.WriteString(cell)
		default:
			sb.WriteString(cell)
			sb.WriteString(spaces(free))
		}
		if col < b.table.Cols-1 {
			sb.WriteString(spaces(columnGap))
		}
	}
	return sb.String()
}

// tableRule 的宽度为各列宽之和加上列间距。
func (b *Builder) tableRule() string {
	total := 0
	for _, w := range b.table.Widths {
		total += w
	}
	if b.table.Cols > 1 {
		total += (b.table.Cols - 1) * columnGap
	}
	return spaces(b.params.LeftMargin) + repeat("-", total)
}

// contents 输出目录。每项标题按层级缩进，点线填充到固定的 4 列页码区。
func (b *Builder) contents() {
	b.referenceHeading(b.opts.TOCHeading, len(b.refs.Chapters))
	for _, c := range b.refs.Chapters {
		indent := 2 * (c.Level - 1)
		b.pager.Line(b.referenceLine(spaces(indent)+c.Title, indent+b.measure.Width(c.Title), c.Page))
	}
	b.pager.Blank()
}

// tableIndex 输出表格索引，格式与目录相同但不缩进。
func (b *Builder) tableIndex() {
	b.referenceHeading(b.opts.TOTHeading, len(b.refs.Tables))
	for _, t := range b.refs.Tables {
		b.pager.Line(b.referenceLine(t.Name, b.measure.Width(t.Name), t.Page))
	}
	b.pager.Blank()
}

func (b *Builder) referenceHeading(title string, entries int) {
	b.pager.Ensure(3 + entries + 2)
	b.pager.Emit("")
	b.pager.Emit(title)
	b.pager.Emit(repeat("=", b.measure.Width(title)))
	b.pager.Emit("")
}

func (b *Builder) referenceLine(label string, labelWidth, page int) string {
	dots := b.params.ContentWidth() - pageNumberField - labelWidth
	if dots < 1 {
		dots = 1
	}
	return spaces(b.params.LeftMargin) + label + repeat(".", dots) + fmt.Sprintf("%*d", pageNumberField, page)
}
