package layout

import (
	"github.com/ByLCY/typewriter/binding"
	"github.com/ByLCY/typewriter/renderer"
)

const (
	headerReserve = 2 // 页眉 + 空行
	footerReserve = 3 // 空行 + 页脚 + 分页空行
)

// Paginator 跟踪当前页/行，在输出前判断是否需要换页，并负责页眉、页脚与分页空行。
// 它不理解内容，只接收“即将输出 n 行”的请求。
// 写入错误被锁存，通过 Err 读取。
type Paginator struct {
	params  *DocumentParams
	sink    renderer.Sink
	measure Measurer

	Pos   Position
	Trail HeadingTrail
	// InChapters 在第一个 .CHAP 之后为 true，此后换页才输出页眉。
	InChapters bool
	// TotalPages 是第一遍结束时冻结的总页数，第一遍期间为 1。
	TotalPages int

	err error
}

// NewPaginator 创建位于第 1 页第 0 行的分页器。params 由调用方持有，指令修改后立即生效。
func NewPaginator(params *DocumentParams, sink renderer.Sink, m Measurer) *Paginator {
	if m == nil {
		m = ColumnWidth{}
	}
	return &Paginator{
		params:     params,
		sink:       sink,
		measure:    m,
		Pos:        Position{Page: 1},
		TotalPages: 1,
	}
}

// Err 返回第一次写入失败的错误。
func (p *Paginator) Err() error { return p.err }

// Available 返回去掉页眉/页脚预留后一页可容纳的正文行数。
func (p *Paginator) Available() int {
	n := p.params.PageHeight
	if p.params.Header != "" {
		n -= headerReserve
	}
	if p.params.Footer != "" {
		n -= footerReserve
	}
	return n
}

// Ensure 在输出 n 行之前调用，放不下时先换页。PageHeight<=0 时不分页。
func (p *Paginator) Ensure(n int) {
	if p.params.PageHeight <= 0 {
		return
	}
	if p.Pos.Line+n > p.Available() {
		p.Break()
	}
}

// Emit 直接输出一行并计数，不做换页检查；调用方需事先 Ensure。
func (p *Paginator) Emit(line string) {
	p.write(line)
	p.Pos.Line++
}

// Line 检查换页后输出一行。
func (p *Paginator) Line(line string) {
	p.Ensure(1)
	p.Emit(line)
}

// Blank 检查换页后输出一个空行。
func (p *Paginator) Blank() { p.Line("") }

// Break 结束当前页：补空行、输出页脚和分页空行，然后进入下一页并输出页眉。
func (p *Paginator) Break() {
	p.fillPage()
	p.write("")
	p.Pos.Page++
	p.Pos.Line = 0
	if p.params.Header != "" && p.InChapters {
		p.Header()
	}
}

// FinishPage 补齐最后一页并输出页脚，不追加分页空行（.EDOC）。
func (p *Paginator) FinishPage() {
	p.fillPage()
}

func (p *Paginator) fillPage() {
	if p.params.Footer != "" {
		for p.Pos.Line < p.params.PageHeight-footerReserve {
			p.Emit("")
		}
		p.Footer()
		return
	}
	for p.Pos.Line < p.params.PageHeight-1 {
		p.Emit("")
	}
}

// Header 输出页眉及其后的空行，绕过换页检查。
// 页眉本身已计入 headerReserve，只有其后的空行占用正文行数。
func (p *Paginator) Header() {
	if p.params.Header == "" {
		return
	}
	p.write(p.decorate(p.params.Header, p.params.HeadAlign))
	p.Emit("")
}

// Footer 输出空行与页脚，绕过换页检查。
func (p *Paginator) Footer() {
	if p.params.Footer == "" {
		return
	}
	p.write("")
	p.write(p.decorate(p.params.Footer, p.params.FootAlign))
}

// Vars 返回当前占位符取值。
func (p *Paginator) Vars() binding.Vars {
	return binding.Vars{
		Title:         p.params.Title,
		Chapter:       p.Trail.Chapter,
		Subchapter:    p.Trail.Subchapter,
		Subsubchapter: p.Trail.Subsubchapter,
		Page:          p.Pos.Page,
		Pages:         p.TotalPages,
	}
}

func (p *Paginator) decorate(template string, align Align) string {
	text := binding.Substitute(template, p.Vars())
	width := p.params.ContentWidth()
	pad := 0
	switch align {
	case AlignCenter:
		pad = (width - p.measure.Width(text)) / 2
	case AlignRight:
		pad = width - p.measure.Width(text)
	}
	return spaces(p.params.LeftMargin) + spaces(pad) + text
}

func (p *Paginator) write(line string) {
	if p.err != nil {
		return
	}
	if err := p.sink.WriteLine(line); err != nil {
		p.err = err
	}
}
