package layout

// 该文件定义排版引擎的参数、引用表与渲染位置，供指令处理、分页与调试 JSON 共用。

// Align 表示文本或单元格的水平对齐方式。
type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
	AlignFull
)

// ParseAlign 将 LEFT/RIGHT/CENTER/FULL（以及表格中的 L/R/C）转换为 Align，未知值退回左对齐。
func ParseAlign(v string) Align {
	switch v {
	case "RIGHT", "R":
		return AlignRight
	case "CENTER", "C":
		return AlignCenter
	case "FULL":
		return AlignFull
	default:
		return AlignLeft
	}
}

func (a Align) String() string {
	switch a {
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	case AlignFull:
		return "full"
	default:
		return "left"
	}
}

// DocumentParams 描述页面几何与文档级设置。
// 指令可以随时覆盖任意字段，不校验取值是否合理（例如宽度小于边距）。
type DocumentParams struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Date        string `json:"date"`
	PageWidth   int    `json:"pageWidth"`
	PageHeight  int    `json:"pageHeight"`
	LeftMargin  int    `json:"leftMargin"`
	RightMargin int    `json:"rightMargin"`
	Indent      int    `json:"indent"`
	TabSize     int    `json:"tabSize"`
	Justify     Align  `json:"justify"`
	LineSpace   int    `json:"lineSpace"`
	Header      string `json:"header"`
	HeadAlign   Align  `json:"headAlign"`
	Footer      string `json:"footer"`
	FootAlign   Align  `json:"footAlign"`
}

// DefaultParams 返回 80x40 的默认页面。
func DefaultParams() DocumentParams {
	return DocumentParams{
		PageWidth:  80,
		PageHeight: 40,
		TabSize:    4,
		Justify:    AlignLeft,
		LineSpace:  1,
	}
}

// ContentWidth 是去掉左右边距后的可用列数。
func (p DocumentParams) ContentWidth() int {
	return p.PageWidth - p.LeftMargin - p.RightMargin
}

// ChapterEntry 记录一个标题及其输出时所在页。Level: 1=章, 2=节, 3=小节。
type ChapterEntry struct {
	Title string `json:"title"`
	Level int    `json:"level"`
	Page  int    `json:"page"`
}

// TableRef 记录一个具名表格及其输出时所在页。
type TableRef struct {
	Name string `json:"name"`
	Page int    `json:"page"`
}

// References 是只追加的章节与表格引用表，跨两遍排版保留。
type References struct {
	Chapters []ChapterEntry `json:"chapters"`
	Tables   []TableRef     `json:"tables"`
}

func (r *References) addChapter(title string, level, page int) {
	r.Chapters = append(r.Chapters, ChapterEntry{Title: title, Level: level, Page: page})
}

func (r *References) addTable(name string, page int) {
	r.Tables = append(r.Tables, TableRef{Name: name, Page: page})
}

// Position 是当前渲染位置，每一遍开始前整体重置。
type Position struct {
	Page           int
	Line           int
	FirstLine      bool // 下一行是否为段落首行（需要预留 Indent）
	ParagraphAlign Align
}

// HeadingTrail 保存当前章/节/小节名称，供页眉页脚中的占位符使用。
type HeadingTrail struct {
	Chapter       string
	Subchapter    string
	Subsubchapter string
}

// ListKind 表示列表类型。
type ListKind int

const (
	ListNone ListKind = iota
	ListBullet
	ListNumber
	ListRoman
)

// ListState 记录当前列表的类型、符号、缩进与已输出条目数。
type ListState struct {
	Kind   ListKind
	Bullet rune
	Indent int
	Count  int
}

// TableState 缓存 .TABLE 与 .ETABLE 之间的表格定义和行数据。
type TableState struct {
	Cols    int
	Widths  []int
	Aligns  []Align
	Name    string
	Headers []string
	Rows    [][]string
	// Rules 记录“第 K 行之后画分隔线”，-1 表示表头之后。
	Rules []int
}

func (t *TableState) hasRuleAfter(row int) bool {
	for _, r := range t.Rules {
		if r == row {
			return true
		}
	}
	return false
}

// cells 将一行单元格规整为 Cols 列，多余的丢弃，缺少的补空串。
func (t *TableState) cells(values []string) []string {
	if t.Cols <= 0 {
		return nil
	}
	out := make([]string, t.Cols)
	copy(out, values)
	return out
}
