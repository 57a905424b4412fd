package layout

import "strings"

// WrapLines 按空白切分 text 并贪心装行：首行可用宽度为 firstWidth，其余为 width。
// 单个超宽单词独占一行并允许溢出。空文本返回 nil。
func WrapLines(text string, firstWidth, width int, m Measurer) [][]string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines [][]string
	avail := firstWidth
	var cur []string
	length := 0
	for _, w := range words {
		need := m.Width(w)
		if len(cur) > 0 {
			need++
		}
		if length+need > avail && len(cur) > 0 {
			lines = append(lines, cur)
			cur = nil
			length = 0
			avail = width
			need = m.Width(w)
		}
		cur = append(cur, w)
		length += need
	}
	return append(lines, cur)
}

// RenderLine 按对齐方式拼接一行单词。width 是装行时使用的可用宽度，而不是文本实际长度。
// FULL 仅在多于一个单词且不是末行时生效，否则按左对齐输出。
func RenderLine(words []string, width int, align Align, last bool, m Measurer) string {
	joined := strings.Join(words, " ")
	switch align {
	case AlignRight:
		return spaces(width-m.Width(joined)) + joined
	case AlignCenter:
		return spaces((width-m.Width(joined))/2) + joined
	case AlignFull:
		if len(words) < 2 || last {
			return joined
		}
		return justify(words, width, m)
	default:
		return joined
	}
}

// justify 把剩余空白均分到词间，前 slack%gaps 个间隙各多一个空格。
func justify(words []string, width int, m Measurer) string {
	total := 0
	for _, w := range words {
		total += m.Width(w)
	}
	gaps := len(words) - 1
	slack := width - total
	per, extra := slack/gaps, slack%gaps

	var b strings.Builder
	for i, w := range words {
		b.WriteString(w)
		if i == gaps {
			break
		}
		n := per
		if i < extra {
			n++
		}
		b.WriteString(spaces(n))
	}
	return b.String()
}

// spaces 返回 n 个空格，n<=0 时为空串。
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

func repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, n)
}

// expandTabs 将制表符展开到下一个 size 列的制表位。
func expandTabs(s string, size int) string {
	if size <= 0 || !strings.ContainsRune(s, '\t') {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := size - col%size
			b.WriteString(spaces(n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}
