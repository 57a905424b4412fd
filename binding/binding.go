package binding

import (
	"strconv"
	"strings"
)

// Vars 保存页眉/页脚模板可引用的实时值。
type Vars struct {
	Title         string
	Chapter       string
	Subchapter    string
	Subsubchapter string
	Page          int
	Pages         int
}

// 占位符按固定顺序依次替换。
var tokens = []string{"{TITLE}", "{CHAPTITLE}", "{SUBCHAP}", "{SUBSUBCHAP}", "{PAGE}", "{PAGES}"}

// Substitute 将模板中的 {TITLE} 等占位符替换为 vars 中的值。
// 每种占位符只替换第一次出现的位置，其余保持原样。
func Substitute(template string, vars Vars) string {
	if !strings.Contains(template, "{") {
		return template
	}
	out := template
	for _, tok := range tokens {
		out = strings.Replace(out, tok, vars.value(tok), 1)
	}
	return out
}

func (v Vars) value(token string) string {
	switch token {
	case "{TITLE}":
		return v.Title
	case "{CHAPTITLE}":
		return v.Chapter
	case "{SUBCHAP}":
		return v.Subchapter
	case "{SUBSUBCHAP}":
		return v.Subsubchapter
	case "{PAGE}":
		return strconv.Itoa(v.Page)
	case "{PAGES}":
		return strconv.Itoa(v.Pages)
	default:
		return token
	}
}
