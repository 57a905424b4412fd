package layout

import (
	"encoding/json"
	"io"
)

// Result 是会话的调试快照，用于核对目录页码与 INCLUDE 展开顺序。
// Files 按打开顺序列出当前这一遍读入的文件，包括嵌套 INCLUDE。
type Result struct {
	Pass       int            `json:"pass"`
	TotalPages int            `json:"totalPages"`
	Pages      int            `json:"pages"`
	Files      []string       `json:"files"`
	Params     DocumentParams `json:"params"`
	References References     `json:"references"`
}

// WriteJSON 以缩进格式写出快照。
func (r *Result) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
