package layout

import (
	"io"
	"io/fs"
	"log/slog"
)

// DefaultIncludeDepth 是 .INCLUDE 默认允许的最大嵌套层数。
const DefaultIncludeDepth = 8

// Options 配置排版会话的依赖与可调项。
type Options struct {
	// MaxIncludeDepth 限制 .INCLUDE 嵌套层数（顶层文件计为第 0 层）。
	MaxIncludeDepth int
	// Measurer 计算显示列宽，默认 ColumnWidth。
	Measurer Measurer
	// TOCHeading / TOTHeading 是目录与表格索引的标题。
	TOCHeading string
	TOTHeading string
	// FS 非空时从该文件系统读取输入（路径使用 '/' 分隔），否则读取本地磁盘。
	FS     fs.FS
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxIncludeDepth <= 0 {
		o.MaxIncludeDepth = DefaultIncludeDepth
	}
	if o.Measurer == nil {
		o.Measurer = ColumnWidth{}
	}
	if o.TOCHeading == "" {
		o.TOCHeading = "TABLE OF CONTENTS"
	}
	if o.TOTHeading == "" {
		o.TOTHeading = "INDEX OF TABLES"
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}
