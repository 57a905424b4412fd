package layout

import "github.com/mattn/go-runewidth"

// Measurer 计算字符串在等宽输出中占用的列数。
type Measurer interface {
	Width(s string) int
}

// ColumnWidth 把每个 UTF-8 字符计为一列，不区分全角/半角。
// 多余的续字节（非法输入）计 0 列并跳过，任何输入都不会失败。
type ColumnWidth struct{}

// Width implements Measurer.
func (ColumnWidth) Width(s string) int {
	width := 0
	for i := 0; i < len(s); {
		b := s[i]
		switch {
		case b < 0x80:
			i++
			width++
		case b < 0xC0:
			i++
		case b < 0xE0:
			i += 2
			width++
		case b < 0xF0:
			i += 3
			width++
		default:
			i += 4
			width++
		}
	}
	return width
}

// CellWidth 使用 go-runewidth 计算终端单元格宽度，东亚全角字符占两列。
type CellWidth struct{}

// Width implements Measurer.
func (CellWidth) Width(s string) int {
	return runewidth.StringWidth(s)
}

// MeasurerByName 按配置名选择 Measurer："cells" 为 CellWidth，其余为 ColumnWidth。
func MeasurerByName(name string) Measurer {
	if name == "cells" {
		return CellWidth{}
	}
	return ColumnWidth{}
}
