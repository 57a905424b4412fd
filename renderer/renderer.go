package renderer

// Sink 接收排版后的文本行，每次调用写入一整行（不含换行符）。
// 两遍排版中，第一遍使用丢弃型 Sink，第二遍写入真实输出。
type Sink interface {
	WriteLine(line string) error
}
