package layout

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ByLCY/typewriter/dsl"
	"github.com/ByLCY/typewriter/renderer"
	"github.com/ByLCY/typewriter/renderer/text"
)

// ErrIncludeDepth 表示 .INCLUDE 嵌套超过 Options.MaxIncludeDepth。
var ErrIncludeDepth = errors.New("include 嵌套层数超出限制")

const maxLineBytes = 1 << 20

// Session 是一次文档排版：同一输入处理两遍，第一遍输出丢弃，用来得到总页数
// 与每个标题、表格实际所在的页码；第二遍写入真实输出。
//
// 两遍之间除引用表与冻结的总页数外，所有状态都会重置，见 ResetForSecondPass。
type Session struct {
	initial DocumentParams
	opts    Options
	log     *slog.Logger

	refs       References
	totalPages int
	pass       int

	builder *Builder
	dirs    []string // 正在处理的文件所在目录，栈顶用于解析相对 INCLUDE 路径
	files   []string
}

// NewSession 以 params 为初始参数创建会话，当前为第一遍（输出丢弃）。
func NewSession(params DocumentParams, opts Options) *Session {
	opts = opts.withDefaults()
	s := &Session{
		initial:    params,
		opts:       opts,
		log:        opts.Logger,
		totalPages: 1,
		pass:       1,
	}
	s.builder = s.newBuilder(text.Discard)
	return s
}

func (s *Session) newBuilder(sink renderer.Sink) *Builder {
	b := newBuilder(s.initial, &s.refs, sink, s.opts)
	b.pager.TotalPages = s.totalPages
	b.include = s.include
	return b
}

// ResetForSecondPass 冻结第一遍的总页数，保留已收集的引用表，
// 并以初始参数重建其余全部状态，之后的输出写入 sink。
func (s *Session) ResetForSecondPass(sink renderer.Sink) {
	s.totalPages = s.builder.pager.Pos.Page
	s.pass++
	s.dirs = nil
	s.files = nil
	s.builder = s.newBuilder(sink)
}

// Run 对 name 执行完整的两遍排版，并把第二遍结果写入 w。
func (s *Session) Run(name string, w io.Writer) error {
	if err := s.Process(name); err != nil {
		return fmt.Errorf("第一遍排版失败: %w", err)
	}
	sink := text.NewWriterSink(w)
	s.ResetForSecondPass(sink)
	if err := s.Process(name); err != nil {
		return fmt.Errorf("第二遍排版失败: %w", err)
	}
	if err := sink.Flush(); err != nil {
		return fmt.Errorf("写入输出失败: %w", err)
	}
	return nil
}

// Process 以当前这一遍的状态处理 name。顶层文件无法打开时返回错误；
// 嵌套 INCLUDE 的失败只记录日志，不中断处理。
func (s *Session) Process(name string) error {
	if err := s.processFile(name); err != nil {
		return err
	}
	if err := s.builder.pager.Err(); err != nil {
		return fmt.Errorf("写入输出失败: %w", err)
	}
	p := s.builder.pager
	s.log.Info("排版完成",
		"pass", s.pass,
		"pages", p.Pos.Page,
		"chapters", len(s.refs.Chapters),
		"tables", len(s.refs.Tables),
	)
	return nil
}

// ProcessReader 处理已打开的输入，相对 INCLUDE 路径以 dir 为基准。
func (s *Session) ProcessReader(r io.Reader, dir string) error {
	s.dirs = append(s.dirs, dir)
	defer func() { s.dirs = s.dirs[:len(s.dirs)-1] }()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		s.builder.Apply(dsl.ParseLine(sc.Text(), s.builder.InCode()))
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("读取输入失败: %w", err)
	}
	return nil
}

func (s *Session) processFile(name string) error {
	resolved := s.resolve(name)
	f, err := s.open(resolved)
	if err != nil {
		return fmt.Errorf("无法打开文件 %s: %w", resolved, err)
	}
	defer f.Close()

	if len(s.dirs) > s.opts.MaxIncludeDepth {
		return fmt.Errorf("%s: %w (%d)", resolved, ErrIncludeDepth, s.opts.MaxIncludeDepth)
	}
	s.files = append(s.files, resolved)
	return s.ProcessReader(f, s.dir(resolved))
}

func (s *Session) include(name string) {
	if err := s.processFile(name); err != nil {
		s.log.Error("INCLUDE 处理失败", "file", name, "depth", len(s.dirs), "err", err)
	}
}

func (s *Session) open(name string) (io.ReadCloser, error) {
	if s.opts.FS != nil {
		return s.opts.FS.Open(strings.TrimPrefix(path.Clean(name), "/"))
	}
	return os.Open(name)
}

// resolve 把相对路径解析为相对于当前文件所在目录；顶层路径原样使用。
func (s *Session) resolve(name string) string {
	if len(s.dirs) == 0 {
		return name
	}
	base := s.dirs[len(s.dirs)-1]
	if s.opts.FS != nil {
		if path.IsAbs(name) || base == "" {
			return name
		}
		return path.Join(base, name)
	}
	if filepath.IsAbs(name) || base == "" {
		return name
	}
	return filepath.Join(base, name)
}

func (s *Session) dir(name string) string {
	if s.opts.FS != nil {
		return path.Dir(name)
	}
	return filepath.Dir(name)
}

// Builder 返回当前这一遍的指令处理器。
func (s *Session) Builder() *Builder { return s.builder }

// References 返回已收集的章节与表格引用。
func (s *Session) References() References { return s.refs }

// TotalPages 返回冻结的总页数；第二遍开始前为 1。
func (s *Session) TotalPages() int { return s.totalPages }

// Result 汇总会话的引用表与页数，用于调试输出。
func (s *Session) Result() *Result {
	return &Result{
		Pass:       s.pass,
		TotalPages: s.totalPages,
		Pages:      s.builder.pager.Pos.Page,
		Files:      append([]string(nil), s.files...),
		Params:     s.builder.Params(),
		References: s.refs,
	}
}
