// Package text provides line sinks for plain-text page output.
package text

import (
	"bufio"
	"io"
	"strings"

	"github.com/ByLCY/typewriter/renderer"
)

var (
	_ renderer.Sink = (*WriterSink)(nil)
	_ renderer.Sink = Discard
	_ renderer.Sink = (*Capture)(nil)
)

// WriterSink writes newline-terminated lines to an io.Writer through a buffer.
// The first write error is latched and returned by every later call.
type WriterSink struct {
	w   *bufio.Writer
	err error
}

// NewWriterSink wraps w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: bufio.NewWriter(w)}
}

// WriteLine implements renderer.Sink.
func (s *WriterSink) WriteLine(line string) error {
	if s.err != nil {
		return s.err
	}
	if _, err := s.w.WriteString(line); err != nil {
		s.err = err
		return err
	}
	if err := s.w.WriteByte('\n'); err != nil {
		s.err = err
		return err
	}
	return nil
}

// Flush pushes buffered lines to the underlying writer.
func (s *WriterSink) Flush() error {
	if s.err != nil {
		return s.err
	}
	if err := s.w.Flush(); err != nil {
		s.err = err
	}
	return s.err
}

type discard struct{}

func (discard) WriteLine(string) error { return nil }

// Discard drops every line. Used for the measuring pass.
var Discard renderer.Sink = discard{}

// Capture keeps rendered lines in memory.
type Capture struct {
	lines []string
}

// WriteLine implements renderer.Sink.
func (c *Capture) WriteLine(line string) error {
	c.lines = append(c.lines, line)
	return nil
}

// Lines returns the captured lines in order.
func (c *Capture) Lines() []string { return c.lines }

// String joins the captured lines exactly as a WriterSink would emit them.
func (c *Capture) String() string {
	if len(c.lines) == 0 {
		return ""
	}
	return strings.Join(c.lines, "\n") + "\n"
}

// Reset drops captured lines.
func (c *Capture) Reset() { c.lines = c.lines[:0] }
