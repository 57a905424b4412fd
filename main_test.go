package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/typewriter/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入 %s 失败: %v", path, err)
	}
}

func TestRunWritesTwoPassOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "doc.str")
	writeFile(t, in, `.TITLE "Manual"
.PAGEHEIGHT 12
.FOOTER "{PAGE} of {PAGES}"
.FOOTALIGN RIGHT
.DOCUMENT
.CHAP "Intro"
.P
Some text.
.INCLUDE "part.str"
.EDOC
`)
	writeFile(t, filepath.Join(dir, "part.str"), ".CHAP \"Usage\"\n.P\nMore text.\n")
	out := filepath.Join(dir, "doc.txt")
	cfg := config.Default()
	cfg.Debug.JSONPath = filepath.Join(dir, "debug", "refs.json")

	if err := run(in, out, cfg, slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("读取输出失败: %v", err)
	}
	got := string(data)
	for _, want := range []string{"Manual", "Intro", "Usage", "More text.", "1 of 2", "2 of 2"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
	debug, err := os.ReadFile(cfg.Debug.JSONPath)
	if err != nil {
		t.Fatalf("debug JSON not written: %v", err)
	}
	if !strings.Contains(string(debug), "part.str") {
		t.Fatalf("debug JSON must list included files:\n%s", debug)
	}
}

func TestRunMissingInput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	if err := run(filepath.Join(dir, "missing.str"), out, config.Default(), slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Fatalf("expected an error for a missing input")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("no output file should be created, stat err=%v", err)
	}
}

func TestRunUnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "doc.str")
	writeFile(t, in, ".DOCUMENT\n.EDOC\n")
	blocker := filepath.Join(dir, "file")
	writeFile(t, blocker, "")
	if err := run(in, filepath.Join(blocker, "out.txt"), config.Default(), slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Fatalf("expected an error when the output cannot be created")
	}
}

func TestRunOutputDirectoryMustExist(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "doc.str")
	writeFile(t, in, ".DOCUMENT\nhello\n.EDOC\n")
	out := filepath.Join(dir, "absent", "out.txt")
	if err := run(in, out, config.Default(), slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Fatalf("expected an error for an output path in a missing directory")
	}
	if _, err := os.Stat(filepath.Join(dir, "absent")); !os.IsNotExist(err) {
		t.Fatalf("output directory must not be created, stat err=%v", err)
	}
}

func TestDocumentParams(t *testing.T) {
	c := config.Default().Document
	c.Justify = "CENTER"
	c.Indent = 3
	p := documentParams(c)
	if p.PageWidth != 80 || p.Indent != 3 || p.Justify.String() != "center" {
		t.Fatalf("unexpected params: %+v", p)
	}
}
