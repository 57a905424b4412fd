package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ByLCY/typewriter/config"
	"github.com/ByLCY/typewriter/layout"
)

func main() {
	cfg, cfgErr := config.Load()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	if cfgErr != nil {
		log.Warn("配置文件无效，使用默认配置", "err", cfgErr)
	}

	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "用法: %s <输入文件> <输出文件>\n", filepath.Base(os.Args[0]))
		os.Exit(1)
	}
	if err := run(os.Args[1], os.Args[2], cfg, log); err != nil {
		log.Error("生成文本失败", "err", err)
		os.Exit(1)
	}
}

// run 串联两遍排版并写出结果。
func run(inputPath, outputPath string, cfg config.Config, log *slog.Logger) error {
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("无法打开输入文件 %s: %w", inputPath, err)
	}
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("无法打开输出文件 %s: %w", outputPath, err)
	}
	defer out.Close()

	sess := layout.NewSession(documentParams(cfg.Document), layout.Options{
		MaxIncludeDepth: cfg.Engine.IncludeDepth,
		Measurer:        layout.MeasurerByName(cfg.Engine.Measure),
		TOCHeading:      cfg.Engine.TOCHeading,
		TOTHeading:      cfg.Engine.TOTHeading,
		Logger:          log.With("input", inputPath),
	})
	if err := sess.Run(inputPath, out); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("关闭输出文件失败: %w", err)
	}

	if cfg.Debug.JSONPath != "" {
		if err := writeDebug(sess.Result(), cfg.Debug.JSONPath); err != nil {
			return err
		}
	}
	return nil
}

func documentParams(c config.DocumentConfig) layout.DocumentParams {
	p := layout.DefaultParams()
	p.PageWidth = c.PageWidth
	p.PageHeight = c.PageHeight
	p.LeftMargin = c.LeftMargin
	p.RightMargin = c.RightMargin
	p.Indent = c.Indent
	p.TabSize = c.TabSize
	p.Justify = layout.ParseAlign(c.Justify)
	p.LineSpace = c.LineSpace
	return p
}

// writeDebug 写出排版快照；调试文件所在目录不存在时一并创建。
func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	f, err := os.Create(debugPath)
	if err != nil {
		return fmt.Errorf("无法创建调试文件 %s: %w", debugPath, err)
	}
	if err := result.WriteJSON(f); err != nil {
		f.Close()
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return f.Close()
}
