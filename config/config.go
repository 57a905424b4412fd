// Package config loads typewriter settings from an optional TOML file and
// TYPEWRITER_* environment variables. Environment values win over the file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full set of settings the CLI needs.
type Config struct {
	LogLevel string         `toml:"log_level"`
	Document DocumentConfig `toml:"document"`
	Engine   EngineConfig   `toml:"engine"`
	Debug    DebugConfig    `toml:"debug"`
}

// DocumentConfig holds the initial page parameters. Directives in the input
// can still override every one of them.
type DocumentConfig struct {
	PageWidth   int    `toml:"page_width"`
	PageHeight  int    `toml:"page_height"`
	LeftMargin  int    `toml:"left_margin"`
	RightMargin int    `toml:"right_margin"`
	Indent      int    `toml:"indent"`
	TabSize     int    `toml:"tab_size"`
	Justify     string `toml:"justify"`
	LineSpace   int    `toml:"line_space"`
}

type EngineConfig struct {
	IncludeDepth int    `toml:"include_depth"`
	Measure      string `toml:"measure"` // "columns" or "cells"
	TOCHeading   string `toml:"toc_heading"`
	TOTHeading   string `toml:"tot_heading"`
}

type DebugConfig struct {
	JSONPath string `toml:"json_path"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel: "info",
		Document: DocumentConfig{
			PageWidth:  80,
			PageHeight: 40,
			TabSize:    4,
			Justify:    "LEFT",
			LineSpace:  1,
		},
		Engine: EngineConfig{
			IncludeDepth: 8,
			Measure:      "columns",
			TOCHeading:   "TABLE OF CONTENTS",
			TOTHeading:   "INDEX OF TABLES",
		},
	}
}

// Load reads the file named by TYPEWRITER_CONFIG (if set) and applies
// environment overrides. On a file error the defaults plus env are returned
// together with the error.
func Load() (Config, error) {
	cfg := Default()

	var fileErr error
	if path := os.Getenv("TYPEWRITER_CONFIG"); path != "" {
		fileErr = cfg.mergeFile(path)
	}

	cfg.LogLevel = envOr("TYPEWRITER_LOG_LEVEL", cfg.LogLevel)
	cfg.Document.PageWidth = envInt("TYPEWRITER_PAGE_WIDTH", cfg.Document.PageWidth)
	cfg.Document.PageHeight = envInt("TYPEWRITER_PAGE_HEIGHT", cfg.Document.PageHeight)
	cfg.Engine.IncludeDepth = envInt("TYPEWRITER_INCLUDE_DEPTH", cfg.Engine.IncludeDepth)
	cfg.Engine.Measure = envOr("TYPEWRITER_MEASURE", cfg.Engine.Measure)
	cfg.Debug.JSONPath = envOr("TYPEWRITER_DEBUG_JSON", cfg.Debug.JSONPath)

	cfg.normalize()
	return cfg, fileErr
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		*c = Default()
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// normalize replaces values that cannot drive the engine with defaults.
func (c *Config) normalize() {
	def := Default()
	if c.Document.PageWidth <= 0 {
		c.Document.PageWidth = def.Document.PageWidth
	}
	if c.Document.PageHeight < 0 {
		c.Document.PageHeight = def.Document.PageHeight
	}
	if c.Document.TabSize <= 0 {
		c.Document.TabSize = def.Document.TabSize
	}
	if c.Document.LineSpace <= 0 {
		c.Document.LineSpace = def.Document.LineSpace
	}
	if c.Engine.IncludeDepth <= 0 {
		c.Engine.IncludeDepth = def.Engine.IncludeDepth
	}
	switch c.Engine.Measure {
	case "columns", "cells":
	default:
		c.Engine.Measure = def.Engine.Measure
	}
	c.Document.Justify = strings.ToUpper(c.Document.Justify)
}

// SlogLevel maps LogLevel to a slog.Level; unknown names mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
