// Package config は YAML 設定ファイルの読み込みを提供します
package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"ImageSweep/internal/infrastructure/filesystem"
	"ImageSweep/internal/infrastructure/imaging"
	"ImageSweep/internal/infrastructure/logging"
	"ImageSweep/internal/usecase/icon"
)

// Config はアプリケーション全体の設定です
type Config struct {
	Sweep SweepConfig `yaml:"sweep"`
	Icons IconsConfig `yaml:"icons"`
	Log   LogConfig   `yaml:"log"`
}

// SweepConfig は一括変換の設定です
type SweepConfig struct {
	RootDir      string   `yaml:"root_dir"`
	Quality      int      `yaml:"quality"`
	TargetFormat string   `yaml:"target_format"`
	Extensions   []string `yaml:"extensions"`
}

// IconsConfig はアイコン生成の設定です
type IconsConfig struct {
	OutputDir  string  `yaml:"output_dir"`
	Sizes      []int   `yaml:"sizes"`
	Glyph      string  `yaml:"glyph"`
	FontPath   string  `yaml:"font_path"`
	FontScale  float64 `yaml:"font_scale"`
	Background string  `yaml:"background"`
	Foreground string  `yaml:"foreground"`
	LogoPath   string  `yaml:"logo_path"`
	Quality    int     `yaml:"quality"`
}

// LogConfig はログ出力の設定です
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default は設定ファイルがない場合の既定値を返します
func Default() *Config {
	return &Config{
		Sweep: SweepConfig{
			RootDir:      ".",
			Quality:      imaging.DefaultQuality,
			TargetFormat: "webp",
			Extensions:   append([]string(nil), filesystem.DefaultExtensions...),
		},
		Icons: IconsConfig{
			OutputDir:  ".",
			Sizes:      append([]int(nil), icon.DefaultSizes...),
			Glyph:      icon.DefaultGlyph,
			FontPath:   icon.DefaultFontPath,
			FontScale:  icon.DefaultFontScale,
			Background: "#ffffff",
			Foreground: "#000000",
			Quality:    icon.DefaultQuality,
		},
		Log: LogConfig{Level: logging.LevelInfo},
	}
}

// Load は設定ファイルを読み込み、既定値に上書きして検証します。
// path が空の場合は既定値をそのまま返します
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate は設定値の整合性を確認します
func (c *Config) Validate() error {
	if c.Sweep.RootDir == "" {
		return fmt.Errorf("sweep.root_dir is required")
	}
	if err := validateQuality("sweep.quality", c.Sweep.Quality); err != nil {
		return err
	}
	target, err := imaging.Lookup(c.Sweep.TargetFormat)
	if err != nil {
		return fmt.Errorf("sweep.target_format: %w", err)
	}
	for _, ext := range c.Sweep.Extensions {
		if filesystem.NormalizeExt(ext) == "" {
			return fmt.Errorf("sweep.extensions: empty extension")
		}
	}
	if len(sourceExtensions(c.Sweep.Extensions, target.Ext)) == 0 {
		return fmt.Errorf("sweep.extensions has nothing to convert to %q", target.Ext)
	}

	if c.Icons.OutputDir == "" {
		return fmt.Errorf("icons.output_dir is required")
	}
	for _, size := range c.Icons.Sizes {
		if size <= 0 {
			return fmt.Errorf("icons.sizes: size must be positive, got %d", size)
		}
	}
	if c.Icons.FontScale <= 0 || c.Icons.FontScale > 1 {
		return fmt.Errorf("icons.font_scale must be in (0, 1], got %v", c.Icons.FontScale)
	}
	if _, err := ParseHexColor(c.Icons.Background); err != nil {
		return fmt.Errorf("icons.background: %w", err)
	}
	if _, err := ParseHexColor(c.Icons.Foreground); err != nil {
		return fmt.Errorf("icons.foreground: %w", err)
	}
	if err := validateQuality("icons.quality", c.Icons.Quality); err != nil {
		return err
	}

	if !logging.ValidLevel(c.Log.Level) {
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	return nil
}

// IconOptions はアイコン設定を描画オプションに変換します。Validate 済みであることが前提です
func (c *Config) IconOptions() icon.Options {
	bg, _ := ParseHexColor(c.Icons.Background)
	fg, _ := ParseHexColor(c.Icons.Foreground)
	return icon.Options{
		Glyph:      c.Icons.Glyph,
		FontPath:   c.Icons.FontPath,
		FontScale:  c.Icons.FontScale,
		Background: bg,
		Foreground: fg,
		LogoPath:   c.Icons.LogoPath,
		Quality:    c.Icons.Quality,
	}
}

// SourceExtensions は変換元として走査する拡張子を返します。
// 変換先と同じ拡張子は除外します（例: target_format が jpeg なら jpg を走査しない）
func (c *Config) SourceExtensions() []string {
	target, err := imaging.Lookup(c.Sweep.TargetFormat)
	if err != nil {
		return c.Sweep.Extensions
	}
	return sourceExtensions(c.Sweep.Extensions, target.Ext)
}

func sourceExtensions(exts []string, targetExt string) []string {
	var out []string
	for _, ext := range exts {
		if filesystem.NormalizeExt(ext) != targetExt {
			out = append(out, ext)
		}
	}
	return out
}

func validateQuality(field string, q int) error {
	if q < 0 || q > 100 {
		return fmt.Errorf("%s must be between 0 and 100, got %d", field, q)
	}
	return nil
}

// ParseHexColor は "#rgb" または "#rrggbb" 形式の色を解析します
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: want #rgb or #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
