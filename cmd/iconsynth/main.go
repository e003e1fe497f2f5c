// Package main はプレースホルダーアイコン生成ツールのエントリーポイントを提供します
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"ImageSweep/internal/config"
	"ImageSweep/internal/domain/model"
	"ImageSweep/internal/infrastructure/filesystem"
	"ImageSweep/internal/infrastructure/logging"
	"ImageSweep/internal/interface/picker"
	"ImageSweep/internal/usecase/icon"
)

type options struct {
	configPath string
	outDir     string
	output     string
	sizes      []int
	glyph      string
	fontPath   string
	logoPath   string
	selectMode string
	set        map[string]bool
}

func parseSizes(s string) ([]int, error) {
	var sizes []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid size %q: %w", part, err)
		}
		sizes = append(sizes, n)
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("no sizes given")
	}
	return sizes, nil
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{set: map[string]bool{}}
	fs := flag.NewFlagSet("iconsynth", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "YAML config file")
	fs.StringVar(&opts.outDir, "out", "", "output directory for pwa-<n>x<n>.png (overrides icons.output_dir)")
	fs.StringVar(&opts.output, "o", "", "write a single icon to this path (format from extension); requires one size")
	fs.Func("sizes", "comma separated edge lengths (overrides icons.sizes)", func(s string) error {
		sizes, err := parseSizes(s)
		opts.sizes = sizes
		return err
	})
	fs.StringVar(&opts.glyph, "glyph", "", "character to draw (overrides icons.glyph)")
	fs.StringVar(&opts.fontPath, "font", "", "preferred TrueType font (overrides icons.font_path)")
	fs.StringVar(&opts.logoPath, "logo", "", "draw this logo instead of the glyph (overrides icons.logo_path)")
	fs.StringVar(&opts.selectMode, "select", "", "pick the output directory with a dialog: fyne or native")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.set["out"] {
		cfg.Icons.OutputDir = opts.outDir
	}
	if opts.set["sizes"] {
		cfg.Icons.Sizes = opts.sizes
	}
	if opts.set["glyph"] {
		cfg.Icons.Glyph = opts.glyph
	}
	if opts.set["font"] {
		cfg.Icons.FontPath = opts.fontPath
	}
	if opts.set["logo"] {
		cfg.Icons.LogoPath = opts.logoPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}

func specs(opts *options, cfg *config.Config) ([]model.IconSpec, error) {
	if opts.output == "" {
		return icon.DefaultSpecs(cfg.Icons.OutputDir, cfg.Icons.Sizes), nil
	}
	if len(cfg.Icons.Sizes) != 1 {
		return nil, fmt.Errorf("-o needs exactly one size, got %v", cfg.Icons.Sizes)
	}
	return []model.IconSpec{{Size: cfg.Icons.Sizes[0], OutputPath: opts.output}}, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger := logging.NewJSONLogger(stderr)
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		return err
	}

	if opts.selectMode != "" {
		p, err := picker.New(opts.selectMode, filesystem.NewScanner(logger))
		if err != nil {
			return err
		}
		if cfg.Icons.OutputDir, err = p.SelectDirectory("Select the icon output directory"); err != nil {
			return err
		}
	}

	list, err := specs(opts, cfg)
	if err != nil {
		return err
	}

	synth := icon.NewSynthesizer(cfg.IconOptions(), logger, stdout)
	for _, spec := range list {
		if err := synth.Generate(spec); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("エラー: %v", err)
	}
}
