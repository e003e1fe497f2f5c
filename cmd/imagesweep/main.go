// Package main は画像の一括 WebP 変換ツールのエントリーポイントを提供します
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"ImageSweep/internal/config"
	"ImageSweep/internal/domain/model"
	"ImageSweep/internal/infrastructure/filesystem"
	"ImageSweep/internal/infrastructure/imaging"
	"ImageSweep/internal/infrastructure/logging"
	"ImageSweep/internal/infrastructure/watcher"
	"ImageSweep/internal/interface/picker"
	"ImageSweep/internal/usecase/report"
	"ImageSweep/internal/usecase/sweep"
)

type options struct {
	configPath string
	root       string
	quality    int
	format     string
	logLevel   string
	file       string
	reportDir  string
	selectMode string
	watch      bool
	set        map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{set: map[string]bool{}}
	fs := flag.NewFlagSet("imagesweep", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "YAML config file")
	fs.StringVar(&opts.root, "root", "", "directory to scan (overrides sweep.root_dir)")
	fs.IntVar(&opts.quality, "quality", imaging.DefaultQuality, "encode quality 0-100 (overrides sweep.quality)")
	fs.StringVar(&opts.format, "format", "", "target format: webp, png or jpeg (overrides sweep.target_format)")
	fs.StringVar(&opts.logLevel, "log-level", "", "DEBUG, INFO, WARN or ERROR (overrides log.level)")
	fs.StringVar(&opts.file, "file", "", "convert a single file, replacing an existing target")
	fs.StringVar(&opts.reportDir, "report", "", "write a sweep report into this directory")
	fs.StringVar(&opts.selectMode, "select", "", "pick the root directory with a dialog: fyne or native")
	fs.BoolVar(&opts.watch, "watch", false, "keep converting new files after the sweep")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

// loadConfig は設定ファイルを読み込み、明示されたフラグで上書きします
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.set["root"] {
		cfg.Sweep.RootDir = opts.root
	}
	if opts.set["quality"] {
		cfg.Sweep.Quality = opts.quality
	}
	if opts.set["format"] {
		cfg.Sweep.TargetFormat = opts.format
	}
	if opts.set["log-level"] {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}

func pickRoot(mode string, validator filesystem.DirectoryValidator) (string, error) {
	p, err := picker.New(mode, validator)
	if err != nil {
		return "", err
	}
	return p.SelectDirectory("Select the image directory to convert")
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logger := logging.NewJSONLogger(stderr)
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		return err
	}

	format, err := imaging.Lookup(cfg.Sweep.TargetFormat)
	if err != nil {
		return err
	}
	scanner := filesystem.NewScanner(logger, cfg.SourceExtensions()...)
	sweeper := sweep.NewSweeper(scanner, logger, sweep.Options{Format: format, Quality: cfg.Sweep.Quality})
	printer := report.NewPrinter(stdout, format.DisplayName)

	if opts.file != "" {
		printer.Print(sweeper.Convert(filesystem.NewImageFile(opts.file), true))
		return nil
	}

	root := cfg.Sweep.RootDir
	if opts.selectMode != "" {
		if root, err = pickRoot(opts.selectMode, scanner); err != nil {
			return err
		}
	}
	if root, err = filepath.Abs(root); err != nil {
		return fmt.Errorf("resolve root directory: %w", err)
	}
	logger.Log(logging.LevelInfo, fmt.Sprintf("変換を開始: %s (%s, quality %d)", root, format.Name, cfg.Sweep.Quality), nil)

	results, err := sweeper.Run(ctx, root, printer.Print)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Log(logging.LevelInfo, fmt.Sprintf("変換が完了しました: %s", report.Summarize(results)), nil)

	if opts.reportDir != "" {
		if err := writeReport(opts.reportDir, root, results, logger); err != nil {
			logger.Log(logging.LevelError, "レポートの作成に失敗", err)
		}
	}

	if opts.watch && ctx.Err() == nil {
		return watch(ctx, root, scanner, sweeper, printer, logger)
	}
	return nil
}

func writeReport(dir, root string, results []model.ConversionResult, logger logging.Logger) error {
	generator := report.NewGenerator()
	file, path, err := generator.CreateOutputFile(dir)
	if err != nil {
		return err
	}
	defer file.Close()
	generator.WriteResults(file, root, results)
	logger.Log(logging.LevelInfo, fmt.Sprintf("レポートを生成しました: %s", path), nil)
	return nil
}

func watch(ctx context.Context, root string, scanner *filesystem.Scanner, sweeper *sweep.Sweeper, printer *report.Printer, logger logging.Logger) error {
	w, err := watcher.New(logger, scanner.Eligible)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.AddTree(root); err != nil {
		return err
	}
	logger.Log(logging.LevelInfo, fmt.Sprintf("監視を開始しました: %s", root), nil)

	return w.Run(ctx, func(path string) {
		file := filesystem.NewImageFile(path)
		if rel, err := filepath.Rel(root, path); err == nil {
			file.RelPath = rel
		}
		printer.Print(sweeper.Convert(file, false))
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		stop()
		log.Fatalf("エラー: %v", err)
	}
}
