// Package sweep はディレクトリ配下の画像を一括変換する処理を提供します
package sweep

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"ImageSweep/internal/domain/model"
	"ImageSweep/internal/infrastructure/filesystem"
	"ImageSweep/internal/infrastructure/imaging"
	"ImageSweep/internal/infrastructure/logging"
)

// Options は変換の設定です
type Options struct {
	// Format は変換先フォーマットです
	Format imaging.Format
	// Quality はエンコード品質（0〜100）です
	Quality int
}

// Sweeper は画像の一括変換を行います
type Sweeper struct {
	scanner filesystem.FileSystemScanner
	logger  logging.Logger
	opts    Options
}

// NewSweeper は新しい Sweeper を作成します
func NewSweeper(scanner filesystem.FileSystemScanner, logger logging.Logger, opts Options) *Sweeper {
	return &Sweeper{scanner: scanner, logger: logger, opts: opts}
}

// Run は rootDir 配下の対象ファイルを順に変換します。
// 1ファイルの失敗で処理は止まらず、結果は onResult（nil 可）と戻り値で返します。
// エラーを返すのはルートが無効な場合、走査に失敗した場合、ctx がキャンセルされた場合のみです
func (s *Sweeper) Run(ctx context.Context, rootDir string, onResult func(model.ConversionResult)) ([]model.ConversionResult, error) {
	if err := s.scanner.ValidateDirectoryPath(rootDir); err != nil {
		return nil, fmt.Errorf("invalid root directory: %w", err)
	}

	files, err := s.scanner.Scan(ctx, rootDir)
	if err != nil {
		return nil, err
	}
	s.logger.Log(logging.LevelDebug, fmt.Sprintf("%d 件の対象ファイルを検出: %s", len(files), rootDir), nil)

	results := make([]model.ConversionResult, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result := s.Convert(file, false)
		results = append(results, result)
		if onResult != nil {
			onResult(result)
		}
	}

	return results, nil
}

// Convert は1ファイルを変換します。force が false の場合、変換先が既に存在すれば Skipped を返します。
// 変換元ファイルは変更しません
func (s *Sweeper) Convert(file model.ImageFile, force bool) model.ConversionResult {
	result := model.ConversionResult{
		Source:     file,
		TargetPath: filesystem.TargetPath(file.Path, s.opts.Format.Ext),
	}

	if result.TargetPath == file.Path {
		return s.fail(result, fmt.Errorf("%w: target %s is the source file", model.ErrFilesystem, file.Path))
	}

	if !force {
		_, err := os.Stat(result.TargetPath)
		switch {
		case err == nil:
			result.Outcome = model.OutcomeSkipped
			return result
		case !errors.Is(err, fs.ErrNotExist):
			return s.fail(result, fmt.Errorf("%w: %w", model.ErrFilesystem, err))
		}
	}

	img, err := imaging.DecodeFile(file.Path)
	if err != nil {
		return s.fail(result, err)
	}

	if err := imaging.EncodeFile(result.TargetPath, img, s.opts.Format, s.opts.Quality); err != nil {
		return s.fail(result, err)
	}

	result.Outcome = model.OutcomeConverted
	return result
}

func (s *Sweeper) fail(result model.ConversionResult, err error) model.ConversionResult {
	result.Outcome = model.OutcomeFailed
	result.Err = err
	s.logger.Log(logging.LevelWarn, fmt.Sprintf("変換に失敗: %s", result.Source.Path), err)
	return result
}
