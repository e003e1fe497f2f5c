// Package filesystem はファイルシステム操作を提供します
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"ImageSweep/internal/domain/model"
	"ImageSweep/internal/infrastructure/logging"
)

// DefaultExtensions は変換対象とする拡張子の既定値です
var DefaultExtensions = []string{"png", "jpg", "jpeg"}

// DirectoryValidator はディレクトリの検証機能を提供するインターフェースです
type DirectoryValidator interface {
	ValidateDirectoryPath(path string) error
}

// FileSystemScanner はファイルシステムのスキャン機能を提供するインターフェースです
type FileSystemScanner interface {
	DirectoryValidator
	Scan(ctx context.Context, rootDir string) ([]model.ImageFile, error)
}

// Scanner は変換対象の画像ファイルを探すための構造体です
type Scanner struct {
	logger     logging.Logger
	extensions map[string]bool
}

// NewScanner は新しい Scanner インスタンスを作成します。
// extensions が空の場合は DefaultExtensions を使用します
func NewScanner(logger logging.Logger, extensions ...string) *Scanner {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[NormalizeExt(ext)] = true
	}
	return &Scanner{
		logger:     logger,
		extensions: allowed,
	}
}

// NormalizeExt は拡張子を小文字・ドットなしの形に揃えます
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// ValidateDirectoryPath はパスが安全で有効なディレクトリであることを確認します
func (s *Scanner) ValidateDirectoryPath(path string) error {
	if path == "" {
		return fmt.Errorf("directory path is empty")
	}

	if strings.ContainsAny(path, "<>|?*") {
		return fmt.Errorf("directory path contains invalid characters: %s", path)
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("directory does not exist: %w", err)
	}

	if !fileInfo.IsDir() {
		return fmt.Errorf("not a directory: %s", path)
	}

	if !filepath.IsAbs(path) {
		return fmt.Errorf("directory path must be absolute: %s", path)
	}

	return nil
}

// Eligible は拡張子が変換対象かどうかを判定します
func (s *Scanner) Eligible(path string) bool {
	return s.extensions[NormalizeExt(filepath.Ext(path))]
}

// Scan はファイルシステムを走査し、変換対象の通常ファイルを収集します。
// 個々のエントリのエラーはログに記録して走査を続けます
func (s *Scanner) Scan(ctx context.Context, rootDir string) ([]model.ImageFile, error) {
	var files []model.ImageFile

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			s.logger.Log(logging.LevelWarn, fmt.Sprintf("パス '%s' の走査中にエラー発生", path), err)
			if d != nil && d.IsDir() && path != rootDir {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if !s.Eligible(path) {
			return nil
		}

		relPath, err := filepath.Rel(rootDir, path)
		if err != nil {
			s.logger.Log(logging.LevelWarn, fmt.Sprintf("相対パスの取得に失敗: %s", path), err)
			return nil
		}

		files = append(files, model.ImageFile{
			Path:    path,
			RelPath: relPath,
			Ext:     NormalizeExt(filepath.Ext(path)),
			Depth:   strings.Count(relPath, string(os.PathSeparator)),
		})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", rootDir, err)
	}

	return files, nil
}

// NewImageFile は任意のパスから ImageFile を作成します（単一ファイル変換用）
func NewImageFile(path string) model.ImageFile {
	return model.ImageFile{
		Path:    path,
		RelPath: filepath.Base(path),
		Ext:     NormalizeExt(filepath.Ext(path)),
	}
}

// TargetPath は src と同じディレクトリ・同じ語幹で拡張子だけを ext に置き換えたパスを返します。
// ".png" のように先頭ドットと拡張子だけの名前は全体を語幹とみなします（".png.webp"）
func TargetPath(src, ext string) string {
	stem := src
	if base := filepath.Base(src); strings.TrimLeft(base, ".") != strings.TrimLeft(filepath.Ext(base), ".") {
		stem = strings.TrimSuffix(src, filepath.Ext(src))
	}
	return stem + "." + NormalizeExt(ext)
}
