// package model はドメインモデルを定義します
package model

import (
	"errors"
	"fmt"
	"path/filepath"
)

// 変換失敗の分類です。ConversionResult.Err はいずれかをラップします
var (
	ErrDecode     = errors.New("decode error")
	ErrEncode     = errors.New("encode error")
	ErrFilesystem = errors.New("filesystem error")
)

// ImageFile は変換対象となる画像ファイルを表します
type ImageFile struct {
	// Path は画像ファイルのパスを表します
	Path string
	// RelPath はルートディレクトリからの相対パスを表します
	RelPath string
	// Ext は小文字化した拡張子（ドットなし）を表します
	Ext string
	// Depth はルートディレクトリからの深さを表します
	Depth int
}

// Name はファイル名（ディレクトリを除く）を返します
func (f ImageFile) Name() string {
	return filepath.Base(f.Path)
}

// Outcome はファイル単位の変換結果の種類です
type Outcome int

const (
	OutcomeConverted Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConverted:
		return "converted"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ConversionResult は1ファイル分の変換結果を表します
type ConversionResult struct {
	// Source は変換元ファイルです
	Source ImageFile
	// TargetPath は変換先のパスです
	TargetPath string
	// Outcome は結果の種類です
	Outcome Outcome
	// Err は OutcomeFailed の場合のみ設定されます
	Err error
}

// FailureKind は失敗の分類（ErrDecode, ErrEncode, ErrFilesystem）を返します。
// 失敗していない場合や分類できない場合は nil を返します
func (r ConversionResult) FailureKind() error {
	if r.Err == nil {
		return nil
	}
	for _, kind := range []error{ErrDecode, ErrEncode, ErrFilesystem} {
		if errors.Is(r.Err, kind) {
			return kind
		}
	}
	return nil
}

// IconSpec は生成するアイコン1つ分の指定です
type IconSpec struct {
	// Size は一辺のピクセル数です
	Size int
	// OutputPath は出力先のパスです
	OutputPath string
}

// Validate はアイコン指定が有効かを確認します
func (s IconSpec) Validate() error {
	if s.Size <= 0 {
		return fmt.Errorf("icon size must be positive, got %d", s.Size)
	}
	if s.OutputPath == "" {
		return fmt.Errorf("icon output path is empty")
	}
	return nil
}
