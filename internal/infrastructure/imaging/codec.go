// Package imaging は画像のデコード・エンコードとファイル入出力を提供します
package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/chai2010/webp"
	_ "golang.org/x/image/webp"

	"ImageSweep/internal/domain/model"
)

// DefaultQuality は品質指定の既定値です（0〜100）
const DefaultQuality = 85

// Format は出力フォーマットを表します
type Format struct {
	// Name は設定で使う名前です（webp, png, jpeg）
	Name string
	// DisplayName はコンソール出力用の表示名です
	DisplayName string
	// Ext は出力ファイルの拡張子（ドットなし）です
	Ext string

	encode func(w io.Writer, img image.Image, quality int) error
}

// Encode は img を quality で w に書き出します。品質を持たないフォーマットでは quality を無視します
func (f Format) Encode(w io.Writer, img image.Image, quality int) error {
	if quality < 0 || quality > 100 {
		return fmt.Errorf("quality %d out of range 0-100", quality)
	}
	return f.encode(w, img, quality)
}

var formats = map[string]Format{
	"webp": {
		Name:        "webp",
		DisplayName: "WebP",
		Ext:         "webp",
		encode: func(w io.Writer, img image.Image, quality int) error {
			return webp.Encode(w, img, &webp.Options{Quality: float32(quality)})
		},
	},
	"png": {
		Name:        "png",
		DisplayName: "PNG",
		Ext:         "png",
		encode: func(w io.Writer, img image.Image, _ int) error {
			return png.Encode(w, img)
		},
	},
	"jpeg": {
		Name:        "jpeg",
		DisplayName: "JPEG",
		Ext:         "jpg",
		encode: func(w io.Writer, img image.Image, quality int) error {
			if quality < 1 {
				quality = 1
			}
			return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
		},
	},
}

var aliases = map[string]string{
	"jpg": "jpeg",
}

// Lookup はフォーマット名（大文字小文字・先頭のドットは無視）から Format を返します
func Lookup(name string) (Format, error) {
	key := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	f, ok := formats[key]
	if !ok {
		return Format{}, fmt.Errorf("unsupported image format %q (supported: %s)", name, strings.Join(Names(), ", "))
	}
	return f, nil
}

// ForPath は拡張子から Format を推定します
func ForPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return Format{}, fmt.Errorf("cannot infer image format from %q: no extension", path)
	}
	return Lookup(ext)
}

// Names は対応しているフォーマット名を返します
func Names() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DecodeFile は画像ファイルを開いてデコードします。フォーマットは内容から判定します
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrFilesystem, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrDecode, err)
	}
	return img, nil
}

// EncodeFile は img を format でエンコードし path に書き込みます。
// 一時ファイルに書いてからリネームするため、失敗時に中途半端なファイルは残りません
func EncodeFile(path string, img image.Image, format Format, quality int) error {
	tmp, err := createTemp(path)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrFilesystem, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := format.Encode(tmp, img, quality); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %w", model.ErrEncode, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", model.ErrFilesystem, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: %w", model.ErrFilesystem, err)
	}
	return nil
}

// createTemp は path と同じディレクトリに一時ファイルを作成します。
// os.CreateTemp は 0600 固定のため、0666 で開いて umask を反映させます
func createTemp(path string) (*os.File, error) {
	dir, base := filepath.Split(path)
	for i := 0; i < 100; i++ {
		name := filepath.Join(dir, "."+base+"."+strconv.FormatUint(rand.Uint64(), 36)+".tmp")
		f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0666)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		return f, err
	}
	return nil, fmt.Errorf("create temp file for %s: too many collisions", path)
}
