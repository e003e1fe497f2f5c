// Package picker は -select フラグのモード名からディレクトリ選択ダイアログを組み立てます。
// headless タグ付きでビルドすると fyne と GTK に依存せず、ダイアログは使えません
package picker

import (
	"errors"
	"fmt"

	"ImageSweep/internal/infrastructure/filesystem"
)

// ErrUnavailable はダイアログなしでビルドされたときに返されます
var ErrUnavailable = errors.New("directory dialogs are not available in this build")

// DirectoryPicker はディレクトリを1つ選ばせるインターフェースです
type DirectoryPicker interface {
	SelectDirectory(title string) (string, error)
}

// New は mode（fyne または native）に対応する DirectoryPicker を返します
func New(mode string, validator filesystem.DirectoryValidator) (DirectoryPicker, error) {
	switch mode {
	case "fyne", "native":
		return newDialog(mode, validator)
	default:
		return nil, fmt.Errorf("unknown -select mode %q (want fyne or native)", mode)
	}
}
