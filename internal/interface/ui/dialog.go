// Package ui はOSネイティブのダイアログによるディレクトリ選択を提供します
package ui

import (
	"fmt"

	"github.com/sqweek/dialog"

	"ImageSweep/internal/infrastructure/filesystem"
)

// DirectorySelector はネイティブダイアログでディレクトリ選択を行います
type DirectorySelector struct {
	// validator はディレクトリパスの検証を行うインターフェースです
	validator filesystem.DirectoryValidator
	// browse はダイアログを表示して選択されたパスを返します
	browse func(title string) (string, error)
}

// NewDirectorySelector は新しい DirectorySelector インスタンスを作成します
func NewDirectorySelector(validator filesystem.DirectoryValidator) *DirectorySelector {
	return &DirectorySelector{
		validator: validator,
		browse: func(title string) (string, error) {
			return dialog.Directory().Title(title).Browse()
		},
	}
}

// SelectDirectory はダイアログを表示してディレクトリを選択します
func (d *DirectorySelector) SelectDirectory(title string) (string, error) {
	selectedDir, err := d.browse(title)
	if err != nil {
		if err == dialog.ErrCancelled {
			return "", fmt.Errorf("folder selection cancelled")
		}
		return "", fmt.Errorf("folder dialog: %w", err)
	}

	if err := d.validator.ValidateDirectoryPath(selectedDir); err != nil {
		return "", fmt.Errorf("invalid directory selected: %w", err)
	}

	return selectedDir, nil
}
