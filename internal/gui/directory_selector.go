// Package gui はGUIを提供します
package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
)

// Default window size constants
const (
	DefaultWindowWidth  = 800
	DefaultWindowHeight = 600
)

// DirectoryValidator は、ディレクトリパスの検証を行うインターフェース
type DirectoryValidator interface {
	ValidateDirectoryPath(path string) error
}

// DirectorySelector は、Fyneを使用してディレクトリ選択を行う構造体
type DirectorySelector struct {
	validator DirectoryValidator
}

// NewDirectorySelector は、DirectorySelectorの新しいインスタンスを作成します
func NewDirectorySelector(validator DirectoryValidator) *DirectorySelector {
	return &DirectorySelector{
		validator: validator,
	}
}

// SelectDirectory は、Fyneダイアログを使用してディレクトリを選択し、
// 選択されたパスまたはエラーを返します
func (s *DirectorySelector) SelectDirectory(title string) (string, error) {
	var result struct {
		path string
		err  error
	}

	a := app.New()
	w := a.NewWindow(title)
	w.Resize(fyne.NewSize(DefaultWindowWidth, DefaultWindowHeight))

	d := dialog.NewFolderOpen(func(selectedURI fyne.ListableURI, err error) {
		// コールバック: ユーザーがディレクトリを選択した結果を受け取る
		defer a.Quit()
		if err != nil {
			result.err = fmt.Errorf("folder dialog: %w", err)
			return
		}
		if selectedURI == nil {
			result.err = fmt.Errorf("folder selection cancelled")
			return
		}
		result.path, result.err = s.accept(selectedURI.Path())
	}, w)
	d.Resize(fyne.NewSize(DefaultWindowWidth, DefaultWindowHeight))
	d.Show()
	w.ShowAndRun()

	if result.path == "" && result.err == nil {
		// ダイアログを閉じずにウィンドウが閉じられた場合
		return "", fmt.Errorf("folder selection cancelled")
	}
	return result.path, result.err
}

// accept は選択されたパスを検証します
func (s *DirectorySelector) accept(path string) (string, error) {
	if err := s.validator.ValidateDirectoryPath(path); err != nil {
		return "", fmt.Errorf("invalid directory selected: %w", err)
	}
	return path, nil
}
