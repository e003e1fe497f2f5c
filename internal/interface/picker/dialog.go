//go:build !headless

package picker

import (
	"ImageSweep/internal/gui"
	"ImageSweep/internal/infrastructure/filesystem"
	"ImageSweep/internal/interface/ui"
)

func newDialog(mode string, validator filesystem.DirectoryValidator) (DirectoryPicker, error) {
	if mode == "fyne" {
		return gui.NewDirectorySelector(validator), nil
	}
	return ui.NewDirectorySelector(validator), nil
}
