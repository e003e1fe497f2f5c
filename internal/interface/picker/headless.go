//go:build headless

package picker

import (
	"fmt"

	"ImageSweep/internal/infrastructure/filesystem"
)

func newDialog(mode string, _ filesystem.DirectoryValidator) (DirectoryPicker, error) {
	return nil, fmt.Errorf("-select %s: %w", mode, ErrUnavailable)
}
