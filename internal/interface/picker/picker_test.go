package picker

import (
	"strings"
	"testing"
)

type mockValidator struct{}

func (mockValidator) ValidateDirectoryPath(string) error { return nil }

func TestNew_UnknownMode(t *testing.T) {
	for _, mode := range []string{"", "terminal", "FYNE"} {
		t.Run(mode, func(t *testing.T) {
			p, err := New(mode, mockValidator{})
			if err == nil || !strings.Contains(err.Error(), "unknown -select mode") {
				t.Errorf("New(%q) error = %v, want unknown mode", mode, err)
			}
			if p != nil {
				t.Errorf("New(%q) = %v, want nil", mode, p)
			}
		})
	}
}
