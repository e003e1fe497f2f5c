package gui

import (
	"errors"
	"testing"
)

type mockValidator struct {
	err error
}

func (m mockValidator) ValidateDirectoryPath(string) error {
	return m.err
}

// ウィンドウを開く SelectDirectory 自体は自動テストできないため、選択後の検証のみを確認します
func TestDirectorySelector_accept(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{name: "バリデーション成功"},
		{name: "バリデーションエラー", err: errors.New("無効なディレクトリ"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selector := NewDirectorySelector(mockValidator{err: tt.err})
			path, err := selector.accept("/images")
			if (err != nil) != tt.wantErr {
				t.Fatalf("accept() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && path != "/images" {
				t.Errorf("accept() = %v, want /images", path)
			}
			if tt.wantErr && !errors.Is(err, tt.err) {
				t.Errorf("accept() error = %v, want wrapping %v", err, tt.err)
			}
		})
	}
}
