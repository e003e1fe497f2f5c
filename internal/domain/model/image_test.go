package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestConversionResult_FailureKind(t *testing.T) {
	tests := []struct {
		name   string
		result ConversionResult
		want   error
	}{
		{
			name:   "変換成功",
			result: ConversionResult{Outcome: OutcomeConverted},
			want:   nil,
		},
		{
			name:   "デコード失敗",
			result: ConversionResult{Outcome: OutcomeFailed, Err: fmt.Errorf("%w: image: unknown format", ErrDecode)},
			want:   ErrDecode,
		},
		{
			name:   "エンコード失敗",
			result: ConversionResult{Outcome: OutcomeFailed, Err: fmt.Errorf("%w: bad quality", ErrEncode)},
			want:   ErrEncode,
		},
		{
			name:   "ファイルシステムエラー",
			result: ConversionResult{Outcome: OutcomeFailed, Err: fmt.Errorf("%w: permission denied", ErrFilesystem)},
			want:   ErrFilesystem,
		},
		{
			name:   "分類不能なエラー",
			result: ConversionResult{Outcome: OutcomeFailed, Err: errors.New("something else")},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.FailureKind(); got != tt.want {
				t.Errorf("FailureKind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestImageFile_Name(t *testing.T) {
	f := ImageFile{Path: "/images/hero/panel-1.jpg", RelPath: "hero/panel-1.jpg", Ext: "jpg", Depth: 1}
	if got := f.Name(); got != "panel-1.jpg" {
		t.Errorf("Name() = %v, want %v", got, "panel-1.jpg")
	}
}

func TestOutcome_String(t *testing.T) {
	if OutcomeSkipped.String() != "skipped" {
		t.Errorf("String() = %v, want skipped", OutcomeSkipped.String())
	}
	if Outcome(42).String() != "outcome(42)" {
		t.Errorf("String() = %v, want outcome(42)", Outcome(42).String())
	}
}

func TestIconSpec_Validate(t *testing.T) {
	tests := []struct {
		name    string
		spec    IconSpec
		wantErr bool
	}{
		{name: "有効な指定", spec: IconSpec{Size: 192, OutputPath: "out.png"}},
		{name: "サイズ0", spec: IconSpec{Size: 0, OutputPath: "out.png"}, wantErr: true},
		{name: "負のサイズ", spec: IconSpec{Size: -1, OutputPath: "out.png"}, wantErr: true},
		{name: "空のパス", spec: IconSpec{Size: 192}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
