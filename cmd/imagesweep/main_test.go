package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{R: 0xff, A: 0xff})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestRun_Sweep(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "a.png"))
	if err := os.WriteFile(filepath.Join(root, "broken.jpg"), nil, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	reportDir := t.TempDir()

	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"-root", root, "-report", reportDir}, &stdout, &stderr); err != nil {
		t.Fatalf("run() error = %v\nstderr: %s", err, stderr.String())
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("stdout = %q, want 2 lines", stdout.String())
	}
	if lines[0] != "Converted a.png" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Failed to convert broken.jpg: ") {
		t.Errorf("line 1 = %q", lines[1])
	}
	if _, err := os.Stat(filepath.Join(root, "a.webp")); err != nil {
		t.Errorf("a.webp が作成されていません: %v", err)
	}
	if !strings.Contains(stderr.String(), "1 converted, 0 skipped, 1 failed") {
		t.Errorf("集計ログがありません: %s", stderr.String())
	}

	entries, err := os.ReadDir(reportDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("レポートファイルが1つ作成されるべき: %v, %v", entries, err)
	}

	stdout.Reset()
	if err := run(context.Background(), []string{"-root", root}, &stdout, &stderr); err != nil {
		t.Fatalf("2回目の run() error = %v", err)
	}
	if !strings.Contains(stdout.String(), "Skipping a.png, WebP already exists") {
		t.Errorf("2回目は Skipping になるべき: %q", stdout.String())
	}
}

func TestRun_ConfigAndOverrides(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "a.png"))
	if err := os.WriteFile(filepath.Join(root, "b.jpg"), []byte("already a jpeg"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := "sweep:\n  root_dir: " + root + "\n  target_format: webp\n  quality: 60\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"-config", cfgPath, "-format", "jpeg"}, &stdout, &stderr); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "a.jpg")); err != nil {
		t.Errorf("-format の上書きが効いていません: %v", err)
	}
	if strings.TrimSpace(stdout.String()) != "Converted a.png" {
		t.Errorf("変換先と同じ拡張子のファイルは走査されないべき: %q", stdout.String())
	}
}

func TestRun_SingleFileForces(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "panel-1-texture-dark.png")
	writePNG(t, src)
	target := filepath.Join(dir, "panel-1-texture-dark.webp")
	if err := os.WriteFile(target, []byte("old"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"-file", src}, &stdout, &stderr); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if strings.TrimSpace(stdout.String()) != "Converted panel-1-texture-dark.png" {
		t.Errorf("stdout = %q", stdout.String())
	}
	data, _ := os.ReadFile(target)
	if string(data) == "old" {
		t.Error("単一ファイル変換は既存の変換先を置き換えるべき")
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "bad quality", args: []string{"-quality", "150"}},
		{name: "bad format", args: []string{"-format", "tiff"}},
		{name: "missing root", args: []string{"-root", filepath.Join(t.TempDir(), "missing")}},
		{name: "bad select", args: []string{"-select", "terminal"}},
		{name: "extra args", args: []string{"stray"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if err := run(context.Background(), tt.args, &stdout, &stderr); err == nil {
				t.Errorf("run(%v) はエラーになるべき", tt.args)
			}
		})
	}
}
