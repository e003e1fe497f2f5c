package logging

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestJSONLogger(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		message string
		err     error
	}{
		{
			name:    "エラーなしのログ",
			level:   LevelInfo,
			message: "テストメッセージ",
			err:     nil,
		},
		{
			name:    "エラーありのログ",
			level:   LevelError,
			message: "エラーメッセージ",
			err:     errors.New("テストエラー"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf strings.Builder
			logger := NewJSONLogger(&buf)

			logger.Log(tt.level, tt.message, tt.err)

			output := buf.String()
			var logEntry LogEntry
			if err := json.Unmarshal([]byte(strings.TrimSpace(output)), &logEntry); err != nil {
				t.Fatalf("JSONの解析に失敗: %v", err)
			}

			if logEntry.Message != tt.message {
				t.Errorf("メッセージが不正: got %v, want %v", logEntry.Message, tt.message)
			}
			if logEntry.Level != tt.level {
				t.Errorf("ログレベルが不正: got %v, want %v", logEntry.Level, tt.level)
			}
			if tt.err != nil {
				if logEntry.Error != tt.err.Error() {
					t.Errorf("エラーメッセージが不正: got %v, want %v", logEntry.Error, tt.err.Error())
				}
			} else if logEntry.Error != "" {
				t.Errorf("エラーメッセージが不正: got %v, want empty", logEntry.Error)
			}

			logTime, err := time.Parse(time.RFC3339, logEntry.Timestamp)
			if err != nil {
				t.Errorf("タイムスタンプの解析に失敗: %v", err)
			}
			if time.Since(logTime) > time.Minute {
				t.Errorf("タイムスタンプが不正: got %v, 現在との差が1分以上", logEntry.Timestamp)
			}
		})
	}
}

func TestJSONLogger_SetLevel(t *testing.T) {
	var buf strings.Builder
	logger := NewJSONLogger(&buf)

	logger.Log(LevelDebug, "既定では出力されない", nil)
	if buf.Len() != 0 {
		t.Fatalf("DEBUG は既定で抑制されるべき: %q", buf.String())
	}

	if err := logger.SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
	logger.Log(LevelDebug, "出力される", nil)
	if !strings.Contains(buf.String(), "出力される") {
		t.Errorf("DEBUG が出力されていません: %q", buf.String())
	}

	buf.Reset()
	if err := logger.SetLevel(LevelError); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
	logger.Log(LevelWarn, "抑制される", nil)
	if buf.Len() != 0 {
		t.Errorf("WARN は ERROR 設定で抑制されるべき: %q", buf.String())
	}

	if err := logger.SetLevel("verbose"); err == nil {
		t.Error("未知のレベルでエラーになるべき")
	}
}

func TestValidLevel(t *testing.T) {
	for _, level := range []string{"debug", "INFO", "Warn", "ERROR"} {
		if !ValidLevel(level) {
			t.Errorf("ValidLevel(%q) = false, want true", level)
		}
	}
	if ValidLevel("trace") {
		t.Error("ValidLevel(trace) = true, want false")
	}
}
