// Package watcher はディレクトリ配下の新しい画像ファイルを監視します
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"ImageSweep/internal/infrastructure/logging"
)

// DefaultDebounce は同じファイルへの連続したイベントをまとめる待ち時間です
const DefaultDebounce = 500 * time.Millisecond

// Watcher は fsnotify でディレクトリツリーを監視し、対象ファイルの作成・更新を通知します
type Watcher struct {
	fs       *fsnotify.Watcher
	logger   logging.Logger
	eligible func(path string) bool
	debounce time.Duration
	pending  map[string]time.Time
}

// New は新しい Watcher を作成します。eligible は通知対象のファイルかどうかを判定します
func New(logger logging.Logger, eligible func(path string) bool) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{
		fs:       fsWatcher,
		logger:   logger,
		eligible: eligible,
		debounce: DefaultDebounce,
		pending:  make(map[string]time.Time),
	}, nil
}

// SetDebounce は待ち時間を変更します
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// AddTree は root とその配下のすべてのディレクトリを監視対象に追加します
func (w *Watcher) AddTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			w.logger.Log(logging.LevelWarn, fmt.Sprintf("監視対象の走査中にエラー発生: %s", path), err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("failed to watch folder %s: %w", path, err)
		}
		w.logger.Log(logging.LevelDebug, fmt.Sprintf("監視を開始: %s", path), nil)
		return nil
	})
}

// Run は ctx がキャンセルされるまでイベントを処理し、落ち着いた対象ファイルごとに handle を呼びます。
// handle は Run を呼んだゴルーチンで順番に実行されます
func (w *Watcher) Run(ctx context.Context, handle func(path string)) error {
	tick := w.debounce / 2
	if tick <= 0 {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Log(logging.LevelWarn, "監視中にエラー発生", err)

		case now := <-ticker.C:
			for _, path := range w.ready(now) {
				if ctx.Err() != nil {
					return nil
				}
				handle(path)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return
	}

	if event.Has(fsnotify.Create) {
		if isDir(event.Name) {
			if err := w.AddTree(event.Name); err != nil {
				w.logger.Log(logging.LevelWarn, fmt.Sprintf("新しいディレクトリを監視できません: %s", event.Name), err)
			}
			w.scheduleTree(event.Name)
			return
		}
	}

	if w.eligible(event.Name) {
		w.pending[event.Name] = time.Now()
	}
}

// scheduleTree は監視開始前に作られていたファイルを拾うため、新しいディレクトリ内の対象ファイルを登録します
func (w *Watcher) scheduleTree(dir string) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if w.eligible(path) && !strings.HasPrefix(d.Name(), ".") {
			w.pending[path] = time.Now()
		}
		return nil
	})
}

// ready は待ち時間を過ぎたファイルを取り出してパス順に返します
func (w *Watcher) ready(now time.Time) []string {
	var paths []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			paths = append(paths, path)
			delete(w.pending, path)
		}
	}
	sort.Strings(paths)
	return paths
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Close は監視を終了します
func (w *Watcher) Close() error {
	return w.fs.Close()
}
