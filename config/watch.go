package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher 基于 fsnotify 监听配置文件变化，重载并通过回调下发。
// 冷却窗口避免编辑器连续写入造成的抖动。
type Watcher struct {
	Path     string
	Cooldown time.Duration
}

// Start 阻塞监听，直到上下文取消。重载失败只回调错误，不中断监听。
func (w Watcher) Start(ctx context.Context, onUpdate func(AppConfig), onError func(error)) error {
	if w.Cooldown <= 0 {
		w.Cooldown = 2 * time.Second
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// 监听目录而非文件本身，因为原子替换会换 inode。
	if err := watcher.Add(filepath.Dir(w.Path)); err != nil {
		return fmt.Errorf("watch %s: %w", w.Path, err)
	}

	var lastReload time.Time
	target := filepath.Clean(w.Path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if time.Since(lastReload) < w.Cooldown {
				continue
			}
			lastReload = time.Now()
			cfg, err := LoadWithEnvOverrides(w.Path)
			if err != nil {
				if onError != nil {
					onError(err)
				}
				continue
			}
			if onUpdate != nil {
				onUpdate(cfg)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}
