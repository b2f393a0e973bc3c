package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const watchDebounce = 200 * time.Millisecond

// runWatch runs the entry, then re-runs it whenever a .giu file under
// the entry's project changes. Events are debounced so editors that
// write in bursts trigger one run.
func runWatch(entry string, programArgs, searchPaths []string, logger *zap.Logger) int {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fail("watch: %v", err)
		return 1
	}
	defer watcher.Close()

	root := filepath.Dir(entry)
	if err := watchTree(watcher, root); err != nil {
		fail("watch: %v", err)
		return 1
	}

	runOnce := func() {
		fmt.Fprintln(os.Stdout, faintStyle.Render("── running "+entry+" ──"))
		executeEntry(entry, programArgs, searchPaths, logger)
	}
	runOnce()

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return 0
			}
			if !relevantEvent(event) {
				continue
			}
			logger.Debug("file changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watchTree(watcher, event.Name)
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return 0
			}
			fail("watch: %v", err)
		case <-pending:
			runOnce()
		}
	}
}

// watchTree registers dir and every subdirectory with the watcher.
func watchTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != dir {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func relevantEvent(event fsnotify.Event) bool {
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			return true
		}
	}
	if !strings.HasSuffix(event.Name, ".giu") {
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Rename) || event.Op.Has(fsnotify.Remove)
}
