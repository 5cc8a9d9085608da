package services

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/chmouel/lazycommit/internal/utils"
)

// WatchDebounce is the minimum spacing between watcher-triggered refreshes.
const WatchDebounce = 600 * time.Millisecond

// gitDirName is the repository metadata directory. Only its top level is watched.
const gitDirName = ".git"

// gitDirTriggers are the metadata files whose changes alter the status output.
var gitDirTriggers = map[string]bool{
	"index": true,
	"HEAD":  true,
}

// WorktreeWatchService signals when files under a working tree change.
type WorktreeWatchService struct {
	Started     bool
	Waiting     bool
	Root        string
	Events      chan struct{}
	Done        chan struct{}
	Paths       map[string]struct{}
	Mu          sync.Mutex
	Watcher     *fsnotify.Watcher
	LastRefresh time.Time
	logf        func(string, ...any)
}

// NewWorktreeWatchService creates a watcher for the working tree at root.
func NewWorktreeWatchService(root string, logf func(string, ...any)) *WorktreeWatchService {
	return &WorktreeWatchService{
		Root: filepath.Clean(filepath.FromSlash(root)),
		logf: logf,
	}
}

// Start registers every directory of the working tree and starts the event loop.
func (w *WorktreeWatchService) Start() (bool, error) {
	if w.Started {
		return false, nil
	}
	if info, err := os.Stat(w.Root); err != nil || !info.IsDir() {
		w.debugf("watch: %s is not a directory", w.Root)
		return false, nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return false, err
	}

	w.Started = true
	w.Watcher = watcher
	w.Events = make(chan struct{}, 1)
	w.Done = make(chan struct{})
	w.Paths = make(map[string]struct{})
	w.addWatchTree(w.Root)
	w.addWatchDir(filepath.Join(w.Root, gitDirName))

	go w.run()
	return true, nil
}

// Stop stops the watcher and closes channels.
func (w *WorktreeWatchService) Stop() {
	if !w.Started {
		return
	}
	close(w.Done)
	w.Started = false
	if w.Watcher != nil {
		_ = w.Watcher.Close()
	}
}

// NextEvent returns the event channel if waiting is not already active.
func (w *WorktreeWatchService) NextEvent() <-chan struct{} {
	if w.Events == nil || w.Waiting {
		return nil
	}
	w.Waiting = true
	return w.Events
}

// ResetWaiting clears the waiting flag after an event is processed.
func (w *WorktreeWatchService) ResetWaiting() {
	w.Waiting = false
}

// ShouldRefresh checks debounce timing for watcher events.
func (w *WorktreeWatchService) ShouldRefresh(now time.Time) bool {
	if !w.LastRefresh.IsZero() && now.Sub(w.LastRefresh) < WatchDebounce {
		return false
	}
	w.LastRefresh = now
	return true
}

// Signal notifies listeners of watcher activity, coalescing bursts.
func (w *WorktreeWatchService) Signal() {
	select {
	case <-w.Done:
		return
	default:
	}
	select {
	case w.Events <- struct{}{}:
	default:
	}
}

// Relevant reports whether a change to path can alter the status output.
func (w *WorktreeWatchService) Relevant(path string) bool {
	if !utils.IsPathWithin(w.Root, path) {
		return false
	}
	rel, err := filepath.Rel(filepath.Clean(w.Root), filepath.Clean(path))
	if err != nil || rel == "." {
		return false
	}
	parts := strings.Split(rel, string(filepath.Separator))
	if parts[0] != gitDirName {
		return true
	}
	return len(parts) == 2 && gitDirTriggers[parts[1]]
}

func (w *WorktreeWatchService) run() {
	for {
		select {
		case <-w.Done:
			return
		case event, ok := <-w.Watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !w.Relevant(event.Name) {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				w.maybeWatchNewDir(event.Name)
			}
			w.Signal()
		case err, ok := <-w.Watcher.Errors:
			if !ok {
				return
			}
			w.debugf("watch error: %v", err)
		}
	}
}

func (w *WorktreeWatchService) maybeWatchNewDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	w.addWatchTree(path)
}

func (w *WorktreeWatchService) addWatchDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	w.Mu.Lock()
	defer w.Mu.Unlock()

	if _, ok := w.Paths[path]; ok {
		return
	}
	if err := w.Watcher.Add(path); err != nil {
		w.debugf("watch add failed for %s: %v", path, err)
		return
	}
	w.Paths[path] = struct{}{}
}

func (w *WorktreeWatchService) addWatchTree(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if d.Name() == gitDirName {
			return filepath.SkipDir
		}
		w.addWatchDir(path)
		return nil
	})
}

func (w *WorktreeWatchService) debugf(format string, args ...any) {
	if w.logf == nil {
		return
	}
	w.logf(format, args...)
}
