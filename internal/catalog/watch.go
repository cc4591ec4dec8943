package catalog

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher coalesces filesystem churn under the workspace root into rescan
// signals on C. A burst of writes produces one signal after the debounce
// window closes.
type Watcher struct {
	C <-chan struct{}

	fsw *fsnotify.Watcher
}

// WatchRoot watches the root and its subtrees. Directories created later are
// picked up as they appear.
func WatchRoot(root string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := addTree(fsw, root); err != nil {
		fsw.Close()
		return nil, err
	}
	c := make(chan struct{}, 1)
	w := &Watcher{C: c, fsw: fsw}
	go w.loop(c, debounce)
	return w, nil
}

func addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return fsw.Add(path)
	})
}

func (w *Watcher) loop(c chan<- struct{}, debounce time.Duration) {
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addTree(w.fsw, event.Name)
				}
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				fire = timer.C
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
		case <-fire:
			timer = nil
			fire = nil
			select {
			case c <- struct{}{}:
			default:
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops the watcher; C stops receiving once in-flight signals drain.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
