package fsys

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher invokes a callback when a file or directory changes. Watching a
// single file is implemented by watching its parent directory and filtering
// events, so replacements via rename-over and editors that recreate the
// file are still seen.
type Watcher struct {
	fw       *fsnotify.Watcher
	target   string
	fileOnly bool
	onChange func(path string)

	closeOnce sync.Once
	done      chan struct{}
}

// Watch starts watching path and calls onChange with the affected path on
// every write or create. Close the watcher to release it.
func Watch(path string, onChange func(path string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	target := filepath.Clean(path)
	watchDir := target
	fileOnly := false
	if fi, err := os.Stat(target); err != nil || !fi.IsDir() {
		watchDir = filepath.Dir(target)
		fileOnly = true
	}

	if err := fw.Add(watchDir); err != nil {
		_ = fw.Close()
		return nil, err
	}

	w := &Watcher{
		fw:       fw,
		target:   target,
		fileOnly: fileOnly,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.done)

	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if w.fileOnly && filepath.Clean(ev.Name) != w.target {
				continue
			}
			w.onChange(ev.Name)

		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops the watcher and waits for the event loop to exit. No
// callbacks run after Close returns.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.fw.Close()
		<-w.done
	})
	return err
}
