package prefabs

import (
	"log"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ScriptWatcher collects the names of .tengo scripts edited under the
// watched directories. The game polls Changed once a frame, so repeated
// writes to one script between polls collapse into one reload.
type ScriptWatcher struct {
	fs *fsnotify.Watcher

	mu      sync.Mutex
	changed map[string]struct{}

	done chan struct{}
	once sync.Once
}

func WatchScripts(dirs ...string) (*ScriptWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	w := &ScriptWatcher{
		fs:      fw,
		changed: map[string]struct{}{},
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Changed returns the file names of scripts edited since the last call,
// sorted, and forgets them.
func (w *ScriptWatcher) Changed() []string {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.changed) == 0 {
		return nil
	}
	out := make([]string, 0, len(w.changed))
	for name := range w.changed {
		out = append(out, name)
	}
	clear(w.changed)
	slices.Sort(out)
	return out
}

// Close stops watching and waits for the event loop to exit.
func (w *ScriptWatcher) Close() error {
	var err error
	w.once.Do(func() {
		err = w.fs.Close()
		<-w.done
	})
	return err
}

func (w *ScriptWatcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 || !isScriptFile(event.Name) {
				continue
			}
			w.mu.Lock()
			w.changed[filepath.Base(event.Name)] = struct{}{}
			w.mu.Unlock()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("prefabs: script watcher: %v", err)
		}
	}
}

func isScriptFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".tengo")
}
