package addrspace

import (
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/edge-opcua/opcuacore/internal/logger"
)

// Watcher reloads an AddressSpace from a NodeSet XML file whenever it
// changes on disk, so a server doesn't need a restart to pick up an edited
// node set (spec §4.H, the NodeSet loader's hot-reload path).
type Watcher struct {
	path    string
	opts    []Option
	current atomic.Pointer[AddressSpace]
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// WatchNodeSet performs an initial LoadNodeSet of path, then starts
// watching its containing directory for writes to that file, reloading on
// each one. The initial load error is returned synchronously; reload
// errors afterward are logged and leave the previously loaded
// AddressSpace in place (a bad edit must not take a running server's
// address space away).
func WatchNodeSet(path string, opts ...Option) (*Watcher, error) {
	space, err := loadNodeSetFile(path, opts...)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{path: path, opts: opts, watcher: fw, done: make(chan struct{})}
	w.current.Store(space)
	go w.run()
	return w, nil
}

func loadNodeSetFile(path string, opts ...Option) (*AddressSpace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadNodeSet(f, opts...)
}

func (w *Watcher) run() {
	log := logger.Get()
	target := filepath.Clean(w.path)
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			space, err := loadNodeSetFile(w.path, w.opts...)
			if err != nil {
				log.Sugar().Warnf("addrspace: reload of %s failed, keeping previous address space: %v", w.path, err)
				continue
			}
			w.current.Store(space)
			log.Sugar().Infof("addrspace: reloaded %s (%d nodes)", w.path, space.Len())
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Sugar().Warnf("addrspace: watch error on %s: %v", w.path, err)
		case <-w.done:
			return
		}
	}
}

// Current returns the most recently (re)loaded AddressSpace.
func (w *Watcher) Current() *AddressSpace {
	return w.current.Load()
}

// Close stops the watch goroutine and releases the underlying fsnotify
// handle.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
