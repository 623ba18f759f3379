// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package main

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watcher signals changes to a file.
// The directory of the file is watched rather than the
// file itself, since editors often replace files on save.
type watcher struct {
	// C receives a value when the file changes.
	// Changes that arrive while a value is pending are
	// coalesced.
	C <-chan struct{}

	w    *fsnotify.Watcher
	done chan struct{}
}

func newWatcher(file string, log *slog.Logger) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	file = filepath.Clean(file)
	if err := fw.Add(filepath.Dir(file)); err != nil {
		fw.Close()
		return nil, err
	}
	c := make(chan struct{}, 1)
	w := &watcher{C: c, w: fw, done: make(chan struct{})}
	go func() {
		defer close(w.done)
		for {
			select {
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != file {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				log.Debug("scene file changed", "file", file, "op", ev.Op)
				select {
				case c <- struct{}{}:
				default:
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				log.Warn("watch failed", "file", file, "err", err)
			}
		}
	}()
	return w, nil
}

// close stops watching and waits for the watch goroutine
// to exit.
func (w *watcher) close() {
	w.w.Close()
	<-w.done
}
