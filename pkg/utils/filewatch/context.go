// Package filewatch cancels contexts on file changes.
//
// landmarksd uses it to stop when its config file or the schema repository is updated,
// so that the supervisor restarts it with the new one.
package filewatch

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// significant changes. Chmod is not.
const changes = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// UntilModifyContext returns a context canceled when one of the files
// (or a file in the directories) is written, created, removed or renamed.
//
// context.Cause of the returned context tells which file is changed.
//
// # Args
//
// - ctx: parent context
//
// - paths: files or directories to be watched.
//
// # Returns
//
// - context.Context
//
// - func(): cancel the context and stop watching.
//
// - error: caused when it fails to start watching. Then, context and cancel are nil.
func UntilModifyContext(ctx context.Context, paths ...string) (context.Context, func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	for _, p := range paths {
		if err := w.Add(p); err != nil {
			w.Close()
			return nil, nil, err
		}
	}

	cctx, cancel := context.WithCancelCause(ctx)
	go func() {
		defer w.Close()
		for {
			select {
			case <-cctx.Done():
				return
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				cancel(fmt.Errorf("watching files: %w", err))
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&changes == 0 {
					continue
				}
				cancel(fmt.Errorf("%s is updated (%s)", ev.Name, ev.Op))
				return
			}
		}
	}()

	return cctx, func() { cancel(nil) }, nil
}
