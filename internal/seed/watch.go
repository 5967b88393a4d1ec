package seed

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce absorbs the burst of events an editor produces on save.
const debounce = 300 * time.Millisecond

// Watch applies the seed file once, then again every time it changes,
// until ctx is cancelled. Errors from re-applying are logged, not
// returned, so a typo in the file does not stop the watcher.
func (s *Seeder) Watch(ctx context.Context, path string) error {
	path = filepath.Clean(path)
	res, err := s.ApplyFile(ctx, path)
	if err != nil {
		return err
	}
	logResult(path, res)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// watch the directory: editors often replace the file instead of
	// writing it in place
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	log.Printf("Watching %s for changes", path)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			res, err := s.ApplyFile(ctx, path)
			if err != nil {
				log.Printf("Error applying %s: %v", path, err)
				continue
			}
			logResult(path, res)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}
