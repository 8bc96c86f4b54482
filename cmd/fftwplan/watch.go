package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"

	"github.com/qhuang00/fftw3"
)

// watchWisdom reloads path into pl every time it changes on disk, until
// interrupted. It is meant for a long-running planning daemon that wants
// to pick up wisdom blessed by a separate offline tuning run without
// restarting.
func watchWisdom(pl *fftw3.Planner, path string, log *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	log.Info("watching wisdom file for changes", "path", path)
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := reimport(pl, path, log); err != nil {
				log.Warn("reimport failed", "path", path, "err", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "err", err)
		case <-sigCh:
			log.Info("watch interrupted")
			return nil
		}
	}
}

func reimport(pl *fftw3.Planner, path string, log *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	pl.Forget(fftw3.ForgetAccursed)
	ok, err := pl.ImportWisdom(f)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("import reported failure with no error")
	}
	stats := pl.Stats()
	log.Info("wisdom reloaded", "count", stats.Count)
	return nil
}
