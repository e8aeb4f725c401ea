package engine

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tartampluch/go-weekcalendar/internal/config"
)

// Publisher receives every freshly generated document.
type Publisher interface {
	Publish(route, contentType string, data []byte)
}

// Worker keeps the published documents in sync with the config file.
type Worker struct {
	Generator *Generator
	Request   Request
	Publisher Publisher
	// Debounce defaults to config.WatchDebounce.
	Debounce time.Duration
}

// Run generates once, then regenerates whenever the config file is
// written or created. A failed regeneration keeps the
// previous documents published. Run returns when ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrWatcher, err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors often replace the file on save, so the directory is watched.
	target := filepath.Clean(w.Request.ConfigPath)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWatcher, err)
	}

	w.regenerate(ctx, log)

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = config.WatchDebounce
	}
	var pending <-chan time.Time

	log.Info(config.MsgWorkerStart, config.LogKeyPath, target)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			log.Debug(config.MsgConfigChanged, config.LogKeyOp, ev.Op.String())
			pending = time.After(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn(config.ErrWatcher, config.LogKeyError, err)

		case <-pending:
			pending = nil
			log.Info(config.MsgDebounced)
			w.regenerate(ctx, log)
		}
	}
}

func (w *Worker) regenerate(ctx context.Context, log *slog.Logger) {
	res, err := w.Generator.Run(ctx, w.Request)
	if err != nil {
		log.Error(config.ErrRegenerateFailed, config.LogKeyError, err)
		return
	}
	w.Publisher.Publish(config.RouteODT, config.MimeODT, res.ODT)
	if res.ICS != nil {
		w.Publisher.Publish(config.RouteICS, config.MimeTextCalendar, res.ICS)
	}
	log.Info(config.MsgPublished, config.LogKeyYear, res.Calendar.Year)
}
