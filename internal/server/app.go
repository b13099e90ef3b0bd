package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"

	"FreshmanRoll/assets"
	"FreshmanRoll/internal/director"
	"FreshmanRoll/internal/progress"
	"FreshmanRoll/internal/progress/sqlite"
	"FreshmanRoll/internal/route"
	"FreshmanRoll/internal/timeline"
)

// App is the assembled host: stage, progress store and HTTP handler.
type App struct {
	cfg   AppConfig
	stage *Stage
	store progress.Store
}

// TimelineFS returns the timeline sources selected by cfg.
func TimelineFS(cfg AppConfig) fs.FS {
	if cfg.TimelineDir == "" {
		return assets.Narrative()
	}
	return os.DirFS(cfg.TimelineDir)
}

// OpenStore opens the progress store selected by cfg.
func OpenStore(cfg AppConfig) (progress.Store, error) {
	if cfg.ProgressDB == "" {
		return progress.NewMemoryStore(), nil
	}
	store, err := sqlite.Open(cfg.ProgressDB)
	if err != nil {
		return nil, fmt.Errorf("open progress db: %w", err)
	}
	return store, nil
}

// NewApp builds the host and restores saved progress.
func NewApp(ctx context.Context, cfg AppConfig) (*App, error) {
	cfg = sanitizeConfig(cfg)
	store, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}
	d := director.New(route.DefaultRegistry(), timeline.NewLoader(TimelineFS(cfg)), progress.NewTracker(), store)
	if err := d.LoadProgress(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return &App{cfg: cfg, stage: NewStage(d, cfg.TickHz), store: store}, nil
}

// Stage returns the app's stage.
func (a *App) Stage() *Stage { return a.stage }

// Handler returns the HTTP API and websocket endpoint.
func (a *App) Handler() http.Handler { return newMux(a.stage) }

// Close releases the progress store.
func (a *App) Close() error { return a.store.Close() }

// Run serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.stage.Run(ctx)
	if a.cfg.WatchTimelines {
		a.watchTimelines(ctx)
	}

	srv := &http.Server{Addr: a.cfg.Addr, Handler: a.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = srv.Shutdown(shutdownCtx)
	}()

	source := a.cfg.TimelineDir
	if source == "" {
		source = "bundled"
	}
	log.Printf("starting web server on %s (tick %.0f Hz, timelines %s)", a.cfg.Addr, a.cfg.TickHz, source)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) watchTimelines(ctx context.Context) {
	if a.cfg.TimelineDir == "" {
		log.Printf("[story] timeline watch requested but timelines are bundled; skipping")
		return
	}
	go func() {
		err := timeline.Watch(ctx, []string{a.cfg.TimelineDir}, 0, func(r timeline.Report) {
			if !r.OK() {
				log.Printf("[story] timeline changed and is invalid: %v", r.Err)
				return
			}
			log.Printf("[story] timeline %s reloaded: %q, %d beats", r.Path, r.Document.Title, r.Document.Len())
			for _, w := range r.Warnings {
				log.Printf("[story] %s: %s", r.Path, w)
			}
		})
		if err != nil {
			log.Printf("[story] timeline watch stopped: %v", err)
		}
	}()
}

// StartApp builds and runs the host until ctx is cancelled.
func StartApp(ctx context.Context, cfg AppConfig) error {
	app, err := NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.Run(ctx)
}
