// Package director wires route resolution, playback and progress tracking
// into a single tick loop.
//
// Each Tick runs in a fixed order: queued commands are drained first, then
// the live session is advanced, then a finished session registers its ending
// with the tracker and is released. A session started during a tick is not
// advanced until the next one. A Director is not safe for concurrent use;
// callers serialize access the way a room serializes its simulation.
package director

import (
	"context"
	"log"
	"time"

	"FreshmanRoll/internal/playback"
	"FreshmanRoll/internal/progress"
	"FreshmanRoll/internal/route"
	"FreshmanRoll/internal/timeline"
)

// Director owns the single playback controller and the completion tracker.
type Director struct {
	registry *route.Registry
	loader   *timeline.Loader
	player   *playback.Controller
	tracker  *progress.Tracker
	store    progress.Store

	inbox       []Command
	outbox      []Event
	activeRoute int
	paused      bool
}

// New returns an idle director. store may be nil, in which case progress is
// kept in memory only.
func New(registry *route.Registry, loader *timeline.Loader, tracker *progress.Tracker, store progress.Store) *Director {
	if tracker == nil {
		tracker = progress.NewTracker()
	}
	return &Director{
		registry: registry,
		loader:   loader,
		player:   playback.NewController(),
		tracker:  tracker,
		store:    store,
	}
}

// LoadProgress restores the tracker from the store. Unknown endings in the
// stored record are logged and skipped.
func (d *Director) LoadProgress(ctx context.Context) error {
	if d.store == nil {
		return nil
	}
	rec, err := d.store.Load(ctx)
	if err != nil {
		return err
	}
	if err := d.tracker.Restore(rec); err != nil {
		log.Printf("[progress] restore: %v", err)
	}
	log.Printf("[progress] restored %d completed endings (meta unlocked: %t)",
		len(d.tracker.Completed()), d.tracker.MetaUnlocked())
	return nil
}

// Enqueue queues cmd for the next tick.
func (d *Director) Enqueue(cmd Command) {
	if cmd == nil {
		return
	}
	d.inbox = append(d.inbox, cmd)
}

// Tick processes queued commands, advances playback by elapsed and handles
// completion. It returns the events produced, in order.
func (d *Director) Tick(ctx context.Context, elapsed time.Duration) []Event {
	inbox := d.inbox
	d.inbox = nil

	started := false
	for _, cmd := range inbox {
		switch c := cmd.(type) {
		case StartRoute:
			if d.startRoute(c.RouteID) {
				started = true
			}
		case Abort:
			d.abort()
		case Pause:
			d.setPaused(true)
		case Resume:
			d.setPaused(false)
		default:
			log.Printf("[route] ignoring unknown command %T", cmd)
		}
	}

	if !started && !d.paused {
		d.advance(ctx, elapsed)
	}

	events := d.outbox
	d.outbox = nil
	return events
}

func (d *Director) emit(t EventType, payload any) {
	d.outbox = append(d.outbox, Event{Type: t, Payload: payload})
}

func (d *Director) startRoute(id int) bool {
	if state := d.player.State(); state != playback.StateIdle {
		log.Printf("[route] ignoring start of route %d: session %s is %s", id, d.player.Session().ID, state)
		return false
	}
	rt, ok := d.registry.Resolve(id)
	if !ok {
		log.Printf("[route] unknown route %d", id)
		return false
	}
	doc, err := d.loader.LoadFromSource(rt.Source)
	if err != nil {
		log.Printf("[story] failed to load route %d: %v", id, err)
		return false
	}
	sess, err := d.player.Start(doc)
	if err != nil {
		log.Printf("[story] failed to start route %d: %v", id, err)
		return false
	}
	for _, w := range timeline.Lint(doc) {
		log.Printf("[story] %s: %s", rt.Source, w)
	}

	d.activeRoute = id
	d.paused = false
	log.Printf("[story] ===== %s =====", doc.Title)
	log.Printf("[story] session %s route %d: %d beats", sess.ID, id, doc.Len())
	d.emitBeat(sess)
	return true
}

func (d *Director) abort() {
	sess, ok := d.player.Abort()
	if !ok {
		return
	}
	log.Printf("[story] session %s route %d aborted at beat %d", sess.ID, d.activeRoute, sess.Position()+1)
	d.emit(EventSessionClosed, SessionClosedPayload{SessionID: sess.ID, RouteID: d.activeRoute, Reason: CloseAborted})
	d.activeRoute = 0
	d.paused = false
}

func (d *Director) setPaused(paused bool) {
	if d.player.State() != playback.StatePlaying {
		return
	}
	if d.paused != paused {
		log.Printf("[story] session %s paused: %t", d.player.Session().ID, paused)
	}
	d.paused = paused
}

func (d *Director) advance(ctx context.Context, elapsed time.Duration) {
	if d.player.Tick(elapsed) {
		d.emitBeat(d.player.Session())
	}
	if d.player.State() == playback.StateFinished {
		d.complete(ctx)
	}
}

func (d *Director) emitBeat(sess *playback.Session) {
	b, ok := sess.CurrentFrame()
	if !ok {
		return
	}
	log.Printf("[story] beat %02d: %s | time: %s | light: %s | notes: %s", b.Index, b.Camera, b.Time, b.Lighting, b.Notes)
	d.emit(EventBeat, beatPayload(sess.ID, d.activeRoute, sess.Document(), sess.Position(), b))
}

func (d *Director) complete(ctx context.Context) {
	sess, err := d.player.Acknowledge()
	if err != nil || sess == nil {
		return
	}
	routeID := d.activeRoute
	d.activeRoute = 0
	d.paused = false

	ending, ok := d.registry.ResolveEnding(routeID)
	if !ok {
		log.Printf("[route] no ending mapped for route %d; progress unchanged", routeID)
	} else {
		log.Printf("[story] session %s route %d completed: %s", sess.ID, routeID, ending.Label())
		d.emit(EventEndingCompleted, EndingPayload{SessionID: sess.ID, RouteID: routeID, Ending: ending, Label: ending.Label()})
		newly, err := d.tracker.MarkCompleted(ending)
		if err != nil {
			log.Printf("[progress] mark %s: %v", ending, err)
		}
		if newly {
			log.Printf("[progress] all primary endings complete; unlocked %s", route.EndingFinalBell.Label())
			d.emit(EventMetaUnlocked, MetaUnlockedPayload{Ending: route.EndingFinalBell, Label: route.EndingFinalBell.Label()})
		}
		d.persist(ctx)
	}
	d.emit(EventSessionClosed, SessionClosedPayload{SessionID: sess.ID, RouteID: routeID, Reason: CloseFinished})
}

func (d *Director) persist(ctx context.Context) {
	if d.store == nil {
		return
	}
	if err := d.store.Save(ctx, d.tracker.Snapshot()); err != nil {
		log.Printf("[progress] save: %v", err)
	}
}
