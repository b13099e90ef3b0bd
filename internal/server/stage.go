package server

import (
	"context"
	"log"
	"sync"
	"time"

	"FreshmanRoll/internal/director"
	"FreshmanRoll/internal/route"
)

// Stage serializes access to the director and fans its events out to
// connected clients.
type Stage struct {
	Mu       sync.Mutex
	director *director.Director
	tickHz   float64
	clients  map[string]*liveConn
}

// NewStage wraps d. tickHz controls how often Run advances playback.
func NewStage(d *director.Director, tickHz float64) *Stage {
	if tickHz <= 0 {
		tickHz = defaultTickHz
	}
	return &Stage{
		director: d,
		tickHz:   tickHz,
		clients:  map[string]*liveConn{},
	}
}

// Run ticks the director until ctx is cancelled. Each tick is fed the
// measured wall-clock delta since the last one.
func (s *Stage) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(float64(time.Second) / s.tickHz))
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Step(ctx, now.Sub(last))
			last = now
		}
	}
}

// Step runs a single director tick and queues the resulting events on
// every client.
func (s *Stage) Step(ctx context.Context, elapsed time.Duration) []director.Event {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	events := s.director.Tick(ctx, elapsed)
	if len(events) > 0 {
		for _, c := range s.clients {
			c.queue(events...)
		}
	}
	return events
}

// Enqueue forwards cmd to the director's next tick.
func (s *Stage) Enqueue(cmd director.Command) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	s.director.Enqueue(cmd)
}

// Status reports the live session.
func (s *Stage) Status() director.Status {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return s.director.Status()
}

// Progress reports completion.
func (s *Stage) Progress() director.ProgressView {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return s.director.Progress()
}

// Routes lists the route table.
func (s *Stage) Routes() []route.Route {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return s.director.Routes()
}

// HasRoute reports whether id is a known route.
func (s *Stage) HasRoute(id int) bool {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	_, ok := s.director.Route(id)
	return ok
}

// attach registers c and queues the current status as its first frame. Both
// happen under Mu so no tick falls between the greeting and registration.
func (s *Stage) attach(c *liveConn) {
	s.Mu.Lock()
	c.queue(director.Event{Type: eventSession, Payload: s.director.Status()})
	s.clients[c.id] = c
	n := len(s.clients)
	s.Mu.Unlock()
	log.Printf("[ws] client %s connected (%d total)", c.id, n)
}

func (s *Stage) removeClient(c *liveConn) {
	s.Mu.Lock()
	delete(s.clients, c.id)
	n := len(s.clients)
	s.Mu.Unlock()
	log.Printf("[ws] client %s disconnected (%d remaining)", c.id, n)
}

// ClientCount returns the number of connected clients.
func (s *Stage) ClientCount() int {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return len(s.clients)
}
