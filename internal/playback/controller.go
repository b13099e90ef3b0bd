package playback

import (
	"errors"
	"fmt"
	"time"

	"FreshmanRoll/internal/timeline"
)

var (
	// ErrSessionActive is returned when starting while a session is live.
	ErrSessionActive = errors.New("playback: session already active")
	// ErrEmptyDocument is returned when starting a document with no beats.
	ErrEmptyDocument = errors.New("playback: document has no beats")
	// ErrNotFinished is returned when acknowledging a session that is still playing.
	ErrNotFinished = errors.New("playback: session not finished")
)

// State is the controller's lifecycle phase.
type State string

const (
	StateIdle     State = "idle"
	StatePlaying  State = "playing"
	StateFinished State = "finished"
)

// Controller owns the single live session.
type Controller struct {
	session *Session
}

// NewController returns an idle controller.
func NewController() *Controller { return &Controller{} }

// State reports the current phase.
func (c *Controller) State() State {
	switch {
	case c.session == nil:
		return StateIdle
	case c.session.Finished():
		return StateFinished
	default:
		return StatePlaying
	}
}

// Session returns the live session, or nil when idle.
func (c *Controller) Session() *Session { return c.session }

// Start begins playing doc from its first beat.
func (c *Controller) Start(doc *timeline.Document) (*Session, error) {
	if c.session != nil {
		return nil, fmt.Errorf("%w: %s (%s)", ErrSessionActive, c.session.ID, c.State())
	}
	if doc.Len() == 0 {
		return nil, ErrEmptyDocument
	}
	c.session = newSession(doc)
	return c.session, nil
}

// Tick advances the live session. It reports whether a new beat started.
func (c *Controller) Tick(elapsed time.Duration) bool {
	if c.session == nil {
		return false
	}
	return c.session.Tick(elapsed)
}

// CurrentFrame returns the beat on screen, if any.
func (c *Controller) CurrentFrame() (timeline.Beat, bool) {
	if c.session == nil {
		return timeline.Beat{}, false
	}
	return c.session.CurrentFrame()
}

// Acknowledge releases a finished session and returns to idle.
func (c *Controller) Acknowledge() (*Session, error) {
	if c.session == nil {
		return nil, nil
	}
	if !c.session.Finished() {
		return nil, fmt.Errorf("%w: %s at beat %d", ErrNotFinished, c.session.ID, c.session.Position()+1)
	}
	s := c.session
	c.session = nil
	return s, nil
}

// Abort drops the live session regardless of phase.
func (c *Controller) Abort() (*Session, bool) {
	s := c.session
	c.session = nil
	return s, s != nil
}
