// Package playback plays a timeline document forward on a wall-clock tick.
//
// A Controller owns at most one Session. Each beat is shown for exactly its
// declared duration: when a beat's timer fills, the timer is reseeded from
// the next beat's duration and any overflow is discarded, so error never
// accumulates across beats.
package playback

import (
	"time"

	"FreshmanRoll/internal/timeline"

	"github.com/google/uuid"
)

// Session is one in-progress traversal of a document's beats.
type Session struct {
	ID string

	doc      *timeline.Document
	current  int
	elapsed  time.Duration
	duration time.Duration
	finished bool
}

func newSession(doc *timeline.Document) *Session {
	return &Session{
		ID:       uuid.NewString(),
		doc:      doc,
		duration: doc.Beats[0].Duration(),
	}
}

// Document returns the timeline being played.
func (s *Session) Document() *timeline.Document { return s.doc }

// Position returns the 0-based index of the current beat. Once finished it
// equals the number of beats.
func (s *Session) Position() int { return s.current }

// Finished reports whether every beat has been played.
func (s *Session) Finished() bool { return s.finished }

// Remaining returns the time left on the current beat.
func (s *Session) Remaining() time.Duration {
	if s.finished {
		return 0
	}
	return s.duration - s.elapsed
}

// Tick advances the beat timer by elapsed. It returns true when the session
// moved on to a new beat. Reaching the end of the document sets Finished and
// returns false; ticking a finished session does nothing.
func (s *Session) Tick(elapsed time.Duration) bool {
	if s.finished {
		return false
	}
	if elapsed > 0 {
		s.elapsed += elapsed
	}
	if s.elapsed < s.duration {
		return false
	}

	s.current++
	s.elapsed = 0
	if next, ok := s.doc.Beat(s.current); ok {
		s.duration = next.Duration()
		return true
	}
	s.duration = 0
	s.finished = true
	return false
}

// CurrentFrame returns the beat on screen, or false once finished.
func (s *Session) CurrentFrame() (timeline.Beat, bool) {
	if s.finished {
		return timeline.Beat{}, false
	}
	return s.doc.Beat(s.current)
}
