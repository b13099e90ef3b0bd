// Package progress records completed endings and decides when the meta
// ending unlocks.
package progress

import (
	"errors"
	"fmt"

	"FreshmanRoll/internal/route"
)

// ErrUnknownEnding is returned when marking an ending outside the enumeration.
var ErrUnknownEnding = errors.New("progress: unknown ending")

// Record is the logical progress state.
type Record struct {
	Completed    []route.Ending `json:"completed"`
	MetaUnlocked bool           `json:"meta_unlocked"`
}

// Tracker owns the completed-ending set. MarkCompleted is the only way to
// add to it during play, and the unlock flag only ever moves false to true.
type Tracker struct {
	required     []route.Ending
	completed    map[route.Ending]bool
	metaUnlocked bool
}

// NewTracker returns an empty tracker requiring every primary ending.
func NewTracker() *Tracker {
	return &Tracker{
		required:  route.PrimaryEndings(),
		completed: make(map[route.Ending]bool),
	}
}

// MarkCompleted records e and reports whether this call unlocked the meta
// ending. Re-marking an ending changes nothing.
func (t *Tracker) MarkCompleted(e route.Ending) (bool, error) {
	if !e.Valid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownEnding, e)
	}
	t.completed[e] = true
	return t.updateUnlock(), nil
}

func (t *Tracker) updateUnlock() bool {
	if t.metaUnlocked || !t.allRequiredCompleted() {
		return false
	}
	t.metaUnlocked = true
	return true
}

func (t *Tracker) allRequiredCompleted() bool {
	for _, e := range t.required {
		if !t.completed[e] {
			return false
		}
	}
	return true
}

// Has reports whether e has been completed.
func (t *Tracker) Has(e route.Ending) bool { return t.completed[e] }

// MetaUnlocked reports whether the meta ending is unlocked.
func (t *Tracker) MetaUnlocked() bool { return t.metaUnlocked }

// Completed returns the completed endings in canonical order.
func (t *Tracker) Completed() []route.Ending {
	out := []route.Ending{}
	for _, e := range route.Endings() {
		if t.completed[e] {
			out = append(out, e)
		}
	}
	return out
}

// Remaining returns the required endings not yet completed.
func (t *Tracker) Remaining() []route.Ending {
	out := []route.Ending{}
	for _, e := range t.required {
		if !t.completed[e] {
			out = append(out, e)
		}
	}
	return out
}

// Snapshot copies the current state.
func (t *Tracker) Snapshot() Record {
	return Record{Completed: t.Completed(), MetaUnlocked: t.metaUnlocked}
}

// Restore merges a previously saved record into the tracker. It only adds:
// endings are unioned and an unlocked flag stays unlocked. Unknown endings
// in the record are skipped and reported in the returned error.
func (t *Tracker) Restore(rec Record) error {
	var unknown []string
	for _, e := range rec.Completed {
		if !e.Valid() {
			unknown = append(unknown, string(e))
			continue
		}
		t.completed[e] = true
	}
	if rec.MetaUnlocked {
		t.metaUnlocked = true
	}
	t.updateUnlock()
	if len(unknown) > 0 {
		return fmt.Errorf("%w: %v", ErrUnknownEnding, unknown)
	}
	return nil
}
