package director

import (
	"fmt"
	"math"

	"FreshmanRoll/internal/route"
	"FreshmanRoll/internal/timeline"
)

// Command is an inbound request processed at the start of the next tick.
type Command interface {
	command()
}

// StartRoute asks to begin the route with the given ID.
type StartRoute struct {
	RouteID int `json:"route_id"`
}

// Abort drops the live session.
type Abort struct{}

// Pause stops playback from advancing until Resume.
type Pause struct{}

// Resume continues a paused session.
type Resume struct{}

func (StartRoute) command() {}
func (Abort) command()      {}
func (Pause) command()      {}
func (Resume) command()     {}

// EventType names an outbound signal.
type EventType string

const (
	// EventBeat reports the beat now on screen.
	EventBeat EventType = "beat"
	// EventEndingCompleted reports an ending registered by a finished session.
	EventEndingCompleted EventType = "ending_completed"
	// EventMetaUnlocked reports the meta ending unlock. Emitted once.
	EventMetaUnlocked EventType = "meta_unlocked"
	// EventSessionClosed reports that a session was released.
	EventSessionClosed EventType = "session_closed"
)

// Event is an outbound signal produced by a tick.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
}

// BeatPayload describes the beat now on screen.
type BeatPayload struct {
	SessionID string  `json:"session_id"`
	RouteID   int     `json:"route_id"`
	Title     string  `json:"title"`
	Position  int     `json:"position"` // 1-based
	Total     int     `json:"total"`
	Index     int     `json:"index"`
	Time      string  `json:"time"`
	Camera    string  `json:"camera"`
	Lighting  string  `json:"lighting"`
	Notes     string  `json:"notes"`
	DurationS float64 `json:"duration_s"`
	Color     string  `json:"color"` // backdrop hint, "#rrggbb"
}

// EndingPayload describes a registered ending.
type EndingPayload struct {
	SessionID string       `json:"session_id"`
	RouteID   int          `json:"route_id"`
	Ending    route.Ending `json:"ending"`
	Label     string       `json:"label"`
}

// MetaUnlockedPayload names the unlocked meta ending.
type MetaUnlockedPayload struct {
	Ending route.Ending `json:"ending"`
	Label  string       `json:"label"`
}

// CloseReason explains why a session closed.
type CloseReason string

const (
	CloseFinished CloseReason = "finished"
	CloseAborted  CloseReason = "aborted"
)

// SessionClosedPayload describes a released session.
type SessionClosedPayload struct {
	SessionID string      `json:"session_id"`
	RouteID   int         `json:"route_id"`
	Reason    CloseReason `json:"reason"`
}

func beatPayload(sessionID string, routeID int, doc *timeline.Document, pos int, b timeline.Beat) BeatPayload {
	return BeatPayload{
		SessionID: sessionID,
		RouteID:   routeID,
		Title:     doc.Title,
		Position:  pos + 1,
		Total:     doc.Len(),
		Index:     b.Index,
		Time:      b.Time,
		Camera:    b.Camera,
		Lighting:  b.Lighting,
		Notes:     b.Notes,
		DurationS: b.DurationSeconds(),
		Color:     ColorForIndex(b.Index),
	}
}

// ColorForIndex derives a stable backdrop colour for a beat index.
func ColorForIndex(i int) string {
	channel := func(mul int) uint8 {
		v := float64((i*mul)%255) / 255
		v = math.Max(v, 0.15)
		return uint8(math.Round(v * 255))
	}
	return fmt.Sprintf("#%02x%02x%02x", channel(37), channel(83), channel(149))
}
