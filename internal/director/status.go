package director

import (
	"FreshmanRoll/internal/playback"
	"FreshmanRoll/internal/route"
)

// Status describes the live session, if any.
type Status struct {
	State      playback.State `json:"state"`
	Paused     bool           `json:"paused"`
	SessionID  string         `json:"session_id,omitempty"`
	RouteID    int            `json:"route_id,omitempty"`
	Title      string         `json:"title,omitempty"`
	Position   int            `json:"position,omitempty"` // 1-based
	Total      int            `json:"total,omitempty"`
	RemainingS float64        `json:"remaining_s,omitempty"`
	Beat       *BeatPayload   `json:"beat,omitempty"`
}

// Status reports the current session.
func (d *Director) Status() Status {
	st := Status{State: d.player.State(), Paused: d.paused}
	sess := d.player.Session()
	if sess == nil {
		return st
	}
	doc := sess.Document()
	st.SessionID = sess.ID
	st.RouteID = d.activeRoute
	st.Title = doc.Title
	st.Position = sess.Position() + 1
	st.Total = doc.Len()
	st.RemainingS = sess.Remaining().Seconds()
	if b, ok := sess.CurrentFrame(); ok {
		p := beatPayload(sess.ID, d.activeRoute, doc, sess.Position(), b)
		st.Beat = &p
	}
	return st
}

// ProgressView summarizes completion for display.
type ProgressView struct {
	Completed    []route.Ending `json:"completed"`
	Remaining    []route.Ending `json:"remaining"`
	MetaUnlocked bool           `json:"meta_unlocked"`
}

// Progress returns the tracker's current state.
func (d *Director) Progress() ProgressView {
	return ProgressView{
		Completed:    d.tracker.Completed(),
		Remaining:    d.tracker.Remaining(),
		MetaUnlocked: d.tracker.MetaUnlocked(),
	}
}

// Routes lists the configured routes.
func (d *Director) Routes() []route.Route { return d.registry.Routes() }

// Route returns the route registered under id.
func (d *Director) Route(id int) (route.Route, bool) { return d.registry.Resolve(id) }
