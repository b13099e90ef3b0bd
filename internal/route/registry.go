// Package route maps route triggers to the timeline they play and the
// ending completing them registers.
package route

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrInvalidRoute is returned for routes with a non-positive ID or empty source.
	ErrInvalidRoute = errors.New("route: invalid route")
	// ErrDuplicateRoute is returned when two routes share an ID.
	ErrDuplicateRoute = errors.New("route: duplicate route id")
	// ErrUnknownEnding is returned when a route names an ending outside the enumeration.
	ErrUnknownEnding = errors.New("route: unknown ending")
)

// Route is one narrative entry point.
type Route struct {
	ID     int    `json:"id"`
	Source string `json:"source"` // timeline source id
	Ending Ending `json:"ending"` // ending registered on completion
}

// Registry is a static lookup from route ID to Route.
type Registry struct {
	routes map[int]Route
}

// NewRegistry validates routes and indexes them by ID.
func NewRegistry(routes []Route) (*Registry, error) {
	r := &Registry{routes: make(map[int]Route, len(routes))}
	for _, rt := range routes {
		if rt.ID <= 0 || rt.Source == "" {
			return nil, fmt.Errorf("%w: id %d source %q", ErrInvalidRoute, rt.ID, rt.Source)
		}
		if !rt.Ending.Valid() {
			return nil, fmt.Errorf("%w: route %d ending %q", ErrUnknownEnding, rt.ID, rt.Ending)
		}
		if _, exists := r.routes[rt.ID]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateRoute, rt.ID)
		}
		r.routes[rt.ID] = rt
	}
	return r, nil
}

// DefaultRegistry returns the reference route table.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(defaultRoutes())
	if err != nil {
		panic(err) // static table
	}
	return r
}

func defaultRoutes() []Route {
	return []Route{
		{ID: 1, Source: "path1_true_wake.yaml", Ending: EndingTrueWake},
		{ID: 2, Source: "path2_sunk_legend.yaml", Ending: EndingSunkLegend},
		{ID: 3, Source: "path3_cycle_breaker.yaml", Ending: EndingCycleBreaker},
		{ID: 4, Source: "path4_fragmented_mind.yaml", Ending: EndingFragmentedMind},
		{ID: 5, Source: "path5_puppetmaster.yaml", Ending: EndingPuppetmaster},
		{ID: 6, Source: "path6_legend.yaml", Ending: EndingLegend},
	}
}

// Resolve returns the route registered under id.
func (r *Registry) Resolve(id int) (Route, bool) {
	if r == nil {
		return Route{}, false
	}
	rt, ok := r.routes[id]
	return rt, ok
}

// ResolveSource returns the timeline source for id.
func (r *Registry) ResolveSource(id int) (string, bool) {
	rt, ok := r.Resolve(id)
	return rt.Source, ok
}

// ResolveEnding returns the ending completing id registers.
func (r *Registry) ResolveEnding(id int) (Ending, bool) {
	rt, ok := r.Resolve(id)
	return rt.Ending, ok
}

// Routes returns every route sorted by ID.
func (r *Registry) Routes() []Route {
	if r == nil {
		return nil
	}
	out := make([]Route, 0, len(r.routes))
	for _, rt := range r.routes {
		out = append(out, rt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
